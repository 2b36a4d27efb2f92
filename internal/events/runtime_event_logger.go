package events

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func levelOf(name string, payload any) Level {
	switch p := payload.(type) {
	case TokenEvent:
		return LevelDebug
	case StatusEvent:
		if p.Error != "" {
			return LevelError
		}
	}
	if name == LLMToken {
		return LevelDebug
	}
	return LevelInfo
}

func logRuntimeEvent(ctx context.Context, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		runtime.LogError(ctx, "loggers: failed to marshal event "+name+": "+err.Error())
		return
	}

	line := name + " " + string(data)

	switch levelOf(name, payload) {
	case LevelDebug:
		runtime.LogDebug(ctx, line)
	case LevelError:
		runtime.LogError(ctx, line)
	default:
		runtime.LogInfo(ctx, line)
	}
}
