package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"proof/internal/models"
)

const (
	LLMToken        = "events:llm:token"
	LLMDone         = "events:llm:done"
	ModelPull       = "events:model:pull"
	OllamaStatus    = "events:ollama:status"
	SettingsChanged = "events:settings:changed"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// TokenEvent carries one generated fragment.
type TokenEvent struct {
	ID       string `json:"id"`
	StreamID string `json:"streamId,omitempty"`
	Token    string `json:"token"`
}

// DoneEvent is emitted exactly once per stream that reached its end marker.
type DoneEvent struct {
	ID        string    `json:"id"`
	StreamID  string    `json:"streamId,omitempty"`
	Done      bool      `json:"done"`
	Tokens    int       `json:"tokens"`
	Timestamp time.Time `json:"timestamp"`
}

type PullEvent struct {
	ID string `json:"id"`
	models.PullProgress
}

// StatusEvent reports the supervisor state after an ensure call.
type StatusEvent struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Running   bool      `json:"running"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewToken(ctx context.Context, token string) TokenEvent {
	return TokenEvent{ID: uuid.NewString(), StreamID: StreamFromContext(ctx), Token: token}
}

func NewDone(ctx context.Context, tokens int) DoneEvent {
	return DoneEvent{
		ID:        uuid.NewString(),
		StreamID:  StreamFromContext(ctx),
		Done:      true,
		Tokens:    tokens,
		Timestamp: time.Now(),
	}
}

func NewPull(p models.PullProgress) PullEvent {
	return PullEvent{ID: uuid.NewString(), PullProgress: p}
}

func NewStatus(state string, running bool, err error) StatusEvent {
	evt := StatusEvent{
		ID:        uuid.NewString(),
		State:     state,
		Running:   running,
		Timestamp: time.Now(),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	return evt
}

type contextKey string

const streamContextKey contextKey = "proof/events/stream"

// WithStream returns a derived context annotated with the given stream id so
// token and done events can be told apart by the UI.
func WithStream(ctx context.Context, streamID string) context.Context {
	if strings.TrimSpace(streamID) == "" {
		return ctx
	}
	return context.WithValue(ctx, streamContextKey, streamID)
}

// StreamFromContext extracts the stream id associated with ctx.
func StreamFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(streamContextKey).(string); ok {
		return v
	}
	return ""
}
