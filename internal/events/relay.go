package events

import (
	"context"
	"sync"

	"proof/internal/models"
)

// StreamRelay forwards decoded stream callbacks as UI events. It satisfies
// ollama.StreamListener.
type StreamRelay struct {
	ctx context.Context

	mu     sync.Mutex
	tokens int
	done   bool
}

func NewStreamRelay(ctx context.Context) *StreamRelay {
	return &StreamRelay{ctx: ctx}
}

func (r *StreamRelay) OnToken(token string) {
	r.mu.Lock()
	r.tokens++
	r.mu.Unlock()
	Emit(r.ctx, LLMToken, NewToken(r.ctx, token))
}

// OnDone emits the done event at most once.
func (r *StreamRelay) OnDone() {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	n := r.tokens
	r.mu.Unlock()
	Emit(r.ctx, LLMDone, NewDone(r.ctx, n))
}

// Tokens returns how many token events were relayed.
func (r *StreamRelay) Tokens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens
}

// Done reports whether the done event was relayed.
func (r *StreamRelay) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// EmitPullProgress is a progress callback for a model pull.
func EmitPullProgress(ctx context.Context) func(models.PullProgress) {
	return func(p models.PullProgress) {
		Emit(ctx, ModelPull, NewPull(p))
	}
}

func EmitSettingsChanged(ctx context.Context, s models.Settings) {
	Emit(ctx, SettingsChanged, s)
}

func EmitStatus(ctx context.Context, evt StatusEvent) {
	Emit(ctx, OllamaStatus, evt)
}
