package mocks

import (
	"context"

	"proof/internal/ollama"
)

// RuntimeMock stands in for the server supervisor. By default the server is
// running and EnsureStarted succeeds.
type RuntimeMock struct {
	IsRunningFunc     func(ctx context.Context) bool
	EnsureStartedFunc func(ctx context.Context) error
	StateFunc         func() ollama.State
	ProcessFunc       func() *ollama.Process

	EnsureCalls int
}

func (m *RuntimeMock) IsRunning(ctx context.Context) bool {
	if m.IsRunningFunc != nil {
		return m.IsRunningFunc(ctx)
	}
	return true
}

func (m *RuntimeMock) EnsureStarted(ctx context.Context) error {
	m.EnsureCalls++
	if m.EnsureStartedFunc != nil {
		return m.EnsureStartedFunc(ctx)
	}
	return nil
}

func (m *RuntimeMock) State() ollama.State {
	if m.StateFunc != nil {
		return m.StateFunc()
	}
	return ollama.StateRunning
}

func (m *RuntimeMock) Process() *ollama.Process {
	if m.ProcessFunc != nil {
		return m.ProcessFunc()
	}
	return nil
}
