package unit_tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"proof/internal/ollama"
	"proof/internal/services"
	"proof/internal/tests/mocks"
)

func TestOllamaService_HealthAndStatus(t *testing.T) {
	running := false
	runtime := &mocks.RuntimeMock{
		IsRunningFunc: func(context.Context) bool { return running },
		StateFunc: func() ollama.State {
			if running {
				return ollama.StateRunning
			}
			return ollama.StateNotRunning
		},
	}
	service := services.NewOllamaService(runtime, "http://127.0.0.1:11434")
	ctx := context.Background()

	assert.False(t, service.Health(ctx))
	status := service.Status(ctx)
	assert.False(t, status.Running)
	assert.Equal(t, "not_running", status.State)
	assert.Equal(t, "http://127.0.0.1:11434", status.BaseURL)
	assert.Zero(t, status.Pid)

	running = true
	assert.True(t, service.Health(ctx))
	assert.Equal(t, "running", service.Status(ctx).State)
}

func TestOllamaService_Ensure(t *testing.T) {
	boom := &ollama.SpawnError{Command: "ollama serve", Err: errors.New("no such file")}
	service := services.NewOllamaService(&mocks.RuntimeMock{
		EnsureStartedFunc: func(context.Context) error { return boom },
	}, "")

	assert.ErrorIs(t, service.Ensure(context.Background()), ollama.ErrSpawnFailed)
}

func TestOllamaService_WithRealSupervisor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	client := ollama.NewClient(srv.URL)
	supervisor := ollama.NewSupervisor(client, ollama.SupervisorConfig{
		Start: func([]string) (*ollama.Process, error) {
			t.Fatal("server is up, nothing should be spawned")
			return nil, nil
		},
	})
	service := services.NewOllamaService(supervisor, client.BaseURL())

	assert.NoError(t, service.Ensure(context.Background()))
	status := service.Status(context.Background())
	assert.True(t, status.Running)
	assert.Equal(t, string(ollama.StateRunning), status.State)
}
