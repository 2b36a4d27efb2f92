package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func aliveProcess() *Process {
	return &Process{exited: make(chan struct{})}
}

func TestIsRunning(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	ctx := context.Background()
	assert.True(t, NewSupervisor(NewClient(ok.URL), SupervisorConfig{}).IsRunning(ctx))
	assert.False(t, NewSupervisor(NewClient(failing.URL), SupervisorConfig{}).IsRunning(ctx))

	s := NewSupervisor(NewClient(closedServerURL(t)), SupervisorConfig{})
	assert.NotPanics(t, func() { assert.False(t, s.IsRunning(ctx)) })
	assert.Equal(t, StateNotRunning, s.State())
}

func TestIsRunning_Timeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer slow.Close()
	defer close(release)

	c := NewClient(slow.URL, WithHealthTimeout(50*time.Millisecond))
	start := time.Now()
	assert.False(t, c.Ping(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestEnsureStarted_AlreadyRunningDoesNotSpawn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var spawns int32
	s := NewSupervisor(NewClient(srv.URL), SupervisorConfig{
		Start: func([]string) (*Process, error) {
			atomic.AddInt32(&spawns, 1)
			return aliveProcess(), nil
		},
	})

	require.NoError(t, s.EnsureStarted(context.Background()))
	assert.Zero(t, atomic.LoadInt32(&spawns))
	assert.Equal(t, StateRunning, s.State())
	assert.Nil(t, s.Process())
}

func TestEnsureStarted_SpawnFailure(t *testing.T) {
	boom := errors.New("executable file not found in $PATH")
	s := NewSupervisor(NewClient(closedServerURL(t)), SupervisorConfig{
		Command: []string{"ollama", "serve"},
		Start:   func([]string) (*Process, error) { return nil, boom },
	})

	err := s.EnsureStarted(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawnFailed)
	assert.ErrorIs(t, err, boom)
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "ollama serve", spawnErr.Command)
}

func TestEnsureStarted_PollsUntilReady(t *testing.T) {
	var ready atomic.Bool
	var probes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&probes, 1) >= 3 {
			ready.Store(true)
		}
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	var gotCommand []string
	s := NewSupervisor(NewClient(srv.URL), SupervisorConfig{
		Command:      []string{"ollama", "serve"},
		PollInterval: time.Millisecond,
		Start: func(cmd []string) (*Process, error) {
			gotCommand = cmd
			return aliveProcess(), nil
		},
	})

	require.NoError(t, s.EnsureStarted(context.Background()))
	assert.Equal(t, []string{"ollama", "serve"}, gotCommand)
	assert.Equal(t, StateRunning, s.State())
	assert.True(t, s.Process().IsAlive())
}

func TestEnsureStarted_GivesUpWithoutError(t *testing.T) {
	var spawns int32
	s := NewSupervisor(NewClient(closedServerURL(t)), SupervisorConfig{
		PollInterval: time.Millisecond,
		PollAttempts: 3,
		Start: func([]string) (*Process, error) {
			atomic.AddInt32(&spawns, 1)
			return aliveProcess(), nil
		},
	})

	require.NoError(t, s.EnsureStarted(context.Background()))
	assert.Equal(t, StateGaveUp, s.State())

	// The first child is still alive, so a second call only polls.
	require.NoError(t, s.EnsureStarted(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spawns))
}

func TestEnsureStarted_RespawnsAfterChildExited(t *testing.T) {
	var spawns int32
	s := NewSupervisor(NewClient(closedServerURL(t)), SupervisorConfig{
		PollInterval: time.Millisecond,
		PollAttempts: 1,
		Start: func([]string) (*Process, error) {
			atomic.AddInt32(&spawns, 1)
			p := aliveProcess()
			close(p.exited)
			return p, nil
		},
	})

	require.NoError(t, s.EnsureStarted(context.Background()))
	require.NoError(t, s.EnsureStarted(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&spawns))
}

func TestStartProcess_Errors(t *testing.T) {
	_, err := StartProcess(nil)
	require.Error(t, err)

	p, err := StartProcess([]string{"definitely-not-a-real-binary-for-proof"})
	require.Error(t, err)
	assert.Nil(t, p)
	assert.False(t, p.IsAlive())
	assert.Zero(t, p.Pid())
}

func TestStartProcess_TracksExit(t *testing.T) {
	p, err := StartProcess([]string{"sh", "-c", "exit 3"})
	require.NoError(t, err)
	assert.NotZero(t, p.Pid())

	assert.Eventually(t, func() bool { return !p.IsAlive() }, 5*time.Second, 10*time.Millisecond)
	assert.Error(t, p.ExitErr())
}
