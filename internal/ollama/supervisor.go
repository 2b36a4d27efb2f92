package ollama

import (
	"context"
	"errors"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPollAttempts = 10
)

// DefaultCommand launches the server in the foreground of its own process.
var DefaultCommand = []string{"ollama", "serve"}

// State is the supervisor's view of the server.
type State string

const (
	StateNotChecked State = "not_checked"
	StateRunning    State = "running"
	StateNotRunning State = "not_running"
	StateStarting   State = "starting"
	StateGaveUp     State = "gave_up"
)

// Process is a handle on a server child process started by the supervisor.
// The child is reaped in the background so IsAlive can observe its exit; the
// supervisor never waits on it and never stops it.
type Process struct {
	cmd    *exec.Cmd
	exited chan struct{}
	err    error
}

// StartProcess launches command with no stdio attached and returns
// immediately.
func StartProcess(command []string) (*Process, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("server command is empty")
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &Process{cmd: cmd, exited: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// IsAlive reports whether the child has not exited yet.
func (p *Process) IsAlive() bool {
	if p == nil || p.exited == nil {
		return false
	}
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// ExitErr returns the child's exit error once it has exited.
func (p *Process) ExitErr() error {
	if p == nil || p.IsAlive() {
		return nil
	}
	return p.err
}

// SupervisorConfig tunes a Supervisor. Zero values select the defaults.
type SupervisorConfig struct {
	Command      []string
	PollInterval time.Duration
	PollAttempts int
	// Start replaces StartProcess, mainly for tests.
	Start func(command []string) (*Process, error)
}

// Supervisor keeps the local server reachable on a best-effort basis.
type Supervisor struct {
	client       *Client
	command      []string
	pollInterval time.Duration
	pollAttempts int
	start        func(command []string) (*Process, error)

	mu    sync.Mutex
	proc  *Process
	state State
}

func NewSupervisor(client *Client, cfg SupervisorConfig) *Supervisor {
	s := &Supervisor{
		client:       client,
		command:      cfg.Command,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		start:        cfg.Start,
		state:        StateNotChecked,
	}
	if len(s.command) == 0 {
		s.command = DefaultCommand
	}
	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}
	if s.pollAttempts <= 0 {
		s.pollAttempts = DefaultPollAttempts
	}
	if s.start == nil {
		s.start = StartProcess
	}
	return s
}

// IsRunning probes the server. It never returns an error: an unreachable
// server is simply not running.
func (s *Supervisor) IsRunning(ctx context.Context) bool {
	running := s.client.Ping(ctx)
	s.mu.Lock()
	if running {
		s.state = StateRunning
	} else if s.state != StateStarting {
		s.state = StateNotRunning
	}
	s.mu.Unlock()
	return running
}

// EnsureStarted returns immediately when the server is reachable. Otherwise it
// launches the server (unless a child it started earlier is still alive) and
// polls until it answers or the attempts run out. Running out of attempts is
// not an error; the caller's next request surfaces the real failure.
func (s *Supervisor) EnsureStarted(ctx context.Context) error {
	if s.IsRunning(ctx) {
		return nil
	}

	s.mu.Lock()
	if s.proc.IsAlive() {
		log.Printf("ollama: server process %d still starting, waiting for it", s.proc.Pid())
	} else {
		if prev := s.proc; prev != nil {
			log.Printf("ollama: previous server process %d exited: %v", prev.Pid(), prev.ExitErr())
		}
		proc, err := s.start(s.command)
		if err != nil {
			s.state = StateNotRunning
			s.mu.Unlock()
			return &SpawnError{Command: strings.Join(s.command, " "), Err: err}
		}
		s.proc = proc
		log.Printf("ollama: started %q (pid %d)", strings.Join(s.command, " "), proc.Pid())
	}
	s.state = StateStarting
	s.mu.Unlock()

	for i := 0; i < s.pollAttempts; i++ {
		if s.IsRunning(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			s.setState(StateGaveUp)
			return nil
		case <-time.After(s.pollInterval):
		}
	}

	log.Printf("ollama: server not reachable after %d attempts, continuing anyway", s.pollAttempts)
	s.setState(StateGaveUp)
	return nil
}

// State returns the last observed server state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Process returns the child started by the supervisor, or nil.
func (s *Supervisor) Process() *Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
