package services

import (
	"context"

	"proof/internal/models"
	"proof/internal/ollama"
)

// Runtime keeps the local server reachable. *ollama.Supervisor implements it.
type Runtime interface {
	IsRunning(ctx context.Context) bool
	EnsureStarted(ctx context.Context) error
	State() ollama.State
	Process() *ollama.Process
}

type OllamaService interface {
	Startup(ctx context.Context)
	Health(ctx context.Context) bool
	Ensure(ctx context.Context) error
	Status(ctx context.Context) models.OllamaStatus
}

type ollamaService struct {
	runtime Runtime
	baseURL string
	context context.Context
}

func NewOllamaService(runtime Runtime, baseURL string) OllamaService {
	return &ollamaService{runtime: runtime, baseURL: baseURL}
}

func (s *ollamaService) Startup(ctx context.Context) {
	s.context = ctx
}

// Health never fails; an unreachable server is reported as false.
func (s *ollamaService) Health(ctx context.Context) bool {
	return s.runtime.IsRunning(ctx)
}

func (s *ollamaService) Ensure(ctx context.Context) error {
	return s.runtime.EnsureStarted(ctx)
}

func (s *ollamaService) Status(ctx context.Context) models.OllamaStatus {
	running := s.runtime.IsRunning(ctx)
	return models.OllamaStatus{
		Running: running,
		State:   string(s.runtime.State()),
		BaseURL: s.baseURL,
		Pid:     s.runtime.Process().Pid(),
	}
}
