package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"proof/internal/models"
	"proof/internal/ollama"
	"proof/internal/repositories"
)

// TextGenerator talks to the server's generate endpoint. *ollama.Client
// implements it.
type TextGenerator interface {
	GenerateOnce(ctx context.Context, req models.GenerationRequest) (string, error)
	GenerateStreaming(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error
}

type GenerationService interface {
	GenerateText(ctx context.Context, req models.GenerationRequest) (string, error)
	GenerateStream(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error
	ListRuns(ctx context.Context, limit int) ([]models.GenerationRun, error)
	ClearRuns(ctx context.Context) error
}

type generationService struct {
	runtime   Runtime
	generator TextGenerator
	settings  repositories.SettingsRepository
	runs      repositories.GenerationRunRepository
	now       func() time.Time
}

// NewGenerationService wires generation. settings and runs may be nil: without
// settings requests are sent as given, without runs nothing is recorded.
func NewGenerationService(runtime Runtime, generator TextGenerator, settings repositories.SettingsRepository, runs repositories.GenerationRunRepository) GenerationService {
	return &generationService{
		runtime:   runtime,
		generator: generator,
		settings:  settings,
		runs:      runs,
		now:       time.Now,
	}
}

// applyDefaults fills an empty model and unset sampling options from the
// saved settings. Values the caller set are never replaced.
func (s *generationService) applyDefaults(ctx context.Context, req models.GenerationRequest) (models.GenerationRequest, error) {
	req.Model = strings.TrimSpace(req.Model)
	if s.settings != nil {
		saved, err := s.settings.Get(ctx)
		if err != nil {
			log.Printf("generation: settings unavailable, sending request as given: %v", err)
		} else {
			if req.Model == "" {
				req.Model = saved.DefaultModel
			}
			if req.Temperature == nil {
				t := saved.Temperature
				req.Temperature = &t
			}
			if req.ContextLength == nil && saved.ContextLength > 0 {
				n := saved.ContextLength
				req.ContextLength = &n
			}
			if req.System == nil && saved.System != "" {
				sys := saved.System
				req.System = &sys
			}
		}
	}
	if req.Model == "" {
		return req, errors.New("model is required")
	}
	return req, nil
}

func (s *generationService) GenerateText(ctx context.Context, req models.GenerationRequest) (string, error) {
	req, err := s.applyDefaults(ctx, req)
	if err != nil {
		return "", err
	}
	if err := s.runtime.EnsureStarted(ctx); err != nil {
		return "", err
	}
	req.Stream = false
	start := s.now()
	text, err := s.generator.GenerateOnce(ctx, req)
	s.record(ctx, req, 0, start, err)
	return text, err
}

// GenerateStream relays fragments to l as they arrive and returns once the
// stream has ended.
func (s *generationService) GenerateStream(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error {
	if l == nil {
		return errors.New("stream listener is required")
	}
	req, err := s.applyDefaults(ctx, req)
	if err != nil {
		return err
	}
	if err := s.runtime.EnsureStarted(ctx); err != nil {
		return err
	}
	req.Stream = true
	counter := &countingListener{next: l}
	start := s.now()
	err = s.generator.GenerateStreaming(ctx, req, counter)
	s.record(ctx, req, int(counter.tokens.Load()), start, err)
	return err
}

func (s *generationService) record(ctx context.Context, req models.GenerationRequest, tokens int, start time.Time, genErr error) {
	if s.runs == nil {
		return
	}
	run := &models.GenerationRun{
		Model:       req.Model,
		PromptChars: len([]rune(req.Prompt)),
		Streamed:    req.Stream,
		Tokens:      tokens,
		Status:      models.RunStatusOK,
		DurationMs:  s.now().Sub(start).Milliseconds(),
		CreatedAt:   start,
	}
	if genErr != nil {
		run.Status = models.RunStatusError
		run.Error = genErr.Error()
	}
	// The caller's ctx may already be done when a stream failed mid-read.
	if err := s.runs.Create(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("generation: failed to record run: %v", err)
	}
}

func (s *generationService) ListRuns(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if s.runs == nil {
		return []models.GenerationRun{}, nil
	}
	return s.runs.List(ctx, limit)
}

func (s *generationService) ClearRuns(ctx context.Context) error {
	if s.runs == nil {
		return nil
	}
	return s.runs.DeleteAll(ctx)
}

type countingListener struct {
	next   ollama.StreamListener
	tokens atomic.Int64
}

func (c *countingListener) OnToken(fragment string) {
	c.tokens.Add(1)
	c.next.OnToken(fragment)
}

func (c *countingListener) OnDone() {
	c.next.OnDone()
}
