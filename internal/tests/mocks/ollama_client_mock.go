package mocks

import (
	"context"

	"proof/internal/models"
	"proof/internal/ollama"
)

type ModelRegistryMock struct {
	ListModelsFunc            func(ctx context.Context) ([]models.ModelTag, error)
	PullModelFunc             func(ctx context.Context, name string) error
	PullModelWithProgressFunc func(ctx context.Context, name string, fn func(models.PullProgress)) error
	DeleteModelFunc           func(ctx context.Context, name string) error
}

func (m *ModelRegistryMock) ListModels(ctx context.Context) ([]models.ModelTag, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return []models.ModelTag{}, nil
}

func (m *ModelRegistryMock) PullModel(ctx context.Context, name string) error {
	if m.PullModelFunc != nil {
		return m.PullModelFunc(ctx, name)
	}
	return nil
}

func (m *ModelRegistryMock) PullModelWithProgress(ctx context.Context, name string, fn func(models.PullProgress)) error {
	if m.PullModelWithProgressFunc != nil {
		return m.PullModelWithProgressFunc(ctx, name, fn)
	}
	return nil
}

func (m *ModelRegistryMock) DeleteModel(ctx context.Context, name string) error {
	if m.DeleteModelFunc != nil {
		return m.DeleteModelFunc(ctx, name)
	}
	return nil
}

type TextGeneratorMock struct {
	GenerateOnceFunc      func(ctx context.Context, req models.GenerationRequest) (string, error)
	GenerateStreamingFunc func(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error
}

func (m *TextGeneratorMock) GenerateOnce(ctx context.Context, req models.GenerationRequest) (string, error) {
	if m.GenerateOnceFunc != nil {
		return m.GenerateOnceFunc(ctx, req)
	}
	return "", nil
}

func (m *TextGeneratorMock) GenerateStreaming(ctx context.Context, req models.GenerationRequest, l ollama.StreamListener) error {
	if m.GenerateStreamingFunc != nil {
		return m.GenerateStreamingFunc(ctx, req, l)
	}
	l.OnDone()
	return nil
}
