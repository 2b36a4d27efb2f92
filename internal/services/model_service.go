package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"proof/internal/models"
)

// ModelRegistry talks to the server's model endpoints. *ollama.Client
// implements it.
type ModelRegistry interface {
	ListModels(ctx context.Context) ([]models.ModelTag, error)
	PullModel(ctx context.Context, name string) error
	PullModelWithProgress(ctx context.Context, name string, fn func(models.PullProgress)) error
	DeleteModel(ctx context.Context, name string) error
}

type ModelService interface {
	List(ctx context.Context) ([]models.ModelTag, error)
	Pull(ctx context.Context, name string) error
	PullWithProgress(ctx context.Context, name string, fn func(models.PullProgress)) error
	Delete(ctx context.Context, name string) error
	Catalog(ctx context.Context) ([]models.CatalogFamily, error)
}

type modelService struct {
	runtime  Runtime
	registry ModelRegistry

	catalogData []byte
	catalogOnce sync.Once
	catalog     []models.CatalogFamily
	catalogErr  error
}

func NewModelService(runtime Runtime, registry ModelRegistry) ModelService {
	return &modelService{runtime: runtime, registry: registry, catalogData: defaultCatalogData()}
}

func modelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("model name is required")
	}
	return name, nil
}

func (s *modelService) List(ctx context.Context) ([]models.ModelTag, error) {
	if err := s.runtime.EnsureStarted(ctx); err != nil {
		return nil, err
	}
	return s.registry.ListModels(ctx)
}

func (s *modelService) Pull(ctx context.Context, name string) error {
	name, err := modelName(name)
	if err != nil {
		return err
	}
	if err := s.runtime.EnsureStarted(ctx); err != nil {
		return err
	}
	return s.registry.PullModel(ctx, name)
}

func (s *modelService) PullWithProgress(ctx context.Context, name string, fn func(models.PullProgress)) error {
	name, err := modelName(name)
	if err != nil {
		return err
	}
	if err := s.runtime.EnsureStarted(ctx); err != nil {
		return err
	}
	return s.registry.PullModelWithProgress(ctx, name, fn)
}

// Delete does not start the server: with no server there is nothing to delete,
// and the transport error says so.
func (s *modelService) Delete(ctx context.Context, name string) error {
	name, err := modelName(name)
	if err != nil {
		return err
	}
	return s.registry.DeleteModel(ctx, name)
}
