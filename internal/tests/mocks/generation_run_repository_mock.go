package mocks

import (
	"context"

	"proof/internal/models"
)

type GenerationRunRepositoryMock struct {
	CreateFunc    func(ctx context.Context, run *models.GenerationRun) error
	ListFunc      func(ctx context.Context, limit int) ([]models.GenerationRun, error)
	DeleteAllFunc func(ctx context.Context) error
}

func (m *GenerationRunRepositoryMock) Create(ctx context.Context, run *models.GenerationRun) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, run)
	}
	return nil
}

func (m *GenerationRunRepositoryMock) List(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

func (m *GenerationRunRepositoryMock) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return nil
}
