package mocks

import (
	"context"

	"proof/internal/models"
)

type SessionRepositoryMock struct {
	SaveFunc   func(ctx context.Context, session *models.ChatSession) error
	ListFunc   func(ctx context.Context) ([]models.ChatSession, error)
	GetFunc    func(ctx context.Context, id string) (*models.ChatSession, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *SessionRepositoryMock) Save(ctx context.Context, session *models.ChatSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	return nil
}

func (m *SessionRepositoryMock) List(ctx context.Context) ([]models.ChatSession, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.ChatSession{}, nil
}

func (m *SessionRepositoryMock) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *SessionRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
