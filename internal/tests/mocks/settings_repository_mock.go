package mocks

import (
	"context"

	"proof/internal/models"
)

type SettingsRepositoryMock struct {
	GetFunc  func(ctx context.Context) (*models.Settings, error)
	SaveFunc func(ctx context.Context, settings *models.Settings) error
	PathFunc func() string
}

func (m *SettingsRepositoryMock) Get(ctx context.Context) (*models.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	s := models.DefaultSettings()
	return &s, nil
}

func (m *SettingsRepositoryMock) Save(ctx context.Context, settings *models.Settings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, settings)
	}
	return nil
}

func (m *SettingsRepositoryMock) Path() string {
	if m.PathFunc != nil {
		return m.PathFunc()
	}
	return "settings.json"
}
