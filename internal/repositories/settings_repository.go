package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"proof/internal/models"
	"proof/internal/utils"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	Path() string
}

type settingsRepository struct {
	path string
}

// NewSettingsRepository stores settings as a single JSON file at path.
func NewSettingsRepository(path string) SettingsRepository {
	return &settingsRepository{path: path}
}

func (r *settingsRepository) Path() string {
	return r.path
}

// Get returns the built-in defaults when the file does not exist. Fields
// missing from the file keep their default values.
func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	settings := models.DefaultSettings()
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &settings, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", r.path, err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if settings == nil {
		return errors.New("settings are required")
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := utils.WriteFileReplace(r.path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
