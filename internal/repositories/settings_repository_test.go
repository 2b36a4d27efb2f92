package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proof/internal/models"
)

func TestSettingsRepository_DefaultsWhenMissing(t *testing.T) {
	repo := NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), *got)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, uint32(4096), got.ContextLength)
	assert.Empty(t, got.System)
}

func TestSettingsRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	repo := NewSettingsRepository(path)
	want := models.Settings{
		DefaultModel:  "qwen2.5:7b",
		Temperature:   1.25,
		ContextLength: 8192,
		System:        "Answer in French.",
	}

	require.NoError(t, repo.Save(context.Background(), &want))
	assert.FileExists(t, path)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestSettingsRepository_MissingSystemDefaultsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{"default_model":"mistral","temperature":0.2,"context_length":2048}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	got, err := NewSettingsRepository(path).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mistral", got.DefaultModel)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, uint32(2048), got.ContextLength)
	assert.Equal(t, "", got.System)
}

func TestSettingsRepository_OverwritesWholesale(t *testing.T) {
	repo := NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
	ctx := context.Background()

	first := models.Settings{DefaultModel: "a", Temperature: 0.1, ContextLength: 1, System: "old"}
	second := models.Settings{DefaultModel: "b", Temperature: 0.9, ContextLength: 2}
	require.NoError(t, repo.Save(ctx, &first))
	require.NoError(t, repo.Save(ctx, &second))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, *got)
}

func TestSettingsRepository_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temperature":`), 0644))
	repo := NewSettingsRepository(path)

	_, err := repo.Get(context.Background())
	assert.Error(t, err)
	assert.Error(t, repo.Save(context.Background(), nil))
}
