package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"proof/internal/models"
)

func TestInit_MigratesGenerationRuns(t *testing.T) {
	db, err := Init(Config{Path: filepath.Join(t.TempDir(), "proof.db"), LogLevel: logger.Silent})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable(&models.GenerationRun{}))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestInit_RequiresPath(t *testing.T) {
	_, err := Init(Config{})
	assert.EqualError(t, err, "database path is required")
}
