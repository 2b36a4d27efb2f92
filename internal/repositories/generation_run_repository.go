package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"proof/internal/models"
)

type GenerationRunRepository interface {
	Create(ctx context.Context, run *models.GenerationRun) error
	List(ctx context.Context, limit int) ([]models.GenerationRun, error)
	DeleteAll(ctx context.Context) error
}

type generationRunRepository struct {
	db *gorm.DB
}

func NewGenerationRunRepository(db *gorm.DB) GenerationRunRepository {
	return &generationRunRepository{db: db}
}

func (r *generationRunRepository) Create(ctx context.Context, run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// List returns the most recent runs first. limit <= 0 returns all of them.
func (r *generationRunRepository) List(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	var runs []models.GenerationRun
	q := r.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *generationRunRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GenerationRun{}).Error
}
