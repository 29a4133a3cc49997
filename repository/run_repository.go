package repository

import (
	"fmt"
	"time"

	"cmacbench/db"
	"cmacbench/model"

	"gorm.io/gorm"
)

// RunRepository defines the interface for prep run bookkeeping.
type RunRepository interface {
	CreateRun(run *model.PrepRun) error
	FinishRun(run *model.PrepRun, status string, runErr error) error
	LatestRuns(limit int) ([]model.PrepRun, error)
}

// gormRunRepository implements RunRepository on the GORM connection.
type gormRunRepository struct {
	DB *gorm.DB
}

// NewGormRunRepository creates a new instance of gormRunRepository.
func NewGormRunRepository() RunRepository {
	return &gormRunRepository{DB: db.GormDB}
}

// CreateRun records the start of a prep run.
func (r *gormRunRepository) CreateRun(run *model.PrepRun) error {
	run.Status = model.RunStatusRunning
	run.StartedAt = time.Now()
	if err := r.DB.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create prep run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun records the outcome of a prep run.
func (r *gormRunRepository) FinishRun(run *model.PrepRun, status string, runErr error) error {
	run.Status = status
	run.FinishedAt = time.Now()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := r.DB.Save(run).Error; err != nil {
		return fmt.Errorf("failed to finish prep run %s: %w", run.ID, err)
	}
	return nil
}

// LatestRuns returns the most recent prep runs, newest first.
func (r *gormRunRepository) LatestRuns(limit int) ([]model.PrepRun, error) {
	var runs []model.PrepRun
	if err := r.DB.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list prep runs: %w", err)
	}
	return runs, nil
}
