package repository

import (
	"context"
	"fmt"

	"github.com/workloghq/timesheet-api/internal/models"
	"gorm.io/gorm"
)

// ReferenceRepository is the read-only view over the master-data tables
// owned by the external reference-data component.
type ReferenceRepository interface {
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListSubtasks(ctx context.Context, taskID uint) ([]models.Subtask, error)
	ListStatuses(ctx context.Context) ([]models.Status, error)
	FindSubtask(ctx context.Context, id uint) (*models.Subtask, error)
	FindStatus(ctx context.Context, id uint) (*models.Status, error)
	FindStatusByState(ctx context.Context, state models.EntryStatus) (*models.Status, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&platforms).Error
	return platforms, err
}

func (r *referenceRepository) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *referenceRepository) ListSubtasks(ctx context.Context, taskID uint) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if taskID > 0 {
		db = db.Where("task_id = ?", taskID)
	}
	err := db.Order("name ASC").Find(&subtasks).Error
	return subtasks, err
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]models.Status, error) {
	var statuses []models.Status
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&statuses).Error
	return statuses, err
}

func (r *referenceRepository) FindSubtask(ctx context.Context, id uint) (*models.Subtask, error) {
	var subtask models.Subtask
	err := r.db.WithContext(ctx).First(&subtask, id).Error
	if err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *referenceRepository) FindStatus(ctx context.Context, id uint) (*models.Status, error) {
	var status models.Status
	err := r.db.WithContext(ctx).First(&status, id).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// FindStatusByState resolves the reference row naming a canonical state.
// Names are configured in master_status; the first active row whose name
// parses to the requested state wins.
func (r *referenceRepository) FindStatusByState(ctx context.Context, state models.EntryStatus) (*models.Status, error) {
	statuses, err := r.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if statuses[i].State() == state {
			return &statuses[i], nil
		}
	}
	return nil, fmt.Errorf("no active status configured for state %q", state)
}
