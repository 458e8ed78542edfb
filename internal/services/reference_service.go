package services

import (
	"context"

	"github.com/workloghq/timesheet-api/internal/models"
	"github.com/workloghq/timesheet-api/internal/repository"
)

// ReferenceService exposes read-only master-data lookups for filter
// dropdowns and display names. Reference-data management belongs to the
// external master component.
type ReferenceService struct {
	repo repository.ReferenceRepository
}

func NewReferenceService(repo repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

func (s *ReferenceService) Platforms(ctx context.Context) ([]models.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}

func (s *ReferenceService) Tasks(ctx context.Context) ([]models.Task, error) {
	return s.repo.ListTasks(ctx)
}

func (s *ReferenceService) Subtasks(ctx context.Context, taskID uint) ([]models.Subtask, error) {
	return s.repo.ListSubtasks(ctx, taskID)
}

func (s *ReferenceService) Statuses(ctx context.Context) ([]models.Status, error) {
	return s.repo.ListStatuses(ctx)
}
