package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workloghq/timesheet-api/internal/models"
	"github.com/workloghq/timesheet-api/internal/permissions"
	"github.com/workloghq/timesheet-api/internal/repository"
	"github.com/workloghq/timesheet-api/internal/statemachine"
	"gorm.io/gorm"
)

// EntryInput carries the writable fields of a time entry. PUT is a full
// update, so create and update share the same shape; StatusID is only
// honored on create.
type EntryInput struct {
	Date        time.Time
	PlatformID  uint
	TaskID      uint
	SubtaskID   *uint
	BitrixID    *string
	Duration    float64
	Description *string
	StatusID    *uint
}

type EntryService struct {
	repo    repository.EntryRepository
	refRepo repository.ReferenceRepository
	now     func() time.Time
}

func NewEntryService(repo repository.EntryRepository, refRepo repository.ReferenceRepository) *EntryService {
	return &EntryService{
		repo:    repo,
		refRepo: refRepo,
		now:     time.Now,
	}
}

// List returns the entries visible to the actor, filtered and ordered by
// date descending then task name. The query's scope fields are overwritten
// from the actor so callers cannot widen their own visibility.
func (s *EntryService) List(ctx context.Context, actor permissions.Actor, query *repository.EntryQuery) ([]models.TimeEntry, int64, error) {
	query.ActorID = actor.ID
	query.Staff = actor.Staff
	if !actor.Staff {
		query.UserID = 0
	}
	return s.repo.List(ctx, query)
}

func (s *EntryService) FindByID(ctx context.Context, actor permissions.Actor, id uint) (*models.TimeEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !permissions.Evaluate(actor, entry, permissions.CapView) {
		return nil, ErrPermission
	}
	return entry, nil
}

// Create stores a new entry owned by the actor. Privileged actors approve
// entries, they do not book them.
func (s *EntryService) Create(ctx context.Context, actor permissions.Actor, input EntryInput, ip, userAgent string) (*models.TimeEntry, error) {
	if actor.Staff {
		return nil, fmt.Errorf("%w: privileged actors cannot create entries", ErrPermission)
	}
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	var status *models.Status
	var err error
	if input.StatusID != nil {
		status, err = s.refRepo.FindStatus(ctx, *input.StatusID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %d", ErrValidation, *input.StatusID)
		}
	} else {
		status, err = s.refRepo.FindStatusByState(ctx, models.StatusDraft)
		if err != nil {
			return nil, err
		}
	}

	actorID := actor.ID
	entry := &models.TimeEntry{
		Date:             input.Date,
		UserID:           actor.ID,
		PlatformID:       input.PlatformID,
		TaskID:           input.TaskID,
		SubtaskID:        input.SubtaskID,
		BitrixID:         input.BitrixID,
		Duration:         input.Duration,
		Description:      input.Description,
		StatusID:         status.ID,
		Status:           *status,
		LastModifiedByID: &actorID,
	}

	snap := models.SnapshotOf(entry)
	log := models.NewAuditLog(0, models.AuditActionCreate, actor.ID, nil, &snap, "", ip, userAgent)

	if err := s.repo.Create(ctx, entry, log); err != nil {
		return nil, translateRepoError(err)
	}
	return entry, nil
}

// Update replaces the writable fields of an entry. Allowed for the owner
// while the entry is a draft, and for staff while it is in progress.
func (s *EntryService) Update(ctx context.Context, actor permissions.Actor, id uint, input EntryInput, ip, userAgent string) (*models.TimeEntry, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	entry, err := s.repo.Mutate(ctx, id, func(e *models.TimeEntry) (*models.EntryAuditLog, error) {
		if !permissions.Evaluate(actor, e, permissions.CapEditFields) {
			return nil, ErrPermission
		}

		old := models.SnapshotOf(e)
		actorID := actor.ID
		e.Date = input.Date
		e.PlatformID = input.PlatformID
		e.TaskID = input.TaskID
		e.SubtaskID = input.SubtaskID
		e.BitrixID = input.BitrixID
		e.Duration = input.Duration
		e.Description = input.Description
		e.LastModifiedByID = &actorID

		updated := models.SnapshotOf(e)
		return models.NewAuditLog(e.ID, models.AuditActionUpdate, actor.ID, &old, &updated, "", ip, userAgent), nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return entry, nil
}

// ApproveL1 performs the level-1 sign-off moving a draft entry to in
// progress. A second call on an approved entry is an idempotent no-op: the
// returned entry carries the original approver and timestamp, and no audit
// record is written. The repository serializes the check-and-set, so
// concurrent calls cannot double-assign the approver.
func (s *EntryService) ApproveL1(ctx context.Context, actor permissions.Actor, id uint, remarks, ip, userAgent string) (*models.TimeEntry, bool, error) {
	target, err := s.refRepo.FindStatusByState(ctx, models.StatusInProgress)
	if err != nil {
		return nil, false, err
	}

	already := false
	entry, err := s.repo.Mutate(ctx, id, func(e *models.TimeEntry) (*models.EntryAuditLog, error) {
		if !permissions.Evaluate(actor, e, permissions.CapApproveL1) {
			return nil, ErrPermission
		}
		if e.IsL1Approved() {
			already = true
			return nil, nil
		}

		old := models.SnapshotOf(e)
		if _, err := statemachine.NewEntryFSM(e).ApproveL1(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidState, err)
		}

		now := s.now()
		actorID := actor.ID
		e.L1ApproverID = &actorID
		e.L1ApprovedAt = &now
		e.StatusID = target.ID
		e.Status = *target
		e.LastModifiedByID = &actorID

		approved := models.SnapshotOf(e)
		return models.NewAuditLog(e.ID, models.AuditActionL1Approve, actor.ID, &old, &approved, remarks, ip, userAgent), nil
	})
	if err != nil {
		return nil, false, translateRepoError(err)
	}
	return entry, already, nil
}

// ApproveL2 performs the level-2 sign-off completing an entry. Requires a
// prior level-1 approval (the entry must be in progress); idempotent once
// a level-2 approver is set.
func (s *EntryService) ApproveL2(ctx context.Context, actor permissions.Actor, id uint, remarks, ip, userAgent string) (*models.TimeEntry, bool, error) {
	target, err := s.refRepo.FindStatusByState(ctx, models.StatusCompleted)
	if err != nil {
		return nil, false, err
	}

	already := false
	entry, err := s.repo.Mutate(ctx, id, func(e *models.TimeEntry) (*models.EntryAuditLog, error) {
		if !permissions.Evaluate(actor, e, permissions.CapApproveL2) {
			return nil, ErrPermission
		}
		if e.IsL2Approved() {
			already = true
			return nil, nil
		}

		old := models.SnapshotOf(e)
		if _, err := statemachine.NewEntryFSM(e).ApproveL2(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidState, err)
		}

		now := s.now()
		actorID := actor.ID
		e.L2ApproverID = &actorID
		e.L2ApprovedAt = &now
		e.StatusID = target.ID
		e.Status = *target
		e.LastModifiedByID = &actorID

		approved := models.SnapshotOf(e)
		return models.NewAuditLog(e.ID, models.AuditActionL2Approve, actor.ID, &old, &approved, remarks, ip, userAgent), nil
	})
	if err != nil {
		return nil, false, translateRepoError(err)
	}
	return entry, already, nil
}

// Delete removes an entry. Only the owner may delete, and only while the
// entry is still a draft; the audit record outlives the row.
func (s *EntryService) Delete(ctx context.Context, actor permissions.Actor, id uint, ip, userAgent string) error {
	err := s.repo.Delete(ctx, id, func(e *models.TimeEntry) (*models.EntryAuditLog, error) {
		if !permissions.Evaluate(actor, e, permissions.CapDelete) {
			return nil, ErrPermission
		}
		snap := models.SnapshotOf(e)
		return models.NewAuditLog(e.ID, models.AuditActionDelete, actor.ID, &snap, nil, "", ip, userAgent), nil
	})
	return translateRepoError(err)
}

// validateInput enforces the field-level invariants: non-negative duration
// and the subtask belonging to the chosen task.
func (s *EntryService) validateInput(ctx context.Context, input *EntryInput) error {
	if input.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrValidation)
	}
	if input.TaskID == 0 {
		return fmt.Errorf("%w: task is required", ErrValidation)
	}
	if input.PlatformID == 0 {
		return fmt.Errorf("%w: platform is required", ErrValidation)
	}
	if input.SubtaskID != nil {
		subtask, err := s.refRepo.FindSubtask(ctx, *input.SubtaskID)
		if err != nil {
			return fmt.Errorf("%w: unknown subtask %d", ErrValidation, *input.SubtaskID)
		}
		if subtask.TaskID != input.TaskID {
			return fmt.Errorf("%w: selected subtask does not belong to the chosen task", ErrValidation)
		}
	}
	return nil
}

func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrBadReference):
		return fmt.Errorf("%w: %s", ErrValidation, err)
	default:
		return err
	}
}
