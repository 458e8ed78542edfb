package services

import (
	"context"

	"github.com/workloghq/timesheet-api/internal/models"
	"github.com/workloghq/timesheet-api/internal/permissions"
	"github.com/workloghq/timesheet-api/internal/repository"
)

// AuditService exposes the read side of the audit trail. Records are
// written by the entry repository inside the mutation transaction, never
// from here, so a mutation can never land without its audit row.
type AuditService struct {
	repo      repository.AuditRepository
	entryRepo repository.EntryRepository
}

func NewAuditService(repo repository.AuditRepository, entryRepo repository.EntryRepository) *AuditService {
	return &AuditService{repo: repo, entryRepo: entryRepo}
}

// List retrieves audit logs visible to the actor, newest first
func (s *AuditService) List(ctx context.Context, actor permissions.Actor, query *repository.AuditQuery) ([]models.EntryAuditLog, int64, error) {
	query.ActorID = actor.ID
	query.Staff = actor.Staff
	return s.repo.List(ctx, query)
}

// ListByEntry retrieves the audit trail of one entry, newest first
func (s *AuditService) ListByEntry(ctx context.Context, actor permissions.Actor, entryID uint, page, perPage int) ([]models.EntryAuditLog, int64, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, 0, translateRepoError(err)
	}
	if !permissions.Evaluate(actor, entry, permissions.CapView) {
		return nil, 0, ErrPermission
	}
	return s.repo.ListByEntry(ctx, entryID, page, perPage)
}
