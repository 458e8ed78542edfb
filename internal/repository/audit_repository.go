package repository

import (
	"context"

	"github.com/workloghq/timesheet-api/internal/models"
	"gorm.io/gorm"
)

// AuditQuery carries the scope and pagination for audit trail retrieval.
// Non-staff actors only see logs belonging to entries they own.
type AuditQuery struct {
	ActorID uint
	Staff   bool
	EntryID uint
	Page    int
	PerPage int
}

// NewAuditQuery creates an AuditQuery with defaults
func NewAuditQuery() *AuditQuery {
	return &AuditQuery{
		Page:    1,
		PerPage: 50,
	}
}

// AuditRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete.
type AuditRepository interface {
	List(ctx context.Context, query *AuditQuery) ([]models.EntryAuditLog, int64, error)
	ListByEntry(ctx context.Context, entryID uint, page, perPage int) ([]models.EntryAuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// scopeAuditLogs applies the visibility rules to an audit query. Non-staff
// actors see logs of entries they own plus actions they performed
// themselves; the join is LEFT so DELETE records survive the removal of
// the entry row they describe.
func scopeAuditLogs(db *gorm.DB, query *AuditQuery) *gorm.DB {
	if !query.Staff {
		db = db.Joins("LEFT JOIN task_list ON task_list.id = task_list_audit_log.entry_id").
			Where("task_list.user_id = ? OR task_list_audit_log.performed_by_id = ?", query.ActorID, query.ActorID)
	}
	if query.EntryID > 0 {
		db = db.Where("task_list_audit_log.entry_id = ?", query.EntryID)
	}
	return db
}

func (r *auditRepository) List(ctx context.Context, query *AuditQuery) ([]models.EntryAuditLog, int64, error) {
	var logs []models.EntryAuditLog
	var total int64

	db := scopeAuditLogs(r.db.WithContext(ctx).Model(&models.EntryAuditLog{}), query)

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("PerformedBy").
		Order("task_list_audit_log.created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&logs).Error
	return logs, total, err
}

func (r *auditRepository) ListByEntry(ctx context.Context, entryID uint, page, perPage int) ([]models.EntryAuditLog, int64, error) {
	var logs []models.EntryAuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.EntryAuditLog{}).
		Where("entry_id = ?", entryID)

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("PerformedBy").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error
	return logs, total, err
}
