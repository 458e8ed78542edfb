package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workloghq/timesheet-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBadReference signals a write pointing at a missing platform, task,
// subtask or status row.
var ErrBadReference = errors.New("referenced master record does not exist")

// EntryQuery carries the visibility scope and filters for listing entries.
// UserID is honored only for staff actors; everyone else is pinned to
// their own entries.
type EntryQuery struct {
	ActorID    uint
	Staff      bool
	UserID     uint
	StartDate  string
	EndDate    string
	PlatformID uint
	TaskID     uint
	StatusID   uint
	Search     string
	Page       int
	PerPage    int
}

// NewEntryQuery creates an EntryQuery with defaults
func NewEntryQuery() *EntryQuery {
	return &EntryQuery{
		Page:    1,
		PerPage: 50,
	}
}

// EntryMutator is the business closure a mutation runs under the entry's
// row lock. Returning a non-nil audit log commits the modified entry plus
// the log as one transaction; returning (nil, nil) writes nothing, which
// is the idempotent approval path.
type EntryMutator func(entry *models.TimeEntry) (*models.EntryAuditLog, error)

// EntryRepository defines the interface for time entry data access
type EntryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TimeEntry, error)
	List(ctx context.Context, query *EntryQuery) ([]models.TimeEntry, int64, error)
	Create(ctx context.Context, entry *models.TimeEntry, log *models.EntryAuditLog) error
	Mutate(ctx context.Context, id uint, fn EntryMutator) (*models.TimeEntry, error)
	Delete(ctx context.Context, id uint, fn EntryMutator) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func preloadEntry(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Platform").
		Preload("Task").
		Preload("Subtask").
		Preload("Status").
		Preload("L1Approver").
		Preload("L2Approver")
}

func (r *entryRepository) FindByID(ctx context.Context, id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := preloadEntry(r.db.WithContext(ctx)).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) List(ctx context.Context, query *EntryQuery) ([]models.TimeEntry, int64, error) {
	var entries []models.TimeEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Joins("LEFT JOIN master_task ON master_task.id = task_list.task_id")

	// Visibility: staff sees everything and may narrow to one owner;
	// everyone else sees only their own entries.
	if query.Staff {
		if query.UserID > 0 {
			db = db.Where("task_list.user_id = ?", query.UserID)
		}
	} else {
		db = db.Where("task_list.user_id = ?", query.ActorID)
	}

	if query.StartDate != "" {
		db = db.Where("task_list.date >= ?", query.StartDate)
	}
	if query.EndDate != "" {
		db = db.Where("task_list.date <= ?", query.EndDate)
	}
	if query.PlatformID > 0 {
		db = db.Where("task_list.platform_id = ?", query.PlatformID)
	}
	if query.TaskID > 0 {
		db = db.Where("task_list.task_id = ?", query.TaskID)
	}
	if query.StatusID > 0 {
		db = db.Where("task_list.status_id = ?", query.StatusID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins(`LEFT JOIN "master_subTask" subtasks ON subtasks.id = task_list.subtask_id`).
			Where("task_list.description ILIKE ? OR task_list.bitrix_id ILIKE ? OR master_task.name ILIKE ? OR subtasks.name ILIKE ?",
				search, search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("task_list.date DESC, master_task.name ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := preloadEntry(db).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *entryRepository) Create(ctx context.Context, entry *models.TimeEntry, log *models.EntryAuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return translateWriteError(err)
		}
		log.EntryID = entry.ID
		if err := tx.Create(log).Error; err != nil {
			return err
		}
		return preloadEntry(tx).First(entry, entry.ID).Error
	})
}

func (r *entryRepository) Mutate(ctx context.Context, id uint, fn EntryMutator) (*models.TimeEntry, error) {
	var out *models.TimeEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := lockEntry(tx, id)
		if err != nil {
			return err
		}

		log, err := fn(entry)
		if err != nil {
			return err
		}
		if log == nil {
			// Idempotent no-op: nothing written, current row returned.
			out = entry
			return nil
		}

		if err := tx.Omit(clause.Associations).Save(entry).Error; err != nil {
			return translateWriteError(err)
		}
		log.EntryID = entry.ID
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		if err := preloadEntry(tx).First(entry, entry.ID).Error; err != nil {
			return err
		}
		out = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entryRepository) Delete(ctx context.Context, id uint, fn EntryMutator) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := lockEntry(tx, id)
		if err != nil {
			return err
		}

		log, err := fn(entry)
		if err != nil {
			return err
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TimeEntry{}, entry.ID).Error
	})
}

// lockEntry takes the row lock first, then loads associations inside the
// same transaction. The lock serializes concurrent check-and-set on the
// approver columns, so exactly one approval request transitions the entry
// and the rest observe the already-approved row.
func lockEntry(tx *gorm.DB, id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&entry, id).Error; err != nil {
		return nil, err
	}
	if err := preloadEntry(tx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrBadReference
	}
	return err
}
