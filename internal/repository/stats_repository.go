package repository

import (
	"context"
	"time"

	"github.com/workloghq/timesheet-api/internal/models"
	"gorm.io/gorm"
)

// StatsScope restricts aggregation to what the actor may see: staff sees
// every entry, everyone else only their own.
type StatsScope struct {
	UserID uint
	Staff  bool
}

// StatusCount is one row of a status distribution
type StatusCount struct {
	StatusName string  `json:"status_name"`
	Count      int64   `json:"count"`
}

// DayTotal is the per-day duration rollup
type DayTotal struct {
	Day     string  `json:"day"`
	Hours   float64 `json:"hours"`
	Entries int64   `json:"entries"`
}

// MonthTotal is the per-month duration rollup
type MonthTotal struct {
	Month      int     `json:"month"`
	Hours      float64 `json:"hours"`
	Entries    int64   `json:"entries"`
	ActiveDays int64   `json:"active_days"`
}

// StatsRepository defines the read-only aggregation queries over entries
type StatsRepository interface {
	CountByStatus(ctx context.Context, scope StatsScope, start, end time.Time) ([]StatusCount, error)
	HoursByDay(ctx context.Context, scope StatsScope, start, end time.Time) ([]DayTotal, error)
	HoursByMonth(ctx context.Context, scope StatsScope, year int) ([]MonthTotal, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) scoped(ctx context.Context, scope StatsScope) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.TimeEntry{})
	if !scope.Staff {
		db = db.Where("task_list.user_id = ?", scope.UserID)
	}
	return db
}

func (r *statsRepository) CountByStatus(ctx context.Context, scope StatsScope, start, end time.Time) ([]StatusCount, error) {
	var results []StatusCount
	err := r.scoped(ctx, scope).
		Select("master_status.name AS status_name, COUNT(*) AS count").
		Joins("JOIN master_status ON master_status.id = task_list.status_id").
		Where("task_list.date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Group("master_status.name").
		Order("count DESC").
		Scan(&results).Error
	return results, err
}

func (r *statsRepository) HoursByDay(ctx context.Context, scope StatsScope, start, end time.Time) ([]DayTotal, error) {
	var results []DayTotal
	err := r.scoped(ctx, scope).
		Select("to_char(task_list.date, 'YYYY-MM-DD') AS day, COALESCE(SUM(task_list.duration), 0) AS hours, COUNT(*) AS entries").
		Where("task_list.date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Group("task_list.date").
		Order("day ASC").
		Scan(&results).Error
	return results, err
}

func (r *statsRepository) HoursByMonth(ctx context.Context, scope StatsScope, year int) ([]MonthTotal, error) {
	var results []MonthTotal
	err := r.scoped(ctx, scope).
		Select("EXTRACT(MONTH FROM task_list.date)::int AS month, COALESCE(SUM(task_list.duration), 0) AS hours, COUNT(*) AS entries, COUNT(DISTINCT task_list.date) AS active_days").
		Where("EXTRACT(YEAR FROM task_list.date) = ?", year).
		Group("month").
		Order("month ASC").
		Scan(&results).Error
	return results, err
}
