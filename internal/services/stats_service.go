package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/workloghq/timesheet-api/internal/permissions"
	"github.com/workloghq/timesheet-api/internal/repository"
)

// StatusSlice is one status bucket of a distribution
type StatusSlice struct {
	StatusName string  `json:"status_name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatusDistribution is the status report over a calendar period
type StatusDistribution struct {
	Period   string        `json:"period"`
	Range    string        `json:"range"`
	Total    int64         `json:"total"`
	Statuses []StatusSlice `json:"statuses"`
}

// DayBucket is one day of the week view, zero-filled when no entries exist
type DayBucket struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Hours   string `json:"hours"`
	Entries int64  `json:"entries"`
}

// WeekOverview is the work-hours rollup for one ISO week, always exactly
// seven day buckets Monday through Sunday.
type WeekOverview struct {
	View         string      `json:"view"`
	Year         int         `json:"year"`
	Week         int         `json:"week"`
	DateRange    string      `json:"date_range"`
	Days         []DayBucket `json:"days"`
	TotalHours   string      `json:"total_hours"`
	TotalEntries int64       `json:"total_entries"`
}

// MonthBucket is one month of the year view
type MonthBucket struct {
	Month      int    `json:"month"`
	MonthName  string `json:"month_name"`
	Hours      string `json:"hours"`
	Entries    int64  `json:"entries"`
	ActiveDays int64  `json:"active_days"`
}

// YearOverview is the work-hours rollup for one calendar year, always
// exactly twelve month buckets.
type YearOverview struct {
	View         string        `json:"view"`
	Year         int           `json:"year"`
	Months       []MonthBucket `json:"months"`
	TotalHours   string        `json:"total_hours"`
	TotalEntries int64         `json:"total_entries"`
}

// StatsService is the read-only aggregation engine. It never mutates
// entries and applies the same staff-sees-all / owner-sees-own visibility
// rule as listing.
type StatsService struct {
	repo repository.StatsRepository
	now  func() time.Time
}

func NewStatsService(repo repository.StatsRepository) *StatsService {
	return &StatsService{
		repo: repo,
		now:  time.Now,
	}
}

func scopeFor(actor permissions.Actor) repository.StatsScope {
	return repository.StatsScope{UserID: actor.ID, Staff: actor.Staff}
}

// StatusDistribution computes entry counts and percentages per status name
// over a daily, weekly or monthly window. Percentages are rounded to two
// decimals; an empty window yields total 0 and an empty status list.
func (s *StatsService) StatusDistribution(ctx context.Context, actor permissions.Actor, period string, year, month int) (*StatusDistribution, error) {
	var start, end time.Time
	today := dateOnly(s.now())

	switch period {
	case "daily":
		start, end = today, today
	case "weekly":
		isoYear, isoWeek := today.ISOWeek()
		start = isoWeekMonday(isoYear, isoWeek)
		end = start.AddDate(0, 0, 6)
	case "monthly":
		if year == 0 {
			year = today.Year()
		}
		if month == 0 {
			month = int(today.Month())
		}
		if month < 1 || month > 12 || year < 1 {
			return nil, fmt.Errorf("%w: invalid year/month", ErrValidation)
		}
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	default:
		return nil, fmt.Errorf("%w: period must be daily, weekly or monthly", ErrValidation)
	}

	counts, err := s.repo.CountByStatus(ctx, scopeFor(actor), start, end)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	slices := make([]StatusSlice, 0, len(counts))
	for _, c := range counts {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(c.Count)/float64(total)*10000) / 100
		}
		slices = append(slices, StatusSlice{
			StatusName: c.StatusName,
			Count:      c.Count,
			Percentage: pct,
		})
	}

	return &StatusDistribution{
		Period:   period,
		Range:    formatRange(start, end),
		Total:    total,
		Statuses: slices,
	}, nil
}

// WorkHoursWeek sums duration and entry counts per calendar day of the
// requested ISO week. week accepts "YYYY-Www" or a bare week number;
// defaults to the current ISO week.
func (s *StatsService) WorkHoursWeek(ctx context.Context, actor permissions.Actor, year int, week string) (*WeekOverview, error) {
	targetYear, targetWeek, err := s.resolveISOWeek(year, week)
	if err != nil {
		return nil, err
	}

	monday := isoWeekMonday(targetYear, targetWeek)
	sunday := monday.AddDate(0, 0, 6)

	days, err := s.repo.HoursByDay(ctx, scopeFor(actor), monday, sunday)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]repository.DayTotal, len(days))
	for _, d := range days {
		byDay[d.Day] = d
	}

	overview := &WeekOverview{
		View:      "week",
		Year:      targetYear,
		Week:      targetWeek,
		DateRange: formatRange(monday, sunday),
		Days:      make([]DayBucket, 0, 7),
	}

	var totalHours float64
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		agg := byDay[key]
		overview.Days = append(overview.Days, DayBucket{
			Date:    key,
			Weekday: day.Weekday().String(),
			Hours:   formatHours(agg.Hours),
			Entries: agg.Entries,
		})
		totalHours += agg.Hours
		overview.TotalEntries += agg.Entries
	}
	overview.TotalHours = formatHours(totalHours)

	return overview, nil
}

// WorkHoursYear sums duration, entry counts and distinct active days per
// calendar month of the target year.
func (s *StatsService) WorkHoursYear(ctx context.Context, actor permissions.Actor, year int) (*YearOverview, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1 {
		return nil, fmt.Errorf("%w: invalid year", ErrValidation)
	}

	months, err := s.repo.HoursByMonth(ctx, scopeFor(actor), year)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]repository.MonthTotal, len(months))
	for _, m := range months {
		byMonth[m.Month] = m
	}

	overview := &YearOverview{
		View:   "year",
		Year:   year,
		Months: make([]MonthBucket, 0, 12),
	}

	var totalHours float64
	for m := 1; m <= 12; m++ {
		agg := byMonth[m]
		overview.Months = append(overview.Months, MonthBucket{
			Month:      m,
			MonthName:  time.Month(m).String(),
			Hours:      formatHours(agg.Hours),
			Entries:    agg.Entries,
			ActiveDays: agg.ActiveDays,
		})
		totalHours += agg.Hours
		overview.TotalEntries += agg.Entries
	}
	overview.TotalHours = formatHours(totalHours)

	return overview, nil
}

// resolveISOWeek picks the target year and week from the request
// parameters, accepting "YYYY-Www" (e.g. 2026-W06) or a bare week number,
// falling back to the current ISO week.
func (s *StatsService) resolveISOWeek(year int, week string) (int, int, error) {
	nowYear, nowWeek := s.now().ISOWeek()

	targetYear := year
	targetWeek := 0

	week = strings.TrimSpace(week)
	if week != "" {
		if strings.Contains(strings.ToUpper(week), "-W") {
			parts := strings.SplitN(strings.ToUpper(week), "-W", 2)
			y, errY := strconv.Atoi(parts[0])
			w, errW := strconv.Atoi(parts[1])
			if errY != nil || errW != nil {
				return 0, 0, fmt.Errorf("%w: invalid week %q", ErrValidation, week)
			}
			targetYear, targetWeek = y, w
		} else {
			w, err := strconv.Atoi(week)
			if err != nil {
				return 0, 0, fmt.Errorf("%w: invalid week %q", ErrValidation, week)
			}
			targetWeek = w
		}
	}

	if targetYear == 0 {
		targetYear = nowYear
	}
	if targetWeek == 0 {
		targetWeek = nowWeek
	}
	if targetWeek < 1 || targetWeek > 53 {
		return 0, 0, fmt.Errorf("%w: week must be between 1 and 53", ErrValidation)
	}
	return targetYear, targetWeek, nil
}

// isoWeekMonday returns the Monday of the given ISO week. Week 1 is the
// week containing January 4th; its Monday is January 4th minus the
// weekday offset.
func isoWeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, 7*(week-1))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatRange(start, end time.Time) string {
	return start.Format("2006-01-02") + " to " + end.Format("2006-01-02")
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}
