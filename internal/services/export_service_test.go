package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workloghq/timesheet-api/internal/permissions"
	"github.com/workloghq/timesheet-api/internal/repository"
)

func newTestExportService(repo *mockStatsRepo) *ExportService {
	return NewExportService(newTestStatsService(repo))
}

func TestExportWorkHoursCSV(t *testing.T) {
	repo := &mockStatsRepo{dayTotals: []repository.DayTotal{
		{Day: "2026-02-02", Hours: 7.5, Entries: 2},
	}}
	svc := newTestExportService(repo)

	data, filename, contentType, err := svc.ExportWorkHours(context.Background(), permissions.Actor{ID: 5}, "week", 2026, "6", "csv")
	require.NoError(t, err)
	assert.Equal(t, "work_hours_2026_W06.csv", filename)
	assert.Equal(t, ContentTypeCSV, contentType)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	// Title, blank line, header, 7 day rows, total row
	require.Len(t, records, 11)
	assert.Equal(t, []string{"Date", "Weekday", "Hours", "Entries"}, records[2])
	assert.Equal(t, []string{"2026-02-02", "Monday", "7.50", "2"}, records[3])
	assert.Equal(t, "Total", records[10][0])
	assert.Equal(t, "7.50", records[10][2])
}

func TestExportWorkHoursYearXLSX(t *testing.T) {
	repo := &mockStatsRepo{monthTotals: []repository.MonthTotal{
		{Month: 3, Hours: 40, Entries: 5, ActiveDays: 5},
	}}
	svc := newTestExportService(repo)

	data, filename, contentType, err := svc.ExportWorkHours(context.Background(), permissions.Actor{ID: 5}, "year", 2026, "", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "work_hours_2026.xlsx", filename)
	assert.Equal(t, ContentTypeXLSX, contentType)
	assert.NotEmpty(t, data)
}

func TestExportWorkHoursPDF(t *testing.T) {
	svc := newTestExportService(&mockStatsRepo{})

	data, filename, contentType, err := svc.ExportWorkHours(context.Background(), permissions.Actor{ID: 5}, "week", 2026, "6", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "work_hours_2026_W06.pdf", filename)
	assert.Equal(t, ContentTypePDF, contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportWorkHoursInvalidParams(t *testing.T) {
	svc := newTestExportService(&mockStatsRepo{})

	_, _, _, err := svc.ExportWorkHours(context.Background(), permissions.Actor{ID: 5}, "day", 2026, "", "csv")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, _, err = svc.ExportWorkHours(context.Background(), permissions.Actor{ID: 5}, "week", 2026, "6", "docx")
	assert.ErrorIs(t, err, ErrValidation)
}
