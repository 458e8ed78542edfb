package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/workloghq/timesheet-api/internal/permissions"
	"github.com/xuri/excelize/v2"
)

// Export content types
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ExportService renders work-hours overviews as downloadable files
type ExportService struct {
	statsSvc *StatsService
}

func NewExportService(statsSvc *StatsService) *ExportService {
	return &ExportService{statsSvc: statsSvc}
}

// ExportWorkHours builds the requested view and renders it in the given
// format. Returns the file bytes, a suggested filename and content type.
func (s *ExportService) ExportWorkHours(ctx context.Context, actor permissions.Actor, view string, year int, week, format string) ([]byte, string, string, error) {
	var rows [][]string
	var title, stem string

	switch view {
	case "week":
		overview, err := s.statsSvc.WorkHoursWeek(ctx, actor, year, week)
		if err != nil {
			return nil, "", "", err
		}
		title = fmt.Sprintf("Work Hours %d-W%02d (%s)", overview.Year, overview.Week, overview.DateRange)
		stem = fmt.Sprintf("work_hours_%d_W%02d", overview.Year, overview.Week)
		rows = append(rows, []string{"Date", "Weekday", "Hours", "Entries"})
		for _, d := range overview.Days {
			rows = append(rows, []string{d.Date, d.Weekday, d.Hours, fmt.Sprintf("%d", d.Entries)})
		}
		rows = append(rows, []string{"Total", "", overview.TotalHours, fmt.Sprintf("%d", overview.TotalEntries)})
	case "year":
		overview, err := s.statsSvc.WorkHoursYear(ctx, actor, year)
		if err != nil {
			return nil, "", "", err
		}
		title = fmt.Sprintf("Work Hours %d", overview.Year)
		stem = fmt.Sprintf("work_hours_%d", overview.Year)
		rows = append(rows, []string{"Month", "Hours", "Entries", "Active Days"})
		for _, m := range overview.Months {
			rows = append(rows, []string{m.MonthName, m.Hours, fmt.Sprintf("%d", m.Entries), fmt.Sprintf("%d", m.ActiveDays)})
		}
		rows = append(rows, []string{"Total", overview.TotalHours, fmt.Sprintf("%d", overview.TotalEntries), ""})
	default:
		return nil, "", "", fmt.Errorf("%w: view must be week or year", ErrValidation)
	}

	switch format {
	case "", "csv":
		data, err := renderCSV(title, rows)
		return data, stem + ".csv", ContentTypeCSV, err
	case "xlsx":
		data, err := renderXLSX(title, rows)
		return data, stem + ".xlsx", ContentTypeXLSX, err
	case "pdf":
		data, err := renderPDF(title, rows)
		return data, stem + ".pdf", ContentTypePDF, err
	default:
		return nil, "", "", fmt.Errorf("%w: format must be csv, xlsx or pdf", ErrValidation)
	}
}

func renderCSV(title string, rows [][]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{title, time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	for _, row := range rows {
		_ = writer.Write(row)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(title string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Work Hours"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+3)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(title string, rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidth := 180.0 / float64(len(rows[0]))
	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		for _, val := range row {
			pdf.CellFormat(colWidth, 8, val, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
