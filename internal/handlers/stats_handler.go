package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/workloghq/timesheet-api/internal/middleware"
	"github.com/workloghq/timesheet-api/internal/services"
)

type StatsHandler struct {
	statsService  *services.StatsService
	exportService *services.ExportService
}

func NewStatsHandler(statsService *services.StatsService, exportService *services.ExportService) *StatsHandler {
	return &StatsHandler{statsService: statsService, exportService: exportService}
}

// Stats serves the status distribution for a daily, weekly or monthly window
func (h *StatsHandler) Stats(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	distribution, err := h.statsService.StatusDistribution(c.Request.Context(), middleware.GetActor(c), period, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, distribution)
}

// WorkHours serves the work-hours rollup, per day of an ISO week or per
// month of a year depending on the view parameter.
func (h *StatsHandler) WorkHours(c *gin.Context) {
	view := c.DefaultQuery("view", "week")
	year, _ := strconv.Atoi(c.Query("year"))
	actor := middleware.GetActor(c)

	switch view {
	case "week":
		overview, err := h.statsService.WorkHoursWeek(c.Request.Context(), actor, year, c.Query("week"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
	case "year":
		overview, err := h.statsService.WorkHoursYear(c.Request.Context(), actor, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be week or year"})
	}
}

// Export streams the work-hours overview as a CSV, XLSX or PDF download
func (h *StatsHandler) Export(c *gin.Context) {
	view := c.DefaultQuery("view", "week")
	format := c.DefaultQuery("format", "csv")
	year, _ := strconv.Atoi(c.Query("year"))

	data, filename, contentType, err := h.exportService.ExportWorkHours(
		c.Request.Context(), middleware.GetActor(c), view, year, c.Query("week"), format,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
