package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workloghq/timesheet-api/internal/metrics"
	"github.com/workloghq/timesheet-api/internal/middleware"
	"github.com/workloghq/timesheet-api/internal/models"
	"github.com/workloghq/timesheet-api/internal/repository"
	"github.com/workloghq/timesheet-api/internal/services"
)

type EntryHandler struct {
	entryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// entryRequest is the JSON body of create and full-update requests
type entryRequest struct {
	Date        string   `json:"date" binding:"required"`
	PlatformID  uint     `json:"platform_id"`
	TaskID      uint     `json:"task_id"`
	SubtaskID   *uint    `json:"subtask_id"`
	BitrixID    *string  `json:"bitrix_id"`
	Duration    *float64 `json:"duration" binding:"required"`
	Description *string  `json:"description"`
	StatusID    *uint    `json:"status_id"`
}

// actionRequest is the JSON body of approval requests routed through PUT
type actionRequest struct {
	Action  string `json:"action"`
	Remarks string `json:"remarks"`
}

func (r *entryRequest) toInput() (services.EntryInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return services.EntryInput{}, err
	}
	duration := 0.0
	if r.Duration != nil {
		duration = *r.Duration
	}
	return services.EntryInput{
		Date:        date,
		PlatformID:  r.PlatformID,
		TaskID:      r.TaskID,
		SubtaskID:   r.SubtaskID,
		BitrixID:    r.BitrixID,
		Duration:    duration,
		Description: r.Description,
		StatusID:    r.StatusID,
	}, nil
}

func (h *EntryHandler) Index(c *gin.Context) {
	query := repository.NewEntryQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	query.Search = c.Query("search")
	query.StartDate = c.Query("start_date")
	query.EndDate = c.Query("end_date")
	if platformID, err := strconv.ParseUint(c.Query("platform"), 10, 32); err == nil {
		query.PlatformID = uint(platformID)
	}
	if taskID, err := strconv.ParseUint(c.Query("task"), 10, 32); err == nil {
		query.TaskID = uint(taskID)
	}
	if statusID, err := strconv.ParseUint(c.Query("status"), 10, 32); err == nil {
		query.StatusID = uint(statusID)
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		query.UserID = uint(userID)
	}

	entries, total, err := h.entryService.List(c.Request.Context(), middleware.GetActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, entry.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      responses,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

func (h *EntryHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("task_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	entry, err := h.entryService.FindByID(c.Request.Context(), middleware.GetActor(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": entry.ToResponse()})
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), middleware.GetActor(c), input, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": entry.ToResponse()})
}

// Update handles both field updates and approval actions. A body carrying
// an "action" of L1_APPROVE or L2_APPROVE triggers the corresponding
// sign-off; anything else is treated as a full field update.
func (h *EntryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("task_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	var action actionRequest
	if err := json.Unmarshal(body, &action); err == nil {
		switch strings.ToUpper(strings.TrimSpace(action.Action)) {
		case "L1_APPROVE":
			h.approve(c, uint(id), "l1", action.Remarks)
			return
		case "L2_APPROVE":
			h.approve(c, uint(id), "l2", action.Remarks)
			return
		}
	}

	var req entryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date == "" || req.Duration == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and duration are required"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), middleware.GetActor(c), uint(id), input, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": entry.ToResponse()})
}

func (h *EntryHandler) approve(c *gin.Context, id uint, level, remarks string) {
	actor := middleware.GetActor(c)
	ip := c.ClientIP()
	userAgent := c.Request.UserAgent()

	var entry *models.TimeEntry
	var already bool
	var err error

	switch level {
	case "l1":
		entry, already, err = h.entryService.ApproveL1(c.Request.Context(), actor, id, remarks, ip, userAgent)
	case "l2":
		entry, already, err = h.entryService.ApproveL2(c.Request.Context(), actor, id, remarks, ip, userAgent)
	}

	if err != nil {
		respondError(c, err)
		return
	}

	if !already {
		metrics.ApprovalsTotal.WithLabelValues(level).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"task":             entry.ToResponse(),
		"already_approved": already,
	})
}

func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("task_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), middleware.GetActor(c), uint(id), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
