package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/workloghq/timesheet-api/internal/services"
)

// ReferenceHandler serves the read-only master lookups backing the entry
// form dropdowns.
type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) Platforms(c *gin.Context) {
	platforms, err := h.referenceService.Platforms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"platforms": platforms})
}

func (h *ReferenceHandler) Tasks(c *gin.Context) {
	tasks, err := h.referenceService.Tasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *ReferenceHandler) Subtasks(c *gin.Context) {
	var taskID uint
	if id, err := strconv.ParseUint(c.Query("task"), 10, 32); err == nil {
		taskID = uint(id)
	}

	subtasks, err := h.referenceService.Subtasks(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": subtasks})
}

func (h *ReferenceHandler) Statuses(c *gin.Context) {
	statuses, err := h.referenceService.Statuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}
