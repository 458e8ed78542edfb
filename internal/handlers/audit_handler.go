package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/workloghq/timesheet-api/internal/middleware"
	"github.com/workloghq/timesheet-api/internal/repository"
	"github.com/workloghq/timesheet-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) Index(c *gin.Context) {
	query := repository.NewAuditQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if entryID, err := strconv.ParseUint(c.Query("task"), 10, 32); err == nil {
		query.EntryID = uint(entryID)
	}

	logs, total, err := h.auditService.List(c.Request.Context(), middleware.GetActor(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, log.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": responses,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

func (h *AuditHandler) ByEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("task_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	logs, total, err := h.auditService.ListByEntry(c.Request.Context(), middleware.GetActor(c), uint(id), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, log.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": responses,
		"pagination": paginationResponse(page, perPage, total),
	})
}
