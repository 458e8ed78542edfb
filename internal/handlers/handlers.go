package handlers

import (
	"github.com/workloghq/timesheet-api/internal/services"
	"gorm.io/gorm"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Entry     *EntryHandler
	Audit     *AuditHandler
	Stats     *StatsHandler
	Reference *ReferenceHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, db *gorm.DB) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(db),
		Entry:     NewEntryHandler(svcs.Entry),
		Audit:     NewAuditHandler(svcs.Audit),
		Stats:     NewStatsHandler(svcs.Stats, svcs.Export),
		Reference: NewReferenceHandler(svcs.Reference),
	}
}
