package services

import (
	"github.com/workloghq/timesheet-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Entry     *EntryService
	Audit     *AuditService
	Stats     *StatsService
	Export    *ExportService
	Reference *ReferenceService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories) *Services {
	statsSvc := NewStatsService(repos.Stats)

	return &Services{
		Entry:     NewEntryService(repos.Entry, repos.Reference),
		Audit:     NewAuditService(repos.Audit, repos.Entry),
		Stats:     statsSvc,
		Export:    NewExportService(statsSvc),
		Reference: NewReferenceService(repos.Reference),
	}
}
