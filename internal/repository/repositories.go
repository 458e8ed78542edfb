package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Entry     EntryRepository
	Audit     AuditRepository
	Reference ReferenceRepository
	Stats     StatsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Entry:     NewEntryRepository(db),
		Audit:     NewAuditRepository(db),
		Reference: NewReferenceRepository(db),
		Stats:     NewStatsRepository(db),
	}
}
