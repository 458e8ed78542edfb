package models

import (
	"encoding/json"
	"time"
)

// Audit action constants
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionL1Approve    = "L1_APPROVE"
	AuditActionL2Approve    = "L2_APPROVE"
	AuditActionStatusChange = "STATUS_CHANGE"
)

// EntrySnapshot is the fixed four-field subset captured before and after
// every mutation. A deliberate minimal audit, not a full diff.
type EntrySnapshot struct {
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
	BitrixID    string  `json:"bitrix_id"`
}

// SnapshotOf captures the audited fields of an entry as they currently stand.
func SnapshotOf(e *TimeEntry) EntrySnapshot {
	snap := EntrySnapshot{
		Status:   e.Status.DisplayName,
		Duration: e.Duration,
	}
	if snap.Status == "" {
		snap.Status = e.Status.Name
	}
	if e.Description != nil {
		snap.Description = *e.Description
	}
	if e.BitrixID != nil {
		snap.BitrixID = *e.BitrixID
	}
	return snap
}

// EntryAuditLog is one append-only record of a mutating action on a time
// entry. Rows are never updated or deleted.
type EntryAuditLog struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	EntryID       uint            `gorm:"not null;index" json:"entry_id"`
	Action        string          `gorm:"size:20;not null" json:"action"`
	PerformedByID uint            `gorm:"not null;index" json:"performed_by_id"`
	OldValues     json.RawMessage `gorm:"type:jsonb" json:"old_values"`
	NewValues     json.RawMessage `gorm:"type:jsonb" json:"new_values"`
	Remarks       *string         `gorm:"type:text" json:"remarks"`
	IPAddress     string          `gorm:"size:45" json:"ip_address"`
	UserAgent     string          `gorm:"type:text" json:"user_agent"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Associations
	PerformedBy User `gorm:"foreignKey:PerformedByID" json:"performed_by,omitempty"`
}

// TableName specifies the table name for EntryAuditLog
func (EntryAuditLog) TableName() string {
	return "task_list_audit_log"
}

// NewAuditLog builds an audit record with marshalled snapshots. Snapshots
// may be nil (CREATE has no old values, DELETE no new values).
func NewAuditLog(entryID uint, action string, actorID uint, old, new *EntrySnapshot, remarks, ip, userAgent string) *EntryAuditLog {
	log := &EntryAuditLog{
		EntryID:       entryID,
		Action:        action,
		PerformedByID: actorID,
		IPAddress:     ip,
		UserAgent:     userAgent,
	}
	if remarks != "" {
		log.Remarks = &remarks
	}
	if old != nil {
		log.OldValues, _ = json.Marshal(old)
	}
	if new != nil {
		log.NewValues, _ = json.Marshal(new)
	}
	return log
}

// AuditLogResponse is the JSON response format for audit records
type AuditLogResponse struct {
	ID          uint            `json:"id"`
	EntryID     uint            `json:"entry_id"`
	Action      string          `json:"action"`
	PerformedBy uint            `json:"performed_by"`
	Performer   string          `json:"performed_by_name,omitempty"`
	OldValues   json.RawMessage `json:"old_values"`
	NewValues   json.RawMessage `json:"new_values"`
	Remarks     *string         `json:"remarks"`
	IPAddress   string          `json:"ip_address"`
	UserAgent   string          `json:"user_agent"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts EntryAuditLog to AuditLogResponse
func (l *EntryAuditLog) ToResponse() AuditLogResponse {
	return AuditLogResponse{
		ID:          l.ID,
		EntryID:     l.EntryID,
		Action:      l.Action,
		PerformedBy: l.PerformedByID,
		Performer:   l.PerformedBy.Name,
		OldValues:   l.OldValues,
		NewValues:   l.NewValues,
		Remarks:     l.Remarks,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		CreatedAt:   l.CreatedAt,
	}
}
