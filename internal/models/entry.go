package models

import (
	"strings"
	"time"
)

// EntryStatus is the canonical lifecycle state of a time entry, resolved
// once from the reference status display name when the entry is loaded.
type EntryStatus int

const (
	StatusUnknown EntryStatus = iota
	StatusDraft
	StatusInProgress
	StatusCompleted
)

// ParseEntryStatus maps a status display name to its canonical state.
// Comparison is case-insensitive and whitespace-trimmed; the recognized
// synonyms mirror the reference data seeded in master_status.
func ParseEntryStatus(name string) EntryStatus {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "draft":
		return StatusDraft
	case "inprogress", "in progress":
		return StatusInProgress
	case "completed", "done", "finished":
		return StatusCompleted
	default:
		return StatusUnknown
	}
}

func (s EntryStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// TimeEntry represents one per-day work-time record subject to the
// two-level approval workflow.
type TimeEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Date        time.Time  `gorm:"type:date;not null;index:idx_entries_user_date" json:"date"`
	UserID      uint       `gorm:"not null;index:idx_entries_user_date;index:idx_entries_user_status" json:"user_id"`
	PlatformID  uint       `gorm:"not null;index" json:"platform_id"`
	TaskID      uint       `gorm:"not null" json:"task_id"`
	SubtaskID   *uint      `json:"subtask_id"`
	BitrixID    *string    `gorm:"size:50;index" json:"bitrix_id"`
	Duration    float64    `gorm:"type:decimal(6,2);not null;default:0" json:"duration"`
	Description *string    `gorm:"type:text" json:"description"`
	StatusID    uint       `gorm:"not null;index:idx_entries_user_status" json:"status_id"`
	L1ApproverID *uint      `gorm:"index" json:"l1_approver_id"`
	L2ApproverID *uint      `gorm:"index" json:"l2_approver_id"`
	L1ApprovedAt *time.Time `json:"l1_approved_at"`
	L2ApprovedAt *time.Time `json:"l2_approved_at"`
	LastModifiedByID *uint     `json:"last_modified_by_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	User       User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Platform   Platform `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	Task       Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Subtask    *Subtask `gorm:"foreignKey:SubtaskID" json:"subtask,omitempty"`
	Status     Status   `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	L1Approver *User    `gorm:"foreignKey:L1ApproverID" json:"l1_approver,omitempty"`
	L2Approver *User    `gorm:"foreignKey:L2ApproverID" json:"l2_approver,omitempty"`
}

// TableName specifies the table name for TimeEntry
func (TimeEntry) TableName() string {
	return "task_list"
}

// State returns the canonical lifecycle state derived from the preloaded
// status reference row.
func (e *TimeEntry) State() EntryStatus {
	return ParseEntryStatus(e.Status.Name)
}

// MayApproveL1 returns true if the entry can still receive a level-1 approval
func (e *TimeEntry) MayApproveL1() bool {
	return e.L1ApproverID == nil && e.State() == StatusDraft
}

// MayApproveL2 returns true if the entry can still receive a level-2 approval
func (e *TimeEntry) MayApproveL2() bool {
	return e.L2ApproverID == nil && e.State() == StatusInProgress
}

// IsL1Approved returns true once a level-1 approver has signed off
func (e *TimeEntry) IsL1Approved() bool {
	return e.L1ApproverID != nil
}

// IsL2Approved returns true once a level-2 approver has signed off
func (e *TimeEntry) IsL2Approved() bool {
	return e.L2ApproverID != nil
}

// EntryResponse is the JSON response format for time entries
type EntryResponse struct {
	ID           uint       `json:"id"`
	Date         string     `json:"date"`
	UserID       uint       `json:"user_id"`
	UserName     string     `json:"user_username,omitempty"`
	PlatformID   uint       `json:"platform"`
	PlatformName string     `json:"platform_name,omitempty"`
	TaskID       uint       `json:"task"`
	TaskName     string     `json:"task_name,omitempty"`
	SubtaskID    *uint      `json:"subtask"`
	SubtaskName  *string    `json:"subtask_name,omitempty"`
	BitrixID     *string    `json:"bitrix_id"`
	Duration     float64    `json:"duration"`
	Description  *string    `json:"description"`
	StatusID     uint       `json:"status"`
	StatusName   string     `json:"status_name,omitempty"`
	State        string     `json:"state"`
	L1ApproverID *uint      `json:"l1_approver"`
	L1Approver   string     `json:"l1_approver_name,omitempty"`
	L1ApprovedAt *time.Time `json:"l1_approved_at"`
	L2ApproverID *uint      `json:"l2_approver"`
	L2Approver   string     `json:"l2_approver_name,omitempty"`
	L2ApprovedAt *time.Time `json:"l2_approved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToResponse converts TimeEntry to EntryResponse
func (e *TimeEntry) ToResponse() EntryResponse {
	resp := EntryResponse{
		ID:           e.ID,
		Date:         e.Date.Format("2006-01-02"),
		UserID:       e.UserID,
		UserName:     e.User.Firstname,
		PlatformID:   e.PlatformID,
		PlatformName: e.Platform.Name,
		TaskID:       e.TaskID,
		TaskName:     e.Task.Name,
		SubtaskID:    e.SubtaskID,
		BitrixID:     e.BitrixID,
		Duration:     e.Duration,
		Description:  e.Description,
		StatusID:     e.StatusID,
		StatusName:   e.Status.Name,
		State:        e.State().String(),
		L1ApproverID: e.L1ApproverID,
		L1ApprovedAt: e.L1ApprovedAt,
		L2ApproverID: e.L2ApproverID,
		L2ApprovedAt: e.L2ApprovedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Subtask != nil {
		resp.SubtaskName = &e.Subtask.Name
	}
	if e.L1Approver != nil {
		resp.L1Approver = e.L1Approver.Name
	}
	if e.L2Approver != nil {
		resp.L2Approver = e.L2Approver.Name
	}
	return resp
}
