package models

import "time"

// Reference data owned by the external master-data component. The core
// reads these tables by id/name only; management stays out of scope.

// Platform represents a delivery platform an entry is booked against
type Platform struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	DisplayName *string   `gorm:"size:255" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Platform) TableName() string {
	return "master_platform"
}

// Task is a master task definition entries reference
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	DisplayName *string   `gorm:"type:text" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "master_task"
}

// Subtask is a master subtask belonging to exactly one task
type Subtask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"not null;index" json:"task_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	DisplayName *string   `gorm:"type:text" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (Subtask) TableName() string {
	return "master_subTask"
}

// Status is a named lifecycle status row; entries hold a foreign key to it
// and derive their canonical state from its name (see ParseEntryStatus).
type Status struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Status) TableName() string {
	return "master_status"
}

// State returns the canonical lifecycle state this status row names.
func (s *Status) State() EntryStatus {
	return ParseEntryStatus(s.Name)
}
