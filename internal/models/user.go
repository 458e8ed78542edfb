package models

import "time"

// User is the minimal projection of the identity component's user record.
// Authentication and user management live outside this service; only the
// fields needed for ownership checks and display are mapped.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255" json:"name"`
	EmployeeID string    `gorm:"size:50" json:"employee_id"`
	Firstname  string    `gorm:"size:255" json:"firstname"`
	Email      *string   `gorm:"size:255" json:"email,omitempty"`
	IsStaff    bool      `gorm:"default:false" json:"is_staff"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
