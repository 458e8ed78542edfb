package services

import "errors"

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrPermission   = errors.New("permission denied")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state transition")
)
