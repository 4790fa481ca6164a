package services

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both missing records and records the principal may not see
	ErrNotFound           = errors.New("not found")
	ErrDuplicateCaseID    = errors.New("a case with this case ID already exists")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrAlreadyArchived    = errors.New("case is already archived")
	ErrNotArchived        = errors.New("case is not archived")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors for one request
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records an error for field
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Err returns nil when no field errors were recorded
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
