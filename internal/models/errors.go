package models

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// NotFound wraps ErrTaskNotFound with the missing id.
func NotFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
}

// ValidationError reports a field whose value is outside its declared domain.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
