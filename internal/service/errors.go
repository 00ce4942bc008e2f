package service

import (
	"errors"

	"github.com/flowcrm/pipeline-api/internal/forms"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrContactNotFound is returned when a referenced contact does not exist
	ErrContactNotFound = errors.New("contact not found")

	// ErrStageProtected is returned when modifying one of the fixed pipeline stages
	ErrStageProtected = errors.New("stage is protected and cannot be changed")

	// ErrStageExists is returned when adding or renaming to an existing stage name
	ErrStageExists = errors.New("stage already exists")

	// ErrStageNotFound is returned when the named stage is not configured
	ErrStageNotFound = errors.New("stage not found")
)

// ValidationError carries the field-to-message map produced by a form
// validator. It never reaches the store: drafts are validated before any
// remote call is issued.
type ValidationError struct {
	Fields forms.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError wraps a non-empty field error map.
func NewValidationError(fields forms.Errors) *ValidationError {
	return &ValidationError{Fields: fields}
}
