package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a sharing rule or save-in-progress conflict
func IsConflict(err error) bool {
	return errors.Is(err, apperrors.ErrConflict)
}

// IsOutOfRange checks if error addresses a position that does not exist
func IsOutOfRange(err error) bool {
	return errors.Is(err, apperrors.ErrOutOfRange)
}

// errorStatus names the error kind for logs.
func errorStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsValidation(err), IsOutOfRange(err):
		return "validation_error"
	case IsConflict(err):
		return "conflict"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
