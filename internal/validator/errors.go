package validator

import (
	"strconv"

	"github.com/SAP-F-2025/form-service/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
