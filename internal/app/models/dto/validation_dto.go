package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding or validator error into a
// standard ErrorDetail with per-field messages
func HandleValidationError(err error) *ErrorDetail {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		errorDetail := NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format")
		return errorDetail.WithDetails(err.Error())
	}

	validationErrors := NewValidationErrors()
	for _, fieldError := range fieldErrors {
		validationErrors.AddError(fieldError.Field(), formatFieldError(fieldError))
	}

	errorDetail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
	return errorDetail.WithDetails(validationErrors.Errors)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
