package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// Detection and fill specific errors

// NewDetectionEmptyError returns an error when no qualifying form container
// was found on the page. Non-fatal; surfaced as a status message.
func NewDetectionEmptyError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "No job application form detected",
		Detail:  detail,
	}
}

// NewElementMissingError returns an error when a field's backing element
// vanished between extraction and fill.
func NewElementMissingError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusGone,
		Message: "Form element no longer present",
		Detail:  detail,
	}
}

// NewAuthInvalidError returns an error for a missing or expired token.
func NewAuthInvalidError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnauthorized,
		Message: "Authentication invalid",
		Detail:  detail,
	}
}

// NewNetworkFailureError returns an error for a failed upstream call
// (profile fetch or content generation).
func NewNetworkFailureError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Upstream request failed",
		Detail:  detail,
	}
}

// NewPageLoadError returns an error when a page snapshot could not be loaded.
func NewPageLoadError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Page load failed",
		Detail:  detail,
	}
}
