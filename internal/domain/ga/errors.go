// Package ga provides domain types for the Google Analytics Data API integration.
package ga

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard domain errors.
var (
	ErrQuotaExhausted     = errors.New("analytics API quota exhausted")
	ErrUnauthorized       = errors.New("unauthorized access to analytics property")
	ErrPropertyNotFound   = errors.New("analytics property not found")
	ErrInvalidRequest     = errors.New("invalid report request parameters")
	ErrServiceUnavailable = errors.New("analytics service temporarily unavailable")
	ErrNotConfigured      = errors.New("analytics client not configured")
)

// StatusCode represents Google API canonical error statuses.
type StatusCode string

// Canonical statuses returned by the Analytics Data API.
const (
	StatusInvalidArgument   StatusCode = "INVALID_ARGUMENT"
	StatusUnauthenticated   StatusCode = "UNAUTHENTICATED"
	StatusPermissionDenied  StatusCode = "PERMISSION_DENIED"
	StatusNotFound          StatusCode = "NOT_FOUND"
	StatusResourceExhausted StatusCode = "RESOURCE_EXHAUSTED"
	StatusDeadlineExceeded  StatusCode = "DEADLINE_EXCEEDED"
	StatusInternal          StatusCode = "INTERNAL"
	StatusUnavailable       StatusCode = "UNAVAILABLE"
	StatusUnknown           StatusCode = "UNKNOWN"
)

// String returns the string representation of the status code.
func (c StatusCode) String() string {
	return string(c)
}

// IsRetryable returns true if the status indicates a transient condition.
func (c StatusCode) IsRetryable() bool {
	switch c {
	case StatusResourceExhausted, StatusUnavailable, StatusInternal, StatusDeadlineExceeded:
		return true
	default:
		return false
	}
}

// APIError represents a structured error from the Analytics Data API.
type APIError struct {
	Status     StatusCode `json:"status"`
	Message    string     `json:"message"`
	HTTPStatus int        `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("analytics [%s]: %s", e.Status, e.Message)
}

// Is implements errors.Is for APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrQuotaExhausted:
		return e.Status == StatusResourceExhausted || e.HTTPStatus == http.StatusTooManyRequests
	case ErrUnauthorized:
		return e.Status == StatusUnauthenticated || e.Status == StatusPermissionDenied ||
			e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden
	case ErrPropertyNotFound:
		return e.Status == StatusNotFound || e.HTTPStatus == http.StatusNotFound
	case ErrInvalidRequest:
		return e.Status == StatusInvalidArgument || e.HTTPStatus == http.StatusBadRequest
	case ErrServiceUnavailable:
		return e.Status == StatusUnavailable || e.Status == StatusInternal || e.HTTPStatus >= 500
	default:
		return false
	}
}

// IsRetryable returns true if this error is safe to retry.
func (e *APIError) IsRetryable() bool {
	if e.Status.IsRetryable() {
		return true
	}
	return e.HTTPStatus == http.StatusTooManyRequests ||
		e.HTTPStatus == http.StatusServiceUnavailable ||
		e.HTTPStatus >= 500
}

// NewAPIError creates a new APIError with the given parameters.
func NewAPIError(status StatusCode, message string, httpStatus int) *APIError {
	if status == "" {
		status = StatusUnknown
	}
	return &APIError{
		Status:     status,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ErrorCategory classifies errors into categories for logging and metrics.
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryQuota          ErrorCategory = "quota"
	CategoryServer         ErrorCategory = "server"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryValidation     ErrorCategory = "validation"
	CategoryUnknown        ErrorCategory = "unknown"
)

// Category returns the category of this error.
func (e *APIError) Category() ErrorCategory {
	switch e.Status {
	case StatusUnauthenticated, StatusPermissionDenied:
		return CategoryAuthentication
	case StatusResourceExhausted:
		return CategoryQuota
	case StatusInternal, StatusUnavailable, StatusDeadlineExceeded:
		return CategoryServer
	case StatusNotFound:
		return CategoryNotFound
	case StatusInvalidArgument:
		return CategoryValidation
	default:
		return CategoryUnknown
	}
}

// ParseStatus normalizes a raw status string from the API error payload.
func ParseStatus(raw string) StatusCode {
	switch StatusCode(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusInvalidArgument, StatusUnauthenticated, StatusPermissionDenied,
		StatusNotFound, StatusResourceExhausted, StatusDeadlineExceeded,
		StatusInternal, StatusUnavailable:
		return StatusCode(strings.ToUpper(strings.TrimSpace(raw)))
	default:
		return StatusUnknown
	}
}
