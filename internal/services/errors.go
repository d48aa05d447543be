// Package services provides the business logic layer between handlers and the
// upstream telemetry source. Services fetch, decode and hand records to the
// analytics engine, and translate failures into ServiceErrors.
package services

import (
	"errors"

	"github.com/petdex/analytics/internal/upstream"
)

// Service error codes
const (
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInternal            = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// fetchError converts a fetch failure into a ServiceError
func fetchError(err error) *ServiceError {
	if errors.Is(err, upstream.ErrUpstreamUnavailable) {
		return NewServiceErrorWithDetails(CodeUpstreamUnavailable,
			"Telemetry source is unavailable",
			map[string]interface{}{"error": err.Error()})
	}
	return NewServiceErrorWithDetails(CodeInternal, "Failed to load telemetry",
		map[string]interface{}{"error": err.Error()})
}
