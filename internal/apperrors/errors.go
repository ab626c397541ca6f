// Package apperrors defines the error taxonomy shared by the commerce
// gateway, the services and the HTTP handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a product, order or coupon cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured is returned by every commerce operation when no
	// credentials are present and sample data is disabled.
	ErrNotConfigured = errors.New("commerce backend not configured")
)

// ValidationError describes client-caused, malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps a failed call to the commerce platform.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("commerce %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("commerce %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates an upstream error for op.
func NewUpstreamError(op string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Op: op, StatusCode: statusCode, Err: err}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsValidation returns the validation error wrapped in err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
