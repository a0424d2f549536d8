package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gpay-config/internal/googlepay"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnsupported    = errors.New("unsupported configuration")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Details    []FieldDetail `json:"details,omitempty"`
	StatusCode int           `json:"-"` // HTTP status, not serialized
	Err        error         `json:"-"` // Wrapped error, not serialized
}

// FieldDetail names one offending configuration key.
type FieldDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		Details:    []FieldDetail{{Field: field, Reason: reason}},
		StatusCode: http.StatusBadRequest,
		Err:        ErrInvalidRequest,
	}
}

// NewUnsupportedError creates a 422 error for configurations that parse but
// cannot be turned into a payment method.
func NewUnsupportedError(err error) *APIError {
	return &APIError{
		Code:       "UNSUPPORTED_CONFIGURATION",
		Message:    err.Error(),
		StatusCode: http.StatusUnprocessableEntity,
		Err:        fmt.Errorf("%w: %v", ErrUnsupported, err),
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConfigurationError maps a parse failure to an API error. Every
// *googlepay.FieldError in err (including errors.Join trees) becomes one
// detail of a single 400; an existing *APIError is returned as-is; anything
// else is treated as a builder rejection.
func NewConfigurationError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	fields := collectFieldErrors(err, nil)
	if len(fields) == 0 {
		return NewUnsupportedError(err)
	}

	details := make([]FieldDetail, len(fields))
	keys := make([]string, len(fields))
	for i, fe := range fields {
		keys[i] = fe.Key
		details[i] = FieldDetail{
			Field:  fe.Key,
			Reason: strings.TrimPrefix(fe.Error(), fe.Key+": "),
		}
	}

	message := fmt.Sprintf("invalid %s: %s", details[0].Field, details[0].Reason)
	if len(details) > 1 {
		message = "invalid configuration keys: " + strings.Join(keys, ", ")
	}

	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		Details:    details,
		StatusCode: http.StatusBadRequest,
		Err:        fmt.Errorf("%w: %w", ErrInvalidRequest, err),
	}
}

func collectFieldErrors(err error, out []*googlepay.FieldError) []*googlepay.FieldError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			out = collectFieldErrors(inner, out)
		}
		return out
	}

	var fe *googlepay.FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}
