package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// CalculationError indicates the metrics calculator received malformed or
// missing input collections. Partial results are never produced alongside it.
type CalculationError struct {
	Reason string
}

func (e *CalculationError) Error() string {
	return "metrics calculation failed: " + e.Reason
}

// NewCalculationError creates a calculation error with the given reason
func NewCalculationError(reason string) *CalculationError {
	return &CalculationError{Reason: reason}
}

// IsCalculationError checks if an error is a CalculationError
func IsCalculationError(err error) bool {
	var calcErr *CalculationError
	return errors.As(err, &calcErr)
}

// PersistenceError wraps a failed durable metric write. Persist failures are
// logged and swallowed; the computed snapshot is still served.
type PersistenceError struct {
	MetricType string
	Err        error
}

func (e *PersistenceError) Error() string {
	return "failed to persist metric " + e.MetricType + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a persistence error for the given metric key
func NewPersistenceError(metricType string, err error) *PersistenceError {
	return &PersistenceError{MetricType: metricType, Err: err}
}
