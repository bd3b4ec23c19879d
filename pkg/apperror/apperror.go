package apperror

import (
	"errors"
	"net/http"
)

// Standard error kinds
var (
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrPermission    = errors.New("permission denied")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrRateLimited   = errors.New("too many requests")
	ErrConfiguration = errors.New("configuration missing")
	ErrStorage       = errors.New("storage failure")
)

// GenericMessage is what clients see for any 5xx fault.
const GenericMessage = "Internal server error"

// AppError carries a classified error with the HTTP status it maps to.
type AppError struct {
	Err        error // one of the kind sentinels above
	Cause      error
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Internal reports whether the error is a server-side fault.
func (e *AppError) Internal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// PublicMessage is safe to return to a client.
func (e *AppError) PublicMessage() string {
	if e.Err == ErrConfiguration {
		return "Service temporarily unavailable"
	}
	if e.Internal() {
		return GenericMessage
	}
	return e.Message
}

func newAppError(kind error, message string, statusCode int, cause error) *AppError {
	return &AppError{
		Err:        kind,
		Cause:      cause,
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewValidationError(message string) *AppError {
	return newAppError(ErrValidation, message, http.StatusBadRequest, nil)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(ErrUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewPermissionError(message string) *AppError {
	return newAppError(ErrPermission, message, http.StatusForbidden, nil)
}

func NewNotFoundError(message string) *AppError {
	return newAppError(ErrNotFound, message, http.StatusNotFound, nil)
}

func NewConflictError(message string) *AppError {
	return newAppError(ErrConflict, message, http.StatusConflict, nil)
}

func NewRateLimitError(message string) *AppError {
	return newAppError(ErrRateLimited, message, http.StatusTooManyRequests, nil)
}

// NewConfigurationError flags a missing reference row; operators are alerted, clients get 503.
func NewConfigurationError(message string, cause error) *AppError {
	return newAppError(ErrConfiguration, message, http.StatusServiceUnavailable, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return newAppError(ErrStorage, message, http.StatusInternalServerError, cause)
}

// From classifies any error. Unclassified errors are treated as storage faults.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewStorageError("unexpected failure", err)
}

// Is reports whether err is of the given kind.
func Is(err error, kind error) bool {
	return errors.Is(err, kind)
}
