// Package apperror defines the application error taxonomy.
//
// Services and repositories return these errors; the handler layer maps
// them to the HTTP envelope with errors.Is / errors.As. The sentinel
// values are the stable identity of each class, the AppError struct adds
// the human message, machine code, HTTP status, and optional per-field
// details.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)

// Machine-readable codes carried in the error envelope.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnknown      = "UNKNOWN_ERROR"
)

// AppError is a classified application error.
type AppError struct {
	Err     error             // sentinel identifying the class
	Message string            // human-readable message
	Code    string            // machine-readable code
	Status  int               // HTTP status the handler should use
	Details map[string]string // optional per-field validation errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthorized indicates a missing or invalid session.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{Err: ErrUnauthorized, Message: message, Code: CodeUnauthorized, Status: 401}
}

// Forbidden indicates the caller's role does not satisfy an access rule.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{Err: ErrForbidden, Message: message, Code: CodeForbidden, Status: 403}
}

// NotFound indicates an absent identity record or resource.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
		Code:    CodeNotFound,
		Status:  404,
	}
}

// InvalidArgument indicates a request parameter that failed validation.
// The offending parameter is recorded under Details.
func InvalidArgument(param, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidArgument,
		Message: message,
		Code:    CodeValidation,
		Status:  400,
		Details: map[string]string{param: message},
	}
}

// Validation builds a multi-field validation error.
func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:     ErrInvalidArgument,
		Message: "request validation failed",
		Code:    CodeValidation,
		Status:  400,
		Details: details,
	}
}

// Internal wraps a downstream failure. The original error stays reachable
// through Unwrap for logging; the handler decides how much of the message
// the client may see.
func Internal(err error) *AppError {
	if err == nil {
		return &AppError{Err: ErrInternal, Message: "internal error", Code: CodeInternal, Status: 500}
	}
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrInternal, err),
		Message: err.Error(),
		Code:    CodeInternal,
		Status:  500,
	}
}
