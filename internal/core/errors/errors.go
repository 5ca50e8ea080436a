package errors

import (
	"errors"
	"strings"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("action forbidden")

	// Identity
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")

	// Tickets
	ErrTicketNotFound = errors.New("ticket not found")

	// Generic
	ErrInternal = errors.New("internal server error")
)

// Validation messages the API exposes. The wording is part of the external
// contract and must not change.
const (
	MsgTitleRequired  = "Title no information"
	MsgIDRequired     = "Id no information"
	MsgStatusRequired = "Status no information"
)

// NotFoundError carries the id-specific "Register not found" message while
// still matching ErrTicketNotFound through errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "Register not found id:" + e.ID
}

func (e *NotFoundError) Unwrap() error {
	return ErrTicketNotFound
}

// NewNotFound returns the not-found error for the given ticket id.
func NewNotFound(id string) error {
	return &NotFoundError{ID: id}
}

// ValidationErrors collects the human-readable messages for every missing or
// invalid field in a request. Messages are surfaced as an ordered list, not a
// single error: a request missing several fields reports all of them in one
// attempt.
type ValidationErrors struct {
	Messages []string
}

// NewValidationErrors returns an empty collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add appends a message to the list.
func (v *ValidationErrors) Add(message string) {
	v.Messages = append(v.Messages, message)
}

// HasErrors reports whether any message was collected.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Messages) > 0
}

func (v *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(v.Messages, "; ")
}

// AppError wraps errors with additional context for HTTP responses.
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUnauthorizedError builds a 401 AppError.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

// NewForbiddenError builds a 403 AppError.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Message:    message,
		Code:       "FORBIDDEN",
		StatusCode: 403,
	}
}

// NewInternalError builds a 500 AppError hiding the underlying cause.
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}
