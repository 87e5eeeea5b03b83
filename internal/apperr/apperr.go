package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned for missing, invalid or expired sessions.
var ErrUnauthorized = errors.New("unauthorized")

// ConflictError is a business-rule violation with a message safe to show
// to the caller (duplicate account, invalid credentials, bad token, ...).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(msg string) error { return &ConflictError{Message: msg} }

// FieldError carries every violation found while parsing a single field.
type FieldError struct {
	Violations []string
}

func (e *FieldError) Error() string { return strings.Join(e.Violations, "\n") }

func Field(violations ...string) error { return &FieldError{Violations: violations} }

// ValidationError aggregates FieldErrors across a whole request, keyed by
// field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, violations := range e.Fields {
		parts = append(parts, field+": "+strings.Join(violations, "; "))
	}
	return strings.Join(parts, "\n")
}

func Validation(fields map[string][]string) error { return &ValidationError{Fields: fields} }

// InternalError wraps an unexpected integration failure. The wrapped error
// is kept for logging; callers only ever see a generic message.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return fmt.Sprintf("internal error: %v", e.Err) }

func (e *InternalError) Unwrap() error { return e.Err }

func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &InternalError{Err: err}
}

func Internalf(format string, args ...any) error {
	return &InternalError{Err: fmt.Errorf(format, args...)}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
