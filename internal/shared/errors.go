package shared

import (
	"errors"
	"fmt"
)

// Code identifies a service failure class. The set is closed so the
// transport mapping stays total.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the failure half of every service result. A service operation
// returns either a value or an *Error, never both.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// ValidationError reports malformed or out-of-range input.
func ValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// UnauthorizedError reports a missing or unauthenticated caller.
func UnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// ForbiddenError reports a failed role/permission/ownership check.
func ForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NotFoundError reports an absent entity.
func NotFoundError(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// InternalError wraps an unexpected failure. The cause is preserved for
// logging but callers only see the generic message.
func InternalError(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// CodeOf extracts the service code from err, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}
