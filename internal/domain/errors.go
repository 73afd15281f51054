package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID    = "invalid"    // Invalid input or validation failure
	EIDENTITY   = "identity"   // No usable buyer identity / location reference
	EREMOTE     = "remote"     // B2B data endpoint failure (non-2xx or transport)
	EGENERATION = "generation" // Linesheet generation endpoint failure
	ENOTFOUND   = "not_found"  // Resource not found
	ERATELIMIT  = "rate_limit" // Rate limit exceeded
	EINTERNAL   = "internal"   // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "b2bdata.Load")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code, op, message string) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		// For internal errors, return generic message
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// MissingIdentity creates an error for a load attempted without a location
// reference. Unrecoverable without page context.
func MissingIdentity(op string) *Error {
	return &Error{
		Code:    EIDENTITY,
		Op:      op,
		Message: "No location available. Please ensure you have selected a company location.",
	}
}

// Remote creates an error for a failed B2B data endpoint call.
func Remote(err error, op, detail string) *Error {
	return &Error{
		Code:    EREMOTE,
		Op:      op,
		Message: fmt.Sprintf("Failed to load data from server: %s", detail),
		Err:     err,
	}
}

// GenerationFailed creates an error for a failed generation endpoint call.
func GenerationFailed(op string, status int, statusText string) *Error {
	return &Error{
		Code:    EGENERATION,
		Op:      op,
		Message: fmt.Sprintf("Server error generating linesheet: %d %s", status, statusText),
	}
}

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s with ID %q not found", resource, id),
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// RateLimit creates a rate limit error.
func RateLimit(op string) *Error {
	return &Error{
		Code:    ERATELIMIT,
		Op:      op,
		Message: "Too many requests. Please try again later.",
	}
}
