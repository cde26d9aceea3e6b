package oracle

import (
	"errors"
	"fmt"
)

// Error is a failure of the oracle collaborator. Diagnostics carries the
// oracle's raw diagnostic payload and is passed through unmodified.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Diagnostics is the oracle's raw diagnostic payload.
	Diagnostics map[string]any

	// Retryable marks transport failures worth another attempt.
	Retryable bool

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes oracle errors.
type ErrorCode string

const (
	// ErrCodeOracle indicates a transport or runtime failure of the solver.
	ErrCodeOracle ErrorCode = "ORACLE_ERROR"

	// ErrCodeUnsupportedInMockMode indicates the oracle is a non-solving stub.
	ErrCodeUnsupportedInMockMode ErrorCode = "UNSUPPORTED_IN_MOCK_MODE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an ORACLE_ERROR with the cause recorded in diagnostics.
func NewError(message string, err error, retryable bool) *Error {
	diag := map[string]any{"error": message}
	if err != nil {
		diag["error"] = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{
		Code:        ErrCodeOracle,
		Message:     message,
		Diagnostics: diag,
		Retryable:   retryable,
		Err:         err,
	}
}

// IsUnsupportedInMockMode returns true for UNSUPPORTED_IN_MOCK_MODE errors.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedInMockMode(err error) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeUnsupportedInMockMode
	}
	return false
}

// IsRetryable reports whether err is an oracle error worth retrying.
func IsRetryable(err error) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Retryable
	}
	return false
}

// DiagnosticsOf returns the diagnostic payload of an oracle error, or a
// payload holding just the error text for any other error.
func DiagnosticsOf(err error) map[string]any {
	var oe *Error
	if errors.As(err, &oe) && oe.Diagnostics != nil {
		return oe.Diagnostics
	}
	return map[string]any{"error": err.Error()}
}
