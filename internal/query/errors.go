package query

import (
	"errors"
	"fmt"
)

// Error is a translation-time failure caused by caller input.
// Translation errors are deterministic and never retried.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the query kind being translated, when known.
	Kind Kind

	// Parameter names the offending parameter, when there is one.
	Parameter string
}

// ErrorCode categorizes translation errors.
type ErrorCode string

const (
	// ErrCodeUnknownQueryKind indicates a kind outside the closed set.
	ErrCodeUnknownQueryKind ErrorCode = "UNKNOWN_QUERY_KIND"

	// ErrCodeMissingParameter indicates a kind-required field is absent.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"

	// ErrCodeNoMatchingEntity indicates an expansion matched zero courses.
	ErrCodeNoMatchingEntity ErrorCode = "NO_MATCHING_ENTITY"

	// ErrCodeNoCurrentAssignment indicates a swap course has no current slot.
	ErrCodeNoCurrentAssignment ErrorCode = "NO_CURRENT_ASSIGNMENT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind != "" && e.Parameter != "" {
		return fmt.Sprintf("%s: %s (type=%s, param=%s)", e.Code, e.Message, e.Kind, e.Parameter)
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (type=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func missing(kind Kind, param string) *Error {
	return &Error{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("missing required parameter %q", param),
		Kind:      kind,
		Parameter: param,
	}
}

// NoMatchingEntity builds a NO_MATCHING_ENTITY error.
func NoMatchingEntity(kind Kind, format string, args ...any) *Error {
	return &Error{Code: ErrCodeNoMatchingEntity, Message: fmt.Sprintf(format, args...), Kind: kind}
}

// NoCurrentAssignment builds a NO_CURRENT_ASSIGNMENT error for a course.
func NoCurrentAssignment(kind Kind, courseID string) *Error {
	return &Error{
		Code:      ErrCodeNoCurrentAssignment,
		Message:   fmt.Sprintf("course %q has no assignment in the current schedule", courseID),
		Kind:      kind,
		Parameter: courseID,
	}
}

// CodeOf returns the error code of a translation error, or "".
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsUnknownQueryKind returns true for UNKNOWN_QUERY_KIND errors.
// Uses errors.As to handle wrapped errors.
func IsUnknownQueryKind(err error) bool {
	return CodeOf(err) == ErrCodeUnknownQueryKind
}

// IsMissingParameter returns true for MISSING_PARAMETER errors.
func IsMissingParameter(err error) bool {
	return CodeOf(err) == ErrCodeMissingParameter
}

// IsNoMatchingEntity returns true for NO_MATCHING_ENTITY errors.
func IsNoMatchingEntity(err error) bool {
	return CodeOf(err) == ErrCodeNoMatchingEntity
}

// IsNoCurrentAssignment returns true for NO_CURRENT_ASSIGNMENT errors.
func IsNoCurrentAssignment(err error) bool {
	return CodeOf(err) == ErrCodeNoCurrentAssignment
}
