package pipeline

import (
	"errors"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/validate"
)

var (
	// ErrRunNotOptimal is returned when a what-if targets a run whose
	// primary solve did not reach optimality.
	ErrRunNotOptimal = errors.New("can only run what-if analysis on optimal schedules")

	// ErrNoConstraints is returned when a question translates to nothing.
	ErrNoConstraints = errors.New("query produced no constraints")

	// ErrInvalidRequest is returned for requests missing required fields.
	ErrInvalidRequest = errors.New("invalid what-if request")
)

// ErrorCode returns the stable code of a request rejection, or "" when
// err is not one.
func ErrorCode(err error) string {
	var failure *validate.Failure
	switch {
	case errors.As(err, &failure) && len(failure.Issues) > 0:
		return failure.Issues[0].Code
	case errors.Is(err, store.ErrRunNotFound):
		return "RUN_NOT_FOUND"
	case errors.Is(err, ErrNoConstraints):
		return "NO_CONSTRAINTS"
	case errors.Is(err, ErrRunNotOptimal):
		return "RUN_NOT_OPTIMAL"
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	}
	return string(query.CodeOf(err))
}

// errorCode labels a rejection for metrics.
func errorCode(err error) string {
	if code := ErrorCode(err); code != "" {
		return code
	}
	return "UNKNOWN"
}
