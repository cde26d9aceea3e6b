package validate

import (
	"fmt"
	"strings"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

// Validation issue codes.
const (
	ErrContradictoryConstraints = "CONTRADICTORY_CONSTRAINTS"
	ErrUnknownEntityReference   = "UNKNOWN_ENTITY_REFERENCE"
)

// Issue is one validation failure.
type Issue struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Index   int    `json:"index"`
}

// Error implements the error interface.
func (e Issue) Error() string {
	return fmt.Sprintf("[%s] constraints[%d].%s: %s", e.Code, e.Index, e.Field, e.Message)
}

// Failure wraps a non-empty issue list as an error.
type Failure struct {
	Issues []Issue
}

// Error joins the issue messages with "; ".
func (f *Failure) Error() string {
	return strings.Join(Messages(f.Issues), "; ")
}

// AsError returns nil for an empty issue list and a *Failure otherwise.
func AsError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return &Failure{Issues: issues}
}

// Messages extracts the human-readable messages.
func Messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}

// Validate reports whether constraints pass every check, with one message
// per violation.
func Validate(constraints []query.Constraint, inst *schedule.Instance) (bool, []string) {
	issues := Check(constraints, inst)
	return len(issues) == 0, Messages(issues)
}

// Check returns every issue found, contradictions first. Never panics; a
// nil instance only disables the referential checks.
func Check(constraints []query.Constraint, inst *schedule.Instance) []Issue {
	issues := make([]Issue, 0)
	issues = append(issues, contradictions(constraints)...)
	if inst != nil {
		issues = append(issues, unknownReferences(constraints, inst)...)
	}
	return issues
}

type slotKey struct {
	course string
	week   string
	day    string
	period string
}

func keyOf(c query.Constraint) slotKey {
	k := slotKey{course: c.CourseID, day: c.Day}
	if c.Week != nil {
		k.week = fmt.Sprint(*c.Week)
	}
	if c.PeriodStart != nil {
		k.period = fmt.Sprint(*c.PeriodStart)
	}
	return k
}

func isEnforceClass(k query.Kind) bool {
	return k == query.EnforceTimeSlot || k == query.EnforceDay
}

func isVetoClass(k query.Kind) bool {
	return k == query.VetoTimeSlot || k == query.VetoDay
}

func contradictions(constraints []query.Constraint) []Issue {
	enforced := make(map[slotKey]int)
	vetoed := make(map[slotKey]int)
	order := make([]slotKey, 0)
	seen := make(map[slotKey]bool)

	for i, c := range constraints {
		var target map[slotKey]int
		switch {
		case isEnforceClass(c.Kind):
			target = enforced
		case isVetoClass(c.Kind):
			target = vetoed
		default:
			continue
		}
		k := keyOf(c)
		if _, ok := target[k]; !ok {
			target[k] = i
		}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	issues := make([]Issue, 0)
	for _, k := range order {
		ei, inEnforce := enforced[k]
		vi, inVeto := vetoed[k]
		if !inEnforce || !inVeto {
			continue
		}
		msg := fmt.Sprintf("Contradictory constraints: Cannot both enforce and veto %s on %s", k.course, k.day)
		if k.period != "" {
			msg += " at period " + k.period
		}
		if k.week != "" {
			msg += " in week " + k.week
		}
		issues = append(issues, Issue{
			Code:    ErrContradictoryConstraints,
			Field:   "course_id",
			Message: msg,
			Index:   max(ei, vi),
		})
	}
	return issues
}

func unknownReferences(constraints []query.Constraint, inst *schedule.Instance) []Issue {
	issues := make([]Issue, 0)
	unknown := func(i int, field, what, id string) {
		issues = append(issues, Issue{
			Code:    ErrUnknownEntityReference,
			Field:   field,
			Message: fmt.Sprintf("Unknown %s ID: %s", what, id),
			Index:   i,
		})
	}

	for i, c := range constraints {
		if c.CourseID != "" && !inst.HasCourse(c.CourseID) {
			unknown(i, "course_id", "course", c.CourseID)
		}
		if c.CourseID2 != "" && !inst.HasCourse(c.CourseID2) {
			unknown(i, "course_id_2", "course", c.CourseID2)
		}
		if c.InstructorID != "" && !inst.HasInstructor(c.InstructorID) {
			unknown(i, "instructor_id", "instructor", c.InstructorID)
		}
		if c.RoomID != "" && !inst.HasClassroom(c.RoomID) {
			unknown(i, "room_id", "room", c.RoomID)
		}
	}
	return issues
}
