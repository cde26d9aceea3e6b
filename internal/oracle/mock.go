package oracle

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/whatif/internal/schedule"
)

// Mock is a non-solving stand-in. Solve places sessions greedily so the rest
// of the pipeline can run without a solver; what-if analysis is refused with
// UNSUPPORTED_IN_MOCK_MODE.
type Mock struct{}

// NewMock creates a mock backend.
func NewMock() *Mock {
	return &Mock{}
}

// Name implements Backend.
func (*Mock) Name() string {
	return "mock"
}

// SolveWhatIf always fails with UNSUPPORTED_IN_MOCK_MODE.
func (*Mock) SolveWhatIf(ctx context.Context, p *Problem) (*WhatIfOutput, error) {
	return nil, &Error{
		Code:    ErrCodeUnsupportedInMockMode,
		Message: "what-if analysis requires a solving oracle",
		Diagnostics: map[string]any{
			"status": StatusNotSupported,
			"error":  "what-if analysis not supported in mock mode",
		},
	}
}

// Solve builds a greedy schedule: sessions go to distinct days, preferring
// periods outside lunch and evening, in the first free room large enough.
func (*Mock) Solve(ctx context.Context, inst *schedule.Instance) (*SolveOutput, error) {
	start := time.Now()

	penalized := make(map[int]bool)
	for _, p := range inst.Term.LunchPeriods() {
		penalized[p] = true
	}
	for _, p := range inst.Term.EveningPeriods() {
		penalized[p] = true
	}

	type cell struct {
		owner  string
		day    string
		period int
	}
	taken := make(map[cell]bool)
	unavailable := make(map[cell]bool)
	for _, in := range inst.Instructors {
		for _, slot := range in.Unavailable {
			unavailable[cell{"instructor:" + in.ID, slot.Day, slot.Period}] = true
		}
	}

	out := &schedule.Schedule{Assignments: make([]schedule.Assignment, 0)}
	for _, c := range inst.Courses {
		placed := 0
		for _, day := range inst.Term.Days {
			if placed == c.SessionsPerWeek {
				break
			}
			a, ok := placeOnDay(inst, c, day, penalized, func(owner string, p int) bool {
				return taken[cell{owner, day, p}] || unavailable[cell{owner, day, p}]
			})
			if !ok {
				continue
			}
			taken[cell{"room:" + a.RoomID, day, a.PeriodStart}] = true
			if c.InstructorID != "" {
				taken[cell{"instructor:" + c.InstructorID, day, a.PeriodStart}] = true
			}
			out.Assignments = append(out.Assignments, a)
			placed++
		}
		if placed < c.SessionsPerWeek {
			slog.Warn("mock solver could not place course", "course", c.ID, "placed", placed, "required", c.SessionsPerWeek)
			return &SolveOutput{
				Status:           StatusInfeasible,
				Diagnostics:      map[string]any{"mode": "mock", "unplaced_course": c.ID},
				SolveTimeSeconds: time.Since(start).Seconds(),
			}, nil
		}
	}

	objective, soft := Score(inst, out)
	return &SolveOutput{
		Status:           StatusOptimal,
		Schedule:         out,
		Objective:        Float(objective),
		SoftConstraints:  soft,
		Diagnostics:      map[string]any{"mode": "mock"},
		SolveTimeSeconds: time.Since(start).Seconds(),
	}, nil
}

func placeOnDay(inst *schedule.Instance, c schedule.Course, day string, penalized map[int]bool, busy func(owner string, p int) bool) (schedule.Assignment, bool) {
	for _, allowPenalized := range []bool{false, true} {
		for p := 0; p < inst.Term.PeriodsPerDay; p++ {
			if penalized[p] != allowPenalized {
				continue
			}
			if c.InstructorID != "" && busy("instructor:"+c.InstructorID, p) {
				continue
			}
			for _, r := range inst.Classrooms {
				if r.Capacity < c.Enrollment || busy("room:"+r.ID, p) {
					continue
				}
				return schedule.Assignment{
					CourseID:     c.ID,
					CourseName:   c.Name,
					InstructorID: c.InstructorID,
					RoomID:       r.ID,
					Week:         1,
					Day:          day,
					PeriodStart:  p,
					PeriodLength: 1,
				}, true
			}
		}
	}
	return schedule.Assignment{}, false
}
