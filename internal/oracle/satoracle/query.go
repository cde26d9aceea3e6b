package satoracle

import (
	"fmt"

	"github.com/go-air/gini/z"

	"github.com/roach88/whatif/internal/query"
)

// encodeQuery turns one query constraint into a requirement literal.
// References the instance cannot resolve make enforcements unsatisfiable
// and vetoes vacuous.
func (e *encoding) encodeQuery(qc query.Constraint) (z.Lit, error) {
	c := e.c
	unresolved := c.F
	if qc.Kind.IsVeto() {
		unresolved = c.T
	}

	courses := e.targetCourses(qc)
	if len(courses) == 0 && qc.Kind != query.VetoLunch && qc.Kind != query.EnforceNoLunch {
		return unresolved, nil
	}

	day := -1
	if qc.Day != "" {
		if day = e.inst.DayIndex(qc.Day); day < 0 {
			return unresolved, nil
		}
	}

	switch qc.Kind {
	case query.EnforceTimeSlot, query.VetoTimeSlot:
		if day < 0 || qc.PeriodStart == nil {
			return unresolved, nil
		}
		m := e.at(courses[0], day, *qc.PeriodStart)
		if qc.Kind == query.VetoTimeSlot {
			return m.Not(), nil
		}
		return m, nil

	case query.EnforceDay:
		if day < 0 {
			return unresolved, nil
		}
		return e.onDay(courses[0], day), nil

	case query.VetoDay, query.VetoInstructorDay:
		if day < 0 {
			return unresolved, nil
		}
		ms := make([]z.Lit, 0, len(courses))
		for _, ci := range courses {
			ms = append(ms, e.onDay(ci, day).Not())
		}
		return e.ands(ms), nil

	case query.EnforceRoom, query.VetoRoom:
		r := e.roomIndex(qc.RoomID)
		if r < 0 {
			return unresolved, nil
		}
		ms := make([]z.Lit, 0)
		for d := range e.inst.Term.Days {
			for p := 0; p < e.periods; p++ {
				for other := range e.inst.Classrooms {
					if (qc.Kind == query.EnforceRoom) == (other != r) {
						ms = append(ms, e.x[courses[0]][d][p][other].Not())
					}
				}
			}
		}
		return e.ands(ms), nil

	case query.EnforceBeforeTime:
		if qc.PeriodEnd == nil {
			return unresolved, nil
		}
		return e.forbidPeriods(courses[0], func(p int) bool { return p >= *qc.PeriodEnd }), nil

	case query.EnforceAfterTime:
		if qc.PeriodStart == nil {
			return unresolved, nil
		}
		return e.forbidPeriods(courses[0], func(p int) bool { return p < *qc.PeriodStart }), nil

	case query.EnforceNoLunch, query.VetoLunch:
		if qc.CourseID == "" {
			courses = e.allCourses()
		}
		lunch := make(map[int]bool)
		for _, p := range e.inst.Term.LunchPeriods() {
			lunch[p] = true
		}
		ms := make([]z.Lit, 0, len(courses))
		for _, ci := range courses {
			ms = append(ms, e.forbidPeriods(ci, func(p int) bool { return lunch[p] }))
		}
		return e.ands(ms), nil

	case query.EnforceConsecutive:
		next := e.courseIndex(qc.CourseID2)
		if next < 0 {
			return unresolved, nil
		}
		ms := make([]z.Lit, 0)
		for d := range e.inst.Term.Days {
			for p := 0; p < e.periods; p++ {
				ms = append(ms, c.Or(e.at(courses[0], d, p).Not(), e.at(next, d, p+1)))
			}
		}
		return e.ands(ms), nil

	case query.SwapTimeSlots, query.SwapRooms:
		return c.F, fmt.Errorf("%s must be expanded against the current schedule before solving", qc.Kind)
	}
	return c.F, fmt.Errorf("unknown query constraint type %q", qc.Kind)
}

// targetCourses resolves the courses a constraint applies to. An
// instructor-only constraint covers every course the instructor teaches.
func (e *encoding) targetCourses(qc query.Constraint) []int {
	if qc.CourseID != "" {
		if ci := e.courseIndex(qc.CourseID); ci >= 0 {
			return []int{ci}
		}
		return nil
	}
	if qc.InstructorID != "" {
		out := make([]int, 0)
		for ci, course := range e.inst.Courses {
			if course.InstructorID == qc.InstructorID {
				out = append(out, ci)
			}
		}
		return out
	}
	return nil
}

func (e *encoding) allCourses() []int {
	out := make([]int, len(e.inst.Courses))
	for i := range out {
		out[i] = i
	}
	return out
}

// forbidPeriods keeps course ci out of every period matching drop.
func (e *encoding) forbidPeriods(ci int, drop func(p int) bool) z.Lit {
	ms := make([]z.Lit, 0)
	for d := range e.inst.Term.Days {
		for p := 0; p < e.periods; p++ {
			if drop(p) {
				ms = append(ms, e.at(ci, d, p).Not())
			}
		}
	}
	return e.ands(ms)
}
