package satoracle

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/samber/lo"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

// group is a named set of requirements switched on by one literal.
type group struct {
	id          string
	typ         string
	description string
	act         z.Lit
	req         z.Lit
}

// encoding is one circuit plus the solver it was loaded into.
type encoding struct {
	inst    *schedule.Instance
	c       *logic.C
	g       *gini.Gini
	periods int

	// x[course][day][period][room]
	x       [][][][]z.Lit
	atCache map[[3]int]z.Lit

	groups   []group
	actIndex map[z.Lit]int

	cost   *costCircuit
	bounds map[int]z.Lit
}

func newEncoding(inst *schedule.Instance) *encoding {
	e := &encoding{
		inst:     inst,
		c:        logic.NewC(),
		periods:  inst.Term.PeriodsPerDay,
		atCache:  make(map[[3]int]z.Lit),
		actIndex: make(map[z.Lit]int),
		bounds:   make(map[int]z.Lit),
	}

	e.x = make([][][][]z.Lit, len(inst.Courses))
	for ci := range inst.Courses {
		e.x[ci] = make([][][]z.Lit, len(inst.Term.Days))
		for d := range inst.Term.Days {
			e.x[ci][d] = make([][]z.Lit, e.periods)
			for p := 0; p < e.periods; p++ {
				e.x[ci][d][p] = make([]z.Lit, len(inst.Classrooms))
				for r := range inst.Classrooms {
					e.x[ci][d][p][r] = e.c.Lit()
				}
			}
		}
	}

	e.cost = newCostCircuit(e.c, e.penalties())
	return e
}

// at is true when course ci meets at (d, p) in any room.
func (e *encoding) at(ci, d, p int) z.Lit {
	if p < 0 || p >= e.periods {
		return e.c.F
	}
	key := [3]int{ci, d, p}
	if m, ok := e.atCache[key]; ok {
		return m
	}
	m := e.c.Ors(e.x[ci][d][p]...)
	e.atCache[key] = m
	return m
}

// onDay is true when course ci meets on day d.
func (e *encoding) onDay(ci, d int) z.Lit {
	ms := make([]z.Lit, 0, e.periods)
	for p := 0; p < e.periods; p++ {
		ms = append(ms, e.at(ci, d, p))
	}
	return e.c.Ors(ms...)
}

func (e *encoding) ands(ms []z.Lit) z.Lit {
	if len(ms) == 0 {
		return e.c.T
	}
	return e.c.Ands(ms...)
}

// atMostOne bounds the number of true literals in ms by one.
func (e *encoding) atMostOne(ms []z.Lit) z.Lit {
	switch {
	case len(ms) <= 1:
		return e.c.T
	case len(ms) <= 6:
		pairs := make([]z.Lit, 0, len(ms)*(len(ms)-1)/2)
		for i := range ms {
			for j := i + 1; j < len(ms); j++ {
				pairs = append(pairs, e.c.Or(ms[i].Not(), ms[j].Not()))
			}
		}
		return e.ands(pairs)
	default:
		return leq(e.c, e.c.CardSort(ms), 1)
	}
}

func (e *encoding) addGroup(id, typ, description string, req z.Lit) {
	act := e.c.Lit()
	e.actIndex[act] = len(e.groups)
	e.groups = append(e.groups, group{id: id, typ: typ, description: description, act: act, req: req})
}

func groupID(family, entity string) string {
	return fmt.Sprintf("%s[%s]", family, entity)
}

// addHardGroups encodes the instance's hard constraints.
func (e *encoding) addHardGroups() {
	inst := e.inst

	for ci, course := range inst.Courses {
		all := make([]z.Lit, 0)
		perDay := make([]z.Lit, 0, len(inst.Term.Days))
		for d := range inst.Term.Days {
			day := make([]z.Lit, 0)
			for p := 0; p < e.periods; p++ {
				day = append(day, e.x[ci][d][p]...)
			}
			all = append(all, day...)
			perDay = append(perDay, e.atMostOne(day))
		}

		sorter := e.c.CardSort(all)
		e.addGroup(groupID(oracle.C3HoursRequirement, course.ID), oracle.C3HoursRequirement,
			fmt.Sprintf("Course %s must be scheduled for exactly %d sessions per week", course.ID, course.SessionsPerWeek),
			e.c.And(geq(e.c, sorter, course.SessionsPerWeek), leq(e.c, sorter, course.SessionsPerWeek)))

		e.addGroup(groupID(oracle.C8OneSessionPerDay, course.ID), oracle.C8OneSessionPerDay,
			fmt.Sprintf("Course %s can meet at most once per day", course.ID),
			e.ands(perDay))

		tooSmall := make([]z.Lit, 0)
		for r, room := range inst.Classrooms {
			if room.Capacity >= course.Enrollment {
				continue
			}
			for d := range inst.Term.Days {
				for p := 0; p < e.periods; p++ {
					tooSmall = append(tooSmall, e.x[ci][d][p][r].Not())
				}
			}
		}
		if len(tooSmall) > 0 {
			e.addGroup(groupID(oracle.C7RoomCapacity, course.ID), oracle.C7RoomCapacity,
				fmt.Sprintf("Course %s (%d students) can only use rooms with enough capacity", course.ID, course.Enrollment),
				e.ands(tooSmall))
		}
	}

	for r, room := range inst.Classrooms {
		slots := make([]z.Lit, 0)
		for d := range inst.Term.Days {
			for p := 0; p < e.periods; p++ {
				occupants := make([]z.Lit, len(inst.Courses))
				for ci := range inst.Courses {
					occupants[ci] = e.x[ci][d][p][r]
				}
				slots = append(slots, e.atMostOne(occupants))
			}
		}
		e.addGroup(groupID(oracle.C2RoomConflict, room.ID), oracle.C2RoomConflict,
			fmt.Sprintf("Room %s can host at most one course per time slot", room.ID),
			e.ands(slots))
	}

	for _, in := range inst.Instructors {
		taught := e.courseIndices(lo.Map(inst.CoursesTaughtBy(in.ID), func(c schedule.Course, _ int) string { return c.ID }))

		if len(taught) > 1 {
			slots := make([]z.Lit, 0)
			for d := range inst.Term.Days {
				for p := 0; p < e.periods; p++ {
					slots = append(slots, e.atMostOne(lo.Map(taught, func(ci int, _ int) z.Lit { return e.at(ci, d, p) })))
				}
			}
			e.addGroup(groupID(oracle.C1TeacherConflict, in.ID), oracle.C1TeacherConflict,
				fmt.Sprintf("Instructor %s can teach at most one course per time slot", in.ID),
				e.ands(slots))
		}

		for _, slot := range in.Unavailable {
			d := inst.DayIndex(slot.Day)
			if d < 0 || slot.Period < 0 || slot.Period >= e.periods || len(taught) == 0 {
				continue
			}
			e.addGroup(groupID(oracle.C4InstructorAvailability, fmt.Sprintf("%s@%s/%d", in.ID, slot.Day, slot.Period)), oracle.C4InstructorAvailability,
				fmt.Sprintf("Instructor %s is unavailable on %s at period %d", in.ID, slot.Day, slot.Period),
				e.ands(lo.Map(taught, func(ci int, _ int) z.Lit { return e.at(ci, d, slot.Period).Not() })))
		}
	}
}

func (e *encoding) courseIndices(ids []string) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if ci := e.courseIndex(id); ci >= 0 {
			out = append(out, ci)
		}
	}
	return out
}

func (e *encoding) courseIndex(id string) int {
	return slices.IndexFunc(e.inst.Courses, func(c schedule.Course) bool { return c.ID == id })
}

func (e *encoding) roomIndex(id string) int {
	return slices.IndexFunc(e.inst.Classrooms, func(r schedule.Classroom) bool { return r.ID == id })
}

// addQueryGroups adds one group per query constraint, ids q1, q2, ...
func (e *encoding) addQueryGroups(cs []query.Constraint) error {
	for i, qc := range cs {
		req, err := e.encodeQuery(qc)
		if err != nil {
			return err
		}
		e.addGroup(fmt.Sprintf("q%d", i+1), oracle.TypeQueryPrefix+string(qc.Kind), qc.Describe(), req)
	}
	return nil
}

// addMinimality bounds the objective by the original optimum.
func (e *encoding) addMinimality(bound float64) {
	b := floorBound(bound)
	req := e.c.F
	if b >= 0 {
		req = e.cost.leq(b)
	}
	e.addGroup(oracle.TypeMinimality, oracle.TypeMinimality,
		fmt.Sprintf("Total soft constraint penalty must not exceed %s (the original optimal objective)", formatObjective(bound)),
		req)
}

// prepareBounds creates objective <= k literals before the circuit is loaded.
func (e *encoding) prepareBounds(ks ...int) {
	for _, k := range ks {
		e.bounds[k] = e.cost.leq(k)
	}
}

// load writes the circuit into a fresh solver and links each activation
// literal to its requirement.
func (e *encoding) load() {
	e.g = gini.New()
	e.c.ToCnf(e.g)
	for _, grp := range e.groups {
		e.g.Add(grp.act.Not())
		e.g.Add(grp.req)
		e.g.Add(z.LitNull)
	}
}

func (e *encoding) allGroups() []int {
	out := make([]int, len(e.groups))
	for i := range out {
		out[i] = i
	}
	return out
}

// solve assumes the given groups plus extra literals.
func (e *encoding) solve(ctx context.Context, groups []int, extra ...z.Lit) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, gi := range groups {
		e.g.Assume(e.groups[gi].act)
	}
	if len(extra) > 0 {
		e.g.Assume(extra...)
	}
	switch e.g.Solve() {
	case 1:
		return true, nil
	case -1:
		return false, nil
	default:
		return false, fmt.Errorf("sat solver returned unknown")
	}
}

// failedGroups maps the solver's failed assumptions back to groups, in
// group order.
func (e *encoding) failedGroups() []int {
	out := make([]int, 0)
	for _, m := range e.g.Why(nil) {
		if gi, ok := e.actIndex[m]; ok {
			out = append(out, gi)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// decode reads the weekly pattern out of a satisfying assignment.
func (e *encoding) decode() *schedule.Schedule {
	s := &schedule.Schedule{Assignments: make([]schedule.Assignment, 0)}
	for ci, course := range e.inst.Courses {
		for d, day := range e.inst.Term.Days {
			for p := 0; p < e.periods; p++ {
				for r, room := range e.inst.Classrooms {
					if !e.g.Value(e.x[ci][d][p][r]) {
						continue
					}
					s.Assignments = append(s.Assignments, schedule.Assignment{
						CourseID:     course.ID,
						CourseName:   course.Name,
						InstructorID: course.InstructorID,
						RoomID:       room.ID,
						Week:         1,
						Day:          day,
						PeriodStart:  p,
						PeriodLength: 1,
					})
				}
			}
		}
	}
	return s
}
