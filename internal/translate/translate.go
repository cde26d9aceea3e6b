package translate

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

// Structured parses loosely typed parameters for kind and translates them.
func Structured(kind string, params map[string]any, inst *schedule.Instance) ([]query.Constraint, error) {
	req, err := query.ParseRequest(kind, params)
	if err != nil {
		return nil, err
	}
	return Translate(req, inst)
}

// Translate expands one typed request into atomic constraints. Kinds that
// expand against the instance (lunch and instructor-day vetoes) report
// NO_MATCHING_ENTITY when inst is nil.
func Translate(req query.Request, inst *schedule.Instance) ([]query.Constraint, error) {
	var (
		out []query.Constraint
		err error
	)

	switch r := req.(type) {
	case *query.EnforceTimeSlotRequest:
		out = []query.Constraint{withWeek(query.NewEnforceTimeSlot(r.CourseID, r.Day, r.Period), r.Week)}
	case *query.EnforceDayRequest:
		out = []query.Constraint{query.NewEnforceDay(r.CourseID, r.Day)}
	case *query.EnforceRoomRequest:
		out = []query.Constraint{query.NewEnforceRoom(r.CourseID, r.RoomID)}
	case *query.EnforceBeforeTimeRequest:
		out = []query.Constraint{query.NewEnforceBeforeTime(r.CourseID, r.Period)}
	case *query.EnforceAfterTimeRequest:
		out = []query.Constraint{query.NewEnforceAfterTime(r.CourseID, r.Period)}
	case *query.EnforceNoLunchRequest:
		if err = requireInstance(query.EnforceNoLunch, inst); err == nil {
			out = lunchVetoes([]string{r.CourseID}, inst)
		}
	case *query.EnforceConsecutiveRequest:
		out = []query.Constraint{query.NewEnforceConsecutive(r.CourseID, r.NextCourseID)}
	case *query.VetoTimeSlotRequest:
		out = []query.Constraint{withWeek(query.NewVetoTimeSlot(r.CourseID, r.Day, r.Period), r.Week)}
	case *query.VetoDayRequest:
		if r.CourseID != "" {
			out = []query.Constraint{query.NewVetoDay(r.CourseID, r.Day)}
		} else {
			out, err = instructorDayVetoes(query.VetoDay, r.InstructorID, r.Day, inst)
		}
	case *query.VetoRoomRequest:
		out = []query.Constraint{query.NewVetoRoom(r.CourseID, r.RoomID)}
	case *query.VetoLunchRequest:
		out, err = vetoLunch(r, inst)
	case *query.VetoInstructorDayRequest:
		out, err = instructorDayVetoes(query.VetoInstructorDay, r.InstructorID, r.Day, inst)
	case *query.SwapTimeSlotsRequest:
		out, err = swapTimeSlots(r)
	case *query.SwapRoomsRequest:
		out, err = swapRooms(r)
	default:
		return nil, &query.Error{Code: query.ErrCodeUnknownQueryKind, Message: "unsupported request variant"}
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("translated query", "type", req.Kind(), "constraints", len(out))
	return out, nil
}

func withWeek(c query.Constraint, week *int) query.Constraint {
	if week == nil {
		return c
	}
	return c.WithWeek(*week)
}

func requireInstance(kind query.Kind, inst *schedule.Instance) error {
	if inst == nil {
		return query.NoMatchingEntity(kind, "no instance to expand against")
	}
	return nil
}

// instructorDayVetoes emits one veto_day per course taught by instructorID.
func instructorDayVetoes(kind query.Kind, instructorID, day string, inst *schedule.Instance) ([]query.Constraint, error) {
	if err := requireInstance(kind, inst); err != nil {
		return nil, err
	}
	courses := inst.CoursesTaughtBy(instructorID)
	if len(courses) == 0 {
		return nil, query.NoMatchingEntity(kind, "instructor %q teaches no courses", instructorID)
	}
	return lo.Map(courses, func(c schedule.Course, _ int) query.Constraint {
		return query.NewVetoDay(c.ID, day).WithInstructor(instructorID)
	}), nil
}

func vetoLunch(r *query.VetoLunchRequest, inst *schedule.Instance) ([]query.Constraint, error) {
	if err := requireInstance(query.VetoLunch, inst); err != nil {
		return nil, err
	}
	if r.CourseID != "" {
		return lunchVetoes([]string{r.CourseID}, inst), nil
	}
	if len(inst.Courses) == 0 {
		return nil, query.NoMatchingEntity(query.VetoLunch, "instance has no courses")
	}
	ids := lo.Map(inst.Courses, func(c schedule.Course, _ int) string { return c.ID })
	return lunchVetoes(ids, inst), nil
}

// lunchVetoes emits course x day x lunch-period veto_time_slot constraints.
func lunchVetoes(courseIDs []string, inst *schedule.Instance) []query.Constraint {
	periods := inst.Term.LunchPeriods()
	out := make([]query.Constraint, 0, len(courseIDs)*len(inst.Term.Days)*len(periods))
	for _, courseID := range courseIDs {
		for _, day := range inst.Term.Days {
			for _, p := range periods {
				out = append(out, query.NewVetoTimeSlot(courseID, day, p))
			}
		}
	}
	return out
}

func currentPair(kind query.Kind, current *schedule.Schedule, a, b string) (schedule.Assignment, schedule.Assignment, error) {
	slotA, ok := current.Find(a)
	if !ok {
		return slotA, schedule.Assignment{}, query.NoCurrentAssignment(kind, a)
	}
	slotB, ok := current.Find(b)
	if !ok {
		return slotA, slotB, query.NoCurrentAssignment(kind, b)
	}
	return slotA, slotB, nil
}

func atSlot(c query.Constraint, slot schedule.Assignment) query.Constraint {
	if slot.Week > 0 {
		return c.WithWeek(slot.Week)
	}
	return c
}

// swapTimeSlots decomposes a swap into exactly four atomic constraints.
func swapTimeSlots(r *query.SwapTimeSlotsRequest) ([]query.Constraint, error) {
	slotA, slotB, err := currentPair(query.SwapTimeSlots, r.Current, r.CourseA, r.CourseB)
	if err != nil {
		return nil, err
	}
	return []query.Constraint{
		atSlot(query.NewEnforceTimeSlot(r.CourseA, slotB.Day, slotB.PeriodStart), slotB),
		atSlot(query.NewVetoTimeSlot(r.CourseA, slotA.Day, slotA.PeriodStart), slotA),
		atSlot(query.NewEnforceTimeSlot(r.CourseB, slotA.Day, slotA.PeriodStart), slotA),
		atSlot(query.NewVetoTimeSlot(r.CourseB, slotB.Day, slotB.PeriodStart), slotB),
	}, nil
}

func swapRooms(r *query.SwapRoomsRequest) ([]query.Constraint, error) {
	slotA, slotB, err := currentPair(query.SwapRooms, r.Current, r.CourseA, r.CourseB)
	if err != nil {
		return nil, err
	}
	return []query.Constraint{
		query.NewEnforceRoom(r.CourseA, slotB.RoomID),
		query.NewVetoRoom(r.CourseA, slotA.RoomID),
		query.NewEnforceRoom(r.CourseB, slotA.RoomID),
		query.NewVetoRoom(r.CourseB, slotB.RoomID),
	}, nil
}
