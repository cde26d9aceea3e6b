package query

import "fmt"

// Describe renders the constraint as a short English sentence.
func (c Constraint) Describe() string {
	switch c.Kind {
	case EnforceTimeSlot:
		return fmt.Sprintf("Schedule %s on %s at period %s%s", c.CourseID, c.Day, period(c.PeriodStart), c.inWeek())
	case EnforceDay:
		return fmt.Sprintf("Schedule %s on %s%s", c.CourseID, c.Day, c.inWeek())
	case EnforceRoom:
		return fmt.Sprintf("Schedule %s in room %s", c.CourseID, c.RoomID)
	case EnforceBeforeTime:
		return fmt.Sprintf("Schedule %s to finish before period %s", c.CourseID, period(c.PeriodEnd))
	case EnforceAfterTime:
		return fmt.Sprintf("Schedule %s at or after period %s", c.CourseID, period(c.PeriodStart))
	case EnforceNoLunch, VetoLunch:
		return fmt.Sprintf("Prevent %s from being scheduled during lunch", c.courseOrAll())
	case EnforceConsecutive:
		return fmt.Sprintf("Schedule %s immediately before %s", c.CourseID, c.CourseID2)
	case VetoTimeSlot:
		return fmt.Sprintf("Avoid scheduling %s on %s at period %s%s", c.CourseID, c.Day, period(c.PeriodStart), c.inWeek())
	case VetoDay:
		return fmt.Sprintf("Avoid scheduling %s on %s", c.target(), c.Day)
	case VetoRoom:
		return fmt.Sprintf("Avoid scheduling %s in room %s", c.CourseID, c.RoomID)
	case VetoInstructorDay:
		return fmt.Sprintf("Avoid scheduling instructor %s on %s", c.InstructorID, c.Day)
	case SwapTimeSlots:
		return fmt.Sprintf("Swap %s and %s time slots", c.CourseID, c.CourseID2)
	case SwapRooms:
		return fmt.Sprintf("Swap %s and %s rooms", c.CourseID, c.CourseID2)
	default:
		return fmt.Sprintf("Query type: %s", c.Kind)
	}
}

func (c Constraint) target() string {
	if c.CourseID != "" {
		return c.CourseID
	}
	return "instructor " + c.InstructorID
}

func (c Constraint) courseOrAll() string {
	if c.CourseID == "" {
		return "all courses"
	}
	return c.CourseID
}

func (c Constraint) inWeek() string {
	if c.Week == nil {
		return ""
	}
	return fmt.Sprintf(" in week %d", *c.Week)
}

func period(p *int) string {
	if p == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *p)
}
