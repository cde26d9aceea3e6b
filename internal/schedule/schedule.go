package schedule

// Assignment places one weekly session of a course.
type Assignment struct {
	CourseID     string `json:"course_id" yaml:"course_id"`
	CourseName   string `json:"course_name,omitempty" yaml:"course_name,omitempty"`
	InstructorID string `json:"instructor_id,omitempty" yaml:"instructor_id,omitempty"`
	RoomID       string `json:"room_id" yaml:"room_id"`
	Week         int    `json:"week" yaml:"week"`
	Day          string `json:"day" yaml:"day"`
	PeriodStart  int    `json:"period_start" yaml:"period_start"`
	PeriodLength int    `json:"period_length" yaml:"period_length"`
}

// Schedule is a solved timetable.
type Schedule struct {
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
}

// Find returns the first assignment of a course.
func (s *Schedule) Find(courseID string) (Assignment, bool) {
	if s == nil {
		return Assignment{}, false
	}
	for _, a := range s.Assignments {
		if a.CourseID == courseID {
			return a, true
		}
	}
	return Assignment{}, false
}

// At returns the assignment of a course starting at (day, period).
func (s *Schedule) At(courseID, day string, period int) (Assignment, bool) {
	if s == nil {
		return Assignment{}, false
	}
	for _, a := range s.Assignments {
		if a.CourseID == courseID && a.Day == day && a.PeriodStart == period {
			return a, true
		}
	}
	return Assignment{}, false
}

// ForCourse returns every assignment of a course in schedule order.
func (s *Schedule) ForCourse(courseID string) []Assignment {
	out := make([]Assignment, 0)
	if s == nil {
		return out
	}
	for _, a := range s.Assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}
