package schedule

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/whatif/internal/canon"
)

// Instance is an original scheduling problem.
type Instance struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Courses     []Course     `json:"courses" yaml:"courses"`
	Instructors []Instructor `json:"instructors" yaml:"instructors"`
	Classrooms  []Classroom  `json:"classrooms" yaml:"classrooms"`
	Students    []Student    `json:"students" yaml:"students"`
	Term        TermConfig   `json:"term_config" yaml:"term_config"`
	Weights     Weights      `json:"weights" yaml:"weights"`
}

// Course is a course that needs weekly sessions.
type Course struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	InstructorID    string `json:"instructor_id" yaml:"instructor_id"`
	Enrollment      int    `json:"enrollment" yaml:"enrollment"`
	SessionsPerWeek int    `json:"sessions_per_week" yaml:"sessions_per_week"`
}

// Instructor teaches courses and may be unavailable in some slots.
type Instructor struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Unavailable []Slot `json:"unavailable" yaml:"unavailable"`
}

// Slot is a (day, period) cell of the weekly grid.
type Slot struct {
	Day    string `json:"day" yaml:"day"`
	Period int    `json:"period" yaml:"period"`
}

// Classroom is a room with a seat capacity.
type Classroom struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// Student lists the courses a student is enrolled in.
type Student struct {
	ID      string   `json:"id" yaml:"id"`
	Courses []string `json:"courses" yaml:"courses"`
}

// Weights are the soft-constraint penalty weights.
type Weights struct {
	StudentConflict       int `json:"student_conflict" yaml:"student_conflict"`
	InstructorCompactness int `json:"instructor_compactness" yaml:"instructor_compactness"`
	PreferredTimeSlots    int `json:"preferred_time_slots" yaml:"preferred_time_slots"`
}

// Course returns the course with the given id.
func (inst *Instance) Course(id string) (Course, bool) {
	for _, c := range inst.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// Instructor returns the instructor with the given id.
func (inst *Instance) Instructor(id string) (Instructor, bool) {
	for _, i := range inst.Instructors {
		if i.ID == id {
			return i, true
		}
	}
	return Instructor{}, false
}

// Classroom returns the classroom with the given id.
func (inst *Instance) Classroom(id string) (Classroom, bool) {
	for _, r := range inst.Classrooms {
		if r.ID == id {
			return r, true
		}
	}
	return Classroom{}, false
}

// HasCourse reports whether a course id exists.
func (inst *Instance) HasCourse(id string) bool {
	_, ok := inst.Course(id)
	return ok
}

// HasInstructor reports whether an instructor id exists.
func (inst *Instance) HasInstructor(id string) bool {
	_, ok := inst.Instructor(id)
	return ok
}

// HasClassroom reports whether a classroom id exists.
func (inst *Instance) HasClassroom(id string) bool {
	_, ok := inst.Classroom(id)
	return ok
}

// CoursesTaughtBy returns the courses of an instructor in instance order.
// Returns an empty slice (not nil) when there are none.
func (inst *Instance) CoursesTaughtBy(instructorID string) []Course {
	courses := make([]Course, 0)
	for _, c := range inst.Courses {
		if c.InstructorID == instructorID {
			courses = append(courses, c)
		}
	}
	return courses
}

// DayIndex returns the position of a day label in the term calendar, or -1.
func (inst *Instance) DayIndex(day string) int {
	return slices.Index(inst.Term.Days, day)
}

// SharedStudents counts the students enrolled in both courses.
func (inst *Instance) SharedStudents(a, b string) int {
	n := 0
	for _, s := range inst.Students {
		if slices.Contains(s.Courses, a) && slices.Contains(s.Courses, b) {
			n++
		}
	}
	return n
}

// Fingerprint returns a stable content hash of the instance.
func (inst *Instance) Fingerprint() (string, error) {
	data, err := json.Marshal(inst)
	if err != nil {
		return "", fmt.Errorf("fingerprint instance: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", fmt.Errorf("fingerprint instance: %w", err)
	}
	return canon.Hash(canon.DomainInstance, generic)
}
