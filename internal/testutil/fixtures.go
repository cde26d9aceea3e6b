package testutil

import "github.com/roach88/whatif/internal/schedule"

// SampleInstance returns a three-course instance with every default spelled
// out: five days, twenty 30-minute periods from 08:00, lunch 12:00-12:30
// (period 8) and evening from 17:00 (periods 18 and 19).
//
// I1 (Smith) teaches CS101 and CS201; I2 (Jones) teaches MATH101 and is
// unavailable on Friday period 0.
func SampleInstance() *schedule.Instance {
	return &schedule.Instance{
		Name: "sample",
		Courses: []schedule.Course{
			{ID: "CS101", Name: "Intro to Programming", InstructorID: "I1", Enrollment: 30, SessionsPerWeek: 2},
			{ID: "CS201", Name: "Data Structures", InstructorID: "I1", Enrollment: 25, SessionsPerWeek: 2},
			{ID: "MATH101", Name: "Calculus", InstructorID: "I2", Enrollment: 40, SessionsPerWeek: 2},
		},
		Instructors: []schedule.Instructor{
			{ID: "I1", Name: "Smith", Unavailable: []schedule.Slot{}},
			{ID: "I2", Name: "Jones", Unavailable: []schedule.Slot{{Day: "Fri", Period: 0}}},
		},
		Classrooms: []schedule.Classroom{
			{ID: "R1", Name: "Room 101", Capacity: 50},
			{ID: "R2", Name: "Room 102", Capacity: 30},
		},
		Students: []schedule.Student{
			{ID: "S1", Courses: []string{"CS101", "MATH101"}},
			{ID: "S2", Courses: []string{"CS101", "CS201"}},
		},
		Term: schedule.TermConfig{
			Days:                []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			NumWeeks:            1,
			DayStartTime:        "08:00",
			PeriodsPerDay:       20,
			PeriodLengthMinutes: 30,
			LunchStartTime:      "12:00",
			LunchEndTime:        "12:30",
			EveningStartTime:    "17:00",
		},
		Weights: schedule.Weights{
			StudentConflict:       10,
			InstructorCompactness: 0,
			PreferredTimeSlots:    1,
		},
	}
}

// SampleSchedule returns a conflict-free schedule for SampleInstance.
func SampleSchedule() *schedule.Schedule {
	return &schedule.Schedule{Assignments: []schedule.Assignment{
		{CourseID: "CS101", CourseName: "Intro to Programming", InstructorID: "I1", RoomID: "R1", Week: 1, Day: "Mon", PeriodStart: 2, PeriodLength: 1},
		{CourseID: "CS101", CourseName: "Intro to Programming", InstructorID: "I1", RoomID: "R1", Week: 1, Day: "Wed", PeriodStart: 2, PeriodLength: 1},
		{CourseID: "CS201", CourseName: "Data Structures", InstructorID: "I1", RoomID: "R2", Week: 1, Day: "Tue", PeriodStart: 4, PeriodLength: 1},
		{CourseID: "CS201", CourseName: "Data Structures", InstructorID: "I1", RoomID: "R2", Week: 1, Day: "Thu", PeriodStart: 4, PeriodLength: 1},
		{CourseID: "MATH101", CourseName: "Calculus", InstructorID: "I2", RoomID: "R1", Week: 1, Day: "Mon", PeriodStart: 4, PeriodLength: 1},
		{CourseID: "MATH101", CourseName: "Calculus", InstructorID: "I2", RoomID: "R1", Week: 1, Day: "Wed", PeriodStart: 4, PeriodLength: 1},
	}}
}
