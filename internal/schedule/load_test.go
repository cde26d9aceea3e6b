package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInstanceJSONAppliesDefaults(t *testing.T) {
	inst, err := LoadInstance("testdata/instance.json")
	require.NoError(t, err)

	assert.Equal(t, "sample", inst.Name)
	require.Len(t, inst.Courses, 3)
	assert.Equal(t, "CS101", inst.Courses[0].ID)
	assert.Equal(t, 2, inst.Courses[0].SessionsPerWeek)

	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, inst.Term.Days)
	assert.Equal(t, "08:00", inst.Term.DayStartTime)
	assert.Equal(t, 20, inst.Term.PeriodsPerDay)
	assert.Equal(t, 30, inst.Term.PeriodLengthMinutes)
	assert.Equal(t, "12:00", inst.Term.LunchStartTime)
	assert.Equal(t, "12:30", inst.Term.LunchEndTime)
	assert.Equal(t, 10, inst.Weights.StudentConflict)
	assert.Equal(t, 1, inst.Weights.PreferredTimeSlots)

	assert.Empty(t, inst.Instructors[0].Unavailable)
	require.Len(t, inst.Instructors[1].Unavailable, 1)
	assert.Equal(t, Slot{Day: "Fri", Period: 0}, inst.Instructors[1].Unavailable[0])
}

func TestLoadInstanceYAML(t *testing.T) {
	inst, err := LoadInstance("testdata/instance.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sample-yaml", inst.Name)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, inst.Term.Days)
	assert.Equal(t, 10, inst.Term.PeriodsPerDay)
	assert.Equal(t, 5, inst.Weights.StudentConflict)
	assert.Equal(t, 1, inst.Weights.PreferredTimeSlots)
	assert.Empty(t, inst.Students)
}

func TestLoadInstanceCUE(t *testing.T) {
	inst, err := LoadInstance("testdata/instance.cue")
	require.NoError(t, err)

	assert.Equal(t, "sample-cue", inst.Name)
	assert.Equal(t, "11:45", inst.Term.LunchStartTime)
	assert.Equal(t, "12:30", inst.Term.LunchEndTime)
	assert.Equal(t, 40, inst.Classrooms[0].Capacity)
	assert.Equal(t, []int{7, 8}, inst.Term.LunchPeriods())
}

func TestLoadInstanceInvalid(t *testing.T) {
	_, err := LoadInstance("testdata/invalid.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid instance")
}

func TestLoadInstanceUnsupportedExtension(t *testing.T) {
	_, err := LoadInstance("testdata/instance.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported instance format")
}

func TestInstanceLookups(t *testing.T) {
	inst, err := LoadInstance("testdata/instance.json")
	require.NoError(t, err)

	assert.True(t, inst.HasCourse("CS201"))
	assert.False(t, inst.HasCourse("CS999"))
	assert.True(t, inst.HasInstructor("I2"))
	assert.True(t, inst.HasClassroom("R2"))

	taught := inst.CoursesTaughtBy("I1")
	require.Len(t, taught, 2)
	assert.Equal(t, "CS101", taught[0].ID)
	assert.Equal(t, "CS201", taught[1].ID)
	assert.NotNil(t, inst.CoursesTaughtBy("nobody"))

	assert.Equal(t, 1, inst.SharedStudents("CS101", "MATH101"))
	assert.Equal(t, 0, inst.SharedStudents("CS201", "MATH101"))
	assert.Equal(t, 2, inst.DayIndex("Wed"))
	assert.Equal(t, -1, inst.DayIndex("Sun"))
}

func TestInstanceFingerprintStable(t *testing.T) {
	a, err := LoadInstance("testdata/instance.json")
	require.NoError(t, err)
	b, err := LoadInstance("testdata/instance.json")
	require.NoError(t, err)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Courses[0].SessionsPerWeek = 3
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestScheduleFind(t *testing.T) {
	s := &Schedule{Assignments: []Assignment{
		{CourseID: "CS101", Day: "Mon", PeriodStart: 2, RoomID: "R1", Week: 1},
		{CourseID: "CS101", Day: "Wed", PeriodStart: 2, RoomID: "R1", Week: 1},
	}}

	a, ok := s.Find("CS101")
	require.True(t, ok)
	assert.Equal(t, "Mon", a.Day)
	assert.Len(t, s.ForCourse("CS101"), 2)

	_, ok = s.Find("CS201")
	assert.False(t, ok)

	var nilSchedule *Schedule
	_, ok = nilSchedule.Find("CS101")
	assert.False(t, ok)
}
