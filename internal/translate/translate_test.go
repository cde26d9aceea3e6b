package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/testutil"
)

func TestStructuredSingleConstraintKinds(t *testing.T) {
	inst := testutil.SampleInstance()

	tests := []struct {
		kind   string
		params map[string]any
		want   query.Constraint
	}{
		{"enforce_time_slot", map[string]any{"course_id": "CS101", "day": "Tue", "period": 3}, query.NewEnforceTimeSlot("CS101", "Tue", 3)},
		{"enforce_time_slot", map[string]any{"course_id": "CS101", "day": "Tue", "period": 3, "week": 1}, query.NewEnforceTimeSlot("CS101", "Tue", 3).WithWeek(1)},
		{"enforce_day", map[string]any{"course_id": "CS101", "day": "Fri"}, query.NewEnforceDay("CS101", "Fri")},
		{"enforce_room", map[string]any{"course_id": "CS101", "room_id": "R2"}, query.NewEnforceRoom("CS101", "R2")},
		{"enforce_before_time", map[string]any{"course_id": "CS101", "period_before": 4}, query.NewEnforceBeforeTime("CS101", 4)},
		{"enforce_after_time", map[string]any{"course_id": "CS101", "period_after": 10}, query.NewEnforceAfterTime("CS101", 10)},
		{"enforce_consecutive", map[string]any{"course_id": "CS101", "course_id_2": "CS201"}, query.NewEnforceConsecutive("CS101", "CS201")},
		{"veto_time_slot", map[string]any{"course_id": "CS101", "day": "Mon", "period": 2}, query.NewVetoTimeSlot("CS101", "Mon", 2)},
		{"veto_day", map[string]any{"course_id": "CS101", "day": "Mon"}, query.NewVetoDay("CS101", "Mon")},
		{"veto_room", map[string]any{"course_id": "CS101", "room_id": "R1"}, query.NewVetoRoom("CS101", "R1")},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := Structured(tt.kind, tt.params, inst)
			require.NoError(t, err)
			assert.Equal(t, []query.Constraint{tt.want}, got)
		})
	}
}

func TestBeforeAndAfterTimeCarryNoDayOrRoom(t *testing.T) {
	inst := testutil.SampleInstance()

	got, err := Structured("enforce_before_time", map[string]any{"course_id": "CS101", "period_before": 4}, inst)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Day)
	assert.Empty(t, got[0].RoomID)
	assert.Nil(t, got[0].PeriodStart)
	require.NotNil(t, got[0].PeriodEnd)
	assert.Equal(t, 4, *got[0].PeriodEnd)

	got, err = Structured("enforce_after_time", map[string]any{"course_id": "CS101", "period_after": 6}, inst)
	require.NoError(t, err)
	assert.Nil(t, got[0].PeriodEnd)
	require.NotNil(t, got[0].PeriodStart)
	assert.Equal(t, 6, *got[0].PeriodStart)
}

func TestInstructorVetoExpandsPerCourse(t *testing.T) {
	inst := testutil.SampleInstance()

	for _, kind := range []string{"veto_day", "veto_instructor_day"} {
		t.Run(kind, func(t *testing.T) {
			got, err := Structured(kind, map[string]any{"instructor_id": "I1", "day": "Mon"}, inst)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, query.VetoDay, got[0].Kind)
			assert.Equal(t, "CS101", got[0].CourseID)
			assert.Equal(t, "CS201", got[1].CourseID)
			assert.Equal(t, "I1", got[1].InstructorID)
			assert.Equal(t, "Mon", got[1].Day)
		})
	}
}

func TestInstructorVetoWithoutCourses(t *testing.T) {
	inst := testutil.SampleInstance()

	_, err := Structured("veto_instructor_day", map[string]any{"instructor_id": "I9", "day": "Mon"}, inst)
	require.Error(t, err)
	assert.True(t, query.IsNoMatchingEntity(err))
}

func TestNoLunchExpansion(t *testing.T) {
	inst := testutil.SampleInstance()

	got, err := Structured("enforce_no_lunch", map[string]any{"course_id": "CS101"}, inst)
	require.NoError(t, err)
	require.Len(t, got, 5, "one lunch period on each of five days")

	for i, day := range inst.Term.Days {
		assert.Equal(t, query.NewVetoTimeSlot("CS101", day, 8), got[i])
	}
}

func TestNoLunchWideWindow(t *testing.T) {
	inst := testutil.SampleInstance()
	inst.Term.Days = []string{"Mon", "Tue"}
	inst.Term.LunchStartTime = "11:45"
	inst.Term.LunchEndTime = "13:00"

	got, err := Structured("enforce_no_lunch", map[string]any{"course_id": "CS101"}, inst)
	require.NoError(t, err)
	assert.Equal(t, []query.Constraint{
		query.NewVetoTimeSlot("CS101", "Mon", 7),
		query.NewVetoTimeSlot("CS101", "Mon", 8),
		query.NewVetoTimeSlot("CS101", "Mon", 9),
		query.NewVetoTimeSlot("CS101", "Tue", 7),
		query.NewVetoTimeSlot("CS101", "Tue", 8),
		query.NewVetoTimeSlot("CS101", "Tue", 9),
	}, got)
}

func TestVetoLunchAllCourses(t *testing.T) {
	inst := testutil.SampleInstance()

	got, err := Structured("veto_lunch", map[string]any{}, inst)
	require.NoError(t, err)
	assert.Len(t, got, 15)
	assert.Equal(t, "CS101", got[0].CourseID)
	assert.Equal(t, "MATH101", got[14].CourseID)

	inst.Courses = nil
	_, err = Structured("veto_lunch", map[string]any{}, inst)
	assert.True(t, query.IsNoMatchingEntity(err))
}

func TestInstanceExpansionsWithoutInstance(t *testing.T) {
	tests := []struct {
		kind   string
		params map[string]any
	}{
		{"enforce_no_lunch", map[string]any{"course_id": "CS101"}},
		{"veto_lunch", map[string]any{}},
		{"veto_lunch", map[string]any{"course_id": "CS101"}},
		{"veto_instructor_day", map[string]any{"instructor_id": "I1", "day": "Mon"}},
		{"veto_day", map[string]any{"instructor_id": "I1", "day": "Mon"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := Structured(tt.kind, tt.params, nil)
			assert.Nil(t, got)
			assert.True(t, query.IsNoMatchingEntity(err), "got %v", err)
		})
	}

	got, err := Structured("enforce_day", map[string]any{"course_id": "CS101", "day": "Mon"}, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSwapTimeSlotsDecomposesIntoFour(t *testing.T) {
	inst := testutil.SampleInstance()
	current := testutil.SampleSchedule()

	got, err := Structured("swap_time_slots", map[string]any{
		"course_id_1":      "CS101",
		"course_id_2":      "CS201",
		"current_schedule": current,
	}, inst)
	require.NoError(t, err)

	// CS101 is first placed Mon/2, CS201 Tue/4.
	assert.Equal(t, []query.Constraint{
		query.NewEnforceTimeSlot("CS101", "Tue", 4).WithWeek(1),
		query.NewVetoTimeSlot("CS101", "Mon", 2).WithWeek(1),
		query.NewEnforceTimeSlot("CS201", "Mon", 2).WithWeek(1),
		query.NewVetoTimeSlot("CS201", "Tue", 4).WithWeek(1),
	}, got)
}

func TestSwapLeavesOtherCoursesUntouched(t *testing.T) {
	inst := testutil.SampleInstance()

	got, err := Structured("swap_time_slots", map[string]any{
		"course_id_1":      "CS101",
		"course_id_2":      "MATH101",
		"current_schedule": testutil.SampleSchedule(),
	}, inst)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, c := range got {
		assert.Contains(t, []string{"CS101", "MATH101"}, c.CourseID)
	}
}

func TestSwapWithoutCurrentAssignment(t *testing.T) {
	inst := testutil.SampleInstance()
	current := testutil.SampleSchedule()
	current.Assignments = current.Assignments[:2]

	_, err := Structured("swap_time_slots", map[string]any{
		"course_id_1":      "CS101",
		"course_id_2":      "CS201",
		"current_schedule": current,
	}, inst)
	require.Error(t, err)
	assert.True(t, query.IsNoCurrentAssignment(err))
	assert.Contains(t, err.Error(), "CS201")
}

func TestSwapRooms(t *testing.T) {
	inst := testutil.SampleInstance()

	got, err := Structured("swap_rooms", map[string]any{
		"course_id_1":      "CS101",
		"course_id_2":      "CS201",
		"current_schedule": testutil.SampleSchedule(),
	}, inst)
	require.NoError(t, err)
	assert.Equal(t, []query.Constraint{
		query.NewEnforceRoom("CS101", "R2"),
		query.NewVetoRoom("CS101", "R1"),
		query.NewEnforceRoom("CS201", "R1"),
		query.NewVetoRoom("CS201", "R2"),
	}, got)
}

func TestStructuredIsDeterministic(t *testing.T) {
	inst := testutil.SampleInstance()
	params := map[string]any{"instructor_id": "I1", "day": "Wed"}

	first, err := Structured("veto_instructor_day", params, inst)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Structured("veto_instructor_day", params, inst)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStructuredErrors(t *testing.T) {
	inst := testutil.SampleInstance()

	_, err := Structured("reschedule_everything", nil, inst)
	assert.True(t, query.IsUnknownQueryKind(err))

	_, err = Structured("enforce_day", map[string]any{"course_id": "CS101"}, inst)
	assert.True(t, query.IsMissingParameter(err))
}
