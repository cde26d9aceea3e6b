package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/schedule"
)

func TestParseRequestVariants(t *testing.T) {
	req, err := ParseRequest("enforce_time_slot", map[string]any{"course_id": "CS101", "day": "Tue", "period": float64(3)})
	require.NoError(t, err)
	ets, ok := req.(*EnforceTimeSlotRequest)
	require.True(t, ok)
	assert.Equal(t, "CS101", ets.CourseID)
	assert.Equal(t, 3, ets.Period)
	assert.Nil(t, ets.Week)

	req, err = ParseRequest("veto_time_slot", map[string]any{"course_id": "CS101", "day": "Tue", "period_start": "4", "week": 2})
	require.NoError(t, err)
	vts := req.(*VetoTimeSlotRequest)
	assert.Equal(t, 4, vts.Period)
	require.NotNil(t, vts.Week)
	assert.Equal(t, 2, *vts.Week)

	req, err = ParseRequest("enforce_before_time", map[string]any{"course_id": "CS101", "period_before": 4})
	require.NoError(t, err)
	assert.Equal(t, EnforceBeforeTime, req.Kind())

	req, err = ParseRequest("veto_lunch", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", req.(*VetoLunchRequest).CourseID)
}

func TestParseRequestVetoDayAcceptsCourseOrInstructor(t *testing.T) {
	req, err := ParseRequest("veto_day", map[string]any{"instructor_id": "I1", "day": "Mon"})
	require.NoError(t, err)
	vd := req.(*VetoDayRequest)
	assert.Equal(t, "I1", vd.InstructorID)
	assert.Empty(t, vd.CourseID)

	_, err = ParseRequest("veto_day", map[string]any{"day": "Mon"})
	require.Error(t, err)
	assert.True(t, IsMissingParameter(err))
}

func TestParseRequestMissingParameter(t *testing.T) {
	tests := []struct {
		kind   string
		params map[string]any
		param  string
	}{
		{"enforce_time_slot", map[string]any{"course_id": "CS101", "day": "Tue"}, "period"},
		{"enforce_day", map[string]any{"course_id": "CS101"}, "day"},
		{"enforce_room", map[string]any{"course_id": "CS101", "room_id": "  "}, "room_id"},
		{"enforce_after_time", map[string]any{"course_id": "CS101"}, "period_after"},
		{"veto_instructor_day", map[string]any{"day": "Mon"}, "instructor_id"},
		{"swap_time_slots", map[string]any{"course_id_1": "A", "course_id_2": "B"}, "current_schedule"},
		{"enforce_consecutive", map[string]any{"course_id": "A"}, "course_id_2"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			_, err := ParseRequest(tt.kind, tt.params)
			require.Error(t, err)
			assert.True(t, IsMissingParameter(err))

			var qe *Error
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, tt.param, qe.Parameter)
			assert.Equal(t, Kind(tt.kind), qe.Kind)
		})
	}
}

func TestParseRequestNonIntegerPeriod(t *testing.T) {
	_, err := ParseRequest("enforce_time_slot", map[string]any{"course_id": "CS101", "day": "Tue", "period": "soon"})
	require.Error(t, err)
	assert.True(t, IsMissingParameter(err))
	assert.Contains(t, err.Error(), "soon")
}

func TestParseRequestUnknownKind(t *testing.T) {
	_, err := ParseRequest("make_it_better", nil)
	assert.True(t, IsUnknownQueryKind(err))
}

func TestParseRequestSwapScheduleForms(t *testing.T) {
	typed := &schedule.Schedule{Assignments: []schedule.Assignment{{CourseID: "A", Day: "Mon", PeriodStart: 1, RoomID: "R1", Week: 1}}}

	generic := map[string]any{
		"assignments": []any{
			map[string]any{"course_id": "A", "day": "Mon", "period_start": float64(1), "room_id": "R1", "week": float64(1)},
		},
	}
	bare := []any{
		map[string]any{"course_id": "A", "day": "Mon", "period_start": float64(1), "room_id": "R1", "week": float64(1)},
	}

	for name, current := range map[string]any{"typed": typed, "generic": generic, "bare": bare} {
		t.Run(name, func(t *testing.T) {
			req, err := ParseRequest("swap_time_slots", map[string]any{
				"course_id_1":      "A",
				"course_id_2":      "B",
				"current_schedule": current,
			})
			require.NoError(t, err)
			swap := req.(*SwapTimeSlotsRequest)
			a, ok := swap.Current.Find("A")
			require.True(t, ok)
			assert.Equal(t, "Mon", a.Day)
			assert.Equal(t, 1, a.PeriodStart)
		})
	}
}
