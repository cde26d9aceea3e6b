package oracle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/testutil"
)

func TestIISConstraintDefaultsInIIS(t *testing.T) {
	var iis []IISConstraint
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "c1", "type": "minimality", "description": "obj<=100"},
		{"id": "c2", "type": "query_enforce", "description": "x", "in_iis": false}
	]`), &iis))

	require.Len(t, iis, 2)
	assert.True(t, iis[0].InIIS)
	assert.False(t, iis[1].InIIS)
	assert.True(t, iis[0].IsMinimality())
	assert.True(t, iis[1].IsQuery())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]IISConstraint{
		{ID: "c1", Type: TypeMinimality},
		{ID: "c2", Type: "query_enforce_time_slot"},
		{ID: "c3", Type: "query_veto_day"},
		{ID: "c4", Type: C2RoomConflict},
	})

	assert.Equal(t, IISSummary{MinimalityInIIS: true, NumQueryConstraints: 2, NumConstraints: 4}, s)
	assert.Equal(t, IISSummary{}, Summarize(nil))
}

func TestWhatIfOutputDecodesBridgePayload(t *testing.T) {
	var out WhatIfOutput
	require.NoError(t, json.Unmarshal([]byte(`{
		"status": "feasible_query",
		"alternative_schedule": {"assignments": [{"course_id": "CS101", "room_id": "R1", "week": 1, "day": "Tue", "period_start": 3, "period_length": 1}]},
		"alternative_objective": 12,
		"alternative_soft_constraints": {"S1_student_conflicts": 10, "S3_preferred_time_slots": 2},
		"solve_time_seconds": 0.5
	}`), &out))

	assert.Equal(t, StatusFeasibleQuery, out.Status)
	require.NotNil(t, out.AlternativeObjective)
	assert.Equal(t, 12.0, *out.AlternativeObjective)
	assert.Len(t, out.AlternativeSchedule.Assignments, 1)
	assert.Equal(t, 10.0, out.AlternativeSoftConstraints[S1StudentConflicts])
}

func TestScoreSampleScheduleIsPenaltyFree(t *testing.T) {
	total, breakdown := Score(testutil.SampleInstance(), testutil.SampleSchedule())

	assert.Equal(t, 0.0, total)
	assert.Equal(t, 0.0, breakdown[S1StudentConflicts])
	assert.Equal(t, 0.0, breakdown[S3PreferredTimeSlots])
}

func TestScorePenalties(t *testing.T) {
	inst := testutil.SampleInstance()
	inst.Weights.InstructorCompactness = 2
	s := &schedule.Schedule{Assignments: []schedule.Assignment{
		// CS101 and MATH101 share S1.
		{CourseID: "CS101", RoomID: "R1", Week: 1, Day: "Mon", PeriodStart: 2, PeriodLength: 1},
		{CourseID: "MATH101", RoomID: "R2", Week: 1, Day: "Mon", PeriodStart: 2, PeriodLength: 1},
		// Lunch and evening.
		{CourseID: "CS201", RoomID: "R1", Week: 1, Day: "Tue", PeriodStart: 8, PeriodLength: 1},
		{CourseID: "CS201", RoomID: "R1", Week: 1, Day: "Wed", PeriodStart: 19, PeriodLength: 1},
		// I1 teaches Tue 5 and Tue 8: two idle periods.
		{CourseID: "CS101", RoomID: "R1", Week: 1, Day: "Tue", PeriodStart: 5, PeriodLength: 1},
	}}

	total, breakdown := Score(inst, s)
	assert.Equal(t, 10.0, breakdown[S1StudentConflicts])
	assert.Equal(t, 2.0, breakdown[S3PreferredTimeSlots])
	assert.Equal(t, 4.0, breakdown[S2InstructorCompactness])
	assert.Equal(t, 16.0, total)
}

func TestMockSolve(t *testing.T) {
	inst := testutil.SampleInstance()

	out, err := NewMock().Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, out.Status)
	require.NotNil(t, out.Objective)
	assert.Equal(t, 0.0, *out.Objective)
	assert.Len(t, out.Schedule.Assignments, 6)

	for _, a := range out.Schedule.Assignments {
		if a.CourseID == "MATH101" {
			assert.Equal(t, "R1", a.RoomID, "only R1 seats 40 students")
		}
	}
}

func TestMockSolveReportsUnplaceableCourse(t *testing.T) {
	inst := testutil.SampleInstance()
	inst.Courses[2].Enrollment = 500

	out, err := NewMock().Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, out.Status)
	assert.Equal(t, "MATH101", out.Diagnostics["unplaced_course"])
}

func TestMockWhatIfUnsupported(t *testing.T) {
	_, err := NewMock().SolveWhatIf(context.Background(), &Problem{Instance: testutil.SampleInstance()})
	require.Error(t, err)
	assert.True(t, IsUnsupportedInMockMode(err))
	assert.False(t, IsRetryable(err))
	assert.Equal(t, StatusNotSupported, DiagnosticsOf(err)["status"])
}

func TestNewErrorDiagnostics(t *testing.T) {
	err := NewError("bridge unreachable", assert.AnError, true)

	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, DiagnosticsOf(err)["error"], "bridge unreachable")
	assert.Equal(t, map[string]any{"error": assert.AnError.Error()}, DiagnosticsOf(assert.AnError))
}

func TestLookupConstraint(t *testing.T) {
	info, ok := LookupConstraint(C2RoomConflict)
	require.True(t, ok)
	assert.Equal(t, "hard", info.Category)

	info, ok = LookupConstraint(S3PreferredTimeSlots)
	require.True(t, ok)
	assert.Equal(t, "soft", info.Category)

	_, ok = LookupConstraint("C99")
	assert.False(t, ok)
}
