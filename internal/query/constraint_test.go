package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("move_course")
	require.Error(t, err)
	assert.True(t, IsUnknownQueryKind(err))
	assert.Contains(t, err.Error(), "move_course")
}

func TestKindClasses(t *testing.T) {
	assert.True(t, EnforceDay.IsEnforce())
	assert.False(t, EnforceDay.IsVeto())
	assert.True(t, VetoLunch.IsVeto())
	assert.True(t, SwapRooms.IsSwap())
	assert.Len(t, Kinds, 14)
}

func TestRecordHasExactlyTheFlatKeys(t *testing.T) {
	rec := NewVetoDay("CS101", "Mon").Record()

	assert.Len(t, rec, 9)
	assert.Equal(t, "veto_day", rec[KeyType])
	assert.Equal(t, "CS101", rec[KeyCourseID])
	assert.Equal(t, "Mon", rec[KeyDay])
	assert.Nil(t, rec[KeyInstructorID])
	assert.Nil(t, rec[KeyWeek])
	assert.Nil(t, rec[KeyPeriodStart])
	assert.Nil(t, rec[KeyPeriodEnd])
	assert.Nil(t, rec[KeyRoomID])
	assert.Nil(t, rec[KeyCourseID2])
	assert.Contains(t, rec, KeyCourseID2)
}

func TestRecordExtrasDoNotOverrideCoreKeys(t *testing.T) {
	c := NewVetoDay("CS101", "Mon").WithExtra("reason", "exam").WithExtra(KeyDay, "Tue")
	rec := c.Record()

	assert.Equal(t, "exam", rec["reason"])
	assert.Equal(t, "Mon", rec[KeyDay])
}

func TestWithBuildersReturnCopies(t *testing.T) {
	base := NewEnforceTimeSlot("CS101", "Tue", 3)
	weekly := base.WithWeek(2)
	tagged := base.WithExtra("source", "swap")

	assert.Nil(t, base.Week)
	assert.Nil(t, base.Extra)
	require.NotNil(t, weekly.Week)
	assert.Equal(t, 2, *weekly.Week)
	assert.Equal(t, "swap", tagged.Extra["source"])
}

func TestConstraintJSONShape(t *testing.T) {
	c := NewEnforceTimeSlot("CS101", "Tue", 3).WithWeek(1)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "enforce_time_slot",
		"course_id": "CS101",
		"instructor_id": null,
		"week": 1,
		"day": "Tue",
		"period_start": 3,
		"period_end": null,
		"room_id": null,
		"course_id_2": null
	}`, string(data))

	var back Constraint
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestUnmarshalKeepsExtras(t *testing.T) {
	var c Constraint
	require.NoError(t, json.Unmarshal([]byte(`{"type":"veto_lunch","course_id":"CS101","note":"x"}`), &c))

	assert.Equal(t, VetoLunch, c.Kind)
	assert.Equal(t, "x", c.Extra["note"])
}

func TestUnmarshalRejectsBadRecords(t *testing.T) {
	var c Constraint
	err := json.Unmarshal([]byte(`{"type":"teleport"}`), &c)
	assert.True(t, IsUnknownQueryKind(err))

	err = json.Unmarshal([]byte(`{"type":"veto_time_slot","period_start":2.5}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_start")
}

func TestFingerprint(t *testing.T) {
	a := []Constraint{NewVetoDay("CS101", "Mon"), NewVetoDay("CS201", "Mon")}
	b := []Constraint{NewVetoDay("CS101", "Mon"), NewVetoDay("CS201", "Mon")}
	reversed := []Constraint{NewVetoDay("CS201", "Mon"), NewVetoDay("CS101", "Mon")}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fr, err := Fingerprint(reversed)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fr, "order is part of the identity")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		c    Constraint
		want string
	}{
		{NewEnforceTimeSlot("CS101", "Tue", 3), "Schedule CS101 on Tue at period 3"},
		{NewEnforceTimeSlot("CS101", "Tue", 3).WithWeek(2), "Schedule CS101 on Tue at period 3 in week 2"},
		{NewEnforceDay("CS101", "Fri"), "Schedule CS101 on Fri"},
		{NewEnforceRoom("CS101", "R2"), "Schedule CS101 in room R2"},
		{NewEnforceBeforeTime("CS101", 4), "Schedule CS101 to finish before period 4"},
		{NewEnforceAfterTime("CS101", 6), "Schedule CS101 at or after period 6"},
		{NewEnforceNoLunch("CS101"), "Prevent CS101 from being scheduled during lunch"},
		{NewVetoLunch(""), "Prevent all courses from being scheduled during lunch"},
		{NewEnforceConsecutive("CS101", "CS201"), "Schedule CS101 immediately before CS201"},
		{NewVetoTimeSlot("CS101", "Mon", 2), "Avoid scheduling CS101 on Mon at period 2"},
		{NewVetoDay("CS101", "Mon"), "Avoid scheduling CS101 on Mon"},
		{Constraint{Kind: VetoDay, InstructorID: "I1", Day: "Mon"}, "Avoid scheduling instructor I1 on Mon"},
		{NewVetoRoom("CS101", "R1"), "Avoid scheduling CS101 in room R1"},
		{NewVetoInstructorDay("I1", "Fri"), "Avoid scheduling instructor I1 on Fri"},
		{NewSwapTimeSlots("CS101", "CS201"), "Swap CS101 and CS201 time slots"},
		{NewSwapRooms("CS101", "CS201"), "Swap CS101 and CS201 rooms"},
		{Constraint{Kind: "custom"}, "Query type: custom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Describe())
		})
	}
}
