package explain

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/whatif"
)

func feasible(original, alternative float64) *whatif.Result {
	return &whatif.Result{
		Status:               whatif.StatusFeasible,
		OriginalObjective:    original,
		AlternativeObjective: oracle.Float(alternative),
		ObjectiveDelta:       oracle.Float(alternative - original),
	}
}

func infeasibleResult() *whatif.Result {
	iis := []oracle.IISConstraint{
		{ID: "q1", Type: "query_veto_day", Description: "Avoid scheduling CS101 on Mon", InIIS: true},
		{ID: "q2", Type: "query_veto_day", Description: "Avoid scheduling CS101 on Tue", InIIS: true},
		{ID: "C3_hours_requirement[CS101]", Type: oracle.C3HoursRequirement, Description: "Course CS101 must be scheduled for exactly 2 sessions per week", InIIS: true},
		{ID: "C8_one_session_per_day[CS101]", Type: oracle.C8OneSessionPerDay, Description: "Course CS101 can meet at most once per day", InIIS: true},
		{ID: "C2_room_conflict[R1]", Type: oracle.C2RoomConflict, Description: "Room R1 can host at most one course per time slot", InIIS: true},
		{ID: "C7_room_capacity[MATH101]", Type: oracle.C7RoomCapacity, Description: "Course MATH101 (40 students) can only use rooms with enough capacity", InIIS: true},
		{ID: "minimality", Type: oracle.TypeMinimality, Description: "Total soft constraint penalty must not exceed 12", InIIS: true},
	}
	summary := oracle.Summarize(iis)
	return &whatif.Result{
		Status:            whatif.StatusInfeasible,
		OriginalObjective: 12,
		IIS:               iis,
		Summary:           &summary,
	}
}

func TestRender_FeasibleNoCost(t *testing.T) {
	got := Render(feasible(12, 12), "Move CS101 to Tuesday")
	assert.Equal(t, "**Alternative Found (No Cost)**\n\n"+
		"Your scenario: *Move CS101 to Tuesday*\n\n"+
		"This change is possible without any increase in soft constraint penalties! "+
		"The alternative schedule achieves the same objective value (12.0).", got)
}

func TestRender_FeasibleWithCost(t *testing.T) {
	got := Render(feasible(12, 14.5), "Move CS101 to Tuesday")
	assert.Contains(t, got, "**Alternative Found (With Trade-offs)**")
	assert.Contains(t, got, "increases soft constraint penalties by 2.5 (from 12.0 to 14.5)")
}

func TestRender_FeasibleCheaper(t *testing.T) {
	got := Render(feasible(12, 10), "q")
	assert.Contains(t, got, "reduces soft constraint penalties by 2.0 (from 12.0 to 10.0)")
}

func TestRender_Error(t *testing.T) {
	res := &whatif.Result{Status: whatif.StatusError, Message: "bridge down"}
	assert.Equal(t, "What-if analysis status: error. bridge down", Render(res, "q"))
	assert.NotEmpty(t, Render(nil, "q"))
}

func TestRender_EndToEndScenario(t *testing.T) {
	res := &whatif.Result{
		Status:            whatif.StatusInfeasible,
		OriginalObjective: 100,
		IIS: []oracle.IISConstraint{
			{ID: "c1", Type: "minimality", Description: "obj<=100", InIIS: true},
			{ID: "c2", Type: "query_enforce", Description: "course X on Monday period 3", InIIS: true},
		},
		Summary: &oracle.IISSummary{MinimalityInIIS: true, NumQueryConstraints: 1},
	}

	got := Render(res, "Move X to Monday")
	assert.Contains(t, got, "cannot achieve an objective value ≤ 100")
	assert.Contains(t, got, "would make the schedule worse")
	assert.Contains(t, got, "directly conflict with existing hard constraints")
	assert.Contains(t, got, "- obj<=100\n- course X on Monday period 3")
	assert.NotContains(t, got, "more constraints")
}

func TestRender_SummaryDerivedWhenMissing(t *testing.T) {
	res := infeasibleResult()
	res.Summary = nil
	got := Render(res, "q")
	assert.Contains(t, got, "**Conflicting Constraints:** 2 of your query constraints")
}

func TestRender_InfeasibleGolden(t *testing.T) {
	got := Render(infeasibleResult(), "Avoid scheduling CS101 on Mon (and 1 more constraints)")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "infeasible", []byte(got))
}

func TestRender_Deterministic(t *testing.T) {
	res := infeasibleResult()
	assert.Equal(t, Render(res, "q"), Render(res, "q"))
}
