package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/testutil"
	"github.com/roach88/whatif/internal/whatif"
)

func TestSaveWhatIf_HistoryInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))
	require.NoError(t, s.SaveWhatIf(ctx, createTestWhatIf("wi-1", "run-1", 2)))

	infeasible := &WhatIfRecord{
		ID:          "wi-2",
		RunID:       "run-1",
		QueryType:   string(query.VetoDay),
		Description: "Do not schedule CS101 on Mon",
		Constraints: []query.Constraint{query.NewVetoDay("CS101", "Mon")},
		Result: &whatif.Result{
			Status: whatif.StatusInfeasible,
			IIS: []oracle.IISConstraint{
				{ID: "q1", Type: "query_veto_day", Description: "Do not schedule CS101 on Mon", InIIS: true},
				{ID: "minimality", Type: oracle.TypeMinimality, Description: "bound", InIIS: true},
			},
		},
	}
	require.NoError(t, s.SaveWhatIf(ctx, infeasible))

	history, err := s.ListWhatIfs(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	first := history[0]
	assert.Equal(t, "wi-1", first.ID)
	assert.Equal(t, testutil.Epoch.Add(time.Second), first.CreatedAt)
	assert.True(t, first.Result.Feasible())
	assert.Equal(t, 2.0, first.Result.Delta())
	require.Len(t, first.Constraints, 1)
	assert.Equal(t, query.EnforceTimeSlot, first.Constraints[0].Kind)

	want, err := query.Fingerprint(first.Constraints)
	require.NoError(t, err)
	assert.Equal(t, want, first.Fingerprint)

	second := history[1]
	assert.True(t, second.Result.Infeasible())
	require.Len(t, second.Result.IIS, 2)
	assert.True(t, second.Result.IIS[1].IsMinimality())
}

func TestSaveWhatIf_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	err := s.SaveWhatIf(context.Background(), createTestWhatIf("wi-1", "nope", 0))
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListWhatIfs_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ListWhatIfs(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListWhatIfs_EmptyIsNonNil(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))

	history, err := s.ListWhatIfs(ctx, "run-1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestStatistics(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalRuns)
	assert.Nil(t, empty.AverageObjective)

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))
	second := createTestRun("run-2")
	second.Objective = oracle.Float(4)
	require.NoError(t, s.SaveRun(ctx, second))
	require.NoError(t, s.SaveWhatIf(ctx, createTestWhatIf("wi-1", "run-1", 2)))
	require.NoError(t, s.SaveWhatIf(ctx, createTestWhatIf("wi-2", "run-1", 4)))

	st, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalRuns)
	assert.Equal(t, map[string]int{oracle.StatusOptimal: 2}, st.RunsByStatus)
	require.NotNil(t, st.AverageObjective)
	assert.InDelta(t, 2.0, *st.AverageObjective, 1e-9)
	assert.InDelta(t, 0.25, st.AverageSolveTime, 1e-9)
	assert.Equal(t, 2, st.TotalWhatIfs)
	assert.Equal(t, 1, st.DistinctQuestions)
	assert.Equal(t, map[string]int{whatif.StatusFeasible: 2}, st.WhatIfsByStatus)
	require.NotNil(t, st.AverageWhatIfDelta)
	assert.InDelta(t, 3.0, *st.AverageWhatIfDelta, 1e-9)
}
