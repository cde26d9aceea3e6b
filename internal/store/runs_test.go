package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/testutil"
)

func TestSaveRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1")
	require.NoError(t, s.SaveRun(ctx, run))
	assert.Equal(t, testutil.Epoch, run.CreatedAt)
	assert.NotEmpty(t, run.InstanceHash)

	got, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, oracle.StatusOptimal, got.Status)
	assert.Equal(t, "sat", got.Backend)
	require.NotNil(t, got.Objective)
	assert.Equal(t, 0.0, *got.Objective)
	assert.Equal(t, testutil.Epoch, got.CreatedAt)
	assert.Equal(t, run.InstanceHash, got.InstanceHash)
	assert.Equal(t, testutil.SampleSchedule(), got.Schedule)
	assert.Len(t, got.Instance.Courses, 3)
	assert.Equal(t, run.SoftConstraints, got.SoftConstraints)
}

func TestSaveRun_StoresAssignments(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM assignments WHERE run_id = ?`, "run-1").Scan(&n))
	assert.Equal(t, len(testutil.SampleSchedule().Assignments), n)

	// Re-saving replaces rather than duplicates.
	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM assignments WHERE run_id = ?`, "run-1").Scan(&n))
	assert.Equal(t, len(testutil.SampleSchedule().Assignments), n)
}

func TestSaveRun_InfeasibleWithoutSchedule(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID:          "run-x",
		Status:      oracle.StatusInfeasible,
		Instance:    testutil.SampleInstance(),
		Diagnostics: map[string]any{"conflicting_constraints": []any{"C3_hours_requirement[CS101]"}},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.LoadRun(ctx, "run-x")
	require.NoError(t, err)
	assert.Nil(t, got.Objective)
	assert.Nil(t, got.Schedule)
	assert.Contains(t, got.Diagnostics, "conflicting_constraints")
}

func TestSaveRun_RejectsMissingFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.SaveRun(ctx, &Run{Instance: testutil.SampleInstance()}))
	assert.Error(t, s.SaveRun(ctx, &Run{ID: "run-1"}))
}

func TestLoadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_NewestFirstWithFilters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-a")))
	require.NoError(t, s.SaveRun(ctx, createTestRun("run-b")))
	infeasible := createTestRun("run-c")
	infeasible.Status = oracle.StatusInfeasible
	infeasible.Objective = nil
	infeasible.Schedule = nil
	require.NoError(t, s.SaveRun(ctx, infeasible))

	all, err := s.ListRuns(ctx, 0, "")
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"run-c", "run-b", "run-a"}, ids)
	assert.Equal(t, 0, all[0].NumAssignments)
	assert.Equal(t, 6, all[1].NumAssignments)

	limited, err := s.ListRuns(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-c", limited[0].ID)

	optimal, err := s.ListRuns(ctx, 0, oracle.StatusOptimal)
	require.NoError(t, err)
	assert.Len(t, optimal, 2)
}

func TestListRuns_EmptyIsNonNil(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10, "")
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestDeleteRun_CascadesToWhatIfs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1")))
	require.NoError(t, s.SaveWhatIf(ctx, createTestWhatIf("wi-1", "run-1", 2)))

	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	_, err := s.LoadRun(ctx, "run-1")
	assert.ErrorIs(t, err, ErrRunNotFound)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM what_if_queries`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM assignments`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, s.DeleteRun(ctx, "run-1"), ErrRunNotFound)
}
