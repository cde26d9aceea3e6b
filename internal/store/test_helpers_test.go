package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/testutil"
	"github.com/roach88/whatif/internal/whatif"
)

// createTestStore creates a fresh store on a temp file with a step clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	clock := testutil.NewStepClock()
	s, err := Open(path, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates an optimal run over the sample instance.
func createTestRun(id string) *Run {
	return &Run{
		ID:               id,
		Status:           oracle.StatusOptimal,
		Backend:          "sat",
		Objective:        oracle.Float(0),
		SolveTimeSeconds: 0.25,
		Instance:         testutil.SampleInstance(),
		Schedule:         testutil.SampleSchedule(),
		SoftConstraints: map[string]float64{
			oracle.S1StudentConflicts:   0,
			oracle.S3PreferredTimeSlots: 0,
		},
	}
}

// createTestWhatIf creates a feasible what-if record for runID.
func createTestWhatIf(id, runID string, delta float64) *WhatIfRecord {
	return &WhatIfRecord{
		ID:          id,
		RunID:       runID,
		QueryType:   string(query.EnforceTimeSlot),
		Description: "Schedule CS101 on Tue at period 3",
		Constraints: []query.Constraint{query.NewEnforceTimeSlot("CS101", "Tue", 3)},
		Result: &whatif.Result{
			Status:               whatif.StatusFeasible,
			AlternativeSchedule:  testutil.SampleSchedule(),
			AlternativeObjective: oracle.Float(delta),
			ObjectiveDelta:       oracle.Float(delta),
			Attempts:             1,
		},
		Explanation: "Feasible.",
	}
}
