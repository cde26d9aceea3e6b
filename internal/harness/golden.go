package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/whatif/internal/canon"
)

// Snapshot renders a result as canonical JSON for golden comparison.
func Snapshot(name string, r *Result) ([]byte, error) {
	outcomes := make([]any, len(r.Outcomes))
	for i, o := range r.Outcomes {
		m := map[string]any{
			"step":             o.Step,
			"status":           o.Status,
			"feasible":         o.Feasible,
			"constraint_count": o.ConstraintCount,
		}
		if o.Description != "" {
			m["description"] = o.Description
		}
		if len(o.IISIDs) > 0 {
			m["iis_ids"] = o.IISIDs
			m["minimality_in_iis"] = o.MinimalityInIIS
		}
		if o.ObjectiveDelta != nil {
			m["objective_difference"] = *o.ObjectiveDelta
		}
		if o.ErrorCode != "" {
			m["error_code"] = o.ErrorCode
		}
		outcomes[i] = m
	}
	return canon.Marshal(map[string]any{
		"scenario": name,
		"pass":     r.Pass,
		"outcomes": outcomes,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := h.Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	data, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
