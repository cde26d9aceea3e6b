package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/oracle"
)

func TestSampleScenarioGolden(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/sample_what_ifs.yaml")
	require.NoError(t, err)

	result, err := New().RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Outcomes, 4)
	assert.Equal(t, "sample_what_ifs-0001", result.RunID)
}

func TestRunReportsMismatches(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/sample_what_ifs.yaml")
	require.NoError(t, err)
	scenario.Steps = scenario.Steps[:1]
	scenario.Steps[0].Expect.Status = "infeasible_query"
	two := 2
	scenario.Steps[0].Expect.ConstraintCount = &two

	result, err := New().Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `tuesday: status = "feasible_query", want "infeasible_query"`)
	assert.Contains(t, result.Errors[1], "constraint_count = 1, want 2")
}

func TestRunWithMockBackendReportsOracleErrors(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/sample_what_ifs.yaml")
	require.NoError(t, err)
	scenario.Steps = scenario.Steps[:1]

	result, err := New(WithBackend(oracle.NewMock())).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, oracle.StatusError, result.Outcomes[0].Status)
	assert.NotEmpty(t, result.Outcomes[0].Error)
}

func TestCheck(t *testing.T) {
	yes := true
	zero := 0.0
	tests := []struct {
		name string
		want Expect
		got  Outcome
		errs int
	}{
		{"empty expectation", Expect{}, Outcome{Status: "feasible_query"}, 0},
		{"iis order ignored", Expect{IISTypes: []string{"minimality", "query_veto_day"}}, Outcome{IISTypes: []string{"query_veto_day", "minimality"}}, 0},
		{"iis differs", Expect{IISTypes: []string{"minimality"}}, Outcome{IISTypes: []string{"query_veto_day"}}, 1},
		{"error code implies rejected", Expect{ErrorCode: "MISSING_PARAMETER"}, Outcome{Status: "feasible_query"}, 2},
		{"minimality", Expect{MinimalityInIIS: &yes}, Outcome{}, 1},
		{"missing delta", Expect{ObjectiveDelta: &zero}, Outcome{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, check(tt.want, tt.got), tt.errs)
		})
	}
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	data, err := os.ReadFile("testdata/scenarios/instance.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instance.json"), data, 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", "description: d\ninstance: instance.json\nsteps: [{name: a, question: q}]\n", "name is required"},
		{"missing instance file", "name: n\ndescription: d\ninstance: nope.json\nsteps: [{name: a, question: q}]\n", "instance file not found"},
		{"no steps", "name: n\ndescription: d\ninstance: instance.json\n", "steps list is required"},
		{"step without query", "name: n\ndescription: d\ninstance: instance.json\nsteps: [{name: a}]\n", "query_type or question is required"},
		{"duplicate step", "name: n\ndescription: d\ninstance: instance.json\nsteps: [{name: a, question: q}, {name: a, question: q}]\n", "duplicate name"},
		{"unknown kind", "name: n\ndescription: d\ninstance: instance.json\nsteps: [{name: a, query_type: teleport}]\n", "teleport"},
		{"unknown field", "name: n\ndescription: d\ninstance: instance.json\nstep: []\n", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_UnknownKindAllowedWhenRejectionExpected(t *testing.T) {
	path := writeScenario(t, "name: n\ndescription: d\ninstance: instance.json\nsteps:\n  - name: a\n    query_type: teleport\n    expect: {error_code: UNKNOWN_QUERY_KIND}\n")
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "instance.json"), s.Instance)

	result, err := New().Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "sample_what_ifs.yaml")}, files)

	files, err = FindScenarios("testdata/scenarios", "lunch*")
	require.NoError(t, err)
	assert.Empty(t, files)
}
