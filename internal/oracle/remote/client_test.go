package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/testutil"
)

func newServer(t *testing.T, status int, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			m := map[string]any{"path": r.URL.Path}
			var decoded map[string]any
			_ = json.Unmarshal(body, &decoded)
			m["body"] = decoded
			*seen = m
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func problem() *oracle.Problem {
	return &oracle.Problem{
		Instance:          testutil.SampleInstance(),
		Constraints:       []query.Constraint{query.NewEnforceTimeSlot("CS101", "Tue", 3)},
		OriginalObjective: 12,
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestSolveWhatIf_Feasible(t *testing.T) {
	var seen map[string]any
	srv := newServer(t, http.StatusOK, `{
		"status": "feasible_query",
		"alternative_schedule": {"assignments": [
			{"course_id": "CS101", "room_id": "R1", "week": 1, "day": "Tue", "period_start": 3, "period_length": 1}
		]},
		"alternative_objective": 14,
		"alternative_soft_constraints": {"S1_student_conflicts": 10, "S3_preferred_time_slots": 4},
		"solve_time_seconds": 0.5
	}`, &seen)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	out, err := c.SolveWhatIf(context.Background(), problem())
	require.NoError(t, err)
	assert.Equal(t, oracle.StatusFeasibleQuery, out.Status)
	assert.Equal(t, 14.0, *out.AlternativeObjective)
	require.Len(t, out.AlternativeSchedule.Assignments, 1)
	assert.Equal(t, "Tue", out.AlternativeSchedule.Assignments[0].Day)

	assert.Equal(t, "/what-if", seen["path"])
	body := seen["body"].(map[string]any)
	assert.Equal(t, 12.0, body["original_objective"])
	constraints := body["query_constraints"].([]any)
	require.Len(t, constraints, 1)
	assert.Equal(t, "enforce_time_slot", constraints[0].(map[string]any)["type"])
}

func TestSolveWhatIf_InfeasibleFillsSummary(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
		"status": "infeasible_query",
		"iis": [
			{"id": "q1", "type": "query_enforce_time_slot", "description": "Schedule CS101 on Tue at period 3"},
			{"id": "minimality", "type": "minimality", "description": "bound", "in_iis": true}
		]
	}`, nil)

	c, err := New(srv.URL)
	require.NoError(t, err)

	out, err := c.SolveWhatIf(context.Background(), problem())
	require.NoError(t, err)
	require.Len(t, out.IIS, 2)
	assert.True(t, out.IIS[0].InIIS)
	require.NotNil(t, out.IISSummary)
	assert.True(t, out.IISSummary.MinimalityInIIS)
	assert.Equal(t, 1, out.IISSummary.NumQueryConstraints)
}

func TestSolveWhatIf_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reply     string
		retryable bool
		diag      map[string]any
	}{
		{"server error", http.StatusBadGateway, "upstream down", true, map[string]any{"error": "oracle returned HTTP 502", "body": "upstream down"}},
		{"throttled", http.StatusTooManyRequests, "", true, nil},
		{"bad request", http.StatusBadRequest, "", false, nil},
		{"schema violation", http.StatusOK, `{"status": "maybe"}`, false, nil},
		{"not json", http.StatusOK, `<html>`, false, nil},
		{"solver error", http.StatusOK, `{"status": "error", "diagnostics": {"error": "license expired", "code": 7}}`, false,
			map[string]any{"error": "license expired", "code": 7.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.reply, nil)
			c, err := New(srv.URL)
			require.NoError(t, err)

			_, err = c.SolveWhatIf(context.Background(), problem())
			require.Error(t, err)
			var oe *oracle.Error
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, oracle.ErrCodeOracle, oe.Code)
			assert.Equal(t, tt.retryable, oracle.IsRetryable(err))
			if tt.diag != nil {
				assert.Equal(t, tt.diag, oracle.DiagnosticsOf(err))
			}
		})
	}
}

func TestSolveWhatIf_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.SolveWhatIf(context.Background(), problem())
	assert.True(t, oracle.IsRetryable(err))
}

func TestSolveWhatIf_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.SolveWhatIf(context.Background(), problem())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSolve(t *testing.T) {
	var seen map[string]any
	srv := newServer(t, http.StatusOK, `{
		"status": "optimal",
		"schedule": {"assignments": [{"course_id": "CS101", "room_id": "R1", "week": 1, "day": "Mon", "period_start": 2, "period_length": 1}]},
		"objective": 12,
		"solve_time_seconds": 1.25
	}`, &seen)

	c, err := New(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "remote", c.Name())

	out, err := c.Solve(context.Background(), testutil.SampleInstance())
	require.NoError(t, err)
	assert.Equal(t, oracle.StatusOptimal, out.Status)
	assert.Equal(t, 12.0, *out.Objective)
	assert.Equal(t, 1.25, out.SolveTimeSeconds)

	assert.Equal(t, "/solve", seen["path"])
	body := seen["body"].(map[string]any)
	assert.Contains(t, body, "term_config")
}
