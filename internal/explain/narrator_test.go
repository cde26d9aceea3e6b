package explain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whatif/internal/reasons"
)

type stubNarrator struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (s *stubNarrator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExplain_UsesNarratorForInfeasible(t *testing.T) {
	n := &stubNarrator{text: "  Because CS101 needs two days.  "}
	e := NewExplainer(n, quietLogger())

	got := e.Explain(context.Background(), infeasibleResult(), "Avoid Mon and Tue", nil)

	assert.Equal(t, "Because CS101 needs two days.", got)
	assert.Equal(t, 1, n.calls)
	assert.Contains(t, n.prompt, "USER'S DESIRED SCENARIO: Avoid Mon and Tue")
}

func TestExplain_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		n    Narrator
	}{
		{"error", &stubNarrator{err: errors.New("quota")}},
		{"empty", &stubNarrator{text: " \n"}},
		{"none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExplainer(tt.n, quietLogger())
			res := infeasibleResult()
			assert.Equal(t, Render(res, "q"), e.Explain(context.Background(), res, "q", nil))
		})
	}
}

func TestExplain_FeasibleSkipsNarrator(t *testing.T) {
	n := &stubNarrator{text: "narrated"}
	e := NewExplainer(n, quietLogger())

	res := feasible(5, 5)
	assert.Equal(t, Render(res, "q"), e.Explain(context.Background(), res, "q", nil))
	assert.Equal(t, 0, n.calls)
}

func TestBuildPrompt(t *testing.T) {
	res := infeasibleResult()
	graph := reasons.Build(res.IIS, "Avoid Mon and Tue")

	prompt := BuildPrompt(res, "Avoid Mon and Tue", graph)

	assert.Contains(t, prompt, "Number of constraints in IIS: 7")
	assert.Contains(t, prompt, "Minimality constraint in IIS: true")
	assert.Contains(t, prompt, "Query constraints in IIS: 2")
	assert.Contains(t, prompt, "1. [query_veto_day] Avoid scheduling CS101 on Mon")
	assert.Contains(t, prompt, "7. [minimality] Total soft constraint penalty must not exceed 12")
	assert.Contains(t, prompt, "- C3_hours_requirement (Weekly hours): ")
	assert.Contains(t, prompt, "- C3_hours_requirement[CS101] <-> C8_one_session_per_day[CS101]")
	assert.Contains(t, prompt, "- Original optimal objective: 12")
	assert.Contains(t, prompt, "NO SUGGESTIONS for fixes")
}

func TestFormatIIS_Placeholders(t *testing.T) {
	res := infeasibleResult()
	res.IIS = res.IIS[:1]
	res.IIS[0].Type = ""
	res.IIS[0].Description = ""
	res.Summary = nil

	got := FormatIIS(res)
	require.Contains(t, got, "1. [unknown] No description")
	assert.Contains(t, got, "Query constraints in IIS: 0")
}

func TestNewGeminiNarrator_RequiresKey(t *testing.T) {
	_, err := NewGeminiNarrator(context.Background(), "", "", 0.3, 512)
	assert.Error(t, err)
}
