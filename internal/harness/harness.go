package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/oracle/satoracle"
	"github.com/roach88/whatif/internal/pipeline"
	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/testutil"
)

// Harness runs scenarios against one backend.
type Harness struct {
	backend oracle.Backend
	logger  *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithBackend selects the oracle. The default is the SAT oracle.
func WithBackend(b oracle.Backend) Option {
	return func(h *Harness) {
		h.backend = b
	}
}

// WithLogger sets the logger. The default discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		backend: satoracle.New(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario in a fresh in-memory store. The error return is
// reserved for setup failures; expectation mismatches land in the result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	inst, err := schedule.LoadInstance(scenario.Instance)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}

	st, err := store.Open(":memory:", store.WithClock(testutil.NewStepClock().Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	svc := pipeline.New(st, h.backend,
		pipeline.WithIDGenerator(testutil.NewSequentialIDs(scenario.Name).Next),
		pipeline.WithSolveRetries(0, 0),
		pipeline.WithLogger(h.logger),
	)

	run, err := svc.Optimize(ctx, inst)
	if err != nil {
		return nil, err
	}
	if run.Status != oracle.StatusOptimal {
		return nil, fmt.Errorf("instance solve returned status %q", run.Status)
	}

	result := NewResult()
	result.RunID = run.ID
	for _, step := range scenario.Steps {
		outcome := h.ask(ctx, svc, run.ID, step)
		result.Outcomes = append(result.Outcomes, outcome)
		for _, mismatch := range check(step.Expect, outcome) {
			result.AddError(fmt.Sprintf("%s: %s", step.Name, mismatch))
		}
	}
	h.logger.Info("scenario finished", "scenario", scenario.Name, "pass", result.Pass, "steps", len(scenario.Steps))
	return result, nil
}

func (h *Harness) ask(ctx context.Context, svc *pipeline.Service, runID string, step Step) Outcome {
	outcome := Outcome{Step: step.Name}
	resp, err := svc.WhatIf(ctx, pipeline.WhatIfRequest{
		RunID:       runID,
		QueryType:   step.QueryType,
		QueryParams: step.QueryParams,
		Question:    step.Question,
	})
	if err != nil {
		outcome.Status = StatusRejected
		outcome.ErrorCode = rejectionCode(err)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = resp.Status
	outcome.Feasible = resp.Feasible
	outcome.Description = resp.QueryDescription
	outcome.ConstraintCount = len(resp.Constraints)
	outcome.ObjectiveDelta = resp.ObjectiveDifference
	for _, c := range resp.IIS {
		outcome.IISIDs = append(outcome.IISIDs, c.ID)
		outcome.IISTypes = append(outcome.IISTypes, c.Type)
	}
	if resp.IISSummary != nil {
		outcome.MinimalityInIIS = resp.IISSummary.MinimalityInIIS
	}
	if resp.Status == oracle.StatusError {
		outcome.Error = resp.Message
	}
	return outcome
}

func rejectionCode(err error) string {
	if code := pipeline.ErrorCode(err); code != "" {
		return code
	}
	return "ERROR"
}
