package whatif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

// Orchestrator runs what-if questions against an oracle.
type Orchestrator struct {
	oracle  oracle.Oracle
	retry   oracle.RetryPolicy
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetries repeats retryable oracle failures up to n extra times with
// exponential backoff.
func WithRetries(n int, backoff time.Duration) Option {
	return func(o *Orchestrator) {
		o.retry = oracle.RetryPolicy{MaxRetries: max(n, 0), Backoff: backoff}
	}
}

// WithTimeout bounds each question. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// New creates an orchestrator over an oracle.
func New(o oracle.Oracle, opts ...Option) *Orchestrator {
	orch := &Orchestrator{oracle: o, retry: oracle.NoRetry, logger: slog.Default()}
	for _, opt := range opts {
		opt(orch)
	}
	return orch
}

// Retries returns the configured retry count.
func (o *Orchestrator) Retries() int {
	return o.retry.MaxRetries
}

// SolveWhatIf asks whether the instance admits a schedule satisfying every
// constraint without exceeding originalObjective. It never returns nil;
// failures surface as a Result with status "error".
func (o *Orchestrator) SolveWhatIf(ctx context.Context, inst *schedule.Instance, cs []query.Constraint, originalObjective float64) *Result {
	start := time.Now()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	problem := &oracle.Problem{
		Instance:          inst,
		Constraints:       cs,
		OriginalObjective: originalObjective,
	}

	o.logger.Info("what-if query",
		"constraints", len(cs),
		"original_objective", originalObjective,
		"max_retries", o.retry.MaxRetries,
	)

	out, attempts, err := oracle.Retry(ctx, o.retry, "what-if", func(ctx context.Context) (*oracle.WhatIfOutput, error) {
		return o.oracle.SolveWhatIf(ctx, problem)
	})

	res := &Result{OriginalObjective: originalObjective, Attempts: attempts}
	if err == nil && out == nil {
		err = oracle.NewError("oracle returned no result", nil, false)
	}
	if err != nil {
		o.fail(res, err)
		res.SolveTimeSeconds = time.Since(start).Seconds()
		return res
	}

	res.SolveTimeSeconds = out.SolveTimeSeconds
	switch out.Status {
	case oracle.StatusFeasibleQuery:
		res.Status = StatusFeasible
		res.AlternativeSchedule = out.AlternativeSchedule
		res.SoftConstraints = out.AlternativeSoftConstraints
		if out.AlternativeObjective != nil {
			alt := *out.AlternativeObjective
			res.AlternativeObjective = oracle.Float(alt)
			res.ObjectiveDelta = oracle.Float(alt - originalObjective)
		}
		o.logger.Info("what-if feasible", "delta", res.Delta())

	case oracle.StatusInfeasibleQuery:
		res.Status = StatusInfeasible
		res.IIS = out.IIS
		if res.IIS == nil {
			res.IIS = []oracle.IISConstraint{}
		}
		summary := oracle.Summarize(res.IIS)
		if out.IISSummary != nil {
			summary.MinimalityInIIS = out.IISSummary.MinimalityInIIS
			summary.NumQueryConstraints = out.IISSummary.NumQueryConstraints
		}
		res.Summary = &summary
		o.logger.Info("what-if infeasible",
			"iis_size", len(res.IIS),
			"minimality_in_iis", summary.MinimalityInIIS,
			"query_constraints_in_iis", summary.NumQueryConstraints,
		)

	default:
		res.Status = StatusError
		res.Message = fmt.Sprintf("oracle returned status %q", out.Status)
		if out.Explanation != "" {
			res.Message += ": " + out.Explanation
		}
		res.Diagnostics = out.Diagnostics
		o.logger.Warn("what-if unexpected oracle status", "status", out.Status)
	}
	return res
}

func (o *Orchestrator) fail(res *Result, err error) {
	res.Status = StatusError
	res.Diagnostics = oracle.DiagnosticsOf(err)

	var oe *oracle.Error
	switch {
	case errors.As(err, &oe):
		res.Message = oe.Message
	case errors.Is(err, context.DeadlineExceeded):
		res.Message = "what-if analysis timed out"
	case errors.Is(err, context.Canceled):
		res.Message = "what-if analysis cancelled"
	default:
		res.Message = err.Error()
	}
	o.logger.Error("what-if oracle call failed", "error", err, "attempts", res.Attempts)
}
