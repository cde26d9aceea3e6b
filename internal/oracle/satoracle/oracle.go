package satoracle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/schedule"
)

// Name is the backend name reported by Oracle.Name.
const Name = "sat"

// DefaultMaxSteps bounds the objective descent after the first model.
const DefaultMaxSteps = 32

// Oracle is a local SAT-backed oracle.Backend.
type Oracle struct {
	maxSteps int
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithMaxSteps bounds the number of solver calls spent improving the
// objective. Zero returns the first model found.
func WithMaxSteps(n int) Option {
	return func(o *Oracle) {
		o.maxSteps = max(n, 0)
	}
}

// New creates a SAT oracle.
func New(opts ...Option) *Oracle {
	o := &Oracle{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ oracle.Backend = (*Oracle)(nil)

// Name returns "sat".
func (*Oracle) Name() string {
	return Name
}

// Solve computes a schedule of minimum S1+S3 penalty.
func (o *Oracle) Solve(ctx context.Context, inst *schedule.Instance) (*oracle.SolveOutput, error) {
	start := time.Now()
	build := func() (*encoding, error) {
		e := newEncoding(inst)
		e.addHardGroups()
		return e, nil
	}

	e, err := build()
	if err != nil {
		return nil, wrap(err)
	}
	e.load()
	ok, err := e.solve(ctx, e.allGroups())
	if err != nil {
		return nil, wrap(err)
	}
	if !ok {
		iis, err := o.shrink(ctx, e, e.failedGroups())
		if err != nil {
			return nil, wrap(err)
		}
		slog.Info("sat solve infeasible", "conflicting_groups", len(iis))
		return &oracle.SolveOutput{
			Status:           oracle.StatusInfeasible,
			Diagnostics:      map[string]any{"conflicting_constraints": groupIDs(e, iis)},
			SolveTimeSeconds: time.Since(start).Seconds(),
		}, nil
	}

	best, optimal, err := o.minimize(ctx, build, e.decode(), inst)
	if err != nil {
		return nil, wrap(err)
	}
	objective, breakdown := objectiveOf(inst, best)

	status := oracle.StatusOptimal
	if !optimal {
		status = oracle.StatusFeasible
	}
	slog.Debug("sat solve finished", "status", status, "objective", objective)
	return &oracle.SolveOutput{
		Status:           status,
		Schedule:         best,
		Objective:        oracle.Float(objective),
		SoftConstraints:  breakdown,
		SolveTimeSeconds: time.Since(start).Seconds(),
	}, nil
}

// SolveWhatIf checks the instance plus query constraints under the bound
// objective <= p.OriginalObjective.
func (o *Oracle) SolveWhatIf(ctx context.Context, p *oracle.Problem) (*oracle.WhatIfOutput, error) {
	start := time.Now()
	build := func() (*encoding, error) {
		e := newEncoding(p.Instance)
		e.addHardGroups()
		if err := e.addQueryGroups(p.Constraints); err != nil {
			return nil, err
		}
		e.addMinimality(p.OriginalObjective)
		return e, nil
	}

	e, err := build()
	if err != nil {
		return nil, wrap(err)
	}
	e.load()
	ok, err := e.solve(ctx, e.allGroups())
	if err != nil {
		return nil, wrap(err)
	}

	if !ok {
		core, err := o.shrink(ctx, e, e.failedGroups())
		if err != nil {
			return nil, wrap(err)
		}
		iis := make([]oracle.IISConstraint, 0, len(core))
		for _, gi := range core {
			g := e.groups[gi]
			iis = append(iis, oracle.IISConstraint{ID: g.id, Type: g.typ, Description: g.description, InIIS: true})
		}
		summary := oracle.Summarize(iis)
		slog.Info("what-if infeasible", "iis_size", len(iis), "minimality_in_iis", summary.MinimalityInIIS)
		return &oracle.WhatIfOutput{
			Status:           oracle.StatusInfeasibleQuery,
			IIS:              iis,
			IISSummary:       &summary,
			SolveTimeSeconds: time.Since(start).Seconds(),
		}, nil
	}

	best, _, err := o.minimize(ctx, build, e.decode(), p.Instance)
	if err != nil {
		return nil, wrap(err)
	}
	objective, breakdown := objectiveOf(p.Instance, best)
	slog.Debug("what-if feasible", "objective", objective)
	return &oracle.WhatIfOutput{
		Status:                     oracle.StatusFeasibleQuery,
		AlternativeSchedule:        best,
		AlternativeObjective:       oracle.Float(objective),
		AlternativeSoftConstraints: breakdown,
		SolveTimeSeconds:           time.Since(start).Seconds(),
	}, nil
}

// minimize descends from a first model by binary search over objective
// bounds on a fresh circuit. It reports whether optimality was proven.
func (o *Oracle) minimize(ctx context.Context, build func() (*encoding, error), first *schedule.Schedule, inst *schedule.Instance) (*schedule.Schedule, bool, error) {
	best := first
	bestCost := costOf(inst, first)
	if bestCost == 0 {
		return best, true, nil
	}
	if o.maxSteps == 0 {
		return best, false, nil
	}

	e, err := build()
	if err != nil {
		return nil, false, err
	}
	ks := make([]int, bestCost)
	for k := range ks {
		ks[k] = k
	}
	e.prepareBounds(ks...)
	e.load()

	groups := e.allGroups()
	lo, hi := 0, bestCost-1
	for step := 0; lo <= hi; step++ {
		if step == o.maxSteps {
			return best, false, nil
		}
		mid := (lo + hi) / 2
		ok, err := e.solve(ctx, groups, e.bounds[mid])
		if err != nil {
			return nil, false, err
		}
		if !ok {
			lo = mid + 1
			continue
		}
		best = e.decode()
		bestCost = costOf(inst, best)
		hi = bestCost - 1
	}
	return best, true, nil
}

// shrink removes groups from an unsatisfiable core until every remaining
// group is necessary.
func (o *Oracle) shrink(ctx context.Context, e *encoding, core []int) ([]int, error) {
	for i := 0; i < len(core); {
		trial := make([]int, 0, len(core)-1)
		trial = append(trial, core[:i]...)
		trial = append(trial, core[i+1:]...)

		ok, err := e.solve(ctx, trial)
		if err != nil {
			return nil, err
		}
		if ok {
			i++
			continue
		}
		// groups before i were shown necessary, so the new core keeps them
		core = e.failedGroups()
	}
	return core, nil
}

// wrap reports solver failures as oracle errors. Context errors pass
// through so callers can tell a timeout from a failure.
func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return oracle.NewError("sat oracle failed", err, false)
}

// costOf is the integer S1+S3 penalty the circuit minimizes.
func costOf(inst *schedule.Instance, s *schedule.Schedule) int {
	objective, _ := objectiveOf(inst, s)
	return int(objective)
}

func objectiveOf(inst *schedule.Instance, s *schedule.Schedule) (float64, map[string]float64) {
	_, breakdown := oracle.Score(inst, s)
	out := map[string]float64{
		oracle.S1StudentConflicts:   breakdown[oracle.S1StudentConflicts],
		oracle.S3PreferredTimeSlots: breakdown[oracle.S3PreferredTimeSlots],
	}
	return out[oracle.S1StudentConflicts] + out[oracle.S3PreferredTimeSlots], out
}

func groupIDs(e *encoding, core []int) []string {
	out := make([]string, len(core))
	for i, gi := range core {
		out[i] = e.groups[gi].id
	}
	return out
}
