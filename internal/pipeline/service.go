package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/whatif/internal/explain"
	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/whatif"
)

// DefaultSolveRetries is the retry budget of primary solves.
const DefaultSolveRetries = 2

// Service runs solves and what-if questions against a store.
type Service struct {
	store        *store.Store
	backend      oracle.Backend
	orchestrator *whatif.Orchestrator
	explainer    *explain.Explainer
	solveRetry   oracle.RetryPolicy
	newID        func() string
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSolveRetries sets the retry policy of primary solves.
func WithSolveRetries(n int, backoff time.Duration) Option {
	return func(s *Service) {
		s.solveRetry = oracle.RetryPolicy{MaxRetries: n, Backoff: backoff}
	}
}

// WithOrchestrator replaces the what-if orchestrator. The default wraps
// the backend with no retries and no timeout.
func WithOrchestrator(o *whatif.Orchestrator) Option {
	return func(s *Service) {
		s.orchestrator = o
	}
}

// WithExplainer sets the explainer. The default renders offline.
func WithExplainer(e *explain.Explainer) Option {
	return func(s *Service) {
		s.explainer = e
	}
}

// WithIDGenerator replaces the UUIDv7 generator of run and query ids.
func WithIDGenerator(next func() string) Option {
	return func(s *Service) {
		s.newID = next
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a service over st using backend for solves and what-ifs.
func New(st *store.Store, backend oracle.Backend, opts ...Option) *Service {
	s := &Service{
		store:      st,
		backend:    backend,
		solveRetry: oracle.RetryPolicy{MaxRetries: DefaultSolveRetries, Backoff: time.Second},
		newID:      newUUID,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orchestrator == nil {
		s.orchestrator = whatif.New(backend, whatif.WithLogger(s.logger))
	}
	if s.explainer == nil {
		s.explainer = explain.NewExplainer(nil, s.logger)
	}
	return s
}

func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Backend returns the solver backend name.
func (s *Service) Backend() string {
	return s.backend.Name()
}

// Optimize solves inst and stores the run. Solver failures are stored as
// runs with status "error" rather than returned; the error return is
// reserved for storage failures.
func (s *Service) Optimize(ctx context.Context, inst *schedule.Instance) (*store.Run, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Optimize",
		trace.WithAttributes(
			attribute.String("backend", s.backend.Name()),
			attribute.Int("courses", len(inst.Courses)),
		),
	)
	defer span.End()

	start := time.Now()
	out, attempts, err := oracle.Retry(ctx, s.solveRetry, "solve", func(ctx context.Context) (*oracle.SolveOutput, error) {
		return s.backend.Solve(ctx, inst)
	})
	oracleCallDuration.WithLabelValues("solve").Observe(time.Since(start).Seconds())
	if err == nil && out == nil {
		err = oracle.NewError("solver returned no result", nil, false)
	}

	run := &store.Run{
		ID:       s.newID(),
		Backend:  s.backend.Name(),
		Instance: inst,
	}
	if err != nil {
		run.Status = oracle.StatusError
		run.Diagnostics = oracle.DiagnosticsOf(err)
		run.SolveTimeSeconds = time.Since(start).Seconds()
		span.RecordError(err)
		s.logger.Error("solve failed", "run_id", run.ID, "attempts", attempts, "error", err)
	} else {
		run.Status = out.Status
		run.Schedule = out.Schedule
		run.Objective = out.Objective
		run.SoftConstraints = out.SoftConstraints
		run.Diagnostics = out.Diagnostics
		run.SolveTimeSeconds = out.SolveTimeSeconds
	}
	runsTotal.WithLabelValues(run.Status).Inc()
	span.SetAttributes(attribute.String("run_id", run.ID), attribute.String("status", run.Status))

	if err := s.store.SaveRun(ctx, run); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save run failed")
		return nil, fmt.Errorf("save run: %w", err)
	}
	s.logger.Info("run stored",
		"run_id", run.ID,
		"status", run.Status,
		"objective", objectiveAttr(run.Objective),
		"solve_time_seconds", run.SolveTimeSeconds,
	)
	span.SetStatus(codes.Ok, "")
	return run, nil
}

func objectiveAttr(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
