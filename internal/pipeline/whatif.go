package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/reasons"
	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/translate"
	"github.com/roach88/whatif/internal/validate"
)

// FallbackDescription names a question with no constraints to describe.
const FallbackDescription = "What-if scenario"

// WhatIfRequest asks a question about a stored run. QueryType selects the
// structured path; without it Question is read as free text.
type WhatIfRequest struct {
	RunID       string         `json:"run_id" yaml:"run_id"`
	QueryType   string         `json:"query_type,omitempty" yaml:"query_type,omitempty"`
	QueryParams map[string]any `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	Question    string         `json:"question,omitempty" yaml:"question,omitempty"`
}

// WhatIfResponse is the answer to a what-if request.
type WhatIfResponse struct {
	ID                string             `json:"id"`
	RunID             string             `json:"run_id"`
	QueryDescription  string             `json:"query_description"`
	QueryType         string             `json:"query_type"`
	Constraints       []query.Constraint `json:"query_constraints"`
	Fingerprint       string             `json:"fingerprint"`
	Feasible          bool               `json:"feasible"`
	Status            string             `json:"status"`
	Explanation       string             `json:"explanation"`
	OriginalObjective float64            `json:"original_objective"`
	SolveTime         float64            `json:"solve_time"`
	Attempts          int                `json:"attempts"`

	AlternativeSchedule  *schedule.Schedule `json:"alternative_schedule,omitempty"`
	AlternativeObjective *float64           `json:"alternative_objective,omitempty"`
	ObjectiveDifference  *float64           `json:"objective_difference,omitempty"`
	SoftConstraints      map[string]float64 `json:"soft_constraints,omitempty"`

	IIS            []oracle.IISConstraint `json:"iis,omitempty"`
	IISSummary     *oracle.IISSummary     `json:"iis_summary,omitempty"`
	GraphOfReasons *reasons.Graph         `json:"graph_of_reasons,omitempty"`

	Message     string         `json:"message,omitempty"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

// CheckResponse is the dry-run outcome of a what-if request.
type CheckResponse struct {
	RunID            string             `json:"run_id"`
	QueryDescription string             `json:"query_description"`
	QueryType        string             `json:"query_type"`
	Constraints      []query.Constraint `json:"query_constraints"`
	Fingerprint      string             `json:"fingerprint"`
	Valid            bool               `json:"valid"`
	Issues           []validate.Issue   `json:"issues"`
}

// prepared is a translated question bound to its run.
type prepared struct {
	run         *store.Run
	queryType   string
	constraints []query.Constraint
	description string
	fingerprint string
}

// WhatIf answers req against its stored run and appends the answer to the
// run's history.
//
// Returned errors: ErrInvalidRequest, store.ErrRunNotFound,
// ErrRunNotOptimal, *query.Error, ErrNoConstraints, *validate.Failure.
// Oracle failures are not errors; they produce a response with status
// "error".
func (s *Service) WhatIf(ctx context.Context, req WhatIfRequest) (*WhatIfResponse, error) {
	ctx, span := tracer.Start(ctx, "pipeline.WhatIf",
		trace.WithAttributes(
			attribute.String("run_id", req.RunID),
			attribute.String("query_type", req.QueryType),
		),
	)
	defer span.End()

	p, err := s.prepare(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if issues := validate.Check(p.constraints, p.run.Instance); len(issues) > 0 {
		err := validate.AsError(issues)
		translationErrors.WithLabelValues(errorCode(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query constraints")
		return nil, fmt.Errorf("invalid query constraints: %w", err)
	}

	original := *p.run.Objective
	start := time.Now()
	res := s.orchestrator.SolveWhatIf(ctx, p.run.Instance, p.constraints, original)
	oracleCallDuration.WithLabelValues("what_if").Observe(time.Since(start).Seconds())

	var graph *reasons.Graph
	if res.Infeasible() && len(res.IIS) > 0 {
		graph = reasons.Build(res.IIS, p.description)
	}
	explanation := s.explainer.Explain(ctx, res, p.description, graph)

	resp := &WhatIfResponse{
		ID:                s.newID(),
		RunID:             p.run.ID,
		QueryDescription:  p.description,
		QueryType:         p.queryType,
		Constraints:       p.constraints,
		Fingerprint:       p.fingerprint,
		Feasible:          res.Feasible(),
		Status:            res.Status,
		Explanation:       explanation,
		OriginalObjective: original,
		SolveTime:         res.SolveTimeSeconds,
		Attempts:          res.Attempts,
		Message:           res.Message,
		Diagnostics:       res.Diagnostics,
	}
	switch {
	case res.Feasible():
		resp.AlternativeSchedule = res.AlternativeSchedule
		resp.AlternativeObjective = res.AlternativeObjective
		resp.ObjectiveDifference = res.ObjectiveDelta
		resp.SoftConstraints = res.SoftConstraints
	case res.Infeasible():
		resp.IIS = res.IIS
		resp.IISSummary = res.Summary
		resp.GraphOfReasons = graph
	}

	err = s.store.SaveWhatIf(ctx, &store.WhatIfRecord{
		ID:          resp.ID,
		RunID:       resp.RunID,
		QueryType:   resp.QueryType,
		Description: resp.QueryDescription,
		Constraints: resp.Constraints,
		Fingerprint: resp.Fingerprint,
		Result:      res,
		Explanation: resp.Explanation,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save what-if failed")
		return nil, fmt.Errorf("save what-if: %w", err)
	}

	whatIfRequests.WithLabelValues(res.Status).Inc()
	span.SetAttributes(
		attribute.String("status", res.Status),
		attribute.Int("constraints", len(p.constraints)),
		attribute.Int("iis_size", len(res.IIS)),
	)
	s.logger.Info("what-if answered",
		"id", resp.ID,
		"run_id", resp.RunID,
		"status", res.Status,
		"fingerprint", resp.Fingerprint,
	)
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Check translates and validates req without calling the oracle.
// Validation issues are reported in the response, not as an error.
func (s *Service) Check(ctx context.Context, req WhatIfRequest) (*CheckResponse, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Check",
		trace.WithAttributes(attribute.String("run_id", req.RunID)),
	)
	defer span.End()

	p, err := s.prepare(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	issues := validate.Check(p.constraints, p.run.Instance)
	span.SetAttributes(attribute.Int("issues", len(issues)))
	return &CheckResponse{
		RunID:            p.run.ID,
		QueryDescription: p.description,
		QueryType:        p.queryType,
		Constraints:      p.constraints,
		Fingerprint:      p.fingerprint,
		Valid:            len(issues) == 0,
		Issues:           issues,
	}, nil
}

// History returns a run's stored what-if answers.
func (s *Service) History(ctx context.Context, runID string) ([]store.WhatIfRecord, error) {
	return s.store.ListWhatIfs(ctx, runID)
}

func (s *Service) prepare(ctx context.Context, req WhatIfRequest) (*prepared, error) {
	if req.RunID == "" {
		return nil, fmt.Errorf("%w: run_id is required", ErrInvalidRequest)
	}
	if req.QueryType == "" && req.Question == "" {
		return nil, fmt.Errorf("%w: query_type or question is required", ErrInvalidRequest)
	}

	run, err := s.store.LoadRun(ctx, req.RunID)
	if err != nil {
		return nil, err
	}
	if run.Status != oracle.StatusOptimal || run.Objective == nil {
		return nil, fmt.Errorf("%w: run %s has status %q", ErrRunNotOptimal, run.ID, run.Status)
	}

	p := &prepared{run: run, queryType: req.QueryType}
	if req.QueryType != "" {
		params := make(map[string]any, len(req.QueryParams)+1)
		maps.Copy(params, req.QueryParams)
		if kind, err := query.ParseKind(req.QueryType); err == nil && kind.IsSwap() {
			params[query.ParamCurrentSchedule] = run.Schedule
		}
		p.constraints, err = translate.Structured(req.QueryType, params, run.Instance)
		if err != nil {
			translationErrors.WithLabelValues(errorCode(err)).Inc()
			return nil, err
		}
	} else {
		p.queryType = "free_text"
		p.constraints = translate.Text(req.Question, run.Instance)
	}

	if len(p.constraints) == 0 {
		translationErrors.WithLabelValues(errorCode(ErrNoConstraints)).Inc()
		return nil, ErrNoConstraints
	}

	p.description = Describe(req.Question, p.constraints)
	p.fingerprint, err = query.Fingerprint(p.constraints)
	if err != nil {
		return nil, fmt.Errorf("fingerprint constraints: %w", err)
	}
	return p, nil
}

// Describe names a question: the user's wording when given, else the first
// constraint's description with a count of the rest.
func Describe(question string, cs []query.Constraint) string {
	if question != "" {
		return question
	}
	if len(cs) == 0 {
		return FallbackDescription
	}
	desc := cs[0].Describe()
	if len(cs) > 1 {
		desc += fmt.Sprintf(" (and %d more constraints)", len(cs)-1)
	}
	return desc
}

// IsClientError reports whether err was caused by the request rather than
// the service.
func IsClientError(err error) bool {
	var (
		qe      *query.Error
		failure *validate.Failure
	)
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrRunNotOptimal) ||
		errors.Is(err, ErrNoConstraints) ||
		errors.As(err, &qe) ||
		errors.As(err, &failure)
}
