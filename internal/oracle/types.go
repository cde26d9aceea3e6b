package oracle

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

// Solver statuses.
const (
	StatusOptimal         = "optimal"
	StatusFeasible        = "feasible"
	StatusInfeasible      = "infeasible"
	StatusFeasibleQuery   = "feasible_query"
	StatusInfeasibleQuery = "infeasible_query"
	StatusNotSupported    = "not_supported"
	StatusTimeout         = "timeout"
	StatusError           = "error"
)

// IIS constraint types that are not hard-constraint ids.
const (
	TypeMinimality  = "minimality"
	TypeQueryPrefix = "query_"
)

// IISConstraint is one member of an irreducible infeasible subset.
type IISConstraint struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	InIIS       bool   `json:"in_iis"`
}

// UnmarshalJSON defaults in_iis to true when the oracle omits it.
func (c *IISConstraint) UnmarshalJSON(data []byte) error {
	type plain IISConstraint
	out := plain{InIIS: true}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = IISConstraint(out)
	return nil
}

// IsMinimality reports whether c is the objective bound.
func (c IISConstraint) IsMinimality() bool {
	return c.Type == TypeMinimality
}

// IsQuery reports whether c originates from the user's query.
func (c IISConstraint) IsQuery() bool {
	return strings.HasPrefix(c.Type, TypeQueryPrefix)
}

// IISSummary counts what an IIS implicates.
type IISSummary struct {
	MinimalityInIIS     bool `json:"minimality_in_iis"`
	NumQueryConstraints int  `json:"num_query_constraints_in_iis"`
	NumConstraints      int  `json:"num_constraints_in_iis"`
}

// Summarize derives a summary from an IIS list.
func Summarize(iis []IISConstraint) IISSummary {
	s := IISSummary{NumConstraints: len(iis)}
	for _, c := range iis {
		if c.IsMinimality() {
			s.MinimalityInIIS = true
		}
		if c.IsQuery() {
			s.NumQueryConstraints++
		}
	}
	return s
}

// Problem is the user-desired satisfiability problem: the original
// instance, the query constraints and the bound objective <= OriginalObjective.
type Problem struct {
	Instance          *schedule.Instance `json:"instance"`
	Constraints       []query.Constraint `json:"query_constraints"`
	OriginalObjective float64            `json:"original_objective"`
}

// WhatIfOutput is the oracle's raw what-if answer.
type WhatIfOutput struct {
	Status                     string             `json:"status"`
	AlternativeSchedule        *schedule.Schedule `json:"alternative_schedule,omitempty"`
	AlternativeObjective       *float64           `json:"alternative_objective,omitempty"`
	AlternativeSoftConstraints map[string]float64 `json:"alternative_soft_constraints,omitempty"`
	IIS                        []IISConstraint    `json:"iis,omitempty"`
	IISSummary                 *IISSummary        `json:"iis_summary,omitempty"`
	Diagnostics                map[string]any     `json:"diagnostics,omitempty"`
	Explanation                string             `json:"explanation,omitempty"`
	SolveTimeSeconds           float64            `json:"solve_time_seconds"`
}

// SolveOutput is the answer of a primary solve.
type SolveOutput struct {
	Status           string             `json:"status"`
	Schedule         *schedule.Schedule `json:"schedule,omitempty"`
	Objective        *float64           `json:"objective,omitempty"`
	SoftConstraints  map[string]float64 `json:"soft_constraints,omitempty"`
	Diagnostics      map[string]any     `json:"diagnostics,omitempty"`
	SolveTimeSeconds float64            `json:"solve_time_seconds"`
}

// Oracle solves what-if problems. Each call is a single attempt; retry
// policy belongs to the caller.
type Oracle interface {
	SolveWhatIf(ctx context.Context, p *Problem) (*WhatIfOutput, error)
}

// Solver computes optimal schedules.
type Solver interface {
	Solve(ctx context.Context, inst *schedule.Instance) (*SolveOutput, error)
}

// Backend is a solver that also answers what-if problems.
type Backend interface {
	Oracle
	Solver
	Name() string
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
