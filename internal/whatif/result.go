package whatif

import (
	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/schedule"
)

// Result statuses.
const (
	StatusFeasible   = oracle.StatusFeasibleQuery
	StatusInfeasible = oracle.StatusInfeasibleQuery
	StatusError      = oracle.StatusError
)

// Result is the normalized outcome of one what-if question.
type Result struct {
	Status            string  `json:"status"`
	OriginalObjective float64 `json:"original_objective"`

	// Feasible outcome.
	AlternativeSchedule  *schedule.Schedule `json:"alternative_schedule,omitempty"`
	AlternativeObjective *float64           `json:"alternative_objective,omitempty"`
	ObjectiveDelta       *float64           `json:"objective_difference,omitempty"`
	SoftConstraints      map[string]float64 `json:"alternative_soft_constraints,omitempty"`

	// Infeasible outcome.
	IIS     []oracle.IISConstraint `json:"iis,omitempty"`
	Summary *oracle.IISSummary     `json:"iis_summary,omitempty"`

	// Error outcome.
	Message     string         `json:"message,omitempty"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`

	SolveTimeSeconds float64 `json:"solve_time_seconds"`
	Attempts         int     `json:"attempts"`
}

// Feasible reports whether an alternative schedule was found.
func (r *Result) Feasible() bool {
	return r != nil && r.Status == StatusFeasible
}

// Infeasible reports whether the oracle proved the question unsatisfiable.
func (r *Result) Infeasible() bool {
	return r != nil && r.Status == StatusInfeasible
}

// Delta returns the objective delta, or 0 when there is none.
func (r *Result) Delta() float64 {
	if r == nil || r.ObjectiveDelta == nil {
		return 0
	}
	return *r.ObjectiveDelta
}
