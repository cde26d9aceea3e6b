package harness

// Outcome is what one step produced.
type Outcome struct {
	Step            string   `json:"step"`
	Status          string   `json:"status"`
	Feasible        bool     `json:"feasible"`
	Description     string   `json:"description,omitempty"`
	ConstraintCount int      `json:"constraint_count"`
	IISIDs          []string `json:"iis_ids,omitempty"`
	IISTypes        []string `json:"iis_types,omitempty"`
	MinimalityInIIS bool     `json:"minimality_in_iis"`
	ObjectiveDelta  *float64 `json:"objective_difference,omitempty"`
	ErrorCode       string   `json:"error_code,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step met its expectations.
	Pass bool `json:"pass"`

	// RunID is the stored primary solve the steps were asked against.
	RunID string `json:"run_id"`

	// Outcomes holds one entry per step, in order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
