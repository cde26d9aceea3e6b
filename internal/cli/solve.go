package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	ShowSchedule bool
}

// SolveResult is the JSON payload of the solve command.
type SolveResult struct {
	RunID           string             `json:"run_id"`
	Status          string             `json:"status"`
	Backend         string             `json:"backend"`
	Objective       *float64           `json:"objective_value,omitempty"`
	SolveTime       float64            `json:"solve_time"`
	NumAssignments  int                `json:"num_assignments"`
	Schedule        *schedule.Schedule `json:"schedule,omitempty"`
	SoftConstraints map[string]float64 `json:"soft_constraints,omitempty"`
	Diagnostics     map[string]any     `json:"diagnostics,omitempty"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Solve an instance and store the run",
		Long: `Solve a timetabling instance (.json, .yaml or .cue) and store the run.

The printed run id is the handle for what-if questions.

Exit codes:
  0 - Optimal or feasible schedule stored
  1 - Instance is infeasible
  2 - Command error (invalid instance, oracle failure, etc.)

Examples:
  whatif solve ./instance.json
  whatif solve ./instance.yaml --schedule
  whatif solve ./instance.cue --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowSchedule, "schedule", false, "print the solved schedule")

	return cmd
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	inst, err := schedule.LoadInstance(path)
	if err != nil {
		_ = f.Error("INVALID_INSTANCE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load instance", err)
	}
	f.VerboseLog("Loaded %d courses, %d rooms from %s", len(inst.Courses), len(inst.Classrooms), path)

	svc, err := opts.openService(cmd.Context())
	if err != nil {
		return f.Fail("failed to open service", err)
	}
	defer svc.Store().Close()

	run, err := svc.Optimize(cmd.Context(), inst)
	if err != nil {
		return f.Fail("solve failed", err)
	}

	result := SolveResult{
		RunID:           run.ID,
		Status:          run.Status,
		Backend:         run.Backend,
		Objective:       run.Objective,
		SolveTime:       run.SolveTimeSeconds,
		SoftConstraints: run.SoftConstraints,
		Diagnostics:     run.Diagnostics,
	}
	if run.Schedule != nil {
		result.NumAssignments = len(run.Schedule.Assignments)
		if opts.ShowSchedule || opts.Format == "json" {
			result.Schedule = run.Schedule
		}
	}

	if err := f.Success(result, func(w io.Writer) { writeRun(w, run, opts.ShowSchedule) }); err != nil {
		return err
	}

	switch run.Status {
	case oracle.StatusOptimal, oracle.StatusFeasible:
		return nil
	case oracle.StatusInfeasible:
		return NewExitError(ExitFailure, "instance is infeasible")
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("solve ended with status %s", run.Status))
	}
}

// writeRun prints a run header and, optionally, its schedule.
func writeRun(w io.Writer, run *store.Run, withSchedule bool) {
	fmt.Fprintf(w, "Run %s: %s (%s)\n", run.ID, run.Status, run.Backend)
	if run.Objective != nil {
		fmt.Fprintf(w, "  Objective:   %g\n", *run.Objective)
	}
	if run.Schedule != nil {
		fmt.Fprintf(w, "  Assignments: %d\n", len(run.Schedule.Assignments))
	}
	fmt.Fprintf(w, "  Solve time:  %.3fs\n", run.SolveTimeSeconds)
	if msg, ok := run.Diagnostics["error"].(string); ok {
		fmt.Fprintf(w, "  Error:       %s\n", msg)
	}
	if withSchedule && run.Schedule != nil {
		fmt.Fprintln(w)
		writeSchedule(w, run.Schedule)
	}
}

func writeSchedule(w io.Writer, s *schedule.Schedule) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tDAY\tPERIOD\tLENGTH\tROOM\tINSTRUCTOR")
	for _, a := range s.Assignments {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			a.CourseID, a.Day, a.PeriodStart, a.PeriodLength, a.RoomID, a.InstructorID)
	}
	_ = tw.Flush()
}
