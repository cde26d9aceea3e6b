package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/whatif/internal/server"
	"github.com/roach88/whatif/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit  int
	Status string
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	WhatIfs bool
}

// RunDetail is the JSON payload of the show command.
type RunDetail struct {
	server.RunResponse
	WhatIfs []store.WhatIfRecord `json:"what_if_queries,omitempty"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListRuns(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only runs with this status")

	return cmd
}

func runListRuns(opts *RunsOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.Limit < 0 {
		return f.Fail("invalid limit", fmt.Errorf("limit must be >= 0, got %d", opts.Limit))
	}

	st, err := opts.openStore()
	if err != nil {
		return f.Fail("failed to open store", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit, opts.Status)
	if err != nil {
		return f.Fail("failed to list runs", err)
	}

	return f.Success(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs found.")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tCREATED\tSTATUS\tBACKEND\tOBJECTIVE\tASSIGNMENTS")
		for _, r := range runs {
			objective := "-"
			if r.Objective != nil {
				objective = fmt.Sprintf("%g", *r.Objective)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, r.Backend, objective, r.NumAssignments)
		}
		_ = tw.Flush()
	})
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run and its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.WhatIfs, "what-ifs", "w", false, "include the run's what-if history")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail("failed to open store", err)
	}
	defer st.Close()

	run, err := st.LoadRun(cmd.Context(), runID)
	if err != nil {
		return f.Fail("failed to load run", err)
	}
	detail := RunDetail{RunResponse: server.NewRunResponse(run)}
	if opts.WhatIfs {
		detail.WhatIfs, err = st.ListWhatIfs(cmd.Context(), runID)
		if err != nil {
			return f.Fail("failed to load what-if history", err)
		}
	}

	return f.Success(detail, func(w io.Writer) {
		writeRun(w, run, true)
		if len(run.SoftConstraints) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Soft constraint penalties:")
			keys := lo.Keys(run.SoftConstraints)
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s: %g\n", k, run.SoftConstraints[k])
			}
		}
		if opts.WhatIfs {
			writeHistory(w, detail.WhatIfs)
		}
	})
}

func writeHistory(w io.Writer, recs []store.WhatIfRecord) {
	fmt.Fprintln(w)
	if len(recs) == 0 {
		fmt.Fprintln(w, "No what-if questions asked.")
		return
	}
	fmt.Fprintf(w, "What-if history (%d):\n", len(recs))
	for _, rec := range recs {
		status := "-"
		if rec.Result != nil {
			status = rec.Result.Status
		}
		fmt.Fprintf(w, "  %s  %-18s %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), status, rec.Description)
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run and its what-if history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			st, err := rootOpts.openStore()
			if err != nil {
				return f.Fail("failed to open store", err)
			}
			defer st.Close()

			if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
				return f.Fail("failed to delete run", err)
			}
			return f.Success(map[string]string{"run_id": args[0], "status": "deleted"}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted run %s\n", args[0])
			})
		},
	}

	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored runs and what-if questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			st, err := rootOpts.openStore()
			if err != nil {
				return f.Fail("failed to open store", err)
			}
			defer st.Close()

			stats, err := st.Statistics(cmd.Context())
			if err != nil {
				return f.Fail("failed to compute statistics", err)
			}
			return f.Success(stats, func(w io.Writer) { writeStats(w, stats) })
		},
	}

	return cmd
}

func writeStats(w io.Writer, s *store.Statistics) {
	fmt.Fprintf(w, "Runs: %d %s\n", s.TotalRuns, formatCounts(s.RunsByStatus))
	if s.AverageObjective != nil {
		fmt.Fprintf(w, "  Average objective:  %g\n", *s.AverageObjective)
	}
	fmt.Fprintf(w, "  Average solve time: %.3fs\n", s.AverageSolveTime)
	fmt.Fprintf(w, "What-if questions: %d %s\n", s.TotalWhatIfs, formatCounts(s.WhatIfsByStatus))
	fmt.Fprintf(w, "  Distinct questions: %d\n", s.DistinctQuestions)
	if s.AverageWhatIfDelta != nil {
		fmt.Fprintf(w, "  Average objective difference: %g\n", *s.AverageWhatIfDelta)
	}
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := lo.Keys(counts)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
