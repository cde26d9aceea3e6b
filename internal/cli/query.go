package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/pipeline"
)

// QueryOptions holds flags shared by the query and check commands.
type QueryOptions struct {
	*RootOptions
	Type     string
	Params   []string // key=value
	Question string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <run-id>",
		Short: "Ask a structured what-if question about a run",
		Long: `Ask a structured what-if question about a stored optimal run.

Parameters are passed as repeated key=value pairs and parsed per query type.

Exit codes:
  0 - The question is feasible
  1 - The question is infeasible or was rejected
  2 - Command error (unknown run, oracle failure, etc.)

Examples:
  whatif query <run-id> --type enforce_time_slot --param course_id=CS101 --param day=Tue --param period=3
  whatif query <run-id> --type swap_time_slots --param course_id_1=CS101 --param course_id_2=CS201
  whatif query <run-id> --type veto_lunch --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args[0])
			if err != nil {
				return opts.formatter(cmd).Fail("invalid question", err)
			}
			return runWhatIf(opts.RootOptions, req, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "query type (required)")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "query parameter as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <run-id> <question...>",
		Short: "Ask a free-text what-if question about a run",
		Long: `Ask a what-if question in plain English. Recognized phrasings are translated
into query constraints; anything unrecognized is rejected.

Examples:
  whatif ask <run-id> "Can we avoid scheduling CS101 on Monday?"
  whatif ask <run-id> Keep CS101 out of the lunch hour`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.WhatIfRequest{
				RunID:    args[0],
				Question: strings.Join(args[1:], " "),
			}
			return runWhatIf(rootOpts, req, cmd)
		},
	}

	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <run-id>",
		Short: "Translate and validate a question without solving",
		Long: `Translate a question against a stored run and report the query constraints
and any validation issues. Nothing is solved or stored.

Exit codes:
  0 - The constraints are valid
  1 - The constraints are contradictory or reference unknown entities
  2 - Command error

Examples:
  whatif check <run-id> --type enforce_room --param course_id=CS101 --param room_id=R9
  whatif check <run-id> --question "Can we avoid scheduling CS101 on Monday?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "query type")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "free-text question")
	cmd.MarkFlagsMutuallyExclusive("type", "question")
	cmd.MarkFlagsOneRequired("type", "question")

	return cmd
}

// request builds a what-if request from the flags.
func (o *QueryOptions) request(runID string) (pipeline.WhatIfRequest, error) {
	params, err := parseParams(o.Params)
	if err != nil {
		return pipeline.WhatIfRequest{}, err
	}
	return pipeline.WhatIfRequest{
		RunID:       runID,
		QueryType:   o.Type,
		QueryParams: params,
		Question:    o.Question,
	}, nil
}

// parseParams splits key=value pairs. Values stay strings; numeric
// parameters are converted when the request is parsed.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: parameter %q is not key=value", pipeline.ErrInvalidRequest, pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

func runWhatIf(opts *RootOptions, req pipeline.WhatIfRequest, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	svc, err := opts.openService(cmd.Context())
	if err != nil {
		return f.Fail("failed to open service", err)
	}
	defer svc.Store().Close()

	resp, err := svc.WhatIf(cmd.Context(), req)
	if err != nil {
		return f.Fail("question rejected", err)
	}

	if err := f.Success(resp, func(w io.Writer) { writeAnswer(w, resp, opts.Verbose) }); err != nil {
		return err
	}

	switch {
	case resp.Feasible:
		return nil
	case resp.Status == oracle.StatusError:
		return NewExitError(ExitCommandError, resp.Message)
	default:
		return NewExitError(ExitFailure, "question is infeasible")
	}
}

// writeAnswer prints a what-if answer for humans.
func writeAnswer(w io.Writer, resp *pipeline.WhatIfResponse, verbose bool) {
	fmt.Fprintf(w, "Q: %s\n", resp.QueryDescription)
	fmt.Fprintf(w, "Status: %s\n\n", resp.Status)
	fmt.Fprintln(w, strings.TrimSpace(resp.Explanation))

	if verbose {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Query constraints (%d):\n", len(resp.Constraints))
		for _, c := range resp.Constraints {
			fmt.Fprintf(w, "  - %s\n", c.Describe())
		}
		if resp.AlternativeSchedule != nil {
			fmt.Fprintln(w)
			writeSchedule(w, resp.AlternativeSchedule)
		}
	}

	fmt.Fprintf(w, "\nAnswer %s stored for run %s\n", resp.ID, resp.RunID)
}

func runCheck(opts *QueryOptions, runID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	req, err := opts.request(runID)
	if err != nil {
		return f.Fail("invalid question", err)
	}

	svc, err := opts.openService(cmd.Context())
	if err != nil {
		return f.Fail("failed to open service", err)
	}
	defer svc.Store().Close()

	resp, err := svc.Check(cmd.Context(), req)
	if err != nil {
		return f.Fail("question rejected", err)
	}

	err = f.Success(resp, func(w io.Writer) {
		fmt.Fprintf(w, "Q: %s\n", resp.QueryDescription)
		fmt.Fprintf(w, "Query constraints (%d):\n", len(resp.Constraints))
		for _, c := range resp.Constraints {
			fmt.Fprintf(w, "  - %s\n", c.Describe())
		}
		if resp.Valid {
			fmt.Fprintln(w, "✓ Constraints are valid")
			return
		}
		fmt.Fprintf(w, "✗ %d issue(s):\n", len(resp.Issues))
		for _, issue := range resp.Issues {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Code, issue.Message)
		}
	})
	if err != nil {
		return err
	}
	if !resp.Valid {
		return NewExitError(ExitFailure, "constraints are invalid")
	}
	return nil
}
