package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/whatif/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the optimization and what-if HTTP API until interrupted.

Examples:
  whatif serve
  whatif serve --addr :9090 --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if addr != "" {
				rootOpts.Config.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := rootOpts.openService(ctx)
			if err != nil {
				return f.Fail("failed to open service", err)
			}
			defer svc.Store().Close()

			h := server.NewHandlers(svc, rootOpts.Logger)
			if err := server.Serve(ctx, rootOpts.Config.Server.Addr, h); err != nil {
				return f.Fail("server failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
