package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/outsider987/Patlytics-hotfix/internal/server"
	"github.com/outsider987/Patlytics-hotfix/pkg/observability"
	"github.com/outsider987/Patlytics-hotfix/pkg/observability/prom"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cycle checks over HTTP",
		Long: `Serve starts the HTTP API. Saved traces go to the configured cache; use the
redis backend to share them between instances. Prometheus metrics are exposed
at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := prom.New(prometheus.DefaultRegisterer)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)

			srv := server.New(runner, server.Options{
				Addr:         cfg.Addr,
				ReadTimeout:  cfg.ReadTimeout.Duration,
				WriteTimeout: cfg.WriteTimeout.Duration,
				MaxBodyBytes: cfg.MaxBodyBytes,
				Gatherer:     prometheus.DefaultGatherer,
			}, loggerFromContext(ctx))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
