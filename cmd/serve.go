package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ivan-hilckov/lucidum/pkg/server"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP debug server",
	Long: `Run the HTTP debug server.

Endpoints:
  GET  /healthz       liveness
  GET  /prompts       default prompts and personas
  POST /analyze-job   job analysis and selected persona
  POST /generate      full pipeline run
  GET  /metrics       Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := serveAddr
	if addr == "" {
		addr = rt.cfg.Server.Addr
	}

	srv := server.New(server.Config{
		Addr: addr,
		// Each request may run analysis, letter, repair and fallback calls.
		RequestTimeout: 4 * rt.cfg.CallTimeout,
		Metrics:        rt.recorder.Handler(),
	}, rt.pipeline, rt.logger)

	err = srv.Run(ctx)
	return err
}
