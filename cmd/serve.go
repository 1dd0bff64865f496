package cmd

import (
	"os/signal"
	"syscall"

	"racebell/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the race listing as JSON over HTTP",
	Long: `Run a headless refresh loop and expose the current race card at
/races, with a /health endpoint for monitoring. Useful for feeding
other frontends without scraping the source more than once.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(newSource()).Run(ctx, cfg.Listen, cfg.RefreshCron)
}
