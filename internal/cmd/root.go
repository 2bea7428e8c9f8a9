// Package cmd wires the CLI surface: assess runs a readiness assessment,
// areas lists the service areas, version prints build information.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantready/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "tenantready",
	Short: "Cloud tenant readiness assessment",
	Long: `tenantready assesses a Microsoft 365 tenant's readiness for a Copilot
rollout. It collects configuration state across licensing, identity,
security, compliance, platform governance, and the agent platform, then
evaluates it against a rule catalog and writes a prioritized list of
recommendations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cobra.OnInitialize(func() {
		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(logLevel)
		log.SetDefaultLogger(log.New(cfg))
	})
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
