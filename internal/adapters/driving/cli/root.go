// Package cli provides the cobra command tree for salesboard.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
	"github.com/custodia-labs/salesboard/internal/logger"
)

var (
	version = "dev"
	verbose bool

	datasetService  driving.DatasetService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Normalise and chart sales records",
	Long: `salesboard loads sales rows from CSV, TSV and JSON files or a sales API,
normalises them into canonical records and renders chart summaries and a
filterable table.

Start by loading a dataset:
  salesboard load sales.csv

Then explore it:
  salesboard summary
  salesboard table --search cable --reviews has
  salesboard tui`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
}

// Services holds the core services the commands drive.
type Services struct {
	Dataset  driving.DatasetService
	Settings driving.SettingsService
}

// SetServices injects the core services.
func SetServices(s Services) {
	datasetService = s.Dataset
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
