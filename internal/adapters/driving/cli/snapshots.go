package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List loaded snapshots, newest first",
	Long: `Lists every stored snapshot. The newest one is the current dataset that
summary, table and tui read from.`,
	RunE: runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	snapshots, err := datasetService.Snapshots(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		cmd.Println("No snapshots. Load one with: salesboard load <file>")
		return nil
	}

	for i := range snapshots {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		s := snapshots[i]
		cmd.Printf("%s %s  %s  %5d rows  %s\n",
			marker, s.ID, s.CreatedAt.Local().Format(time.DateTime), s.RowCount, s.Source)
	}
	return nil
}
