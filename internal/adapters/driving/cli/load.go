package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/logger"
)

var (
	loadURL       string
	loadToken     string
	loadFormat    string
	loadDelimiter string
	loadWatch     bool
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load sales rows into a new snapshot",
	Long: `Reads sales rows from a CSV, TSV or JSON file, or from a sales API, and
stores them as the current snapshot.

Without a file argument the rows are fetched from --url, or from the
api.url setting when --url is not given.

Files must be under 10 MB. Spreadsheets (.xlsx, .xls) are not read
directly; export them to CSV first.

Examples:
  salesboard load sales.csv
  salesboard load export.txt --delimiter ';'
  salesboard load --url http://localhost:3000/api/getsales
  salesboard load sales.csv --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadURL, "url", "", "sales API endpoint to fetch")
	loadCmd.Flags().StringVar(&loadToken, "token", "", "bearer token for the sales API")
	loadCmd.Flags().StringVar(&loadFormat, "format", "", "file format: csv, tsv or json (default from extension)")
	loadCmd.Flags().StringVar(&loadDelimiter, "delimiter", "", "field delimiter for delimited files")
	loadCmd.Flags().BoolVarP(&loadWatch, "watch", "w", false, "reload whenever the file changes")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	source, err := resolveSource(args, loadURL, loadToken)
	if err != nil {
		return err
	}
	if source.Type == domain.SourceTypeFile {
		source.Config = fileConfig(loadFormat, loadDelimiter)
	}

	ctx := cmd.Context()
	info, err := datasetService.Ingest(ctx, source)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	printLoaded(cmd, info)

	if !loadWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", source.Location)
	return datasetService.Watch(ctx, source, func(info *domain.SnapshotInfo, err error) {
		if err != nil {
			logger.Error("reload failed: %v", err)
			cmd.PrintErrf("Reload failed: %v\n", err)
			return
		}
		printLoaded(cmd, info)
	})
}

// resolveSource picks the source from a file argument, an explicit URL,
// or the configured API URL, in that order.
func resolveSource(args []string, url, token string) (domain.Source, error) {
	if len(args) > 0 && url != "" {
		return domain.Source{}, errors.New("give either a file or --url, not both")
	}
	if len(args) > 0 {
		return domain.Source{Type: domain.SourceTypeFile, Location: args[0]}, nil
	}

	if url == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return domain.Source{}, fmt.Errorf("failed to get settings: %w", err)
		}
		if src, ok := settings.APISource(); ok {
			if token != "" {
				src.Config = map[string]string{"token": token}
			}
			return src, nil
		}
	}
	if url == "" {
		return domain.Source{}, errors.New("no file given and no API url configured (set api.url or pass --url)")
	}

	source := domain.Source{Type: domain.SourceTypeAPI, Location: url}
	if token != "" {
		source.Config = map[string]string{"token": token}
	}
	return source, nil
}

func fileConfig(format, delimiter string) map[string]string {
	if format == "" && delimiter == "" {
		return nil
	}
	config := make(map[string]string, 2)
	if format != "" {
		config["format"] = format
	}
	if delimiter != "" {
		config["delimiter"] = delimiter
	}
	return config
}

func printLoaded(cmd *cobra.Command, info *domain.SnapshotInfo) {
	cmd.Printf("Loaded %d rows from %s (snapshot %s)\n", info.RowCount, info.Source.Location, info.ID)
}
