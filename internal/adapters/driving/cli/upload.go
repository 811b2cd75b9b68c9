package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uploadURL   string
	uploadToken string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the sales API and load the result",
	Long: `Sends a CSV or spreadsheet file to the sales API upload endpoint, then
fetches the updated rows as a new snapshot.

The upload endpoint is "upload" next to the fetch endpoint, so
http://localhost:3000/api/getsales uploads to
http://localhost:3000/api/upload.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadURL, "url", "", "sales API endpoint (default from api.url)")
	uploadCmd.Flags().StringVar(&uploadToken, "token", "", "bearer token for the sales API")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	source, err := resolveSource(nil, uploadURL, uploadToken)
	if err != nil {
		return err
	}

	cmd.Printf("Uploading %s...\n", args[0])
	info, err := datasetService.Upload(cmd.Context(), source, args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	printLoaded(cmd, info)
	return nil
}
