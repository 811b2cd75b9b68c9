package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources/api"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/salesboard/internal/core/services"
)

const testCSV = `product_name,category,rating,review_count,discount
USB Cable,Electronics,4.2,1234,64%
Desk Lamp,Home,3.9,87,12%
Mouse Pad,Electronics,4.5,,0%
`

// setupTestServices installs in-memory services and returns a cleanup
// function that restores the previous ones and resets command flags.
func setupTestServices() func() {
	oldDataset, oldSettings := datasetService, settingsService

	dataset := services.NewDatasetService(
		sources.NewDefaultFactory(api.Options{}),
		memory.NewSnapshotStore(),
	)
	SetServices(Services{
		Dataset:  dataset,
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})

	return func() {
		datasetService, settingsService = oldDataset, oldSettings
		resetFlags()
	}
}

// resetFlags restores flag variables, which persist between executions
// of rootCmd.
func resetFlags() {
	loadURL, loadToken, loadFormat, loadDelimiter, loadWatch = "", "", "", "", false
	uploadURL, uploadToken = "", ""
	summaryJSON = false
	tableSearch, tableCategory, tableReviews = "", "", "all"
	tablePage, tablePageSize, tableJSON = 1, 0, false
	verbose = false
}

// execute runs rootCmd with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestCSV writes testCSV to a temp file and returns its path.
func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0600))
	return path
}

// loadTestCSV loads testCSV through the load command.
func loadTestCSV(t *testing.T) {
	t.Helper()
	_, err := execute(t, "load", writeTestCSV(t))
	require.NoError(t, err)
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "salesboard", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "verbose flag should exist")
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"load", "upload", "summary", "table", "categories",
		"snapshots", "settings", "mcp", "tui", "version",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version is ignored")
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	assert.NotNil(t, datasetService)
	assert.NotNil(t, settingsService)

	SetServices(Services{})
	assert.Nil(t, datasetService)
	assert.Nil(t, settingsService)
}
