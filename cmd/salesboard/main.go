package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/salesboard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources/api"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/cli"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
	"github.com/custodia-labs/salesboard/internal/core/services"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// Set by the release build with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the adapters into the core services and executes the command
// tree. Cobra reports command errors itself, so only setup failures are
// printed here.
func run() int {
	closeStore, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// setup injects the services into the command tree and returns the
// function that releases the snapshot store.
func setup() (func(), error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	snapshots, closeStore, err := openSnapshotStore(settings.Storage.Backend)
	if err != nil {
		return nil, err
	}

	factory := sources.NewDefaultFactory(api.Options{
		RequestsPerSecond: settings.API.RequestsPerSecond,
		Timeout:           time.Duration(settings.API.TimeoutSeconds) * time.Second,
	})

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Dataset:  services.NewDatasetService(factory, snapshots),
		Settings: settingsService,
	})
	return closeStore, nil
}

// openSnapshotStore opens the configured backend. The sqlite database
// lives under ~/.salesboard/data.
func openSnapshotStore(backend domain.StorageBackend) (driven.SnapshotStore, func(), error) {
	if backend == domain.StorageMemory {
		logger.Debug("Using in-memory snapshot store")
		return memory.NewSnapshotStore(), func() {}, nil
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	logger.Debug("Using snapshot database %s", store.Path())

	return store.SnapshotStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing snapshot database: %v", err)
		}
	}, nil
}
