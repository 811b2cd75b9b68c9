// Package tui provides an interactive terminal dashboard for salesboard.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Dataset ingests sources and serves charts and table pages.
	Dataset driving.DatasetService

	// Settings manages application settings. Optional; the settings
	// view is read-only without it.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(dataset driving.DatasetService, settings driving.SettingsService) *Ports {
	return &Ports{
		Dataset:  dataset,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}
