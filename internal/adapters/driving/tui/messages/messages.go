// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDashboard shows the four summary charts.
	ViewDashboard
	// ViewTable is the filterable sales table.
	ViewTable
	// ViewLoad ingests a file or API source.
	ViewLoad
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDashboard:
		return "dashboard"
	case ViewTable:
		return "table"
	case ViewLoad:
		return "load"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DatasetLoaded signals an ingestion finished.
type DatasetLoaded struct {
	Info *domain.SnapshotInfo
	Err  error
}

// SummaryLoaded carries the chart aggregates.
type SummaryLoaded struct {
	Summary *domain.Summary
	Err     error
}

// TableLoaded carries one page of the sales table.
type TableLoaded struct {
	Query domain.TableQuery
	Page  *domain.TablePage
	Err   error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
