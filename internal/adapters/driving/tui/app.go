package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/views/load"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	dashboardView *dashboard.View
	recordsView   *records.View
	loadView      *load.View
	settingsView  *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// lastLoad is the most recent successful ingestion.
	lastLoad *domain.SnapshotInfo

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	pageSize := domain.DefaultPageSize
	if ports.Settings != nil {
		if s, err := ports.Settings.Get(); err == nil {
			pageSize = s.Table.PageSize
		} else {
			logger.Warn("using default page size: %v", err)
		}
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        keymap.DefaultKeyMap(),
		menuView:      menu.NewView(s),
		dashboardView: dashboard.NewView(s, ports.Dataset),
		recordsView:   records.NewView(s, ports.Dataset, pageSize),
		loadView:      load.NewView(s, ports.Dataset, ports.Settings),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.dashboardView.WithContext(ctx)
	a.recordsView.WithContext(ctx)
	a.loadView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("salesboard"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDashboard:
			return a, a.dashboardView.Init()
		case messages.ViewTable:
			return a, a.recordsView.Init()
		case messages.ViewLoad:
			return a, a.loadView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.DatasetLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.err = nil
			a.lastLoad = msg.Info
			// Filters from the previous dataset may not apply.
			a.recordsView.Reset()
		}
		a.loadView, cmd = a.loadView.Update(msg)
		return a, cmd

	case messages.SummaryLoaded:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		return a, cmd

	case messages.TableLoaded:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil && msg.Settings.Table.PageSize != a.recordsView.Query().PageSize {
			a.recordsView.SetPageSize(msg.Settings.Table.PageSize)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case messages.ViewTable:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewLoad:
		a.loadView, cmd = a.loadView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDashboard:
		return a.dashboardView.View()
	case messages.ViewTable:
		return a.recordsView.View()
	case messages.ViewLoad:
		return a.loadView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the keybindings of every view.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Table: type after / to search, enter applies, esc cancels."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// LastLoad returns the most recent successful ingestion, or nil.
func (a *App) LastLoad() *domain.SnapshotInfo {
	return a.lastLoad
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.dashboardView.SetDimensions(width, height)
	a.recordsView.SetDimensions(width, height)
	a.loadView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
