// Package load provides the view that ingests a file or the sales API.
package load

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// ErrNoSource is returned when neither a location nor an API url is available.
var ErrNoSource = errors.New("enter a file path or URL, or set api.url")

// View prompts for a file path or URL and ingests it.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	statusbar *status.Bar

	datasetService  driving.DatasetService
	settingsService driving.SettingsService
	ctx             context.Context

	loading bool
	last    *domain.SnapshotInfo
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new load view. The settings service is optional and
// supplies the default API source.
func NewView(
	s *styles.Styles,
	datasetService driving.DatasetService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	v := &View{
		styles:          s,
		keymap:          km,
		input:           input.NewFilterInput(s, "Path or URL", "sales.csv or http://localhost:3000/api/getsales"),
		statusbar:       status.NewBar(s, km),
		datasetService:  datasetService,
		settingsService: settingsService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
	v.statusbar.SetBindings([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		km.Back,
	})
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Reset clears the input and the last result.
func (v *View) Reset() {
	v.input.Reset()
	v.loading = false
	v.last = nil
	v.err = nil
	v.statusbar.Clear()
}

// Update handles messages for the load view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DatasetLoaded:
		v.handleLoaded(msg)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // remaining keys go to the input
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case tea.KeyEnter:
		if v.loading {
			return v, nil
		}
		source, err := v.resolveSource(v.input.Value())
		if err != nil {
			v.err = err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(err.Error())
			return v, nil
		}
		v.loading = true
		v.err = nil
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage(fmt.Sprintf("Loading %s...", source.Location))
		return v, v.ingest(source)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// resolveSource treats http(s) locations as API sources and anything
// else as a file. A blank location falls back to the configured API.
func (v *View) resolveSource(location string) (domain.Source, error) {
	location = strings.TrimSpace(location)

	var settings *domain.AppSettings
	if v.settingsService != nil {
		s, err := v.settingsService.Get()
		if err != nil {
			return domain.Source{}, fmt.Errorf("failed to get settings: %w", err)
		}
		settings = s
	}

	if location == "" {
		if settings != nil {
			if src, ok := settings.APISource(); ok {
				return src, nil
			}
		}
		return domain.Source{}, ErrNoSource
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		source := domain.Source{Type: domain.SourceTypeAPI, Location: location}
		if settings != nil && settings.API.Token != "" {
			source.Config = map[string]string{"token": settings.API.Token}
		}
		return source, nil
	}

	return domain.Source{Type: domain.SourceTypeFile, Location: location}, nil
}

func (v *View) ingest(source domain.Source) tea.Cmd {
	ctx := v.ctx
	svc := v.datasetService
	return func() tea.Msg {
		if svc == nil {
			return messages.DatasetLoaded{Err: errors.New("dataset service not available")}
		}
		info, err := svc.Ingest(ctx, source)
		return messages.DatasetLoaded{Info: info, Err: err}
	}
}

func (v *View) handleLoaded(msg messages.DatasetLoaded) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.err = nil
	v.last = msg.Info
	v.input.Reset()
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Loaded %d rows", msg.Info.RowCount))
}

// View renders the load prompt.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Load data"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("CSV, TSV or JSON files up to 10 MB, or a sales API endpoint."))
	b.WriteString("\n")
	if hint := v.apiHint(); hint != "" {
		b.WriteString(v.styles.Muted.Render(hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	if v.last != nil {
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Loaded %d rows from %s", v.last.RowCount, v.last.Source.Location)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("snapshot " + v.last.ID))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) apiHint() string {
	if v.settingsService == nil {
		return ""
	}
	settings, err := v.settingsService.Get()
	if err != nil || settings.API.URL == "" {
		return ""
	}
	return fmt.Sprintf("Leave blank to fetch %s", settings.API.URL)
}

// Loading reports whether an ingestion is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Last returns the most recent successful ingestion, or nil.
func (v *View) Last() *domain.SnapshotInfo {
	return v.last
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}
