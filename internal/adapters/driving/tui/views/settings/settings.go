// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionPageSize
	SectionStorage
	SectionAPI
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// API form fields.
const (
	fieldURL = iota
	fieldToken
)

var errNoSettingsService = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	saved    bool

	section      Section
	selected     int
	focusedField int

	urlInput   textinput.Model
	tokenInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "http://localhost:3000/api/getsales"
	urlInput.CharLimit = 512

	tokenInput := textinput.New()
	tokenInput.Placeholder = "optional bearer token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		urlInput:        urlInput,
		tokenInput:      tokenInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.saved = false
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	if v.settings == nil {
		return v, nil
	}
	v.saved = false

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionPageSize:
		return v.handlePageSizeKeys(msg)
	case SectionStorage:
		return v.handleStorageKeys(msg)
	case SectionAPI:
		return v.handleAPIKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Overview menu: Page size, Storage, API
	maxItems := 3

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < maxItems-1 {
			v.selected++
		}
	case keyEnter:
		switch v.selected {
		case 0:
			v.section = SectionPageSize
			v.selected = indexOf(domain.PageSizeOptions, v.settings.Table.PageSize)
		case 1:
			v.section = SectionStorage
			v.selected = indexOf(backends(), v.settings.Storage.Backend)
		case 2:
			v.section = SectionAPI
			v.focusedField = fieldURL
			v.urlInput.SetValue(v.settings.API.URL)
			v.tokenInput.SetValue(v.settings.API.Token)
			v.tokenInput.Blur()
			return v, v.urlInput.Focus()
		}
	}
	return v, nil
}

func (v *View) handlePageSizeKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	options := domain.PageSizeOptions

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(options)-1 {
			v.selected++
		}
	case keyEnter:
		updated := *v.settings
		updated.Table.PageSize = options[v.selected]
		return v, v.save(updated)
	}
	return v, nil
}

func (v *View) handleStorageKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	options := backends()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(options)-1 {
			v.selected++
		}
	case keyEnter:
		updated := *v.settings
		updated.Storage.Backend = options[v.selected]
		return v, v.save(updated)
	}
	return v, nil
}

func (v *View) handleAPIKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, "shift+tab":
		if v.focusedField == fieldURL {
			v.focusedField = fieldToken
			v.urlInput.Blur()
			return v, v.tokenInput.Focus()
		}
		v.focusedField = fieldURL
		v.tokenInput.Blur()
		return v, v.urlInput.Focus()

	case keyEnter:
		updated := *v.settings
		updated.API.URL = strings.TrimSpace(v.urlInput.Value())
		updated.API.Token = strings.TrimSpace(v.tokenInput.Value())
		return v, v.save(updated)
	}

	var cmd tea.Cmd
	if v.focusedField == fieldURL {
		v.urlInput, cmd = v.urlInput.Update(msg)
	} else {
		v.tokenInput, cmd = v.tokenInput.Update(msg)
	}
	return v, cmd
}

func (v *View) save(settings domain.AppSettings) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.Save(&settings)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = fieldURL
	v.urlInput.Blur()
	v.tokenInput.Blur()
}

func backends() []domain.StorageBackend {
	return []domain.StorageBackend{domain.StorageSQLite, domain.StorageMemory}
}

func indexOf[T comparable](items []T, item T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionPageSize:
		labels := make([]string, len(domain.PageSizeOptions))
		for i, n := range domain.PageSizeOptions {
			labels[i] = fmt.Sprintf("%d rows", n)
		}
		current := indexOf(domain.PageSizeOptions, v.settings.Table.PageSize)
		b.WriteString(v.renderSelect("Rows per page", labels, current))
	case SectionStorage:
		options := backends()
		labels := make([]string, len(options))
		for i, o := range options {
			labels[i] = o.Description()
		}
		current := indexOf(options, v.settings.Storage.Backend)
		b.WriteString(v.renderSelect("Snapshot storage", labels, current))
	case SectionAPI:
		b.WriteString(v.renderAPIForm())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	apiValue := "Not Set"
	if v.settings.API.URL != "" {
		apiValue = v.settings.API.URL
		if v.settings.API.Token != "" {
			apiValue += " " + v.styles.Success.Render("[token]")
		}
	}

	items := []struct {
		label string
		value string
	}{
		{label: "Page size", value: strconv.Itoa(v.settings.Table.PageSize)},
		{label: "Storage", value: v.settings.Storage.Backend.Description()},
		{label: "Sales API", value: apiValue},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.saved {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render("Settings saved"))
		b.WriteString("\n")
	}
	if v.settings.Storage.Backend == domain.StorageMemory {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Snapshots are discarded on exit. Storage changes apply on restart."))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderSelect(title string, labels []string, current int) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, label := range labels {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		marker := ""
		if i == current {
			marker = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, label, marker)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderAPIForm() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Sales API"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Endpoint URL:"))
	b.WriteString("\n")
	b.WriteString(v.urlInput.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Token:"))
	b.WriteString("\n")
	b.WriteString(v.tokenInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionPageSize, SectionStorage:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionAPI:
		return v.styles.Help.Render("[tab] switch field  [enter] save  [esc] back")
	default:
		return ""
	}
}

// Settings returns the loaded settings, or nil.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
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
	v.urlInput.Width = max(width-6, 20)
	v.tokenInput.Width = max(width-6, 20)
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.saved = false
	v.urlInput.SetValue("")
	v.tokenInput.SetValue("")
}
