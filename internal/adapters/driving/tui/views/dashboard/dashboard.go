// Package dashboard provides the chart overview of the current dataset.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/chart"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// Charts sit side by side from this terminal width upwards.
const twoColumnWidth = 100

// chrome is the number of lines used by the header and status bar.
const chrome = 4

// View shows the four summary charts in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	statusbar *status.Bar

	datasetService driving.DatasetService
	ctx            context.Context

	summary *domain.Summary
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new dashboard view.
func NewView(s *styles.Styles, datasetService driving.DatasetService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	v := &View{
		styles:         s,
		keymap:         km,
		viewport:       viewport.New(80, 24-chrome),
		statusbar:      status.NewBar(s, km),
		datasetService: datasetService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
	v.statusbar.SetBindings([]key.Binding{km.Up, km.Down, km.Refresh, km.Back})
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the summary.
func (v *View) Init() tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Computing charts...")
	return v.loadSummary()
}

func (v *View) loadSummary() tea.Cmd {
	ctx := v.ctx
	svc := v.datasetService
	return func() tea.Msg {
		if svc == nil {
			return messages.SummaryLoaded{Err: errors.New("dataset service not available")}
		}
		summary, err := svc.Summary(ctx)
		return messages.SummaryLoaded{Summary: summary, Err: err}
	}
}

// Update handles messages for the dashboard view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SummaryLoaded:
		v.handleSummary(msg)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(keyStr, v.keymap.Refresh):
			return v, v.Init()
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) handleSummary(msg messages.SummaryLoaded) {
	if msg.Err != nil {
		v.err = msg.Err
		v.summary = nil
		v.statusbar.SetState(status.StateError)
		if errors.Is(msg.Err, domain.ErrNoDataset) {
			v.statusbar.SetMessage("no data loaded yet")
		} else {
			v.statusbar.SetMessage(msg.Err.Error())
		}
		v.viewport.SetContent(v.styles.Muted.Render("Load a file or the sales API from the menu to see charts."))
		return
	}

	v.err = nil
	v.summary = msg.Summary
	v.statusbar.SetState(status.StateRecords)
	v.statusbar.SetMessage("")
	v.statusbar.SetRecordCount(msg.Summary.RecordCount)
	v.refreshContent()
}

// refreshContent re-lays out the charts for the current width.
func (v *View) refreshContent() {
	if v.summary == nil {
		return
	}
	v.viewport.SetContent(v.renderCharts())
	v.viewport.GotoTop()
}

func (v *View) renderCharts() string {
	charts := Charts(v.summary)

	columns := 1
	if v.width >= twoColumnWidth {
		columns = 2
	}
	// Panel border and padding take four columns.
	panelWidth := v.width/columns - 4

	panels := make([]string, len(charts))
	for i, c := range charts {
		body := c.Render(v.styles, v.styles.ChartBar(i), panelWidth-2)
		panels[i] = v.styles.ChartPanel.Width(panelWidth).Render(body)
	}

	if columns == 1 {
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	rows := make([]string, 0, (len(panels)+1)/2)
	for i := 0; i < len(panels); i += 2 {
		if i+1 < len(panels) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i], panels[i+1]))
		} else {
			rows = append(rows, panels[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Charts converts a summary into the four dashboard charts.
func Charts(summary *domain.Summary) []chart.BarChart {
	counts := make([]chart.Bar, len(summary.CategoryCounts))
	for i, c := range summary.CategoryCounts {
		counts[i] = chart.Bar{Label: c.Name, Value: float64(c.Count), Text: strconv.Itoa(c.Count)}
	}

	ratings := make([]chart.Bar, len(summary.CategoryRatings))
	for i, r := range summary.CategoryRatings {
		ratings[i] = chart.Bar{Label: r.Name, Value: r.AvgRating, Text: strconv.FormatFloat(r.AvgRating, 'f', 2, 64)}
	}

	buckets := make([]chart.Bar, len(summary.DiscountHistogram))
	for i, b := range summary.DiscountHistogram {
		buckets[i] = chart.Bar{Label: b.Range + "%", Value: float64(b.Count), Text: strconv.Itoa(b.Count)}
	}

	top := make([]chart.Bar, len(summary.TopReviewed))
	for i, p := range summary.TopReviewed {
		top[i] = chart.Bar{Label: p.Name, Value: float64(p.Reviews), Text: strconv.Itoa(p.Reviews)}
	}

	return []chart.BarChart{
		{Title: "Products per category", Bars: counts},
		{Title: "Average rating by category", Bars: ratings},
		{Title: "Discount distribution", Bars: buckets},
		{Title: "Most reviewed products", Bars: top},
	}
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Dashboard"))
	if v.summary != nil && v.summary.SnapshotID != "" {
		b.WriteString("  " + v.styles.Muted.Render(fmt.Sprintf("snapshot %s", v.summary.SnapshotID)))
	}
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// Summary returns the loaded summary, or nil.
func (v *View) Summary() *domain.Summary {
	return v.summary
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	v.statusbar.SetWidth(width)
	v.refreshContent()
}
