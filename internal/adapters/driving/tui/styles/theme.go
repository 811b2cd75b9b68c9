// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Rule      lipgloss.Color
	StatusBg  lipgloss.Color

	// Charts holds one bar colour per dashboard chart, in display order.
	Charts [4]lipgloss.Color
}

// DefaultTheme returns the dark palette used by salesboard.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Text:      lipgloss.Color("#CDD6F4"),
		Muted:     lipgloss.Color("#6C7086"),
		Success:   lipgloss.Color("#A6E3A1"),
		Warning:   lipgloss.Color("#F9E2AF"),
		Error:     lipgloss.Color("#F38BA8"),
		Rule:      lipgloss.Color("#45475A"),
		StatusBg:  lipgloss.Color("#181825"),
		Charts: [4]lipgloss.Color{
			lipgloss.Color("#89B4FA"), // products per category
			lipgloss.Color("#A6E3A1"), // average rating
			lipgloss.Color("#FAB387"), // discount distribution
			lipgloss.Color("#CBA6F7"), // most reviewed
		},
	}
}

// Styles holds the styles shared by views and components.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the search and load inputs.
	InputField lipgloss.Style

	StatusBar lipgloss.Style

	// TableHeader styles the sales table column headings.
	TableHeader lipgloss.Style

	// ChartPanel frames each dashboard chart.
	ChartPanel lipgloss.Style
}

// NewStyles builds styles from theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	framed := func() lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Rule).
			Padding(0, 1)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Text).Background(theme.Primary).Bold(true),
		Error:    fg(theme.Error),
		Success:  fg(theme.Success),
		Warning:  fg(theme.Warning),
		Help:     fg(theme.Muted),

		InputField: framed(),
		ChartPanel: framed(),

		StatusBar: fg(theme.Muted).Background(theme.StatusBg).Padding(0, 1),

		TableHeader: fg(theme.Secondary).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Rule).
			BorderBottom(true),
	}
}

// DefaultStyles returns styles built from DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind s.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ChartBar returns the bar style for the chart at index i.
func (s *Styles) ChartBar(i int) lipgloss.Style {
	colours := s.theme.Charts
	return lipgloss.NewStyle().Foreground(colours[i%len(colours)])
}
