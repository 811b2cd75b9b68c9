// Package chart renders horizontal bar charts for the dashboard.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
)

const (
	barGlyph = "█"
	noData   = "(no data)"
)

// Bar is one labelled value. Text is the value as displayed.
type Bar struct {
	Label string
	Value float64
	Text  string
}

// BarChart is a titled list of bars scaled to the largest value.
type BarChart struct {
	Title string
	Bars  []Bar
}

// Render draws the chart within width columns using barStyle for the bars.
// Non-zero values always get at least one glyph.
func (c BarChart) Render(s *styles.Styles, barStyle lipgloss.Style, width int) string {
	if s == nil {
		s = styles.DefaultStyles()
	}

	var b strings.Builder
	b.WriteString(s.Subtitle.Render(c.Title))
	b.WriteString("\n")

	if len(c.Bars) == 0 {
		b.WriteString(s.Muted.Render(noData))
		return b.String()
	}

	labelWidth, textWidth := 0, 0
	maxValue := 0.0
	for _, bar := range c.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
		textWidth = max(textWidth, lipgloss.Width(bar.Text))
		maxValue = math.Max(maxValue, bar.Value)
	}
	barWidth := max(width-labelWidth-textWidth-3, 1)

	for i, bar := range c.Bars {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(bar.Value / maxValue * float64(barWidth)))
		}
		if n == 0 && bar.Value > 0 {
			n = 1
		}

		label := bar.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label))
		b.WriteString(s.Normal.Render(label))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat(barGlyph, n)))
		b.WriteString(" ")
		b.WriteString(s.Muted.Render(bar.Text))
		if i < len(c.Bars)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
