package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Text))
	assert.NotEmpty(t, string(theme.Error))
	for i, c := range theme.Charts {
		assert.NotEmpty(t, string(c), "chart colour %d", i)
	}
}

func TestDefaultTheme_ChartColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range theme.Charts {
		assert.False(t, seen[c], "duplicate chart colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	t.Run("with theme", func(t *testing.T) {
		theme := DefaultTheme()
		styles := NewStyles(theme)

		require.NotNil(t, styles)
		assert.Equal(t, theme, styles.Theme())
	})

	t.Run("nil theme falls back to default", func(t *testing.T) {
		styles := NewStyles(nil)

		require.NotNil(t, styles)
		assert.Equal(t, DefaultTheme().Primary, styles.Theme().Primary)
	})
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	assert.NotEqual(t, lipgloss.Style{}, styles.Title)
	assert.NotEqual(t, lipgloss.Style{}, styles.Muted)
	assert.NotEqual(t, lipgloss.Style{}, styles.Selected)
	assert.NotEqual(t, lipgloss.Style{}, styles.InputField)
	assert.NotEqual(t, lipgloss.Style{}, styles.StatusBar)
	assert.NotEqual(t, lipgloss.Style{}, styles.TableHeader)
	assert.NotEqual(t, lipgloss.Style{}, styles.ChartPanel)
}

func TestStyles_ChartBar(t *testing.T) {
	styles := DefaultStyles()
	theme := styles.Theme()

	t.Run("uses the chart colour", func(t *testing.T) {
		assert.Equal(t, lipgloss.TerminalColor(theme.Charts[1]), styles.ChartBar(1).GetForeground())
	})

	t.Run("wraps past the last colour", func(t *testing.T) {
		assert.Equal(t, styles.ChartBar(0).GetForeground(), styles.ChartBar(len(theme.Charts)).GetForeground())
	})
}

func TestStyles_CanRenderText(t *testing.T) {
	styles := DefaultStyles()

	testCases := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Title", styles.Title},
		{"Subtitle", styles.Subtitle},
		{"Normal", styles.Normal},
		{"Error", styles.Error},
		{"TableHeader", styles.TableHeader},
		{"ChartPanel", styles.ChartPanel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, tc.style.Render("test text"), "test text")
		})
	}
}
