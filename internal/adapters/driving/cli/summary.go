package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

const (
	defaultChartWidth = 80
	barGlyph          = "█"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show chart summaries of the current dataset",
	Long: `Prints the four dashboard charts for the current snapshot:

  Products per category     top 15 categories by record count
  Average rating            top 12 categories by mean rating
  Discount distribution     records per 10-point discount bucket
  Most reviewed             top 10 products by review count`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output aggregates as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	summary, err := datasetService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	if summaryJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	renderSummary(cmd.OutOrStdout(), summary, terminalWidth(cmd.OutOrStdout()))
	return nil
}

// bar is one labelled chart bar.
type bar struct {
	label string
	value float64
	text  string
}

func renderSummary(w io.Writer, summary *domain.Summary, width int) {
	fmt.Fprintf(w, "%d records\n\n", summary.RecordCount)

	counts := make([]bar, len(summary.CategoryCounts))
	for i, c := range summary.CategoryCounts {
		counts[i] = bar{label: c.Name, value: float64(c.Count), text: strconv.Itoa(c.Count)}
	}
	renderBars(w, "Products per category", counts, width)

	ratings := make([]bar, len(summary.CategoryRatings))
	for i, r := range summary.CategoryRatings {
		ratings[i] = bar{label: r.Name, value: r.AvgRating, text: strconv.FormatFloat(r.AvgRating, 'f', 2, 64)}
	}
	renderBars(w, "Average rating by category", ratings, width)

	buckets := make([]bar, len(summary.DiscountHistogram))
	for i, b := range summary.DiscountHistogram {
		buckets[i] = bar{label: b.Range + "%", value: float64(b.Count), text: strconv.Itoa(b.Count)}
	}
	renderBars(w, "Discount distribution", buckets, width)

	top := make([]bar, len(summary.TopReviewed))
	for i, p := range summary.TopReviewed {
		top[i] = bar{label: p.Name, value: float64(p.Reviews), text: strconv.Itoa(p.Reviews)}
	}
	renderBars(w, "Most reviewed products", top, width)
}

// renderBars draws a horizontal bar chart scaled to the largest value.
func renderBars(w io.Writer, title string, bars []bar, width int) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", lipgloss.Width(title)))

	if len(bars) == 0 {
		fmt.Fprintln(w, "  (no data)")
		fmt.Fprintln(w)
		return
	}

	labelWidth, textWidth := 0, 0
	maxValue := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.label))
		textWidth = max(textWidth, len(b.text))
		maxValue = math.Max(maxValue, b.value)
	}

	// "  label  bar text"
	barWidth := max(width-labelWidth-textWidth-6, 1)

	for _, b := range bars {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(b.value / maxValue * float64(barWidth)))
		}
		if n == 0 && b.value > 0 {
			n = 1
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(b.label))
		fmt.Fprintf(w, "  %s%s  %s %s\n", b.label, pad, strings.Repeat(barGlyph, n), b.text)
	}
	fmt.Fprintln(w)
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultChartWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultChartWidth
	}
	return width
}
