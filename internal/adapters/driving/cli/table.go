package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

var (
	tableSearch   string
	tableCategory string
	tableReviews  string
	tablePage     int
	tablePageSize int
	tableJSON     bool
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show a filtered page of sales records",
	Long: `Prints one page of the current dataset.

Filters combine: the product name must contain --search (case-insensitive),
the category must equal --category exactly, and --reviews keeps records
that have reviews ("has") or have none ("none").

Pages are numbered from 1. The page size defaults to the table.page_size
setting.`,
	RunE: runTable,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct categories of the current dataset",
	RunE:  runCategories,
}

func init() {
	tableCmd.Flags().StringVarP(&tableSearch, "search", "s", "", "text to find in product names")
	tableCmd.Flags().StringVarP(&tableCategory, "category", "c", "", "exact category to keep")
	tableCmd.Flags().StringVarP(&tableReviews, "reviews", "r", "all", "review filter: all, has or none")
	tableCmd.Flags().IntVarP(&tablePage, "page", "p", 1, "page number, starting at 1")
	tableCmd.Flags().IntVarP(&tablePageSize, "page-size", "n", 0, "rows per page (default from settings)")
	tableCmd.Flags().BoolVar(&tableJSON, "json", false, "output the page as JSON")
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(categoriesCmd)
}

// parseReviewFilter maps the --reviews flag onto a review filter.
func parseReviewFilter(s string) (domain.ReviewFilter, error) {
	switch s {
	case "", "all":
		return domain.ReviewFilterAll, nil
	case "has", string(domain.ReviewFilterHasReviews):
		return domain.ReviewFilterHasReviews, nil
	case "none", string(domain.ReviewFilterNoReviews):
		return domain.ReviewFilterNoReviews, nil
	default:
		return "", fmt.Errorf("invalid --reviews %q: use all, has or none", s)
	}
}

func runTable(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	reviews, err := parseReviewFilter(tableReviews)
	if err != nil {
		return err
	}
	if tablePage < 1 {
		return fmt.Errorf("invalid --page %d: pages start at 1", tablePage)
	}
	if tablePageSize > domain.MaxPageSize {
		return fmt.Errorf("invalid --page-size %d: at most %d rows per page", tablePageSize, domain.MaxPageSize)
	}

	pageSize := tablePageSize
	if pageSize <= 0 && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			pageSize = settings.Table.PageSize
		}
	}

	page, err := datasetService.Table(cmd.Context(), domain.TableQuery{
		Search:   tableSearch,
		Category: tableCategory,
		Reviews:  reviews,
		Page:     tablePage - 1,
		PageSize: pageSize,
	})
	if err != nil {
		return fmt.Errorf("table failed: %w", err)
	}

	if tableJSON {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal page: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputTable(cmd, page)
	return nil
}

func outputTable(cmd *cobra.Command, page *domain.TablePage) {
	if len(page.Rows) == 0 {
		cmd.Println("No rows to display.")
		if page.TotalCount > 0 {
			cmd.Printf("Page %d is past the last page (%d).\n", page.Page+1, page.PageCount())
		}
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Product", "Category", "Rating", "Reviews", "Discount").
		StyleFunc(func(_, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	for i := range page.Rows {
		r := &page.Rows[i]
		t.Row(r.ProductName, r.Category, formatFloat(r.Rating), formatInt(r.ReviewCount), formatFloat(r.Discount))
	}

	cmd.Println(t.Render())

	first := page.Page*page.PageSize + 1
	last := first + len(page.Rows) - 1
	cmd.Printf("%d-%d of %d (page %d of %d)\n", first, last, page.TotalCount, page.Page+1, page.PageCount())
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}

	page, err := datasetService.Table(cmd.Context(), domain.TableQuery{PageSize: 1})
	if err != nil {
		return fmt.Errorf("categories failed: %w", err)
	}

	if len(page.Categories) == 0 {
		cmd.Println("No categories.")
		return nil
	}
	for _, c := range page.Categories {
		cmd.Println(c)
	}
	return nil
}

func formatFloat(f *float64) string {
	if f == nil {
		return domain.Placeholder
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return domain.Placeholder
	}
	return strconv.Itoa(*n)
}
