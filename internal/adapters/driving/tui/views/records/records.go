// Package records provides the filterable, paginated sales table view.
package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// chrome is the number of lines used around the table body.
const chrome = 10

// headerLines is the height of the column header and its rule.
const headerLines = 2

// Fixed column widths; the product column takes what is left.
const (
	categoryWidth  = 18
	numberWidth    = 9
	minProductWide = 16
)

// View is the sales table with search, category and review filters.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	table     table.Model
	search    *input.FilterInput
	statusbar *status.Bar

	datasetService driving.DatasetService
	ctx            context.Context

	query      domain.TableQuery
	page       *domain.TablePage
	categories []string
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new table view showing pageSize rows per page.
// A non-positive page size uses domain.DefaultPageSize.
func NewView(s *styles.Styles, datasetService driving.DatasetService, pageSize int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	km := keymap.DefaultKeyMap()

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	ts := table.DefaultStyles()
	ts.Header = s.TableHeader
	ts.Selected = s.Selected
	t.SetStyles(ts)
	t.SetHeight(pageSize + headerLines)

	v := &View{
		styles:         s,
		keymap:         km,
		table:          t,
		search:         input.NewFilterInput(s, "Search", "product name"),
		statusbar:      status.NewBar(s, km),
		datasetService: datasetService,
		ctx:            context.Background(),
		query:          domain.TableQuery{PageSize: pageSize},
		width:          80,
		height:         24,
	}
	v.statusbar.SetBindings(km.TableHelp())
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current page.
func (v *View) Init() tea.Cmd {
	return v.reload()
}

// Reset clears every filter and returns to the first page.
func (v *View) Reset() {
	v.query = domain.TableQuery{PageSize: v.query.PageSize}
	v.search.Reset()
	v.search.Blur()
	v.table.Focus()
	v.err = nil
}

// SetPageSize changes the rows per page and returns to the first page.
func (v *View) SetPageSize(pageSize int) {
	if pageSize <= 0 {
		return
	}
	v.query.PageSize = pageSize
	v.query.Page = 0
	v.table.SetHeight(v.tableHeight())
}

func (v *View) reload() tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("")

	ctx := v.ctx
	svc := v.datasetService
	query := v.query
	return func() tea.Msg {
		if svc == nil {
			return messages.TableLoaded{Query: query, Err: errors.New("dataset service not available")}
		}
		page, err := svc.Table(ctx, query)
		return messages.TableLoaded{Query: query, Page: page, Err: err}
	}
}

// Update handles messages for the table view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.TableLoaded:
		v.handleLoaded(msg)
		return v, nil

	case tea.KeyMsg:
		if v.search.Focused() {
			return v.handleSearchKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleLoaded(msg messages.TableLoaded) {
	// Drop responses for a query that has since changed.
	if msg.Query != v.query {
		return
	}

	if msg.Err != nil {
		v.err = msg.Err
		v.page = nil
		v.table.SetRows(nil)
		v.statusbar.SetState(status.StateError)
		if errors.Is(msg.Err, domain.ErrNoDataset) {
			v.statusbar.SetMessage("no data loaded yet")
		} else {
			v.statusbar.SetMessage(msg.Err.Error())
		}
		return
	}

	v.err = nil
	v.page = msg.Page
	v.categories = msg.Page.Categories
	v.table.SetRows(Rows(msg.Page.Rows))
	v.table.SetCursor(0)
	v.statusbar.SetState(status.StateRecords)
	v.statusbar.SetRecordCount(msg.Page.TotalCount)
}

func (v *View) handleSearchKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are special while typing
	switch msg.Type {
	case tea.KeyEnter:
		v.search.Blur()
		v.table.Focus()
		v.query.Search = v.search.Value()
		v.query.Page = 0
		return v, v.reload()

	case tea.KeyEsc:
		v.search.SetValue(v.query.Search)
		v.search.Blur()
		v.table.Focus()
		return v, nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(keyStr, v.keymap.Search):
		v.table.Blur()
		return v, v.search.Focus()

	case keymap.Matches(keyStr, v.keymap.Category):
		v.query.Category = nextCategory(v.categories, v.query.Category)
		v.query.Page = 0
		return v, v.reload()

	case keymap.Matches(keyStr, v.keymap.Reviews):
		v.query.Reviews = nextReviewFilter(v.query.Reviews)
		v.query.Page = 0
		return v, v.reload()

	case keymap.Matches(keyStr, v.keymap.NextPage):
		if v.page == nil || v.query.Page+1 >= v.page.PageCount() {
			return v, nil
		}
		v.query.Page++
		return v, v.reload()

	case keymap.Matches(keyStr, v.keymap.PrevPage):
		if v.query.Page == 0 {
			return v, nil
		}
		v.query.Page--
		return v, v.reload()

	case keymap.Matches(keyStr, v.keymap.Refresh):
		return v, v.reload()
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// nextCategory cycles "all" through each category and back to "all".
func nextCategory(categories []string, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	for i, c := range categories {
		if c == current && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

func nextReviewFilter(current domain.ReviewFilter) domain.ReviewFilter {
	filters := domain.ReviewFilters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return domain.ReviewFilterAll
}

// View renders the table.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Sales records"))
	b.WriteString("\n\n")
	b.WriteString(v.search.View())
	b.WriteString("\n")
	b.WriteString(v.renderFilters())
	b.WriteString("\n\n")

	switch {
	case v.err != nil && errors.Is(v.err, domain.ErrNoDataset):
		b.WriteString(v.styles.Muted.Render("Load a file or the sales API from the menu first."))
	case v.page != nil && len(v.page.Rows) == 0:
		b.WriteString(v.styles.Muted.Render("No rows to display."))
	default:
		b.WriteString(v.table.View())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.pageLine()))
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderFilters() string {
	category := v.query.Category
	if category == "" {
		category = "All"
	}
	return fmt.Sprintf("%s %s   %s %s",
		v.styles.Muted.Render("Category:"), v.styles.Normal.Render(category),
		v.styles.Muted.Render("Reviews:"), v.styles.Normal.Render(v.query.Reviews.Description()))
}

func (v *View) pageLine() string {
	if v.page == nil || v.page.TotalCount == 0 {
		return ""
	}
	first := v.page.Page*v.page.PageSize + 1
	last := first + len(v.page.Rows) - 1
	if len(v.page.Rows) == 0 {
		return fmt.Sprintf("page %d of %d", v.page.Page+1, v.page.PageCount())
	}
	return fmt.Sprintf("%d-%d of %d (page %d of %d)",
		first, last, v.page.TotalCount, v.page.Page+1, v.page.PageCount())
}

// Rows converts records into table rows.
func Rows(records []domain.Record) []table.Row {
	rows := make([]table.Row, len(records))
	for i := range records {
		r := &records[i]
		rows[i] = table.Row{
			r.ProductName,
			r.Category,
			formatFloat(r.Rating),
			formatInt(r.ReviewCount),
			formatFloat(r.Discount),
		}
	}
	return rows
}

func columns(width int) []table.Column {
	// Each column is padded by one cell on both sides.
	product := max(width-categoryWidth-3*numberWidth-10, minProductWide)
	return []table.Column{
		{Title: "Product", Width: product},
		{Title: "Category", Width: categoryWidth},
		{Title: "Rating", Width: numberWidth},
		{Title: "Reviews", Width: numberWidth},
		{Title: "Discount", Width: numberWidth},
	}
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

// Query returns the current filter state.
func (v *View) Query() domain.TableQuery {
	return v.query
}

// Page returns the loaded page, or nil.
func (v *View) Page() *domain.TablePage {
	return v.page
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Searching reports whether the search input has focus.
func (v *View) Searching() bool {
	return v.search.Focused()
}

func (v *View) tableHeight() int {
	return min(v.query.PageSize, max(v.height-chrome, 1)) + headerLines
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.table.SetColumns(columns(width))
	v.table.SetWidth(width)
	v.table.SetHeight(v.tableHeight())
	v.search.SetWidth(width)
	v.statusbar.SetWidth(width)
}
