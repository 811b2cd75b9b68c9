package domain

// ReviewFilter restricts table rows by review presence.
type ReviewFilter string

// Available review filters.
const (
	// ReviewFilterAll applies no review filtering.
	ReviewFilterAll ReviewFilter = ""

	// ReviewFilterHasReviews keeps records with a positive review count.
	ReviewFilterHasReviews ReviewFilter = "has_reviews"

	// ReviewFilterNoReviews keeps records with a nil or zero review count.
	ReviewFilterNoReviews ReviewFilter = "no_reviews"
)

// IsValid returns true if the filter is recognised.
func (f ReviewFilter) IsValid() bool {
	switch f {
	case ReviewFilterAll, ReviewFilterHasReviews, ReviewFilterNoReviews:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f ReviewFilter) String() string {
	return string(f)
}

// Description returns a human-readable label for the filter.
func (f ReviewFilter) Description() string {
	switch f {
	case ReviewFilterHasReviews:
		return "Has reviews"
	case ReviewFilterNoReviews:
		return "No reviews"
	default:
		return "All"
	}
}

// ReviewFilters lists the filters in display order.
func ReviewFilters() []ReviewFilter {
	return []ReviewFilter{ReviewFilterAll, ReviewFilterHasReviews, ReviewFilterNoReviews}
}

// DefaultPageSize is the page size used when none is given.
const DefaultPageSize = 10

// MaxPageSize is the largest page size the CLI and MCP adapters accept.
const MaxPageSize = 1000

// PageSizeOptions are the page sizes offered to users.
var PageSizeOptions = []int{5, 10, 25, 50}

// TableQuery is the filter state of the sales table.
type TableQuery struct {
	// Search is matched case-insensitively against product names.
	// Blank text matches everything.
	Search string `json:"search"`

	// Category must equal the record category exactly. Empty means all.
	Category string `json:"category"`

	// Reviews restricts rows by review presence.
	Reviews ReviewFilter `json:"reviews"`

	// Page is zero-based.
	Page int `json:"page"`

	// PageSize is the number of rows per page.
	PageSize int `json:"pageSize"`
}

// TablePage is one page of the filtered table.
type TablePage struct {
	// Rows is the requested slice of the filtered records.
	Rows []Record `json:"rows"`

	// TotalCount is the number of records matching the filters.
	TotalCount int `json:"totalCount"`

	// Categories is the sorted set of distinct categories in the whole dataset.
	Categories []string `json:"categories"`

	// Page and PageSize echo the effective pagination.
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// PageCount returns the number of pages needed for TotalCount rows.
func (p *TablePage) PageCount() int {
	return PageCount(p.TotalCount, p.PageSize)
}

// PageCount returns ceil(total / pageSize), or 0 when either is not
// positive. It does not overflow for page sizes near math.MaxInt.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
