package domain

// Placeholder is shown for text fields that could not be resolved
// from any known alias.
const Placeholder = "—"

// UnknownCategory is the group label aggregators use for records whose
// category is empty or the placeholder.
const UnknownCategory = "Unknown"

// Record is the canonical sales record.
// It is the single shape consumed by aggregation and the table view.
// A Record is built once per RawRow and never mutated afterwards.
type Record struct {
	// ID is unique within a dataset and never empty.
	ID string `json:"id"`

	// ProductName is the product title, or Placeholder.
	ProductName string `json:"productName"`

	// Category is the product category, or Placeholder.
	Category string `json:"category"`

	// Rating is expected in [0,5]; nil when absent or unparsable.
	Rating *float64 `json:"rating"`

	// ReviewCount is a non-negative count; nil when absent or unparsable.
	ReviewCount *int `json:"reviewCount"`

	// Discount is a percentage expected in [0,100]; nil when absent or unparsable.
	Discount *float64 `json:"discount"`

	// Raw is the source row, kept for traceability only.
	Raw RawRow `json:"raw"`
}

// HasReviews reports whether the record has a positive review count.
func (r *Record) HasReviews() bool {
	return r.ReviewCount != nil && *r.ReviewCount > 0
}

// GroupCategory returns the category used for grouping.
// Empty and placeholder categories collapse into UnknownCategory.
func (r *Record) GroupCategory() string {
	if r.Category == "" || r.Category == Placeholder {
		return UnknownCategory
	}
	return r.Category
}
