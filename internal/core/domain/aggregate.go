package domain

// CategoryCount is one bar of the products-per-category chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryRating is one bar of the average-rating-per-category chart.
// AvgRating is rounded to two decimal places.
type CategoryRating struct {
	Name      string  `json:"name"`
	AvgRating float64 `json:"avgRating"`
}

// DiscountBucket is one bar of the discount histogram.
// Min is the numeric sort key; Range is its "min-max" label.
type DiscountBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
	Min   int    `json:"min"`
}

// TopReviewedProduct is one bar of the top-reviewed ranking.
// Name is truncated for display; the underlying Record is not.
type TopReviewedProduct struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Reviews int    `json:"reviews"`
}

// Summary bundles every aggregate computed over one dataset.
type Summary struct {
	SnapshotID        string               `json:"snapshotId,omitempty"`
	RecordCount       int                  `json:"recordCount"`
	CategoryCounts    []CategoryCount      `json:"categoryCounts"`
	CategoryRatings   []CategoryRating     `json:"categoryRatings"`
	DiscountHistogram []DiscountBucket     `json:"discountHistogram"`
	TopReviewed       []TopReviewedProduct `json:"topReviewed"`
}
