// Package domain defines the core business entities for Salesboard.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRow: One untyped input row as supplied by a source
//   - Record: The canonical sales record every view consumes
//   - CategoryCount, CategoryRating, DiscountBucket, TopReviewedProduct: aggregate rows
//   - TableQuery, TablePage: filtered and paginated table view
//   - Source, Snapshot: where raw rows come from and when they were taken
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
