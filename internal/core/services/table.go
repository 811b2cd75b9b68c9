package services

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// ViewTable filters, counts and paginates records for the sales table.
//
// Filters are combined with AND: the product name must contain the
// search text case-insensitively, the category must match exactly, and
// the review filter must accept the record. A negative page is treated
// as the first page and a non-positive page size as DefaultPageSize.
// Pages past the end are empty. Input order is preserved.
func ViewTable(records []domain.Record, query domain.TableQuery) domain.TablePage {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	page := max(query.Page, 0)

	filtered := FilterRecords(records, query)

	rows := []domain.Record{}
	if page < domain.PageCount(len(filtered), pageSize) {
		// page*pageSize < len(filtered) here, so neither bound overflows.
		start := page * pageSize
		end := start + min(pageSize, len(filtered)-start)
		rows = slices.Clone(filtered[start:end])
	}

	return domain.TablePage{
		Rows:       rows,
		TotalCount: len(filtered),
		Categories: Categories(records),
		Page:       page,
		PageSize:   pageSize,
	}
}

// FilterRecords returns the records accepted by the query filters,
// ignoring pagination.
func FilterRecords(records []domain.Record, query domain.TableQuery) []domain.Record {
	// Casers are stateful, so each call folds with its own.
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query.Search))

	filtered := make([]domain.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		if needle != "" && !strings.Contains(fold.String(r.ProductName), needle) {
			continue
		}
		if query.Category != "" && r.Category != query.Category {
			continue
		}
		if !acceptsReviews(query.Reviews, r) {
			continue
		}
		filtered = append(filtered, *r)
	}
	return filtered
}

// acceptsReviews applies the review filter. Unrecognised filters keep
// every record.
func acceptsReviews(filter domain.ReviewFilter, r *domain.Record) bool {
	switch filter {
	case domain.ReviewFilterHasReviews:
		return r.HasReviews()
	case domain.ReviewFilterNoReviews:
		return !r.HasReviews()
	default:
		return true
	}
}

// Categories returns the distinct non-empty categories in ascending
// order. The placeholder category is included like any other value.
func Categories(records []domain.Record) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i := range records {
		c := records[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
