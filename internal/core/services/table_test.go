package services

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

func tableRecords() []domain.Record {
	return []domain.Record{
		{ID: "1", ProductName: "Wireless Mouse", Category: "Electronics", ReviewCount: intPtr(5)},
		{ID: "2", ProductName: "Desk Lamp", Category: "Home", ReviewCount: intPtr(0)},
		{ID: "3", ProductName: "Gaming MOUSE pad", Category: "Electronics"},
		{ID: "4", ProductName: "Chair", Category: domain.Placeholder, ReviewCount: intPtr(2)},
	}
}

func ids(rows []domain.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestViewTable_NoFilters(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{})

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(page.Rows))
	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)
	assert.Equal(t, []string{"Electronics", "Home", domain.Placeholder}, page.Categories)
}

func TestViewTable_SearchIsCaseInsensitive(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Search: "mouse"})

	assert.Equal(t, []string{"1", "3"}, ids(page.Rows))
	assert.Equal(t, 2, page.TotalCount)
}

func TestViewTable_BlankSearchMatchesAll(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Search: "   "})
	assert.Equal(t, 4, page.TotalCount)
}

func TestViewTable_SearchIsTrimmed(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Search: "  lamp "})
	assert.Equal(t, []string{"2"}, ids(page.Rows))
}

func TestViewTable_CategoryExactMatch(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Category: "Electronics"})
	assert.Equal(t, []string{"1", "3"}, ids(page.Rows))

	page = ViewTable(tableRecords(), domain.TableQuery{Category: "electronics"})
	assert.Empty(t, page.Rows)
	assert.Equal(t, 0, page.TotalCount)
}

func TestViewTable_ReviewFilters(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Reviews: domain.ReviewFilterHasReviews})
	assert.Equal(t, []string{"1", "4"}, ids(page.Rows))

	page = ViewTable(tableRecords(), domain.TableQuery{Reviews: domain.ReviewFilterNoReviews})
	assert.Equal(t, []string{"2", "3"}, ids(page.Rows))

	page = ViewTable(tableRecords(), domain.TableQuery{Reviews: "bogus"})
	assert.Equal(t, 4, page.TotalCount)
}

func TestViewTable_FiltersCombine(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{
		Search:   "mouse",
		Category: "Electronics",
		Reviews:  domain.ReviewFilterNoReviews,
	})

	assert.Equal(t, []string{"3"}, ids(page.Rows))
}

func TestViewTable_Pagination(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 23; i++ {
		records = append(records, domain.Record{ID: fmt.Sprint(i), ProductName: "p", Category: "c"})
	}

	first := ViewTable(records, domain.TableQuery{Page: 0, PageSize: 10})
	last := ViewTable(records, domain.TableQuery{Page: 2, PageSize: 10})
	beyond := ViewTable(records, domain.TableQuery{Page: 3, PageSize: 10})

	assert.Len(t, first.Rows, 10)
	assert.Equal(t, "0", first.Rows[0].ID)
	assert.Len(t, last.Rows, 3)
	assert.Equal(t, "20", last.Rows[0].ID)
	assert.Empty(t, beyond.Rows)
	assert.NotNil(t, beyond.Rows)
	assert.Equal(t, 23, beyond.TotalCount)
	assert.Equal(t, 3, first.PageCount())
}

func TestViewTable_RowCountBound(t *testing.T) {
	records := tableRecords()
	for _, size := range domain.PageSizeOptions {
		for p := 0; p < 3; p++ {
			page := ViewTable(records, domain.TableQuery{Page: p, PageSize: size})
			assert.LessOrEqual(t, len(page.Rows), size)
			assert.LessOrEqual(t, len(page.Rows), page.TotalCount)
		}
	}
}

func TestViewTable_InvalidPagination(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Page: -2, PageSize: 0})

	assert.Equal(t, 0, page.Page)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)
	assert.Len(t, page.Rows, 4)
}

func TestViewTable_HugePageSize(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{PageSize: math.MaxInt})

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(page.Rows))
	assert.Equal(t, 4, page.TotalCount)
	assert.Equal(t, 1, page.PageCount())

	page = ViewTable(tableRecords(), domain.TableQuery{Page: 1, PageSize: math.MaxInt})
	assert.Empty(t, page.Rows)

	page = ViewTable(tableRecords(), domain.TableQuery{Page: math.MaxInt, PageSize: math.MaxInt})
	assert.Empty(t, page.Rows)
}

func TestViewTable_Empty(t *testing.T) {
	page := ViewTable(nil, domain.TableQuery{})

	assert.Empty(t, page.Rows)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, page.Categories)
	assert.Equal(t, 0, page.PageCount())
}

func TestViewTable_CategoriesIgnoreFilters(t *testing.T) {
	page := ViewTable(tableRecords(), domain.TableQuery{Category: "Home"})

	assert.Len(t, page.Rows, 1)
	assert.Len(t, page.Categories, 3)
}

func TestFilterRecords_PreservesOrder(t *testing.T) {
	filtered := FilterRecords(tableRecords(), domain.TableQuery{Reviews: domain.ReviewFilterHasReviews})
	assert.Equal(t, []string{"1", "4"}, ids(filtered))
}

func TestCategories(t *testing.T) {
	records := []domain.Record{
		{Category: "b"}, {Category: "a"}, {Category: ""}, {Category: "b"},
	}

	categories := Categories(records)

	require.Len(t, categories, 2)
	assert.Equal(t, []string{"a", "b"}, categories)
}
