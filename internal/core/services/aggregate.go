package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// Aggregation limits.
const (
	CategoryCountLimit  = 15
	CategoryRatingLimit = 12
	TopReviewedLimit    = 10

	discountBucketWidth = 10
	discountBucketCap   = 60

	// discountBucketFloor keeps absurd negative discounts within int range.
	discountBucketFloor = -1 << 53

	topReviewedNameMax = 20
	ellipsis           = "…"
)

// CategoryCounts counts records per category, largest first, keeping at
// most CategoryCountLimit categories. Ties keep first-appearance order.
func CategoryCounts(records []domain.Record) []domain.CategoryCount {
	index := make(map[string]int)
	counts := make([]domain.CategoryCount, 0)

	for i := range records {
		name := records[i].GroupCategory()
		pos, ok := index[name]
		if !ok {
			pos = len(counts)
			index[name] = pos
			counts = append(counts, domain.CategoryCount{Name: name})
		}
		counts[pos].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > CategoryCountLimit {
		counts = counts[:CategoryCountLimit]
	}
	return counts
}

type ratingAccumulator struct {
	name  string
	sum   decimal.Decimal
	count int64
}

// CategoryAverageRatings averages ratings per category, rounded to two
// decimals, highest first, keeping at most CategoryRatingLimit.
// Records without a rating are ignored; categories with no rated
// record are omitted.
func CategoryAverageRatings(records []domain.Record) []domain.CategoryRating {
	index := make(map[string]int)
	accs := make([]ratingAccumulator, 0)

	for i := range records {
		rating := records[i].Rating
		if rating == nil {
			continue
		}
		name := records[i].GroupCategory()
		pos, ok := index[name]
		if !ok {
			pos = len(accs)
			index[name] = pos
			accs = append(accs, ratingAccumulator{name: name, sum: decimal.Zero})
		}
		accs[pos].sum = accs[pos].sum.Add(decimal.NewFromFloat(*rating))
		accs[pos].count++
	}

	ratings := make([]domain.CategoryRating, len(accs))
	for i, acc := range accs {
		avg := acc.sum.Div(decimal.NewFromInt(acc.count)).Round(2)
		ratings[i] = domain.CategoryRating{Name: acc.name, AvgRating: avg.InexactFloat64()}
	}

	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].AvgRating > ratings[j].AvgRating
	})

	if len(ratings) > CategoryRatingLimit {
		ratings = ratings[:CategoryRatingLimit]
	}
	return ratings
}

// DiscountBucketStart returns the lower bound of the histogram bucket
// holding a discount. Buckets are ten points wide; everything from 60
// upwards shares the last bucket. Negative discounts get negative
// buckets, so -5 lands in "-10-0".
func DiscountBucketStart(discount float64) int {
	start := math.Floor(discount/discountBucketWidth) * discountBucketWidth
	start = math.Max(discountBucketFloor, math.Min(start, discountBucketCap))
	return int(start)
}

// DiscountBucketLabel formats a bucket as "start-end".
func DiscountBucketLabel(start int) string {
	return fmt.Sprintf("%d-%d", start, start+discountBucketWidth)
}

// DiscountHistogram buckets discounted records. Only non-empty buckets
// are returned, ordered by their lower bound.
func DiscountHistogram(records []domain.Record) []domain.DiscountBucket {
	index := make(map[int]int)
	buckets := make([]domain.DiscountBucket, 0)

	for i := range records {
		discount := records[i].Discount
		if discount == nil {
			continue
		}
		start := DiscountBucketStart(*discount)
		pos, ok := index[start]
		if !ok {
			pos = len(buckets)
			index[start] = pos
			buckets = append(buckets, domain.DiscountBucket{
				Range: DiscountBucketLabel(start),
				Min:   start,
			})
		}
		buckets[pos].Count++
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Min < buckets[j].Min
	})
	return buckets
}

// TopReviewed returns the most reviewed products, most reviews first,
// keeping at most TopReviewedLimit. Records without a positive review
// count are skipped. Long names are truncated for display.
func TopReviewed(records []domain.Record) []domain.TopReviewedProduct {
	reviewed := make([]*domain.Record, 0)
	for i := range records {
		if records[i].HasReviews() {
			reviewed = append(reviewed, &records[i])
		}
	}

	sort.SliceStable(reviewed, func(i, j int) bool {
		return *reviewed[i].ReviewCount > *reviewed[j].ReviewCount
	})

	if len(reviewed) > TopReviewedLimit {
		reviewed = reviewed[:TopReviewedLimit]
	}

	top := make([]domain.TopReviewedProduct, len(reviewed))
	for i, r := range reviewed {
		top[i] = domain.TopReviewedProduct{
			ID:      r.ID,
			Name:    TruncateName(r.ProductName),
			Reviews: *r.ReviewCount,
		}
	}
	return top
}

// TruncateName shortens names longer than twenty characters, appending
// an ellipsis.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= topReviewedNameMax {
		return name
	}
	return string(runes[:topReviewedNameMax]) + ellipsis
}
