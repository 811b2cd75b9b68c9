package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// Field aliases in priority order. The first alias holding a usable
// value wins.
var (
	productNameAliases = []string{"product_name", "productName", "Product Name", "Product"}
	categoryAliases    = []string{"category", "Category"}
	ratingAliases      = []string{"rating", "Rating", "average_rating"}
	reviewCountAliases = []string{"review_count", "reviewCount", "reviews", "Reviews", "num_reviews"}
	discountAliases    = []string{"discount", "Discount", "discount_percentage", "Discount Percentage"}
)

const idKey = "id"

// maxSafeInteger is the largest count accepted from a float value.
const maxSafeInteger = 1<<53 - 1

// SuffixFunc returns a fresh suffix for synthesised record IDs.
type SuffixFunc func() string

// Canonicalizer maps heterogeneous raw rows onto domain.Record.
type Canonicalizer struct {
	newSuffix SuffixFunc
}

// NewCanonicalizer creates a canonicalizer. A nil suffix function
// falls back to random UUIDs.
func NewCanonicalizer(newSuffix SuffixFunc) *Canonicalizer {
	if newSuffix == nil {
		newSuffix = uuid.NewString
	}
	return &Canonicalizer{newSuffix: newSuffix}
}

var defaultCanonicalizer = NewCanonicalizer(nil)

// Canonicalize converts a single raw row using random ID suffixes.
func Canonicalize(row any) (domain.Record, bool) {
	return defaultCanonicalizer.Canonicalize(row)
}

// Canonicalize converts a single raw row into a Record.
// It returns false when the input is not a row (nil or not a map).
// Missing or malformed fields never fail; they resolve to the
// placeholder or nil.
func (c *Canonicalizer) Canonicalize(row any) (domain.Record, bool) {
	raw, ok := asRawRow(row)
	if !ok {
		return domain.Record{}, false
	}

	rec := domain.Record{
		ProductName: textOrPlaceholder(raw, productNameAliases),
		Category:    textOrPlaceholder(raw, categoryAliases),
		Rating:      floatField(raw, ratingAliases),
		ReviewCount: countField(raw, reviewCountAliases),
		Discount:    floatField(raw, discountAliases),
		Raw:         raw,
	}

	if v, ok := raw[idKey]; ok && usable(v) {
		rec.ID = formatText(v)
	} else {
		rec.ID = fmt.Sprintf("%s-%s-%s", rec.ProductName, rec.Category, c.newSuffix())
	}

	return rec, true
}

func asRawRow(row any) (domain.RawRow, bool) {
	switch r := row.(type) {
	case domain.RawRow:
		return r, r != nil
	case map[string]any:
		return domain.RawRow(r), r != nil
	default:
		return nil, false
	}
}

// usable reports whether an alias value counts as present.
func usable(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// resolve returns the first usable value among the aliases.
func resolve(raw domain.RawRow, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := raw[key]; ok && usable(v) {
			return v, true
		}
	}
	return nil, false
}

func textOrPlaceholder(raw domain.RawRow, aliases []string) string {
	v, ok := resolve(raw, aliases)
	if !ok {
		return domain.Placeholder
	}
	return formatText(v)
}

func formatText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func floatField(raw domain.RawRow, aliases []string) *float64 {
	v, ok := resolve(raw, aliases)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func countField(raw domain.RawRow, aliases []string) *int {
	v, ok := resolve(raw, aliases)
	if !ok {
		return nil
	}

	var n int
	if s, isString := v.(string); isString {
		parsed, ok := parseIntPrefix(s)
		if !ok {
			return nil
		}
		n = parsed
	} else {
		f, ok := toFloat(v)
		if !ok || f < 0 || f > maxSafeInteger {
			return nil
		}
		n = int(math.Trunc(f))
	}

	if n < 0 {
		return nil
	}
	return &n
}

// toFloat coerces numbers and numeric strings. Booleans and nested
// values are not numbers. Non-finite results count as absent.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := parseFloatPrefix(n)
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseFloatPrefix parses the longest leading decimal number in s,
// ignoring leading whitespace and any trailing text ("4.5 stars" is 4.5).
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if expDigits := countDigits(s[j:]); expDigits > 0 {
			i = j + expDigits
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseIntPrefix parses the leading base-10 integer in s ("12 reviews" is 12).
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := countDigits(s[i:])
	if digits == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:i+digits])
	if err != nil {
		return 0, false
	}
	return n, true
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
