package services

import (
	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// Normalize converts a raw payload into canonical records using random
// ID suffixes. See Canonicalizer.Normalize.
func Normalize(payload any) []domain.Record {
	return defaultCanonicalizer.Normalize(payload)
}

// Normalize converts a raw payload into canonical records.
//
// The payload is either a list of rows or a map wrapping the list under
// domain.PayloadDataKey. Anything else yields an empty result. Elements
// that are not rows are dropped; the rest keep their input order.
func (c *Canonicalizer) Normalize(payload any) []domain.Record {
	rows := PayloadRows(payload)
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if rec, ok := c.Canonicalize(row); ok {
			records = append(records, rec)
		}
	}
	return records
}

// PayloadRows returns the row candidates of a payload, unwrapping a
// single "data" envelope.
func PayloadRows(payload any) []any {
	if rows, ok := listOf(payload); ok {
		return rows
	}

	var wrapper map[string]any
	switch p := payload.(type) {
	case map[string]any:
		wrapper = p
	case domain.RawRow:
		wrapper = p
	default:
		return nil
	}

	rows, _ := listOf(wrapper[domain.PayloadDataKey])
	return rows
}

func listOf(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []map[string]any:
		rows := make([]any, len(list))
		for i, r := range list {
			rows[i] = r
		}
		return rows, true
	case []domain.RawRow:
		rows := make([]any, len(list))
		for i, r := range list {
			rows[i] = r
		}
		return rows, true
	case []domain.Record:
		rows := make([]any, len(list))
		for i := range list {
			rows[i] = recordRow(&list[i])
		}
		return rows, true
	default:
		return nil, false
	}
}

// recordRow renders a canonical record back into row form so that
// normalised output can be fed through Normalize again.
func recordRow(r *domain.Record) domain.RawRow {
	row := domain.RawRow{
		idKey:         r.ID,
		"productName": r.ProductName,
		"category":    r.Category,
		"rating":      nil,
		"reviewCount": nil,
		"discount":    nil,
	}
	if r.Rating != nil {
		row["rating"] = *r.Rating
	}
	if r.ReviewCount != nil {
		row["reviewCount"] = *r.ReviewCount
	}
	if r.Discount != nil {
		row["discount"] = *r.Discount
	}
	return row
}
