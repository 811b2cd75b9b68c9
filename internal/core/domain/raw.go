package domain

// RawRow is one untyped input row keyed by whatever column names the
// source used ("product_name", "Product Name", "productName", ...).
// Values are scalars (string, number, bool, nil) or nested JSON values.
// No invariants hold: a RawRow may be partially populated or malformed.
type RawRow map[string]any

// PayloadDataKey is the field under which wrapped payloads carry their rows,
// as in {"data": [...]}.
const PayloadDataKey = "data"
