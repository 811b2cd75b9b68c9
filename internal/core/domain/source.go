package domain

import "fmt"

// SourceType identifies where raw rows come from.
type SourceType string

// Available source types.
const (
	// SourceTypeFile reads an uploaded CSV, TSV or JSON file.
	SourceTypeFile SourceType = "file"

	// SourceTypeAPI fetches JSON rows from a backend endpoint.
	SourceTypeAPI SourceType = "api"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	return t == SourceTypeFile || t == SourceTypeAPI
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Source describes one provider of raw rows.
type Source struct {
	// Type selects the adapter.
	Type SourceType `json:"type"`

	// Location is a file path or URL depending on Type.
	Location string `json:"location"`

	// Config carries adapter-specific options (e.g. "token", "delimiter").
	Config map[string]string `json:"config,omitempty"`
}

// String returns a short description like "file:/tmp/sales.csv".
func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Type, s.Location)
}
