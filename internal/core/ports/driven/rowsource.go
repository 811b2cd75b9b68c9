package driven

import (
	"context"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// RowSource supplies raw rows from one location.
// Each source type (file, api) implements this interface.
type RowSource interface {
	// Type returns the source type identifier.
	Type() domain.SourceType

	// Source returns the configuration this source was built from.
	Source() domain.Source

	// Capabilities returns what this source supports.
	Capabilities() RowSourceCapabilities

	// Fetch reads the full payload.
	// The result is list-shaped ([]any) or a {"data": [...]} wrapper and is
	// handed to the normaliser untouched; sources never canonicalise rows.
	Fetch(ctx context.Context) (any, error)

	// Watch emits a value each time the underlying data changes.
	// Only available if SupportsWatch is true; otherwise returns
	// domain.ErrWatchUnsupported. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)

	// Close releases resources.
	Close() error
}

// RowSourceCapabilities describes what a row source supports.
type RowSourceCapabilities struct {
	// SupportsWatch indicates the source can push change notifications.
	SupportsWatch bool

	// SupportsRateLimiting indicates the source throttles itself.
	SupportsRateLimiting bool

	// RemoteFetch indicates Fetch performs network I/O.
	RemoteFetch bool
}

// Uploader is implemented by remote sources that accept file uploads.
type Uploader interface {
	// Upload sends the file at path to the source.
	Upload(ctx context.Context, path string) error
}
