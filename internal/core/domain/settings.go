package domain

import (
	"fmt"
	"slices"
)

const unknownDescription = "Unknown"

// StorageBackend selects where snapshots are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists snapshots in ~/.salesboard/data/snapshots.db.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps snapshots for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persisted between runs)"
	case StorageMemory:
		return "Memory (discarded on exit)"
	default:
		return unknownDescription
	}
}

// TableSettings configures the sales table.
type TableSettings struct {
	// PageSize is the default number of rows per page.
	PageSize int
}

// StorageSettings configures snapshot storage.
type StorageSettings struct {
	Backend StorageBackend
}

// APISettings configures the backend API source.
type APISettings struct {
	// URL is the sales endpoint, e.g. http://localhost:8080/api/getsales.
	URL string

	// Token is sent as a bearer token when set.
	Token string

	// RequestsPerSecond throttles requests to the endpoint.
	RequestsPerSecond float64

	// TimeoutSeconds bounds each request.
	TimeoutSeconds int
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Table   TableSettings
	Storage StorageSettings
	API     APISettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Table: TableSettings{
			PageSize: DefaultPageSize,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		API: APISettings{
			RequestsPerSecond: 2,
			TimeoutSeconds:    30,
		},
	}
}

// Validate checks the settings are usable.
func (s *AppSettings) Validate() error {
	if !slices.Contains(PageSizeOptions, s.Table.PageSize) {
		return fmt.Errorf("%w: page size %d not in %v", ErrInvalidInput, s.Table.PageSize, PageSizeOptions)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrInvalidInput, s.Storage.Backend)
	}
	if s.API.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: api requests per second must be positive", ErrInvalidInput)
	}
	if s.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: api timeout must be positive", ErrInvalidInput)
	}
	return nil
}

// APISource returns the configured API source, or false if no URL is set.
func (s *AppSettings) APISource() (Source, bool) {
	if s.API.URL == "" {
		return Source{}, false
	}
	src := Source{Type: SourceTypeAPI, Location: s.API.URL}
	if s.API.Token != "" {
		src.Config = map[string]string{"token": s.API.Token}
	}
	return src, true
}
