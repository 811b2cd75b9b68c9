package driven

import (
	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// RowSourceBuilder creates a RowSource from a Source.
type RowSourceBuilder func(source domain.Source) (RowSource, error)

// RowSourceFactory creates row sources from source configuration.
// It maintains a registry of source types and their builders.
type RowSourceFactory interface {
	// Create returns a RowSource for the given source.
	// Returns ErrUnsupportedType if the source type is unknown.
	Create(source domain.Source) (RowSource, error)

	// Register adds a builder for the given type.
	Register(sourceType domain.SourceType, builder RowSourceBuilder)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []domain.SourceType
}
