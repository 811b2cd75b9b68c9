package sources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources/api"
	"github.com/custodia-labs/salesboard/internal/adapters/driven/sources/file"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.RowSourceFactory = (*Factory)(nil)

// Factory creates row sources from registered builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[domain.SourceType]driven.RowSourceBuilder
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		builders: make(map[domain.SourceType]driven.RowSourceBuilder),
	}
}

// NewDefaultFactory creates a factory with the file and api sources
// registered. api supplies throttling and timeout defaults for api
// sources that do not override them in their config.
func NewDefaultFactory(apiDefaults api.Options) *Factory {
	f := NewFactory()
	f.Register(domain.SourceTypeFile, file.Builder())
	f.Register(domain.SourceTypeAPI, api.Builder(apiDefaults))
	return f
}

// Register adds a builder for the given type, replacing any existing one.
func (f *Factory) Register(sourceType domain.SourceType, builder driven.RowSourceBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// Create returns a RowSource for the given source.
func (f *Factory) Create(source domain.Source) (driven.RowSource, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, source.Type)
	}
	if source.Location == "" {
		return nil, fmt.Errorf("%w: %s source needs a location", domain.ErrInvalidInput, source.Type)
	}
	return builder(source)
}

// SupportedTypes returns all registered source types in sorted order.
func (f *Factory) SupportedTypes() []domain.SourceType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]domain.SourceType, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
