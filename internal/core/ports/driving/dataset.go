package driving

import (
	"context"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// DatasetService ingests raw rows and serves canonical views of them.
type DatasetService interface {
	// Ingest fetches the source, stores a snapshot, and makes it the
	// current dataset.
	Ingest(ctx context.Context, source domain.Source) (*domain.SnapshotInfo, error)

	// Upload sends a local file to a remote source that accepts uploads,
	// then ingests the source. Returns ErrUnsupportedType if the source
	// cannot take uploads.
	Upload(ctx context.Context, source domain.Source, path string) (*domain.SnapshotInfo, error)

	// Records returns the canonical records of the current dataset.
	// Returns ErrNoDataset if nothing has been ingested.
	Records(ctx context.Context) ([]domain.Record, error)

	// Summary returns every aggregate over the current dataset.
	Summary(ctx context.Context) (*domain.Summary, error)

	// Table returns one filtered, paginated page of the current dataset.
	Table(ctx context.Context, query domain.TableQuery) (*domain.TablePage, error)

	// Snapshots lists ingested snapshots, newest first.
	Snapshots(ctx context.Context) ([]domain.SnapshotInfo, error)

	// Watch re-ingests the source every time it reports a change and
	// calls onChange with the new snapshot or the ingestion error.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, source domain.Source, onChange func(*domain.SnapshotInfo, error)) error
}
