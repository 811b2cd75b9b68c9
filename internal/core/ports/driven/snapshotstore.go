package driven

import (
	"context"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// SnapshotStore persists ingested payloads.
// Backed by SQLite or memory.
type SnapshotStore interface {
	// Save stores a snapshot. Saving an existing ID replaces it.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Get retrieves a snapshot by ID.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Snapshot, error)

	// Latest returns the most recently created snapshot.
	// Returns ErrNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.Snapshot, error)

	// List returns snapshot descriptions, newest first.
	List(ctx context.Context) ([]domain.SnapshotInfo, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error
}
