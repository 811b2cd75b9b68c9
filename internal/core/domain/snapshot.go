package domain

import "time"

// Snapshot is one ingestion of raw rows from a source.
// The payload is stored exactly as the source produced it; the
// canonical dataset is rebuilt from it in full.
type Snapshot struct {
	// ID is the unique identifier for the snapshot.
	ID string

	// Source is where the payload came from.
	Source Source

	// Payload is the decoded source output: a list of rows, a
	// {"data": [...]} wrapper, or anything else a source returned.
	Payload any

	// RowCount is the number of top-level elements in the payload.
	RowCount int

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time
}

// Info returns the snapshot without its payload.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		Source:    s.Source,
		RowCount:  s.RowCount,
		CreatedAt: s.CreatedAt,
	}
}

// SnapshotInfo describes a snapshot for listing.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	RowCount  int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}
