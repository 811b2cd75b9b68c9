package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService ingests raw payloads and serves the canonical dataset
// built from the latest snapshot.
type DatasetService struct {
	factory driven.RowSourceFactory
	store   driven.SnapshotStore
	canon   *Canonicalizer
	now     func() time.Time

	// The normalised records of the latest snapshot are memoised so that
	// synthesised IDs stay stable between calls.
	mu         sync.RWMutex
	cachedID   string
	cachedAt   time.Time
	cachedRecs []domain.Record
}

// NewDatasetService creates a new dataset service.
// The factory may be nil when only stored snapshots are read.
func NewDatasetService(factory driven.RowSourceFactory, store driven.SnapshotStore) *DatasetService {
	return &DatasetService{
		factory: factory,
		store:   store,
		canon:   NewCanonicalizer(nil),
		now:     time.Now,
	}
}

// SetCanonicalizer replaces the canonicalizer used to build records.
func (s *DatasetService) SetCanonicalizer(c *Canonicalizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canon = c
	s.cachedID = ""
	s.cachedAt = time.Time{}
	s.cachedRecs = nil
}

// Ingest fetches the source payload and stores it as the newest snapshot.
func (s *DatasetService) Ingest(ctx context.Context, source domain.Source) (*domain.SnapshotInfo, error) {
	if s.factory == nil {
		return nil, errors.New("row source factory not configured")
	}
	if s.store == nil {
		return nil, errors.New("snapshot store not configured")
	}

	logger.Section("Ingest")
	logger.Info("Source: %s", source)

	src, err := s.factory.Create(source)
	if err != nil {
		return nil, fmt.Errorf("create row source: %w", err)
	}
	defer src.Close()

	start := time.Now()
	payload, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	snapshot := &domain.Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		Payload:   payload,
		RowCount:  len(PayloadRows(payload)),
		CreatedAt: s.now(),
	}
	logger.Debug("Fetched %d rows in %v", snapshot.RowCount, time.Since(start))

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("Stored snapshot %s", snapshot.ID)

	info := snapshot.Info()
	return &info, nil
}

// Upload pushes a file to an uploading source and ingests the result.
func (s *DatasetService) Upload(ctx context.Context, source domain.Source, path string) (*domain.SnapshotInfo, error) {
	if s.factory == nil {
		return nil, errors.New("row source factory not configured")
	}

	src, err := s.factory.Create(source)
	if err != nil {
		return nil, fmt.Errorf("create row source: %w", err)
	}
	defer src.Close()

	uploader, ok := src.(driven.Uploader)
	if !ok {
		return nil, fmt.Errorf("%w: %s sources do not accept uploads", domain.ErrUnsupportedType, source.Type)
	}

	logger.Section("Upload")
	logger.Info("Uploading %s to %s", path, source)
	if err := uploader.Upload(ctx, path); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	return s.Ingest(ctx, source)
}

// Records returns the canonical records of the latest snapshot.
func (s *DatasetService) Records(ctx context.Context) ([]domain.Record, error) {
	records, _, err := s.current(ctx)
	return records, err
}

func (s *DatasetService) current(ctx context.Context) ([]domain.Record, string, error) {
	if s.store == nil {
		return nil, "", errors.New("snapshot store not configured")
	}

	snapshot, err := s.store.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.ErrNoDataset
	}
	if err != nil {
		return nil, "", fmt.Errorf("load latest snapshot: %w", err)
	}

	s.mu.RLock()
	if s.cachedID == snapshot.ID {
		records := s.cachedRecs
		s.mu.RUnlock()
		return records, snapshot.ID, nil
	}
	canon := s.canon
	s.mu.RUnlock()

	records := canon.Normalize(snapshot.Payload)
	logger.Debug("Normalised %d of %d rows from snapshot %s", len(records), snapshot.RowCount, snapshot.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.cachedID == snapshot.ID:
		// A concurrent caller cached this snapshot first; share its ids.
		records = s.cachedRecs
	case s.cachedID != "" && s.cachedAt.After(snapshot.CreatedAt):
		// A newer snapshot is already cached; leave it in place.
	default:
		s.cachedID = snapshot.ID
		s.cachedAt = snapshot.CreatedAt
		s.cachedRecs = records
	}

	return records, snapshot.ID, nil
}

// Summary computes all chart aggregates over the current dataset.
func (s *DatasetService) Summary(ctx context.Context) (*domain.Summary, error) {
	records, snapshotID, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	logger.Section("Summary")
	start := time.Now()

	summary := &domain.Summary{
		SnapshotID:  snapshotID,
		RecordCount: len(records),
	}

	// The aggregators only read records, so they run in parallel.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		summary.CategoryCounts = CategoryCounts(records)
	}()
	go func() {
		defer wg.Done()
		summary.CategoryRatings = CategoryAverageRatings(records)
	}()
	go func() {
		defer wg.Done()
		summary.DiscountHistogram = DiscountHistogram(records)
	}()
	go func() {
		defer wg.Done()
		summary.TopReviewed = TopReviewed(records)
	}()
	wg.Wait()

	logger.Debug("Aggregated %d records in %v", len(records), time.Since(start))
	return summary, nil
}

// Table returns one page of the filtered dataset.
func (s *DatasetService) Table(ctx context.Context, query domain.TableQuery) (*domain.TablePage, error) {
	records, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Table query: search=%q category=%q reviews=%q page=%d size=%d",
		query.Search, query.Category, query.Reviews, query.Page, query.PageSize)

	page := ViewTable(records, query)
	return &page, nil
}

// Snapshots lists stored snapshots, newest first.
func (s *DatasetService) Snapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	if s.store == nil {
		return nil, errors.New("snapshot store not configured")
	}
	return s.store.List(ctx)
}

// Watch re-ingests the source every time it reports a change, until ctx
// is cancelled. Each outcome is passed to onChange.
func (s *DatasetService) Watch(
	ctx context.Context,
	source domain.Source,
	onChange func(*domain.SnapshotInfo, error),
) error {
	if s.factory == nil {
		return errors.New("row source factory not configured")
	}

	src, err := s.factory.Create(source)
	if err != nil {
		return fmt.Errorf("create row source: %w", err)
	}
	defer src.Close()

	if !src.Capabilities().SupportsWatch {
		return fmt.Errorf("%s: %w", source, domain.ErrWatchUnsupported)
	}

	changes, err := src.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", source, err)
	}

	logger.Info("Watching %s", source)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			info, err := s.Ingest(ctx, source)
			if onChange != nil {
				onChange(info, err)
			}
		}
	}
}
