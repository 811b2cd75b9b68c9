package mcp

import (
	"context"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	summary   *domain.Summary
	page      *domain.TablePage
	records   []domain.Record
	snapshots []domain.SnapshotInfo
	err       error

	lastQuery  domain.TableQuery
	lastSource domain.Source
}

func (m *mockDatasetService) Ingest(_ context.Context, source domain.Source) (*domain.SnapshotInfo, error) {
	m.lastSource = source
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SnapshotInfo{ID: "snap-1", Source: source, RowCount: 3}, nil
}

func (m *mockDatasetService) Upload(ctx context.Context, source domain.Source, _ string) (*domain.SnapshotInfo, error) {
	return m.Ingest(ctx, source)
}

func (m *mockDatasetService) Records(_ context.Context) ([]domain.Record, error) {
	return m.records, m.err
}

func (m *mockDatasetService) Summary(_ context.Context) (*domain.Summary, error) {
	return m.summary, m.err
}

func (m *mockDatasetService) Table(_ context.Context, query domain.TableQuery) (*domain.TablePage, error) {
	m.lastQuery = query
	return m.page, m.err
}

func (m *mockDatasetService) Snapshots(_ context.Context) ([]domain.SnapshotInfo, error) {
	return m.snapshots, m.err
}

func (m *mockDatasetService) Watch(
	_ context.Context,
	_ domain.Source,
	_ func(*domain.SnapshotInfo, error),
) error {
	return m.err
}

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(n int) *int {
	return &n
}
