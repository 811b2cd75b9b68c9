package dashboard

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driving"
)

// mockDatasetService implements driving.DatasetService for testing.
type mockDatasetService struct {
	driving.DatasetService
	summaryFunc func(ctx context.Context) (*domain.Summary, error)
}

func (m *mockDatasetService) Summary(ctx context.Context) (*domain.Summary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx)
	}
	return &domain.Summary{}, nil
}

func testSummary() *domain.Summary {
	return &domain.Summary{
		SnapshotID:  "snap-1",
		RecordCount: 3,
		CategoryCounts: []domain.CategoryCount{
			{Name: "Electronics", Count: 2},
			{Name: "Home", Count: 1},
		},
		CategoryRatings: []domain.CategoryRating{
			{Name: "Home", AvgRating: 4.5},
			{Name: "Electronics", AvgRating: 3.25},
		},
		DiscountHistogram: []domain.DiscountBucket{
			{Range: "10-20", Count: 2, Min: 10},
		},
		TopReviewed: []domain.TopReviewedProduct{
			{ID: "1", Name: "Wireless Mouse", Reviews: 120},
		},
	}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, &mockDatasetService{})

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Nil(t, view.Summary())
}

func TestView_Init_LoadsSummary(t *testing.T) {
	svc := &mockDatasetService{
		summaryFunc: func(_ context.Context) (*domain.Summary, error) {
			return testSummary(), nil
		},
	}
	view := NewView(nil, svc)

	cmd := view.Init()

	require.NotNil(t, cmd)
	assert.Equal(t, status.StateLoading, view.statusbar.State())
	msg, ok := cmd().(messages.SummaryLoaded)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, 3, msg.Summary.RecordCount)
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(nil, nil)

	msg, ok := view.Init()().(messages.SummaryLoaded)

	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestView_Update_SummaryLoaded(t *testing.T) {
	view := NewView(nil, &mockDatasetService{})
	view.SetDimensions(120, 60)

	view.Update(messages.SummaryLoaded{Summary: testSummary()})

	require.NotNil(t, view.Summary())
	assert.NoError(t, view.Err())
	assert.Equal(t, status.StateRecords, view.statusbar.State())

	out := view.View()
	assert.Contains(t, out, "snapshot snap-1")
	assert.Contains(t, out, "Products per category")
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "4.50")
	assert.Contains(t, out, "10-20%")
	assert.Contains(t, out, "Wireless Mouse")
}

func TestView_Update_SummaryError(t *testing.T) {
	t.Run("no dataset", func(t *testing.T) {
		view := NewView(nil, &mockDatasetService{})
		view.SetDimensions(80, 24)

		view.Update(messages.SummaryLoaded{Err: domain.ErrNoDataset})

		assert.ErrorIs(t, view.Err(), domain.ErrNoDataset)
		assert.Equal(t, status.StateError, view.statusbar.State())
		assert.Equal(t, "no data loaded yet", view.statusbar.Message())
		assert.Contains(t, view.View(), "Load a file")
	})

	t.Run("other error", func(t *testing.T) {
		view := NewView(nil, &mockDatasetService{})

		view.Update(messages.SummaryLoaded{Err: errors.New("store offline")})

		assert.Equal(t, "store offline", view.statusbar.Message())
	})
}

func TestView_Update_Keys(t *testing.T) {
	t.Run("esc returns to menu", func(t *testing.T) {
		view := NewView(nil, &mockDatasetService{})

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

		require.NotNil(t, cmd)
		assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
	})

	t.Run("ctrl+r reloads", func(t *testing.T) {
		calls := 0
		svc := &mockDatasetService{
			summaryFunc: func(_ context.Context) (*domain.Summary, error) {
				calls++
				return testSummary(), nil
			},
		}
		view := NewView(nil, svc)

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

		require.NotNil(t, cmd)
		cmd()
		assert.Equal(t, 1, calls)
	})
}

func TestView_View_NotReady(t *testing.T) {
	assert.Equal(t, "Initialising...", NewView(nil, nil).View())
}

func TestCharts(t *testing.T) {
	charts := Charts(testSummary())

	require.Len(t, charts, 4)
	assert.Equal(t, "Products per category", charts[0].Title)
	assert.Equal(t, "2", charts[0].Bars[0].Text)
	assert.Equal(t, "3.25", charts[1].Bars[1].Text)
	assert.Equal(t, "10-20%", charts[2].Bars[0].Label)
	assert.InDelta(t, 120.0, charts[3].Bars[0].Value, 0.001)
}

func TestCharts_Empty(t *testing.T) {
	charts := Charts(&domain.Summary{})

	require.Len(t, charts, 4)
	for _, c := range charts {
		assert.Empty(t, c.Bars)
	}
}
