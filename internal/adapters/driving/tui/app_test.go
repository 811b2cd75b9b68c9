package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/salesboard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/salesboard/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Dataset:  &MockDatasetService{},
		Settings: &MockSettingsService{},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

// navigate switches view and feeds the view's init command back in.
func navigate(app *App, view messages.ViewType) {
	_, cmd := app.Update(messages.ViewChanged{View: view})
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		app.Update(msg)
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	t.Run("missing dataset", func(t *testing.T) {
		app, err := NewApp(&Ports{Settings: &MockSettingsService{}})

		assert.ErrorIs(t, err, ErrMissingDatasetService)
		assert.Nil(t, app)
	})

	t.Run("nil ports", func(t *testing.T) {
		app, err := NewApp(nil)

		assert.ErrorIs(t, err, ErrInvalidPorts)
		assert.Nil(t, app)
	})
}

func TestNewApp_PageSizeFromSettings(t *testing.T) {
	settings := &MockSettingsService{
		GetFunc: func() (*domain.AppSettings, error) {
			s := domain.DefaultAppSettings()
			s.Table.PageSize = 25
			return &s, nil
		},
	}

	app, err := NewApp(&Ports{Dataset: &MockDatasetService{}, Settings: settings})

	require.NoError(t, err)
	assert.Equal(t, 25, app.recordsView.Query().PageSize)
}

func TestNewApp_SettingsError(t *testing.T) {
	settings := &MockSettingsService{
		GetFunc: func() (*domain.AppSettings, error) {
			return nil, errors.New("unreadable")
		},
	}

	app, err := NewApp(&Ports{Dataset: &MockDatasetService{}, Settings: settings})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, app.recordsView.Query().PageSize)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)
	navigate(app, messages.ViewLoad)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_MenuNavigation(t *testing.T) {
	app := newTestApp(t)

	// Menu starts on Dashboard; enter emits ViewChanged.
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDashboard}, msg)

	app.Update(msg)
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_Dashboard(t *testing.T) {
	dataset := &MockDatasetService{
		SummaryFunc: func(_ context.Context) (*domain.Summary, error) {
			return &domain.Summary{
				RecordCount:    2,
				CategoryCounts: []domain.CategoryCount{{Name: "Electronics", Count: 2}},
			}, nil
		},
	}
	app, err := NewApp(&Ports{Dataset: dataset})
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	navigate(app, messages.ViewDashboard)

	out := app.View()
	assert.Contains(t, out, "Dashboard")
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "2 records")
}

func TestApp_Table(t *testing.T) {
	var queries []domain.TableQuery
	dataset := &MockDatasetService{
		TableFunc: func(_ context.Context, query domain.TableQuery) (*domain.TablePage, error) {
			queries = append(queries, query)
			return &domain.TablePage{
				Rows:       []domain.Record{{ID: "1", ProductName: "Desk Lamp", Category: "Home"}},
				TotalCount: 1,
				Categories: []string{"Home"},
				Page:       query.Page,
				PageSize:   query.PageSize,
			}, nil
		},
	}
	app, err := NewApp(&Ports{Dataset: dataset})
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	navigate(app, messages.ViewTable)

	require.Len(t, queries, 1)
	assert.Equal(t, domain.DefaultPageSize, queries[0].PageSize)
	assert.Contains(t, app.View(), "Desk Lamp")

	// c applies the first category
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.Len(t, queries, 2)
	assert.Equal(t, "Home", queries[1].Category)
}

func TestApp_Load(t *testing.T) {
	var ingested []domain.Source
	dataset := &MockDatasetService{
		IngestFunc: func(_ context.Context, source domain.Source) (*domain.SnapshotInfo, error) {
			ingested = append(ingested, source)
			return &domain.SnapshotInfo{ID: "snap-2", Source: source, RowCount: 4}, nil
		},
	}
	app, err := NewApp(&Ports{Dataset: dataset})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	app.recordsView.Reset()

	navigate(app, messages.ViewLoad)
	assert.Equal(t, messages.ViewLoad, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sales.csv")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.Len(t, ingested, 1)
	assert.Equal(t, domain.SourceTypeFile, ingested[0].Type)
	require.NotNil(t, app.LastLoad())
	assert.Equal(t, "snap-2", app.LastLoad().ID)
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "Loaded 4 rows")
}

func TestApp_DatasetLoadedResetsTableFilters(t *testing.T) {
	app := newTestApp(t)
	navigate(app, messages.ViewTable)
	app.recordsView.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.Equal(t, domain.ReviewFilterHasReviews, app.recordsView.Query().Reviews)

	app.Update(messages.DatasetLoaded{Info: &domain.SnapshotInfo{ID: "new"}})

	assert.Equal(t, domain.ReviewFilterAll, app.recordsView.Query().Reviews)
}

func TestApp_DatasetLoadedError(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.DatasetLoaded{Err: domain.ErrSourceUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrSourceUnavailable)
	assert.Nil(t, app.LastLoad())
}

func TestApp_SettingsUpdatePageSize(t *testing.T) {
	app := newTestApp(t)
	navigate(app, messages.ViewSettings)
	require.Equal(t, messages.ViewSettings, app.CurrentView())

	s := domain.DefaultAppSettings()
	s.Table.PageSize = 50
	app.Update(messages.SettingsLoaded{Settings: &s})

	assert.Equal(t, 50, app.recordsView.Query().PageSize)
	assert.Contains(t, app.View(), "Page size: 50")
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)
	navigate(app, messages.ViewHelp)

	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "next page")
	assert.Contains(t, out, "category")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_EscReturnsToMenu(t *testing.T) {
	views := []messages.ViewType{
		messages.ViewDashboard,
		messages.ViewTable,
		messages.ViewLoad,
		messages.ViewSettings,
	}

	for _, view := range views {
		t.Run(view.String(), func(t *testing.T) {
			app := newTestApp(t)
			navigate(app, view)

			_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
			require.NotNil(t, cmd)
			app.Update(cmd())

			assert.Equal(t, messages.ViewMenu, app.CurrentView())
		})
	}
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}
