package load

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

// mockDatasetService records ingested sources.
type mockDatasetService struct {
	driving.DatasetService
	sources []domain.Source
	err     error
}

func (m *mockDatasetService) Ingest(_ context.Context, source domain.Source) (*domain.SnapshotInfo, error) {
	m.sources = append(m.sources, source)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SnapshotInfo{ID: "snap-1", Source: source, RowCount: 12}, nil
}

// mockSettingsService returns fixed settings.
type mockSettingsService struct {
	driving.SettingsService
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func apiSettings(url, token string) *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.API.URL = url
	s.API.Token = token
	return &mockSettingsService{settings: &s}
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func submit(t *testing.T, v *View) tea.Cmd {
	t.Helper()
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestNewView(t *testing.T) {
	v := NewView(nil, &mockDatasetService{}, nil)

	require.NotNil(t, v)
	assert.False(t, v.Loading())
	assert.Nil(t, v.Last())
}

func TestView_Init_FocusesInput(t *testing.T) {
	v := NewView(nil, &mockDatasetService{}, nil)

	assert.NotNil(t, v.Init())
	assert.True(t, v.input.Focused())
}

func TestView_LoadFile(t *testing.T) {
	svc := &mockDatasetService{}
	v := NewView(nil, svc, nil)
	v.SetDimensions(100, 30)
	v.Init()

	typeText(v, "data/sales.csv")
	cmd := submit(t, v)

	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Equal(t, status.StateLoading, v.statusbar.State())

	v.Update(cmd())

	require.Len(t, svc.sources, 1)
	assert.Equal(t, domain.Source{Type: domain.SourceTypeFile, Location: "data/sales.csv"}, svc.sources[0])
	assert.False(t, v.Loading())
	require.NotNil(t, v.Last())
	assert.Equal(t, "", v.input.Value())
	assert.Contains(t, v.View(), "Loaded 12 rows from data/sales.csv")
}

func TestView_LoadURL(t *testing.T) {
	t.Run("uses configured token", func(t *testing.T) {
		svc := &mockDatasetService{}
		v := NewView(nil, svc, apiSettings("", "secret"))
		v.Init()

		typeText(v, "HTTPS://example.com/api/getsales")
		v.Update(submit(t, v)())

		require.Len(t, svc.sources, 1)
		assert.Equal(t, domain.SourceTypeAPI, svc.sources[0].Type)
		assert.Equal(t, "secret", svc.sources[0].Config["token"])
	})

	t.Run("blank input uses api.url", func(t *testing.T) {
		svc := &mockDatasetService{}
		v := NewView(nil, svc, apiSettings("http://localhost:3000/api/getsales", ""))
		v.Init()

		v.Update(submit(t, v)())

		require.Len(t, svc.sources, 1)
		assert.Equal(t, "http://localhost:3000/api/getsales", svc.sources[0].Location)
		assert.Nil(t, svc.sources[0].Config)
	})
}

func TestView_NoSource(t *testing.T) {
	svc := &mockDatasetService{}
	v := NewView(nil, svc, apiSettings("", ""))
	v.Init()

	cmd := submit(t, v)

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), ErrNoSource)
	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.Empty(t, svc.sources)
}

func TestView_SettingsError(t *testing.T) {
	v := NewView(nil, &mockDatasetService{}, &mockSettingsService{err: errors.New("corrupt config")})
	v.Init()

	typeText(v, "sales.csv")
	cmd := submit(t, v)

	assert.Nil(t, cmd)
	assert.ErrorContains(t, v.Err(), "corrupt config")
}

func TestView_IngestError(t *testing.T) {
	svc := &mockDatasetService{err: domain.ErrSourceUnavailable}
	v := NewView(nil, svc, nil)
	v.Init()

	typeText(v, "missing.csv")
	v.Update(submit(t, v)())

	assert.ErrorIs(t, v.Err(), domain.ErrSourceUnavailable)
	assert.Nil(t, v.Last())
	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.Equal(t, "missing.csv", v.input.Value())
}

func TestView_EnterWhileLoading(t *testing.T) {
	svc := &mockDatasetService{}
	v := NewView(nil, svc, nil)
	v.Init()
	typeText(v, "sales.csv")
	submit(t, v)

	assert.Nil(t, submit(t, v))
}

func TestView_Back(t *testing.T) {
	v := NewView(nil, &mockDatasetService{}, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_View(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		assert.Equal(t, "Initialising...", NewView(nil, nil, nil).View())
	})

	t.Run("shows api hint", func(t *testing.T) {
		v := NewView(nil, nil, apiSettings("http://localhost:3000/api/getsales", ""))
		v.SetDimensions(120, 30)

		out := v.View()
		assert.Contains(t, out, "Load data")
		assert.Contains(t, out, "Leave blank to fetch http://localhost:3000/api/getsales")
	})
}

func TestView_Reset(t *testing.T) {
	v := NewView(nil, &mockDatasetService{}, nil)
	v.Init()
	typeText(v, "sales.csv")
	v.Update(submit(t, v)())

	v.Reset()

	assert.Nil(t, v.Last())
	assert.NoError(t, v.Err())
	assert.Equal(t, status.StateReady, v.statusbar.State())
}
