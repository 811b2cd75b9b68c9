package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testSnapshot(id string, createdAt time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		ID: id,
		Source: domain.Source{
			Type:     domain.SourceTypeAPI,
			Location: "http://localhost:8080/api/getsales",
			Config:   map[string]string{"token": "secret"},
		},
		Payload: map[string]any{
			"data": []any{
				map[string]any{"product_name": "Wireless Mouse", "rating": 4.5, "review_count": 120},
				map[string]any{"Product Name": "Desk Lamp", "Discount": "15"},
			},
		},
		RowCount:  2,
		CreatedAt: createdAt,
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, DatabaseFile)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".salesboard", "data", DatabaseFile), store.Path())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var tableExists int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "snapshots",
	).Scan(&tableExists)
	require.NoError(t, err)
	assert.Equal(t, 1, tableExists)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SnapshotStore().Save(context.Background(), testSnapshot("snap-1", time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.SnapshotStore().Get(context.Background(), "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "snap-1", got.ID)
}

func TestStore_Migrate_RunsInVersionOrder(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"003_third.up.sql":    {Data: []byte("CREATE TABLE third (x INTEGER);")},
		"002_second.up.sql":   {Data: []byte("CREATE TABLE second (x INTEGER);")},
		"002_second.down.sql": {Data: []byte("DROP TABLE second;")},
		"notes.txt":           {Data: []byte("ignored")},
	}

	require.NoError(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 3, version)

	// Running again is a no-op.
	require.NoError(t, store.migrate(fsys))
}

func TestStore_Migrate_BadSQL(t *testing.T) {
	store := setupTestStore(t)

	err := store.migrate(fstest.MapFS{"009_broken.up.sql": {Data: []byte("NOT SQL")}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "009_broken.up.sql")
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== SnapshotStore Tests ====================

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-1", created)))

	got, err := snapshots.Get(ctx, "snap-1")
	require.NoError(t, err)
	assert.Equal(t, "snap-1", got.ID)
	assert.Equal(t, domain.SourceTypeAPI, got.Source.Type)
	assert.Equal(t, "http://localhost:8080/api/getsales", got.Source.Location)
	assert.Equal(t, "secret", got.Source.Config["token"])
	assert.Equal(t, 2, got.RowCount)
	assert.True(t, created.Equal(got.CreatedAt), "created %v got %v", created, got.CreatedAt)

	wrapper, ok := got.Payload.(map[string]any)
	require.True(t, ok)
	rows, ok := wrapper["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Wireless Mouse", first["product_name"])
	assert.Equal(t, json.Number("4.5"), first["rating"])
	assert.Equal(t, json.Number("120"), first["review_count"])
}

func TestSnapshotStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SnapshotStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_Latest(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	_, err := snapshots.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now()
	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-1", now)))
	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-2", now)))

	latest, err := snapshots.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-2", latest.ID)
}

func TestSnapshotStore_SaveReplaceKeepsPosition(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-1", now)))
	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-2", now)))
	replaced := testSnapshot("snap-1", now)
	replaced.RowCount = 7
	require.NoError(t, snapshots.Save(ctx, replaced))

	list, err := snapshots.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "snap-2", list[0].ID)
	assert.Equal(t, "snap-1", list[1].ID)
	assert.Equal(t, 7, list[1].RowCount)
}

func TestSnapshotStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	list, err := store.SnapshotStore().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSnapshotStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	require.NoError(t, snapshots.Save(ctx, testSnapshot("snap-1", time.Now())))
	require.NoError(t, snapshots.Delete(ctx, "snap-1"))
	require.NoError(t, snapshots.Delete(ctx, "snap-1"))

	_, err := snapshots.Get(ctx, "snap-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_NilConfigAndListPayload(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	snapshot := &domain.Snapshot{
		ID:        "snap-file",
		Source:    domain.Source{Type: domain.SourceTypeFile, Location: "sales.csv"},
		Payload:   []any{map[string]any{"product_name": "Chair"}, nil},
		RowCount:  2,
		CreatedAt: time.Now(),
	}
	require.NoError(t, snapshots.Save(ctx, snapshot))

	got, err := snapshots.Get(ctx, "snap-file")
	require.NoError(t, err)
	assert.Nil(t, got.Source.Config)
	rows, ok := got.Payload.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)
	assert.Nil(t, rows[1])
}

func TestSnapshotStore_UnmarshallablePayload(t *testing.T) {
	store := setupTestStore(t)

	snapshot := testSnapshot("bad", time.Now())
	snapshot.Payload = make(chan int)

	err := store.SnapshotStore().Save(context.Background(), snapshot)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "marshalling payload")
}

func TestSnapshotStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SnapshotStore().Save(ctx, testSnapshot("snap-1", time.Now())))
	require.NoError(t, first.Close())

	_, err = os.Stat(filepath.Join(dir, DatabaseFile))
	require.NoError(t, err)

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	latest, err := second.SnapshotStore().Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", latest.ID)
}
