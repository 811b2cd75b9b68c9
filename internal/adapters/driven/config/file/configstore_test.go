package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.url", "http://localhost:8080/api/getsales"))

	val, ok := store.Get("api.url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080/api/getsales", val)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "memory"))
	require.NoError(t, store.Set("table.page_size", 10))

	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, "", store.GetString("table.page_size"), "wrong type")
}

func TestConfigStore_GetInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("table.page_size", 25))
	store.mu.Lock()
	store.data["api.timeout_seconds"] = int64(30)
	store.mu.Unlock()

	assert.Equal(t, 25, store.GetInt("table.page_size"))
	assert.Equal(t, 30, store.GetInt("api.timeout_seconds"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.requests_per_second", 2.5))
	require.NoError(t, store.Set("whole", 3))
	require.NoError(t, store.Set("text", "2.5"))

	assert.InDelta(t, 2.5, store.GetFloat("api.requests_per_second"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("whole"), 1e-9)
	assert.Zero(t, store.GetFloat("text"))
	assert.Zero(t, store.GetFloat("nonexistent"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("table.page_size", 25))
	require.NoError(t, store1.Set("api.url", "http://localhost:8080/api/getsales"))
	require.NoError(t, store1.Set("api.requests_per_second", 4.0))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[table]")
	assert.Contains(t, string(raw), "[api]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 25, store2.GetInt("table.page_size"))
	assert.Equal(t, "http://localhost:8080/api/getsales", store2.GetString("api.url"))
	assert.InDelta(t, 4.0, store2.GetFloat("api.requests_per_second"), 1e-9)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[table]
page_size = 50

[api]
url = "http://example.test/api/getsales"
requests_per_second = 1
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 50, store.GetInt("table.page_size"))
	assert.Equal(t, "http://example.test/api/getsales", store.GetString("api.url"))
	assert.InDelta(t, 1.0, store.GetFloat("api.requests_per_second"), 1e-9)
	assert.Equal(t, []string{"api.requests_per_second", "api.url", "table.page_size"}, store.Keys())
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "secret"))
	require.NoError(t, store.Delete("api.token"))
	require.NoError(t, store.Delete("api.token"))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store2.Get("api.token")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"table": map[string]any{"page_size": int64(10)},
		"top":   "x",
	}, "")

	assert.Equal(t, map[string]any{"table.page_size": int64(10), "top": "x"}, flat)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"table.page_size": 10,
		"api.url":         "u",
		"api.token":       "t",
		"plain":           true,
	})

	assert.Equal(t, map[string]any{
		"table": map[string]any{"page_size": 10},
		"api":   map[string]any{"url": "u", "token": "t"},
		"plain": true,
	}, nested)
}

func TestNestMap_ConflictStaysFlat(t *testing.T) {
	nested := nestMap(map[string]any{
		"api":     "plain",
		"api.url": "u",
	})

	assert.Equal(t, map[string]any{"api": "plain", "api.url": "u"}, nested)
	assert.Equal(t, map[string]any{"api": "plain", "api.url": "u"}, flattenMap(nested, ""))
}
