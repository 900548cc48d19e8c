package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore(t *testing.T) {
	t.Run("creates config directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", ".uscode")

		store, err := NewConfigStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	})

	t.Run("starts empty without a config file", func(t *testing.T) {
		store := newTestStore(t)

		_, ok := store.Get("fetch.data_dir")
		assert.False(t, ok)
		assert.Equal(t, "", store.GetString("fetch.release_base"))
	})

	t.Run("loads existing config file", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[fetch]
data_dir = "/var/lib/uscode/data"
release_base = "https://uscode.house.gov/download/releasepoints/us/pl/119/12"

[extract]
cache_size = 16
watch = true
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

		store, err := NewConfigStore(dir)
		require.NoError(t, err)

		assert.Equal(t, "/var/lib/uscode/data", store.GetString("fetch.data_dir"))
		assert.Equal(t,
			"https://uscode.house.gov/download/releasepoints/us/pl/119/12",
			store.GetString("fetch.release_base"))
		assert.Equal(t, 16, store.GetInt("extract.cache_size"))
		assert.True(t, store.GetBool("extract.watch"))
	})

	t.Run("rejects malformed config file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[fetch\n"), 0600))

		_, err := NewConfigStore(dir)
		assert.Error(t, err)
	})
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("fetch.data_dir", "/tmp/uscode"))
	require.NoError(t, store.Set("extract.cache_size", 4))

	// A second store reading the same file sees the values.
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/uscode", reopened.GetString("fetch.data_dir"))
	assert.Equal(t, 4, reopened.GetInt("extract.cache_size"))
}

func TestConfigStore_Get(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("output.format", "csv"))

	val, ok := store.Get("output.format")
	assert.True(t, ok)
	assert.Equal(t, "csv", val)

	_, ok = store.Get("output.missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("fetch.release_base", "http://localhost:8080/release"))
	require.NoError(t, store.Set("extract.cache_size", 8))

	assert.Equal(t, "http://localhost:8080/release", store.GetString("fetch.release_base"))
	assert.Equal(t, "", store.GetString("extract.cache_size"), "non-string value reads as empty")
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("extract.workers", 6))
	require.NoError(t, store.Set("fetch.data_dir", "/data"))

	assert.Equal(t, 6, store.GetInt("extract.workers"))
	assert.Equal(t, 0, store.GetInt("fetch.data_dir"), "non-int value reads as zero")
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetInt_Int64FromFile(t *testing.T) {
	// TOML integers unmarshal as int64; GetInt converts.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[extract]\ncache_size = 32\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 32, store.GetInt("extract.cache_size"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("extract.watch", true))
	require.NoError(t, store.Set("output.format", "json"))

	assert.True(t, store.GetBool("extract.watch"))
	assert.False(t, store.GetBool("output.format"), "non-bool value reads as false")
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[fetch]\ntitles = [\"05\", \"18\", \"50A\"]\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"05", "18", "50A"}, store.GetStringSlice("fetch.titles"))
	assert.Nil(t, store.GetStringSlice("missing"))
	assert.Nil(t, store.GetStringSlice("fetch.data_dir"))
}

func TestConfigStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("fetch.data_dir", "/srv/uscode"))
	require.NoError(t, store.Save())

	require.NoError(t, store.Load())
	assert.Equal(t, "/srv/uscode", store.GetString("fetch.data_dir"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("fetch.data_dir", "/data"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"fetch": map[string]any{
			"data_dir": "/data",
			"http": map[string]any{
				"timeout": int64(30),
			},
		},
		"verbose": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{
		"fetch.data_dir":     "/data",
		"fetch.http.timeout": int64(30),
		"verbose":            true,
	}, flat)
}
