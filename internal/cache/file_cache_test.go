package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ranges struct {
	Lo []float64 `json:"lo"`
	Hi []float64 `json:"hi"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	fc := NewFileCache[ranges](t.TempDir())

	_, ok := fc.Get("missing")
	assert.False(t, ok)

	want := ranges{Lo: []float64{1, 2}, Hi: []float64{10, 20}}
	require.NoError(t, fc.Set("k", "/data/scene.tif", want))

	got, ok := fc.Get("k")
	require.True(t, ok)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(filepath.Join(fc.Dir(), "k.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"source":"/data/scene.tif"`)

	require.NoError(t, fc.Delete("k"))
	_, ok = fc.Get("k")
	assert.False(t, ok)
	assert.NoError(t, fc.Delete("k"))
}

func TestFileCacheRejectsTamperedEntry(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache[ranges](dir)
	require.NoError(t, fc.Set("k", "", ranges{Lo: []float64{1}, Hi: []float64{2}}))

	path := filepath.Join(dir, "k.json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := []byte(string(raw[:len(raw)-1]))
	require.NoError(t, os.WriteFile(path, tampered, 0644))

	_, ok := fc.Get("k")
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestFileCacheMaxAge(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache[int](dir)
	require.NoError(t, fc.Set("k", "", 42))

	fc.MaxAge = time.Hour
	_, ok := fc.Get("k")
	assert.True(t, ok)

	fc.MaxAge = time.Nanosecond
	time.Sleep(time.Millisecond)
	_, ok = fc.Get("k")
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "k.json"))
}

func TestFileKeyTracksFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.tif")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	k1, err := FileKey(path, "minmax")
	require.NoError(t, err)
	k2, err := FileKey(path, "percentile")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0644))
	k3, err := FileKey(path, "minmax")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = FileKey(filepath.Join(t.TempDir(), "nope.tif"))
	assert.Error(t, err)
}
