package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_GetMissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "storage.toml"))

	value, ok, err := f.Get("favorites")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestFile_SetCreatesDirsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.toml")
	f := NewFile(path)

	require.NoError(t, f.Set("favorites", "[1,2,3]"))
	require.NoError(t, f.Set("other", "x"))

	reopened := NewFile(path)
	value, ok, err := reopened.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,2,3]", value)

	value, ok, err = reopened.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", value)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.toml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not toml"), 0o644))
	f := NewFile(path)

	_, _, err := f.Get("favorites")
	require.Error(t, err)

	require.NoError(t, f.Set("favorites", "[]"))
	value, ok, err := f.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemory(map[string]string{"favorites": "[4]"})
	m.FailWrites = true

	require.ErrorIs(t, m.Set("favorites", "[5]"), ErrUnavailable)

	value, ok, err := m.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[4]", value)
}
