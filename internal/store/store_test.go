package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVMissingFileReadsEmpty(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	_, ok := kv.Get("LAST_DEPLOYMENT")
	assert.False(t, ok)
}

func TestFileKVSetGetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	kv := NewFileKV(path)
	require.NoError(t, kv.Set("LAST_DEPLOYMENT", `{"chainId":31337}`))

	reopened := NewFileKV(path)
	v, ok := reopened.Get("LAST_DEPLOYMENT")
	require.True(t, ok)
	assert.Equal(t, `{"chainId":31337}`, v)
}

func TestFileKVRemove(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("b", "2"))

	require.NoError(t, kv.Remove("a"))
	require.NoError(t, kv.Remove("does-not-exist"))

	_, ok := kv.Get("a")
	assert.False(t, ok)
	v, ok := kv.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestFileKVCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	kv := NewFileKV(path)
	_, ok := kv.Get("x")
	assert.False(t, ok)

	// A write replaces the corrupt content.
	require.NoError(t, kv.Set("x", "y"))
	v, ok := kv.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestFileKVPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	kv := NewFileKV(path)
	require.NoError(t, kv.Set("k", "v"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMemKV(t *testing.T) {
	kv := NewMemKV()
	require.NoError(t, kv.Set("k", "v"))
	v, ok := kv.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	require.NoError(t, kv.Remove("k"))
	_, ok = kv.Get("k")
	assert.False(t, ok)
}
