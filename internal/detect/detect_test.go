package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/store"
)

func TestCheckFirstObservation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	res, err := Check(path, nil)
	require.NoError(t, err)
	require.False(t, res.Skip)
	require.False(t, res.Existed)
	require.NotEmpty(t, res.Hash)
}

func TestCheckMetadataFastPathSkip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	prior := &store.File{
		Size:       info.Size(),
		Mtime:      info.ModTime().Unix(),
		IndexLevel: store.IndexLevelSymbol,
		Hash:       "stale-hash-never-read",
	}

	res, err := Check(path, prior)
	require.NoError(t, err)
	require.True(t, res.Skip)
	require.Equal(t, prior.Hash, res.Hash)
}

func TestCheckHashPathSkipWhenContentUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	first, err := Check(path, nil)
	require.NoError(t, err)

	// Simulate mtime drift (e.g. a checkout) without content change: the
	// metadata fast path can no longer apply, but the hash still matches.
	prior := &store.File{
		Size:       first.Size,
		Mtime:      first.Mtime - 1,
		IndexLevel: store.IndexLevelSymbol,
		Hash:       first.Hash,
	}

	res, err := Check(path, prior)
	require.NoError(t, err)
	require.True(t, res.Skip)
}

func TestCheckChangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))
	first, err := Check(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package a\n\nfunc F() {}\n"), 0o644))
	prior := &store.File{Size: first.Size, Mtime: first.Mtime - 1, IndexLevel: store.IndexLevelSymbol, Hash: first.Hash}

	res, err := Check(path, prior)
	require.NoError(t, err)
	require.False(t, res.Skip)
	require.NotEqual(t, first.Hash, res.Hash)
}

func TestMetaHash(t *testing.T) {
	require.Equal(t, "meta:10:20", MetaHash(10, 20))
}
