package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/store"
)

func newSeededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fid, err := st.UpsertFile(&store.File{Path: "f.go", Hash: "h", Language: "go", IndexLevel: store.IndexLevelSymbol})
	require.NoError(t, err)

	sym := &store.Symbol{
		FileID: fid, Name: "F", QualifiedName: "F",
		CanonicalID: store.CanonicalID(store.KindFunction, "f.go", "F"),
		Kind:        store.KindFunction, LineStart: 1, LineEnd: 3, Signature: "func F() {",
	}
	_, err = st.InsertSymbol(sym)
	require.NoError(t, err)

	_, err = st.InsertCall(&store.Call{CallerID: sym.ID, CalleeName: "Helper", CallLine: 2})
	require.NoError(t, err)

	return st
}

func TestBuildSnapshot(t *testing.T) {
	st := newSeededStore(t)
	snap, err := Build(st, 1000)
	require.NoError(t, err)

	id := store.CanonicalID(store.KindFunction, "f.go", "F")
	entry, ok := snap.Symbols[id]
	require.True(t, ok)
	require.Equal(t, "F", entry.Name)
	require.Equal(t, "f.go", entry.FilePath)
	require.Equal(t, []string{"Helper"}, entry.Calls)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	st := newSeededStore(t)
	snap, err := Build(st, 1000)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, Write(snap, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, snap.ExportedAt, loaded.ExportedAt)
	require.Equal(t, len(snap.Symbols), len(loaded.Symbols))
}

func TestDiffAddedRemovedModified(t *testing.T) {
	base := &Snapshot{Symbols: map[string]Entry{
		"func:f.go::Gone":      {Name: "Gone", FilePath: "f.go", SymbolType: "function", LineStart: 1, Calls: nil},
		"func:f.go::Changed":   {Name: "Changed", FilePath: "f.go", SymbolType: "function", LineStart: 5, Calls: []string{"A"}},
		"func:f.go::Unchanged": {Name: "Unchanged", FilePath: "f.go", SymbolType: "function", LineStart: 9, Calls: []string{"A"}},
	}}
	target := &Snapshot{Symbols: map[string]Entry{
		"func:f.go::Changed":   {Name: "Changed", FilePath: "f.go", SymbolType: "function", LineStart: 5, Calls: []string{"A", "B"}},
		"func:f.go::Unchanged": {Name: "Unchanged", FilePath: "f.go", SymbolType: "function", LineStart: 9, Calls: []string{"A"}},
		"func:f.go::New":       {Name: "New", FilePath: "f.go", SymbolType: "function", LineStart: 20, Calls: nil},
	}}

	changes := Diff(base, target)
	byID := map[string]Change{}
	for _, c := range changes {
		byID[c.CanonicalID] = c
	}

	require.Equal(t, ChangeRemoved, byID["func:f.go::Gone"].Kind)
	require.Equal(t, ChangeModified, byID["func:f.go::Changed"].Kind)
	require.Equal(t, ChangeAdded, byID["func:f.go::New"].Kind)
	require.Contains(t, byID["func:f.go::Changed"].Message, `Added calls: ["B"]`)
	_, unchangedPresent := byID["func:f.go::Unchanged"]
	require.False(t, unchangedPresent)
}

func TestDiffModifiedMessageReportsRemovedCalls(t *testing.T) {
	base := &Snapshot{Symbols: map[string]Entry{
		"func:a.py::foo": {Name: "foo", FilePath: "a.py", SymbolType: "function", LineStart: 1, Calls: []string{"bar"}},
	}}
	target := &Snapshot{Symbols: map[string]Entry{
		"func:a.py::foo": {Name: "foo", FilePath: "a.py", SymbolType: "function", LineStart: 1, Calls: nil},
	}}

	changes := Diff(base, target)
	require.Len(t, changes, 1)
	require.Equal(t, ChangeModified, changes[0].Kind)
	require.Contains(t, changes[0].Message, `Removed calls: ["bar"]`)
}
