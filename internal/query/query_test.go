package query

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "q.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedFile(t *testing.T, st *store.Store, path string) int64 {
	t.Helper()
	f := &store.File{Path: path, Hash: "h", Language: "go", IndexLevel: store.IndexLevelSymbol}
	id, err := st.UpsertFile(f)
	require.NoError(t, err)
	return id
}

func seedSymbol(t *testing.T, st *store.Store, fileID int64, name string, lineStart, lineEnd int) *store.Symbol {
	t.Helper()
	sym := &store.Symbol{
		FileID: fileID, Name: name, QualifiedName: name,
		CanonicalID: store.CanonicalID(store.KindFunction, "f.go", name),
		Kind:        store.KindFunction, LineStart: lineStart, LineEnd: lineEnd,
	}
	_, err := st.InsertSymbol(sym)
	require.NoError(t, err)
	return sym
}

func TestLocateByPosition(t *testing.T) {
	st := newTestStore(t)
	fid := seedFile(t, st, "pkg/f.go")
	seedSymbol(t, st, fid, "Outer", 1, 20)
	seedSymbol(t, st, fid, "Inner", 5, 10)

	e := New(st)
	sym, err := e.LocateByPosition("f.go", 7)
	require.NoError(t, err)
	require.NotNil(t, sym)
	require.Equal(t, "Inner", sym.Name)
}

func TestFuzzyLookupExactBeatsEverythingElse(t *testing.T) {
	st := newTestStore(t)
	fid := seedFile(t, st, "f.go")
	seedSymbol(t, st, fid, "Parse", 1, 2)
	seedSymbol(t, st, fid, "ParseFile", 3, 4)

	e := New(st)
	res, err := e.FuzzyLookup("Parse")
	require.NoError(t, err)
	require.Equal(t, MatchExact, res.Top.Type)
	require.Equal(t, "Parse", res.Top.Symbol.Name)
	require.Len(t, res.Candidates, 1)
}

func TestFuzzyLookupLevenshteinLayer(t *testing.T) {
	st := newTestStore(t)
	fid := seedFile(t, st, "f.go")
	seedSymbol(t, st, fid, "Widget", 1, 2)

	e := New(st)
	res, err := e.FuzzyLookup("Widgt") // 1 deletion from "Widget"
	require.NoError(t, err)
	require.Equal(t, MatchLevenshtein, res.Top.Type)
}

func TestFuzzyLookupNoMatch(t *testing.T) {
	st := newTestStore(t)
	e := New(st)
	res, err := e.FuzzyLookup("Zzzzzzz")
	require.NoError(t, err)
	require.Nil(t, res.Top)
	require.Empty(t, res.Candidates)
}

func TestCallersOfFallsBackToNameMatch(t *testing.T) {
	st := newTestStore(t)
	fid := seedFile(t, st, "f.go")
	callee := seedSymbol(t, st, fid, "Target", 1, 2)
	caller := seedSymbol(t, st, fid, "Caller", 3, 10)

	_, err := st.InsertCall(&store.Call{CallerID: caller.ID, CalleeName: "Target", CallLine: 5})
	require.NoError(t, err)

	e := New(st)
	calls, err := e.CallersOf(callee)
	require.NoError(t, err)
	require.Len(t, calls, 1)
}
