package impact

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/store"
)

func buildChain(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "impact.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fid, err := st.UpsertFile(&store.File{Path: "f.go", Hash: "h", Language: "go", IndexLevel: store.IndexLevelSymbol})
	require.NoError(t, err)

	mk := func(name string) *store.Symbol {
		sym := &store.Symbol{
			FileID: fid, Name: name, QualifiedName: name,
			CanonicalID: store.CanonicalID(store.KindFunction, "f.go", name),
			Kind:        store.KindFunction, LineStart: 1, LineEnd: 2,
		}
		_, err := st.InsertSymbol(sym)
		require.NoError(t, err)
		return sym
	}

	a := mk("A")
	b := mk("B")
	c := mk("C")

	_, err = st.InsertCall(&store.Call{CallerID: a.ID, CalleeName: "B", CallLine: 1})
	require.NoError(t, err)
	_, err = st.InsertCall(&store.Call{CallerID: b.ID, CalleeName: "C", CallLine: 1})
	require.NoError(t, err)

	require.NoError(t, st.LinkCalls())
	_ = c
	return st
}

func TestBuildAndBFSForward(t *testing.T) {
	st := buildChain(t)
	g, err := Build(st)
	require.NoError(t, err)

	aID := store.CanonicalID(store.KindFunction, "f.go", "A")
	reachable := g.BFS(aID, DirectionForward)

	names := map[string]int{}
	for _, r := range reachable {
		names[ShortName(r.CanonicalID)] = r.Depth
	}
	require.Equal(t, 1, names["B"])
	require.Equal(t, 2, names["C"])
}

func TestBFSBackward(t *testing.T) {
	st := buildChain(t)
	g, err := Build(st)
	require.NoError(t, err)

	cID := store.CanonicalID(store.KindFunction, "f.go", "C")
	reachable := g.BFS(cID, DirectionBackward)

	names := map[string]int{}
	for _, r := range reachable {
		names[ShortName(r.CanonicalID)] = r.Depth
	}
	require.Equal(t, 1, names["B"])
	require.Equal(t, 2, names["A"])
}

func TestRiskBinning(t *testing.T) {
	require.Equal(t, RiskLow, Risk(make([]Reachable, 3)))
	require.Equal(t, RiskMedium, Risk(make([]Reachable, 10)))
	require.Equal(t, RiskHigh, Risk(make([]Reachable, 11)))
}

func TestComplexityScoreDeterministicWithSeededRand(t *testing.T) {
	st := buildChain(t)
	g, err := Build(st)
	require.NoError(t, err)

	aID := store.CanonicalID(store.KindFunction, "f.go", "A")
	score1, level1 := g.Complexity(aID, rand.New(rand.NewSource(42)))
	score2, level2 := g.Complexity(aID, rand.New(rand.NewSource(42)))
	require.Equal(t, score1, score2)
	require.Equal(t, level1, level2)
	require.LessOrEqual(t, score1, 100.0)
}

func TestResolveExactThenLike(t *testing.T) {
	st := buildChain(t)
	sym, err := Resolve(st, "A")
	require.NoError(t, err)
	require.NotNil(t, sym)
	require.Equal(t, "A", sym.Name)

	sym2, err := Resolve(st, "n-existent")
	require.NoError(t, err)
	require.Nil(t, sym2)
}
