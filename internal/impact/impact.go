// Package impact is the call-graph impact analyzer (C8): in-memory graph
// construction, bidirectional BFS reachability, and a damped random-walk
// complexity score.
package impact

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jward/symindex/internal/store"
)

const (
	walkCount     = 1000
	walkMaxLength = 10
	continueProb  = 0.85

	scoreCoverageWeight  = 0.5
	scoreOutDegreeWeight = 2.0
	scoreInDegreeWeight  = 1.0
	scoreCap             = 100.0
)

// Direction selects which adjacency the analyzer traverses.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Graph is the in-memory call graph keyed by canonical id.
type Graph struct {
	forward map[string][]string // caller -> [callee]
	reverse map[string][]string // callee -> [caller]
}

// Build hydrates a Graph from every persisted symbol and call. A call with
// a resolved callee_id uses it directly; an unresolved call expands to
// every canonical id sharing the callee's short name (ambiguous -> multi-edge).
func Build(st *store.Store) (*Graph, error) {
	symbols, err := st.AllSymbolNames()
	if err != nil {
		return nil, fmt.Errorf("impact: load symbols: %w", err)
	}
	byID := make(map[int64]*store.Symbol, len(symbols))
	byName := make(map[string][]string, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
		byName[s.Name] = append(byName[s.Name], s.CanonicalID)
	}

	calls, err := st.AllCalls()
	if err != nil {
		return nil, fmt.Errorf("impact: load calls: %w", err)
	}

	g := &Graph{forward: map[string][]string{}, reverse: map[string][]string{}}
	for _, c := range calls {
		caller, ok := byID[c.CallerID]
		if !ok {
			continue
		}
		var callees []string
		if c.CalleeID != nil {
			callees = []string{*c.CalleeID}
		} else {
			callees = byName[c.CalleeName]
		}
		for _, callee := range callees {
			g.forward[caller.CanonicalID] = append(g.forward[caller.CanonicalID], callee)
			g.reverse[callee] = append(g.reverse[callee], caller.CanonicalID)
		}
	}
	return g, nil
}

// Resolve finds the target symbol for an impact query: exact name match,
// else name LIKE %q% or qualified_name LIKE %q%, first row.
func Resolve(st *store.Store, q string) (*store.Symbol, error) {
	exact, err := st.SymbolExactName(q)
	if err != nil {
		return nil, fmt.Errorf("impact: resolve exact: %w", err)
	}
	if exact != nil {
		return exact, nil
	}
	matches, err := st.SymbolsLike(q)
	if err != nil {
		return nil, fmt.Errorf("impact: resolve like: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// Reachable is one BFS hit: a canonical id at a given depth (1 = direct,
// 2-3 = indirect).
type Reachable struct {
	CanonicalID string
	Depth       int
}

// RiskLevel bins total reachable count per spec's thresholds.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BFS performs breadth-first reachability to depth 3 from target, following
// forward or reverse adjacency per dir.
func (g *Graph) BFS(target string, dir Direction) []Reachable {
	adj := g.reverse
	if dir == DirectionForward {
		adj = g.forward
	}

	visited := map[string]bool{target: true}
	var out []Reachable
	frontier := []string{target}
	for depth := 1; depth <= 3 && len(frontier) > 0; depth++ {
		var next []string
		for _, node := range frontier {
			for _, neighbor := range adj[node] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				out = append(out, Reachable{CanonicalID: neighbor, Depth: depth})
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return out
}

// Risk classifies a reachability set: total = |direct| + |indirect|.
func Risk(reachable []Reachable) RiskLevel {
	total := len(reachable)
	switch {
	case total <= 3:
		return RiskLow
	case total <= 10:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ComplexityLevel bins a numeric complexity score.
type ComplexityLevel string

const (
	ComplexitySimple  ComplexityLevel = "Simple"
	ComplexityMedium  ComplexityLevel = "Medium"
	ComplexityHigh    ComplexityLevel = "High"
	ComplexityExtreme ComplexityLevel = "Extreme"
)

// Complexity runs the damped random walk on the forward graph from target
// and returns the bounded complexity score, always computed on the forward
// adjacency regardless of the query's chosen Direction.
func (g *Graph) Complexity(target string, rng *rand.Rand) (float64, ComplexityLevel) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	visitCounts := map[string]int{}
	for i := 0; i < walkCount; i++ {
		node := target
		for step := 0; step < walkMaxLength; step++ {
			neighbors := g.forward[node]
			if len(neighbors) == 0 {
				break
			}
			node = neighbors[rng.Intn(len(neighbors))]
			visitCounts[node]++
			if rng.Float64() > continueProb {
				break
			}
		}
	}

	coverage := float64(len(visitCounts))
	outDegree := float64(len(g.forward[target]))
	inDegree := float64(len(g.reverse[target]))

	score := scoreCoverageWeight*coverage + scoreOutDegreeWeight*outDegree + scoreInDegreeWeight*inDegree
	if score > scoreCap {
		score = scoreCap
	}

	var level ComplexityLevel
	switch {
	case score < 20:
		level = ComplexitySimple
	case score < 50:
		level = ComplexityMedium
	case score < 80:
		level = ComplexityHigh
	default:
		level = ComplexityExtreme
	}
	return score, level
}

// ShortName extracts the short symbol name from a canonical id
// ("<prefix>:<path>::<name>"), for presenting reachable ids to callers.
func ShortName(canonicalID string) string {
	idx := strings.LastIndex(canonicalID, "::")
	if idx == -1 {
		return canonicalID
	}
	return canonicalID[idx+2:]
}
