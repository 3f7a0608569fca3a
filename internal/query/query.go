// Package query is the read-only lookup engine (C7): locate-by-position,
// progressive fuzzy symbol match, and caller enumeration.
package query

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jward/symindex/internal/store"
)

// MatchType labels which fuzzy layer produced a candidate.
type MatchType string

const (
	MatchExact         MatchType = "exact"
	MatchPrefixSuffix  MatchType = "prefix_or_suffix"
	MatchContains      MatchType = "contains"
	MatchLevenshtein   MatchType = "levenshtein"
	MatchPrefix4       MatchType = "prefix4"
)

// Candidate is one fuzzy-match result, annotated with its layer and score.
type Candidate struct {
	Symbol *store.Symbol
	Type   MatchType
	Score  float64
}

// LookupResult is the outcome of a progressive fuzzy lookup.
type LookupResult struct {
	Query      string
	Top        *Candidate
	Candidates []Candidate // up to 5, all from the same matching layer
}

// Engine is a read-only handle over the persisted index for query
// resolution.
type Engine struct {
	st *store.Store
}

// New wraps st for query operations.
func New(st *store.Store) *Engine {
	return &Engine{st: st}
}

// LocateByPosition returns the smallest-range symbol in a file whose path
// ends with fileSubstring, covering line. fileSubstring is forward-slash
// normalized before matching.
func (e *Engine) LocateByPosition(fileSubstring string, line int) (*store.Symbol, error) {
	normalized := strings.ReplaceAll(fileSubstring, "\\", "/")
	sym, err := e.st.SymbolContaining(normalized, line)
	if err != nil {
		return nil, fmt.Errorf("locate by position: %w", err)
	}
	return sym, nil
}

// FuzzyLookup runs the five-layer progressive match described in spec.md
// §4.7 against every persisted symbol name, stopping at the first layer
// that yields at least one hit.
func (e *Engine) FuzzyLookup(q string) (*LookupResult, error) {
	all, err := e.st.AllSymbolNames()
	if err != nil {
		return nil, fmt.Errorf("fuzzy lookup: %w", err)
	}

	res := &LookupResult{Query: q}

	// Layer 1: exact match.
	var layer []Candidate
	for _, s := range all {
		if s.Name == q {
			layer = append(layer, Candidate{Symbol: s, Type: MatchExact, Score: 1.0})
		}
	}
	if len(layer) > 0 {
		return finish(res, layer), nil
	}

	// Layer 2: prefix or suffix.
	for _, s := range all {
		if strings.HasPrefix(s.Name, q) || strings.HasSuffix(s.Name, q) {
			layer = append(layer, Candidate{Symbol: s, Type: MatchPrefixSuffix, Score: 0.9})
		}
	}
	if len(layer) > 0 {
		return finish(res, layer), nil
	}

	// Layer 3: contains.
	for _, s := range all {
		if strings.Contains(s.Name, q) {
			layer = append(layer, Candidate{Symbol: s, Type: MatchContains, Score: 0.8})
		}
	}
	if len(layer) > 0 {
		return finish(res, layer), nil
	}

	// Layer 4: Levenshtein distance <= 3, lowercased.
	qLower := strings.ToLower(q)
	var distCands []distCandidate
	for _, s := range all {
		d := levenshtein.ComputeDistance(qLower, strings.ToLower(s.Name))
		if d <= 3 {
			distCands = append(distCands, distCandidate{
				c:    Candidate{Symbol: s, Type: MatchLevenshtein, Score: 1 - float64(d)/4},
				dist: d,
			})
		}
	}
	if len(distCands) > 0 {
		sortByDist(distCands)
		for _, dc := range distCands {
			layer = append(layer, dc.c)
		}
		return finish(res, layer), nil
	}

	// Layer 5: first-4-chars prefix, only if |Q| >= 4.
	if len(q) >= 4 {
		prefix4 := q[:4]
		for _, s := range all {
			if strings.HasPrefix(s.Name, prefix4) {
				layer = append(layer, Candidate{Symbol: s, Type: MatchPrefix4, Score: 0.5})
			}
		}
		if len(layer) > 0 {
			return finish(res, layer), nil
		}
	}

	return res, nil
}

// distCandidate pairs a fuzzy-match candidate with its Levenshtein distance,
// for sorting layer-4 results by closeness.
type distCandidate struct {
	c    Candidate
	dist int
}

func sortByDist(cands []distCandidate) {
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].dist < cands[j-1].dist; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
}

func finish(res *LookupResult, layer []Candidate) *LookupResult {
	if len(layer) > 5 {
		layer = layer[:5]
	}
	res.Candidates = layer
	top := layer[0]
	res.Top = &top
	return res
}

// CallersOf enumerates direct callers of sym: call edges whose callee_id
// equals sym's canonical id, or whose callee_id is unresolved but whose raw
// callee_name equals sym's short name.
func (e *Engine) CallersOf(sym *store.Symbol) ([]*store.Call, error) {
	calls, err := e.st.CallersOf(sym.CanonicalID, sym.Name)
	if err != nil {
		return nil, fmt.Errorf("callers of: %w", err)
	}
	return calls, nil
}
