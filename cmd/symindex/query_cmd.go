package main

import (
	"fmt"

	"github.com/jward/symindex/internal/query"
	"github.com/jward/symindex/internal/store"
)

type querySymbolResult struct {
	Symbol     *store.Symbol     `json:"symbol"`
	MatchType  query.MatchType   `json:"match_type,omitempty"`
	Candidates []query.Candidate `json:"candidates,omitempty"`
	Callers    []*store.Call     `json:"callers"`
}

func runQueryMode() error {
	if err := requireFlag("db", flags.db); err != nil {
		return err
	}
	byPosition := flags.file != "" && flags.line > 0
	if flags.query == "" && !byPosition {
		return fmt.Errorf("query mode requires --query or (--file and --line)")
	}

	st, err := store.Open(flags.db)
	if err != nil {
		return fmt.Errorf("query: open store: %w", err)
	}
	defer st.Close()

	engine := query.New(st)

	if byPosition {
		sym, err := engine.LocateByPosition(flags.file, flags.line)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		if sym == nil {
			return writeResult(flags.output, errResult("query", fmt.Sprintf("no symbol at %s:%d", flags.file, flags.line)))
		}
		return writeQuerySymbolResult(engine, sym, "", nil)
	}

	lookup, err := engine.FuzzyLookup(flags.query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if lookup.Top == nil {
		return writeResult(flags.output, errResult("query", fmt.Sprintf("no symbol matching %q", flags.query)))
	}
	return writeQuerySymbolResult(engine, lookup.Top.Symbol, lookup.Top.Type, lookup.Candidates)
}

func writeQuerySymbolResult(engine *query.Engine, sym *store.Symbol, matchType query.MatchType, candidates []query.Candidate) error {
	callers, err := engine.CallersOf(sym)
	if err != nil {
		return fmt.Errorf("query: callers: %w", err)
	}
	return writeResult(flags.output, ok("query", querySymbolResult{
		Symbol: sym, MatchType: matchType, Candidates: candidates, Callers: callers,
	}))
}
