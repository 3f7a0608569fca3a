package main

import (
	"fmt"
	"math/rand"

	"github.com/jward/symindex/internal/impact"
	"github.com/jward/symindex/internal/store"
)

type analyzeResult struct {
	Symbol          string                 `json:"symbol"`
	Direction       string                 `json:"direction"`
	DependsOn       []impact.Reachable     `json:"depends_on,omitempty"`
	DependedOnBy    []impact.Reachable     `json:"depended_on_by,omitempty"`
	Risk            impact.RiskLevel       `json:"risk"`
	ComplexityScore float64                `json:"complexity_score"`
	Complexity      impact.ComplexityLevel `json:"complexity"`
}

func runAnalyzeMode() error {
	if err := requireFlag("db", flags.db); err != nil {
		return err
	}
	if err := requireFlag("query", flags.query); err != nil {
		return err
	}
	switch flags.direction {
	case "forward", "backward", "both":
	default:
		return fmt.Errorf("--direction must be forward, backward, or both, got %q", flags.direction)
	}

	st, err := store.Open(flags.db)
	if err != nil {
		return fmt.Errorf("analyze: open store: %w", err)
	}
	defer st.Close()

	target, err := impact.Resolve(st, flags.query)
	if err != nil {
		return fmt.Errorf("analyze: resolve: %w", err)
	}
	if target == nil {
		return writeResult(flags.output, errResult("analyze", fmt.Sprintf("no symbol matching %q", flags.query)))
	}

	graph, err := impact.Build(st)
	if err != nil {
		return fmt.Errorf("analyze: build graph: %w", err)
	}

	var reachable []impact.Reachable
	result := analyzeResult{Symbol: target.CanonicalID, Direction: flags.direction}
	if flags.direction == "forward" || flags.direction == "both" {
		result.DependsOn = graph.BFS(target.CanonicalID, impact.DirectionForward)
		reachable = append(reachable, result.DependsOn...)
	}
	if flags.direction == "backward" || flags.direction == "both" {
		result.DependedOnBy = graph.BFS(target.CanonicalID, impact.DirectionBackward)
		reachable = append(reachable, result.DependedOnBy...)
	}
	result.Risk = impact.Risk(reachable)

	score, level := graph.Complexity(target.CanonicalID, rand.New(rand.NewSource(1)))
	result.ComplexityScore = score
	result.Complexity = level

	return writeResult(flags.output, ok("analyze", result))
}
