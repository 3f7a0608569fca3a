package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jward/symindex/internal/snapshot"
)

func runDiffMode() error {
	if err := requireFlag("base", flags.base); err != nil {
		return err
	}
	if err := requireFlag("target", flags.target); err != nil {
		return err
	}
	if err := requireFlag("output", flags.output); err != nil {
		return err
	}

	base, err := snapshot.Load(flags.base)
	if err != nil {
		return fmt.Errorf("diff: load base: %w", err)
	}
	target, err := snapshot.Load(flags.target)
	if err != nil {
		return fmt.Errorf("diff: load target: %w", err)
	}

	changes := snapshot.Diff(base, target)

	data, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return fmt.Errorf("diff: marshal: %w", err)
	}
	if err := os.WriteFile(flags.output, data, 0o644); err != nil {
		return fmt.Errorf("diff: write %q: %w", flags.output, err)
	}
	fmt.Printf("wrote %d changes to %s\n", len(changes), flags.output)
	return nil
}
