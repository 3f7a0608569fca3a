package main

import (
	"fmt"
	"time"

	"github.com/jward/symindex/internal/snapshot"
	"github.com/jward/symindex/internal/store"
)

func runSnapshotMode() error {
	if err := requireFlag("db", flags.db); err != nil {
		return err
	}
	if err := requireFlag("output", flags.output); err != nil {
		return err
	}

	st, err := store.Open(flags.db)
	if err != nil {
		return fmt.Errorf("snapshot: open store: %w", err)
	}
	defer st.Close()

	snap, err := snapshot.Build(st, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := snapshot.Write(snap, flags.output); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	fmt.Printf("wrote snapshot of %d symbols to %s\n", len(snap.Symbols), flags.output)
	return nil
}
