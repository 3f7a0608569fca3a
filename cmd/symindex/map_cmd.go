package main

import (
	"fmt"

	"github.com/jward/symindex/internal/store"
	"github.com/jward/symindex/internal/structure"
)

func runMapMode() error {
	if err := requireFlag("db", flags.db); err != nil {
		return err
	}

	st, err := store.Open(flags.db)
	if err != nil {
		return fmt.Errorf("map: open store: %w", err)
	}
	defer st.Close()

	result, err := structure.Map(st, flags.scope)
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	return writeResult(flags.output, ok("map", result))
}
