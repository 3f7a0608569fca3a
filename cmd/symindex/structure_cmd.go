package main

import (
	"fmt"

	"github.com/jward/symindex/internal/config"
	"github.com/jward/symindex/internal/structure"
)

func runStructureMode() error {
	if err := requireFlag("project", flags.project); err != nil {
		return err
	}

	projectCfg, err := config.Load(flags.project)
	if err != nil {
		return fmt.Errorf("structure: load project config: %w", err)
	}
	extensions, ignoreDirs, scope := config.ApplyDefaults(projectCfg, flags.extensions, flags.ignoreDirs, flags.scope)

	result, err := structure.Scan(flags.project, structure.Options{
		Scope:           scope,
		Extensions:      extensions,
		ExtraIgnoreDirs: ignoreDirs,
		Full:            flags.detail == "full",
	})
	if err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	return writeResult(flags.output, ok("structure", result))
}
