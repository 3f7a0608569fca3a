package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jward/symindex/internal/config"
	"github.com/jward/symindex/internal/index"
	"github.com/jward/symindex/internal/ui"
)

func runIndexMode() error {
	if err := requireFlag("project", flags.project); err != nil {
		return err
	}
	if err := requireFlag("db", flags.db); err != nil {
		return err
	}

	projectCfg, err := config.Load(flags.project)
	if err != nil {
		return fmt.Errorf("index: load project config: %w", err)
	}
	extensions, ignoreDirs, scope := config.ApplyDefaults(projectCfg, flags.extensions, flags.ignoreDirs, flags.scope)

	ui.Status("indexing %s", flags.project)

	opts := index.Options{
		Project:    flags.project,
		DBPath:     flags.db,
		Extensions: extensions,
		IgnoreDirs: ignoreDirs,
		Scope:      scope,
		ForceFull:  flags.forceFull,
	}
	if flags.output == "" {
		opts.Progress = os.Stderr
	}

	summary, err := index.Run(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	ui.Status("indexed %d files (%d parsed, %d meta, %d skipped, %d orphans removed) in %dms",
		summary.TotalFiles, summary.ParsedFiles, summary.MetaFiles, summary.SkippedFiles,
		summary.OrphansRemoved, summary.DurationMS)

	return writeResult(flags.output, ok("index", summary))
}
