package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jward/symindex/internal/ui"
)

// runMode dispatches on --mode, the single-executable CLI surface spec.md
// §6 specifies. Missing required flags are reported as fatal usage errors;
// everything else goes through a mode handler that owns its own non-fatal
// "target not found" JSON status.
func runMode(cmd *cobra.Command, args []string) error {
	ui.InitColors(flags.noColor)

	switch flags.mode {
	case "index":
		return runIndexMode()
	case "query":
		return runQueryMode()
	case "map":
		return runMapMode()
	case "structure":
		return runStructureMode()
	case "analyze":
		return runAnalyzeMode()
	case "snapshot":
		return runSnapshotMode()
	case "diff":
		return runDiffMode()
	case "":
		return fmt.Errorf("--mode is required (index|query|map|structure|analyze|snapshot|diff)")
	default:
		return fmt.Errorf("unknown --mode %q (want index|query|map|structure|analyze|snapshot|diff)", flags.mode)
	}
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required for this mode", name)
	}
	return nil
}
