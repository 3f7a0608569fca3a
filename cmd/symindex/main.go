package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var flags struct {
	mode       string
	project    string
	db         string
	extensions []string
	ignoreDirs []string
	scope      string
	forceFull  bool
	output     string
	query      string
	file       string
	line       int
	detail     string
	direction  string
	base       string
	target     string
	noColor    bool
}

var rootCmd = &cobra.Command{
	Use:           "symindex",
	Short:         "Multi-language source-code symbol indexer and impact-analysis engine",
	Long:          "symindex parses source files with tree-sitter, persists symbols and call sites to a local database, and answers fuzzy lookup, structure, and impact-analysis queries.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runMode,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.mode, "mode", "", "index|query|map|structure|analyze|snapshot|diff (required)")
	f.StringVar(&flags.project, "project", "", "project root directory")
	f.StringVar(&flags.db, "db", "", "path to the SQLite database")
	f.StringSliceVar(&flags.extensions, "extensions", nil, "comma-separated extension whitelist (e.g. go,py,ts)")
	f.StringSliceVar(&flags.ignoreDirs, "ignore-dirs", nil, "comma-separated extra directory names to skip")
	f.StringVar(&flags.scope, "scope", "", "restrict to a project sub-path / file-path prefix")
	f.BoolVar(&flags.forceFull, "force-full", false, "force a full re-parse, ignoring bootstrap/incremental strategy")
	f.StringVar(&flags.output, "output", "", "write the JSON result to this path")
	f.StringVar(&flags.query, "query", "", "symbol name/fragment to look up")
	f.StringVar(&flags.file, "file", "", "file path substring, used with --line")
	f.IntVar(&flags.line, "line", 0, "1-based line number, used with --file")
	f.StringVar(&flags.detail, "detail", "summary", "summary|full")
	f.StringVar(&flags.direction, "direction", "both", "forward|backward|both")
	f.StringVar(&flags.base, "base", "", "base snapshot JSON path, for diff")
	f.StringVar(&flags.target, "target", "", "target snapshot JSON path, for diff")
	f.BoolVar(&flags.noColor, "no-color", false, "disable ANSI color output")
}
