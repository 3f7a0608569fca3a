package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetFlags() {
	flags.mode = ""
	flags.project = ""
	flags.db = ""
	flags.extensions = nil
	flags.ignoreDirs = nil
	flags.scope = ""
	flags.forceFull = false
	flags.output = ""
	flags.query = ""
	flags.file = ""
	flags.line = 0
	flags.detail = "summary"
	flags.direction = "both"
	flags.base = ""
	flags.target = ""
	flags.noColor = true
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestRunIndexModeThenQueryMode(t *testing.T) {
	resetFlags()
	project := t.TempDir()
	writeProjectFile(t, project, "main.go", `package main

func Helper() {}

func Main() {
	Helper()
}
`)

	flags.project = project
	flags.db = filepath.Join(t.TempDir(), "idx.db")
	flags.output = filepath.Join(t.TempDir(), "index_result.json")
	require.NoError(t, runIndexMode())

	data, err := os.ReadFile(flags.output)
	require.NoError(t, err)
	var result Result
	require.NoError(t, json.Unmarshal(data, &result))
	require.Equal(t, "ok", result.Status)

	queryDB := flags.db
	resetFlags()
	flags.db = queryDB
	flags.query = "Helper"
	flags.output = filepath.Join(t.TempDir(), "query_result.json")
	require.NoError(t, runQueryMode())

	data, err = os.ReadFile(flags.output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))
	require.Equal(t, "ok", result.Status)
}

func TestRunIndexModeMissingRequiredFlags(t *testing.T) {
	resetFlags()
	err := runIndexMode()
	require.Error(t, err)
}

func TestRunQueryModeRequiresQueryOrPosition(t *testing.T) {
	resetFlags()
	flags.db = filepath.Join(t.TempDir(), "idx.db")
	err := runQueryMode()
	require.Error(t, err)
}

func TestRunAnalyzeModeRejectsBadDirection(t *testing.T) {
	resetFlags()
	flags.db = filepath.Join(t.TempDir(), "idx.db")
	flags.query = "Foo"
	flags.direction = "sideways"
	err := runAnalyzeMode()
	require.Error(t, err)
}
