package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/store"
)

func writeProjectFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestRunIndexesSymbolsAndLinksCalls(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "main.go", `package main

func helper() string {
	return "hi"
}

func main() {
	helper()
}
`)

	dbPath := filepath.Join(t.TempDir(), "index.db")
	summary, err := Run(context.Background(), Options{Project: project, DBPath: dbPath, Concurrency: 2})
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalFiles)
	require.Equal(t, 1, summary.ParsedFiles)
	require.Equal(t, StrategyFullOrIncremental, summary.Strategy)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	helper, err := st.SymbolExactName("helper")
	require.NoError(t, err)
	require.NotNil(t, helper)

	require.NoError(t, st.LinkCalls())
	callers, err := st.CallersOf(helper.CanonicalID, "helper")
	require.NoError(t, err)
	require.Len(t, callers, 1)

	file, err := st.FileByPath("main.go")
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Equal(t, "go", file.Language)
}

func TestRunStoresLanguageAsLowercasedExtension(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "lib.py", "def f():\n    pass\n")

	dbPath := filepath.Join(t.TempDir(), "index.db")
	_, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	file, err := st.FileByPath("lib.py")
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Equal(t, "py", file.Language)
}

func TestRunSecondPassSkipsUnchangedFiles(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "a.go", "package a\n\nfunc F() {}\n")

	dbPath := filepath.Join(t.TempDir(), "index.db")
	_, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)

	summary, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)
	require.Equal(t, 1, summary.SkippedFiles)
	require.Equal(t, 0, summary.ParsedFiles)
}

func TestRunCountsParseErrorsForUnsupportedFiles(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "a.go", "package a\n\nfunc F() {}\n")
	writeProjectFile(t, project, "notes.txt", "not a source file\n")

	dbPath := filepath.Join(t.TempDir(), "index.db")
	summary, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)
	require.Equal(t, 1, summary.ParsedFiles)
	require.Equal(t, float64(1), summary.Metrics["parse_errors"])
}

func TestRunOrphanCleanupRemovesDeletedFiles(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "a.go", "package a\n\nfunc F() {}\n")

	dbPath := filepath.Join(t.TempDir(), "index.db")
	_, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(project, "a.go")))

	summary, err := Run(context.Background(), Options{Project: project, DBPath: dbPath})
	require.NoError(t, err)
	require.Equal(t, 1, summary.OrphansRemoved)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	f, err := st.FileByPath("a.go")
	require.NoError(t, err)
	require.Nil(t, f)
}
