// Package structure implements the C10 map/structure views: a per-file
// symbol map read from the store, and a filesystem-only directory scan
// that never parses source.
package structure

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jward/symindex/internal/store"
	"github.com/jward/symindex/internal/walk"
)

// MapEntry is one symbol row in the per-file map view.
type MapEntry struct {
	CanonicalID string `json:"canonical_id"`
	Name        string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	Kind        string `json:"kind"`
	LineStart   int    `json:"line_start"`
	LineEnd     int    `json:"line_end"`
	Signature   string `json:"signature,omitempty"`
}

// FileMap is one file's symbol listing.
type FileMap struct {
	Path    string      `json:"path"`
	Symbols []MapEntry  `json:"symbols"`
}

// MapResult is the full per-file map view, with totals.
type MapResult struct {
	Files       []FileMap `json:"files"`
	TotalFiles  int       `json:"total_files"`
	TotalSymbols int      `json:"total_symbols"`
}

// Map builds the per-file symbol map, restricted to files under scope
// (a `file_path LIKE '<scope>%'` prefix) when scope is non-empty.
func Map(st *store.Store, scope string) (*MapResult, error) {
	rows, err := st.SymbolsByFileScope(scope)
	if err != nil {
		return nil, fmt.Errorf("structure: map: %w", err)
	}

	result := &MapResult{Files: make([]FileMap, 0, len(rows))}
	for _, r := range rows {
		fm := FileMap{Path: r.Path, Symbols: make([]MapEntry, 0, len(r.Symbols))}
		for _, s := range r.Symbols {
			fm.Symbols = append(fm.Symbols, MapEntry{
				CanonicalID:   s.CanonicalID,
				Name:          s.Name,
				QualifiedName: s.QualifiedName,
				Kind:          s.Kind,
				LineStart:     s.LineStart,
				LineEnd:       s.LineEnd,
				Signature:     s.Signature,
			})
		}
		result.Files = append(result.Files, fm)
		result.TotalSymbols += len(fm.Symbols)
	}
	result.TotalFiles = len(result.Files)
	return result, nil
}

// DirEntry is one directory's aggregate in the structure scan.
type DirEntry struct {
	Path      string   `json:"path"`
	FileCount int      `json:"file_count"`
	Files     []string `json:"files,omitempty"`
}

// ScanResult is the full filesystem-only structure scan.
type ScanResult struct {
	Directories []DirEntry `json:"directories"`
	TotalFiles  int        `json:"total_files"`
}

// filesPerDirDetailFull caps the per-directory filename listing at
// detail=full, per spec.md's "first 50 filenames per directory".
const filesPerDirDetailFull = 50

// Options configures a structure scan.
type Options struct {
	Scope           string
	Extensions      []string
	ExtraIgnoreDirs []string
	// Full lists up to the first 50 filenames per directory; otherwise
	// only per-directory counts are returned.
	Full bool
}

// Scan walks root's filesystem (no parsing) and aggregates per-directory
// file counts, honoring the same ignore-directory set as the indexer's
// walker.
func Scan(root string, opts Options) (*ScanResult, error) {
	paths, err := walk.Walk(root, walk.Options{
		Scope:           opts.Scope,
		ExtraIgnoreDirs: opts.ExtraIgnoreDirs,
		Extensions:      opts.Extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("structure: scan: %w", err)
	}

	byDir := map[string][]string{}
	var dirOrder []string
	for _, p := range paths {
		dir := filepath.ToSlash(filepath.Dir(p))
		if dir == "." {
			dir = ""
		}
		if _, ok := byDir[dir]; !ok {
			dirOrder = append(dirOrder, dir)
		}
		byDir[dir] = append(byDir[dir], filepath.Base(p))
	}
	sort.Strings(dirOrder)

	result := &ScanResult{Directories: make([]DirEntry, 0, len(dirOrder)), TotalFiles: len(paths)}
	for _, dir := range dirOrder {
		files := byDir[dir]
		sort.Strings(files)
		entry := DirEntry{Path: dir, FileCount: len(files)}
		if opts.Full {
			if len(files) > filesPerDirDetailFull {
				entry.Files = files[:filesPerDirDetailFull]
			} else {
				entry.Files = files
			}
		}
		result.Directories = append(result.Directories, entry)
	}
	return result, nil
}
