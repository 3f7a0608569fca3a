// Package walk discovers candidate source files under a project root (C2):
// git ls-files (which honors .gitignore) inside a git working tree, else a
// plain recursive descent, with a fixed set of directories always skipped
// regardless of caller configuration.
package walk

import (
	"bytes"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// alwaysSkipDirs are excluded from every walk, regardless of Options.
var alwaysSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true,
	"build": true, "out": true, "target": true, "__pycache__": true,
	".venv": true, "venv": true, "site-packages": true, ".m2": true,
	".gradle": true, ".idea": true, ".vscode": true, "coverage": true,
	"_build": true, ".next": true, ".nuxt": true, ".svelte-kit": true,
}

// Options configures a walk.
type Options struct {
	// Scope restricts the walk to a sub-path of Root, if non-empty.
	Scope string
	// ExtraIgnoreDirs supplements alwaysSkipDirs with caller-supplied names.
	ExtraIgnoreDirs []string
	// Extensions whitelists file extensions (without the dot, lower-cased).
	// A nil/empty slice means no whitelist filtering at this layer.
	Extensions []string
}

// Walk discovers regular files under root, honoring the always-skip
// directory set. .gitignore is honored through git ls-files when scanRoot
// is inside a git working tree; the filesystem fallback used otherwise
// does not read .gitignore. Returned paths are project-relative to root
// with forward slashes, sorted for deterministic run ordering.
func Walk(root string, opts Options) ([]string, error) {
	scanRoot := root
	if opts.Scope != "" {
		scanRoot = filepath.Join(root, opts.Scope)
	}

	extraSkip := make(map[string]bool, len(opts.ExtraIgnoreDirs))
	for _, d := range opts.ExtraIgnoreDirs {
		extraSkip[d] = true
	}

	paths, err := gitListFiles(root, scanRoot)
	if err != nil {
		paths, err = walkFilesystem(root, scanRoot, extraSkip)
		if err != nil {
			return nil, fmt.Errorf("walk: %w", err)
		}
	} else {
		// git ls-files does not honor extraSkip or the always-skip set
		// beyond what .gitignore already encodes, so filter explicitly.
		paths = filterSkippedDirs(paths, extraSkip)
	}

	if len(opts.Extensions) > 0 {
		allow := make(map[string]bool, len(opts.Extensions))
		for _, e := range opts.Extensions {
			allow[strings.ToLower(strings.TrimPrefix(e, "."))] = true
		}
		filtered := paths[:0]
		for _, p := range paths {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
			if allow[ext] {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}

	sort.Strings(paths)
	return paths, nil
}

// gitListFiles discovers tracked and untracked-but-not-ignored files via
// `git ls-files`, the simplest correct way to honor .gitignore without
// hand-rolling a pattern matcher. Returns paths relative to root.
func gitListFiles(root, scanRoot string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard", "--", ".")
	cmd.Dir = scanRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	scopeRel, err := filepath.Rel(root, scanRoot)
	if err != nil {
		scopeRel = ""
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rel := line
		if scopeRel != "" && scopeRel != "." {
			rel = filepath.ToSlash(filepath.Join(scopeRel, line))
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths, nil
}

// filterSkippedDirs removes any path containing an always-skip or extra
// ignore directory component, since git ls-files only knows about
// .gitignore, not this tool's own fixed exclusions.
func filterSkippedDirs(paths []string, extraSkip map[string]bool) []string {
	out := paths[:0]
	for _, p := range paths {
		skip := false
		for _, part := range strings.Split(p, "/") {
			if alwaysSkipDirs[part] || extraSkip[part] {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, p)
		}
	}
	return out
}

// walkFilesystem is the fallback used when scanRoot is not inside a git
// working tree (or git is unavailable): a plain recursive descent applying
// only the fixed always-skip set plus caller-supplied extras.
func walkFilesystem(root, scanRoot string, extraSkip map[string]bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(scanRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != scanRoot && (alwaysSkipDirs[name] || extraSkip[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk filesystem: %w", err)
	}
	return paths, nil
}

// IgnoredDirSet returns the always-skip directory set merged with extra
// caller-supplied names, for applying the same exclusion without
// performing a full file walk.
func IgnoredDirSet(extra []string) map[string]bool {
	out := make(map[string]bool, len(alwaysSkipDirs)+len(extra))
	for k := range alwaysSkipDirs {
		out[k] = true
	}
	for _, e := range extra {
		out[e] = true
	}
	return out
}
