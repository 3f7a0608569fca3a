// Package lang is the process-lifetime parser registry (C1): it maps a file
// extension to a tree-sitter grammar and a compiled capture query, built
// once at startup and shared read-only across worker goroutines.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Entry is one registered language: its grammar and its compiled capture
// query, which must emit @name, @callee, @def.func/@def.class, and
// @ref.call per the capture-name contract.
type Entry struct {
	Name     string
	Grammar  *sitter.Language
	Query    *sitter.Query
	ScopeSet map[string]bool // AST node types that introduce a named scope
}

// extToName maps a lower-cased extension (without the dot) to the
// registry's canonical language name.
var extToName = map[string]string{
	"py":  "python",
	"js":  "javascript",
	"mjs": "javascript",
	"cjs": "javascript",
	"ts":  "typescript",
	"tsx": "tsx",
	"go":  "go",
	"rs":  "rust",
	"java": "java",
	"c":    "c",
	"h":    "c",
	"cpp":  "cpp",
	"cc":   "cpp",
	"hpp":  "cpp",
}

// Registry is the built-once, read-only extension -> Entry map.
type Registry struct {
	entries map[string]*Entry
}

var (
	global     *Registry
	globalErr  error
	globalOnce sync.Once
)

// Default returns the process-wide registry, compiling every grammar's
// query exactly once. A compile failure here is the "parse-setup error"
// that spec's error-handling design treats as fatal.
func Default() (*Registry, error) {
	globalOnce.Do(func() {
		global, globalErr = build()
	})
	return global, globalErr
}

func build() (*Registry, error) {
	r := &Registry{entries: make(map[string]*Entry)}

	type grammarDef struct {
		name     string
		grammar  *sitter.Language
		query    string
		scopeSet map[string]bool
	}

	defs := []grammarDef{
		{"go", golang.GetLanguage(), goQuery, map[string]bool{"function_declaration": true, "method_declaration": true, "type_declaration": true}},
		{"python", python.GetLanguage(), pythonQuery, map[string]bool{"class_definition": true, "function_definition": true}},
		{"javascript", javascript.GetLanguage(), javascriptQuery, map[string]bool{"class_declaration": true, "function_declaration": true, "method_definition": true}},
		{"typescript", typescript.GetLanguage(), typescriptQuery, map[string]bool{"class_declaration": true, "interface_declaration": true, "function_declaration": true, "method_definition": true}},
		{"tsx", tsx.GetLanguage(), typescriptQuery, map[string]bool{"class_declaration": true, "interface_declaration": true, "function_declaration": true, "method_definition": true}},
		{"rust", rust.GetLanguage(), rustQuery, map[string]bool{"struct_item": true, "impl_item": true, "mod_item": true, "trait_item": true, "function_item": true}},
		{"java", java.GetLanguage(), javaQuery, map[string]bool{"class_declaration": true, "interface_declaration": true, "method_declaration": true}},
		{"c", c.GetLanguage(), cQuery, map[string]bool{"function_definition": true, "struct_specifier": true}},
		{"cpp", cpp.GetLanguage(), cppQuery, map[string]bool{"function_definition": true, "class_specifier": true, "struct_specifier": true, "namespace_definition": true}},
	}

	for _, d := range defs {
		q, err := sitter.NewQuery([]byte(d.query), d.grammar)
		if err != nil {
			return nil, fmt.Errorf("lang: compile query for %s: %w", d.name, err)
		}
		r.entries[d.name] = &Entry{Name: d.name, Grammar: d.grammar, Query: q, ScopeSet: d.scopeSet}
	}

	return r, nil
}

// ForFile resolves the registry Entry and canonical language tag for a
// project-relative or absolute file path, by extension. ok is false for
// unsupported extensions.
func (r *Registry) ForFile(path string) (entry *Entry, language string, ok bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	name, known := extToName[ext]
	if !known {
		return nil, ext, false
	}
	e, present := r.entries[name]
	if !present {
		return nil, name, false
	}
	return e, name, true
}

// LanguageTag returns the sentinel language tag for a path: its lower-cased
// extension, matching the file record's "language" attribute contract.
func LanguageTag(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
