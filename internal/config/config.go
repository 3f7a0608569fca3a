// Package config loads the optional .symindex.yaml project file that
// supplies defaults (extensions, ignore-dirs, scope) for flags left unset
// on the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = ".symindex.yaml"

// Config is the project-level default set read from .symindex.yaml.
type Config struct {
	Extensions []string `yaml:"extensions,omitempty"`
	IgnoreDirs []string `yaml:"ignore_dirs,omitempty"`
	Scope      string   `yaml:"scope,omitempty"`
}

// Load reads .symindex.yaml starting at dir and walking up to the
// filesystem root, returning the first one found. A nil Config (no error)
// means no project config exists, which is the common case.
func Load(dir string) (*Config, error) {
	path, err := find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &cfg, nil
}

func find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %q: %w", dir, err)
	}

	for {
		candidate := filepath.Join(abs, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// ApplyDefaults fills any unset fields in extensions/ignoreDirs/scope from
// cfg, leaving caller-supplied (non-zero) values untouched. cfg may be nil.
func ApplyDefaults(cfg *Config, extensions, ignoreDirs []string, scope string) ([]string, []string, string) {
	if cfg == nil {
		return extensions, ignoreDirs, scope
	}
	if len(extensions) == 0 {
		extensions = cfg.Extensions
	}
	if len(ignoreDirs) == 0 {
		ignoreDirs = cfg.IgnoreDirs
	}
	if scope == "" {
		scope = cfg.Scope
	}
	return extensions, ignoreDirs, scope
}
