package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReturnsNilWhenNoConfigExists(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadFindsConfigInParentDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, fileName), []byte(`
extensions: ["go", "py"]
ignore_dirs: ["testdata"]
scope: pkg/
`), 0o644))

	cfg, err := Load(sub)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, []string{"go", "py"}, cfg.Extensions)
	require.Equal(t, []string{"testdata"}, cfg.IgnoreDirs)
	require.Equal(t, "pkg/", cfg.Scope)
}

func TestApplyDefaultsOnlyFillsUnsetFields(t *testing.T) {
	cfg := &Config{Extensions: []string{"go"}, IgnoreDirs: []string{"vendor"}, Scope: "pkg/"}

	ext, ignore, scope := ApplyDefaults(cfg, []string{"rs"}, nil, "")
	require.Equal(t, []string{"rs"}, ext)
	require.Equal(t, []string{"vendor"}, ignore)
	require.Equal(t, "pkg/", scope)
}

func TestApplyDefaultsWithNilConfig(t *testing.T) {
	ext, ignore, scope := ApplyDefaults(nil, []string{"rs"}, []string{"x"}, "s/")
	require.Equal(t, []string{"rs"}, ext)
	require.Equal(t, []string{"x"}, ignore)
	require.Equal(t, "s/", scope)
}
