package extract

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/symindex/internal/lang"
)

func parseFixture(t *testing.T, path string) (*lang.Entry, []byte) {
	t.Helper()
	reg, err := lang.Default()
	require.NoError(t, err)
	entry, _, ok := reg.ForFile(path)
	require.True(t, ok)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	return entry, src
}

func TestFileExtractsStructsAndMethods(t *testing.T) {
	path := "../../testdata/go/level-02-structs-interfaces/src/types.go"
	entry, src := parseFixture(t, path)

	tree, err := lang.Parse(context.Background(), entry, src)
	require.NoError(t, err)
	defer tree.Close()

	got := File(entry, tree, src, "types.go")

	names := map[string]string{}
	for _, s := range got.Symbols {
		names[s.Name] = s.Kind
	}

	require.Equal(t, "class", names["Server"])
	require.Equal(t, "function", names["NewServer"])
	require.Equal(t, "function", names["Handle"])
	require.Equal(t, "function", names["Close"])
}

func TestFileScopePathDefaultsToOwnName(t *testing.T) {
	// Go method declarations are not AST-nested inside their receiver
	// type's declaration, so the parent-chain walk finds no enclosing
	// scope and scope_path falls back to the symbol's own name.
	path := "../../testdata/go/level-02-structs-interfaces/src/types.go"
	entry, src := parseFixture(t, path)

	tree, err := lang.Parse(context.Background(), entry, src)
	require.NoError(t, err)
	defer tree.Close()

	got := File(entry, tree, src, "types.go")

	for _, s := range got.Symbols {
		if s.Name == "Handle" && s.Kind == "function" {
			require.Equal(t, "Handle", s.QualifiedName)
		}
	}
}

func TestFileScopePathUsesPerLanguageScopeSet(t *testing.T) {
	reg, err := lang.Default()
	require.NoError(t, err)
	entry, _, ok := reg.ForFile("shapes.py")
	require.True(t, ok)

	src := []byte("class Shape:\n    def area(self):\n        pass\n")
	tree, err := lang.Parse(context.Background(), entry, src)
	require.NoError(t, err)
	defer tree.Close()

	got := File(entry, tree, src, "shapes.py")

	var area *string
	for _, s := range got.Symbols {
		if s.Name == "area" {
			qn := s.QualifiedName
			area = &qn
		}
	}
	require.NotNil(t, area)
	require.Equal(t, "Shape::area", *area)
}

func TestFileNoDefinitionsYieldsNoSymbols(t *testing.T) {
	entry, _ := parseFixture(t, "../../testdata/go/level-02-structs-interfaces/src/types.go")
	src := []byte("package empty\n")

	tree, err := lang.Parse(context.Background(), entry, src)
	require.NoError(t, err)
	defer tree.Close()

	got := File(entry, tree, src, "empty.go")
	require.Empty(t, got.Symbols)
	require.Empty(t, got.Calls)
}
