package store

// IndexLevel is the per-file indexing tier: a full AST extraction, or a
// file-row-only placeholder written during bootstrap.
type IndexLevel string

const (
	IndexLevelSymbol IndexLevel = "symbol"
	IndexLevelMeta   IndexLevel = "meta"
)

// File represents one source file that was considered for indexing.
type File struct {
	ID         int64
	Path       string
	Hash       string
	Size       int64
	Mtime      int64
	Language   string
	LineCount  int
	IndexLevel IndexLevel
	IndexedAt  int64
	UpdatedAt  int64
}

// Symbol kinds.
const (
	KindFunction = "function"
	KindClass    = "class"
)

// Symbol is a definition extracted from a file.
type Symbol struct {
	ID             int64
	FileID         int64
	Name           string
	QualifiedName  string // legacy column name; always equal to ScopePath
	ScopePath      string // "A::B::name" parent-chain walk, §4.5
	CanonicalID    string
	Kind           string
	LineStart      int
	LineEnd        int
	Signature      string // functions only
	ParentSymbolID *int64
}

// CanonicalPrefix returns the "class"/"func" prefix used in canonical IDs.
func CanonicalPrefix(kind string) string {
	if kind == KindClass {
		return "class"
	}
	return "func"
}

// CanonicalID builds "<prefix>:<file_path>::<short_name>".
func CanonicalID(kind, filePath, name string) string {
	return CanonicalPrefix(kind) + ":" + filePath + "::" + name
}

// Call is a textual call site observed inside a symbol's body.
type Call struct {
	ID         int64
	CallerID   int64
	CalleeName string
	CallLine   int
	CalleeID   *string // canonical id, resolved by the linking pass
}
