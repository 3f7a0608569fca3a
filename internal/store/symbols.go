package store

import (
	"database/sql"
	"fmt"
)

const symbolCols = `id, file_id, name, qualified_name, scope_path, canonical_id, kind, line_start, line_end, signature, parent_symbol_id`

func scanSymbol(scanner interface{ Scan(...any) error }) (*Symbol, error) {
	sym := &Symbol{}
	var signature sql.NullString
	if err := scanner.Scan(
		&sym.ID, &sym.FileID, &sym.Name, &sym.QualifiedName, &sym.ScopePath, &sym.CanonicalID, &sym.Kind,
		&sym.LineStart, &sym.LineEnd, &signature, &sym.ParentSymbolID,
	); err != nil {
		return nil, err
	}
	sym.Signature = signature.String
	return sym, nil
}

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// InsertSymbol inserts sym, assigning its ID. qualified_name and scope_path
// are always written equal, per the "qualified name (equal to scope path)"
// data model note.
func (s *Store) InsertSymbol(sym *Symbol) (int64, error) {
	if sym.ScopePath == "" {
		sym.ScopePath = sym.QualifiedName
	}
	res, err := s.db.Exec(
		`INSERT INTO symbols (file_id, name, qualified_name, scope_path, canonical_id, kind, line_start, line_end, signature, parent_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.FileID, sym.Name, sym.QualifiedName, sym.ScopePath, sym.CanonicalID, sym.Kind,
		sym.LineStart, sym.LineEnd, nullableString(sym.Signature), sym.ParentSymbolID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert symbol: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	sym.ID = id
	return id, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SymbolByCanonicalID looks up a symbol by its stable canonical id.
func (s *Store) SymbolByCanonicalID(canonicalID string) (*Symbol, error) {
	row := s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE canonical_id = ?", canonicalID)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("symbol by canonical id: %w", err)
	}
	return sym, nil
}

// SymbolsByName returns all symbols whose short name equals name.
func (s *Store) SymbolsByName(name string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE name = ?", name)
}

// SymbolsByFile returns all symbols belonging to fileID.
func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE file_id = ?", fileID)
}

// SymbolExactName returns the first symbol whose name matches exactly.
func (s *Store) SymbolExactName(name string) (*Symbol, error) {
	row := s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE name = ? ORDER BY id ASC LIMIT 1", name)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("symbol exact name: %w", err)
	}
	return sym, nil
}

// SymbolContaining returns the smallest-range symbol in a file whose path
// ends with pathSuffix, covering the given 1-based line.
func (s *Store) SymbolContaining(pathSuffix string, line int) (*Symbol, error) {
	rows, err := s.db.Query(
		`SELECT `+symbolCols+` FROM symbols s
		 JOIN files f ON f.id = s.file_id
		 WHERE f.path LIKE ? AND s.line_start <= ? AND s.line_end >= ?`,
		"%"+pathSuffix, line, line,
	)
	if err != nil {
		return nil, fmt.Errorf("symbol containing: %w", err)
	}
	defer rows.Close()

	var best *Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		if best == nil || (sym.LineEnd-sym.LineStart) < (best.LineEnd-best.LineStart) {
			best = sym
		}
	}
	return best, rows.Err()
}

// AllSymbolNames returns every symbol's id, name, and canonical id, for
// the fuzzy lookup engine's in-memory scan.
func (s *Store) AllSymbolNames() ([]*Symbol, error) {
	return s.querySymbols("SELECT " + symbolCols + " FROM symbols")
}

// SymbolsLike returns symbols whose name or qualified_name contains q.
func (s *Store) SymbolsLike(q string) ([]*Symbol, error) {
	like := "%" + q + "%"
	return s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE name LIKE ? OR qualified_name LIKE ? ORDER BY id ASC",
		like, like,
	)
}

// FileSymbols is one file of the per-file map view: the file's path plus
// the symbols belonging to it.
type FileSymbols struct {
	Path    string
	Symbols []*Symbol
}

// SymbolsByFileScope returns every symbol grouped by file path, restricted
// to files whose path matches the `<scope>%` LIKE prefix when scope is
// non-empty, ordered by path then line_start for stable map output.
func (s *Store) SymbolsByFileScope(scope string) ([]FileSymbols, error) {
	query := `SELECT f.path, ` + prefixedSymbolCols("s") + `
		FROM symbols s JOIN files f ON f.id = s.file_id`
	args := []any{}
	if scope != "" {
		query += " WHERE f.path LIKE ?"
		args = append(args, scope+"%")
	}
	query += " ORDER BY f.path ASC, s.line_start ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("symbols by file scope: %w", err)
	}
	defer rows.Close()

	var out []FileSymbols
	var cur *FileSymbols
	for rows.Next() {
		var path string
		sym := &Symbol{}
		var signature sql.NullString
		if err := rows.Scan(
			&path, &sym.ID, &sym.FileID, &sym.Name, &sym.QualifiedName, &sym.ScopePath,
			&sym.CanonicalID, &sym.Kind, &sym.LineStart, &sym.LineEnd, &signature, &sym.ParentSymbolID,
		); err != nil {
			return nil, fmt.Errorf("scan file symbol: %w", err)
		}
		sym.Signature = signature.String

		if cur == nil || cur.Path != path {
			out = append(out, FileSymbols{Path: path})
			cur = &out[len(out)-1]
		}
		cur.Symbols = append(cur.Symbols, sym)
	}
	return out, rows.Err()
}

func prefixedSymbolCols(alias string) string {
	cols := []string{"id", "file_id", "name", "qualified_name", "scope_path", "canonical_id", "kind", "line_start", "line_end", "signature", "parent_symbol_id"}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}
