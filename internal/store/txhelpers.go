package store

import "database/sql"

// upsertFileTx mirrors Store.UpsertFile but runs inside an existing
// transaction, for use by CommitBatch.
func upsertFileTx(tx *sql.Tx, f *File) (int64, error) {
	var existingID int64
	err := tx.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(
			`INSERT INTO files (path, hash, size, mtime, file_size, file_mtime, language, line_count, index_level, indexed_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.Path, f.Hash, f.Size, f.Mtime, f.Size, f.Mtime, f.Language, f.LineCount, string(f.IndexLevel), f.IndexedAt, f.UpdatedAt,
		)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		f.ID = id
		return id, nil
	case err != nil:
		return 0, err
	default:
		_, err := tx.Exec(
			`UPDATE files SET hash=?, size=?, mtime=?, file_size=?, file_mtime=?, language=?, line_count=?, index_level=?, indexed_at=?, updated_at=?
			 WHERE id=?`,
			f.Hash, f.Size, f.Mtime, f.Size, f.Mtime, f.Language, f.LineCount, string(f.IndexLevel), f.IndexedAt, f.UpdatedAt, existingID,
		)
		if err != nil {
			return 0, err
		}
		f.ID = existingID
		return existingID, nil
	}
}

// insertSymbolTx mirrors Store.InsertSymbol but runs inside an existing
// transaction, for use by CommitBatch.
func insertSymbolTx(tx *sql.Tx, sym *Symbol) (int64, error) {
	if sym.ScopePath == "" {
		sym.ScopePath = sym.QualifiedName
	}
	res, err := tx.Exec(
		`INSERT INTO symbols (file_id, name, qualified_name, scope_path, canonical_id, kind, line_start, line_end, signature, parent_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.FileID, sym.Name, sym.QualifiedName, sym.ScopePath, sym.CanonicalID, sym.Kind,
		sym.LineStart, sym.LineEnd, nullableString(sym.Signature), sym.ParentSymbolID,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	sym.ID = id
	return id, nil
}
