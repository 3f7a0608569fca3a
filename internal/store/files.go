package store

import (
	"database/sql"
	"fmt"
)

const fileCols = `id, path, hash, size, mtime, language, line_count, index_level, indexed_at, updated_at`

// files.file_size and files.file_mtime duplicate size/mtime under the
// non-legacy column names spec's migration policy introduces; both pairs
// are written together and size/mtime remain the columns reads use.

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	var level string
	if err := scanner.Scan(
		&f.ID, &f.Path, &f.Hash, &f.Size, &f.Mtime, &f.Language, &f.LineCount,
		&level, &f.IndexedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f.IndexLevel = IndexLevel(level)
	return f, nil
}

// FileByPath returns the file row for path, or nil if there is none.
func (s *Store) FileByPath(path string) (*File, error) {
	row := s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// FileByID returns the file row with the given id, or nil if there is none.
func (s *Store) FileByID(id int64) (*File, error) {
	row := s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE id = ?", id)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by id: %w", err)
	}
	return f, nil
}

// UpsertFile inserts or updates the file row for f.Path, returning its id.
func (s *Store) UpsertFile(f *File) (int64, error) {
	existing, err := s.FileByPath(f.Path)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		res, err := s.db.Exec(
			`INSERT INTO files (path, hash, size, mtime, file_size, file_mtime, language, line_count, index_level, indexed_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.Path, f.Hash, f.Size, f.Mtime, f.Size, f.Mtime, f.Language, f.LineCount, string(f.IndexLevel), f.IndexedAt, f.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert file: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id: %w", err)
		}
		f.ID = id
		return id, nil
	}

	_, err = s.db.Exec(
		`UPDATE files SET hash=?, size=?, mtime=?, file_size=?, file_mtime=?, language=?, line_count=?, index_level=?, indexed_at=?, updated_at=?
		 WHERE id=?`,
		f.Hash, f.Size, f.Mtime, f.Size, f.Mtime, f.Language, f.LineCount, string(f.IndexLevel), f.IndexedAt, f.UpdatedAt, existing.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update file: %w", err)
	}
	f.ID = existing.ID
	return existing.ID, nil
}

// AllFilePaths returns every persisted file path, for orphan detection.
func (s *Store) AllFilePaths() ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM files")
	if err != nil {
		return nil, fmt.Errorf("all file paths: %w", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// DeleteFileByPath removes the file row at path; symbols and calls cascade.
func (s *Store) DeleteFileByPath(path string) error {
	_, err := s.db.Exec("DELETE FROM files WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// DeleteSymbolsForFile removes all symbols (and cascading calls) for fileID.
func (s *Store) DeleteSymbolsForFile(fileID int64) error {
	_, err := s.db.Exec("DELETE FROM symbols WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("delete symbols for file: %w", err)
	}
	return nil
}
