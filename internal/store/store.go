// Package store is the SQLite persistence layer for indexed files, symbols,
// and call edges (C3 in the design: schema creation, forward-compatible
// migrations, batched writes, indices).
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the symbol index.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at dbPath with the
// throughput PRAGMAs the indexer relies on: WAL journaling, relaxed
// durability, and a generous WAL auto-checkpoint threshold.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA synchronous=OFF",
		"PRAGMA journal_mode=WAL",
		"PRAGMA wal_autocheckpoint=1000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in ad-hoc transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CheckpointPassive issues a passive WAL checkpoint (non-blocking, flushes
// as much of the WAL as possible without waiting on readers).
func (s *Store) CheckpointPassive() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
	return err
}

// CheckpointTruncate issues a truncating WAL checkpoint, shrinking the WAL
// file back down. Used as the final step of an indexing run.
func (s *Store) CheckpointTruncate() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}
