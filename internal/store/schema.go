package store

import "fmt"

// schemaDDL creates the three core tables if they do not already exist.
// New installs get the full column set directly; existing databases are
// brought up to date by Migrate's additive column probing below.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id          INTEGER PRIMARY KEY,
  path        TEXT NOT NULL UNIQUE,
  hash        TEXT NOT NULL,
  size        INTEGER NOT NULL DEFAULT 0,
  mtime       INTEGER NOT NULL DEFAULT 0,
  language    TEXT NOT NULL,
  line_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name            TEXT NOT NULL,
  qualified_name  TEXT NOT NULL,
  canonical_id    TEXT NOT NULL UNIQUE,
  kind            TEXT NOT NULL,
  line_start      INTEGER NOT NULL,
  line_end        INTEGER NOT NULL,
  signature       TEXT,
  parent_symbol_id INTEGER REFERENCES symbols(id)
);

CREATE TABLE IF NOT EXISTS calls (
  id          INTEGER PRIMARY KEY,
  caller_id   INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
  callee_name TEXT NOT NULL,
  call_line   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_qualified_name ON symbols(qualified_name);
CREATE INDEX IF NOT EXISTS idx_calls_caller ON calls(caller_id);
CREATE INDEX IF NOT EXISTS idx_calls_callee_name ON calls(callee_name);
`

// columnMigration is one non-legacy column that databases created before it
// existed must have added idempotently, without data loss, per spec's
// schema-deltas policy. scope_path duplicates qualified_name's value under
// its new name; file_size/file_mtime duplicate size/mtime the same way —
// both pairs are kept in sync on every write so either column name still
// reads correctly.
type columnMigration struct {
	table  string
	column string
	ddl    string
}

var migrations = []columnMigration{
	{"symbols", "scope_path", "ALTER TABLE symbols ADD COLUMN scope_path TEXT NOT NULL DEFAULT ''"},
	{"calls", "callee_id", "ALTER TABLE calls ADD COLUMN callee_id TEXT"},
	{"files", "file_size", "ALTER TABLE files ADD COLUMN file_size INTEGER NOT NULL DEFAULT 0"},
	{"files", "file_mtime", "ALTER TABLE files ADD COLUMN file_mtime INTEGER NOT NULL DEFAULT 0"},
	{"files", "index_level", "ALTER TABLE files ADD COLUMN index_level TEXT NOT NULL DEFAULT 'symbol'"},
	{"files", "indexed_at", "ALTER TABLE files ADD COLUMN indexed_at INTEGER NOT NULL DEFAULT 0"},
	{"files", "updated_at", "ALTER TABLE files ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0"},
}

var postMigrationIndices = []string{
	"CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id)",
	"CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)",
	"CREATE INDEX IF NOT EXISTS idx_symbols_qualified_name ON symbols(qualified_name)",
	"CREATE INDEX IF NOT EXISTS idx_symbols_scope_path ON symbols(scope_path)",
	"CREATE INDEX IF NOT EXISTS idx_calls_caller ON calls(caller_id)",
	"CREATE INDEX IF NOT EXISTS idx_calls_callee_name ON calls(callee_name)",
	"CREATE INDEX IF NOT EXISTS idx_calls_callee_id ON calls(callee_id)",
}

// Migrate creates the schema if absent, then idempotently adds any
// non-legacy column that a pre-existing database is missing, without data
// loss, and ensures all required indices exist afterward.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: create schema: %w", err)
	}

	for _, m := range migrations {
		has, err := s.hasColumn(m.table, m.column)
		if err != nil {
			return fmt.Errorf("migrate: probe %s.%s: %w", m.table, m.column, err)
		}
		if has {
			continue
		}
		if _, err := s.db.Exec(m.ddl); err != nil {
			return fmt.Errorf("migrate: add %s.%s: %w", m.table, m.column, err)
		}
	}

	for _, idx := range postMigrationIndices {
		if _, err := s.db.Exec(idx); err != nil {
			return fmt.Errorf("migrate: create index: %w", err)
		}
	}

	return nil
}

// hasColumn reports whether table has the named column, via PRAGMA
// table_info — the standard SQLite way to introspect a table's columns
// without a dedicated migration framework.
func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notnull    int
			dfltValue  any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
