package store

import (
	"database/sql"
	"fmt"
)

const callCols = `id, caller_id, callee_name, call_line, callee_id`

func scanCall(scanner interface{ Scan(...any) error }) (*Call, error) {
	c := &Call{}
	var calleeID sql.NullString
	if err := scanner.Scan(&c.ID, &c.CallerID, &c.CalleeName, &c.CallLine, &calleeID); err != nil {
		return nil, err
	}
	if calleeID.Valid {
		v := calleeID.String
		c.CalleeID = &v
	}
	return c, nil
}

// InsertCall inserts a call edge, unresolved (callee_id left null) until the
// linking pass runs.
func (s *Store) InsertCall(c *Call) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO calls (caller_id, callee_name, call_line, callee_id) VALUES (?, ?, ?, NULL)",
		c.CallerID, c.CalleeName, c.CallLine,
	)
	if err != nil {
		return 0, fmt.Errorf("insert call: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

func (s *Store) queryCalls(query string, args ...any) ([]*Call, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllCalls returns every call edge, for impact-graph construction.
func (s *Store) AllCalls() ([]*Call, error) {
	return s.queryCalls("SELECT " + callCols + " FROM calls")
}

// CallsByCaller returns the calls made from within callerID's body.
func (s *Store) CallsByCaller(callerID int64) ([]*Call, error) {
	return s.queryCalls("SELECT "+callCols+" FROM calls WHERE caller_id = ?", callerID)
}

// CallersOf returns call edges whose callee_id equals canonicalID, or whose
// callee_id is still unresolved but whose raw callee_name equals name —
// the fallback the linking pass's "same-file wins, else any" heuristic
// requires callers to tolerate.
func (s *Store) CallersOf(canonicalID, name string) ([]*Call, error) {
	return s.queryCalls(
		"SELECT "+callCols+" FROM calls WHERE callee_id = ? OR (callee_id IS NULL AND callee_name = ?)",
		canonicalID, name,
	)
}

// LinkCalls resolves every call whose callee_id is still null, by matching
// callee_name against symbols.name, preferring a symbol in the same file as
// the caller, else the symbol with the smallest row id. Executed as one
// server-side UPDATE per spec's "same-file wins, else any" rule.
func (s *Store) LinkCalls() error {
	_, err := s.db.Exec(`
		UPDATE calls
		SET callee_id = (
			SELECT s2.canonical_id
			FROM symbols s2
			WHERE s2.name = calls.callee_name
			ORDER BY
				(s2.file_id = (SELECT s1.file_id FROM symbols s1 WHERE s1.id = calls.caller_id)) DESC,
				s2.id ASC
			LIMIT 1
		)
		WHERE callee_id IS NULL
		AND EXISTS (SELECT 1 FROM symbols s3 WHERE s3.name = calls.callee_name)
	`)
	if err != nil {
		return fmt.Errorf("link calls: %w", err)
	}
	return nil
}

// CountLinkedCalls returns how many call edges currently have a resolved
// callee_id, for run-summary metrics.
func (s *Store) CountLinkedCalls() (int64, error) {
	var n int64
	row := s.db.QueryRow("SELECT COUNT(*) FROM calls WHERE callee_id IS NOT NULL")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count linked calls: %w", err)
	}
	return n, nil
}

// UnlinkDanglingCalls resets callee_id back to null for any call whose
// resolved target no longer exists — used after orphan cleanup removes
// symbols a call used to resolve to.
func (s *Store) UnlinkDanglingCalls() error {
	_, err := s.db.Exec(`
		UPDATE calls SET callee_id = NULL
		WHERE callee_id IS NOT NULL
		AND callee_id NOT IN (SELECT canonical_id FROM symbols)
	`)
	if err != nil {
		return fmt.Errorf("unlink dangling calls: %w", err)
	}
	return nil
}
