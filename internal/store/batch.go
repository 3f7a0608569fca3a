package store

import "fmt"

// PendingSymbol is a symbol awaiting insertion, keyed by a parser-local
// temporary id so pending calls (and parent links) within the same file can
// reference it before it has a real row id.
type PendingSymbol struct {
	TempID         int64
	Name           string
	QualifiedName  string
	CanonicalID    string
	Kind           string
	LineStart      int
	LineEnd        int
	Signature      string
	ParentTempID   *int64
}

// PendingCall is a call site awaiting insertion, referencing its caller by
// the enclosing definition's temporary id.
type PendingCall struct {
	CallerTempID int64
	CalleeName   string
	CallLine     int
}

// PendingFile bundles one file's upsert plus its freshly-extracted symbols
// and calls, as produced by a single worker's parse of that file.
type PendingFile struct {
	File    File
	Symbols []PendingSymbol
	Calls   []PendingCall
	// MetaOnly marks a bootstrap-mode file: only the file row is written,
	// and any previously stored symbols for it are deleted.
	MetaOnly bool
}

// Batch accumulates up to a few hundred PendingFiles before a single
// CommitBatch flushes them inside one SQLite transaction, per the
// orchestrator's "commit every 300 mutated files" policy.
type Batch struct {
	Files []PendingFile
}

// Add appends a file's pending writes to the batch.
func (b *Batch) Add(pf PendingFile) {
	b.Files = append(b.Files, pf)
}

// Len reports how many files are buffered.
func (b *Batch) Len() int {
	return len(b.Files)
}

// CommitBatch writes every buffered file in one transaction:
//
//	for each file: upsert file row -> delete existing symbols (cascades
//	calls) -> insert symbols -> insert calls.
//
// callee_id is left null on every inserted call; the orchestrator's linking
// pass resolves it afterward in a single server-side UPDATE.
func (s *Store) CommitBatch(b *Batch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	for _, pf := range b.Files {
		f := pf.File
		fileID, err := upsertFileTx(tx, &f)
		if err != nil {
			return fmt.Errorf("commit batch: upsert file %q: %w", f.Path, err)
		}

		if _, err := tx.Exec("DELETE FROM symbols WHERE file_id = ?", fileID); err != nil {
			return fmt.Errorf("commit batch: delete symbols for %q: %w", f.Path, err)
		}

		if pf.MetaOnly {
			continue
		}

		tempToReal := make(map[int64]int64, len(pf.Symbols))
		for _, ps := range pf.Symbols {
			var parentReal *int64
			if ps.ParentTempID != nil {
				if real, ok := tempToReal[*ps.ParentTempID]; ok {
					parentReal = &real
				}
			}
			sym := Symbol{
				FileID:         fileID,
				Name:           ps.Name,
				QualifiedName:  ps.QualifiedName,
				CanonicalID:    ps.CanonicalID,
				Kind:           ps.Kind,
				LineStart:      ps.LineStart,
				LineEnd:        ps.LineEnd,
				Signature:      ps.Signature,
				ParentSymbolID: parentReal,
			}
			realID, err := insertSymbolTx(tx, &sym)
			if err != nil {
				return fmt.Errorf("commit batch: symbol %q in %q: %w", ps.Name, f.Path, err)
			}
			tempToReal[ps.TempID] = realID
		}

		for _, pc := range pf.Calls {
			callerReal, ok := tempToReal[pc.CallerTempID]
			if !ok {
				// Call had no enclosing definition memoized; dropped per
				// the extractor's "if none, the call is dropped" rule.
				continue
			}
			if _, err := tx.Exec(
				"INSERT INTO calls (caller_id, callee_name, call_line, callee_id) VALUES (?, ?, ?, NULL)",
				callerReal, pc.CalleeName, pc.CallLine,
			); err != nil {
				return fmt.Errorf("commit batch: call in %q: %w", f.Path, err)
			}
		}
	}

	return tx.Commit()
}
