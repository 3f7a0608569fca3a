// Package snapshot exports and diffs stable-keyed symbol+call state (C9).
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jward/symindex/internal/store"
)

// Entry is one canonical-id-keyed symbol record in a snapshot.
type Entry struct {
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualified_name"`
	FilePath      string   `json:"file_path"`
	SymbolType    string   `json:"symbol_type"`
	LineStart     int      `json:"line_start"`
	Signature     string   `json:"signature,omitempty"`
	Calls         []string `json:"calls"`
}

// Snapshot is the on-disk export shape: canonical id -> Entry, plus the
// export timestamp.
type Snapshot struct {
	ExportedAt int64            `json:"exported_at"`
	Symbols    map[string]Entry `json:"symbols"`
}

// Build exports the current store state into a Snapshot.
func Build(st *store.Store, exportedAt int64) (*Snapshot, error) {
	symbols, err := st.AllSymbolNames()
	if err != nil {
		return nil, fmt.Errorf("snapshot: load symbols: %w", err)
	}
	files := map[int64]string{}
	for _, s := range symbols {
		if _, ok := files[s.FileID]; ok {
			continue
		}
		f, err := st.FileByID(s.FileID)
		if err != nil {
			return nil, fmt.Errorf("snapshot: load file %d: %w", s.FileID, err)
		}
		if f != nil {
			files[s.FileID] = f.Path
		}
	}

	calls, err := st.AllCalls()
	if err != nil {
		return nil, fmt.Errorf("snapshot: load calls: %w", err)
	}
	callsByCaller := map[int64][]string{}
	for _, c := range calls {
		callsByCaller[c.CallerID] = append(callsByCaller[c.CallerID], c.CalleeName)
	}

	out := &Snapshot{ExportedAt: exportedAt, Symbols: make(map[string]Entry, len(symbols))}
	for _, s := range symbols {
		calleeNames := callsByCaller[s.ID]
		sort.Strings(calleeNames)
		out.Symbols[s.CanonicalID] = Entry{
			Name:          s.Name,
			QualifiedName: s.QualifiedName,
			FilePath:      files[s.FileID],
			SymbolType:    s.Kind,
			LineStart:     s.LineStart,
			Signature:     s.Signature,
			Calls:         calleeNames,
		}
	}
	return out, nil
}

// Write marshals snap as indented JSON to path.
func Write(snap *Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	return nil
}

// Load reads a Snapshot from path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %q: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal %q: %w", path, err)
	}
	return &snap, nil
}

// ChangeKind labels one diff entry.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Change is one diff record.
type Change struct {
	CanonicalID string     `json:"canonical_id"`
	Kind        ChangeKind `json:"kind"`
	Message     string     `json:"message"`
}

// Diff compares base against target: absent in target -> removed, absent
// in base -> added, present in both -> compared for file path, kind, and
// call-name set differences.
func Diff(base, target *Snapshot) []Change {
	var changes []Change

	for id, baseEntry := range base.Symbols {
		targetEntry, ok := target.Symbols[id]
		if !ok {
			changes = append(changes, Change{
				CanonicalID: id, Kind: ChangeRemoved,
				Message: fmt.Sprintf("%s removed (was %s:%d)", baseEntry.Name, baseEntry.FilePath, baseEntry.LineStart),
			})
			continue
		}
		if msg, changed := describeModification(baseEntry, targetEntry); changed {
			changes = append(changes, Change{CanonicalID: id, Kind: ChangeModified, Message: msg})
		}
	}

	for id, targetEntry := range target.Symbols {
		if _, ok := base.Symbols[id]; ok {
			continue
		}
		changes = append(changes, Change{
			CanonicalID: id, Kind: ChangeAdded,
			Message: fmt.Sprintf("%s added (%s:%d)", targetEntry.Name, targetEntry.FilePath, targetEntry.LineStart),
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].CanonicalID < changes[j].CanonicalID })
	return changes
}

func describeModification(base, target Entry) (string, bool) {
	var notes []string
	if base.FilePath != target.FilePath {
		notes = append(notes, fmt.Sprintf("moved from %s to %s", base.FilePath, target.FilePath))
	}
	if base.SymbolType != target.SymbolType {
		notes = append(notes, fmt.Sprintf("kind changed from %s to %s", base.SymbolType, target.SymbolType))
	}
	added, removed := diffCallSets(base.Calls, target.Calls)
	if len(added) > 0 {
		notes = append(notes, fmt.Sprintf("Added calls: %s", quotedList(added)))
	}
	if len(removed) > 0 {
		notes = append(notes, fmt.Sprintf("Removed calls: %s", quotedList(removed)))
	}
	if len(notes) == 0 {
		return "", false
	}
	msg := fmt.Sprintf("%s: ", base.Name)
	for i, n := range notes {
		if i > 0 {
			msg += "; "
		}
		msg += n
	}
	return msg, true
}

func diffCallSets(base, target []string) (added, removed []string) {
	baseSet := make(map[string]bool, len(base))
	for _, c := range base {
		baseSet[c] = true
	}
	targetSet := make(map[string]bool, len(target))
	for _, c := range target {
		targetSet[c] = true
	}
	for c := range targetSet {
		if !baseSet[c] {
			added = append(added, c)
		}
	}
	for c := range baseSet {
		if !targetSet[c] {
			removed = append(removed, c)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// quotedList renders names the way spec's diff_msg examples quote them,
// e.g. ["bar"].
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
