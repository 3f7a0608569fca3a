// Package detect implements the two-tier per-file change skip (C4):
// a metadata fast path, then an authoritative content-hash path.
package detect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/jward/symindex/internal/store"
)

// Result describes what the detector decided for one file.
type Result struct {
	Path    string
	Size    int64
	Mtime   int64
	Hash    string // freshly computed on the authoritative path; the stored hash on the metadata fast path
	Skip    bool   // true: file is unchanged, no (re)parse needed
	Existed bool   // true: a prior file row existed for Path
}

// Check runs the two-tier skip logic for path against its previously
// persisted row (nil if this is the first observation).
//
// 1. Metadata fast path: prior row has index_level=symbol and size/mtime
//    both match the current stat -> skip, no file read.
// 2. Authoritative path: compute SHA-256 of file bytes; equal to the
//    stored hash -> skip.
//
// Otherwise the file is reported changed and must be (re)parsed.
func Check(path string, prior *store.File) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("detect: stat %q: %w", path, err)
	}
	size := info.Size()
	mtime := info.ModTime().Unix()

	res := Result{Path: path, Size: size, Mtime: mtime, Existed: prior != nil}

	if prior != nil && prior.IndexLevel == store.IndexLevelSymbol && prior.Size == size && prior.Mtime == mtime {
		res.Skip = true
		res.Hash = prior.Hash
		return res, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("detect: read %q: %w", path, err)
	}
	sum := sha256.Sum256(contents)
	res.Hash = hex.EncodeToString(sum[:])

	if prior != nil && prior.Hash == res.Hash {
		res.Skip = true
	}
	return res, nil
}

// MetaHash builds the sentinel hash a bootstrap meta-only row carries in
// place of a real content hash.
func MetaHash(size, mtime int64) string {
	return fmt.Sprintf("meta:%d:%d", size, mtime)
}
