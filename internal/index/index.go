// Package index is the indexing orchestrator (C6): a producer/consumer
// pipeline over the file walker, change detector, parser registry, and
// extractor, writing through the persistence layer in batched transactions.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jward/symindex/internal/detect"
	"github.com/jward/symindex/internal/extract"
	"github.com/jward/symindex/internal/lang"
	"github.com/jward/symindex/internal/metrics"
	"github.com/jward/symindex/internal/store"
	"github.com/jward/symindex/internal/ui"
	"github.com/jward/symindex/internal/walk"
)

// Env-tunable strategy thresholds, per spec's indexing-strategy policy.
const (
	envHugeFileThreshold   = "HUGE_FILE_THRESHOLD"
	envBootstrapMaxParse   = "BOOTSTRAP_MAX_PARSE"
	defaultHugeThreshold   = 50_000
	defaultBootstrapBudget = 5_000

	batchSize = 300
)

// Strategy is the run-wide decision about how much of the repository gets
// fully parsed versus meta-only.
type Strategy string

const (
	StrategyForceFull         Strategy = "force_full"
	StrategyBootstrap         Strategy = "bootstrap"
	StrategyFullOrIncremental Strategy = "full_or_incremental"
)

// Options configures one indexing run.
type Options struct {
	Project     string
	DBPath      string
	Extensions  []string
	IgnoreDirs  []string
	Scope       string
	ForceFull   bool
	Concurrency int       // worker pool size; 0 selects a sane default
	Progress    io.Writer // non-nil shows a per-file progress bar here; callers in JSON/quiet mode leave this nil
}

// Summary is the JSON-serializable run summary spec.md §4.6 requires.
type Summary struct {
	TotalFiles     int                `json:"total_files"`
	ParsedFiles    int                `json:"parsed_files"`
	MetaFiles      int                `json:"meta_files"`
	SkippedFiles   int                `json:"skipped_files"`
	OrphansRemoved int                `json:"orphans_removed"`
	Strategy       Strategy           `json:"strategy"`
	DurationMS     int64              `json:"duration_ms"`
	Metrics        map[string]float64 `json:"metrics"`
}

// heartbeat is the JSON shape written to <project>/.mcp-data/heartbeat.
type heartbeat struct {
	Timestamp int64 `json:"timestamp"`
	Processed int64 `json:"processed"`
	Total     int   `json:"total"`
}

// parseResult is what a worker sends to the single consumer.
type parseResult struct {
	path     string
	skip     bool
	metaOnly bool
	file     store.File
	ext      extract.Extracted
}

// Run executes one full indexing pass and returns its summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	log := slog.With("component", "index", "project", opts.Project)

	registry, err := lang.Default()
	if err != nil {
		return nil, fmt.Errorf("index: parser registry: %w", err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("index: open store: %w", err)
	}
	defer st.Close()

	paths, err := walk.Walk(opts.Project, walk.Options{
		Scope:           opts.Scope,
		ExtraIgnoreDirs: opts.IgnoreDirs,
		Extensions:      opts.Extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("index: walk: %w", err)
	}

	existingPaths, err := st.AllFilePaths()
	if err != nil {
		return nil, fmt.Errorf("index: list existing files: %w", err)
	}
	hasMetaBacklog, err := hasMetaRows(st)
	if err != nil {
		return nil, fmt.Errorf("index: check meta backlog: %w", err)
	}
	initialBuild := len(existingPaths) == 0

	huge := envInt(envHugeFileThreshold, defaultHugeThreshold)
	budget := envInt(envBootstrapMaxParse, defaultBootstrapBudget)

	strategy := StrategyFullOrIncremental
	switch {
	case opts.ForceFull:
		strategy = StrategyForceFull
	case (initialBuild || hasMetaBacklog) && len(paths) > huge:
		strategy = StrategyBootstrap
	}
	log.Info("indexing strategy selected", "strategy", strategy, "files", len(paths))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency()
	}

	jobs := make(chan string, concurrency*2)
	results := make(chan parseResult, concurrency*2)

	var budgetConsumed int64 // atomic fetch-add counter, bootstrap cutoff
	runMetrics := metrics.NewRun()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				r, ok := processFile(ctx, opts.Project, path, registry, st, strategy, int64(budget), &budgetConsumed)
				if !ok {
					runMetrics.ParseErrors.Inc() // per-file transient error: dropped silently, no log/fatal
					continue
				}
				select {
				case results <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{TotalFiles: len(paths), Strategy: strategy}

	var bar *ui.Bar
	if opts.Progress != nil {
		bar = ui.NewBar(opts.Progress, int64(len(paths)), "indexing")
	}

	batch := &store.Batch{}
	var processed int64
	heartbeatPath := filepath.Join(opts.Project, ".mcp-data", "heartbeat")

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := st.CommitBatch(batch); err != nil {
			return err
		}
		if err := st.CheckpointPassive(); err != nil {
			return fmt.Errorf("index: passive checkpoint: %w", err)
		}
		batch.Files = nil
		return nil
	}

	for r := range results {
		processed++
		bar.Add(1)
		if processed%10 == 0 {
			writeHeartbeat(heartbeatPath, processed, len(paths))
		}

		if r.skip {
			summary.SkippedFiles++
			runMetrics.FilesSkipped.Inc()
			continue
		}
		if r.metaOnly {
			summary.MetaFiles++
		} else {
			summary.ParsedFiles++
			runMetrics.FilesProcessed.Inc()
			runMetrics.SymbolsIndexed.Add(float64(len(r.ext.Symbols)))
		}

		pf := store.PendingFile{File: r.file, MetaOnly: r.metaOnly}
		if !r.metaOnly {
			pf.Symbols = r.ext.Symbols
			pf.Calls = r.ext.Calls
		}
		batch.Add(pf)

		if batch.Len() >= batchSize {
			if err := flush(); err != nil {
				return nil, fmt.Errorf("index: commit batch: %w", err)
			}
		}
	}

	if err := flush(); err != nil {
		return nil, fmt.Errorf("index: final commit: %w", err)
	}
	bar.Finish()

	if err := st.LinkCalls(); err != nil {
		return nil, fmt.Errorf("index: link calls: %w", err)
	}
	if linked, err := st.CountLinkedCalls(); err == nil {
		runMetrics.CallsLinked.Add(float64(linked))
	}

	onDisk := make(map[string]bool, len(paths))
	for _, p := range paths {
		onDisk[p] = true
	}
	for _, p := range existingPaths {
		if onDisk[p] {
			continue
		}
		if err := st.DeleteFileByPath(p); err != nil {
			return nil, fmt.Errorf("index: delete orphan %q: %w", p, err)
		}
		summary.OrphansRemoved++
	}
	if summary.OrphansRemoved > 0 {
		if err := st.UnlinkDanglingCalls(); err != nil {
			return nil, fmt.Errorf("index: unlink dangling calls: %w", err)
		}
	}

	if err := st.CheckpointTruncate(); err != nil {
		return nil, fmt.Errorf("index: truncate checkpoint: %w", err)
	}

	writeHeartbeat(heartbeatPath, int64(len(paths)), len(paths))

	summary.DurationMS = time.Since(start).Milliseconds()
	summary.Metrics = runMetrics.Snapshot()
	return summary, nil
}

// processFile runs C4 -> C1 -> C5 for one file. ok is false for per-file
// transient errors (unreadable, unsupported extension, parse refusal),
// which are dropped silently per spec's error-handling policy.
func processFile(ctx context.Context, root, relPath string, registry *lang.Registry, st *store.Store, strategy Strategy, budget int64, budgetConsumed *int64) (parseResult, bool) {
	absPath := filepath.Join(root, relPath)

	prior, err := st.FileByPath(relPath)
	if err != nil {
		return parseResult{}, false
	}

	det, err := detect.Check(absPath, prior)
	if err != nil {
		return parseResult{}, false
	}
	if det.Skip {
		return parseResult{path: relPath, skip: true}, true
	}

	entry, _, ok := registry.ForFile(relPath)
	if !ok {
		return parseResult{}, false
	}

	now := time.Now().Unix()

	useMetaOnly := strategy == StrategyBootstrap && atomic.AddInt64(budgetConsumed, 1) > budget
	if useMetaOnly {
		f := store.File{
			Path: relPath, Hash: detect.MetaHash(det.Size, det.Mtime),
			Size: det.Size, Mtime: det.Mtime, Language: "meta",
			IndexLevel: store.IndexLevelMeta, IndexedAt: 0, UpdatedAt: now,
		}
		return parseResult{path: relPath, metaOnly: true, file: f}, true
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return parseResult{}, false
	}

	tree, err := lang.Parse(ctx, entry, src)
	if err != nil {
		return parseResult{}, false
	}
	defer tree.Close()

	result := extract.File(entry, tree, src, relPath)

	lineCount := countLines(src)
	f := store.File{
		Path: relPath, Hash: det.Hash, Size: det.Size, Mtime: det.Mtime,
		Language: lang.LanguageTag(relPath), LineCount: lineCount,
		IndexLevel: store.IndexLevelSymbol, IndexedAt: now, UpdatedAt: now,
	}

	return parseResult{path: relPath, file: f, ext: result}, true
}

func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := 1
	for _, b := range src {
		if b == '\n' {
			n++
		}
	}
	return n
}

func hasMetaRows(st *store.Store) (bool, error) {
	row := st.DB().QueryRow("SELECT 1 FROM files WHERE index_level = 'meta' LIMIT 1")
	var one int
	err := row.Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func writeHeartbeat(path string, processed int64, total int) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(heartbeat{Timestamp: time.Now().Unix(), Processed: processed, Total: total})
	if err != nil {
		return
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return n
}

func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
