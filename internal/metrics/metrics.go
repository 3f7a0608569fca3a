// Package metrics tracks in-process run counters with prometheus's client
// library. There is no HTTP exporter: counters feed the JSON run summary
// directly rather than being scraped, since a long-running metrics server
// is out of scope for a one-shot CLI invocation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Run holds the counter set for a single indexing run.
type Run struct {
	registry *prometheus.Registry

	FilesProcessed prometheus.Counter
	SymbolsIndexed prometheus.Counter
	CallsLinked    prometheus.Counter
	ParseErrors    prometheus.Counter
	FilesSkipped   prometheus.Counter
}

// NewRun builds a fresh, isolated counter set registered against its own
// registry so concurrent CLI invocations in the same process (tests) never
// collide on prometheus's default global registry.
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	r := &Run{
		registry: reg,
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symindex_files_processed_total",
			Help: "Source files that reached the extraction stage.",
		}),
		SymbolsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symindex_symbols_indexed_total",
			Help: "Definition symbols committed to the store.",
		}),
		CallsLinked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symindex_calls_linked_total",
			Help: "Call sites resolved to a callee_id by the linking pass.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symindex_parse_errors_total",
			Help: "Files dropped by a per-file error (unreadable, unsupported extension, parse refusal).",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symindex_files_skipped_total",
			Help: "Files skipped by the metadata or hash fast path.",
		}),
	}
	reg.MustRegister(r.FilesProcessed, r.SymbolsIndexed, r.CallsLinked, r.ParseErrors, r.FilesSkipped)
	return r
}

// Snapshot collects the current counter values for inclusion in a JSON
// run summary.
func (r *Run) Snapshot() map[string]float64 {
	out := map[string]float64{
		"files_processed": counterValue(r.FilesProcessed),
		"symbols_indexed": counterValue(r.SymbolsIndexed),
		"calls_linked":    counterValue(r.CallsLinked),
		"parse_errors":    counterValue(r.ParseErrors),
		"files_skipped":   counterValue(r.FilesSkipped),
	}
	return out
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	if m.Counter == nil {
		return 0
	}
	return m.Counter.GetValue()
}
