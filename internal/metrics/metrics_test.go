package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotReflectsIncrements(t *testing.T) {
	r := NewRun()
	r.FilesProcessed.Add(3)
	r.SymbolsIndexed.Add(12)
	r.CallsLinked.Inc()
	r.ParseErrors.Add(2)
	r.FilesSkipped.Add(5)

	snap := r.Snapshot()
	require.Equal(t, 3.0, snap["files_processed"])
	require.Equal(t, 12.0, snap["symbols_indexed"])
	require.Equal(t, 1.0, snap["calls_linked"])
	require.Equal(t, 2.0, snap["parse_errors"])
	require.Equal(t, 5.0, snap["files_skipped"])
}

func TestNewRunCountersStartAtZero(t *testing.T) {
	snap := NewRun().Snapshot()
	for k, v := range snap {
		require.Zerof(t, v, "counter %s should start at zero", k)
	}
}
