package iostore

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNodeMetrics() []schema.NodeMetric {
	return []schema.NodeMetric{
		{NodePath: "github.com/example/project", NodeMetric: "MODULE", Metric: "LINE", Covered: 23, Missed: 10},
		{NodePath: "github.com/example/project", NodeMetric: "MODULE", Metric: "LOC", Amount: 33},
		{NodePath: "github.com/example/project/pkg.utils/file1.go", NodeMetric: "FILE", Metric: "LINE", Covered: 15, Missed: 2},
	}
}

func TestResultStore_NoneBackend(t *testing.T) {
	store, err := NewResultStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), "go", 1, map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordNodeMetrics(1, sampleNodeMetrics()))
	assert.NoError(t, store.EndRun(1, time.Now()))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	assert.NoError(t, store.Close())
}

func TestResultStore_UnsupportedBackend(t *testing.T) {
	_, err := NewResultStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestResultStore_SQLite(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	startTime := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(startTime, "go", 2, map[string]any{"format": "go", "workers": 4})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordNodeMetrics(runID, sampleNodeMetrics()))
	require.NoError(t, store.EndRun(runID, time.Now()))

	t.Run("runs", func(t *testing.T) {
		runs, err := store.GetAllRuns()
		require.NoError(t, err)
		require.Len(t, runs, 1)

		run := runs[0]
		assert.Equal(t, runID, run.RunID)
		assert.Equal(t, "go", run.Format)
		assert.Equal(t, int32(2), run.ReportCount)
		assert.WithinDuration(t, startTime, run.StartTime, time.Millisecond)
		require.NotNil(t, run.EndTime)
		require.NotNil(t, run.RunDurationMs)
		assert.GreaterOrEqual(t, *run.RunDurationMs, int32(2000))

		require.NotNil(t, run.ConfigParams)
		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &params))
		assert.Equal(t, "go", params["format"])
	})

	t.Run("node metrics", func(t *testing.T) {
		records, err := store.GetAllNodeMetrics()
		require.NoError(t, err)
		require.Len(t, records, 3)

		// Ordered by node path, then metric
		assert.Equal(t, "LINE", records[0].Metric)
		assert.Equal(t, "LOC", records[1].Metric)
		assert.Equal(t, int32(33), records[1].Amount)
		assert.Equal(t, "FILE", records[2].NodeMetric)
		assert.Equal(t, int32(15), records[2].Covered)
	})

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalRuns)
		assert.Equal(t, runID, status.LastRunID)
		assert.Equal(t, 2, status.TotalReportsRead)
		assert.Equal(t, int64(1), status.TableSizes[runsTable])
		assert.Equal(t, int64(3), status.TableSizes[nodeMetricsTable])
	})
}

func TestResultStore_SQLiteEmptyMetrics(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "jacoco", 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordNodeMetrics(runID, nil))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime, "run without EndRun stays open")
	assert.Nil(t, runs[0].RunDurationMs)
}

func TestResultStore_EndUnknownRun(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.EndRun(42, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 42")
}

func TestResultStore_SQLitePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	store, err := NewResultStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(time.Now(), "go", 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(runID, time.Now()))
	require.NoError(t, store.Close())

	reopened, err := NewResultStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	status, err := reopened.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholders(schema.MySQLBackend, 1))
	assert.Equal(t, "$1, $2", placeholders(schema.PostgreSQLBackend, 2))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"covtree_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
	assert.Equal(t, `"covtree_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, "`covtree_runs`", quoteTableName(runsTable, schema.MySQLBackend))
}
