package iostore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStore(t *testing.T) {
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "go", 1, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordNodeMetrics(runID, sampleNodeMetrics()))
	require.NoError(t, store.EndRun(runID, time.Now()))

	output := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer
	require.NoError(t, exportStore(&buf, store, output))

	for _, suffix := range []string{".runs.parquet", ".node_metrics.parquet"} {
		info, err := os.Stat(output + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 3 node metric records")
}

func TestExportStore_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := exportStore(&buf, &MockResultStore{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")

	require.Error(t, exportStore(&buf, nil, "out"))

	empty, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = empty.Close() }()
	assert.ErrorIs(t, exportStore(&buf, empty, "out"), ErrNothingToExport)

	failing := &MockResultStore{}
	failing.On("GetStatus").Return(schema.StoreStatus{}, errors.New("boom"))
	err = exportStore(&buf, failing, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	failing.AssertExpectations(t)
}
