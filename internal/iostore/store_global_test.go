package iostore

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &ResultStoreManager{}
}

func TestInitStore(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		resetGlobals()
		dbPath := filepath.Join(t.TempDir(), "results.db")

		require.NoError(t, InitStore(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetResultStore())

		// Repeated initialization keeps the first store
		first := Manager.GetResultStore()
		require.NoError(t, InitStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "other.db")))
		assert.Same(t, first, Manager.GetResultStore())

		CloseStore()
		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "database file should exist")
	})

	t.Run("empty backend is none", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitStore("", ""))

		status, err := Manager.GetResultStore().GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		CloseStore()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals()
		err := InitStore(schema.DatabaseBackend("oracle"), "")
		require.Error(t, err)
		assert.Nil(t, Manager.GetResultStore())
	})
}

func TestClearStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	store, err := NewResultStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearStore(schema.DatabaseBackend("oracle"), "", ""))
}

func TestPrintStoreStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStoreStatus(&buf, schema.StoreStatus{Backend: "none"})
	assert.Equal(t, "Store Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	PrintStoreStatus(&buf, schema.StoreStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalRuns:        2,
		LastRunID:        2,
		LastRunTime:      now,
		OldestRunTime:    now.Add(-time.Hour),
		TotalReportsRead: 5,
		TableSizes:       map[string]int64{nodeMetricsTable: 10, runsTable: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run: 2026-03-01 12:00:00")
	assert.Contains(t, out, "Total Reports Read: 5")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(nodeMetricsTable)), bytes.Index(buf.Bytes(), []byte(runsTable+":")))
}
