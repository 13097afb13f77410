// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/covtree/schema"
)

// StoreManager defines the interface for managing result stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetResultStore() ResultStore
}

// ResultStore defines the interface for tracking runs and storing rolled-up node metrics.
type ResultStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, format string, reportCount int, configParams map[string]any) (int64, error)

	// RecordNodeMetrics stores the rolled-up values of every node of a run
	RecordNodeMetrics(runID int64, metrics []schema.NodeMetric) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time) error

	// GetStatus returns status information about the result store
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns returns every stored run, ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllNodeMetrics returns every stored node metric, ordered by run
	GetAllNodeMetrics() ([]schema.NodeMetricRecord, error)

	// Close closes the underlying connection
	Close() error
}
