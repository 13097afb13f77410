package iostore

import (
	"time"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetResultStore implements the StoreManager interface.
func (m *MockStoreManager) GetResultStore() contract.ResultStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ResultStore)
	return store
}

// MockResultStore is a mock implementation of ResultStore for testing.
type MockResultStore struct {
	mock.Mock
}

var _ contract.ResultStore = &MockResultStore{} // Compile-time check

// BeginRun implements the ResultStore interface.
func (m *MockResultStore) BeginRun(startTime time.Time, format string, reportCount int, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, format, reportCount, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordNodeMetrics implements the ResultStore interface.
func (m *MockResultStore) RecordNodeMetrics(runID int64, metrics []schema.NodeMetric) error {
	args := m.Called(runID, metrics)
	return args.Error(0)
}

// EndRun implements the ResultStore interface.
func (m *MockResultStore) EndRun(runID int64, endTime time.Time) error {
	args := m.Called(runID, endTime)
	return args.Error(0)
}

// GetStatus implements the ResultStore interface.
func (m *MockResultStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllRuns implements the ResultStore interface.
func (m *MockResultStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllNodeMetrics implements the ResultStore interface.
func (m *MockResultStore) GetAllNodeMetrics() ([]schema.NodeMetricRecord, error) {
	args := m.Called()
	metrics, _ := args.Get(0).([]schema.NodeMetricRecord)
	return metrics, args.Error(1)
}

// Close implements the ResultStore interface.
func (m *MockResultStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
