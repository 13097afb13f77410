package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/covtree/internal/iostore"
	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockStore() (*iostore.MockStoreManager, *iostore.MockResultStore) {
	store := &iostore.MockResultStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetResultStore").Return(store)
	return mgr, store
}

func TestGetSummaryResultRecordsRun(t *testing.T) {
	mgr, store := newMockStore()
	store.On("BeginRun", mock.AnythingOfType("time.Time"), "go", 1, mock.Anything).Return(int64(7), nil)
	store.On("RecordNodeMetrics", int64(7), mock.MatchedBy(func(m []schema.NodeMetric) bool {
		return len(m) > 0 && m[0].NodeMetric == "MODULE"
	})).Return(nil)
	store.On("EndRun", int64(7), mock.AnythingOfType("time.Time")).Return(nil)

	result, err := GetSummaryResult(context.Background(), testConfig("cover.out"), mgr)
	require.NoError(t, err)

	assert.Equal(t, "github.com/example/project", result.Root)
	assert.Equal(t, "go", result.Format)
	assert.Equal(t, 1, result.ReportCount)
	assert.Equal(t, 4, result.FileCount)

	byMetric := make(map[string]schema.MetricSummary)
	for _, m := range result.Metrics {
		byMetric[m.Metric] = m
	}
	assert.Equal(t, 23, byMetric["LINE"].Covered)
	assert.Equal(t, 10, byMetric["LINE"].Missed)
	assert.Equal(t, 33, byMetric["LOC"].Amount)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestRunAnalysisStoreFailuresDoNotFail(t *testing.T) {
	t.Run("begin fails", func(t *testing.T) {
		mgr, store := newMockStore()
		store.On("BeginRun", mock.Anything, "go", 1, mock.Anything).Return(int64(0), errors.New("db down"))

		_, err := GetFileResults(context.Background(), testConfig("cover.out"), mgr)
		require.NoError(t, err)
		store.AssertNotCalled(t, "RecordNodeMetrics", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything)
	})

	t.Run("record fails", func(t *testing.T) {
		mgr, store := newMockStore()
		store.On("BeginRun", mock.Anything, "go", 1, mock.Anything).Return(int64(3), nil)
		store.On("RecordNodeMetrics", int64(3), mock.Anything).Return(errors.New("disk full"))
		store.On("EndRun", int64(3), mock.Anything).Return(nil)

		_, err := GetPackageResults(context.Background(), testConfig("cover.out"), mgr)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("nil store", func(t *testing.T) {
		mgr := &iostore.MockStoreManager{}
		mgr.On("GetResultStore").Return(nil)

		_, err := GetSummaryResult(context.Background(), testConfig("cover.out"), mgr)
		require.NoError(t, err)
		mgr.AssertExpectations(t)
	})
}

func TestGetFileResults(t *testing.T) {
	files, err := GetFileResults(context.Background(), testConfig("cover.out"), nil)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"cmd/file3.go", "pkg/db/file2.go", "pkg/utils/file1.go", "pkg/test/file4.go"}, paths)
	assert.Equal(t, []int{10, 15, 16, 17}, files[0].MissedLineList)

	cfg := testConfig("cover.out")
	cfg.ResultLimit = 2
	limited, err := GetFileResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetPackageResults(t *testing.T) {
	packages, err := GetPackageResults(context.Background(), testConfig("cover.out"), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(packages))
	for _, p := range packages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"cmd", "pkg.db", "pkg.utils", "pkg.test"}, names)
}

func TestGetResultsMissingReport(t *testing.T) {
	_, err := GetSummaryResult(context.Background(), testConfig("missing.out"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.out")
}

func TestGetResultsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetSummaryResult(ctx, testConfig("cover.out"), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecuteSummaryWritesFile(t *testing.T) {
	cfg := testConfig("cover.out")
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

	require.NoError(t, ExecuteSummary(WithSuppressHeader(context.Background()), cfg, nil))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.SummaryResult
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, 4, decoded.FileCount)
}

func TestExecuteCheck(t *testing.T) {
	cfg := testConfig("cover.out")
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.json")

	err := ExecuteCheck(WithSuppressHeader(context.Background()), cfg, nil)
	require.ErrorIs(t, err, ErrCheckFailed)

	content, readErr := os.ReadFile(cfg.OutputFile)
	require.NoError(t, readErr)
	var decoded schema.CheckResult
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.False(t, decoded.Passed)
	require.Len(t, decoded.Evaluations, 1)
	assert.Equal(t, "LINE", decoded.Evaluations[0].Metric)
}

func TestExecuteCompare(t *testing.T) {
	t.Run("requires base", func(t *testing.T) {
		err := ExecuteCompare(context.Background(), testConfig("cover.out"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--base")
	})

	t.Run("writes deltas", func(t *testing.T) {
		mgr := &iostore.MockStoreManager{}
		cfg := testConfig("cover.out")
		cfg.BasePaths = []string{filepath.Join("testdata", "base.out")}
		cfg.OutputFile = filepath.Join(t.TempDir(), "compare.json")

		require.NoError(t, ExecuteCompare(WithSuppressHeader(context.Background()), cfg, mgr))
		mgr.AssertNotCalled(t, "GetResultStore")

		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var decoded schema.ComparisonResult
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, 2, decoded.Summary.TotalNew)
		assert.Equal(t, 1, decoded.Summary.TotalRemoved)
	})
}

func TestGetComparisonResult(t *testing.T) {
	cfg := testConfig("cover.out")
	cfg.BasePaths = []string{filepath.Join("testdata", "base.out")}

	result, err := GetComparisonResult(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.TotalNew)
	assert.Equal(t, 1, result.Summary.TotalRemoved)
	assert.Equal(t, 1, result.Summary.TotalChanged)
	assert.Equal(t, 1, result.Summary.TotalUnchanged)
	assert.NotEmpty(t, result.Metrics)

	_, err = GetComparisonResult(context.Background(), testConfig("cover.out"))
	assert.Error(t, err)
}

func TestExecuteFormats(t *testing.T) {
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "formats.json")
	require.NoError(t, ExecuteFormats(context.Background(), cfg, nil))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"format": "cobertura"`)
}
