package agg

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/core/parser"
	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func goConfig(mode parser.ProcessingMode) *contract.Config {
	return &contract.Config{
		Format:   registry.Go,
		Mode:     mode,
		Workers:  2,
		Excludes: contract.DefaultExcludes,
	}
}

func lineValue(t *testing.T, tree *coverage.Node) coverage.Value {
	t.Helper()
	v, ok := tree.AggregateValue(coverage.Line)
	require.True(t, ok)
	return v
}

func TestParseReportsSingle(t *testing.T) {
	out, err := ParseReports(context.Background(), goConfig(parser.FailFast), []string{fixture("cover.out")})
	require.NoError(t, err)

	assert.Equal(t, 1, out.ReportCount)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, "github.com/example/project", out.Tree.Name())

	line := lineValue(t, out.Tree)
	assert.Equal(t, 23, line.Covered())
	assert.Equal(t, 10, line.Missed())
}

func TestParseReportsMerge(t *testing.T) {
	paths := []string{fixture("cover.out"), fixture("malformed.out")}

	t.Run("fail fast", func(t *testing.T) {
		_, err := ParseReports(context.Background(), goConfig(parser.FailFast), paths)
		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrMalformedInput)
		assert.Contains(t, err.Error(), "malformed.out")
	})

	t.Run("ignore errors", func(t *testing.T) {
		out, err := ParseReports(context.Background(), goConfig(parser.IgnoreErrors), paths)
		require.NoError(t, err)

		assert.Equal(t, 2, out.ReportCount)
		assert.NotEmpty(t, out.Warnings)
		assert.Equal(t, coverage.Module, out.Tree.Metric())

		line := lineValue(t, out.Tree)
		assert.Equal(t, 26, line.Covered())
		assert.Equal(t, 13, line.Missed())

		_, ok := out.Tree.FindFile("main.go")
		assert.True(t, ok)
	})
}

func TestParseReportsErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no reports", func(t *testing.T) {
		_, err := ParseReports(ctx, goConfig(parser.FailFast), nil)
		assert.ErrorIs(t, err, contract.ErrNoReports)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseReports(ctx, goConfig(parser.FailFast), []string{fixture("nope.out")})
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		cfg := goConfig(parser.FailFast)
		cfg.Format = "lcov"
		_, err := ParseReports(ctx, cfg, []string{fixture("cover.out")})
		assert.ErrorIs(t, err, registry.ErrUnknownFormat)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ParseReports(cancelled, goConfig(parser.FailFast), []string{fixture("cover.out")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseReportsCobertura(t *testing.T) {
	cfg := goConfig(parser.FailFast)
	cfg.Format = registry.Cobertura

	out, err := ParseReports(context.Background(), cfg, []string{fixture("cobertura.xml")})
	require.NoError(t, err)

	line := lineValue(t, out.Tree)
	assert.Equal(t, 3, line.Covered())
	assert.Equal(t, 2, line.Missed())
}

func TestFilterTree(t *testing.T) {
	out, err := ParseReports(context.Background(), goConfig(parser.FailFast), []string{fixture("cover.out")})
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   string
		excludes []string
		expected []string
	}{
		{
			name:     "no filter",
			expected: []string{"pkg/utils/file1.go", "pkg/db/file2.go", "cmd/file3.go", "pkg/test/file4.go"},
		},
		{
			name:     "path prefix",
			filter:   "pkg/",
			expected: []string{"pkg/utils/file1.go", "pkg/db/file2.go", "pkg/test/file4.go"},
		},
		{
			name:     "excludes",
			excludes: []string{"cmd/", "*4.go"},
			expected: []string{"pkg/utils/file1.go", "pkg/db/file2.go"},
		},
		{
			name:     "nothing left",
			filter:   "internal/",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{PathFilter: tt.filter, Excludes: tt.excludes}
			filtered := FilterTree(cfg, out.Tree)
			assert.ElementsMatch(t, tt.expected, filtered.Files())
			assert.Equal(t, out.Tree.Name(), filtered.Name())
		})
	}

	// The input tree is left alone
	assert.Len(t, out.Tree.Files(), 4)
}
