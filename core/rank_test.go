package core

import (
	"testing"

	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankFiles(t *testing.T) {
	files := []schema.FileResult{
		{Path: "a.go", LinePercent: 90, HasLines: true},
		{Path: "b.go"},
		{Path: "c.go", LinePercent: 10, HasLines: true, MissedLines: 9},
		{Path: "d.go", LinePercent: 10, HasLines: true, MissedLines: 18},
		{Path: "e.go", LinePercent: 50, HasLines: true},
	}

	tests := []struct {
		name     string
		limit    int
		expected []string
	}{
		{"all", 10, []string{"d.go", "c.go", "e.go", "a.go", "b.go"}},
		{"limited", 2, []string{"d.go", "c.go"}},
		{"no limit", 0, []string{"d.go", "c.go", "e.go", "a.go", "b.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]schema.FileResult(nil), files...)
			ranked := rankFiles(input, tt.limit)
			paths := make([]string, 0, len(ranked))
			for _, f := range ranked {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.expected, paths)
		})
	}
}

func TestRankPackages(t *testing.T) {
	packages := []schema.PackageResult{
		{Name: "pkg.b", LinePercent: 40, HasLines: true},
		{Name: "pkg.a", LinePercent: 40, HasLines: true},
		{Name: "pkg.c", LinePercent: 95, HasLines: true},
	}

	ranked := rankPackages(packages, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "pkg.a", ranked[0].Name)
	assert.Equal(t, "pkg.b", ranked[1].Name)
}
