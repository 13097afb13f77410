package core

import (
	"sort"

	"github.com/huangsam/covtree/schema"
)

// rankFiles sorts files by line coverage in ascending order, so the least
// covered come first, and returns the top 'limit' files. Files without line
// data go last.
func rankFiles(files []schema.FileResult, limit int) []schema.FileResult {
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.HasLines != b.HasLines {
			return a.HasLines
		}
		if a.LinePercent != b.LinePercent {
			return a.LinePercent < b.LinePercent
		}
		if a.MissedLines != b.MissedLines {
			return a.MissedLines > b.MissedLines
		}
		return a.Path < b.Path
	})
	if limit > 0 && len(files) > limit {
		return files[:limit]
	}
	return files
}

// rankPackages sorts packages the same way rankFiles sorts files.
func rankPackages(packages []schema.PackageResult, limit int) []schema.PackageResult {
	sort.Slice(packages, func(i, j int) bool {
		a, b := packages[i], packages[j]
		if a.HasLines != b.HasLines {
			return a.HasLines
		}
		if a.LinePercent != b.LinePercent {
			return a.LinePercent < b.LinePercent
		}
		if a.MissedLines != b.MissedLines {
			return a.MissedLines > b.MissedLines
		}
		return a.Name < b.Name
	})
	if limit > 0 && len(packages) > limit {
		return packages[:limit]
	}
	return packages
}
