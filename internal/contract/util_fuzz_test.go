package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzShouldIgnore fuzzes ShouldIgnore with report paths and exclude lists.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"pkg/utils/file1.go", "*_test.go"},
		{"vendor/github.com/x/y.go", "vendor/"},
		{"api/service.pb.go", ".pb.go"},
		{"com/example/Generated.java", "Generated"},
		{"", ""},
		{"web/node_modules/lib/index.js", "**/node_modules/**"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(t *testing.T, path string, excludesStr string) {
		excludes := splitList(excludesStr)
		ignored := ShouldIgnore(path, excludes)
		if len(excludes) == 0 && ignored {
			t.Errorf("ShouldIgnore(%q) with no excludes returned true", path)
		}
	})
}

// FuzzParseThresholdsString checks that every accepted threshold names a
// coverage metric.
func FuzzParseThresholdsString(f *testing.F) {
	for _, seed := range []string{"line:80", "line:80,branch:60", "LINE : 90.5", "loc:10", "line", ":", ""} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		thresholds, err := ParseThresholdsString(s)
		if err != nil {
			return
		}
		for metric := range thresholds {
			if !metric.IsCoverage() {
				t.Errorf("ParseThresholdsString(%q) accepted non-coverage metric %s", s, metric)
			}
		}
	})
}

// FuzzTruncatePath checks that truncation never exceeds the width it can honor.
func FuzzTruncatePath(f *testing.F) {
	f.Add("github.com/example/project/pkg/utils/file1.go", 20)
	f.Add("a.go", 2)
	f.Add("", 0)

	f.Fuzz(func(t *testing.T, path string, maxWidth int) {
		if !utf8.ValidString(path) || maxWidth > 1<<12 {
			return
		}
		out := TruncatePath(path, maxWidth)
		if maxWidth > 3 && utf8.RuneCountInString(out) > maxWidth {
			t.Errorf("TruncatePath(%q, %d) = %q is too wide", path, maxWidth, out)
		}
	})
}
