package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/covtree/schema"
)

// Color variables for console output.
var (
	ExcellentColor  = color.New(color.FgGreen, color.Bold) // ExcellentColor represents a well tested area.
	GoodColor       = color.New(color.FgGreen)             // GoodColor represents acceptable coverage.
	FairColor       = color.New(color.FgYellow)            // FairColor represents standard caution.
	PoorColor       = color.New(color.FgRed, color.Bold)   // PoorColor represents standard danger.
	UnmeasuredColor = color.New(color.FgCyan)              // UnmeasuredColor marks nodes without data.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.LabelFor to determine the string, and then applies the appropriate color.
func GetColorLabel(percent float64, measured bool) string {
	text := schema.LabelFor(percent, measured)

	switch text {
	case schema.ExcellentValue:
		return ExcellentColor.Sprint(text)
	case schema.GoodValue:
		return GoodColor.Sprint(text)
	case schema.FairValue:
		return FairColor.Sprint(text)
	case schema.PoorValue:
		return PoorColor.Sprint(text)
	default:
		return UnmeasuredColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore reports whether a report path matches any exclude pattern.
// Blank patterns are skipped; see matchExclude for the pattern forms.
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		if pattern := strings.TrimSpace(ex); pattern != "" && matchExclude(path, pattern) {
			return true
		}
	}
	return false
}

// matchExclude matches one pattern against a path. Patterns holding glob
// characters go through filepath.Match against the path and its base name,
// with "**" folded to "*". A trailing "/" is a directory prefix such as
// "vendor/", a leading "." is a suffix such as ".pb.go", and anything else
// matches as a substring.
func matchExclude(path, pattern string) bool {
	if strings.ContainsAny(pattern, "*?[") {
		glob := strings.ReplaceAll(pattern, "**", "*")
		for _, candidate := range []string{path, filepath.Base(path)} {
			if ok, err := filepath.Match(glob, candidate); err == nil && ok {
				return true
			}
		}
		return false
	}
	switch {
	case strings.HasSuffix(pattern, "/"):
		return strings.HasPrefix(path, pattern)
	case strings.HasPrefix(pattern, "."):
		return strings.HasSuffix(path, pattern)
	default:
		return strings.Contains(path, pattern)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the result store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".covtree_results.db"
	}
	return filepath.Join(homeDir, ".covtree_results.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Paths are left alone when maxWidth leaves no room past the "..." prefix.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
