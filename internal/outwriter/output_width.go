package outwriter

import (
	"os"

	"github.com/huangsam/covtree/internal/contract"
	"golang.org/x/term"
)

// Space reserved for the fixed columns of each table, borders and padding included.
const (
	filesTableWidth    = 75 // Rank + Line % + Covered + Missed + Branch % + Label + Uncovered
	packagesTableWidth = 70 // Rank + Files + Line % + Covered + Missed + Branch % + Label
	compareTableWidth  = 50 // Rank + Before + After + Delta + Status
)

// Bounds of the path column and the width assumed when stdout is not a terminal.
const (
	minPathWidth     = 15
	maxPathWidth     = 70
	fallbackTermSize = 80
)

// GetMaxTablePathWidth returns the width left for the path column once the
// fixed columns of a table are placed. --width overrides terminal detection.
func GetMaxTablePathWidth(cfg *contract.Config, baseWidth int) int {
	width := cfg.Width
	if width <= 0 {
		width = terminalWidth()
	}
	return min(max(width-baseWidth, minPathWidth), maxPathWidth)
}

// terminalWidth reports the stdout column count, or fallbackTermSize when
// output is piped or redirected as in CI.
func terminalWidth() int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return fallbackTermSize
	}
	return cols
}
