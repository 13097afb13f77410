package coverage

import (
	"fmt"
	"slices"
)

// LineStatus is the coverage state of a single source line.
type LineStatus int

// All line states.
const (
	NotInstrumented LineStatus = iota
	LineCovered
	LineMissed
)

// String returns the lower-case state name.
func (s LineStatus) String() string {
	switch s {
	case LineCovered:
		return "covered"
	case LineMissed:
		return "missed"
	default:
		return "not-instrumented"
	}
}

type branchCounter struct {
	covered int
	missed  int
}

func (b branchCounter) total() int { return b.covered + b.missed }

// union keeps the larger observation of both covered and total branches.
func (b branchCounter) union(other branchCounter) branchCounter {
	covered := max(b.covered, other.covered)
	total := max(b.total(), other.total(), covered)
	return branchCounter{covered: covered, missed: total - covered}
}

func (n *Node) requireFile() error {
	if n.metric != File {
		return fmt.Errorf("%w: %s '%s' has no line detail", ErrInvalidTreeStructure, n.metric, n.name)
	}
	return nil
}

// MarkLine records the coverage of a 1-based line. Once a line is covered
// it stays covered.
func (n *Node) MarkLine(line int, covered bool) error {
	if err := n.requireFile(); err != nil {
		return err
	}
	if line <= 0 {
		return fmt.Errorf("%w: line %d in '%s'", ErrNegativeValue, line, n.path)
	}
	n.lines[line] = n.lines[line] || covered
	n.invalidate()
	return nil
}

// AddBranches records the branch counters of a 1-based line. Repeated
// observations of the same line keep the larger counts.
func (n *Node) AddBranches(line, covered, missed int) error {
	if err := n.requireFile(); err != nil {
		return err
	}
	if line <= 0 || covered < 0 || missed < 0 {
		return fmt.Errorf("%w: branches %d/%d at line %d in '%s'", ErrNegativeValue, covered, missed, line, n.path)
	}
	n.branches[line] = n.branches[line].union(branchCounter{covered: covered, missed: missed})
	n.invalidate()
	return nil
}

// LineStatus returns the coverage state of a line.
func (n *Node) LineStatus(line int) LineStatus {
	covered, ok := n.lines[line]
	switch {
	case !ok:
		return NotInstrumented
	case covered:
		return LineCovered
	default:
		return LineMissed
	}
}

// CoveredLines returns the covered line numbers in ascending order.
func (n *Node) CoveredLines() []int {
	return n.collectLines(true)
}

// MissedLines returns the missed line numbers in ascending order.
func (n *Node) MissedLines() []int {
	return n.collectLines(false)
}

func (n *Node) collectLines(covered bool) []int {
	lines := make([]int, 0, len(n.lines))
	for line, c := range n.lines {
		if c == covered {
			lines = append(lines, line)
		}
	}
	slices.Sort(lines)
	return lines
}

// Branch returns the branch counters recorded for a line.
func (n *Node) Branch(line int) (covered, missed int, ok bool) {
	b, ok := n.branches[line]
	return b.covered, b.missed, ok
}

// HasLineDetail reports whether any line of the file is instrumented.
func (n *Node) HasLineDetail() bool {
	return len(n.lines) > 0
}

func (n *Node) lineCounts() (covered, missed int) {
	for _, c := range n.lines {
		if c {
			covered++
		} else {
			missed++
		}
	}
	return covered, missed
}
