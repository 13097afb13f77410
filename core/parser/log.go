package parser

import (
	"fmt"
	"sync"
)

// maxLogLines caps how many entries of each kind are reported.
const maxLogLines = 20

// Log collects the diagnostics of one or more parses. A nil *Log discards
// everything. It is safe for concurrent use so that a worker pool can share
// a single log.
type Log struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Error records a skipped defect.
func (l *Log) Error(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// Info records an informational note.
func (l *Log) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any defect was recorded.
func (l *Log) HasErrors() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors) > 0
}

// ErrorCount returns the number of recorded defects.
func (l *Log) ErrorCount() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

// Errors returns the recorded defects, capped for display.
func (l *Log) Errors() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return capped(l.errors)
}

// Infos returns the recorded notes, capped for display.
func (l *Log) Infos() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return capped(l.infos)
}

func capped(lines []string) []string {
	if len(lines) <= maxLogLines {
		return append([]string(nil), lines...)
	}
	out := append([]string(nil), lines[:maxLogLines]...)
	return append(out, fmt.Sprintf("... skipped %d more", len(lines)-maxLogLines))
}
