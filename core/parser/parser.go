// Package parser converts coverage and test-result reports into coverage trees.
// Every decoder returns a module root built in a single pass over its input.
package parser

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

// ErrMalformedInput is wrapped by every ParseError.
var ErrMalformedInput = errors.New("malformed input")

// ProcessingMode decides what a decoder does with a malformed record.
type ProcessingMode int

const (
	// FailFast aborts the parse on the first malformed record.
	FailFast ProcessingMode = iota
	// IgnoreErrors skips malformed records and logs them.
	IgnoreErrors
)

// String returns the mode name.
func (m ProcessingMode) String() string {
	if m == IgnoreErrors {
		return "ignore-errors"
	}
	return "fail-fast"
}

// defaultModuleName names the module root of formats that carry no module
// name of their own.
const defaultModuleName = "-"

// Parser decodes one report into a module root.
type Parser interface {
	Parse(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error)

// Parse calls f.
func (f ParserFunc) Parse(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	return f(r, fileName, mode, log)
}

// ParseError describes one malformed record. Line is 0 when the format does
// not expose line positions.
type ParseError struct {
	File     string
	Line     int
	Fragment string
	Err      error
}

// Error implements error.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d", e.Line)
	}
	if e.Fragment != "" {
		fmt.Fprintf(&sb, " '%s'", e.Fragment)
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(ErrMalformedInput.Error())
	}
	return sb.String()
}

// Unwrap exposes the cause, which always matches ErrMalformedInput.
func (e *ParseError) Unwrap() error {
	if e.Err == nil {
		return ErrMalformedInput
	}
	return e.Err
}

// malformed builds a ParseError whose cause wraps ErrMalformedInput.
func malformed(fileName string, line int, fragment, format string, args ...any) *ParseError {
	return &ParseError{
		File:     fileName,
		Line:     line,
		Fragment: fragment,
		Err:      fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...)),
	}
}

// recorder applies a processing mode to the defects found during one parse.
type recorder struct {
	fileName string
	mode     ProcessingMode
	log      *Log
}

func newRecorder(fileName string, mode ProcessingMode, log *Log) *recorder {
	return &recorder{fileName: fileName, mode: mode, log: log}
}

// defect reports a malformed record. It returns the error in FailFast mode
// and logs it otherwise, in which case the caller skips the record.
func (r *recorder) defect(line int, fragment, format string, args ...any) error {
	err := malformed(r.fileName, line, fragment, format, args...)
	if r.mode == FailFast {
		return err
	}
	r.log.Error("%s", err.Error())
	return nil
}

// fatal returns a document-level error regardless of mode.
func (r *recorder) fatal(line int, format string, args ...any) error {
	return malformed(r.fileName, line, "", format, args...)
}

func (r *recorder) info(format string, args ...any) {
	r.log.Info(format, args...)
}

// packageName converts a slash-separated directory into a dotted package
// name. The root directory maps to fallback.
func packageName(dir, fallback string) string {
	dir = strings.Trim(path.Clean(dir), "/")
	if dir == "" || dir == "." {
		return fallback
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// namespace returns everything before the last dot of a qualified class
// name, or fallback when the name is unqualified.
func namespace(qualified, fallback string) string {
	if i := strings.LastIndex(qualified, "."); i > 0 {
		return qualified[:i]
	}
	return fallback
}

// findOrCreateMethod returns the method child of parent with the given name
// and signature, creating it when missing.
func findOrCreateMethod(parent *coverage.Node, name, signature string, line int) (*coverage.Node, error) {
	if m, ok := parent.Find(coverage.Method, name+signature); ok {
		return m, nil
	}
	m := coverage.NewMethodNode(name, signature, line)
	if err := parent.AddChild(m); err != nil {
		return nil, err
	}
	return m, nil
}

// normalizePath turns a report path into a clean slash-separated relative
// path.
func normalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return p
	}
	return strings.TrimPrefix(path.Clean(p), "./")
}
