package parser

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"testing"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*
var fixtures embed.FS

// parseFixture runs p over an embedded fixture.
func parseFixture(t *testing.T, p ParserFunc, name string, mode ProcessingMode) (*coverage.Node, *Log, error) {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	log := NewLog()
	root, err := p(bytes.NewReader(data), name, mode, log)
	return root, log, err
}

// aggregate returns the rolled-up value of metric, failing when absent.
func aggregate(t *testing.T, n *coverage.Node, metric coverage.Metric) coverage.Value {
	t.Helper()
	v, ok := n.AggregateValue(metric)
	require.True(t, ok, "missing %s on %s", metric, n)
	return v
}

func assertRatio(t *testing.T, n *coverage.Node, metric coverage.Metric, covered, missed int) {
	t.Helper()
	v := aggregate(t, n, metric)
	assert.Equal(t, covered, v.Covered(), "%s covered", metric)
	assert.Equal(t, missed, v.Missed(), "%s missed", metric)
}

func names(seq func(func(*coverage.Node) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Name())
	}
	return out
}

func TestParseErrorFormatting(t *testing.T) {
	err := malformed("report.out", 4, "garbage", "not a coverage block")
	assert.Equal(t, "report.out:4 'garbage': malformed input: not a coverage block", err.Error())
	assert.ErrorIs(t, err, ErrMalformedInput)

	noLine := malformed("report.xml", 0, "", "empty document")
	assert.Equal(t, "report.xml: malformed input: empty document", noLine.Error())

	bare := &ParseError{File: "x"}
	assert.ErrorIs(t, bare, ErrMalformedInput)

	var wrapped error = fmt.Errorf("decode: %w", err)
	var target *ParseError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 4, target.Line)
}

func TestRecorderModes(t *testing.T) {
	log := NewLog()
	failFast := newRecorder("a.xml", FailFast, log)
	assert.Error(t, failFast.defect(3, "x", "bad"))
	assert.False(t, log.HasErrors())

	ignore := newRecorder("a.xml", IgnoreErrors, log)
	assert.NoError(t, ignore.defect(3, "x", "bad"))
	assert.Equal(t, 1, log.ErrorCount())
	assert.Contains(t, log.Errors()[0], "a.xml:3")

	assert.Error(t, ignore.fatal(0, "broken"))
}

func TestLogCapsOutput(t *testing.T) {
	log := NewLog()
	for i := range 25 {
		log.Error("defect %d", i)
	}
	log.Info("note")

	errs := log.Errors()
	require.Len(t, errs, maxLogLines+1)
	assert.Equal(t, "defect 0", errs[0])
	assert.Equal(t, "... skipped 5 more", errs[maxLogLines])
	assert.Equal(t, 25, log.ErrorCount())
	assert.Equal(t, []string{"note"}, log.Infos())

	var nilLog *Log
	nilLog.Error("ignored")
	assert.False(t, nilLog.HasErrors())
	assert.Nil(t, nilLog.Errors())
}

func TestProcessingModeString(t *testing.T) {
	assert.Equal(t, "fail-fast", FailFast.String())
	assert.Equal(t, "ignore-errors", IgnoreErrors.String())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "pkg.utils", packageName("pkg/utils", "x"))
	assert.Equal(t, "x", packageName("", "x"))
	assert.Equal(t, "x", packageName(".", "x"))
	assert.Equal(t, "com.example", namespace("com.example.Foo", "-"))
	assert.Equal(t, "-", namespace("Foo", "-"))
	assert.Equal(t, "src/a.cs", normalizePath(`.\src\a.cs`))

	covered, missed, ok := parseFraction("50% (1/2)")
	assert.True(t, ok)
	assert.Equal(t, 1, covered)
	assert.Equal(t, 1, missed)
	_, _, ok = parseFraction("3/2")
	assert.False(t, ok)
	_, _, ok = parseFraction("100% (3/2)")
	assert.False(t, ok)

	_, ok = parseCount("-1")
	assert.False(t, ok)
	n, ok := parseCount("")
	assert.True(t, ok)
	assert.Zero(t, n)
	_, ok = parseLineNumber("0")
	assert.False(t, ok)
}

func TestDocumentLevelErrorsAreFatal(t *testing.T) {
	parsers := map[string]ParserFunc{
		"cobertura": ParseCobertura,
		"jacoco":    ParseJaCoCo,
		"junit":     ParseJUnit,
		"metrics":   ParseMetrics,
		"nunit":     ParseNUnit,
		"opencover": ParseOpenCover,
		"pit":       ParsePitest,
		"xunit":     ParseXUnit,
	}
	for name, p := range parsers {
		t.Run(name, func(t *testing.T) {
			for _, mode := range []ProcessingMode{FailFast, IgnoreErrors} {
				_, _, err := parseFixture(t, p, "broken.xml", mode)
				assert.ErrorIs(t, err, ErrMalformedInput)

				_, err = p(bytes.NewReader(nil), "empty.xml", mode, nil)
				assert.ErrorIs(t, err, ErrMalformedInput)
			}
		})
	}

	// A well-formed document with the wrong root element
	_, _, err := parseFixture(t, ParseCobertura, "junit.xml", IgnoreErrors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected root element <testsuites>")
}
