package registry

import (
	"strings"
	"testing"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"go", "GO", " Cobertura ", "jacoco", "JUnit", "metrics", "nunit", "OpenCover", "pit", "VectorCAST", "xunit"} {
		t.Run(name, func(t *testing.T) {
			p, err := Lookup(name)
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "clover", "cobertura2"} {
		_, err := Lookup(name)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	}
	_, err := Lookup("lcov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of cobertura, go, jacoco")
}

func TestFormats(t *testing.T) {
	formats := Formats()
	assert.Len(t, formats, 10)
	assert.Equal(t, Cobertura, formats[0])
	assert.Equal(t, XUnit, formats[len(formats)-1])

	// The returned slice is a copy
	formats[0] = "bogus"
	assert.Equal(t, Cobertura, Formats()[0])

	descriptors := Describe()
	require.Len(t, descriptors, len(FormatNames()))
	for _, d := range descriptors {
		assert.NotEmpty(t, d.Description, d.Format)
		assert.Contains(t, []string{"coverage", "tests", "metrics", "mutation"}, d.Kind)
	}
}

func TestLookupParsesGo(t *testing.T) {
	p, err := Lookup("go")
	require.NoError(t, err)

	root, err := p.Parse(strings.NewReader("mode: set\nexample.com/org/app/main.go:1.1,3.2 2 1\n"), "cover.out", parser.FailFast, nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com/org/app", root.Name())
	v, ok := root.AggregateValue(coverage.Line)
	require.True(t, ok)
	assert.Equal(t, 3, v.Covered())
}
