package coverage

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input string
		want  Metric
	}{
		{"LINE", Line},
		{"line", Line},
		{" Branch ", Branch},
		{"mcdc-pair", McdcPair},
		{"function_call", FunctionCall},
		{"loc", LOC},
		{"tests", Tests},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMetric("coverage")
	assert.Error(t, err)
}

func TestMetricRoundTripNames(t *testing.T) {
	for _, m := range Metrics() {
		parsed, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	assert.Equal(t, "METRIC(99)", Metric(99).String())
}

func TestMetricClassification(t *testing.T) {
	for _, m := range []Metric{Module, Package, File, Class, Method} {
		assert.True(t, m.IsContainer(), m.String())
		assert.True(t, m.IsRatio(), m.String())
		assert.False(t, m.IsCoverage(), m.String())
	}
	for _, m := range []Metric{Line, Branch, Instruction, McdcPair, FunctionCall, Mutation} {
		assert.False(t, m.IsContainer(), m.String())
		assert.True(t, m.IsRatio(), m.String())
		assert.True(t, m.IsCoverage(), m.String())
	}
	for _, m := range []Metric{Complexity, CognitiveComplexity, NPathComplexity, LOC, NCSS, Tests} {
		assert.False(t, m.IsRatio(), m.String())
	}
}

func TestMetricOrdering(t *testing.T) {
	assert.Equal(t, -1, Module.Compare(Package))
	assert.Equal(t, 1, Method.Compare(Class))
	assert.Equal(t, 0, Line.Compare(Line))

	shuffled := []Metric{LOC, Method, Line, Module, File}
	slices.SortFunc(shuffled, Metric.Compare)
	assert.Equal(t, []Metric{Module, File, Method, Line, LOC}, shuffled)

	assert.True(t, Module.Contains(Method))
	assert.True(t, Package.Contains(File))
	assert.False(t, File.Contains(Package))
	assert.False(t, File.Contains(Line))
}

func TestMetricCanContain(t *testing.T) {
	tests := []struct {
		parent Metric
		child  Metric
		want   bool
	}{
		{Container, Module, true},
		{Module, Package, true},
		{Module, File, true},
		{Module, Method, false},
		{Package, Package, true},
		{Package, File, true},
		{Package, Class, true},
		{Package, Method, false},
		{File, Class, true},
		{File, Method, true},
		{File, Package, false},
		{Class, Method, true},
		{Class, Class, false},
		{Method, Method, false},
	}
	for _, tt := range tests {
		t.Run(tt.parent.String()+">"+tt.child.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.parent.CanContain(tt.child))
		})
	}
}

func TestMetricText(t *testing.T) {
	text, err := Branch.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "BRANCH", string(text))

	var m Metric
	require.NoError(t, m.UnmarshalText([]byte("instruction")))
	assert.Equal(t, Instruction, m)
	assert.Error(t, m.UnmarshalText([]byte("bogus")))
}
