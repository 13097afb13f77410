package parser

import (
	"strings"
	"testing"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// results indexes test cases by class and name.
func results(root *coverage.Node) map[string]coverage.TestCase {
	out := make(map[string]coverage.TestCase)
	for _, tc := range root.AllTestCases() {
		out[tc.ClassName+"#"+tc.Name] = tc
	}
	return out
}

func TestParseJUnit(t *testing.T) {
	_, _, err := parseFixture(t, ParseJUnit, "junit.xml", FailFast)
	assert.ErrorIs(t, err, ErrMalformedInput)

	root, log, err := parseFixture(t, ParseJUnit, "junit.xml", IgnoreErrors)
	require.NoError(t, err)
	assert.Equal(t, 1, log.ErrorCount())

	assert.ElementsMatch(t, []string{"com.example", defaultModuleName}, names(root.All(coverage.Package)))
	assert.Equal(t, 5, aggregate(t, root, coverage.Tests).Amount())
	assert.Empty(t, root.Files())

	got := results(root)
	assert.Equal(t, coverage.TestPassed, got["com.example.MathTest#adds"].Result)
	assert.Equal(t, coverage.TestFailed, got["com.example.MathTest#divides"].Result)
	assert.Equal(t, "expected 2 but was 3", got["com.example.MathTest#divides"].Message)
	assert.Equal(t, coverage.TestPassed, got["com.example.MathTest#subtracts"].Result)
	assert.Equal(t, coverage.TestFailed, got["StringTest#trims"].Result)
	assert.Equal(t, coverage.TestSkipped, got["StringTest#pads"].Result)
	assert.Equal(t, "not implemented", got["StringTest#pads"].Message)
}

func TestParseJUnitSingleSuite(t *testing.T) {
	input := `<testsuite name="Solo"><testcase name="one"/></testsuite>`
	root, err := ParseJUnit(strings.NewReader(input), "solo.xml", FailFast, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, names(root.All(coverage.Class)))
}

func TestParseNUnit(t *testing.T) {
	tests := []struct {
		fixture string
		want    map[string]coverage.TestResult
	}{
		{"nunit.xml", map[string]coverage.TestResult{
			"Shop.CartTests#AddsItem":    coverage.TestPassed,
			"Shop.CartTests#RemovesItem": coverage.TestFailed,
			"Shop.CartTests#Empties":     coverage.TestSkipped,
		}},
		{"nunit2.xml", map[string]coverage.TestResult{
			"Shop.PriceTests#Rounds":   coverage.TestPassed,
			"Shop.PriceTests#Converts": coverage.TestSkipped,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			root, log, err := parseFixture(t, ParseNUnit, tt.fixture, FailFast)
			require.NoError(t, err)
			assert.False(t, log.HasErrors())
			assert.Equal(t, []string{"Shop"}, names(root.All(coverage.Package)))

			got := results(root)
			require.Len(t, got, len(tt.want))
			for key, result := range tt.want {
				assert.Equal(t, result, got[key].Result, key)
			}
		})
	}

	root, _, err := parseFixture(t, ParseNUnit, "nunit.xml", FailFast)
	require.NoError(t, err)
	got := results(root)
	assert.Equal(t, "Expected: 0 But was: 1", got["Shop.CartTests#RemovesItem"].Message)
	assert.Equal(t, "flaky", got["Shop.CartTests#Empties"].Message)
}

func TestParseXUnit(t *testing.T) {
	root, _, err := parseFixture(t, ParseXUnit, "xunit.xml", FailFast)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Shop.CartTests", "Shop.Checkout"}, names(root.All(coverage.Class)))
	assert.Equal(t, 3, aggregate(t, root, coverage.Tests).Amount())

	got := results(root)
	assert.Equal(t, coverage.TestPassed, got["Shop.CartTests#AddsItem"].Result)
	assert.Equal(t, "Assert.Equal() Failure", got["Shop.CartTests#RemovesItem"].Message)
	assert.Equal(t, coverage.TestSkipped, got["Shop.Checkout#Pays"].Result)
	assert.Equal(t, "payment sandbox down", got["Shop.Checkout#Pays"].Message)
}

func TestParseXUnitUnknownResult(t *testing.T) {
	input := `<assembly><collection><test name="A.b" type="A" method="b" result="Exploded"/></collection></assembly>`
	_, err := ParseXUnit(strings.NewReader(input), "x.xml", FailFast, nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	log := NewLog()
	root, err := ParseXUnit(strings.NewReader(input), "x.xml", IgnoreErrors, log)
	require.NoError(t, err)
	assert.True(t, log.HasErrors())
	assert.Empty(t, root.AllTestCases())
}
