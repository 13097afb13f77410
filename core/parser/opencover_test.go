package parser

import (
	"testing"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenCover(t *testing.T) {
	root, log, err := parseFixture(t, ParseOpenCover, "opencover.xml", FailFast)
	require.NoError(t, err)

	require.Len(t, log.Infos(), 1)
	assert.Contains(t, log.Infos()[0], "nunit.framework")

	assert.Equal(t, []string{"Shop"}, names(root.All(coverage.Package)))
	assert.Equal(t, []string{"src/Shop/Cart.cs"}, root.Files())
	assert.Equal(t, []string{"Shop.Cart"}, names(root.All(coverage.Class)))
	assert.ElementsMatch(t, []string{"Total(System.Int32)", ".ctor()"}, names(root.All(coverage.Method)))

	assertRatio(t, root, coverage.Line, 3, 2)
	assertRatio(t, root, coverage.Branch, 1, 1)
	assertRatio(t, root, coverage.Method, 1, 1)
	assert.Equal(t, 3, aggregate(t, root, coverage.Complexity).Amount())

	total, ok := findMethod(root, "Total(System.Int32)")
	require.True(t, ok)
	assert.Equal(t, 10, total.LineNumber())
	assert.Equal(t, "Total", total.MethodName())
}

func TestSplitOpenCoverName(t *testing.T) {
	name, sig := splitOpenCoverName("System.Void Shop.Cart::Add(System.String,System.Int32)")
	assert.Equal(t, "Add", name)
	assert.Equal(t, "(System.String,System.Int32)", sig)

	name, sig = splitOpenCoverName("Plain")
	assert.Equal(t, "Plain", name)
	assert.Empty(t, sig)
}
