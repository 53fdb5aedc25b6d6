package csshover

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/cssdata"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/cssscope"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parseTree(t *testing.T, dialect csslexer.Dialect, contents string) (*cssast.Tree, cssast.Index) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	return cssparser.Parse(log, &source, dialect)
}

func testData(t *testing.T) *cssdata.Provider {
	t.Helper()
	d, err := cssdata.Load([]byte(`
properties:
  - name: color
    description: sets the foreground color
pseudoClasses:
  - name: hover
    description: applies while the pointer is over the element
`))
	require.NoError(t, err)
	return cssdata.NewProvider(d)
}

func TestHoverOnPropertyName(t *testing.T) {
	contents := ".a { color: red; }"
	tree, root := parseTree(t, csslexer.CSS, contents)

	offset := int32(len(".a { col"))
	h, ok := At(tree, root, nil, testData(t), offset)
	require.True(t, ok)
	require.Contains(t, h.Contents, "color")
	require.Contains(t, h.Contents, "foreground")
}

func TestHoverOnPseudoClass(t *testing.T) {
	contents := "a:hover { color: red; }"
	tree, root := parseTree(t, csslexer.CSS, contents)

	offset := int32(len("a:hov"))
	h, ok := At(tree, root, nil, testData(t), offset)
	require.True(t, ok)
	require.Contains(t, h.Contents, "hover")
}

func TestHoverOnVariableUsage(t *testing.T) {
	contents := "$x: red; .a { color: $x; }"
	tree, root := parseTree(t, csslexer.SCSS, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: red; .a { color: $"))
	h, ok := At(tree, root, symbols, nil, offset)
	require.True(t, ok)
	require.Contains(t, h.Contents, "red")
}

func TestHoverMissReturnsFalse(t *testing.T) {
	contents := ".a { color: red; }"
	tree, root := parseTree(t, csslexer.CSS, contents)

	offset := int32(len(".a "))
	_, ok := At(tree, root, nil, nil, offset)
	require.False(t, ok)
}
