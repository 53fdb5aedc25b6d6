package csscompletion

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
    values:
      - name: red
      - name: blue
atDirectives:
  - name: media
pseudoClasses:
  - name: hover
pseudoElements:
  - name: before
`))
	require.NoError(t, err)
	return cssdata.NewProvider(d)
}

func TestProposePropertyNameFromData(t *testing.T) {
	tree, root := parseTree(t, csslexer.CSS, ".a { co }")
	offset := int32(len(".a { co"))
	items := Propose(tree, root, nil, testData(t), offset)

	var found bool
	for _, it := range items {
		if it.Label == "color" {
			found = true
		}
	}
	require.True(t, found)
}

func TestProposePropertyValuesFromData(t *testing.T) {
	tree, root := parseTree(t, csslexer.CSS, ".a { color: r; }")
	offset := int32(len(".a { color: r"))
	items := Propose(tree, root, nil, testData(t), offset)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.Contains(t, labels, "red")
}

func TestProposeVariablesInScope(t *testing.T) {
	contents := "$x: 1; .a { width: ; }"
	tree, root := parseTree(t, csslexer.SCSS, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1; .a { width: "))
	items := Propose(tree, root, symbols, nil, offset)

	var found bool
	for _, it := range items {
		if it.Label == "$x" {
			found = true
		}
	}
	require.True(t, found)
}
