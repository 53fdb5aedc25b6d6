package cssnav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/cssscope"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parseTree(t *testing.T, contents string) (*cssast.Tree, cssast.Index) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	return cssparser.Parse(log, &source, csslexer.SCSS)
}

func TestDefinitionResolvesToDeclaration(t *testing.T) {
	contents := "$x: 1; .a { width: $x; }"
	tree, root := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1; .a { width: $")) // inside the usage "$x"
	loc, ok := Definition(tree, root, symbols, offset)
	require.True(t, ok)
	require.Equal(t, int32(0), loc.Range.Loc.Start)
}

func TestReferencesFindsBothUsages(t *testing.T) {
	contents := "$x: 1; .a { width: $x; } .b { height: $x; }"
	tree, root := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1; .a { width: $"))
	locs := References(tree, root, symbols, offset, true)
	require.Len(t, locs, 3) // declaration + two usages
}

func TestHighlightExcludesDeclarationWhenAsked(t *testing.T) {
	contents := "$x: 1; .a { width: $x; }"
	tree, root := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	var usage cssast.Index
	tree.Accept(root, func(idx cssast.Index) bool {
		if tree.Node(idx).Kind == cssast.KindVariableName && tree.GetText(idx) == "$x" {
			usage = idx
		}
		return true
	})
	sym := symbols.FindSymbolFromNode(usage)
	require.NotNil(t, sym)

	locs := Highlight(tree, root, symbols, sym, false)
	require.Len(t, locs, 1)
	require.Equal(t, usage, locs[0].Node)
}
