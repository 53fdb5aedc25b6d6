package cssrename

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

func parseTree(t *testing.T, contents string) (*cssast.Tree, cssast.Index, *logger.Source) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tree, root := cssparser.Parse(log, &source, csslexer.SCSS)
	return tree, root, &source
}

func TestPlanRenamesVariableEverywhere(t *testing.T) {
	contents := "$x: 1; .a { width: $x; } .b { height: $x; }"
	tree, root, source := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1; .a { width: $"))
	edits, err := Plan(tree, root, symbols, offset, "gutter")
	require.NoError(t, err)
	require.Len(t, edits, 3)
	for _, e := range edits {
		require.Equal(t, "$gutter", e.NewText)
	}

	result := Apply(source, edits)
	require.Equal(t, "$gutter: 1; .a { width: $gutter; } .b { height: $gutter; }", result)
}

func TestPlanKeepsUserSuppliedSigil(t *testing.T) {
	contents := "$x: 1; .a { width: $x; }"
	tree, root, source := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1; .a { width: $"))
	edits, err := Plan(tree, root, symbols, offset, "$gutter")
	require.NoError(t, err)
	result := Apply(source, edits)
	require.Equal(t, "$gutter: 1; .a { width: $gutter; }", result)
}

func TestPlanReturnsErrorWhenNoSymbolAtOffset(t *testing.T) {
	contents := ".a { width: 1px; }"
	tree, root, _ := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	_, err := Plan(tree, root, symbols, 1, "b")
	require.Error(t, err)
}

func TestUnifiedDiffRendersRenameAsPatch(t *testing.T) {
	contents := "$x: 1;\n.a { width: $x; }\n"
	tree, root, source := parseTree(t, contents)
	symbols := cssscope.New(tree, root)

	offset := int32(len("$x: 1;\n.a { width: $"))
	edits, err := Plan(tree, root, symbols, offset, "gutter")
	require.NoError(t, err)

	fd, err := UnifiedDiff("styles.scss", source, edits)
	require.NoError(t, err)
	require.NotNil(t, fd)

	text, err := PrintUnifiedDiff(fd)
	require.NoError(t, err)
	require.Contains(t, text, "-.a { width: $x; }")
	require.Contains(t, text, "+.a { width: $gutter; }")
}
