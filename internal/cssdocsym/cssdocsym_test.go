package cssdocsym

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parseTree(t *testing.T, dialect csslexer.Dialect, contents string) (*cssast.Tree, cssast.Index) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	return cssparser.Parse(log, &source, dialect)
}

func TestOutlineListsRulesetAndDeclaration(t *testing.T) {
	tree, root := parseTree(t, csslexer.CSS, ".foo { color: blue; }")
	symbols := Outline(tree, root)
	require.Len(t, symbols, 1)
	require.Equal(t, ".foo", symbols[0].Name)
	require.Equal(t, KindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	require.Equal(t, "color", symbols[0].Children[0].Name)
	require.Equal(t, "blue", symbols[0].Children[0].Detail)
}

func TestOutlineListsScssVariableAndMixin(t *testing.T) {
	contents := "$x: 1; @mixin m() { color: red; }"
	tree, root := parseTree(t, csslexer.SCSS, contents)
	symbols := Outline(tree, root)
	require.Len(t, symbols, 2)
	require.Equal(t, "$x", symbols[0].Name)
	require.Equal(t, KindVariable, symbols[0].Kind)
	require.Equal(t, "m", symbols[1].Name)
	require.Equal(t, KindFunction, symbols[1].Kind)
	require.Len(t, symbols[1].Children, 1)
}

func TestOutlineListsKeyframes(t *testing.T) {
	contents := "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }"
	tree, root := parseTree(t, csslexer.CSS, contents)
	symbols := Outline(tree, root)
	require.Len(t, symbols, 1)
	require.Equal(t, "@keyframes spin", symbols[0].Name)
}
