package cssfold

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parseTree(t *testing.T, contents string) (*cssast.Tree, cssast.Index, *logger.Source) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tree, root := cssparser.Parse(log, &source, csslexer.CSS)
	return tree, root, &source
}

func TestMultiLineRulesetFolds(t *testing.T) {
	tree, root, source := parseTree(t, ".a {\n  color: red;\n}\n")
	ranges := Ranges(tree, root, source)
	require.NotEmpty(t, ranges)
	found := false
	for _, r := range ranges {
		if r.Kind == "region" {
			found = true
		}
	}
	require.True(t, found)
}

func TestSingleLineRulesetDoesNotFold(t *testing.T) {
	tree, root, source := parseTree(t, ".a { color: red; }")
	ranges := Ranges(tree, root, source)
	require.Empty(t, ranges)
}

func TestSelectionRangePyramidInnermostFirst(t *testing.T) {
	tree, root, _ := parseTree(t, ".a { color: red; }")
	// Offset inside "red".
	offset := int32(len(".a { color: ") + 1)
	ranges := SelectionRanges(tree, root, offset)
	require.NotEmpty(t, ranges)
	for i := 1; i < len(ranges); i++ {
		require.GreaterOrEqual(t, ranges[i-1].Loc.Start, ranges[i].Loc.Start)
		require.LessOrEqual(t, ranges[i-1].End(), ranges[i].End())
	}
}
