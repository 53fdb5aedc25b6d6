package csscolor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parseTree(t *testing.T, contents string) (*cssast.Tree, cssast.Index) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	return cssparser.Parse(log, &source, csslexer.CSS)
}

func TestHexColorFound(t *testing.T) {
	tree, root := parseTree(t, ".a { color: #ff0000; }")
	decs := Find(tree, root)
	require.Len(t, decs, 1)
	require.Equal(t, RGBA{Red: 1, Green: 0, Blue: 0, Alpha: 1}, decs[0].Color)
}

func TestShortHexExpanded(t *testing.T) {
	tree, root := parseTree(t, ".a { color: #0f0; }")
	decs := Find(tree, root)
	require.Len(t, decs, 1)
	require.Equal(t, RGBA{Red: 0, Green: 1, Blue: 0, Alpha: 1}, decs[0].Color)
}

func TestNamedColorFound(t *testing.T) {
	tree, root := parseTree(t, ".a { color: blue; }")
	decs := Find(tree, root)
	require.Len(t, decs, 1)
	require.Equal(t, RGBA{Red: 0, Green: 0, Blue: 1, Alpha: 1}, decs[0].Color)
}

func TestRgbaFunctionFound(t *testing.T) {
	tree, root := parseTree(t, ".a { color: rgba(255, 0, 0, 0.5); }")
	decs := Find(tree, root)
	require.Len(t, decs, 1)
	require.InDelta(t, 1.0, decs[0].Color.Red, 0.001)
	require.InDelta(t, 0.5, decs[0].Color.Alpha, 0.001)
}

func TestFormatHexRoundTrips(t *testing.T) {
	require.Equal(t, "#ff0000", FormatHex(RGBA{Red: 1, Green: 0, Blue: 0, Alpha: 1}))
	require.Equal(t, "#ff000080", FormatHex(RGBA{Red: 1, Green: 0, Blue: 0, Alpha: 0.5019607843137255}))
}
