package csslink

import (
	"errors"
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

func TestFindLocatesImportTarget(t *testing.T) {
	contents := `@import "./base.css";`
	tree, root := parseTree(t, csslexer.CSS, contents)
	links := Find(tree, root)
	require.Len(t, links, 1)
	require.Equal(t, "./base.css", links[0].Target)
}

func TestFindLocatesUseAndForwardTargets(t *testing.T) {
	contents := `@use "sass:math"; @forward "./helpers";`
	tree, root := parseTree(t, csslexer.SCSS, contents)
	links := Find(tree, root)
	require.Len(t, links, 2)
	require.Equal(t, "sass:math", links[0].Target)
	require.Equal(t, "./helpers", links[1].Target)
}

func TestFindLocatesURLLiteral(t *testing.T) {
	contents := `.a { background: url(./img.png); }`
	tree, root := parseTree(t, csslexer.CSS, contents)
	links := Find(tree, root)
	require.Len(t, links, 1)
	require.Equal(t, "./img.png", links[0].Target)
}

func TestFindLocatesQuotedURLLiteral(t *testing.T) {
	contents := `.a { background: url("./img.png"); }`
	tree, root := parseTree(t, csslexer.CSS, contents)
	links := Find(tree, root)
	require.Len(t, links, 1)
	require.Equal(t, "./img.png", links[0].Target)
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("https://example.com/a.css"))
	require.True(t, IsRemote("//example.com/a.css"))
	require.False(t, IsRemote("./local.css"))
}

type fakeFS map[string]FileStat

func (f fakeFS) Stat(uri string) (FileStat, error) {
	if st, ok := f[uri]; ok {
		return st, nil
	}
	return FileStat{}, errors.New("not found")
}

func TestResolveKeepsOnlyStatableTargets(t *testing.T) {
	contents := `@import "./base.css"; @import "./missing.css"; @import "https://cdn.example.com/x.css";`
	tree, root := parseTree(t, csslexer.CSS, contents)
	links := Find(tree, root)
	require.Len(t, links, 3)

	fs := fakeFS{"file:///project/base.css": {Type: FileTypeFile, Size: 10}}
	resolved := Resolve(links, "file:///project/styles.css", fs)
	require.Len(t, resolved, 2)
	require.Equal(t, "file:///project/base.css", resolved[0].Target)
	require.Equal(t, "https://cdn.example.com/x.css", resolved[1].Target)
}
