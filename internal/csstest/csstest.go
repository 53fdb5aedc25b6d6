// Package csstest provides the small test helpers every core package
// (csslexer, cssast, cssparser, cssscope) shares.
package csstest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cssls/cssls/internal/logger"
)

// SourceForTest builds a logger.Source for a test fixture.
func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}

// AssertEqual fails the test with a got/want message when a and b do not
// print the same with %v.
func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	sa, sb := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	if sa != sb {
		if strings.Contains(sa, "\n") || strings.Contains(sb, "\n") {
			t.Fatalf("got:\n%s\nwant:\n%s", sa, sb)
		} else {
			t.Fatalf("got %q, want %q", sa, sb)
		}
	}
}
