package csscursor

import (
	"testing"

	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func newTestCursor(contents string, dialect csslexer.Dialect) *Cursor {
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tracker := logger.MakeLineColumnTracker(&source)
	return New(log, &source, &tracker, dialect)
}

func TestSkipsTriviaAndTracksWhitespace(t *testing.T) {
	c := newTestCursor("a /* c */  b", csslexer.CSS)
	csstest.AssertEqual(t, c.Kind(), csslexer.Ident)
	csstest.AssertEqual(t, c.Text(), "a")
	csstest.AssertEqual(t, c.HasWhitespace(), false)

	c.Consume()
	csstest.AssertEqual(t, c.Kind(), csslexer.Ident)
	csstest.AssertEqual(t, c.Text(), "b")
	csstest.AssertEqual(t, c.HasWhitespace(), true)
}

func TestAcceptNeverConsumesOnMismatch(t *testing.T) {
	c := newTestCursor("ident", csslexer.CSS)
	if c.Accept(csslexer.Colon) {
		t.Fatal("Accept should not match Colon against an Ident token")
	}
	csstest.AssertEqual(t, c.Kind(), csslexer.Ident)
	csstest.AssertEqual(t, c.Text(), "ident")
}

func TestMarkRestoreUnlimitedDepth(t *testing.T) {
	c := newTestCursor("a b c d", csslexer.CSS)
	c.Consume() // a
	outer := c.Mark()
	c.Consume() // b
	inner := c.Mark()
	c.Consume() // c

	c.RestoreAtMark(inner)
	csstest.AssertEqual(t, c.Text(), "c")

	c.RestoreAtMark(outer)
	csstest.AssertEqual(t, c.Text(), "b")
}

func TestPeekKeywordAndParen(t *testing.T) {
	c := newTestCursor("@mixin foo(", csslexer.SCSS)
	if !c.PeekKeyword("mixin") {
		t.Fatal("expected @mixin to match PeekKeyword(\"mixin\")")
	}
	c.Consume()
	c.Consume() // "foo"
	csstest.AssertEqual(t, c.Kind(), csslexer.ParenL)
}

func TestPeekDelim(t *testing.T) {
	c := newTestCursor("a + b", csslexer.CSS)
	c.Consume() // "a"
	if !c.PeekDelim('+') {
		t.Fatal("expected PeekDelim('+') to match the \"+\" token")
	}
}

func TestAcceptIdentCaseInsensitive(t *testing.T) {
	c := newTestCursor("IMPORTANT", csslexer.CSS)
	if !c.AcceptIdent("important") {
		t.Fatal("expected case-insensitive ident match")
	}
	csstest.AssertEqual(t, c.AtEOF(), true)
}
