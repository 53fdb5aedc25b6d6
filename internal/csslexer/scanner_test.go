package csslexer

import (
	"testing"

	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func scanAll(contents string, dialect Dialect) ([]Token, []logger.Msg) {
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tracker := logger.MakeLineColumnTracker(&source)
	s := NewScanner(log, &source, &tracker, dialect)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks, log.Done()
}

func firstKind(contents string, dialect Dialect) (Kind, string) {
	toks, _ := scanAll(contents, dialect)
	return toks[0].Kind, toks[0].Text(contents)
}

func TestTokenKinds(t *testing.T) {
	expected := []struct {
		contents string
		kind     Kind
	}{
		{"", EOF},
		{"@media", AtKeyword},
		{"-->", CDC},
		{"<!--", CDO},
		{"}", CurlyR},
		{"]", BracketR},
		{")", ParenR},
		{":", Colon},
		{",", Comma},
		{"?", Delim},
		{"1px", Dimension},
		{"#0", Hash},
		{"#id", Hash},
		{"name", Ident},
		{"123", Number},
		{"{", CurlyL},
		{"[", BracketL},
		{"(", ParenL},
		{"50%", Percentage},
		{";", Semicolon},
		{"'abc'", String},
		{"url(test)", URI},
		{" ", Whitespace},
		{"/* c */", Comment},
		{"~=", Includes},
		{"|=", DashMatch},
		{"^=", PrefixMatch},
		{"$=", SuffixMatch},
		{"*=", SubstringMatch},
	}

	for _, it := range expected {
		contents := it.contents
		kind := it.kind
		t.Run(contents, func(t *testing.T) {
			got, _ := firstKind(contents, CSS)
			csstest.AssertEqual(t, got, kind)
		})
	}
}

func TestHashID(t *testing.T) {
	toks, _ := scanAll("#id", CSS)
	csstest.AssertEqual(t, toks[0].IsID, true)

	toks, _ = scanAll("#0", CSS)
	csstest.AssertEqual(t, toks[0].IsID, false)
}

func TestDimensionUnitOffset(t *testing.T) {
	contents := "10px"
	toks, _ := scanAll(contents, CSS)
	csstest.AssertEqual(t, toks[0].Kind, Dimension)
	csstest.AssertEqual(t, toks[0].DimensionValue(contents), "10")
	csstest.AssertEqual(t, toks[0].DimensionUnit(contents), "px")
}

func TestDimensionUnitOffsetWithSignAndExponent(t *testing.T) {
	contents := "-1.5e2em"
	toks, _ := scanAll(contents, CSS)
	csstest.AssertEqual(t, toks[0].Kind, Dimension)
	csstest.AssertEqual(t, toks[0].DimensionValue(contents), "-1.5e2")
	csstest.AssertEqual(t, toks[0].DimensionUnit(contents), "em")
}

func TestSCSSLineComment(t *testing.T) {
	kind, _ := firstKind("// x", SCSS)
	csstest.AssertEqual(t, kind, LineComment)

	// Plain CSS has no line comments; "//" lexes as two slash delims.
	kind, _ = firstKind("// x", CSS)
	csstest.AssertEqual(t, kind, Delim)
}

func TestSCSSVariableAndInterpolation(t *testing.T) {
	kind, text := firstKind("$color", SCSS)
	csstest.AssertEqual(t, kind, VariableName)
	csstest.AssertEqual(t, text, "$color")

	kind, _ = firstKind("#{$x}", SCSS)
	csstest.AssertEqual(t, kind, InterpolationStart)
}

func TestLESSInterpolationAndEscapedJS(t *testing.T) {
	kind, _ := firstKind("@{name}", LESS)
	csstest.AssertEqual(t, kind, InterpolationStart)

	kind, text := firstKind("~`1+1`", LESS)
	csstest.AssertEqual(t, kind, EscapedJS)
	csstest.AssertEqual(t, text, "~`1+1`")
}

func TestEllipsis(t *testing.T) {
	kind, _ := firstKind("...", LESS)
	csstest.AssertEqual(t, kind, Ellipsis)
}

func TestBadURL(t *testing.T) {
	kind, _ := firstKind("url(x y", CSS)
	csstest.AssertEqual(t, kind, BadURI)
}

func TestUnterminatedString(t *testing.T) {
	_, msgs := scanAll("'abc", CSS)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(msgs))
	}
}

func TestMarkRestore(t *testing.T) {
	log := logger.NewDeferLog()
	source := csstest.SourceForTest("a b c")
	tracker := logger.MakeLineColumnTracker(&source)
	s := NewScanner(log, &source, &tracker, CSS)

	first := s.Next() // "a"
	mark := s.Mark()
	second := s.Next() // " "
	third := s.Next()  // "b"

	s.Restore(mark)
	secondAgain := s.Next()
	thirdAgain := s.Next()

	csstest.AssertEqual(t, first.Kind, Ident)
	csstest.AssertEqual(t, second.Kind, secondAgain.Kind)
	csstest.AssertEqual(t, second.Range, secondAgain.Range)
	csstest.AssertEqual(t, third.Kind, thirdAgain.Kind)
	csstest.AssertEqual(t, third.Range, thirdAgain.Range)
}

func TestFunctionLookaheadIsParserLevel(t *testing.T) {
	// csslexer never emits a distinct Function kind: "max(" is two
	// Ident/ParenL tokens, same as "max (".
	toks, _ := scanAll("max(", CSS)
	csstest.AssertEqual(t, toks[0].Kind, Ident)
	csstest.AssertEqual(t, toks[1].Kind, ParenL)
}

func TestQuotedURLFallsBackToIdentAndParen(t *testing.T) {
	// url("x") is not lexed as a URI token: the quoted-string special case
	// backtracks (via Mark/Restore) to ordinary Ident/ParenL/String/ParenR.
	contents := `url("x")`
	toks, _ := scanAll(contents, CSS)
	csstest.AssertEqual(t, toks[0].Kind, Ident)
	csstest.AssertEqual(t, toks[0].Text(contents), "url")
	csstest.AssertEqual(t, toks[1].Kind, ParenL)
	csstest.AssertEqual(t, toks[2].Kind, String)
	csstest.AssertEqual(t, toks[3].Kind, ParenR)
}

func TestUnquotedURLIsSingleToken(t *testing.T) {
	contents := "url(x)"
	toks, _ := scanAll(contents, CSS)
	csstest.AssertEqual(t, toks[0].Kind, URI)
	csstest.AssertEqual(t, toks[0].Text(contents), contents)
}
