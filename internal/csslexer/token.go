// Package csslexer implements a re-entrant, backtrackable scanner for the
// CSS family: character stream in, typed Token stream out, with scanner
// state that snapshots and restores in constant time so a parser can
// rewind mid-stream. The SCSS and LESS dialects add a handful of token
// kinds on top of the plain CSS set.
package csslexer

import "github.com/cssls/cssls/internal/logger"

// Kind is a closed token-kind enum.
type Kind uint8

const (
	EOF Kind = iota

	Ident
	AtKeyword
	Hash
	String
	BadString
	Number
	Dimension
	Percentage
	URI
	BadURI
	CDO // "<!--"
	CDC // "-->"

	Colon
	Semicolon
	Comma
	CurlyL
	CurlyR
	ParenL
	ParenR
	BracketL
	BracketR
	Whitespace
	Comment     // "/* ... */", trivia
	LineComment // "// ...", trivia in SCSS/LESS only

	Includes       // "~="
	DashMatch      // "|="
	PrefixMatch    // "^="
	SuffixMatch    // "$="
	SubstringMatch // "*="

	Delim // a single unclassified character, e.g. "+", ">", "*", "&"

	EscapedJS    // LESS `~`js source`` body
	BadEscapedJS // unterminated backtick literal

	Ellipsis // "..." LESS rest parameter

	InterpolationStart // SCSS "#{" or LESS "@{"

	VariableName // SCSS "$name"
)

var kindNames = map[Kind]string{
	EOF: "end of file", Ident: "identifier", AtKeyword: "@-keyword",
	Hash: "hash token", String: "string token", BadString: "bad string token",
	Number: "number", Dimension: "dimension", Percentage: "percentage",
	URI: "URL token", BadURI: "bad URL token", CDO: "\"<!--\"", CDC: "\"-->\"",
	Colon: "\":\"", Semicolon: "\";\"", Comma: "\",\"", CurlyL: "\"{\"",
	CurlyR: "\"}\"", ParenL: "\"(\"", ParenR: "\")\"", BracketL: "\"[\"",
	BracketR: "\"]\"", Whitespace: "whitespace", Comment: "comment",
	LineComment: "comment", Includes: "\"~=\"", DashMatch: "\"|=\"",
	PrefixMatch: "\"^=\"", SuffixMatch: "\"$=\"", SubstringMatch: "\"*=\"",
	Delim: "delimiter", EscapedJS: "escaped JavaScript", BadEscapedJS: "unterminated escaped JavaScript",
	Ellipsis: "\"...\"", InterpolationStart: "interpolation", VariableName: "variable name",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	panic("internal error: unknown Kind")
}

func (k Kind) IsNumeric() bool {
	return k == Number || k == Percentage || k == Dimension
}

func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment || k == LineComment
}

// Token references a range of the source instead of holding a substring
// directly.
type Token struct {
	Range      logger.Range
	UnitOffset uint16
	Kind       Kind
	IsID       bool // Hash token that would also be a valid identifier start
}

func (t Token) Text(contents string) string {
	return contents[t.Range.Loc.Start:t.Range.End()]
}

// DimensionValue/DimensionUnit split a Dimension token's raw text at
// the unit offset recorded during scanning. No unit conversion is
// performed; the split is purely lexical.
func (t Token) DimensionValue(contents string) string {
	return t.Text(contents)[:t.UnitOffset]
}

func (t Token) DimensionUnit(contents string) string {
	return t.Text(contents)[t.UnitOffset:]
}
