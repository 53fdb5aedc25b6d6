// Package csscursor wraps csslexer.Scanner with one-token lookahead and a
// backtrack-friendly peek/accept/mark API. The cursor leans on the
// scanner's own Mark/Restore so a parser can backtrack through an
// arbitrary amount of input without re-tokenizing it.
package csscursor

import (
	"regexp"
	"strings"

	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/logger"
)

// Mark captures everything needed to return the cursor to an earlier
// position, including whether whitespace trivia preceded the token at that
// position. Marks are only valid for the lifetime of the Cursor that
// produced them.
type Mark struct {
	snapshot       csslexer.Snapshot
	token          csslexer.Token
	hasSpaceBefore bool
}

// Cursor is a re-entrant token stream: significant tokens only, with
// whitespace/comment trivia consumed and folded into HasWhitespace() rather
// than surfaced as tokens of their own.
type Cursor struct {
	log     logger.Log
	source  *logger.Source
	tracker *logger.LineColumnTracker
	scanner *csslexer.Scanner

	token          csslexer.Token
	hasSpaceBefore bool
}

func New(log logger.Log, source *logger.Source, tracker *logger.LineColumnTracker, dialect csslexer.Dialect) *Cursor {
	c := &Cursor{
		log:     log,
		source:  source,
		tracker: tracker,
		scanner: csslexer.NewScanner(log, source, tracker, dialect),
	}
	c.advance()
	return c
}

// advance pulls tokens from the scanner until it lands on a non-trivia
// token, recording whether any whitespace trivia was skipped along the way.
func (c *Cursor) advance() {
	hasSpace := false
	for {
		t := c.scanner.Next()
		switch t.Kind {
		case csslexer.Whitespace:
			hasSpace = true
			continue
		case csslexer.Comment, csslexer.LineComment:
			continue
		}
		c.token = t
		c.hasSpaceBefore = hasSpace
		return
	}
}

// Kind returns the kind of the current (not yet consumed) token.
func (c *Cursor) Kind() csslexer.Kind { return c.token.Kind }

// Token returns the current token itself, e.g. so a caller can read its
// Range to open a node at the right offset.
func (c *Cursor) Token() csslexer.Token { return c.token }

// Range is shorthand for Token().Range, used constantly when opening and
// closing AST nodes.
func (c *Cursor) Range() logger.Range { return c.token.Range }

// Text returns the current token's raw source text.
func (c *Cursor) Text() string { return c.token.Text(c.source.Contents) }

// HasWhitespace reports whether whitespace trivia immediately preceded the
// current token — needed for selector combinator disambiguation (a bare
// space is the descendant combinator) and LESS's whitespace-sensitive
// interpolation.
func (c *Cursor) HasWhitespace() bool { return c.hasSpaceBefore }

// Peek is a non-consuming predicate on the current token's kind.
func (c *Cursor) Peek(kind csslexer.Kind) bool {
	return c.token.Kind == kind
}

// PeekIdent reports whether the current token is an identifier whose text
// case-insensitively matches literal, without consuming it.
func (c *Cursor) PeekIdent(literal string) bool {
	return c.token.Kind == csslexer.Ident && strings.EqualFold(c.Text(), literal)
}

// PeekKeyword reports whether the current token is an @-keyword whose name
// (the text following "@") case-insensitively matches literal.
func (c *Cursor) PeekKeyword(literal string) bool {
	if c.token.Kind != csslexer.AtKeyword {
		return false
	}
	return strings.EqualFold(strings.TrimPrefix(c.Text(), "@"), literal)
}

// PeekDelim reports whether the current token is a single-character Delim
// matching ch.
func (c *Cursor) PeekDelim(ch byte) bool {
	if c.token.Kind != csslexer.Delim {
		return false
	}
	text := c.Text()
	return len(text) == 1 && text[0] == ch
}

// PeekRegex reports whether the current token has the given kind and its
// text matches re, e.g. recognizing a LESS guard comparison operator or a
// namespaced "module.member" SCSS call without a dedicated token kind.
func (c *Cursor) PeekRegex(kind csslexer.Kind, re *regexp.Regexp) bool {
	return c.token.Kind == kind && re.MatchString(c.Text())
}

// Accept consumes and returns true on a Peek(kind) match; a failed match
// never advances the cursor.
func (c *Cursor) Accept(kind csslexer.Kind) bool {
	if c.Peek(kind) {
		c.advance()
		return true
	}
	return false
}

func (c *Cursor) AcceptIdent(literal string) bool {
	if c.PeekIdent(literal) {
		c.advance()
		return true
	}
	return false
}

func (c *Cursor) AcceptKeyword(literal string) bool {
	if c.PeekKeyword(literal) {
		c.advance()
		return true
	}
	return false
}

func (c *Cursor) AcceptDelim(ch byte) bool {
	if c.PeekDelim(ch) {
		c.advance()
		return true
	}
	return false
}

// Consume unconditionally advances, returning the token that was current.
func (c *Cursor) Consume() csslexer.Token {
	t := c.token
	c.advance()
	return t
}

// Mark snapshots the cursor for unlimited-depth backtracking.
func (c *Cursor) Mark() Mark {
	return Mark{snapshot: c.scanner.Mark(), token: c.token, hasSpaceBefore: c.hasSpaceBefore}
}

// RestoreAtMark returns the cursor to exactly the state captured by m.
func (c *Cursor) RestoreAtMark(m Mark) {
	c.scanner.Restore(m.snapshot)
	c.token = m.token
	c.hasSpaceBefore = m.hasSpaceBefore
}

// Log and Tracker expose the underlying diagnostic sink so the parser can
// attach messages without threading them through every call.
func (c *Cursor) Log() logger.Log                    { return c.log }
func (c *Cursor) Tracker() *logger.LineColumnTracker { return c.tracker }
func (c *Cursor) Source() *logger.Source             { return c.source }

// AtEOF reports whether the cursor has reached the end of the token stream.
func (c *Cursor) AtEOF() bool { return c.token.Kind == csslexer.EOF }
