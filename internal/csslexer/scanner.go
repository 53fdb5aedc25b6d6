package csslexer

import (
	"strings"
	"unicode/utf8"

	"github.com/cssls/cssls/internal/logger"
)

// Dialect selects which token extensions the scanner recognizes on top of
// the base grammar. A single parametrized scanner, rather than three
// scanner types.
type Dialect uint8

const (
	CSS Dialect = iota
	SCSS
	LESS
)

const eof = -1

// Snapshot is everything needed to restore a Scanner to an identical
// state in O(1).
type Snapshot struct {
	current   int
	codePoint rune
	tokenLoc  int32
}

// Scanner is the re-entrant, backtrackable tokenizer. It produces one
// token per Next() call so the cursor layer can snapshot/restore it
// arbitrarily deep without re-scanning.
type Scanner struct {
	log       logger.Log
	source    *logger.Source
	tracker   *logger.LineColumnTracker
	dialect   Dialect
	current   int
	codePoint rune
	tokenLoc  int32
}

func NewScanner(log logger.Log, source *logger.Source, tracker *logger.LineColumnTracker, dialect Dialect) *Scanner {
	s := &Scanner{log: log, source: source, tracker: tracker, dialect: dialect}
	s.step()
	// Skip a leading BOM; CSS treats only " \t\r\n\f" as whitespace.
	if s.codePoint == '\uFEFF' {
		s.step()
	}
	return s
}

func (s *Scanner) Mark() Snapshot {
	return Snapshot{current: s.current, codePoint: s.codePoint, tokenLoc: s.tokenLoc}
}

func (s *Scanner) Restore(m Snapshot) {
	s.current = m.current
	s.codePoint = m.codePoint
	s.tokenLoc = m.tokenLoc
}

// step decodes the next code point. After step returns, tokenLoc holds the
// byte offset of the code point now in codePoint, and current holds the
// offset just past it — so contents[current:] is always what comes after
// the code point currently being looked at.
func (s *Scanner) step() {
	codePoint, width := utf8.DecodeRuneInString(s.source.Contents[s.current:])
	if width == 0 {
		codePoint = eof
	}
	s.tokenLoc = int32(s.current)
	s.current += width
	s.codePoint = codePoint
}

func (s *Scanner) rest() string {
	return s.source.Contents[s.current:]
}

// Next is total: after the end of input it yields repeated EOF tokens.
func (s *Scanner) Next() Token {
	for {
		startLoc := s.tokenLoc
		tok := Token{Range: logger.Range{Loc: logger.Loc{Start: startLoc}}}
		contents := s.source.Contents

		switch {
		case s.codePoint == eof:
			tok.Kind = EOF

		case s.codePoint == '/' && len(s.rest()) > 0 && s.rest()[0] == '*':
			s.step()
			s.step()
			s.consumeToEndOfMultiLineComment()
			tok.Kind = Comment

		case (s.dialect == SCSS || s.dialect == LESS) && s.codePoint == '/' && len(s.rest()) > 0 && s.rest()[0] == '/':
			s.step()
			s.step()
			s.consumeToEndOfLine()
			tok.Kind = LineComment

		case isWhitespace(s.codePoint):
			s.step()
			for isWhitespace(s.codePoint) {
				s.step()
			}
			tok.Kind = Whitespace

		case s.codePoint == '"' || s.codePoint == '\'':
			tok.Kind = s.consumeString()

		case s.codePoint == '#':
			s.step()
			if IsNameContinue(s.codePoint) || s.isValidEscape() {
				tok.Kind = Hash
				tok.IsID = s.wouldStartIdentifier()
				s.consumeName()
			} else if s.dialect == SCSS && s.codePoint == '{' {
				s.step()
				tok.Kind = InterpolationStart
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '(':
			s.step()
			tok.Kind = ParenL
		case s.codePoint == ')':
			s.step()
			tok.Kind = ParenR
		case s.codePoint == '[':
			s.step()
			tok.Kind = BracketL
		case s.codePoint == ']':
			s.step()
			tok.Kind = BracketR
		case s.codePoint == '{':
			s.step()
			tok.Kind = CurlyL
		case s.codePoint == '}':
			s.step()
			tok.Kind = CurlyR
		case s.codePoint == ',':
			s.step()
			tok.Kind = Comma
		case s.codePoint == ':':
			s.step()
			tok.Kind = Colon
		case s.codePoint == ';':
			s.step()
			tok.Kind = Semicolon

		case s.codePoint == '~':
			s.step()
			if s.dialect == LESS && (s.codePoint == '"' || s.codePoint == '\'') {
				tok.Kind = s.consumeString()
			} else if s.dialect == LESS && s.codePoint == '`' {
				tok.Kind = s.consumeBacktickJS()
			} else if s.codePoint == '=' {
				s.step()
				tok.Kind = Includes
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '|':
			s.step()
			if s.codePoint == '=' {
				s.step()
				tok.Kind = DashMatch
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '^':
			s.step()
			if s.codePoint == '=' {
				s.step()
				tok.Kind = PrefixMatch
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '$':
			s.step()
			if s.codePoint == '=' {
				s.step()
				tok.Kind = SuffixMatch
			} else if s.dialect == SCSS && s.wouldStartIdentifier() {
				s.consumeName()
				tok.Kind = VariableName
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '*':
			s.step()
			if s.codePoint == '=' {
				s.step()
				tok.Kind = SubstringMatch
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '+':
			if s.wouldStartNumber() {
				tok.Kind, tok.UnitOffset = s.consumeNumeric(startLoc)
			} else {
				s.step()
				tok.Kind = Delim
			}

		case s.codePoint == '.':
			if s.wouldStartNumber() {
				tok.Kind, tok.UnitOffset = s.consumeNumeric(startLoc)
			} else if len(contents)-s.current >= 2 && contents[s.current:s.current+2] == ".." {
				s.step()
				s.step()
				s.step()
				tok.Kind = Ellipsis
			} else {
				s.step()
				tok.Kind = Delim
			}

		case s.codePoint == '-':
			if s.wouldStartNumber() {
				tok.Kind, tok.UnitOffset = s.consumeNumeric(startLoc)
			} else if len(contents)-s.current >= 2 && contents[s.current:s.current+2] == "->" {
				s.step()
				s.step()
				s.step()
				tok.Kind = CDC
			} else if s.wouldStartIdentifier() {
				tok.Kind = s.consumeIdentLike()
			} else {
				s.step()
				tok.Kind = Delim
			}

		case s.codePoint == '<':
			if len(contents)-s.current >= 3 && contents[s.current:s.current+3] == "!--" {
				s.step()
				s.step()
				s.step()
				s.step()
				tok.Kind = CDO
			} else {
				s.step()
				tok.Kind = Delim
			}

		case s.codePoint == '@':
			s.step()
			if s.dialect == LESS && s.codePoint == '{' {
				s.step()
				tok.Kind = InterpolationStart
			} else if s.wouldStartIdentifier() {
				s.consumeName()
				tok.Kind = AtKeyword
			} else {
				tok.Kind = Delim
			}

		case s.codePoint == '\\':
			if s.isValidEscape() {
				tok.Kind = s.consumeIdentLike()
			} else {
				s.step()
				s.log.Add(logger.Error, s.tracker, tok.Range, "Invalid escape")
				tok.Kind = Delim
			}

		case s.codePoint >= '0' && s.codePoint <= '9':
			tok.Kind, tok.UnitOffset = s.consumeNumeric(startLoc)

		default:
			if IsNameStart(s.codePoint) {
				tok.Kind = s.consumeIdentLike()
			} else {
				s.step()
				tok.Kind = Delim
			}
		}

		tok.Range.Len = s.tokenLoc - tok.Range.Loc.Start
		if tok.Kind == EOF {
			tok.Range.Len = 0
		}
		return tok
	}
}

func (s *Scanner) consumeToEndOfMultiLineComment() {
	for {
		switch s.codePoint {
		case '*':
			s.step()
			if s.codePoint == '/' {
				s.step()
				return
			}
		case eof:
			s.log.Add(logger.Error, s.tracker, logger.Range{Loc: logger.Loc{Start: s.tokenLoc}}, "Unterminated comment")
			return
		default:
			s.step()
		}
	}
}

func (s *Scanner) consumeToEndOfLine() {
	for !isNewline(s.codePoint) && s.codePoint != eof {
		s.step()
	}
}

func (s *Scanner) consumeBacktickJS() Kind {
	s.step() // consume the opening backtick
	for {
		switch s.codePoint {
		case '`':
			s.step()
			return EscapedJS
		case eof:
			s.log.Add(logger.Error, s.tracker, logger.Range{Loc: logger.Loc{Start: s.tokenLoc}}, "Unterminated escaped JavaScript literal")
			return BadEscapedJS
		case '\\':
			s.step()
			if s.codePoint != eof {
				s.step()
			}
		default:
			s.step()
		}
	}
}

func (s *Scanner) isValidEscape() bool {
	if s.codePoint != '\\' {
		return false
	}
	c, _ := utf8.DecodeRuneInString(s.rest())
	return c != eof && !isNewline(c)
}

func (s *Scanner) wouldStartIdentifier() bool {
	if IsNameStart(s.codePoint) {
		return true
	}
	if s.codePoint == '-' {
		c, width := utf8.DecodeRuneInString(s.rest())
		if c == utf8.RuneError && width <= 1 {
			return false
		}
		if IsNameStart(c) || c == '-' {
			return true
		}
		if c == '\\' {
			c2, _ := utf8.DecodeRuneInString(s.source.Contents[s.current+width:])
			return !isNewline(c2)
		}
		return false
	}
	return s.isValidEscape()
}

func (s *Scanner) wouldStartNumber() bool {
	contents := s.source.Contents
	switch {
	case s.codePoint >= '0' && s.codePoint <= '9':
		return true
	case s.codePoint == '.':
		return s.current < len(contents) && isDigit(contents[s.current])
	case s.codePoint == '+' || s.codePoint == '-':
		if s.current >= len(contents) {
			return false
		}
		c := contents[s.current]
		if isDigit(c) {
			return true
		}
		return c == '.' && s.current+1 < len(contents) && isDigit(contents[s.current+1])
	}
	return false
}

func (s *Scanner) consumeName() string {
	startLoc := s.tokenLoc
	for IsNameContinue(s.codePoint) {
		s.step()
	}
	raw := s.source.Contents[startLoc:s.tokenLoc]
	if !s.isValidEscape() {
		return raw
	}
	var sb strings.Builder
	sb.WriteString(raw)
	sb.WriteRune(s.consumeEscape())
	for {
		if IsNameContinue(s.codePoint) {
			sb.WriteRune(s.codePoint)
			s.step()
		} else if s.isValidEscape() {
			sb.WriteRune(s.consumeEscape())
		} else {
			break
		}
	}
	return sb.String()
}

func (s *Scanner) consumeEscape() rune {
	s.step() // backslash
	c := s.codePoint
	if hex, ok := isHex(c); ok {
		s.step()
		for i := 0; i < 5; i++ {
			if next, ok := isHex(s.codePoint); ok {
				s.step()
				hex = hex*16 + next
			} else {
				break
			}
		}
		if isWhitespace(s.codePoint) {
			s.step()
		}
		if hex == 0 || (hex >= 0xD800 && hex <= 0xDFFF) || hex > 0x10FFFF {
			return utf8.RuneError
		}
		return rune(hex)
	}
	if c == eof {
		return utf8.RuneError
	}
	s.step()
	return c
}

// consumeIdentLike scans a name and, for the "url(" special case only,
// tentatively consumes into the parenthesized body using Mark/Restore: CSS
// treats an unquoted url(...) body as opaque lexer-level text, but
// url("...")/url('...') and every other identifier-then-"(" pair are left
// as separate Ident/ParenL tokens for the parser to recombine.
func (s *Scanner) consumeIdentLike() Kind {
	name := s.consumeName()
	if s.codePoint == '(' && len(name) == 3 {
		u, r, l := name[0]|0x20, name[1]|0x20, name[2]|0x20
		if u == 'u' && r == 'r' && l == 'l' {
			mark := s.Mark()
			s.step() // consume '('
			for isWhitespace(s.codePoint) {
				s.step()
			}
			if s.codePoint != '"' && s.codePoint != '\'' {
				return s.consumeURL()
			}
			s.Restore(mark)
		}
	}
	return Ident
}

func (s *Scanner) consumeURL() Kind {
	for {
		switch s.codePoint {
		case ')':
			s.step()
			return URI
		case eof:
			s.log.Add(logger.Error, s.tracker, logger.Range{Loc: logger.Loc{Start: s.tokenLoc}}, "Expected \")\" to end URL token")
			return BadURI
		case ' ', '\t', '\n', '\r', '\f':
			s.step()
			for isWhitespace(s.codePoint) {
				s.step()
			}
			if s.codePoint != ')' {
				return s.consumeBadURLRemnants()
			}
			s.step()
			return URI
		case '"', '\'', '(':
			return s.consumeBadURLRemnants()
		case '\\':
			if !s.isValidEscape() {
				return s.consumeBadURLRemnants()
			}
			s.consumeEscape()
		default:
			s.step()
		}
	}
}

func (s *Scanner) consumeBadURLRemnants() Kind {
	for {
		switch s.codePoint {
		case ')', eof:
			s.step()
			return BadURI
		case '\\':
			if s.isValidEscape() {
				s.consumeEscape()
				continue
			}
		}
		s.step()
	}
}

func (s *Scanner) consumeString() Kind {
	quote := s.codePoint
	s.step()
	for {
		switch s.codePoint {
		case '\\':
			s.step()
			if s.codePoint == '\r' {
				s.step()
				if s.codePoint == '\n' {
					s.step()
				}
				continue
			}
		case eof, '\n', '\r', '\f':
			s.log.Add(logger.Error, s.tracker, logger.Range{Loc: logger.Loc{Start: s.tokenLoc}}, "Unterminated string token")
			return BadString
		case quote:
			s.step()
			return String
		}
		s.step()
	}
}

// consumeNumeric scans a CSS number starting at startLoc and returns its
// kind plus, for dimensions, the byte offset (relative to startLoc) where
// the unit begins.
func (s *Scanner) consumeNumeric(startLoc int32) (Kind, uint16) {
	if s.codePoint == '+' || s.codePoint == '-' {
		s.step()
	}
	for s.codePoint >= '0' && s.codePoint <= '9' {
		s.step()
	}
	if s.codePoint == '.' {
		s.step()
		for s.codePoint >= '0' && s.codePoint <= '9' {
			s.step()
		}
	}
	if s.codePoint == 'e' || s.codePoint == 'E' {
		contents := s.source.Contents
		if s.current < len(contents) {
			c := contents[s.current]
			if (c == '+' || c == '-') && s.current+1 < len(contents) {
				c = contents[s.current+1]
			}
			if isDigit(c) {
				s.step()
				if s.codePoint == '+' || s.codePoint == '-' {
					s.step()
				}
				for s.codePoint >= '0' && s.codePoint <= '9' {
					s.step()
				}
			}
		}
	}
	numEnd := s.tokenLoc
	if s.wouldStartIdentifier() {
		s.consumeName()
		return Dimension, uint16(numEnd - startLoc)
	}
	if s.codePoint == '%' {
		s.step()
		return Percentage, 0
	}
	return Number, 0
}

func IsNameStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80 || c == '\x00'
}

func IsNameContinue(c rune) bool {
	return IsNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNewline(c rune) bool {
	switch c {
	case '\n', '\r', '\f':
		return true
	}
	return false
}

func isWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isHex(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
