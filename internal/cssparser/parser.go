// Package cssparser implements the recursive-descent CSS grammar, layered
// with the SCSS and LESS overlays. Every production follows the same node
// discipline: create a node at the current offset, try each optional
// sub-rule under a mark, attach a diagnostic and resync on a missing
// required terminal, finish by setting the length. The base parser calls
// out to small overlay hooks instead of being subclassed per dialect.
package cssparser

import (
	"fmt"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csscursor"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/logger"
)

// overlay is the dialect composition point: the base parser calls into
// it wherever a dialect adds a non-terminal the plain CSS grammar
// doesn't have. cssOverlay supplies a no-op implementation;
// scssOverlay/lessOverlay supply the real ones.
type overlay interface {
	// atRule is tried when the base parser doesn't recognize the current
	// @-keyword. It returns NoIndex, false if the overlay doesn't
	// recognize it either, in which case the base parser falls back to
	// UnknownAtRule.
	atRule(p *Parser, atKeywordRange logger.Range, name string) (cssast.Index, bool)

	// declarationStart is tried before the base parser tries to parse a
	// plain Property-then-Expression declaration, e.g. for SCSS variable
	// declarations ($name) and LESS variable declarations (@name) and
	// mixin references (.name(...) / #name(...)).
	declarationStart(p *Parser) (cssast.Index, bool)

	// ruleStart is tried before the base parser tries to parse a selector
	// list at ruleset position, for dialect-only rule-position constructs
	// that look like a selector but aren't one, e.g. LESS mixin
	// declarations (".name(params) when (guard) { ... }").
	ruleStart(p *Parser) (cssast.Index, bool)

	// term is tried before the base Term grammar, for dialect-only value
	// syntax (SCSS maps, LESS escaped values, variables, interpolation).
	term(p *Parser) (cssast.Index, bool)

	// identifierChunk parses one property-name or value-position
	// identifier, possibly interpolated; base CSS just reads one Ident
	// token into an Identifier node.
	identifierChunk(p *Parser) cssast.Index
}

// Parser holds the mutable state of a single parse: the cursor (itself
// backtrackable) and the arena tree being built. One parser per request,
// single-threaded, never aliased.
type Parser struct {
	cursor  *csscursor.Cursor
	tree    *cssast.Tree
	dialect csslexer.Dialect
	overlay overlay
	log     logger.Log
	tracker *logger.LineColumnTracker

	// lastEnd is the byte offset just past the most recently consumed
	// token; Finish nodes at this offset rather than the about-to-be-read
	// token's start, since trivia may separate the two.
	lastEnd int32
}

// Parse runs the full grammar over source and returns the arena plus the
// Stylesheet root's index.
func Parse(log logger.Log, source *logger.Source, dialect csslexer.Dialect) (*cssast.Tree, cssast.Index) {
	tracker := logger.MakeLineColumnTracker(source)
	p := &Parser{
		cursor:  csscursor.New(log, source, &tracker, dialect),
		tree:    cssast.NewTree(source),
		dialect: dialect,
		log:     log,
		tracker: &tracker,
	}
	switch dialect {
	case csslexer.SCSS:
		p.overlay = scssOverlay{}
	case csslexer.LESS:
		p.overlay = lessOverlay{}
	default:
		p.overlay = cssOverlay{}
	}
	root := p.parseStylesheet()
	return p.tree, root
}

func (p *Parser) start() int32 { return p.cursor.Range().Loc.Start }

// consume unconditionally advances, tracking lastEnd for Finish.
func (p *Parser) consume() csslexer.Token {
	t := p.cursor.Consume()
	p.lastEnd = t.Range.End()
	return t
}

func (p *Parser) accept(kind csslexer.Kind) bool {
	if p.cursor.Peek(kind) {
		p.consume()
		return true
	}
	return false
}

func (p *Parser) acceptIdent(literal string) bool {
	if p.cursor.PeekIdent(literal) {
		p.consume()
		return true
	}
	return false
}

func (p *Parser) acceptDelim(ch byte) bool {
	if p.cursor.PeekDelim(ch) {
		p.consume()
		return true
	}
	return false
}

// finish closes idx at the end of the most recently consumed token.
func (p *Parser) finish(idx cssast.Index) {
	p.tree.Finish(idx, p.lastEnd)
}

// expect consumes kind or attaches a diagnostic naming what was
// expected. It never resyncs itself; callers choose a stop set.
func (p *Parser) expect(idx cssast.Index, kind csslexer.Kind, rule string) bool {
	if p.accept(kind) {
		return true
	}
	p.unexpected(idx, rule, fmt.Sprintf("Expected %s", kind.String()))
	return false
}

func (p *Parser) unexpected(idx cssast.Index, rule, message string) {
	p.error(idx, rule, message, p.cursor.Range())
}

func (p *Parser) error(idx cssast.Index, rule, message string, r logger.Range) {
	p.tree.AddDiagnostic(idx, cssast.Marker{
		Rule:     rule,
		Severity: cssast.SeverityError,
		Message:  message,
		Range:    r,
	})
	p.log.Add(logger.Error, p.tracker, r, message)
}

// resyncTo advances the cursor until it lands on one of the given kinds
// or hits EOF. Local resync is always preferred over abandoning the
// enclosing construct.
func (p *Parser) resyncTo(kinds ...csslexer.Kind) {
	for !p.cursor.AtEOF() {
		for _, k := range kinds {
			if p.cursor.Peek(k) {
				return
			}
		}
		p.consume()
	}
}

// parseInterpolation parses a single "#{...}" (SCSS) or "@{...}" (LESS)
// span; both dialects share the InterpolationStart token kind, so this
// lives on the base parser instead of being duplicated per overlay.
func (p *Parser) parseInterpolation() cssast.Index {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindInterpolation, start)
	p.consume() // "#{" or "@{"
	expr := p.parseExpression()
	p.tree.AddChild(idx, expr)
	p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	p.tree.SetData(idx, &cssast.InterpolationData{Expression: expr})
	p.finish(idx)
	return idx
}

// tryMark runs fn under a cursor mark; if fn reports failure the cursor
// is restored to the mark, any nodes fn allocated are left in place, and
// the caller is expected to ignore the returned index. Node allocation is append-only,
// so a restored parse leaves a few orphaned arena slots rather than
// corrupting state. Log messages emitted during the attempt are buffered
// and dropped on failure, so an abandoned alternative never contributes
// diagnostics to the final list.
func (p *Parser) tryMark(fn func() (cssast.Index, bool)) (cssast.Index, bool) {
	mark := p.cursor.Mark()
	outerLog := p.log
	var buffered []logger.Msg
	p.log = logger.Log{
		AddMsg:    func(m logger.Msg) { buffered = append(buffered, m) },
		HasErrors: outerLog.HasErrors,
		Done:      outerLog.Done,
	}
	idx, ok := fn()
	p.log = outerLog
	if ok {
		for _, m := range buffered {
			outerLog.AddMsg(m)
		}
	} else {
		p.cursor.RestoreAtMark(mark)
	}
	return idx, ok
}
