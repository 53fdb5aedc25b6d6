package cssparser

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/logger"
)

// lessOverlay implements the LESS dialect on top of the base CSS grammar.
type lessOverlay struct{}

// isLessVariableKeyword reports whether the current AtKeyword token is a
// LESS variable ("@name") rather than a real at-directive. LESS variables
// share the "@" + ident lexical shape with at-rules (the scanner has no
// separate token kind for them, unlike SCSS's "$name" VariableName), so
// the parser disambiguates by name against the closed knownAtRules set
// plus the LESS-only "@plugin" directive.
func isLessVariableKeyword(p *Parser) bool {
	if p.dialect != csslexer.LESS || !p.cursor.Peek(csslexer.AtKeyword) {
		return false
	}
	name := strings.ToLower(strings.TrimPrefix(p.cursor.Text(), "@"))
	return !knownAtRules[name] && name != "plugin"
}

func (l lessOverlay) atRule(p *Parser, atKeywordRange logger.Range, name string) (cssast.Index, bool) {
	start := atKeywordRange.Loc.Start
	if name == "plugin" {
		return l.parsePlugin(p, start), true
	}
	return cssast.NoIndex, false
}

// declarationStart recognizes "@name: expr;" variable declarations and
// ".mixin(...);" / "#mixin(...);" mixin references ahead of the
// base Property-then-Expression declaration.
func (l lessOverlay) declarationStart(p *Parser) (cssast.Index, bool) {
	switch {
	case isLessVariableKeyword(p):
		return l.parseVariableDeclaration(p), true
	case p.cursor.PeekDelim('.') || p.cursor.PeekDelim('#'):
		if idx, ok := p.tryMark(func() (cssast.Index, bool) { return l.tryParseMixinReference(p) }); ok {
			return idx, true
		}
	}
	return cssast.NoIndex, false
}

// ruleStart recognizes a LESS mixin declaration at rule position:
// ".name(params) [when (guard)] { ... }" or "#name(params) { ... }".
// It looks like the start of a ruleset's selector list but isn't
// one, so it has to be tried — under a mark, since it can still fail
// partway through and fall back to an ordinary selector — before
// parseSelectorList runs.
func (l lessOverlay) ruleStart(p *Parser) (cssast.Index, bool) {
	return p.tryMark(func() (cssast.Index, bool) { return l.tryParseMixinDeclaration(p) })
}

func (l lessOverlay) parseVariableDeclaration(p *Parser) cssast.Index {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindVariableDeclaration, start)

	nameIdx := p.tree.Alloc(cssast.KindVariableName, p.start())
	p.consume()
	p.finish(nameIdx)
	p.tree.AddChild(idx, nameIdx)

	data := &cssast.VariableDeclarationData{Name: nameIdx, Expression: cssast.NoIndex}
	if !p.expect(idx, csslexer.Colon, "css-colonExpected") {
		p.tree.SetData(idx, data)
		p.finish(idx)
		return idx
	}
	expr := p.parseExpression()
	p.tree.AddChild(idx, expr)
	data.Expression = expr
	p.tree.SetData(idx, data)
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

// tryParseMixinReference handles ".name(args) [!important];",
// "#name(args);", and the same forms followed by a guard clause, which
// in LESS is only legal on a mixin *declaration* (a Ruleset used as a
// mixin) — a bare reference never carries "when", so seeing one here
// means this wasn't a reference after all and the base parser should
// instead try it as an ordinary selector/ruleset.
func (l lessOverlay) tryParseMixinReference(p *Parser) (cssast.Index, bool) {
	start := p.start()
	if !p.acceptDelim('.') && !p.acceptDelim('#') {
		return cssast.NoIndex, false
	}
	if !p.cursor.Peek(csslexer.Ident) {
		return cssast.NoIndex, false
	}
	nameIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
	p.consume()
	p.finish(nameIdx)

	if !p.cursor.Peek(csslexer.ParenL) {
		return cssast.NoIndex, false
	}
	idx := p.tree.Alloc(cssast.KindMixinReference, start)
	p.tree.AddChild(idx, nameIdx)
	data := &cssast.MixinReferenceData{Name: nameIdx}

	p.consume() // "("
	data.Arguments = l.parseCallArguments(p, idx)
	if !p.accept(csslexer.ParenR) {
		return cssast.NoIndex, false
	}
	if p.acceptDelim('!') {
		if !p.acceptIdent("important") {
			return cssast.NoIndex, false
		}
		data.Important = true
	}
	if !p.accept(csslexer.Semicolon) && !p.cursor.Peek(csslexer.CurlyR) {
		return cssast.NoIndex, false
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx, true
}

// tryParseMixinDeclaration implements the declaration half of the LESS
// mixin grammar, as opposed to tryParseMixinReference's call half: both
// start with "." or "#" ident "(", but a declaration continues with an
// optional "when" guard and always ends in a "{...}" body rather than
// ";" or a bare "}".
func (l lessOverlay) tryParseMixinDeclaration(p *Parser) (cssast.Index, bool) {
	start := p.start()
	if !p.acceptDelim('.') && !p.acceptDelim('#') {
		return cssast.NoIndex, false
	}
	if !p.cursor.Peek(csslexer.Ident) {
		return cssast.NoIndex, false
	}
	nameIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
	p.consume()
	p.finish(nameIdx)

	if !p.accept(csslexer.ParenL) {
		return cssast.NoIndex, false
	}
	idx := p.tree.Alloc(cssast.KindMixinDeclaration, start)
	p.tree.AddChild(idx, nameIdx)
	data := &cssast.MixinDeclarationData{Name: nameIdx, Body: cssast.NoIndex, Guard: cssast.NoIndex}
	data.Parameters = l.parseParameterList(p, idx)
	if !p.accept(csslexer.ParenR) {
		return cssast.NoIndex, false
	}

	if p.cursor.PeekIdent("when") {
		guard := l.parseGuard(p)
		data.Guard = guard
		p.tree.AddChild(idx, guard)
	}

	if !p.accept(csslexer.CurlyL) {
		return cssast.NoIndex, false
	}
	body := p.parseDeclarations()
	data.Body = body
	p.tree.AddChild(idx, body)
	p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx, true
}

// parseParameterList parses a LESS mixin's "(@a, @b: default, ...)"
// parameter list, separated by "," or ";" — LESS allows either, using
// the ";" form to pack comma-valued defaults into a single parameter.
func (l lessOverlay) parseParameterList(p *Parser, parent cssast.Index) []cssast.Index {
	var params []cssast.Index
	if p.cursor.Peek(csslexer.ParenR) {
		return params
	}
	for {
		start := p.start()
		param := p.tree.Alloc(cssast.KindFunctionParameter, start)
		switch {
		case isLessVariableKeyword(p):
			p.consume()
		case p.accept(csslexer.Ellipsis):
			// rest parameter
		default:
			p.unexpected(param, "css-identifierExpected", "Expected a parameter")
		}
		if p.accept(csslexer.Colon) {
			p.tree.AddChild(param, p.parseExpression())
		}
		p.finish(param)
		p.tree.AddChild(parent, param)
		params = append(params, param)
		if !p.accept(csslexer.Comma) && !p.accept(csslexer.Semicolon) {
			return params
		}
	}
}

func (l lessOverlay) parseCallArguments(p *Parser, parent cssast.Index) []cssast.Index {
	var args []cssast.Index
	if p.cursor.Peek(csslexer.ParenR) {
		return args
	}
	for {
		arg := p.parseExpression()
		if p.accept(csslexer.Colon) {
			// "@name: value" named argument
			p.tree.AddChild(arg, p.parseExpression())
		}
		p.tree.AddChild(parent, arg)
		args = append(args, arg)
		if !p.accept(csslexer.Comma) && !p.accept(csslexer.Semicolon) {
			return args
		}
	}
}

// term recognizes LESS-only value syntax: "@name" variables,
// "@{name}" interpolation, and escaped literals "~\"...\""/`` ~`...` ``.
func (l lessOverlay) term(p *Parser) (cssast.Index, bool) {
	switch {
	case isLessVariableKeyword(p):
		idx := p.tree.Alloc(cssast.KindVariableName, p.start())
		p.consume()
		p.finish(idx)
		return idx, true

	case p.cursor.Peek(csslexer.InterpolationStart):
		return p.parseInterpolation(), true

	case p.cursor.PeekDelim('~'):
		start := p.start()
		p.consume()
		idx := p.tree.Alloc(cssast.KindEscapedValue, start)
		if !p.accept(csslexer.String) && !p.accept(csslexer.EscapedJS) {
			p.unexpected(idx, "css-stringExpected", "Expected a quoted or backtick-escaped value")
		}
		p.finish(idx)
		return idx, true
	}
	return cssast.NoIndex, false
}

// identifierChunk merges "prefix-@{name}-suffix" interpolated identifier
// fragments the same way scssOverlay does, since LESS interpolation uses
// the same InterpolationStart token as SCSS (only the source spelling
// differs, and that's a scanner concern, not a parser one).
func (l lessOverlay) identifierChunk(p *Parser) cssast.Index {
	idx := p.tree.Alloc(cssast.KindIdentifier, p.start())
	consumedAny := false
loop:
	for {
		switch {
		case p.cursor.Peek(csslexer.Ident):
			p.consume()
			consumedAny = true
		case p.cursor.Peek(csslexer.InterpolationStart):
			p.tree.AddChild(idx, p.parseInterpolation())
			consumedAny = true
		default:
			break loop
		}
		if p.cursor.HasWhitespace() {
			break loop
		}
	}
	if !consumedAny {
		p.unexpected(idx, "css-identifierExpected", "Expected an identifier")
	}
	p.finish(idx)
	return idx
}

// parseGuard parses a mixin declaration's "when [not] (cond) [and (cond)]*"
// clause; called from tryParseMixinDeclaration once the parameter list
// is closed and "when" follows rather than "{".
func (l lessOverlay) parseGuard(p *Parser) cssast.Index {
	start := p.start()
	p.acceptIdent("when")
	idx := p.tree.Alloc(cssast.KindLessGuard, start)
	data := &cssast.LessGuardData{}
	for {
		data.Conditions = append(data.Conditions, l.parseGuardCondition(p, idx))
		if !p.acceptIdent("and") && !p.accept(csslexer.Comma) {
			break
		}
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (l lessOverlay) parseGuardCondition(p *Parser, parent cssast.Index) cssast.Index {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindGuardCondition, start)
	data := &cssast.GuardConditionData{Left: cssast.NoIndex, Right: cssast.NoIndex}
	if p.acceptIdent("not") {
		data.Negated = true
	}
	p.expect(idx, csslexer.ParenL, "css-leftParenthesisExpected")
	data.Left = p.parseExpression()
	p.tree.AddChild(idx, data.Left)

	switch {
	case p.acceptDelim('>'):
		data.Operator = ">"
		if p.acceptDelim('=') {
			data.Operator = ">="
		}
	case p.acceptDelim('='):
		data.Operator = "="
		if p.acceptDelim('<') {
			data.Operator = "=<"
		}
	case p.acceptDelim('<'):
		data.Operator = "<"
	}
	if data.Operator != "" {
		data.Right = p.parseExpression()
		p.tree.AddChild(idx, data.Right)
	}
	p.expect(idx, csslexer.ParenR, "css-rightParenthesisExpected")
	p.tree.SetData(idx, data)
	p.finish(idx)
	p.tree.AddChild(parent, idx)
	return idx
}

// parsePlugin implements "@plugin \"path\";".
func (l lessOverlay) parsePlugin(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindPlugin, start)
	if !p.accept(csslexer.String) {
		p.unexpected(idx, "css-stringExpected", "Expected a plugin path string")
	}
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}
