package cssparser

import (
	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/logger"
)

// scssOverlay implements the SCSS dialect on top of the base CSS
// grammar, through the overlay composition point rather than a parser
// subclass.
type scssOverlay struct{}

func (s scssOverlay) atRule(p *Parser, atKeywordRange logger.Range, name string) (cssast.Index, bool) {
	start := atKeywordRange.Loc.Start
	switch name {
	case "mixin":
		return s.parseMixinDeclaration(p, start), true
	case "include":
		return s.parseInclude(p, start), true
	case "function":
		return s.parseFunctionDeclaration(p, start), true
	case "return":
		return s.parseSimpleExprStatement(p, start, cssast.KindReturn), true
	case "if":
		return s.parseIfLike(p, start, cssast.KindIf), true
	case "else":
		return s.parseIfLike(p, start, cssast.KindElse), true
	case "for":
		return s.parseFor(p, start), true
	case "each":
		return s.parseEach(p, start), true
	case "while":
		return s.parseIfLike(p, start, cssast.KindWhile), true
	case "extend":
		return s.parseExtend(p, start), true
	case "at-root":
		return s.parseIfLike(p, start, cssast.KindAtRoot), true
	case "debug":
		return s.parseSimpleExprStatement(p, start, cssast.KindDebug), true
	case "warn":
		return s.parseSimpleExprStatement(p, start, cssast.KindWarn), true
	case "error":
		return s.parseSimpleExprStatement(p, start, cssast.KindErrorStatement), true
	case "use":
		return s.parseUseOrForward(p, start, cssast.KindUse), true
	case "forward":
		return s.parseUseOrForward(p, start, cssast.KindForward), true
	}
	return cssast.NoIndex, false
}

// declarationStart recognizes "$name : expr [!default] [!global] ;",
// tried ahead of the base Property-then-Expression declaration.
func (s scssOverlay) declarationStart(p *Parser) (cssast.Index, bool) {
	if !p.cursor.Peek(csslexer.VariableName) {
		return cssast.NoIndex, false
	}
	start := p.start()
	idx := p.tree.Alloc(cssast.KindVariableDeclaration, start)

	nameIdx := p.tree.Alloc(cssast.KindVariableName, p.start())
	p.consume()
	p.finish(nameIdx)
	p.tree.AddChild(idx, nameIdx)

	data := &cssast.VariableDeclarationData{Name: nameIdx, Expression: cssast.NoIndex}
	if !p.accept(csslexer.Colon) {
		p.unexpected(idx, "css-colonExpected", "Expected \":\"")
		p.tree.SetData(idx, data)
		p.finish(idx)
		return idx, true
	}

	expr := p.parseExpression()
	p.tree.AddChild(idx, expr)
	data.Expression = expr

	for p.acceptDelim('!') {
		switch {
		case p.acceptIdent("default"):
			data.Default = true
		case p.acceptIdent("global"):
			data.Global = true
		default:
			p.unexpected(idx, "css-identifierExpected", "Expected \"default\" or \"global\"")
		}
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx, true
}

// ruleStart: SCSS has no rule-position construct that looks like a
// selector but isn't one (unlike LESS's guarded mixin declarations), so
// this overlay hook is always a pass-through.
func (s scssOverlay) ruleStart(p *Parser) (cssast.Index, bool) { return cssast.NoIndex, false }

// term recognizes SCSS-only value syntax: variables, "#{...}"
// interpolation, map literals, and namespaced "module.member" calls.
func (s scssOverlay) term(p *Parser) (cssast.Index, bool) {
	switch {
	case p.cursor.Peek(csslexer.VariableName):
		idx := p.tree.Alloc(cssast.KindVariableName, p.start())
		p.consume()
		p.finish(idx)
		return idx, true

	case p.cursor.Peek(csslexer.InterpolationStart):
		return p.parseInterpolation(), true

	case p.cursor.Peek(csslexer.ParenL):
		if idx, ok := p.tryMark(func() (cssast.Index, bool) { return s.tryParseMap(p) }); ok {
			return idx, true
		}
		return cssast.NoIndex, false

	case p.cursor.Peek(csslexer.Ident):
		if idx, ok := p.tryMark(func() (cssast.Index, bool) { return s.tryParseNamespacedCall(p) }); ok {
			return idx, true
		}
		return cssast.NoIndex, false
	}
	return cssast.NoIndex, false
}

// identifierChunk builds a composite Identifier for interpolated property
// names, "prefix-#{expr}-suffix". A new chunk starts after whitespace or
// after a closing interpolation; adjacent chunks with no whitespace
// between them merge into the same Identifier.
func (s scssOverlay) identifierChunk(p *Parser) cssast.Index {
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

func (s scssOverlay) tryParseMap(p *Parser) (cssast.Index, bool) {
	start := p.start()
	if !p.accept(csslexer.ParenL) {
		return cssast.NoIndex, false
	}
	idx := p.tree.Alloc(cssast.KindMap, start)
	if p.accept(csslexer.ParenR) {
		p.finish(idx)
		return idx, true
	}
	for {
		entry := p.tree.Alloc(cssast.KindMapEntry, p.start())
		key := p.parseExpression()
		if !p.accept(csslexer.Colon) {
			return cssast.NoIndex, false // not a map after all; let the caller retry as "(" expr ")"
		}
		value := p.parseExpression()
		p.tree.AddChild(entry, key)
		p.tree.AddChild(entry, value)
		p.finish(entry)
		p.tree.AddChild(idx, entry)
		if !p.accept(csslexer.Comma) {
			break
		}
	}
	if !p.accept(csslexer.ParenR) {
		return cssast.NoIndex, false
	}
	p.finish(idx)
	return idx, true
}

func (s scssOverlay) tryParseNamespacedCall(p *Parser) (cssast.Index, bool) {
	start := p.start()
	if !p.cursor.Peek(csslexer.Ident) {
		return cssast.NoIndex, false
	}
	nsIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
	p.consume()
	p.finish(nsIdx)

	if !p.acceptDelim('.') {
		return cssast.NoIndex, false
	}
	if !p.cursor.Peek(csslexer.Ident) {
		return cssast.NoIndex, false
	}
	memberStart := p.start()
	memberText := p.cursor.Text()
	p.consume()

	if p.accept(csslexer.ParenL) {
		fn := p.tree.Alloc(cssast.KindFunction, start)
		args := p.parseArguments(fn)
		if !p.accept(csslexer.ParenR) {
			p.unexpected(fn, "css-rightParenthesisExpected", "Expected \")\"")
		}
		p.tree.SetData(fn, &cssast.FunctionData{Name: memberText, Arguments: args})
		p.finish(fn)
		return fn, true
	}

	memberIdx := p.tree.Alloc(cssast.KindIdentifier, memberStart)
	p.finish(memberIdx)
	idx := p.tree.Alloc(cssast.KindNamespacedIdentifier, start)
	p.tree.AddChild(idx, nsIdx)
	p.tree.AddChild(idx, memberIdx)
	p.tree.SetData(idx, &cssast.NamespacedIdentifierData{Namespace: nsIdx, Member: memberIdx})
	p.finish(idx)
	return idx, true
}

func (s scssOverlay) parseParameterList(p *Parser, parent cssast.Index) []cssast.Index {
	var params []cssast.Index
	if p.cursor.Peek(csslexer.ParenR) {
		return params
	}
	for {
		start := p.start()
		param := p.tree.Alloc(cssast.KindFunctionParameter, start)
		p.expect(param, csslexer.VariableName, "css-identifierExpected")
		if p.accept(csslexer.Colon) {
			p.tree.AddChild(param, p.parseExpression())
		}
		if p.accept(csslexer.Ellipsis) {
			// rest parameter; no extra node needed, the token itself is enough signal.
		}
		p.finish(param)
		p.tree.AddChild(parent, param)
		params = append(params, param)
		if !p.accept(csslexer.Comma) {
			return params
		}
	}
}

func (s scssOverlay) parseMixinDeclaration(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindMixinDeclaration, start)
	data := &cssast.MixinDeclarationData{Body: cssast.NoIndex, Guard: cssast.NoIndex}

	if p.cursor.Peek(csslexer.Ident) {
		nameIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
		p.consume()
		p.finish(nameIdx)
		p.tree.AddChild(idx, nameIdx)
		data.Name = nameIdx
	} else {
		p.unexpected(idx, "css-identifierExpected", "Expected a mixin name")
	}

	if p.accept(csslexer.ParenL) {
		data.Parameters = s.parseParameterList(p, idx)
		p.expect(idx, csslexer.ParenR, "css-rightParenthesisExpected")
	}

	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		data.Body = body
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (s scssOverlay) parseFunctionDeclaration(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindFunctionDeclaration, start)
	data := &cssast.FunctionDeclarationData{Body: cssast.NoIndex}

	if p.cursor.Peek(csslexer.Ident) {
		nameIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
		p.consume()
		p.finish(nameIdx)
		p.tree.AddChild(idx, nameIdx)
		data.Name = nameIdx
	} else {
		p.unexpected(idx, "css-identifierExpected", "Expected a function name")
	}

	if p.accept(csslexer.ParenL) {
		data.Parameters = s.parseParameterList(p, idx)
		p.expect(idx, csslexer.ParenR, "css-rightParenthesisExpected")
	}

	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		data.Body = body
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (s scssOverlay) parseInclude(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindMixinReference, start)
	data := &cssast.MixinReferenceData{}
	if p.cursor.Peek(csslexer.Ident) {
		nameIdx := p.tree.Alloc(cssast.KindIdentifier, p.start())
		p.consume()
		p.finish(nameIdx)
		p.tree.AddChild(idx, nameIdx)
		data.Name = nameIdx
	} else {
		p.unexpected(idx, "css-identifierExpected", "Expected a mixin name")
	}
	if p.accept(csslexer.ParenL) {
		data.Arguments = s.parseCallArguments(p, idx)
		p.expect(idx, csslexer.ParenR, "css-rightParenthesisExpected")
	}
	if p.accept(csslexer.CurlyL) {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	} else {
		p.accept(csslexer.Semicolon)
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (s scssOverlay) parseCallArguments(p *Parser, parent cssast.Index) []cssast.Index {
	var args []cssast.Index
	if p.cursor.Peek(csslexer.ParenR) {
		return args
	}
	for {
		arg := p.parseExpression()
		if p.accept(csslexer.Colon) {
			// "$name: value" keyword argument
			p.tree.AddChild(arg, p.parseExpression())
		}
		p.tree.AddChild(parent, arg)
		args = append(args, arg)
		if !p.accept(csslexer.Comma) {
			return args
		}
	}
}

// parseSimpleExprStatement handles "@return/@debug/@warn/@error expr;".
func (s scssOverlay) parseSimpleExprStatement(p *Parser, start int32, kind cssast.Kind) cssast.Index {
	idx := p.tree.Alloc(kind, start)
	p.tree.AddChild(idx, p.parseExpression())
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

// parseIfLike handles the shared "header expression(s) then block" shape
// of @if/@else/@while/@at-root.
func (s scssOverlay) parseIfLike(p *Parser, start int32, kind cssast.Kind) cssast.Index {
	idx := p.tree.Alloc(kind, start)
	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() {
		p.tree.AddChild(idx, p.parseExpression())
		break
	}
	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

// parseFor implements "@for $var from <expr> through|to <expr> { ... }".
func (s scssOverlay) parseFor(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindFor, start)
	data := &cssast.ForData{Variable: cssast.NoIndex, From: cssast.NoIndex, To: cssast.NoIndex}

	if p.cursor.Peek(csslexer.VariableName) {
		v := p.tree.Alloc(cssast.KindVariableName, p.start())
		p.consume()
		p.finish(v)
		p.tree.AddChild(idx, v)
		data.Variable = v
	} else {
		p.unexpected(idx, "css-identifierExpected", "Expected a variable name")
	}

	p.acceptIdent("from")
	data.From = p.parseExpression()
	p.tree.AddChild(idx, data.From)

	if p.acceptIdent("through") {
		data.Through = true
	} else {
		p.acceptIdent("to")
	}
	data.To = p.parseExpression()
	p.tree.AddChild(idx, data.To)

	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

// parseEach implements "@each $a, $b, ... in <expr> { ... }".
func (s scssOverlay) parseEach(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindEach, start)
	data := &cssast.EachData{In: cssast.NoIndex}

	for p.cursor.Peek(csslexer.VariableName) {
		v := p.tree.Alloc(cssast.KindVariableName, p.start())
		p.consume()
		p.finish(v)
		p.tree.AddChild(idx, v)
		data.Variables = append(data.Variables, v)
		if !p.accept(csslexer.Comma) {
			break
		}
	}
	p.acceptIdent("in")
	data.In = p.parseExpression()
	p.tree.AddChild(idx, data.In)

	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

// parseExtend implements "@extend <selector>;". On a malformed selector,
// resync to ")" first (to cover the "@extend(selector)" parenthesized
// form some dialects permit), falling back to ";"/"}".
func (s scssOverlay) parseExtend(p *Parser, start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindExtend, start)
	hadParen := p.accept(csslexer.ParenL)
	sel := p.parseSelector()
	p.tree.AddChild(idx, sel)
	if p.tree.IsErroneous(sel, false) {
		if hadParen {
			p.resyncTo(csslexer.ParenR, csslexer.Semicolon, csslexer.CurlyR)
		} else {
			p.resyncTo(csslexer.Semicolon, csslexer.CurlyR)
		}
	}
	if hadParen {
		p.expect(idx, csslexer.ParenR, "css-rightParenthesisExpected")
	}
	p.acceptDelim('!')
	p.acceptIdent("optional")
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

// parseUseOrForward implements "@use '<path>' [as <ns>|*] [with (...)];"
// and "@forward '<path>' [as <prefix>-*] [show|hide <names>] [with
// (...)];". The path, the @use namespace alias, and @forward's show/hide
// name lists are recorded on the node so the scope builder can declare
// Module, Forward and ForwardVisibility symbols; the "with (...)"
// configuration block is consumed without interpretation.
func (s scssOverlay) parseUseOrForward(p *Parser, start int32, kind cssast.Kind) cssast.Index {
	idx := p.tree.Alloc(kind, start)
	path := ""
	if p.cursor.Peek(csslexer.String) {
		path = p.cursor.Text()
		p.consume()
	} else {
		p.unexpected(idx, "css-stringExpected", "Expected a module path string")
	}

	if kind == cssast.KindUse {
		data := &cssast.UseData{Path: path}
		if p.acceptIdent("as") {
			switch {
			case p.cursor.Peek(csslexer.Ident):
				data.Alias = p.cursor.Text()
				p.consume()
			case p.acceptDelim('*'):
				data.Alias = "*"
			default:
				p.unexpected(idx, "css-identifierExpected", "Expected a namespace name")
			}
		}
		p.tree.SetData(idx, data)
	} else {
		data := &cssast.ForwardData{Path: path}
		if p.acceptIdent("as") {
			// "as <prefix>-*": the prefix is consumed but not modeled.
			p.accept(csslexer.Ident)
			p.acceptDelim('*')
		}
		for p.cursor.PeekIdent("show") || p.cursor.PeekIdent("hide") {
			if p.acceptIdent("show") {
				data.Show = append(data.Show, s.parseVisibilityNames(p)...)
				continue
			}
			p.acceptIdent("hide")
			data.Hide = append(data.Hide, s.parseVisibilityNames(p)...)
		}
		p.tree.SetData(idx, data)
	}

	for !p.cursor.Peek(csslexer.Semicolon) && !p.cursor.AtEOF() && !p.cursor.Peek(csslexer.CurlyL) {
		p.consume()
	}
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

// parseVisibilityNames reads the comma-separated member names of one
// show/hide clause; @forward visibility may name both functions/mixins
// (plain idents) and variables ("$name").
func (s scssOverlay) parseVisibilityNames(p *Parser) []string {
	var names []string
	for {
		if !p.cursor.Peek(csslexer.Ident) && !p.cursor.Peek(csslexer.VariableName) {
			return names
		}
		names = append(names, p.cursor.Text())
		p.consume()
		if !p.accept(csslexer.Comma) {
			return names
		}
	}
}
