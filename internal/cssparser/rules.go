package cssparser

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
)

// parseStylesheet implements "Stylesheet = (AtRule | Ruleset |
// UnknownAtRule)*".
func (p *Parser) parseStylesheet() cssast.Index {
	root := p.tree.Alloc(cssast.KindStylesheet, p.start())
	for !p.cursor.AtEOF() {
		if p.accept(csslexer.CDO) || p.accept(csslexer.CDC) || p.accept(csslexer.Semicolon) {
			continue
		}
		child := p.parseRuleOrAtRule()
		if child != cssast.NoIndex {
			p.tree.AddChild(root, child)
		}
	}
	p.finish(root)
	return root
}

func (p *Parser) parseRuleOrAtRule() cssast.Index {
	if p.cursor.Peek(csslexer.AtKeyword) && !isLessVariableKeyword(p) {
		return p.parseAtRule()
	}
	return p.parseRuleset()
}

// parseRuleset implements "Ruleset = Selectors '{' DeclarationBody '}'".
func (p *Parser) parseRuleset() cssast.Index {
	start := p.start()

	if overlayIdx, ok := p.overlay.declarationStart(p); ok {
		// A bare mixin reference or variable declaration can appear at
		// statement position too (LESS mixin calls, SCSS "@include" are
		// at-rules already handled above, but LESS ".mixin();" is not).
		p.accept(csslexer.Semicolon)
		return overlayIdx
	}

	if overlayIdx, ok := p.overlay.ruleStart(p); ok {
		return overlayIdx
	}

	idx := p.tree.Alloc(cssast.KindRuleset, start)
	p.parseSelectorList(idx)

	if !p.accept(csslexer.CurlyL) {
		p.unexpected(idx, "css-leftCurlyExpected", "Expected \"{\"")
		p.resyncTo(csslexer.Semicolon, csslexer.CurlyR)
		p.accept(csslexer.Semicolon)
		p.finish(idx)
		return idx
	}

	body := p.parseDeclarations()
	p.tree.AddChild(idx, body)

	if !p.accept(csslexer.CurlyR) {
		p.unexpected(idx, "css-rightCurlyExpected", "Expected \"}\"")
		p.resyncTo(csslexer.CurlyR)
		p.accept(csslexer.CurlyR)
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseSelectorList(parent cssast.Index) {
	for {
		sel := p.parseSelector()
		p.tree.AddChild(parent, sel)
		if !p.accept(csslexer.Comma) {
			return
		}
	}
}

func stopsSelector(p *Parser) bool {
	return p.cursor.AtEOF() || p.cursor.Peek(csslexer.CurlyL) || p.cursor.Peek(csslexer.Comma) || p.cursor.Peek(csslexer.Semicolon)
}

// parseSelector implements "a sequence of SimpleSelectors joined by
// explicit combinators".
func (p *Parser) parseSelector() cssast.Index {
	idx := p.tree.Alloc(cssast.KindSelector, p.start())
	for {
		simple := p.parseSimpleSelector()
		if simple == cssast.NoIndex {
			break
		}
		p.tree.AddChild(idx, simple)
		if stopsSelector(p) {
			break
		}
		if comb := p.parseCombinator(); comb != cssast.NoIndex {
			p.tree.AddChild(idx, comb)
		}
	}
	if len(p.tree.Node(idx).Children) == 0 {
		p.unexpected(idx, "css-selectorExpected", "Expected a selector")
	}
	p.finish(idx)
	return idx
}

// parseCombinator recognizes the explicit combinators (">", "+", "~",
// ">>>") plus the implicit descendant combinator (bare whitespace).
func (p *Parser) parseCombinator() cssast.Index {
	start := p.start()
	switch {
	case p.cursor.PeekDelim('>'):
		idx := p.tree.Alloc(cssast.KindCombinatorSelector, start)
		p.consume()
		if p.cursor.PeekDelim('>') {
			p.consume()
			p.accept(csslexer.Delim) // consume the third '>' of ">>>"
		}
		p.finish(idx)
		return idx
	case p.cursor.PeekDelim('+'), p.cursor.PeekDelim('~'):
		idx := p.tree.Alloc(cssast.KindCombinatorSelector, start)
		p.consume()
		p.finish(idx)
		return idx
	case p.cursor.HasWhitespace():
		idx := p.tree.Alloc(cssast.KindCombinatorSelector, start)
		p.finish(idx)
		return idx
	}
	return cssast.NoIndex
}

// parseSimpleSelector consumes one compound selector: an optional type
// selector followed by any number of class/id/attribute/pseudo
// qualifiers, stopping at the next combinator or stop token.
func (p *Parser) parseSimpleSelector() cssast.Index {
	if stopsSelector(p) {
		return cssast.NoIndex
	}
	start := p.start()
	idx := p.tree.Alloc(cssast.KindSimpleSelector, start)
	consumedAny := false

	for {
		switch {
		case p.cursor.PeekDelim('*'), p.cursor.Peek(csslexer.Ident), p.cursor.Peek(csslexer.Hash):
			p.consume()
			consumedAny = true
		case p.cursor.PeekDelim('.'):
			p.consume()
			p.expect(idx, csslexer.Ident, "css-identifierExpected")
			consumedAny = true
		case p.cursor.PeekDelim('&'):
			p.consume() // SCSS/LESS parent selector reference
			consumedAny = true
		case p.cursor.Peek(csslexer.Colon):
			p.consume()
			p.accept(csslexer.Colon) // "::" pseudo-element
			p.expect(idx, csslexer.Ident, "css-identifierExpected")
			if p.accept(csslexer.ParenL) {
				p.parsePseudoArguments(idx)
				if !p.accept(csslexer.ParenR) {
					p.unexpected(idx, "css-rightParenthesisExpected", "Expected \")\"")
					p.resyncTo(csslexer.ParenR, csslexer.CurlyL, csslexer.Semicolon)
					p.accept(csslexer.ParenR)
				}
			}
			consumedAny = true
		case p.cursor.Peek(csslexer.BracketL):
			p.consume()
			p.parseAttributeSelectorBody(idx)
			if !p.accept(csslexer.BracketR) {
				p.unexpected(idx, "css-rightBracketExpected", "Expected \"]\"")
				p.resyncTo(csslexer.BracketR, csslexer.CurlyL, csslexer.Semicolon)
				p.accept(csslexer.BracketR)
			}
			consumedAny = true
		default:
			if !consumedAny {
				p.finish(idx)
				return cssast.NoIndex
			}
			p.finish(idx)
			return idx
		}

		if p.cursor.HasWhitespace() || stopsSelector(p) || p.cursor.PeekDelim('>') || p.cursor.PeekDelim('+') || p.cursor.PeekDelim('~') {
			p.finish(idx)
			return idx
		}
	}
}

// parsePseudoArguments handles the common argument shapes: a nested
// selector list for functional pseudo-classes like :not(...)/:is(...),
// falling back to a raw token run for an+b microsyntaxes like :nth-child.
func (p *Parser) parsePseudoArguments(parent cssast.Index) {
	switch {
	case p.cursor.Peek(csslexer.Ident), p.cursor.PeekDelim('*'), p.cursor.PeekDelim('.'), p.cursor.Peek(csslexer.Colon), p.cursor.Peek(csslexer.Hash):
		p.parseSelectorList(parent)
	default:
		for !p.cursor.Peek(csslexer.ParenR) && !p.cursor.AtEOF() && !p.cursor.Peek(csslexer.CurlyL) {
			p.consume()
		}
	}
}

// parseAttributeSelectorBody parses, with "[" already consumed,
// `namespace? ident (matchOp expr)? "]"`. The identifier, match operator
// and value become a BinaryExpression when a match operator is present.
func (p *Parser) parseAttributeSelectorBody(parent cssast.Index) {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindAttributeSelector, start)
	defer func() { p.tree.AddChild(parent, idx) }()

	if !p.expect(idx, csslexer.Ident, "css-identifierExpected") {
		p.finish(idx)
		return
	}
	if p.accept(csslexer.Delim) { // namespace pipe "|"
		p.expect(idx, csslexer.Ident, "css-identifierExpected")
	}

	isMatchOp := p.cursor.Peek(csslexer.Includes) || p.cursor.Peek(csslexer.DashMatch) ||
		p.cursor.Peek(csslexer.PrefixMatch) || p.cursor.Peek(csslexer.SuffixMatch) ||
		p.cursor.Peek(csslexer.SubstringMatch) || p.cursor.PeekDelim('=')
	if isMatchOp {
		binStart := idx
		bin := p.tree.Alloc(cssast.KindBinaryExpression, p.start())
		p.consume() // the match operator
		if p.cursor.Peek(csslexer.String) || p.cursor.Peek(csslexer.Ident) {
			p.consume()
		} else {
			p.unexpected(bin, "css-stringExpected", "Expected a string or identifier")
		}
		p.finish(bin)
		p.tree.AddChild(binStart, bin)
	}
	p.finish(idx)
}

// parseDeclarations implements "DeclarationBody = (Declaration ';')* with
// trailing ';' optional".
func (p *Parser) parseDeclarations() cssast.Index {
	idx := p.tree.Alloc(cssast.KindDeclarations, p.start())
	for !p.cursor.Peek(csslexer.CurlyR) && !p.cursor.AtEOF() {
		if p.accept(csslexer.Semicolon) {
			continue
		}
		if p.cursor.Peek(csslexer.AtKeyword) && !isLessVariableKeyword(p) {
			p.tree.AddChild(idx, p.parseAtRule())
			continue
		}
		decl := p.parseDeclarationOrNestedRuleset()
		p.tree.AddChild(idx, decl)
		p.accept(csslexer.Semicolon)
	}
	p.finish(idx)
	return idx
}

// parseDeclarationOrNestedRuleset disambiguates a plain property
// declaration from a nested ruleset (CSS nesting / SCSS nested
// selectors) and dialect-only declaration-position constructs (SCSS
// variable declarations, LESS mixin references/variable declarations) by
// trying the overlay hook first under a mark.
func (p *Parser) parseDeclarationOrNestedRuleset() cssast.Index {
	if idx, ok := p.overlay.declarationStart(p); ok {
		return idx
	}
	if idx, ok := p.overlay.ruleStart(p); ok {
		return idx
	}
	if idx, ok := p.tryMark(p.tryParseNestedRuleset); ok {
		return idx
	}
	return p.parseDeclaration()
}

func (p *Parser) tryParseNestedRuleset() (cssast.Index, bool) {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindRuleset, start)
	p.parseSelectorList(idx)
	// A selector that didn't parse cleanly means this wasn't a nested
	// ruleset at all (e.g. "font: {...}" nested properties, or a custom
	// property set) — reject so parseDeclaration gets its turn.
	for _, c := range p.tree.Node(idx).Children {
		if p.tree.IsErroneous(c, true) {
			return cssast.NoIndex, false
		}
	}
	if !p.accept(csslexer.CurlyL) {
		return cssast.NoIndex, false
	}
	body := p.parseDeclarations()
	p.tree.AddChild(idx, body)
	p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	p.finish(idx)
	return idx, true
}

// parseDeclaration implements "Declaration = Property ':' Expression
// ('!' 'important')?".
func (p *Parser) parseDeclaration() cssast.Index {
	start := p.start()
	idx := p.tree.Alloc(cssast.KindDeclaration, start)
	data := &cssast.DeclarationData{Property: cssast.NoIndex, Expression: cssast.NoIndex, NestedProperties: cssast.NoIndex}

	prop := p.parseProperty()
	p.tree.AddChild(idx, prop)
	data.Property = prop

	// A property name starting with "--" is a custom property:
	// reclassify the node now that the name is known. Interpolated SCSS/
	// LESS property chunks never spell a literal "--" prefix as their
	// first token, so checking the plain Identifier text is sufficient.
	isCustom := strings.HasPrefix(p.tree.GetText(prop), "--")
	if isCustom {
		p.tree.SetKind(idx, cssast.KindCustomPropertyDeclaration)
		p.tree.SetData(prop, &cssast.PropertyData{IsCustomProperty: true})
	}

	if p.accept(csslexer.Colon) {
		data.ColonPosition = p.lastEnd
	} else {
		p.unexpected(idx, "css-colonExpected", "Expected \":\"")
		p.resyncTo(csslexer.Semicolon, csslexer.CurlyR)
		p.tree.SetData(idx, data)
		p.finish(idx)
		return idx
	}

	if p.cursor.Peek(csslexer.CurlyL) {
		// SCSS nested-properties shorthand "font: { family: ...; }", or a
		// custom-property set "--toolbar: { color: red; }".
		nested := p.parseNestedProperties()
		if isCustom {
			p.tree.SetKind(nested, cssast.KindCustomPropertySet)
			if d, ok := p.tree.Data(nested).(*cssast.NestedPropertiesData); ok {
				p.tree.SetData(nested, &cssast.CustomPropertySetData{Declarations: d.Declarations})
			}
		}
		data.NestedProperties = nested
		p.tree.AddChild(idx, nested)
	} else {
		expr := p.parseExpression()
		data.Expression = expr
		p.tree.AddChild(idx, expr)
		if p.acceptDelim('!') {
			if p.acceptIdent("important") {
				data.Important = true
			} else {
				p.unexpected(idx, "css-identifierExpected", "Expected \"important\"")
			}
		}
	}

	if p.cursor.Peek(csslexer.Semicolon) {
		data.SemicolonPosition = p.start()
	}

	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (p *Parser) parseProperty() cssast.Index {
	return p.overlay.identifierChunk(p)
}

// parseNestedProperties implements the SCSS "font: { family: ...; }"
// form: a Declaration whose value is a NestedProperties block of inner
// Declarations, each sharing the outer property name as a prefix.
func (p *Parser) parseNestedProperties() cssast.Index {
	idx := p.tree.Alloc(cssast.KindNestedProperties, p.start())
	p.accept(csslexer.CurlyL)
	var decls []cssast.Index
	for !p.cursor.Peek(csslexer.CurlyR) && !p.cursor.AtEOF() {
		if p.accept(csslexer.Semicolon) {
			continue
		}
		d := p.parseDeclaration()
		p.tree.AddChild(idx, d)
		decls = append(decls, d)
		p.accept(csslexer.Semicolon)
	}
	p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	p.tree.SetData(idx, &cssast.NestedPropertiesData{Declarations: decls})
	p.finish(idx)
	return idx
}

// parseExpression implements "a left-associative chain of
// BinaryExpressions over Terms separated by whitespace, ',', '/' or the
// arithmetic operators inside calc() and similar function calls".
func (p *Parser) parseExpression() cssast.Index {
	idx := p.tree.Alloc(cssast.KindExpression, p.start())
	left := p.parseTerm()
	if left != cssast.NoIndex {
		p.tree.AddChild(idx, left)
	}
	for {
		op, ok := p.peekExpressionOperator()
		if !ok {
			break
		}
		opIdx := p.tree.Alloc(cssast.KindOperator, p.start())
		if op != 0 {
			p.consume()
		}
		p.finish(opIdx)
		p.tree.AddChild(idx, opIdx)

		right := p.parseTerm()
		if right == cssast.NoIndex {
			p.unexpected(idx, "css-termExpected", "Expected a value")
			break
		}
		p.tree.AddChild(idx, right)
	}
	p.finish(idx)
	return idx
}

// peekExpressionOperator reports whether the current position continues
// an expression, and whether that requires consuming an explicit operator
// token (",", "/") as opposed to an implicit whitespace-separated term.
func (p *Parser) peekExpressionOperator() (ch byte, ok bool) {
	if p.cursor.Peek(csslexer.Comma) {
		return ',', true
	}
	if p.cursor.PeekDelim('/') {
		return '/', true
	}
	if p.startsTerm() {
		return 0, true
	}
	return 0, false
}

func (p *Parser) startsTerm() bool {
	switch p.cursor.Kind() {
	case csslexer.Ident, csslexer.Number, csslexer.Dimension, csslexer.Percentage,
		csslexer.String, csslexer.Hash, csslexer.URI, csslexer.ParenL,
		csslexer.EscapedJS, csslexer.VariableName, csslexer.InterpolationStart:
		return true
	}
	return p.cursor.PeekDelim('+') || p.cursor.PeekDelim('-') || p.cursor.PeekDelim('#')
}

// parseTerm implements one Term: a number/dimension/percentage, string,
// identifier, hex color, URL, function call, or parenthesized
// sub-expression.
func (p *Parser) parseTerm() cssast.Index {
	if idx, ok := p.overlay.term(p); ok {
		return idx
	}
	if !p.startsTerm() {
		return cssast.NoIndex
	}
	start := p.start()

	switch {
	case p.cursor.Kind().IsNumeric():
		idx := p.tree.Alloc(cssast.KindNumericValue, start)
		tok := p.cursor.Token()
		contents := p.cursor.Source().Contents
		value, unit := tok.Text(contents), ""
		if tok.Kind == csslexer.Dimension {
			value, unit = tok.DimensionValue(contents), tok.DimensionUnit(contents)
		} else if tok.Kind == csslexer.Percentage {
			value, unit = value[:len(value)-1], "%"
		}
		p.consume()
		p.tree.SetData(idx, &cssast.NumericValueData{Value: value, Unit: unit})
		p.finish(idx)
		return idx

	case p.cursor.Peek(csslexer.String):
		idx := p.tree.Alloc(cssast.KindStringLiteral, start)
		p.consume()
		p.finish(idx)
		return idx

	case p.cursor.Peek(csslexer.URI):
		idx := p.tree.Alloc(cssast.KindURLLiteral, start)
		p.consume()
		p.finish(idx)
		return idx

	case p.cursor.Peek(csslexer.Hash):
		idx := p.tree.Alloc(cssast.KindHexColorValue, start)
		p.consume()
		p.finish(idx)
		return idx

	case p.cursor.Peek(csslexer.ParenL):
		p.consume()
		idx := p.parseExpression()
		if !p.accept(csslexer.ParenR) {
			p.unexpected(idx, "css-rightParenthesisExpected", "Expected \")\"")
			p.resyncTo(csslexer.ParenR, csslexer.Semicolon, csslexer.CurlyR)
			p.accept(csslexer.ParenR)
		}
		return idx

	case p.cursor.Peek(csslexer.Ident):
		nameText := p.cursor.Text()
		p.consume()
		if p.accept(csslexer.ParenL) {
			idx := p.tree.Alloc(cssast.KindFunction, start)
			args := p.parseArguments(idx)
			if !p.accept(csslexer.ParenR) {
				p.unexpected(idx, "css-rightParenthesisExpected", "Expected \")\"")
				p.resyncTo(csslexer.ParenR, csslexer.Semicolon, csslexer.CurlyR)
				p.accept(csslexer.ParenR)
			}
			p.tree.SetData(idx, &cssast.FunctionData{Name: nameText, Arguments: args})
			p.finish(idx)
			return idx
		}
		idx := p.tree.Alloc(cssast.KindIdentifier, start)
		p.finish(idx)
		return idx

	default:
		// "+"/"-" leading a numeric literal is handled by
		// Kind().IsNumeric() once the scanner folds the sign into the
		// Dimension/Number/Percentage token, so reaching here means a
		// bare unary delim with no number following: treat as an error
		// term so the caller can still resync sensibly.
		idx := p.tree.Alloc(cssast.KindTerm, start)
		p.unexpected(idx, "css-termExpected", "Expected a value")
		p.consume()
		p.finish(idx)
		return idx
	}
}

// parseArguments parses a comma-separated list of Expressions inside a
// function call's parentheses, attaching each to parent. A "$name:
// value" keyword argument keeps the name and value inside the same
// argument Expression.
func (p *Parser) parseArguments(parent cssast.Index) []cssast.Index {
	var args []cssast.Index
	if p.cursor.Peek(csslexer.ParenR) {
		return args
	}
	for {
		arg := p.parseExpression()
		if p.accept(csslexer.Colon) {
			p.tree.AddChild(arg, p.parseExpression())
		}
		p.tree.AddChild(parent, arg)
		args = append(args, arg)
		if !p.accept(csslexer.Comma) {
			return args
		}
	}
}
