package cssparser

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/logger"
)

// cssOverlay is the identity overlay used for the plain CSS dialect: none
// of its hooks recognize anything, so the base grammar alone runs.
type cssOverlay struct{}

func (cssOverlay) atRule(*Parser, logger.Range, string) (cssast.Index, bool) {
	return cssast.NoIndex, false
}
func (cssOverlay) declarationStart(*Parser) (cssast.Index, bool) { return cssast.NoIndex, false }
func (cssOverlay) ruleStart(*Parser) (cssast.Index, bool)        { return cssast.NoIndex, false }
func (cssOverlay) term(*Parser) (cssast.Index, bool)             { return cssast.NoIndex, false }
func (cssOverlay) identifierChunk(p *Parser) cssast.Index {
	idx := p.tree.Alloc(cssast.KindIdentifier, p.start())
	p.expect(idx, csslexer.Ident, "css-identifierExpected")
	p.finish(idx)
	return idx
}

// knownAtRules is the closed set of recognized at-rule keywords.
var knownAtRules = map[string]bool{
	"media": true, "supports": true, "keyframes": true, "-webkit-keyframes": true,
	"font-face": true, "page": true, "import": true, "namespace": true,
	"document": true, "viewport": true, "-apply": true, "charset": true,
}

// parseAtRule dispatches a "@"-keyword to its known production, the active
// dialect overlay, or (as a last resort) UnknownAtRule.
func (p *Parser) parseAtRule() cssast.Index {
	start := p.start()
	atTok := p.consume()
	name := strings.ToLower(strings.TrimPrefix(atTok.Text(p.cursor.Source().Contents), "@"))

	switch name {
	case "media":
		return p.parseMedia(start)
	case "supports":
		return p.parseSupports(start)
	case "keyframes", "-webkit-keyframes":
		return p.parseKeyframes(start)
	case "font-face":
		return p.parseFontFace(start)
	case "page":
		return p.parsePage(start)
	case "import":
		return p.parseImport(start)
	case "namespace":
		return p.parseNamespace(start)
	case "document":
		return p.parseDocumentRule(start)
	case "viewport":
		return p.parseSimpleBlockRule(start, cssast.KindViewport)
	case "-apply":
		return p.parseApplyRule(start)
	case "charset":
		return p.parseCharset(start)
	}

	if idx, ok := p.overlay.atRule(p, atTok.Range, name); ok {
		return idx
	}
	return p.parseUnknownAtRule(start, atTok.Text(p.cursor.Source().Contents))
}

func (p *Parser) parseMedia(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindMedia, start)
	var queries []cssast.Index
	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() && !p.cursor.Peek(csslexer.Semicolon) {
		q := p.parseMediaQuery()
		queries = append(queries, q)
		p.tree.AddChild(idx, q)
		if !p.accept(csslexer.Comma) {
			break
		}
	}
	body := cssast.NoIndex
	if p.accept(csslexer.CurlyL) {
		body = p.parseStylesheetBody()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	} else {
		p.accept(csslexer.Semicolon)
	}
	p.tree.SetData(idx, &cssast.MediaData{Queries: queries, Body: body})
	p.finish(idx)
	return idx
}

func (p *Parser) parseMediaQuery() cssast.Index {
	idx := p.tree.Alloc(cssast.KindMediaQuery, p.start())
	for !p.cursor.Peek(csslexer.Comma) && !p.cursor.Peek(csslexer.CurlyL) &&
		!p.cursor.Peek(csslexer.Semicolon) && !p.cursor.AtEOF() {
		if p.accept(csslexer.ParenL) {
			for !p.cursor.Peek(csslexer.ParenR) && !p.cursor.AtEOF() {
				p.consume()
			}
			p.accept(csslexer.ParenR)
			continue
		}
		p.consume()
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseSupports(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindSupports, start)
	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() {
		p.consume()
	}
	if p.accept(csslexer.CurlyL) {
		body := p.parseStylesheetBody()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseKeyframes(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindKeyframe, start)
	name := cssast.NoIndex
	if p.cursor.Peek(csslexer.Ident) || p.cursor.Peek(csslexer.String) {
		name = p.tree.Alloc(cssast.KindIdentifier, p.start())
		p.consume()
		p.finish(name)
		p.tree.AddChild(idx, name)
	}
	body := cssast.NoIndex
	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body = p.parseKeyframeBody()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.tree.SetData(idx, &cssast.KeyframeData{Name: name, Body: body})
	p.finish(idx)
	return idx
}

func (p *Parser) parseKeyframeBody() cssast.Index {
	idx := p.tree.Alloc(cssast.KindDeclarations, p.start())
	for !p.cursor.Peek(csslexer.CurlyR) && !p.cursor.AtEOF() {
		sel := p.tree.Alloc(cssast.KindKeyframeSelector, p.start())
		for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() && !p.cursor.Peek(csslexer.CurlyR) {
			p.consume()
			if !p.accept(csslexer.Comma) {
				continue
			}
		}
		p.finish(sel)
		p.tree.AddChild(idx, sel)
		if p.accept(csslexer.CurlyL) {
			body := p.parseDeclarations()
			p.tree.AddChild(sel, body)
			p.expect(sel, csslexer.CurlyR, "css-rightCurlyExpected")
		}
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseFontFace(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindFontFace, start)
	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parsePage(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindPage, start)
	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() {
		sel := p.tree.Alloc(cssast.KindPageSelector, p.start())
		p.consume()
		p.finish(sel)
		p.tree.AddChild(idx, sel)
	}
	if p.accept(csslexer.CurlyL) {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseImport(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindImport, start)
	data := &cssast.ImportData{}

	var keywords []string
	if p.accept(csslexer.ParenL) {
		for !p.cursor.Peek(csslexer.ParenR) && !p.cursor.AtEOF() {
			if p.cursor.Peek(csslexer.Ident) {
				keywords = append(keywords, p.cursor.Text())
			}
			p.consume()
			p.accept(csslexer.Comma)
		}
		p.accept(csslexer.ParenR)
	}
	data.LessKeywords = keywords

	switch {
	case p.cursor.Peek(csslexer.String):
		data.URL = p.cursor.Text()
		p.consume()
	case p.cursor.Peek(csslexer.URI):
		data.URL = p.cursor.Text()
		p.consume()
	default:
		p.unexpected(idx, "css-stringExpected", "Expected a URL or string")
	}

	for !p.cursor.Peek(csslexer.Semicolon) && !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() {
		q := p.parseMediaQuery()
		data.MediaQueries = append(data.MediaQueries, q)
		p.tree.AddChild(idx, q)
		if !p.accept(csslexer.Comma) {
			break
		}
	}
	p.accept(csslexer.Semicolon)
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

func (p *Parser) parseNamespace(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindNamespace, start)
	if p.cursor.Peek(csslexer.Ident) {
		p.consume()
	}
	if p.cursor.Peek(csslexer.String) || p.cursor.Peek(csslexer.URI) {
		p.consume()
	} else {
		p.unexpected(idx, "css-stringExpected", "Expected a URL or string")
	}
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

func (p *Parser) parseDocumentRule(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindDocument, start)
	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.AtEOF() {
		p.consume()
	}
	if p.accept(csslexer.CurlyL) {
		body := p.parseStylesheetBody()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseSimpleBlockRule(start int32, kind cssast.Kind) cssast.Index {
	idx := p.tree.Alloc(kind, start)
	if p.expect(idx, csslexer.CurlyL, "css-leftCurlyExpected") {
		body := p.parseDeclarations()
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	}
	p.finish(idx)
	return idx
}

func (p *Parser) parseApplyRule(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindApplyRule, start)
	for !p.cursor.Peek(csslexer.Semicolon) && !p.cursor.AtEOF() && !p.cursor.Peek(csslexer.CurlyR) {
		p.consume()
	}
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

func (p *Parser) parseCharset(start int32) cssast.Index {
	idx := p.tree.Alloc(cssast.KindCharset, start)
	p.expect(idx, csslexer.String, "css-stringExpected")
	p.accept(csslexer.Semicolon)
	p.finish(idx)
	return idx
}

// parseUnknownAtRule implements "Unknown at-keywords produce an
// UnknownAtRule node whose body — if '{' follows — is parsed as a
// best-effort declaration block; otherwise the statement ends at the next
// ';' or top-level boundary".
func (p *Parser) parseUnknownAtRule(start int32, atKeyword string) cssast.Index {
	idx := p.tree.Alloc(cssast.KindUnknownAtRule, start)
	data := &cssast.UnknownAtRuleData{AtKeyword: atKeyword, Body: cssast.NoIndex}

	for !p.cursor.Peek(csslexer.CurlyL) && !p.cursor.Peek(csslexer.Semicolon) && !p.cursor.AtEOF() {
		p.consume()
	}
	if p.accept(csslexer.CurlyL) {
		body := p.parseDeclarations()
		data.Body = body
		p.tree.AddChild(idx, body)
		p.expect(idx, csslexer.CurlyR, "css-rightCurlyExpected")
	} else {
		p.accept(csslexer.Semicolon)
	}
	p.tree.SetData(idx, data)
	p.finish(idx)
	return idx
}

// parseStylesheetBody parses a rule-list body shared by @media/@supports/
// @document, which nest plain rulesets (and, recursively, at-rules) rather
// than flat declarations.
func (p *Parser) parseStylesheetBody() cssast.Index {
	idx := p.tree.Alloc(cssast.KindStylesheet, p.start())
	for !p.cursor.Peek(csslexer.CurlyR) && !p.cursor.AtEOF() {
		child := p.parseRuleOrAtRule()
		if child != cssast.NoIndex {
			p.tree.AddChild(idx, child)
		}
	}
	p.finish(idx)
	return idx
}
