// Package cssdocsym builds the document-symbol outline (selectors,
// at-rules, variables, mixins, functions, keyframes) for a parsed
// stylesheet: symbolFor maps each child node to a Symbol by its kind,
// and constructs with a body carry their own symbols as nested Children.
package cssdocsym

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/logger"
)

// Kind mirrors the handful of LSP SymbolKind values this package emits.
type Kind int

const (
	KindClass     Kind = 5
	KindNamespace Kind = 3
	KindVariable  Kind = 13
	KindFunction  Kind = 12
	KindProperty  Kind = 7
	KindEnum      Kind = 10
)

// Symbol is a document symbol: a name, a kind, the range of the whole
// construct, and a narrower SelectionRange (just the name) plus children
// for nested constructs (a Ruleset's Declarations, a Media's body).
type Symbol struct {
	Name           string
	Detail         string
	Kind           Kind
	Range          logger.Range
	SelectionRange logger.Range
	Children       []Symbol
}

// Outline walks the whole tree once and returns the top-level document
// symbols, each carrying nested Children for constructs with a body.
func Outline(tree *cssast.Tree, root cssast.Index) []Symbol {
	return childSymbols(tree, root)
}

func childSymbols(tree *cssast.Tree, idx cssast.Index) []Symbol {
	var out []Symbol
	for _, c := range tree.Node(idx).Children {
		if sym, ok := symbolFor(tree, c); ok {
			out = append(out, sym)
		}
	}
	return out
}

func symbolFor(tree *cssast.Tree, idx cssast.Index) (Symbol, bool) {
	n := tree.Node(idx)
	switch n.Kind {
	case cssast.KindRuleset:
		return rulesetSymbol(tree, idx), true

	case cssast.KindVariableDeclaration:
		data, _ := tree.Data(idx).(*cssast.VariableDeclarationData)
		if data == nil || data.Name == cssast.NoIndex {
			return Symbol{}, false
		}
		detail := ""
		if data.Expression != cssast.NoIndex {
			detail = tree.GetText(data.Expression)
		}
		return Symbol{
			Name:           tree.GetText(data.Name),
			Detail:         detail,
			Kind:           KindVariable,
			Range:          n.Range,
			SelectionRange: tree.Node(data.Name).Range,
		}, true

	case cssast.KindMixinDeclaration:
		data, _ := tree.Data(idx).(*cssast.MixinDeclarationData)
		if data == nil || data.Name == cssast.NoIndex {
			return Symbol{}, false
		}
		sym := Symbol{
			Name:           tree.GetText(data.Name),
			Kind:           KindFunction,
			Range:          n.Range,
			SelectionRange: tree.Node(data.Name).Range,
		}
		if data.Body != cssast.NoIndex {
			sym.Children = declarationSymbols(tree, data.Body)
		}
		return sym, true

	case cssast.KindFunctionDeclaration:
		data, _ := tree.Data(idx).(*cssast.FunctionDeclarationData)
		if data == nil || data.Name == cssast.NoIndex {
			return Symbol{}, false
		}
		return Symbol{
			Name:           tree.GetText(data.Name),
			Kind:           KindFunction,
			Range:          n.Range,
			SelectionRange: tree.Node(data.Name).Range,
		}, true

	case cssast.KindKeyframe:
		data, _ := tree.Data(idx).(*cssast.KeyframeData)
		if data == nil || data.Name == cssast.NoIndex {
			return Symbol{}, false
		}
		return Symbol{
			Name:           "@keyframes " + tree.GetText(data.Name),
			Kind:           KindEnum,
			Range:          n.Range,
			SelectionRange: tree.Node(data.Name).Range,
		}, true

	case cssast.KindMedia, cssast.KindSupports:
		// The node's own text already starts with the at-keyword.
		return Symbol{
			Name:           summarize(tree.GetText(idx)),
			Kind:           KindNamespace,
			Range:          n.Range,
			SelectionRange: n.Range,
		}, true

	case cssast.KindFontFace:
		return Symbol{Name: "@font-face", Kind: KindNamespace, Range: n.Range, SelectionRange: n.Range}, true

	case cssast.KindUnknownAtRule:
		data, _ := tree.Data(idx).(*cssast.UnknownAtRuleData)
		name := "@unknown"
		if data != nil {
			name = "@" + data.AtKeyword
		}
		return Symbol{Name: name, Kind: KindNamespace, Range: n.Range, SelectionRange: n.Range}, true
	}
	return Symbol{}, false
}

// rulesetSymbol names itself after the first selector's text, the way an
// editor outline shows a CSS rule by its selector list.
func rulesetSymbol(tree *cssast.Tree, idx cssast.Index) Symbol {
	n := tree.Node(idx)
	name := "(unknown selector)"
	if len(n.Children) > 0 {
		first := n.Children[0]
		if tree.Node(first).Kind == cssast.KindSelector {
			name = tree.GetText(first)
		}
	}
	sym := Symbol{Name: name, Kind: KindClass, Range: n.Range, SelectionRange: n.Range}
	for _, c := range n.Children {
		if tree.Node(c).Kind == cssast.KindDeclarations {
			sym.Children = declarationSymbols(tree, c)
		}
	}
	return sym
}

// declarationSymbols lists the Declaration/nested-at-rule children of a
// Declarations block, the outline entries that show up nested under a
// Ruleset/MixinDeclaration's name.
func declarationSymbols(tree *cssast.Tree, declarationsIdx cssast.Index) []Symbol {
	var out []Symbol
	for _, c := range tree.Node(declarationsIdx).Children {
		n := tree.Node(c)
		switch n.Kind {
		case cssast.KindDeclaration, cssast.KindCustomPropertyDeclaration:
			data, _ := tree.Data(c).(*cssast.DeclarationData)
			if data == nil || data.Property == cssast.NoIndex {
				continue
			}
			out = append(out, Symbol{
				Name:           tree.GetText(data.Property),
				Detail:         propertyValueText(tree, data),
				Kind:           KindProperty,
				Range:          n.Range,
				SelectionRange: tree.Node(data.Property).Range,
			})
		default:
			if sym, ok := symbolFor(tree, c); ok {
				out = append(out, sym)
			}
		}
	}
	return out
}

func propertyValueText(tree *cssast.Tree, data *cssast.DeclarationData) string {
	if data.Expression == cssast.NoIndex {
		return ""
	}
	return tree.GetText(data.Expression)
}

// summarize trims an at-rule prelude to a single line for an outline
// label, since @media/@supports conditions can run long and multi-line.
func summarize(text string) string {
	if i := strings.IndexByte(text, '{'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
