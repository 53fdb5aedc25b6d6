// Package cssnav implements go-to-definition, find-references and
// cross-reference highlight over a parsed stylesheet and its Symbols:
// locate the node under the cursor, resolve it, walk the tree again
// collecting matches. Everything here is single-document — cross-file
// `@use`/`@import` module resolution is out of scope, so Location never
// needs a second Tree.
package cssnav

import (
	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/cssscope"
	"github.com/cssls/cssls/internal/logger"
)

// Location pairs a node's range with the symbol it resolves to.
type Location struct {
	Range logger.Range
	Node  cssast.Index
}

// Definition resolves the reference at offset and returns the range of
// its defining node. A MixinDeclaration/FunctionDeclaration/VariableDeclaration/
// Keyframe/Ruleset node's range covers the whole construct; callers that
// want just the name should intersect with the node text themselves.
func Definition(tree *cssast.Tree, root cssast.Index, symbols *cssscope.Symbols, offset int32) (Location, bool) {
	node := tree.FindNodeAtOffset(root, offset)
	if node == cssast.NoIndex {
		return Location{}, false
	}
	sym := symbols.FindSymbolFromNode(node)
	if sym == nil {
		return Location{}, false
	}
	return Location{Range: tree.Node(sym.Node).Range, Node: sym.Node}, true
}

// References finds every usage in the document that resolves to the same
// symbol as the reference at offset. When includeDeclaration is true the
// declared name's own range is included as the first result, matching the
// LSP references request's IncludeDeclaration flag.
func References(
	tree *cssast.Tree,
	root cssast.Index,
	symbols *cssscope.Symbols,
	offset int32,
	includeDeclaration bool,
) []Location {
	node := tree.FindNodeAtOffset(root, offset)
	if node == cssast.NoIndex {
		return nil
	}
	origin := symbols.FindSymbolFromNode(node)
	if origin == nil {
		return nil
	}
	return Highlight(tree, root, symbols, origin, includeDeclaration)
}

// Highlight collects every node in the tree that resolves to exactly
// symbol. Declaration inclusion is controlled the same way References
// uses it, so rename (which always wants the declaration) and references
// (which makes it optional) share one implementation. The declaration is
// reported as the declared name's range, not the whole construct, so the
// locations are always disjoint and directly editable.
func Highlight(
	tree *cssast.Tree,
	root cssast.Index,
	symbols *cssscope.Symbols,
	symbol *cssscope.Symbol,
	includeDeclaration bool,
) []Location {
	nameIdx := DeclarationNameNode(tree, symbol)
	var out []Location
	if includeDeclaration {
		out = append(out, Location{Range: tree.Node(nameIdx).Range, Node: nameIdx})
	}
	tree.Accept(root, func(idx cssast.Index) bool {
		if idx == symbol.Node || idx == nameIdx {
			return true
		}
		if symbols.MatchesSymbol(idx, symbol) {
			out = append(out, Location{Range: tree.Node(idx).Range, Node: idx})
		}
		return true
	})
	return out
}

// DeclarationNameNode returns the node carrying just the declared name
// inside symbol's defining construct, falling back to the defining node
// itself when the construct has no narrower name child.
func DeclarationNameNode(tree *cssast.Tree, symbol *cssscope.Symbol) cssast.Index {
	idx := symbol.Node
	switch tree.Node(idx).Kind {
	case cssast.KindVariableDeclaration:
		if d, _ := tree.Data(idx).(*cssast.VariableDeclarationData); d != nil && d.Name != cssast.NoIndex {
			return d.Name
		}
	case cssast.KindMixinDeclaration:
		if d, _ := tree.Data(idx).(*cssast.MixinDeclarationData); d != nil && d.Name != cssast.NoIndex {
			return d.Name
		}
	case cssast.KindFunctionDeclaration:
		if d, _ := tree.Data(idx).(*cssast.FunctionDeclarationData); d != nil && d.Name != cssast.NoIndex {
			return d.Name
		}
	case cssast.KindKeyframe:
		if d, _ := tree.Data(idx).(*cssast.KeyframeData); d != nil && d.Name != cssast.NoIndex {
			return d.Name
		}
	case cssast.KindDeclaration, cssast.KindCustomPropertyDeclaration:
		if d, _ := tree.Data(idx).(*cssast.DeclarationData); d != nil && d.Property != cssast.NoIndex {
			return d.Property
		}
	case cssast.KindRuleset:
		for _, c := range tree.Node(idx).Children {
			if tree.Node(c).Kind == cssast.KindSelector && tree.GetText(c) == symbol.Name {
				return c
			}
		}
	}
	return idx
}
