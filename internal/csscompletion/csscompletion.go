// Package csscompletion computes completion proposals from a cursor
// offset, a parsed stylesheet's Symbols, and the curated cssdata tables.
// It never re-scans or re-parses: locate what surrounds the cursor, then
// dispatch on that context to one of a handful of small proposal
// builders.
package csscompletion

import (
	"sort"
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/cssdata"
	"github.com/cssls/cssls/internal/cssscope"
)

// Kind mirrors the LSP CompletionItemKind values, narrowed to the
// handful this package emits.
type Kind int

const (
	KindProperty Kind = 10
	KindValue    Kind = 12
	KindVariable Kind = 6
	KindFunction Kind = 3
	KindKeyword  Kind = 14
	KindClass    Kind = 7
)

// Item is one completion proposal.
type Item struct {
	Label      string
	Kind       Kind
	Detail     string
	InsertText string
}

// Context classifies what position the cursor sits in, decided once by
// Propose and then handed to the per-context builder.
type Context int

const (
	ContextUnknown Context = iota
	ContextPropertyName
	ContextPropertyValue
	ContextSelector
	ContextAtRuleName
)

// Propose returns every completion candidate for the cursor position at
// offset. tree/root are the parsed document, symbols its scope graph
// (used for in-scope $variable/@variable/mixin proposals), and data the
// curated property/at-rule table (nil is fine — callers with no data
// provider still get variable/mixin proposals).
func Propose(
	tree *cssast.Tree,
	root cssast.Index,
	symbols *cssscope.Symbols,
	data *cssdata.Provider,
	offset int32,
) []Item {
	ctx, node := classify(tree, root, offset)

	var items []Item
	switch ctx {
	case ContextPropertyName:
		items = append(items, propertyItems(data)...)
	case ContextAtRuleName:
		items = append(items, atRuleItems(data)...)
	case ContextPropertyValue:
		items = append(items, valueItems(tree, node, data)...)
		items = append(items, variableItems(tree, symbols, offset)...)
	case ContextSelector:
		items = append(items, pseudoItems(data)...)
	default:
		items = append(items, variableItems(tree, symbols, offset)...)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// classify inspects the node path at offset and the nearest enclosing
// construct to decide what kind of completion the cursor wants.
func classify(tree *cssast.Tree, root cssast.Index, offset int32) (Context, cssast.Index) {
	path := tree.NodePath(root, offset)
	if len(path) == 0 {
		return ContextUnknown, cssast.NoIndex
	}
	leaf := path[len(path)-1]

	for i := len(path) - 1; i >= 0; i-- {
		switch tree.Node(path[i]).Kind {
		case cssast.KindDeclaration:
			data, _ := tree.Data(path[i]).(*cssast.DeclarationData)
			if data != nil && data.Expression != cssast.NoIndex && tree.Encloses(data.Expression, leaf) {
				return ContextPropertyValue, leaf
			}
			return ContextPropertyName, leaf
		case cssast.KindExpression, cssast.KindTerm, cssast.KindFunction:
			return ContextPropertyValue, leaf
		case cssast.KindSelector, cssast.KindSimpleSelector:
			return ContextSelector, leaf
		case cssast.KindUnknownAtRule:
			return ContextAtRuleName, leaf
		}
	}
	return ContextUnknown, leaf
}

func propertyItems(data *cssdata.Provider) []Item {
	if data == nil {
		return nil
	}
	items := make([]Item, 0, len(data.Properties()))
	for _, e := range data.Properties() {
		items = append(items, Item{Label: e.Name, Kind: KindProperty, Detail: e.Description, InsertText: e.Name})
	}
	return items
}

func atRuleItems(data *cssdata.Provider) []Item {
	if data == nil {
		return nil
	}
	items := make([]Item, 0, len(data.AtDirectives()))
	for _, e := range data.AtDirectives() {
		items = append(items, Item{Label: "@" + e.Name, Kind: KindKeyword, Detail: e.Description})
	}
	return items
}

func pseudoItems(data *cssdata.Provider) []Item {
	if data == nil {
		return nil
	}
	items := make([]Item, 0, len(data.PseudoClasses())+len(data.PseudoElements()))
	for _, e := range data.PseudoClasses() {
		items = append(items, Item{Label: ":" + e.Name, Kind: KindKeyword, Detail: e.Description})
	}
	for _, e := range data.PseudoElements() {
		items = append(items, Item{Label: "::" + e.Name, Kind: KindKeyword, Detail: e.Description})
	}
	return items
}

// valueItems proposes the enumerated values cssdata records for the
// property this declaration is for, plus any CSS function name this
// value position sits under (to round out a partially-typed call).
func valueItems(tree *cssast.Tree, node cssast.Index, data *cssdata.Provider) []Item {
	if data == nil || node == cssast.NoIndex {
		return nil
	}
	decl := tree.FindParent(node, cssast.KindDeclaration)
	if decl == cssast.NoIndex {
		return nil
	}
	declData, _ := tree.Data(decl).(*cssast.DeclarationData)
	if declData == nil || declData.Property == cssast.NoIndex {
		return nil
	}
	name := strings.ToLower(tree.GetText(declData.Property))
	entry, ok := data.Property(name)
	if !ok {
		return nil
	}
	items := make([]Item, 0, len(entry.Values))
	for _, v := range entry.Values {
		items = append(items, Item{Label: v.Name, Kind: KindValue, Detail: v.Description, InsertText: v.Name})
	}
	return items
}

// variableItems walks outward from the innermost scope containing offset
// and proposes every Variable/Mixin/Function symbol visible there —
// completion wants the whole visible set, not the first-match-wins
// resolution a single-name lookup performs.
func variableItems(tree *cssast.Tree, symbols *cssscope.Symbols, offset int32) []Item {
	if symbols == nil {
		return nil
	}
	seen := make(map[string]bool)
	var items []Item
	for scope := symbols.InnermostScopeAt(offset); scope != nil; scope = scope.Parent {
		for _, sym := range scope.Symbols {
			key := sym.Type.String() + ":" + sym.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			switch sym.Type {
			case cssscope.Variable:
				items = append(items, Item{Label: sym.Name, Kind: KindVariable, Detail: sym.Value, InsertText: sym.Name})
			case cssscope.Mixin:
				items = append(items, Item{Label: sym.Name, Kind: KindFunction, InsertText: sym.Name})
			case cssscope.Function:
				items = append(items, Item{Label: sym.Name, Kind: KindFunction, InsertText: sym.Name})
			case cssscope.Keyframe:
				items = append(items, Item{Label: sym.Name, Kind: KindClass, InsertText: sym.Name})
			}
		}
	}
	return items
}
