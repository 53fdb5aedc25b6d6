// Package cssscope builds the symbol/scope model for a parsed stylesheet:
// a single pre-order walk of an AST produces a tree of half-open
// byte-interval scopes, each carrying the symbols declared in it, and a
// lookup algorithm resolves an identifier node back to the symbol it
// refers to. A Scope's Symbols hold cssast.Index values rather than
// pointers, the same arena/Index style cssast uses throughout.
package cssscope

import (
	"math"
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/logger"
)

// ReferenceType is the closed set of symbol kinds the scope builder
// recognizes: what an identifier refers to when it resolves.
type ReferenceType uint8

const (
	Unknown ReferenceType = iota
	Mixin
	Rule
	Variable
	Function
	Keyframe
	Module
	Forward
	ForwardVisibility
)

func (r ReferenceType) String() string {
	switch r {
	case Mixin:
		return "Mixin"
	case Rule:
		return "Rule"
	case Variable:
		return "Variable"
	case Function:
		return "Function"
	case Keyframe:
		return "Keyframe"
	case Module:
		return "Module"
	case Forward:
		return "Forward"
	case ForwardVisibility:
		return "ForwardVisibility"
	default:
		return "Unknown"
	}
}

// Symbol is a declared name: its text, the text of its defining value
// expression (if any), the node that declared it, and what kind of
// reference it can satisfy.
type Symbol struct {
	Name  string
	Value string // text of the defining value expression, if any
	Node  cssast.Index
	Type  ReferenceType
}

// Scope is a half-open byte interval: a parent pointer, a disjoint list
// of children each contained in the parent, and the symbols declared
// directly in it.
type Scope struct {
	Range    logger.Range
	Parent   *Scope
	Children []*Scope
	Symbols  []*Symbol
}

// globalSpan is a half-open interval wide enough to behave as [0, +inf)
// for any realistic source file: the scope tree is rooted at a single
// global scope spanning the whole document.
const globalSpan = math.MaxInt32 / 2

func newGlobalScope() *Scope {
	return &Scope{Range: logger.Range{Loc: logger.Loc{Start: 0}, Len: globalSpan}}
}

func (s *Scope) addChild(r logger.Range) *Scope {
	child := &Scope{Range: r, Parent: s}
	s.Children = append(s.Children, child)
	return child
}

func (s *Scope) declare(sym *Symbol) {
	s.Symbols = append(s.Symbols, sym)
}

// Contains reports whether offset lies within this scope's half-open range.
func (s *Scope) Contains(offset int32) bool {
	return offset >= s.Range.Loc.Start && offset < s.Range.Loc.Start+s.Range.Len
}

// Symbols owns the scope tree built from one AST and answers the lookup
// queries external collaborators (completion, navigation, rename,
// highlight) issue against it.
type Symbols struct {
	tree  *cssast.Tree
	root  *Scope
	scope map[cssast.Index]*Scope // node -> the scope it opened, if any
}

// New walks stylesheet (the Stylesheet root produced by cssparser.Parse)
// and builds its scope tree.
func New(tree *cssast.Tree, stylesheet cssast.Index) *Symbols {
	s := &Symbols{tree: tree, root: newGlobalScope(), scope: make(map[cssast.Index]*Scope)}
	s.walk(stylesheet, s.root)
	return s
}

// Root returns the global scope spanning the whole document.
func (s *Symbols) Root() *Scope { return s.root }

func (s *Symbols) text(idx cssast.Index) string {
	if idx == cssast.NoIndex {
		return ""
	}
	return s.tree.GetText(idx)
}

// walk is the single pre-order traversal that builds the whole scope
// tree, dispatching on each node's Kind.
func (s *Symbols) walk(idx cssast.Index, scope *Scope) {
	if idx == cssast.NoIndex {
		return
	}
	n := s.tree.Node(idx)

	switch n.Kind {
	case cssast.KindDeclarations:
		child := scope.addChild(n.Range)
		s.scope[idx] = child
		for _, c := range n.Children {
			s.walk(c, child)
		}
		return

	case cssast.KindMixinDeclaration:
		data, _ := s.tree.Data(idx).(*cssast.MixinDeclarationData)
		if data != nil && data.Name != cssast.NoIndex {
			scope.declare(&Symbol{Name: s.text(data.Name), Node: idx, Type: Mixin})
		}
		s.walkDeclarationLikeBody(idx, scope, data)
		return

	case cssast.KindFunctionDeclaration:
		data, _ := s.tree.Data(idx).(*cssast.FunctionDeclarationData)
		if data != nil && data.Name != cssast.NoIndex {
			scope.declare(&Symbol{Name: s.text(data.Name), Node: idx, Type: Function})
		}
		var fd *cssast.MixinDeclarationData
		if data != nil {
			fd = &cssast.MixinDeclarationData{Name: data.Name, Parameters: data.Parameters, Body: data.Body}
		}
		s.walkDeclarationLikeBody(idx, scope, fd)
		return

	case cssast.KindVariableDeclaration:
		data, _ := s.tree.Data(idx).(*cssast.VariableDeclarationData)
		if data != nil {
			scope.declare(&Symbol{Name: s.text(data.Name), Value: s.text(data.Expression), Node: idx, Type: Variable})
		}
		for _, c := range n.Children {
			s.walk(c, scope)
		}
		return

	case cssast.KindCustomPropertyDeclaration:
		if data, _ := s.tree.Data(idx).(*cssast.DeclarationData); data != nil {
			s.root.declare(&Symbol{Name: s.text(data.Property), Node: idx, Type: Variable})
		}
		for _, c := range n.Children {
			s.walk(c, scope)
		}
		return

	case cssast.KindRuleset:
		s.declareRuleSymbols(idx, n, scope)
		for _, c := range n.Children {
			s.walk(c, scope)
		}
		return

	case cssast.KindKeyframe:
		data, _ := s.tree.Data(idx).(*cssast.KeyframeData)
		if data != nil && data.Name != cssast.NoIndex {
			scope.declare(&Symbol{Name: s.text(data.Name), Node: idx, Type: Keyframe})
		}
		for _, c := range n.Children {
			s.walk(c, scope)
		}
		return

	case cssast.KindFor:
		data, _ := s.tree.Data(idx).(*cssast.ForData)
		s.walkLoopBody(n, scope, func(body *Scope) {
			if data != nil && data.Variable != cssast.NoIndex {
				body.declare(&Symbol{Name: s.text(data.Variable), Node: idx, Type: Variable})
			}
		})
		return

	case cssast.KindEach:
		data, _ := s.tree.Data(idx).(*cssast.EachData)
		s.walkLoopBody(n, scope, func(body *Scope) {
			if data != nil {
				for _, v := range data.Variables {
					body.declare(&Symbol{Name: s.text(v), Node: idx, Type: Variable})
				}
			}
		})
		return

	case cssast.KindUse:
		if data, _ := s.tree.Data(idx).(*cssast.UseData); data != nil {
			name := data.Alias
			if name == "" {
				name = moduleNameFromPath(data.Path)
			}
			// "as *" merges the module into the current namespace; there
			// is no named symbol to declare for it.
			if name != "" && name != "*" {
				scope.declare(&Symbol{Name: name, Value: trimQuotes(data.Path), Node: idx, Type: Module})
			}
		}
		return

	case cssast.KindForward:
		if data, _ := s.tree.Data(idx).(*cssast.ForwardData); data != nil {
			scope.declare(&Symbol{Name: trimQuotes(data.Path), Node: idx, Type: Forward})
			for _, name := range data.Show {
				scope.declare(&Symbol{Name: name, Node: idx, Type: ForwardVisibility})
			}
			for _, name := range data.Hide {
				scope.declare(&Symbol{Name: name, Node: idx, Type: ForwardVisibility})
			}
		}
		return
	}

	for _, c := range n.Children {
		s.walk(c, scope)
	}
}

// walkDeclarationLikeBody handles the shared MixinDeclaration/
// FunctionDeclaration shape: every child except Body walks in the
// enclosing scope, Body opens its own scope (matching the generic
// Declarations rule) seeded with each parameter as a Variable symbol
// before its subtree is walked: the body's Declarations block opens a
// child scope, into which each FunctionParameter is added as a Variable
// symbol.
func (s *Symbols) walkDeclarationLikeBody(idx cssast.Index, scope *Scope, data *cssast.MixinDeclarationData) {
	n := s.tree.Node(idx)
	var body cssast.Index = cssast.NoIndex
	if data != nil {
		body = data.Body
	}

	var bodyScope *Scope
	if body != cssast.NoIndex {
		bodyScope = scope.addChild(s.tree.Node(body).Range)
		s.scope[body] = bodyScope
		if data != nil {
			for _, param := range data.Parameters {
				bodyScope.declare(&Symbol{Name: s.paramName(param), Node: param, Type: Variable})
			}
		}
	}

	for _, c := range n.Children {
		if c == body {
			for _, gc := range s.tree.Node(body).Children {
				s.walk(gc, bodyScope)
			}
			continue
		}
		s.walk(c, scope)
	}
}

// paramName reads a FunctionParameter's variable-sigil token, which is
// always its first child's range in the shared FunctionParameter shape
// scss.parseParameterList/less.parseParameterList both produce: the
// parameter node itself starts at the variable token, so its own text up
// to the first whitespace or ":"/"..." is the name. Parameter nodes don't
// carry a dedicated Name field, so the simplest correct read is the
// node's own leading text.
func (s *Symbols) paramName(param cssast.Index) string {
	text := s.tree.GetText(param)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ':', ' ', '\t', '\n', '\r', '.':
			return text[:i]
		}
	}
	return text
}

// walkLoopBody finds the `{...}` Declarations child of a For/Each node
// (neither ForData nor EachData records a Body index explicitly; it's
// always the trailing Declarations child), opens its scope, lets declare
// seed the loop variable(s) into it, then walks the rest of the node's
// children normally.
func (s *Symbols) walkLoopBody(n *cssast.Node, scope *Scope, declare func(body *Scope)) {
	for _, c := range n.Children {
		if s.tree.Node(c).Kind == cssast.KindDeclarations {
			body := scope.addChild(s.tree.Node(c).Range)
			s.scope[c] = body
			declare(body)
			for _, gc := range s.tree.Node(c).Children {
				s.walk(gc, body)
			}
			continue
		}
		s.walk(c, scope)
	}
}

// declareRuleSymbols registers the text of each top-level Selector that
// reduces to exactly one simple selector as a Rule symbol — the
// mechanism that makes @extend resolvable.
func (s *Symbols) declareRuleSymbols(idx cssast.Index, n *cssast.Node, scope *Scope) {
	for _, c := range n.Children {
		sel := s.tree.Node(c)
		if sel.Kind != cssast.KindSelector {
			continue
		}
		if len(sel.Children) == 1 && s.tree.Node(sel.Children[0]).Kind == cssast.KindSimpleSelector {
			scope.declare(&Symbol{Name: s.tree.GetText(c), Node: idx, Type: Rule})
		}
	}
}

// moduleNameFromPath derives the default @use namespace from a module
// path: the last "/"-segment (and, for "sass:math"-style built-ins, the
// part after the ":"), minus a leading "_" partial marker and a
// ".scss"/".sass" extension.
func moduleNameFromPath(path string) string {
	name := trimQuotes(path)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "_")
	name = strings.TrimSuffix(name, ".scss")
	name = strings.TrimSuffix(name, ".sass")
	return name
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
