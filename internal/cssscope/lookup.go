package cssscope

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
)

// InnermostScopeAt exposes innermostScope to external collaborators
// (csscompletion wants every symbol visible at a cursor position, not
// just the first name match lookup returns).
func (s *Symbols) InnermostScopeAt(offset int32) *Scope {
	return s.innermostScope(offset)
}

// innermostScope returns the most deeply nested scope containing offset,
// descending the scope tree built by New.
func (s *Symbols) innermostScope(offset int32) *Scope {
	scope := s.root
	for {
		found := (*Scope)(nil)
		for _, c := range scope.Children {
			if c.Contains(offset) {
				found = c
				break
			}
		}
		if found == nil {
			return scope
		}
		scope = found
	}
}

// referenceTypes infers what kind(s) of symbol idx could refer to, based
// on its node kind and syntactic position. It returns the empty set when
// the node doesn't look like a reference to anything the scope model
// tracks.
func (s *Symbols) referenceTypes(idx cssast.Index) []ReferenceType {
	n := s.tree.Node(idx)
	switch n.Kind {
	case cssast.KindVariableName:
		return []ReferenceType{Variable}

	case cssast.KindFunction:
		return []ReferenceType{Function}

	case cssast.KindIdentifier:
		if strings.HasPrefix(s.tree.GetText(idx), "--") {
			return []ReferenceType{Variable}
		}
		if s.insideMixinReferenceName(idx) {
			return []ReferenceType{Mixin}
		}
		if s.isKeyframeNameValue(idx) {
			return []ReferenceType{Keyframe}
		}
		return nil

	case cssast.KindSimpleSelector:
		// Our grammar folds a compound selector's tokens directly onto the
		// SimpleSelector node rather than allocating a child Identifier, so
		// the reference-bearing node for a selector used as an @extend
		// target is the SimpleSelector itself.
		if s.insideExtend(idx) {
			return []ReferenceType{Rule}
		}
		return nil
	}
	return nil
}

func (s *Symbols) insideExtend(idx cssast.Index) bool {
	for p := s.tree.Node(idx).Parent; p != cssast.NoIndex; p = s.tree.Node(p).Parent {
		switch s.tree.Node(p).Kind {
		case cssast.KindExtend:
			return true
		case cssast.KindDeclarations:
			return false
		}
	}
	return false
}

func (s *Symbols) insideMixinReferenceName(idx cssast.Index) bool {
	parent := s.tree.Node(idx).Parent
	if parent == cssast.NoIndex {
		return false
	}
	pn := s.tree.Node(parent)
	if pn.Kind != cssast.KindMixinReference {
		return false
	}
	data, _ := s.tree.Data(parent).(*cssast.MixinReferenceData)
	return data != nil && data.Name == idx
}

// isKeyframeNameValue reports whether idx is an Identifier term inside
// the Expression of a Declaration whose property is "animation" or
// "animation-name".
func (s *Symbols) isKeyframeNameValue(idx cssast.Index) bool {
	decl := s.tree.FindParent(idx, cssast.KindDeclaration)
	if decl == cssast.NoIndex {
		return false
	}
	data, _ := s.tree.Data(decl).(*cssast.DeclarationData)
	if data == nil || data.Property == cssast.NoIndex {
		return false
	}
	name := strings.ToLower(s.tree.GetText(data.Property))
	return name == "animation" || name == "animation-name"
}

// FindSymbolFromNode resolves a usage node to the symbol it refers to.
// The starting scope is normally the innermost scope containing the
// node; an identifier in function-call-argument position instead jumps
// to the called function's body scope, so arguments resolve against the
// callee's parameters before anything else, then walk outward from
// there like any other lookup.
func (s *Symbols) FindSymbolFromNode(idx cssast.Index) *Symbol {
	types := s.referenceTypes(idx)
	if len(types) == 0 {
		return nil
	}
	n := s.tree.Node(idx)
	name := s.tree.GetText(idx)
	start := s.innermostScope(n.Range.Loc.Start)

	if n.Kind == cssast.KindFunction {
		if data, _ := s.tree.Data(idx).(*cssast.FunctionData); data != nil {
			name = data.Name
		}
	} else if jump := s.functionArgumentScope(idx); jump != nil {
		start = jump
	}

	return s.lookup(start, name, types)
}

// functionArgumentScope returns the body scope of the function whose
// call encloses idx as an argument, or nil when idx isn't in argument
// position or the callee doesn't resolve. The callee itself is resolved
// with the ordinary outward walk from the call site; the jump only
// changes where the argument's own lookup starts.
func (s *Symbols) functionArgumentScope(idx cssast.Index) *Scope {
	fn := s.tree.FindParent(idx, cssast.KindFunction)
	if fn == cssast.NoIndex {
		return nil
	}
	data, _ := s.tree.Data(fn).(*cssast.FunctionData)
	if data == nil {
		return nil
	}
	callSite := s.innermostScope(s.tree.Node(fn).Range.Loc.Start)
	callee := s.lookup(callSite, data.Name, []ReferenceType{Function})
	if callee == nil {
		return nil
	}
	fd, _ := s.tree.Data(callee.Node).(*cssast.FunctionDeclarationData)
	if fd == nil || fd.Body == cssast.NoIndex {
		return nil
	}
	return s.scope[fd.Body]
}

// lookup walks outward from scope to the global scope, returning the
// first symbol whose name equals name and whose type is in types.
func (s *Symbols) lookup(scope *Scope, name string, types []ReferenceType) *Symbol {
	for sc := scope; sc != nil; sc = sc.Parent {
		for _, sym := range sc.Symbols {
			if sym.Name != name {
				continue
			}
			for _, t := range types {
				if sym.Type == t {
					return sym
				}
			}
		}
	}
	return nil
}

// FindSymbol looks up name/kind starting from the innermost scope
// containing offset.
func (s *Symbols) FindSymbol(name string, kind ReferenceType, offset int32) *Symbol {
	return s.lookup(s.innermostScope(offset), name, []ReferenceType{kind})
}

// FindSymbolsAtOffset resolves whatever reference sits at offset,
// optionally filtered to a single reference type (pass Unknown for no
// filter), the entry point external collaborators use for hover/
// definition/highlight requests anchored at a cursor position.
func (s *Symbols) FindSymbolsAtOffset(tree *cssast.Tree, root cssast.Index, offset int32, kind ReferenceType) *Symbol {
	node := tree.FindNodeAtOffset(root, offset)
	if node == cssast.NoIndex {
		return nil
	}
	sym := s.FindSymbolFromNode(node)
	if sym == nil || (kind != Unknown && sym.Type != kind) {
		return nil
	}
	return sym
}

// MatchesSymbol succeeds iff resolving node yields exactly symbol (by
// identity of the defining node and name); this is what drives
// cross-reference highlight and rename.
func (s *Symbols) MatchesSymbol(idx cssast.Index, symbol *Symbol) bool {
	resolved := s.FindSymbolFromNode(idx)
	return resolved != nil && symbol != nil && resolved.Node == symbol.Node && resolved.Name == symbol.Name && resolved.Type == symbol.Type
}
