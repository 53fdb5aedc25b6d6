// Package csshover renders hover text for the node under the cursor:
// locate the node at the offset, then dispatch on what kind of thing it
// is to a small per-kind text builder. Property/at-rule/pseudo
// descriptions come from cssdata; variable and mixin hovers come from
// cssscope's symbol resolution.
package csshover

import (
	"fmt"
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/cssdata"
	"github.com/cssls/cssls/internal/cssscope"
)

// Hover is the markdown-flavored hover payload, matching the
// lsp.Hover{Contents: MarkupContent} wire shape.
type Hover struct {
	Contents string // markdown
}

// At returns hover text for the node found at offset, or ok=false when
// nothing in the document has anything to say about that position.
func At(
	tree *cssast.Tree,
	root cssast.Index,
	symbols *cssscope.Symbols,
	data *cssdata.Provider,
	offset int32,
) (Hover, bool) {
	node := tree.FindNodeAtOffset(root, offset)
	if node == cssast.NoIndex {
		return Hover{}, false
	}

	if sym := symbolHover(tree, symbols, node); sym != "" {
		return Hover{Contents: sym}, true
	}

	if data != nil {
		if text, ok := dataHover(tree, data, node, offset); ok {
			return Hover{Contents: text}, true
		}
	}
	return Hover{}, false
}

// symbolHover renders a hover for a Variable/Mixin/Function usage,
// showing the text of its defining value the way an editor's
// "peek definition" preview does — FindSymbolFromNode is the whole of
// the resolution logic here.
func symbolHover(tree *cssast.Tree, symbols *cssscope.Symbols, node cssast.Index) string {
	if symbols == nil {
		return ""
	}
	sym := symbols.FindSymbolFromNode(node)
	if sym == nil {
		return ""
	}
	switch sym.Type {
	case cssscope.Variable:
		if sym.Value != "" {
			return fmt.Sprintf("```\n%s: %s\n```", sym.Name, sym.Value)
		}
		return fmt.Sprintf("```\n%s\n```", sym.Name)
	case cssscope.Mixin:
		return fmt.Sprintf("(mixin) **%s**", sym.Name)
	case cssscope.Function:
		return fmt.Sprintf("(function) **%s**", sym.Name)
	case cssscope.Keyframe:
		return fmt.Sprintf("(keyframes) **%s**", sym.Name)
	case cssscope.Rule:
		return fmt.Sprintf("(rule) **%s**", sym.Name)
	}
	return ""
}

// dataHover answers a hover for a plain property name, pseudo-class/
// pseudo-element, or at-rule keyword from the curated cssdata table, the
// same lookup completion uses to fill in Detail text. The grammar folds a
// SimpleSelector's pseudo qualifiers directly onto the SimpleSelector
// node's own text rather than allocating a dedicated child per pseudo,
// so the pseudo case scans that text for the ":"/"::" run enclosing
// offset instead of matching on a node kind.
func dataHover(tree *cssast.Tree, data *cssdata.Provider, node cssast.Index, offset int32) (string, bool) {
	n := tree.Node(node)

	if decl := tree.FindParent(node, cssast.KindDeclaration); decl != cssast.NoIndex {
		if d, _ := tree.Data(decl).(*cssast.DeclarationData); d != nil && d.Property == node {
			if e, ok := data.Property(strings.ToLower(tree.GetText(node))); ok {
				return renderEntry(e.Name, e.Description, e.BrowserSupport), true
			}
		}
	}

	if n.Kind == cssast.KindSimpleSelector {
		if name, isElement, ok := pseudoNameAt(tree.GetText(node), n.Range.Loc.Start, offset); ok {
			if isElement {
				if e, ok := data.PseudoElement(name); ok {
					return renderEntry("::"+e.Name, e.Description, e.BrowserSupport), true
				}
			} else if e, ok := data.PseudoClass(name); ok {
				return renderEntry(":"+e.Name, e.Description, e.BrowserSupport), true
			}
		}
	}

	if parent := tree.FindAnyParent(node, cssast.KindUnknownAtRule, cssast.KindMedia, cssast.KindSupports,
		cssast.KindFontFace, cssast.KindKeyframe, cssast.KindImport, cssast.KindNamespace,
		cssast.KindDocument, cssast.KindPage, cssast.KindCharset); parent != cssast.NoIndex {
		name := atRuleKeyword(tree, parent)
		if e, ok := data.AtDirective(name); ok {
			return renderEntry("@"+e.Name, e.Description, e.BrowserSupport), true
		}
	}
	return "", false
}

// pseudoNameAt finds the ":name" or "::name" run in selectorText
// (starting at selectorStart in the document) that contains offset, and
// reports whether it used the "::" pseudo-element form.
func pseudoNameAt(selectorText string, selectorStart, offset int32) (name string, isElement, ok bool) {
	local := int(offset - selectorStart)
	if local < 0 || local > len(selectorText) {
		return "", false, false
	}
	for i := 0; i < len(selectorText); i++ {
		if selectorText[i] != ':' {
			continue
		}
		start := i
		i++
		element := false
		if i < len(selectorText) && selectorText[i] == ':' {
			element = true
			i++
		}
		nameStart := i
		for i < len(selectorText) && isIdentByte(selectorText[i]) {
			i++
		}
		if local >= start && local <= i {
			return selectorText[nameStart:i], element, nameStart < i
		}
		i--
	}
	return "", false, false
}

func isIdentByte(b byte) bool {
	return b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func atRuleKeyword(tree *cssast.Tree, idx cssast.Index) string {
	if ur, ok := tree.Data(idx).(*cssast.UnknownAtRuleData); ok {
		return ur.AtKeyword
	}
	text := tree.GetText(idx)
	text = strings.TrimPrefix(text, "@")
	if i := strings.IndexAny(text, " \t\n{("); i >= 0 {
		text = text[:i]
	}
	return text
}

func renderEntry(name, description string, support cssdata.BrowserSupport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", name)
	if description != "" {
		fmt.Fprintf(&b, "\n\n%s", description)
	}
	if len(support) > 0 {
		b.WriteString("\n\n")
		parts := make([]string, len(support))
		for i, s := range support {
			parts[i] = string(s.Browser) + s.Version
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}
