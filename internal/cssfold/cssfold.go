// Package cssfold computes folding ranges and the selection-range pyramid
// from an already-built *cssast.Tree. Both are pure tree walks; neither
// operation re-scans or re-parses.
package cssfold

import (
	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/logger"
)

// Range is a folding range, expressed in byte offsets; the caller's LSP
// layer converts to line/character.
type Range struct {
	Start, End int32
	Kind       string // "region", "comment" (only "region" is produced today)
}

// foldableKinds lists every node shape whose `{...}`/`(...)` body is worth
// collapsing in an editor outline.
var foldableKinds = map[cssast.Kind]bool{
	cssast.KindRuleset:             true,
	cssast.KindDeclarations:        true,
	cssast.KindMedia:               true,
	cssast.KindSupports:            true,
	cssast.KindKeyframe:            true,
	cssast.KindFontFace:            true,
	cssast.KindDocument:            true,
	cssast.KindPage:                true,
	cssast.KindMixinDeclaration:    true,
	cssast.KindFunctionDeclaration: true,
	cssast.KindAtRoot:              true,
	cssast.KindIf:                  true,
	cssast.KindFor:                 true,
	cssast.KindEach:                true,
	cssast.KindWhile:               true,
	cssast.KindCustomPropertySet:   true,
	cssast.KindUnknownAtRule:       true,
}

// Ranges returns a folding range for every node in foldableKinds whose
// range spans more than one line, the minimum an editor needs to offer a
// fold (a single-line construct has nothing useful to collapse).
func Ranges(tree *cssast.Tree, root cssast.Index, source *logger.Source) []Range {
	tracker := logger.MakeLineColumnTracker(source)
	var out []Range
	tree.Accept(root, func(idx cssast.Index) bool {
		n := tree.Node(idx)
		if foldableKinds[n.Kind] && spansMultipleLines(&tracker, n.Range) {
			out = append(out, Range{Start: n.Range.Loc.Start, End: n.End(), Kind: "region"})
		}
		return true
	})
	return out
}

func spansMultipleLines(tracker *logger.LineColumnTracker, r logger.Range) bool {
	startLine, _ := tracker.Position(r.Loc.Start)
	endLine, _ := tracker.Position(r.End())
	return endLine > startLine
}

// SelectionRanges builds the selection-range pyramid: the list of
// node ranges enclosing offset, innermost first, so an editor's "expand
// selection" command can walk outward one step at a time.
func SelectionRanges(tree *cssast.Tree, root cssast.Index, offset int32) []logger.Range {
	path := tree.NodePath(root, offset)
	ranges := make([]logger.Range, len(path))
	for i, idx := range path {
		// NodePath is outermost-first; the pyramid is innermost-first.
		ranges[len(path)-1-i] = tree.Node(idx).Range
	}
	return ranges
}
