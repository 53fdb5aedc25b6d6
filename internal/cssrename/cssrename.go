// Package cssrename computes a rename edit set for the symbol under the
// cursor and renders it as both a flat list of text edits and a unified
// diff. Locating every occurrence reuses cssnav.Highlight, so a rename is
// exactly "every reference cssnav.References would list, rewritten to a
// new name". An LCS line diff produces the unified-diff text, and
// github.com/sourcegraph/go-diff parses it back into structured hunks
// for a caller that wants more than raw text.
package cssrename

import (
	"fmt"
	"sort"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/cssnav"
	"github.com/cssls/cssls/internal/cssscope"
	"github.com/cssls/cssls/internal/logger"
)

// TextEdit is one replacement in the document, a byte range plus its
// replacement text.
type TextEdit struct {
	Range   logger.Range
	NewText string
}

// sigil returns the leading characters ($, @, --, ., #) that a Variable
// or Rule symbol's name keeps as part of its identity but that are not
// part of the name an editor's rename-symbol UI prompts for.
func sigil(t cssscope.ReferenceType, name string) string {
	switch t {
	case cssscope.Variable:
		if strings.HasPrefix(name, "--") {
			return "--"
		}
		if len(name) > 0 && (name[0] == '$' || name[0] == '@') {
			return name[:1]
		}
	case cssscope.Rule:
		if len(name) > 0 && (name[0] == '.' || name[0] == '#') {
			return name[:1]
		}
	}
	return ""
}

// Plan finds the symbol referenced at offset and returns the text edits
// required to rename it to newName throughout the document. newName is
// the bare identifier the user typed; Plan re-attaches the symbol's own
// sigil so callers never have to know CSS's variable/selector punctuation
// rules.
func Plan(
	tree *cssast.Tree,
	root cssast.Index,
	symbols *cssscope.Symbols,
	offset int32,
	newName string,
) ([]TextEdit, error) {
	node := tree.FindNodeAtOffset(root, offset)
	if node == cssast.NoIndex {
		return nil, fmt.Errorf("cssrename: no node at offset %d", offset)
	}
	sym := symbols.FindSymbolFromNode(node)
	if sym == nil {
		return nil, fmt.Errorf("cssrename: offset %d does not reference a symbol", offset)
	}

	prefix := sigil(sym.Type, sym.Name)
	replacement := prefix + strings.TrimPrefix(newName, prefix)

	locations := cssnav.Highlight(tree, root, symbols, sym, true)
	edits := make([]TextEdit, len(locations))
	for i, loc := range locations {
		edits[i] = TextEdit{Range: loc.Range, NewText: replacement}
	}
	// A usage may precede its declaration in document order (lookup is
	// scope-based, not position-based), and Highlight lists the
	// declaration first.
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Range.Loc.Start < edits[j].Range.Loc.Start
	})
	return edits, nil
}

// Apply rewrites source's contents with edits, which must be sorted by
// Range.Loc.Start the way Plan returns them.
func Apply(source *logger.Source, edits []TextEdit) string {
	var b strings.Builder
	cursor := int32(0)
	for _, e := range edits {
		b.WriteString(source.Contents[cursor:e.Range.Loc.Start])
		b.WriteString(e.NewText)
		cursor = e.Range.End()
	}
	b.WriteString(source.Contents[cursor:])
	return b.String()
}

// UnifiedDiff renders the rename as a unified diff against path, parsed
// through go-diff so the returned *diff.FileDiff carries structured hunks
// a caller can render, filter, or apply selectively.
func UnifiedDiff(path string, source *logger.Source, edits []TextEdit) (*godiff.FileDiff, error) {
	newContent := Apply(source, edits)
	text := formatUnifiedDiff(path, source.Contents, newContent)
	if text == "" {
		return nil, nil
	}
	fileDiff, err := godiff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("cssrename: parsing generated diff: %w", err)
	}
	return fileDiff, nil
}

// PrintUnifiedDiff renders fd back to unified-diff text, the textual form
// an LSP workspace/applyEdit fallback or a CLI --diff flag would print.
func PrintUnifiedDiff(fd *godiff.FileDiff) (string, error) {
	out, err := godiff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("cssrename: printing diff: %w", err)
	}
	return string(out), nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && !strings.HasSuffix(content, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type editKind int

const (
	editEqual editKind = iota
	editInsert
	editDelete
)

type editOp struct {
	kind    editKind
	oldLine int
	newLine int
	text    string
}

// formatUnifiedDiff computes the minimal line-level edit sequence between
// old and new content via an LCS matrix and renders it as unified-diff
// text, three lines of context per hunk. Rename edits are single-token
// replacements inside already-short CSS/SCSS/LESS files, so the O(m*n)
// matrix here never needs the linear-memory fallback the diff package's
// own large-file path uses.
func formatUnifiedDiff(path, oldContent, newContent string) string {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)
	edits := computeEdits(oldLines, newLines)
	if len(edits) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	for _, hunk := range groupIntoHunks(edits, 3) {
		b.WriteString(hunk)
	}
	return b.String()
}

func computeEdits(oldLines, newLines []string) []editOp {
	m, n := len(oldLines), len(newLines)
	if m == 0 && n == 0 {
		return nil
	}

	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var edits []editOp
	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && oldLines[i] == newLines[j]:
			edits = append(edits, editOp{kind: editEqual, oldLine: i + 1, newLine: j + 1, text: oldLines[i]})
			i++
			j++
		case j < n && (i >= m || lcs[i][j+1] >= lcs[i+1][j]):
			edits = append(edits, editOp{kind: editInsert, newLine: j + 1, text: newLines[j]})
			j++
		default:
			edits = append(edits, editOp{kind: editDelete, oldLine: i + 1, text: oldLines[i]})
			i++
		}
	}
	return edits
}

func groupIntoHunks(edits []editOp, contextLines int) []string {
	var hunks []string
	var cur []editOp
	active := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		oldStart, oldCount, newStart, newCount := 0, 0, 0, 0
		for _, e := range cur {
			switch e.kind {
			case editEqual:
				if oldStart == 0 {
					oldStart = e.oldLine
				}
				if newStart == 0 {
					newStart = e.newLine
				}
				oldCount++
				newCount++
			case editDelete:
				if oldStart == 0 {
					oldStart = e.oldLine
				}
				oldCount++
			case editInsert:
				if newStart == 0 {
					newStart = e.newLine
				}
				newCount++
			}
		}
		if oldStart == 0 {
			oldStart = 1
		}
		if newStart == 0 {
			newStart = 1
		}
		var b strings.Builder
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, e := range cur {
			switch e.kind {
			case editEqual:
				b.WriteString(" " + e.text + "\n")
			case editDelete:
				b.WriteString("-" + e.text + "\n")
			case editInsert:
				b.WriteString("+" + e.text + "\n")
			}
		}
		hunks = append(hunks, b.String())
		cur = nil
	}

	for i, e := range edits {
		if e.kind != editEqual {
			if !active {
				start := i - contextLines
				if start < 0 {
					start = 0
				}
				for j := start; j < i; j++ {
					if edits[j].kind == editEqual {
						cur = append(cur, edits[j])
					}
				}
			}
			active = true
			cur = append(cur, e)
			continue
		}
		if !active {
			continue
		}
		hasMoreChanges := false
		lookahead := contextLines*2 + 1
		for j := i + 1; j < len(edits) && j <= i+lookahead; j++ {
			if edits[j].kind != editEqual {
				hasMoreChanges = true
				break
			}
		}
		if hasMoreChanges {
			cur = append(cur, e)
			continue
		}
		added := 0
		for j := i; j < len(edits) && added < contextLines; j++ {
			if edits[j].kind == editEqual {
				cur = append(cur, edits[j])
				added++
			}
		}
		flush()
		active = false
	}
	flush()
	return hunks
}
