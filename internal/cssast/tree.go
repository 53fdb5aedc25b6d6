package cssast

import "github.com/cssls/cssls/internal/logger"

// Tree is the arena that owns every Node produced while parsing one
// document. Every node resolves text through the single Tree.source
// rather than walking up a parent chain to find an owner.
type Tree struct {
	source *logger.Source
	nodes  []Node
	extra  map[Index]interface{}
}

func NewTree(source *logger.Source) *Tree {
	return &Tree{source: source, extra: make(map[Index]interface{})}
}

func (t *Tree) Source() *logger.Source { return t.source }

// Alloc creates a new node of the given kind starting at start. Its
// length is initially zero; Finish sets it.
func (t *Tree) Alloc(kind Kind, start int32) Index {
	idx := Index(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Kind:   kind,
		Range:  logger.Range{Loc: logger.Loc{Start: start}},
		Parent: NoIndex,
	})
	return idx
}

// Finish sets a node's length from its start to the given end offset. The
// end is clamped so a node can never end before its own start (a
// production that matched nothing) or before a child already added to it.
func (t *Tree) Finish(idx Index, end int32) {
	n := &t.nodes[idx]
	if end < n.End() {
		end = n.End()
	}
	if end < n.Range.Loc.Start {
		end = n.Range.Loc.Start
	}
	n.Range.Len = end - n.Range.Loc.Start
}

// SetKind overwrites a node's Kind after allocation, for the rare case
// where the production that decides the final node shape (e.g. a plain
// Declaration vs. a CustomPropertyDeclaration) only knows which one it
// has after parsing past the node's start.
func (t *Tree) SetKind(idx Index, kind Kind) { t.nodes[idx].Kind = kind }

func (t *Tree) Node(idx Index) *Node {
	if idx == NoIndex {
		return nil
	}
	return &t.nodes[idx]
}

// AddChild appends child to parent's children, sets the child's Parent
// pointer, and widens parent's range to the union of the two ranges.
func (t *Tree) AddChild(parent, child Index) {
	p, c := &t.nodes[parent], &t.nodes[child]
	c.Parent = parent
	p.Children = append(p.Children, child)

	start, end := p.Range.Loc.Start, p.End()
	if c.Range.Loc.Start < start {
		start = c.Range.Loc.Start
	}
	if c.End() > end {
		end = c.End()
	}
	p.Range.Loc.Start = start
	p.Range.Len = end - start
}

func (t *Tree) AddDiagnostic(idx Index, m Marker) {
	t.nodes[idx].Diagnostics = append(t.nodes[idx].Diagnostics, m)
}

// SetData attaches kind-specific extension data to idx. Keeping payloads
// in a side table keyed by index keeps Node itself a single flat struct
// instead of one type per kind.
func (t *Tree) SetData(idx Index, data interface{}) {
	t.extra[idx] = data
}

func (t *Tree) Data(idx Index) interface{} {
	return t.extra[idx]
}

// Accept performs a pre-order traversal starting at root; visit returning
// false prunes that subtree.
func (t *Tree) Accept(root Index, visit func(Index) bool) {
	if root == NoIndex {
		return
	}
	if !visit(root) {
		return
	}
	for _, child := range t.nodes[root].Children {
		t.Accept(child, visit)
	}
}

// FindNodeAtOffset returns the smallest node (by range length) whose
// range covers offset, which a pre-order descend-into-the-matching-child
// search gives for free since children are always contained within their
// parent.
func (t *Tree) FindNodeAtOffset(root Index, offset int32) Index {
	best := NoIndex
	var walk func(Index)
	walk = func(idx Index) {
		n := &t.nodes[idx]
		if offset < n.Range.Loc.Start || offset > n.End() {
			return
		}
		best = idx
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return best
}

// NodePath returns [root, ..., leaf] for the node found by FindNodeAtOffset.
func (t *Tree) NodePath(root Index, offset int32) []Index {
	leaf := t.FindNodeAtOffset(root, offset)
	if leaf == NoIndex {
		return nil
	}
	var path []Index
	for idx := leaf; idx != NoIndex; idx = t.nodes[idx].Parent {
		path = append([]Index{idx}, path...)
	}
	return path
}

func (t *Tree) FindParent(idx Index, kind Kind) Index {
	for p := t.nodes[idx].Parent; p != NoIndex; p = t.nodes[p].Parent {
		if t.nodes[p].Kind == kind {
			return p
		}
	}
	return NoIndex
}

func (t *Tree) FindAnyParent(idx Index, kinds ...Kind) Index {
	for p := t.nodes[idx].Parent; p != NoIndex; p = t.nodes[p].Parent {
		for _, k := range kinds {
			if t.nodes[p].Kind == k {
				return p
			}
		}
	}
	return NoIndex
}

func (t *Tree) Encloses(a, b Index) bool {
	ra, rb := t.nodes[a].Range, t.nodes[b].Range
	return ra.Loc.Start <= rb.Loc.Start && ra.End() >= rb.End()
}

func (t *Tree) GetText(idx Index) string {
	return t.source.TextForRange(t.nodes[idx].Range)
}

func (t *Tree) Matches(idx Index, s string) bool    { return t.GetText(idx) == s }
func (t *Tree) StartsWith(idx Index, s string) bool { return hasPrefix(t.GetText(idx), s) }
func (t *Tree) EndsWith(idx Index, s string) bool   { return hasSuffix(t.GetText(idx), s) }

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// IsErroneous reports whether idx has a diagnostic attached, optionally
// searching descendants too.
func (t *Tree) IsErroneous(idx Index, recursive bool) bool {
	if len(t.nodes[idx].Diagnostics) > 0 {
		return true
	}
	if !recursive {
		return false
	}
	found := false
	t.Accept(idx, func(i Index) bool {
		if found {
			return false
		}
		if len(t.nodes[i].Diagnostics) > 0 {
			found = true
			return false
		}
		return true
	})
	return found
}
