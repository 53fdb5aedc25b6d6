package cssast

// ParseErrorCollector gathers the diagnostics attached throughout a
// subtree into one flat list, in pre-order, so the ordered marker list is
// a pure function of the source.
type ParseErrorCollector struct {
	tree *Tree
}

func NewParseErrorCollector(tree *Tree) *ParseErrorCollector {
	return &ParseErrorCollector{tree: tree}
}

// Entries returns every Marker attached to root or any of its
// descendants. Markers on one node keep their insertion order; nodes are
// visited in pre-order.
func (c *ParseErrorCollector) Entries(root Index) []Marker {
	var markers []Marker
	c.tree.Accept(root, func(idx Index) bool {
		markers = append(markers, c.tree.Node(idx).Diagnostics...)
		return true
	})
	return markers
}
