package cssast

import (
	"testing"

	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func TestAddChildWidensParentRange(t *testing.T) {
	source := csstest.SourceForTest(".a { color: red; }")
	tree := NewTree(&source)

	root := tree.Alloc(KindStylesheet, 0)
	rule := tree.Alloc(KindRuleset, 0)
	tree.Finish(rule, 4)
	tree.AddChild(root, rule)
	tree.Finish(root, 4)

	decl := tree.Alloc(KindDeclaration, 6)
	tree.Finish(decl, 15)
	tree.AddChild(rule, decl)

	csstest.AssertEqual(t, tree.Node(rule).Range.Loc.Start, int32(0))
	csstest.AssertEqual(t, tree.Node(rule).End(), int32(15))
}

func TestFindNodeAtOffsetPicksSmallest(t *testing.T) {
	source := csstest.SourceForTest("a{b:c}")
	tree := NewTree(&source)

	root := tree.Alloc(KindStylesheet, 0)
	rule := tree.Alloc(KindRuleset, 0)
	decl := tree.Alloc(KindDeclaration, 2)
	tree.Finish(decl, 5)
	tree.AddChild(rule, decl)
	tree.Finish(rule, 6)
	tree.AddChild(root, rule)
	tree.Finish(root, 6)

	found := tree.FindNodeAtOffset(root, 3)
	csstest.AssertEqual(t, found, decl)

	path := tree.NodePath(root, 3)
	csstest.AssertEqual(t, len(path), 3)
	csstest.AssertEqual(t, path[0], root)
	csstest.AssertEqual(t, path[2], decl)
}

func TestAcceptPreOrderAndPrune(t *testing.T) {
	source := csstest.SourceForTest("a b c")
	tree := NewTree(&source)
	root := tree.Alloc(KindStylesheet, 0)
	child1 := tree.Alloc(KindRuleset, 0)
	child2 := tree.Alloc(KindRuleset, 2)
	grandchild := tree.Alloc(KindDeclaration, 2)
	tree.AddChild(child2, grandchild)
	tree.AddChild(root, child1)
	tree.AddChild(root, child2)

	var visited []Index
	tree.Accept(root, func(idx Index) bool {
		visited = append(visited, idx)
		return idx != child2 // prune child2's subtree
	})

	csstest.AssertEqual(t, visited, []Index{root, child1, child2})
}

func TestIsErroneousRecursive(t *testing.T) {
	source := csstest.SourceForTest("a{b:}")
	tree := NewTree(&source)
	root := tree.Alloc(KindStylesheet, 0)
	child := tree.Alloc(KindDeclaration, 2)
	tree.AddChild(root, child)

	csstest.AssertEqual(t, tree.IsErroneous(root, true), false)

	tree.AddDiagnostic(child, Marker{
		Rule:     "css-expressionExpected",
		Severity: SeverityError,
		Message:  "expected an expression",
		Range:    logger.Range{Loc: logger.Loc{Start: 4}, Len: 0},
	})

	csstest.AssertEqual(t, tree.IsErroneous(root, false), false)
	csstest.AssertEqual(t, tree.IsErroneous(root, true), true)
	csstest.AssertEqual(t, tree.IsErroneous(child, true), true)
}

func TestGetTextHelpers(t *testing.T) {
	source := csstest.SourceForTest("color")
	tree := NewTree(&source)
	idx := tree.Alloc(KindIdentifier, 0)
	tree.Finish(idx, 5)

	csstest.AssertEqual(t, tree.GetText(idx), "color")
	csstest.AssertEqual(t, tree.Matches(idx, "color"), true)
	csstest.AssertEqual(t, tree.StartsWith(idx, "col"), true)
	csstest.AssertEqual(t, tree.EndsWith(idx, "lor"), true)
}

func TestParseErrorCollectorEntries(t *testing.T) {
	source := csstest.SourceForTest("a{b:}c{d}")
	tree := NewTree(&source)
	root := tree.Alloc(KindStylesheet, 0)
	rule1 := tree.Alloc(KindRuleset, 0)
	decl := tree.Alloc(KindDeclaration, 2)
	tree.AddChild(rule1, decl)
	tree.AddChild(root, rule1)
	rule2 := tree.Alloc(KindRuleset, 5)
	tree.AddChild(root, rule2)

	first := Marker{
		Rule:     "css-expressionExpected",
		Severity: SeverityError,
		Message:  "expected an expression",
		Range:    logger.Range{Loc: logger.Loc{Start: 4}, Len: 0},
	}
	second := Marker{
		Rule:     "css-colonExpected",
		Severity: SeverityError,
		Message:  "expected \":\"",
		Range:    logger.Range{Loc: logger.Loc{Start: 8}, Len: 1},
	}
	tree.AddDiagnostic(rule2, second)
	tree.AddDiagnostic(decl, first)

	entries := NewParseErrorCollector(tree).Entries(root)
	csstest.AssertEqual(t, entries, []Marker{first, second})

	csstest.AssertEqual(t, len(NewParseErrorCollector(tree).Entries(rule2)), 1)
}
