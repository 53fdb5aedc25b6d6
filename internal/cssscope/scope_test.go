package cssscope

import (
	"testing"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parse(t *testing.T, contents string, dialect csslexer.Dialect) (*cssast.Tree, cssast.Index) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tree, root := cssparser.Parse(log, &source, dialect)
	return tree, root
}

// A VariableName usage inside an interpolation resolves to the
// global VariableDeclaration that precedes it.
func TestScssVariableResolvesAcrossRuleset(t *testing.T) {
	tree, root := parse(t, "$c: red; .a { color: #{$c}; }", csslexer.SCSS)
	symbols := New(tree, root)

	// Walk to the VariableName node inside the interpolation.
	rule := tree.Node(root).Children[1]
	body := tree.Node(rule).Children[1]
	decl := tree.Node(body).Children[0]
	data := tree.Data(decl).(*cssast.DeclarationData)
	interp := tree.Node(data.Expression).Children[0]
	interpData := tree.Data(interp).(*cssast.InterpolationData)
	varUsage := tree.Node(interpData.Expression).Children[0]

	sym := symbols.FindSymbolFromNode(varUsage)
	if sym == nil {
		t.Fatalf("expected $c to resolve")
	}
	csstest.AssertEqual(t, sym.Name, "$c")
	csstest.AssertEqual(t, sym.Type, Variable)
	csstest.AssertEqual(t, sym.Value, "red")
}

// A LESS mixin declaration's body scope carries its parameter as a
// Variable symbol.
func TestLessMixinParameterInBodyScope(t *testing.T) {
	tree, root := parse(t, ".m(@x) when (@x > 0) { color: red; }", csslexer.LESS)
	symbols := New(tree, root)

	mixin := tree.Node(root).Children[0]
	data := tree.Data(mixin).(*cssast.MixinDeclarationData)
	body := tree.Node(data.Body)

	bodyScope := symbols.innermostScope(body.Range.Loc.Start)
	found := false
	for _, sym := range bodyScope.Symbols {
		if sym.Name == "@x" && sym.Type == Variable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected @x to be declared in the mixin body scope")
	}
}

// The same variable used in two rulesets resolves to one symbol, and
// MatchesSymbol agrees for both usages.
func TestCrossRulesetHighlightMatchesSameSymbol(t *testing.T) {
	tree, root := parse(t, "$x: 1; .a { width: $x; } .b { height: $x; }", csslexer.SCSS)
	symbols := New(tree, root)

	var usages []cssast.Index
	tree.Accept(root, func(idx cssast.Index) bool {
		n := tree.Node(idx)
		if n.Kind == cssast.KindVariableName && tree.GetText(idx) == "$x" &&
			tree.Node(n.Parent).Kind != cssast.KindVariableDeclaration {
			usages = append(usages, idx)
		}
		return true
	})
	csstest.AssertEqual(t, len(usages), 2)

	sym := symbols.FindSymbolFromNode(usages[0])
	if sym == nil {
		t.Fatalf("expected $x to resolve")
	}
	for _, u := range usages {
		csstest.AssertEqual(t, symbols.MatchesSymbol(u, sym), true)
	}
}

// A variable declared inside one ruleset's Declarations scope does not
// leak into a sibling ruleset (no shadowing across disjoint scopes).
func TestVariableScopedToItsDeclarationsBlock(t *testing.T) {
	tree, root := parse(t, ".a { $y: 1; color: $y; } .b { color: $y; }", csslexer.SCSS)
	symbols := New(tree, root)

	ruleB := tree.Node(root).Children[1]
	bodyB := tree.Node(ruleB).Children[1]
	declB := tree.Node(bodyB).Children[0]
	dataB := tree.Data(declB).(*cssast.DeclarationData)
	usageB := tree.Node(dataB.Expression).Children[0]

	csstest.AssertEqual(t, symbols.FindSymbolFromNode(usageB), (*Symbol)(nil))
}

// A Ruleset whose selector reduces to a single simple selector registers
// a Rule symbol usable by @extend.
func TestSingleSimpleSelectorRegistersRuleSymbol(t *testing.T) {
	tree, root := parse(t, ".base { color: red; } .child { @extend .base; }", csslexer.SCSS)
	symbols := New(tree, root)

	child := tree.Node(root).Children[1]
	body := tree.Node(child).Children[1]
	extend := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.Node(extend).Kind, cssast.KindExtend)
	selector := tree.Node(extend).Children[0]
	simple := tree.Node(selector).Children[0]
	csstest.AssertEqual(t, tree.Node(simple).Kind, cssast.KindSimpleSelector)

	sym := symbols.FindSymbolFromNode(simple)
	if sym == nil {
		t.Fatalf("expected .base to resolve as a Rule symbol")
	}
	csstest.AssertEqual(t, sym.Type, Rule)
	csstest.AssertEqual(t, sym.Name, ".base")
}

// An identifier in function-call-argument position jumps into the called
// function's body scope, so it resolves against the callee's parameters
// rather than the caller's surroundings.
func TestFunctionArgumentResolvesInCalleeScope(t *testing.T) {
	contents := "@function double($n: 2) { @return $n; } .a { width: double($n: 4); }"
	tree, root := parse(t, contents, csslexer.SCSS)
	symbols := New(tree, root)

	var usages []cssast.Index
	tree.Accept(root, func(idx cssast.Index) bool {
		if tree.Node(idx).Kind == cssast.KindVariableName && tree.GetText(idx) == "$n" {
			usages = append(usages, idx)
		}
		return true
	})
	// One usage in the @return body, one as the call-site argument.
	csstest.AssertEqual(t, len(usages), 2)
	arg := usages[len(usages)-1]
	csstest.AssertEqual(t, tree.FindParent(arg, cssast.KindFunction) != cssast.NoIndex, true)

	sym := symbols.FindSymbolFromNode(arg)
	if sym == nil {
		t.Fatalf("expected the $n argument to resolve into double's body scope")
	}
	csstest.AssertEqual(t, sym.Type, Variable)
	csstest.AssertEqual(t, sym.Name, "$n")
	csstest.AssertEqual(t, tree.Node(sym.Node).Kind, cssast.KindFunctionParameter)
}

// A variable that only exists at the call site still resolves when used
// as a function argument: the jump changes where lookup starts, not the
// outward walk that follows it.
func TestFunctionArgumentFallsBackPastCalleeScope(t *testing.T) {
	contents := "$w: 4; @function double($n: 2) { @return $n; } .a { width: double($w); }"
	tree, root := parse(t, contents, csslexer.SCSS)
	symbols := New(tree, root)

	var arg cssast.Index = cssast.NoIndex
	tree.Accept(root, func(idx cssast.Index) bool {
		if tree.Node(idx).Kind == cssast.KindVariableName && tree.GetText(idx) == "$w" &&
			tree.FindParent(idx, cssast.KindFunction) != cssast.NoIndex {
			arg = idx
		}
		return true
	})
	if arg == cssast.NoIndex {
		t.Fatalf("expected a $w argument node")
	}

	sym := symbols.FindSymbolFromNode(arg)
	if sym == nil {
		t.Fatalf("expected $w to resolve via the outward walk from double's scope")
	}
	csstest.AssertEqual(t, sym.Name, "$w")
	csstest.AssertEqual(t, tree.Node(sym.Node).Kind, cssast.KindVariableDeclaration)
}

// @use declares a Module symbol named by its alias (or derived from the
// path); @forward declares a Forward symbol for the module plus one
// ForwardVisibility symbol per shown/hidden name.
func TestUseAndForwardDeclareModuleSymbols(t *testing.T) {
	contents := `@use "sass:math" as m; @forward "./list" show list-append, $sep hide list-remove;`
	tree, root := parse(t, contents, csslexer.SCSS)
	symbols := New(tree, root)

	if symbols.FindSymbol("m", Module, 0) == nil {
		t.Fatalf("expected the @use alias to declare a Module symbol")
	}
	if symbols.FindSymbol("./list", Forward, 0) == nil {
		t.Fatalf("expected @forward to declare a Forward symbol for its path")
	}
	for _, name := range []string{"list-append", "$sep", "list-remove"} {
		if symbols.FindSymbol(name, ForwardVisibility, 0) == nil {
			t.Fatalf("expected %s to be declared as a ForwardVisibility symbol", name)
		}
	}
}

// Without an alias, @use derives its namespace from the path's last
// segment, dropping the partial underscore and extension.
func TestUseDefaultNamespaceFromPath(t *testing.T) {
	tree, root := parse(t, `@use "./utils/_colors.scss";`, csslexer.SCSS)
	symbols := New(tree, root)
	sym := symbols.FindSymbol("colors", Module, 0)
	if sym == nil {
		t.Fatalf("expected the namespace to derive from the path")
	}
	csstest.AssertEqual(t, sym.Value, "./utils/_colors.scss")
}
