package cssparser

import (
	"testing"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/csstest"
	"github.com/cssls/cssls/internal/logger"
)

func parse(t *testing.T, contents string, dialect csslexer.Dialect) (*cssast.Tree, cssast.Index, []logger.Msg) {
	t.Helper()
	log := logger.NewDeferLog()
	source := csstest.SourceForTest(contents)
	tree, root := Parse(log, &source, dialect)
	return tree, root, log.Done()
}

// Plain CSS value resolution.
func TestPlainDeclarationNoDiagnostics(t *testing.T) {
	tree, root, msgs := parse(t, ".foo { color: #abc; }", csslexer.CSS)
	csstest.AssertEqual(t, len(msgs), 0)

	sheet := tree.Node(root)
	csstest.AssertEqual(t, len(sheet.Children), 1)

	rule := sheet.Children[0]
	csstest.AssertEqual(t, tree.Node(rule).Kind, cssast.KindRuleset)
	csstest.AssertEqual(t, tree.GetText(tree.Node(rule).Children[0]), ".foo")

	body := tree.Node(rule).Children[1]
	csstest.AssertEqual(t, tree.Node(body).Kind, cssast.KindDeclarations)
	decl := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.Node(decl).Kind, cssast.KindDeclaration)

	data := tree.Data(decl).(*cssast.DeclarationData)
	csstest.AssertEqual(t, tree.GetText(data.Property), "color")
	csstest.AssertEqual(t, tree.Node(data.Expression).Children[0] != cssast.NoIndex, true)
	value := tree.Node(data.Expression).Children[0]
	csstest.AssertEqual(t, tree.Node(value).Kind, cssast.KindHexColorValue)
}

// Error recovery on a missing colon.
func TestMissingColonRecovers(t *testing.T) {
	tree, root, msgs := parse(t, ".a { color red; }", csslexer.CSS)
	if len(msgs) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}

	rule := tree.Node(root).Children[0]
	body := tree.Node(rule).Children[1]
	csstest.AssertEqual(t, len(tree.Node(body).Children), 1)

	decl := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.IsErroneous(decl, false), true)
	found := false
	for _, m := range tree.Node(decl).Diagnostics {
		if m.Rule == "css-colonExpected" {
			found = true
		}
	}
	csstest.AssertEqual(t, found, true)
}

// LESS mixin declaration with a guard.
func TestLessMixinDeclarationWithGuard(t *testing.T) {
	tree, root, msgs := parse(t, ".m(@x) when (@x > 0) { color: red; }", csslexer.LESS)
	csstest.AssertEqual(t, len(msgs), 0)

	mixin := tree.Node(root).Children[0]
	csstest.AssertEqual(t, tree.Node(mixin).Kind, cssast.KindMixinDeclaration)

	data := tree.Data(mixin).(*cssast.MixinDeclarationData)
	csstest.AssertEqual(t, len(data.Parameters), 1)
	csstest.AssertEqual(t, tree.GetText(data.Parameters[0]), "@x")
	csstest.AssertEqual(t, data.Guard != cssast.NoIndex, true)

	guard := tree.Data(data.Guard).(*cssast.LessGuardData)
	csstest.AssertEqual(t, len(guard.Conditions), 1)
	cond := tree.Data(guard.Conditions[0]).(*cssast.GuardConditionData)
	csstest.AssertEqual(t, cond.Operator, ">")
	csstest.AssertEqual(t, tree.GetText(cond.Right), "0")
}

// SCSS variable declaration + interpolation.
func TestScssVariableInterpolation(t *testing.T) {
	tree, root, msgs := parse(t, "$c: red; .a { color: #{$c}; }", csslexer.SCSS)
	csstest.AssertEqual(t, len(msgs), 0)

	varDecl := tree.Node(root).Children[0]
	csstest.AssertEqual(t, tree.Node(varDecl).Kind, cssast.KindVariableDeclaration)
	varData := tree.Data(varDecl).(*cssast.VariableDeclarationData)
	csstest.AssertEqual(t, tree.GetText(varData.Name), "$c")
	csstest.AssertEqual(t, tree.GetText(varData.Expression), "red")

	rule := tree.Node(root).Children[1]
	body := tree.Node(rule).Children[1]
	decl := tree.Node(body).Children[0]
	declData := tree.Data(decl).(*cssast.DeclarationData)
	value := tree.Node(declData.Expression).Children[0]
	csstest.AssertEqual(t, tree.Node(value).Kind, cssast.KindInterpolation)
}

// Custom properties are hoisted to the CustomPropertyDeclaration kind.
func TestCustomPropertyDeclaration(t *testing.T) {
	tree, root, msgs := parse(t, ":root { --brand-color: blue; }", csslexer.CSS)
	csstest.AssertEqual(t, len(msgs), 0)

	rule := tree.Node(root).Children[0]
	body := tree.Node(rule).Children[1]
	decl := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.Node(decl).Kind, cssast.KindCustomPropertyDeclaration)
}

// A custom property whose value is a block parses as a CustomPropertySet.
func TestCustomPropertySet(t *testing.T) {
	tree, root, _ := parse(t, ".a { --toolbar: { color: red; }; }", csslexer.CSS)

	rule := tree.Node(root).Children[0]
	body := tree.Node(rule).Children[1]
	decl := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.Node(decl).Kind, cssast.KindCustomPropertyDeclaration)

	data := tree.Data(decl).(*cssast.DeclarationData)
	csstest.AssertEqual(t, data.NestedProperties != cssast.NoIndex, true)
	set := data.NestedProperties
	csstest.AssertEqual(t, tree.Node(set).Kind, cssast.KindCustomPropertySet)
	setData := tree.Data(set).(*cssast.CustomPropertySetData)
	csstest.AssertEqual(t, len(setData.Declarations), 1)
}

// SCSS nested properties: "font: { family: ...; }" stays a Declaration
// owning a NestedProperties block, not a nested ruleset.
func TestScssNestedProperties(t *testing.T) {
	tree, root, msgs := parse(t, ".a { font: { family: serif; size: 12px; } }", csslexer.SCSS)
	csstest.AssertEqual(t, len(msgs), 0)

	rule := tree.Node(root).Children[0]
	body := tree.Node(rule).Children[1]
	decl := tree.Node(body).Children[0]
	csstest.AssertEqual(t, tree.Node(decl).Kind, cssast.KindDeclaration)

	data := tree.Data(decl).(*cssast.DeclarationData)
	csstest.AssertEqual(t, tree.GetText(data.Property), "font")
	csstest.AssertEqual(t, data.NestedProperties != cssast.NoIndex, true)
	nested := tree.Data(data.NestedProperties).(*cssast.NestedPropertiesData)
	csstest.AssertEqual(t, len(nested.Declarations), 2)
}

// A "$name: value" keyword argument parses cleanly, keeping the name and
// value inside the same argument expression.
func TestScssKeywordArgument(t *testing.T) {
	tree, root, msgs := parse(t, ".a { width: double($n: 4); }", csslexer.SCSS)
	csstest.AssertEqual(t, len(msgs), 0)

	var fn cssast.Index = cssast.NoIndex
	tree.Accept(root, func(idx cssast.Index) bool {
		if tree.Node(idx).Kind == cssast.KindFunction {
			fn = idx
		}
		return true
	})
	if fn == cssast.NoIndex {
		t.Fatalf("expected a Function node for double(...)")
	}
	data := tree.Data(fn).(*cssast.FunctionData)
	csstest.AssertEqual(t, data.Name, "double")
	csstest.AssertEqual(t, len(data.Arguments), 1)

	arg := tree.Node(data.Arguments[0])
	csstest.AssertEqual(t, tree.Node(arg.Children[0]).Kind, cssast.KindVariableName)
	csstest.AssertEqual(t, len(arg.Children), 2) // the $n name plus the value expression
}
