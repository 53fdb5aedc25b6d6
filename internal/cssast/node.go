// Package cssast implements an arena-based AST for parsed stylesheets.
// A direct pointer-shaped parent/child relationship is cyclic once a
// node needs to point back to its parent, and doesn't fit a service that
// must cheaply re-traverse and mutate diagnostics without touching
// ownership. Here nodes live in a flat arena owned by a Tree, children
// and parents are arena Index values, and the "many node shapes"
// problem is solved with a single tagged Node plus a side table of
// per-kind extension data, dispatched on Kind.
package cssast

import "github.com/cssls/cssls/internal/logger"

// Index is an arena-relative node reference. The zero Tree always has the
// Stylesheet root at index 0; NoIndex marks an absent optional reference.
type Index int32

const NoIndex Index = -1

// Kind is the closed, tagged-variant discriminator for every node shape
// the parser can produce.
type Kind uint16

const (
	KindInvalid Kind = iota

	KindStylesheet
	KindRuleset
	KindSelector
	KindSimpleSelector
	KindCombinatorSelector
	KindAttributeSelector
	KindPseudo

	KindDeclarations
	KindDeclaration
	KindProperty
	KindExpression
	KindBinaryExpression
	KindTerm
	KindOperator
	KindFunction
	KindNumericValue
	KindHexColorValue
	KindIdentifier
	KindStringLiteral
	KindURLLiteral

	KindMixinDeclaration
	KindMixinReference
	KindFunctionDeclaration
	KindFunctionParameter
	KindReturn

	KindVariableDeclaration
	KindVariableName
	KindInterpolation

	KindMedia
	KindMediaQuery
	KindKeyframe
	KindKeyframeSelector
	KindFontFace
	KindImport
	KindNamespace
	KindUse
	KindForward
	KindSupports
	KindDocument
	KindPage
	KindPageSelector
	KindApplyRule
	KindViewport
	KindCharset

	KindCustomPropertyDeclaration
	KindCustomPropertySet
	KindUnknownAtRule
	KindNestedProperties

	KindIf
	KindElse
	KindFor
	KindEach
	KindWhile
	KindExtend
	KindAtRoot
	KindDebug
	KindWarn
	KindErrorStatement

	KindMap
	KindMapEntry
	KindNamespacedIdentifier

	KindLessGuard
	KindGuardCondition
	KindEscapedValue
	KindPlugin

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                   "Invalid",
	KindStylesheet:                "Stylesheet",
	KindRuleset:                   "Ruleset",
	KindSelector:                  "Selector",
	KindSimpleSelector:            "SimpleSelector",
	KindCombinatorSelector:        "CombinatorSelector",
	KindAttributeSelector:         "AttributeSelector",
	KindPseudo:                    "Pseudo",
	KindDeclarations:              "Declarations",
	KindDeclaration:               "Declaration",
	KindProperty:                  "Property",
	KindExpression:                "Expression",
	KindBinaryExpression:          "BinaryExpression",
	KindTerm:                      "Term",
	KindOperator:                  "Operator",
	KindFunction:                  "Function",
	KindNumericValue:              "NumericValue",
	KindHexColorValue:             "HexColorValue",
	KindIdentifier:                "Identifier",
	KindStringLiteral:             "StringLiteral",
	KindURLLiteral:                "URLLiteral",
	KindMixinDeclaration:          "MixinDeclaration",
	KindMixinReference:            "MixinReference",
	KindFunctionDeclaration:       "FunctionDeclaration",
	KindFunctionParameter:         "FunctionParameter",
	KindReturn:                    "Return",
	KindVariableDeclaration:       "VariableDeclaration",
	KindVariableName:              "VariableName",
	KindInterpolation:             "Interpolation",
	KindMedia:                     "Media",
	KindMediaQuery:                "MediaQuery",
	KindKeyframe:                  "Keyframe",
	KindKeyframeSelector:          "KeyframeSelector",
	KindFontFace:                  "FontFace",
	KindImport:                    "Import",
	KindNamespace:                 "Namespace",
	KindUse:                       "Use",
	KindForward:                   "Forward",
	KindSupports:                  "Supports",
	KindDocument:                  "Document",
	KindPage:                      "Page",
	KindPageSelector:              "PageSelector",
	KindApplyRule:                 "ApplyRule",
	KindViewport:                  "Viewport",
	KindCharset:                   "Charset",
	KindCustomPropertyDeclaration: "CustomPropertyDeclaration",
	KindCustomPropertySet:         "CustomPropertySet",
	KindUnknownAtRule:             "UnknownAtRule",
	KindNestedProperties:          "NestedProperties",
	KindIf:                        "If",
	KindElse:                      "Else",
	KindFor:                       "For",
	KindEach:                      "Each",
	KindWhile:                     "While",
	KindExtend:                    "Extend",
	KindAtRoot:                    "AtRoot",
	KindDebug:                     "Debug",
	KindWarn:                      "Warn",
	KindErrorStatement:            "ErrorStatement",
	KindMap:                       "Map",
	KindMapEntry:                  "MapEntry",
	KindNamespacedIdentifier:      "NamespacedIdentifier",
	KindLessGuard:                 "LessGuard",
	KindGuardCondition:            "GuardCondition",
	KindEscapedValue:              "EscapedValue",
	KindPlugin:                    "Plugin",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Severity is a diagnostic's severity level.
type Severity uint8

const (
	SeverityIgnore Severity = iota
	SeverityWarning
	SeverityError
)

// Marker is a diagnostic attached to a node.
type Marker struct {
	Rule     string
	Severity Severity
	Message  string
	Range    logger.Range
}

// Node is the single tagged-variant type every AST node uses; per-kind
// payloads live out-of-line in Tree.extra, keyed by the node's Index.
type Node struct {
	Kind        Kind
	Range       logger.Range
	Parent      Index
	Children    []Index
	Diagnostics []Marker
}

func (n *Node) End() int32 { return n.Range.Loc.Start + n.Range.Len }
