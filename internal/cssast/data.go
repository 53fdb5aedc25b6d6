package cssast

// The structs below are the per-kind extension payloads. Each is stored
// against its node's Index via Tree.SetData and retrieved with Tree.Data,
// then type-asserted by callers that already know the node's Kind.

// DeclarationData holds a Declaration's named sub-roles: its Property,
// Expression, and NestedProperties.
type DeclarationData struct {
	Property          Index
	Expression        Index
	NestedProperties  Index
	ColonPosition     int32
	SemicolonPosition int32
	Important         bool
}

// PropertyData flags a custom-property name ("--foo").
type PropertyData struct {
	IsCustomProperty bool
}

// VariableDeclarationData carries the SCSS `!default`/`!global` flags and
// the LESS equivalent (LESS has no `!global` but shares the node shape).
type VariableDeclarationData struct {
	Name       Index
	Expression Index
	Default    bool
	Global     bool
}

// MixinDeclarationData / MixinReferenceData cover both the SCSS
// (`@mixin`/`@include`) and LESS (`.name(...)`/`#name(...)`) surface forms.
type MixinDeclarationData struct {
	Name       Index
	Parameters []Index
	Body       Index
	Guard      Index // LESS only; NoIndex otherwise
}

type MixinReferenceData struct {
	Name      Index
	Arguments []Index
	Important bool
}

type FunctionDeclarationData struct {
	Name       Index
	Parameters []Index
	Body       Index
}

// FunctionData covers both a plain value-position function call (e.g.
// calc(...)) and a namespaced SCSS module call (module.member(...)). Name
// is stored as raw text rather than an Index: the function's node range
// already starts at the name token, so a separate child node would just
// duplicate that text.
type FunctionData struct {
	Name      string
	Arguments []Index
}

// ForData / EachData model the SCSS loop headers.
type ForData struct {
	Variable Index
	From     Index
	To       Index
	Through  bool
}

type EachData struct {
	Variables []Index
	In        Index
}

// ImportData records the parsed URL-or-string target and, for LESS, the
// discarded parenthesized keyword list and optional media query.
type ImportData struct {
	URL          string
	MediaQueries []Index
	LessKeywords []string
}

type MediaData struct {
	Queries []Index
	Body    Index
}

// UseData / ForwardData record a Sass module link: the quoted path as
// scanned, the "as" namespace alias for @use ("*" for a wildcard), and
// @forward's show/hide visibility name lists.
type UseData struct {
	Path  string
	Alias string
}

type ForwardData struct {
	Path string
	Show []string
	Hide []string
}

type KeyframeData struct {
	Name Index
	Body Index
}

type CustomPropertySetData struct {
	Declarations []Index
}

type UnknownAtRuleData struct {
	AtKeyword string
	Body      Index // NoIndex if the statement ended at ";"
}

// NestedPropertiesData links a SCSS nested-property block back to the
// outer Declaration whose prefix it extends.
type NestedPropertiesData struct {
	Declarations []Index
}

// LessGuardData / GuardConditionData model `when [not] (cond) [and (cond)]*`.
type LessGuardData struct {
	Conditions []Index
}

type GuardConditionData struct {
	Negated  bool
	Left     Index
	Operator string // one of ">", ">=", "=", "=<", "<"
	Right    Index
}

// NumericValueData splits a numeric token into its numeric and unit
// parts. No unit conversion is performed.
type NumericValueData struct {
	Value string
	Unit  string
}

type InterpolationData struct {
	Expression Index
}

type NamespacedIdentifierData struct {
	Namespace Index
	Member    Index
}
