package domain

import "strings"

// ModuleDelimiter separates segments of a fully-qualified module path.
// Rust module paths look like "pkg::sub::leaf"; the first segment is the
// crate name.
const ModuleDelimiter = "::"

// ModulePath is a fully-qualified module identifier. Two paths are equal
// iff their segment sequences are equal.
type ModulePath string

// Segments splits the path on ModuleDelimiter.
func (m ModulePath) Segments() []string {
	if m == "" {
		return nil
	}
	return strings.Split(string(m), ModuleDelimiter)
}

// Crate returns the first segment (the top-level crate/package name).
func (m ModulePath) Crate() string {
	segs := m.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// HasPrefix reports whether m is equal to prefix or nested under it.
func (m ModulePath) HasPrefix(prefix ModulePath) bool {
	if prefix == "" {
		return false
	}
	ms, ps := m.Segments(), prefix.Segments()
	if len(ps) > len(ms) {
		return false
	}
	for i, seg := range ps {
		if ms[i] != seg {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns the number of leading segments shared by a and b.
func CommonPrefixLen(a, b ModulePath) int {
	as, bs := a.Segments(), b.Segments()
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	return n
}

// Join appends segments to a module path.
func (m ModulePath) Join(segments ...string) ModulePath {
	if len(segments) == 0 {
		return m
	}
	if m == "" {
		return ModulePath(strings.Join(segments, ModuleDelimiter))
	}
	return ModulePath(string(m) + ModuleDelimiter + strings.Join(segments, ModuleDelimiter))
}

// Parent returns the path with its last segment removed, or "" for a
// single-segment path.
func (m ModulePath) Parent() ModulePath {
	segs := m.Segments()
	if len(segs) <= 1 {
		return ""
	}
	return ModulePath(strings.Join(segs[:len(segs)-1], ModuleDelimiter))
}

// ItemKind enumerates the closed set of definitions a module can contain.
type ItemKind string

const (
	ItemFunction ItemKind = "function"
	ItemType     ItemKind = "type"
	ItemTrait    ItemKind = "trait"
	ItemImpl     ItemKind = "impl"
	ItemImport   ItemKind = "import"
)

// Visibility enumerates the closed set of Rust visibility levels this
// analysis distinguishes.
type Visibility string

const (
	VisibilityPublic         Visibility = "public"
	VisibilityPackageVisible Visibility = "package_visible" // pub(crate), pub(super), ...
	VisibilityPrivate        Visibility = "private"
)

// SourceLocation pinpoints a span of source text.
type SourceLocation struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	StartCol  int     `json:"start_col" yaml:"start_col"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	EndCol    int    `json:"end_col" yaml:"end_col"`
}

// Item is a named definition inside a module.
type Item struct {
	Name       string          `json:"name" yaml:"name"`
	Module     ModulePath      `json:"module" yaml:"module"`
	Kind       ItemKind        `json:"kind" yaml:"kind"`
	Visibility Visibility      `json:"visibility" yaml:"visibility"`
	Location   *SourceLocation `json:"location,omitempty" yaml:"location,omitempty"`

	// TraitImpl distinguishes a trait implementation ("impl Trait for T")
	// from an inherent one ("impl T") for ItemImpl items, feeding the
	// trait_impl_count/inherent_impl_count split of ModuleMetrics
	// (spec.md §3 "Per-module metric bundle"). Meaningless for other kinds.
	TraitImpl bool `json:"trait_impl,omitempty" yaml:"trait_impl,omitempty"`
}

// UsageContext is the closed enumeration of syntactic occurrences that can
// originate a coupling usage (spec.md §3).
type UsageContext string

const (
	ContextFieldAccess        UsageContext = "FieldAccess"
	ContextStructConstruction UsageContext = "StructConstruction"
	ContextInherentImplBlock  UsageContext = "InherentImplBlock"
	ContextMethodCall         UsageContext = "MethodCall"
	ContextFunctionCall       UsageContext = "FunctionCall"
	ContextFunctionParameter  UsageContext = "FunctionParameter"
	ContextReturnType         UsageContext = "ReturnType"
	ContextTypeParameter      UsageContext = "TypeParameter"
	ContextImport             UsageContext = "Import"
	ContextTraitBound         UsageContext = "TraitBound"
)

// Strength returns the mapped strength for a usage context.
func (c UsageContext) Strength() Strength {
	switch c {
	case ContextFieldAccess, ContextStructConstruction, ContextInherentImplBlock:
		return StrengthIntrusive
	case ContextMethodCall, ContextFunctionCall, ContextFunctionParameter, ContextReturnType:
		return StrengthFunctional
	case ContextTypeParameter, ContextImport:
		return StrengthModel
	case ContextTraitBound:
		return StrengthContract
	default:
		return StrengthContract
	}
}

// Strength is the mapped strength of a usage context, with its numeric
// value per spec.md §3.
type Strength string

const (
	StrengthContract   Strength = "Contract"
	StrengthModel      Strength = "Model"
	StrengthFunctional Strength = "Functional"
	StrengthIntrusive  Strength = "Intrusive"
)

// Value returns the numeric value in [0,1] used by the balance algebra.
func (s Strength) Value() float64 {
	switch s {
	case StrengthContract:
		return 0.25
	case StrengthModel:
		return 0.4
	case StrengthFunctional:
		return 0.6
	case StrengthIntrusive:
		return 0.8
	default:
		return 0
	}
}

// AtLeast reports whether s is ranked at or above other.
func (s Strength) AtLeast(other Strength) bool {
	return strengthRank(s) >= strengthRank(other)
}

// AtMost reports whether s is ranked at or below other.
func (s Strength) AtMost(other Strength) bool {
	return strengthRank(s) <= strengthRank(other)
}

func strengthRank(s Strength) int {
	switch s {
	case StrengthContract:
		return 0
	case StrengthModel:
		return 1
	case StrengthFunctional:
		return 2
	case StrengthIntrusive:
		return 3
	default:
		return -1
	}
}

// MaxStrength returns whichever of a, b ranks higher.
func MaxStrength(a, b Strength) Strength {
	if strengthRank(b) > strengthRank(a) {
		return b
	}
	return a
}

// Distance is the derived closeness of two module paths in the hierarchy.
type Distance string

const (
	DistanceSameFunction   Distance = "SameFunction"
	DistanceSameModule     Distance = "SameModule"
	DistanceDifferentModule Distance = "DifferentModule"
	DistanceDifferentCrate Distance = "DifferentCrate"
)

// Value returns the numeric value in [0,1] used by the balance algebra.
func (d Distance) Value() float64 {
	switch d {
	case DistanceSameFunction:
		return 0
	case DistanceSameModule:
		return 0.25
	case DistanceDifferentModule:
		return 0.6
	case DistanceDifferentCrate:
		return 1.0
	default:
		return 0
	}
}

// AtLeast reports whether d is ranked at or above other, by numeric value.
func (d Distance) AtLeast(other Distance) bool {
	return d.Value() >= other.Value()
}

// AtMost reports whether d is ranked at or below other, by numeric value.
func (d Distance) AtMost(other Distance) bool {
	return d.Value() <= other.Value()
}

// Volatility classifies how frequently a module changes.
type Volatility string

const (
	VolatilityLow     Volatility = "Low"
	VolatilityMedium  Volatility = "Medium"
	VolatilityHigh    Volatility = "High"
	VolatilityUnknown Volatility = "Unknown"
)

// Value returns the numeric value in [0,1] used by the balance algebra.
// Unknown volatility is treated as neutral (0.5) so it neither inflates nor
// deflates Balance.
func (v Volatility) Value() float64 {
	switch v {
	case VolatilityLow:
		return 0.2
	case VolatilityMedium:
		return 0.5
	case VolatilityHigh:
		return 0.8
	default:
		return 0.5
	}
}

// AtMost reports whether v is ranked at or below other.
func (v Volatility) AtMost(other Volatility) bool {
	return volatilityRank(v) <= volatilityRank(other)
}

func volatilityRank(v Volatility) int {
	switch v {
	case VolatilityLow:
		return 0
	case VolatilityMedium:
		return 1
	case VolatilityHigh:
		return 2
	default:
		return 1 // Unknown sits between Low and High
	}
}

// Usage is one syntactic occurrence where source code references a symbol
// resolving to a target path.
type Usage struct {
	SourceModule ModulePath      `json:"source_module" yaml:"source_module"`
	TargetPath   string          `json:"target_path" yaml:"target_path"`
	Context      UsageContext    `json:"context" yaml:"context"`
	Location     *SourceLocation `json:"location,omitempty" yaml:"location,omitempty"`
}
