package domain

// CouplingEdge aggregates all usages folded into one (source, target) arrow
// of the coupling graph (spec.md §3).
type CouplingEdge struct {
	Source ModulePath `json:"source" yaml:"source"`
	Target ModulePath `json:"target" yaml:"target"`

	Strength   Strength   `json:"strength" yaml:"strength"`
	Distance   Distance   `json:"distance" yaml:"distance"`
	Volatility Volatility `json:"volatility" yaml:"volatility"`
	Visibility Visibility `json:"visibility,omitempty" yaml:"visibility,omitempty"`

	Count    int                     `json:"count" yaml:"count"`
	Contexts map[UsageContext]bool   `json:"-" yaml:"-"`
	Location *SourceLocation         `json:"location,omitempty" yaml:"location,omitempty"`

	InCycle  bool `json:"in_cycle" yaml:"in_cycle"`
	External bool `json:"external" yaml:"external"`
}

// ContextList returns the edge's usage-context set as a slice ordered by
// the fixed usageContextOrder, for stable export.
func (e *CouplingEdge) ContextList() []UsageContext {
	out := make([]UsageContext, 0, len(e.Contexts))
	for _, c := range usageContextOrder {
		if e.Contexts[c] {
			out = append(out, c)
		}
	}
	return out
}

// usageContextOrder fixes a deterministic iteration order over the closed
// UsageContext enumeration (spec.md §3), independent of map order.
var usageContextOrder = []UsageContext{
	ContextFieldAccess,
	ContextStructConstruction,
	ContextInherentImplBlock,
	ContextMethodCall,
	ContextFunctionCall,
	ContextFunctionParameter,
	ContextReturnType,
	ContextTypeParameter,
	ContextImport,
	ContextTraitBound,
}

// HasContext reports whether ctx was observed on this edge.
func (e *CouplingEdge) HasContext(ctx UsageContext) bool {
	return e.Contexts != nil && e.Contexts[ctx]
}

// HasAnyContextAtLeast reports whether any context on the edge maps to a
// strength at or above min.
func (e *CouplingEdge) HasAnyContextAtLeast(min Strength) bool {
	for ctx := range e.Contexts {
		if ctx.Strength().AtLeast(min) {
			return true
		}
	}
	return false
}

// intrusiveContexts are the UsageContexts mapped to StrengthIntrusive
// (spec.md §3), factored out so issue rules that test "context set
// contains Intrusive" (spec.md §4.5) share one definition.
var intrusiveContexts = map[UsageContext]bool{
	ContextFieldAccess:        true,
	ContextStructConstruction: true,
	ContextInherentImplBlock:  true,
}

// HasIntrusiveContext reports whether the edge's context set contains any
// context mapped to StrengthIntrusive.
func (e *CouplingEdge) HasIntrusiveContext() bool {
	for ctx := range e.Contexts {
		if intrusiveContexts[ctx] {
			return true
		}
	}
	return false
}

// ModuleMetrics bundles the per-module metric counters maintained by the
// graph builder (spec.md §3 "Per-module metric bundle").
type ModuleMetrics struct {
	FunctionCount       int            `json:"function_count" yaml:"function_count"`
	TypeCount           int            `json:"type_count" yaml:"type_count"`
	TraitImplCount      int            `json:"trait_impl_count" yaml:"trait_impl_count"`
	InherentImplCount   int            `json:"inherent_impl_count" yaml:"inherent_impl_count"`
	VisibilityHistogram map[Visibility]int `json:"visibility_histogram" yaml:"visibility_histogram"`
}

// ModuleNode is the C7 projection of one graph node (spec.md §4.7 "Each node
// carries its metrics bundle and list of items").
type ModuleNode struct {
	Path    ModulePath    `json:"path" yaml:"path"`
	Metrics ModuleMetrics `json:"metrics" yaml:"metrics"`
	Items   []Item        `json:"items" yaml:"items"`

	CouplingsIn  int  `json:"couplings_in" yaml:"couplings_in"`
	CouplingsOut int  `json:"couplings_out" yaml:"couplings_out"`
	InCycle      bool `json:"in_cycle" yaml:"in_cycle"`
	Volatility   Volatility `json:"volatility" yaml:"volatility"`
	Health       ModuleHealth `json:"health" yaml:"health"`
}
