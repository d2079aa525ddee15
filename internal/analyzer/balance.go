package analyzer

import (
	"sort"

	"github.com/ravelscan/ravel/domain"
)

// BalanceEngine implements C5 (spec.md §4.5): the probabilistic balance
// algebra, the four edge classification buckets, the edge- and module-level
// issue rules, module health derivation, and the project HealthScore.
type BalanceEngine struct {
	thresholds domain.ThresholdsConfig
	arch       *domain.ArchitectureConfigSpec
}

// NewBalanceEngine builds a balance engine from the resolved configuration.
func NewBalanceEngine(cfg *domain.Config) *BalanceEngine {
	e := &BalanceEngine{
		thresholds: domain.ThresholdsConfig{
			MaxDependencies: domain.DefaultMaxDependencies,
			MaxDependents:   domain.DefaultMaxDependents,
		},
	}
	if cfg != nil {
		if cfg.Thresholds.MaxDependencies > 0 {
			e.thresholds.MaxDependencies = cfg.Thresholds.MaxDependencies
		}
		if cfg.Thresholds.MaxDependents > 0 {
			e.thresholds.MaxDependents = cfg.Thresholds.MaxDependents
		}
		e.arch = cfg.Architecture
	}
	return e
}

// probabilistic boolean algebra (spec.md §4.5), standard [0,1] extension.
func and(a, b float64) float64 { return a * b }
func or(a, b float64) float64  { return a + b - a*b }
func not(a float64) float64    { return 1 - a }
func xor(a, b float64) float64 { return a + b - 2*a*b }

// computeBalance implements the edge-level algebra: Modularity = S XOR D,
// Balance = Modularity OR NOT V.
func computeBalance(edge *domain.CouplingEdge) domain.BalanceResult {
	s := edge.Strength.Value()
	d := edge.Distance.Value()
	v := edge.Volatility.Value()

	modularity := xor(s, d)
	balance := or(modularity, not(v))

	return domain.BalanceResult{
		Value:          balance,
		Modularity:     modularity,
		Classification: classify(edge.Strength, edge.Distance),
	}
}

// classify buckets an edge by its raw strength/distance, independent of
// volatility (spec.md §4.5 table).
func classify(s domain.Strength, d domain.Distance) domain.Classification {
	strong := s.Value() >= 0.5
	far := d.Value() >= 0.5
	switch {
	case strong && far:
		return domain.ClassificationGlobalComplexity
	case strong && !far:
		return domain.ClassificationHighCohesion
	case !strong && far:
		return domain.ClassificationLooseCoupling
	default:
		return domain.ClassificationLocalComplexity
	}
}

// Evaluate implements domain.BalanceEngine.
func (e *BalanceEngine) Evaluate(graph domain.CouplingGraphView, cfg *domain.Config) (*domain.BalanceEvaluation, error) {
	eval := &domain.BalanceEvaluation{
		EdgeBalance: make(map[domain.ModulePath]map[domain.ModulePath]domain.BalanceResult),
		Health:      make(map[domain.ModulePath]domain.ModuleHealth),
	}

	var internalEdges int
	var sumBalance float64
	var issues []domain.Issue

	nodes := graph.Nodes()
	touched := make(map[domain.ModulePath]domain.Severity)

	for _, edge := range graph.Edges() {
		result := computeBalance(edge)

		row, ok := eval.EdgeBalance[edge.Source]
		if !ok {
			row = make(map[domain.ModulePath]domain.BalanceResult)
			eval.EdgeBalance[edge.Source] = row
		}
		row[edge.Target] = result

		// I4: an edge into a different crate (DistanceDifferentCrate, whether
		// or not that crate is a declared workspace root) never raises an
		// issue and is excluded from the project score (spec.md §4.5
		// "internal edges").
		if edge.Distance == domain.DistanceDifferentCrate {
			continue
		}
		internalEdges++
		sumBalance += result.Value

		for _, issue := range edgeIssues(edge) {
			issues = append(issues, issue)
			markTouched(touched, issue.Source, issue.Severity)
			markTouched(touched, issue.Target, issue.Severity)
		}
	}

	for name, node := range nodes {
		if node.CouplingsOut > e.thresholds.MaxDependencies {
			issue := domain.Issue{
				Type:     domain.IssueHighEfferentCoupling,
				Severity: domain.SeverityHigh,
				Module:   name,
				Message:  "module has more outgoing couplings than the configured threshold",
			}
			issues = append(issues, issue)
			markTouched(touched, name, issue.Severity)
		}
		if node.CouplingsIn > e.thresholds.MaxDependents {
			issue := domain.Issue{
				Type:     domain.IssueHighAfferentCoupling,
				Severity: domain.SeverityHigh,
				Module:   name,
				Message:  "module has more incoming couplings than the configured threshold",
			}
			issues = append(issues, issue)
			markTouched(touched, name, issue.Severity)
		}
	}

	for _, cycle := range graph.Cycles() {
		for _, m := range cycle {
			issue := domain.Issue{
				Type:     domain.IssueCircularDependency,
				Severity: domain.SeverityHigh,
				Module:   m,
				Cycle:    cycle,
				Message:  "module participates in a circular dependency",
			}
			issues = append(issues, issue)
			markTouched(touched, m, issue.Severity)
		}
	}

	if e.arch != nil {
		for _, issue := range architectureIssues(graph, e.arch) {
			issues = append(issues, issue)
			markTouched(touched, issue.Source, issue.Severity)
		}
	}

	sort.SliceStable(issues, issueLess(issues))
	eval.Issues = issues

	// critical needs a Critical issue, needs_review a High one; anything
	// milder (Medium UnnecessaryAbstraction) leaves the module good
	// (spec.md §4.5 "Module health").
	for name, node := range nodes {
		status := domain.HealthGood
		switch touched[name] {
		case domain.SeverityCritical:
			status = domain.HealthCritical
		case domain.SeverityHigh:
			status = domain.HealthNeedsReview
		}
		health := domain.ModuleHealth{Status: status}
		eval.Health[name] = health
		node.Health = health
	}

	if internalEdges > 0 {
		eval.HealthScore = sumBalance / float64(internalEdges)
	}
	return eval, nil
}

// markTouched records the most severe issue touching a module, skipping
// the empty ModulePath used by edge issues with no module anchor.
func markTouched(touched map[domain.ModulePath]domain.Severity, m domain.ModulePath, sev domain.Severity) {
	if m == "" {
		return
	}
	if cur, ok := touched[m]; !ok || domain.LessSevere(cur, sev) {
		touched[m] = sev
	}
}

// edgeIssues implements the four edge-level rules in priority order
// (spec.md §4.5); an edge can raise more than one.
func edgeIssues(edge *domain.CouplingEdge) []domain.Issue {
	var out []domain.Issue

	if edge.HasIntrusiveContext() && edge.Distance == domain.DistanceDifferentModule {
		out = append(out, domain.Issue{
			Type:     domain.IssueGlobalComplexity,
			Severity: domain.SeverityCritical,
			Source:   edge.Source,
			Target:   edge.Target,
			Message:  "intrusive coupling crosses sub-packages",
		})
	}
	if edge.Strength.AtLeast(domain.StrengthFunctional) && edge.Volatility == domain.VolatilityHigh {
		out = append(out, domain.Issue{
			Type:     domain.IssueCascadingChangeRisk,
			Severity: domain.SeverityCritical,
			Source:   edge.Source,
			Target:   edge.Target,
			Message:  "functional-or-stronger coupling to a highly volatile module",
		})
	}
	if edge.HasIntrusiveContext() && edge.Distance.AtLeast(domain.DistanceDifferentModule) {
		out = append(out, domain.Issue{
			Type:     domain.IssueInappropriateIntimacy,
			Severity: domain.SeverityHigh,
			Source:   edge.Source,
			Target:   edge.Target,
			Message:  "intrusive coupling at or beyond module distance",
		})
	}
	if edge.Strength.AtMost(domain.StrengthContract) && edge.Distance.AtMost(domain.DistanceSameModule) && edge.Volatility.AtMost(domain.VolatilityLow) {
		out = append(out, domain.Issue{
			Type:     domain.IssueUnnecessaryAbstraction,
			Severity: domain.SeverityMedium,
			Source:   edge.Source,
			Target:   edge.Target,
			Message:  "contract-only coupling within a stable, close module",
		})
	}
	return out
}

// architectureIssues checks the supplementary layer-rule config (SPEC_FULL.md
// §9): for every edge whose source and target resolve to distinct layers,
// flag LayerViolation when the source layer's allow-list doesn't name the
// target layer.
func architectureIssues(graph domain.CouplingGraphView, arch *domain.ArchitectureConfigSpec) []domain.Issue {
	layerOf := func(m domain.ModulePath) string {
		for _, layer := range arch.Layers {
			for _, prefix := range layer.Modules {
				if m.HasPrefix(domain.ModulePath(prefix)) {
					return layer.Name
				}
			}
		}
		return ""
	}
	allowed := make(map[string]map[string]bool, len(arch.Rules))
	for _, rule := range arch.Rules {
		set := make(map[string]bool, len(rule.Allow))
		for _, a := range rule.Allow {
			set[a] = true
		}
		allowed[rule.From] = set
	}

	var out []domain.Issue
	for _, edge := range graph.Edges() {
		srcLayer := layerOf(edge.Source)
		tgtLayer := layerOf(edge.Target)
		if srcLayer == "" || tgtLayer == "" || srcLayer == tgtLayer {
			continue
		}
		allow, ok := allowed[srcLayer]
		if ok && allow[tgtLayer] {
			continue
		}
		out = append(out, domain.Issue{
			Type:     domain.IssueLayerViolation,
			Severity: domain.SeverityHigh,
			Source:   edge.Source,
			Target:   edge.Target,
			Message:  "layer " + srcLayer + " may not depend on layer " + tgtLayer,
		})
	}
	return out
}

// issueLess orders issues by severity descending, then lexicographically
// by type/module/source/target, for deterministic export.
func issueLess(issues []domain.Issue) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity != b.Severity {
			return domain.LessSevere(b.Severity, a.Severity)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	}
}
