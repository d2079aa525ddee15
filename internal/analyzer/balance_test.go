package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func edgeWith(src, tgt domain.ModulePath, s domain.Strength, d domain.Distance, v domain.Volatility, ctx ...domain.UsageContext) *domain.CouplingEdge {
	contexts := make(map[domain.UsageContext]bool, len(ctx))
	for _, c := range ctx {
		contexts[c] = true
	}
	return &domain.CouplingEdge{
		Source: src, Target: tgt,
		Strength: s, Distance: d, Volatility: v,
		Contexts: contexts,
	}
}

func TestComputeBalance_HighCohesionStrongClose(t *testing.T) {
	edge := edgeWith("app::a", "app::a", domain.StrengthIntrusive, domain.DistanceSameModule, domain.VolatilityLow)
	result := computeBalance(edge)
	assert.Equal(t, domain.ClassificationHighCohesion, result.Classification)
	assert.Equal(t, xor(edge.Strength.Value(), edge.Distance.Value()), result.Modularity)
}

func TestComputeBalance_GlobalComplexityStrongFar(t *testing.T) {
	edge := edgeWith("app::a", "app::b", domain.StrengthIntrusive, domain.DistanceDifferentModule, domain.VolatilityLow)
	result := computeBalance(edge)
	assert.Equal(t, domain.ClassificationGlobalComplexity, result.Classification)
}

func TestEdgeIssues_CascadingChangeRisk(t *testing.T) {
	edge := edgeWith("app::a", "app::b", domain.StrengthFunctional, domain.DistanceDifferentModule, domain.VolatilityHigh, domain.ContextFunctionCall)
	issues := edgeIssues(edge)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueCascadingChangeRisk, issues[0].Type)
	assert.Equal(t, domain.SeverityCritical, issues[0].Severity)
}

func TestEdgeIssues_InappropriateIntimacy(t *testing.T) {
	edge := edgeWith("app::a", "other::b", domain.StrengthIntrusive, domain.DistanceDifferentCrate, domain.VolatilityLow, domain.ContextFieldAccess)
	issues := edgeIssues(edge)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueInappropriateIntimacy, issues[0].Type)
}

func TestEdgeIssues_UnnecessaryAbstraction(t *testing.T) {
	edge := edgeWith("app::a", "app::a", domain.StrengthContract, domain.DistanceSameModule, domain.VolatilityLow, domain.ContextTraitBound)
	issues := edgeIssues(edge)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueUnnecessaryAbstraction, issues[0].Type)
}

func TestEdgeIssues_NoneForPlainFunctionalLocalEdge(t *testing.T) {
	edge := edgeWith("app::a", "app::a", domain.StrengthFunctional, domain.DistanceSameModule, domain.VolatilityLow, domain.ContextFunctionCall)
	assert.Empty(t, edgeIssues(edge))
}

func TestBalanceEngine_DifferentCrateEdgeExcludedFromScore(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "serde::Serialize", domain.ContextFieldAccess),
			},
		},
	}
	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	engine := NewBalanceEngine(domain.DefaultConfig())
	eval, err := engine.Evaluate(view, domain.DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, eval.Issues)
	assert.Zero(t, eval.HealthScore)
}

func TestBalanceEngine_CircularDependencyIssuePerMember(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextFunctionCall),
			},
		},
		{
			Module: "app::b",
			Usages: []domain.Usage{
				sameModuleUsage("app::b", "app::a::Thing", domain.ContextFunctionCall),
			},
		},
	}
	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	engine := NewBalanceEngine(domain.DefaultConfig())
	eval, err := engine.Evaluate(view, domain.DefaultConfig())
	require.NoError(t, err)

	var cycleIssues int
	for _, issue := range eval.Issues {
		if issue.Type == domain.IssueCircularDependency {
			cycleIssues++
		}
	}
	assert.Equal(t, 2, cycleIssues)
	assert.Equal(t, domain.HealthNeedsReview, eval.Health["app::a"].Status)
}

// staticGraphView hands the engine a fixed node/edge set without running
// the builder, so a single edge's dimensions can be pinned exactly.
type staticGraphView struct {
	nodes map[domain.ModulePath]*domain.ModuleNode
	edges []*domain.CouplingEdge
}

func (v *staticGraphView) ModuleNames() []string {
	names := make([]string, 0, len(v.nodes))
	for m := range v.nodes {
		names = append(names, string(m))
	}
	return names
}
func (v *staticGraphView) Nodes() map[domain.ModulePath]*domain.ModuleNode { return v.nodes }
func (v *staticGraphView) Edges() []*domain.CouplingEdge                   { return v.edges }
func (v *staticGraphView) EdgesFrom(domain.ModulePath) []*domain.CouplingEdge { return nil }
func (v *staticGraphView) EdgesTo(domain.ModulePath) []*domain.CouplingEdge   { return nil }
func (v *staticGraphView) Cycles() [][]domain.ModulePath                      { return nil }

func TestBalanceEngine_MediumOnlyIssueLeavesModuleHealthGood(t *testing.T) {
	edge := edgeWith("util::a", "util::a", domain.StrengthContract, domain.DistanceSameModule, domain.VolatilityLow, domain.ContextTraitBound)
	view := &staticGraphView{
		nodes: map[domain.ModulePath]*domain.ModuleNode{
			"util::a": {Path: "util::a"},
		},
		edges: []*domain.CouplingEdge{edge},
	}

	engine := NewBalanceEngine(domain.DefaultConfig())
	eval, err := engine.Evaluate(view, domain.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, eval.Issues, 1)
	assert.Equal(t, domain.IssueUnnecessaryAbstraction, eval.Issues[0].Type)
	assert.Equal(t, domain.SeverityMedium, eval.Issues[0].Severity)
	assert.Equal(t, domain.HealthGood, eval.Health["util::a"].Status,
		"a module touched only by a Medium issue stays good; needs_review requires a High issue")
}

func TestBalanceEngine_HighEfferentCoupling(t *testing.T) {
	var usages []domain.Usage
	for i := 0; i < 20; i++ {
		usages = append(usages, sameModuleUsage("app::hub", string(rune('a'+i))+"::Thing", domain.ContextFunctionCall))
	}
	extractions := []*domain.Extraction{{Module: "app::hub", Usages: usages}}
	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.Thresholds.MaxDependencies = 5
	engine := NewBalanceEngine(cfg)
	eval, err := engine.Evaluate(view, cfg)
	require.NoError(t, err)

	var found bool
	for _, issue := range eval.Issues {
		if issue.Type == domain.IssueHighEfferentCoupling && issue.Module == "app::hub" {
			found = true
		}
	}
	assert.True(t, found)
}
