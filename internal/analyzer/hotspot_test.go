package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func TestHotspotRanker_CyclicModuleRanksAboveIsolated(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextFieldAccess),
			},
		},
		{
			Module: "app::b",
			Usages: []domain.Usage{
				sameModuleUsage("app::b", "app::a::Thing", domain.ContextFieldAccess),
			},
		},
		{Module: "app::isolated"},
	}
	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	engine := NewBalanceEngine(domain.DefaultConfig())
	eval, err := engine.Evaluate(view, domain.DefaultConfig())
	require.NoError(t, err)

	hotspots := NewHotspotRanker().Rank(view, eval)
	require.NotEmpty(t, hotspots)

	scoreOf := func(m domain.ModulePath) float64 {
		for _, h := range hotspots {
			if h.Module == m {
				return h.Score
			}
		}
		t.Fatalf("module %s not found in hotspots", m)
		return 0
	}
	assert.Greater(t, scoreOf("app::a"), scoreOf("app::isolated"))
}

func TestIssueModules_CircularDependencyCountsEachMemberOnce(t *testing.T) {
	// balance.go emits one CircularDependency issue per cycle member, each
	// carrying the full cycle. issueModules must anchor each such issue via
	// Module alone so a 3-member cycle doesn't inflate Score three times
	// over what a 2-member cycle would.
	cycle := []domain.ModulePath{"app::a", "app::b", "app::c"}
	issue := domain.Issue{Type: domain.IssueCircularDependency, Module: "app::a", Cycle: cycle}

	out := issueModules(issue)
	assert.Equal(t, map[domain.ModulePath]bool{"app::a": true}, out)
}

func TestHotspotRanker_OrderedDescendingWithLexicographicTieBreak(t *testing.T) {
	extractions := []*domain.Extraction{
		{Module: "app::a"},
		{Module: "app::z"},
	}
	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	engine := NewBalanceEngine(domain.DefaultConfig())
	eval, err := engine.Evaluate(view, domain.DefaultConfig())
	require.NoError(t, err)

	hotspots := NewHotspotRanker().Rank(view, eval)
	require.Len(t, hotspots, 2)
	assert.Equal(t, domain.ModulePath("app::a"), hotspots[0].Module)
	assert.Equal(t, domain.ModulePath("app::z"), hotspots[1].Module)
}
