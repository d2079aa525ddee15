package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func TestDetectCycles_TwoModuleCycle(t *testing.T) {
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

	cycles := view.Cycles()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []domain.ModulePath{"app::a", "app::b"}, cycles[0])

	nodes := view.Nodes()
	assert.True(t, nodes["app::a"].InCycle)
	assert.True(t, nodes["app::b"].InCycle)

	for _, e := range view.Edges() {
		assert.True(t, e.InCycle, "edge %s->%s should be flagged in_cycle", e.Source, e.Target)
	}
}

func TestDetectCycles_AcyclicGraphHasNoCycles(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextFunctionCall),
			},
		},
		{Module: "app::b"},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	assert.Empty(t, view.Cycles())
	for _, n := range view.Nodes() {
		assert.False(t, n.InCycle)
	}
	for _, e := range view.Edges() {
		assert.False(t, e.InCycle)
	}
}

func TestDetectCycles_SelfLoopCountsAsCycle(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "self::Thing", domain.ContextFunctionCall),
			},
		},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	cycles := view.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []domain.ModulePath{"app::a"}, cycles[0])
}
