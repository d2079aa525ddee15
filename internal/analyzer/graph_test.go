package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravelscan/ravel/domain"
)

func sameModuleUsage(src domain.ModulePath, target string, ctx domain.UsageContext) domain.Usage {
	return domain.Usage{SourceModule: src, TargetPath: target, Context: ctx}
}

func TestGraphBuilder_SameModuleCall(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::widget",
			Items: []domain.Item{
				{Name: "Widget", Module: "app::widget", Kind: domain.ItemType, Visibility: domain.VisibilityPublic},
			},
			Usages: []domain.Usage{
				sameModuleUsage("app::widget", "self::Widget", domain.ContextFunctionCall),
			},
		},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	edges := view.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, domain.ModulePath("app::widget"), edges[0].Source)
	assert.Equal(t, domain.ModulePath("app::widget"), edges[0].Target)
	assert.Equal(t, domain.DistanceSameModule, edges[0].Distance)
	assert.Equal(t, domain.StrengthFunctional, edges[0].Strength)
}

func TestGraphBuilder_CrossCrateUsage(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::widget",
			Usages: []domain.Usage{
				sameModuleUsage("app::widget", "serde::Serialize", domain.ContextTraitBound),
			},
		},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	edges := view.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, domain.DistanceDifferentCrate, edges[0].Distance)
	assert.True(t, edges[0].External, "serde is not a declared workspace root")
}

func TestGraphBuilder_CrossCrateUsageIntoDeclaredWorkspaceRootIsNotExternal(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::widget",
			Usages: []domain.Usage{
				sameModuleUsage("app::widget", "tools::Formatter", domain.ContextTraitBound),
			},
		},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app", "tools"})
	require.NoError(t, err)

	edges := view.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, domain.DistanceDifferentCrate, edges[0].Distance)
	assert.False(t, edges[0].External, "tools is a declared workspace root, not an external dependency")
}

func TestGraphBuilder_DegreesMatchEdgeCounts(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextFunctionCall),
				sameModuleUsage("app::a", "app::c::Thing", domain.ContextFunctionCall),
			},
		},
		{
			Module: "app::b",
			Usages: []domain.Usage{
				sameModuleUsage("app::b", "app::c::Thing", domain.ContextMethodCall),
			},
		},
		{Module: "app::c"},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	nodes := view.Nodes()
	assert.Equal(t, 2, nodes["app::a"].CouplingsOut)
	assert.Equal(t, 0, nodes["app::a"].CouplingsIn)
	assert.Equal(t, 2, nodes["app::c"].CouplingsIn)
}

func TestGraphBuilder_StrengthIsMaxAcrossFoldedUsages(t *testing.T) {
	extractions := []*domain.Extraction{
		{
			Module: "app::a",
			Usages: []domain.Usage{
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextTraitBound),
				sameModuleUsage("app::a", "app::b::Thing", domain.ContextFieldAccess),
			},
		},
	}

	view, err := NewGraphBuilder().Build(extractions, []string{"app"})
	require.NoError(t, err)

	edges := view.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, domain.StrengthIntrusive, edges[0].Strength)
	assert.Equal(t, 2, edges[0].Count)
	assert.True(t, edges[0].HasIntrusiveContext())
}

func TestResolveRelativePath(t *testing.T) {
	src := domain.ModulePath("app::sub::leaf")

	assert.Equal(t, "app", resolveRelativePath("crate", src))
	assert.Equal(t, "app::other", resolveRelativePath("crate::other", src))
	assert.Equal(t, "app::sub::leaf::Thing", resolveRelativePath("self::Thing", src))
	assert.Equal(t, "app::sub::Thing", resolveRelativePath("super::Thing", src))
	assert.Equal(t, "external::Thing", resolveRelativePath("external::Thing", src))
}
