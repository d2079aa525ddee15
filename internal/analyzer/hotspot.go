package analyzer

import (
	"sort"

	"github.com/ravelscan/ravel/domain"
)

// HotspotRanker implements C6 (spec.md §4.6):
// Score(m) = 30·issues(m) + 5·couplings(m) + 50·[critical] + 20·[needs_review] + 40·[in_cycle].
type HotspotRanker struct{}

// NewHotspotRanker builds a hotspot ranker.
func NewHotspotRanker() *HotspotRanker { return &HotspotRanker{} }

// Rank implements domain.HotspotRanker.
func (r *HotspotRanker) Rank(graph domain.CouplingGraphView, eval *domain.BalanceEvaluation) []domain.Hotspot {
	issueCounts := make(map[domain.ModulePath]int)
	for _, issue := range eval.Issues {
		for m := range issueModules(issue) {
			issueCounts[m]++
		}
	}

	nodes := graph.Nodes()
	hotspots := make([]domain.Hotspot, 0, len(nodes))
	for name, node := range nodes {
		health := eval.Health[name]
		score := 30*float64(issueCounts[name]) +
			5*float64(node.CouplingsIn+node.CouplingsOut) +
			boolScore(health.Status == domain.HealthCritical, 50) +
			boolScore(health.Status == domain.HealthNeedsReview, 20) +
			boolScore(node.InCycle, 40)

		hotspots = append(hotspots, domain.Hotspot{Module: name, Score: score})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Score != hotspots[j].Score {
			return hotspots[i].Score > hotspots[j].Score
		}
		return hotspots[i].Module < hotspots[j].Module
	})
	return hotspots
}

// issueModules collects every module an issue touches: its own Module
// anchor and the edge endpoints. CircularDependency issues are emitted one
// per cycle member (balance.go), each already anchored via Module, so
// issue.Cycle is skipped for them — counting it too would multiply every
// member's issueCounts by the cycle's size instead of by 1.
func issueModules(issue domain.Issue) map[domain.ModulePath]bool {
	out := make(map[domain.ModulePath]bool, 2)
	if issue.Module != "" {
		out[issue.Module] = true
	}
	if issue.Source != "" {
		out[issue.Source] = true
	}
	if issue.Target != "" {
		out[issue.Target] = true
	}
	if issue.Type != domain.IssueCircularDependency {
		for _, m := range issue.Cycle {
			out[m] = true
		}
	}
	return out
}

func boolScore(cond bool, score float64) float64 {
	if cond {
		return score
	}
	return 0
}
