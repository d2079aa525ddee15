package analyzer

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ravelscan/ravel/domain"
)

// VolatilityOracle implements C4 (spec.md §4.4) via go-git rather than
// shelling out to `git log`: open the repository, walk HEAD's log, stream
// commit.Stats() per commit.
type VolatilityOracle struct {
	repo      *git.Repository
	available bool

	since time.Time

	overrideHigh []string
	overrideLow  []string

	fileModules map[string]domain.ModulePath
	root        string
}

// NewVolatilityOracle opens root as a git repository. Any failure (no
// .git, corrupt repo) or an explicit no_git config degrades to an oracle
// that classifies everything Unknown.
func NewVolatilityOracle(root string, cfg *domain.Config, fileModules map[string]domain.ModulePath) *VolatilityOracle {
	o := &VolatilityOracle{
		fileModules: fileModules,
		root:        root,
	}
	if cfg != nil {
		o.overrideHigh = cfg.Volatility.High
		o.overrideLow = cfg.Volatility.Low
	}

	months := domain.DefaultGitMonths
	if cfg != nil && cfg.Analysis.GitMonths > 0 {
		months = cfg.Analysis.GitMonths
	}
	o.since = monthsAgo(months)

	if cfg != nil && cfg.Analysis.NoGit {
		return o
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return o
	}
	o.repo = repo
	o.available = true
	return o
}

func monthsAgo(n int) time.Time {
	return time.Now().AddDate(0, -n, 0)
}

// Volatility implements domain.VolatilityOracle's single-module convenience
// method by delegating to Classify over the full known module set.
func (o *VolatilityOracle) Volatility(ctx context.Context, module domain.ModulePath) domain.Volatility {
	modules := make([]domain.ModulePath, 0, len(o.fileModules))
	seen := map[domain.ModulePath]bool{}
	for _, m := range o.fileModules {
		if !seen[m] {
			seen[m] = true
			modules = append(modules, m)
		}
	}
	classes, err := o.Classify(ctx, modules)
	if err != nil {
		return domain.VolatilityUnknown
	}
	return classes[module]
}

// Classify implements domain.VolatilityOracle.Classify (spec.md §4.4):
// mine commit counts per module, derive p50/p75, classify, then apply
// glob overrides.
func (o *VolatilityOracle) Classify(ctx context.Context, modules []domain.ModulePath) (map[domain.ModulePath]domain.Volatility, error) {
	result := make(map[domain.ModulePath]domain.Volatility, len(modules))
	if !o.available {
		for _, m := range modules {
			result[m] = domain.VolatilityUnknown
		}
		return result, nil
	}

	counts, err := o.mine(ctx)
	if err != nil {
		for _, m := range modules {
			result[m] = domain.VolatilityUnknown
		}
		return result, nil
	}

	values := make([]int, 0, len(counts))
	for _, c := range counts {
		values = append(values, c)
	}
	p50 := percentile(values, 0.50)
	p75 := percentile(values, 0.75)

	for _, m := range modules {
		c := counts[m]
		class := classifyVolatility(c, p50, p75)
		result[m] = o.applyOverride(m, class)
	}
	return result, nil
}

// mine walks HEAD's commit log since o.since, streaming each commit's
// changed-file stats and attributing distinct touching commits per module.
// Never materializes the full log into memory at once: commits and their
// stats are processed one at a time via the iterator callback.
func (o *VolatilityOracle) mine(ctx context.Context) (map[domain.ModulePath]int, error) {
	head, err := o.repo.Head()
	if err != nil {
		return nil, err
	}

	iter, err := o.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Since: &o.since,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	counts := make(map[domain.ModulePath]int)
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats, err := c.Stats()
		if err != nil {
			return nil
		}
		touched := make(map[domain.ModulePath]bool)
		for _, stat := range stats {
			if filepath.Ext(stat.Name) != ".rs" {
				continue
			}
			if m, ok := o.fileModules[stat.Name]; ok {
				touched[m] = true
				continue
			}
			abs := filepath.Join(o.root, stat.Name)
			if m, ok := o.fileModules[abs]; ok {
				touched[m] = true
			}
		}
		for m := range touched {
			counts[m]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// classifyVolatility implements p50/p75 percentile thresholding.
func classifyVolatility(commits int, p50, p75 float64) domain.Volatility {
	switch {
	case float64(commits) >= p75 && commits >= domain.DefaultHighVolatilityMinCommits:
		return domain.VolatilityHigh
	case float64(commits) >= p50:
		return domain.VolatilityMedium
	default:
		return domain.VolatilityLow
	}
}

// percentile computes the p-th percentile (p in [0,1]) over values by
// linear interpolation between the two nearest ranks. Empty input yields 0.
func percentile(values []int, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := idx - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}

// applyOverride matches m's path against the configured high/low glob
// lists; overrides take precedence over the computed class (spec.md §4.4),
// high checked before low when both would match.
func (o *VolatilityOracle) applyOverride(m domain.ModulePath, computed domain.Volatility) domain.Volatility {
	path := string(m)
	for _, g := range o.overrideHigh {
		if ok, _ := doublestar.Match(g, path); ok {
			return domain.VolatilityHigh
		}
	}
	for _, g := range o.overrideLow {
		if ok, _ := doublestar.Match(g, path); ok {
			return domain.VolatilityLow
		}
	}
	return computed
}

// MergeVolatility pushes computed per-module volatility onto graph nodes
// and propagates it onto every edge as the target module's classification
// (spec.md §4.4: volatility is a property of the target module, carried on
// the edge for the balance engine).
func MergeVolatility(graph *CouplingGraph, volMap map[domain.ModulePath]domain.Volatility) {
	for name, node := range graph.nodes {
		if v, ok := volMap[name]; ok {
			node.Volatility = v
		}
	}
	for _, edge := range graph.edgeList {
		if v, ok := volMap[edge.Target]; ok {
			edge.Volatility = v
		}
	}
}
