package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ravelscan/ravel/domain"
)

// CouplingGraph is C3 (spec.md §4.3): a directed multigraph over modules,
// built by folding per-file domain.Extraction records into aggregated
// domain.CouplingEdge values carrying the strength/distance/volatility
// triple instead of a single import arrow.
type CouplingGraph struct {
	// projectRoots is the set of declared crate roots (spec.md §4.1); it
	// does not affect Distance (see distance's doc comment) but does
	// distinguish a cross-crate edge into another declared workspace crate
	// from one into a truly external dependency (CouplingEdge.External).
	projectRoots map[string]bool

	nodes map[domain.ModulePath]*domain.ModuleNode
	order []domain.ModulePath

	edges    map[domain.ModulePath]map[domain.ModulePath]*domain.CouplingEdge
	edgeList []*domain.CouplingEdge

	// itemVisibility supports propagating a usage target's visibility onto
	// the edge "when known" (spec.md §3 "Visibility: propagated from the
	// target item when known").
	itemVisibility map[domain.ModulePath]map[string]domain.Visibility

	cycles [][]domain.ModulePath
}

// NewCouplingGraph creates an empty graph scoped to the given project
// (crate) roots.
func NewCouplingGraph(roots []string) *CouplingGraph {
	rootSet := make(map[string]bool, len(roots))
	for _, r := range roots {
		rootSet[r] = true
	}
	return &CouplingGraph{
		projectRoots:   rootSet,
		nodes:          make(map[domain.ModulePath]*domain.ModuleNode),
		edges:          make(map[domain.ModulePath]map[domain.ModulePath]*domain.CouplingEdge),
		itemVisibility: make(map[domain.ModulePath]map[string]domain.Visibility),
	}
}

// AddModule registers m as a node, creating it if absent (spec.md §4.3
// step 1). Idempotent; the returned node may be mutated by the caller
// (registerItem, foldUsage) while the graph is being built.
func (g *CouplingGraph) AddModule(m domain.ModulePath) *domain.ModuleNode {
	if node, ok := g.nodes[m]; ok {
		return node
	}
	node := &domain.ModuleNode{
		Path: m,
		Metrics: domain.ModuleMetrics{
			VisibilityHistogram: make(map[domain.Visibility]int),
		},
		Volatility: domain.VolatilityUnknown,
	}
	g.nodes[m] = node
	g.order = append(g.order, m)
	return node
}

// GraphBuilder implements domain.GraphBuilder (C3).
type GraphBuilder struct{}

// NewGraphBuilder creates a coupling graph builder.
func NewGraphBuilder() *GraphBuilder { return &GraphBuilder{} }

// Build implements domain.GraphBuilder: register every item's module
// (pass 1), then fold every usage into an aggregated edge (pass 2),
// compute degrees, validate I1, and detect cycles (spec.md §4.3).
func (b *GraphBuilder) Build(extractions []*domain.Extraction, roots []string) (domain.CouplingGraphView, error) {
	g := NewCouplingGraph(roots)

	for _, ex := range extractions {
		if ex == nil {
			continue
		}
		g.AddModule(ex.Module)
		for _, item := range ex.Items {
			g.registerItem(item)
		}
	}

	for _, ex := range extractions {
		if ex == nil {
			continue
		}
		for _, u := range ex.Usages {
			g.foldUsage(u)
		}
	}

	g.computeDegrees()
	if err := g.validate(); err != nil {
		return nil, err
	}
	g.detectCycles()

	return g, nil
}

// registerItem folds one defined item into its module's node: the item
// list (for C7 drill-down) and the per-module metric bundle (spec.md §3).
func (g *CouplingGraph) registerItem(item domain.Item) {
	node := g.AddModule(item.Module)
	node.Items = append(node.Items, item)
	node.Metrics.VisibilityHistogram[item.Visibility]++

	switch item.Kind {
	case domain.ItemFunction:
		node.Metrics.FunctionCount++
	case domain.ItemType:
		node.Metrics.TypeCount++
	case domain.ItemImpl:
		if item.TraitImpl {
			node.Metrics.TraitImplCount++
		} else {
			node.Metrics.InherentImplCount++
		}
	}

	if item.Kind != domain.ItemImport {
		byName := g.itemVisibility[item.Module]
		if byName == nil {
			byName = make(map[string]domain.Visibility)
			g.itemVisibility[item.Module] = byName
		}
		byName[item.Name] = item.Visibility
	}
}

// foldUsage implements spec.md §4.3 step 2: resolve the target module,
// look up or create the edge, and fold the usage's dimensions into it.
func (g *CouplingGraph) foldUsage(u domain.Usage) {
	resolvedPath := resolveRelativePath(u.TargetPath, u.SourceModule)
	targetModule := g.resolveModule(resolvedPath)

	g.AddModule(u.SourceModule)
	g.AddModule(targetModule)

	edge := g.edgeFor(u.SourceModule, targetModule)
	edge.Contexts[u.Context] = true
	edge.Strength = domain.MaxStrength(edge.Strength, u.Context.Strength())
	edge.Distance = g.distance(u.SourceModule, targetModule)
	if edge.Distance == domain.DistanceDifferentCrate {
		edge.External = !g.projectRoots[targetModule.Crate()]
	}
	edge.Count++
	if edge.Location == nil {
		edge.Location = u.Location
	}
	if edge.Visibility == "" {
		if vis, ok := g.lookupVisibility(resolvedPath, targetModule); ok {
			edge.Visibility = vis
		}
	}
}

// lookupVisibility resolves a usage target's visibility from the items
// registered in its resolved target module, matching on the textual
// path's last segment (spec.md §3 "Visibility: propagated from the target
// item when known").
func (g *CouplingGraph) lookupVisibility(targetPath string, targetModule domain.ModulePath) (domain.Visibility, bool) {
	name := targetPath
	if idx := strings.LastIndex(name, domain.ModuleDelimiter); idx >= 0 {
		name = name[idx+len(domain.ModuleDelimiter):]
	}
	byName, ok := g.itemVisibility[targetModule]
	if !ok {
		return "", false
	}
	vis, ok := byName[name]
	return vis, ok
}

// edgeFor looks up or creates the (src, tgt) edge.
func (g *CouplingGraph) edgeFor(src, tgt domain.ModulePath) *domain.CouplingEdge {
	row, ok := g.edges[src]
	if !ok {
		row = make(map[domain.ModulePath]*domain.CouplingEdge)
		g.edges[src] = row
	}
	edge, ok := row[tgt]
	if !ok {
		edge = &domain.CouplingEdge{
			Source:     src,
			Target:     tgt,
			Strength:   domain.StrengthContract,
			Volatility: domain.VolatilityUnknown,
			Contexts:   make(map[domain.UsageContext]bool),
		}
		row[tgt] = edge
		g.edgeList = append(g.edgeList, edge)
	}
	return edge
}

// resolveRelativePath resolves self::/super::/crate:: prefixes relative to
// src before module lookup (spec.md §4.3 "Tie-breaks / edge cases").
func resolveRelativePath(targetPath string, src domain.ModulePath) string {
	switch {
	case targetPath == "crate":
		return src.Crate()
	case strings.HasPrefix(targetPath, "crate::"):
		rest := strings.TrimPrefix(targetPath, "crate::")
		return joinCratePath(domain.ModulePath(src.Crate()), rest)
	case targetPath == "self":
		return string(src)
	case strings.HasPrefix(targetPath, "self::"):
		return joinCratePath(src, strings.TrimPrefix(targetPath, "self::"))
	case targetPath == "super":
		return string(parentOrSelf(src))
	case strings.HasPrefix(targetPath, "super::"):
		return joinCratePath(parentOrSelf(src), strings.TrimPrefix(targetPath, "super::"))
	default:
		return targetPath
	}
}

func parentOrSelf(m domain.ModulePath) domain.ModulePath {
	if p := m.Parent(); p != "" {
		return p
	}
	return m
}

func joinCratePath(base domain.ModulePath, rest string) string {
	if rest == "" {
		return string(base)
	}
	return string(base.Join(strings.Split(rest, domain.ModuleDelimiter)...))
}

// resolveModule implements "longest_prefix_matching_known_module, falling
// back to the first segment if none matches" (spec.md §4.3 step 2).
func (g *CouplingGraph) resolveModule(targetPath string) domain.ModulePath {
	segs := strings.Split(targetPath, domain.ModuleDelimiter)
	for n := len(segs); n >= 1; n-- {
		candidate := domain.ModulePath(strings.Join(segs[:n], domain.ModuleDelimiter))
		if _, ok := g.nodes[candidate]; ok {
			return candidate
		}
	}
	return domain.ModulePath(segs[0])
}

// distance is a pure function of the two module paths (spec.md I3): a
// crate mismatch is always DifferentCrate — whether the mismatched crate
// is a declared project root (multi-crate workspace) or truly external,
// spec.md's scenario 2 treats both the same way. Within one crate, an
// exact module match is SameModule, anything else DifferentModule.
func (g *CouplingGraph) distance(src, tgt domain.ModulePath) domain.Distance {
	if src.Crate() != tgt.Crate() {
		return domain.DistanceDifferentCrate
	}
	if src == tgt {
		return domain.DistanceSameModule
	}
	return domain.DistanceDifferentModule
}

// computeDegrees sets couplings_in/out by edge count (spec.md §8:
// couplings_in(m) = |{e : tgt(e) = m}|, couplings_out(m) = |{e : src(e) = m}|).
func (g *CouplingGraph) computeDegrees() {
	for _, node := range g.nodes {
		node.CouplingsIn = 0
		node.CouplingsOut = 0
	}
	for src, row := range g.edges {
		g.nodes[src].CouplingsOut += len(row)
		for tgt := range row {
			g.nodes[tgt].CouplingsIn++
		}
	}
}

// validate enforces I1: every edge's endpoints are nodes of the graph.
func (g *CouplingGraph) validate() error {
	for src, row := range g.edges {
		if _, ok := g.nodes[src]; !ok {
			return domain.NewInvariantError("I1: edge source not a graph node: "+string(src), nil)
		}
		for tgt := range row {
			if _, ok := g.nodes[tgt]; !ok {
				return domain.NewInvariantError("I1: edge target not a graph node: "+string(tgt), nil)
			}
		}
	}
	return nil
}

// ModuleNames implements domain.CouplingGraphView, sorted for determinism
// (spec.md §5: "iteration over modules/edges is ordered by module-path
// lexicographic key before any externally visible output").
func (g *CouplingGraph) ModuleNames() []string {
	names := make([]string, 0, len(g.nodes))
	for m := range g.nodes {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// Nodes implements domain.CouplingGraphView.
func (g *CouplingGraph) Nodes() map[domain.ModulePath]*domain.ModuleNode {
	return g.nodes
}

// Edges implements domain.CouplingGraphView, sorted by (source, target).
func (g *CouplingGraph) Edges() []*domain.CouplingEdge {
	out := append([]*domain.CouplingEdge(nil), g.edgeList...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// EdgesFrom implements domain.CouplingGraphView.
func (g *CouplingGraph) EdgesFrom(m domain.ModulePath) []*domain.CouplingEdge {
	row := g.edges[m]
	out := make([]*domain.CouplingEdge, 0, len(row))
	for _, e := range row {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}

// EdgesTo implements domain.CouplingGraphView.
func (g *CouplingGraph) EdgesTo(m domain.ModulePath) []*domain.CouplingEdge {
	var out []*domain.CouplingEdge
	for _, row := range g.edges {
		if e, ok := row[m]; ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Cycles implements domain.CouplingGraphView.
func (g *CouplingGraph) Cycles() [][]domain.ModulePath { return g.cycles }

// GetModuleNames is an alias for ModuleNames kept for callers that expect
// the getter-prefixed name.
func (g *CouplingGraph) GetModuleNames() []string { return g.ModuleNames() }

// GetRootModules returns modules with no outgoing couplings.
func (g *CouplingGraph) GetRootModules() []string {
	var roots []string
	for name, node := range g.nodes {
		if node.CouplingsOut == 0 {
			roots = append(roots, string(name))
		}
	}
	sort.Strings(roots)
	return roots
}

// Validate re-runs the I1 consistency check, exposed for callers that want
// to assert graph health outside of Build.
func (g *CouplingGraph) Validate() error { return g.validate() }

// String renders a short debug summary.
func (g *CouplingGraph) String() string {
	return fmt.Sprintf("CouplingGraph{modules=%d, edges=%d, cycles=%d}",
		len(g.nodes), len(g.edgeList), len(g.cycles))
}

// Clone returns a deep copy of the graph, safe to mutate independently
// (e.g. for what-if volatility overrides in a report renderer).
func (g *CouplingGraph) Clone() *CouplingGraph {
	clone := NewCouplingGraph(nil)
	clone.projectRoots = g.projectRoots

	for _, name := range g.order {
		node := g.nodes[name]
		cp := *node
		cp.Metrics.VisibilityHistogram = make(map[domain.Visibility]int, len(node.Metrics.VisibilityHistogram))
		for k, v := range node.Metrics.VisibilityHistogram {
			cp.Metrics.VisibilityHistogram[k] = v
		}
		cp.Items = append([]domain.Item(nil), node.Items...)
		clone.nodes[name] = &cp
		clone.order = append(clone.order, name)
	}

	for src, row := range g.edges {
		cloneRow := make(map[domain.ModulePath]*domain.CouplingEdge, len(row))
		for tgt, edge := range row {
			cp := *edge
			cp.Contexts = make(map[domain.UsageContext]bool, len(edge.Contexts))
			for k, v := range edge.Contexts {
				cp.Contexts[k] = v
			}
			cloneRow[tgt] = &cp
			clone.edgeList = append(clone.edgeList, &cp)
		}
		clone.edges[src] = cloneRow
	}

	clone.cycles = append([][]domain.ModulePath(nil), g.cycles...)
	return clone
}
