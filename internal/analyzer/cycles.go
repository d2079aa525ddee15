package analyzer

import (
	"sort"

	"github.com/ravelscan/ravel/domain"
)

// detectCycles runs Tarjan's strongly-connected-components algorithm over
// the coupling graph and flags every node/edge that participates in a
// nontrivial cycle (I5: a self-loop also counts as a cycle of size one).
func (g *CouplingGraph) detectCycles() {
	state := &sccState{
		indices:  make(map[domain.ModulePath]int),
		lowLinks: make(map[domain.ModulePath]int),
		inStack:  make(map[domain.ModulePath]bool),
	}

	for _, name := range g.order {
		if _, visited := state.indices[name]; !visited {
			g.strongConnect(name, state)
		}
	}

	compID := make(map[domain.ModulePath]int, len(g.nodes))
	for i, comp := range state.components {
		for _, m := range comp {
			compID[m] = i
		}
	}

	isCyclic := make(map[int]bool, len(state.components))
	for i, comp := range state.components {
		if len(comp) > 1 {
			isCyclic[i] = true
			continue
		}
		if len(comp) == 1 && g.hasSelfLoop(comp[0]) {
			isCyclic[i] = true
		}
	}

	var cycles [][]domain.ModulePath
	for i, comp := range state.components {
		if !isCyclic[i] {
			continue
		}
		sorted := append([]domain.ModulePath(nil), comp...)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		cycles = append(cycles, sorted)
		for _, m := range sorted {
			g.nodes[m].InCycle = true
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	g.cycles = cycles

	for _, edge := range g.edgeList {
		srcComp, srcOK := compID[edge.Source]
		tgtComp, tgtOK := compID[edge.Target]
		edge.InCycle = srcOK && tgtOK && srcComp == tgtComp && isCyclic[srcComp]
	}
}

func (g *CouplingGraph) hasSelfLoop(m domain.ModulePath) bool {
	row, ok := g.edges[m]
	if !ok {
		return false
	}
	_, ok = row[m]
	return ok
}

// sccState holds Tarjan's algorithm bookkeeping across recursive calls.
type sccState struct {
	counter    int
	stack      []domain.ModulePath
	indices    map[domain.ModulePath]int
	lowLinks   map[domain.ModulePath]int
	inStack    map[domain.ModulePath]bool
	components [][]domain.ModulePath
}

func (g *CouplingGraph) strongConnect(v domain.ModulePath, state *sccState) {
	state.indices[v] = state.counter
	state.lowLinks[v] = state.counter
	state.counter++
	state.stack = append(state.stack, v)
	state.inStack[v] = true

	for tgt := range g.edges[v] {
		if _, visited := state.indices[tgt]; !visited {
			g.strongConnect(tgt, state)
			if state.lowLinks[tgt] < state.lowLinks[v] {
				state.lowLinks[v] = state.lowLinks[tgt]
			}
		} else if state.inStack[tgt] {
			if state.indices[tgt] < state.lowLinks[v] {
				state.lowLinks[v] = state.indices[tgt]
			}
		}
	}

	if state.lowLinks[v] != state.indices[v] {
		return
	}

	var comp []domain.ModulePath
	for {
		n := len(state.stack) - 1
		w := state.stack[n]
		state.stack = state.stack[:n]
		state.inStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	state.components = append(state.components, comp)
}
