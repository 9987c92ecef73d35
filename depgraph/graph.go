package depgraph

import (
	"slices"

	"github.com/erraggy/oasir/ir"
)

// Source lists named models. [*ir.Registry] implements it.
type Source interface {
	All() []*ir.Entry
}

// Graph is the reference graph over a set of named schemas.
type Graph struct {
	names      []string
	defined    map[string]bool
	edges      map[string][]string
	dependents map[string][]string
	missing    []string

	order    []string
	levels   [][]string
	cycles   [][]string
	circular map[string]bool
}

// Summary is the serializable view of a graph.
type Summary struct {
	Order    []string   `json:"order" yaml:"order"`
	Circular []string   `json:"circular" yaml:"circular"`
	Cycles   [][]string `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Missing  []string   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Build creates the graph of every model in sources. When two sources
// define the same name, the first definition wins.
func Build(sources ...Source) *Graph {
	var names []string
	models := make(map[string]ir.Model)
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, e := range src.All() {
			if _, ok := models[e.Name]; ok {
				continue
			}
			models[e.Name] = e.Model
			names = append(names, e.Name)
		}
	}
	return BuildFunc(names, func(name string) []string {
		return ir.References(models[name])
	})
}

// BuildFunc creates a graph over names, where deps returns the direct
// dependencies of a name. Duplicate names and duplicate dependencies are
// ignored.
func BuildFunc(names []string, deps func(name string) []string) *Graph {
	g := &Graph{
		defined:    make(map[string]bool, len(names)),
		edges:      make(map[string][]string, len(names)),
		dependents: make(map[string][]string),
		circular:   make(map[string]bool),
	}
	for _, name := range names {
		if g.defined[name] {
			continue
		}
		g.defined[name] = true
		g.names = append(g.names, name)
	}

	missing := make(map[string]bool)
	for _, name := range g.names {
		seen := make(map[string]bool)
		for _, dep := range deps(name) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.edges[name] = append(g.edges[name], dep)
			if !g.defined[dep] {
				if !missing[dep] {
					missing[dep] = true
					g.missing = append(g.missing, dep)
				}
				continue
			}
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}
	slices.Sort(g.missing)

	g.findCycles()
	g.computeOrder()
	return g
}

// findCycles runs Tarjan's strongly connected components algorithm. A
// component with more than one member, or a single member that references
// itself, is a cycle.
func (g *Graph) findCycles() {
	var (
		index   int
		stack   []string
		onStack = make(map[string]bool)
		indexOf = make(map[string]int)
		lowLink = make(map[string]int)
	)

	var connect func(v string)
	connect = func(v string) {
		indexOf[v] = index
		lowLink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if !g.defined[w] {
				continue
			}
			if _, visited := indexOf[w]; !visited {
				connect(w)
				lowLink[v] = min(lowLink[v], lowLink[w])
			} else if onStack[w] {
				lowLink[v] = min(lowLink[v], indexOf[w])
			}
		}

		if lowLink[v] != indexOf[v] {
			return
		}
		var component []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		if len(component) > 1 || slices.Contains(g.edges[v], v) {
			slices.Sort(component)
			g.cycles = append(g.cycles, component)
			for _, w := range component {
				g.circular[w] = true
			}
		}
	}

	sorted := slices.Clone(g.names)
	slices.Sort(sorted)
	for _, v := range sorted {
		if _, visited := indexOf[v]; !visited {
			connect(v)
		}
	}
	slices.SortFunc(g.cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
}

// computeOrder levels the non-circular names with a worklist: a name is
// ready once every ordered dependency has been placed on a lower level.
func (g *Graph) computeOrder() {
	pending := make(map[string]int)
	var level []string
	for _, name := range g.names {
		if g.circular[name] {
			continue
		}
		for _, dep := range g.edges[name] {
			if g.defined[dep] && !g.circular[dep] {
				pending[name]++
			}
		}
		if pending[name] == 0 {
			level = append(level, name)
		}
	}

	for len(level) > 0 {
		slices.Sort(level)
		g.levels = append(g.levels, level)
		g.order = append(g.order, level...)

		var next []string
		for _, name := range level {
			for _, d := range g.dependents[name] {
				if g.circular[d] {
					continue
				}
				pending[d]--
				if pending[d] == 0 {
					next = append(next, d)
				}
			}
		}
		level = next
	}
}

// Names returns every defined name in source order.
func (g *Graph) Names() []string {
	return slices.Clone(g.names)
}

// Len returns the number of defined names.
func (g *Graph) Len() int {
	return len(g.names)
}

// Has reports whether name is defined.
func (g *Graph) Has(name string) bool {
	return g.defined[name]
}

// Order returns the non-circular names, dependencies first.
func (g *Graph) Order() []string {
	return slices.Clone(g.order)
}

// Levels returns the order grouped by level.
func (g *Graph) Levels() [][]string {
	out := make([][]string, len(g.levels))
	for i, l := range g.levels {
		out[i] = slices.Clone(l)
	}
	return out
}

// Circular returns the names that take part in a reference cycle, sorted.
func (g *Graph) Circular() []string {
	out := make([]string, 0, len(g.circular))
	for name := range g.circular {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// IsCircular reports whether name takes part in a reference cycle.
func (g *Graph) IsCircular(name string) bool {
	return g.circular[name]
}

// Cycles returns each group of mutually referencing names.
func (g *Graph) Cycles() [][]string {
	out := make([][]string, len(g.cycles))
	for i, c := range g.cycles {
		out[i] = slices.Clone(c)
	}
	return out
}

// Missing returns the referenced names that no source defines, sorted.
func (g *Graph) Missing() []string {
	return slices.Clone(g.missing)
}

// Dependencies returns the direct dependencies of name in first-reference
// order, including undefined ones.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.edges[name])
}

// Dependents returns the defined names that directly reference name.
func (g *Graph) Dependents(name string) []string {
	return slices.Clone(g.dependents[name])
}

// Reachable returns the defined names reachable from roots, roots
// included, in emission order: ordered names first, then circular ones.
func (g *Graph) Reachable(roots ...string) []string {
	seen := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		if g.defined[r] && !seen[r] {
			seen[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, dep := range g.edges[name] {
			if g.defined[dep] && !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var out []string
	for _, name := range g.order {
		if seen[name] {
			out = append(out, name)
		}
	}
	for _, name := range g.Circular() {
		if seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// Summary returns the order, circular set, cycles and missing names.
func (g *Graph) Summary() Summary {
	return Summary{
		Order:    g.Order(),
		Circular: g.Circular(),
		Cycles:   g.Cycles(),
		Missing:  g.Missing(),
	}
}
