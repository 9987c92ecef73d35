package depgraph

import (
	"testing"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/ir"
)

// edges builds a graph from an adjacency list given in source order.
func edges(pairs ...any) *Graph {
	var names []string
	adj := make(map[string][]string)
	for i := 0; i < len(pairs); i += 2 {
		name := pairs[i].(string)
		names = append(names, name)
		adj[name] = pairs[i+1].([]string)
	}
	return BuildFunc(names, func(name string) []string { return adj[name] })
}

func ref(name string) *ir.Ref { return &ir.Ref{Name: name} }

// =============================================================================
// Ordering Tests
// =============================================================================

func TestOrder(t *testing.T) {
	tests := []struct {
		name     string
		graph    *Graph
		order    []string
		circular []string
	}{
		{
			name:     "empty",
			graph:    edges(),
			circular: []string{},
		},
		{
			name:     "acyclic chain",
			graph:    edges("X", []string{"Y"}, "Y", []string{"Z"}, "Z", []string(nil)),
			order:    []string{"Z", "Y", "X"},
			circular: []string{},
		},
		{
			name:     "mutual cycle",
			graph:    edges("A", []string{"B"}, "B", []string{"A"}),
			circular: []string{"A", "B"},
		},
		{
			name:     "self reference",
			graph:    edges("Node", []string{"Node"}, "Leaf", []string(nil)),
			order:    []string{"Leaf"},
			circular: []string{"Node"},
		},
		{
			name:     "ties sorted within a level",
			graph:    edges("b", []string(nil), "c", []string(nil), "a", []string(nil)),
			order:    []string{"a", "b", "c"},
			circular: []string{},
		},
		{
			name: "deepest level wins",
			// Top -> Mid -> Base and Top -> Base directly.
			graph:    edges("Top", []string{"Base", "Mid"}, "Mid", []string{"Base"}, "Base", []string(nil)),
			order:    []string{"Base", "Mid", "Top"},
			circular: []string{},
		},
		{
			name: "dependents of a cycle are ordered",
			graph: edges(
				"User", []string{"Group", "Name"},
				"Group", []string{"User"},
				"Name", []string(nil),
			),
			order:    []string{"Name"},
			circular: []string{"Group", "User"},
		},
		{
			name: "name referencing a cycle stays ordered",
			graph: edges(
				"Holder", []string{"A"},
				"A", []string{"B"},
				"B", []string{"A"},
			),
			order:    []string{"Holder"},
			circular: []string{"A", "B"},
		},
		{
			name:     "undefined references ignored",
			graph:    edges("A", []string{"Ghost"}, "B", []string{"A"}),
			order:    []string{"A", "B"},
			circular: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.order, tt.graph.Order())
			assert.Equal(t, tt.circular, tt.graph.Circular())
			for _, name := range tt.order {
				assert.False(t, tt.graph.IsCircular(name), name)
			}
		})
	}
}

func TestOrderPlacesDependenciesFirst(t *testing.T) {
	g := edges(
		"Order", []string{"Customer", "Item", "Money"},
		"Item", []string{"Product", "Money"},
		"Product", []string{"Money", "Category"},
		"Category", []string{"Category"},
		"Customer", []string{"Address"},
		"Address", []string(nil),
		"Money", []string(nil),
	)

	order := g.Order()
	position := make(map[string]int)
	for i, name := range order {
		position[name] = i
	}
	for _, name := range order {
		for _, dep := range g.Dependencies(name) {
			if g.IsCircular(dep) {
				continue
			}
			assert.Less(t, position[dep], position[name], "%s before %s", dep, name)
		}
	}
	assert.Equal(t, [][]string{
		{"Address", "Money"},
		{"Customer", "Product"},
		{"Item"},
		{"Order"},
	}, g.Levels())
	assert.Equal(t, []string{"Category"}, g.Circular())
}

func TestCycles(t *testing.T) {
	g := edges(
		"A", []string{"B"},
		"B", []string{"C"},
		"C", []string{"A"},
		"Self", []string{"Self"},
		"D", []string{"E"},
		"E", []string{"D", "A"},
	)
	assert.Equal(t, [][]string{{"A", "B", "C"}, {"D", "E"}, {"Self"}}, g.Cycles())
	assert.Empty(t, g.Order())
	assert.Len(t, g.Circular(), 6)
}

func TestLargeCycleTerminates(t *testing.T) {
	var names []string
	for i := 0; i < 2000; i++ {
		names = append(names, string(rune('a'+i%26))+string(rune('A'+i/26%26))+string(rune('0'+i/676)))
	}
	g := BuildFunc(names, func(name string) []string {
		for i, n := range names {
			if n == name {
				return []string{names[(i+1)%len(names)]}
			}
		}
		return nil
	})
	assert.Empty(t, g.Order())
	assert.Len(t, g.Circular(), len(names))
	require.Len(t, g.Cycles(), 1)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestDependenciesAndDependents(t *testing.T) {
	g := edges(
		"Pet", []string{"Owner", "Tag", "Owner", "Ghost"},
		"Owner", []string{"Tag"},
		"Tag", []string(nil),
	)

	assert.Equal(t, []string{"Owner", "Tag", "Ghost"}, g.Dependencies("Pet"))
	assert.Equal(t, []string{"Pet", "Owner"}, g.Dependents("Tag"))
	assert.Empty(t, g.Dependents("Pet"))
	assert.Equal(t, []string{"Ghost"}, g.Missing())
	assert.True(t, g.Has("Pet"))
	assert.False(t, g.Has("Ghost"))
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"Pet", "Owner", "Tag"}, g.Names())
}

func TestReachable(t *testing.T) {
	g := edges(
		"Root", []string{"Left", "Right"},
		"Left", []string{"Leaf"},
		"Right", []string{"Loop"},
		"Loop", []string{"Loop"},
		"Leaf", []string(nil),
		"Unused", []string{"Leaf"},
	)

	assert.Equal(t, []string{"Leaf", "Right", "Left", "Root", "Loop"}, g.Reachable("Root"))
	assert.Equal(t, []string{"Leaf", "Left"}, g.Reachable("Left", "Ghost"))
	assert.Empty(t, g.Reachable())
}

func TestAccessorsReturnCopies(t *testing.T) {
	g := edges("A", []string{"B"}, "B", []string(nil))
	order := g.Order()
	order[0] = "mutated"
	assert.Equal(t, []string{"B", "A"}, g.Order())

	deps := g.Dependencies("A")
	deps[0] = "mutated"
	assert.Equal(t, []string{"B"}, g.Dependencies("A"))
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestBuildFromRegistries(t *testing.T) {
	named := ir.NewRegistry()
	require.NoError(t, named.Add("Pet", "#/components/schemas/Pet", &ir.Object{
		Properties: propertiesOf("owner", ref("Owner"), "tags", &ir.Array{Items: ref("Tag")}),
	}))
	require.NoError(t, named.Add("Owner", "#/components/schemas/Owner", &ir.Object{
		Properties: propertiesOf("pets", &ir.Array{Items: ref("Pet")}),
	}))
	require.NoError(t, named.Add("Tag", "#/components/schemas/Tag", &ir.String{}))

	virtual := ir.NewRegistry()
	require.NoError(t, virtual.Add("ListPetsQuerySchema", "", &ir.Object{
		Properties: propertiesOf("tag", ref("Tag")),
	}))
	require.NoError(t, virtual.Add("Tag", "", &ir.Any{}))

	g := Build(named, nil, virtual)
	assert.Equal(t, []string{"Tag", "ListPetsQuerySchema"}, g.Order())
	assert.Equal(t, []string{"Owner", "Pet"}, g.Circular())
	assert.Equal(t, []string{"Pet", "Owner", "Tag", "ListPetsQuerySchema"}, g.Names())
}

func TestBuildFollowsCompositionBranches(t *testing.T) {
	named := ir.NewRegistry()
	require.NoError(t, named.Add("Dog", "", &ir.Object{AllOf: []ir.Node{ref("Animal")}}))
	require.NoError(t, named.Add("Pet", "", &ir.Object{OneOf: []ir.Node{ref("Dog"), ref("Cat")}}))
	require.NoError(t, named.Add("Cat", "", &ir.Object{AllOf: []ir.Node{ref("Animal")}}))
	require.NoError(t, named.Add("Animal", "", &ir.Record{Key: ir.StringKey(), Value: &ir.Any{}}))

	g := Build(named)
	assert.Equal(t, []string{"Animal", "Cat", "Dog", "Pet"}, g.Order())
}

func TestSummary(t *testing.T) {
	g := edges("A", []string{"A"}, "B", []string{"Ghost"})
	assert.Equal(t, Summary{
		Order:    []string{"B"},
		Circular: []string{"A"},
		Cycles:   [][]string{{"A"}},
		Missing:  []string{"Ghost"},
	}, g.Summary())
}

func propertiesOf(kv ...any) *sequencedmap.Map[string, ir.Node] {
	props := ir.NewProperties()
	for i := 0; i < len(kv); i += 2 {
		props.Set(kv[i].(string), kv[i+1].(ir.Node))
	}
	return props
}
