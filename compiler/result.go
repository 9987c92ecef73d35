package compiler

import (
	"slices"

	"github.com/erraggy/oasir/depgraph"
	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/parser"
	"github.com/erraggy/oasir/reducer"
)

// Result is a compiled document set.
type Result struct {
	// SourcePath is the root document's path or URL.
	SourcePath string
	// Version is the root document's "openapi" field.
	Version string
	// Diagnostics lists every recoverable anomaly, in discovery order.
	Diagnostics []issues.Issue

	named      *ir.Registry
	virtual    *ir.Registry
	operations []*Operation
	byID       map[string]*Operation
	graph      *depgraph.Graph
	names      namegen.Generator
	logger     parser.Logger
}

// Summary is the serializable view of a Result.
type Summary struct {
	Source      string           `json:"source,omitempty"`
	Version     string           `json:"openapi"`
	Schemas     []*ir.Entry      `json:"schemas"`
	Virtual     []*ir.Entry      `json:"virtualSchemas"`
	Operations  []*Operation     `json:"operations"`
	Graph       depgraph.Summary `json:"graph"`
	Diagnostics []issues.Issue   `json:"diagnostics,omitempty"`
}

func newResult(pr *parser.ParseResult, run *compilation, ops []*Operation) *Result {
	res := &Result{
		SourcePath:  pr.SourcePath,
		Version:     pr.Version,
		Diagnostics: run.issues.Issues(),
		named:       run.named,
		virtual:     run.virtual,
		operations:  ops,
		byID:        make(map[string]*Operation, len(ops)),
		graph:       depgraph.Build(run.named, run.virtual),
		names:       run.names,
		logger:      run.logger,
	}
	for _, op := range ops {
		res.byID[op.ID] = op
	}
	return res
}

// AllNamedSchemas returns the registry of named schemas in discovery order.
func (r *Result) AllNamedSchemas() *ir.Registry { return r.named }

// NamedSchema returns the model of a named schema.
func (r *Result) NamedSchema(name string) (ir.Model, bool) { return r.named.Get(name) }

// VirtualSchemas returns the registry of schemas synthesized for parameter
// groups, inline bodies and the unknown object.
func (r *Result) VirtualSchemas() *ir.Registry { return r.virtual }

// Graph returns the current dependency graph.
func (r *Result) Graph() *depgraph.Graph { return r.graph }

// DependencyOrder returns the non-circular names, dependencies first, and
// the sorted circular set.
func (r *Result) DependencyOrder() (order, circular []string) {
	return r.graph.Order(), r.graph.Circular()
}

// Operations returns the compiled operations in path order.
func (r *Result) Operations() []*Operation { return slices.Clone(r.operations) }

// Operation returns the operation with the given id.
func (r *Result) Operation(id string) (*Operation, bool) {
	op, ok := r.byID[id]
	return op, ok
}

// Reducer returns a reducer that resolves virtual references against this
// result and defers references to circular names. opts are applied after
// those defaults.
func (r *Result) Reducer(opts ...reducer.Option) (*reducer.Reducer, error) {
	graph := r.graph
	base := []reducer.Option{
		reducer.WithSchemas(r.named, r.virtual),
		reducer.WithCircular(graph.IsCircular),
		reducer.WithNames(r.names),
		reducer.WithLogger(r.logger),
	}
	return reducer.New(append(base, opts...)...)
}

// Finalize rebuilds the dependency graph over the named and virtual schemas
// plus every schema the reducers materialized, and returns it. Later
// reducers see the new graph.
func (r *Result) Finalize(reducers ...*reducer.Reducer) *depgraph.Graph {
	sources := []depgraph.Source{r.named, r.virtual}
	for _, red := range reducers {
		if red == nil {
			continue
		}
		sources = append(sources, red.Materialized())
	}
	r.graph = depgraph.Build(sources...)
	r.logger.Debug("finalized dependency graph",
		"names", r.graph.Len(),
		"circular", len(r.graph.Circular()),
		"missing", len(r.graph.Missing()),
	)
	return r.graph
}

// Summary returns the serializable view of the result.
func (r *Result) Summary() Summary {
	return Summary{
		Source:      r.SourcePath,
		Version:     r.Version,
		Schemas:     r.named.All(),
		Virtual:     r.virtual.All(),
		Operations:  r.Operations(),
		Graph:       r.graph.Summary(),
		Diagnostics: r.Diagnostics,
	}
}
