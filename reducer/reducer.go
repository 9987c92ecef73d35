package reducer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/oasir/internal/irhash"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/parser"
)

// Result is a reduced expression.
type Result struct {
	// Node is the reduced expression. It shares no memory with the input.
	Node ir.Node
	// Optional is set when the position may be absent.
	Optional bool
}

// Reducer reduces IR nodes. See the package documentation for the rules.
type Reducer struct {
	nullStyle   NullStyle
	mergeAllOf  bool
	hoistInline bool
	circular    func(name string) bool
	names       namegen.Generator
	schemas     []*ir.Registry
	logger      parser.Logger

	used         []string
	seen         map[string]bool
	materialized *ir.Registry
	pending      map[string]bool
}

// New returns a Reducer.
func New(opts ...Option) (*Reducer, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("reducer: invalid options: %w", err)
		}
	}
	if cfg.names == nil {
		cfg.names = namegen.Default()
	}
	if cfg.circular == nil {
		cfg.circular = func(string) bool { return false }
	}
	return &Reducer{
		nullStyle:    cfg.nullStyle,
		mergeAllOf:   cfg.mergeAllOf,
		hoistInline:  cfg.hoist,
		circular:     cfg.circular,
		names:        cfg.names,
		schemas:      cfg.schemas,
		logger:       parser.OrNop(cfg.logger),
		seen:         make(map[string]bool),
		materialized: ir.NewRegistry(),
		pending:      make(map[string]bool),
	}, nil
}

// NullStyle returns the configured null style.
func (r *Reducer) NullStyle() NullStyle { return r.nullStyle }

// Used returns the names of every ref reduced so far, in first-use order.
func (r *Reducer) Used() []string { return slices.Clone(r.used) }

// Materialized returns the virtual schemas reached so far. Models are
// stored in wrapper form.
func (r *Reducer) Materialized() *ir.Registry { return r.materialized }

// Reduce reduces n. A non-nil nullable replaces the nullability of the
// top-level expression; required=false marks the result Optional.
func (r *Reducer) Reduce(n ir.Node, required bool, nullable *bool) Result {
	out := r.reduce(n, scope{})
	if nullable != nil {
		setNullable(out, *nullable)
	}
	return r.finish(out, required)
}

// ReduceNamed reduces the model registered as name. With [WithHoistInline],
// inline objects nested in m are hoisted into virtual schemas named after
// name.
func (r *Reducer) ReduceNamed(name string, m ir.Model) Result {
	return r.finish(r.reduce(m, scope{parent: name}), true)
}

func (r *Reducer) finish(n ir.Node, required bool) Result {
	if r.nullStyle == NullAsBranch {
		n = branchForm(n)
	}
	return Result{Node: n, Optional: !required}
}

// scope locates a node inside a named schema for hoisting.
type scope struct {
	parent string
	path   []string
	// branch is set for the direct operands of a union or intersection,
	// which are never hoisted themselves.
	branch bool
}

func (s scope) child(segment string) scope {
	path := make([]string, len(s.path), len(s.path)+1)
	copy(path, s.path)
	return scope{parent: s.parent, path: append(path, segment)}
}

func (s scope) operand() scope {
	s.branch = true
	return s
}

func (r *Reducer) reduce(n ir.Node, s scope) ir.Node {
	switch x := n.(type) {
	case nil:
		return &ir.Any{}
	case *ir.Ref:
		return r.ref(x)
	case *ir.Numeric, *ir.String, *ir.Boolean, *ir.Any, *ir.Never:
		return ir.Clone(x)
	case *ir.Array:
		c := ir.Clone(x).(*ir.Array)
		c.Items = r.reduce(x.Items, s.child("Item"))
		return c
	case *ir.Record:
		c := ir.Clone(x).(*ir.Record)
		c.Value = r.reduce(x.Value, s.child("Value"))
		return c
	case *ir.Union:
		return r.union(x.Base, x.Schemas, x.Discriminator, s)
	case *ir.Intersection:
		return r.intersection(x.Base, x.Schemas, s)
	case *ir.Object:
		return r.object(x, s)
	}
	panic(fmt.Sprintf("reducer: unknown node type %T", n))
}

func (r *Reducer) markUsed(name string) {
	if !r.seen[name] {
		r.seen[name] = true
		r.used = append(r.used, name)
	}
}

func (r *Reducer) ref(x *ir.Ref) ir.Node {
	c := *x
	r.markUsed(x.Name)
	if x.Virtual {
		r.materialize(x.Name)
	}
	if r.circular(x.Name) {
		c.Deferred = true
	}
	return &c
}

func (r *Reducer) lookup(name string) (*ir.Entry, bool) {
	for _, reg := range r.schemas {
		if e, ok := reg.Lookup(name); ok {
			return e, true
		}
	}
	return nil, false
}

// materialize reduces the virtual schema name, once, and records it.
// Reduced forms that are not models, such as a bare alias ref, are
// recorded as the source model.
func (r *Reducer) materialize(name string) {
	if r.materialized.Has(name) || r.pending[name] {
		return
	}
	e, ok := r.lookup(name)
	if !ok {
		r.logger.Debug("virtual schema not found", "name", name)
		return
	}
	r.pending[name] = true
	out := r.reduce(e.Model, scope{parent: name})
	delete(r.pending, name)

	model, ok := out.(ir.Model)
	if !ok {
		model = e.Model
	}
	r.materialized.Ensure(name, e.Pointer, model)
	r.logger.Debug("materialized virtual schema", "name", name)
}

func (r *Reducer) taken(name string) bool {
	if r.seen[name] || r.materialized.Has(name) {
		return true
	}
	_, ok := r.lookup(name)
	return ok
}

func (r *Reducer) hoistable(o *ir.Object, s scope) bool {
	return r.hoistInline && s.parent != "" && len(s.path) > 0 && !s.branch && o.Properties.Len() > 0
}

// hoist records o as a virtual schema and returns a ref to it. The
// nullability of the position moves onto the ref.
func (r *Reducer) hoist(o *ir.Object, s scope) ir.Node {
	name := namegen.Unique(r.names.Inline(s.parent, s.path...), r.taken)
	ref := &ir.Ref{Name: name, Virtual: true, Nullable: o.Nullable}
	o.Nullable = false
	r.materialized.Ensure(name, "", o)
	r.markUsed(name)
	r.logger.Debug("hoisted inline schema", "name", name, "parent", s.parent)
	return ref
}

func (r *Reducer) object(x *ir.Object, s scope) ir.Node {
	if !x.HasComposition() {
		o := r.plainObject(x, s)
		if r.hoistable(o, s) {
			return r.hoist(o, s)
		}
		return o
	}

	parts := slices.Clone(x.AllOf)
	disc := x.Discriminator
	if len(x.OneOf) > 0 {
		parts = append(parts, &ir.Union{Schemas: x.OneOf, Discriminator: disc})
		disc = nil
	}
	if len(x.AnyOf) > 0 {
		parts = append(parts, &ir.Union{Schemas: x.AnyOf, Discriminator: disc})
		disc = nil
	}
	if x.Properties.Len() > 0 || x.AdditionalProperties != nil || disc != nil {
		parts = append(parts, &ir.Object{
			Properties:           x.Properties,
			Required:             x.Required,
			AdditionalProperties: x.AdditionalProperties,
			Discriminator:        disc,
		})
	}
	return r.intersection(x.Base, parts, s)
}

func (r *Reducer) plainObject(x *ir.Object, s scope) *ir.Object {
	c := ir.Clone(x).(*ir.Object)
	if x.Properties != nil {
		c.Properties = ir.NewProperties()
		for name, p := range x.Properties.All() {
			c.Properties.Set(name, r.reduce(p, s.child(name)))
		}
	}
	if ap := x.AdditionalProperties; ap != nil && ap.Schema != nil {
		c.AdditionalProperties.Schema = r.reduce(ap.Schema, s.child("Value"))
	}
	return c
}

// union reduces the branches of a oneOf, anyOf or union. Nullability of
// any branch moves onto the union.
func (r *Reducer) union(base ir.Base, schemas []ir.Node, disc *ir.Discriminator, s scope) ir.Node {
	nullable := base.Nullable
	var branches []ir.Node
	add := func(n ir.Node) {
		if ir.IsNullable(n) {
			nullable = true
			setNullable(n, false)
		}
		branches = append(branches, n)
	}

	for _, schema := range schemas {
		red := r.reduce(schema, s.operand())
		switch x := red.(type) {
		case *ir.Never:
			if x.Nullable {
				nullable = true
			}
			continue
		case *ir.Union:
			if x.Nullable {
				nullable = true
			}
			for _, b := range x.Schemas {
				add(b)
			}
			continue
		}
		add(red)
	}

	branches = irhash.Dedupe(branches)
	for _, b := range branches {
		if _, ok := b.(*ir.Any); ok {
			return inherit(b, base, nullable)
		}
	}

	switch len(branches) {
	case 0:
		out := &ir.Never{Base: base}
		out.Nullable = nullable
		return out
	case 1:
		return inherit(branches[0], base, nullable)
	}
	out := &ir.Union{Base: base, Schemas: branches, Discriminator: copyDiscriminator(disc)}
	out.Nullable = nullable
	return out
}

// intersection reduces the operands of an allOf or intersection.
func (r *Reducer) intersection(base ir.Base, schemas []ir.Node, s scope) ir.Node {
	var operands []ir.Node
	for _, schema := range schemas {
		red := r.reduce(schema, s.operand())
		switch x := red.(type) {
		case *ir.Any:
			continue
		case *ir.Never:
			if !x.Nullable {
				return &ir.Never{Base: base}
			}
		case *ir.Intersection:
			if !x.Nullable {
				operands = append(operands, x.Schemas...)
				continue
			}
		}
		operands = append(operands, red)
	}
	operands = irhash.Dedupe(operands)

	nullable := base.Nullable
	if len(operands) > 0 && allNullable(operands) {
		nullable = true
		for _, op := range operands {
			setNullable(op, false)
		}
	}

	switch len(operands) {
	case 0:
		out := &ir.Any{Base: base}
		out.Nullable = nullable
		return out
	case 1:
		return inherit(operands[0], base, nullable)
	}
	if r.mergeAllOf && allMergeable(operands) {
		merged := mergeObjects(operands)
		merged.Base = base
		merged.Nullable = nullable
		return merged
	}
	out := &ir.Intersection{Base: base, Schemas: operands}
	out.Nullable = nullable
	return out
}

func allNullable(nodes []ir.Node) bool {
	for _, n := range nodes {
		if !ir.IsNullable(n) {
			return false
		}
	}
	return true
}

func allMergeable(nodes []ir.Node) bool {
	for _, n := range nodes {
		o, ok := n.(*ir.Object)
		if !ok || o.HasComposition() || o.AdditionalProperties != nil || o.Discriminator != nil || o.Nullable {
			return false
		}
	}
	return true
}

// mergeObjects combines reduced plain objects. A property declared by
// several objects becomes the intersection of its declarations.
func mergeObjects(nodes []ir.Node) *ir.Object {
	merged := &ir.Object{Properties: ir.NewProperties()}
	for _, n := range nodes {
		o := n.(*ir.Object)
		for name, p := range o.Properties.All() {
			if existing, ok := merged.Properties.Get(name); ok {
				ir.SetProperty(merged.Properties, name, intersect(existing, p))
				continue
			}
			merged.Properties.Set(name, p)
		}
		for _, req := range o.Required {
			if !slices.Contains(merged.Required, req) {
				merged.Required = append(merged.Required, req)
			}
		}
	}
	if merged.Properties.Len() == 0 {
		merged.Properties = nil
	}
	return merged
}

func intersect(a, b ir.Node) ir.Node {
	if irhash.Equal(a, b) {
		return a
	}
	var schemas []ir.Node
	for _, n := range []ir.Node{a, b} {
		if x, ok := n.(*ir.Intersection); ok && !x.Nullable {
			schemas = append(schemas, x.Schemas...)
			continue
		}
		schemas = append(schemas, n)
	}
	return &ir.Intersection{Schemas: irhash.Dedupe(schemas)}
}

// inherit folds the metadata of a collapsed container into its single
// remaining member.
func inherit(n ir.Node, base ir.Base, nullable bool) ir.Node {
	switch x := n.(type) {
	case *ir.Ref:
		x.Nullable = x.Nullable || nullable
	case ir.Model:
		b := x.Common()
		b.Nullable = b.Nullable || nullable
		b.ReadOnly = b.ReadOnly || base.ReadOnly
		b.WriteOnly = b.WriteOnly || base.WriteOnly
		b.Deprecated = b.Deprecated || base.Deprecated
		if base.Description != "" {
			b.Description = base.Description
		}
		if base.HasDefault {
			b.Default, b.HasDefault = base.Default, true
		}
	}
	return n
}

func setNullable(n ir.Node, nullable bool) {
	switch x := n.(type) {
	case *ir.Ref:
		x.Nullable = nullable
	case ir.Model:
		x.Common().Nullable = nullable
	}
}

func copyDiscriminator(d *ir.Discriminator) *ir.Discriminator {
	if d == nil {
		return nil
	}
	return &ir.Discriminator{PropertyName: d.PropertyName, Mapping: maps.Clone(d.Mapping)}
}
