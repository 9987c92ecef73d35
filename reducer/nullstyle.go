package reducer

import "github.com/erraggy/oasir/ir"

// ToBranchForm returns a copy of n in which every nullable node is written
// as a union with an explicit null literal branch. A nullable union gains
// the null literal as its last branch.
func ToBranchForm(n ir.Node) ir.Node {
	return branchForm(ir.Clone(n))
}

// ToWrapperForm is the inverse of ToBranchForm: null literal branches are
// removed from unions and the union, or its single remaining branch, is
// marked nullable.
func ToWrapperForm(n ir.Node) ir.Node {
	return wrapperForm(ir.Clone(n))
}

// mapChildren replaces every child of n with fn(child), in place.
func mapChildren(n ir.Node, fn func(ir.Node) ir.Node) {
	switch x := n.(type) {
	case *ir.Object:
		if x.Properties != nil {
			props := ir.NewProperties()
			for name, p := range x.Properties.All() {
				props.Set(name, fn(p))
			}
			x.Properties = props
		}
		if x.AdditionalProperties != nil && x.AdditionalProperties.Schema != nil {
			x.AdditionalProperties.Schema = fn(x.AdditionalProperties.Schema)
		}
		mapList(x.AllOf, fn)
		mapList(x.OneOf, fn)
		mapList(x.AnyOf, fn)
	case *ir.Array:
		x.Items = fn(x.Items)
	case *ir.Record:
		x.Value = fn(x.Value)
	case *ir.Union:
		mapList(x.Schemas, fn)
	case *ir.Intersection:
		mapList(x.Schemas, fn)
	}
}

func mapList(list []ir.Node, fn func(ir.Node) ir.Node) {
	for i, n := range list {
		list[i] = fn(n)
	}
}

// branchForm rewrites n in place where it can and returns the result.
func branchForm(n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	mapChildren(n, branchForm)
	if !ir.IsNullable(n) || ir.IsNullLiteral(n) {
		return n
	}
	setNullable(n, false)
	if u, ok := n.(*ir.Union); ok {
		u.Schemas = append(u.Schemas, ir.NullLiteral())
		return u
	}
	return &ir.Union{Schemas: []ir.Node{n, ir.NullLiteral()}}
}

func wrapperForm(n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	mapChildren(n, wrapperForm)
	u, ok := n.(*ir.Union)
	if !ok {
		return n
	}

	var rest []ir.Node
	for _, b := range u.Schemas {
		if !ir.IsNullLiteral(b) {
			rest = append(rest, b)
		}
	}
	if len(rest) == len(u.Schemas) {
		return u
	}
	switch len(rest) {
	case 0:
		out := &ir.Never{Base: u.Base}
		out.Nullable = true
		return out
	case 1:
		return inherit(rest[0], u.Base, true)
	}
	u.Schemas = rest
	u.Nullable = true
	return u
}
