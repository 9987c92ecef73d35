package ir

import "fmt"

// Visitor handles each variant of the closed node set. Adding a variant
// adds a method here, so every visitor stops compiling until it handles
// the new case.
type Visitor[T any] interface {
	VisitNumeric(*Numeric) T
	VisitString(*String) T
	VisitBoolean(*Boolean) T
	VisitObject(*Object) T
	VisitArray(*Array) T
	VisitRecord(*Record) T
	VisitUnion(*Union) T
	VisitIntersection(*Intersection) T
	VisitAny(*Any) T
	VisitNever(*Never) T
	VisitRef(*Ref) T
}

// Visit dispatches n to the matching Visitor method.
// It panics on a nil node.
func Visit[T any](n Node, v Visitor[T]) T {
	switch x := n.(type) {
	case *Numeric:
		return v.VisitNumeric(x)
	case *String:
		return v.VisitString(x)
	case *Boolean:
		return v.VisitBoolean(x)
	case *Object:
		return v.VisitObject(x)
	case *Array:
		return v.VisitArray(x)
	case *Record:
		return v.VisitRecord(x)
	case *Union:
		return v.VisitUnion(x)
	case *Intersection:
		return v.VisitIntersection(x)
	case *Any:
		return v.VisitAny(x)
	case *Never:
		return v.VisitNever(x)
	case *Ref:
		return v.VisitRef(x)
	}
	panic(fmt.Sprintf("ir: unknown node type %T", n))
}

// Children returns the nodes directly nested in n, in declaration order.
// Refs have no children.
func Children(n Node) []Node {
	var out []Node
	switch x := n.(type) {
	case *Object:
		for _, p := range x.Properties.All() {
			out = append(out, p)
		}
		if x.AdditionalProperties != nil && x.AdditionalProperties.Schema != nil {
			out = append(out, x.AdditionalProperties.Schema)
		}
		out = append(out, x.AllOf...)
		out = append(out, x.OneOf...)
		out = append(out, x.AnyOf...)
	case *Array:
		if x.Items != nil {
			out = append(out, x.Items)
		}
	case *Record:
		if x.Value != nil {
			out = append(out, x.Value)
		}
	case *Union:
		out = append(out, x.Schemas...)
	case *Intersection:
		out = append(out, x.Schemas...)
	}
	return out
}

// Walk calls fn for n and every node nested in it, depth first. Walk does
// not follow refs. Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
