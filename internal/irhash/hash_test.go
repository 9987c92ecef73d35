package irhash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oasir/ir"
)

func object(props map[string]ir.Node, order []string, required ...string) *ir.Object {
	p := ir.NewProperties()
	for _, k := range order {
		p.Set(k, props[k])
	}
	return &ir.Object{Properties: p, Required: required}
}

func TestHashConsistency(t *testing.T) {
	n := object(map[string]ir.Node{"name": &ir.String{}, "age": &ir.Numeric{Integer: true}}, []string{"name", "age"}, "name")
	assert.Equal(t, Hash(n), Hash(n))
	assert.Equal(t, Signature(n), Signature(ir.Clone(n)))
}

func TestEqual(t *testing.T) {
	props := map[string]ir.Node{"name": &ir.String{}, "age": &ir.Numeric{Integer: true}}

	tests := []struct {
		name  string
		a, b  ir.Node
		equal bool
	}{
		{
			name:  "property order ignored",
			a:     object(props, []string{"name", "age"}, "name", "age"),
			b:     object(props, []string{"age", "name"}, "age", "name"),
			equal: true,
		},
		{
			name:  "description ignored",
			a:     &ir.String{Base: ir.Base{Description: "a"}},
			b:     &ir.String{Base: ir.Base{Description: "b"}},
			equal: true,
		},
		{
			name: "nullable matters",
			a:    &ir.String{},
			b:    &ir.String{Base: ir.Base{Nullable: true}},
		},
		{
			name: "integer vs number",
			a:    &ir.Numeric{},
			b:    &ir.Numeric{Integer: true},
		},
		{
			name:  "refs by name",
			a:     &ir.Ref{Name: "Pet", Pointer: "#/a"},
			b:     &ir.Ref{Name: "Pet", Pointer: "#/a", Deferred: true},
			equal: true,
		},
		{
			name: "different refs",
			a:    &ir.Ref{Name: "Pet"},
			b:    &ir.Ref{Name: "Owner"},
		},
		{
			name: "nullable ref",
			a:    &ir.Ref{Name: "Pet"},
			b:    &ir.Ref{Name: "Pet", Nullable: true},
		},
		{
			name: "enum values",
			a:    &ir.String{Enum: []string{"a", "b"}},
			b:    &ir.String{Enum: []string{"a", "c"}},
		},
		{
			name: "union branch order matters",
			a:    &ir.Union{Schemas: []ir.Node{&ir.String{}, &ir.Numeric{}}},
			b:    &ir.Union{Schemas: []ir.Node{&ir.Numeric{}, &ir.String{}}},
		},
		{
			name: "closed record vs open record",
			a:    &ir.Record{Key: ir.StringKey(), Value: &ir.Any{}},
			b:    &ir.Record{Key: ir.StringKey(), Value: &ir.Never{}},
		},
		{
			name:  "null literals",
			a:     ir.NullLiteral(),
			b:     ir.NullLiteral(),
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
			if tt.equal {
				assert.Equal(t, Hash(tt.a), Hash(tt.b))
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	nodes := []ir.Node{
		&ir.Ref{Name: "A"},
		&ir.String{},
		&ir.Ref{Name: "A"},
		&ir.String{Base: ir.Base{Description: "same shape"}},
		ir.NullLiteral(),
		ir.NullLiteral(),
	}
	out := Dedupe(nodes)
	assert.Len(t, out, 3)
	assert.Same(t, nodes[0], out[0])
	assert.Same(t, nodes[1], out[1])
	assert.True(t, ir.IsNullLiteral(out[2]))

	single := []ir.Node{&ir.Any{}}
	assert.Equal(t, single, Dedupe(single))
}
