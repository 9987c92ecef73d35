package ir

import (
	"maps"
	"slices"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Clone returns a deep copy of n. Default values are copied by reference.
func Clone(n Node) Node {
	switch x := n.(type) {
	case nil:
		return nil
	case *Numeric:
		c := *x
		c.MultipleOf = cloneFloat(x.MultipleOf)
		c.Minimum = cloneFloat(x.Minimum)
		c.Maximum = cloneFloat(x.Maximum)
		c.ExclusiveMinimum = cloneFloat(x.ExclusiveMinimum)
		c.ExclusiveMaximum = cloneFloat(x.ExclusiveMaximum)
		c.Enum = slices.Clone(x.Enum)
		return &c
	case *String:
		return CloneString(x)
	case *Boolean:
		c := *x
		c.Enum = slices.Clone(x.Enum)
		return &c
	case *Object:
		c := *x
		c.Properties = CloneProperties(x.Properties)
		c.Required = slices.Clone(x.Required)
		if x.AdditionalProperties != nil {
			c.AdditionalProperties = &Additional{
				Allowed: x.AdditionalProperties.Allowed,
				Schema:  Clone(x.AdditionalProperties.Schema),
			}
		}
		c.AllOf = cloneList(x.AllOf)
		c.OneOf = cloneList(x.OneOf)
		c.AnyOf = cloneList(x.AnyOf)
		c.Discriminator = cloneDiscriminator(x.Discriminator)
		return &c
	case *Array:
		c := *x
		c.Items = Clone(x.Items)
		c.MinItems = cloneInt(x.MinItems)
		c.MaxItems = cloneInt(x.MaxItems)
		return &c
	case *Record:
		c := *x
		if x.Key != nil {
			c.Key = CloneString(x.Key)
		}
		c.Value = Clone(x.Value)
		return &c
	case *Union:
		c := *x
		c.Schemas = cloneList(x.Schemas)
		c.Discriminator = cloneDiscriminator(x.Discriminator)
		return &c
	case *Intersection:
		c := *x
		c.Schemas = cloneList(x.Schemas)
		return &c
	case *Any:
		c := *x
		return &c
	case *Never:
		c := *x
		return &c
	case *Ref:
		c := *x
		return &c
	}
	panic("ir: unknown node type")
}

// CloneModel is Clone for a Model.
func CloneModel(m Model) Model {
	if m == nil {
		return nil
	}
	return Clone(m).(Model)
}

// CloneString returns a deep copy of s.
func CloneString(s *String) *String {
	c := *s
	c.MinLength = cloneInt(s.MinLength)
	c.MaxLength = cloneInt(s.MaxLength)
	c.Enum = slices.Clone(s.Enum)
	return &c
}

// CloneProperties deep copies an ordered property map. A nil map stays nil.
func CloneProperties(props *sequencedmap.Map[string, Node]) *sequencedmap.Map[string, Node] {
	if props == nil {
		return nil
	}
	out := NewProperties()
	for name, n := range props.All() {
		out.Set(name, Clone(n))
	}
	return out
}

// SetProperty sets name in props, replacing an existing entry in place.
func SetProperty(props *sequencedmap.Map[string, Node], name string, n Node) {
	if !props.Has(name) {
		props.Set(name, n)
		return
	}
	rebuilt := NewProperties()
	for k, v := range props.All() {
		if k == name {
			v = n
		}
		rebuilt.Set(k, v)
	}
	*props = *rebuilt
}

func cloneDiscriminator(d *Discriminator) *Discriminator {
	if d == nil {
		return nil
	}
	return &Discriminator{PropertyName: d.PropertyName, Mapping: maps.Clone(d.Mapping)}
}

func cloneList(in []Node) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, n := range in {
		out[i] = Clone(n)
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
