package normalizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/erraggy/oasir/internal/severity"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// Schema normalizes raw into an IR node. A "$ref" schema yields an
// [*ir.Ref]; every other schema yields a Model.
func (n *Normalizer) Schema(raw *parser.Schema) (ir.Node, error) {
	return n.normalize(raw)
}

// Model normalizes a named schema. A named schema that is only a reference
// becomes an Object with that reference as its single allOf branch, so
// every registry entry is a Model.
func (n *Normalizer) Model(raw *parser.Schema) (ir.Model, error) {
	node, err := n.normalize(raw)
	if err != nil {
		return nil, err
	}
	if ref, ok := node.(*ir.Ref); ok {
		return &ir.Object{AllOf: []ir.Node{ref}}, nil
	}
	return node.(ir.Model), nil
}

func (n *Normalizer) normalize(s *parser.Schema) (ir.Node, error) {
	switch {
	case s == nil:
		return &ir.Any{}, nil
	case s.Ref != "":
		return n.ref(s)
	case s.Bool != nil:
		if *s.Bool {
			return &ir.Any{}, nil
		}
		return &ir.Never{}, nil
	}

	base := baseOf(s)
	switch t := s.Type.(type) {
	case []string:
		return n.typeList(s, base, t)
	case string:
		return n.typed(s, base, t)
	}

	if values, ok := n.enumValues(s); ok {
		return n.typed(s, base, inferEnumType(values))
	}
	if s.Properties.Len() == 0 && !hasComposition(s) && s.AdditionalProperties == nil {
		n.requiredDefined(s, nil)
		return &ir.Any{Base: base}, nil
	}
	return n.object(s, base)
}

func baseOf(s *parser.Schema) ir.Base {
	return ir.Base{
		Nullable:    s.Nullable,
		ReadOnly:    s.ReadOnly,
		WriteOnly:   s.WriteOnly,
		Deprecated:  s.Deprecated,
		Description: s.Description,
		Default:     s.Default,
		HasDefault:  s.HasDefault,
	}
}

func hasComposition(s *parser.Schema) bool {
	return len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0
}

func (n *Normalizer) ref(s *parser.Schema) (ir.Node, error) {
	if len(s.RefSiblings) > 0 {
		n.report(severity.SeverityInfo, s.Pointer, s.Line, s.Column, "$ref",
			"keywords next to $ref are ignored: "+strings.Join(s.RefSiblings, ", "), s.RefSiblings)
	}
	name, err := n.namer.NameRef(s.Ref)
	if err != nil {
		return nil, err
	}
	return &ir.Ref{Name: name, Pointer: s.Ref}, nil
}

var knownTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
	"array":   true,
	"object":  true,
	"null":    true,
}

// typeList normalizes an OAS 3.1 type array. "null" becomes the nullable
// flag of every remaining branch; several non-null types become a Union.
func (n *Normalizer) typeList(s *parser.Schema, base ir.Base, types []string) (ir.Node, error) {
	var nonNull []string
	for _, t := range types {
		if !knownTypes[t] {
			return nil, &oaserrors.SchemaTypeError{Pointer: s.Pointer, Type: t}
		}
		if t == "null" {
			base.Nullable = true
			continue
		}
		if !slices.Contains(nonNull, t) {
			nonNull = append(nonNull, t)
		}
	}

	switch len(nonNull) {
	case 0:
		return &ir.Never{Base: base}, nil
	case 1:
		return n.typed(s, base, nonNull[0])
	}

	union := &ir.Union{Base: ir.Base{
		Deprecated:  base.Deprecated,
		Description: base.Description,
		Default:     base.Default,
		HasDefault:  base.HasDefault,
	}}
	branch := ir.Base{Nullable: base.Nullable, ReadOnly: base.ReadOnly, WriteOnly: base.WriteOnly}
	for _, t := range nonNull {
		m, err := n.typed(s, branch, t)
		if err != nil {
			return nil, err
		}
		union.Schemas = append(union.Schemas, m)
	}
	return union, nil
}

func (n *Normalizer) typed(s *parser.Schema, base ir.Base, t string) (ir.Node, error) {
	switch t {
	case "string":
		return n.stringModel(s, base), nil
	case "number", "integer":
		return n.numeric(s, base, t == "integer"), nil
	case "boolean":
		return n.boolean(s, base), nil
	case "array":
		return n.array(s, base)
	case "object":
		return n.object(s, base)
	case "null":
		// legacy alias: an object that also admits null
		base.Nullable = true
		return n.object(s, base)
	}
	return nil, &oaserrors.SchemaTypeError{Pointer: s.Pointer, Type: s.Type}
}

func (n *Normalizer) stringModel(s *parser.Schema, base ir.Base) *ir.String {
	m := &ir.String{
		Base:      base,
		Format:    s.Format,
		MinLength: copyInt(s.MinLength),
		MaxLength: copyInt(s.MaxLength),
		Pattern:   s.Pattern,
	}
	if values, ok := n.enumValues(s); ok {
		enum, hasNull := stringEnum(values)
		m.Nullable = m.Nullable || hasNull
		if len(enum) > 0 {
			m.Enum = enum
			m.Extensibility = n.enumExtensibility(s)
		}
	}
	return m
}

func (n *Normalizer) numeric(s *parser.Schema, base ir.Base, integer bool) *ir.Numeric {
	m := &ir.Numeric{
		Base:       base,
		Integer:    integer,
		Format:     s.Format,
		MultipleOf: copyFloat(s.MultipleOf),
		Minimum:    copyFloat(s.Minimum),
		Maximum:    copyFloat(s.Maximum),
	}
	m.Minimum, m.ExclusiveMinimum = exclusiveBound(m.Minimum, s.ExclusiveMinimum)
	m.Maximum, m.ExclusiveMaximum = exclusiveBound(m.Maximum, s.ExclusiveMaximum)

	if values, ok := n.enumValues(s); ok {
		enum, hasNull := numericEnum(values)
		m.Nullable = m.Nullable || hasNull
		if len(enum) > 0 {
			m.Enum = enum
			m.Extensibility = n.enumExtensibility(s)
		}
	}
	return m
}

// exclusiveBound folds the two exclusive bound syntaxes into the
// (inclusive, exclusive) pair. The boolean form moves the inclusive bound
// into the exclusive field; the numeric form is copied as is.
func exclusiveBound(inclusive *float64, exclusive any) (*float64, *float64) {
	switch v := exclusive.(type) {
	case bool:
		if v {
			return nil, inclusive
		}
	case float64:
		f := v
		return inclusive, &f
	}
	return inclusive, nil
}

func (n *Normalizer) boolean(s *parser.Schema, base ir.Base) *ir.Boolean {
	m := &ir.Boolean{Base: base}
	if values, ok := n.enumValues(s); ok {
		enum, hasNull := booleanEnum(values)
		m.Nullable = m.Nullable || hasNull
		if len(enum) > 0 {
			m.Enum = enum
			m.Extensibility = n.enumExtensibility(s)
		}
	}
	return m
}

func (n *Normalizer) array(s *parser.Schema, base ir.Base) (ir.Node, error) {
	m := &ir.Array{
		Base:        base,
		UniqueItems: s.UniqueItems,
		MinItems:    copyInt(s.MinItems),
		MaxItems:    copyInt(s.MaxItems),
	}
	if s.Items == nil {
		n.warn(s, "items", "array schema has no items; using "+n.names.Unknown(), nil)
		m.Items = n.unknownObject()
		return m, nil
	}
	items, err := n.normalize(s.Items)
	if err != nil {
		return nil, err
	}
	m.Items = items
	return m, nil
}

// object normalizes an object-shaped schema: one with own properties,
// composition or additionalProperties, or declared "type: object".
func (n *Normalizer) object(s *parser.Schema, base ir.Base) (ir.Node, error) {
	allOf, nullAll, err := n.branches(s.AllOf, false)
	if err != nil {
		return nil, err
	}
	oneOf, nullOne, err := n.branches(s.OneOf, false)
	if err != nil {
		return nil, err
	}
	anyOf, nullAny, err := n.branches(s.AnyOf, true)
	if err != nil {
		return nil, err
	}
	nullBranch := nullAll || nullOne || nullAny
	if nullBranch {
		base.Nullable = true
	}

	props, required, err := n.properties(s)
	if err != nil {
		return nil, err
	}
	hasProps := props.Len() > 0
	branchCount := len(allOf) + len(oneOf) + len(anyOf)

	if !hasProps && branchCount == 0 {
		if hasComposition(s) && s.AdditionalProperties == nil {
			// every branch was null or unconstrained
			if nullBranch {
				return &ir.Never{Base: base}, nil
			}
			return &ir.Any{Base: base}, nil
		}
		return n.record(s, base)
	}

	ap, err := n.additional(s)
	if err != nil {
		return nil, err
	}
	if !hasProps && branchCount == 1 && s.Discriminator == nil && (ap == nil || ap.Schema == nil) {
		only := slices.Concat(allOf, oneOf, anyOf)[0]
		if m, ok := only.(ir.Model); ok {
			mergeBase(m.Common(), base)
			return m, nil
		}
	}
	disc, err := n.discriminator(s)
	if err != nil {
		return nil, err
	}

	obj := &ir.Object{Base: base, Discriminator: disc}
	switch {
	case hasProps && branchCount > 0:
		allOf = append(allOf, &ir.Object{Properties: props, Required: required, AdditionalProperties: ap})
	case hasProps:
		obj.Properties = props
		obj.Required = required
		obj.AdditionalProperties = ap
	default:
		obj.AdditionalProperties = ap
	}
	obj.AllOf = allOf
	obj.OneOf = oneOf
	obj.AnyOf = anyOf
	return obj, nil
}

// mergeBase folds the flags of a collapsed composition node into the
// branch that replaces it.
func mergeBase(dst *ir.Base, outer ir.Base) {
	dst.Nullable = dst.Nullable || outer.Nullable
	dst.ReadOnly = dst.ReadOnly || outer.ReadOnly
	dst.WriteOnly = dst.WriteOnly || outer.WriteOnly
	dst.Deprecated = dst.Deprecated || outer.Deprecated
	if outer.Description != "" {
		dst.Description = outer.Description
	}
	if outer.HasDefault {
		dst.Default = outer.Default
		dst.HasDefault = true
	}
}

// branches normalizes a composition list. Bare "type: null" branches are
// removed and reported through the returned flag; dropEmpty also removes
// branches without any constraint.
func (n *Normalizer) branches(list []*parser.Schema, dropEmpty bool) ([]ir.Node, bool, error) {
	var out []ir.Node
	hasNull := false
	for _, b := range list {
		if isBareNull(b) {
			hasNull = true
			continue
		}
		if dropEmpty && b.IsEmpty() {
			continue
		}
		node, err := n.normalize(b)
		if err != nil {
			return nil, false, err
		}
		out = append(out, node)
	}
	return out, hasNull, nil
}

func isBareNull(s *parser.Schema) bool {
	if s == nil || s.Ref != "" || s.Properties.Len() > 0 || hasComposition(s) {
		return false
	}
	types := s.Types()
	return len(types) == 1 && types[0] == "null"
}

// properties normalizes own properties and filters required names to the
// ones that are defined. The map is nil when there are no properties.
func (n *Normalizer) properties(s *parser.Schema) (*sequencedmap.Map[string, ir.Node], []string, error) {
	var props *sequencedmap.Map[string, ir.Node]
	if s.Properties.Len() > 0 {
		props = ir.NewProperties()
		for name, ps := range s.Properties.All() {
			node, err := n.normalize(ps)
			if err != nil {
				return nil, nil, err
			}
			props.Set(name, node)
		}
	}

	return props, n.requiredDefined(s, props), nil
}

// requiredDefined returns the distinct required names of s that are keys
// of props, warning about each one that is not.
func (n *Normalizer) requiredDefined(s *parser.Schema, props *sequencedmap.Map[string, ir.Node]) []string {
	var required []string
	for _, name := range s.Required {
		if !props.Has(name) {
			n.warn(s, "required", fmt.Sprintf("required property %q is not defined; dropped", name), name)
			continue
		}
		if !slices.Contains(required, name) {
			required = append(required, name)
		}
	}
	return required
}

// record builds the Record an object without own shape collapses into.
func (n *Normalizer) record(s *parser.Schema, base ir.Base) (ir.Node, error) {
	var value ir.Node = &ir.Any{}
	switch ap := s.AdditionalProperties.(type) {
	case bool:
		if !ap {
			value = &ir.Never{}
		}
	case *parser.Schema:
		if !ap.IsEmpty() {
			v, err := n.normalize(ap)
			if err != nil {
				return nil, err
			}
			value = v
		}
	}
	return &ir.Record{Base: base, Key: ir.StringKey(), Value: value}, nil
}

// additional normalizes additionalProperties next to own properties or
// composition, where "false" is dropped.
func (n *Normalizer) additional(s *parser.Schema) (*ir.Additional, error) {
	switch ap := s.AdditionalProperties.(type) {
	case bool:
		if ap {
			return &ir.Additional{Allowed: true}, nil
		}
	case *parser.Schema:
		if ap.IsEmpty() {
			return &ir.Additional{Allowed: true}, nil
		}
		v, err := n.normalize(ap)
		if err != nil {
			return nil, err
		}
		return &ir.Additional{Allowed: true, Schema: v}, nil
	}
	return nil, nil
}

func (n *Normalizer) discriminator(s *parser.Schema) (*ir.Discriminator, error) {
	if s.Discriminator == nil {
		return nil, nil
	}
	d := &ir.Discriminator{PropertyName: s.Discriminator.PropertyName}
	if len(s.Discriminator.Mapping) > 0 {
		d.Mapping = make(map[string]string, len(s.Discriminator.Mapping))
		for value, target := range s.Discriminator.Mapping {
			name := target
			if strings.Contains(target, "#") {
				var err error
				if name, err = n.namer.NameRef(target); err != nil {
					return nil, err
				}
			}
			d.Mapping[value] = name
		}
	}
	return d, nil
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
