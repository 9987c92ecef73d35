package ir

import (
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Node is a position in the IR that holds a schema: either a [Model] or a
// [*Ref]. The set of implementations is closed.
type Node interface {
	Kind() Kind
	isNode()
}

// Model is a concrete, non-reference variant.
type Model interface {
	Node
	// Common returns the metadata shared by every variant.
	Common() *Base
}

// Base is the metadata every model carries.
type Base struct {
	Nullable    bool   `json:"nullable,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	HasDefault  bool   `json:"-"`
}

// Common implements Model for every variant embedding Base.
func (b *Base) Common() *Base { return b }

// Numeric is a number or an integer.
type Numeric struct {
	Base
	Integer          bool          `json:"integer,omitempty"`
	Format           string        `json:"format,omitempty"`
	MultipleOf       *float64      `json:"multipleOf,omitempty"`
	Minimum          *float64      `json:"minimum,omitempty"`
	Maximum          *float64      `json:"maximum,omitempty"`
	ExclusiveMinimum *float64      `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64      `json:"exclusiveMaximum,omitempty"`
	Enum             []float64     `json:"enum,omitempty"`
	Extensibility    Extensibility `json:"extensibility"`
}

// String is a string, optionally constrained to an enum.
type String struct {
	Base
	Format        string        `json:"format,omitempty"`
	MinLength     *int          `json:"minLength,omitempty"`
	MaxLength     *int          `json:"maxLength,omitempty"`
	Pattern       string        `json:"pattern,omitempty"`
	Enum          []string      `json:"enum,omitempty"`
	Extensibility Extensibility `json:"extensibility"`
}

// Boolean is a boolean. Enum holds the distinct literals "true" and "false".
type Boolean struct {
	Base
	Enum          []string      `json:"enum,omitempty"`
	Extensibility Extensibility `json:"extensibility"`
}

// Additional describes the additionalProperties of an Object. Allowed is
// false for "additionalProperties: false"; Schema is set when extra
// properties are constrained.
type Additional struct {
	Allowed bool `json:"allowed"`
	Schema  Node `json:"schema,omitempty"`
}

// Discriminator names the property that selects a composition branch.
// Mapping values are schema names.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

// Object has named properties or composition branches. After
// normalization an object carries either properties or composition, never
// both: own properties next to composition are lifted into an AllOf
// fragment.
type Object struct {
	Base
	Properties           *sequencedmap.Map[string, Node] `json:"properties,omitempty"`
	Required             []string                        `json:"required,omitempty"`
	AdditionalProperties *Additional                     `json:"additionalProperties,omitempty"`
	AllOf                []Node                          `json:"allOf,omitempty"`
	OneOf                []Node                          `json:"oneOf,omitempty"`
	AnyOf                []Node                          `json:"anyOf,omitempty"`
	Discriminator        *Discriminator                  `json:"discriminator,omitempty"`
}

// HasComposition reports whether any composition list is non-empty.
func (o *Object) HasComposition() bool {
	return len(o.AllOf) > 0 || len(o.OneOf) > 0 || len(o.AnyOf) > 0
}

// IsRequired reports whether name is listed in Required.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Array is a list of Items.
type Array struct {
	Base
	Items       Node `json:"items"`
	UniqueItems bool `json:"uniqueItems,omitempty"`
	MinItems    *int `json:"minItems,omitempty"`
	MaxItems    *int `json:"maxItems,omitempty"`
}

// Record is a map from string keys to Value.
type Record struct {
	Base
	Key   *String `json:"key"`
	Value Node    `json:"value"`
}

// Union is a value matching any of Schemas. The normalizer builds unions
// for multi-type "type" lists; the reducer builds them for oneOf and anyOf,
// carrying over the object's discriminator.
type Union struct {
	Base
	Schemas       []Node         `json:"schemas"`
	Discriminator *Discriminator `json:"discriminator,omitempty"`
}

// Intersection is a value matching all of Schemas. Intersections are only
// built by the reducer.
type Intersection struct {
	Base
	Schemas []Node `json:"schemas"`
}

// Any admits every value.
type Any struct {
	Base
}

// Never admits no value. A nullable Never admits only null.
type Never struct {
	Base
}

// Ref is a reference to a named model.
type Ref struct {
	// Name is the generated name of the target.
	Name string `json:"name"`
	// Pointer is the canonical pointer of the target, empty for virtual refs.
	Pointer string `json:"pointer,omitempty"`
	// Virtual is set for refs to schemas synthesized during compilation.
	Virtual bool `json:"virtual,omitempty"`
	// Nullable is set by the reducer when a nullable position holds a ref.
	Nullable bool `json:"nullable,omitempty"`
	// Deferred marks a ref into a circular chain that must be emitted lazily.
	Deferred bool `json:"deferred,omitempty"`
}

func (*Numeric) Kind() Kind      { return KindNumeric }
func (*String) Kind() Kind       { return KindString }
func (*Boolean) Kind() Kind      { return KindBoolean }
func (*Object) Kind() Kind       { return KindObject }
func (*Array) Kind() Kind        { return KindArray }
func (*Record) Kind() Kind       { return KindRecord }
func (*Union) Kind() Kind        { return KindUnion }
func (*Intersection) Kind() Kind { return KindIntersection }
func (*Any) Kind() Kind          { return KindAny }
func (*Never) Kind() Kind        { return KindNever }
func (*Ref) Kind() Kind          { return KindRef }

func (*Numeric) isNode()      {}
func (*String) isNode()       {}
func (*Boolean) isNode()      {}
func (*Object) isNode()       {}
func (*Array) isNode()        {}
func (*Record) isNode()       {}
func (*Union) isNode()        {}
func (*Intersection) isNode() {}
func (*Any) isNode()          {}
func (*Never) isNode()        {}
func (*Ref) isNode()          {}

// NullLiteral returns a fresh null literal: a nullable Never.
func NullLiteral() *Never {
	return &Never{Base: Base{Nullable: true}}
}

// IsNullLiteral reports whether n admits only null.
func IsNullLiteral(n Node) bool {
	nv, ok := n.(*Never)
	return ok && nv.Nullable
}

// IsNullable reports whether n admits null, either through its own flag or,
// for refs, through the Nullable marker.
func IsNullable(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *Ref:
		return v.Nullable
	case Model:
		return v.Common().Nullable
	}
	return false
}

// StringKey returns the key schema used by records.
func StringKey() *String {
	return &String{}
}

// NewProperties returns an empty, ordered property map.
func NewProperties() *sequencedmap.Map[string, Node] {
	return sequencedmap.New[string, Node]()
}
