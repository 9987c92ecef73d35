package parser

import (
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Document is the root of an OpenAPI 3.x document.
//
// Every $ref string anywhere in the tree has already been rewritten to a
// canonical pointer (see [RefResolver.Canonicalize]), and every object
// carries its own canonical Pointer.
type Document struct {
	OpenAPI    string
	Info       *Info
	Paths      *sequencedmap.Map[string, *PathItem]
	Components *Components
	Extensions map[string]any
}

// Info holds the document title and version.
type Info struct {
	Title   string
	Version string
}

// Components holds the reusable objects of a document in source order.
type Components struct {
	Schemas       *sequencedmap.Map[string, *Schema]
	Parameters    *sequencedmap.Map[string, *Parameter]
	RequestBodies *sequencedmap.Map[string, *RequestBody]
	Responses     *sequencedmap.Map[string, *Response]
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Ref        string
	Pointer    string
	Parameters []*Parameter

	Get     *Operation
	Put     *Operation
	Post    *Operation
	Delete  *Operation
	Options *Operation
	Head    *Operation
	Patch   *Operation
	Trace   *Operation
	Query   *Operation
}

// Methods lists the HTTP methods of a PathItem in declaration order.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// Operation returns the operation for method (lowercase), or nil.
func (p *PathItem) Operation(method string) *Operation {
	switch method {
	case "get":
		return p.Get
	case "put":
		return p.Put
	case "post":
		return p.Post
	case "delete":
		return p.Delete
	case "options":
		return p.Options
	case "head":
		return p.Head
	case "patch":
		return p.Patch
	case "trace":
		return p.Trace
	case "query":
		return p.Query
	}
	return nil
}

func (p *PathItem) setOperation(method string, op *Operation) bool {
	switch method {
	case "get":
		p.Get = op
	case "put":
		p.Put = op
	case "post":
		p.Post = op
	case "delete":
		p.Delete = op
	case "options":
		p.Options = op
	case "head":
		p.Head = op
	case "patch":
		p.Patch = op
	case "trace":
		p.Trace = op
	case "query":
		p.Query = op
	default:
		return false
	}
	return true
}

// Operation is a single API operation on a path.
type Operation struct {
	OperationID string
	Summary     string
	Tags        []string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   *sequencedmap.Map[string, *Response]
	Pointer     string
}

// Parameter is a raw parameter object.
type Parameter struct {
	Ref           string
	Name          string
	In            string
	Description   string
	Required      bool
	Deprecated    bool
	Style         string
	Explode       *bool
	AllowReserved bool
	Schema        *Schema
	Content       *sequencedmap.Map[string, *MediaType]

	Pointer string
	Line    int
	Column  int
}

// RequestBody is a raw request body object.
type RequestBody struct {
	Ref         string
	Description string
	Required    bool
	Content     *sequencedmap.Map[string, *MediaType]
	Pointer     string
}

// Response is a raw response object.
type Response struct {
	Ref         string
	Description string
	Content     *sequencedmap.Map[string, *MediaType]
	Pointer     string
}

// MediaType pairs a media type name with its schema.
type MediaType struct {
	Schema *Schema
}

// Discriminator is the raw discriminator object.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}

// Schema is a raw, pre-normalization schema object. It keeps every
// keyword the normalizer reads, in the shape it was written.
type Schema struct {
	// Ref is the canonical pointer of a "$ref" schema.
	Ref string
	// RefSiblings lists keywords written next to "$ref"; they are ignored.
	RefSiblings []string

	// Bool is set for the boolean schemas true and false.
	Bool *bool

	// Type is nil, a string, or a []string (OAS 3.1 type arrays).
	Type        any
	Format      string
	Title       string
	Description string
	Default     any
	HasDefault  bool
	Enum        []any
	HasEnum     bool
	Const       any
	HasConst    bool

	Nullable   bool
	ReadOnly   bool
	WriteOnly  bool
	Deprecated bool

	MultipleOf *float64
	Maximum    *float64
	Minimum    *float64
	// ExclusiveMaximum and ExclusiveMinimum are a bool (OAS 3.0) or a float64 (OAS 3.1).
	ExclusiveMaximum any
	ExclusiveMinimum any

	MinLength *int
	MaxLength *int
	Pattern   string

	Items       *Schema
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	Properties *sequencedmap.Map[string, *Schema]
	Required   []string
	// AdditionalProperties is nil, a bool, or a *Schema.
	AdditionalProperties any

	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	Discriminator *Discriminator
	Extensions    map[string]any

	// Pointer is the canonical location of this schema.
	Pointer string
	Line    int
	Column  int
}

// IsEmpty reports whether the schema carries no constraining keyword ({}).
// Annotations such as title, description and x- extensions are ignored.
func (s *Schema) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Ref == "" && s.Bool == nil && s.Type == nil && s.Format == "" &&
		!s.HasEnum && !s.HasConst && !s.HasDefault && !s.Nullable && !s.ReadOnly && !s.WriteOnly &&
		s.MultipleOf == nil && s.Maximum == nil && s.Minimum == nil &&
		s.ExclusiveMaximum == nil && s.ExclusiveMinimum == nil &&
		s.MinLength == nil && s.MaxLength == nil && s.Pattern == "" &&
		s.Items == nil && s.MinItems == nil && s.MaxItems == nil && !s.UniqueItems &&
		s.Properties.Len() == 0 && len(s.Required) == 0 && s.AdditionalProperties == nil &&
		len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 && s.Discriminator == nil
}

// Types returns the declared types as a slice. A string type yields a
// one-element slice; no type yields nil.
func (s *Schema) Types() []string {
	switch t := s.Type.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	}
	return nil
}
