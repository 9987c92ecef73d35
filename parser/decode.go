package parser

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasir/oaserrors"
	"github.com/speakeasy-api/openapi/sequencedmap"
	"go.yaml.in/yaml/v4"
)

// Keywords that may sit next to "$ref" without changing what it means.
var ignorableRefSiblings = map[string]bool{
	"$ref":        true,
	"description": true,
	"summary":     true,
}

func (r *RefResolver) parseError(ptr string, n *yaml.Node, format string, args ...any) error {
	docKey := DocumentKey(ptr)
	pe := &oaserrors.ParseError{
		Path:    r.loader.location(docKey),
		Message: ptr + ": " + fmt.Sprintf(format, args...),
	}
	if pe.Path == "" {
		pe.Path = r.sourceName
	}
	if n != nil {
		pe.Line, pe.Column = n.Line, n.Column
	}
	return pe
}

// mappingPairs calls fn for every key/value pair of a mapping node, values dereferenced.
func mappingPairs(n *yaml.Node, fn func(key string, v *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, deref(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func (r *RefResolver) decodeString(ptr string, n *yaml.Node) (string, error) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", r.parseError(ptr, n, "expected a string")
	}
	return n.Value, nil
}

func (r *RefResolver) decodeBool(ptr string, n *yaml.Node) (bool, error) {
	var b bool
	if n == nil || n.Kind != yaml.ScalarNode || n.Decode(&b) != nil {
		return false, r.parseError(ptr, n, "expected a boolean")
	}
	return b, nil
}

func (r *RefResolver) decodeFloat(ptr string, n *yaml.Node) (*float64, error) {
	var f float64
	if n == nil || n.Kind != yaml.ScalarNode || n.Decode(&f) != nil {
		return nil, r.parseError(ptr, n, "expected a number")
	}
	return &f, nil
}

func (r *RefResolver) decodeInt(ptr string, n *yaml.Node) (*int, error) {
	var i int
	if n == nil || n.Kind != yaml.ScalarNode || n.Decode(&i) != nil {
		return nil, r.parseError(ptr, n, "expected an integer")
	}
	return &i, nil
}

func (r *RefResolver) decodeAny(ptr string, n *yaml.Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, r.parseError(ptr, n, "invalid value: %v", err)
	}
	return v, nil
}

func (r *RefResolver) decodeStrings(ptr string, n *yaml.Node) ([]string, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, r.parseError(ptr, n, "expected a list of strings")
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		s, err := r.decodeString(ptr, deref(c))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RefResolver) decodeRef(ptr string, n *yaml.Node) (string, error) {
	raw, err := r.decodeString(Child(ptr, "$ref"), n)
	if err != nil {
		return "", err
	}
	return r.loader.canonicalize(DocumentKey(ptr), raw)
}

// decodeSchema decodes the schema node n located at the canonical pointer ptr.
// Results are memoized per pointer.
func (r *RefResolver) decodeSchema(ptr string, n *yaml.Node) (*Schema, error) {
	if s, ok := r.schemas[ptr]; ok {
		return s, nil
	}
	n = deref(n)
	s := &Schema{Pointer: ptr}
	if n != nil {
		s.Line, s.Column = n.Line, n.Column
	}
	r.schemas[ptr] = s

	if n == nil {
		return s, nil
	}
	if n.Kind == yaml.ScalarNode {
		if n.ShortTag() == "!!null" {
			return s, nil
		}
		b, err := r.decodeBool(ptr, n)
		if err != nil {
			delete(r.schemas, ptr)
			return nil, r.parseError(ptr, n, "schema must be an object or a boolean")
		}
		s.Bool = &b
		return s, nil
	}
	if n.Kind != yaml.MappingNode {
		delete(r.schemas, ptr)
		return nil, r.parseError(ptr, n, "schema must be an object or a boolean")
	}

	var siblings []string
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		if !ignorableRefSiblings[key] && !strings.HasPrefix(key, "x-") {
			siblings = append(siblings, key)
		}
		return r.decodeSchemaKeyword(s, key, v)
	})
	if err != nil {
		delete(r.schemas, ptr)
		return nil, err
	}
	if s.Ref != "" && len(siblings) > 0 {
		s.RefSiblings = siblings
	}
	return s, nil
}

func (r *RefResolver) decodeSchemaKeyword(s *Schema, key string, v *yaml.Node) error {
	ptr := Child(s.Pointer, key)
	var err error
	switch key {
	case "$ref":
		s.Ref, err = r.decodeRef(s.Pointer, v)
	case "type":
		if v != nil && v.Kind == yaml.SequenceNode {
			s.Type, err = r.decodeStrings(ptr, v)
		} else {
			s.Type, err = r.decodeString(ptr, v)
		}
	case "format":
		s.Format, err = r.decodeString(ptr, v)
	case "title":
		s.Title, err = r.decodeString(ptr, v)
	case "description":
		s.Description, err = r.decodeString(ptr, v)
	case "pattern":
		s.Pattern, err = r.decodeString(ptr, v)
	case "default":
		s.HasDefault = true
		s.Default, err = r.decodeAny(ptr, v)
	case "const":
		s.HasConst = true
		s.Const, err = r.decodeAny(ptr, v)
	case "enum":
		if v == nil || v.Kind != yaml.SequenceNode {
			return r.parseError(ptr, v, "enum must be a list")
		}
		s.HasEnum = true
		s.Enum = make([]any, 0, len(v.Content))
		for _, c := range v.Content {
			val, err := r.decodeAny(ptr, deref(c))
			if err != nil {
				return err
			}
			s.Enum = append(s.Enum, val)
		}
	case "nullable":
		s.Nullable, err = r.decodeBool(ptr, v)
	case "readOnly":
		s.ReadOnly, err = r.decodeBool(ptr, v)
	case "writeOnly":
		s.WriteOnly, err = r.decodeBool(ptr, v)
	case "deprecated":
		s.Deprecated, err = r.decodeBool(ptr, v)
	case "uniqueItems":
		s.UniqueItems, err = r.decodeBool(ptr, v)
	case "multipleOf":
		s.MultipleOf, err = r.decodeFloat(ptr, v)
	case "maximum":
		s.Maximum, err = r.decodeFloat(ptr, v)
	case "minimum":
		s.Minimum, err = r.decodeFloat(ptr, v)
	case "exclusiveMaximum":
		s.ExclusiveMaximum, err = r.decodeExclusive(ptr, v)
	case "exclusiveMinimum":
		s.ExclusiveMinimum, err = r.decodeExclusive(ptr, v)
	case "minLength":
		s.MinLength, err = r.decodeInt(ptr, v)
	case "maxLength":
		s.MaxLength, err = r.decodeInt(ptr, v)
	case "minItems":
		s.MinItems, err = r.decodeInt(ptr, v)
	case "maxItems":
		s.MaxItems, err = r.decodeInt(ptr, v)
	case "items":
		if v != nil && v.Kind == yaml.SequenceNode {
			return r.parseError(ptr, v, "tuple-form items is not supported")
		}
		s.Items, err = r.decodeSchema(ptr, v)
	case "properties":
		s.Properties, err = r.decodeSchemaMap(ptr, v)
	case "required":
		s.Required, err = r.decodeStrings(ptr, v)
	case "additionalProperties":
		if v != nil && v.Kind == yaml.ScalarNode {
			s.AdditionalProperties, err = r.decodeBool(ptr, v)
		} else {
			s.AdditionalProperties, err = r.decodeSchema(ptr, v)
		}
	case "allOf":
		s.AllOf, err = r.decodeSchemaList(ptr, v)
	case "oneOf":
		s.OneOf, err = r.decodeSchemaList(ptr, v)
	case "anyOf":
		s.AnyOf, err = r.decodeSchemaList(ptr, v)
	case "discriminator":
		s.Discriminator, err = r.decodeDiscriminator(ptr, v)
	default:
		if strings.HasPrefix(key, "x-") {
			var ext any
			ext, err = r.decodeAny(ptr, v)
			if err == nil {
				if s.Extensions == nil {
					s.Extensions = make(map[string]any)
				}
				s.Extensions[key] = ext
			}
		}
	}
	return err
}

// decodeExclusive accepts the boolean (OAS 3.0) and numeric (OAS 3.1) forms.
func (r *RefResolver) decodeExclusive(ptr string, v *yaml.Node) (any, error) {
	if v != nil && v.Kind == yaml.ScalarNode && v.ShortTag() == "!!bool" {
		return r.decodeBool(ptr, v)
	}
	f, err := r.decodeFloat(ptr, v)
	if err != nil {
		return nil, r.parseError(ptr, v, "expected a boolean or a number")
	}
	return *f, nil
}

func (r *RefResolver) decodeSchemaMap(ptr string, v *yaml.Node) (*sequencedmap.Map[string, *Schema], error) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, v, "expected a mapping of schemas")
	}
	m := sequencedmap.New[string, *Schema]()
	err := mappingPairs(v, func(name string, sv *yaml.Node) error {
		s, err := r.decodeSchema(Child(ptr, name), sv)
		if err != nil {
			return err
		}
		if !m.Has(name) {
			m.Set(name, s)
		}
		return nil
	})
	return m, err
}

func (r *RefResolver) decodeSchemaList(ptr string, v *yaml.Node) ([]*Schema, error) {
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil, r.parseError(ptr, v, "expected a list of schemas")
	}
	out := make([]*Schema, 0, len(v.Content))
	for i, c := range v.Content {
		s, err := r.decodeSchema(fmt.Sprintf("%s/%d", ptr, i), c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RefResolver) decodeDiscriminator(ptr string, v *yaml.Node) (*Discriminator, error) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, v, "discriminator must be an object")
	}
	d := &Discriminator{}
	err := mappingPairs(v, func(key string, val *yaml.Node) error {
		var err error
		switch key {
		case "propertyName":
			d.PropertyName, err = r.decodeString(Child(ptr, key), val)
		case "mapping":
			if val == nil || val.Kind != yaml.MappingNode {
				return r.parseError(Child(ptr, key), val, "mapping must be an object")
			}
			d.Mapping = make(map[string]string, len(val.Content)/2)
			err = mappingPairs(val, func(k string, target *yaml.Node) error {
				raw, err := r.decodeString(Child(ptr, key), target)
				if err != nil {
					return err
				}
				// Bare names refer to component schemas; anything else is a reference.
				if strings.ContainsAny(raw, "#/") {
					raw, err = r.loader.canonicalize(DocumentKey(ptr), raw)
					if err != nil {
						return err
					}
				}
				d.Mapping[k] = raw
				return nil
			})
		}
		return err
	})
	return d, err
}

func (r *RefResolver) decodeContent(ptr string, v *yaml.Node) (*sequencedmap.Map[string, *MediaType], error) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, v, "content must be a mapping of media types")
	}
	m := sequencedmap.New[string, *MediaType]()
	err := mappingPairs(v, func(mediaType string, mv *yaml.Node) error {
		mt := &MediaType{}
		if mv != nil && mv.Kind == yaml.MappingNode {
			if sv := mappingValue(mv, "schema"); sv != nil {
				s, err := r.decodeSchema(Child(Child(ptr, mediaType), "schema"), sv)
				if err != nil {
					return err
				}
				mt.Schema = s
			}
		}
		if !m.Has(mediaType) {
			m.Set(mediaType, mt)
		}
		return nil
	})
	return m, err
}

// decodeParameter decodes a parameter object. Results are memoized per pointer.
func (r *RefResolver) decodeParameter(ptr string, n *yaml.Node) (*Parameter, error) {
	if p, ok := r.parameters[ptr]; ok {
		return p, nil
	}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "parameter must be an object")
	}
	p := &Parameter{Pointer: ptr, Line: n.Line, Column: n.Column}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		kp := Child(ptr, key)
		var err error
		switch key {
		case "$ref":
			p.Ref, err = r.decodeRef(ptr, v)
		case "name":
			p.Name, err = r.decodeString(kp, v)
		case "in":
			p.In, err = r.decodeString(kp, v)
		case "description":
			p.Description, err = r.decodeString(kp, v)
		case "style":
			p.Style, err = r.decodeString(kp, v)
		case "required":
			p.Required, err = r.decodeBool(kp, v)
		case "deprecated":
			p.Deprecated, err = r.decodeBool(kp, v)
		case "allowReserved":
			p.AllowReserved, err = r.decodeBool(kp, v)
		case "explode":
			var b bool
			b, err = r.decodeBool(kp, v)
			p.Explode = &b
		case "schema":
			p.Schema, err = r.decodeSchema(kp, v)
		case "content":
			p.Content, err = r.decodeContent(kp, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	r.parameters[ptr] = p
	return p, nil
}

func (r *RefResolver) decodeParameterList(ptr string, v *yaml.Node) ([]*Parameter, error) {
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil, r.parseError(ptr, v, "parameters must be a list")
	}
	out := make([]*Parameter, 0, len(v.Content))
	for i, c := range v.Content {
		p, err := r.decodeParameter(fmt.Sprintf("%s/%d", ptr, i), c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *RefResolver) decodeRequestBody(ptr string, n *yaml.Node) (*RequestBody, error) {
	if b, ok := r.bodies[ptr]; ok {
		return b, nil
	}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "request body must be an object")
	}
	b := &RequestBody{Pointer: ptr}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			b.Ref, err = r.decodeRef(ptr, v)
		case "description":
			b.Description, err = r.decodeString(Child(ptr, key), v)
		case "required":
			b.Required, err = r.decodeBool(Child(ptr, key), v)
		case "content":
			b.Content, err = r.decodeContent(Child(ptr, key), v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	r.bodies[ptr] = b
	return b, nil
}

func (r *RefResolver) decodeResponse(ptr string, n *yaml.Node) (*Response, error) {
	if resp, ok := r.responses[ptr]; ok {
		return resp, nil
	}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "response must be an object")
	}
	resp := &Response{Pointer: ptr}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			resp.Ref, err = r.decodeRef(ptr, v)
		case "description":
			resp.Description, err = r.decodeString(Child(ptr, key), v)
		case "content":
			resp.Content, err = r.decodeContent(Child(ptr, key), v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	r.responses[ptr] = resp
	return resp, nil
}

func (r *RefResolver) decodeOperation(ptr string, n *yaml.Node) (*Operation, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "operation must be an object")
	}
	op := &Operation{Pointer: ptr}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		kp := Child(ptr, key)
		var err error
		switch key {
		case "operationId":
			op.OperationID, err = r.decodeString(kp, v)
		case "summary":
			op.Summary, err = r.decodeString(kp, v)
		case "tags":
			op.Tags, err = r.decodeStrings(kp, v)
		case "deprecated":
			op.Deprecated, err = r.decodeBool(kp, v)
		case "parameters":
			op.Parameters, err = r.decodeParameterList(kp, v)
		case "requestBody":
			op.RequestBody, err = r.decodeRequestBody(kp, v)
		case "responses":
			if v == nil || v.Kind != yaml.MappingNode {
				return r.parseError(kp, v, "responses must be an object")
			}
			op.Responses = sequencedmap.New[string, *Response]()
			err = mappingPairs(v, func(status string, rv *yaml.Node) error {
				if strings.HasPrefix(status, "x-") {
					return nil
				}
				resp, err := r.decodeResponse(Child(kp, status), rv)
				if err != nil {
					return err
				}
				if !op.Responses.Has(status) {
					op.Responses.Set(status, resp)
				}
				return nil
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (r *RefResolver) decodePathItem(ptr string, n *yaml.Node) (*PathItem, error) {
	if item, ok := r.pathItems[ptr]; ok {
		return item, nil
	}
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "path item must be an object")
	}
	item := &PathItem{Pointer: ptr}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		kp := Child(ptr, key)
		switch key {
		case "$ref":
			ref, err := r.decodeRef(ptr, v)
			item.Ref = ref
			return err
		case "parameters":
			params, err := r.decodeParameterList(kp, v)
			item.Parameters = params
			return err
		}
		method := strings.ToLower(key)
		if item.Operation(method) != nil || !isMethod(method) {
			return nil
		}
		op, err := r.decodeOperation(kp, v)
		if err != nil {
			return err
		}
		item.setOperation(method, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.pathItems[ptr] = item
	return item, nil
}

func isMethod(m string) bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// decodeDocument decodes the root of the document with the given key.
func (r *RefResolver) decodeDocument(docKey string, root *yaml.Node) (*Document, error) {
	ptr := docKey + "#"
	n := deref(root)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, n, "document root must be an object")
	}
	if mappingValue(n, "swagger") != nil {
		return nil, r.parseError(ptr, n, "Swagger 2.0 documents are not supported; convert to OpenAPI 3.x first")
	}
	versionNode := mappingValue(n, "openapi")
	if versionNode == nil {
		return nil, r.parseError(ptr, n, "missing openapi version field")
	}

	doc := &Document{
		Paths:      sequencedmap.New[string, *PathItem](),
		Components: &Components{},
	}
	err := mappingPairs(n, func(key string, v *yaml.Node) error {
		kp := Child(ptr, key)
		var err error
		switch key {
		case "openapi":
			doc.OpenAPI, err = r.decodeString(kp, v)
			if err == nil && !strings.HasPrefix(doc.OpenAPI, "3.") {
				err = r.parseError(kp, v, "unsupported OpenAPI version %q", doc.OpenAPI)
			}
		case "info":
			doc.Info, err = r.decodeInfo(kp, v)
		case "paths":
			if v == nil || v.Kind != yaml.MappingNode {
				return r.parseError(kp, v, "paths must be an object")
			}
			err = mappingPairs(v, func(p string, pv *yaml.Node) error {
				if strings.HasPrefix(p, "x-") {
					return nil
				}
				item, err := r.decodePathItem(Child(kp, p), pv)
				if err != nil {
					return err
				}
				if !doc.Paths.Has(p) {
					doc.Paths.Set(p, item)
				}
				return nil
			})
		case "components":
			doc.Components, err = r.decodeComponents(kp, v)
		default:
			if strings.HasPrefix(key, "x-") {
				var ext any
				if ext, err = r.decodeAny(kp, v); err == nil {
					if doc.Extensions == nil {
						doc.Extensions = make(map[string]any)
					}
					doc.Extensions[key] = ext
				}
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *RefResolver) decodeInfo(ptr string, v *yaml.Node) (*Info, error) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, v, "info must be an object")
	}
	info := &Info{}
	if t := mappingValue(v, "title"); t != nil {
		info.Title = t.Value
	}
	if ver := mappingValue(v, "version"); ver != nil {
		info.Version = ver.Value
	}
	return info, nil
}

func (r *RefResolver) decodeComponents(ptr string, v *yaml.Node) (*Components, error) {
	if v == nil || v.Kind != yaml.MappingNode {
		return nil, r.parseError(ptr, v, "components must be an object")
	}
	c := &Components{}
	err := mappingPairs(v, func(key string, sv *yaml.Node) error {
		kp := Child(ptr, key)
		if sv == nil {
			return nil
		}
		if sv.Kind != yaml.MappingNode {
			return r.parseError(kp, sv, "expected a mapping")
		}
		var err error
		switch key {
		case "schemas":
			c.Schemas, err = r.decodeSchemaMap(kp, sv)
		case "parameters":
			c.Parameters = sequencedmap.New[string, *Parameter]()
			err = mappingPairs(sv, func(name string, pv *yaml.Node) error {
				p, err := r.decodeParameter(Child(kp, name), pv)
				if err == nil && !c.Parameters.Has(name) {
					c.Parameters.Set(name, p)
				}
				return err
			})
		case "requestBodies":
			c.RequestBodies = sequencedmap.New[string, *RequestBody]()
			err = mappingPairs(sv, func(name string, bv *yaml.Node) error {
				b, err := r.decodeRequestBody(Child(kp, name), bv)
				if err == nil && !c.RequestBodies.Has(name) {
					c.RequestBodies.Set(name, b)
				}
				return err
			})
		case "responses":
			c.Responses = sequencedmap.New[string, *Response]()
			err = mappingPairs(sv, func(name string, rv *yaml.Node) error {
				resp, err := r.decodeResponse(Child(kp, name), rv)
				if err == nil && !c.Responses.Has(name) {
					c.Responses.Set(name, resp)
				}
				return err
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
