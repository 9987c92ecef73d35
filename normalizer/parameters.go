package normalizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasir/internal/severity"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// allowedStyles is the style whitelist of each location.
var allowedStyles = map[ir.Location][]ir.Style{
	ir.LocationPath:   {ir.StyleMatrix, ir.StyleLabel, ir.StyleSimple},
	ir.LocationQuery:  {ir.StyleForm, ir.StyleSpaceDelimited, ir.StylePipeDelimited, ir.StyleDeepObject},
	ir.LocationHeader: {ir.StyleSimple},
	ir.LocationCookie: {ir.StyleForm, ir.StyleCookie},
}

var defaultStyles = map[ir.Location]ir.Style{
	ir.LocationPath:   ir.StyleSimple,
	ir.LocationQuery:  ir.StyleForm,
	ir.LocationHeader: ir.StyleSimple,
	ir.LocationCookie: ir.StyleForm,
}

// DefaultStyle returns the style a parameter at loc has when none is given.
func DefaultStyle(loc ir.Location) ir.Style {
	return defaultStyles[loc]
}

// DefaultExplode returns the explode value of style when none is given.
func DefaultExplode(style ir.Style) bool {
	return style == ir.StyleForm || style == ir.StyleCookie
}

// Parameters normalizes the parameters of one operation and registers a
// virtual object schema for every location that has parameters.
//
// raw may contain "$ref" parameters. When two parameters share a location
// and name, the later one replaces the earlier one in place, so passing
// path-item parameters before operation parameters gives the operation
// level precedence. Header names are compared case-insensitively.
func (n *Normalizer) Parameters(operationID string, raw []*parser.Parameter) (*ir.OperationParameters, error) {
	resolved, err := n.resolveParameters(operationID, raw)
	if err != nil {
		return nil, err
	}

	out := &ir.OperationParameters{OperationID: operationID}
	for _, p := range resolved {
		param, err := n.parameter(operationID, p)
		if err != nil {
			return nil, err
		}
		out.All = append(out.All, param)
	}

	for _, loc := range ir.Locations {
		g, err := n.group(operationID, loc, out.All)
		if err != nil {
			return nil, err
		}
		switch loc {
		case ir.LocationPath:
			out.Path = g
		case ir.LocationQuery:
			out.Query = g
		case ir.LocationHeader:
			out.Header = g
		case ir.LocationCookie:
			out.Cookie = g
		}
	}
	return out, nil
}

func parameterKey(p *parser.Parameter) string {
	name := p.Name
	if p.In == string(ir.LocationHeader) {
		name = strings.ToLower(name)
	}
	return p.In + "\x00" + name
}

func (n *Normalizer) resolveParameters(operationID string, raw []*parser.Parameter) ([]*parser.Parameter, error) {
	var out []*parser.Parameter
	index := make(map[string]int, len(raw))
	for _, p := range raw {
		if p == nil {
			continue
		}
		if p.Ref != "" {
			resolved, err := n.resolver.ResolveParameter(p.Ref)
			if err != nil {
				return nil, fmt.Errorf("normalizer: operation %s: %w", operationID, err)
			}
			p = resolved
		}
		key := parameterKey(p)
		if i, ok := index[key]; ok {
			n.report(severity.SeverityInfo, p.Pointer, p.Line, p.Column, "parameters",
				fmt.Sprintf("parameter %q in %s overrides an earlier definition", p.Name, p.In), out[i].Pointer)
			out[i] = p
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out, nil
}

func (n *Normalizer) parameter(operationID string, p *parser.Parameter) (*ir.Parameter, error) {
	loc := ir.Location(p.In)
	allowed, ok := allowedStyles[loc]
	if !ok {
		return nil, &oaserrors.ParameterError{
			Kind:      oaserrors.ParameterLocation,
			Operation: operationID,
			Name:      p.Name,
			In:        p.In,
		}
	}

	style := ir.Style(p.Style)
	if style == "" {
		style = DefaultStyle(loc)
	} else if !slices.Contains(allowed, style) {
		return nil, &oaserrors.ParameterError{
			Kind:      oaserrors.ParameterStyle,
			Operation: operationID,
			Name:      p.Name,
			In:        p.In,
			Style:     p.Style,
		}
	}
	explode := DefaultExplode(style)
	if p.Explode != nil {
		explode = *p.Explode
	}

	required := p.Required
	if loc == ir.LocationPath && !required {
		n.report(severity.SeverityWarning, p.Pointer, p.Line, p.Column, "required",
			fmt.Sprintf("path parameter %q is not marked required; treating it as required", p.Name), false)
		required = true
	}

	raw, mediaType := p.Schema, ""
	if raw == nil {
		for mt, m := range p.Content.All() {
			if m == nil || m.Schema == nil {
				n.report(severity.SeverityWarning, p.Pointer, p.Line, p.Column, "content",
					fmt.Sprintf("media type %q of parameter %q has no schema; skipped", mt, p.Name), mt)
				continue
			}
			raw, mediaType = m.Schema, mt
			break
		}
	}

	var schema ir.Node
	if raw == nil {
		n.report(severity.SeverityWarning, p.Pointer, p.Line, p.Column, "schema",
			fmt.Sprintf("parameter %q has no schema; accepting any value", p.Name), nil)
		schema = &ir.Any{}
	} else {
		var err error
		if schema, err = n.normalize(raw); err != nil {
			return nil, err
		}
	}

	return &ir.Parameter{
		Name:          p.Name,
		In:            loc,
		Required:      required,
		Style:         style,
		Explode:       explode,
		AllowReserved: p.AllowReserved,
		Deprecated:    p.Deprecated,
		Description:   p.Description,
		MediaType:     mediaType,
		Schema:        schema,
		CoerceToArray: loc == ir.LocationQuery && n.isArray(raw),
		Pointer:       p.Pointer,
	}, nil
}

// isArray reports whether s, following "$ref" chains, declares an array.
func (n *Normalizer) isArray(s *parser.Schema) bool {
	for depth := 0; s != nil && depth < parser.MaxRefDepth; depth++ {
		if s.Ref == "" {
			types := s.Types()
			if !slices.Contains(types, "array") {
				return false
			}
			for _, t := range types {
				if t != "array" && t != "null" {
					return false
				}
			}
			return true
		}
		next, err := n.resolver.ResolveSchema(s.Ref)
		if err != nil {
			return false
		}
		s = next
	}
	return false
}

// group collects the parameters at loc into a virtual object schema.
func (n *Normalizer) group(operationID string, loc ir.Location, all []*ir.Parameter) (*ir.Group, error) {
	var list []*ir.Parameter
	for _, p := range all {
		if p.In == loc {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return &ir.Group{}, nil
	}

	props := ir.NewProperties()
	var required []string
	for _, p := range list {
		key := p.Name
		if loc == ir.LocationHeader {
			key = strings.ToLower(key)
		}
		props.Set(key, p.Schema)
		if p.Required {
			required = append(required, key)
		}
	}

	name := n.names.ParameterGroup(operationID, loc)
	if err := n.virtual.Add(name, "", &ir.Object{Properties: props, Required: required}); err != nil {
		return nil, fmt.Errorf("normalizer: operation %s: %w", operationID, err)
	}
	n.logger.Debug("registered parameter schema", "operation", operationID, "in", string(loc), "name", name)
	return &ir.Group{
		Name:       name,
		List:       list,
		VirtualRef: &ir.Ref{Name: name, Virtual: true},
	}, nil
}
