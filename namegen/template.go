package namegen

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oasir/internal/naming"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/parser"
)

// NameKind identifies what a name is being generated for.
type NameKind string

const (
	KindComponent      NameKind = "component"
	KindParameterGroup NameKind = "parameters"
	KindRequestBody    NameKind = "body"
	KindResponse       NameKind = "response"
	KindInline         NameKind = "inline"
	KindOperationID    NameKind = "operation"
	KindUnknown        NameKind = "unknown"
)

// NameContext is the data a name template is executed with.
type NameContext struct {
	// Kind is what is being named.
	Kind NameKind
	// Default is the name the built-in policy would produce.
	Default string
	// Pointer is the canonical pointer of a component schema.
	Pointer string
	// Document is the document key of a component schema.
	Document string
	// Operation is the operation id for operation-scoped names.
	Operation string
	// Location is the parameter location of a parameter group.
	Location string
	// Status is the response status of a response name.
	Status string
	// Method and Path identify an operation without an id.
	Method string
	Path   string
	// Parent and Segments locate a hoisted inline object.
	Parent   string
	Segments []string
}

// templateFuncs returns the function map available to name templates.
func templateFuncs() template.FuncMap {
	titleCaser := cases.Title(language.English)

	return template.FuncMap{
		"pascal":     naming.ToPascalCase,
		"camel":      naming.ToCamelCase,
		"snake":      naming.ToSnakeCase,
		"kebab":      naming.ToKebabCase,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"title":      titleCaser.String,
		"sanitize":   func(s string) string { return naming.Identifier(s, "Schema") },
		"trimPrefix": strings.TrimPrefix,
		"trimSuffix": strings.TrimSuffix,
		"replace":    strings.ReplaceAll,
		"join": func(sep string, parts ...string) string {
			return strings.Join(parts, sep)
		},
	}
}

type templateGenerator struct {
	base Generator
	tmpl *template.Template
}

// NewTemplate returns a Generator that renders every name through tmpl,
// starting from the names base would produce (Default when base is nil).
// The template is validated by executing it with a sample context.
//
// Example, prefixing component names only:
//
//	{{if eq .Kind "component"}}Api{{end}}{{.Default}}
func NewTemplate(tmpl string, base Generator) (Generator, error) {
	t, err := template.New("name").Funcs(templateFuncs()).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("namegen: invalid name template: %w", err)
	}
	sample := NameContext{
		Kind:      KindComponent,
		Default:   "Pet",
		Pointer:   "#/components/schemas/Pet",
		Operation: "getPet",
		Location:  string(ir.LocationPath),
		Status:    "200",
		Method:    "get",
		Path:      "/pets/{id}",
		Parent:    "Pet",
		Segments:  []string{"owner"},
	}
	var sb strings.Builder
	if err := t.Execute(&sb, sample); err != nil {
		return nil, fmt.Errorf("namegen: name template execution failed: %w", err)
	}
	if base == nil {
		base = Default()
	}
	return &templateGenerator{base: base, tmpl: t}, nil
}

func (g *templateGenerator) render(ctx NameContext) string {
	var sb strings.Builder
	if err := g.tmpl.Execute(&sb, ctx); err != nil {
		return ctx.Default
	}
	name := strings.TrimSpace(sb.String())
	if name == "" {
		return ctx.Default
	}
	if IsIdentifier(name) {
		return name
	}
	return naming.Identifier(name, ctx.Default)
}

func (g *templateGenerator) Component(pointer string) string {
	return g.render(NameContext{
		Kind:     KindComponent,
		Default:  g.base.Component(pointer),
		Pointer:  pointer,
		Document: parser.DocumentKey(pointer),
	})
}

func (g *templateGenerator) ParameterGroup(operationID string, loc ir.Location) string {
	return g.render(NameContext{
		Kind:      KindParameterGroup,
		Default:   g.base.ParameterGroup(operationID, loc),
		Operation: operationID,
		Location:  string(loc),
	})
}

func (g *templateGenerator) RequestBody(operationID string) string {
	return g.render(NameContext{Kind: KindRequestBody, Default: g.base.RequestBody(operationID), Operation: operationID})
}

func (g *templateGenerator) Response(operationID, status string) string {
	return g.render(NameContext{
		Kind:      KindResponse,
		Default:   g.base.Response(operationID, status),
		Operation: operationID,
		Status:    status,
	})
}

func (g *templateGenerator) Inline(parent string, p ...string) string {
	return g.render(NameContext{Kind: KindInline, Default: g.base.Inline(parent, p...), Parent: parent, Segments: p})
}

func (g *templateGenerator) OperationID(method, urlPath string) string {
	// Operation ids are identifiers of their own, not schema names.
	var sb strings.Builder
	ctx := NameContext{Kind: KindOperationID, Default: g.base.OperationID(method, urlPath), Method: method, Path: urlPath}
	if err := g.tmpl.Execute(&sb, ctx); err != nil || strings.TrimSpace(sb.String()) == "" {
		return ctx.Default
	}
	return naming.ToCamelCase(sb.String())
}

func (g *templateGenerator) Unknown() string {
	return g.render(NameContext{Kind: KindUnknown, Default: g.base.Unknown()})
}
