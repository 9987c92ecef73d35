// Package namegen synthesizes the names of compiled schemas.
//
// Every schema the compiler produces has a deterministic name: component
// schemas are named after the last meaningful token of their canonical
// pointer, and schemas the compiler synthesizes (parameter groups,
// operation bodies, responses, hoisted inline objects) are named after the
// operation or parent they belong to. A [Generator] decides those names;
// [Default] is the built-in policy and [NewTemplate] wraps it with a
// user-supplied text/template.
package namegen

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/oasir/internal/naming"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/parser"
)

// Generator produces schema names. Implementations must be deterministic
// and safe for concurrent use.
type Generator interface {
	// Component names the schema at a canonical pointer.
	Component(pointer string) string
	// ParameterGroup names the virtual object of one parameter location.
	ParameterGroup(operationID string, loc ir.Location) string
	// RequestBody names the virtual request body schema of an operation.
	RequestBody(operationID string) string
	// Response names the virtual response schema of an operation status.
	Response(operationID, status string) string
	// Inline names an inline object hoisted out of parent at path.
	Inline(parent string, path ...string) string
	// OperationID synthesizes an id for an operation that has none.
	OperationID(method, urlPath string) string
	// Unknown names the well-known unconstrained object.
	Unknown() string
}

// UnknownObject is the default name of the unconstrained object schema.
const UnknownObject = "UnknownObject"

// containerTokens are pointer tokens whose children are named definitions.
var containerTokens = map[string]bool{
	"schemas":     true,
	"definitions": true,
	"$defs":       true,
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be used as a name unchanged.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

type defaultGenerator struct{}

// Default returns the built-in naming policy.
func Default() Generator {
	return defaultGenerator{}
}

func (defaultGenerator) Component(pointer string) string {
	docKey, fragment := parser.SplitPointer(pointer)
	tokens, err := parser.PointerTokens(fragment)
	if err != nil || len(tokens) == 0 {
		return DocumentStem(docKey)
	}
	last := tokens[len(tokens)-1]
	if len(tokens) == 1 || containerTokens[tokens[len(tokens)-2]] {
		if IsIdentifier(last) {
			return last
		}
		return naming.Identifier(last, "Schema")
	}
	return naming.Identifier(strings.Join(tokens, " "), "Schema")
}

func (defaultGenerator) ParameterGroup(operationID string, loc ir.Location) string {
	op := naming.Identifier(operationID, "Operation")
	switch loc {
	case ir.LocationPath:
		return op + "ParamSchema"
	case ir.LocationQuery:
		return op + "QuerySchema"
	case ir.LocationHeader:
		return op + "HeaderSchema"
	case ir.LocationCookie:
		return op + "CookieSchema"
	}
	return op + naming.ToPascalCase(string(loc)) + "Schema"
}

func (defaultGenerator) RequestBody(operationID string) string {
	return naming.Identifier(operationID, "Operation") + "Body"
}

func (defaultGenerator) Response(operationID, status string) string {
	return naming.Identifier(operationID, "Operation") + naming.ToPascalCase(status) + "Response"
}

func (defaultGenerator) Inline(parent string, p ...string) string {
	return naming.Identifier(parent, "Schema") + naming.ToPascalCase(strings.Join(p, " "))
}

func (defaultGenerator) OperationID(method, urlPath string) string {
	return naming.ToCamelCase(method + " " + urlPath)
}

func (defaultGenerator) Unknown() string {
	return UnknownObject
}

// DocumentStem names a whole document: the base name of its location
// without extension, or "Root" for the root document.
func DocumentStem(docKey string) string {
	if docKey == "" {
		return "Root"
	}
	base := path.Base(strings.TrimSuffix(docKey, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return naming.Identifier(base, "Document")
}

// Unique returns base when it is free, otherwise base followed by the
// smallest numeric suffix starting at 2 that is free.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
