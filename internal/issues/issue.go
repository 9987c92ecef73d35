// Package issues provides the diagnostic type shared by the normalizers and the compiler.
package issues

import (
	"fmt"

	"github.com/erraggy/oasir/internal/severity"
)

// Issue represents a single recoverable anomaly found while compiling a document.
type Issue struct {
	// Path is the canonical pointer or dotted location of the problematic node
	// (e.g., "#/components/schemas/Pet" or "operations.getThing.parameters.id")
	Path string `json:"path"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity"`
	// Field is the specific keyword that has the issue (e.g., "required", "items")
	Field string `json:"field,omitempty"`
	// Value is the problematic value (optional)
	Value any `json:"value,omitempty"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int `json:"column,omitempty"`
	// File is the source document key (empty for the root document)
	File string `json:"file,omitempty"`
}

// String returns a formatted string representation of the issue.
// Uses "⚠" for warnings and "ℹ" for informational notices.
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	path := i.Path
	if i.Field != "" {
		path += "." + i.Field
	}
	if i.Line > 0 {
		return fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, path, i.Line, i.Column, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, path, i.Message)
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}
