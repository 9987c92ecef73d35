package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref chain was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrPathTraversal indicates a path traversal attempt was blocked.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrUnsupportedSchemaType indicates a schema declared an unknown type.
	ErrUnsupportedSchemaType = errors.New("unsupported schema type")

	// ErrUnsupportedParameterStyle indicates a style not allowed for its location.
	ErrUnsupportedParameterStyle = errors.New("unsupported parameter style")

	// ErrUnsupportedParameterLocation indicates a parameter "in" value outside path, query, header and cookie.
	ErrUnsupportedParameterLocation = errors.New("unsupported parameter location")

	// ErrDoubleNormalization indicates the same canonical name was registered twice.
	ErrDoubleNormalization = errors.New("double normalization")
)

// ParseError represents a failure to decode a document.
type ParseError struct {
	// Path is the file path or document key
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a $ref pointer that cannot be resolved.
// Dangling pointers, reference chains that loop and refs escaping the
// base directory all surface as a ReferenceError.
type ReferenceError struct {
	// Ref is the canonical pointer that failed to resolve
	Ref string
	// RefType indicates the reference type: "local", "file", or "http"
	RefType string
	// IsCircular is true if this error is due to a $ref chain that loops
	IsCircular bool
	// IsPathTraversal is true if this error is due to a path traversal attempt
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	} else if e.IsPathTraversal {
		msg = "path traversal detected"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference or ErrPathTraversal
// when the corresponding flag is set.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.IsCircular
	case ErrPathTraversal:
		return e.IsPathTraversal
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// SchemaTypeError reports a schema whose "type" is not one of
// string, number, integer, boolean, object, array or null.
type SchemaTypeError struct {
	// Pointer is the canonical pointer of the offending schema
	Pointer string
	// Type is the rejected type value
	Type any
}

// Error returns a human-readable error message.
func (e *SchemaTypeError) Error() string {
	msg := fmt.Sprintf("unsupported schema type %v", e.Type)
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	return msg
}

// Unwrap returns nil as SchemaTypeError has no underlying cause.
func (e *SchemaTypeError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *SchemaTypeError) Is(target error) bool {
	return target == ErrUnsupportedSchemaType
}

// ParameterErrorKind distinguishes the two parameter rejections.
type ParameterErrorKind int

const (
	// ParameterStyle marks a style that is not allowed at the parameter's location.
	ParameterStyle ParameterErrorKind = iota
	// ParameterLocation marks an unknown "in" value.
	ParameterLocation
)

// ParameterError reports a parameter the normalizer refuses to process.
type ParameterError struct {
	// Kind says whether the style or the location was rejected
	Kind ParameterErrorKind
	// Operation is the operation identifier that declared the parameter
	Operation string
	// Name is the parameter name
	Name string
	// In is the declared location
	In string
	// Style is the declared style (empty for location errors)
	Style string
}

// Error returns a human-readable error message.
func (e *ParameterError) Error() string {
	var msg string
	if e.Kind == ParameterLocation {
		msg = fmt.Sprintf("unsupported parameter location %q", e.In)
	} else {
		msg = fmt.Sprintf("unsupported parameter style %q for location %q", e.Style, e.In)
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" (parameter %q", e.Name)
		if e.Operation != "" {
			msg += " in operation " + e.Operation
		}
		msg += ")"
	}
	return msg
}

// Unwrap returns nil as ParameterError has no underlying cause.
func (e *ParameterError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ParameterError) Is(target error) bool {
	switch target {
	case ErrUnsupportedParameterStyle:
		return e.Kind == ParameterStyle
	case ErrUnsupportedParameterLocation:
		return e.Kind == ParameterLocation
	}
	return false
}

// DoubleNormalizationError reports an attempt to register a canonical
// name that is already present in a schema registry.
type DoubleNormalizationError struct {
	// Name is the canonical schema name
	Name string
}

// Error returns a human-readable error message.
func (e *DoubleNormalizationError) Error() string {
	return fmt.Sprintf("schema %q was already normalized", e.Name)
}

// Unwrap returns nil as DoubleNormalizationError has no underlying cause.
func (e *DoubleNormalizationError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *DoubleNormalizationError) Is(target error) bool {
	return target == ErrDoubleNormalization
}
