// Package oaserrors provides structured error types for the oasir compiler.
//
// Import path: github.com/erraggy/oasir/oaserrors
//
// Every fatal condition raised while loading, normalizing or reducing a
// document is one of the types below. Callers distinguish them with
// [errors.Is] against the sentinels, or extract details with [errors.As].
//
// # Error Types
//
//   - [ParseError]: YAML/JSON decoding failures and structural issues
//   - [ReferenceError]: unresolvable $ref pointers, reference cycles, path traversal
//   - [ResourceLimitError]: depth, size and document count limits
//   - [ConfigError]: invalid options
//   - [SchemaTypeError]: a schema names a type outside the supported set
//   - [ParameterError]: an unsupported parameter style or location
//   - [DoubleNormalizationError]: a canonical name was registered twice
//
// # Sentinel Errors
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCircularReference]: matches [ReferenceError] with IsCircular=true
//   - [ErrPathTraversal]: matches [ReferenceError] with IsPathTraversal=true
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrConfig]: matches any [ConfigError]
//   - [ErrUnsupportedSchemaType]: matches any [SchemaTypeError]
//   - [ErrUnsupportedParameterStyle]: matches [ParameterError] of kind [ParameterStyle]
//   - [ErrUnsupportedParameterLocation]: matches [ParameterError] of kind [ParameterLocation]
//   - [ErrDoubleNormalization]: matches any [DoubleNormalizationError]
//
// # Usage
//
//	result, err := compiler.CompileWithOptions(ctx, compiler.WithFilePath("api.yaml"))
//	if err != nil {
//	    var styleErr *oaserrors.ParameterError
//	    if errors.As(err, &styleErr) {
//	        fmt.Println("bad parameter:", styleErr.Name, styleErr.Style)
//	    }
//	}
package oaserrors
