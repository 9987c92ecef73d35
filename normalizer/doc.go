// Package normalizer converts raw schema and parameter objects into the
// canonical IR.
//
// The schema normalizer maps every raw [parser.Schema] onto exactly one
// [ir.Node]. References are never inlined: a "$ref" becomes an [*ir.Ref]
// whose name is assigned by a [RefNamer], so circular schemas stay
// representable. Irregular input is folded into one canonical form:
//
//   - type arrays split into per-type models, "null" becoming a nullable flag
//   - a missing type is inferred from enum values, or classified as Any or Object
//   - objects without own properties collapse into records
//   - own properties next to composition are lifted into an extra allOf fragment
//   - legacy boolean exclusive bounds become the numeric exclusive fields
//
// Recoverable anomalies are recorded as diagnostics and never change the
// control flow. An unrecognized type is the only fatal schema error.
//
// The parameter normalizer groups an operation's parameters by location,
// resolves style and explode defaults, and registers one virtual object
// schema per non-empty location in the shared virtual registry.
package normalizer
