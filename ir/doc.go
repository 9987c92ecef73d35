// Package ir defines the canonical intermediate representation that every
// OpenAPI schema definition is normalized into.
//
// The representation is a closed set of variants. A [Node] is either a
// [Model] (one of [*Numeric], [*String], [*Boolean], [*Object], [*Array],
// [*Record], [*Union], [*Intersection], [*Any], [*Never]) or a [*Ref] to a
// named model. Null is never a variant of its own: nullability is the
// Nullable flag carried by every model's [Base], and the null literal is
// [NullLiteral], a nullable [Never].
//
// Models are built once by the normalizer and are treated as immutable
// afterwards. Stages that need a different shape work on a [Clone].
//
// Use [Visit] to dispatch over the variant set:
//
//	kind := ir.Visit[string](node, myVisitor{})
//
// Named models are kept in a [Registry], an insertion ordered arena that
// rejects a second normalization of the same name.
package ir
