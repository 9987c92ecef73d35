// Package reducer reduces canonical IR models into the minimal algebra an
// emitter renders: unions of variants, intersections of object fragments,
// and scalar or composite leaves.
//
// # Rules
//
//   - allOf with one branch collapses to that branch, which inherits the
//     object's nullability and metadata. Two or more branches become an
//     [ir.Intersection], or a single merged object with [WithMergeAllOf]
//     when every branch is a plain object.
//   - oneOf and anyOf with one branch collapse likewise. Two or more become
//     an [ir.Union]. Nested unions are flattened and duplicate branches are
//     removed, keeping the order of first occurrence, so A|(B|C) reduces
//     like A|B|C and A|(A|A) reduces to A.
//   - Never branches drop out of unions and Any operands drop out of
//     intersections. Any absorbs a union; Never absorbs an intersection.
//   - Nullability is written as a flag on the produced node by default.
//     [NullAsBranch] writes it as an explicit [ir.NullLiteral] branch
//     instead. [ToBranchForm] and [ToWrapperForm] convert between the two.
//   - Refs to circular schemas (see [WithCircular]) are marked Deferred.
//   - Every ref is recorded in [Reducer.Used]. Virtual refs are looked up
//     in the registries given to [WithSchemas] and materialized into
//     [Reducer.Materialized].
//
// A Reducer accumulates Used and Materialized across calls and is not safe
// for concurrent use.
package reducer
