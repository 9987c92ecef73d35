// Package compiler runs the whole schema pipeline over a parsed document
// set and produces the IR a code generator consumes.
//
// # Pipeline
//
// Compile works in three stages.
//
//  1. Named schemas. Every entry of the root components.schemas is queued
//     in source order. Each queued pointer is resolved, normalized and
//     registered. References met along the way, including references into
//     external documents, are queued too, until the queue is empty.
//  2. Operations. Paths are walked in source order. Each operation gets its
//     path-item and operation parameters normalized into per-location
//     groups. Inline JSON request bodies and responses become virtual
//     schemas. Operations are independent and run concurrently, bounded by
//     [WithConcurrency].
//  3. Graph. The dependency graph is built over named and virtual schemas.
//
// # Names
//
// A referenced pointer is named by the name generator's Component policy.
// When two pointers from different documents yield the same name, the
// later one is prefixed with its document stem and, if that is still
// taken, given a numeric suffix. The root document is drained first, so
// its names never change.
//
// Names assigned while operations run concurrently are provisional and are
// fixed up in operation order once all operations finished, so a compile
// is deterministic regardless of scheduling.
//
// # Reduction
//
// [Result.Reducer] returns a reducer wired to the result's registries and
// circular set. After reducing, [Result.Finalize] rebuilds the graph over
// every schema the reducers materialized.
//
// Example:
//
//	res, err := compiler.CompileWithOptions(ctx, compiler.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    return err
//	}
//	order, circular := res.DependencyOrder()
package compiler
