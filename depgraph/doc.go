// Package depgraph orders named schemas so that every schema is emitted
// after the schemas it references.
//
// A graph is built from one or more sources of named models (usually
// [ir.Registry] values). Its edges are the direct named references of each
// model, as reported by [ir.References]. Schemas that take part in a
// reference cycle, including a schema that references itself, are never
// ordered: they are reported by [Graph.Circular] instead, and emitters are
// expected to reference them lazily.
//
// # Ordering
//
// Non-circular schemas are grouped into levels. A schema without ordered
// dependencies is at level zero; any other schema sits one level above its
// highest dependency. [Graph.Order] lists the levels from zero upwards, each
// sorted by name, so the result is deterministic across runs:
//
//	g := depgraph.Build(named, virtual)
//	for _, name := range g.Order() {
//	    emit(name)
//	}
//	for _, name := range g.Circular() {
//	    emitLazy(name)
//	}
//
// References to circular schemas and to names no source defines do not
// hold a schema back.
package depgraph
