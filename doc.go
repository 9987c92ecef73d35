// Package oasir compiles OpenAPI 3.x schema definitions into a canonical
// intermediate representation for code generators.
//
// The pipeline has four stages, each in its own package:
//
//   - parser: loads the root document and every document it references,
//     rewriting all $ref strings to canonical pointers
//   - normalizer: turns raw schemas into the closed ir variant set and
//     turns operation parameters into per-location virtual schemas
//   - depgraph: orders named schemas leaves-first and isolates reference cycles
//   - reducer: folds composition (allOf, oneOf, anyOf) into unions and
//     intersections a target language can express
//
// The compiler package runs the whole pipeline:
//
//	result, err := compiler.CompileWithOptions(ctx,
//	    compiler.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range result.DependencyOrder() {
//	    fmt.Println(name)
//	}
//
// The oasir command exposes the same operations on the command line and as
// MCP tools (oasir mcp).
package oasir
