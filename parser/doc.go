// Package parser loads OpenAPI 3.x documents for the oasir compiler.
//
// Loading is the only step of the compiler that performs I/O. [Parser.Parse]
// reads the root document, then follows every $ref to other files or URLs and
// loads each referenced document exactly once. The resulting [ParseResult]
// holds the decoded root [Document] and a [RefResolver] over the whole
// document set.
//
// # Canonical pointers
//
// Every $ref is rewritten while decoding to "<documentKey>#<fragment>":
//
//	#/components/schemas/Pet              (root document, key "")
//	common.yaml#/components/schemas/Pet   (file, relative to the base directory)
//	https://example.com/pets.yaml#/Pet    (remote document)
//
// Fragments are re-escaped per RFC 6901 so that equal locations compare
// equal as strings. Downstream packages never see relative references.
//
// # Limits and safety
//
// File references may not escape the base directory. At most
// [MaxCachedDocuments] documents of at most [MaxFileSize] bytes are loaded,
// and $ref chains between reusable objects are limited to [MaxRefDepth].
// HTTP references need an explicit [HTTPFetcher] ([WithHTTPFetcher]).
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pet, err := result.Resolver.ResolveSchema("#/components/schemas/Pet")
package parser
