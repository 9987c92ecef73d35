// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oasir compiler as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/ir"
)

const serverInstructions = `oasir MCP server: compiles OpenAPI schema definitions into a canonical IR, orders them by dependency, normalizes operation parameters and reduces schemas into a union/intersection algebra.

Configuration: All defaults are configurable via OASIR_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASIR_CACHE_FILE_TTL (default: 15m) - cache TTL for local file documents
- OASIR_CACHE_URL_TTL (default: 5m) - cache TTL for URL-fetched documents
- OASIR_CACHE_ENABLED (default: true) - disable document caching entirely
- OASIR_LIST_LIMIT (default: 100) - default number of schemas listed by compile
- OASIR_CONCURRENCY (default: GOMAXPROCS) - operations normalized at once
- OASIR_ENUM_EXTENSIBILITY (default: closed) - extensibility of enums without x-extensible-enum
- OASIR_NULL_STYLE (default: wrapper) - default null style of the reduce tool
- OASIR_ALLOW_PRIVATE_IPS (default: false) - allow URL inputs on private networks

Caching: Parsed documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. Every call compiles afresh.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasir", Version: oasir.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile an OpenAPI document into the canonical schema IR. Returns the named schemas (component and externally referenced), the virtual schemas synthesized for parameter groups and inline bodies, a summary of each operation, the circular set and diagnostics. Use detail=true to include each schema's IR model; use offset/limit to page through schemas of large documents.",
	}, handleCompile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dependency_order",
		Description: "Compute the dependency order of the compiled schemas: non-circular names with their dependencies first, grouped by level, plus the circular set, each reference cycle and names referenced but undefined. With roots, also returns the schemas reachable from those names in emission order.",
	}, handleDependencyOrder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_parameters",
		Description: "Normalize the parameters of one operation. Returns each parameter with its resolved style, explode flag and schema, grouped by location (path, query, header, cookie), and the virtual object schema synthesized for every non-empty group.",
	}, handleNormalizeParameters)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reduce",
		Description: "Reduce one named or virtual schema into the union/intersection algebra a code generator renders. Options: null_style (wrapper or branch), merge_allof to merge plain object intersections, hoist_inline to lift nested inline objects into named schemas. Returns the reduced expression, the names it uses, the schemas materialized along the way and the finalized dependency order.",
	}, handleReduce)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// toPlain converts an IR value into plain JSON values (maps, slices,
// strings, numbers), so tool outputs carry the IR's own encoding.
func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding IR: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding IR: %w", err)
	}
	return out, nil
}

// schemaSummary describes one registry entry.
type schemaSummary struct {
	Name     string `json:"name"`
	Pointer  string `json:"pointer,omitempty"`
	Kind     string `json:"kind"`
	Virtual  bool   `json:"virtual,omitempty"`
	Circular bool   `json:"circular,omitempty"`
	Model    any    `json:"model,omitempty"`
}

func summarize(e *ir.Entry, virtual, circular, detail bool) (schemaSummary, error) {
	s := schemaSummary{
		Name:     e.Name,
		Pointer:  e.Pointer,
		Kind:     e.Model.Kind().String(),
		Virtual:  virtual,
		Circular: circular,
	}
	if detail {
		m, err := toPlain(e.Model)
		if err != nil {
			return schemaSummary{}, err
		}
		s.Model = m
	}
	return s, nil
}

// diagnostic is the tool output form of an issue.
type diagnostic struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

func diagnostics(found []issues.Issue) []diagnostic {
	if len(found) == 0 {
		return nil
	}
	out := make([]diagnostic, 0, len(found))
	for _, i := range found {
		out = append(out, diagnostic{
			Severity: i.Severity.String(),
			Path:     i.Path,
			Field:    i.Field,
			Message:  i.Message,
			File:     i.File,
			Line:     i.Line,
		})
	}
	return out
}
