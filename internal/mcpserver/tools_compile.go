package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/compiler"
)

type compileInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to compile"`
	Detail bool      `json:"detail,omitempty" jsonschema:"Include the IR model of every listed schema"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip this many schemas (named first, then virtual)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of schemas to list"`
}

type operationSummary struct {
	OperationID string   `json:"operation_id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Parameters  int      `json:"parameters"`
	Body        string   `json:"body,omitempty"`
	Responses   []string `json:"responses,omitempty"`
}

type compileOutput struct {
	Version        string             `json:"version"`
	SchemaCount    int                `json:"schema_count"`
	VirtualCount   int                `json:"virtual_count"`
	OperationCount int                `json:"operation_count"`
	Schemas        []schemaSummary    `json:"schemas,omitempty"`
	Operations     []operationSummary `json:"operations,omitempty"`
	Circular       []string           `json:"circular,omitempty"`
	Diagnostics    []diagnostic       `json:"diagnostics,omitempty"`
}

func handleCompile(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	res, err := input.Spec.compile(ctx)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	graph := res.Graph()
	named := res.AllNamedSchemas()
	output := compileOutput{
		Version:        res.Version,
		SchemaCount:    named.Len(),
		VirtualCount:   res.VirtualSchemas().Len(),
		OperationCount: len(res.Operations()),
		Circular:       graph.Circular(),
		Diagnostics:    diagnostics(res.Diagnostics),
	}

	entries := append(named.All(), res.VirtualSchemas().All()...)
	for i, e := range paginate(entries, input.Offset, input.Limit) {
		virtual := input.Offset+i >= named.Len()
		s, err := summarize(e, virtual, graph.IsCircular(e.Name), input.Detail)
		if err != nil {
			return errResult(err), compileOutput{}, nil
		}
		output.Schemas = append(output.Schemas, s)
	}

	for _, op := range res.Operations() {
		output.Operations = append(output.Operations, summarizeOperation(op))
	}
	return nil, output, nil
}

func summarizeOperation(op *compiler.Operation) operationSummary {
	s := operationSummary{
		OperationID: op.ID,
		Method:      op.Method,
		Path:        op.Path,
		Parameters:  len(op.Parameters.All),
	}
	if op.Body != nil {
		s.Body = refName(op.Body.Schema)
	}
	for _, r := range op.Responses {
		s.Responses = append(s.Responses, r.Status)
	}
	return s
}
