package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/ir"
)

type paramsInput struct {
	Spec        specInput `json:"spec"         jsonschema:"The OAS document to compile"`
	OperationID string    `json:"operation_id" jsonschema:"The operationId (or synthesized id) of the operation"`
}

type paramsOutput struct {
	OperationID string          `json:"operation_id"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	Parameters  any             `json:"parameters"`
	Groups      []schemaSummary `json:"groups,omitempty"`
}

func handleNormalizeParameters(ctx context.Context, _ *mcp.CallToolRequest, input paramsInput) (*mcp.CallToolResult, paramsOutput, error) {
	if input.OperationID == "" {
		return errResult(fmt.Errorf("operation_id is required")), paramsOutput{}, nil
	}
	res, err := input.Spec.compile(ctx)
	if err != nil {
		return errResult(err), paramsOutput{}, nil
	}
	op, ok := res.Operation(input.OperationID)
	if !ok {
		return errResult(fmt.Errorf("operation %q not found", input.OperationID)), paramsOutput{}, nil
	}

	params, err := toPlain(op.Parameters)
	if err != nil {
		return errResult(err), paramsOutput{}, nil
	}
	output := paramsOutput{
		OperationID: op.ID,
		Method:      op.Method,
		Path:        op.Path,
		Parameters:  params,
	}
	for _, loc := range []ir.Location{ir.LocationPath, ir.LocationQuery, ir.LocationHeader, ir.LocationCookie} {
		g := op.Parameters.Group(loc)
		if g == nil || g.VirtualRef == nil {
			continue
		}
		e, ok := res.VirtualSchemas().Lookup(g.VirtualRef.Name)
		if !ok {
			continue
		}
		s, err := summarize(e, true, false, true)
		if err != nil {
			return errResult(err), paramsOutput{}, nil
		}
		output.Groups = append(output.Groups, s)
	}
	return nil, output, nil
}

// refName returns the target name of a reference node, or "".
func refName(n ir.Node) string {
	if ref, ok := n.(*ir.Ref); ok {
		return ref.Name
	}
	return ""
}
