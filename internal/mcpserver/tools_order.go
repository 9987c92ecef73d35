package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type orderInput struct {
	Spec  specInput `json:"spec"            jsonschema:"The OAS document to compile"`
	Roots []string  `json:"roots,omitempty" jsonschema:"Schema names to compute the reachable set from"`
}

type orderOutput struct {
	Order     []string   `json:"order"`
	Levels    [][]string `json:"levels,omitempty"`
	Circular  []string   `json:"circular"`
	Cycles    [][]string `json:"cycles,omitempty"`
	Missing   []string   `json:"missing,omitempty"`
	Reachable []string   `json:"reachable,omitempty"`
}

func handleDependencyOrder(ctx context.Context, _ *mcp.CallToolRequest, input orderInput) (*mcp.CallToolResult, orderOutput, error) {
	res, err := input.Spec.compile(ctx)
	if err != nil {
		return errResult(err), orderOutput{}, nil
	}
	graph := res.Graph()
	output := orderOutput{
		Order:    graph.Order(),
		Levels:   graph.Levels(),
		Circular: graph.Circular(),
		Cycles:   graph.Cycles(),
		Missing:  graph.Missing(),
	}
	if len(input.Roots) > 0 {
		output.Reachable = graph.Reachable(input.Roots...)
	}
	return nil, output, nil
}
