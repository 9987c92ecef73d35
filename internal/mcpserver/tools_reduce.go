package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/reducer"
)

type reduceInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OAS document to compile"`
	Schema      string    `json:"schema"                 jsonschema:"Name of the named or virtual schema to reduce"`
	NullStyle   string    `json:"null_style,omitempty"   jsonschema:"wrapper (nullable flag) or branch (explicit null union branch)"`
	MergeAllOf  bool      `json:"merge_allof,omitempty"  jsonschema:"Merge intersections of plain objects into one object"`
	HoistInline bool      `json:"hoist_inline,omitempty" jsonschema:"Lift nested inline objects into named schemas"`
}

type reduceOutput struct {
	Schema       string          `json:"schema"`
	NullStyle    string          `json:"null_style"`
	Expression   any             `json:"expression"`
	Used         []string        `json:"used,omitempty"`
	Materialized []schemaSummary `json:"materialized,omitempty"`
	Order        []string        `json:"order"`
	Circular     []string        `json:"circular"`
}

func handleReduce(ctx context.Context, _ *mcp.CallToolRequest, input reduceInput) (*mcp.CallToolResult, reduceOutput, error) {
	if input.Schema == "" {
		return errResult(fmt.Errorf("schema is required")), reduceOutput{}, nil
	}
	style := cfg.NullStyle
	if input.NullStyle != "" {
		var err error
		if style, err = reducer.ParseNullStyle(input.NullStyle); err != nil {
			return errResult(err), reduceOutput{}, nil
		}
	}

	res, err := input.Spec.compile(ctx)
	if err != nil {
		return errResult(err), reduceOutput{}, nil
	}
	model, ok := lookupSchema(res.AllNamedSchemas(), res.VirtualSchemas(), input.Schema)
	if !ok {
		return errResult(fmt.Errorf("schema %q not found", input.Schema)), reduceOutput{}, nil
	}

	red, err := res.Reducer(
		reducer.WithNullStyle(style),
		reducer.WithMergeAllOf(input.MergeAllOf),
		reducer.WithHoistInline(input.HoistInline),
	)
	if err != nil {
		return errResult(err), reduceOutput{}, nil
	}
	reduced := red.ReduceNamed(input.Schema, model)
	expr, err := toPlain(reduced.Node)
	if err != nil {
		return errResult(err), reduceOutput{}, nil
	}

	graph := res.Finalize(red)
	output := reduceOutput{
		Schema:     input.Schema,
		NullStyle:  style.String(),
		Expression: expr,
		Used:       red.Used(),
		Order:      graph.Order(),
		Circular:   graph.Circular(),
	}
	for _, e := range red.Materialized().All() {
		s, err := summarize(e, true, graph.IsCircular(e.Name), true)
		if err != nil {
			return errResult(err), reduceOutput{}, nil
		}
		output.Materialized = append(output.Materialized, s)
	}
	return nil, output, nil
}

func lookupSchema(named, virtual *ir.Registry, name string) (ir.Model, bool) {
	if m, ok := named.Get(name); ok {
		return m, true
	}
	return virtual.Get(name)
}
