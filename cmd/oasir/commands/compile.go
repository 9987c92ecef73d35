package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/depgraph"
	"github.com/erraggy/oasir/ir"
)

func (a *app) newCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file|url|->",
		Short: "Compile a document and print its schemas, operations and dependency graph",
		Long: `Compile an OpenAPI document into the canonical IR.

The output lists the named schemas (components and externally referenced
schemas), the virtual schemas synthesized for parameter groups and inline
bodies, every operation with its normalized parameters, the dependency
graph and the diagnostics collected along the way.`,
		Example: `  oasir compile openapi.yaml
  oasir compile --format yaml https://example.com/openapi.yaml
  cat openapi.yaml | oasir compile -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, res.Summary())
		},
	}
}

// orderView is the output of the order command.
type orderView struct {
	depgraph.Summary
	Levels    [][]string `json:"levels,omitempty"`
	Reachable []string   `json:"reachable,omitempty"`
}

func (a *app) newOrderCommand() *cobra.Command {
	var roots []string
	cmd := &cobra.Command{
		Use:   "order <file|url|->",
		Short: "Print the dependency order and circular set of the compiled schemas",
		Long: `Print the order in which the compiled schemas should be emitted.

Non-circular schemas are listed with their dependencies first. Schemas that
take part in a reference cycle are listed separately as the circular set,
together with each cycle. With --roots, the schemas reachable from the given
names are listed in emission order.`,
		Example: `  oasir order openapi.yaml
  oasir order --roots Pet,Owner openapi.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}
			graph := res.Graph()
			view := orderView{Summary: graph.Summary(), Levels: graph.Levels()}
			if len(roots) > 0 {
				view.Reachable = graph.Reachable(roots...)
			}
			return a.render(cmd, view)
		},
	}
	cmd.Flags().StringSliceVar(&roots, "roots", nil, "schema names to compute the reachable set from")
	return cmd
}

// paramsView is the output of the params command.
type paramsView struct {
	OperationID string                  `json:"operationId"`
	Method      string                  `json:"method"`
	Path        string                  `json:"path"`
	Parameters  *ir.OperationParameters `json:"parameters"`
	Schemas     []*ir.Entry             `json:"schemas,omitempty"`
}

func (a *app) newParamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "params <file|url|-> <operationId>",
		Short: "Print the normalized parameters of one operation",
		Long: `Print the normalized parameters of one operation, grouped by location,
and the virtual object schema synthesized for every non-empty group.

Operations without an operationId are addressed by their synthesized id,
for example getPetsId for GET /pets/{id}.`,
		Example: `  oasir params openapi.yaml listPets`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}
			op, ok := res.Operation(args[1])
			if !ok {
				return fmt.Errorf("operation %q not found", args[1])
			}
			view := paramsView{
				OperationID: op.ID,
				Method:      op.Method,
				Path:        op.Path,
				Parameters:  op.Parameters,
			}
			for _, loc := range ir.Locations {
				g := op.Parameters.Group(loc)
				if g == nil || g.VirtualRef == nil {
					continue
				}
				if e, ok := res.VirtualSchemas().Lookup(g.VirtualRef.Name); ok {
					view.Schemas = append(view.Schemas, e)
				}
			}
			return a.render(cmd, view)
		},
	}
}
