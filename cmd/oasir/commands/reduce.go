package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/depgraph"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/reducer"
)

type reducedSchema struct {
	Name       string  `json:"name"`
	Expression ir.Node `json:"expression"`
}

// reduceView is the output of the reduce command.
type reduceView struct {
	NullStyle    string           `json:"nullStyle"`
	Schemas      []reducedSchema  `json:"schemas"`
	Used         []string         `json:"used,omitempty"`
	Materialized []*ir.Entry      `json:"materialized,omitempty"`
	Graph        depgraph.Summary `json:"graph"`
}

func (a *app) newReduceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reduce <file|url|-> [schema...]",
		Short: "Reduce schemas into the union/intersection algebra",
		Long: `Reduce named or virtual schemas into the union/intersection algebra a code
generator renders. Without schema names, every named schema is reduced.

References to circular schemas are marked deferred. Virtual schemas reached
from the reduced ones, and inline objects lifted with --hoist-inline, are
listed as materialized and take part in the final dependency order.`,
		Example: `  oasir reduce openapi.yaml Pet
  oasir reduce --null-style branch --merge-allof openapi.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := reducer.ParseNullStyle(a.v.GetString(keyNullStyle))
			if err != nil {
				return err
			}
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}

			red, err := res.Reducer(
				reducer.WithNullStyle(style),
				reducer.WithMergeAllOf(a.v.GetBool(keyMergeAllOf)),
				reducer.WithHoistInline(a.v.GetBool(keyHoistInline)),
			)
			if err != nil {
				return err
			}

			names := args[1:]
			if len(names) == 0 {
				names = res.AllNamedSchemas().Names()
			}
			view := reduceView{NullStyle: style.String()}
			for _, name := range names {
				model, ok := res.NamedSchema(name)
				if !ok {
					if model, ok = res.VirtualSchemas().Get(name); !ok {
						return fmt.Errorf("schema %q not found", name)
					}
				}
				out := red.ReduceNamed(name, model)
				view.Schemas = append(view.Schemas, reducedSchema{Name: name, Expression: out.Node})
			}

			view.Used = red.Used()
			view.Materialized = red.Materialized().All()
			view.Graph = res.Finalize(red).Summary()
			return a.render(cmd, view)
		},
	}

	flags := cmd.Flags()
	flags.String(keyNullStyle, "wrapper", "null representation: wrapper (nullable flag) or branch (explicit null branch)")
	flags.Bool(keyMergeAllOf, false, "merge intersections of plain objects into one object")
	flags.Bool(keyHoistInline, false, "lift nested inline objects into named schemas")
	for _, key := range []string{keyNullStyle, keyMergeAllOf, keyHoistInline} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}
	return cmd
}
