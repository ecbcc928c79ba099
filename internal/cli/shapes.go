package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/netdraw/pkg/pipeline"
)

// shapesCommand creates the shapes command, which prints the effective
// archetype to stencil mapping.
func (c *CLI) shapesCommand() *cobra.Command {
	opts := pipeline.Options{}
	var full bool

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List device archetypes and their draw.io stencils",
		Long: `List device archetypes and their draw.io stencils.

The table reflects the built-in catalog with any [shapes] overrides from the
config file and --shape flags applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(cmd, &opts); err != nil {
				return err
			}
			catalog, err := opts.Catalog()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, e := range catalog.Entries() {
				shape := e.Shape
				if full {
					shape = catalog.Style(e.Archetype)
				}
				rows = append(rows, []string{string(e.Archetype), shape})
			}
			printTable(c.Stdout, []string{"Archetype", "Stencil"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print the complete cell style instead of the stencil name")
	cmd.Flags().StringToStringVar(&opts.Shapes, "shape", nil, "override a stencil, e.g. --shape camera=mxgraph.cisco19.camera")

	return cmd
}
