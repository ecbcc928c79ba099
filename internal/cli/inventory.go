package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netdraw/pkg/io"
	"github.com/matzehuels/netdraw/pkg/layout"
	"github.com/matzehuels/netdraw/pkg/pipeline"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// inventoryCommand creates the inventory command, which prints the classified
// hosts instead of drawing them.
func (c *CLI) inventoryCommand() *cobra.Command {
	opts := pipeline.Options{}
	var output string
	var summary bool

	cmd := &cobra.Command{
		Use:   "inventory <input>",
		Short: "Print the classified host inventory as JSON, YAML or CSV",
		Long: `Print the classified host inventory as JSON, YAML or CSV.

The report is parsed and classified exactly as for a diagram, and every host
is printed with its archetype, the rule that selected it, its OS guess and its
open ports. With --summary only the per-archetype host counts are printed.
Nothing is written to disk.`,
		Example: `  netdraw inventory scan.xml
  netdraw inventory scan.gnmap -o csv --sort ip > hosts.csv
  netdraw inventory scan.nmap --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := io.ParseFormat(output)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			if err := c.applyConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runInventory(cmd.Context(), opts, format, summary)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(io.FormatJSON), "output encoding: json, yaml, csv")
	cmd.Flags().BoolVar(&summary, "summary", false, "print host counts per archetype instead of the records")
	cmd.Flags().StringVar(&opts.Sort, "sort", pipeline.DefaultSort, "host order: "+joinModes(layout.SortModes))
	cmd.Flags().StringVar(&opts.Format, "format", pipeline.DefaultFormat, "input format: "+joinModes(scan.Formats))

	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions(io.Formats))
	_ = cmd.RegisterFlagCompletionFunc("sort", fixedCompletions(layout.SortModes))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(scan.Formats))

	return cmd
}

// runInventory parses and classifies the report and writes the export.
func (c *CLI) runInventory(ctx context.Context, opts pipeline.Options, format io.Format, summary bool) error {
	runner := c.newRunner()
	result, err := runner.Analyze(ctx, opts)
	if err != nil {
		return err
	}

	inv := io.Inventory{
		Source: opts.Input,
		Format: result.Format,
		Hosts:  io.NewRecords(result.Hosts, runner.Classifier),
	}
	if opts.Input == scan.StdioToken {
		inv.Source = ""
	}
	if summary {
		printArchetypeTable(c.Stdout, io.Summary(inv.Hosts))
		return nil
	}
	return io.Write(c.Stdout, inv, format)
}
