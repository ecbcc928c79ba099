package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netdraw/pkg/io"
	"github.com/matzehuels/netdraw/pkg/layout"
	"github.com/matzehuels/netdraw/pkg/pipeline"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// convertCommand creates the conversion command, used as the root command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   appName + " <input> <output>",
		Short: "Convert an nmap scan report into a draw.io network diagram",
		Long: `Convert an nmap scan report into a draw.io network diagram.

The input may be XML (-oX), greppable (-oG) or normal (-oN) nmap output; the
format is detected from the content unless --format is given. Each host is
classified into a device archetype from its OS guess and open ports, laid out
on a grid below a central network hub, and written as an uncompressed .drawio
file that opens in draw.io / diagrams.net.

Use "-" as input to read standard input, and "-" as output to write the
document to standard output.`,
		Example: `  netdraw scan.xml network.drawio
  netdraw scan.gnmap network.drawio --sort ip --page-name "Office LAN"
  nmap -oX - 10.0.0.0/24 | netdraw - - --no-edges > lan.drawio`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input, opts.Output = args[0], args[1]
			if err := c.applyConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.PageName, "page-name", pipeline.DefaultPageName, "draw.io page name")
	cmd.Flags().BoolVar(&opts.NoEdges, "no-edges", false, "omit the hub node and hub-to-host edges")
	cmd.Flags().StringVar(&opts.Sort, "sort", pipeline.DefaultSort, "host order: "+joinModes(layout.SortModes))
	cmd.Flags().StringVar(&opts.Format, "format", pipeline.DefaultFormat, "input format: "+joinModes(scan.Formats))
	cmd.Flags().IntVar(&opts.Columns, "columns", 0, "grid columns (0 = automatic)")
	cmd.Flags().StringVar(&opts.Preview, "preview", "", "also render a Graphviz preview (.svg, .png or .pdf)")
	cmd.Flags().StringToStringVar(&opts.Shapes, "shape", nil, "override a stencil, e.g. --shape camera=mxgraph.cisco19.camera")

	_ = cmd.RegisterFlagCompletionFunc("sort", fixedCompletions(layout.SortModes))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(scan.Formats))

	return cmd
}

// runConvert executes the pipeline and prints a summary.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d hosts", result.Stats.HostCount))

	w := c.uiWriter(opts.Output)
	if result.Stats.HostCount == 0 {
		printWarning(w, "No hosts found in %s", displayPath(opts.Input))
	} else {
		printSuccess(w, "Diagram with %d hosts, %d edges", result.Stats.HostCount, result.Stats.EdgeCount)
	}
	printFile(w, displayPath(opts.Output))
	if opts.Preview != "" {
		printFile(w, opts.Preview)
	}
	if result.Stats.Skipped > 0 {
		printWarning(w, "Skipped %d malformed records (run with -v for details)", result.Stats.Skipped)
	}
	if result.Stats.HostCount > 0 {
		printArchetypeTable(w, io.Tally(result.Archetypes))
	}
	return nil
}

// displayPath renders the "-" token readably.
func displayPath(path string) string {
	if path == scan.StdioToken {
		return "<stdio>"
	}
	return path
}

// joinModes renders enum values for flag help.
func joinModes[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// fixedCompletions returns a completion func offering values.
func fixedCompletions[T ~string](values []T) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = string(v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
