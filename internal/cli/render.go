package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/outsider987/Patlytics-hotfix/pkg/graphio"
	"github.com/outsider987/Patlytics-hotfix/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		inputFormat string
		opts        pipeline.RenderOptions
		output      string
	)

	cmd := &cobra.Command{
		Use:   "render <graph-file|->",
		Short: "Export the graph as Graphviz DOT or SVG",
		Long: `Render draws the graph with the first detected loop highlighted in red and the
start node in bold. With --eliminate it draws the repaired graph instead, showing
the removed back-edges dashed.`,
		Example: `  citecheck render citations.json --start 1 > loop.dot
  citecheck render citations.json --start 1 --format svg --eliminate -o fixed.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := readGraph(args[0], inputFormat)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			var spin *Spinner
			if opts.Format == pipeline.FormatSVG && isTerminal(os.Stderr) {
				spin = newSpinnerWithContext(ctx, os.Stderr, "Rendering SVG...")
				spin.Start()
			}
			data, stats, err := runner.Render(ctx, g, opts)
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			if err := writeOutput(c.Out, output, data); err != nil {
				return err
			}
			if output != "" && output != graphio.Stdin {
				printSuccess(c.Out, "Rendered %s", opts.Format)
				printStats(c.Out, stats.NodeCount, stats.EdgeCount, stats.Cached)
				printFile(c.Out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "node to start the walk from (required)")
	cmd.Flags().StringVar(&opts.Format, "format", pipeline.FormatDOT, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.Eliminate, "eliminate", false, "draw the repaired graph with removed edges dashed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	addInputFormatFlag(cmd, &inputFormat)
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
