package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/outsider987/Patlytics-hotfix/pkg/graphio"
)

// eliminateCommand creates the eliminate command.
func (c *CLI) eliminateCommand() *cobra.Command {
	var (
		start        string
		inputFormat  string
		outputFormat string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "eliminate <graph-file|->",
		Short: "Remove back-edges so no cycle is reachable from a start node",
		Long: `Eliminate walks the graph from the start node and drops every edge that points
back into the current path. Nodes the walk never reaches are left untouched.
The repaired graph is written in the input's key order.`,
		Example: `  citecheck eliminate citations.json --start 1 -o fixed.json
  citecheck eliminate citations.yaml --start 1 --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := graphio.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			g, err := readGraph(args[0], inputFormat)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			out, stats, err := runner.Eliminate(ctx, g, start)
			if err != nil {
				return err
			}
			prog.done("Removed %d of %d edges", len(out.RemovedEdges), stats.EdgeCount)

			if output == "" || output == graphio.Stdin {
				var buf bytes.Buffer
				if err := graphio.Write(&buf, out.DAG, format); err != nil {
					return err
				}
				return writeOutput(c.Out, output, buf.Bytes())
			}

			if err := graphio.WriteFile(output, out.DAG, format); err != nil {
				return err
			}
			printSuccess(c.Out, "Removed %d back-edge(s)", len(out.RemovedEdges))
			printEdges(c.Out, "removed", out.RemovedEdges)
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "node to start the walk from (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&outputFormat, "format", "", "output format: json, yaml or edgelist (default: from extension, else json)")
	addInputFormatFlag(cmd, &inputFormat)
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
