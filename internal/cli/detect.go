package cli

import (
	"github.com/spf13/cobra"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	var (
		start       string
		inputFormat string
		jsonOut     bool
		failOnCycle bool
	)

	cmd := &cobra.Command{
		Use:   "detect <graph-file|->",
		Short: "Report the first cycle reachable from a start node",
		Example: `  citecheck detect citations.json --start 1
  cat citations.yaml | citecheck detect - --start US1234 --json`,
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

			res, stats, err := runner.Detect(ctx, g, start)
			if jsonOut {
				if werr := writeJSON(c.Out, res); werr != nil {
					return werr
				}
			} else {
				printResult(c.Out, start, res)
				if err == nil {
					printStats(c.Out, stats.NodeCount, stats.EdgeCount, stats.Cached)
				}
			}
			if err != nil {
				return err
			}

			if res.Found && failOnCycle {
				return ErrCycleFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "node to start the walk from (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&failOnCycle, "fail-on-cycle", false, "exit with status 2 when a cycle is found")
	addInputFormatFlag(cmd, &inputFormat)
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
