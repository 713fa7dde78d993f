package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/pipeline"
)

// traceCommand creates the trace command.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		start       string
		inputFormat string
		opts        pipeline.TraceOptions
		jsonOut     bool
		interactive bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "trace <graph-file|->",
		Short: "Record every traversal decision of a cycle check",
		Long: `Trace runs the same depth-first walk as detect and records a step at each decision:
entering a node, checking the current path, exploring an edge, backtracking.

With --policy skip the walk tolerates back-edges, records each one it skipped and
runs to completion. Messages are localized with --locale (default zh-TW).`,
		Example: `  citecheck trace citations.json --start 1
  citecheck trace citations.json --start 1 --policy skip --locale en --save
  citecheck trace citations.json --start 1 --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if interactive && !isTerminal(os.Stdout) {
				return errs.New(errs.ErrCodeInvalidInput, "--interactive needs a terminal")
			}
			if opts.Policy == "" {
				opts.Policy = c.Config.Trace.Policy
			}
			if opts.Locale == "" {
				opts.Locale = c.Config.Trace.Locale
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

			tr, err := runner.Trace(ctx, g, start, opts)
			if err != nil {
				if jsonOut {
					_ = writeJSON(c.Out, tr)
				}
				return err
			}
			if save {
				if err := runner.SaveTrace(ctx, tr); err != nil {
					return err
				}
			}

			switch {
			case jsonOut:
				return writeJSON(c.Out, tr)
			case interactive:
				return runViewer(ctx, tr)
			}
			c.printTrace(tr, save)
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "node to start the walk from (required)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "back-edge policy: stop or skip (default from config)")
	cmd.Flags().StringVar(&opts.Locale, "locale", "", "message language, e.g. en or zh-TW (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full trace as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "step through the trace in a terminal viewer")
	cmd.Flags().BoolVar(&save, "save", false, "save the trace to the cache for replay")
	addInputFormatFlag(cmd, &inputFormat)
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		step    int
		jsonOut bool
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "replay <trace-id>",
		Short: "Replay a saved trace",
		Long: `Replay loads a trace saved with "trace --save" from the cache. On a terminal it
opens the step viewer; otherwise, or with --list, it prints every step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			if cmd.Flags().Changed("step") {
				st, err := runner.Step(ctx, args[0], step)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(c.Out, st)
				}
				printKeyValue(c.Out, "step", string(st.Action))
				printKeyValue(c.Out, "node", st.Node)
				printKeyValue(c.Out, "message", st.LocalizedMessage)
				printKeyValue(c.Out, "path", formatPath(st.PathStack))
				return nil
			}

			tr, err := runner.LoadTrace(ctx, args[0])
			if err != nil {
				return err
			}
			switch {
			case jsonOut:
				return writeJSON(c.Out, tr)
			case !list && isTerminal(os.Stdout):
				return runViewer(ctx, tr)
			}
			c.printTrace(tr, false)
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "print a single step by index")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "print every step instead of opening the viewer")

	return cmd
}

func (c *CLI) printTrace(tr cycle.Trace, saved bool) {
	printSteps(c.Out, tr)
	printResult(c.Out, tr.Start, tr.Result)
	if tr.Policy == cycle.PolicySkip {
		printEdges(c.Out, "skipped", tr.SkippedEdges)
	}
	if saved {
		printSuccess(c.Out, "Saved trace %s", tr.ID)
		printNextStep(c.Out, "Replay it", "citecheck replay "+tr.ID)
	}
}
