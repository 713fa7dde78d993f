// Package cli implements the citecheck command-line interface.
//
// Commands read a citation graph (JSON, YAML or edge list, from a file or
// "-" for stdin), run one of the cycle operations through a shared
// pipeline.Runner and print the outcome. Traces can be saved to the
// configured cache and replayed later in a terminal step viewer.
//
// All commands support --verbose (-v) for debug-level logging and --config
// to point at a TOML settings file. The logger is attached to the command
// context.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/outsider987/Patlytics-hotfix/pkg/buildinfo"
	"github.com/outsider987/Patlytics-hotfix/pkg/cache"
	"github.com/outsider987/Patlytics-hotfix/pkg/config"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
	"github.com/outsider987/Patlytics-hotfix/pkg/graphio"
	"github.com/outsider987/Patlytics-hotfix/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrCycleFound is returned by "detect --fail-on-cycle" when a cycle is
// reachable from the start node.
var ErrCycleFound = errors.New("cycle found")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, ErrCycleFound):
		return 2
	default:
		return 1
	}
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// Out receives command output; logs go to the logger's writer.
	Out io.Writer

	configPath string
	verbose    bool
	noCache    bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "citecheck finds and removes circular citations",
		Long: `citecheck walks a citation graph depth-first from a start node, reports the first
circular reference it meets, records every traversal decision for step-by-step replay,
and can drop back-edges to turn the graph into a DAG.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/citecheck/config.toml)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable result and trace caching")

	root.AddCommand(c.detectCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.eliminateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config and attaches the logger before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := parseLevel(cfg.LogLevel)
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, c.Config.Keyer(), loggerFromContext(ctx))
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		r.TraceTTL = ttl
	}
	return r, nil
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.Config.CacheOptions())
}

// =============================================================================
// Input / Output Helpers
// =============================================================================

// readGraph loads a graph from path ("-" for stdin) in the named format.
func readGraph(path, format string) (*graph.Graph, error) {
	f, err := graphio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return graphio.ReadFile(path, f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to path, or to w when path is "-" or empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == graphio.Stdin {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func addInputFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "input-format", "", "graph format: json, yaml or edgelist (default: detect)")
}
