package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/netdraw/internal/config"
	"github.com/matzehuels/netdraw/pkg/buildinfo"
	"github.com/matzehuels/netdraw/pkg/pipeline"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = buildinfo.Name

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Standard streams. The "-" path token reads Stdin or writes Stdout, in
	// which case human-readable output moves to Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself performs the conversion.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.convertCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())
	root.SetIn(c.Stdin)
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/netdraw/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if c.verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.inventoryCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig loads the config file and merges it into opts. Flags set on cmd
// take precedence over file values.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cfg.Apply(opts, changedFlags(cmd))

	opts.Logger = c.Logger
	opts.Stdin = c.Stdin
	opts.Stdout = c.Stdout
	return nil
}

// changedFlags returns the names of flags the user set explicitly.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}

// uiWriter returns the stream for human-readable output. When the document
// itself goes to stdout, status lines go to stderr.
func (c *CLI) uiWriter(output string) io.Writer {
	if output == scan.StdioToken {
		return c.Stderr
	}
	return c.Stdout
}
