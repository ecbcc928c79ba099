package cli

import (
	"context"
	"os"

	"github.com/matzehuels/netdraw/pkg/buildinfo"
	"github.com/matzehuels/netdraw/pkg/observability"
)

// SetVersion sets the version information displayed by --version and stamped
// into generated documents. Empty values keep the defaults.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the netdraw CLI with args and returns an error if the command
// fails. Logs and status output go to stderr.
//
// The function registers [LogHooks] so that -v shows per-stage timings, builds
// the root command and executes it with ctx.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx, os.Args[1:]); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string) error {
	c := New(os.Stderr, LogInfo)
	observability.SetPipelineHooks(NewLogHooks(c.Logger))

	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
