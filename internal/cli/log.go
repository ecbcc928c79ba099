// Package cli implements the netdraw command-line interface.
//
// The root command converts an nmap scan report into a draw.io diagram. The
// inventory command prints the classified hosts as JSON, YAML or CSV, and the
// shapes command lists the stencil catalog. The CLI is built using cobra and
// logs via the charmbracelet/log library.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// per-stage timings reported through the pipeline hooks. Loggers are passed
// through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/netdraw/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netdraw/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Converted 42 hosts (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// LogHooks reports pipeline stage events at debug level.
type LogHooks struct {
	Logger *log.Logger
}

var _ observability.PipelineHooks = LogHooks{}

// NewLogHooks returns hooks writing to l.
func NewLogHooks(l *log.Logger) LogHooks {
	return LogHooks{Logger: l}
}

func (h LogHooks) OnParseStart(_ context.Context, source string) {
	h.Logger.Debug("parse started", "source", source)
}

func (h LogHooks) OnParseComplete(_ context.Context, source, format string, hostCount, skipped int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "source", source, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("parse complete", "source", source, "format", format,
		"hosts", hostCount, "skipped", skipped, "duration", d)
}

func (h LogHooks) OnClassifyComplete(_ context.Context, counts map[string]int, d time.Duration) {
	h.Logger.Debug("classify complete", "archetypes", counts, "duration", d)
}

func (h LogHooks) OnLayoutStart(_ context.Context, hostCount int) {
	h.Logger.Debug("layout started", "hosts", hostCount)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.Logger.Debug("layout complete", "duration", d, "err", err)
}

func (h LogHooks) OnRenderStart(_ context.Context, outputs []string) {
	h.Logger.Debug("render started", "outputs", outputs)
}

func (h LogHooks) OnRenderComplete(_ context.Context, outputs []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "outputs", outputs, "duration", d, "err", err)
}
