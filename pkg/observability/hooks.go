// Package observability provides hooks for instrumenting the conversion pipeline.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about each pipeline stage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks around every stage:
//
//	observability.Pipeline().OnParseStart(ctx, source)
//	// ... parse ...
//	observability.Pipeline().OnParseComplete(ctx, source, format, hosts, skipped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// Parse events. skipped counts record-level defects that were dropped.
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source, format string, hostCount, skipped int, duration time.Duration, err error)

	// Classify events. counts maps archetype name to host count.
	OnClassifyComplete(ctx context.Context, counts map[string]int, duration time.Duration)

	// Layout events
	OnLayoutStart(ctx context.Context, hostCount int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)

	// Render events. outputs are the destination paths ("-" for stdout).
	OnRenderStart(ctx context.Context, outputs []string)
	OnRenderComplete(ctx context.Context, outputs []string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnClassifyComplete(context.Context, map[string]int, time.Duration) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)            {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
