package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the classifier and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Classifier *classify.Classifier
	Logger     *log.Logger
}

// NewRunner creates a runner with the default rule tables.
// If logger is nil, output is discarded.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Classifier: classify.Default(),
		Logger:     logger,
	}
}

// Execute runs the complete parse → classify → layout → render pipeline.
// The context is checked between stages; a cancelled run writes nothing
// further.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Analyze(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()

	// Stage 3: Layout
	hooks.OnLayoutStart(ctx, len(result.Hosts))
	layoutStart := time.Now()
	doc, err := BuildDocument(result.Hosts, result.Archetypes, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.EdgeCount = len(doc.Edges)

	r.Logger.Info("computed layout",
		"nodes", len(doc.Nodes),
		"edges", len(doc.Edges),
		"page", []int{doc.PageWidth, doc.PageHeight},
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	outputs := opts.Outputs()
	hooks.OnRenderStart(ctx, outputs)
	renderStart := time.Now()
	data, preview, err := Render(ctx, doc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, outputs, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.Preview = preview

	r.Logger.Info("wrote diagram",
		"outputs", outputs,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze runs the parse and classify stages only. The returned result has
// no document; it backs the inventory export.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	result := &Result{}

	// Stage 1: Parse
	hooks.OnParseStart(ctx, opts.Input)
	parseStart := time.Now()
	parsed, err := Parse(ctx, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Input, "", 0, 0, result.Stats.ParseTime, err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, opts.Input, string(parsed.Format), parsed.Inventory.Len(),
		parsed.Skipped, result.Stats.ParseTime, nil)

	result.Inventory = parsed.Inventory
	result.Format = parsed.Format
	result.Stats.HostCount = parsed.Inventory.Len()
	result.Stats.Skipped = parsed.Skipped

	r.Logger.Info("parsed report",
		"format", parsed.Format,
		"hosts", result.Stats.HostCount,
		"skipped", parsed.Skipped,
		"duration", result.Stats.ParseTime)
	if result.Stats.HostCount == 0 {
		r.Logger.Warn("no hosts found in report", "input", opts.Input)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Classify
	classifyStart := time.Now()
	hosts, archetypes, err := Arrange(parsed.Inventory, r.Classifier, opts)
	if err != nil {
		return nil, err
	}
	result.Hosts = hosts
	result.Archetypes = archetypes
	result.Stats.ClassifyTime = time.Since(classifyStart)
	hooks.OnClassifyComplete(ctx, result.Counts(), result.Stats.ClassifyTime)

	for i, h := range hosts {
		r.Logger.Debug("classified host", "host", h.DisplayName(), "archetype", archetypes[i])
	}
	r.Logger.Debug("classified hosts",
		"sort", opts.Sort,
		"duration", result.Stats.ClassifyTime)

	return result, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
