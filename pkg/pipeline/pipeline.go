// Package pipeline provides the conversion pipeline for netdraw.
//
// This package chains the stages that turn a scan report into a draw.io
// document, so the CLI commands share one implementation of defaults,
// validation and stage ordering.
//
// # Architecture
//
// The pipeline consists of four strictly sequential stages:
//
//  1. Parse: read the report, detect its shape and build the host inventory
//  2. Classify: assign a device archetype to every host
//  3. Layout: order the hosts and place them on a grid below the hub
//  4. Render: build the document, serialize it and write it out
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:  "scan.xml",
//	    Output: "network.drawio",
//	    Sort:   "ip",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.HostCount)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/diagram"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/layout"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI commands
// =============================================================================

const (
	// DefaultPageName is the draw.io page tab name.
	DefaultPageName = diagram.DefaultPageName

	// DefaultSort keeps hosts in report order.
	DefaultSort = string(layout.SortNone)

	// DefaultFormat detects the report shape from the content.
	DefaultFormat = string(scan.FormatAuto)

	// MaxColumns bounds an explicit column count.
	MaxColumns = 100
)

// ValidPreviewExts is the set of file extensions accepted for the preview.
var ValidPreviewExts = map[string]bool{
	".svg": true,
	".png": true,
	".pdf": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one conversion run.
type Options struct {
	// Parse options
	Input  string `json:"input"`
	Format string `json:"format,omitempty"` // auto, xml, grepable, normal

	// Layout options
	Sort    string `json:"sort,omitempty"`    // none, ip, name
	Columns int    `json:"columns,omitempty"` // 0 = ceil(sqrt(n))
	NoEdges bool   `json:"no_edges,omitempty"`

	// Render options
	Output   string            `json:"output"`
	PageName string            `json:"page_name,omitempty"`
	Shapes   map[string]string `json:"shapes,omitempty"` // archetype -> stencil overrides
	Preview  string            `json:"preview,omitempty"`

	// Standard streams used for the "-" path token. Nil means os.Stdin/os.Stdout.
	Stdin  io.Reader `json:"-"`
	Stdout io.Writer `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline execution.
type Result struct {
	// Inventory is the merged host inventory in report order.
	Inventory *scan.Inventory
	// Format is the report shape that was parsed.
	Format scan.Format
	// Hosts are the inventory hosts in layout order, parallel to Archetypes.
	Hosts      []*scan.Host
	Archetypes []classify.Archetype
	// Document is the built diagram; Data is its serialized form.
	Document *diagram.Document
	Data     []byte
	// Preview is the rendered preview, when one was requested.
	Preview []byte

	Stats Stats
}

// Stats records counts and stage timings of a run.
type Stats struct {
	HostCount    int
	EdgeCount    int
	Skipped      int
	ParseTime    time.Duration
	ClassifyTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// Counts returns the number of hosts per archetype, keyed by archetype name.
func (r *Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, a := range r.Archetypes {
		counts[string(a)]++
	}
	return counts
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateSort validates a host ordering mode.
func ValidateSort(mode string) error {
	_, err := layout.ParseSortMode(mode)
	return err
}

// ValidateFormat validates a report format name.
func ValidateFormat(format string) error {
	_, err := scan.ParseFormat(format)
	return err
}

// ValidateColumns validates an explicit column count. Zero selects automatic.
func ValidateColumns(columns int) error {
	if columns < 0 || columns > MaxColumns {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid column count: %d (must be between 0 and %d)", columns, MaxColumns)
	}
	return nil
}

// ValidatePreview validates the preview destination. An empty path disables it.
func ValidatePreview(path string) error {
	if path == "" {
		return nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if path == scan.StdioToken {
		return errors.New(errors.ErrCodeInvalidInput, "preview cannot be written to standard output")
	}
	if ext := strings.ToLower(filepath.Ext(path)); !ValidPreviewExts[ext] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid preview extension: %q (must be one of: .svg, .png, .pdf)", ext)
	}
	return nil
}

// =============================================================================
// Options Methods - Defaults and Validation
// =============================================================================

// ValidateAndSetDefaults sets defaults and validates every stage. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// SetParseDefaults fills unset parse options.
func (o *Options) SetParseDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForParse sets parse defaults and validates the input side.
func (o *Options) ValidateForParse() error {
	o.SetParseDefaults()
	if err := errors.ValidatePath(o.Input); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "input")
	}
	return ValidateFormat(o.Format)
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Sort == "" {
		o.Sort = DefaultSort
	}
}

// ValidateForLayout sets layout defaults and validates layout options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateSort(o.Sort); err != nil {
		return err
	}
	return ValidateColumns(o.Columns)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if o.PageName == "" {
		o.PageName = DefaultPageName
	}
}

// ValidateForRender sets render defaults and validates the output side.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidatePath(o.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "output")
	}
	if err := errors.ValidatePageName(o.PageName); err != nil {
		return err
	}
	if err := ValidatePreview(o.Preview); err != nil {
		return err
	}
	_, err := o.Catalog()
	return err
}

// ScanFormat returns the parsed report format. Options must be validated.
func (o *Options) ScanFormat() scan.Format {
	f, _ := scan.ParseFormat(o.Format)
	return f
}

// SortMode returns the parsed ordering mode. Options must be validated.
func (o *Options) SortMode() layout.SortMode {
	m, _ := layout.ParseSortMode(o.Sort)
	return m
}

// LayoutOptions returns the grid options for this run.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Columns: o.Columns, Hub: !o.NoEdges}
}

// Catalog returns the default shape catalog with the configured overrides.
func (o *Options) Catalog() (*diagram.Catalog, error) {
	if len(o.Shapes) == 0 {
		return diagram.DefaultCatalog(), nil
	}
	return diagram.DefaultCatalog().WithOverrides(o.Shapes)
}

// Outputs returns the destinations this run writes, in write order.
func (o *Options) Outputs() []string {
	outputs := []string{o.Output}
	if o.Preview != "" {
		outputs = append(outputs, o.Preview)
	}
	return outputs
}
