package pipeline

import (
	"context"
	"os"

	"github.com/matzehuels/netdraw/pkg/scan"
)

// ParseResult is the outcome of the parse stage.
type ParseResult struct {
	Inventory *scan.Inventory
	Format    scan.Format
	// Skipped counts record-level defects the parser dropped.
	Skipped int
}

// Parse reads opts.Input and builds the host inventory. Skipped records are
// logged as warnings on opts.Logger and counted; they never fail the stage.
func Parse(ctx context.Context, opts Options) (*ParseResult, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	content, err := scan.ReadSource(opts.Input, stdin)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ParseResult{}
	inv, format, err := scan.Parse(content, opts.ScanFormat(), scan.Options{
		Logger: func(format string, args ...any) {
			res.Skipped++
			opts.Logger.Warnf(format, args...)
		},
	})
	if err != nil {
		return nil, err
	}
	res.Inventory = inv
	res.Format = format
	return res, nil
}
