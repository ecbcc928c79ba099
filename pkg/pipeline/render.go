package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/netdraw/pkg/diagram"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/render/drawio"
	"github.com/matzehuels/netdraw/pkg/render/nodelink"
)

// Render serializes doc and writes it to opts.Output. When opts.Preview is
// set the preview is rendered and written afterwards. It returns the
// serialized document and the preview bytes (nil without a preview).
func Render(ctx context.Context, doc *diagram.Document, opts Options) ([]byte, []byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, err
	}

	data, err := drawio.Encode(doc)
	if err != nil {
		return nil, nil, err
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if err := drawio.WriteFile(opts.Output, data, stdout); err != nil {
		return nil, nil, err
	}

	if opts.Preview == "" {
		return data, nil, nil
	}
	preview, err := RenderPreview(ctx, doc, filepath.Ext(opts.Preview))
	if err != nil {
		return data, nil, err
	}
	if err := drawio.WriteFile(opts.Preview, preview, stdout); err != nil {
		return data, nil, err
	}
	return data, preview, nil
}

// RenderPreview renders doc through Graphviz in the format implied by ext.
func RenderPreview(ctx context.Context, doc *diagram.Document, ext string) ([]byte, error) {
	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
	out, err := nodelink.Render(ctx, dot, ext)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputWrite, err, "render preview")
	}
	return out, nil
}
