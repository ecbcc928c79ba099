// Package render holds the output stages of a network diagram.
//
// The primary artifact is the draw.io document written by the [drawio]
// subpackage. The [nodelink] subpackage renders a Graphviz preview of the same
// document, pinned to the same coordinates, for quick inspection without
// opening draw.io:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert a preview SVG with the external rsvg-convert
// tool (from librsvg).
package render
