// Package nodelink renders a diagram document as a Graphviz preview.
//
// [ToDOT] emits an undirected graph in which every node is pinned to its
// draw.io coordinates, filled by archetype. [RenderSVG] lays it out with the
// neato engine through [github.com/goccy/go-graphviz], so no Graphviz
// installation is needed for SVG. [Render] additionally produces PNG or PDF
// via librsvg (rsvg-convert).
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
