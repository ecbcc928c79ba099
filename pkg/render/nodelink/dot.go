package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/diagram"
	"github.com/matzehuels/netdraw/pkg/render"
)

// pointsPerInch converts page pixels to Graphviz points for pinned positions.
const pointsPerInch = 72.0

// Options configures preview generation.
type Options struct {
	// Detailed adds the archetype name to each host label.
	Detailed bool
}

// archetypeColors gives each archetype a fill so the preview is readable
// without draw.io stencils.
var archetypeColors = map[classify.Archetype]string{
	classify.Network:     "#d0e4ff",
	classify.Router:      "#ffe0b2",
	classify.Switch:      "#ffe0b2",
	classify.Firewall:    "#ffcdd2",
	classify.WirelessAP:  "#e1bee7",
	classify.Server:      "#c8e6c9",
	classify.Workstation: "#b3e5fc",
	classify.Printer:     "#fff9c4",
	classify.IPPhone:     "#f8bbd0",
	classify.Camera:      "#d7ccc8",
}

// ToDOT converts a diagram document to Graphviz DOT. Every node is pinned to
// its diagram coordinates (y flipped, since Graphviz grows upwards), so the
// preview matches the draw.io page when rendered with neato.
func ToDOT(doc *diagram.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10, fixedsize=true];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", doc.Name)
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, doc.PageHeight, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n diagram.Node, detailed bool) string {
	label := n.Label
	if detailed && n.Kind == diagram.KindHost {
		label += "\n" + string(n.Archetype)
	}
	return label
}

func fmtAttrs(n diagram.Node, pageHeight int, detailed bool) []string {
	g := n.Geometry
	cx := float64(g.X) + float64(g.Width)/2
	cy := float64(pageHeight) - (float64(g.Y) + float64(g.Height)/2)

	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", cx, cy),
		fmt.Sprintf("width=%.2f", float64(g.Width)/pointsPerInch),
		fmt.Sprintf("height=%.2f", float64(g.Height)/pointsPerInch),
	}
	if color, ok := archetypeColors[n.Archetype]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	}
	if n.Kind == diagram.KindHub {
		attrs = append(attrs, "shape=ellipse")
	}
	if n.Archetype == classify.Unknown {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using the neato engine, which honors
// the pinned node positions produced by [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Render produces the preview in the format implied by ext (".svg", ".png"
// or ".pdf"). PNG and PDF go through [render.ToPNG] and [render.ToPDF].
func Render(ctx context.Context, dot, ext string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(ext) {
	case ".svg", "":
		return svg, nil
	case ".png":
		return render.ToPNG(svg, 2.0)
	case ".pdf":
		return render.ToPDF(svg)
	}
	return nil, fmt.Errorf("unsupported preview format %q (use .svg, .png or .pdf)", ext)
}
