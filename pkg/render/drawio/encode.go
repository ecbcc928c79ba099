package drawio

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/netdraw/pkg/buildinfo"
	"github.com/matzehuels/netdraw/pkg/diagram"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/layout"
)

// Document metadata expected by the draw.io viewer.
const (
	appHost     = "app.diagrams.net"
	fileVersion = "22.0.8"
	fileType    = "device"
)

// idNamespace seeds diagram ids. Ids are name-based (UUIDv5) so identical
// input always encodes to identical bytes.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://app.diagrams.net/netdraw"))

// DiagramID returns the deterministic page id for doc: a UUIDv5 over the page
// name and the host addresses in layout order.
func DiagramID(doc *diagram.Document) string {
	var key bytes.Buffer
	key.WriteString(doc.Name)
	for _, n := range doc.Nodes {
		key.WriteByte(0)
		key.WriteString(n.Address)
	}
	return uuid.NewSHA1(idNamespace, key.Bytes()).String()
}

// Encode renders doc as an uncompressed .drawio document. The document is
// validated first, and cells are written in z-order after the two root cells.
func Encode(doc *diagram.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	root := mxRoot{Cells: []mxCell{
		{ID: diagram.RootID},
		{ID: diagram.LayerID, Parent: diagram.RootID},
	}}
	for _, id := range doc.ZOrder() {
		if n, ok := doc.NodeByID(id); ok {
			root.Cells = append(root.Cells, nodeCell(n))
			continue
		}
		if e, ok := doc.EdgeByID(id); ok {
			root.Cells = append(root.Cells, edgeCell(e))
		}
	}

	file := mxFile{
		Host:    appHost,
		Agent:   buildinfo.Agent(),
		Version: fileVersion,
		Type:    fileType,
		Diagram: mxDiagram{
			ID:   DiagramID(doc),
			Name: doc.Name,
			Model: mxGraphModel{
				Dx: 1200, Dy: 800,
				Grid: 1, GridSize: 10,
				Guides: 1, Tooltips: 1, Connect: 1, Arrows: 1, Fold: 1,
				Page: 1, PageScale: 1,
				PageWidth:  max(doc.PageWidth, layout.MinPageWidth),
				PageHeight: max(doc.PageHeight, layout.MinPageHeight),
				Root:       root,
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode diagram")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func nodeCell(n diagram.Node) mxCell {
	value := n.Value
	return mxCell{
		ID:     n.ID,
		Value:  &value,
		Style:  n.Style,
		Vertex: "1",
		Parent: diagram.LayerID,
		Geometry: &mxGeometry{
			X:      strconv.Itoa(n.Geometry.X),
			Y:      strconv.Itoa(n.Geometry.Y),
			Width:  strconv.Itoa(n.Geometry.Width),
			Height: strconv.Itoa(n.Geometry.Height),
			As:     "geometry",
		},
	}
}

func edgeCell(e diagram.Edge) mxCell {
	empty := ""
	return mxCell{
		ID:       e.ID,
		Value:    &empty,
		Style:    e.Style,
		Edge:     "1",
		Parent:   diagram.LayerID,
		Source:   e.Source,
		Target:   e.Target,
		Geometry: &mxGeometry{Relative: "1", As: "geometry"},
	}
}
