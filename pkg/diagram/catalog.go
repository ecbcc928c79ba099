package diagram

import (
	"maps"
	"strings"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/errors"
)

// defaultShapes maps archetypes to draw.io stencil names.
var defaultShapes = map[classify.Archetype]string{
	classify.Network:     "mxgraph.mscae.enterprise.internet",
	classify.Router:      "mxgraph.mscae.enterprise.router",
	classify.Switch:      "mxgraph.mscae.enterprise.device",
	classify.Firewall:    "mxgraph.cisco_safe.security_icons.firewall",
	classify.WirelessAP:  "mxgraph.ios7.icons.wifi",
	classify.Server:      "mxgraph.mscae.enterprise.server_generic",
	classify.Workstation: "mxgraph.mscae.enterprise.workstation_client",
	classify.Printer:     "mxgraph.cisco19.printer",
	classify.IPPhone:     "mxgraph.cisco19.ip_phone",
	classify.Camera:      "mxgraph.aws4.camera2",
	classify.Unknown:     "mxgraph.mscae.enterprise.device",
}

// Catalog resolves archetypes to visual styles. The shape registered for
// [classify.Unknown] is the fallback for any archetype without an entry.
type Catalog struct {
	shapes map[classify.Archetype]string
}

// DefaultCatalog returns the built-in stencil mapping.
func DefaultCatalog() *Catalog {
	return &Catalog{shapes: maps.Clone(defaultShapes)}
}

// WithOverrides returns a copy of c with the given archetype -> shape entries
// replaced. Keys must name a known archetype and values must be non-empty.
func (c *Catalog) WithOverrides(overrides map[string]string) (*Catalog, error) {
	out := &Catalog{shapes: maps.Clone(c.shapes)}
	for name, shape := range overrides {
		a, err := classify.ParseArchetype(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		shape = strings.TrimSpace(shape)
		if shape == "" || strings.ContainsAny(shape, ";=") {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid shape %q for %s", shape, a)
		}
		out.shapes[a] = shape
	}
	return out, nil
}

// Shape returns the stencil name for a, falling back to the Unknown entry.
func (c *Catalog) Shape(a classify.Archetype) string {
	if s, ok := c.shapes[a]; ok && s != "" {
		return s
	}
	return c.shapes[classify.Unknown]
}

// Style returns the full draw.io style string for a node of archetype a.
func (c *Catalog) Style(a classify.Archetype) string {
	return "shape=" + c.Shape(a) + ";" + nodeStyleSuffix
}

// Entry is one resolved catalog row.
type Entry struct {
	Archetype classify.Archetype
	Shape     string
}

// Entries lists every archetype with its effective shape, in [classify.All] order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(classify.All))
	for _, a := range classify.All {
		out = append(out, Entry{Archetype: a, Shape: c.Shape(a)})
	}
	return out
}

const (
	nodeStyleSuffix = "html=1;whiteSpace=wrap;align=center;verticalAlign=middle;strokeWidth=1;"
	hubStyleSuffix  = "aspect=fixed;"
	edgeStyle       = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;endArrow=none;"
)
