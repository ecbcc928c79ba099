package diagram

import (
	"strconv"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/layout"
)

// DefaultPageName is the page name used when none is configured.
const DefaultPageName = "Page-1"

// hubLabel is the visible text of the hub node.
const hubLabel = "Network"

// Options configures [Build].
type Options struct {
	PageName string
	// Catalog resolves styles. Nil means [DefaultCatalog].
	Catalog *Catalog
}

// Build assembles a document from placed hosts and their archetypes, which
// must be parallel to placed.Hosts.
//
// Ids are assigned sequentially after the two root cells: the hub first (when
// placed.Hub is set), then hosts in layout order, then one edge per host.
// Order lists edges before nodes and every node is marked to-front.
func Build(placed layout.Result, archetypes []classify.Archetype, opts Options) (*Document, error) {
	if len(archetypes) != len(placed.Hosts) {
		return nil, errors.New(errors.ErrCodeInternal,
			"got %d archetypes for %d hosts", len(archetypes), len(placed.Hosts))
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	name := opts.PageName
	if name == "" {
		name = DefaultPageName
	}

	doc := &Document{
		Name:       name,
		PageWidth:  placed.PageWidth,
		PageHeight: placed.PageHeight,
	}

	next := 2
	newID := func() string {
		id := strconv.Itoa(next)
		next++
		return id
	}

	var hubID string
	if placed.Hub != nil {
		hubID = newID()
		tip := hubTooltip(len(placed.Hosts))
		doc.Nodes = append(doc.Nodes, Node{
			ID:        hubID,
			Kind:      KindHub,
			Archetype: classify.Network,
			Label:     hubLabel,
			Tooltip:   tip,
			Value:     cellValue(hubLabel, tip),
			Style:     catalog.Style(classify.Network) + hubStyleSuffix,
			Geometry:  *placed.Hub,
		})
	}

	for i, p := range placed.Hosts {
		label, tip := Label(p.Host), Tooltip(p.Host)
		doc.Nodes = append(doc.Nodes, Node{
			ID:        newID(),
			Kind:      KindHost,
			Archetype: archetypes[i],
			Address:   p.Host.Address,
			Label:     label,
			Tooltip:   tip,
			Value:     cellValue(label, tip),
			Style:     catalog.Style(archetypes[i]),
			Geometry:  p.Slot,
		})
	}

	if hubID != "" {
		for _, n := range doc.Nodes {
			if n.Kind != KindHost {
				continue
			}
			doc.Edges = append(doc.Edges, Edge{
				ID:     newID(),
				Source: hubID,
				Target: n.ID,
				Style:  edgeStyle,
			})
		}
	}

	for _, e := range doc.Edges {
		doc.Order = append(doc.Order, e.ID)
	}
	for _, n := range doc.Nodes {
		doc.Order = append(doc.Order, n.ID)
		doc.ToFront = append(doc.ToFront, n.ID)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
