package pipeline

import (
	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/diagram"
	"github.com/matzehuels/netdraw/pkg/layout"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// Arrange orders hosts by opts.Sort and classifies them in that order. The
// returned slices are parallel.
func Arrange(inv *scan.Inventory, c *classify.Classifier, opts Options) ([]*scan.Host, []classify.Archetype, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	if c == nil {
		c = classify.Default()
	}
	hosts := layout.Sort(inv.Hosts(), opts.SortMode())
	return hosts, c.ClassifyAll(hosts), nil
}

// BuildDocument places the arranged hosts and assembles the diagram.
func BuildDocument(hosts []*scan.Host, archetypes []classify.Archetype, opts Options) (*diagram.Document, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	catalog, err := opts.Catalog()
	if err != nil {
		return nil, err
	}

	placed := layout.Place(hosts, opts.LayoutOptions())
	doc, err := diagram.Build(placed, archetypes, diagram.Options{
		PageName: opts.PageName,
		Catalog:  catalog,
	})
	if err != nil {
		return nil, err
	}
	doc.ApplyZOrder()
	return doc, nil
}
