package diagram

import (
	"slices"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/layout"
)

// Reserved ids of the two structural root cells every draw.io page carries.
const (
	RootID  = "0"
	LayerID = "1"
)

// Kind distinguishes the hub from host nodes.
type Kind string

const (
	KindHub  Kind = "hub"
	KindHost Kind = "host"
)

// Node is one vertex of the diagram.
type Node struct {
	ID        string
	Kind      Kind
	Archetype classify.Archetype
	// Address is empty for the hub.
	Address string
	// Label and Tooltip are plain and escaped text respectively; Value is the
	// rendered cell HTML built from them.
	Label    string
	Tooltip  string
	Value    string
	Style    string
	Geometry layout.Slot
}

// Edge connects the hub to a host.
type Edge struct {
	ID     string
	Source string
	Target string
	Style  string
}

// Document is the intermediate diagram graph handed to serializers.
//
// Order is the initial element order (edges first, then nodes). ToFront lists
// ids that are brought to the front; [Document.ZOrder] yields the final
// emission order.
type Document struct {
	Name       string
	PageWidth  int
	PageHeight int
	Nodes      []Node
	Edges      []Edge
	Order      []string
	ToFront    []string
}

// Hub returns the hub node, if the document has one.
func (d *Document) Hub() (Node, bool) {
	for _, n := range d.Nodes {
		if n.Kind == KindHub {
			return n, true
		}
	}
	return Node{}, false
}

// HostCount returns the number of host nodes.
func (d *Document) HostCount() int {
	n := 0
	for _, node := range d.Nodes {
		if node.Kind == KindHost {
			n++
		}
	}
	return n
}

// ZOrder returns Order with every ToFront id moved to the end, in ToFront
// order. Each id appears exactly once no matter how often it is listed.
func (d *Document) ZOrder() []string {
	front := make(map[string]bool, len(d.ToFront))
	var tail []string
	for _, id := range d.ToFront {
		if !front[id] {
			front[id] = true
			tail = append(tail, id)
		}
	}

	out := make([]string, 0, len(d.Order))
	for _, id := range d.Order {
		if !front[id] {
			out = append(out, id)
		}
	}
	return append(out, tail...)
}

// ApplyZOrder rewrites Order to [Document.ZOrder] and clears ToFront.
func (d *Document) ApplyZOrder() {
	d.Order = d.ZOrder()
	d.ToFront = nil
}

// Validate checks the structural invariants serializers rely on: ids are
// unique and never reuse the root cell ids, edges reference existing nodes,
// Order lists every element exactly once, ToFront names only known elements,
// and after z-ordering no edge is drawn above a node.
func (d *Document) Validate() error {
	kinds := make(map[string]string, len(d.Nodes)+len(d.Edges))
	claim := func(id, kind string) error {
		if id == "" {
			return errors.New(errors.ErrCodeInternal, "%s with empty id", kind)
		}
		if id == RootID || id == LayerID {
			return errors.New(errors.ErrCodeInternal, "%s uses reserved id %q", kind, id)
		}
		if _, dup := kinds[id]; dup {
			return errors.New(errors.ErrCodeInternal, "duplicate id %q", id)
		}
		kinds[id] = kind
		return nil
	}

	for _, n := range d.Nodes {
		if err := claim(n.ID, "node"); err != nil {
			return err
		}
	}
	for _, e := range d.Edges {
		if err := claim(e.ID, "edge"); err != nil {
			return err
		}
	}
	for _, e := range d.Edges {
		if kinds[e.Source] != "node" || kinds[e.Target] != "node" {
			return errors.New(errors.ErrCodeInternal, "edge %s references unknown node (%s -> %s)", e.ID, e.Source, e.Target)
		}
	}

	if len(d.Order) != len(kinds) {
		return errors.New(errors.ErrCodeInternal, "order lists %d elements, document has %d", len(d.Order), len(kinds))
	}
	seen := make(map[string]bool, len(d.Order))
	for _, id := range d.Order {
		if _, ok := kinds[id]; !ok || seen[id] {
			return errors.New(errors.ErrCodeInternal, "order entry %q is unknown or repeated", id)
		}
		seen[id] = true
	}
	for _, id := range d.ToFront {
		if _, ok := kinds[id]; !ok {
			return errors.New(errors.ErrCodeInternal, "to-front entry %q is unknown", id)
		}
	}

	z := d.ZOrder()
	firstNode := slices.IndexFunc(z, func(id string) bool { return kinds[id] == "node" })
	if firstNode >= 0 && slices.ContainsFunc(z[firstNode:], func(id string) bool { return kinds[id] == "edge" }) {
		return errors.New(errors.ErrCodeInternal, "an edge is ordered above a node")
	}
	return nil
}

// NodeByID returns the node with the given id.
func (d *Document) NodeByID(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeByID returns the edge with the given id.
func (d *Document) EdgeByID(id string) (Edge, bool) {
	for _, e := range d.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}
