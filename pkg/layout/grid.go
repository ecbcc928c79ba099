package layout

import (
	"math"

	"github.com/matzehuels/netdraw/pkg/scan"
)

// Base geometry at scale 1. Large inventories shrink every dimension by the
// same factor so the page stays manageable.
const (
	NodeWidth  = 160.0
	NodeHeight = 70.0
	Gap        = 40.0
	Margin     = 50.0

	HubWidth  = 90
	HubHeight = 60

	// hubBand is the vertical space reserved above the first row for the hub.
	// It is reserved whether or not the hub is drawn so toggling edges never
	// moves a host.
	hubBand = 90 + 40

	MinPageWidth  = 850
	MinPageHeight = 1100
)

// Options configures placement.
type Options struct {
	// Columns fixes the column count. Zero means ceil(sqrt(n)).
	Columns int
	// Hub adds a hub slot centered above the first row.
	Hub bool
}

// Slot is an integer rectangle on the page.
type Slot struct {
	X, Y          int
	Width, Height int
}

// Right returns the x coordinate of the right edge.
func (s Slot) Right() int { return s.X + s.Width }

// Bottom returns the y coordinate of the bottom edge.
func (s Slot) Bottom() int { return s.Y + s.Height }

// Overlaps reports whether s and o share any interior area.
func (s Slot) Overlaps(o Slot) bool {
	return s.X < o.Right() && o.X < s.Right() && s.Y < o.Bottom() && o.Y < s.Bottom()
}

// Geometry describes the grid computed for a host count.
type Geometry struct {
	Columns, Rows int
	Scale         float64
	NodeWidth     float64
	NodeHeight    float64
	Gap           float64
	// Width and Height are the unclamped extent of hub band plus grid.
	Width, Height float64
}

// Scale returns the shrink factor for n hosts.
func Scale(n int) float64 {
	switch {
	case n > 150:
		return 0.6
	case n > 80:
		return 0.7
	case n > 30:
		return 0.85
	}
	return 1.0
}

// Grid computes the grid geometry for n hosts.
func Grid(n int, opts Options) Geometry {
	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	cols = max(cols, 1)
	if n > 0 {
		cols = min(cols, n)
	}
	rows := max(1, (n+cols-1)/cols)

	s := Scale(n)
	g := Geometry{
		Columns:    cols,
		Rows:       rows,
		Scale:      s,
		NodeWidth:  NodeWidth * s,
		NodeHeight: NodeHeight * s,
		Gap:        Gap * s,
	}
	g.Width = Margin*2 + float64(cols)*g.NodeWidth + float64(cols-1)*g.Gap
	g.Height = Margin*2 + hubBand + float64(rows)*g.NodeHeight + float64(rows-1)*g.Gap
	return g
}

// Cell returns the slot of the i-th host in row-major order.
func (g Geometry) Cell(i int) Slot {
	r, c := i/g.Columns, i%g.Columns
	return Slot{
		X:      int(Margin + float64(c)*(g.NodeWidth+g.Gap)),
		Y:      int(Margin + hubBand + float64(r)*(g.NodeHeight+g.Gap)),
		Width:  int(g.NodeWidth),
		Height: int(g.NodeHeight),
	}
}

// Placement pairs a host with its slot.
type Placement struct {
	Host *scan.Host
	Slot Slot
}

// Result is the output of [Place].
type Result struct {
	Geometry Geometry
	// Hosts are in input order.
	Hosts []Placement
	// Hub is nil when Options.Hub is false.
	Hub *Slot

	PageWidth  int
	PageHeight int
}

// Place lays hosts out left to right, wrapping after Geometry.Columns hosts.
// It is a pure function of its input.
func Place(hosts []*scan.Host, opts Options) Result {
	g := Grid(len(hosts), opts)
	res := Result{
		Geometry:   g,
		Hosts:      make([]Placement, len(hosts)),
		PageWidth:  max(MinPageWidth, int(math.Ceil(g.Width))),
		PageHeight: max(MinPageHeight, int(math.Ceil(g.Height))),
	}
	for i, h := range hosts {
		res.Hosts[i] = Placement{Host: h, Slot: g.Cell(i)}
	}
	if opts.Hub {
		res.Hub = &Slot{
			X:      int(g.Width/2 - HubWidth/2),
			Y:      int(Margin),
			Width:  HubWidth,
			Height: HubHeight,
		}
	}
	return res
}
