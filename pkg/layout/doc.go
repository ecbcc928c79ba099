// Package layout computes deterministic page coordinates for scanned hosts.
//
// Hosts are optionally re-ordered with [Sort], then placed by [Place] on a
// grid that fills left to right and wraps after a fixed column count
// (ceil(sqrt(n)) unless configured). Row and column pitch are the node size
// plus a gap, so slots never overlap. Inventories above 30, 80 and 150 hosts
// shrink every dimension to keep the page readable.
//
// When a hub is requested it is centered above the first row. The band it
// occupies is always reserved, so turning the hub off leaves every host slot
// where it was.
//
// Nothing here depends on time or randomness: the same hosts and options
// always produce the same [Result].
package layout
