package scan

// Inventory is an ordered collection of hosts keyed by address.
// Iteration order is the order in which addresses were first seen.
// The zero value is not usable; create instances with [NewInventory].
type Inventory struct {
	hosts map[string]*Host
	order []string
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{hosts: make(map[string]*Host)}
}

// Add records h, merging it into an existing host with the same address.
// Hosts without an address are ignored. Add copies h; the caller keeps ownership.
//
// Merge policy:
//   - hostname is filled in when the existing entry has none
//   - ports are appended unless the same port/protocol is already present
//   - the OS guess is replaced only by a guess with strictly higher accuracy
func (inv *Inventory) Add(h Host) {
	if h.Address == "" {
		return
	}
	existing, ok := inv.hosts[h.Address]
	if !ok {
		c := &Host{Address: h.Address, Hostname: h.Hostname, OS: h.OS}
		for _, p := range h.Ports {
			c.addPort(p)
		}
		inv.hosts[h.Address] = c
		inv.order = append(inv.order, h.Address)
		return
	}

	if existing.Hostname == "" {
		existing.Hostname = h.Hostname
	}
	if h.OS.betterThan(existing.OS) {
		existing.OS = h.OS
	}
	for _, p := range h.Ports {
		existing.addPort(p)
	}
}

// Get returns the host with the given address.
func (inv *Inventory) Get(addr string) (*Host, bool) {
	h, ok := inv.hosts[addr]
	return h, ok
}

// Len returns the number of distinct addresses.
func (inv *Inventory) Len() int {
	return len(inv.order)
}

// Hosts returns the hosts in first-seen order.
// The slice is fresh but the hosts are shared with the inventory.
func (inv *Inventory) Hosts() []*Host {
	out := make([]*Host, len(inv.order))
	for i, addr := range inv.order {
		out[i] = inv.hosts[addr]
	}
	return out
}
