package classify

import "github.com/matzehuels/netdraw/pkg/scan"

// Classifier assigns archetypes using two ordered rule tables.
// The zero value is not usable; use [New] or [Default].
type Classifier struct {
	os    []Rule
	ports []Rule
}

// New creates a classifier over the given rule tables.
// OS rules are always evaluated before port rules.
func New(osRules, portRules []Rule) *Classifier {
	return &Classifier{os: osRules, ports: portRules}
}

// Default returns a classifier over [OSRules] and [PortRules].
func Default() *Classifier {
	return New(OSRules, PortRules)
}

// Classify returns exactly one archetype for h.
func (c *Classifier) Classify(h *scan.Host) Archetype {
	a, _ := c.Explain(h)
	return a
}

// Explain returns the archetype for h together with the name of the rule that
// decided it. The rule name is empty when h fell back to [Unknown].
func (c *Classifier) Explain(h *scan.Host) (Archetype, string) {
	if h == nil {
		return Unknown, ""
	}
	for _, table := range [][]Rule{c.os, c.ports} {
		for _, r := range table {
			if r.Match(h) {
				return r.Archetype, r.Name
			}
		}
	}
	return Unknown, ""
}

// ClassifyAll classifies hosts, returning archetypes in the same order.
func (c *Classifier) ClassifyAll(hosts []*scan.Host) []Archetype {
	out := make([]Archetype, len(hosts))
	for i, h := range hosts {
		out[i] = c.Classify(h)
	}
	return out
}
