package scan

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Port states as reported by nmap. Only [StateOpen] ports are retained.
const (
	StateOpen     = "open"
	StateClosed   = "closed"
	StateFiltered = "filtered"
)

// PortRecord is one exposed service on a host.
type PortRecord struct {
	Port     int    `json:"port" yaml:"port"`
	Protocol string `json:"protocol" yaml:"protocol"`
	State    string `json:"state" yaml:"state"`
	Service  string `json:"service" yaml:"service"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
}

// key identifies a port record within one host.
func (p PortRecord) key() string {
	return fmt.Sprintf("%d/%s", p.Port, p.Protocol)
}

// String renders the record the way nmap prints it, e.g. "445/tcp microsoft-ds Samba 4.6".
func (p PortRecord) String() string {
	s := fmt.Sprintf("%d/%s %s", p.Port, p.Protocol, p.Service)
	if p.Version != "" {
		s += " " + p.Version
	}
	return s
}

// IsOpen reports whether the state describes an active, reachable port.
// nmap prints "open|filtered" for UDP ports it cannot confirm; those are not open.
func IsOpen(state string) bool {
	return strings.EqualFold(strings.TrimSpace(state), StateOpen)
}

// validPort reports whether n is a usable TCP/UDP port number.
func validPort(n int) bool {
	return n >= 1 && n <= 65535
}

// OSGuess is nmap's operating system guess for a host.
// Accuracy is only meaningful when HasAccuracy is true. Encoded, the accuracy
// key is present exactly when HasAccuracy is set, so a reported 0% survives.
type OSGuess struct {
	Name        string
	Accuracy    int
	HasAccuracy bool
}

type osGuessWire struct {
	Name     string `json:"name" yaml:"name"`
	Accuracy *int   `json:"accuracy,omitempty" yaml:"accuracy,omitempty"`
}

func (g OSGuess) wire() osGuessWire {
	w := osGuessWire{Name: g.Name}
	if g.HasAccuracy {
		acc := g.Accuracy
		w.Accuracy = &acc
	}
	return w
}

func (g *OSGuess) fromWire(w osGuessWire) {
	*g = OSGuess{Name: w.Name}
	if w.Accuracy != nil {
		g.Accuracy, g.HasAccuracy = *w.Accuracy, true
	}
}

// MarshalJSON implements [json.Marshaler].
func (g OSGuess) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.wire())
}

// UnmarshalJSON implements [json.Unmarshaler].
func (g *OSGuess) UnmarshalJSON(data []byte) error {
	var w osGuessWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	g.fromWire(w)
	return nil
}

// MarshalYAML implements [yaml.Marshaler].
func (g OSGuess) MarshalYAML() (any, error) {
	return g.wire(), nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (g *OSGuess) UnmarshalYAML(n *yaml.Node) error {
	var w osGuessWire
	if err := n.Decode(&w); err != nil {
		return err
	}
	g.fromWire(w)
	return nil
}

// Known reports whether a guess was recorded.
func (g OSGuess) Known() bool {
	return g.Name != ""
}

// String renders "Name (NN%)" or just the name when no accuracy was reported.
func (g OSGuess) String() string {
	if !g.Known() {
		return ""
	}
	if g.HasAccuracy {
		return fmt.Sprintf("%s (%d%%)", g.Name, g.Accuracy)
	}
	return g.Name
}

// betterThan reports whether g should replace the current guess.
// A guess replaces nothing, or a guess with unknown or strictly lower accuracy.
func (g OSGuess) betterThan(current OSGuess) bool {
	if !g.Known() {
		return false
	}
	if !current.Known() {
		return true
	}
	return g.HasAccuracy && (!current.HasAccuracy || g.Accuracy > current.Accuracy)
}

// Host is one discovered network endpoint.
type Host struct {
	Address  string       `json:"address" yaml:"address"`
	Hostname string       `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OS       OSGuess      `json:"os,omitzero" yaml:"os,omitempty"`
	Ports    []PortRecord `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// DisplayName returns the hostname if known, otherwise the address.
func (h *Host) DisplayName() string {
	if h.Hostname != "" {
		return h.Hostname
	}
	return h.Address
}

// HasPort reports whether any retained port record uses one of the given numbers.
func (h *Host) HasPort(ports ...int) bool {
	for _, p := range h.Ports {
		for _, want := range ports {
			if p.Port == want {
				return true
			}
		}
	}
	return false
}

// addPort appends p unless a record for the same port and protocol exists.
// An existing record without service details picks them up from p.
func (h *Host) addPort(p PortRecord) {
	for i := range h.Ports {
		if h.Ports[i].key() != p.key() {
			continue
		}
		if (h.Ports[i].Service == "" || h.Ports[i].Service == unknownService) && p.Service != "" {
			h.Ports[i].Service = p.Service
		}
		if h.Ports[i].Version == "" {
			h.Ports[i].Version = p.Version
		}
		return
	}
	h.Ports = append(h.Ports, p)
}

// unknownService is nmap's placeholder when no service name was identified.
const unknownService = "unknown"
