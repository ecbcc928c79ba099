package classify

import (
	"github.com/matzehuels/netdraw/pkg/errors"
)

// Archetype is the kind of device a host is drawn as.
type Archetype string

// The closed set of archetypes. Network is reserved for the hub node; Unknown
// is assigned when no rule fires.
const (
	Network     Archetype = "network"
	Router      Archetype = "router"
	Switch      Archetype = "switch"
	Firewall    Archetype = "firewall"
	WirelessAP  Archetype = "wireless_ap"
	Server      Archetype = "server"
	Workstation Archetype = "workstation"
	Printer     Archetype = "printer"
	IPPhone     Archetype = "ip_phone"
	Camera      Archetype = "camera"
	Unknown     Archetype = "unknown"
)

// All lists every archetype in display order.
var All = []Archetype{
	Network, Router, Switch, Firewall, WirelessAP,
	Server, Workstation, Printer, IPPhone, Camera, Unknown,
}

// Valid reports whether a is one of the defined archetypes.
func (a Archetype) Valid() bool {
	for _, v := range All {
		if a == v {
			return true
		}
	}
	return false
}

// ParseArchetype converts a name such as "ip_phone" into an Archetype.
func ParseArchetype(s string) (Archetype, error) {
	if a := Archetype(s); a.Valid() {
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown device archetype %q", s)
}
