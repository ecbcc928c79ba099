package layout

import (
	"cmp"
	"net/netip"
	"slices"
	"strings"

	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// SortMode selects the optional host ordering applied before placement.
type SortMode string

const (
	SortNone SortMode = "none" // discovery order
	SortIP   SortMode = "ip"   // numeric address order
	SortName SortMode = "name" // hostname, then address
)

// SortModes lists the accepted values in help-text order.
var SortModes = []SortMode{SortNone, SortIP, SortName}

// ParseSortMode converts a user-supplied value. The empty string means [SortNone].
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortNone, nil
	case SortNone, SortIP, SortName:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid sort mode: %q (must be one of: none, ip, name)", s)
}

// Sort returns hosts in the order selected by mode. The input slice is not
// modified. Sorting is stable, so equal keys keep discovery order.
func Sort(hosts []*scan.Host, mode SortMode) []*scan.Host {
	out := slices.Clone(hosts)
	switch mode {
	case SortIP:
		slices.SortStableFunc(out, func(a, b *scan.Host) int {
			return compareAddr(a.Address, b.Address)
		})
	case SortName:
		slices.SortStableFunc(out, func(a, b *scan.Host) int {
			if c := cmp.Compare(a.Hostname, b.Hostname); c != 0 {
				return c
			}
			return compareAddr(a.Address, b.Address)
		})
	}
	return out
}

// compareAddr orders parsable IP addresses numerically (IPv4 before IPv6) and
// places anything unparsable after them, ordered as strings.
func compareAddr(a, b string) int {
	ipA, errA := netip.ParseAddr(a)
	ipB, errB := netip.ParseAddr(b)
	switch {
	case errA == nil && errB == nil:
		if c := ipA.Compare(ipB); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}
