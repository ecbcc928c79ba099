package scan

import (
	"io"
	"net/netip"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// NormalParser reads nmap's human-readable -oN output.
//
// A host block starts with "Nmap scan report for ..." and runs until the next
// such line. Within a block, port table rows ("22/tcp open ssh OpenSSH 8.9")
// and the OS detection lines are recognized; everything else is ignored.
type NormalParser struct{}

// Format returns [FormatNormal].
func (NormalParser) Format() Format { return FormatNormal }

var (
	normalHostLine = regexp.MustCompile(`^Nmap scan report for (.+)$`)
	normalHostAddr = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)$`)
	normalPortLine = regexp.MustCompile(`^(\d+)/(tcp|udp|sctp)\s+(\S+)\s+(\S+)(.*)$`)
)

// OS line prefixes, strongest evidence first.
const (
	prefixAggressive = "Aggressive OS guesses:"
	prefixGuesses    = "OS guesses:"
	prefixDetails    = "OS details:"
	prefixRunning    = "Running:"
	prefixService    = "Service Info:"
	hostDownSuffix   = "[host down]"
)

// Parse implements [ReportParser].
func (NormalParser) Parse(r io.Reader, opts Options) (*Inventory, error) {
	opts = opts.withDefaults()
	inv := NewInventory()

	var cur *Host
	flush := func() {
		if cur != nil {
			inv.Add(*cur)
			cur = nil
		}
	}

	err := eachLine(r, skipLongLine(opts), func(lineNo int, line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}

		if m := normalHostLine.FindStringSubmatch(line); m != nil {
			flush()
			if strings.HasSuffix(m[1], hostDownSuffix) {
				return true
			}
			h, ok := parseNormalHost(m[1])
			if !ok {
				opts.Logger("line %d: skipping host %q without an IP address", lineNo, m[1])
				return true
			}
			cur = &h
			return true
		}
		if cur == nil {
			return true
		}

		if m := normalPortLine.FindStringSubmatch(line); m != nil {
			if !IsOpen(m[3]) {
				return true
			}
			port, err := strconv.Atoi(m[1])
			if err != nil || !validPort(port) {
				opts.Logger("line %d: skipping port %q for %s: invalid port number", lineNo, m[1], cur.Address)
				return true
			}
			cur.addPort(PortRecord{
				Port:     port,
				Protocol: m[2],
				State:    StateOpen,
				Service:  serviceOrUnknown(strings.TrimSuffix(m[4], "?")),
				Version:  strings.TrimSpace(m[5]),
			})
			return true
		}

		applyNormalOSLine(cur, line)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnrecognizedFormat, err, "read normal report")
	}
	flush()
	return inv, nil
}

// parseNormalHost splits "name (ip)" or a bare "ip". A bare value that is not an
// IP address cannot identify the host and is rejected.
func parseNormalHost(s string) (Host, bool) {
	s = strings.TrimSpace(s)
	if m := normalHostAddr.FindStringSubmatch(s); m != nil {
		if _, err := netip.ParseAddr(m[2]); err == nil {
			return Host{Address: m[2], Hostname: strings.TrimSpace(m[1])}, true
		}
	}
	if _, err := netip.ParseAddr(s); err == nil {
		return Host{Address: s}, true
	}
	return Host{}, false
}

// applyNormalOSLine records the OS evidence carried by line, if any.
// Guess lists compete on accuracy; "OS details" overrides guesses without
// accuracy; "Running" and "Service Info" only fill an empty guess.
func applyNormalOSLine(h *Host, line string) {
	switch {
	case strings.HasPrefix(line, prefixAggressive):
		if g := parseGuessList(strings.TrimPrefix(line, prefixAggressive)); g.betterThan(h.OS) {
			h.OS = g
		}
	case strings.HasPrefix(line, prefixGuesses):
		if g := parseGuessList(strings.TrimPrefix(line, prefixGuesses)); g.betterThan(h.OS) {
			h.OS = g
		}
	case strings.HasPrefix(line, prefixDetails):
		g := parseGuessList(strings.TrimPrefix(line, prefixDetails))
		if g.Known() && !h.OS.HasAccuracy {
			h.OS = g
		}
	case strings.HasPrefix(line, prefixRunning):
		if !h.OS.Known() {
			h.OS = OSGuess{Name: strings.TrimSpace(strings.TrimPrefix(line, prefixRunning))}
		}
	case strings.HasPrefix(line, prefixService):
		if os := serviceInfoOS(strings.TrimPrefix(line, prefixService)); os != "" && !h.OS.Known() {
			h.OS = OSGuess{Name: os}
		}
	}
}
