package scan

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// GrepableParser reads nmap -oG output.
//
// Each host appears on one or more "Host:" lines whose fields are tab-delimited:
//
//	Host: 10.0.0.5 (nas.lan)	Status: Up
//	Host: 10.0.0.5 (nas.lan)	Ports: 22/open/tcp//ssh//OpenSSH 8.9/, 445/open/tcp//microsoft-ds///	OS: Linux 5.4
//
// Lines for the same address are merged by the inventory.
type GrepableParser struct{}

// Format returns [FormatGrepable].
func (GrepableParser) Format() Format { return FormatGrepable }

var grepableHost = regexp.MustCompile(`^Host:\s+(\S+)(?:\s+\(([^)]*)\))?`)

// Parse implements [ReportParser].
func (GrepableParser) Parse(r io.Reader, opts Options) (*Inventory, error) {
	opts = opts.withDefaults()
	inv := NewInventory()

	err := eachLine(r, skipLongLine(opts), func(lineNo int, line string) bool {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Host:") {
			return true
		}
		if h, ok := parseGrepableLine(line, lineNo, opts); ok {
			inv.Add(h)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnrecognizedFormat, err, "read greppable report")
	}
	return inv, nil
}

// parseGrepableLine parses one "Host:" line. It returns false for hosts that
// are down or for lines without a usable address.
func parseGrepableLine(line string, lineNo int, opts Options) (Host, bool) {
	m := grepableHost.FindStringSubmatch(line)
	if m == nil {
		opts.Logger("line %d: skipping Host line without an address", lineNo)
		return Host{}, false
	}
	h := Host{Address: m[1], Hostname: strings.TrimSpace(m[2])}

	for key, val := range grepableFields(line) {
		switch key {
		case "Status":
			if !strings.EqualFold(val, "up") {
				return Host{}, false
			}
		case "Ports":
			h.Ports = parseGrepablePorts(val, h.Address, lineNo, opts)
		case "OS":
			h.OS = parseGuessList(val)
		}
	}
	return h, true
}

// grepableFields splits a Host line into its "Key: value" fields.
func grepableFields(line string) map[string]string {
	fields := make(map[string]string)
	locs := grepableField.FindAllStringSubmatchIndex(line, -1)
	for i, loc := range locs {
		key := line[loc[2]:loc[3]]
		end := len(line)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		fields[key] = strings.TrimSpace(line[loc[1]:end])
	}
	return fields
}

// parseGrepablePorts parses "port/state/proto/owner/service/rpc/version/" chunks.
func parseGrepablePorts(blob, addr string, lineNo int, opts Options) []PortRecord {
	var ports []PortRecord
	for _, chunk := range strings.Split(blob, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		parts := strings.Split(chunk, "/")
		if len(parts) < 5 {
			opts.Logger("line %d: skipping malformed port entry %q for %s", lineNo, chunk, addr)
			continue
		}
		if !IsOpen(parts[1]) {
			continue
		}
		port, err := strconv.Atoi(parts[0])
		if err != nil || !validPort(port) {
			opts.Logger("line %d: skipping port %q for %s: invalid port number", lineNo, parts[0], addr)
			continue
		}
		rec := PortRecord{
			Port:     port,
			Protocol: protocolOrDefault(parts[2]),
			State:    StateOpen,
			Service:  serviceOrUnknown(parts[4]),
		}
		if len(parts) > 6 {
			// nmap escapes "/" inside version strings as "|".
			rec.Version = strings.TrimSpace(strings.ReplaceAll(parts[6], "|", "/"))
		}
		ports = append(ports, rec)
	}
	return ports
}
