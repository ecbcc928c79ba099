package scan

import (
	"encoding/xml"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// XMLParser reads nmap -oX output.
//
// The document is streamed: each <host> element is decoded on its own into an
// [nmap.Host], so one malformed host does not prevent the others from loading,
// and a truncated document keeps every host that was complete.
type XMLParser struct{}

// Format returns [FormatXML].
func (XMLParser) Format() Format { return FormatXML }

// Parse implements [ReportParser].
func (XMLParser) Parse(r io.Reader, opts Options) (*Inventory, error) {
	opts = opts.withDefaults()
	inv := NewInventory()
	dec := xml.NewDecoder(r)
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !sawRoot {
				return nil, errors.Wrap(errors.ErrCodeUnrecognizedFormat, err, "decode XML report")
			}
			opts.Logger("xml report truncated after %d host(s): %v", inv.Len(), err)
			break
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "nmaprun":
			sawRoot = true
		case "host":
			if !sawRoot {
				continue
			}
			var raw rawHost
			if err := dec.DecodeElement(&raw, &se); err != nil {
				var syntaxErr *xml.SyntaxError
				if stderrors.As(err, &syntaxErr) {
					opts.Logger("xml report truncated after %d host(s): %v", inv.Len(), err)
					return inv, nil
				}
				opts.Logger("skipping malformed host element: %v", err)
				continue
			}
			h, err := raw.decode(opts)
			if err != nil {
				opts.Logger("skipping malformed host element: %v", err)
				continue
			}
			if host, ok := convertXMLHost(h, opts); ok {
				inv.Add(host)
			}
		}
	}

	if !sawRoot {
		return nil, errors.New(errors.ErrCodeUnrecognizedFormat, "XML input has no <nmaprun> root element")
	}
	return inv, nil
}

// rawHost holds the children of one <host> element. The element's own
// attributes (start and end times, comment) are not needed and are never
// decoded, so bad values there cannot cost the host.
type rawHost struct {
	Inner []byte `xml:",innerxml"`
}

// decode unmarshals the element into an [nmap.Host]. When a child attribute
// does not fit the nmap types (a non-numeric portid or accuracy, say), the
// element is decoded again with lenientHost so only the bad record is lost.
func (r rawHost) decode(opts Options) (nmap.Host, error) {
	doc := make([]byte, 0, len(r.Inner)+13)
	doc = append(doc, "<host>"...)
	doc = append(doc, r.Inner...)
	doc = append(doc, "</host>"...)

	var h nmap.Host
	strictErr := xml.Unmarshal(doc, &h)
	if strictErr == nil {
		return h, nil
	}

	var lh lenientHost
	if err := xml.Unmarshal(doc, &lh); err != nil {
		return nmap.Host{}, err
	}
	return lh.toHost(strictErr, opts), nil
}

// lenientHost mirrors the parts of nmap's host element that netdraw uses,
// with numeric attributes kept as text.
type lenientHost struct {
	Status struct {
		State string `xml:"state,attr"`
	} `xml:"status"`
	Addresses []nmap.Address  `xml:"address"`
	Hostnames []nmap.Hostname `xml:"hostnames>hostname"`
	Ports     []struct {
		ID       string `xml:"portid,attr"`
		Protocol string `xml:"protocol,attr"`
		State    struct {
			State string `xml:"state,attr"`
		} `xml:"state"`
		Service struct {
			Name      string `xml:"name,attr"`
			Product   string `xml:"product,attr"`
			Version   string `xml:"version,attr"`
			ExtraInfo string `xml:"extrainfo,attr"`
		} `xml:"service"`
	} `xml:"ports>port"`
	OSMatches []struct {
		Name     string `xml:"name,attr"`
		Accuracy string `xml:"accuracy,attr"`
	} `xml:"os>osmatch"`
}

func (lh lenientHost) toHost(cause error, opts Options) nmap.Host {
	h := nmap.Host{
		Status:    nmap.Status{State: lh.Status.State},
		Addresses: lh.Addresses,
		Hostnames: lh.Hostnames,
	}
	addr := primaryAddress(h.Addresses)
	opts.Logger("host %s: recovering from malformed element: %v", addr, cause)

	for _, p := range lh.Ports {
		id, err := strconv.ParseUint(strings.TrimSpace(p.ID), 10, 16)
		if err != nil {
			opts.Logger("skipping port %q/%s on %s: invalid port number", p.ID, p.Protocol, addr)
			continue
		}
		h.Ports = append(h.Ports, nmap.Port{
			ID:       uint16(id),
			Protocol: p.Protocol,
			State:    nmap.State{State: p.State.State},
			Service: nmap.Service{
				Name:      p.Service.Name,
				Product:   p.Service.Product,
				Version:   p.Service.Version,
				ExtraInfo: p.Service.ExtraInfo,
			},
		})
	}
	for _, m := range lh.OSMatches {
		acc, err := strconv.Atoi(strings.TrimSpace(m.Accuracy))
		if err != nil {
			opts.Logger("dropping os match %q on %s: invalid accuracy %q", m.Name, addr, m.Accuracy)
			continue
		}
		h.OS.Matches = append(h.OS.Matches, nmap.OSMatch{Name: m.Name, Accuracy: acc})
	}
	return h
}

// convertXMLHost maps a decoded nmap host onto a Host.
// Hosts that nmap reports as down are dropped silently; hosts without an IP
// address are a record-level defect.
func convertXMLHost(h nmap.Host, opts Options) (Host, bool) {
	if h.Status.State != "" && !strings.EqualFold(h.Status.State, "up") {
		return Host{}, false
	}

	addr := primaryAddress(h.Addresses)
	if addr == "" {
		opts.Logger("skipping host element without an IP address")
		return Host{}, false
	}

	out := Host{Address: addr, OS: bestOSMatch(h.OS.Matches)}
	if len(h.Hostnames) > 0 {
		out.Hostname = h.Hostnames[0].Name
	}

	for _, p := range h.Ports {
		if !IsOpen(p.State.State) {
			continue
		}
		if !validPort(int(p.ID)) {
			opts.Logger("skipping port %d/%s on %s: invalid port number", p.ID, p.Protocol, addr)
			continue
		}
		out.Ports = append(out.Ports, PortRecord{
			Port:     int(p.ID),
			Protocol: protocolOrDefault(p.Protocol),
			State:    StateOpen,
			Service:  serviceOrUnknown(p.Service.Name),
			Version:  joinNonEmpty(p.Service.Product, p.Service.Version, p.Service.ExtraInfo),
		})
	}
	return out, true
}

// primaryAddress prefers the first IPv4 or IPv6 address; MAC addresses never qualify.
func primaryAddress(addrs []nmap.Address) string {
	for _, a := range addrs {
		if a.AddrType == "ipv4" || a.AddrType == "ipv6" {
			return a.Addr
		}
	}
	return ""
}

// bestOSMatch returns the osmatch with the highest accuracy; ties keep the first.
func bestOSMatch(matches []nmap.OSMatch) OSGuess {
	var best OSGuess
	for _, m := range matches {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		if !best.Known() || m.Accuracy > best.Accuracy {
			best = OSGuess{Name: name, Accuracy: m.Accuracy, HasAccuracy: true}
		}
	}
	return best
}

func protocolOrDefault(proto string) string {
	if proto == "" {
		return "tcp"
	}
	return strings.ToLower(proto)
}

func serviceOrUnknown(name string) string {
	if name == "" {
		return unknownService
	}
	return name
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
