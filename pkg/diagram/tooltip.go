package diagram

import (
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/netdraw/pkg/scan"
)

// Label returns the visible node text: "hostname\naddress", or just the
// address when no distinct hostname is known. The result is not escaped.
func Label(h *scan.Host) string {
	if h.Hostname != "" && h.Hostname != h.Address {
		return h.Hostname + "\n" + h.Address
	}
	return h.Address
}

// Tooltip returns the hover text for a host with every fragment HTML-escaped.
// Lines are separated by "\n":
//
//	OS: Microsoft Windows Server 2019 (96%)
//	Open ports:
//	445/tcp microsoft-ds
func Tooltip(h *scan.Host) string {
	var lines []string
	if h.OS.Known() {
		lines = append(lines, "OS: "+html.EscapeString(h.OS.String()))
	} else {
		lines = append(lines, "OS: Unknown")
	}

	if len(h.Ports) == 0 {
		lines = append(lines, "No open ports parsed")
	} else {
		lines = append(lines, "Open ports:")
		for _, p := range h.Ports {
			lines = append(lines, html.EscapeString(p.String()))
		}
	}
	return strings.Join(lines, "\n")
}

// hubTooltip is the hover text of the hub node.
func hubTooltip(hosts int) string {
	return fmt.Sprintf("%d host(s)", hosts)
}

// cellValue renders the HTML shown inside a draw.io cell: the label in a
// badge, with the tooltip carried by the title attribute. label is escaped
// here; tooltip must already be escaped.
func cellValue(label, tooltip string) string {
	safeLabel := strings.ReplaceAll(html.EscapeString(label), "\n", "<br/>")
	safeTip := strings.ReplaceAll(tooltip, "\n", "&#10;")
	return `<div title="` + safeTip + `" style="text-align:center;">` +
		`<span style="display:inline-block;background:#000000;color:#00CC66;` +
		`padding:3px 8px;border-radius:6px;font-size:18px;font-weight:600;line-height:1.2;">` +
		safeLabel + `</span></div>`
}
