package classify

import (
	"regexp"
	"strings"

	"github.com/matzehuels/netdraw/pkg/scan"
)

// Rule maps a host predicate to an archetype. Rules are evaluated in slice
// order and the first match wins.
type Rule struct {
	Name      string
	Archetype Archetype
	Match     func(h *scan.Host) bool
}

// OSRules match keywords in the OS guess. Appliance firmware is checked before
// general-purpose OS families so "Cisco IOS" never falls through to "unix-like".
var OSRules = []Rule{
	osRule("firewall", Firewall, "firewall", "fortigate", "fortios", "pfsense", "opnsense", "sonicwall", "pan-os"),
	osRule("router", Router, "router", "cisco ios", "juniper", "junos", "routeros", "mikrotik", "vyos", "openwrt"),
	osRule("switch", Switch, "switch", "procurve", "catalyst"),
	osRule("wireless access point", WirelessAP, "wireless", "access point", "airos"),
	osRule("printer firmware", Printer, "printer", "jetdirect", "laserjet", "print server"),
	osRule("ip phone firmware", IPPhone, "voip", "ip phone", "sip phone", "polycom", "yealink"),
	osRule("camera firmware", Camera, "camera", "webcam", "dvr", "nvr", "hikvision", "dahua"),
	osRule("generic network device", Router, "network device"),
	osRule("server os", Server, "server", "esxi", "vmware esx"),
	osRule("workstation os", Workstation, "windows", "mac os x", "macos", "os x"),
	osRule("unix-like os", Server, "linux", "unix", "freebsd", "openbsd", "solaris", "aix"),
}

// PortRules match open ports and service names. They only run when no OS rule fired.
var PortRules = []Rule{
	portRule("printing", Printer, []int{9100, 631, 515}, `printer|ipp|jetdirect`),
	portRule("session initiation", IPPhone, []int{5060, 5061, 2000, 1719, 1720}, `\bsip\b|sccp|h323`),
	portRule("streaming", Camera, []int{554}, `\brtsp\b`),
	portRule("remote desktop", Workstation, []int{3389}, `\brdp\b|ms-wbt-server`),
	portRule("file sharing", Server, []int{445, 139, 2049, 548}, `\bsmb\b|microsoft-ds|netbios-ssn|\bnfs\b|\bafp\b`),
	portRule("routing protocols", Router, []int{179}, `\bbgp\b`),
	portRule("network services", Server, []int{389, 88, 3306, 5432, 1433, 25, 22, 80, 443}, `ldap|kerberos|mysql|postgresql|ms-sql|smtp|\bssh\b`),
}

// osRule matches when the lowercased OS guess contains any keyword.
func osRule(name string, a Archetype, keywords ...string) Rule {
	return Rule{
		Name:      name,
		Archetype: a,
		Match: func(h *scan.Host) bool {
			os := strings.ToLower(h.OS.Name)
			if os == "" {
				return false
			}
			for _, kw := range keywords {
				if strings.Contains(os, kw) {
					return true
				}
			}
			return false
		},
	}
}

// portRule matches when the host has any of ports open, or any open service
// name matches the case-insensitive pattern.
func portRule(name string, a Archetype, ports []int, pattern string) Rule {
	rx := regexp.MustCompile(`(?i)` + pattern)
	return Rule{
		Name:      name,
		Archetype: a,
		Match: func(h *scan.Host) bool {
			if h.HasPort(ports...) {
				return true
			}
			for _, p := range h.Ports {
				if rx.MatchString(p.Service) {
					return true
				}
			}
			return false
		},
	}
}
