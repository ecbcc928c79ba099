// Package classify assigns a device archetype to each scanned host.
//
// Classification is a priority-ordered rule table rather than nested
// conditionals. Two tables are evaluated top to bottom:
//
//  1. [OSRules]: keyword sets matched against the lowercased OS guess
//  2. [PortRules]: well-known port numbers and service-name patterns
//
// The first matching rule wins. A host that matches nothing is [Unknown].
// Because the OS table always runs first, a host reporting "Windows Server"
// with an open RDP port is a server, not a workstation.
//
// [Classifier.Explain] reports which rule decided, which keeps the tie-break
// order observable from tests and from the inventory command.
package classify
