// Package scan turns raw nmap scan reports into a normalized host inventory.
//
// # Overview
//
// nmap can write its results in three shapes, all of which are accepted:
//
//   - XML (-oX): structured markup with host, port, service and osmatch elements
//   - Greppable (-oG): one tab-delimited "Host:" line per host
//   - Normal (-oN or terminal output): human-oriented blocks per host
//
// Each shape is handled by a [ReportParser]. [Detect] inspects the content and
// picks the matching shape, so downstream code never branches on the format:
//
//	inv, err := scan.Parse(content, scan.FormatAuto, scan.Options{
//	    Logger: logger.Warnf,
//	})
//
// # Inventory
//
// The result is an [Inventory]: hosts keyed by address, in first-seen order.
// A host reported twice (for example a ping sweep followed by a service scan)
// is merged into one entry. Later records add ports and fill a missing hostname;
// the OS guess is only replaced by a guess with a strictly higher accuracy.
//
// # Error Handling
//
// Defects confined to one record (an unparsable port, a host element that does
// not decode, a truncated document tail) are reported through [Options.Logger]
// and skipped. Content that matches no known shape fails the whole run with
// [errors.ErrCodeUnrecognizedFormat].
package scan
