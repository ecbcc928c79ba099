package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/scan"
)

// Format names an inventory export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported export encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates an export format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid output format: %q (must be one of: json, yaml, csv)", s)
}

// Record is one classified host as exported.
type Record struct {
	Address   string             `json:"address" yaml:"address"`
	Hostname  string             `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Archetype classify.Archetype `json:"archetype" yaml:"archetype"`
	Rule      string             `json:"rule,omitempty" yaml:"rule,omitempty"`
	OS        *scan.OSGuess      `json:"os,omitempty" yaml:"os,omitempty"`
	Ports     []scan.PortRecord  `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Inventory is the exported document.
type Inventory struct {
	Source string      `json:"source,omitempty" yaml:"source,omitempty"`
	Format scan.Format `json:"format,omitempty" yaml:"format,omitempty"`
	Hosts  []Record    `json:"hosts" yaml:"hosts"`
}

// NewRecords classifies hosts and returns one record per host, in order.
func NewRecords(hosts []*scan.Host, c *classify.Classifier) []Record {
	out := make([]Record, len(hosts))
	for i, h := range hosts {
		a, rule := c.Explain(h)
		rec := Record{
			Address:   h.Address,
			Hostname:  h.Hostname,
			Archetype: a,
			Rule:      rule,
			Ports:     h.Ports,
		}
		if h.OS.Known() {
			osGuess := h.OS
			rec.OS = &osGuess
		}
		out[i] = rec
	}
	return out
}

// Write encodes inv to w in the given format.
func Write(w io.Writer, inv Inventory, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, inv)
	case FormatYAML:
		return WriteYAML(w, inv)
	case FormatCSV:
		return WriteCSV(w, inv.Hosts)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unsupported output format %q", format)
}

// WriteJSON encodes inv as indented JSON.
func WriteJSON(w io.Writer, inv Inventory) error {
	if inv.Hosts == nil {
		inv.Hosts = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inv); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "encode JSON")
	}
	return nil
}

// WriteYAML encodes inv as YAML with two-space indentation.
func WriteYAML(w io.Writer, inv Inventory) error {
	if inv.Hosts == nil {
		inv.Hosts = []Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(inv); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "encode YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "encode YAML")
	}
	return nil
}

// csvHeader is the first row written by [WriteCSV].
var csvHeader = []string{"address", "hostname", "archetype", "rule", "os", "os_accuracy", "open_ports"}

// WriteCSV writes one row per host. Open ports are joined with "; ".
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write CSV header")
	}
	for _, r := range recs {
		var osName, osAcc string
		if r.OS != nil {
			osName = r.OS.Name
			if r.OS.HasAccuracy {
				osAcc = strconv.Itoa(r.OS.Accuracy)
			}
		}
		ports := make([]string, len(r.Ports))
		for i, p := range r.Ports {
			ports[i] = p.String()
		}
		row := []string{r.Address, r.Hostname, string(r.Archetype), r.Rule, osName, osAcc, strings.Join(ports, "; ")}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWrite, err, "write CSV row for %s", r.Address)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "flush CSV")
	}
	return nil
}

// ArchetypeCount is one row of [Summary].
type ArchetypeCount struct {
	Archetype classify.Archetype
	Count     int
}

// Summary counts records per archetype in [classify.All] order, skipping zeros.
func Summary(recs []Record) []ArchetypeCount {
	archetypes := make([]classify.Archetype, len(recs))
	for i, r := range recs {
		archetypes[i] = r.Archetype
	}
	return Tally(archetypes)
}

// Tally counts archetypes in [classify.All] order, skipping zeros.
func Tally(archetypes []classify.Archetype) []ArchetypeCount {
	counts := make(map[classify.Archetype]int)
	for _, a := range archetypes {
		counts[a]++
	}
	var out []ArchetypeCount
	for _, a := range classify.All {
		if n := counts[a]; n > 0 {
			out = append(out, ArchetypeCount{Archetype: a, Count: n})
		}
	}
	return out
}
