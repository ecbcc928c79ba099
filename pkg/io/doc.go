// Package io exports a classified host inventory as JSON, YAML or CSV.
//
// # Records
//
// [NewRecords] pairs every host with its archetype and the name of the rule
// that decided it, so an export explains the diagram it accompanies:
//
//	recs := io.NewRecords(inv.Hosts(), classify.Default())
//	err := io.Write(os.Stdout, io.Inventory{Source: path, Hosts: recs}, io.FormatYAML)
//
// # Formats
//
// JSON and YAML carry the full record including every open port. CSV writes
// one row per host with the ports collapsed into a single column, suitable
// for spreadsheets:
//
//	address,hostname,archetype,rule,os,os_accuracy,open_ports
//	10.0.0.10,fs01.lan,server,server os,Windows Server 2019,96,445/tcp microsoft-ds
//
// All writers fail with [errors.ErrCodeOutputWrite] when w rejects data.
package io
