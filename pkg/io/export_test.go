package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netdraw/pkg/classify"
	nderrors "github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/scan"
)

func sampleRecords() []Record {
	hosts := []*scan.Host{
		{
			Address:  "10.0.0.10",
			Hostname: "fs01.lan",
			OS:       scan.OSGuess{Name: "Windows Server 2019", Accuracy: 96, HasAccuracy: true},
			Ports: []scan.PortRecord{
				{Port: 445, Protocol: "tcp", State: scan.StateOpen, Service: "microsoft-ds"},
				{Port: 3389, Protocol: "tcp", State: scan.StateOpen, Service: "ms-wbt-server"},
			},
		},
		{Address: "10.0.0.20", Ports: []scan.PortRecord{{Port: 9100, Protocol: "tcp", State: scan.StateOpen, Service: "jetdirect"}}},
		{Address: "10.0.0.99"},
	}
	return NewRecords(hosts, classify.Default())
}

func TestNewRecords(t *testing.T) {
	recs := sampleRecords()
	require.Len(t, recs, 3)

	assert.Equal(t, classify.Server, recs[0].Archetype)
	assert.Equal(t, "server os", recs[0].Rule)
	require.NotNil(t, recs[0].OS)
	assert.Equal(t, 96, recs[0].OS.Accuracy)

	assert.Equal(t, classify.Printer, recs[1].Archetype)
	assert.Nil(t, recs[1].OS)

	assert.Equal(t, classify.Unknown, recs[2].Archetype)
	assert.Empty(t, recs[2].Rule)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Inventory{Source: "scan.xml", Format: scan.FormatXML, Hosts: sampleRecords()}))

	var got Inventory
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "scan.xml", got.Source)
	require.Len(t, got.Hosts, 3)
	assert.Equal(t, "fs01.lan", got.Hosts[0].Hostname)
	assert.Len(t, got.Hosts[0].Ports, 2)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, Inventory{}))
	assert.Contains(t, buf.String(), `"hosts": []`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, Inventory{Hosts: sampleRecords()}))

	assert.Contains(t, buf.String(), "  - address: 10.0.0.10\n")

	var got Inventory
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Hosts, 3)
	assert.Equal(t, classify.Printer, got.Hosts[1].Archetype)
}

func TestExport_OSAccuracy(t *testing.T) {
	recs := NewRecords([]*scan.Host{
		{Address: "10.0.0.1", OS: scan.OSGuess{Name: "Linux 2.6", Accuracy: 0, HasAccuracy: true}},
		{Address: "10.0.0.2", OS: scan.OSGuess{Name: "Linux"}},
	}, classify.Default())
	inv := Inventory{Hosts: recs}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, inv))
	assert.Contains(t, buf.String(), `"accuracy": 0`)
	assert.Equal(t, 1, strings.Count(buf.String(), `"accuracy"`))

	var fromJSON Inventory
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, *recs[0].OS, *fromJSON.Hosts[0].OS)
	assert.Equal(t, *recs[1].OS, *fromJSON.Hosts[1].OS)

	buf.Reset()
	require.NoError(t, WriteYAML(&buf, inv))
	var fromYAML Inventory
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.True(t, fromYAML.Hosts[0].OS.HasAccuracy)
	assert.Equal(t, 0, fromYAML.Hosts[0].OS.Accuracy)
	assert.False(t, fromYAML.Hosts[1].OS.HasAccuracy)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"10.0.0.10", "fs01.lan", "server", "server os", "Windows Server 2019", "96",
		"445/tcp microsoft-ds; 3389/tcp ms-wbt-server",
	}, rows[1])
	assert.Equal(t, []string{"10.0.0.99", "", "unknown", "", "", "", ""}, rows[3])
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Errors(t *testing.T) {
	for _, f := range Formats {
		err := Write(brokenWriter{}, Inventory{Hosts: sampleRecords()}, f)
		assert.Equal(t, nderrors.ErrCodeOutputWrite, nderrors.GetCode(err), "format %s", f)
	}
	err := Write(&bytes.Buffer{}, Inventory{}, "xml")
	assert.Equal(t, nderrors.ErrCodeInvalidInput, nderrors.GetCode(err))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	got := Summary(sampleRecords())
	assert.Equal(t, []ArchetypeCount{
		{Archetype: classify.Server, Count: 1},
		{Archetype: classify.Printer, Count: 1},
		{Archetype: classify.Unknown, Count: 1},
	}, got)
}
