package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/netdraw/pkg/errors"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE nmaprun>
<nmaprun scanner="nmap" args="nmap -O -sV -oX - 10.0.0.0/24" version="7.94">
  <host>
    <status state="up" reason="arp-response"/>
    <address addr="10.0.0.10" addrtype="ipv4"/>
    <address addr="00:11:22:33:44:55" addrtype="mac" vendor="Dell"/>
    <hostnames><hostname name="fs01.lan" type="PTR"/></hostnames>
    <ports>
      <port protocol="tcp" portid="22"><state state="open"/><service name="ssh" product="OpenSSH" version="8.9p1"/></port>
      <port protocol="tcp" portid="445"><state state="open"/><service name="microsoft-ds"/></port>
      <port protocol="tcp" portid="8080"><state state="closed"/><service name="http-proxy"/></port>
    </ports>
    <os>
      <osmatch name="Microsoft Windows 10" accuracy="88"/>
      <osmatch name="Microsoft Windows Server 2019" accuracy="96"/>
    </os>
  </host>
  <host>
    <status state="up"/>
    <address addr="10.0.0.20" addrtype="ipv4"/>
    <ports>
      <port protocol="tcp" portid="9100"><state state="open"/><service name="jetdirect"/></port>
      <port protocol="tcp" portid="631"><state state="open"/><service name="ipp"/></port>
    </ports>
  </host>
  <host>
    <status state="down"/>
    <address addr="10.0.0.30" addrtype="ipv4"/>
  </host>
  <host>
    <status state="up"/>
    <address addr="aa:bb:cc:dd:ee:ff" addrtype="mac"/>
  </host>
</nmaprun>
`

const sampleGrepable = `# Nmap 7.94 scan initiated as: nmap -O -sV -oG - 10.0.0.0/24
Host: 10.0.0.10 (fs01.lan)	Status: Up
Host: 10.0.0.10 (fs01.lan)	Ports: 22/open/tcp//ssh//OpenSSH 8.9p1/, 445/open/tcp//microsoft-ds///, 8080/closed/tcp//http-proxy///	Ignored State: closed (997)	OS: Microsoft Windows Server 2019 (96%), Microsoft Windows 10 (88%)
Host: 10.0.0.20 ()	Status: Up
Host: 10.0.0.20 ()	Ports: 9100/open/tcp//jetdirect///, 631/open/tcp//ipp///, 99999/open/tcp//bogus///
Host: 10.0.0.30 ()	Status: Down
# Nmap done at Mon Oct 19 10:00:00 2026 -- 256 IP addresses (3 hosts up) scanned
`

const sampleNormal = `Starting Nmap 7.94 ( https://nmap.org ) at 2026-10-19 10:00 UTC
Nmap scan report for fs01.lan (10.0.0.10)
Host is up (0.00030s latency).
Not shown: 997 closed tcp ports (reset)
PORT     STATE  SERVICE      VERSION
22/tcp   open   ssh          OpenSSH 8.9p1
445/tcp  open   microsoft-ds
8080/tcp closed http-proxy
MAC Address: 00:11:22:33:44:55 (Dell)
Aggressive OS guesses: Microsoft Windows Server 2019 (96%), Microsoft Windows 10 (88%)

Nmap scan report for 10.0.0.20
Host is up (0.0010s latency).
PORT     STATE SERVICE
631/tcp  open  ipp
9100/tcp open  jetdirect
Service Info: Device: printer

Nmap scan report for ghost.lan [host down]

Nmap done: 256 IP addresses (2 hosts up) scanned in 12.34 seconds
`

const bom = "\xef\xbb\xbf"

// grepableNoComment starts directly with a Host line, so a leading byte-order
// mark sits in front of the first record.
var grepableNoComment = sampleGrepable[strings.Index(sampleGrepable, "Host:"):]

// assertSampleInventory checks the inventory shared by all three sample reports.
func assertSampleInventory(t *testing.T, inv *Inventory) {
	t.Helper()
	require.Equal(t, 2, inv.Len())

	hosts := inv.Hosts()
	fs := hosts[0]
	assert.Equal(t, "10.0.0.10", fs.Address)
	assert.Equal(t, "fs01.lan", fs.Hostname)
	assert.Equal(t, "Microsoft Windows Server 2019", fs.OS.Name)
	assert.Equal(t, 96, fs.OS.Accuracy)
	assert.True(t, fs.OS.HasAccuracy)
	require.Len(t, fs.Ports, 2)
	assert.Equal(t, 22, fs.Ports[0].Port)
	assert.Equal(t, "ssh", fs.Ports[0].Service)
	assert.Equal(t, "OpenSSH 8.9p1", fs.Ports[0].Version)
	assert.Equal(t, 445, fs.Ports[1].Port)
	assert.True(t, fs.HasPort(445))
	assert.False(t, fs.HasPort(8080), "closed ports are not retained")

	printer := hosts[1]
	assert.Equal(t, "10.0.0.20", printer.Address)
	assert.Empty(t, printer.Hostname)
	assert.False(t, printer.OS.Known())
	assert.True(t, printer.HasPort(9100, 631))
}

func TestParse_AllFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"xml", sampleXML, FormatXML},
		{"grepable", sampleGrepable, FormatGrepable},
		{"normal", sampleNormal, FormatNormal},
		{"xml with bom", bom + sampleXML, FormatXML},
		{"grepable with bom", bom + grepableNoComment, FormatGrepable},
		{"normal with bom", bom + sampleNormal, FormatNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged []string
			opts := Options{Logger: func(format string, args ...any) {
				logged = append(logged, format)
			}}

			inv, format, err := Parse([]byte(tt.content), FormatAuto, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
			assertSampleInventory(t, inv)

			if tt.want == FormatGrepable {
				assert.Len(t, logged, 1, "out of range port should be logged once")
			}
		})
	}
}

func TestParse_Hint(t *testing.T) {
	inv, format, err := Parse([]byte(sampleNormal), FormatNormal, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatNormal, format)
	assert.Equal(t, 2, inv.Len())

	// A wrong hint parses nothing rather than failing.
	inv, _, err = Parse([]byte(sampleNormal), FormatGrepable, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}

func TestParse_Unrecognized(t *testing.T) {
	_, _, err := Parse([]byte("just some text\n"), FormatAuto, Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnrecognizedFormat, errors.GetCode(err))
}

func TestXMLParser_Truncated(t *testing.T) {
	cut := strings.Index(sampleXML, "<host>\n    <status state=\"down\"/>")
	require.Positive(t, cut)
	truncated := sampleXML[:cut] + "<host><status state=\"up\"/><addr"

	var logged int
	inv, err := XMLParser{}.Parse(strings.NewReader(truncated), Options{
		Logger: func(string, ...any) { logged++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Len())
	assert.Equal(t, 1, logged)
}

func TestXMLParser_NoRoot(t *testing.T) {
	_, err := XMLParser{}.Parse(strings.NewReader(`<?xml version="1.0"?><other/>`), Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnrecognizedFormat, errors.GetCode(err))

	_, err = XMLParser{}.Parse(strings.NewReader(`<<<`), Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnrecognizedFormat, errors.GetCode(err))
}

func TestXMLParser_EmptyRun(t *testing.T) {
	inv, err := XMLParser{}.Parse(strings.NewReader(`<nmaprun></nmaprun>`), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}

func TestXMLParser_MalformedAttributes(t *testing.T) {
	doc := `<nmaprun>
<host starttime=""><status state="up"/><address addr="10.2.0.1" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="22"><state state="open"/><service name="ssh"/></port></ports></host>
<host><status state="up"/><address addr="10.2.0.2" addrtype="ipv4"/>
<ports>
<port protocol="tcp" portid="abc"><state state="open"/><service name="http"/></port>
<port protocol="tcp" portid="9100"><state state="open"/><service name="jetdirect"/></port>
</ports>
<os><osmatch name="HP LaserJet" accuracy="high"/><osmatch name="HP printer" accuracy="91"/></os></host>
<host><status state="up"/><address addr="10.2.0.3" addrtype="ipv4"/></host>
</nmaprun>`

	var logged []string
	inv, err := XMLParser{}.Parse(strings.NewReader(doc), Options{
		Logger: func(format string, args ...any) { logged = append(logged, format) },
	})
	require.NoError(t, err)
	require.Equal(t, 3, inv.Len(), "a bad attribute must not drop its host")

	first, ok := inv.Get("10.2.0.1")
	require.True(t, ok)
	assert.True(t, first.HasPort(22))

	second, ok := inv.Get("10.2.0.2")
	require.True(t, ok)
	require.Len(t, second.Ports, 1)
	assert.Equal(t, 9100, second.Ports[0].Port)
	assert.Equal(t, "HP printer", second.OS.Name)
	assert.Equal(t, 91, second.OS.Accuracy)

	// Recovery note, bad port, bad accuracy.
	assert.Len(t, logged, 3)
}

func TestXMLParser_SpecialCharacters(t *testing.T) {
	doc := `<nmaprun><host><status state="up"/><address addr="10.1.1.1" addrtype="ipv4"/>
<ports><port protocol="tcp" portid="80"><state state="open"/><service name="http" product="Apache &lt;httpd&gt;" extrainfo="&quot;R&amp;D&quot;"/></port></ports>
</host></nmaprun>`
	inv, err := XMLParser{}.Parse(strings.NewReader(doc), Options{})
	require.NoError(t, err)
	h, ok := inv.Get("10.1.1.1")
	require.True(t, ok)
	require.Len(t, h.Ports, 1)
	assert.Equal(t, `Apache <httpd> "R&D"`, h.Ports[0].Version)
}

func TestNormalParser_OSPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		lines    string
		wantName string
		wantAcc  int
	}{
		{
			"details replace running",
			"Running: Linux 5.X\nOS details: Linux 5.0 - 5.4\n",
			"Linux 5.0 - 5.4", 0,
		},
		{
			"details do not replace a guess with accuracy",
			"Aggressive OS guesses: FreeBSD 13.0 (91%), Linux 5.4 (90%)\nOS details: Linux 5.0 - 5.4\n",
			"FreeBSD 13.0", 91,
		},
		{
			"service info fills an empty guess",
			"Service Info: Host: DC01; OS: Windows; CPE: cpe:/o:microsoft:windows\n",
			"Windows", 0,
		},
		{
			"service info does not override",
			"OS details: Linux 5.0 - 5.4\nService Info: OS: Windows\n",
			"Linux 5.0 - 5.4", 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "Nmap scan report for 192.168.1.5\nHost is up.\n" + tt.lines
			inv, err := NormalParser{}.Parse(strings.NewReader(doc), Options{})
			require.NoError(t, err)
			h, ok := inv.Get("192.168.1.5")
			require.True(t, ok)
			assert.Equal(t, tt.wantName, h.OS.Name)
			assert.Equal(t, tt.wantAcc, h.OS.Accuracy)
		})
	}
}

func TestParse_OverlongLineSkipped(t *testing.T) {
	long := "Host: 10.9.0.1 ()\tPorts: " + strings.Repeat("80/open/tcp//http///, ", maxLineSize/20)
	require.Greater(t, len(long), maxLineSize)

	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"grepable", long + "\nHost: 10.9.0.2 ()\tStatus: Up\nHost: 10.9.0.3 ()\tStatus: Up\n", FormatGrepable},
		{"normal", "Starting Nmap 7.94\nNmap scan report for 10.9.0.2\n" + long + "\nNmap scan report for 10.9.0.3\n", FormatNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged []string
			inv, format, err := Parse([]byte(tt.content), FormatAuto, Options{
				Logger: func(format string, args ...any) { logged = append(logged, format) },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
			assert.Equal(t, 2, inv.Len())
			_, ok := inv.Get("10.9.0.2")
			assert.True(t, ok)
			require.Len(t, logged, 1)
			assert.Contains(t, logged[0], "longer than")
		})
	}
}

func TestNormalParser_HostLines(t *testing.T) {
	doc := `Nmap scan report for gw.lan (192.168.1.1)
Nmap scan report for fe80::1
Nmap scan report for nameonly.lan
Nmap scan report for 192.168.1.9
`
	var logged int
	inv, err := NormalParser{}.Parse(strings.NewReader(doc), Options{
		Logger: func(string, ...any) { logged++ },
	})
	require.NoError(t, err)
	require.Equal(t, 3, inv.Len())
	assert.Equal(t, 1, logged)

	hosts := inv.Hosts()
	assert.Equal(t, "gw.lan", hosts[0].Hostname)
	assert.Equal(t, "fe80::1", hosts[1].Address)
	assert.Equal(t, "192.168.1.9", hosts[2].Address)
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	data, err := ReadSource(path, nil)
	require.NoError(t, err)
	assert.Equal(t, sampleXML, string(data))

	data, err = ReadSource(StdioToken, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	_, err = ReadSource(filepath.Join(dir, "missing.xml"), nil)
	assert.Equal(t, errors.ErrCodeInputNotFound, errors.GetCode(err))

	_, err = ReadSource(dir, nil)
	assert.Equal(t, errors.ErrCodeInputNotFound, errors.GetCode(err))
}
