package scan

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// Format identifies one of the nmap report shapes.
type Format string

// Supported report formats. FormatAuto asks [Parse] to call [Detect].
const (
	FormatAuto     Format = "auto"
	FormatXML      Format = "xml"
	FormatGrepable Format = "grepable"
	FormatNormal   Format = "normal"
)

// Formats lists the accepted values of the format hint, in help-text order.
var Formats = []Format{FormatAuto, FormatXML, FormatGrepable, FormatNormal}

// ParseFormat converts a user-supplied hint into a Format.
// The empty string means auto-detection.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatXML, FormatGrepable, FormatNormal:
		return f, nil
	case "gnmap", "og":
		return FormatGrepable, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid format: %q (must be one of: auto, xml, grepable, normal)", s)
}

var (
	utf8BOM = []byte("\xef\xbb\xbf")

	// grepableField matches the start of any field in a greppable "Host:" line.
	// Fields are tab-delimited, but converted copies often carry spaces instead.
	grepableField = regexp.MustCompile(`(?:^|\s)(Status|Ports|Ignored State|OS|Seq Index|IP ID Seq|Protocols):\s`)

	// normalMarkers are lines only nmap's human-readable output produces.
	normalMarkers = []string{
		"Nmap scan report for ",
		"Starting Nmap ",
		"Nmap done:",
		"# Nmap ",
	}
)

// Detect identifies the report shape of content.
//
// The first non-empty content decides between markup and line-oriented text:
// a leading "<?xml" declaration or "<nmaprun" root means XML. For text, the first
// data line (comment lines starting with "#" are skipped) is checked for the
// greppable signature: a "Host:" prefix followed by delimited fields such as
// "Status:" or "Ports:". Any other text carrying an nmap normal-output marker is
// normal output. Content matching none of these fails with
// [errors.ErrCodeUnrecognizedFormat].
func Detect(content []byte) (Format, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(content, utf8BOM))
	if len(trimmed) == 0 {
		return "", errors.New(errors.ErrCodeUnrecognizedFormat, "input is empty")
	}

	if bytes.HasPrefix(trimmed, []byte("<?xml")) ||
		bytes.HasPrefix(trimmed, []byte("<nmaprun")) ||
		bytes.HasPrefix(trimmed, []byte("<!DOCTYPE nmaprun")) {
		return FormatXML, nil
	}

	if line := firstDataLine(trimmed); isGrepableLine(line) {
		return FormatGrepable, nil
	}

	text := string(trimmed)
	for _, marker := range normalMarkers {
		if strings.Contains(text, marker) {
			return FormatNormal, nil
		}
	}

	return "", errors.New(errors.ErrCodeUnrecognizedFormat,
		"input is not nmap XML, greppable or normal output")
}

// firstDataLine returns the first non-empty line that is not a "#" comment.
// Lines too long to be parsed are passed over, as the parsers skip them too.
func firstDataLine(content []byte) string {
	var first string
	_ = eachLine(bytes.NewReader(content), func(int) {}, func(_ int, line string) bool {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return true
		}
		first = line
		return false
	})
	return first
}

// isGrepableLine reports whether line carries the greppable field signature.
func isGrepableLine(line string) bool {
	if !strings.HasPrefix(line, "Host:") {
		return false
	}
	return strings.Contains(line, "\t") || grepableField.MatchString(line)
}
