package scan

import (
	"bytes"
	"io"
	"os"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// StdioToken is the reserved path meaning standard input (or output).
const StdioToken = "-"

// maxLineSize bounds a single report line. Greppable lines for hosts with
// thousands of open ports can exceed 64 KiB; anything past this limit is
// skipped as a malformed record.
const maxLineSize = 4 * 1024 * 1024

// Options configures parsing.
type Options struct {
	// Logger receives one message per skipped record (optional).
	Logger func(string, ...any)
}

// withDefaults returns opts with a no-op logger when none was set.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// ReportParser produces a host inventory from one report shape.
type ReportParser interface {
	// Format returns the report shape this parser reads.
	Format() Format
	// Parse reads the whole report from r. Record-level defects are reported
	// through opts.Logger and skipped; only document-level failures are returned.
	Parse(r io.Reader, opts Options) (*Inventory, error)
}

// ParserFor returns the strategy for a concrete format.
func ParserFor(f Format) (ReportParser, error) {
	switch f {
	case FormatXML:
		return XMLParser{}, nil
	case FormatGrepable:
		return GrepableParser{}, nil
	case FormatNormal:
		return NormalParser{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no parser for format %q", f)
}

// Parse detects the report shape when hint is [FormatAuto] and runs the matching
// parser. It returns the inventory together with the format that was used.
// A leading UTF-8 byte-order mark is ignored for every format.
func Parse(content []byte, hint Format, opts Options) (*Inventory, Format, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	format := hint
	if format == "" || format == FormatAuto {
		detected, err := Detect(content)
		if err != nil {
			return nil, "", err
		}
		format = detected
	}

	p, err := ParserFor(format)
	if err != nil {
		return nil, "", err
	}
	inv, err := p.Parse(bytes.NewReader(content), opts.withDefaults())
	if err != nil {
		return nil, format, err
	}
	return inv, format, nil
}

// ReadSource reads the whole input named by path. The token "-" reads from stdin.
// A missing or unreadable source fails with [errors.ErrCodeInputNotFound] before
// any parsing starts.
func ReadSource(path string, stdin io.Reader) ([]byte, error) {
	if path == StdioToken {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "read standard input")
		}
		return data, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "open %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInputNotFound, "%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "read %s", path)
	}
	return data, nil
}
