package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netdraw/pkg/classify"
	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/observability"
)

const twoHostReport = "# Nmap 7.94 scan initiated as: nmap -O -oG - 10.0.0.0/24\n" +
	"Host: 10.0.0.10 (fs01.lan)\tStatus: Up\n" +
	"Host: 10.0.0.10 (fs01.lan)\tPorts: 445/open/tcp//microsoft-ds///\tOS: Microsoft Windows Server 2019 (96%)\n" +
	"Host: 10.0.0.20 ()\tStatus: Up\n" +
	"Host: 10.0.0.20 ()\tPorts: 9100/open/tcp//jetdirect///, 70000/open/tcp//bogus///\n"

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.gnmap")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func TestValidateSort(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"none", false},
		{"ip", false},
		{"name", false},
		{"IP", false},
		{"random", true},
	}

	for _, tt := range tests {
		err := ValidateSort(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSort(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"auto", false},
		{"xml", false},
		{"grepable", false},
		{"normal", false},
		{"json", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		columns int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxColumns, false},
		{-1, true},
		{MaxColumns + 1, true},
	}

	for _, tt := range tests {
		err := ValidateColumns(tt.columns)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateColumns(%d) error = %v, wantErr %v", tt.columns, err, tt.wantErr)
		}
	}
}

func TestValidatePreview(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"net.svg", false},
		{"out/net.PNG", false},
		{"net.pdf", false},
		{"net.jpg", true},
		{"-", true},
	}

	for _, tt := range tests {
		err := ValidatePreview(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePreview(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "scan.xml", Output: "net.drawio"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.PageName != DefaultPageName {
		t.Errorf("PageName should be %q, got %q", DefaultPageName, opts.PageName)
	}
	if opts.Sort != DefaultSort {
		t.Errorf("Sort should be %q, got %q", DefaultSort, opts.Sort)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format should be %q, got %q", DefaultFormat, opts.Format)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if !opts.LayoutOptions().Hub {
		t.Error("Hub should be enabled unless NoEdges is set")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "-", Output: "-", Sort: "ip"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.PageName != first.PageName || opts.Sort != first.Sort || opts.Format != first.Format {
		t.Error("Options changed on second call")
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing input", Options{Output: "x.drawio"}},
		{"missing output", Options{Input: "x.xml"}},
		{"bad sort", Options{Input: "x.xml", Output: "x.drawio", Sort: "size"}},
		{"bad format", Options{Input: "x.xml", Output: "x.drawio", Format: "csv"}},
		{"bad columns", Options{Input: "x.xml", Output: "x.drawio", Columns: -3}},
		{"control chars in page name", Options{Input: "x.xml", Output: "x.drawio", PageName: "a\nb"}},
		{"unknown archetype override", Options{Input: "x.xml", Output: "x.drawio", Shapes: map[string]string{"toaster": "mxgraph.x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if err := opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOptionsOutputs(t *testing.T) {
	opts := Options{Output: "a.drawio"}
	if got := opts.Outputs(); len(got) != 1 || got[0] != "a.drawio" {
		t.Errorf("Outputs() = %v", got)
	}
	opts.Preview = "a.svg"
	if got := opts.Outputs(); len(got) != 2 || got[1] != "a.svg" {
		t.Errorf("Outputs() with preview = %v", got)
	}
}

func TestRunnerExecute(t *testing.T) {
	input := writeReport(t, twoHostReport)
	output := filepath.Join(t.TempDir(), "net.drawio")

	result, err := NewRunner(nil).Execute(context.Background(), Options{Input: input, Output: output})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Format != "grepable" {
		t.Errorf("Format = %q, want grepable", result.Format)
	}
	if result.Stats.HostCount != 2 {
		t.Errorf("HostCount = %d, want 2", result.Stats.HostCount)
	}
	if result.Stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (out-of-range port)", result.Stats.Skipped)
	}
	if result.Stats.EdgeCount != 2 {
		t.Errorf("EdgeCount = %d, want 2", result.Stats.EdgeCount)
	}
	want := []classify.Archetype{classify.Server, classify.Printer}
	for i, a := range want {
		if result.Archetypes[i] != a {
			t.Errorf("Archetypes[%d] = %s, want %s", i, result.Archetypes[i], a)
		}
	}
	if _, ok := result.Document.Hub(); !ok {
		t.Error("document should have a hub")
	}
	doc := result.Document
	if len(doc.ToFront) != 0 {
		t.Errorf("ToFront = %v, want it folded into Order", doc.ToFront)
	}
	for i, e := range doc.Edges {
		if doc.Order[i] != e.ID {
			t.Errorf("Order[%d] = %s, want edge %s drawn first", i, doc.Order[i], e.ID)
		}
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(written, result.Data) {
		t.Error("written file should match result data")
	}
	if !strings.Contains(string(written), `name="Page-1"`) {
		t.Error("output should carry the default page name")
	}
}

func TestRunnerExecuteNoEdges(t *testing.T) {
	input := writeReport(t, twoHostReport)
	output := filepath.Join(t.TempDir(), "net.drawio")

	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:   input,
		Output:  output,
		NoEdges: true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Document.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(result.Document.Edges))
	}
	if _, ok := result.Document.Hub(); ok {
		t.Error("document should not have a hub")
	}
	if result.Document.HostCount() != 2 {
		t.Errorf("HostCount() = %d, want 2", result.Document.HostCount())
	}
}

func TestRunnerExecuteStdio(t *testing.T) {
	var stdout bytes.Buffer
	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:    "-",
		Output:   "-",
		PageName: "Office",
		Sort:     "ip",
		Stdin:    strings.NewReader(twoHostReport),
		Stdout:   &stdout,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), result.Data) {
		t.Error("stdout should receive the serialized document")
	}
	if !strings.Contains(stdout.String(), `name="Office"`) {
		t.Error("stdout should carry the configured page name")
	}
}

func TestRunnerExecuteEmptyReport(t *testing.T) {
	input := writeReport(t, "# Nmap 7.94 scan initiated\n# Nmap done -- 256 IP addresses (0 hosts up)\nHost: 10.0.0.9 ()\tStatus: Down\n")
	output := filepath.Join(t.TempDir(), "net.drawio")

	result, err := NewRunner(nil).Execute(context.Background(), Options{Input: input, Output: output})
	if err != nil {
		t.Fatalf("empty report should succeed: %v", err)
	}
	if result.Document.HostCount() != 0 {
		t.Errorf("HostCount() = %d, want 0", result.Document.HostCount())
	}
	if _, ok := result.Document.Hub(); !ok {
		t.Error("hub should still be drawn when edges are enabled")
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output should be written: %v", err)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := writeReport(t, "this is not a scan report\n")

	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"missing input", filepath.Join(dir, "missing.xml"), errors.ErrCodeInputNotFound},
		{"directory input", dir, errors.ErrCodeInputNotFound},
		{"unrecognized", garbage, errors.ErrCodeUnrecognizedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "net.drawio")
			_, err := NewRunner(nil).Execute(context.Background(), Options{Input: tt.input, Output: output})
			if err == nil {
				t.Fatal("expected error")
			}
			if code := errors.GetCode(err); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
			if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
				t.Error("no output should be written on failure")
			}
		})
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	input := writeReport(t, twoHostReport)
	output := filepath.Join(t.TempDir(), "net.drawio")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner(nil).Execute(ctx, Options{Input: input, Output: output}); err == nil {
		t.Fatal("cancelled run should fail")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("cancelled run should not write output")
	}
}

func TestRunnerAnalyzeSorted(t *testing.T) {
	report := "Host: 10.0.0.20 (b.lan)\tStatus: Up\n" +
		"Host: 10.0.0.3 (a.lan)\tStatus: Up\n"

	result, err := NewRunner(nil).Analyze(context.Background(), Options{
		Input: "-",
		Sort:  "ip",
		Stdin: strings.NewReader(report),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Document != nil {
		t.Error("Analyze should not build a document")
	}
	if len(result.Hosts) != 2 || result.Hosts[0].Address != "10.0.0.3" {
		t.Errorf("hosts not sorted by address: %v", result.Hosts)
	}
	if got := result.Counts()[string(classify.Unknown)]; got != 2 {
		t.Errorf("unknown count = %d, want 2", got)
	}
}

func TestRunnerAnalyzeLogsHosts(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := NewRunner(logger).Analyze(context.Background(), Options{
		Input: writeReport(t, twoHostReport),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"host=fs01.lan archetype=server", "host=10.0.0.20 archetype=printer"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnParseStart(context.Context, string) {
	h.events = append(h.events, "parse")
}

func (h *recordingHooks) OnLayoutStart(context.Context, int) {
	h.events = append(h.events, "layout")
}

func (h *recordingHooks) OnRenderStart(context.Context, []string) {
	h.events = append(h.events, "render")
}

func TestRunnerCallsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	input := writeReport(t, twoHostReport)
	output := filepath.Join(t.TempDir(), "net.drawio")
	if _, err := NewRunner(nil).Execute(context.Background(), Options{Input: input, Output: output}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := strings.Join(hooks.events, ","); got != "parse,layout,render" {
		t.Errorf("hook order = %s", got)
	}
}
