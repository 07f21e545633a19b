package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driftline/driftline/pkg/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatToon},
		{"text", FormatText},
		{"", FormatText},
		{"bogus", FormatText},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func testTable() *Table {
	return &Table{
		Title:   "New Issues",
		Headers: []string{"File", "Severity", "Message"},
		Rows: [][]string{
			{"src/app.js", "high", "missing semicolon"},
			{"src/lib.js", "low", "blocks nested too deeply"},
		},
	}
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := testTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"New Issues", "src/app.js", "missing semicolon"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := testTable().RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "## New Issues") {
		t.Errorf("markdown output missing title heading:\n%s", out)
	}
	if !strings.Contains(out, "| File | Severity | Message |") {
		t.Errorf("markdown output missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| --- | --- | --- |") {
		t.Errorf("markdown output missing separator row:\n%s", out)
	}
}

func TestTableRenderData(t *testing.T) {
	tbl := testTable()

	rows, ok := tbl.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want []map[string]string", tbl.RenderData())
	}
	if rows[0]["File"] != "src/app.js" {
		t.Errorf("row 0 File = %q", rows[0]["File"])
	}

	// Structured Data takes precedence over the stringified rows.
	tbl.Data = map[string]int{"total": 2}
	if _, ok := tbl.RenderData().(map[string]int); !ok {
		t.Error("RenderData() must return attached Data when set")
	}
}

func TestFormatterJSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	tbl := testTable()
	tbl.Data = map[string]any{"new": 1, "fixed": 2}
	if err := f.Output(tbl); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	if decoded["new"] != float64(1) {
		t.Errorf("decoded[new] = %v, want 1", decoded["new"])
	}
}

func TestFormatterToonOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toon")

	f, err := NewFormatter(FormatToon, path, false)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	if err := f.Output(map[string]int{"total": 5}); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "total") {
		t.Errorf("toon output missing key:\n%s", data)
	}
}

func TestSeverityColor(t *testing.T) {
	// Color codes depend on terminal detection; the text itself must
	// always survive.
	for _, sev := range models.Severities() {
		if got := SeverityColor(sev, "msg"); !strings.Contains(got, "msg") {
			t.Errorf("SeverityColor(%s) lost the text: %q", sev, got)
		}
	}
}
