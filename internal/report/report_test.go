package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
	"github.com/SuadeLabs/enumchecker/internal/parser"
)

func sampleDiagnostics() []analysis.Diagnostic {
	return []analysis.Diagnostic{
		{
			Kind:      analysis.KindUnknownMember,
			Message:   `enum Color has no member "BLUE"`,
			Locations: []parser.Location{{File: "/proj/app.py", Line: 9, Column: 7}},
		},
		{
			Kind:    analysis.KindConflictingDefinition,
			Message: "conflicting definitions of enum Status (/proj/a.py:3, /proj/b.py:7)",
			Locations: []parser.Location{
				{File: "/proj/a.py", Line: 3, Column: 1},
				{File: "/proj/b.py", Line: 7, Column: 1},
			},
		},
	}
}

func sampleResult() *analysis.Result {
	return &analysis.Result{
		RunID:       "test-run",
		Files:       3,
		EnumCount:   2,
		Diagnostics: sampleDiagnostics(),
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	if err := WriteText(&b, sampleDiagnostics()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", b.String())
	}
	if !strings.HasPrefix(lines[0], "/proj/app.py:9:7: unknown-member:") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

func TestGenerateTSV(t *testing.T) {
	out, err := GenerateTSV(sampleDiagnostics())
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Kind\tFile\tLine\tColumn\tMessage" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	fields := strings.Split(lines[1], "\t")
	if fields[0] != "unknown-member" || fields[2] != "9" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestGenerateMarkdown(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(sampleResult(), MarkdownOptions{
		ProjectName: "demo",
		Version:     "1.0.0",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"project: demo",
		"generated_at: 2026-01-02T03:04:05Z",
		"- Files analyzed: 3",
		"## Unknown Members",
		"## Conflicting Definitions",
		"/proj/app.py:9:7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(out, "## Parse Failures") {
		t.Error("empty sections must be omitted")
	}
}

func TestGenerateMarkdownClean(t *testing.T) {
	gen := NewMarkdownGenerator()
	out, err := gen.Generate(&analysis.Result{Files: 1}, MarkdownOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No issues found.") {
		t.Error("expected clean-run marker")
	}
}

func TestGenerateSARIF(t *testing.T) {
	data, err := GenerateSARIF("/proj", "1.0.0", sampleDiagnostics())
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("unexpected version: %v", doc["version"])
	}

	runs := doc["runs"].([]any)
	run := runs[0].(map[string]any)
	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0].(map[string]any)
	if first["ruleId"] != "ENUM001" || first["level"] != "error" {
		t.Errorf("unexpected first result: %v", first)
	}

	// Paths must be relative to the project root.
	if strings.Contains(string(data), `"uri": "/proj/app.py"`) {
		t.Error("expected relative URIs in SARIF output")
	}
	if !strings.Contains(string(data), `"uri": "app.py"`) {
		t.Error("expected app.py relative URI")
	}

	// The conflict result carries both contributing locations.
	second := results[1].(map[string]any)
	locs := second["locations"].([]any)
	if len(locs) != 2 {
		t.Errorf("expected 2 locations on conflict result, got %d", len(locs))
	}
}

func TestGenerateSARIFEmpty(t *testing.T) {
	data, err := GenerateSARIF("/proj", "1.0.0", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"results": []`) {
		t.Errorf("expected empty results array, got %s", data)
	}
}
