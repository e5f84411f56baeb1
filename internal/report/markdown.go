package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

type MarkdownOptions struct {
	ProjectName string
	Version     string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(result *analysis.Result, opts MarkdownOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Enum Check Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Enum Check Report\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- Files analyzed: %d\n", result.Files))
	b.WriteString(fmt.Sprintf("- Enum definitions: %d\n", result.EnumCount))
	b.WriteString(fmt.Sprintf("- Diagnostics: %d\n\n", len(result.Diagnostics)))

	byKind := map[analysis.DiagnosticKind][]analysis.Diagnostic{}
	for _, d := range result.Diagnostics {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	sections := []struct {
		kind  analysis.DiagnosticKind
		title string
	}{
		{analysis.KindUnknownMember, "Unknown Members"},
		{analysis.KindConflictingDefinition, "Conflicting Definitions"},
		{analysis.KindDuplicateMember, "Duplicate Members"},
		{analysis.KindParseFailure, "Parse Failures"},
	}

	for _, section := range sections {
		diags := byKind[section.kind]
		if len(diags) == 0 {
			continue
		}
		b.WriteString("## " + section.title + "\n\n")
		b.WriteString("| Location | Message |\n")
		b.WriteString("|----------|---------|\n")
		for _, d := range diags {
			loc := d.Location()
			b.WriteString(fmt.Sprintf("| %s:%d:%d | %s |\n",
				loc.File, loc.Line, loc.Column, escapeMarkdown(d.Message)))
		}
		b.WriteString("\n")
	}

	if len(result.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}

	return b.String(), nil
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func escapeMarkdown(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
