package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

type DiagnosticKind string

const (
	KindUnknownMember         DiagnosticKind = "unknown-member"
	KindConflictingDefinition DiagnosticKind = "conflicting-definition"
	KindDuplicateMember       DiagnosticKind = "duplicate-member"
	KindParseFailure          DiagnosticKind = "parse-failure"
)

// Diagnostic is one reported finding. Locations is never empty; conflicts
// carry one location per contributing definition, everything else exactly one.
type Diagnostic struct {
	Kind      DiagnosticKind
	Message   string
	Locations []parser.Location
}

// Location returns the primary (first) location.
func (d Diagnostic) Location() parser.Location {
	return d.Locations[0]
}

func (d Diagnostic) String() string {
	loc := d.Location()
	return fmt.Sprintf("%s:%d:%d: %s: %s", loc.File, loc.Line, loc.Column, d.Kind, d.Message)
}

// SortDiagnostics orders diagnostics by primary location, then kind, then
// message, so that identical input always produces identical output.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Location(), diags[j].Location()
		if a != b {
			return a.Before(b)
		}
		if diags[i].Kind != diags[j].Kind {
			return diags[i].Kind < diags[j].Kind
		}
		return diags[i].Message < diags[j].Message
	})
}

func formatLocations(locs []parser.Location) string {
	parts := make([]string, len(locs))
	for i, loc := range locs {
		parts[i] = fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}
	return strings.Join(parts, ", ")
}
