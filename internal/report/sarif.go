package report

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnknownMember = "ENUM001"
	ruleIDConflict      = "ENUM002"
	ruleIDDuplicate     = "ENUM003"
	ruleIDParseFailure  = "ENUM004"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

var sarifRuleForKind = map[analysis.DiagnosticKind]sarifRule{
	analysis.KindUnknownMember: {
		ID:               ruleIDUnknownMember,
		Name:             "UnknownEnumMember",
		ShortDescription: sarifMessage{Text: "Reference to an enum member that does not exist"},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
	},
	analysis.KindConflictingDefinition: {
		ID:               ruleIDConflict,
		Name:             "ConflictingEnumDefinition",
		ShortDescription: sarifMessage{Text: "The same enum name is defined with differing member sets"},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
	},
	analysis.KindDuplicateMember: {
		ID:               ruleIDDuplicate,
		Name:             "DuplicateEnumMember",
		ShortDescription: sarifMessage{Text: "An enum defines the same member name twice"},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
	},
	analysis.KindParseFailure: {
		ID:               ruleIDParseFailure,
		Name:             "ParseFailure",
		ShortDescription: sarifMessage{Text: "A file could not be parsed and was excluded from analysis"},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
	},
}

// GenerateSARIF builds a SARIF v2.1.0 document from the run's diagnostics.
// All file URIs are made relative to projectRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(projectRoot, version string, diags []analysis.Diagnostic) ([]byte, error) {
	seenKinds := make(map[analysis.DiagnosticKind]bool)
	var rules []sarifRule
	results := make([]sarifResult, 0, len(diags))

	for _, d := range diags {
		rule := sarifRuleForKind[d.Kind]
		if !seenKinds[d.Kind] {
			seenKinds[d.Kind] = true
			rules = append(rules, rule)
		}

		result := sarifResult{
			RuleID:  rule.ID,
			Level:   rule.DefaultConfig.Level,
			Message: sarifMessage{Text: d.Message},
		}
		for _, loc := range d.Locations {
			result.Locations = append(result.Locations, sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, loc.File),
						URIBaseID: "PROJECTROOT",
					},
					Region: &sarifRegion{StartLine: loc.Line, StartColumn: loc.Column},
				},
			})
		}
		results = append(results, result)
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "enumchecker",
				Version: version,
				Rules:   rules,
			}},
			Results: results,
		}},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func relativeURI(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
