package analysis

import (
	"fmt"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

// reservedEnumAttrs are attributes every enum exposes regardless of its
// member set; accessing them is always fine. Mirrors dir(enum.Enum) minus the
// dunders, which are allowed wholesale.
var reservedEnumAttrs = map[string]bool{
	"name":                  true,
	"value":                 true,
	"_name_":                true,
	"_value_":               true,
	"_member_names_":        true,
	"_member_map_":          true,
	"_value2member_map_":    true,
	"_missing_":             true,
	"_generate_next_value_": true,
	"_ignore_":              true,
	"_order_":               true,
	"_sort_order_":          true,
}

// Checker resolves each attribute access against a file's bindings and the
// global index, and flags accessed names missing from the resolved member
// set. Resolution failure is silent: no diagnostic is ever produced for a
// base the binder could not pin down.
type Checker struct {
	index *Index
}

func NewChecker(index *Index) *Checker {
	return &Checker{index: index}
}

// Check inspects every attribute access in one bound file.
func (c *Checker) Check(bindings *Bindings) []Diagnostic {
	var diags []Diagnostic

	for _, access := range bindings.file.Accesses {
		if isAllowedAttr(access.Name) {
			continue
		}

		if access.Dotted {
			// pkg.module.Color.RED: the lexical chain is a module path, so
			// only the global index can say anything about the final name.
			if d := c.checkAgainstIndex(access); d != nil {
				diags = append(diags, *d)
			}
			continue
		}

		def, bound := bindings.Lookup(access.ScopeID, access.Base)
		if bound {
			if def == nil || !def.Checkable() {
				continue
			}
			if !def.HasMember(access.Name) {
				diags = append(diags, Diagnostic{
					Kind:      KindUnknownMember,
					Message:   fmt.Sprintf("enum %s has no member %q", def.Name, access.Name),
					Locations: []parser.Location{access.Location},
				})
			}
			continue
		}

		// Unbound bare name: with a wildcard import in the file it could
		// come from anywhere, so stay silent. Otherwise fall back to the
		// global index by bare name.
		if bindings.HasWildcardImport() {
			continue
		}
		if d := c.checkAgainstIndex(access); d != nil {
			diags = append(diags, *d)
		}
	}

	return diags
}

// checkAgainstIndex checks an access against the union of member sets
// collected under the base's bare name. The union keeps conflicting
// definitions from producing spurious unknown-member findings on top of the
// conflict diagnostic.
func (c *Checker) checkAgainstIndex(access parser.AttributeAccess) *Diagnostic {
	union, suppressed := c.index.UnionMembers(access.Base)
	if union == nil && !suppressed {
		return nil // not an enum name at all
	}
	if suppressed || len(union) == 0 {
		return nil // some definition is opaque or empty: cannot check soundly
	}
	if union[access.Name] {
		return nil
	}
	return &Diagnostic{
		Kind:      KindUnknownMember,
		Message:   fmt.Sprintf("enum %s has no member %q", access.Base, access.Name),
		Locations: []parser.Location{access.Location},
	}
}

func isAllowedAttr(name string) bool {
	if reservedEnumAttrs[name] {
		return true
	}
	return isDunderName(name)
}
