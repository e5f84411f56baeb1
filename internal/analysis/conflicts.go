package analysis

import (
	"fmt"

	"github.com/SuadeLabs/enumchecker/internal/parser"
	"github.com/SuadeLabs/enumchecker/internal/util"
)

// DetectConflicts flags groups of definitions sharing a bare name whose
// member sets disagree. Identical re-definition is deliberate re-export and
// never flagged; one diagnostic per conflicting name lists every contributing
// location in file/line order.
func DetectConflicts(index *Index) []Diagnostic {
	var diags []Diagnostic

	names := make(map[string]bool)
	for _, def := range index.All() {
		names[def.Name] = true
	}

	for _, name := range util.SortedStrings(names) {
		defs := index.ByName(name)
		if len(defs) < 2 {
			continue
		}

		conflict := false
		for i := 1; i < len(defs); i++ {
			if !sameMembers(defs[0], defs[i]) {
				conflict = true
				break
			}
		}
		if !conflict {
			continue
		}

		locs := make([]parser.Location, len(defs))
		for i, def := range defs {
			locs[i] = def.Location // defs are already in location order
		}
		diags = append(diags, Diagnostic{
			Kind:      KindConflictingDefinition,
			Message:   fmt.Sprintf("conflicting definitions of enum %s (%s)", name, formatLocations(locs)),
			Locations: locs,
		})
	}

	return diags
}

func sameMembers(a, b *EnumDefinition) bool {
	if a.Opaque != b.Opaque || len(a.Members) != len(b.Members) {
		return false
	}
	for m := range a.Members {
		if !b.Members[m] {
			return false
		}
	}
	return true
}
