package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

// EnumDefinition is one collected enum occurrence: a class subclassing the
// enum base type (directly or transitively) or a functional construction
// such as Color = Enum("Color", ["RED", "GREEN"]). Immutable once built.
type EnumDefinition struct {
	Name          string
	QualifiedPath string
	Members       map[string]bool
	BaseNames     []string
	Opaque        bool // member set could not be determined statically
	Location      parser.Location
}

// HasMember reports membership; reserved attributes of the enum base type are
// always allowed.
func (d *EnumDefinition) HasMember(name string) bool {
	return d.Members[name]
}

// Checkable reports whether membership checks make sense for this definition.
// Opaque and zero-member definitions suppress checks rather than flagging
// every access.
func (d *EnumDefinition) Checkable() bool {
	return !d.Opaque && len(d.Members) > 0
}

// Index is the immutable, fully populated definition index built in phase 1.
// Phase 2 (binding, conflict detection, membership checks) only reads it.
type Index struct {
	defs       []*EnumDefinition
	byName     map[string][]*EnumDefinition
	byQual     map[string]*EnumDefinition
	byLocation map[parser.Location]*EnumDefinition
}

// All returns every definition in location order.
func (ix *Index) All() []*EnumDefinition {
	return ix.defs
}

// ByName returns all definitions sharing a bare class name.
func (ix *Index) ByName(name string) []*EnumDefinition {
	return ix.byName[name]
}

// ByQualified looks a definition up by its module-qualified path.
func (ix *Index) ByQualified(path string) *EnumDefinition {
	return ix.byQual[path]
}

// AtLocation returns the definition created by the statement at loc, if any.
func (ix *Index) AtLocation(loc parser.Location) *EnumDefinition {
	return ix.byLocation[loc]
}

// UnionMembers returns the union of member sets of all checkable definitions
// under a bare name, plus whether any definition with that name exists but is
// not checkable. The union keeps membership checks free of false positives
// when the same name is (conflictingly) defined more than once.
func (ix *Index) UnionMembers(name string) (map[string]bool, bool) {
	defs := ix.byName[name]
	if len(defs) == 0 {
		return nil, false
	}
	union := make(map[string]bool)
	suppressed := false
	for _, def := range defs {
		if !def.Checkable() {
			suppressed = true
			continue
		}
		for m := range def.Members {
			union[m] = true
		}
	}
	return union, suppressed
}

// Collector builds the Index from every file's fact records. It must see all
// files before any cross-file resolution happens; the analyzer enforces that
// ordering.
type Collector struct {
	builtinBases map[string]bool
}

// defaultEnumBases are the stdlib enum base types. Subclassing any of them
// (or a class that transitively does) makes a class an enum.
var defaultEnumBases = []string{"Enum", "IntEnum", "StrEnum", "Flag", "IntFlag", "ReprEnum"}

func NewCollector(extraBases []string) *Collector {
	bases := make(map[string]bool, len(defaultEnumBases)+len(extraBases))
	for _, b := range defaultEnumBases {
		bases[b] = true
	}
	for _, b := range extraBases {
		b = strings.TrimSpace(b)
		if b != "" {
			bases[b] = true
		}
	}
	return &Collector{builtinBases: bases}
}

// Collect builds the definition index across all files and reports duplicate
// member names found inside a single definition.
func (c *Collector) Collect(files []*parser.SourceFile) (*Index, []Diagnostic) {
	ix := &Index{
		byName:     make(map[string][]*EnumDefinition),
		byQual:     make(map[string]*EnumDefinition),
		byLocation: make(map[parser.Location]*EnumDefinition),
	}
	var diags []Diagnostic

	// enumLike tracks bare names known to denote enum classes, so that
	// subclasses of collected enums are themselves collected. Seeded from the
	// syntactic base check, then expanded to a fixpoint.
	enumLike := make(map[string]bool)

	type candidate struct {
		file *parser.SourceFile
		cls  *parser.ClassDef
	}
	var pending []candidate

	for _, file := range files {
		baseAliases := c.fileBaseAliases(file)

		for i := range file.Classes {
			cls := &file.Classes[i]
			if c.isEnumBaseList(cls.Bases, baseAliases) {
				enumLike[cls.Name] = true
				continue
			}
			pending = append(pending, candidate{file: file, cls: cls})
		}

		for i := range file.Assigns {
			assign := &file.Assigns[i]
			if assign.Kind != parser.AssignCall {
				continue
			}
			if !c.isEnumBase(assign.Callee, baseAliases) {
				continue
			}
			enumLike[assign.Target] = true
		}
	}

	// Transitive closure: a class whose base names an already known enum is
	// an enum too. Terminates because each round only adds names.
	for changed := true; changed; {
		changed = false
		remaining := pending[:0]
		for _, cand := range pending {
			if c.basesNameEnum(cand.cls.Bases, enumLike) {
				if !enumLike[cand.cls.Name] {
					enumLike[cand.cls.Name] = true
					changed = true
				}
				continue
			}
			remaining = append(remaining, cand)
		}
		pending = remaining
	}

	for _, file := range files {
		baseAliases := c.fileBaseAliases(file)

		for i := range file.Classes {
			cls := &file.Classes[i]
			if !c.isEnumBaseList(cls.Bases, baseAliases) && !c.basesNameEnum(cls.Bases, enumLike) {
				continue
			}
			// Method-only bodies are abstract enum mixins, not definitions.
			// They still confer enum-ness on subclasses via enumLike above.
			if len(cls.Members) == 0 && cls.Methods > 0 {
				continue
			}

			def := &EnumDefinition{
				Name:          cls.Name,
				QualifiedPath: qualifiedPath(file, cls.Name),
				Members:       make(map[string]bool, len(cls.Members)),
				BaseNames:     cls.Bases,
				Location:      cls.Location,
			}
			for _, m := range cls.Members {
				if def.Members[m.Name] {
					diags = append(diags, Diagnostic{
						Kind:      KindDuplicateMember,
						Message:   fmt.Sprintf("duplicate member %q in enum %s", m.Name, cls.Name),
						Locations: []parser.Location{m.Location},
					})
					continue
				}
				def.Members[m.Name] = true
			}
			ix.add(def)
		}

		for i := range file.Assigns {
			assign := &file.Assigns[i]
			if assign.Kind != parser.AssignCall || !c.isEnumBase(assign.Callee, baseAliases) {
				continue
			}

			name := assign.CallName
			if name == "" {
				name = assign.Target
			}
			def := &EnumDefinition{
				Name:          name,
				QualifiedPath: qualifiedPath(file, name),
				Members:       make(map[string]bool, len(assign.CallArgs)),
				BaseNames:     []string{assign.Callee},
				Opaque:        !assign.Literal,
				Location:      assign.Location,
			}
			for _, m := range assign.CallArgs {
				if isDunderName(m) {
					continue
				}
				if def.Members[m] {
					diags = append(diags, Diagnostic{
						Kind:      KindDuplicateMember,
						Message:   fmt.Sprintf("duplicate member %q in enum %s", m, name),
						Locations: []parser.Location{assign.Location},
					})
					continue
				}
				def.Members[m] = true
			}
			ix.add(def)
		}
	}

	sort.Slice(ix.defs, func(i, j int) bool {
		return ix.defs[i].Location.Before(ix.defs[j].Location)
	})
	for _, defs := range ix.byName {
		sort.Slice(defs, func(i, j int) bool {
			return defs[i].Location.Before(defs[j].Location)
		})
	}

	return ix, diags
}

func (ix *Index) add(def *EnumDefinition) {
	ix.defs = append(ix.defs, def)
	ix.byName[def.Name] = append(ix.byName[def.Name], def)
	if _, exists := ix.byQual[def.QualifiedPath]; !exists {
		ix.byQual[def.QualifiedPath] = def
	}
	ix.byLocation[def.Location] = def
}

// fileBaseAliases collects the local names that denote the enum base type in
// one file: from-import aliases (from enum import Enum as E) and module-scope
// alias assignments (E = Enum).
func (c *Collector) fileBaseAliases(file *parser.SourceFile) map[string]bool {
	aliases := make(map[string]bool)
	for _, imp := range file.Imports {
		for _, item := range imp.Items {
			if c.builtinBases[item.Name] {
				aliases[item.Local()] = true
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, assign := range file.Assigns {
			if assign.Kind != parser.AssignAlias || aliases[assign.Target] {
				continue
			}
			if c.builtinBases[assign.Source] || aliases[assign.Source] {
				aliases[assign.Target] = true
				changed = true
			}
		}
	}
	return aliases
}

// isEnumBase resolves one base expression. Dotted bases (enum.Enum,
// aliased.IntEnum) match on their rightmost component.
func (c *Collector) isEnumBase(base string, aliases map[string]bool) bool {
	base = strings.TrimSpace(base)
	if base == "" {
		return false
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return c.builtinBases[base[idx+1:]]
	}
	return c.builtinBases[base] || aliases[base]
}

func (c *Collector) isEnumBaseList(bases []string, aliases map[string]bool) bool {
	for _, base := range bases {
		if c.isEnumBase(base, aliases) {
			return true
		}
	}
	return false
}

func (c *Collector) basesNameEnum(bases []string, enumLike map[string]bool) bool {
	for _, base := range bases {
		name := base
		if idx := strings.LastIndex(base, "."); idx >= 0 {
			name = base[idx+1:]
		}
		if enumLike[name] {
			return true
		}
	}
	return false
}

func qualifiedPath(file *parser.SourceFile, name string) string {
	if file.Module != "" {
		return file.Module + "." + name
	}
	return file.Path + ":" + name
}

func isDunderName(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
