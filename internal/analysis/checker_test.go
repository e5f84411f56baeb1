package analysis

import (
	"testing"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

func access(base, name string, scopeID, line int, file string) parser.AttributeAccess {
	return parser.AttributeAccess{Base: base, Name: name, ScopeID: scopeID, Location: loc(file, line)}
}

func checkFiles(t *testing.T, files ...*parser.SourceFile) []Diagnostic {
	t.Helper()
	ix, diags := NewCollector(nil).Collect(files)
	if len(diags) != 0 {
		t.Fatalf("unexpected collection diagnostics: %v", diags)
	}
	checker := NewChecker(ix)
	var out []Diagnostic
	for _, f := range files {
		binder := NewBinder(ix, parser.NewModuleResolver("."))
		out = append(out, checker.Check(binder.Bind(f))...)
	}
	return out
}

func TestUnknownMemberSameFile(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED", "GREEN")}
	f.Accesses = []parser.AttributeAccess{
		access("Color", "RED", 0, 10, "a.py"),
		access("Color", "BLUE", 0, 11, "a.py"),
	}

	diags := checkFiles(t, f)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Kind != KindUnknownMember {
		t.Errorf("unexpected kind: %s", d.Kind)
	}
	if d.Message != `enum Color has no member "BLUE"` {
		t.Errorf("unexpected message: %s", d.Message)
	}
	if d.Location().Line != 11 {
		t.Errorf("unexpected location: %+v", d.Location())
	}
}

func TestUnknownMemberAcrossImport(t *testing.T) {
	def := moduleFile("colors.py", "colors")
	def.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "colors.py", "RED")}

	use := moduleFile("app.py", "app")
	use.Imports = []parser.Import{{
		Module:   "colors",
		Items:    []parser.ImportedName{{Name: "Color"}},
		Location: loc("app.py", 1),
	}}
	use.Accesses = []parser.AttributeAccess{access("Color", "BLUE", 0, 5, "app.py")}

	diags := checkFiles(t, def, use)
	if len(diags) != 1 || diags[0].Kind != KindUnknownMember {
		t.Fatalf("expected unknown-member across import, got %v", diags)
	}
}

func TestImportAliasResolution(t *testing.T) {
	def := moduleFile("colors.py", "colors")
	def.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "colors.py", "RED")}

	use := moduleFile("app.py", "app")
	use.Imports = []parser.Import{{
		Module:   "colors",
		Items:    []parser.ImportedName{{Name: "Color", Alias: "C"}},
		Location: loc("app.py", 1),
	}}
	use.Accesses = []parser.AttributeAccess{
		access("C", "RED", 0, 5, "app.py"),
		access("C", "BLUE", 0, 6, "app.py"),
	}

	diags := checkFiles(t, def, use)
	if len(diags) != 1 || diags[0].Location().Line != 6 {
		t.Fatalf("expected only C.BLUE flagged, got %v", diags)
	}
}

func TestAssignmentAliasResolution(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	f.Assigns = []parser.Assign{
		{Target: "x", Kind: parser.AssignAlias, Source: "Color", Location: loc("a.py", 5)},
		{Target: "y", Kind: parser.AssignAlias, Source: "x", Location: loc("a.py", 6)},
	}
	f.Accesses = []parser.AttributeAccess{
		access("y", "RED", 0, 7, "a.py"),
		access("y", "BLUE", 0, 8, "a.py"),
	}

	diags := checkFiles(t, f)
	if len(diags) != 1 || diags[0].Location().Line != 8 {
		t.Fatalf("expected only y.BLUE flagged through alias chain, got %v", diags)
	}
}

func TestOpaqueAssignmentSuppresses(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	f.Assigns = []parser.Assign{
		{Target: "c", Kind: parser.AssignOpaque, Location: loc("a.py", 5)},
	}
	f.Accesses = []parser.AttributeAccess{access("c", "ANYTHING", 0, 6, "a.py")}

	if diags := checkFiles(t, f); len(diags) != 0 {
		t.Errorf("opaque binding must suppress checks, got %v", diags)
	}
}

func TestRebindingDemotesToUnresolved(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	f.Assigns = []parser.Assign{
		{Target: "Color", Kind: parser.AssignOpaque, Location: loc("a.py", 5)},
	}
	f.Accesses = []parser.AttributeAccess{access("Color", "BLUE", 0, 6, "a.py")}

	if diags := checkFiles(t, f); len(diags) != 0 {
		t.Errorf("rebound name must not be checked, got %v", diags)
	}
}

func TestShadowingInFunctionScope(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Scopes = append(f.Scopes, parser.Scope{ID: 1, Parent: 0, Kind: parser.ScopeFunction})
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	f.Locals = []parser.LocalName{{Name: "Color", ScopeID: 1}}
	f.Accesses = []parser.AttributeAccess{
		access("Color", "BLUE", 1, 6, "a.py"), // shadowed by parameter
		access("Color", "BLUE", 0, 9, "a.py"), // module scope still checked
	}

	diags := checkFiles(t, f)
	if len(diags) != 1 || diags[0].Location().Line != 9 {
		t.Fatalf("expected only the module-scope access flagged, got %v", diags)
	}
}

func TestReservedAttributesAllowed(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	f.Accesses = []parser.AttributeAccess{
		access("Color", "name", 0, 5, "a.py"),
		access("Color", "value", 0, 6, "a.py"),
		access("Color", "__members__", 0, 7, "a.py"),
		access("Color", "_missing_", 0, 8, "a.py"),
	}

	if diags := checkFiles(t, f); len(diags) != 0 {
		t.Errorf("reserved attributes must never be flagged, got %v", diags)
	}
}

func TestDottedAccessUsesIndex(t *testing.T) {
	def := moduleFile("colors.py", "pkg.colors")
	def.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "colors.py", "RED")}

	use := moduleFile("app.py", "app")
	use.Accesses = []parser.AttributeAccess{
		{Base: "Color", Dotted: true, Name: "RED", ScopeID: 0, Location: loc("app.py", 3)},
		{Base: "Color", Dotted: true, Name: "BLUE", ScopeID: 0, Location: loc("app.py", 4)},
	}

	diags := checkFiles(t, def, use)
	if len(diags) != 1 || diags[0].Location().Line != 4 {
		t.Fatalf("expected pkg.colors.Color.BLUE flagged, got %v", diags)
	}
}

func TestWildcardImportSuppressesBareFallback(t *testing.T) {
	def := moduleFile("colors.py", "colors")
	def.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "colors.py", "RED")}

	use := moduleFile("app.py", "app")
	use.Imports = []parser.Import{{Module: "other", Wildcard: true, Location: loc("app.py", 1)}}
	use.Accesses = []parser.AttributeAccess{access("Color", "BLUE", 0, 5, "app.py")}

	if diags := checkFiles(t, def, use); len(diags) != 0 {
		t.Errorf("wildcard import must suppress the bare-name fallback, got %v", diags)
	}
}

func TestBareFallbackUsesUnion(t *testing.T) {
	a := moduleFile("a.py", "a")
	a.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	b := moduleFile("b.py", "b")
	b.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "b.py", "GREEN")}

	use := moduleFile("app.py", "app")
	use.Accesses = []parser.AttributeAccess{
		access("Color", "RED", 0, 3, "app.py"),
		access("Color", "GREEN", 0, 4, "app.py"),
		access("Color", "BLUE", 0, 5, "app.py"),
	}

	diags := checkFiles(t, a, b, use)
	if len(diags) != 1 || diags[0].Location().Line != 5 {
		t.Fatalf("expected union of members to allow RED and GREEN, got %v", diags)
	}
}

func TestNonEnumBaseIgnored(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Accesses = []parser.AttributeAccess{access("os", "path", 0, 2, "a.py")}

	if diags := checkFiles(t, f); len(diags) != 0 {
		t.Errorf("unknown base must be silent, got %v", diags)
	}
}

func TestOpaqueFunctionalEnumSuppresses(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Assigns = []parser.Assign{{
		Target:   "Shape",
		Kind:     parser.AssignCall,
		Callee:   "Enum",
		CallName: "Shape",
		Location: loc("a.py", 1),
	}}
	f.Accesses = []parser.AttributeAccess{access("Shape", "ANYTHING", 0, 3, "a.py")}

	if diags := checkFiles(t, f); len(diags) != 0 {
		t.Errorf("opaque functional enum must suppress checks, got %v", diags)
	}
}
