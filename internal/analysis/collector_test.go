package analysis

import (
	"testing"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

func moduleFile(path, module string) *parser.SourceFile {
	return &parser.SourceFile{
		Path:   path,
		Module: module,
		Scopes: []parser.Scope{{ID: 0, Parent: -1, Kind: parser.ScopeModule}},
	}
}

func loc(file string, line int) parser.Location {
	return parser.Location{File: file, Line: line, Column: 1}
}

func classDef(name string, bases []string, line int, file string, members ...string) parser.ClassDef {
	cls := parser.ClassDef{
		Name:     name,
		Bases:    bases,
		Location: loc(file, line),
	}
	for i, m := range members {
		cls.Members = append(cls.Members, parser.Member{Name: m, Location: loc(file, line+1+i)})
	}
	return cls
}

func TestCollectClassEnums(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{
		classDef("Color", []string{"Enum"}, 3, "a.py", "RED", "GREEN"),
		classDef("Plain", nil, 10, "a.py", "x"),
	}

	ix, diags := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(ix.All()) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(ix.All()))
	}

	def := ix.All()[0]
	if def.Name != "Color" || def.QualifiedPath != "a.Color" {
		t.Errorf("unexpected definition: %+v", def)
	}
	if !def.HasMember("RED") || !def.HasMember("GREEN") || def.HasMember("BLUE") {
		t.Errorf("unexpected members: %v", def.Members)
	}
	if !def.Checkable() {
		t.Error("expected definition to be checkable")
	}
}

func TestCollectDottedAndAliasedBases(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Imports = []parser.Import{
		{Module: "enum", Items: []parser.ImportedName{{Name: "Enum", Alias: "E"}}},
	}
	f.Assigns = []parser.Assign{
		{Target: "Base", Kind: parser.AssignAlias, Source: "E", Location: loc("a.py", 2)},
	}
	f.Classes = []parser.ClassDef{
		classDef("A", []string{"enum.IntEnum"}, 3, "a.py", "X"),
		classDef("B", []string{"E"}, 6, "a.py", "Y"),
		classDef("C", []string{"Base"}, 9, "a.py", "Z"),
	}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(ix.All()))
	}
}

func TestCollectTransitiveSubclass(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{
		classDef("Base", []string{"Enum"}, 1, "a.py", "A"),
		classDef("Child", []string{"Base"}, 5, "a.py", "B"),
		classDef("Grandchild", []string{"Child"}, 9, "a.py", "C"),
	}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 3 {
		t.Fatalf("expected transitive subclasses collected, got %d", len(ix.All()))
	}
}

func TestCollectMixinNotADefinition(t *testing.T) {
	f := moduleFile("a.py", "a")
	mixin := classDef("BaseColor", []string{"Enum"}, 1, "a.py")
	mixin.Methods = 2
	f.Classes = []parser.ClassDef{
		mixin,
		classDef("Color", []string{"BaseColor"}, 8, "a.py", "RED"),
	}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 1 {
		t.Fatalf("expected mixin excluded, got %d definitions", len(ix.All()))
	}
	if ix.All()[0].Name != "Color" {
		t.Errorf("expected Color collected, got %s", ix.All()[0].Name)
	}
}

func TestCollectFunctionalEnum(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Assigns = []parser.Assign{
		{
			Target:   "Shape",
			Kind:     parser.AssignCall,
			Callee:   "Enum",
			CallName: "Shape",
			CallArgs: []string{"CIRCLE", "SQUARE"},
			Literal:  true,
			Location: loc("a.py", 1),
		},
		{
			Target:   "Opaque",
			Kind:     parser.AssignCall,
			Callee:   "enum.Enum",
			CallName: "Opaque",
			Location: loc("a.py", 2),
		},
		{
			Target:   "notenum",
			Kind:     parser.AssignCall,
			Callee:   "dict",
			Location: loc("a.py", 3),
		},
	}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(ix.All()))
	}

	shape := ix.ByQualified("a.Shape")
	if shape == nil || !shape.HasMember("CIRCLE") || shape.Opaque {
		t.Errorf("unexpected functional definition: %+v", shape)
	}

	opaque := ix.ByQualified("a.Opaque")
	if opaque == nil || !opaque.Opaque || opaque.Checkable() {
		t.Errorf("expected opaque definition, got %+v", opaque)
	}
}

func TestCollectDuplicateMembers(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{
		classDef("Color", []string{"Enum"}, 1, "a.py", "RED", "RED"),
	}

	ix, diags := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(diags) != 1 || diags[0].Kind != KindDuplicateMember {
		t.Fatalf("expected one duplicate-member diagnostic, got %v", diags)
	}
	if len(ix.All()[0].Members) != 1 {
		t.Errorf("duplicate must collapse to one member, got %v", ix.All()[0].Members)
	}
}

func TestCollectExtraBases(t *testing.T) {
	f := moduleFile("a.py", "a")
	f.Classes = []parser.ClassDef{
		classDef("Choice", []string{"DjangoChoices"}, 1, "a.py", "YES"),
	}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 0 {
		t.Fatal("unexpected definition without extra base configured")
	}

	ix, _ = NewCollector([]string{"DjangoChoices"}).Collect([]*parser.SourceFile{f})
	if len(ix.All()) != 1 {
		t.Fatal("expected definition with extra base configured")
	}
}

func TestUnionMembers(t *testing.T) {
	a := moduleFile("a.py", "a")
	a.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "a.py", "RED")}
	b := moduleFile("b.py", "b")
	b.Classes = []parser.ClassDef{classDef("Color", []string{"Enum"}, 1, "b.py", "GREEN")}

	ix, _ := NewCollector(nil).Collect([]*parser.SourceFile{a, b})

	union, suppressed := ix.UnionMembers("Color")
	if suppressed {
		t.Error("expected no suppression")
	}
	if !union["RED"] || !union["GREEN"] {
		t.Errorf("expected union of both member sets, got %v", union)
	}

	if union, _ := ix.UnionMembers("Nope"); union != nil {
		t.Errorf("expected nil union for unknown name, got %v", union)
	}
}
