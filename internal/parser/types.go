package parser

import (
	"time"
)

// SourceFile is the immutable fact record extracted from one parsed file.
// All cross-file analysis reads these records; nothing mutates them after
// extraction.
type SourceFile struct {
	Path     string
	Module   string // Dotted module path derived from the file location
	Scopes   []Scope
	Imports  []Import
	Classes  []ClassDef
	Assigns  []Assign
	Accesses []AttributeAccess
	Locals   []LocalName
	ParsedAt time.Time
}

// Scope is one lexical scope. Scopes[0] is always the module scope; every
// function and class body introduces a child scope. Scope IDs index into
// SourceFile.Scopes.
type Scope struct {
	ID     int
	Parent int // -1 for the module scope
	Kind   ScopeKind
}

type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeClass
)

// Import covers "import a.b", "import a.b as c" and "from a.b import X as Y".
type Import struct {
	Module        string
	Alias         string // alias for plain "import x as y"
	Items         []ImportedName
	Wildcard      bool
	IsRelative    bool
	RelativeLevel int
	ScopeID       int
	Location      Location
}

type ImportedName struct {
	Name  string
	Alias string
}

// Local returns the name the import binds in its scope.
func (n ImportedName) Local() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// ClassDef is a syntactic class definition with the member-name candidates
// found in its body. Whether it is an enum is decided later, cross-file.
type ClassDef struct {
	Name     string
	Bases    []string // base expressions as written: "Enum", "enum.Enum", "Color"
	Members  []Member // identifier targets assigned anywhere in the body, dunders excluded
	Methods  int      // def statements directly in the body
	ScopeID  int      // scope the class name binds into
	Location Location
}

type Member struct {
	Name     string
	Location Location
}

// Assign is an assignment classified by the shape of its right-hand side.
// Alias assignments (x = Y) and call assignments (x = Enum("X", ...)) are the
// two shapes that name binding and functional enum collection care about;
// anything else is opaque and only shadows.
type Assign struct {
	Target   string
	Kind     AssignKind
	Source   string   // bare identifier RHS for AssignAlias
	Callee   string   // callee text for AssignCall: "Enum", "enum.Enum", ...
	CallName string   // first string-literal argument for AssignCall
	CallArgs []string // parsed member names for AssignCall; nil when not a literal
	Literal  bool     // whether the member argument was a parseable literal
	ScopeID  int
	Location Location
}

type AssignKind int

const (
	AssignOpaque AssignKind = iota
	AssignAlias
	AssignCall
)

// AttributeAccess is one <base>.<name> read. Only accesses whose base is a
// bare identifier or a pure dotted name are recorded; computed bases (calls,
// subscripts) are unanalyzable and skipped at extraction time.
type AttributeAccess struct {
	Base     string // bare identifier, or rightmost component of a dotted base
	Dotted   bool   // base was a.b.c rather than a single identifier
	Name     string
	ScopeID  int
	Location Location
}

// LocalName records a name bound by something other than an assignment,
// import or class definition: function names, parameters, loop and with
// targets, exception names. They shadow outer bindings but never resolve to
// an enum.
type LocalName struct {
	Name    string
	ScopeID int
}

type Location struct {
	File   string
	Line   int
	Column int
}

// Before reports whether l sorts ahead of other (file, then line, then column).
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}
