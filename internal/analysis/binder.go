package analysis

import (
	"strings"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

// Bindings holds one file's resolved name bindings, scope by scope. A nil
// *EnumDefinition value is the Unresolved sentinel: the name is bound, but
// not to anything checkable. Unbound names are absent entirely.
type Bindings struct {
	file        *parser.SourceFile
	scopes      []map[string]*EnumDefinition
	conflicted  []map[string]bool
	hasWildcard bool
}

// Binder resolves each file's names against the fully built definition index.
// It must not run before phase 1 completes: import resolution reads the
// cross-file index.
type Binder struct {
	index    *Index
	resolver *parser.ModuleResolver
}

func NewBinder(index *Index, resolver *parser.ModuleResolver) *Binder {
	return &Binder{index: index, resolver: resolver}
}

// Bind produces the full binding table for one file.
func (b *Binder) Bind(file *parser.SourceFile) *Bindings {
	bs := &Bindings{
		file:       file,
		scopes:     make([]map[string]*EnumDefinition, len(file.Scopes)),
		conflicted: make([]map[string]bool, len(file.Scopes)),
	}
	for i := range bs.scopes {
		bs.scopes[i] = make(map[string]*EnumDefinition)
		bs.conflicted[i] = make(map[string]bool)
	}

	// Shadowing-only names first, so that definitions and imports can
	// override them within the same scope without being marked conflicted.
	for _, local := range file.Locals {
		bs.scopes[local.ScopeID][local.Name] = nil
	}
	for _, assign := range file.Assigns {
		if assign.Kind == parser.AssignOpaque {
			bs.scopes[assign.ScopeID][assign.Target] = nil
		}
	}

	for i := range file.Classes {
		cls := &file.Classes[i]
		bs.bind(cls.ScopeID, cls.Name, b.index.AtLocation(cls.Location))
	}
	for i := range file.Assigns {
		assign := &file.Assigns[i]
		if assign.Kind == parser.AssignCall {
			bs.bind(assign.ScopeID, assign.Target, b.index.AtLocation(assign.Location))
		}
	}

	b.bindImports(file, bs)
	b.bindAliases(file, bs)

	// A name the scope also rebinds opaquely (Color = load_palette()) is
	// flow-dependent; demote it rather than risk a false positive.
	for _, assign := range file.Assigns {
		if assign.Kind == parser.AssignOpaque && bs.scopes[assign.ScopeID][assign.Target] != nil {
			bs.scopes[assign.ScopeID][assign.Target] = nil
			bs.conflicted[assign.ScopeID][assign.Target] = true
		}
	}
	for _, local := range file.Locals {
		if bs.scopes[local.ScopeID][local.Name] != nil {
			bs.scopes[local.ScopeID][local.Name] = nil
			bs.conflicted[local.ScopeID][local.Name] = true
		}
	}

	return bs
}

func (b *Binder) bindImports(file *parser.SourceFile, bs *Bindings) {
	for _, imp := range file.Imports {
		if imp.Wildcard {
			// from m import *: nothing bindable; disables the bare-name
			// fallback for the whole file.
			bs.hasWildcard = true
			continue
		}
		if len(imp.Items) == 0 {
			// import a.b [as c] binds a module object, never an enum.
			local := imp.Alias
			if local == "" {
				local = imp.Module
				if idx := strings.Index(local, "."); idx >= 0 {
					local = local[:idx]
				}
			}
			if local != "" {
				bs.scopes[imp.ScopeID][local] = nil
			}
			continue
		}

		module := imp.Module
		if imp.IsRelative && b.resolver != nil {
			module = b.resolver.ResolveImport(file.Module, imp.Module, true, imp.RelativeLevel)
		}

		for _, item := range imp.Items {
			def := b.resolveImportedSymbol(module, item.Name)
			bs.bind(imp.ScopeID, item.Local(), def)
		}
	}
}

// resolveImportedSymbol prefers the module-qualified definition, then falls
// back to a bare-name match; external symbols resolve to nil (Unresolved).
func (b *Binder) resolveImportedSymbol(module, name string) *EnumDefinition {
	if module != "" {
		if def := b.index.ByQualified(module + "." + name); def != nil {
			return def
		}
	}
	if defs := b.index.ByName(name); len(defs) > 0 {
		return defs[0]
	}
	return nil
}

// bindAliases resolves x = Y chains to a fixpoint so that aliases may appear
// in any order and may chain through each other.
func (b *Binder) bindAliases(file *parser.SourceFile, bs *Bindings) {
	for changed := true; changed; {
		changed = false
		for i := range file.Assigns {
			assign := &file.Assigns[i]
			if assign.Kind != parser.AssignAlias {
				continue
			}
			def, bound := bs.Lookup(assign.ScopeID, assign.Source)
			if !bound || def == nil {
				continue
			}
			if current := bs.scopes[assign.ScopeID][assign.Target]; current == def {
				continue
			}
			if bs.conflicted[assign.ScopeID][assign.Target] {
				continue
			}
			bs.bind(assign.ScopeID, assign.Target, def)
			changed = true
		}
	}
	// Alias targets that never resolved still shadow.
	for i := range file.Assigns {
		assign := &file.Assigns[i]
		if assign.Kind != parser.AssignAlias {
			continue
		}
		if _, exists := bs.scopes[assign.ScopeID][assign.Target]; !exists {
			bs.scopes[assign.ScopeID][assign.Target] = nil
		}
	}
}

// bind records a binding, demoting the name to Unresolved when the same scope
// rebinds it to a different definition: which one wins is a flow question a
// static pass cannot answer.
func (bs *Bindings) bind(scopeID int, name string, def *EnumDefinition) {
	if name == "" {
		return
	}
	if bs.conflicted[scopeID][name] {
		return
	}
	current, exists := bs.scopes[scopeID][name]
	if exists && current != nil && current != def {
		bs.scopes[scopeID][name] = nil
		bs.conflicted[scopeID][name] = true
		return
	}
	bs.scopes[scopeID][name] = def
}

// Lookup resolves a name from the given scope outward to module scope.
// The second return reports whether any binding exists at all.
func (bs *Bindings) Lookup(scopeID int, name string) (*EnumDefinition, bool) {
	for scopeID >= 0 && scopeID < len(bs.scopes) {
		if def, ok := bs.scopes[scopeID][name]; ok {
			return def, true
		}
		scopeID = bs.file.Scopes[scopeID].Parent
	}
	return nil, false
}

// HasWildcardImport reports whether the file contains a wildcard import.
func (bs *Bindings) HasWildcardImport() bool {
	return bs.hasWildcard
}
