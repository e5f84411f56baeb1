package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor turns a parsed tree into the SourceFile fact record the
// analysis phases consume. It records imports, class definitions with member
// candidates, classified assignments, attribute accesses and shadowing local
// names, each tagged with its lexical scope.
type PythonExtractor struct{}

var pythonScopeKinds = map[string]ScopeKind{
	"function_definition": ScopeFunction,
	"lambda":              ScopeFunction,
	"class_definition":    ScopeClass,
}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*SourceFile, error) {
	file := &SourceFile{
		Path:     filePath,
		ParsedAt: time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement":      e.extractImport,
		"import_from_statement": e.extractFromImport,
		"class_definition":      e.extractClass,
		"function_definition":   e.extractFunction,
		"parameters":            e.extractParameters,
		"lambda_parameters":     e.extractParameters,
		"assignment":            e.extractAssignment,
		"augmented_assignment":  e.extractTargets,
		"for_statement":         e.extractTargets,
		"as_pattern_target":     e.extractParameters,
		"attribute":             e.extractAttribute,
	}, pythonScopeKinds)
	engine.Walk(ctx, root)

	return file, nil
}

func (e *PythonExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			module := ctx.Text(child)
			ctx.File.Imports = append(ctx.File.Imports, Import{
				Module:   module,
				ScopeID:  ctx.CurrentScope(),
				Location: ctx.Location(child),
			})
		case "aliased_import":
			var module, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if module == "" {
						module = ctx.Text(sub)
					} else {
						alias = ctx.Text(sub)
					}
				}
			}
			ctx.File.Imports = append(ctx.File.Imports, Import{
				Module:   module,
				Alias:    alias,
				ScopeID:  ctx.CurrentScope(),
				Location: ctx.Location(child),
			})
		}
	}
	return true
}

func (e *PythonExtractor) extractFromImport(ctx *ExtractionContext, node *sitter.Node) bool {
	imp := Import{
		ScopeID:  ctx.CurrentScope(),
		Location: ctx.Location(node),
	}

	sawImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "relative_import":
			imp.IsRelative = true
			rel := ctx.Text(child)
			for len(rel) > 0 && rel[0] == '.' {
				imp.RelativeLevel++
				rel = rel[1:]
			}
			imp.Module = rel
		case "dotted_name", "identifier":
			if !sawImport {
				if !imp.IsRelative {
					imp.Module = ctx.Text(child)
				}
				continue
			}
			imp.Items = append(imp.Items, ImportedName{Name: ctx.Text(child)})
		case "import":
			sawImport = true
		case "wildcard_import":
			imp.Wildcard = true
		case "import_list":
			e.collectImportItems(ctx, child, &imp.Items)
		case "aliased_import":
			e.collectImportItems(ctx, child, &imp.Items)
		}
	}

	ctx.File.Imports = append(ctx.File.Imports, imp)
	return true
}

func (e *PythonExtractor) collectImportItems(ctx *ExtractionContext, node *sitter.Node, items *[]ImportedName) {
	switch node.Kind() {
	case "identifier", "dotted_name":
		*items = append(*items, ImportedName{Name: ctx.Text(node)})
		return
	case "aliased_import":
		var name, alias string
		for i := uint(0); i < node.ChildCount(); i++ {
			sub := node.Child(i)
			if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
				if name == "" {
					name = ctx.Text(sub)
				} else {
					alias = ctx.Text(sub)
				}
			}
		}
		*items = append(*items, ImportedName{Name: name, Alias: alias})
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectImportItems(ctx, node.Child(i), items)
	}
}

func (e *PythonExtractor) extractClass(ctx *ExtractionContext, node *sitter.Node) bool {
	name := ctx.ChildText(node, "identifier")
	if name == "" {
		return false
	}

	def := ClassDef{
		Name:     name,
		ScopeID:  ctx.CurrentScope(),
		Location: ctx.Location(node),
	}

	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := uint(0); i < superclasses.ChildCount(); i++ {
			child := superclasses.Child(i)
			if child.Kind() == "identifier" || child.Kind() == "attribute" {
				def.Bases = append(def.Bases, ctx.Text(child))
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		e.collectClassMembers(ctx, body, &def, true)
	}

	ctx.File.Classes = append(ctx.File.Classes, def)
	return false
}

// collectClassMembers finds member-name candidates anywhere in the class body,
// including conditional branches, but never descends into nested function or
// class bodies. Dunder names are never semantic members.
func (e *PythonExtractor) collectClassMembers(ctx *ExtractionContext, node *sitter.Node, def *ClassDef, topLevel bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "function_definition":
			if topLevel {
				def.Methods++
			}
			continue
		case "class_definition":
			continue
		case "decorated_definition":
			if topLevel && e.hasChildOfKind(child, "function_definition") {
				def.Methods++
			}
			continue
		case "assignment":
			// Annotation-only statements (x: int) bind no value and define no member.
			if child.ChildByFieldName("right") == nil {
				continue
			}
			left := child.ChildByFieldName("left")
			e.appendMemberTargets(ctx, left, def)
		}

		e.collectClassMembers(ctx, child, def, false)
	}
}

func (e *PythonExtractor) appendMemberTargets(ctx *ExtractionContext, node *sitter.Node, def *ClassDef) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		name := ctx.Text(node)
		if isDunder(name) {
			return
		}
		def.Members = append(def.Members, Member{Name: name, Location: ctx.Location(node)})
	case "pattern_list", "tuple_pattern":
		for i := uint(0); i < node.ChildCount(); i++ {
			e.appendMemberTargets(ctx, node.Child(i), def)
		}
	}
}

func (e *PythonExtractor) hasChildOfKind(node *sitter.Node, kind string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == kind {
			return true
		}
	}
	return false
}

func (e *PythonExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) bool {
	name := ctx.ChildText(node, "identifier")
	if name != "" {
		ctx.File.Locals = append(ctx.File.Locals, LocalName{Name: name, ScopeID: ctx.CurrentScope()})
	}
	return false
}

func (e *PythonExtractor) extractParameters(ctx *ExtractionContext, node *sitter.Node) bool {
	ctx.AppendLocalIdentifiers(node)
	return true
}

func (e *PythonExtractor) extractTargets(ctx *ExtractionContext, node *sitter.Node) bool {
	if left := node.ChildByFieldName("left"); left != nil {
		e.appendAssignTargets(ctx, left)
	}
	return false
}

func (e *PythonExtractor) extractAssignment(ctx *ExtractionContext, node *sitter.Node) bool {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil {
		return false
	}

	if left.Kind() != "identifier" {
		e.appendAssignTargets(ctx, left)
		return false
	}

	assign := Assign{
		Target:   ctx.Text(left),
		Kind:     AssignOpaque,
		ScopeID:  ctx.CurrentScope(),
		Location: ctx.Location(node),
	}

	if right != nil {
		switch right.Kind() {
		case "identifier":
			assign.Kind = AssignAlias
			assign.Source = ctx.Text(right)
		case "call":
			assign.Kind = AssignCall
			e.fillCallAssign(ctx, right, &assign)
		}
	}

	ctx.File.Assigns = append(ctx.File.Assigns, assign)
	return false
}

// appendAssignTargets records shadowing names from non-identifier targets.
// Attribute and subscript targets bind no local name.
func (e *PythonExtractor) appendAssignTargets(ctx *ExtractionContext, node *sitter.Node) {
	switch node.Kind() {
	case "identifier":
		ctx.File.Locals = append(ctx.File.Locals, LocalName{Name: ctx.Text(node), ScopeID: ctx.CurrentScope()})
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := uint(0); i < node.ChildCount(); i++ {
			e.appendAssignTargets(ctx, node.Child(i))
		}
	}
}

// fillCallAssign captures enough of `X = SomeCallable("Name", members)` for
// the collector to recognize functional enum construction. Member arguments
// that are not literals stay opaque.
func (e *PythonExtractor) fillCallAssign(ctx *ExtractionContext, call *sitter.Node, assign *Assign) {
	if fn := call.ChildByFieldName("function"); fn != nil {
		if fn.Kind() == "identifier" || fn.Kind() == "attribute" {
			assign.Callee = ctx.Text(fn)
		}
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return
	}

	var positional []*sitter.Node
	var namesArg *sitter.Node
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		switch child.Kind() {
		case "(", ")", ",", "comment":
			continue
		case "keyword_argument":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil && ctx.Text(nameNode) == "names" {
				namesArg = child.ChildByFieldName("value")
			}
		default:
			positional = append(positional, child)
		}
	}

	if len(positional) > 0 && positional[0].Kind() == "string" {
		assign.CallName = e.stringContent(ctx, positional[0])
	}

	memberArg := namesArg
	if memberArg == nil && len(positional) > 1 {
		memberArg = positional[1]
	}
	if memberArg == nil {
		return
	}

	switch memberArg.Kind() {
	case "string":
		assign.CallArgs = splitMemberNames(e.stringContent(ctx, memberArg))
		assign.Literal = true
	case "list", "tuple", "set":
		names, ok := e.sequenceMemberNames(ctx, memberArg)
		if !ok {
			return
		}
		assign.CallArgs = names
		assign.Literal = true
	case "dictionary":
		names, ok := e.dictionaryMemberNames(ctx, memberArg)
		if !ok {
			return
		}
		assign.CallArgs = names
		assign.Literal = true
	}
}

// sequenceMemberNames handles ["RED", "GREEN"] and [("RED", 1), ("GREEN", 2)].
func (e *PythonExtractor) sequenceMemberNames(ctx *ExtractionContext, node *sitter.Node) ([]string, bool) {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string":
			names = append(names, e.stringContent(ctx, child))
		case "tuple", "list":
			first := e.firstStringElement(ctx, child)
			if first == "" {
				return nil, false
			}
			names = append(names, first)
		case "[", "]", "(", ")", "{", "}", ",", "comment":
			continue
		default:
			// Computed elements make the member set opaque.
			return nil, false
		}
	}
	return names, true
}

func (e *PythonExtractor) dictionaryMemberNames(ctx *ExtractionContext, node *sitter.Node) ([]string, bool) {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "pair" {
			continue
		}
		key := child.ChildByFieldName("key")
		if key == nil || key.Kind() != "string" {
			return nil, false
		}
		names = append(names, e.stringContent(ctx, key))
	}
	return names, true
}

func (e *PythonExtractor) firstStringElement(ctx *ExtractionContext, node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string" {
			return e.stringContent(ctx, child)
		}
	}
	return ""
}

func (e *PythonExtractor) stringContent(ctx *ExtractionContext, node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_content" {
			return ctx.Text(child)
		}
	}
	return trimQuoted(ctx.Text(node))
}

func (e *PythonExtractor) extractAttribute(ctx *ExtractionContext, node *sitter.Node) bool {
	object := node.ChildByFieldName("object")
	attr := node.ChildByFieldName("attribute")
	if object == nil || attr == nil {
		return false
	}

	access := AttributeAccess{
		Name:     ctx.Text(attr),
		ScopeID:  ctx.CurrentScope(),
		Location: ctx.Location(node),
	}

	switch object.Kind() {
	case "identifier":
		access.Base = ctx.Text(object)
	case "attribute":
		// my.module.Color.RED: usable when the whole chain is plain names.
		if !isDottedName(object) {
			return false
		}
		if rightmost := object.ChildByFieldName("attribute"); rightmost != nil {
			access.Base = ctx.Text(rightmost)
			access.Dotted = true
		}
	default:
		// Computed base (call, subscript, literal): unanalyzable, skip.
		return false
	}

	if access.Base != "" {
		ctx.File.Accesses = append(ctx.File.Accesses, access)
	}
	return false
}

func isDottedName(node *sitter.Node) bool {
	switch node.Kind() {
	case "identifier":
		return true
	case "attribute":
		object := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		return object != nil && attr != nil && isDottedName(object)
	}
	return false
}
