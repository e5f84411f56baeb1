package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node for the extractor.
// Returns true if the handler has processed children and the walker should stop.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries shared state/helpers used during one file's walk.
type ExtractionContext struct {
	Source []byte
	File   *SourceFile

	scopeStack []int
}

// ExtractorEngine walks the syntax tree depth-first and dispatches node
// handlers by kind. Nodes listed in scopeKinds open a new lexical scope for
// the duration of their subtree.
type ExtractorEngine struct {
	handlers   map[string]NodeHandler
	scopeKinds map[string]ScopeKind
}

func NewExtractorEngine(handlers map[string]NodeHandler, scopeKinds map[string]ScopeKind) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers, scopeKinds: scopeKinds}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	if len(ctx.scopeStack) == 0 {
		ctx.File.Scopes = append(ctx.File.Scopes, Scope{ID: 0, Parent: -1, Kind: ScopeModule})
		ctx.scopeStack = append(ctx.scopeStack, 0)
	}

	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}
	if stop {
		return
	}

	// The handler runs in the enclosing scope (a class or function name binds
	// outside its own body); children run in the new scope.
	if kind, scoped := e.scopeKinds[node.Kind()]; scoped {
		ctx.pushScope(kind)
		defer ctx.popScope()
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
}

func (c *ExtractionContext) pushScope(kind ScopeKind) {
	id := len(c.File.Scopes)
	c.File.Scopes = append(c.File.Scopes, Scope{ID: id, Parent: c.CurrentScope(), Kind: kind})
	c.scopeStack = append(c.scopeStack, id)
}

func (c *ExtractionContext) popScope() {
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
}

// CurrentScope returns the ID of the innermost open scope.
func (c *ExtractionContext) CurrentScope() int {
	if len(c.scopeStack) == 0 {
		return 0
	}
	return c.scopeStack[len(c.scopeStack)-1]
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

func (c *ExtractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.File.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (c *ExtractionContext) ChildText(node *sitter.Node, kind string) string {
	if node == nil {
		return ""
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return c.Text(child)
		}
	}
	return ""
}

// AppendLocalIdentifiers records every identifier under node as a local name
// in the current scope.
func (c *ExtractionContext) AppendLocalIdentifiers(node *sitter.Node) {
	if node == nil {
		return
	}
	if node.Kind() == "identifier" {
		c.File.Locals = append(c.File.Locals, LocalName{Name: c.Text(node), ScopeID: c.CurrentScope()})
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		c.AppendLocalIdentifiers(node.Child(i))
	}
}
