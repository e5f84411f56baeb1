package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// GrammarLoader owns the tree-sitter language grammars. Only Python is
// compiled in; the registry indirection keeps ParseFile language-agnostic.
type GrammarLoader struct {
	languages map[string]*sitter.Language
	pools     map[string]*ParserPool
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		pools:     make(map[string]*ParserPool),
	}
	gl.languages["python"] = sitter.NewLanguage(tree_sitter_python.Language())
	for lang, grammar := range gl.languages {
		gl.pools[lang] = NewParserPool(grammar)
	}
	return gl
}

func (gl *GrammarLoader) Language(lang string) *sitter.Language {
	return gl.languages[lang]
}

func (gl *GrammarLoader) Pool(lang string) *ParserPool {
	return gl.pools[lang]
}
