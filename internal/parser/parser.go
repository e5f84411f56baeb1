package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/SuadeLabs/enumchecker/internal/errors"
	"github.com/SuadeLabs/enumchecker/internal/observability"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
	extensions map[string]string
}

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*SourceFile, error)
}

// SyntaxError reports the first malformed region tree-sitter found. The file
// is excluded from cross-file analysis but the run continues.
type SyntaxError struct {
	Location Location
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column)
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		extensions: map[string]string{".py": "python"},
	}
	p.extractors["python"] = &PythonExtractor{}
	return p
}

func (p *Parser) ParseFile(path string, content []byte) (*SourceFile, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, "unsupported language")
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", lang))
	}

	pool := p.loader.Pool(lang)
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	start := time.Now()
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeParseError, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())

	root := tree.RootNode()
	if root.HasError() {
		return nil, &SyntaxError{Location: firstErrorLocation(root, path)}
	}

	res, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}
	return res, nil
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.detectLanguage(filePath) != ""
}

// IsTestFile reports whether the path follows the pytest naming conventions.
func (p *Parser) IsTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") || base == "conftest.py"
}

func firstErrorLocation(node *sitter.Node, path string) Location {
	if node.IsError() || node.IsMissing() {
		return Location{
			File:   path,
			Line:   int(node.StartPosition().Row) + 1,
			Column: int(node.StartPosition().Column) + 1,
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.HasError() {
			continue
		}
		return firstErrorLocation(child, path)
	}
	return Location{File: path, Line: 1, Column: 1}
}
