package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/parser/language"
	"pycheck/frontend-go/pkg/types"
)

// ModuleParser wraps a tree-sitter parser configured for Python source.
type ModuleParser struct {
	parser *sitter.Parser
}

// NewModuleParser constructs a parser with the Python grammar loaded.
func NewModuleParser() (*ModuleParser, error) {
	lang := language.Python()
	if lang == nil {
		return nil, fmt.Errorf("parser: python language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &ModuleParser{parser: p}, nil
}

// Close releases parser resources.
func (p *ModuleParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseModule parses Python source into the checker's tree, without doing
// any semantic analysis.
//
// Syntax errors (in the source or in a type comment) are recoverable: when
// sink is non-nil they are reported to it and an empty source file is
// returned. Without a sink the *ParseError is returned instead. Conversion
// failures (*ConvertError) are always returned.
func (p *ModuleParser) ParseModule(source []byte, path string, sink DiagnosticSink) (*nodes.SourceFile, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	file, err := p.convertModule(source, path)
	if err != nil {
		if parseErr, ok := err.(*ParseError); ok && sink != nil {
			sink.Report(parseErr.Location.Line, parseErr.Message)
			return nodes.NewSourceFile(nil, nil, nil), nil
		}
		return nil, err
	}
	return file, nil
}

// ParseTypeString converts a standalone type-expression string, e.g. the
// contents of a forward reference, into a type object carrying the given
// line. Syntax errors come back as *ParseError blamed on that line.
func (p *ModuleParser) ParseTypeString(text string, line int) (types.Type, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	c := newConverter([]byte(text))
	c.parse = func(src []byte) *sitter.Tree {
		return p.parser.Parse(src, nil)
	}
	return c.parseTypeString(text, line, line)
}

func (p *ModuleParser) convertModule(source []byte, path string) (*nodes.SourceFile, error) {
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: failed to parse")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.Kind() != "module" {
		if root.HasError() {
			return nil, syntaxError(root)
		}
		return nil, fmt.Errorf("parser: unexpected root node %q", root.Kind())
	}
	if root.HasError() {
		return nil, syntaxError(root)
	}

	c := newConverter(source)
	c.parse = func(src []byte) *sitter.Tree {
		return p.parser.Parse(src, nil)
	}
	c.collectComments(root)

	stmts, err := c.convertStatements(namedChildren(root))
	if err != nil {
		return nil, err
	}

	file := nodes.NewSourceFile(foldOverloads(stmts), c.imports, c.sortedIgnoredLines())
	file.Path = path
	file.IsStub = strings.HasSuffix(path, ".pyi")
	return file, nil
}
