package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
)

// converter carries the per-file state of one conversion pass.
type converter struct {
	source []byte

	// parse re-invokes the external parser for embedded type strings.
	parse func(source []byte) *sitter.Tree

	// inClass is true while converting statements directly inside a class
	// body; it drives the implicit leading-parameter type of signature
	// comments.
	inClass bool

	// imports accumulates every import statement in the file, in conversion
	// order, for the source file's import table.
	imports []nodes.Statement

	typeComments map[int]typeComment
	ignoredLines map[int]struct{}
}

func newConverter(source []byte) *converter {
	return &converter{
		source:       source,
		typeComments: make(map[int]typeComment),
		ignoredLines: make(map[int]struct{}),
	}
}

func (c *converter) sliceContent(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint(len(c.source)) {
		return ""
	}
	return string(c.source[start:end])
}

// lineFor reports the node's 1-based start line.
func lineFor(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

func endLineFor(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.EndPosition().Row) + 1
}

// annotate stamps the target node with the source node's start line.
func annotate[T nodes.Node](n T, node *sitter.Node) T {
	n.SetLine(lineFor(node))
	return n
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return true
	}
	switch node.Kind() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

// namedChildren returns the node's named children with comments filtered out.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if isIgnorableNode(child) {
			continue
		}
		children = append(children, child)
	}
	return children
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if isIgnorableNode(child) {
			continue
		}
		return child
	}
	return nil
}

// hasAnonymousChild reports whether the node has a non-named child with the
// given token text, e.g. the "async" keyword of an async definition.
func hasAnonymousChild(node *sitter.Node, token string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		if child.Kind() == token {
			return true
		}
	}
	return false
}
