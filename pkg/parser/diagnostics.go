package parser

import (
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DiagnosticSink receives recoverable per-file problems, i.e. syntax errors
// in the source or in a signature comment. Conversion keeps going in the
// sense that the caller still gets an (empty) source file back.
type DiagnosticSink interface {
	Report(line int, message string)
}

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError reports a syntax error in the input: either the external parser
// rejected the source, or an embedded type string failed to parse.
type ParseError struct {
	Message  string
	Location SourceLocation
}

func (e *ParseError) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Location.Line)
	}
	return e.Message
}

// ConvertError reports syntactically valid input the converter has no
// representation for. These are hard failures: they are returned to the
// caller, never routed to a diagnostic sink.
type ConvertError struct {
	Message string
	Line    int
}

func (e *ConvertError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parser: %s (line %d)", e.Message, e.Line)
	}
	return "parser: " + e.Message
}

func convertErrorf(node *sitter.Node, format string, args ...any) *ConvertError {
	return &ConvertError{
		Message: fmt.Sprintf(format, args...),
		Line:    lineFor(node),
	}
}

func typeStringError(line int, message string) *ParseError {
	return &ParseError{
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

func syntaxError(root *sitter.Node) *ParseError {
	missing := findFirstMissingNode(root)
	errorNode := missing
	if errorNode == nil {
		errorNode = findFirstErrorNode(root)
	}
	if errorNode == nil {
		errorNode = root
	}
	location := SourceLocation{}
	if errorNode != nil {
		location = locationForNode(errorNode)
	}
	expected := ""
	if missing != nil {
		expected = formatExpectedKind(missing.Kind())
	}
	message := "parser: syntax error"
	if expected != "" {
		message = fmt.Sprintf("parser: syntax error: expected %s", expected)
	}
	return &ParseError{
		Message:  message,
		Location: location,
	}
}

func locationForNode(node *sitter.Node) SourceLocation {
	if node == nil {
		return SourceLocation{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return SourceLocation{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}

func findFirstMissingNode(root *sitter.Node) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if node == nil || !node.IsMissing() {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func findFirstErrorNode(root *sitter.Node) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if node == nil || !node.IsError() {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		walkNodes(child, visit)
	}
}

func formatExpectedKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "token"
	}
	isSymbol := true
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			isSymbol = false
			break
		}
	}
	if len(trimmed) == 1 || isSymbol {
		return fmt.Sprintf("'%s'", trimmed)
	}
	return strings.ReplaceAll(trimmed, "_", " ")
}
