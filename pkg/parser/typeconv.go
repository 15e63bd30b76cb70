package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/types"
)

// typeConverter translates annotation expressions into type objects. Every
// produced type carries the converter's fixed line: the line of the
// statement the annotation belongs to, not the line the annotation text
// happens to sit on.
type typeConverter struct {
	c    *converter
	line int
}

// convertTypeAnnotation converts an annotation subtree at the given line.
// A nil node yields a nil type.
func (c *converter) convertTypeAnnotation(node *sitter.Node, line int) (types.Type, error) {
	if node == nil {
		return nil, nil
	}
	tc := &typeConverter{c: c, line: line}
	return tc.convert(node)
}

func (t *typeConverter) convert(node *sitter.Node) (types.Type, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind() {
	case "type", "parenthesized_expression":
		return t.convert(firstNamedChild(node))
	case "identifier":
		return types.NewUnboundType(t.c.sliceContent(node), nil, t.line), nil
	case "attribute":
		name, err := t.dottedName(node)
		if err != nil {
			return nil, err
		}
		return types.NewUnboundType(name, nil, t.line), nil
	case "none":
		return types.NewUnboundType("None", nil, 0), nil
	case "true":
		return types.NewUnboundType("True", nil, 0), nil
	case "false":
		return types.NewUnboundType("False", nil, 0), nil
	case "string":
		value, isBytes, err := t.c.stringLiteralValue(node)
		if err != nil {
			return nil, err
		}
		if isBytes {
			return nil, convertErrorf(node, "bytes literal is not a valid type")
		}
		return t.c.parseTypeString(strings.TrimSpace(value), t.line, t.line)
	case "subscript":
		return t.convertSubscript(node)
	case "tuple":
		items, err := t.convertList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return types.NewTupleType(items, true, t.line), nil
	case "list":
		items, err := t.convertList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return types.NewTypeList(items, t.line), nil
	case "ellipsis":
		return types.NewEllipsisType(t.line), nil
	}
	return nil, convertErrorf(node, "type annotation not supported: %q", node.Kind())
}

func (t *typeConverter) convertList(children []*sitter.Node) ([]types.Type, error) {
	items := make([]types.Type, 0, len(children))
	for _, child := range children {
		item, err := t.convert(child)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// dottedName flattens `a.b.c`; the base must be a plain unparameterized
// name.
func (t *typeConverter) dottedName(node *sitter.Node) (string, error) {
	base, err := t.convert(node.ChildByFieldName("object"))
	if err != nil {
		return "", err
	}
	unbound, ok := base.(*types.UnboundType)
	if !ok || len(unbound.Args) > 0 {
		return "", convertErrorf(node, "type annotation base must be a plain name")
	}
	return unbound.Name + "." + t.c.sliceContent(node.ChildByFieldName("attribute")), nil
}

func (t *typeConverter) convertSubscript(node *sitter.Node) (types.Type, error) {
	base, err := t.convert(node.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}
	unbound, ok := base.(*types.UnboundType)
	if !ok || len(unbound.Args) > 0 {
		return nil, convertErrorf(node, "type annotation base must be a plain name")
	}

	var items []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || node.FieldNameForChild(uint32(i)) != "subscript" {
			continue
		}
		if child.Kind() == "slice" {
			return nil, convertErrorf(child, "slices are not valid type arguments")
		}
		items = append(items, child)
	}

	var params []types.Type
	if len(items) == 1 {
		item := items[0]
		for item.Kind() == "parenthesized_expression" {
			item = firstNamedChild(item)
		}
		if item.Kind() == "tuple" {
			params, err = t.convertList(namedChildren(item))
		} else {
			params, err = t.convertList([]*sitter.Node{item})
		}
	} else {
		params, err = t.convertList(items)
	}
	if err != nil {
		return nil, err
	}
	return types.NewUnboundType(unbound.Name, params, t.line), nil
}

// parseTypeString parses an embedded type expression: a quoted forward
// reference or one slot of a `# type:` comment. typeLine becomes the line
// of the produced type; reportLine is where a syntax error is blamed.
func (c *converter) parseTypeString(text string, typeLine, reportLine int) (types.Type, error) {
	tree := c.parse([]byte(text))
	if tree == nil {
		return nil, typeStringError(reportLine, "parser: failed to parse type string")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, typeStringError(reportLine, "parser: syntax error in type string")
	}
	body := namedChildren(root)
	if len(body) != 1 || body[0].Kind() != "expression_statement" {
		return nil, typeStringError(reportLine, "parser: type string must be a single expression")
	}
	exprs := namedChildren(body[0])
	if len(exprs) != 1 {
		return nil, typeStringError(reportLine, "parser: type string must be a single expression")
	}

	sub := newConverter([]byte(text))
	sub.parse = c.parse
	tc := &typeConverter{c: sub, line: typeLine}
	return tc.convert(exprs[0])
}
