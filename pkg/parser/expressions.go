package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/types"
)

func (c *converter) convertExpression(node *sitter.Node) (nodes.Expression, error) {
	if node == nil {
		return nil, &ConvertError{Message: "missing expression"}
	}
	switch node.Kind() {
	case "identifier":
		return annotate(nodes.NewNameExpr(c.sliceContent(node)), node), nil
	case "true":
		return nodes.NewNameExpr("True"), nil
	case "false":
		return nodes.NewNameExpr("False"), nil
	case "none":
		return nodes.NewNameExpr("None"), nil
	case "ellipsis":
		return annotate(nodes.NewEllipsisExpr(), node), nil
	case "integer":
		return c.convertInteger(node)
	case "float":
		return c.convertFloat(node)
	case "string":
		return c.convertString(node)
	case "concatenated_string":
		return c.convertConcatenatedString(node)
	case "parenthesized_expression":
		return c.convertExpression(firstNamedChild(node))
	case "attribute":
		return c.convertAttribute(node)
	case "call":
		return c.convertCall(node)
	case "subscript":
		return c.convertSubscript(node)
	case "binary_operator":
		return c.convertBinary(node)
	case "boolean_operator":
		return c.convertBoolean(node)
	case "not_operator":
		expr, err := c.convertExpression(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewUnaryExpr("not", expr), node), nil
	case "unary_operator":
		op, err := c.unaryOp(node.ChildByFieldName("operator"))
		if err != nil {
			return nil, err
		}
		expr, err := c.convertExpression(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewUnaryExpr(op, expr), node), nil
	case "comparison_operator":
		return c.convertComparison(node)
	case "conditional_expression":
		return c.convertConditional(node)
	case "lambda":
		return c.convertLambda(node)
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		items, err := c.convertExpressionList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewTupleExpr(items), node), nil
	case "list", "list_pattern":
		items, err := c.convertExpressionList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewListExpr(items), node), nil
	case "set":
		items, err := c.convertExpressionList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewSetExpr(items), node), nil
	case "dictionary":
		return c.convertDictionary(node)
	case "list_splat", "list_splat_pattern":
		expr, err := c.convertExpression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewStarExpr(expr), node), nil
	case "list_comprehension":
		gen, err := c.convertGenerator(node)
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewListComprehension(gen), node), nil
	case "set_comprehension":
		gen, err := c.convertGenerator(node)
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewSetComprehension(gen), node), nil
	case "generator_expression":
		return c.convertGenerator(node)
	case "dictionary_comprehension":
		return c.convertDictionaryComprehension(node)
	case "yield":
		return c.convertYield(node)
	case "await":
		return nil, convertErrorf(node, "await expressions are not supported")
	case "named_expression":
		return nil, convertErrorf(node, "assignment expressions are not supported")
	}
	return nil, convertErrorf(node, "unrecognized expression kind %q", node.Kind())
}

func (c *converter) convertExpressionList(children []*sitter.Node) ([]nodes.Expression, error) {
	items := make([]nodes.Expression, 0, len(children))
	for _, child := range children {
		item, err := c.convertExpression(child)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// convertAttribute handles the `super().name` special case; any other
// receiver produces a plain member access.
func (c *converter) convertAttribute(node *sitter.Node) (nodes.Expression, error) {
	obj, err := c.convertExpression(node.ChildByFieldName("object"))
	if err != nil {
		return nil, err
	}
	name := c.sliceContent(node.ChildByFieldName("attribute"))
	if call, ok := obj.(*nodes.CallExpr); ok {
		if callee, ok := call.Callee.(*nodes.NameExpr); ok && callee.Name == "super" {
			return annotate(nodes.NewSuperExpr(name), node), nil
		}
	}
	return annotate(nodes.NewMemberExpr(obj, name), node), nil
}

// convertCall flattens arguments into parallel slices: non-keyword arguments
// first in source order, then keyword and **-splat arguments.
func (c *converter) convertCall(node *sitter.Node) (nodes.Expression, error) {
	callee, err := c.convertExpression(node.ChildByFieldName("function"))
	if err != nil {
		return nil, err
	}

	var (
		args, kwArgs   []nodes.Expression
		kinds, kwKinds []types.ArgKind
		names, kwNames []string
	)
	argList := node.ChildByFieldName("arguments")
	for _, child := range namedChildren(argList) {
		switch child.Kind() {
		case "keyword_argument":
			value, err := c.convertExpression(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			kwArgs = append(kwArgs, value)
			kwKinds = append(kwKinds, types.ArgNamed)
			kwNames = append(kwNames, c.sliceContent(child.ChildByFieldName("name")))
		case "dictionary_splat":
			value, err := c.convertExpression(firstNamedChild(child))
			if err != nil {
				return nil, err
			}
			kwArgs = append(kwArgs, value)
			kwKinds = append(kwKinds, types.ArgStar2)
			kwNames = append(kwNames, "")
		case "list_splat":
			value, err := c.convertExpression(firstNamedChild(child))
			if err != nil {
				return nil, err
			}
			args = append(args, value)
			kinds = append(kinds, types.ArgStar)
			names = append(names, "")
		default:
			value, err := c.convertExpression(child)
			if err != nil {
				return nil, err
			}
			args = append(args, value)
			kinds = append(kinds, types.ArgPos)
			names = append(names, "")
		}
	}
	call := nodes.NewCallExpr(callee,
		append(args, kwArgs...),
		append(kinds, kwKinds...),
		append(names, kwNames...))
	return annotate(call, node), nil
}

// convertSubscript collapses a single non-slice subscript into the index
// slot directly. A lone slice becomes a line-less slice node; multiple items
// become a tuple, line-less when any item is a slice.
func (c *converter) convertSubscript(node *sitter.Node) (nodes.Expression, error) {
	base, err := c.convertExpression(node.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}
	var items []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || node.FieldNameForChild(uint32(i)) != "subscript" {
			continue
		}
		items = append(items, child)
	}
	if len(items) == 0 {
		return nil, convertErrorf(node, "subscript missing index")
	}

	var index nodes.Expression
	if len(items) == 1 {
		item := items[0]
		if item.Kind() == "slice" {
			index, err = c.convertSlice(item)
		} else {
			index, err = c.convertExpression(item)
		}
		if err != nil {
			return nil, err
		}
	} else {
		parts := make([]nodes.Expression, 0, len(items))
		hasSlice := false
		for _, item := range items {
			var part nodes.Expression
			if item.Kind() == "slice" {
				hasSlice = true
				part, err = c.convertSlice(item)
			} else {
				part, err = c.convertExpression(item)
			}
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		tup := nodes.NewTupleExpr(parts)
		if !hasSlice {
			tup.SetLine(lineFor(items[0]))
		}
		index = tup
	}
	return annotate(nodes.NewIndexExpr(base, index), node), nil
}

// convertSlice maps the colon-separated slice parts; the slice node itself
// stays line-less.
func (c *converter) convertSlice(node *sitter.Node) (nodes.Expression, error) {
	var parts [3]nodes.Expression
	slot := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !child.IsNamed() {
			if child.Kind() == ":" {
				slot++
			}
			continue
		}
		if isIgnorableNode(child) {
			continue
		}
		if slot > 2 {
			return nil, convertErrorf(child, "too many slice parts")
		}
		expr, err := c.convertExpression(child)
		if err != nil {
			return nil, err
		}
		parts[slot] = expr
	}
	return nodes.NewSliceExpr(parts[0], parts[1], parts[2]), nil
}

func (c *converter) convertBinary(node *sitter.Node) (nodes.Expression, error) {
	op, err := c.binaryOp(node.ChildByFieldName("operator"))
	if err != nil {
		return nil, err
	}
	left, err := c.convertExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := c.convertExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewOpExpr(op, left, right), node), nil
}

// convertBoolean flattens a same-operator chain and refolds it to the
// right: `a and b and c` becomes a and (b and c). Only the outermost node
// carries a line.
func (c *converter) convertBoolean(node *sitter.Node) (nodes.Expression, error) {
	op := c.sliceContent(node.ChildByFieldName("operator"))
	if op != "and" && op != "or" {
		return nil, convertErrorf(node, "unknown boolean operator %q", op)
	}

	var operands []nodes.Expression
	var flatten func(n *sitter.Node) error
	flatten = func(n *sitter.Node) error {
		left := n.ChildByFieldName("left")
		if left != nil && left.Kind() == "boolean_operator" && c.sliceContent(left.ChildByFieldName("operator")) == op {
			if err := flatten(left); err != nil {
				return err
			}
		} else {
			converted, err := c.convertExpression(left)
			if err != nil {
				return err
			}
			operands = append(operands, converted)
		}
		converted, err := c.convertExpression(n.ChildByFieldName("right"))
		if err != nil {
			return err
		}
		operands = append(operands, converted)
		return nil
	}
	if err := flatten(node); err != nil {
		return nil, err
	}

	var group func(vals []nodes.Expression) nodes.Expression
	group = func(vals []nodes.Expression) nodes.Expression {
		if len(vals) == 2 {
			return nodes.NewOpExpr(op, vals[0], vals[1])
		}
		return nodes.NewOpExpr(op, vals[0], group(vals[1:]))
	}
	return annotate(group(operands), node), nil
}

func (c *converter) convertComparison(node *sitter.Node) (nodes.Expression, error) {
	operators, err := c.comparisonOperators(node)
	if err != nil {
		return nil, err
	}
	operands, err := c.convertExpressionList(namedChildren(node))
	if err != nil {
		return nil, err
	}
	if len(operands) != len(operators)+1 {
		return nil, convertErrorf(node, "malformed comparison")
	}
	return annotate(nodes.NewComparisonExpr(operators, operands), node), nil
}

func (c *converter) convertConditional(node *sitter.Node) (nodes.Expression, error) {
	children := namedChildren(node)
	if len(children) != 3 {
		return nil, convertErrorf(node, "malformed conditional expression")
	}
	ifExpr, err := c.convertExpression(children[0])
	if err != nil {
		return nil, err
	}
	cond, err := c.convertExpression(children[1])
	if err != nil {
		return nil, err
	}
	elseExpr, err := c.convertExpression(children[2])
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewConditionalExpr(cond, ifExpr, elseExpr), node), nil
}

// convertLambda reuses the function machinery: the body becomes a one-line
// block returning the lambda's expression.
func (c *converter) convertLambda(node *sitter.Node) (nodes.Expression, error) {
	lineno := lineFor(node)
	args, err := c.transformParameters(node.ChildByFieldName("parameters"), lineno)
	if err != nil {
		return nil, err
	}
	body, err := c.convertExpression(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	ret := nodes.NewReturnStmt(body)
	ret.SetLine(lineno)
	return annotate(nodes.NewLambdaExpr(args, asBlock([]nodes.Statement{ret}, lineno)), node), nil
}

func (c *converter) convertDictionary(node *sitter.Node) (nodes.Expression, error) {
	var keys, values []nodes.Expression
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "pair":
			key, err := c.convertExpression(child.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := c.convertExpression(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, value)
		case "dictionary_splat":
			value, err := c.convertExpression(firstNamedChild(child))
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, value)
		default:
			return nil, convertErrorf(child, "unrecognized dictionary entry %q", child.Kind())
		}
	}
	return annotate(nodes.NewDictExpr(keys, values), node), nil
}

// convertGenerator converts the shared comprehension core.
func (c *converter) convertGenerator(node *sitter.Node) (*nodes.GeneratorExpr, error) {
	left, err := c.convertExpression(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	indices, sequences, condLists, err := c.convertComprehensionClauses(node)
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewGeneratorExpr(left, indices, sequences, condLists), node), nil
}

func (c *converter) convertDictionaryComprehension(node *sitter.Node) (nodes.Expression, error) {
	pair := node.ChildByFieldName("body")
	if pair == nil || pair.Kind() != "pair" {
		return nil, convertErrorf(node, "malformed dictionary comprehension")
	}
	key, err := c.convertExpression(pair.ChildByFieldName("key"))
	if err != nil {
		return nil, err
	}
	value, err := c.convertExpression(pair.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}
	indices, sequences, condLists, err := c.convertComprehensionClauses(node)
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewDictionaryComprehension(key, value, indices, sequences, condLists), node), nil
}

func (c *converter) convertComprehensionClauses(node *sitter.Node) ([]nodes.Expression, []nodes.Expression, [][]nodes.Expression, error) {
	var indices, sequences []nodes.Expression
	var condLists [][]nodes.Expression
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "for_in_clause":
			if hasAnonymousChild(child, "async") {
				return nil, nil, nil, convertErrorf(child, "async comprehensions are not supported")
			}
			index, err := c.convertExpression(child.ChildByFieldName("left"))
			if err != nil {
				return nil, nil, nil, err
			}
			sequence, err := c.convertExpression(child.ChildByFieldName("right"))
			if err != nil {
				return nil, nil, nil, err
			}
			indices = append(indices, index)
			sequences = append(sequences, sequence)
			condLists = append(condLists, []nodes.Expression{})
		case "if_clause":
			if len(condLists) == 0 {
				return nil, nil, nil, convertErrorf(child, "comprehension condition before any for clause")
			}
			cond, err := c.convertExpression(firstNamedChild(child))
			if err != nil {
				return nil, nil, nil, err
			}
			condLists[len(condLists)-1] = append(condLists[len(condLists)-1], cond)
		}
	}
	if len(indices) == 0 {
		return nil, nil, nil, convertErrorf(node, "comprehension missing for clause")
	}
	return indices, sequences, condLists, nil
}

func (c *converter) convertYield(node *sitter.Node) (nodes.Expression, error) {
	if hasAnonymousChild(node, "from") {
		expr, err := c.convertExpression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewYieldFromExpr(expr), node), nil
	}
	var expr nodes.Expression
	if value := firstNamedChild(node); value != nil {
		var err error
		expr, err = c.convertExpression(value)
		if err != nil {
			return nil, err
		}
	}
	return annotate(nodes.NewYieldExpr(expr), node), nil
}
