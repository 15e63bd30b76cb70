package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/types"
)

// convertFuncDef converts a function definition. For decorated functions
// decorators holds the converted decorator expressions (outermost first) and
// decoLine is the first decorator's line; the definition's line is then
// shifted past the decorators and the result is wrapped in a Decorator node.
func (c *converter) convertFuncDef(node *sitter.Node, decorators []nodes.Expression, decoLine int) (nodes.Statement, error) {
	if hasAnonymousChild(node, "async") {
		return nil, convertErrorf(node, "async functions are not supported")
	}

	lineno := lineFor(node)
	if len(decorators) > 0 {
		lineno = decoLine
	}

	name := c.sliceContent(node.ChildByFieldName("name"))
	params := node.ChildByFieldName("parameters")
	args, err := c.transformParameters(params, lineno)
	if err != nil {
		return nil, err
	}

	argKinds := make([]types.ArgKind, len(args))
	argNames := make([]string, len(args))
	for i, a := range args {
		argKinds[i] = a.Kind
		argNames[i] = a.Variable.Name
	}

	var argTypes []types.Type
	var returnType types.Type
	if tc, ok := c.trailingTypeComment(endLineFor(params), params.EndByte()); ok {
		argTypes, returnType, err = c.funcTypeFromComment(tc, lineno, len(args))
		if err != nil {
			return nil, err
		}
	} else {
		argTypes = make([]types.Type, len(args))
		for i, a := range args {
			argTypes[i] = a.TypeAnnotation
		}
		returnType, err = c.convertTypeAnnotation(node.ChildByFieldName("return_type"), lineno)
		if err != nil {
			return nil, err
		}
	}

	var funcType *types.CallableType
	if anyNonNil(argTypes) || returnType != nil {
		filled := make([]types.Type, len(argTypes))
		for i, t := range argTypes {
			if t == nil {
				t = types.NewAnyType()
			}
			filled[i] = t
		}
		if returnType == nil {
			returnType = types.NewAnyType()
		}
		funcType = types.NewCallableType(filled, argKinds, argNames, returnType, 0)
	}

	body, err := c.convertBody(node.ChildByFieldName("body"), lineno)
	if err != nil {
		return nil, err
	}

	funcDef := nodes.NewFuncDef(name, args, body, funcType)
	funcDef.SetLine(lineno)
	if funcType != nil {
		funcType.Definition = funcDef
	}

	if len(decorators) == 0 {
		return funcDef, nil
	}

	v := nodes.NewVar(name)
	v.SetLine(decoLine)
	funcDef.SetLine(lineno + len(decorators))
	if funcDef.Body != nil {
		funcDef.Body.SetLine(funcDef.Line())
	}
	dec := nodes.NewDecorator(funcDef, decorators, v)
	dec.SetLine(decoLine)
	return dec, nil
}

// funcTypeFromComment resolves a `# type: (T1, T2) -> R` signature comment.
// When the converter is inside a class body and the comment lists one type
// fewer than there are parameters, an implicit Any is inserted for the
// leading parameter.
func (c *converter) funcTypeFromComment(tc typeComment, lineno, numArgs int) ([]types.Type, types.Type, error) {
	argTexts, retText, ok := splitFuncTypeComment(tc.text)
	if !ok {
		return nil, nil, typeStringError(tc.line, "parser: invalid function type comment")
	}
	argTypes := make([]types.Type, 0, len(argTexts))
	for _, text := range argTexts {
		if strings.HasPrefix(text, "*") {
			return nil, nil, &ConvertError{
				Message: "star arguments in type comments are not supported",
				Line:    tc.line,
			}
		}
		t, err := c.parseTypeString(text, lineno, tc.line)
		if err != nil {
			return nil, nil, err
		}
		argTypes = append(argTypes, t)
	}
	returnType, err := c.parseTypeString(retText, lineno, tc.line)
	if err != nil {
		return nil, nil, err
	}
	if c.inClass && len(argTypes) < numArgs {
		argTypes = append([]types.Type{types.NewAnyType()}, argTypes...)
	}
	return argTypes, returnType, nil
}

func anyNonNil(ts []types.Type) bool {
	for _, t := range ts {
		if t != nil {
			return true
		}
	}
	return false
}

// transformParameters builds the argument list in kind order as it appears
// in source: plain positionals, positionals with defaults, *args,
// keyword-only arguments, **kwargs. Annotations are converted at the
// definition's line.
func (c *converter) transformParameters(params *sitter.Node, line int) ([]*nodes.Argument, error) {
	if params == nil {
		return nil, nil
	}
	var args []*nodes.Argument
	sawStar := false

	positionalKind := func() types.ArgKind {
		if sawStar {
			return types.ArgNamed
		}
		return types.ArgPos
	}
	defaultedKind := func() types.ArgKind {
		if sawStar {
			return types.ArgNamed
		}
		return types.ArgOpt
	}
	add := func(name string, annotation types.Type, initializer nodes.Expression, kind types.ArgKind) {
		args = append(args, nodes.NewArgument(nodes.NewVar(name), annotation, initializer, kind))
	}

	for _, param := range namedChildren(params) {
		switch param.Kind() {
		case "identifier":
			add(c.sliceContent(param), nil, nil, positionalKind())
		case "typed_parameter":
			annotation, err := c.convertTypeAnnotation(param.ChildByFieldName("type"), line)
			if err != nil {
				return nil, err
			}
			inner := firstNamedChild(param)
			if inner == nil {
				return nil, convertErrorf(param, "typed parameter missing name")
			}
			switch inner.Kind() {
			case "identifier":
				add(c.sliceContent(inner), annotation, nil, positionalKind())
			case "list_splat_pattern":
				add(c.splatName(inner), annotation, nil, types.ArgStar)
				sawStar = true
			case "dictionary_splat_pattern":
				add(c.splatName(inner), annotation, nil, types.ArgStar2)
			default:
				return nil, convertErrorf(inner, "unrecognized parameter %q", inner.Kind())
			}
		case "default_parameter", "typed_default_parameter":
			nameNode := param.ChildByFieldName("name")
			if nameNode == nil || nameNode.Kind() != "identifier" {
				return nil, convertErrorf(param, "parameter name must be an identifier")
			}
			annotation, err := c.convertTypeAnnotation(param.ChildByFieldName("type"), line)
			if err != nil {
				return nil, err
			}
			initializer, err := c.convertExpression(param.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			add(c.sliceContent(nameNode), annotation, initializer, defaultedKind())
		case "list_splat_pattern":
			add(c.splatName(param), nil, nil, types.ArgStar)
			sawStar = true
		case "dictionary_splat_pattern":
			add(c.splatName(param), nil, nil, types.ArgStar2)
		case "keyword_separator":
			sawStar = true
		case "positional_separator":
			return nil, convertErrorf(param, "positional-only parameter markers are not supported")
		default:
			return nil, convertErrorf(param, "unrecognized parameter %q", param.Kind())
		}
	}
	return args, nil
}

func (c *converter) splatName(node *sitter.Node) string {
	if inner := firstNamedChild(node); inner != nil {
		return c.sliceContent(inner)
	}
	return ""
}

// convertDecorated converts a decorated function or class definition.
func (c *converter) convertDecorated(node *sitter.Node) (nodes.Statement, error) {
	var decorators []nodes.Expression
	var definition *sitter.Node
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "decorator":
			expr, err := c.convertExpression(firstNamedChild(child))
			if err != nil {
				return nil, err
			}
			decorators = append(decorators, expr)
		default:
			definition = child
		}
	}
	if definition == nil {
		definition = node.ChildByFieldName("definition")
	}
	if definition == nil {
		return nil, convertErrorf(node, "decorated definition missing target")
	}
	decoLine := lineFor(node)
	switch definition.Kind() {
	case "function_definition":
		return c.convertFuncDef(definition, decorators, decoLine)
	case "class_definition":
		return c.convertClassDef(definition, decorators, decoLine)
	}
	return nil, convertErrorf(definition, "unrecognized decorated definition %q", definition.Kind())
}

// convertClassDef converts a class definition. The class body's block
// carries no line, and overload folding applies inside it.
func (c *converter) convertClassDef(node *sitter.Node, decorators []nodes.Expression, decoLine int) (nodes.Statement, error) {
	lineno := lineFor(node)
	if len(decorators) > 0 {
		lineno = decoLine
	}

	name := c.sliceContent(node.ChildByFieldName("name"))
	bases, metaclass, err := c.convertSuperclasses(node.ChildByFieldName("superclasses"))
	if err != nil {
		return nil, err
	}

	saved := c.inClass
	c.inClass = true
	stmts, err := c.convertStatements(namedChildren(node.ChildByFieldName("body")))
	c.inClass = saved
	if err != nil {
		return nil, err
	}

	cdef := nodes.NewClassDef(name, nodes.NewBlock(foldOverloads(stmts)), bases, metaclass)
	cdef.Decorators = decorators
	cdef.SetLine(lineno)
	return cdef, nil
}

// convertSuperclasses splits a class's argument list into base expressions
// and the stringified `metaclass=` keyword. Other keywords are dropped.
func (c *converter) convertSuperclasses(node *sitter.Node) ([]nodes.Expression, string, error) {
	if node == nil {
		return nil, "", nil
	}
	var bases []nodes.Expression
	metaclass := ""
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "keyword_argument":
			if c.sliceContent(child.ChildByFieldName("name")) != "metaclass" {
				continue
			}
			name, err := c.stringifyName(child.ChildByFieldName("value"))
			if err != nil {
				return nil, "", err
			}
			metaclass = name
		default:
			base, err := c.convertExpression(child)
			if err != nil {
				return nil, "", err
			}
			bases = append(bases, base)
		}
	}
	return bases, metaclass, nil
}

// stringifyName flattens a plain or dotted name into its source spelling.
func (c *converter) stringifyName(node *sitter.Node) (string, error) {
	if node == nil {
		return "", convertErrorf(node, "expected a name")
	}
	switch node.Kind() {
	case "identifier":
		return c.sliceContent(node), nil
	case "attribute":
		base, err := c.stringifyName(node.ChildByFieldName("object"))
		if err != nil {
			return "", err
		}
		return base + "." + c.sliceContent(node.ChildByFieldName("attribute")), nil
	}
	return "", convertErrorf(node, "cannot stringify %q", node.Kind())
}

// foldOverloads replaces runs of consecutive decorated definitions sharing
// one name with a single overloaded definition. The decorator need not
// literally be @overload.
func foldOverloads(stmts []nodes.Statement) []nodes.Statement {
	var ret []nodes.Statement
	var current []*nodes.Decorator
	currentName := ""

	flush := func() {
		if len(current) == 1 {
			ret = append(ret, current[0])
		} else if len(current) > 1 {
			ret = append(ret, nodes.NewOverloadedFuncDef(current))
		}
	}

	for _, stmt := range stmts {
		if dec, ok := stmt.(*nodes.Decorator); ok && len(current) > 0 && dec.Func.Name == currentName {
			current = append(current, dec)
			continue
		}
		flush()
		if dec, ok := stmt.(*nodes.Decorator); ok {
			current = []*nodes.Decorator{dec}
			currentName = dec.Func.Name
		} else {
			current = nil
			currentName = ""
			ret = append(ret, stmt)
		}
	}
	flush()
	return ret
}
