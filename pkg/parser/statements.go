package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/types"
)

// convertStatements converts a raw statement list. Overload folding is not
// applied here; it happens only at module and class level.
func (c *converter) convertStatements(children []*sitter.Node) ([]nodes.Statement, error) {
	var stmts []nodes.Statement
	for _, node := range children {
		converted, err := c.convertStatement(node)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, converted...)
	}
	return stmts, nil
}

// asBlock wraps statements in a block carrying the introducing statement's
// line, or nil when there are none.
func asBlock(stmts []nodes.Statement, lineno int) *nodes.Block {
	if len(stmts) == 0 {
		return nil
	}
	b := nodes.NewBlock(stmts)
	b.SetLine(lineno)
	return b
}

// convertBody converts a `block` node (or nil) into a Block with the given
// line.
func (c *converter) convertBody(node *sitter.Node, lineno int) (*nodes.Block, error) {
	if node == nil {
		return nil, nil
	}
	stmts, err := c.convertStatements(namedChildren(node))
	if err != nil {
		return nil, err
	}
	return asBlock(stmts, lineno), nil
}

// convertStatement returns the checker statements for one source statement.
// Semicolon-joined simple statements yield more than one.
func (c *converter) convertStatement(node *sitter.Node) ([]nodes.Statement, error) {
	one := func(stmt nodes.Statement, err error) ([]nodes.Statement, error) {
		if err != nil {
			return nil, err
		}
		return []nodes.Statement{stmt}, nil
	}

	switch node.Kind() {
	case "expression_statement":
		return c.convertExpressionStatement(node)
	case "function_definition":
		return one(c.convertFuncDef(node, nil, 0))
	case "decorated_definition":
		return one(c.convertDecorated(node))
	case "class_definition":
		return one(c.convertClassDef(node, nil, 0))
	case "if_statement":
		return one(c.convertIf(node))
	case "for_statement":
		return one(c.convertFor(node))
	case "while_statement":
		return one(c.convertWhile(node))
	case "with_statement":
		return one(c.convertWith(node))
	case "try_statement":
		return one(c.convertTry(node))
	case "return_statement":
		return one(c.convertReturn(node))
	case "delete_statement":
		return one(c.convertDelete(node))
	case "raise_statement":
		return one(c.convertRaise(node))
	case "assert_statement":
		return one(c.convertAssert(node))
	case "pass_statement":
		return one(annotate(nodes.NewPassStmt(), node), nil)
	case "break_statement":
		return one(annotate(nodes.NewBreakStmt(), node), nil)
	case "continue_statement":
		return one(annotate(nodes.NewContinueStmt(), node), nil)
	case "import_statement":
		return one(c.convertImport(node))
	case "import_from_statement":
		return one(c.convertImportFrom(node))
	case "future_import_statement":
		return one(c.convertFutureImport(node))
	case "global_statement":
		return one(annotate(nodes.NewGlobalDecl(c.identifierNames(node)), node), nil)
	case "nonlocal_statement":
		return one(annotate(nodes.NewNonlocalDecl(c.identifierNames(node)), node), nil)
	case "match_statement":
		return nil, convertErrorf(node, "match statements are not supported")
	default:
		return nil, convertErrorf(node, "unrecognized statement kind %q", node.Kind())
	}
}

func (c *converter) identifierNames(node *sitter.Node) []string {
	var names []string
	for _, child := range namedChildren(node) {
		names = append(names, c.sliceContent(child))
	}
	return names
}

func (c *converter) convertExpressionStatement(node *sitter.Node) ([]nodes.Statement, error) {
	var stmts []nodes.Statement
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "assignment":
			stmt, err := c.convertAssignment(child)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		case "augmented_assignment":
			stmt, err := c.convertAugmentedAssignment(child)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		default:
			expr, err := c.convertExpression(child)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, annotate(nodes.NewExpressionStmt(expr), child))
		}
	}
	return stmts, nil
}

// convertAssignment flattens `a = b = rvalue` chains into one statement with
// one target per lvalue, and picks up a declared type from an inline
// annotation or a trailing type comment.
func (c *converter) convertAssignment(node *sitter.Node) (nodes.Statement, error) {
	var targets []nodes.Expression
	current := node
	for {
		left := current.ChildByFieldName("left")
		target, err := c.convertExpression(left)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		right := current.ChildByFieldName("right")
		if right != nil && right.Kind() == "assignment" && right.ChildByFieldName("type") == nil {
			current = right
			continue
		}
		var rvalue nodes.Expression
		if right != nil {
			rvalue, err = c.convertExpression(right)
			if err != nil {
				return nil, err
			}
		}
		declared, err := c.assignmentType(node, current.ChildByFieldName("type"))
		if err != nil {
			return nil, err
		}
		return annotate(nodes.NewAssignmentStmt(targets, rvalue, declared), node), nil
	}
}

// assignmentType resolves the declared type of an assignment: the inline
// annotation when present, otherwise a trailing `# type:` comment on the
// statement's last line.
func (c *converter) assignmentType(stmt, annotation *sitter.Node) (types.Type, error) {
	lineno := lineFor(stmt)
	if annotation != nil {
		return c.convertTypeAnnotation(annotation, lineno)
	}
	if tc, ok := c.trailingTypeComment(endLineFor(stmt), stmt.EndByte()); ok {
		return c.parseTypeString(tc.text, lineno, tc.line)
	}
	return nil, nil
}

func (c *converter) convertAugmentedAssignment(node *sitter.Node) (nodes.Statement, error) {
	op, err := c.augmentedOp(node.ChildByFieldName("operator"))
	if err != nil {
		return nil, err
	}
	lvalue, err := c.convertExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	rvalue, err := c.convertExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewOperatorAssignmentStmt(op, lvalue, rvalue), node), nil
}

func (c *converter) convertReturn(node *sitter.Node) (nodes.Statement, error) {
	var expr nodes.Expression
	if value := firstNamedChild(node); value != nil {
		var err error
		expr, err = c.convertExpression(value)
		if err != nil {
			return nil, err
		}
	}
	return annotate(nodes.NewReturnStmt(expr), node), nil
}

func (c *converter) convertDelete(node *sitter.Node) (nodes.Statement, error) {
	expr, err := c.convertExpression(firstNamedChild(node))
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewDelStmt(expr), node), nil
}

func (c *converter) convertRaise(node *sitter.Node) (nodes.Statement, error) {
	cause := node.ChildByFieldName("cause")
	var expr, fromExpr nodes.Expression
	var err error
	if value := firstNamedChild(node); value != nil {
		expr, err = c.convertExpression(value)
		if err != nil {
			return nil, err
		}
	}
	if cause != nil {
		fromExpr, err = c.convertExpression(cause)
		if err != nil {
			return nil, err
		}
	}
	return annotate(nodes.NewRaiseStmt(expr, fromExpr), node), nil
}

// convertAssert keeps the condition and drops the failure message.
func (c *converter) convertAssert(node *sitter.Node) (nodes.Statement, error) {
	expr, err := c.convertExpression(firstNamedChild(node))
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewAssertStmt(expr), node), nil
}

func (c *converter) convertIf(node *sitter.Node) (nodes.Statement, error) {
	lineno := lineFor(node)
	cond, err := c.convertExpression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	body, err := c.convertBody(node.ChildByFieldName("consequence"), lineno)
	if err != nil {
		return nil, err
	}

	// elif chains nest right to left. An else branch's block carries the
	// line of the if or elif that owns it.
	var elseBody *nodes.Block
	alternatives := alternativeClauses(node)
	ownerLine := func(i int) int {
		if i > 0 {
			return lineFor(alternatives[i-1])
		}
		return lineno
	}
	for i := len(alternatives) - 1; i >= 0; i-- {
		alt := alternatives[i]
		switch alt.Kind() {
		case "else_clause":
			elseBody, err = c.convertBody(alt.ChildByFieldName("body"), ownerLine(i))
			if err != nil {
				return nil, err
			}
		case "elif_clause":
			elifLine := lineFor(alt)
			elifCond, err := c.convertExpression(alt.ChildByFieldName("condition"))
			if err != nil {
				return nil, err
			}
			elifBody, err := c.convertBody(alt.ChildByFieldName("consequence"), elifLine)
			if err != nil {
				return nil, err
			}
			nested := nodes.NewIfStmt(elifCond, elifBody, elseBody)
			nested.SetLine(elifLine)
			elseBody = asBlock([]nodes.Statement{nested}, ownerLine(i))
		default:
			return nil, convertErrorf(alt, "unrecognized if alternative %q", alt.Kind())
		}
	}
	return annotate(nodes.NewIfStmt(cond, body, elseBody), node), nil
}

// alternativeClauses collects the elif/else clauses of an if statement in
// source order.
func alternativeClauses(node *sitter.Node) []*sitter.Node {
	var clauses []*sitter.Node
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "elif_clause", "else_clause":
			clauses = append(clauses, child)
		}
	}
	return clauses
}

func (c *converter) convertFor(node *sitter.Node) (nodes.Statement, error) {
	if hasAnonymousChild(node, "async") {
		return nil, convertErrorf(node, "async for is not supported")
	}
	lineno := lineFor(node)
	index, err := c.convertExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	expr, err := c.convertExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	body, err := c.convertBody(node.ChildByFieldName("body"), lineno)
	if err != nil {
		return nil, err
	}
	elseBody, err := c.convertElseClause(node, lineno)
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewForStmt(index, expr, body, elseBody), node), nil
}

func (c *converter) convertWhile(node *sitter.Node) (nodes.Statement, error) {
	lineno := lineFor(node)
	cond, err := c.convertExpression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	body, err := c.convertBody(node.ChildByFieldName("body"), lineno)
	if err != nil {
		return nil, err
	}
	elseBody, err := c.convertElseClause(node, lineno)
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewWhileStmt(cond, body, elseBody), node), nil
}

func (c *converter) convertElseClause(node *sitter.Node, lineno int) (*nodes.Block, error) {
	alt := node.ChildByFieldName("alternative")
	if alt == nil {
		return nil, nil
	}
	return c.convertBody(alt.ChildByFieldName("body"), lineno)
}

func (c *converter) convertWith(node *sitter.Node) (nodes.Statement, error) {
	if hasAnonymousChild(node, "async") {
		return nil, convertErrorf(node, "async with is not supported")
	}
	lineno := lineFor(node)
	var exprs, targets []nodes.Expression
	clause := firstNamedChild(node)
	if clause == nil || clause.Kind() != "with_clause" {
		return nil, convertErrorf(node, "with statement missing clause")
	}
	for _, item := range namedChildren(clause) {
		if item.Kind() != "with_item" {
			return nil, convertErrorf(item, "unrecognized with item %q", item.Kind())
		}
		value := item.ChildByFieldName("value")
		expr := value
		var target *sitter.Node
		if value != nil && value.Kind() == "as_pattern" {
			expr = value.ChildByFieldName("value")
			if alias := value.ChildByFieldName("alias"); alias != nil {
				target = firstNamedChild(alias)
				if target == nil {
					target = alias
				}
			}
		}
		converted, err := c.convertExpression(expr)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, converted)
		var convertedTarget nodes.Expression
		if target != nil {
			convertedTarget, err = c.convertExpression(target)
			if err != nil {
				return nil, err
			}
		}
		targets = append(targets, convertedTarget)
	}
	body, err := c.convertBody(node.ChildByFieldName("body"), lineno)
	if err != nil {
		return nil, err
	}
	return annotate(nodes.NewWithStmt(exprs, targets, body), node), nil
}

// convertTry produces parallel per-handler slices; handler blocks carry the
// except clause's line, else/finally blocks carry the try's line. Handler
// binding names stay line-less.
func (c *converter) convertTry(node *sitter.Node) (nodes.Statement, error) {
	lineno := lineFor(node)
	body, err := c.convertBody(node.ChildByFieldName("body"), lineno)
	if err != nil {
		return nil, err
	}
	var (
		vars        []*nodes.NameExpr
		exceptTypes []nodes.Expression
		handlers    []*nodes.Block
		elseBody    *nodes.Block
		finallyBody *nodes.Block
	)
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "except_clause":
			v, typ, handler, err := c.convertExceptClause(child)
			if err != nil {
				return nil, err
			}
			vars = append(vars, v)
			exceptTypes = append(exceptTypes, typ)
			handlers = append(handlers, handler)
		case "except_group_clause":
			return nil, convertErrorf(child, "except* clauses are not supported")
		case "else_clause":
			elseBody, err = c.convertBody(child.ChildByFieldName("body"), lineno)
			if err != nil {
				return nil, err
			}
		case "finally_clause":
			block := findChildOfKind(child, "block")
			finallyBody, err = c.convertBody(block, lineno)
			if err != nil {
				return nil, err
			}
		}
	}
	return annotate(nodes.NewTryStmt(body, vars, exceptTypes, handlers, elseBody, finallyBody), node), nil
}

func (c *converter) convertExceptClause(node *sitter.Node) (*nodes.NameExpr, nodes.Expression, *nodes.Block, error) {
	var v *nodes.NameExpr
	var typ nodes.Expression
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "block":
			handler, err := c.convertBody(child, lineFor(node))
			if err != nil {
				return nil, nil, nil, err
			}
			return v, typ, handler, nil
		case "as_pattern":
			value := child.ChildByFieldName("value")
			converted, err := c.convertExpression(value)
			if err != nil {
				return nil, nil, nil, err
			}
			typ = converted
			if alias := child.ChildByFieldName("alias"); alias != nil {
				name := firstNamedChild(alias)
				if name == nil {
					name = alias
				}
				v = nodes.NewNameExpr(c.sliceContent(name))
			}
		default:
			converted, err := c.convertExpression(child)
			if err != nil {
				return nil, nil, nil, err
			}
			typ = converted
		}
	}
	return nil, nil, nil, convertErrorf(node, "except clause missing body")
}

func findChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func (c *converter) convertImport(node *sitter.Node) (nodes.Statement, error) {
	var names []nodes.ImportedName
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, nodes.ImportedName{Name: c.sliceContent(child)})
		case "aliased_import":
			names = append(names, nodes.ImportedName{
				Name: c.sliceContent(child.ChildByFieldName("name")),
				As:   c.sliceContent(child.ChildByFieldName("alias")),
			})
		default:
			return nil, convertErrorf(child, "unrecognized import name %q", child.Kind())
		}
	}
	stmt := annotate(nodes.NewImport(names), node)
	c.imports = append(c.imports, stmt)
	return stmt, nil
}

func (c *converter) convertImportFrom(node *sitter.Node) (nodes.Statement, error) {
	module, relative, err := c.importOrigin(node.ChildByFieldName("module_name"))
	if err != nil {
		return nil, err
	}
	if findChildOfKind(node, "wildcard_import") != nil {
		stmt := annotate(nodes.NewImportAll(module, relative), node)
		c.imports = append(c.imports, stmt)
		return stmt, nil
	}
	var names []nodes.ImportedName
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || node.FieldNameForChild(uint32(i)) != "name" {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, nodes.ImportedName{Name: c.sliceContent(child)})
		case "aliased_import":
			names = append(names, nodes.ImportedName{
				Name: c.sliceContent(child.ChildByFieldName("name")),
				As:   c.sliceContent(child.ChildByFieldName("alias")),
			})
		default:
			return nil, convertErrorf(child, "unrecognized import name %q", child.Kind())
		}
	}
	stmt := annotate(nodes.NewImportFrom(module, relative, names), node)
	c.imports = append(c.imports, stmt)
	return stmt, nil
}

// importOrigin splits the module reference of a from-import into the dotted
// module name and the count of leading relative-import dots.
func (c *converter) importOrigin(node *sitter.Node) (string, int, error) {
	if node == nil {
		return "", 0, nil
	}
	switch node.Kind() {
	case "dotted_name", "identifier":
		return c.sliceContent(node), 0, nil
	case "relative_import":
		relative := 0
		module := ""
		for _, child := range namedChildren(node) {
			switch child.Kind() {
			case "import_prefix":
				relative = len(c.sliceContent(child))
			case "dotted_name", "identifier":
				module = c.sliceContent(child)
			}
		}
		return module, relative, nil
	}
	return "", 0, convertErrorf(node, "unrecognized import origin %q", node.Kind())
}

func (c *converter) convertFutureImport(node *sitter.Node) (nodes.Statement, error) {
	var names []nodes.ImportedName
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, nodes.ImportedName{Name: c.sliceContent(child)})
		case "aliased_import":
			names = append(names, nodes.ImportedName{
				Name: c.sliceContent(child.ChildByFieldName("name")),
				As:   c.sliceContent(child.ChildByFieldName("alias")),
			})
		}
	}
	stmt := annotate(nodes.NewImportFrom("__future__", 0, names), node)
	c.imports = append(c.imports, stmt)
	return stmt, nil
}
