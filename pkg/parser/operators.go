package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Operator token sets. Matrix multiplication has no checker representation
// and is rejected outright.

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "//": true, "%": true,
	"**": true, "<<": true, ">>": true, "|": true, "&": true, "^": true,
}

var unaryOps = map[string]bool{
	"-": true, "+": true, "~": true,
}

var comparisonOps = map[string]bool{
	"<": true, "<=": true, "==": true, "!=": true, ">=": true, ">": true,
	"in": true, "not in": true, "is": true, "is not": true,
}

func (c *converter) binaryOp(node *sitter.Node) (string, error) {
	op := c.sliceContent(node)
	if op == "@" {
		return "", convertErrorf(node, "matrix multiplication is not supported")
	}
	if !binaryOps[op] {
		return "", convertErrorf(node, "unknown binary operator %q", op)
	}
	return op, nil
}

func (c *converter) unaryOp(node *sitter.Node) (string, error) {
	op := c.sliceContent(node)
	if !unaryOps[op] {
		return "", convertErrorf(node, "unknown unary operator %q", op)
	}
	return op, nil
}

// augmentedOp maps an augmented-assignment token like "+=" to the bare
// operator.
func (c *converter) augmentedOp(node *sitter.Node) (string, error) {
	token := c.sliceContent(node)
	op := strings.TrimSuffix(token, "=")
	if op == token {
		return "", convertErrorf(node, "unknown augmented assignment operator %q", token)
	}
	if op == "@" {
		return "", convertErrorf(node, "matrix multiplication is not supported")
	}
	if !binaryOps[op] {
		return "", convertErrorf(node, "unknown augmented assignment operator %q", token)
	}
	return op, nil
}

// comparisonOperators extracts the operator tokens of a comparison chain,
// joining the two-token forms `not in` and `is not`.
func (c *converter) comparisonOperators(node *sitter.Node) ([]string, error) {
	var raw []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		raw = append(raw, child.Kind())
	}
	var ops []string
	for i := 0; i < len(raw); i++ {
		op := raw[i]
		if op == "not" && i+1 < len(raw) && raw[i+1] == "in" {
			op = "not in"
			i++
		} else if op == "is" && i+1 < len(raw) && raw[i+1] == "not" {
			op = "is not"
			i++
		}
		if !comparisonOps[op] {
			return nil, convertErrorf(node, "unknown comparison operator %q", op)
		}
		ops = append(ops, op)
	}
	return ops, nil
}
