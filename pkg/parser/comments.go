package parser

import (
	"regexp"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeComment is a trailing `# type: ...` comment, keyed by the 1-based line
// it sits on.
type typeComment struct {
	text      string
	line      int
	startByte uint
}

var (
	typeCommentRe   = regexp.MustCompile(`^#\s*type:\s*(.*\S)\s*$`)
	ignoreCommentRe = regexp.MustCompile(`^#\s*type:\s*ignore\b`)
)

// collectComments walks the whole tree once, recording ignore lines and the
// type comment (if any) on each line. The first type comment on a line wins.
func (c *converter) collectComments(root *sitter.Node) {
	walkNodes(root, func(node *sitter.Node) {
		if node == nil || node.Kind() != "comment" {
			return
		}
		text := c.sliceContent(node)
		line := lineFor(node)
		if ignoreCommentRe.MatchString(text) {
			c.ignoredLines[line] = struct{}{}
			return
		}
		m := typeCommentRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		if _, seen := c.typeComments[line]; seen {
			return
		}
		c.typeComments[line] = typeComment{text: m[1], line: line, startByte: node.StartByte()}
	})
}

// trailingTypeComment returns the type comment sitting on the given line
// after the given byte offset, or "".
func (c *converter) trailingTypeComment(line int, afterByte uint) (typeComment, bool) {
	tc, ok := c.typeComments[line]
	if !ok || tc.startByte < afterByte {
		return typeComment{}, false
	}
	return tc, true
}

func (c *converter) sortedIgnoredLines() []int {
	if len(c.ignoredLines) == 0 {
		return nil
	}
	lines := make([]int, 0, len(c.ignoredLines))
	for line := range c.ignoredLines {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// splitFuncTypeComment splits `(T1, T2) -> R` at the top-level arrow and
// returns the argument type strings and the return type string. The second
// result is false when the comment does not have the signature shape.
func splitFuncTypeComment(text string) (args []string, ret string, ok bool) {
	arrow := topLevelIndex(text, "->")
	if arrow < 0 {
		return nil, "", false
	}
	left := strings.TrimSpace(text[:arrow])
	ret = strings.TrimSpace(text[arrow+2:])
	if ret == "" || !strings.HasPrefix(left, "(") || !strings.HasSuffix(left, ")") {
		return nil, "", false
	}
	inner := strings.TrimSpace(left[1 : len(left)-1])
	if inner == "" {
		return nil, ret, true
	}
	for _, part := range splitTopLevel(inner, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, "", false
		}
		args = append(args, part)
	}
	return args, ret, true
}

// topLevelIndex finds the first occurrence of sep outside brackets and
// string quotes, or -1.
func topLevelIndex(s, sep string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				return i
			}
		}
	}
	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && ch == sep {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
