package parser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pycheck/frontend-go/pkg/nodes"
)

func (c *converter) convertInteger(node *sitter.Node) (nodes.Expression, error) {
	text := strings.ReplaceAll(c.sliceContent(node), "_", "")
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return c.convertImaginary(node, text[:len(text)-1])
	}
	value, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, convertErrorf(node, "invalid integer literal %q", text)
	}
	return annotate(nodes.NewIntExpr(value), node), nil
}

func (c *converter) convertFloat(node *sitter.Node) (nodes.Expression, error) {
	text := strings.ReplaceAll(c.sliceContent(node), "_", "")
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return c.convertImaginary(node, text[:len(text)-1])
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, convertErrorf(node, "invalid float literal %q", text)
	}
	return annotate(nodes.NewFloatExpr(value), node), nil
}

func (c *converter) convertImaginary(node *sitter.Node, text string) (nodes.Expression, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, convertErrorf(node, "invalid imaginary literal %q", text)
	}
	return annotate(nodes.NewComplexExpr(complex(0, value)), node), nil
}

func (c *converter) convertString(node *sitter.Node) (nodes.Expression, error) {
	value, isBytes, err := c.stringLiteralValue(node)
	if err != nil {
		return nil, err
	}
	if isBytes {
		return annotate(nodes.NewBytesExpr([]byte(value)), node), nil
	}
	return annotate(nodes.NewStrExpr(value), node), nil
}

// convertConcatenatedString joins adjacent literals; mixing bytes and text
// is rejected.
func (c *converter) convertConcatenatedString(node *sitter.Node) (nodes.Expression, error) {
	var sb strings.Builder
	sawBytes := false
	sawStr := false
	for _, child := range namedChildren(node) {
		if child.Kind() != "string" {
			return nil, convertErrorf(child, "unrecognized string part %q", child.Kind())
		}
		value, isBytes, err := c.stringLiteralValue(child)
		if err != nil {
			return nil, err
		}
		if isBytes {
			sawBytes = true
		} else {
			sawStr = true
		}
		sb.WriteString(value)
	}
	if sawBytes && sawStr {
		return nil, convertErrorf(node, "cannot mix bytes and string literals")
	}
	if sawBytes {
		return annotate(nodes.NewBytesExpr([]byte(sb.String())), node), nil
	}
	return annotate(nodes.NewStrExpr(sb.String()), node), nil
}

// stringLiteralValue decodes one string literal node: prefix handling from
// the opening quote token, escape decoding unless the literal is raw.
// Interpolated (f-string) literals are rejected.
func (c *converter) stringLiteralValue(node *sitter.Node) (string, bool, error) {
	isBytes := false
	isRaw := false
	var sb strings.Builder

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_start":
			prefix := strings.TrimRight(c.sliceContent(child), `'"`)
			for _, r := range strings.ToLower(prefix) {
				switch r {
				case 'b':
					isBytes = true
				case 'r':
					isRaw = true
				case 'f':
					return "", false, convertErrorf(node, "formatted string literals are not supported")
				case 'u':
				default:
					return "", false, convertErrorf(node, "unrecognized string prefix %q", prefix)
				}
			}
		case "string_content":
			text := c.sliceContent(child)
			if isRaw {
				sb.WriteString(text)
				continue
			}
			decoded, err := decodeEscapes(text, isBytes)
			if err != nil {
				return "", false, convertErrorf(child, "%s", err.Error())
			}
			sb.WriteString(decoded)
		case "interpolation":
			return "", false, convertErrorf(child, "formatted string literals are not supported")
		case "string_end":
		}
	}
	return sb.String(), isBytes, nil
}

// decodeEscapes decodes backslash escapes the way the source language does:
// unknown escapes keep their backslash.
func decodeEscapes(s string, isBytes bool) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case '\n':
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			value := 0
			digits := 0
			for digits < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7' {
				value = value*8 + int(s[i]-'0')
				i++
				digits++
			}
			i--
			if isBytes {
				sb.WriteByte(byte(value))
			} else {
				sb.WriteRune(rune(value))
			}
		case 'x':
			value, n, err := hexEscape(s[i+1:], 2)
			if err != nil {
				return "", err
			}
			i += n
			if isBytes {
				sb.WriteByte(byte(value))
			} else {
				sb.WriteRune(rune(value))
			}
		case 'N':
			// no unicode name table to resolve against
			if isBytes {
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
				continue
			}
			return "", fmt.Errorf("named escape sequences are not supported")
		case 'u', 'U':
			if isBytes {
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
				continue
			}
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			value, n, err := hexEscape(s[i+1:], width)
			if err != nil {
				return "", err
			}
			i += n
			sb.WriteRune(rune(value))
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), nil
}

func hexEscape(s string, width int) (int64, int, error) {
	if len(s) < width {
		return 0, 0, fmt.Errorf("truncated escape sequence, expected %d hex digits", width)
	}
	value, err := strconv.ParseInt(s[:width], 16, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid escape sequence %q", s[:width])
	}
	return value, width, nil
}
