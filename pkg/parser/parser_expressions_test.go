package parser

import (
	"errors"
	"math/big"
	"testing"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/types"
)

func expectExpr(t testing.TB, source string, expected nodes.Expression) {
	t.Helper()
	file := parseSource(t, source)
	got := singleExpr(t, file)
	assertModulesEqual(t, expected, got)
}

func TestParseLiterals(t *testing.T) {
	expectExpr(t, "1_000\n", nodes.At(nodes.Int(1000), 1))
	expectExpr(t, "3.5\n", nodes.At(nodes.Flt(3.5), 1))
	expectExpr(t, "2j\n", nodes.At(nodes.NewComplexExpr(complex(0, 2)), 1))
	expectExpr(t, "'hi'\n", nodes.At(nodes.Str("hi"), 1))
	expectExpr(t, "...\n", nodes.At(nodes.NewEllipsisExpr(), 1))

	big10 := new(big.Int)
	big10.SetString("123456789012345678901234567890", 10)
	expectExpr(t, "123456789012345678901234567890\n", nodes.At(nodes.NewIntExpr(big10), 1))

	// True/False/None become plain names without a position
	expectExpr(t, "True\n", nodes.Name("True"))
	expectExpr(t, "None\n", nodes.Name("None"))
}

func TestParseStringVariants(t *testing.T) {
	expectExpr(t, `"a" 'b'`+"\n", nodes.At(nodes.Str("ab"), 1))
	expectExpr(t, `r"\n"`+"\n", nodes.At(nodes.Str(`\n`), 1))
	expectExpr(t, `"\x41\n"`+"\n", nodes.At(nodes.Str("A\n"), 1))
	expectExpr(t, `"\q"`+"\n", nodes.At(nodes.Str(`\q`), 1))
	expectExpr(t, `b"\x41"`+"\n", nodes.At(nodes.NewBytesExpr([]byte("A")), 1))

	// hex and octal escapes past 0x7F decode to the code point in text
	// literals and to the raw byte in bytes literals
	expectExpr(t, `"\xe9"`+"\n", nodes.At(nodes.Str("é"), 1))
	expectExpr(t, `"\351"`+"\n", nodes.At(nodes.Str("é"), 1))
	expectExpr(t, `b"\xe9"`+"\n", nodes.At(nodes.NewBytesExpr([]byte{0xe9}), 1))
}

func TestNamedEscapes(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseModule([]byte(`x = "\N{BULLET}"`+"\n"), "main.py", nil)
	var convertErr *ConvertError
	if !errors.As(err, &convertErr) {
		t.Fatalf("expected ConvertError, got %v", err)
	}

	// in bytes literals \N is just an unknown escape
	expectExpr(t, `b"\N{X}"`+"\n", nodes.At(nodes.NewBytesExpr([]byte(`\N{X}`)), 1))
}

func TestMixedConcatenationRejected(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseModule([]byte("b'a' 'b'\n"), "main.py", nil)
	var convertErr *ConvertError
	if !errors.As(err, &convertErr) {
		t.Fatalf("expected ConvertError, got %v", err)
	}
}

func TestParseOperators(t *testing.T) {
	expectExpr(t, "a + b\n",
		nodes.At(nodes.Op("+", nodes.At(nodes.Name("a"), 1), nodes.At(nodes.Name("b"), 1)), 1))
	expectExpr(t, "a ** b\n",
		nodes.At(nodes.Op("**", nodes.At(nodes.Name("a"), 1), nodes.At(nodes.Name("b"), 1)), 1))
	expectExpr(t, "-x\n", nodes.At(nodes.Unary("-", nodes.At(nodes.Name("x"), 1)), 1))
	expectExpr(t, "not x\n", nodes.At(nodes.Unary("not", nodes.At(nodes.Name("x"), 1)), 1))
}

func TestBooleanChainRefoldsRight(t *testing.T) {
	// the source parses left associated; the tree regroups it to the right
	// with only the outermost node positioned
	expectExpr(t, "a and b and c\n",
		nodes.At(nodes.Op("and",
			nodes.At(nodes.Name("a"), 1),
			nodes.Op("and", nodes.At(nodes.Name("b"), 1), nodes.At(nodes.Name("c"), 1)),
		), 1))
}

func TestComparisonChains(t *testing.T) {
	expectExpr(t, "a < b <= c\n",
		nodes.At(nodes.NewComparisonExpr(
			[]string{"<", "<="},
			[]nodes.Expression{nodes.At(nodes.Name("a"), 1), nodes.At(nodes.Name("b"), 1), nodes.At(nodes.Name("c"), 1)},
		), 1))
	expectExpr(t, "x not in y\n",
		nodes.At(nodes.NewComparisonExpr(
			[]string{"not in"},
			[]nodes.Expression{nodes.At(nodes.Name("x"), 1), nodes.At(nodes.Name("y"), 1)},
		), 1))
	expectExpr(t, "x is not y\n",
		nodes.At(nodes.NewComparisonExpr(
			[]string{"is not"},
			[]nodes.Expression{nodes.At(nodes.Name("x"), 1), nodes.At(nodes.Name("y"), 1)},
		), 1))
}

func TestCallArgumentFlattening(t *testing.T) {
	file := parseSource(t, "f(1, *a, x=2, **k)\n")
	call, ok := singleExpr(t, file).(*nodes.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %s", describe(singleExpr(t, file)))
	}

	expected := nodes.NewCallExpr(
		nodes.At(nodes.Name("f"), 1),
		[]nodes.Expression{
			nodes.At(nodes.Int(1), 1),
			nodes.At(nodes.Name("a"), 1),
			nodes.At(nodes.Int(2), 1),
			nodes.At(nodes.Name("k"), 1),
		},
		[]types.ArgKind{types.ArgPos, types.ArgStar, types.ArgNamed, types.ArgStar2},
		[]string{"", "", "x", ""},
	)
	assertModulesEqual(t, nodes.At(expected, 1), call)
}

func TestSuperMemberAccess(t *testing.T) {
	file := parseSource(t, "super().m()\n")
	call, ok := singleExpr(t, file).(*nodes.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %s", describe(singleExpr(t, file)))
	}
	sup, ok := call.Callee.(*nodes.SuperExpr)
	if !ok || sup.Name != "m" {
		t.Fatalf("expected SuperExpr m, got %s", describe(call.Callee))
	}
}

func TestSubscriptShapes(t *testing.T) {
	// plain index collapses into the index slot
	expectExpr(t, "m[k]\n",
		nodes.At(nodes.Index(nodes.At(nodes.Name("m"), 1), nodes.At(nodes.Name("k"), 1)), 1))

	// a lone slice stays line-less
	expectExpr(t, "m[1:2]\n",
		nodes.At(nodes.Index(
			nodes.At(nodes.Name("m"), 1),
			nodes.NewSliceExpr(nodes.At(nodes.Int(1), 1), nodes.At(nodes.Int(2), 1), nil),
		), 1))

	// multiple plain items become a positioned tuple
	expectExpr(t, "m[a, b]\n",
		nodes.At(nodes.Index(
			nodes.At(nodes.Name("m"), 1),
			nodes.At(nodes.Tuple(nodes.At(nodes.Name("a"), 1), nodes.At(nodes.Name("b"), 1)), 1),
		), 1))

	// a slice among multiple items keeps the tuple line-less
	expectExpr(t, "m[a, 1:]\n",
		nodes.At(nodes.Index(
			nodes.At(nodes.Name("m"), 1),
			nodes.Tuple(
				nodes.At(nodes.Name("a"), 1),
				nodes.NewSliceExpr(nodes.At(nodes.Int(1), 1), nil, nil),
			),
		), 1))
}

func TestConditionalExpression(t *testing.T) {
	expectExpr(t, "a if c else b\n",
		nodes.At(nodes.NewConditionalExpr(
			nodes.At(nodes.Name("c"), 1),
			nodes.At(nodes.Name("a"), 1),
			nodes.At(nodes.Name("b"), 1),
		), 1))
}

func TestLambdaBodyIsReturnBlock(t *testing.T) {
	expectExpr(t, "lambda x: x\n",
		nodes.At(nodes.NewLambdaExpr(
			[]*nodes.Argument{nodes.PosArg("x")},
			nodes.BlockAt(1, nodes.At(nodes.Ret(nodes.At(nodes.Name("x"), 1)), 1)),
		), 1))
}

func TestParseCollections(t *testing.T) {
	expectExpr(t, "(1, 2)\n",
		nodes.At(nodes.Tuple(nodes.At(nodes.Int(1), 1), nodes.At(nodes.Int(2), 1)), 1))
	expectExpr(t, "{1, 2}\n",
		nodes.At(nodes.Set(nodes.At(nodes.Int(1), 1), nodes.At(nodes.Int(2), 1)), 1))
	expectExpr(t, `{1: "a", **rest}`+"\n",
		nodes.At(nodes.NewDictExpr(
			[]nodes.Expression{nodes.At(nodes.Int(1), 1), nil},
			[]nodes.Expression{nodes.At(nodes.Str("a"), 1), nodes.At(nodes.Name("rest"), 1)},
		), 1))
}

func TestStarTargetAssignment(t *testing.T) {
	file := parseSource(t, "a, *b = xs\n")
	stmt, ok := file.Defs[0].(*nodes.AssignmentStmt)
	if !ok {
		t.Fatalf("expected AssignmentStmt, got %s", describe(file.Defs[0]))
	}
	tup, ok := stmt.Targets[0].(*nodes.TupleExpr)
	if !ok || len(tup.Items) != 2 {
		t.Fatalf("expected 2-item tuple target, got %s", describe(stmt.Targets[0]))
	}
	if _, ok := tup.Items[1].(*nodes.StarExpr); !ok {
		t.Fatalf("expected star target, got %s", describe(tup.Items[1]))
	}
}

func TestListComprehension(t *testing.T) {
	gen := nodes.At(nodes.NewGeneratorExpr(
		nodes.At(nodes.Name("x"), 1),
		[]nodes.Expression{nodes.At(nodes.Name("y"), 1)},
		[]nodes.Expression{nodes.At(nodes.Name("z"), 1)},
		[][]nodes.Expression{{nodes.At(nodes.Name("c"), 1)}},
	), 1)
	expectExpr(t, "[x for y in z if c]\n", nodes.At(nodes.NewListComprehension(gen), 1))
}

func TestDictComprehension(t *testing.T) {
	expectExpr(t, "{k: v for k in s}\n",
		nodes.At(nodes.NewDictionaryComprehension(
			nodes.At(nodes.Name("k"), 1),
			nodes.At(nodes.Name("v"), 1),
			[]nodes.Expression{nodes.At(nodes.Name("k"), 1)},
			[]nodes.Expression{nodes.At(nodes.Name("s"), 1)},
			[][]nodes.Expression{{}},
		), 1))
}

func TestYieldForms(t *testing.T) {
	file := parseSource(t, "def g():\n    yield 1\n    yield from xs\n")
	fn, ok := file.Defs[0].(*nodes.FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %s", describe(file.Defs[0]))
	}
	first, ok := fn.Body.Body[0].(*nodes.ExpressionStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %s", describe(fn.Body.Body[0]))
	}
	if _, ok := first.Expr.(*nodes.YieldExpr); !ok {
		t.Fatalf("expected YieldExpr, got %s", describe(first.Expr))
	}
	second := fn.Body.Body[1].(*nodes.ExpressionStmt)
	if _, ok := second.Expr.(*nodes.YieldFromExpr); !ok {
		t.Fatalf("expected YieldFromExpr, got %s", describe(second.Expr))
	}
}

func TestUnsupportedExpressions(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"matrix multiply", "a @ b\n"},
		{"matrix multiply assign", "a @= b\n"},
		{"await", "async def f():\n    await g()\n"},
		{"walrus", "if (n := 1):\n    pass\n"},
		{"fstring", "f'{x}'\n"},
		{"async comprehension", "async def f():\n    return [x async for x in xs]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestParser(t)
			_, err := p.ParseModule([]byte(tc.source), "main.py", &recordingSink{})
			var convertErr *ConvertError
			if !errors.As(err, &convertErr) {
				t.Fatalf("expected ConvertError, got %v", err)
			}
		})
	}
}
