package parser

import (
	"errors"
	"testing"

	"pycheck/frontend-go/pkg/nodes"
	"pycheck/frontend-go/pkg/types"
)

func funcDefOf(t testing.TB, stmt nodes.Statement) *nodes.FuncDef {
	t.Helper()
	fn, ok := stmt.(*nodes.FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %s", describe(stmt))
	}
	return fn
}

func TestAnnotatedSignature(t *testing.T) {
	file := parseSource(t, `def f(x: int, *args, y: str = "a", **kw) -> bool:
    return y
`)

	fnType := types.NewCallableType(
		[]types.Type{
			types.NewUnboundType("int", nil, 1),
			types.NewAnyType(),
			types.NewUnboundType("str", nil, 1),
			types.NewAnyType(),
		},
		[]types.ArgKind{types.ArgPos, types.ArgStar, types.ArgNamed, types.ArgStar2},
		[]string{"x", "args", "y", "kw"},
		types.NewUnboundType("bool", nil, 1),
		0)
	fn := nodes.NewFuncDef("f",
		[]*nodes.Argument{
			nodes.NewArgument(nodes.NewVar("x"), types.NewUnboundType("int", nil, 1), nil, types.ArgPos),
			nodes.NewArgument(nodes.NewVar("args"), nil, nil, types.ArgStar),
			nodes.NewArgument(nodes.NewVar("y"), types.NewUnboundType("str", nil, 1), nodes.At(nodes.Str("a"), 1), types.ArgNamed),
			nodes.NewArgument(nodes.NewVar("kw"), nil, nil, types.ArgStar2),
		},
		nodes.BlockAt(1, nodes.At(nodes.Ret(nodes.At(nodes.Name("y"), 2)), 2)),
		fnType)
	fn.SetLine(1)
	fnType.Definition = fn

	assertModulesEqual(t, expectModule(fn), file)
}

func TestSignatureCommentInClassGetsImplicitSelf(t *testing.T) {
	file := parseSource(t, `class C:
    def m(self, x):  # type: (int) -> str
        pass
`)

	cdef, ok := file.Defs[0].(*nodes.ClassDef)
	if !ok {
		t.Fatalf("expected ClassDef, got %s", describe(file.Defs[0]))
	}
	fn := funcDefOf(t, cdef.Defs.Body[0])
	if fn.Type == nil {
		t.Fatal("expected a signature from the comment")
	}
	if len(fn.Type.ArgTypes) != 2 {
		t.Fatalf("expected 2 argument types, got %d", len(fn.Type.ArgTypes))
	}
	if _, ok := fn.Type.ArgTypes[0].(*types.AnyType); !ok {
		t.Fatalf("expected implicit Any for self, got %s", describe(fn.Type.ArgTypes[0]))
	}
	arg, ok := fn.Type.ArgTypes[1].(*types.UnboundType)
	if !ok || arg.Name != "int" || arg.Line() != 2 {
		t.Fatalf("unexpected argument type: %s", describe(fn.Type.ArgTypes[1]))
	}
	ret, ok := fn.Type.RetType.(*types.UnboundType)
	if !ok || ret.Name != "str" {
		t.Fatalf("unexpected return type: %s", describe(fn.Type.RetType))
	}
	if fn.Type.Definition != fn {
		t.Fatal("expected the signature to point back at its definition")
	}
}

func TestSignatureCommentOnMultilineParameters(t *testing.T) {
	file := parseSource(t, `def f(x,
      y):  # type: (int, str) -> None
    pass
`)

	fn := funcDefOf(t, file.Defs[0])
	if fn.Type == nil {
		t.Fatal("expected a signature from the comment")
	}
	first, ok := fn.Type.ArgTypes[0].(*types.UnboundType)
	if !ok || first.Name != "int" || first.Line() != 1 {
		t.Fatalf("unexpected first argument type: %s", describe(fn.Type.ArgTypes[0]))
	}
	ret, ok := fn.Type.RetType.(*types.UnboundType)
	if !ok || ret.Name != "None" || ret.Line() != 0 {
		t.Fatalf("unexpected return type: %s", describe(fn.Type.RetType))
	}
}

func TestForwardReferenceAnnotation(t *testing.T) {
	file := parseSource(t, `def f(x: "List[int]"):
    pass
`)

	fn := funcDefOf(t, file.Defs[0])
	ann, ok := fn.Args[0].TypeAnnotation.(*types.UnboundType)
	if !ok || ann.Name != "List" || ann.Line() != 1 {
		t.Fatalf("unexpected annotation: %s", describe(fn.Args[0].TypeAnnotation))
	}
	item, ok := ann.Args[0].(*types.UnboundType)
	if !ok || item.Name != "int" || item.Line() != 1 {
		t.Fatalf("unexpected type argument: %s", describe(ann.Args[0]))
	}
}

func TestDottedAndNestedAnnotations(t *testing.T) {
	file := parseSource(t, "x: typing.Callable[[int], a.b.C] = f\n")

	stmt := file.Defs[0].(*nodes.AssignmentStmt)
	callable, ok := stmt.Type.(*types.UnboundType)
	if !ok || callable.Name != "typing.Callable" {
		t.Fatalf("unexpected declared type: %s", describe(stmt.Type))
	}
	argList, ok := callable.Args[0].(*types.TypeList)
	if !ok || len(argList.Items) != 1 {
		t.Fatalf("expected a type list, got %s", describe(callable.Args[0]))
	}
	ret, ok := callable.Args[1].(*types.UnboundType)
	if !ok || ret.Name != "a.b.C" {
		t.Fatalf("unexpected callable return: %s", describe(callable.Args[1]))
	}
}

func TestTupleTypeComment(t *testing.T) {
	file := parseSource(t, "p = 1, 2  # type: (int, str)\n")

	stmt := file.Defs[0].(*nodes.AssignmentStmt)
	tup, ok := stmt.Type.(*types.TupleType)
	if !ok {
		t.Fatalf("expected tuple type, got %s", describe(stmt.Type))
	}
	if !tup.Implicit || len(tup.Items) != 2 || tup.Line() != 1 {
		t.Fatalf("unexpected tuple type shape: %s", describe(tup))
	}
}

func TestEllipsisCallableComment(t *testing.T) {
	file := parseSource(t, "c = f  # type: Callable[..., int]\n")

	stmt := file.Defs[0].(*nodes.AssignmentStmt)
	callable, ok := stmt.Type.(*types.UnboundType)
	if !ok || callable.Name != "Callable" {
		t.Fatalf("unexpected declared type: %s", describe(stmt.Type))
	}
	if _, ok := callable.Args[0].(*types.EllipsisType); !ok {
		t.Fatalf("expected ellipsis argument, got %s", describe(callable.Args[0]))
	}
}

func TestSingletonAnnotationsAreLineless(t *testing.T) {
	file := parseSource(t, "def f() -> None:\n    pass\n")

	fn := funcDefOf(t, file.Defs[0])
	ret, ok := fn.Type.RetType.(*types.UnboundType)
	if !ok || ret.Name != "None" || ret.Line() != 0 {
		t.Fatalf("unexpected return type: %s", describe(fn.Type.RetType))
	}
}

func TestSliceTypeArgumentRejected(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseModule([]byte("x: A[1:2] = y\n"), "main.py", nil)
	var convertErr *ConvertError
	if !errors.As(err, &convertErr) {
		t.Fatalf("expected ConvertError, got %v", err)
	}
}

func TestStarArgInTypeCommentRejected(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseModule([]byte("def f(*a):  # type: (*int) -> None\n    pass\n"), "main.py", &recordingSink{})
	var convertErr *ConvertError
	if !errors.As(err, &convertErr) {
		t.Fatalf("expected ConvertError, got %v", err)
	}
}

func TestStandaloneTypeString(t *testing.T) {
	p := newTestParser(t)
	typ, err := p.ParseTypeString("Dict[str, int]", 7)
	if err != nil {
		t.Fatalf("ParseTypeString error: %v", err)
	}
	unbound, ok := typ.(*types.UnboundType)
	if !ok || unbound.Name != "Dict" || unbound.Line() != 7 {
		t.Fatalf("unexpected type: %s", describe(typ))
	}
	if len(unbound.Args) != 2 {
		t.Fatalf("expected 2 type arguments, got %d", len(unbound.Args))
	}
	first, ok := unbound.Args[0].(*types.UnboundType)
	if !ok || first.Name != "str" || first.Line() != 7 {
		t.Fatalf("unexpected first argument: %s", describe(unbound.Args[0]))
	}
}

func TestStandaloneTypeStringSyntaxError(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseTypeString("[int", 3)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Location.Line != 3 {
		t.Fatalf("expected error blamed on line 3, got %d", parseErr.Location.Line)
	}
}

func TestMalformedTypeCommentReportedToSink(t *testing.T) {
	p := newTestParser(t)
	sink := &recordingSink{}
	file, err := p.ParseModule([]byte("x = 1  # type: [int\n"), "main.py", sink)
	if err != nil {
		t.Fatalf("expected sunk type comment error, got %v", err)
	}
	if len(sink.lines) != 1 || sink.lines[0] != 1 {
		t.Fatalf("expected a diagnostic on line 1, got %v", sink.lines)
	}
	if len(file.Defs) != 0 {
		t.Fatalf("expected empty module, got %d statements", len(file.Defs))
	}
}

func TestInvalidSignatureCommentReportedToSink(t *testing.T) {
	p := newTestParser(t)
	sink := &recordingSink{}
	_, err := p.ParseModule([]byte("def f(x):  # type: int\n    pass\n"), "main.py", sink)
	if err != nil {
		t.Fatalf("expected sunk signature error, got %v", err)
	}
	if len(sink.messages) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", sink.messages)
	}
}
