package nodes

import (
	"math/big"

	"pycheck/frontend-go/pkg/types"
)

// Shorthand constructors for building expected trees in tests.

// At sets the node's line and returns it, so literal trees can be written
// inline.
func At[T Node](node T, line int) T {
	node.SetLine(line)
	return node
}

func Name(name string) *NameExpr {
	return NewNameExpr(name)
}

func Member(expr Expression, name string) *MemberExpr {
	return NewMemberExpr(expr, name)
}

func Str(value string) *StrExpr {
	return NewStrExpr(value)
}

func Int(value int64) *IntExpr {
	return NewIntExpr(big.NewInt(value))
}

func Flt(value float64) *FloatExpr {
	return NewFloatExpr(value)
}

func Tuple(items ...Expression) *TupleExpr {
	return NewTupleExpr(items)
}

func List(items ...Expression) *ListExpr {
	return NewListExpr(items)
}

func Set(items ...Expression) *SetExpr {
	return NewSetExpr(items)
}

func Op(op string, left, right Expression) *OpExpr {
	return NewOpExpr(op, left, right)
}

func Unary(op string, expr Expression) *UnaryExpr {
	return NewUnaryExpr(op, expr)
}

// Call builds a call with only positional arguments.
func Call(callee Expression, args ...Expression) *CallExpr {
	kinds := make([]types.ArgKind, len(args))
	names := make([]string, len(args))
	return NewCallExpr(callee, args, kinds, names)
}

func Index(base, index Expression) *IndexExpr {
	return NewIndexExpr(base, index)
}

func ExprStmt(expr Expression) *ExpressionStmt {
	return NewExpressionStmt(expr)
}

func Assign(target Expression, rvalue Expression) *AssignmentStmt {
	return NewAssignmentStmt([]Expression{target}, rvalue, nil)
}

func Ret(expr Expression) *ReturnStmt {
	return NewReturnStmt(expr)
}

func Pass() *PassStmt {
	return NewPassStmt()
}

// BlockAt builds a block carrying the introducing statement's line.
func BlockAt(line int, body ...Statement) *Block {
	return At(NewBlock(body), line)
}

// PosArg builds a plain positional parameter with no annotation or default.
func PosArg(name string) *Argument {
	return NewArgument(NewVar(name), nil, nil, types.ArgPos)
}

// Module builds a source file with no import or ignore metadata.
func Module(defs ...Statement) *SourceFile {
	return NewSourceFile(defs, nil, nil)
}
