package nodes

import (
	"math/big"

	"pycheck/frontend-go/pkg/types"
)

// NameExpr is a bare name reference. Singleton constants (None, True, False)
// are represented as line-less name references holding the constant's
// stringified spelling.
type NameExpr struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewNameExpr(name string) *NameExpr {
	return &NameExpr{nodeImpl: newNodeImpl(NodeNameExpr), Name: name}
}

// MemberExpr is `expr.name`.
type MemberExpr struct {
	nodeImpl
	expressionMarker

	Expr Expression `json:"expr"`
	Name string     `json:"name"`
}

func NewMemberExpr(expr Expression, name string) *MemberExpr {
	return &MemberExpr{nodeImpl: newNodeImpl(NodeMemberExpr), Expr: expr, Name: name}
}

// SuperExpr is `super().name`.
type SuperExpr struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewSuperExpr(name string) *SuperExpr {
	return &SuperExpr{nodeImpl: newNodeImpl(NodeSuperExpr), Name: name}
}

// CallExpr flattens a call's arguments into parallel slices: the argument
// expressions, their passing-convention kinds, and their keyword names (""
// for non-keyword arguments).
type CallExpr struct {
	nodeImpl
	expressionMarker

	Callee   Expression      `json:"callee"`
	Args     []Expression    `json:"args"`
	ArgKinds []types.ArgKind `json:"argKinds"`
	ArgNames []string        `json:"argNames"`
}

func NewCallExpr(callee Expression, args []Expression, argKinds []types.ArgKind, argNames []string) *CallExpr {
	return &CallExpr{nodeImpl: newNodeImpl(NodeCallExpr), Callee: callee, Args: args, ArgKinds: argKinds, ArgNames: argNames}
}

// IndexExpr is `base[index]`. A non-slice subscript stores the index
// expression directly; slices store a SliceExpr, and multi-item subscripts
// store a TupleExpr.
type IndexExpr struct {
	nodeImpl
	expressionMarker

	Base  Expression `json:"base"`
	Index Expression `json:"index"`
}

func NewIndexExpr(base, index Expression) *IndexExpr {
	return &IndexExpr{nodeImpl: newNodeImpl(NodeIndexExpr), Base: base, Index: index}
}

// SliceExpr is `begin:end:stride` inside a subscript; any part may be nil.
type SliceExpr struct {
	nodeImpl
	expressionMarker

	BeginIndex Expression `json:"beginIndex,omitempty"`
	EndIndex   Expression `json:"endIndex,omitempty"`
	Stride     Expression `json:"stride,omitempty"`
}

func NewSliceExpr(beginIndex, endIndex, stride Expression) *SliceExpr {
	return &SliceExpr{nodeImpl: newNodeImpl(NodeSliceExpr), BeginIndex: beginIndex, EndIndex: endIndex, Stride: stride}
}

// OpExpr is a binary arithmetic/bitwise/boolean operation.
type OpExpr struct {
	nodeImpl
	expressionMarker

	Op    string     `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewOpExpr(op string, left, right Expression) *OpExpr {
	return &OpExpr{nodeImpl: newNodeImpl(NodeOpExpr), Op: op, Left: left, Right: right}
}

type UnaryExpr struct {
	nodeImpl
	expressionMarker

	Op   string     `json:"op"`
	Expr Expression `json:"expr"`
}

func NewUnaryExpr(op string, expr Expression) *UnaryExpr {
	return &UnaryExpr{nodeImpl: newNodeImpl(NodeUnaryExpr), Op: op, Expr: expr}
}

// ComparisonExpr keeps a comparison chain flat: n operators over n+1
// operands.
type ComparisonExpr struct {
	nodeImpl
	expressionMarker

	Operators []string     `json:"operators"`
	Operands  []Expression `json:"operands"`
}

func NewComparisonExpr(operators []string, operands []Expression) *ComparisonExpr {
	return &ComparisonExpr{nodeImpl: newNodeImpl(NodeComparisonExpr), Operators: operators, Operands: operands}
}

// LambdaExpr reuses the function machinery: the body is a block holding a
// single return of the lambda's expression.
type LambdaExpr struct {
	nodeImpl
	expressionMarker

	Args []*Argument `json:"args"`
	Body *Block      `json:"body"`
}

func NewLambdaExpr(args []*Argument, body *Block) *LambdaExpr {
	return &LambdaExpr{nodeImpl: newNodeImpl(NodeLambdaExpr), Args: args, Body: body}
}

// ConditionalExpr is `ifExpr if cond else elseExpr`.
type ConditionalExpr struct {
	nodeImpl
	expressionMarker

	Cond     Expression `json:"cond"`
	IfExpr   Expression `json:"ifExpr"`
	ElseExpr Expression `json:"elseExpr"`
}

func NewConditionalExpr(cond, ifExpr, elseExpr Expression) *ConditionalExpr {
	return &ConditionalExpr{nodeImpl: newNodeImpl(NodeConditionalExpr), Cond: cond, IfExpr: ifExpr, ElseExpr: elseExpr}
}

// Literals

type IntExpr struct {
	nodeImpl
	expressionMarker

	Value *big.Int `json:"value"`
}

func NewIntExpr(value *big.Int) *IntExpr {
	return &IntExpr{nodeImpl: newNodeImpl(NodeIntExpr), Value: value}
}

type FloatExpr struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatExpr(value float64) *FloatExpr {
	return &FloatExpr{nodeImpl: newNodeImpl(NodeFloatExpr), Value: value}
}

type ComplexExpr struct {
	nodeImpl
	expressionMarker

	Value complex128 `json:"-"`
}

func NewComplexExpr(value complex128) *ComplexExpr {
	return &ComplexExpr{nodeImpl: newNodeImpl(NodeComplexExpr), Value: value}
}

type StrExpr struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStrExpr(value string) *StrExpr {
	return &StrExpr{nodeImpl: newNodeImpl(NodeStrExpr), Value: value}
}

// BytesExpr holds the decoded bytes of a bytes literal.
type BytesExpr struct {
	nodeImpl
	expressionMarker

	Value []byte `json:"value"`
}

func NewBytesExpr(value []byte) *BytesExpr {
	return &BytesExpr{nodeImpl: newNodeImpl(NodeBytesExpr), Value: value}
}

type EllipsisExpr struct {
	nodeImpl
	expressionMarker
}

func NewEllipsisExpr() *EllipsisExpr {
	return &EllipsisExpr{nodeImpl: newNodeImpl(NodeEllipsisExpr)}
}

// Containers

type ListExpr struct {
	nodeImpl
	expressionMarker

	Items []Expression `json:"items"`
}

func NewListExpr(items []Expression) *ListExpr {
	return &ListExpr{nodeImpl: newNodeImpl(NodeListExpr), Items: items}
}

type TupleExpr struct {
	nodeImpl
	expressionMarker

	Items []Expression `json:"items"`
}

func NewTupleExpr(items []Expression) *TupleExpr {
	return &TupleExpr{nodeImpl: newNodeImpl(NodeTupleExpr), Items: items}
}

// DictExpr holds parallel key/value slices; a nil key marks a `**mapping`
// entry.
type DictExpr struct {
	nodeImpl
	expressionMarker

	Keys   []Expression `json:"keys"`
	Values []Expression `json:"values"`
}

func NewDictExpr(keys, values []Expression) *DictExpr {
	return &DictExpr{nodeImpl: newNodeImpl(NodeDictExpr), Keys: keys, Values: values}
}

type SetExpr struct {
	nodeImpl
	expressionMarker

	Items []Expression `json:"items"`
}

func NewSetExpr(items []Expression) *SetExpr {
	return &SetExpr{nodeImpl: newNodeImpl(NodeSetExpr), Items: items}
}

// StarExpr is `*expr` in an assignment target or call.
type StarExpr struct {
	nodeImpl
	expressionMarker

	Expr Expression `json:"expr"`
}

func NewStarExpr(expr Expression) *StarExpr {
	return &StarExpr{nodeImpl: newNodeImpl(NodeStarExpr), Expr: expr}
}

type YieldExpr struct {
	nodeImpl
	expressionMarker

	Expr Expression `json:"expr,omitempty"`
}

func NewYieldExpr(expr Expression) *YieldExpr {
	return &YieldExpr{nodeImpl: newNodeImpl(NodeYieldExpr), Expr: expr}
}

type YieldFromExpr struct {
	nodeImpl
	expressionMarker

	Expr Expression `json:"expr"`
}

func NewYieldFromExpr(expr Expression) *YieldFromExpr {
	return &YieldFromExpr{nodeImpl: newNodeImpl(NodeYieldFromExpr), Expr: expr}
}

// Comprehensions

// GeneratorExpr is the comprehension core: the produced expression plus one
// entry per `for` clause in each of Indices, Sequences and CondLists.
type GeneratorExpr struct {
	nodeImpl
	expressionMarker

	LeftExpr  Expression     `json:"leftExpr"`
	Indices   []Expression   `json:"indices"`
	Sequences []Expression   `json:"sequences"`
	CondLists [][]Expression `json:"condLists"`
}

func NewGeneratorExpr(leftExpr Expression, indices, sequences []Expression, condLists [][]Expression) *GeneratorExpr {
	return &GeneratorExpr{nodeImpl: newNodeImpl(NodeGeneratorExpr), LeftExpr: leftExpr, Indices: indices, Sequences: sequences, CondLists: condLists}
}

type ListComprehension struct {
	nodeImpl
	expressionMarker

	Generator *GeneratorExpr `json:"generator"`
}

func NewListComprehension(generator *GeneratorExpr) *ListComprehension {
	return &ListComprehension{nodeImpl: newNodeImpl(NodeListComprehension), Generator: generator}
}

type SetComprehension struct {
	nodeImpl
	expressionMarker

	Generator *GeneratorExpr `json:"generator"`
}

func NewSetComprehension(generator *GeneratorExpr) *SetComprehension {
	return &SetComprehension{nodeImpl: newNodeImpl(NodeSetComprehension), Generator: generator}
}

type DictionaryComprehension struct {
	nodeImpl
	expressionMarker

	Key       Expression     `json:"key"`
	Value     Expression     `json:"value"`
	Indices   []Expression   `json:"indices"`
	Sequences []Expression   `json:"sequences"`
	CondLists [][]Expression `json:"condLists"`
}

func NewDictionaryComprehension(key, value Expression, indices, sequences []Expression, condLists [][]Expression) *DictionaryComprehension {
	return &DictionaryComprehension{nodeImpl: newNodeImpl(NodeDictionaryComprehension), Key: key, Value: value, Indices: indices, Sequences: sequences, CondLists: condLists}
}
