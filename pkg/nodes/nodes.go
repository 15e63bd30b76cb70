// Package nodes defines the checker's syntax tree. The parser package builds
// these nodes from the external concrete syntax tree; everything downstream
// (semantic analysis, type checking) consumes them.
package nodes

import "pycheck/frontend-go/pkg/types"

type NodeType string

const (
	NodeSourceFile              NodeType = "SourceFile"
	NodeImport                  NodeType = "Import"
	NodeImportFrom              NodeType = "ImportFrom"
	NodeImportAll               NodeType = "ImportAll"
	NodeFuncDef                 NodeType = "FuncDef"
	NodeOverloadedFuncDef       NodeType = "OverloadedFuncDef"
	NodeDecorator               NodeType = "Decorator"
	NodeVar                     NodeType = "Var"
	NodeClassDef                NodeType = "ClassDef"
	NodeBlock                   NodeType = "Block"
	NodeArgument                NodeType = "Argument"
	NodeExpressionStmt          NodeType = "ExpressionStmt"
	NodeAssignmentStmt          NodeType = "AssignmentStmt"
	NodeOperatorAssignmentStmt  NodeType = "OperatorAssignmentStmt"
	NodeReturnStmt              NodeType = "ReturnStmt"
	NodeRaiseStmt               NodeType = "RaiseStmt"
	NodeAssertStmt              NodeType = "AssertStmt"
	NodeDelStmt                 NodeType = "DelStmt"
	NodeBreakStmt               NodeType = "BreakStmt"
	NodeContinueStmt            NodeType = "ContinueStmt"
	NodePassStmt                NodeType = "PassStmt"
	NodeGlobalDecl              NodeType = "GlobalDecl"
	NodeNonlocalDecl            NodeType = "NonlocalDecl"
	NodeWhileStmt               NodeType = "WhileStmt"
	NodeForStmt                 NodeType = "ForStmt"
	NodeIfStmt                  NodeType = "IfStmt"
	NodeTryStmt                 NodeType = "TryStmt"
	NodeWithStmt                NodeType = "WithStmt"
	NodeNameExpr                NodeType = "NameExpr"
	NodeMemberExpr              NodeType = "MemberExpr"
	NodeSuperExpr               NodeType = "SuperExpr"
	NodeCallExpr                NodeType = "CallExpr"
	NodeIndexExpr               NodeType = "IndexExpr"
	NodeSliceExpr               NodeType = "SliceExpr"
	NodeOpExpr                  NodeType = "OpExpr"
	NodeUnaryExpr               NodeType = "UnaryExpr"
	NodeComparisonExpr          NodeType = "ComparisonExpr"
	NodeLambdaExpr              NodeType = "LambdaExpr"
	NodeConditionalExpr         NodeType = "ConditionalExpr"
	NodeIntExpr                 NodeType = "IntExpr"
	NodeFloatExpr               NodeType = "FloatExpr"
	NodeComplexExpr             NodeType = "ComplexExpr"
	NodeStrExpr                 NodeType = "StrExpr"
	NodeBytesExpr               NodeType = "BytesExpr"
	NodeEllipsisExpr            NodeType = "EllipsisExpr"
	NodeListExpr                NodeType = "ListExpr"
	NodeTupleExpr               NodeType = "TupleExpr"
	NodeDictExpr                NodeType = "DictExpr"
	NodeSetExpr                 NodeType = "SetExpr"
	NodeStarExpr                NodeType = "StarExpr"
	NodeYieldExpr               NodeType = "YieldExpr"
	NodeYieldFromExpr           NodeType = "YieldFromExpr"
	NodeGeneratorExpr           NodeType = "GeneratorExpr"
	NodeListComprehension       NodeType = "ListComprehension"
	NodeSetComprehension        NodeType = "SetComprehension"
	NodeDictionaryComprehension NodeType = "DictionaryComprehension"
)

// Node is the common interface of every tree node. Line is 1-based; 0 means
// the node carries no position of its own.
type Node interface {
	NodeType() NodeType
	Line() int
	SetLine(int)
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Ln   int      `json:"line,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.Ln }
func (n *nodeImpl) SetLine(line int)  { n.Ln = line }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// SourceFile

// SourceFile is the converted module: its statement list plus the metadata
// accumulated during conversion.
type SourceFile struct {
	nodeImpl

	Defs []Statement `json:"defs"`
	// Imports lists every import statement found anywhere in the file,
	// including ones nested inside functions and classes.
	Imports []Statement `json:"imports,omitempty"`
	// IgnoredLines holds the 1-based lines carrying an ignore comment,
	// sorted ascending.
	IgnoredLines []int  `json:"ignoredLines,omitempty"`
	Path         string `json:"path,omitempty"`
	// IsStub is set when the file was loaded from a .pyi stub.
	IsStub bool `json:"isStub,omitempty"`
}

func NewSourceFile(defs []Statement, imports []Statement, ignoredLines []int) *SourceFile {
	return &SourceFile{nodeImpl: newNodeImpl(NodeSourceFile), Defs: defs, Imports: imports, IgnoredLines: ignoredLines}
}

// Imports

// ImportedName is one name inside an import statement, with its optional
// `as` alias ("" when absent).
type ImportedName struct {
	Name string `json:"name"`
	As   string `json:"as,omitempty"`
}

// Import is `import a.b, c as d`.
type Import struct {
	nodeImpl
	statementMarker

	Names []ImportedName `json:"names"`
}

func NewImport(names []ImportedName) *Import {
	return &Import{nodeImpl: newNodeImpl(NodeImport), Names: names}
}

// ImportFrom is `from ..mod import a, b as c`. Relative counts the leading
// dots (0 for an absolute import).
type ImportFrom struct {
	nodeImpl
	statementMarker

	Module   string         `json:"module"`
	Relative int            `json:"relative"`
	Names    []ImportedName `json:"names"`
}

func NewImportFrom(module string, relative int, names []ImportedName) *ImportFrom {
	return &ImportFrom{nodeImpl: newNodeImpl(NodeImportFrom), Module: module, Relative: relative, Names: names}
}

// ImportAll is `from mod import *`.
type ImportAll struct {
	nodeImpl
	statementMarker

	Module   string `json:"module"`
	Relative int    `json:"relative"`
}

func NewImportAll(module string, relative int) *ImportAll {
	return &ImportAll{nodeImpl: newNodeImpl(NodeImportAll), Module: module, Relative: relative}
}

// Definitions

// Var is the definition node behind a bound name. The converter only creates
// these for decorated functions; semantic analysis creates the rest.
type Var struct {
	nodeImpl

	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

func NewVar(name string) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar), Name: name}
}

// Argument is one formal parameter: its variable, optional annotation,
// optional default, and passing-convention kind.
type Argument struct {
	nodeImpl

	Variable       *Var          `json:"variable"`
	TypeAnnotation types.Type    `json:"typeAnnotation,omitempty"`
	Initializer    Expression    `json:"initializer,omitempty"`
	Kind           types.ArgKind `json:"kind"`
}

func NewArgument(variable *Var, typeAnnotation types.Type, initializer Expression, kind types.ArgKind) *Argument {
	return &Argument{nodeImpl: newNodeImpl(NodeArgument), Variable: variable, TypeAnnotation: typeAnnotation, Initializer: initializer, Kind: kind}
}

// FuncDef is a function definition. Type is the signature assembled from
// annotations or a signature comment, nil when the function has neither.
type FuncDef struct {
	nodeImpl
	statementMarker

	Name string              `json:"name"`
	Args []*Argument         `json:"args"`
	Body *Block              `json:"body"`
	Type *types.CallableType `json:"signature,omitempty"`
}

func NewFuncDef(name string, args []*Argument, body *Block, signature *types.CallableType) *FuncDef {
	return &FuncDef{nodeImpl: newNodeImpl(NodeFuncDef), Name: name, Args: args, Body: body, Type: signature}
}

// Decorator is a decorated function definition: the function, its decorator
// expressions outermost first, and the variable the decorated result binds.
type Decorator struct {
	nodeImpl
	statementMarker

	Func       *FuncDef     `json:"func"`
	Decorators []Expression `json:"decorators"`
	Var        *Var         `json:"var"`
}

func NewDecorator(fn *FuncDef, decorators []Expression, v *Var) *Decorator {
	return &Decorator{nodeImpl: newNodeImpl(NodeDecorator), Func: fn, Decorators: decorators, Var: v}
}

// OverloadedFuncDef groups consecutive decorated definitions of the same
// name into one definition.
type OverloadedFuncDef struct {
	nodeImpl
	statementMarker

	Items []*Decorator `json:"items"`
}

func NewOverloadedFuncDef(items []*Decorator) *OverloadedFuncDef {
	return &OverloadedFuncDef{nodeImpl: newNodeImpl(NodeOverloadedFuncDef), Items: items}
}

// ClassDef is a class definition. Metaclass holds the stringified dotted
// name from a `metaclass=` keyword, "" when absent.
type ClassDef struct {
	nodeImpl
	statementMarker

	Name          string       `json:"name"`
	Defs          *Block       `json:"defs"`
	BaseTypeExprs []Expression `json:"baseTypeExprs,omitempty"`
	Metaclass     string       `json:"metaclass,omitempty"`
	Decorators    []Expression `json:"decorators,omitempty"`
}

func NewClassDef(name string, defs *Block, baseTypeExprs []Expression, metaclass string) *ClassDef {
	return &ClassDef{nodeImpl: newNodeImpl(NodeClassDef), Name: name, Defs: defs, BaseTypeExprs: baseTypeExprs, Metaclass: metaclass}
}

// Block is a statement list with the line of the statement that introduced
// it.
type Block struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// Simple statements

type ExpressionStmt struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr"`
}

func NewExpressionStmt(expr Expression) *ExpressionStmt {
	return &ExpressionStmt{nodeImpl: newNodeImpl(NodeExpressionStmt), Expr: expr}
}

// AssignmentStmt covers `a = b = rvalue` (one target per chained lvalue) and
// carries the declared type when a signature comment or inline annotation
// supplied one.
type AssignmentStmt struct {
	nodeImpl
	statementMarker

	Targets []Expression `json:"targets"`
	RValue  Expression   `json:"rvalue"`
	Type    types.Type   `json:"declaredType,omitempty"`
}

func NewAssignmentStmt(targets []Expression, rvalue Expression, declaredType types.Type) *AssignmentStmt {
	return &AssignmentStmt{nodeImpl: newNodeImpl(NodeAssignmentStmt), Targets: targets, RValue: rvalue, Type: declaredType}
}

// OperatorAssignmentStmt is an augmented assignment; Op is the operator
// without the trailing `=`.
type OperatorAssignmentStmt struct {
	nodeImpl
	statementMarker

	Op     string     `json:"op"`
	LValue Expression `json:"lvalue"`
	RValue Expression `json:"rvalue"`
}

func NewOperatorAssignmentStmt(op string, lvalue, rvalue Expression) *OperatorAssignmentStmt {
	return &OperatorAssignmentStmt{nodeImpl: newNodeImpl(NodeOperatorAssignmentStmt), Op: op, LValue: lvalue, RValue: rvalue}
}

type ReturnStmt struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr,omitempty"`
}

func NewReturnStmt(expr Expression) *ReturnStmt {
	return &ReturnStmt{nodeImpl: newNodeImpl(NodeReturnStmt), Expr: expr}
}

type RaiseStmt struct {
	nodeImpl
	statementMarker

	Expr     Expression `json:"expr,omitempty"`
	FromExpr Expression `json:"fromExpr,omitempty"`
}

func NewRaiseStmt(expr, fromExpr Expression) *RaiseStmt {
	return &RaiseStmt{nodeImpl: newNodeImpl(NodeRaiseStmt), Expr: expr, FromExpr: fromExpr}
}

// AssertStmt keeps only the asserted condition; the failure message is not
// represented.
type AssertStmt struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr"`
}

func NewAssertStmt(expr Expression) *AssertStmt {
	return &AssertStmt{nodeImpl: newNodeImpl(NodeAssertStmt), Expr: expr}
}

// DelStmt holds a single expression; multiple del targets arrive as a tuple.
type DelStmt struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr"`
}

func NewDelStmt(expr Expression) *DelStmt {
	return &DelStmt{nodeImpl: newNodeImpl(NodeDelStmt), Expr: expr}
}

type BreakStmt struct {
	nodeImpl
	statementMarker
}

func NewBreakStmt() *BreakStmt {
	return &BreakStmt{nodeImpl: newNodeImpl(NodeBreakStmt)}
}

type ContinueStmt struct {
	nodeImpl
	statementMarker
}

func NewContinueStmt() *ContinueStmt {
	return &ContinueStmt{nodeImpl: newNodeImpl(NodeContinueStmt)}
}

type PassStmt struct {
	nodeImpl
	statementMarker
}

func NewPassStmt() *PassStmt {
	return &PassStmt{nodeImpl: newNodeImpl(NodePassStmt)}
}

type GlobalDecl struct {
	nodeImpl
	statementMarker

	Names []string `json:"names"`
}

func NewGlobalDecl(names []string) *GlobalDecl {
	return &GlobalDecl{nodeImpl: newNodeImpl(NodeGlobalDecl), Names: names}
}

type NonlocalDecl struct {
	nodeImpl
	statementMarker

	Names []string `json:"names"`
}

func NewNonlocalDecl(names []string) *NonlocalDecl {
	return &NonlocalDecl{nodeImpl: newNodeImpl(NodeNonlocalDecl), Names: names}
}

// Compound statements

type WhileStmt struct {
	nodeImpl
	statementMarker

	Expr     Expression `json:"expr"`
	Body     *Block     `json:"body"`
	ElseBody *Block     `json:"elseBody,omitempty"`
}

func NewWhileStmt(expr Expression, body, elseBody *Block) *WhileStmt {
	return &WhileStmt{nodeImpl: newNodeImpl(NodeWhileStmt), Expr: expr, Body: body, ElseBody: elseBody}
}

type ForStmt struct {
	nodeImpl
	statementMarker

	Index    Expression `json:"index"`
	Expr     Expression `json:"expr"`
	Body     *Block     `json:"body"`
	ElseBody *Block     `json:"elseBody,omitempty"`
}

func NewForStmt(index, expr Expression, body, elseBody *Block) *ForStmt {
	return &ForStmt{nodeImpl: newNodeImpl(NodeForStmt), Index: index, Expr: expr, Body: body, ElseBody: elseBody}
}

// IfStmt is a single condition/body pair; elif chains are represented as a
// nested IfStmt inside ElseBody.
type IfStmt struct {
	nodeImpl
	statementMarker

	Expr     Expression `json:"expr"`
	Body     *Block     `json:"body"`
	ElseBody *Block     `json:"elseBody,omitempty"`
}

func NewIfStmt(expr Expression, body, elseBody *Block) *IfStmt {
	return &IfStmt{nodeImpl: newNodeImpl(NodeIfStmt), Expr: expr, Body: body, ElseBody: elseBody}
}

// TryStmt holds one entry per except clause in each of Vars, Types and
// Handlers; Vars and Types entries are nil for bare `except:` clauses.
type TryStmt struct {
	nodeImpl
	statementMarker

	Body        *Block       `json:"body"`
	Vars        []*NameExpr  `json:"vars"`
	Types       []Expression `json:"exceptTypes"`
	Handlers    []*Block     `json:"handlers"`
	ElseBody    *Block       `json:"elseBody,omitempty"`
	FinallyBody *Block       `json:"finallyBody,omitempty"`
}

func NewTryStmt(body *Block, vars []*NameExpr, exceptTypes []Expression, handlers []*Block, elseBody, finallyBody *Block) *TryStmt {
	return &TryStmt{
		nodeImpl: newNodeImpl(NodeTryStmt),
		Body:     body,
		Vars:     vars,
		Types:    exceptTypes,
		Handlers: handlers,
		ElseBody: elseBody, FinallyBody: finallyBody,
	}
}

// WithStmt holds parallel context-manager expressions and their optional
// `as` targets (nil when a clause has no target).
type WithStmt struct {
	nodeImpl
	statementMarker

	Exprs   []Expression `json:"exprs"`
	Targets []Expression `json:"targets"`
	Body    *Block       `json:"body"`
}

func NewWithStmt(exprs, targets []Expression, body *Block) *WithStmt {
	return &WithStmt{nodeImpl: newNodeImpl(NodeWithStmt), Exprs: exprs, Targets: targets, Body: body}
}
