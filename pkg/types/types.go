// Package types holds the checker's internal representation of type
// expressions: unbound (not yet resolved) named types, the structural markers
// used inside annotations, and fully formed callable signatures.
package types

// ArgKind tags the passing convention of one function argument or parameter.
type ArgKind int

const (
	// ArgPos is a required positional argument.
	ArgPos ArgKind = 0
	// ArgOpt is a positional argument with a default value.
	ArgOpt ArgKind = 1
	// ArgStar is a *args variadic-positional argument.
	ArgStar ArgKind = 2
	// ArgNamed is a keyword(-only) argument.
	ArgNamed ArgKind = 3
	// ArgStar2 is a **kwargs variadic-keyword argument.
	ArgStar2 ArgKind = 4
)

// Type is the common interface of all type objects. Line reports the source
// line the type was written on, or 0 when the type was synthesized.
type Type interface {
	Line() int
	typeNode()
}

type typeImpl struct {
	line int
}

func (t typeImpl) Line() int { return t.line }
func (typeImpl) typeNode()   {}

// AnyType stands in wherever no type was declared.
type AnyType struct {
	typeImpl
}

// NewAnyType returns the wildcard type.
func NewAnyType() *AnyType {
	return &AnyType{}
}

// UnboundType is a type referenced by name, optionally with type arguments,
// before any symbol resolution has happened.
type UnboundType struct {
	typeImpl

	Name string `json:"name"`
	Args []Type `json:"args,omitempty"`
}

// NewUnboundType constructs an unresolved named type.
func NewUnboundType(name string, args []Type, line int) *UnboundType {
	return &UnboundType{typeImpl: typeImpl{line: line}, Name: name, Args: args}
}

// TypeList is the bracketed list form used for callable parameter positions,
// e.g. the first argument of Callable[[int, str], bool].
type TypeList struct {
	typeImpl

	Items []Type `json:"items"`
}

// NewTypeList constructs a type list marker.
func NewTypeList(items []Type, line int) *TypeList {
	return &TypeList{typeImpl: typeImpl{line: line}, Items: items}
}

// TupleType is a tuple of member types. Implicit marks tuples that were
// written as bare parenthesized lists inside an annotation rather than as
// Tuple[...].
type TupleType struct {
	typeImpl

	Items    []Type `json:"items"`
	Implicit bool   `json:"implicit,omitempty"`
}

// NewTupleType constructs a tuple type.
func NewTupleType(items []Type, implicit bool, line int) *TupleType {
	return &TupleType{typeImpl: typeImpl{line: line}, Items: items, Implicit: implicit}
}

// EllipsisType is the `...` marker inside annotations, e.g.
// Callable[..., int]. It is distinct from the ellipsis expression node.
type EllipsisType struct {
	typeImpl
}

// NewEllipsisType constructs an ellipsis type marker.
func NewEllipsisType(line int) *EllipsisType {
	return &EllipsisType{typeImpl: typeImpl{line: line}}
}

// CallableType is a resolved function signature: parallel argument
// types/kinds/names plus the return type.
type CallableType struct {
	typeImpl

	ArgTypes []Type    `json:"argTypes"`
	ArgKinds []ArgKind `json:"argKinds"`
	ArgNames []string  `json:"argNames"`
	RetType  Type      `json:"retType"`

	// Definition points back at the function definition node this signature
	// belongs to. It is declared as any because the nodes package already
	// depends on this one.
	Definition any `json:"-"`
}

// NewCallableType constructs a callable signature.
func NewCallableType(argTypes []Type, argKinds []ArgKind, argNames []string, retType Type, line int) *CallableType {
	return &CallableType{
		typeImpl: typeImpl{line: line},
		ArgTypes: argTypes,
		ArgKinds: argKinds,
		ArgNames: argNames,
		RetType:  retType,
	}
}
