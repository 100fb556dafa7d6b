package syntax

import "fmt"

// Operator is a binary or augmented-assignment operator.
type Operator int

const (
	Add Operator = iota + 1
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var operatorNames = map[Operator]string{
	Add: "Add", Sub: "Sub", Mult: "Mult", MatMult: "MatMult", Div: "Div",
	Mod: "Mod", Pow: "Pow", LShift: "LShift", RShift: "RShift", BitOr: "BitOr",
	BitXor: "BitXor", BitAnd: "BitAnd", FloorDiv: "FloorDiv",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	Invert UnaryOperator = iota + 1
	Not
	UAdd
	USub
)

func (o UnaryOperator) String() string {
	switch o {
	case Invert:
		return "Invert"
	case Not:
		return "Not"
	case UAdd:
		return "UAdd"
	case USub:
		return "USub"
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(o))
}

// BoolOperator joins the operands of a BoolOp.
type BoolOperator int

const (
	And BoolOperator = iota + 1
	Or
)

func (o BoolOperator) String() string {
	switch o {
	case And:
		return "And"
	case Or:
		return "Or"
	}
	return fmt.Sprintf("BoolOperator(%d)", int(o))
}

// CmpOperator is one link of a comparison chain.
type CmpOperator int

const (
	Eq CmpOperator = iota + 1
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpNames = map[CmpOperator]string{
	Eq: "Eq", NotEq: "NotEq", Lt: "Lt", LtE: "LtE", Gt: "Gt", GtE: "GtE",
	Is: "Is", IsNot: "IsNot", In: "In", NotIn: "NotIn",
}

func (o CmpOperator) String() string {
	if name, ok := cmpNames[o]; ok {
		return name
	}
	return fmt.Sprintf("CmpOperator(%d)", int(o))
}

// ConstValue is the value of a NameConstant.
type ConstValue int

const (
	ConstNone ConstValue = iota
	ConstTrue
	ConstFalse
)

func (v ConstValue) String() string {
	switch v {
	case ConstNone:
		return "None"
	case ConstTrue:
		return "True"
	case ConstFalse:
		return "False"
	}
	return fmt.Sprintf("ConstValue(%d)", int(v))
}

// NumKind classifies a numeric literal.
type NumKind int

const (
	NumInt NumKind = iota
	NumFloat
	NumImaginary
)

// NoConversion is FormattedValue.Conversion when no `!x` was given.
const NoConversion = -1
