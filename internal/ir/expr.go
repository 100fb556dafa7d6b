package ir

import "github.com/roach88/jitfront/internal/source"

// Ident is a name together with the range it was written at.
type Ident struct {
	Rng  source.Range
	Name string
}

// Var is a variable reference.
type Var struct {
	Name *Ident
}

type TrueLiteral struct{ Rng source.Range }

type FalseLiteral struct{ Rng source.Range }

type NoneLiteral struct{ Rng source.Range }

// Dots is the `...` literal.
type Dots struct{ Rng source.Range }

// EmptyTypeAnnotation marks a parameter written without an annotation.
type EmptyTypeAnnotation struct{ Rng source.Range }

// Const is a numeric literal in its source spelling.
type Const struct {
	Rng   source.Range
	Value string
}

type StringLiteral struct {
	Rng   source.Range
	Value string
}

// BinOp is a binary operation. Op is the operator spelling, including the
// boolean connectives "and" and "or" and the comparison "is not".
type BinOp struct {
	Op  string
	LHS Expr
	RHS Expr
}

// UnaryOp is a prefix operation: "not", "-" or "~".
type UnaryOp struct {
	Rng     source.Range
	Op      string
	Operand Expr
}

type TernaryIf struct {
	Cond      Expr
	TrueExpr  Expr
	FalseExpr Expr
}

// Apply is a call: positional inputs plus keyword attributes.
type Apply struct {
	Callee     Expr
	Inputs     []Expr
	Attributes []*Attribute
}

// Attribute is one keyword argument of an Apply.
type Attribute struct {
	Name  *Ident
	Value Expr
}

// Select is attribute access `value.selector`.
type Select struct {
	Value    Expr
	Selector *Ident
}

// Subscript indexes Value with one entry per dimension.
type Subscript struct {
	Value      Expr
	Subscripts []Expr
}

// SliceExpr is `start:end:step`; each part may be nil.
type SliceExpr struct {
	Rng   source.Range
	Start Expr
	End   Expr
	Step  Expr
}

type ListLiteral struct {
	Rng   source.Range
	Elems []Expr
}

type TupleLiteral struct {
	Rng   source.Range
	Elems []Expr
}

// DictLiteral holds parallel key and value lists.
type DictLiteral struct {
	Rng    source.Range
	Keys   []Expr
	Values []Expr
}

// ListComp is `[elt for target in iter]`.
type ListComp struct {
	Rng    source.Range
	Elt    Expr
	Target Expr
	Iter   Expr
}

type Starred struct {
	Rng   source.Range
	Value Expr
}

func (n *Ident) Range() source.Range               { return n.Rng }
func (n *Var) Range() source.Range                 { return n.Name.Rng }
func (n *TrueLiteral) Range() source.Range         { return n.Rng }
func (n *FalseLiteral) Range() source.Range        { return n.Rng }
func (n *NoneLiteral) Range() source.Range         { return n.Rng }
func (n *Dots) Range() source.Range                { return n.Rng }
func (n *EmptyTypeAnnotation) Range() source.Range { return n.Rng }
func (n *Const) Range() source.Range               { return n.Rng }
func (n *StringLiteral) Range() source.Range       { return n.Rng }
func (n *BinOp) Range() source.Range               { return n.LHS.Range() }
func (n *UnaryOp) Range() source.Range             { return n.Rng }
func (n *TernaryIf) Range() source.Range           { return n.Cond.Range() }
func (n *Apply) Range() source.Range               { return n.Callee.Range() }
func (n *Attribute) Range() source.Range           { return n.Name.Rng }
func (n *Select) Range() source.Range              { return n.Value.Range() }
func (n *Subscript) Range() source.Range           { return n.Value.Range() }
func (n *SliceExpr) Range() source.Range           { return n.Rng }
func (n *ListLiteral) Range() source.Range         { return n.Rng }
func (n *TupleLiteral) Range() source.Range        { return n.Rng }
func (n *DictLiteral) Range() source.Range         { return n.Rng }
func (n *ListComp) Range() source.Range            { return n.Rng }
func (n *Starred) Range() source.Range             { return n.Rng }

func (*Ident) Kind() Kind               { return KindIdent }
func (*Var) Kind() Kind                 { return KindVar }
func (*TrueLiteral) Kind() Kind         { return KindTrue }
func (*FalseLiteral) Kind() Kind        { return KindFalse }
func (*NoneLiteral) Kind() Kind         { return KindNone }
func (*Dots) Kind() Kind                { return KindDots }
func (*EmptyTypeAnnotation) Kind() Kind { return KindEmptyTypeAnnotation }
func (*Const) Kind() Kind               { return KindConst }
func (*StringLiteral) Kind() Kind       { return KindStringLiteral }
func (*BinOp) Kind() Kind               { return KindBinOp }
func (*UnaryOp) Kind() Kind             { return KindUnaryOp }
func (*TernaryIf) Kind() Kind           { return KindTernaryIf }
func (*Apply) Kind() Kind               { return KindApply }
func (*Attribute) Kind() Kind           { return KindAttribute }
func (*Select) Kind() Kind              { return KindSelect }
func (*Subscript) Kind() Kind           { return KindSubscript }
func (*SliceExpr) Kind() Kind           { return KindSliceExpr }
func (*ListLiteral) Kind() Kind         { return KindListLiteral }
func (*TupleLiteral) Kind() Kind        { return KindTupleLiteral }
func (*DictLiteral) Kind() Kind         { return KindDictLiteral }
func (*ListComp) Kind() Kind            { return KindListComp }
func (*Starred) Kind() Kind             { return KindStarred }

func (*Var) exprNode()                 {}
func (*TrueLiteral) exprNode()         {}
func (*FalseLiteral) exprNode()        {}
func (*NoneLiteral) exprNode()         {}
func (*Dots) exprNode()                {}
func (*EmptyTypeAnnotation) exprNode() {}
func (*Const) exprNode()               {}
func (*StringLiteral) exprNode()       {}
func (*BinOp) exprNode()               {}
func (*UnaryOp) exprNode()             {}
func (*TernaryIf) exprNode()           {}
func (*Apply) exprNode()               {}
func (*Select) exprNode()              {}
func (*Subscript) exprNode()           {}
func (*SliceExpr) exprNode()           {}
func (*ListLiteral) exprNode()         {}
func (*TupleLiteral) exprNode()        {}
func (*DictLiteral) exprNode()         {}
func (*ListComp) exprNode()            {}
func (*Starred) exprNode()             {}

// NewVar is shorthand for a variable reference named at r.
func NewVar(r source.Range, name string) *Var {
	return &Var{Name: &Ident{Rng: r, Name: name}}
}
