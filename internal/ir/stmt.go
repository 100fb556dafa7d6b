package ir

import "github.com/roach88/jitfront/internal/source"

type ExprStmt struct {
	Expr Expr
}

// Assign binds RHS to every target in LHS. Type is the optional declared
// type of an annotated assignment.
type Assign struct {
	LHS  []Expr
	RHS  Expr
	Type Expr
}

type Delete struct {
	Target Expr
}

// Return's Value is nil for a bare return.
type Return struct {
	Rng   source.Range
	Value Expr
}

type Raise struct {
	Rng  source.Range
	Expr Expr
}

type Assert struct {
	Rng  source.Range
	Test Expr
	Msg  Expr
}

// AugAssign is `lhs op= rhs`; Op is the operator without the `=`.
type AugAssign struct {
	LHS Expr
	Op  string
	RHS Expr
}

type While struct {
	Rng  source.Range
	Cond Expr
	Body []Stmt
}

type For struct {
	Rng     source.Range
	Targets []Expr
	Iters   []Expr
	Body    []Stmt
}

type If struct {
	Rng         source.Range
	Cond        Expr
	TrueBranch  []Stmt
	FalseBranch []Stmt
}

type Pass struct{ Rng source.Range }

type Break struct{ Rng source.Range }

type Continue struct{ Rng source.Range }

type With struct {
	Rng   source.Range
	Items []*WithItem
	Body  []Stmt
}

// WithItem is one context manager; Var is nil without an `as` target.
type WithItem struct {
	Rng    source.Range
	Target Expr
	Var    Expr
}

// Param is one declared parameter. Type is never nil: an unannotated
// parameter carries EmptyTypeAnnotation, a receiver the enclosing type.
type Param struct {
	Type      Expr
	Name      *Ident
	KwargOnly bool
}

// Decl is a function signature.
type Decl struct {
	Rng        source.Range
	Params     []*Param
	ReturnType Expr
}

// Def is a function or method definition.
type Def struct {
	Name *Ident
	Decl *Decl
	Body []Stmt
}

// Property is a class property with a getter and an optional setter.
type Property struct {
	Rng    source.Range
	Name   *Ident
	Getter *Def
	Setter *Def
}

type ClassDef struct {
	Name       *Ident
	Methods    []*Def
	Properties []*Property
}

func (n *ExprStmt) Range() source.Range  { return n.Expr.Range() }
func (n *Assign) Range() source.Range    { return n.LHS[0].Range() }
func (n *Delete) Range() source.Range    { return n.Target.Range() }
func (n *Return) Range() source.Range    { return n.Rng }
func (n *Raise) Range() source.Range     { return n.Rng }
func (n *Assert) Range() source.Range    { return n.Rng }
func (n *AugAssign) Range() source.Range { return n.LHS.Range() }
func (n *While) Range() source.Range     { return n.Rng }
func (n *For) Range() source.Range       { return n.Rng }
func (n *If) Range() source.Range        { return n.Rng }
func (n *Pass) Range() source.Range      { return n.Rng }
func (n *Break) Range() source.Range     { return n.Rng }
func (n *Continue) Range() source.Range  { return n.Rng }
func (n *With) Range() source.Range      { return n.Rng }
func (n *WithItem) Range() source.Range  { return n.Rng }
func (n *Param) Range() source.Range     { return n.Name.Rng }
func (n *Decl) Range() source.Range      { return n.Rng }
func (n *Def) Range() source.Range       { return n.Name.Rng }
func (n *Property) Range() source.Range  { return n.Rng }
func (n *ClassDef) Range() source.Range  { return n.Name.Rng }

func (*ExprStmt) Kind() Kind  { return KindExprStmt }
func (*Assign) Kind() Kind    { return KindAssign }
func (*Delete) Kind() Kind    { return KindDelete }
func (*Return) Kind() Kind    { return KindReturn }
func (*Raise) Kind() Kind     { return KindRaise }
func (*Assert) Kind() Kind    { return KindAssert }
func (*AugAssign) Kind() Kind { return KindAugAssign }
func (*While) Kind() Kind     { return KindWhile }
func (*For) Kind() Kind       { return KindFor }
func (*If) Kind() Kind        { return KindIf }
func (*Pass) Kind() Kind      { return KindPass }
func (*Break) Kind() Kind     { return KindBreak }
func (*Continue) Kind() Kind  { return KindContinue }
func (*With) Kind() Kind      { return KindWith }
func (*WithItem) Kind() Kind  { return KindWithItem }
func (*Param) Kind() Kind     { return KindParam }
func (*Decl) Kind() Kind      { return KindDecl }
func (*Def) Kind() Kind       { return KindDef }
func (*Property) Kind() Kind  { return KindProperty }
func (*ClassDef) Kind() Kind  { return KindClassDef }

func (*ExprStmt) stmtNode()  {}
func (*Assign) stmtNode()    {}
func (*Delete) stmtNode()    {}
func (*Return) stmtNode()    {}
func (*Raise) stmtNode()     {}
func (*Assert) stmtNode()    {}
func (*AugAssign) stmtNode() {}
func (*While) stmtNode()     {}
func (*For) stmtNode()       {}
func (*If) stmtNode()        {}
func (*Pass) stmtNode()      {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*With) stmtNode()      {}
func (*Def) stmtNode()       {}
