package syntax

// FunctionDef is a `def` statement. Lineno is the line of the first
// decorator when decorators are present.
type FunctionDef struct {
	Pos
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
	EndLineno     int
}

// AsyncFunctionDef is an `async def` statement.
type AsyncFunctionDef struct {
	FunctionDef
}

// ClassDef is a `class` statement.
type ClassDef struct {
	Pos
	Name          string
	Bases         []Expr
	Keywords      []*Keyword
	Body          []Stmt
	DecoratorList []Expr
	EndLineno     int
}

type Return struct {
	Pos
	Value Expr
}

type Delete struct {
	Pos
	Targets []Expr
}

// Assign is `t1 = t2 = ... = value`.
type Assign struct {
	Pos
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	Pos
	Target Expr
	Op     Operator
	Value  Expr
}

// AnnAssign is `target: annotation [= value]`. Simple is set when the
// target is a bare name not wrapped in parentheses.
type AnnAssign struct {
	Pos
	Target     Expr
	Annotation Expr
	Value      Expr
	Simple     bool
}

type For struct {
	Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type AsyncFor struct {
	For
}

type While struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type If struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Pos
	Items []*WithItem
	Body  []Stmt
}

type AsyncWith struct {
	With
}

// Raise is `raise [exc [from cause]]`.
type Raise struct {
	Pos
	Exc   Expr
	Cause Expr
}

type Try struct {
	Pos
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

type Assert struct {
	Pos
	Test Expr
	Msg  Expr
}

type Import struct {
	Pos
	Names []*Alias
}

type ImportFrom struct {
	Pos
	Module string
	Names  []*Alias
	Level  int
}

type Global struct {
	Pos
	Names []string
}

type Nonlocal struct {
	Pos
	Names []string
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Pos
	Value Expr
}

type Pass struct{ Pos }

type Break struct{ Pos }

type Continue struct{ Pos }

// Print is the legacy print statement, only produced in legacy mode.
type Print struct {
	Pos
	Dest   Expr
	Values []Expr
	Nl     bool
}

func (*FunctionDef) KindName() string      { return "FunctionDef" }
func (*AsyncFunctionDef) KindName() string { return "AsyncFunctionDef" }
func (*ClassDef) KindName() string         { return "ClassDef" }
func (*Return) KindName() string           { return "Return" }
func (*Delete) KindName() string           { return "Delete" }
func (*Assign) KindName() string           { return "Assign" }
func (*AugAssign) KindName() string        { return "AugAssign" }
func (*AnnAssign) KindName() string        { return "AnnAssign" }
func (*For) KindName() string              { return "For" }
func (*AsyncFor) KindName() string         { return "AsyncFor" }
func (*While) KindName() string            { return "While" }
func (*If) KindName() string               { return "If" }
func (*With) KindName() string             { return "With" }
func (*AsyncWith) KindName() string        { return "AsyncWith" }
func (*Raise) KindName() string            { return "Raise" }
func (*Try) KindName() string              { return "Try" }
func (*Assert) KindName() string           { return "Assert" }
func (*Import) KindName() string           { return "Import" }
func (*ImportFrom) KindName() string       { return "ImportFrom" }
func (*Global) KindName() string           { return "Global" }
func (*Nonlocal) KindName() string         { return "Nonlocal" }
func (*ExprStmt) KindName() string         { return "Expr" }
func (*Pass) KindName() string             { return "Pass" }
func (*Break) KindName() string            { return "Break" }
func (*Continue) KindName() string         { return "Continue" }
func (*Print) KindName() string            { return "Print" }

func (*FunctionDef) stmtNode()      {}
func (*AsyncFunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()         {}
func (*Return) stmtNode()           {}
func (*Delete) stmtNode()           {}
func (*Assign) stmtNode()           {}
func (*AugAssign) stmtNode()        {}
func (*AnnAssign) stmtNode()        {}
func (*For) stmtNode()              {}
func (*AsyncFor) stmtNode()         {}
func (*While) stmtNode()            {}
func (*If) stmtNode()               {}
func (*With) stmtNode()             {}
func (*AsyncWith) stmtNode()        {}
func (*Raise) stmtNode()            {}
func (*Try) stmtNode()              {}
func (*Assert) stmtNode()           {}
func (*Import) stmtNode()           {}
func (*ImportFrom) stmtNode()       {}
func (*Global) stmtNode()           {}
func (*Nonlocal) stmtNode()         {}
func (*ExprStmt) stmtNode()         {}
func (*Pass) stmtNode()             {}
func (*Break) stmtNode()            {}
func (*Continue) stmtNode()         {}
func (*Print) stmtNode()            {}
