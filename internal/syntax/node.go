package syntax

// Pos is the start position of a node.
type Pos struct {
	Lineno    int // 1-based line
	ColOffset int // byte column
}

// Position returns the node's start position.
func (p Pos) Position() Pos { return p }

// Node is implemented by every statement and expression.
type Node interface {
	Position() Pos
	// KindName is the host grammar's name for the node kind.
	KindName() string
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// SliceKind is the subscript part of a Subscript expression.
type SliceKind interface {
	KindName() string
	sliceNode()
}

// Module is the result of parsing a snippet.
type Module struct {
	Body []Stmt
}

// Arguments is a function's parameter list.
type Arguments struct {
	Args       []*Arg
	Vararg     *Arg
	Kwonlyargs []*Arg
	// KwDefaults parallels Kwonlyargs; entries are nil for parameters
	// without a default.
	KwDefaults []Expr
	Kwarg      *Arg
	Defaults   []Expr
}

// Arg is one parameter.
type Arg struct {
	Pos
	Arg        string
	Annotation Expr
}

// Keyword is a call keyword argument. Arg is empty for `**value`.
type Keyword struct {
	Arg   string
	Value Expr
}

// WithItem is one context manager of a with statement.
type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr
}

// Comprehension is one `for ... in ... if ...` clause.
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ExceptHandler is one except clause of a try statement.
type ExceptHandler struct {
	Pos
	Type Expr
	Name string
	Body []Stmt
}

// Alias is one imported name.
type Alias struct {
	Name   string
	Asname string
}

// FuncType is a signature written as `(T1, T2) -> R`, the form used by
// signature type comments.
type FuncType struct {
	Argtypes []Expr
	Returns  Expr
}
