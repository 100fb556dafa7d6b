package syntax

// BoolOp is `a and b and c` or `a or b or c`.
type BoolOp struct {
	Pos
	Op     BoolOperator
	Values []Expr
}

// NamedExpr is an assignment expression `target := value`.
type NamedExpr struct {
	Pos
	Target Expr
	Value  Expr
}

type BinOp struct {
	Pos
	Left  Expr
	Op    Operator
	Right Expr
}

type UnaryOp struct {
	Pos
	Op      UnaryOperator
	Operand Expr
}

type Lambda struct {
	Pos
	Args *Arguments
	Body Expr
}

// IfExp is `body if test else orelse`.
type IfExp struct {
	Pos
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display. Keys entries are nil for `**mapping` items.
type Dict struct {
	Pos
	Keys   []Expr
	Values []Expr
}

type Set struct {
	Pos
	Elts []Expr
}

type ListComp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type SetComp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type DictComp struct {
	Pos
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

type GeneratorExp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type Await struct {
	Pos
	Value Expr
}

type Yield struct {
	Pos
	Value Expr
}

type YieldFrom struct {
	Pos
	Value Expr
}

// Compare is a comparison chain `left op0 c0 op1 c1 ...`.
type Compare struct {
	Pos
	Left        Expr
	Ops         []CmpOperator
	Comparators []Expr
}

// Call is a call expression. Starred positional arguments appear in Args
// as *Starred. Starargs is the older dedicated `*args` slot; the parser
// never fills it but trees built by hand may.
type Call struct {
	Pos
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
	Starargs Expr
}

// FormattedValue is one `{value!c:spec}` field of an f-string.
type FormattedValue struct {
	Pos
	Value      Expr
	Conversion int
	FormatSpec Expr
}

// JoinedStr is an f-string.
type JoinedStr struct {
	Pos
	Values []Expr
}

// Num is a numeric literal; Text is the literal as written.
type Num struct {
	Pos
	Text string
	Kind NumKind
}

// Str is a string literal with escapes resolved. Adjacent literals are
// already concatenated.
type Str struct {
	Pos
	Value string
}

type Bytes struct {
	Pos
	Value string
}

// NameConstant is True, False or None.
type NameConstant struct {
	Pos
	Value ConstValue
}

// Ellipsis is the `...` literal.
type Ellipsis struct{ Pos }

type Attribute struct {
	Pos
	Value Expr
	Attr  string
}

type Subscript struct {
	Pos
	Value Expr
	Slice SliceKind
}

type Starred struct {
	Pos
	Value Expr
}

type Name struct {
	Pos
	ID string
}

type List struct {
	Pos
	Elts []Expr
}

type Tuple struct {
	Pos
	Elts []Expr
}

func (*BoolOp) KindName() string         { return "BoolOp" }
func (*NamedExpr) KindName() string      { return "NamedExpr" }
func (*BinOp) KindName() string          { return "BinOp" }
func (*UnaryOp) KindName() string        { return "UnaryOp" }
func (*Lambda) KindName() string         { return "Lambda" }
func (*IfExp) KindName() string          { return "IfExp" }
func (*Dict) KindName() string           { return "Dict" }
func (*Set) KindName() string            { return "Set" }
func (*ListComp) KindName() string       { return "ListComp" }
func (*SetComp) KindName() string        { return "SetComp" }
func (*DictComp) KindName() string       { return "DictComp" }
func (*GeneratorExp) KindName() string   { return "GeneratorExp" }
func (*Await) KindName() string          { return "Await" }
func (*Yield) KindName() string          { return "Yield" }
func (*YieldFrom) KindName() string      { return "YieldFrom" }
func (*Compare) KindName() string        { return "Compare" }
func (*Call) KindName() string           { return "Call" }
func (*FormattedValue) KindName() string { return "FormattedValue" }
func (*JoinedStr) KindName() string      { return "JoinedStr" }
func (*Num) KindName() string            { return "Num" }
func (*Str) KindName() string            { return "Str" }
func (*Bytes) KindName() string          { return "Bytes" }
func (*NameConstant) KindName() string   { return "NameConstant" }
func (*Ellipsis) KindName() string       { return "Ellipsis" }
func (*Attribute) KindName() string      { return "Attribute" }
func (*Subscript) KindName() string      { return "Subscript" }
func (*Starred) KindName() string        { return "Starred" }
func (*Name) KindName() string           { return "Name" }
func (*List) KindName() string           { return "List" }
func (*Tuple) KindName() string          { return "Tuple" }

func (*BoolOp) exprNode()         {}
func (*NamedExpr) exprNode()      {}
func (*BinOp) exprNode()          {}
func (*UnaryOp) exprNode()        {}
func (*Lambda) exprNode()         {}
func (*IfExp) exprNode()          {}
func (*Dict) exprNode()           {}
func (*Set) exprNode()            {}
func (*ListComp) exprNode()       {}
func (*SetComp) exprNode()        {}
func (*DictComp) exprNode()       {}
func (*GeneratorExp) exprNode()   {}
func (*Await) exprNode()          {}
func (*Yield) exprNode()          {}
func (*YieldFrom) exprNode()      {}
func (*Compare) exprNode()        {}
func (*Call) exprNode()           {}
func (*FormattedValue) exprNode() {}
func (*JoinedStr) exprNode()      {}
func (*Num) exprNode()            {}
func (*Str) exprNode()            {}
func (*Bytes) exprNode()          {}
func (*NameConstant) exprNode()   {}
func (*Ellipsis) exprNode()       {}
func (*Attribute) exprNode()      {}
func (*Subscript) exprNode()      {}
func (*Starred) exprNode()        {}
func (*Name) exprNode()           {}
func (*List) exprNode()           {}
func (*Tuple) exprNode()          {}

// Index is a plain subscript `x[value]`. A comma-separated subscript
// without slices is an Index over a Tuple.
type Index struct {
	Value Expr
}

// Slice is `lower:upper:step`; any part may be nil.
type Slice struct {
	Lower Expr
	Upper Expr
	Step  Expr
}

// ExtSlice is a comma-separated subscript containing at least one Slice.
type ExtSlice struct {
	Dims []SliceKind
}

// EllipsisSlice is the legacy `x[...]` subscript form.
type EllipsisSlice struct{}

func (*Index) KindName() string         { return "Index" }
func (*Slice) KindName() string         { return "Slice" }
func (*ExtSlice) KindName() string      { return "ExtSlice" }
func (*EllipsisSlice) KindName() string { return "Ellipsis" }

func (*Index) sliceNode()         {}
func (*Slice) sliceNode()         {}
func (*ExtSlice) sliceNode()      {}
func (*EllipsisSlice) sliceNode() {}
