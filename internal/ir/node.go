package ir

import "github.com/roach88/jitfront/internal/source"

// Kind names a node type.
type Kind string

const (
	KindIdent               Kind = "Ident"
	KindVar                 Kind = "Var"
	KindTrue                Kind = "TrueLiteral"
	KindFalse               Kind = "FalseLiteral"
	KindNone                Kind = "NoneLiteral"
	KindDots                Kind = "Dots"
	KindEmptyTypeAnnotation Kind = "EmptyTypeAnnotation"
	KindConst               Kind = "Const"
	KindStringLiteral       Kind = "StringLiteral"
	KindBinOp               Kind = "BinOp"
	KindUnaryOp             Kind = "UnaryOp"
	KindTernaryIf           Kind = "TernaryIf"
	KindApply               Kind = "Apply"
	KindAttribute           Kind = "Attribute"
	KindSelect              Kind = "Select"
	KindSubscript           Kind = "Subscript"
	KindSliceExpr           Kind = "SliceExpr"
	KindListLiteral         Kind = "ListLiteral"
	KindTupleLiteral        Kind = "TupleLiteral"
	KindDictLiteral         Kind = "DictLiteral"
	KindListComp            Kind = "ListComp"
	KindStarred             Kind = "Starred"

	KindExprStmt  Kind = "ExprStmt"
	KindAssign    Kind = "Assign"
	KindDelete    Kind = "Delete"
	KindReturn    Kind = "Return"
	KindRaise     Kind = "Raise"
	KindAssert    Kind = "Assert"
	KindAugAssign Kind = "AugAssign"
	KindWhile     Kind = "While"
	KindFor       Kind = "For"
	KindIf        Kind = "If"
	KindPass      Kind = "Pass"
	KindBreak     Kind = "Break"
	KindContinue  Kind = "Continue"
	KindWith      Kind = "With"
	KindWithItem  Kind = "WithItem"

	KindParam    Kind = "Param"
	KindDecl     Kind = "Decl"
	KindDef      Kind = "Def"
	KindProperty Kind = "Property"
	KindClassDef Kind = "ClassDef"
)

// Node is implemented by every IR node.
type Node interface {
	Range() source.Range
	Kind() Kind
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}
