package compiler

import (
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/source"
	"github.com/roach88/jitfront/internal/syntax"
)

// builder translates the syntax tree of one unit. It holds nothing but the
// read-only source context, so a builder may be copied freely.
type builder struct {
	ctx *source.Context
}

// BuildExpr translates a single expression against ctx.
func BuildExpr(ctx *source.Context, e syntax.Expr) (ir.Expr, error) {
	b := &builder{ctx: ctx}
	out, err := b.expr(e)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildStmts translates a statement block against ctx. Docstrings are
// dropped.
func BuildStmts(ctx *source.Context, ss []syntax.Stmt) ([]ir.Stmt, error) {
	b := &builder{ctx: ctx}
	return b.stmts(ss)
}

// rangeAt is the span of length bytes starting at p.
func (b *builder) rangeAt(p syntax.Pos, length int) source.Range {
	return b.ctx.MakeRange(p.Lineno, p.ColOffset, p.ColOffset+length)
}

func (b *builder) stmts(ss []syntax.Stmt) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, 0, len(ss))
	for _, s := range ss {
		built, err := b.stmt(s)
		if err != nil {
			return nil, err
		}
		if built != nil {
			out = append(out, built)
		}
	}
	return out, nil
}

// stmt dispatches on the statement kind. A nil statement with a nil error
// means the statement translates to nothing.
func (b *builder) stmt(s syntax.Stmt) (ir.Stmt, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		return b.exprStmt(s)
	case *syntax.Assign:
		return b.assign(s)
	case *syntax.AnnAssign:
		return b.annAssign(s)
	case *syntax.Delete:
		return b.delete(s)
	case *syntax.Return:
		return b.ret(s)
	case *syntax.Raise:
		return b.raise(s)
	case *syntax.Assert:
		return b.assert(s)
	case *syntax.AugAssign:
		return b.augAssign(s)
	case *syntax.While:
		return b.while(s)
	case *syntax.For:
		return b.forLoop(s)
	case *syntax.If:
		return b.ifStmt(s)
	case *syntax.Print:
		return b.print(s)
	case *syntax.Pass:
		return &ir.Pass{Rng: b.rangeAt(s.Pos, len("pass"))}, nil
	case *syntax.Break:
		return &ir.Break{Rng: b.rangeAt(s.Pos, len("break"))}, nil
	case *syntax.Continue:
		return &ir.Continue{Rng: b.rangeAt(s.Pos, len("continue"))}, nil
	case *syntax.With:
		return b.with(s)
	default:
		return nil, unsupportedNode(b, s, "")
	}
}

// expr dispatches on the expression kind.
func (b *builder) expr(e syntax.Expr) (ir.Expr, error) {
	switch e := e.(type) {
	case *syntax.Attribute:
		return b.attribute(e)
	case *syntax.Call:
		return b.call(e)
	case *syntax.Ellipsis:
		return &ir.Dots{Rng: b.rangeAt(e.Pos, len("..."))}, nil
	case *syntax.Name:
		return b.name(e)
	case *syntax.NameConstant:
		return b.nameConstant(e)
	case *syntax.BinOp:
		return b.binOp(e)
	case *syntax.UnaryOp:
		return b.unaryOp(e)
	case *syntax.BoolOp:
		return b.boolOp(e)
	case *syntax.IfExp:
		return b.ifExp(e)
	case *syntax.Compare:
		return b.compare(e)
	case *syntax.Subscript:
		return b.subscript(e)
	case *syntax.List:
		return b.list(e)
	case *syntax.Tuple:
		return b.tuple(e)
	case *syntax.Dict:
		return b.dict(e)
	case *syntax.Num:
		return b.num(e)
	case *syntax.Str:
		return &ir.StringLiteral{Rng: b.rangeAt(e.Pos, 1), Value: e.Value}, nil
	case *syntax.Bytes:
		return nil, semantic(b.rangeAt(e.Pos, 1), "Unknown Constant expression type")
	case *syntax.JoinedStr:
		return b.joinedStr(e)
	case *syntax.ListComp:
		return b.listComp(e)
	case *syntax.Starred:
		return b.starred(e)
	default:
		return nil, unsupportedNode(b, e, "")
	}
}

func (b *builder) exprs(es []syntax.Expr) ([]ir.Expr, error) {
	out := make([]ir.Expr, 0, len(es))
	for _, e := range es {
		built, err := b.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// optExpr translates e when present.
func (b *builder) optExpr(e syntax.Expr) (ir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return b.expr(e)
}
