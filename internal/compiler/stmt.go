package compiler

import (
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/syntax"
)

func (b *builder) exprStmt(s *syntax.ExprStmt) (ir.Stmt, error) {
	// A bare string statement is a docstring.
	if _, ok := s.Value.(*syntax.Str); ok {
		return nil, nil
	}
	e, err := b.expr(s.Value)
	if err != nil {
		return nil, err
	}
	return &ir.ExprStmt{Expr: e}, nil
}

func (b *builder) assign(s *syntax.Assign) (ir.Stmt, error) {
	rhs, err := b.expr(s.Value)
	if err != nil {
		return nil, err
	}
	lhs, err := b.exprs(s.Targets)
	if err != nil {
		return nil, err
	}
	return &ir.Assign{LHS: lhs, RHS: rhs}, nil
}

func (b *builder) annAssign(s *syntax.AnnAssign) (ir.Stmt, error) {
	if s.Value == nil {
		return nil, unsupportedNode(b, s, "without assigned value")
	}
	rhs, err := b.expr(s.Value)
	if err != nil {
		return nil, err
	}
	lhs, err := b.expr(s.Target)
	if err != nil {
		return nil, err
	}
	typ, err := b.expr(s.Annotation)
	if err != nil {
		return nil, err
	}
	return &ir.Assign{LHS: []ir.Expr{lhs}, RHS: rhs, Type: typ}, nil
}

func (b *builder) delete(s *syntax.Delete) (ir.Stmt, error) {
	if len(s.Targets) > 1 {
		return nil, notSupported(b.rangeAt(s.Pos, len("del")), "del with more than one operand is not supported")
	}
	target, err := b.expr(s.Targets[0])
	if err != nil {
		return nil, err
	}
	return &ir.Delete{Target: target}, nil
}

func (b *builder) ret(s *syntax.Return) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("return"))
	value, err := b.optExpr(s.Value)
	if err != nil {
		return nil, err
	}
	return &ir.Return{Rng: r, Value: value}, nil
}

func (b *builder) raise(s *syntax.Raise) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("raise"))
	if s.Exc == nil {
		return nil, notSupported(r, "raise statements without an exception aren't supported")
	}
	if s.Cause != nil {
		return nil, notSupported(r, "raise statements with a cause aren't supported")
	}
	exc, err := b.expr(s.Exc)
	if err != nil {
		return nil, err
	}
	return &ir.Raise{Rng: r, Expr: exc}, nil
}

func (b *builder) assert(s *syntax.Assert) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("assert"))
	test, err := b.expr(s.Test)
	if err != nil {
		return nil, err
	}
	msg, err := b.optExpr(s.Msg)
	if err != nil {
		return nil, err
	}
	return &ir.Assert{Rng: r, Test: test, Msg: msg}, nil
}

func (b *builder) augAssign(s *syntax.AugAssign) (ir.Stmt, error) {
	lhs, err := b.expr(s.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := b.expr(s.Value)
	if err != nil {
		return nil, err
	}
	op, ok := augassignTokens[s.Op]
	if !ok {
		// The operator token has no location of its own; point at the `=`
		// of `op=`, found by scanning back from the value.
		r, found := b.ctx.FindBefore(rhs.Range().Start, "=", -1, 0)
		if !found {
			r = lhs.Range()
		}
		return nil, notSupported(r, "unsupported kind of augmented assignment: %s", s.Op)
	}
	return &ir.AugAssign{LHS: lhs, Op: op, RHS: rhs}, nil
}

func (b *builder) while(s *syntax.While) (ir.Stmt, error) {
	if len(s.Orelse) > 0 {
		return nil, &FrontendError{
			Kind:    KindNotSupported,
			Message: "else branches of while loops aren't supported",
		}
	}
	r := b.rangeAt(s.Pos, len("while"))
	cond, err := b.expr(s.Test)
	if err != nil {
		return nil, err
	}
	body, err := b.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	return &ir.While{Rng: r, Cond: cond, Body: body}, nil
}

func (b *builder) forLoop(s *syntax.For) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("for"))
	if len(s.Orelse) > 0 {
		return nil, notSupported(r, "else branches of for loops aren't supported")
	}
	target, err := b.expr(s.Target)
	if err != nil {
		return nil, err
	}
	iter, err := b.expr(s.Iter)
	if err != nil {
		return nil, err
	}
	body, err := b.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	return &ir.For{Rng: r, Targets: []ir.Expr{target}, Iters: []ir.Expr{iter}, Body: body}, nil
}

func (b *builder) ifStmt(s *syntax.If) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("if"))
	cond, err := b.expr(s.Test)
	if err != nil {
		return nil, err
	}
	then, err := b.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	els, err := b.stmts(s.Orelse)
	if err != nil {
		return nil, err
	}
	return &ir.If{Rng: r, Cond: cond, TrueBranch: then, FalseBranch: els}, nil
}

// print lowers the legacy print statement to a call of the print builtin.
func (b *builder) print(s *syntax.Print) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("print"))
	if s.Dest != nil {
		return nil, notSupported(r, "print statements with non-default destinations aren't supported")
	}
	args, err := b.exprs(s.Values)
	if err != nil {
		return nil, err
	}
	return &ir.ExprStmt{Expr: &ir.Apply{Callee: ir.NewVar(r, "print"), Inputs: args}}, nil
}

func (b *builder) with(s *syntax.With) (ir.Stmt, error) {
	r := b.rangeAt(s.Pos, len("with"))
	items := make([]*ir.WithItem, 0, len(s.Items))
	for _, it := range s.Items {
		item, err := b.withItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	body, err := b.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	return &ir.With{Rng: r, Items: items, Body: body}, nil
}

func (b *builder) withItem(it *syntax.WithItem) (*ir.WithItem, error) {
	r := b.rangeAt(it.ContextExpr.Position(), len("with"))
	target, err := b.expr(it.ContextExpr)
	if err != nil {
		return nil, err
	}
	vars, err := b.optExpr(it.OptionalVars)
	if err != nil {
		return nil, err
	}
	return &ir.WithItem{Rng: r, Target: target, Var: vars}, nil
}
