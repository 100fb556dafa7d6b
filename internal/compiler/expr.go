package compiler

import (
	"strings"

	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/source"
	"github.com/roach88/jitfront/internal/syntax"
)

// attribute locates the attribute name by scanning the raw text forward
// from one past the end of the base, skipping whitespace, for as many
// bytes as the name has. The syntax tree gives the name no position of its
// own, so comments or line breaks between the dot and the name desync it.
func (b *builder) attribute(e *syntax.Attribute) (ir.Expr, error) {
	base, err := b.expr(e.Value)
	if err != nil {
		return nil, err
	}
	start := b.ctx.SkipSpaceForward(int(base.Range().End) + 1)
	r := b.ctx.MakeRawRange(start, start+len(e.Attr))
	return &ir.Select{Value: base, Selector: &ir.Ident{Rng: r, Name: e.Attr}}, nil
}

func (b *builder) call(e *syntax.Call) (ir.Expr, error) {
	callee, err := b.expr(e.Func)
	if err != nil {
		return nil, err
	}
	args, err := b.exprs(e.Args)
	if err != nil {
		return nil, err
	}
	if e.Starargs != nil {
		star, err := b.expr(e.Starargs)
		if err != nil {
			return nil, err
		}
		args = append(args, &ir.Starred{Rng: star.Range(), Value: star})
	}
	attrs := make([]*ir.Attribute, 0, len(e.Keywords))
	for _, kw := range e.Keywords {
		value, err := b.expr(kw.Value)
		if err != nil {
			return nil, err
		}
		if kw.Arg == "" {
			return nil, notSupported(value.Range(), "keyword-arg expansion is not supported")
		}
		attrs = append(attrs, &ir.Attribute{Name: &ir.Ident{Rng: value.Range(), Name: kw.Arg}, Value: value})
	}
	return &ir.Apply{Callee: callee, Inputs: args, Attributes: attrs}, nil
}

func (b *builder) name(e *syntax.Name) (ir.Expr, error) {
	r := b.rangeAt(e.Pos, len(e.ID))
	if strings.HasPrefix(e.ID, reservedPrefix) {
		return nil, notSupported(r, "names of variables used in compiled functions can't start with %s", reservedPrefix)
	}
	switch e.ID {
	case "True":
		return &ir.TrueLiteral{Rng: r}, nil
	case "False":
		return &ir.FalseLiteral{Rng: r}, nil
	case "None":
		return &ir.NoneLiteral{Rng: r}, nil
	}
	return ir.NewVar(r, e.ID), nil
}

func (b *builder) nameConstant(e *syntax.NameConstant) (ir.Expr, error) {
	r := b.rangeAt(e.Pos, len(e.Value.String()))
	switch e.Value {
	case syntax.ConstTrue:
		return &ir.TrueLiteral{Rng: r}, nil
	case syntax.ConstFalse:
		return &ir.FalseLiteral{Rng: r}, nil
	case syntax.ConstNone:
		return &ir.NoneLiteral{Rng: r}, nil
	}
	return nil, semantic(r, "Name constant value unsupported: %s", e.Value)
}

// gap is the text between two operands, where their operator sits.
func (b *builder) gap(lhs, rhs ir.Expr) source.Range {
	return b.ctx.MakeRawRange(int(lhs.Range().End), int(rhs.Range().Start))
}

func (b *builder) binOp(e *syntax.BinOp) (ir.Expr, error) {
	lhs, err := b.expr(e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := b.expr(e.Right)
	if err != nil {
		return nil, err
	}
	if e.Op == syntax.Div && !b.ctx.UsesTrueDivision() {
		return nil, semantic(b.gap(lhs, rhs),
			"Division of ints in compiled code uses true division semantics. "+
				"Please put `from __future__ import division` at the top of your file")
	}
	op, ok := binopTokens[e.Op]
	if !ok {
		return nil, notSupported(b.gap(lhs, rhs), "unsupported binary operator: %s", e.Op)
	}
	return &ir.BinOp{Op: op, LHS: lhs, RHS: rhs}, nil
}

func (b *builder) unaryOp(e *syntax.UnaryOp) (ir.Expr, error) {
	operand, err := b.expr(e.Operand)
	if err != nil {
		return nil, err
	}
	op, ok := unopTokens[e.Op]
	if !ok {
		// The operator is a single character for every unary form the
		// table lacks.
		r := b.rangeAt(e.Pos, 1)
		return nil, notSupported(b.ctx.MakeRawRange(int(r.Start), int(operand.Range().End)),
			"unsupported unary operator: %s", e.Op)
	}
	return &ir.UnaryOp{Rng: b.rangeAt(e.Pos, len(op)), Op: op, Operand: operand}, nil
}

// boolOp folds `a op b op c` to the left: ((a op b) op c).
func (b *builder) boolOp(e *syntax.BoolOp) (ir.Expr, error) {
	if len(e.Values) < 2 {
		return nil, semantic(b.rangeAt(e.Pos, 1),
			"internal error: expected at least 2 values in BoolOp, but got %d", len(e.Values))
	}
	operands, err := b.exprs(e.Values)
	if err != nil {
		return nil, err
	}
	op, ok := boolopTokens[e.Op]
	if !ok {
		return nil, notSupported(b.gap(operands[0], operands[1]), "unsupported boolean operator: %s", e.Op)
	}
	lhs := operands[0]
	for _, rhs := range operands[1:] {
		lhs = &ir.BinOp{Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (b *builder) ifExp(e *syntax.IfExp) (ir.Expr, error) {
	cond, err := b.expr(e.Test)
	if err != nil {
		return nil, err
	}
	then, err := b.expr(e.Body)
	if err != nil {
		return nil, err
	}
	els, err := b.expr(e.Orelse)
	if err != nil {
		return nil, err
	}
	return &ir.TernaryIf{Cond: cond, TrueExpr: then, FalseExpr: els}, nil
}

// compare turns `a < b < c` into `(a < b) and (b < c)`. Each link gets
// its own copy of the shared middle operand so the result stays a tree.
func (b *builder) compare(e *syntax.Compare) (ir.Expr, error) {
	operands := append([]syntax.Expr{e.Left}, e.Comparators...)
	lhs, err := b.expr(operands[0])
	if err != nil {
		return nil, err
	}
	var result ir.Expr
	for i, cmp := range e.Ops {
		rhs, err := b.expr(operands[i+1])
		if err != nil {
			return nil, err
		}
		op, ok := cmpopTokens[cmp]
		r := b.gap(lhs, rhs)
		if !ok {
			return nil, notSupported(r, "unsupported comparison operator: %s", cmp)
		}

		var link ir.Expr
		if cmp == syntax.NotIn {
			link = &ir.UnaryOp{Rng: r, Op: "not", Operand: &ir.BinOp{Op: "in", LHS: lhs, RHS: rhs}}
		} else {
			link = &ir.BinOp{Op: op, LHS: lhs, RHS: rhs}
		}

		if result == nil {
			result = link
		} else {
			result = &ir.BinOp{Op: "and", LHS: result, RHS: link}
		}

		if i+1 < len(e.Ops) {
			if lhs, err = b.expr(operands[i+1]); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (b *builder) list(e *syntax.List) (ir.Expr, error) {
	elems, err := b.exprs(e.Elts)
	if err != nil {
		return nil, err
	}
	return &ir.ListLiteral{Rng: b.rangeAt(e.Pos, 1), Elems: elems}, nil
}

func (b *builder) tuple(e *syntax.Tuple) (ir.Expr, error) {
	elems, err := b.exprs(e.Elts)
	if err != nil {
		return nil, err
	}
	return &ir.TupleLiteral{Rng: b.rangeAt(e.Pos, 1), Elems: elems}, nil
}

func (b *builder) dict(e *syntax.Dict) (ir.Expr, error) {
	r := b.rangeAt(e.Pos, 1)
	keys := make([]ir.Expr, 0, len(e.Keys))
	values := make([]ir.Expr, 0, len(e.Values))
	for i, k := range e.Keys {
		if k == nil {
			value, err := b.expr(e.Values[i])
			if err != nil {
				return nil, err
			}
			return nil, notSupported(value.Range(), "dict unpacking is not supported")
		}
		key, err := b.expr(k)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	for _, v := range e.Values {
		value, err := b.expr(v)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return &ir.DictLiteral{Rng: r, Keys: keys, Values: values}, nil
}

func (b *builder) num(e *syntax.Num) (ir.Expr, error) {
	r := b.rangeAt(e.Pos, len(e.Text))
	if e.Kind == syntax.NumImaginary {
		return nil, semantic(r, "Unknown Constant expression type")
	}
	return &ir.Const{Rng: r, Value: e.Text}, nil
}

func (b *builder) listComp(e *syntax.ListComp) (ir.Expr, error) {
	r := b.rangeAt(e.Pos, 1)
	if len(e.Generators) > 1 {
		return nil, notSupported(r, "multiple comprehension generators not supported yet")
	}
	gen := e.Generators[0]
	if len(gen.Ifs) != 0 {
		return nil, notSupported(r, "comprehension ifs not supported yet")
	}
	elt, err := b.expr(e.Elt)
	if err != nil {
		return nil, err
	}
	target, err := b.expr(gen.Target)
	if err != nil {
		return nil, err
	}
	iter, err := b.expr(gen.Iter)
	if err != nil {
		return nil, err
	}
	return &ir.ListComp{Rng: r, Elt: elt, Target: target, Iter: iter}, nil
}

func (b *builder) starred(e *syntax.Starred) (ir.Expr, error) {
	value, err := b.expr(e.Value)
	if err != nil {
		return nil, err
	}
	return &ir.Starred{Rng: b.rangeAt(e.Pos, 1), Value: value}, nil
}
