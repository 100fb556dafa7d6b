package compiler

import (
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/syntax"
)

const varargKwargErr = "Compiled functions can't take variable number of arguments " +
	"or use keyword-only arguments with defaults"

// paramList builds the ordered parameters: positional ones first, then
// keyword-only ones. `*args`, `**kwargs` and defaulted keyword-only
// parameters are rejected.
func (b *builder) paramList(args *syntax.Arguments, selfName string) ([]*ir.Param, error) {
	if args == nil {
		return nil, nil
	}
	for _, variadic := range []*syntax.Arg{args.Kwarg, args.Vararg} {
		if variadic != nil {
			// Cover the name and the star before it.
			r := b.ctx.MakeRange(variadic.Lineno, variadic.ColOffset-1, variadic.ColOffset+len(variadic.Arg))
			return nil, notSupported(r, varargKwargErr)
		}
	}
	for _, def := range args.KwDefaults {
		if def == nil {
			continue
		}
		built, err := b.expr(def)
		if err != nil {
			return nil, err
		}
		return nil, notSupported(built.Range(), varargKwargErr)
	}

	params := make([]*ir.Param, 0, len(args.Args)+len(args.Kwonlyargs))
	for _, a := range args.Args {
		p, err := b.param(a, selfName, false)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	for _, a := range args.Kwonlyargs {
		p, err := b.param(a, selfName, true)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// param builds one parameter. An unannotated receiver is typed as the
// enclosing class; any other unannotated parameter gets an explicit empty
// annotation.
func (b *builder) param(a *syntax.Arg, selfName string, kwargOnly bool) (*ir.Param, error) {
	r := b.rangeAt(a.Pos, len(a.Arg))
	var typ ir.Expr
	switch {
	case a.Annotation != nil:
		built, err := b.expr(a.Annotation)
		if err != nil {
			return nil, err
		}
		typ = built
	case selfName != "" && a.Arg == "self":
		typ = ir.NewVar(r, selfName)
	default:
		typ = &ir.EmptyTypeAnnotation{Rng: r}
	}
	return &ir.Param{Type: typ, Name: &ir.Ident{Rng: r, Name: a.Arg}, KwargOnly: kwargOnly}, nil
}
