package compiler

import (
	"fmt"
	"sync"

	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/parser"
	"github.com/roach88/jitfront/internal/syntax"
)

const unusedStubSource = "def unused_fn(self: Any):\n\traise RuntimeError(\"Cannot call @unused methods\")"

// parseUnusedStub parses the replacement used for inactive functions once.
var parseUnusedStub = sync.OnceValues(func() (*syntax.FunctionDef, error) {
	mod, err := parser.ParseModule(unusedStubSource, 0)
	if err != nil {
		return nil, err
	}
	fn, ok := mod.Body[0].(*syntax.FunctionDef)
	if !ok {
		return nil, fmt.Errorf("unused stub parsed as %s", mod.Body[0].KindName())
	}
	return fn, nil
})

// unusedStub returns a copy of fn whose body raises when called. Variadic
// parameters and keyword-only defaults are removed and every remaining
// annotation becomes Any, so the signature always translates. fn is not
// modified.
func unusedStub(fn *syntax.FunctionDef) (*syntax.FunctionDef, error) {
	stub, err := parseUnusedStub()
	if err != nil {
		return nil, fmt.Errorf("parse unused stub: %w", err)
	}
	anyType := stub.Args.Args[0].Annotation

	out := *fn
	out.Body = stub.Body
	args := &syntax.Arguments{}
	if fn.Args != nil {
		args.Defaults = fn.Args.Defaults
		args.Args = retypeArgs(fn.Args.Args, anyType)
		args.Kwonlyargs = retypeArgs(fn.Args.Kwonlyargs, anyType)
		args.KwDefaults = make([]syntax.Expr, len(args.Kwonlyargs))
	}
	out.Args = args
	return &out, nil
}

func retypeArgs(in []*syntax.Arg, typ syntax.Expr) []*syntax.Arg {
	out := make([]*syntax.Arg, len(in))
	for i, a := range in {
		out[i] = &syntax.Arg{Pos: a.Pos, Arg: a.Arg, Annotation: typ}
	}
	return out
}

// decl builds the signature of fn. Its range is the `def` keyword, found
// below any decorators.
func (b *builder) decl(fn *syntax.FunctionDef, selfName string) (*ir.Decl, error) {
	r := b.ctx.MakeRange(fn.Lineno+len(fn.DecoratorList), fn.ColOffset, fn.ColOffset+len("def"))
	params, err := b.paramList(fn.Args, selfName)
	if err != nil {
		return nil, err
	}
	ret, err := b.optExpr(fn.Returns)
	if err != nil {
		return nil, err
	}
	return &ir.Decl{Rng: r, Params: params, ReturnType: ret}, nil
}

// def builds a full definition named defName. merge, when non-nil, may
// replace the declaration before the body is built.
func (b *builder) def(fn *syntax.FunctionDef, defName, selfName string, merge func(*ir.Decl) (*ir.Decl, error)) (*ir.Def, error) {
	decl, err := b.decl(fn, selfName)
	if err != nil {
		return nil, err
	}
	if merge != nil {
		if decl, err = merge(decl); err != nil {
			return nil, err
		}
	}
	body, err := b.stmts(fn.Body)
	if err != nil {
		return nil, err
	}
	return &ir.Def{Name: &ir.Ident{Rng: decl.Rng, Name: defName}, Decl: decl, Body: body}, nil
}

// classDef assembles a class from already built members. The range is the
// `class` keyword, found below any decorators.
func (b *builder) classDef(cls *syntax.ClassDef, methods []*ir.Def, props []*ir.Property, selfName string) *ir.ClassDef {
	r := b.ctx.MakeRange(cls.Lineno+len(cls.DecoratorList), cls.ColOffset, cls.ColOffset+len("class"))
	return &ir.ClassDef{Name: &ir.Ident{Rng: r, Name: selfName}, Methods: methods, Properties: props}
}
