package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jitfront/internal/syntax"
)

func parseFunc(t *testing.T, src string) *syntax.FunctionDef {
	t.Helper()
	mod, err := ParseModule(src, 0)
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*syntax.FunctionDef)
	require.True(t, ok, "expected FunctionDef, got %T", mod.Body[0])
	return fn
}

func parseExpr(t *testing.T, src string) syntax.Expr {
	t.Helper()
	e, err := ParseExpr(src)
	require.NoError(t, err)
	return e
}

// =============================================================================
// Lexer
// =============================================================================

func TestTokenizeIndentation(t *testing.T) {
	toks := tokenize("if x:\n    y\n\n    # note\nz\n")
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokName, TokName, TokOp, TokNewline,
		TokIndent, TokName, TokNewline,
		TokDedent, TokName, TokNewline,
		TokEOF,
	}, kinds)
}

func TestTokenizeJoinsBracketedLines(t *testing.T) {
	toks := tokenize("f(a,\n  b)\nc\n")
	require.Equal(t, TokName, toks[4].Kind)
	assert.Equal(t, "b", toks[4].Text)
	assert.Equal(t, 2, toks[4].Line)
	assert.Equal(t, 2, toks[4].Col)
	assert.Equal(t, TokNewline, toks[6].Kind)
	assert.Equal(t, "c", toks[7].Text)
}

func TestTokenizeOperatorsLongestMatch(t *testing.T) {
	toks := tokenize("x **= y // z\n")
	assert.Equal(t, "**=", toks[1].Text)
	assert.Equal(t, "//", toks[3].Text)
}

func TestTokenizeBadDedent(t *testing.T) {
	_, err := ParseModule("if x:\n    y\n  z\n", 0)
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
	assert.Contains(t, err.Error(), "unindent")
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := ParseModule("x = 'abc\n", 0)
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, 5, se.Col)
}

// =============================================================================
// Statements and positions
// =============================================================================

func TestParseFunctionPositions(t *testing.T) {
	fn := parseFunc(t, "def f(x, y: int) -> int:\n    return x + 1\n")
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, syntax.Pos{Lineno: 1, ColOffset: 0}, fn.Position())
	assert.Equal(t, 2, fn.EndLineno)
	require.Len(t, fn.Args.Args, 2)
	assert.Equal(t, syntax.Pos{Lineno: 1, ColOffset: 6}, fn.Args.Args[0].Position())
	assert.Equal(t, syntax.Pos{Lineno: 1, ColOffset: 9}, fn.Args.Args[1].Position())
	require.NotNil(t, fn.Args.Args[1].Annotation)

	ret, ok := fn.Body[0].(*syntax.Return)
	require.True(t, ok)
	assert.Equal(t, syntax.Pos{Lineno: 2, ColOffset: 4}, ret.Position())
	bin, ok := ret.Value.(*syntax.BinOp)
	require.True(t, ok)
	assert.Equal(t, syntax.Add, bin.Op)
	assert.Equal(t, syntax.Pos{Lineno: 2, ColOffset: 11}, bin.Position())
	num, ok := bin.Right.(*syntax.Num)
	require.True(t, ok)
	assert.Equal(t, "1", num.Text)
}

func TestParseDecoratedFunctionStartsAtDecorator(t *testing.T) {
	fn := parseFunc(t, "@torch.jit.unused\n@staticmethod\ndef g():\n    pass\n")
	assert.Equal(t, 1, fn.Lineno)
	assert.Len(t, fn.DecoratorList, 2)
	assert.Equal(t, 4, fn.EndLineno)
}

func TestParseVariadicParameters(t *testing.T) {
	fn := parseFunc(t, "def f(a, *args, b, c=1, **kwargs):\n    pass\n")
	args := fn.Args
	require.NotNil(t, args.Vararg)
	assert.Equal(t, "args", args.Vararg.Arg)
	assert.Equal(t, 10, args.Vararg.ColOffset)
	require.Len(t, args.Kwonlyargs, 2)
	require.Len(t, args.KwDefaults, 2)
	assert.Nil(t, args.KwDefaults[0])
	assert.NotNil(t, args.KwDefaults[1])
	require.NotNil(t, args.Kwarg)
	assert.Equal(t, "kwargs", args.Kwarg.Arg)
	assert.Equal(t, 26, args.Kwarg.ColOffset)
}

func TestParseAssignForms(t *testing.T) {
	fn := parseFunc(t, "def f():\n    a = b = 1\n    x: int = 2\n    y **= 3\n    z: int\n")
	require.Len(t, fn.Body, 4)

	assign := fn.Body[0].(*syntax.Assign)
	assert.Len(t, assign.Targets, 2)
	assert.IsType(t, &syntax.Num{}, assign.Value)

	ann := fn.Body[1].(*syntax.AnnAssign)
	assert.True(t, ann.Simple)
	assert.NotNil(t, ann.Value)

	aug := fn.Body[2].(*syntax.AugAssign)
	assert.Equal(t, syntax.Pow, aug.Op)

	bare := fn.Body[3].(*syntax.AnnAssign)
	assert.Nil(t, bare.Value)
}

func TestParseControlFlow(t *testing.T) {
	src := "def f(xs):\n" +
		"    for i in range(3):\n" +
		"        pass\n" +
		"    while i:\n" +
		"        break\n" +
		"    else:\n" +
		"        continue\n" +
		"    if a:\n" +
		"        pass\n" +
		"    elif b:\n" +
		"        pass\n" +
		"    with open(p) as fh, g():\n" +
		"        del fh\n"
	fn := parseFunc(t, src)
	require.Len(t, fn.Body, 4)

	loop := fn.Body[0].(*syntax.For)
	assert.IsType(t, &syntax.Name{}, loop.Target)
	assert.IsType(t, &syntax.Call{}, loop.Iter)

	w := fn.Body[1].(*syntax.While)
	assert.Len(t, w.Orelse, 1)

	cond := fn.Body[2].(*syntax.If)
	require.Len(t, cond.Orelse, 1)
	elif := cond.Orelse[0].(*syntax.If)
	assert.Equal(t, 10, elif.Lineno)

	with := fn.Body[3].(*syntax.With)
	require.Len(t, with.Items, 2)
	assert.NotNil(t, with.Items[0].OptionalVars)
	assert.Nil(t, with.Items[1].OptionalVars)
}

func TestParseUnmodeledStatements(t *testing.T) {
	src := "def f():\n" +
		"    import os\n" +
		"    from a.b import c as d\n" +
		"    global g\n" +
		"    try:\n" +
		"        pass\n" +
		"    except ValueError as e:\n" +
		"        raise\n" +
		"    finally:\n" +
		"        pass\n" +
		"    def inner():\n" +
		"        pass\n" +
		"    async def co():\n" +
		"        await x\n"
	fn := parseFunc(t, src)
	kinds := make([]string, 0, len(fn.Body))
	for _, s := range fn.Body {
		kinds = append(kinds, s.KindName())
	}
	assert.Equal(t, []string{"Import", "ImportFrom", "Global", "Try", "FunctionDef", "AsyncFunctionDef"}, kinds)
	assert.Equal(t, syntax.Pos{Lineno: 13, ColOffset: 4}, fn.Body[5].Position())
}

func TestParseYieldStatements(t *testing.T) {
	fn := parseFunc(t, "def f(x):\n    yield x\n    yield\n    yield from x\n    y = yield x\n")
	require.Len(t, fn.Body, 4)

	y := fn.Body[0].(*syntax.ExprStmt).Value.(*syntax.Yield)
	assert.Equal(t, syntax.Pos{Lineno: 2, ColOffset: 4}, y.Position())
	assert.IsType(t, &syntax.Name{}, y.Value)
	assert.Nil(t, fn.Body[1].(*syntax.ExprStmt).Value.(*syntax.Yield).Value)
	assert.IsType(t, &syntax.YieldFrom{}, fn.Body[2].(*syntax.ExprStmt).Value)
	assert.IsType(t, &syntax.Yield{}, fn.Body[3].(*syntax.Assign).Value)
}

func TestParseClass(t *testing.T) {
	mod, err := ParseModule("class A(Base):\n    x = 1\n\n    def m(self):\n        return self.x\n", 0)
	require.NoError(t, err)
	cls := mod.Body[0].(*syntax.ClassDef)
	assert.Equal(t, "A", cls.Name)
	assert.Len(t, cls.Bases, 1)
	assert.Len(t, cls.Body, 2)
	assert.Equal(t, 5, cls.EndLineno)
}

func TestParseLegacyPrint(t *testing.T) {
	mod, err := ParseModule("print >>f, a, b,\nprint x\n", Legacy)
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)
	first := mod.Body[0].(*syntax.Print)
	assert.NotNil(t, first.Dest)
	assert.Len(t, first.Values, 2)
	assert.False(t, first.Nl)
	second := mod.Body[1].(*syntax.Print)
	assert.Nil(t, second.Dest)
	assert.True(t, second.Nl)

	mod, err = ParseModule("print(x)\n", 0)
	require.NoError(t, err)
	assert.IsType(t, &syntax.ExprStmt{}, mod.Body[0])
}

func TestParseSemicolonsAndOneLineBlocks(t *testing.T) {
	fn := parseFunc(t, "def f(): a = 1; b = 2\n")
	assert.Len(t, fn.Body, 2)
}

// =============================================================================
// Expressions
// =============================================================================

func TestParsePrecedence(t *testing.T) {
	e := parseExpr(t, "a + b * c ** -d")
	add := e.(*syntax.BinOp)
	assert.Equal(t, syntax.Add, add.Op)
	mul := add.Right.(*syntax.BinOp)
	assert.Equal(t, syntax.Mult, mul.Op)
	pow := mul.Right.(*syntax.BinOp)
	assert.Equal(t, syntax.Pow, pow.Op)
	neg := pow.Right.(*syntax.UnaryOp)
	assert.Equal(t, syntax.USub, neg.Op)
}

func TestParseLeftAssociative(t *testing.T) {
	e := parseExpr(t, "a - b - c")
	outer := e.(*syntax.BinOp)
	inner, ok := outer.Left.(*syntax.BinOp)
	require.True(t, ok)
	assert.Equal(t, "a", inner.Left.(*syntax.Name).ID)
	assert.Equal(t, "c", outer.Right.(*syntax.Name).ID)
}

func TestParseBoolAndCompare(t *testing.T) {
	e := parseExpr(t, "a or b or not c")
	or := e.(*syntax.BoolOp)
	assert.Equal(t, syntax.Or, or.Op)
	assert.Len(t, or.Values, 3)

	e = parseExpr(t, "a < b <= c not in d is not e")
	cmp := e.(*syntax.Compare)
	assert.Equal(t, []syntax.CmpOperator{syntax.Lt, syntax.LtE, syntax.NotIn, syntax.IsNot}, cmp.Ops)
	assert.Len(t, cmp.Comparators, 4)
}

func TestParseTernary(t *testing.T) {
	e := parseExpr(t, "x if c else y")
	ife := e.(*syntax.IfExp)
	assert.Equal(t, "c", ife.Test.(*syntax.Name).ID)
	assert.Equal(t, 0, ife.ColOffset)
}

func TestParseCallArguments(t *testing.T) {
	e := parseExpr(t, "f(a, *rest, key=1, **kw)")
	call := e.(*syntax.Call)
	require.Len(t, call.Args, 2)
	star := call.Args[1].(*syntax.Starred)
	assert.Equal(t, 5, star.ColOffset)
	require.Len(t, call.Keywords, 2)
	assert.Equal(t, "key", call.Keywords[0].Arg)
	assert.Equal(t, "", call.Keywords[1].Arg)
}

func TestParseAttributeChain(t *testing.T) {
	e := parseExpr(t, "self.a.b")
	outer := e.(*syntax.Attribute)
	assert.Equal(t, "b", outer.Attr)
	assert.Equal(t, 0, outer.ColOffset)
	inner := outer.Value.(*syntax.Attribute)
	assert.Equal(t, "a", inner.Attr)
}

func TestParseSubscripts(t *testing.T) {
	idx := parseExpr(t, "x[i]").(*syntax.Subscript)
	assert.IsType(t, &syntax.Index{}, idx.Slice)

	multi := parseExpr(t, "x[i, j]").(*syntax.Subscript)
	index := multi.Slice.(*syntax.Index)
	tup := index.Value.(*syntax.Tuple)
	assert.Len(t, tup.Elts, 2)
	assert.Equal(t, 2, tup.ColOffset)

	paren := parseExpr(t, "x[(i, j)]").(*syntax.Subscript)
	ptup := paren.Slice.(*syntax.Index).Value.(*syntax.Tuple)
	assert.Equal(t, 2, ptup.ColOffset)

	sl := parseExpr(t, "x[1:2:3]").(*syntax.Subscript)
	s := sl.Slice.(*syntax.Slice)
	assert.NotNil(t, s.Lower)
	assert.NotNil(t, s.Upper)
	assert.NotNil(t, s.Step)

	open := parseExpr(t, "x[:]").(*syntax.Subscript).Slice.(*syntax.Slice)
	assert.Nil(t, open.Lower)
	assert.Nil(t, open.Upper)
	assert.Nil(t, open.Step)

	ext := parseExpr(t, "x[..., 1:, i]").(*syntax.Subscript)
	dims := ext.Slice.(*syntax.ExtSlice).Dims
	require.Len(t, dims, 3)
	assert.IsType(t, &syntax.Ellipsis{}, dims[0].(*syntax.Index).Value)
	assert.IsType(t, &syntax.Slice{}, dims[1])
	assert.IsType(t, &syntax.Index{}, dims[2])
}

func TestParseLegacyEllipsisSubscript(t *testing.T) {
	mod, err := ParseModule("x[...]\n", Legacy)
	require.NoError(t, err)
	sub := mod.Body[0].(*syntax.ExprStmt).Value.(*syntax.Subscript)
	assert.IsType(t, &syntax.EllipsisSlice{}, sub.Slice)

	mod, err = ParseModule("x[...]\n", 0)
	require.NoError(t, err)
	sub = mod.Body[0].(*syntax.ExprStmt).Value.(*syntax.Subscript)
	assert.IsType(t, &syntax.Ellipsis{}, sub.Slice.(*syntax.Index).Value)
}

func TestParseDisplays(t *testing.T) {
	list := parseExpr(t, "[1, 2]").(*syntax.List)
	assert.Len(t, list.Elts, 2)

	tup := parseExpr(t, "(1,)").(*syntax.Tuple)
	assert.Len(t, tup.Elts, 1)

	d := parseExpr(t, "{'a': 1, **rest}").(*syntax.Dict)
	require.Len(t, d.Keys, 2)
	assert.Nil(t, d.Keys[1])

	assert.IsType(t, &syntax.Set{}, parseExpr(t, "{1, 2}"))
	assert.IsType(t, &syntax.DictComp{}, parseExpr(t, "{k: v for k, v in items}"))
	assert.IsType(t, &syntax.GeneratorExp{}, parseExpr(t, "(x for x in y)"))

	lc := parseExpr(t, "[x for x in y if x for z in w]").(*syntax.ListComp)
	require.Len(t, lc.Generators, 2)
	assert.Len(t, lc.Generators[0].Ifs, 1)
}

func TestParseLambdaAndNamedExpr(t *testing.T) {
	l := parseExpr(t, "lambda a, b=1: a").(*syntax.Lambda)
	assert.Len(t, l.Args.Args, 2)
	assert.IsType(t, &syntax.NamedExpr{}, parseExpr(t, "(n := 3)"))
}

func TestParseNumbers(t *testing.T) {
	cases := map[string]syntax.NumKind{
		"1":       syntax.NumInt,
		"1_000":   syntax.NumInt,
		"0x1F":    syntax.NumInt,
		"0b1010":  syntax.NumInt,
		"1.5":     syntax.NumFloat,
		".5":      syntax.NumFloat,
		"1e-3":    syntax.NumFloat,
		"2j":      syntax.NumImaginary,
		"1.5e10J": syntax.NumImaginary,
	}
	for text, kind := range cases {
		t.Run(text, func(t *testing.T) {
			num := parseExpr(t, text).(*syntax.Num)
			assert.Equal(t, text, num.Text)
			assert.Equal(t, kind, num.Kind)
		})
	}
}

// =============================================================================
// Strings
// =============================================================================

func TestParseStringConcatenationAndEscapes(t *testing.T) {
	s := parseExpr(t, `'a\n' "b" r'\t'`).(*syntax.Str)
	assert.Equal(t, "a\nb\\t", s.Value)

	b := parseExpr(t, `b'\x41\u0042'`).(*syntax.Bytes)
	assert.Equal(t, `A\u0042`, b.Value)

	u := parseExpr(t, `'\u00e9\x41\101'`).(*syntax.Str)
	assert.Equal(t, "éAA", u.Value)

	triple := parseExpr(t, "'''x\ny'''").(*syntax.Str)
	assert.Equal(t, "x\ny", triple.Value)
}

func TestParseMixedBytesRejected(t *testing.T) {
	_, err := ParseExpr(`b'a' 'b'`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot mix bytes")
}

func TestParseFString(t *testing.T) {
	js := parseExpr(t, `f"a{x}b{{c}}{y!r:>{w}}"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 4)

	first := js.Values[0].(*syntax.Str)
	assert.Equal(t, "a", first.Value)

	fx := js.Values[1].(*syntax.FormattedValue)
	assert.Equal(t, syntax.NoConversion, fx.Conversion)
	assert.Nil(t, fx.FormatSpec)
	x := fx.Value.(*syntax.Name)
	assert.Equal(t, "x", x.ID)
	assert.Equal(t, 4, x.ColOffset)

	mid := js.Values[2].(*syntax.Str)
	assert.Equal(t, "b{c}", mid.Value)

	fy := js.Values[3].(*syntax.FormattedValue)
	assert.Equal(t, int('r'), fy.Conversion)
	spec := fy.FormatSpec.(*syntax.JoinedStr)
	require.Len(t, spec.Values, 2)
	assert.Equal(t, ">", spec.Values[0].(*syntax.Str).Value)
	assert.IsType(t, &syntax.FormattedValue{}, spec.Values[1])
}

func TestParseFStringSelfDocumenting(t *testing.T) {
	js := parseExpr(t, `f"{x=}"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 2)
	assert.Equal(t, "x=", js.Values[0].(*syntax.Str).Value)
	fx := js.Values[1].(*syntax.FormattedValue)
	assert.Equal(t, int('r'), fx.Conversion)
	assert.Equal(t, "x", fx.Value.(*syntax.Name).ID)

	js = parseExpr(t, `f"{x = !s}"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 2)
	assert.Equal(t, "x = ", js.Values[0].(*syntax.Str).Value)
	assert.Equal(t, int('s'), js.Values[1].(*syntax.FormattedValue).Conversion)

	js = parseExpr(t, `f"{x=:>4}"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 2)
	fx = js.Values[1].(*syntax.FormattedValue)
	assert.Equal(t, syntax.NoConversion, fx.Conversion)
	assert.NotNil(t, fx.FormatSpec)

	js = parseExpr(t, `f"{a==b}"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 1)
	assert.IsType(t, &syntax.Compare{}, js.Values[0].(*syntax.FormattedValue).Value)
}

func TestParseFStringConcatenatedWithPlain(t *testing.T) {
	js := parseExpr(t, `"a" f"{x}" "c"`).(*syntax.JoinedStr)
	require.Len(t, js.Values, 3)
	assert.Equal(t, "a", js.Values[0].(*syntax.Str).Value)
	assert.Equal(t, "c", js.Values[2].(*syntax.Str).Value)
}

func TestParseFStringErrors(t *testing.T) {
	for _, src := range []string{`f"{}"`, `f"a}"`, `f"{x"`, `f"{x!z}"`} {
		_, err := ParseExpr(src)
		assert.Error(t, err, src)
	}
}

func TestParseFuncType(t *testing.T) {
	ft, err := ParseFuncType("(int, List[str]) -> Tuple[int, int]")
	require.NoError(t, err)
	require.Len(t, ft.Argtypes, 2)
	assert.IsType(t, &syntax.Subscript{}, ft.Argtypes[1])
	assert.IsType(t, &syntax.Subscript{}, ft.Returns)

	ft, err = ParseFuncType("() -> None")
	require.NoError(t, err)
	assert.Empty(t, ft.Argtypes)

	_, err = ParseFuncType("(int)")
	assert.Error(t, err)
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"def f(:\n    pass\n",
		"x = = 1\n",
		"  x = 1\n",
		"def f():\npass\n",
		"x = $\n",
	} {
		_, err := ParseModule(src, 0)
		assert.True(t, IsSyntaxError(err), "%q should fail: %v", src, err)
	}
}
