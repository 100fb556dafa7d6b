package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/parser"
	"github.com/roach88/jitfront/internal/source"
)

// body wraps lines as the indented body of `def f(a, b, c, x):`.
func body(lines ...string) string {
	out := "def f(a, b, c, x):\n"
	for _, l := range lines {
		out += "    " + l + "\n"
	}
	return out
}

// bodyDump translates a function and returns its statements, one dump per
// statement.
func bodyDump(t *testing.T, lines ...string) []string {
	t.Helper()
	def := translate(t, body(lines...))
	out := make([]string, len(def.Body))
	for i, s := range def.Body {
		out[i] = ir.Sprint(s)
	}
	return out
}

// exprDump translates `return <src>` and dumps the returned expression.
func exprDump(t *testing.T, src string) string {
	t.Helper()
	def := translate(t, body("return "+src))
	require.Len(t, def.Body, 1)
	return ir.Sprint(def.Body[0].(*ir.Return).Value)
}

// =============================================================================
// Statements
// =============================================================================

func TestDocstringDropped(t *testing.T) {
	def := translate(t, "def f():\n    \"\"\"Docs.\"\"\"\n    pass\n")
	require.Len(t, def.Body, 1)
	assert.IsType(t, &ir.Pass{}, def.Body[0])
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		want []string
	}{
		{"assign", []string{"a = b = 1"}, []string{"assign a = b = 1\n"}},
		{"annotated assign", []string{"a: int = 1"}, []string{"assign a: int = 1\n"}},
		{"delete", []string{"del a"}, []string{"del a\n"}},
		{"bare return", []string{"return"}, []string{"return\n"}},
		{"raise", []string{"raise ValueError(a)"}, []string{"raise (apply ValueError a)\n"}},
		{"assert", []string{"assert a, \"msg\""}, []string{"assert a, \"msg\"\n"}},
		{"assert no message", []string{"assert a"}, []string{"assert a\n"}},
		{"expression", []string{"a.b(c)"}, []string{"expr (apply (. a b) c)\n"}},
		{"loop control", []string{"while a:", "    break", "    continue"},
			[]string{"while a\n  break\n  continue\n"}},
		{"if else", []string{"if a:", "    pass", "else:", "    return b"},
			[]string{"if a\n  pass\nelse\n  return b\n"}},
		{"elif", []string{"if a:", "    pass", "elif b:", "    pass"},
			[]string{"if a\n  pass\nelse\n  if b\n    pass\n"}},
		{"with", []string{"with a as x, b:", "    pass"}, []string{"with a as x, b\n  pass\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodyDump(t, tt.src...))
		})
	}
}

func TestAugmentedAssignOperators(t *testing.T) {
	got := bodyDump(t, "a += 1", "a -= 1", "a *= 1", "a /= 1", "a %= 1")
	assert.Equal(t, []string{
		"augassign a += 1\n",
		"augassign a -= 1\n",
		"augassign a *= 1\n",
		"augassign a /= 1\n",
		"augassign a %= 1\n",
	}, got)
}

func TestAugmentedAssignUnsupported(t *testing.T) {
	text := body("x **= 2")
	diag := translateErr(t, text)
	assert.True(t, IsNotSupported(diag))
	assert.Equal(t, "unsupported kind of augmented assignment: Pow", diag.Message)
	assert.Equal(t, "*=", text[diag.Range.Start:diag.Range.End])
}

func TestForLoop(t *testing.T) {
	def := translate(t, "def f():\n    for i in range(3):\n        pass\n")
	require.Len(t, def.Body, 1)
	loop := def.Body[0].(*ir.For)

	require.Len(t, loop.Targets, 1)
	assert.Equal(t, "i", loop.Targets[0].(*ir.Var).Name.Name)
	require.Len(t, loop.Iters, 1)
	call := loop.Iters[0].(*ir.Apply)
	assert.Equal(t, "range", call.Callee.(*ir.Var).Name.Name)
	require.Len(t, call.Inputs, 1)
	assert.Equal(t, "3", call.Inputs[0].(*ir.Const).Value)
	require.Len(t, loop.Body, 1)
	assert.IsType(t, &ir.Pass{}, loop.Body[0])

	assert.Equal(t, "for i in (apply range 3)\n  pass\n", ir.Sprint(loop))
}

func TestWithItemRange(t *testing.T) {
	text := body("with a as x:", "    pass")
	def := translate(t, text)
	item := def.Body[0].(*ir.With).Items[0]
	assert.Equal(t, "a as", text[item.Rng.Start:item.Rng.End])
}

func TestLegacyPrint(t *testing.T) {
	fe := New(memSources{"f": {Text: "def f(a):\n    print a, 1\n", File: "t.py", Line: 1, Legacy: true}})
	def, err := fe.Def("f", "f", "")
	require.NoError(t, err)
	assert.Equal(t, "def f(a: ?) -> ?\n  expr (apply print a 1)\n", ir.Sprint(def))
}

func TestLegacyPrintWithDestination(t *testing.T) {
	fe := New(memSources{"f": {Text: "def f(a):\n    print >>a, 1\n", File: "t.py", Line: 1, Legacy: true}})
	_, err := fe.Def("f", "f", "")
	require.Error(t, err)
	assert.True(t, IsNotSupported(err))
}

func TestStatementRejections(t *testing.T) {
	tests := []struct {
		name    string
		src     []string
		message string
		span    string
		kind    ErrorKind
	}{
		{"bare raise", []string{"raise"}, "raise statements without an exception aren't supported", "raise", KindNotSupported},
		{"raise from", []string{"raise a from b"}, "raise statements with a cause aren't supported", "raise", KindNotSupported},
		{"for else", []string{"for i in a:", "    pass", "else:", "    pass"}, "else branches of for loops aren't supported", "for", KindNotSupported},
		{"del several", []string{"del a, b"}, "del with more than one operand is not supported", "del", KindNotSupported},
		{"annotation only", []string{"a: int"}, "annotated assignments without assigned value aren't supported", "a", KindNotSupported},
		{"try", []string{"try:", "    pass", "except:", "    pass"}, "try blocks aren't supported", "try", KindUnsupportedConstruct},
		{"import", []string{"import os"}, "import statements aren't supported", "import", KindUnsupportedConstruct},
		{"global", []string{"global a"}, "global variables aren't supported", "global", KindUnsupportedConstruct},
		{"nested def", []string{"def g():", "    pass"}, "function definitions aren't supported", "def", KindUnsupportedConstruct},
		{"yield", []string{"yield x"}, "Yield aren't supported", "y", KindUnsupportedConstruct},
		{"yield from", []string{"yield from x"}, "YieldFrom aren't supported", "y", KindUnsupportedConstruct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := body(tt.src...)
			diag := translateErr(t, text)
			assert.Equal(t, tt.kind, diag.Kind)
			assert.Equal(t, tt.message, diag.Message)
			require.True(t, diag.HasRange)
			assert.Equal(t, tt.span, text[diag.Range.Start:diag.Range.End])
		})
	}
}

// =============================================================================
// Expressions
// =============================================================================

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a", "a\n"},
		{"True", "True\n"},
		{"None", "None\n"},
		{"...", "...\n"},
		{"'s'", "\"s\"\n"},
		{"1.5e3", "1.5e3\n"},
		{"0xff", "0xff\n"},
		{"-a", "(- a)\n"},
		{"~a", "(~ a)\n"},
		{"not a", "(not a)\n"},
		{"a ** b", "(** a b)\n"},
		{"a @ b", "(@ a b)\n"},
		{"a // b % c", "(% (// a b) c)\n"},
		{"a if b else c", "(if b a c)\n"},
		{"a or b or c", "(or (or a b) c)\n"},
		{"a and b", "(and a b)\n"},
		{"a < b < c", "(and (< a b) (< b c))\n"},
		{"a is not b", "(is not a b)\n"},
		{"a not in b", "(not (in a b))\n"},
		{"a(b, *c, k=x)", "(apply a b (starred c) :k x)\n"},
		{"[a, b]", "(list a b)\n"},
		{"(a, b)", "(tuple a b)\n"},
		{"{a: b, c: x}", "(dict a b c x)\n"},
		{"[a for a in b]", "(listcomp a a b)\n"},
		{"a.b.c", "(. (. a b) c)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, exprDump(t, tt.src))
		})
	}
}

func TestBoolOpFoldsLeft(t *testing.T) {
	def := translate(t, body("return a or b or c"))
	outer := def.Body[0].(*ir.Return).Value.(*ir.BinOp)
	assert.Equal(t, "or", outer.Op)
	inner := outer.LHS.(*ir.BinOp)
	assert.Equal(t, "or", inner.Op)
	assert.Equal(t, "a", inner.LHS.(*ir.Var).Name.Name)
	assert.Equal(t, "b", inner.RHS.(*ir.Var).Name.Name)
	assert.Equal(t, "c", outer.RHS.(*ir.Var).Name.Name)
}

func TestComparisonChainIsATree(t *testing.T) {
	text := body("return a < b < c")
	def := translate(t, text)
	and := def.Body[0].(*ir.Return).Value.(*ir.BinOp)
	first := and.LHS.(*ir.BinOp)
	second := and.RHS.(*ir.BinOp)

	assert.NotSame(t, first.RHS, second.LHS)
	assert.Equal(t, first.RHS.Range(), second.LHS.Range())
	assert.Empty(t, ir.Validate(def, len(text)))
}

func TestNotInRange(t *testing.T) {
	text := body("return a not in b")
	def := translate(t, text)
	not := def.Body[0].(*ir.Return).Value.(*ir.UnaryOp)
	assert.Equal(t, " not in ", text[not.Rng.Start:not.Rng.End])
}

func TestAttributeRange(t *testing.T) {
	text := body("return a.  b")
	def := translate(t, text)
	sel := def.Body[0].(*ir.Return).Value.(*ir.Select)
	assert.Equal(t, "b", text[sel.Selector.Rng.Start:sel.Selector.Rng.End])
}

func TestKeywordRange(t *testing.T) {
	text := body("return a(k=b)")
	def := translate(t, text)
	attr := def.Body[0].(*ir.Return).Value.(*ir.Apply).Attributes[0]
	assert.Equal(t, "k", attr.Name.Name)
	assert.Equal(t, "b", text[attr.Name.Rng.Start:attr.Name.Rng.End])
}

func TestDivision(t *testing.T) {
	assert.Equal(t, "(/ a b)\n", exprDump(t, "a / b"))

	text := body("return a / b")
	fe := New(memSources{"f": {Text: text, File: "t.py", Line: 1}})
	_, err := fe.Def("f", "f", "")
	require.Error(t, err)
	assert.True(t, IsSemantic(err))
	diag, _ := AsFrontendError(err)
	assert.Equal(t, " / ", text[diag.Range.Start:diag.Range.End])
	assert.Contains(t, diag.Message, "from __future__ import division")
}

func TestExpressionRejections(t *testing.T) {
	tests := []struct {
		src     string
		message string
		kind    ErrorKind
	}{
		{"__jit_x", "names of variables used in compiled functions can't start with __jit", KindNotSupported},
		{"f(**a)", "keyword-arg expansion is not supported", KindNotSupported},
		{"{**a}", "dict unpacking is not supported", KindNotSupported},
		{"1j", "Unknown Constant expression type", KindSemantic},
		{"b'x'", "Unknown Constant expression type", KindSemantic},
		{"[a for a in b for c in a]", "multiple comprehension generators not supported yet", KindNotSupported},
		{"[a for a in b if a]", "comprehension ifs not supported yet", KindNotSupported},
		{"lambda: a", "Lambda aren't supported", KindUnsupportedConstruct},
		{"{a}", "Set aren't supported", KindUnsupportedConstruct},
		{"f\"{a!r}\"", "Don't support conversion in JoinedStr", KindNotSupported},
		{"f\"{a:>4}\"", "Don't support formatting in JoinedStr", KindNotSupported},
		{"f\"{a=}\"", "Don't support conversion in JoinedStr", KindNotSupported},
		{"f\"{a=:>4}\"", "Don't support formatting in JoinedStr", KindNotSupported},
		{"a[[b, c], 1:2]", "slicing multiple dimensions with sequences not supported yet", KindNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			diag := translateErr(t, body("return "+tt.src))
			assert.Equal(t, tt.kind, diag.Kind)
			assert.Equal(t, tt.message, diag.Message)
		})
	}
}

func TestKindHelpers(t *testing.T) {
	construct := &FrontendError{Kind: KindUnsupportedConstruct}
	assert.True(t, IsUnsupportedConstruct(construct))
	assert.True(t, IsNotSupported(construct))
	assert.False(t, IsSemantic(construct))

	sem := &FrontendError{Kind: KindSemantic}
	assert.False(t, IsNotSupported(sem))
	assert.True(t, IsSemantic(sem))
}

// =============================================================================
// Subscripts
// =============================================================================

func TestSubscripts(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x[a]", "(subscript x a)\n"},
		{"x[a, b]", "(subscript x a b)\n"},
		{"x[(a, b)]", "(subscript x a b)\n"},
		{"x[[a, b]]", "(subscript x (list a b))\n"},
		{"x[a:b]", "(subscript x (slice a b _))\n"},
		{"x[::a]", "(subscript x (slice _ _ a))\n"},
		{"x[..., 1:, a]", "(subscript x ... (slice 1 _ _) a)\n"},
		{"x[...]", "(subscript x ...)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, exprDump(t, tt.src))
		})
	}
}

func TestTupleIndexFlattens(t *testing.T) {
	def := translate(t, body("return x[(a, b)]"))
	sub := def.Body[0].(*ir.Return).Value.(*ir.Subscript)
	require.Len(t, sub.Subscripts, 2)
	assert.Equal(t, "a", sub.Subscripts[0].(*ir.Var).Name.Name)
	assert.Equal(t, "b", sub.Subscripts[1].(*ir.Var).Name.Name)
}

func TestLegacyEllipsisSubscript(t *testing.T) {
	fe := New(memSources{"f": {Text: body("return x[...]"), File: "t.py", Line: 1, Legacy: true}})
	_, err := fe.Def("f", "f", "")
	require.Error(t, err)
	diag, ok := AsFrontendError(err)
	require.True(t, ok)
	assert.Equal(t, "ellipsis is not supported", diag.Message)
}

// =============================================================================
// Format strings
// =============================================================================

func TestFormatStringLowering(t *testing.T) {
	def := translate(t, "def f(x):\n    return f\"{x}\"\n")
	call := def.Body[0].(*ir.Return).Value.(*ir.Apply)
	sel := call.Callee.(*ir.Select)
	assert.Equal(t, "{}", sel.Value.(*ir.StringLiteral).Value)
	assert.Equal(t, "format", sel.Selector.Name)
	require.Len(t, call.Inputs, 1)
	assert.Equal(t, "x", call.Inputs[0].(*ir.Var).Name.Name)
}

func TestFormatStringEscapesLiteralBraces(t *testing.T) {
	assert.Equal(t, "(apply (. \"a{}b{{c}}\" format) x)\n", exprDump(t, "f\"a{x}b{{c}}\""))
}

// =============================================================================
// Direct builders
// =============================================================================

func TestBuildExpr(t *testing.T) {
	e, err := parser.ParseExpr("a + b")
	require.NoError(t, err)
	ctx := source.NewContext("a + b", "<expr>", 1, 0, source.WithTrueDivision(true))

	out, err := BuildExpr(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, "(+ a@0:1 b@4:5)@0:1\n", ir.Sprint(out, ir.WithRanges()))
}

func TestBuildStmts(t *testing.T) {
	text := "'doc'\nx = 1\n"
	mod, err := parser.ParseModule(text, 0)
	require.NoError(t, err)
	ctx := source.NewContext(text, "<stmts>", 1, 0)

	out, err := BuildStmts(ctx, mod.Body)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "assign x = 1\n", ir.Sprint(out[0]))
}
