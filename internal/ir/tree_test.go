package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jitfront/internal/source"
)

// sampleText is the unit sampleDef was built from.
const sampleText = "def add(a: int, b):\n    return a + 1\n"

func rng(s, e uint32) source.Range { return source.Range{Start: s, End: e} }

func sampleDef() *Def {
	return &Def{
		Name: &Ident{Rng: rng(4, 7), Name: "add"},
		Decl: &Decl{
			Rng: rng(0, 3),
			Params: []*Param{
				{Name: &Ident{Rng: rng(8, 9), Name: "a"}, Type: NewVar(rng(11, 14), "int")},
				{Name: &Ident{Rng: rng(16, 17), Name: "b"}, Type: &EmptyTypeAnnotation{Rng: rng(16, 17)}},
			},
		},
		Body: []Stmt{
			&Return{
				Rng: rng(24, 30),
				Value: &BinOp{
					Op:  "+",
					LHS: NewVar(rng(31, 32), "a"),
					RHS: &Const{Rng: rng(35, 36), Value: "1"},
				},
			},
		},
	}
}

// ===== ranges =====

func TestDerivedRanges(t *testing.T) {
	d := sampleDef()
	assert.Equal(t, rng(4, 7), d.Range(), "def takes its name's range")
	assert.Equal(t, rng(8, 9), d.Decl.Params[0].Range(), "param takes its name's range")

	ret := d.Body[0].(*Return)
	assert.Equal(t, rng(31, 32), ret.Value.Range(), "binop takes its left operand's range")

	apply := &Apply{Callee: NewVar(rng(2, 5), "foo")}
	assert.Equal(t, rng(2, 5), apply.Range())

	sel := &Select{Value: NewVar(rng(0, 1), "x"), Selector: &Ident{Rng: rng(2, 5), Name: "foo"}}
	assert.Equal(t, rng(0, 1), sel.Range())

	assign := &Assign{LHS: []Expr{NewVar(rng(7, 8), "y")}, RHS: &Const{Rng: rng(11, 12), Value: "2"}}
	assert.Equal(t, rng(7, 8), assign.Range())
}

// ===== walk =====

func TestWalkPreOrder(t *testing.T) {
	var kinds []Kind
	Walk(sampleDef(), func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	assert.Equal(t, []Kind{
		KindDef, KindIdent,
		KindDecl,
		KindParam, KindVar, KindIdent, KindIdent,
		KindParam, KindEmptyTypeAnnotation, KindIdent,
		KindReturn, KindBinOp, KindVar, KindIdent, KindConst,
	}, kinds)
}

func TestWalkSkipsChildren(t *testing.T) {
	count := 0
	Walk(sampleDef(), func(n Node) bool {
		count++
		_, isDecl := n.(*Decl)
		return !isDecl
	})
	// Def, Ident, Decl, Return, BinOp, Var, Ident, Const
	assert.Equal(t, 8, count)
}

func TestChildrenSkipsAbsentOptionals(t *testing.T) {
	slice := &SliceExpr{Rng: rng(0, 1), End: &Const{Rng: rng(2, 3), Value: "2"}}
	children := Children(slice)
	require.Len(t, children, 1)
	assert.Equal(t, KindConst, children[0].Kind())

	prop := &Property{Rng: rng(0, 1), Name: &Ident{Rng: rng(0, 1), Name: "x"}, Getter: sampleDef()}
	assert.Len(t, Children(prop), 2)
}

// ===== encode =====

func TestToValue(t *testing.T) {
	v := ToValue(&BinOp{
		Op:  "+",
		LHS: NewVar(rng(0, 1), "a"),
		RHS: &Const{Rng: rng(4, 5), Value: "1"},
	})

	expected := Object{
		"kind":  String("BinOp"),
		"range": Array{Int(0), Int(1)},
		"op":    String("+"),
		"lhs": Object{
			"kind":  String("Var"),
			"range": Array{Int(0), Int(1)},
			"name":  String("a"),
		},
		"rhs": Object{
			"kind":  String("Const"),
			"range": Array{Int(4), Int(5)},
			"value": String("1"),
		},
	}
	assert.Equal(t, expected, v)
}

func TestToValueOmitsAbsentChildren(t *testing.T) {
	v := ToValue(&Return{Rng: rng(0, 6)}).(Object)
	_, ok := v["value"]
	assert.False(t, ok)

	canonical, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"Return","range":[0,6]}`, string(canonical))
}

// ===== print =====

func TestSprint(t *testing.T) {
	out := Sprint(sampleDef())
	assert.Equal(t, "def add(a: int, b: ?) -> ?\n  return (+ a 1)\n", out)
}

func TestSprintWithRanges(t *testing.T) {
	out := Sprint(sampleDef(), WithRanges())
	assert.Equal(t,
		"def add@4:7(a@8:9: int@11:14, b@16:17: ?@16:17) -> ?@0:3\n"+
			"  return@24:30 (+ a@31:32 1@35:36)@31:32\n",
		out)
}

func TestSprintStatements(t *testing.T) {
	x := func(s uint32) *Var { return NewVar(rng(s, s+1), "x") }
	body := []Stmt{
		&If{
			Rng:         rng(0, 2),
			Cond:        &UnaryOp{Rng: rng(3, 8), Op: "not", Operand: x(7)},
			TrueBranch:  []Stmt{&Pass{Rng: rng(10, 14)}},
			FalseBranch: []Stmt{&Break{Rng: rng(20, 25)}},
		},
		&For{
			Rng:     rng(30, 33),
			Targets: []Expr{x(34)},
			Iters:   []Expr{&Apply{Callee: NewVar(rng(39, 44), "range"), Inputs: []Expr{&Const{Rng: rng(45, 46), Value: "3"}}}},
			Body: []Stmt{&AugAssign{
				LHS: x(50), Op: "+", RHS: &Const{Rng: rng(55, 56), Value: "1"},
			}},
		},
		&With{
			Rng:   rng(60, 64),
			Items: []*WithItem{{Rng: rng(65, 69), Target: NewVar(rng(65, 66), "m"), Var: x(70)}},
			Body:  []Stmt{&ExprStmt{Expr: &Subscript{Value: x(75), Subscripts: []Expr{&SliceExpr{Rng: rng(75, 76), Start: &Const{Rng: rng(77, 78), Value: "1"}}}}}},
		},
		&Assign{
			LHS:  []Expr{x(80)},
			Type: NewVar(rng(83, 86), "int"),
			RHS:  &Apply{Callee: NewVar(rng(89, 90), "f"), Attributes: []*Attribute{{Name: &Ident{Rng: rng(93, 94), Name: "k"}, Value: &TrueLiteral{Rng: rng(93, 97)}}}},
		},
	}
	def := &Def{
		Name: &Ident{Rng: rng(0, 1), Name: "f"},
		Decl: &Decl{Rng: rng(0, 1), ReturnType: &NoneLiteral{Rng: rng(0, 1)}},
		Body: body,
	}

	expected := `def f() -> None
  if (not x)
    pass
  else
    break
  for x in (apply range 3)
    augassign x += 1
  with m as x
    expr (subscript x (slice 1 _ _))
  assign x: int = (apply f :k True)
`
	assert.Equal(t, expected, Sprint(def))
}

func TestPrintClass(t *testing.T) {
	getter := sampleDef()
	getter.Name.Name = "__size_getter"
	cls := &ClassDef{
		Name:       &Ident{Rng: rng(0, 5), Name: "Model"},
		Methods:    []*Def{sampleDef()},
		Properties: []*Property{{Rng: rng(4, 7), Name: &Ident{Rng: rng(4, 7), Name: "size"}, Getter: getter}},
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, cls, WithIndent("    ")))
	assert.Equal(t, `class Model
    def add(a: int, b: ?) -> ?
        return (+ a 1)
    property size
        def __size_getter(a: int, b: ?) -> ?
            return (+ a 1)
`, buf.String())
}

// ===== validate =====

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	assert.Empty(t, Validate(sampleDef(), len(sampleText)))
}

func TestValidateRangeErrors(t *testing.T) {
	d := sampleDef()
	d.Body[0].(*Return).Rng = rng(30, 24)
	d.Decl.Params[1].Type = &EmptyTypeAnnotation{Rng: rng(16, 99)}

	errs := Validate(d, len(sampleText))
	require.Len(t, errs, 2)

	codes := []string{errs[0].Code, errs[1].Code}
	assert.ElementsMatch(t, []string{ErrInvertedRange, ErrRangeOutOfText}, codes)
	for _, e := range errs {
		assert.Contains(t, e.Path, "Def.")
	}
}

func TestValidateSharedNode(t *testing.T) {
	shared := NewVar(rng(0, 1), "x")
	tree := &BinOp{Op: "+", LHS: shared, RHS: shared}

	errs := Validate(tree, 10)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSharedNode, errs[0].Code)
	assert.Contains(t, errs[0].Error(), "[E303]")
}

func TestValidateMissingChildAndNames(t *testing.T) {
	tree := &If{
		Rng: rng(0, 2),
		Cond: &DictLiteral{
			Rng:  rng(3, 4),
			Keys: []Expr{&StringLiteral{Rng: rng(4, 5), Value: "k"}},
		},
		TrueBranch: []Stmt{&Assign{}, &ExprStmt{Expr: NewVar(rng(6, 7), "")}},
	}

	errs := Validate(tree, 10)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.ElementsMatch(t, []string{ErrDictArity, ErrMissingChild, ErrEmptyName}, codes)
}
