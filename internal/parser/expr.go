package parser

import (
	"strings"

	"github.com/roach88/jitfront/internal/syntax"
)

// Binding powers of the binary operators between `|` and the
// multiplicative level. Unary minus, power and await bind tighter and are
// handled by factor/power.
const (
	precBitOr = iota + 1
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
)

var binaryOps = map[string]struct {
	op   syntax.Operator
	prec int
}{
	"|":  {syntax.BitOr, precBitOr},
	"^":  {syntax.BitXor, precBitXor},
	"&":  {syntax.BitAnd, precBitAnd},
	"<<": {syntax.LShift, precShift},
	">>": {syntax.RShift, precShift},
	"+":  {syntax.Add, precArith},
	"-":  {syntax.Sub, precArith},
	"*":  {syntax.Mult, precTerm},
	"@":  {syntax.MatMult, precTerm},
	"/":  {syntax.Div, precTerm},
	"%":  {syntax.Mod, precTerm},
	"//": {syntax.FloorDiv, precTerm},
}

var compareOps = map[string]syntax.CmpOperator{
	"==": syntax.Eq, "!=": syntax.NotEq, "<": syntax.Lt, "<=": syntax.LtE,
	">": syntax.Gt, ">=": syntax.GtE,
}

var unaryOps = map[string]syntax.UnaryOperator{
	"+": syntax.UAdd, "-": syntax.USub, "~": syntax.Invert,
}

// testlistStarExpr parses comma-separated expressions; more than one, or a
// trailing comma, yields a Tuple positioned at its first element.
func (p *parser) testlistStarExpr() syntax.Expr {
	first := p.testOrStar()
	if !p.isOp(",") {
		return first
	}
	elts := []syntax.Expr{first}
	for p.accept(",") {
		if p.atExprListEnd() {
			break
		}
		elts = append(elts, p.testOrStar())
	}
	return &syntax.Tuple{Pos: first.Position(), Elts: elts}
}

// exprList parses assignment targets such as a for-loop target.
func (p *parser) exprList() syntax.Expr {
	first := p.exprOrStar()
	if !p.isOp(",") {
		return first
	}
	elts := []syntax.Expr{first}
	for p.accept(",") {
		if p.atExprListEnd() || p.isKw("in") {
			break
		}
		elts = append(elts, p.exprOrStar())
	}
	return &syntax.Tuple{Pos: first.Position(), Elts: elts}
}

func (p *parser) atExprListEnd() bool {
	t := p.tok()
	if t.Kind == TokNewline || t.Kind == TokEOF {
		return true
	}
	if t.Kind != TokOp {
		return false
	}
	switch t.Text {
	case ")", "]", "}", "=", ":", ";":
		return true
	}
	_, aug := augOps[t.Text]
	return aug
}

func (p *parser) testOrStar() syntax.Expr {
	if p.isOp("*") {
		t := p.advance()
		return &syntax.Starred{Pos: posOf(t), Value: p.expr()}
	}
	return p.namedExprTest()
}

func (p *parser) exprOrStar() syntax.Expr {
	if p.isOp("*") {
		t := p.advance()
		return &syntax.Starred{Pos: posOf(t), Value: p.expr()}
	}
	return p.expr()
}

func (p *parser) namedExprTest() syntax.Expr {
	e := p.test()
	if p.accept(":=") {
		return &syntax.NamedExpr{Pos: e.Position(), Target: e, Value: p.test()}
	}
	return e
}

func (p *parser) test() syntax.Expr {
	if p.isKw("lambda") {
		return p.lambda()
	}
	body := p.orTest()
	if p.acceptKw("if") {
		test := p.orTest()
		p.expectKw("else")
		return &syntax.IfExp{Pos: body.Position(), Test: test, Body: body, Orelse: p.test()}
	}
	return body
}

// testNoCond is the comprehension-filter form that excludes ternaries.
func (p *parser) testNoCond() syntax.Expr {
	if p.isKw("lambda") {
		return p.lambda()
	}
	return p.orTest()
}

func (p *parser) lambda() syntax.Expr {
	t := p.advance()
	l := &syntax.Lambda{Pos: posOf(t), Args: p.parameters(":", false)}
	p.expectOp(":")
	l.Body = p.test()
	return l
}

func (p *parser) orTest() syntax.Expr {
	first := p.andTest()
	if !p.isKw("or") {
		return first
	}
	values := []syntax.Expr{first}
	for p.acceptKw("or") {
		values = append(values, p.andTest())
	}
	return &syntax.BoolOp{Pos: first.Position(), Op: syntax.Or, Values: values}
}

func (p *parser) andTest() syntax.Expr {
	first := p.notTest()
	if !p.isKw("and") {
		return first
	}
	values := []syntax.Expr{first}
	for p.acceptKw("and") {
		values = append(values, p.notTest())
	}
	return &syntax.BoolOp{Pos: first.Position(), Op: syntax.And, Values: values}
}

func (p *parser) notTest() syntax.Expr {
	if p.isKw("not") {
		t := p.advance()
		return &syntax.UnaryOp{Pos: posOf(t), Op: syntax.Not, Operand: p.notTest()}
	}
	return p.comparison()
}

func (p *parser) comparison() syntax.Expr {
	left := p.expr()
	var cmp *syntax.Compare
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		if cmp == nil {
			cmp = &syntax.Compare{Pos: left.Position(), Left: left}
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, p.expr())
	}
	if cmp == nil {
		return left
	}
	return cmp
}

func (p *parser) compareOp() (syntax.CmpOperator, bool) {
	t := p.tok()
	switch {
	case t.Kind == TokOp:
		if op, ok := compareOps[t.Text]; ok {
			p.advance()
			return op, true
		}
	case p.isKw("in"):
		p.advance()
		return syntax.In, true
	case p.isKw("not") && p.peek(1).Kind == TokName && p.peek(1).Text == "in":
		p.advance()
		p.advance()
		return syntax.NotIn, true
	case p.isKw("is"):
		p.advance()
		if p.acceptKw("not") {
			return syntax.IsNot, true
		}
		return syntax.Is, true
	}
	return 0, false
}

// expr parses the bitwise-or level and everything that binds tighter.
func (p *parser) expr() syntax.Expr {
	return p.binary(precBitOr)
}

func (p *parser) binary(minPrec int) syntax.Expr {
	left := p.factor()
	for {
		t := p.tok()
		if t.Kind != TokOp {
			return left
		}
		info, ok := binaryOps[t.Text]
		if !ok || info.prec < minPrec {
			return left
		}
		p.advance()
		right := p.binary(info.prec + 1)
		left = &syntax.BinOp{Pos: left.Position(), Left: left, Op: info.op, Right: right}
	}
}

func (p *parser) factor() syntax.Expr {
	t := p.tok()
	if t.Kind == TokOp {
		if op, ok := unaryOps[t.Text]; ok {
			p.advance()
			return &syntax.UnaryOp{Pos: posOf(t), Op: op, Operand: p.factor()}
		}
	}
	return p.power()
}

func (p *parser) power() syntax.Expr {
	base := p.atomExpr()
	if p.accept("**") {
		return &syntax.BinOp{Pos: base.Position(), Left: base, Op: syntax.Pow, Right: p.factor()}
	}
	return base
}

func (p *parser) atomExpr() syntax.Expr {
	if p.isKw("await") {
		t := p.advance()
		return &syntax.Await{Pos: posOf(t), Value: p.trailers(p.atom())}
	}
	return p.trailers(p.atom())
}

func (p *parser) trailers(e syntax.Expr) syntax.Expr {
	for {
		switch {
		case p.accept("("):
			args, keywords := p.arguments()
			e = &syntax.Call{Pos: e.Position(), Func: e, Args: args, Keywords: keywords}
		case p.accept("["):
			e = &syntax.Subscript{Pos: e.Position(), Value: e, Slice: p.subscripts()}
			p.expectOp("]")
		case p.accept("."):
			e = &syntax.Attribute{Pos: e.Position(), Value: e, Attr: p.expectName().Text}
		default:
			return e
		}
	}
}

// arguments parses a call argument list after the opening parenthesis and
// consumes the closing one.
func (p *parser) arguments() ([]syntax.Expr, []*syntax.Keyword) {
	var args []syntax.Expr
	var keywords []*syntax.Keyword
	for !p.isOp(")") {
		switch {
		case p.isOp("**"):
			p.advance()
			keywords = append(keywords, &syntax.Keyword{Value: p.test()})
		case p.isOp("*"):
			t := p.advance()
			args = append(args, &syntax.Starred{Pos: posOf(t), Value: p.test()})
		default:
			e := p.namedExprTest()
			if name, ok := e.(*syntax.Name); ok && p.accept("=") {
				keywords = append(keywords, &syntax.Keyword{Arg: name.ID, Value: p.test()})
				break
			}
			if p.isKw("for") || p.isKw("async") {
				e = &syntax.GeneratorExp{Pos: e.Position(), Elt: e, Generators: p.compFor()}
			}
			args = append(args, e)
		}
		if !p.accept(",") {
			break
		}
	}
	p.expectOp(")")
	return args, keywords
}

// subscripts parses the inside of `x[...]`.
func (p *parser) subscripts() syntax.SliceKind {
	first := p.subscript()
	if !p.isOp(",") {
		return first
	}
	dims := []syntax.SliceKind{first}
	for p.accept(",") {
		if p.isOp("]") {
			break
		}
		dims = append(dims, p.subscript())
	}
	elts := make([]syntax.Expr, 0, len(dims))
	for _, d := range dims {
		idx, ok := d.(*syntax.Index)
		if !ok {
			return &syntax.ExtSlice{Dims: dims}
		}
		elts = append(elts, idx.Value)
	}
	return &syntax.Index{Value: &syntax.Tuple{Pos: elts[0].Position(), Elts: elts}}
}

func (p *parser) subscript() syntax.SliceKind {
	if p.mode&Legacy != 0 && p.isOp("...") {
		if next := p.peek(1); next.Kind == TokOp && (next.Text == "]" || next.Text == ",") {
			p.advance()
			return &syntax.EllipsisSlice{}
		}
	}
	var lower syntax.Expr
	if !p.isOp(":") {
		lower = p.testOrStar()
		if !p.isOp(":") {
			return &syntax.Index{Value: lower}
		}
	}
	p.expectOp(":")
	s := &syntax.Slice{Lower: lower}
	if !p.isOp(":") && !p.isOp("]") && !p.isOp(",") {
		s.Upper = p.test()
	}
	if p.accept(":") && !p.isOp("]") && !p.isOp(",") {
		s.Step = p.test()
	}
	return s
}

func (p *parser) compFor() []*syntax.Comprehension {
	var gens []*syntax.Comprehension
	for p.isKw("for") || p.isKw("async") {
		c := &syntax.Comprehension{IsAsync: p.acceptKw("async")}
		p.expectKw("for")
		c.Target = p.exprList()
		p.expectKw("in")
		c.Iter = p.orTest()
		for p.acceptKw("if") {
			c.Ifs = append(c.Ifs, p.testNoCond())
		}
		gens = append(gens, c)
	}
	return gens
}

func (p *parser) yieldExpr() syntax.Expr {
	t := p.expectKw("yield")
	if p.acceptKw("from") {
		return &syntax.YieldFrom{Pos: posOf(t), Value: p.test()}
	}
	y := &syntax.Yield{Pos: posOf(t)}
	if !p.atStmtEnd() && !p.isOp(")") && !p.isOp("=") {
		y.Value = p.testlistStarExpr()
	}
	return y
}

func (p *parser) atom() syntax.Expr {
	t := p.tok()
	pos := posOf(t)
	switch t.Kind {
	case TokName:
		switch t.Text {
		case "True":
			p.advance()
			return &syntax.NameConstant{Pos: pos, Value: syntax.ConstTrue}
		case "False":
			p.advance()
			return &syntax.NameConstant{Pos: pos, Value: syntax.ConstFalse}
		case "None":
			p.advance()
			return &syntax.NameConstant{Pos: pos, Value: syntax.ConstNone}
		}
		if IsKeyword(t.Text) {
			p.errorf("invalid syntax: unexpected keyword %q", t.Text)
		}
		p.advance()
		return &syntax.Name{Pos: pos, ID: t.Text}
	case TokNumber:
		p.advance()
		return &syntax.Num{Pos: pos, Text: t.Text, Kind: numKind(t.Text)}
	case TokString:
		var toks []Token
		for p.tok().Kind == TokString {
			toks = append(toks, p.advance())
		}
		return p.concatStrings(toks)
	case TokOp:
		switch t.Text {
		case "...":
			p.advance()
			return &syntax.Ellipsis{Pos: pos}
		case "(":
			return p.parenAtom()
		case "[":
			return p.listAtom()
		case "{":
			return p.braceAtom()
		}
	}
	p.errorf("invalid syntax: unexpected %s", t)
	return nil
}

func (p *parser) parenAtom() syntax.Expr {
	open := p.advance()
	pos := posOf(open)
	if p.accept(")") {
		return &syntax.Tuple{Pos: pos}
	}
	if p.isKw("yield") {
		y := p.yieldExpr()
		p.expectOp(")")
		return y
	}
	first := p.testOrStar()
	if p.isKw("for") || p.isKw("async") {
		g := &syntax.GeneratorExp{Pos: pos, Elt: first, Generators: p.compFor()}
		p.expectOp(")")
		return g
	}
	if !p.isOp(",") {
		p.expectOp(")")
		return first
	}
	elts := []syntax.Expr{first}
	for p.accept(",") && !p.isOp(")") {
		elts = append(elts, p.testOrStar())
	}
	p.expectOp(")")
	return &syntax.Tuple{Pos: pos, Elts: elts}
}

func (p *parser) listAtom() syntax.Expr {
	open := p.advance()
	pos := posOf(open)
	if p.accept("]") {
		return &syntax.List{Pos: pos}
	}
	first := p.testOrStar()
	if p.isKw("for") || p.isKw("async") {
		lc := &syntax.ListComp{Pos: pos, Elt: first, Generators: p.compFor()}
		p.expectOp("]")
		return lc
	}
	elts := []syntax.Expr{first}
	for p.accept(",") && !p.isOp("]") {
		elts = append(elts, p.testOrStar())
	}
	p.expectOp("]")
	return &syntax.List{Pos: pos, Elts: elts}
}

func (p *parser) braceAtom() syntax.Expr {
	open := p.advance()
	pos := posOf(open)
	if p.accept("}") {
		return &syntax.Dict{Pos: pos}
	}
	dict := &syntax.Dict{Pos: pos}
	item := func() bool {
		if p.accept("**") {
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.expr())
			return true
		}
		return false
	}
	if !item() {
		first := p.testOrStar()
		if !p.accept(":") {
			return p.setRest(pos, first)
		}
		value := p.test()
		if p.isKw("for") || p.isKw("async") {
			dc := &syntax.DictComp{Pos: pos, Key: first, Value: value, Generators: p.compFor()}
			p.expectOp("}")
			return dc
		}
		dict.Keys = append(dict.Keys, first)
		dict.Values = append(dict.Values, value)
	}
	for p.accept(",") && !p.isOp("}") {
		if item() {
			continue
		}
		dict.Keys = append(dict.Keys, p.test())
		p.expectOp(":")
		dict.Values = append(dict.Values, p.test())
	}
	p.expectOp("}")
	return dict
}

func (p *parser) setRest(pos syntax.Pos, first syntax.Expr) syntax.Expr {
	if p.isKw("for") || p.isKw("async") {
		sc := &syntax.SetComp{Pos: pos, Elt: first, Generators: p.compFor()}
		p.expectOp("}")
		return sc
	}
	set := &syntax.Set{Pos: pos, Elts: []syntax.Expr{first}}
	for p.accept(",") && !p.isOp("}") {
		set.Elts = append(set.Elts, p.testOrStar())
	}
	p.expectOp("}")
	return set
}

func numKind(text string) syntax.NumKind {
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "j"):
		return syntax.NumImaginary
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		return syntax.NumInt
	case strings.ContainsAny(lower, ".e"):
		return syntax.NumFloat
	}
	return syntax.NumInt
}
