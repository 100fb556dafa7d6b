package parser

import (
	"github.com/roach88/jitfront/internal/syntax"
)

var augOps = map[string]syntax.Operator{
	"+=": syntax.Add, "-=": syntax.Sub, "*=": syntax.Mult, "@=": syntax.MatMult,
	"/=": syntax.Div, "%=": syntax.Mod, "**=": syntax.Pow, "<<=": syntax.LShift,
	">>=": syntax.RShift, "|=": syntax.BitOr, "^=": syntax.BitXor,
	"&=": syntax.BitAnd, "//=": syntax.FloorDiv,
}

func (p *parser) module() *syntax.Module {
	mod := &syntax.Module{}
	for p.tok().Kind != TokEOF {
		if p.tok().Kind == TokNewline {
			p.advance()
			continue
		}
		mod.Body = append(mod.Body, p.statement()...)
	}
	return mod
}

func (p *parser) statement() []syntax.Stmt {
	t := p.tok()
	switch t.Kind {
	case TokIndent:
		p.errorf("unexpected indent")
	case TokDedent:
		p.errorf("unindent does not match any outer indentation level")
	case TokOp:
		if t.Text == "@" {
			return []syntax.Stmt{p.decorated()}
		}
	case TokName:
		switch t.Text {
		case "if":
			return []syntax.Stmt{p.ifStmt()}
		case "while":
			return []syntax.Stmt{p.whileStmt()}
		case "for":
			return []syntax.Stmt{p.forStmt(t)}
		case "try":
			return []syntax.Stmt{p.tryStmt()}
		case "with":
			return []syntax.Stmt{p.withStmt(t)}
		case "def":
			return []syntax.Stmt{p.funcDef(t, nil)}
		case "class":
			return []syntax.Stmt{p.classDef(t, nil)}
		case "async":
			return []syntax.Stmt{p.asyncStmt(t, nil)}
		}
	}
	return p.simpleStmts()
}

// block parses the suite after a compound statement header.
func (p *parser) block() []syntax.Stmt {
	p.expectOp(":")
	if p.tok().Kind != TokNewline {
		return p.simpleStmts()
	}
	p.advance()
	if p.tok().Kind != TokIndent {
		p.errorf("expected an indented block")
	}
	p.advance()
	var body []syntax.Stmt
	for p.tok().Kind != TokDedent && p.tok().Kind != TokEOF {
		body = append(body, p.statement()...)
	}
	if p.tok().Kind == TokDedent {
		p.advance()
	}
	return body
}

func (p *parser) simpleStmts() []syntax.Stmt {
	stmts := []syntax.Stmt{p.smallStmt()}
	for p.accept(";") {
		if p.tok().Kind == TokNewline || p.tok().Kind == TokEOF {
			break
		}
		stmts = append(stmts, p.smallStmt())
	}
	if p.tok().Kind != TokEOF {
		if p.tok().Kind != TokNewline {
			p.errorf("invalid syntax: unexpected %s", p.tok())
		}
		p.advance()
	}
	return stmts
}

func (p *parser) smallStmt() syntax.Stmt {
	t := p.tok()
	pos := posOf(t)
	if t.Kind == TokName {
		switch t.Text {
		case "pass":
			p.advance()
			return &syntax.Pass{Pos: pos}
		case "break":
			p.advance()
			return &syntax.Break{Pos: pos}
		case "continue":
			p.advance()
			return &syntax.Continue{Pos: pos}
		case "return":
			p.advance()
			s := &syntax.Return{Pos: pos}
			if !p.atStmtEnd() {
				s.Value = p.testlistStarExpr()
			}
			return s
		case "raise":
			p.advance()
			s := &syntax.Raise{Pos: pos}
			if !p.atStmtEnd() {
				s.Exc = p.test()
				if p.acceptKw("from") {
					s.Cause = p.test()
				}
			}
			return s
		case "global", "nonlocal":
			p.advance()
			names := []string{p.expectName().Text}
			for p.accept(",") {
				names = append(names, p.expectName().Text)
			}
			if t.Text == "global" {
				return &syntax.Global{Pos: pos, Names: names}
			}
			return &syntax.Nonlocal{Pos: pos, Names: names}
		case "del":
			p.advance()
			s := &syntax.Delete{Pos: pos}
			for {
				s.Targets = append(s.Targets, p.exprOrStar())
				if !p.accept(",") || p.atStmtEnd() {
					break
				}
			}
			return s
		case "assert":
			p.advance()
			s := &syntax.Assert{Pos: pos, Test: p.test()}
			if p.accept(",") {
				s.Msg = p.test()
			}
			return s
		case "import":
			return p.importStmt()
		case "from":
			return p.importFrom()
		case "print":
			if p.mode&Legacy != 0 {
				return p.printStmt()
			}
		}
	}
	return p.exprStmt()
}

func (p *parser) exprStmt() syntax.Stmt {
	start := p.tok()
	pos := posOf(start)
	first := p.yieldOrTestlist()

	if p.accept(":") {
		s := &syntax.AnnAssign{Pos: pos, Target: first, Annotation: p.test()}
		_, isName := first.(*syntax.Name)
		s.Simple = isName && !(start.Kind == TokOp && start.Text == "(")
		if p.accept("=") {
			s.Value = p.yieldOrTestlist()
		}
		return s
	}
	if t := p.tok(); t.Kind == TokOp {
		if op, ok := augOps[t.Text]; ok {
			p.advance()
			return &syntax.AugAssign{Pos: pos, Target: first, Op: op, Value: p.yieldOrTestlist()}
		}
	}
	if p.isOp("=") {
		targets := []syntax.Expr{first}
		var value syntax.Expr
		for p.accept("=") {
			value = p.yieldOrTestlist()
			targets = append(targets, value)
		}
		return &syntax.Assign{Pos: pos, Targets: targets[:len(targets)-1], Value: value}
	}
	return &syntax.ExprStmt{Pos: pos, Value: first}
}

func (p *parser) yieldOrTestlist() syntax.Expr {
	if p.isKw("yield") {
		return p.yieldExpr()
	}
	return p.testlistStarExpr()
}

func (p *parser) printStmt() syntax.Stmt {
	t := p.advance()
	s := &syntax.Print{Pos: posOf(t), Nl: true}
	if p.accept(">>") {
		s.Dest = p.test()
		if !p.accept(",") {
			return s
		}
	}
	for !p.atStmtEnd() {
		s.Values = append(s.Values, p.test())
		if !p.accept(",") {
			return s
		}
		s.Nl = false
		if p.atStmtEnd() {
			return s
		}
		s.Nl = true
	}
	return s
}

func (p *parser) importStmt() syntax.Stmt {
	t := p.advance()
	s := &syntax.Import{Pos: posOf(t)}
	for {
		a := &syntax.Alias{Name: p.dottedName()}
		if p.acceptKw("as") {
			a.Asname = p.expectName().Text
		}
		s.Names = append(s.Names, a)
		if !p.accept(",") {
			return s
		}
	}
}

func (p *parser) importFrom() syntax.Stmt {
	t := p.advance()
	s := &syntax.ImportFrom{Pos: posOf(t)}
	for p.isOp(".") || p.isOp("...") {
		s.Level += len(p.advance().Text)
	}
	if !p.isKw("import") {
		s.Module = p.dottedName()
	}
	p.expectKw("import")
	if p.accept("*") {
		s.Names = []*syntax.Alias{{Name: "*"}}
		return s
	}
	paren := p.accept("(")
	for {
		a := &syntax.Alias{Name: p.expectName().Text}
		if p.acceptKw("as") {
			a.Asname = p.expectName().Text
		}
		s.Names = append(s.Names, a)
		if !p.accept(",") || (paren && p.isOp(")")) {
			break
		}
	}
	if paren {
		p.expectOp(")")
	}
	return s
}

func (p *parser) dottedName() string {
	name := p.expectName().Text
	for p.accept(".") {
		name += "." + p.expectName().Text
	}
	return name
}

func (p *parser) ifStmt() syntax.Stmt {
	t := p.advance()
	s := &syntax.If{Pos: posOf(t), Test: p.namedExprTest()}
	s.Body = p.block()
	switch {
	case p.isKw("elif"):
		s.Orelse = []syntax.Stmt{p.ifStmt()}
	case p.acceptKw("else"):
		s.Orelse = p.block()
	}
	return s
}

func (p *parser) whileStmt() syntax.Stmt {
	t := p.advance()
	s := &syntax.While{Pos: posOf(t), Test: p.namedExprTest()}
	s.Body = p.block()
	if p.acceptKw("else") {
		s.Orelse = p.block()
	}
	return s
}

func (p *parser) forStmt(start Token) *syntax.For {
	p.expectKw("for")
	s := &syntax.For{Pos: posOf(start), Target: p.exprList()}
	p.expectKw("in")
	s.Iter = p.testlistStarExpr()
	s.Body = p.block()
	if p.acceptKw("else") {
		s.Orelse = p.block()
	}
	return s
}

func (p *parser) tryStmt() syntax.Stmt {
	t := p.advance()
	s := &syntax.Try{Pos: posOf(t), Body: p.block()}
	for p.isKw("except") {
		h := &syntax.ExceptHandler{Pos: posOf(p.advance())}
		if !p.isOp(":") {
			h.Type = p.test()
			if p.acceptKw("as") {
				h.Name = p.expectName().Text
			}
		}
		h.Body = p.block()
		s.Handlers = append(s.Handlers, h)
	}
	if p.acceptKw("else") {
		s.Orelse = p.block()
	}
	if p.acceptKw("finally") {
		s.Finalbody = p.block()
	}
	if len(s.Handlers) == 0 && s.Finalbody == nil {
		p.errorf("expected 'except' or 'finally' block")
	}
	return s
}

func (p *parser) withStmt(start Token) *syntax.With {
	p.expectKw("with")
	s := &syntax.With{Pos: posOf(start)}
	for {
		item := &syntax.WithItem{ContextExpr: p.test()}
		if p.acceptKw("as") {
			item.OptionalVars = p.expr()
		}
		s.Items = append(s.Items, item)
		if !p.accept(",") {
			break
		}
	}
	s.Body = p.block()
	return s
}

func (p *parser) decorated() syntax.Stmt {
	start := p.tok()
	var decorators []syntax.Expr
	for p.accept("@") {
		decorators = append(decorators, p.namedExprTest())
		if p.tok().Kind != TokNewline {
			p.errorf("expected newline after decorator")
		}
		p.advance()
	}
	switch {
	case p.isKw("def"):
		return p.funcDef(start, decorators)
	case p.isKw("class"):
		return p.classDef(start, decorators)
	case p.isKw("async"):
		return p.asyncStmt(start, decorators)
	}
	p.errorf("expected a function or class definition after decorators")
	return nil
}

func (p *parser) asyncStmt(start Token, decorators []syntax.Expr) syntax.Stmt {
	p.expectKw("async")
	if p.isKw("def") {
		fd := p.funcDef(start, decorators)
		return &syntax.AsyncFunctionDef{FunctionDef: *fd}
	}
	if decorators == nil {
		switch {
		case p.isKw("for"):
			return &syntax.AsyncFor{For: *p.forStmt(start)}
		case p.isKw("with"):
			return &syntax.AsyncWith{With: *p.withStmt(start)}
		}
	}
	p.errorf("invalid syntax after 'async'")
	return nil
}

// funcDef parses `def name(params) [-> ret]: body`. start is the first
// decorator token when decorators are present.
func (p *parser) funcDef(start Token, decorators []syntax.Expr) *syntax.FunctionDef {
	p.expectKw("def")
	fd := &syntax.FunctionDef{
		Pos:           posOf(start),
		Name:          p.expectName().Text,
		DecoratorList: decorators,
	}
	p.expectOp("(")
	fd.Args = p.parameters(")", true)
	p.expectOp(")")
	if p.accept("->") {
		fd.Returns = p.test()
	}
	fd.Body = p.block()
	fd.EndLineno = p.prevEnd
	return fd
}

func (p *parser) classDef(start Token, decorators []syntax.Expr) *syntax.ClassDef {
	p.expectKw("class")
	cd := &syntax.ClassDef{
		Pos:           posOf(start),
		Name:          p.expectName().Text,
		DecoratorList: decorators,
	}
	if p.accept("(") {
		cd.Bases, cd.Keywords = p.arguments()
	}
	cd.Body = p.block()
	cd.EndLineno = p.prevEnd
	return cd
}

// parameters parses a parameter list up to (not including) the closing
// token. Annotations are only allowed in def signatures.
func (p *parser) parameters(closing string, annotations bool) *syntax.Arguments {
	args := &syntax.Arguments{}
	kwonly := false
	param := func() *syntax.Arg {
		t := p.expectName()
		a := &syntax.Arg{Pos: posOf(t), Arg: t.Text}
		if annotations && p.accept(":") {
			a.Annotation = p.test()
		}
		return a
	}
	for !p.isOp(closing) {
		switch {
		case p.accept("**"):
			args.Kwarg = param()
		case p.accept("*"):
			kwonly = true
			if !p.isOp(",") && !p.isOp(closing) {
				args.Vararg = param()
			}
		case p.accept("/"):
		default:
			a := param()
			var def syntax.Expr
			if p.accept("=") {
				def = p.test()
			}
			if kwonly {
				args.Kwonlyargs = append(args.Kwonlyargs, a)
				args.KwDefaults = append(args.KwDefaults, def)
				break
			}
			args.Args = append(args.Args, a)
			if def != nil {
				args.Defaults = append(args.Defaults, def)
			} else if len(args.Defaults) > 0 {
				p.errorf("non-default argument follows default argument")
			}
		}
		if !p.accept(",") {
			break
		}
	}
	return args
}
