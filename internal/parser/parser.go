package parser

import (
	"strings"

	"github.com/roach88/jitfront/internal/syntax"
)

// Mode selects grammar variants.
type Mode uint

const (
	// Legacy parses `print` as a statement.
	Legacy Mode = 1 << iota
)

type parser struct {
	toks []Token
	pos  int
	mode Mode
	// prevEnd is the last line covered by the most recently consumed
	// significant token.
	prevEnd int
}

// ParseModule parses a sequence of statements.
func ParseModule(src string, mode Mode) (mod *syntax.Module, err error) {
	defer catch(&err)
	p := &parser{toks: tokenize(src), mode: mode}
	return p.module(), nil
}

// ParseExpr parses a single expression, or a tuple when commas are present.
func ParseExpr(src string) (expr syntax.Expr, err error) {
	defer catch(&err)
	p := &parser{toks: tokenize(src)}
	expr = p.testlistStarExpr()
	p.expectEnd()
	return expr, nil
}

// ParseFuncType parses a signature `(T1, ...) -> R`.
func ParseFuncType(src string) (ft *syntax.FuncType, err error) {
	defer catch(&err)
	p := &parser{toks: tokenize(src)}
	p.expectOp("(")
	ft = &syntax.FuncType{}
	for !p.isOp(")") {
		switch {
		case p.isOp("*"), p.isOp("**"):
			t := p.advance()
			ft.Argtypes = append(ft.Argtypes, &syntax.Starred{Pos: posOf(t), Value: p.test()})
		default:
			ft.Argtypes = append(ft.Argtypes, p.test())
		}
		if !p.accept(",") {
			break
		}
	}
	p.expectOp(")")
	p.expectOp("->")
	ft.Returns = p.test()
	p.expectEnd()
	return ft, nil
}

func posOf(t Token) syntax.Pos {
	return syntax.Pos{Lineno: t.Line, ColOffset: t.Col}
}

func (p *parser) tok() Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}
	switch t.Kind {
	case TokName, TokNumber, TokString, TokOp:
		p.prevEnd = t.Line + strings.Count(t.Text, "\n")
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.tok()
	return t.Kind == TokOp && t.Text == op
}

func (p *parser) isKw(kw string) bool {
	t := p.tok()
	return t.Kind == TokName && t.Text == kw
}

func (p *parser) accept(op string) bool {
	if p.isOp(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptKw(kw string) bool {
	if p.isKw(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) Token {
	if !p.isOp(op) {
		p.errorf("expected %q, found %s", op, p.tok())
	}
	return p.advance()
}

func (p *parser) expectKw(kw string) Token {
	if !p.isKw(kw) {
		p.errorf("expected %q, found %s", kw, p.tok())
	}
	return p.advance()
}

func (p *parser) expectName() Token {
	t := p.tok()
	if t.Kind != TokName || IsKeyword(t.Text) {
		p.errorf("expected a name, found %s", t)
	}
	return p.advance()
}

func (p *parser) expectEnd() {
	if p.tok().Kind == TokNewline {
		p.advance()
	}
	if p.tok().Kind != TokEOF {
		p.errorf("unexpected %s", p.tok())
	}
}

func (p *parser) errorf(format string, args ...any) {
	t := p.tok()
	fail(t.Line, t.Col, format, args...)
}

// atStmtEnd reports whether the current token ends a simple statement.
func (p *parser) atStmtEnd() bool {
	t := p.tok()
	return t.Kind == TokNewline || t.Kind == TokEOF || p.isOp(";")
}
