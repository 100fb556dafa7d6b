package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintOption configures Print.
type PrintOption func(*printer)

// WithRanges appends each node's range as @start:end.
func WithRanges() PrintOption {
	return func(p *printer) { p.ranges = true }
}

// WithIndent sets the per-level indentation (default two spaces).
func WithIndent(s string) PrintOption {
	return func(p *printer) { p.indent = s }
}

// Print writes a readable dump of n: statements one per line, expressions
// as S-expressions.
//
//	def add(a: int, b: ?) -> ?
//	  return (+ a b)
func Print(w io.Writer, n Node, opts ...PrintOption) error {
	_, err := io.WriteString(w, Sprint(n, opts...))
	return err
}

// Sprint returns the dump Print would write.
func Sprint(n Node, opts ...PrintOption) string {
	p := &printer{indent: "  "}
	for _, opt := range opts {
		opt(p)
	}
	switch n := n.(type) {
	case Stmt:
		p.stmt(n, 0)
	case *ClassDef:
		p.class(n, 0)
	case *Property:
		p.property(n, 0)
	case *Decl:
		p.line(0, "decl%s%s", p.sig(n), p.at(n))
	case *Param:
		p.line(0, "%s", p.param(n))
	case *WithItem:
		p.line(0, "%s", p.withItem(n))
	case *Ident:
		p.line(0, "%s", p.ident(n))
	case Expr:
		p.line(0, "%s", p.expr(n))
	}
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	ranges bool
	indent string
}

func (p *printer) line(depth int, format string, args ...any) {
	p.b.WriteString(strings.Repeat(p.indent, depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) at(n Node) string {
	if !p.ranges {
		return ""
	}
	r := n.Range()
	return fmt.Sprintf("@%d:%d", r.Start, r.End)
}

func (p *printer) ident(id *Ident) string {
	return id.Name + p.at(id)
}

func (p *printer) stmts(ss []Stmt, depth int) {
	for _, s := range ss {
		p.stmt(s, depth)
	}
}

func (p *printer) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *ExprStmt:
		p.line(depth, "expr %s", p.expr(s.Expr))
	case *Assign:
		lhs := make([]string, len(s.LHS))
		for i, e := range s.LHS {
			lhs[i] = p.expr(e)
		}
		target := strings.Join(lhs, " = ")
		if s.Type != nil {
			target += ": " + p.expr(s.Type)
		}
		if s.RHS == nil {
			p.line(depth, "assign %s", target)
			return
		}
		p.line(depth, "assign %s = %s", target, p.expr(s.RHS))
	case *Delete:
		p.line(depth, "del %s", p.expr(s.Target))
	case *Return:
		if s.Value == nil {
			p.line(depth, "return%s", p.at(s))
			return
		}
		p.line(depth, "return%s %s", p.at(s), p.expr(s.Value))
	case *Raise:
		p.line(depth, "raise%s %s", p.at(s), p.expr(s.Expr))
	case *Assert:
		if s.Msg == nil {
			p.line(depth, "assert%s %s", p.at(s), p.expr(s.Test))
			return
		}
		p.line(depth, "assert%s %s, %s", p.at(s), p.expr(s.Test), p.expr(s.Msg))
	case *AugAssign:
		p.line(depth, "augassign %s %s= %s", p.expr(s.LHS), s.Op, p.expr(s.RHS))
	case *While:
		p.line(depth, "while%s %s", p.at(s), p.expr(s.Cond))
		p.stmts(s.Body, depth+1)
	case *For:
		p.line(depth, "for%s %s in %s", p.at(s), p.exprList(s.Targets), p.exprList(s.Iters))
		p.stmts(s.Body, depth+1)
	case *If:
		p.line(depth, "if%s %s", p.at(s), p.expr(s.Cond))
		p.stmts(s.TrueBranch, depth+1)
		if len(s.FalseBranch) > 0 {
			p.line(depth, "else")
			p.stmts(s.FalseBranch, depth+1)
		}
	case *Pass:
		p.line(depth, "pass%s", p.at(s))
	case *Break:
		p.line(depth, "break%s", p.at(s))
	case *Continue:
		p.line(depth, "continue%s", p.at(s))
	case *With:
		items := make([]string, len(s.Items))
		for i, it := range s.Items {
			items[i] = p.withItem(it)
		}
		p.line(depth, "with%s %s", p.at(s), strings.Join(items, ", "))
		p.stmts(s.Body, depth+1)
	case *Def:
		p.def(s, depth)
	default:
		p.line(depth, "<%T>", s)
	}
}

func (p *printer) def(d *Def, depth int) {
	sig := ""
	if d.Decl != nil {
		sig = p.sig(d.Decl) + p.at(d.Decl)
	}
	p.line(depth, "def %s%s", p.ident(d.Name), sig)
	p.stmts(d.Body, depth+1)
}

func (p *printer) sig(d *Decl) string {
	params := make([]string, len(d.Params))
	for i, prm := range d.Params {
		params[i] = p.param(prm)
	}
	ret := "?"
	if d.ReturnType != nil {
		ret = p.expr(d.ReturnType)
	}
	return "(" + strings.Join(params, ", ") + ") -> " + ret
}

func (p *printer) param(prm *Param) string {
	s := p.ident(prm.Name) + ": " + p.expr(prm.Type)
	if prm.KwargOnly {
		s = "kw " + s
	}
	return s
}

func (p *printer) withItem(it *WithItem) string {
	s := p.expr(it.Target)
	if it.Var != nil {
		s += " as " + p.expr(it.Var)
	}
	return s + p.at(it)
}

func (p *printer) class(c *ClassDef, depth int) {
	p.line(depth, "class %s", p.ident(c.Name))
	for _, m := range c.Methods {
		p.def(m, depth+1)
	}
	for _, prop := range c.Properties {
		p.property(prop, depth+1)
	}
}

func (p *printer) property(prop *Property, depth int) {
	p.line(depth, "property %s%s", prop.Name.Name, p.at(prop))
	if prop.Getter != nil {
		p.def(prop.Getter, depth+1)
	}
	if prop.Setter != nil {
		p.def(prop.Setter, depth+1)
	}
}

func (p *printer) exprList(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) opt(e Expr) string {
	if e == nil {
		return "_"
	}
	return p.expr(e)
}

func (p *printer) sexpr(head string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(parts, " ") + ")"
}

func (p *printer) exprs(es []Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = p.expr(e)
	}
	return out
}

func (p *printer) expr(e Expr) string {
	var s string
	switch e := e.(type) {
	case nil:
		return "_"
	case *Var:
		s = e.Name.Name
	case *TrueLiteral:
		s = "True"
	case *FalseLiteral:
		s = "False"
	case *NoneLiteral:
		s = "None"
	case *Dots:
		s = "..."
	case *EmptyTypeAnnotation:
		s = "?"
	case *Const:
		s = e.Value
	case *StringLiteral:
		s = strconv.Quote(e.Value)
	case *BinOp:
		s = p.sexpr(e.Op, p.expr(e.LHS), p.expr(e.RHS))
	case *UnaryOp:
		s = p.sexpr(e.Op, p.expr(e.Operand))
	case *TernaryIf:
		s = p.sexpr("if", p.expr(e.Cond), p.expr(e.TrueExpr), p.expr(e.FalseExpr))
	case *Apply:
		parts := append([]string{p.expr(e.Callee)}, p.exprs(e.Inputs)...)
		for _, a := range e.Attributes {
			parts = append(parts, ":"+p.ident(a.Name), p.expr(a.Value))
		}
		s = p.sexpr("apply", parts...)
	case *Select:
		s = p.sexpr(".", p.expr(e.Value), p.ident(e.Selector))
	case *Subscript:
		s = p.sexpr("subscript", append([]string{p.expr(e.Value)}, p.exprs(e.Subscripts)...)...)
	case *SliceExpr:
		s = p.sexpr("slice", p.opt(e.Start), p.opt(e.End), p.opt(e.Step))
	case *ListLiteral:
		s = p.sexpr("list", p.exprs(e.Elems)...)
	case *TupleLiteral:
		s = p.sexpr("tuple", p.exprs(e.Elems)...)
	case *DictLiteral:
		var parts []string
		for i := range e.Keys {
			parts = append(parts, p.expr(e.Keys[i]), p.expr(e.Values[i]))
		}
		s = p.sexpr("dict", parts...)
	case *ListComp:
		s = p.sexpr("listcomp", p.expr(e.Elt), p.expr(e.Target), p.expr(e.Iter))
	case *Starred:
		s = p.sexpr("starred", p.expr(e.Value))
	default:
		return fmt.Sprintf("<%T>", e)
	}
	return s + p.at(e)
}
