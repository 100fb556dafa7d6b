package ir

import "fmt"

// Children returns n's direct children in source order, skipping absent
// optional children.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	addStmts := func(ss []Stmt) {
		for _, s := range ss {
			add(s)
		}
	}

	switch n := n.(type) {
	case *Ident, *TrueLiteral, *FalseLiteral, *NoneLiteral, *Dots,
		*EmptyTypeAnnotation, *Const, *StringLiteral, *Pass, *Break, *Continue:
	case *Var:
		add(n.Name)
	case *BinOp:
		add(n.LHS)
		add(n.RHS)
	case *UnaryOp:
		add(n.Operand)
	case *TernaryIf:
		add(n.Cond)
		add(n.TrueExpr)
		add(n.FalseExpr)
	case *Apply:
		add(n.Callee)
		addExprs(n.Inputs)
		for _, a := range n.Attributes {
			add(a)
		}
	case *Attribute:
		add(n.Name)
		add(n.Value)
	case *Select:
		add(n.Value)
		add(n.Selector)
	case *Subscript:
		add(n.Value)
		addExprs(n.Subscripts)
	case *SliceExpr:
		add(n.Start)
		add(n.End)
		add(n.Step)
	case *ListLiteral:
		addExprs(n.Elems)
	case *TupleLiteral:
		addExprs(n.Elems)
	case *DictLiteral:
		for i := range n.Keys {
			add(n.Keys[i])
			if i < len(n.Values) {
				add(n.Values[i])
			}
		}
	case *ListComp:
		add(n.Elt)
		add(n.Target)
		add(n.Iter)
	case *Starred:
		add(n.Value)
	case *ExprStmt:
		add(n.Expr)
	case *Assign:
		addExprs(n.LHS)
		add(n.RHS)
		add(n.Type)
	case *Delete:
		add(n.Target)
	case *Return:
		add(n.Value)
	case *Raise:
		add(n.Expr)
	case *Assert:
		add(n.Test)
		add(n.Msg)
	case *AugAssign:
		add(n.LHS)
		add(n.RHS)
	case *While:
		add(n.Cond)
		addStmts(n.Body)
	case *For:
		addExprs(n.Targets)
		addExprs(n.Iters)
		addStmts(n.Body)
	case *If:
		add(n.Cond)
		addStmts(n.TrueBranch)
		addStmts(n.FalseBranch)
	case *With:
		for _, it := range n.Items {
			add(it)
		}
		addStmts(n.Body)
	case *WithItem:
		add(n.Target)
		add(n.Var)
	case *Param:
		add(n.Type)
		add(n.Name)
	case *Decl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnType)
	case *Def:
		add(n.Name)
		add(n.Decl)
		addStmts(n.Body)
	case *Property:
		add(n.Name)
		add(n.Getter)
		add(n.Setter)
	case *ClassDef:
		add(n.Name)
		for _, m := range n.Methods {
			add(m)
		}
		for _, p := range n.Properties {
			add(p)
		}
	default:
		panic(fmt.Sprintf("ir: unknown node type %T", n))
	}
	return out
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// isNil reports whether n is a nil interface or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Ident:
		return v == nil
	case *Def:
		return v == nil
	case *Decl:
		return v == nil
	case *Param:
		return v == nil
	case *Attribute:
		return v == nil
	case *WithItem:
		return v == nil
	case *Property:
		return v == nil
	}
	return false
}
