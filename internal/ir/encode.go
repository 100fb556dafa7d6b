package ir

import "github.com/roach88/jitfront/internal/source"

// ToValue converts a tree to its JSON-shaped form. Every object carries
// "kind" and "range"; absent optional children are omitted rather than
// encoded as null.
func ToValue(n Node) Value {
	if isNil(n) {
		return nil
	}
	obj := Object{
		"kind":  String(n.Kind()),
		"range": rangeValue(n.Range()),
	}
	put := func(key string, c Node) {
		if !isNil(c) {
			obj[key] = ToValue(c)
		}
	}

	switch n := n.(type) {
	case *Ident:
		obj["name"] = String(n.Name)
	case *Var:
		obj["name"] = String(n.Name.Name)
	case *TrueLiteral, *FalseLiteral, *NoneLiteral, *Dots, *EmptyTypeAnnotation,
		*Pass, *Break, *Continue:
	case *Const:
		obj["value"] = String(n.Value)
	case *StringLiteral:
		obj["value"] = String(n.Value)
	case *BinOp:
		obj["op"] = String(n.Op)
		put("lhs", n.LHS)
		put("rhs", n.RHS)
	case *UnaryOp:
		obj["op"] = String(n.Op)
		put("operand", n.Operand)
	case *TernaryIf:
		put("cond", n.Cond)
		put("true", n.TrueExpr)
		put("false", n.FalseExpr)
	case *Apply:
		put("callee", n.Callee)
		obj["inputs"] = exprsValue(n.Inputs)
		attrs := make(Array, len(n.Attributes))
		for i, a := range n.Attributes {
			attrs[i] = ToValue(a)
		}
		obj["attributes"] = attrs
	case *Attribute:
		put("name", n.Name)
		put("value", n.Value)
	case *Select:
		put("value", n.Value)
		put("selector", n.Selector)
	case *Subscript:
		put("value", n.Value)
		obj["subscripts"] = exprsValue(n.Subscripts)
	case *SliceExpr:
		put("start", n.Start)
		put("end", n.End)
		put("step", n.Step)
	case *ListLiteral:
		obj["elems"] = exprsValue(n.Elems)
	case *TupleLiteral:
		obj["elems"] = exprsValue(n.Elems)
	case *DictLiteral:
		obj["keys"] = exprsValue(n.Keys)
		obj["values"] = exprsValue(n.Values)
	case *ListComp:
		put("elt", n.Elt)
		put("target", n.Target)
		put("iter", n.Iter)
	case *Starred:
		put("value", n.Value)
	case *ExprStmt:
		put("expr", n.Expr)
	case *Assign:
		obj["lhs"] = exprsValue(n.LHS)
		put("rhs", n.RHS)
		put("type", n.Type)
	case *Delete:
		put("target", n.Target)
	case *Return:
		put("value", n.Value)
	case *Raise:
		put("expr", n.Expr)
	case *Assert:
		put("test", n.Test)
		put("msg", n.Msg)
	case *AugAssign:
		obj["op"] = String(n.Op)
		put("lhs", n.LHS)
		put("rhs", n.RHS)
	case *While:
		put("cond", n.Cond)
		obj["body"] = stmtsValue(n.Body)
	case *For:
		obj["targets"] = exprsValue(n.Targets)
		obj["iters"] = exprsValue(n.Iters)
		obj["body"] = stmtsValue(n.Body)
	case *If:
		put("cond", n.Cond)
		obj["then"] = stmtsValue(n.TrueBranch)
		obj["else"] = stmtsValue(n.FalseBranch)
	case *With:
		items := make(Array, len(n.Items))
		for i, it := range n.Items {
			items[i] = ToValue(it)
		}
		obj["items"] = items
		obj["body"] = stmtsValue(n.Body)
	case *WithItem:
		put("target", n.Target)
		put("var", n.Var)
	case *Param:
		put("name", n.Name)
		put("type", n.Type)
		obj["kwarg_only"] = Bool(n.KwargOnly)
	case *Decl:
		params := make(Array, len(n.Params))
		for i, p := range n.Params {
			params[i] = ToValue(p)
		}
		obj["params"] = params
		put("return_type", n.ReturnType)
	case *Def:
		put("name", n.Name)
		put("decl", n.Decl)
		obj["body"] = stmtsValue(n.Body)
	case *Property:
		put("name", n.Name)
		put("getter", n.Getter)
		put("setter", n.Setter)
	case *ClassDef:
		put("name", n.Name)
		methods := make(Array, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = ToValue(m)
		}
		obj["methods"] = methods
		props := make(Array, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = ToValue(p)
		}
		obj["properties"] = props
	}
	return obj
}

func rangeValue(r source.Range) Array {
	return Array{Int(r.Start), Int(r.End)}
}

func exprsValue(es []Expr) Array {
	out := make(Array, 0, len(es))
	for _, e := range es {
		if !isNil(e) {
			out = append(out, ToValue(e))
		}
	}
	return out
}

func stmtsValue(ss []Stmt) Array {
	out := make(Array, 0, len(ss))
	for _, s := range ss {
		if !isNil(s) {
			out = append(out, ToValue(s))
		}
	}
	return out
}
