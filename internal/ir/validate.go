package ir

import "fmt"

// Validation error codes (E300-E399)
const (
	ErrInvertedRange  = "E301" // range start after range end
	ErrRangeOutOfText = "E302" // range end past the unit text
	ErrSharedNode     = "E303" // node reachable from two parents
	ErrMissingChild   = "E304" // required child is nil
	ErrEmptyName      = "E305" // identifier with empty name
	ErrDictArity      = "E306" // dict keys and values differ in length
)

// ValidationError is one structural problem found in a tree.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// Validate checks that every range in the tree satisfies
// Start <= End <= textLen, that no node is reachable twice and that
// required children are present. A negative textLen skips the text bound,
// for trees assembled from several units. Returns all errors found (does not
// fail-fast).
func Validate(root Node, textLen int) []ValidationError {
	v := &validator{textLen: textLen, seen: make(map[Node]bool)}
	v.visit(root, string(root.Kind()))
	return v.errs
}

type validator struct {
	textLen int
	seen    map[Node]bool
	errs    []ValidationError
}

func (v *validator) report(path, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (v *validator) visit(n Node, path string) {
	if isNil(n) {
		return
	}

	// E303: strict tree
	if v.seen[n] {
		v.report(path, ErrSharedNode, "%s node is reachable more than once", n.Kind())
		return
	}
	v.seen[n] = true

	// E304: required children; Range() is undefined without them
	if field := missingChild(n); field != "" {
		v.report(path, ErrMissingChild, "%s requires %s", n.Kind(), field)
		return
	}

	r := n.Range()
	// E301
	if r.Start > r.End {
		v.report(path, ErrInvertedRange, "range %d:%d starts after it ends", r.Start, r.End)
	}
	// E302
	if v.textLen >= 0 && int(r.End) > v.textLen {
		v.report(path, ErrRangeOutOfText, "range %d:%d ends past text length %d", r.Start, r.End, v.textLen)
	}

	switch n := n.(type) {
	case *Ident:
		// E305
		if n.Name == "" {
			v.report(path, ErrEmptyName, "identifier name is empty")
		}
	case *DictLiteral:
		// E306
		if len(n.Keys) != len(n.Values) {
			v.report(path, ErrDictArity, "%d keys but %d values", len(n.Keys), len(n.Values))
		}
	}

	for i, c := range Children(n) {
		v.visit(c, fmt.Sprintf("%s.%d:%s", path, i, c.Kind()))
	}
}

// missingChild names the first required child that is nil, or "".
func missingChild(n Node) string {
	switch n := n.(type) {
	case *Var:
		if n.Name == nil {
			return "name"
		}
	case *BinOp:
		if n.LHS == nil || n.RHS == nil {
			return "both operands"
		}
	case *UnaryOp:
		if n.Operand == nil {
			return "operand"
		}
	case *TernaryIf:
		if n.Cond == nil || n.TrueExpr == nil || n.FalseExpr == nil {
			return "condition and both branches"
		}
	case *Apply:
		if n.Callee == nil {
			return "callee"
		}
	case *Attribute:
		if n.Name == nil || n.Value == nil {
			return "name and value"
		}
	case *Select:
		if n.Value == nil || n.Selector == nil {
			return "value and selector"
		}
	case *Subscript:
		if n.Value == nil {
			return "value"
		}
	case *ListComp:
		if n.Elt == nil || n.Target == nil || n.Iter == nil {
			return "element, target and iterable"
		}
	case *Starred:
		if n.Value == nil {
			return "value"
		}
	case *ExprStmt:
		if n.Expr == nil {
			return "expression"
		}
	case *Assign:
		if len(n.LHS) == 0 || n.LHS[0] == nil {
			return "a target"
		}
	case *Delete:
		if n.Target == nil {
			return "target"
		}
	case *Raise:
		if n.Expr == nil {
			return "exception"
		}
	case *Assert:
		if n.Test == nil {
			return "test"
		}
	case *AugAssign:
		if n.LHS == nil || n.RHS == nil {
			return "target and value"
		}
	case *While:
		if n.Cond == nil {
			return "condition"
		}
	case *If:
		if n.Cond == nil {
			return "condition"
		}
	case *WithItem:
		if n.Target == nil {
			return "context expression"
		}
	case *Param:
		if n.Name == nil || n.Type == nil {
			return "name and type"
		}
	case *Def:
		if n.Name == nil || n.Decl == nil {
			return "name and declaration"
		}
	case *Property:
		if n.Name == nil || n.Getter == nil {
			return "name and getter"
		}
	case *ClassDef:
		if n.Name == nil {
			return "name"
		}
	}
	return ""
}
