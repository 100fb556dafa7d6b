// Package syntax defines the host-language syntax tree handed to the
// compiler package.
//
// Node shapes follow the host grammar's own abstract syntax: every node
// records the 1-based line and byte column of its first token, relative to
// the dedented snippet that was parsed. Function and class definitions start
// at their first decorator line and also record the last line of their body.
//
// The tree is closed: Stmt, Expr and SliceKind are sealed interfaces, so the
// compiler's dispatch switches can enumerate every kind. Kinds that the
// compiled subset never accepts (nested definitions, imports, lambdas, ...)
// are still modelled so that they can be reported with a precise location.
package syntax
