// Package parser reads host-language source into an internal/syntax tree.
//
// It covers the statement and expression grammar of the host language well
// enough to feed the compiler: indentation blocks, decorators, every operator
// precedence level, string prefixes with implicit concatenation, f-strings
// and numeric literals kept verbatim. Positions follow the host grammar's own
// conventions, so column offsets are byte columns and decorated definitions
// start at their first decorator.
//
// The legacy print statement is only recognised when the Legacy mode bit is
// set.
package parser
