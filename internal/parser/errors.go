package parser

import (
	"errors"
	"fmt"
)

// SyntaxError reports malformed input. Line is 1-based and Col is the
// 1-based byte column of the offending token.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// bailout carries the first error out of the recursive descent.
type bailout struct {
	err *SyntaxError
}

func fail(line, col int, format string, args ...any) {
	panic(bailout{err: &SyntaxError{Line: line, Col: col + 1, Msg: fmt.Sprintf(format, args...)}})
}

// catch converts a bailout into an error; other panics propagate.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	*err = b.err
}
