package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/jitfront/internal/source"
)

// ErrorKind categorizes frontend diagnostics.
type ErrorKind string

const (
	// KindUnsupportedConstruct: no handler exists for the node kind.
	KindUnsupportedConstruct ErrorKind = "UNSUPPORTED_CONSTRUCT"

	// KindNotSupported: a handler exists but rejects this shape.
	KindNotSupported ErrorKind = "NOT_SUPPORTED"

	// KindSemantic: the construct is well-formed but means something the
	// compiled subset does not accept.
	KindSemantic ErrorKind = "SEMANTIC"
)

// FrontendError is the single diagnostic produced when a unit fails to
// translate. HasRange is false only for while/else, where the syntax tree
// carries no usable location. Source is the unit the range points into; the
// Frontend fills it in.
type FrontendError struct {
	Kind     ErrorKind
	Range    source.Range
	HasRange bool
	Message  string
	Source   *source.Context
}

// Error implements the error interface.
func (e *FrontendError) Error() string {
	if !e.HasRange {
		return e.Message
	}
	return fmt.Sprintf("%s (at %s)", e.Message, e.Range)
}

// Describe renders the error with a file position resolved through ctx,
// or through e.Source when ctx is nil.
func (e *FrontendError) Describe(ctx *source.Context) string {
	if ctx == nil {
		ctx = e.Source
	}
	if !e.HasRange || ctx == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", ctx.Describe(e.Range), e.Message)
}

func notSupported(r source.Range, format string, args ...any) *FrontendError {
	return &FrontendError{Kind: KindNotSupported, Range: r, HasRange: true, Message: fmt.Sprintf(format, args...)}
}

func semantic(r source.Range, format string, args ...any) *FrontendError {
	return &FrontendError{Kind: KindSemantic, Range: r, HasRange: true, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) (ErrorKind, bool) {
	var fe *FrontendError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsUnsupportedConstruct returns true if err is an UnsupportedConstruct
// diagnostic. Uses errors.As to handle wrapped errors.
func IsUnsupportedConstruct(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnsupportedConstruct
}

// IsNotSupported returns true for NotSupported diagnostics. An unsupported
// construct is a special case of not supported and matches too.
func IsNotSupported(err error) bool {
	k, ok := kindOf(err)
	return ok && (k == KindNotSupported || k == KindUnsupportedConstruct)
}

// IsSemantic returns true if err is a semantic diagnostic.
func IsSemantic(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindSemantic
}

// AsFrontendError extracts the diagnostic from a possibly wrapped error.
func AsFrontendError(err error) (*FrontendError, bool) {
	var fe *FrontendError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
