// Package typecomment reads signature type comments of the form
//
//	# type: (int, List[float]) -> Tensor
//
// and merges them into declarations built from a function's own
// annotations. Both halves plug into compiler.WithTypeComments.
package typecomment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/parser"
	"github.com/roach88/jitfront/internal/source"
)

const prefix = "# type:"

// Parser parses type comment lines with the host expression parser.
type Parser struct {
	// File names the comment's origin in diagnostics.
	File string
}

// ParseTypeComment parses line, which must hold a `# type:` comment,
// into a declaration. Ranges are offsets into line. Parameters carry
// positional names `_0`, `_1`, ... since the comment has none.
func (p Parser) ParseTypeComment(line string) (*ir.Decl, error) {
	idx := strings.Index(line, prefix)
	if idx < 0 {
		return nil, fmt.Errorf("type comment %q has no %q prefix", line, prefix)
	}
	start := idx + len(prefix)
	for start < len(line) && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	sig := strings.TrimRight(line[start:], " \t\r")

	ft, err := parser.ParseFuncType(sig)
	if err != nil {
		return nil, fmt.Errorf("type comment: %w", err)
	}

	// The comment is a single line; shifting columns by the signature's
	// offset maps them back into line.
	ctx := source.NewContext(line, p.File, 1, start)
	params := make([]*ir.Param, 0, len(ft.Argtypes))
	for i, a := range ft.Argtypes {
		typ, err := compiler.BuildExpr(ctx, a)
		if err != nil {
			return nil, withSource(err, ctx)
		}
		params = append(params, &ir.Param{
			Type: typ,
			Name: &ir.Ident{Rng: typ.Range(), Name: "_" + strconv.Itoa(i)},
		})
	}
	ret, err := compiler.BuildExpr(ctx, ft.Returns)
	if err != nil {
		return nil, withSource(err, ctx)
	}
	return &ir.Decl{
		Rng:        ctx.MakeRawRange(start, start+len(sig)),
		Params:     params,
		ReturnType: ret,
	}, nil
}

func withSource(err error, ctx *source.Context) error {
	if fe, ok := compiler.AsFrontendError(err); ok && fe.Source == nil {
		fe.Source = ctx
	}
	return err
}

// Merger applies a parsed type comment to a declaration.
type Merger struct{}

// MergeTypeComment returns a copy of decl whose parameter types come from
// comment, in order, and whose return type is the comment's. A method's
// receiver is not listed in the comment and keeps its own type.
func (Merger) MergeTypeComment(decl, comment *ir.Decl, isMethod bool) (*ir.Decl, error) {
	expected := len(decl.Params)
	skip := 0
	kind := "function"
	if isMethod {
		expected--
		skip = 1
		kind = "method"
	}
	if expected != len(comment.Params) {
		return nil, &compiler.FrontendError{
			Kind:     compiler.KindSemantic,
			Range:    decl.Rng,
			HasRange: true,
			Message: fmt.Sprintf("Number of type annotations (%d) did not match the number of %s parameters (%d)",
				len(comment.Params), kind, expected),
		}
	}

	params := make([]*ir.Param, 0, len(decl.Params))
	params = append(params, decl.Params[:skip]...)
	for i, old := range decl.Params[skip:] {
		params = append(params, &ir.Param{
			Type:      comment.Params[i].Type,
			Name:      old.Name,
			KwargOnly: old.KwargOnly,
		})
	}
	return &ir.Decl{Rng: decl.Rng, Params: params, ReturnType: comment.ReturnType}, nil
}

var (
	_ compiler.TypeCommentParser = Parser{}
	_ compiler.DeclMerger        = Merger{}
)
