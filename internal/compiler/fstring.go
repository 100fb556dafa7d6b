package compiler

import (
	"strings"

	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/syntax"
)

// braceEscaper doubles braces in literal parts so format reads them back
// as text.
var braceEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// joinedStr lowers f"a{x}b{y}" to "a{}b{}".format(x, y). Conversions and
// format specs have no counterpart in the lowered form and are rejected.
func (b *builder) joinedStr(e *syntax.JoinedStr) (ir.Expr, error) {
	var template strings.Builder
	args := make([]ir.Expr, 0, len(e.Values))
	for _, part := range e.Values {
		r := b.rangeAt(part.Position(), 1)
		switch v := part.(type) {
		case *syntax.FormattedValue:
			if v.Conversion != syntax.NoConversion {
				return nil, notSupported(r, "Don't support conversion in JoinedStr")
			}
			if v.FormatSpec != nil {
				return nil, notSupported(r, "Don't support formatting in JoinedStr")
			}
			template.WriteString("{}")
			arg, err := b.expr(v.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		case *syntax.Str:
			template.WriteString(braceEscaper.Replace(v.Value))
		default:
			return nil, notSupported(r, "Unsupported value in JoinedStr")
		}
	}

	r := b.rangeAt(e.Pos, 1)
	format := &ir.Select{
		Value:    &ir.StringLiteral{Rng: r, Value: template.String()},
		Selector: &ir.Ident{Rng: r, Name: "format"},
	}
	return &ir.Apply{Callee: format, Inputs: args}, nil
}
