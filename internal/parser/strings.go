package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/jitfront/internal/syntax"
)

// literal is one string token split into its parts.
type literal struct {
	tok    Token
	prefix string
	body   string
	// bodyOff is the byte offset of body inside tok.Text.
	bodyOff int
	raw     bool
	bytes   bool
	format  bool
}

func splitLiteral(t Token) literal {
	i := strings.IndexAny(t.Text, `"'`)
	prefix := strings.ToLower(t.Text[:i])
	quote := t.Text[i : i+1]
	if strings.HasPrefix(t.Text[i:], strings.Repeat(quote, 3)) && len(t.Text)-i >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	return literal{
		tok:     t,
		prefix:  prefix,
		body:    t.Text[i+len(quote) : len(t.Text)-len(quote)],
		bodyOff: i + len(quote),
		raw:     strings.Contains(prefix, "r"),
		bytes:   strings.Contains(prefix, "b"),
		format:  strings.Contains(prefix, "f"),
	}
}

// position maps a byte offset inside the token text to a line and column.
func (l literal) position(off int) (int, int) {
	before := l.tok.Text[:off]
	nl := strings.Count(before, "\n")
	if nl == 0 {
		return l.tok.Line, l.tok.Col + off
	}
	return l.tok.Line + nl, off - (strings.LastIndexByte(before, '\n') + 1)
}

// joined accumulates the parts of an f-string, merging adjacent literal
// text into one Str.
type joined struct {
	pos    syntax.Pos
	lit    strings.Builder
	values []syntax.Expr
}

func (j *joined) text(s string) {
	j.lit.WriteString(s)
}

func (j *joined) field(e syntax.Expr) {
	j.flush()
	j.values = append(j.values, e)
}

func (j *joined) flush() {
	if j.lit.Len() > 0 {
		j.values = append(j.values, &syntax.Str{Pos: j.pos, Value: j.lit.String()})
		j.lit.Reset()
	}
}

// concatStrings folds adjacent string tokens into one literal node.
func (p *parser) concatStrings(toks []Token) syntax.Expr {
	pos := posOf(toks[0])
	j := &joined{pos: pos}
	anyFormat := false
	var isBytes bool
	for i, t := range toks {
		l := splitLiteral(t)
		if i == 0 {
			isBytes = l.bytes
		} else if l.bytes != isBytes {
			fail(t.Line, t.Col, "cannot mix bytes and nonbytes literals")
		}
		if l.format {
			anyFormat = true
			p.fstring(j, l, l.body, l.bodyOff)
			continue
		}
		j.text(decodeEscapes(l, l.body))
	}
	switch {
	case isBytes:
		return &syntax.Bytes{Pos: pos, Value: j.lit.String()}
	case !anyFormat:
		return &syntax.Str{Pos: pos, Value: j.lit.String()}
	}
	j.flush()
	return &syntax.JoinedStr{Pos: pos, Values: j.values}
}

// fstring scans the f-string text s, which starts at byte offset base of
// the token, into j.
func (p *parser) fstring(j *joined, l literal, s string, base int) {
	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			j.text("{")
			i += 2
		case strings.HasPrefix(s[i:], "}}"):
			j.text("}")
			i += 2
		case s[i] == '}':
			line, col := l.position(base + i)
			fail(line, col, "f-string: single '}' is not allowed")
		case s[i] == '{':
			i = p.fstringField(j, l, s, base, i)
		default:
			k := i
			for k < len(s) && s[k] != '{' && s[k] != '}' {
				k++
			}
			j.text(decodeEscapes(l, s[i:k]))
			i = k
		}
	}
}

// fstringField parses the replacement field opening at s[open] and returns
// the offset just past its closing brace.
func (p *parser) fstringField(j *joined, l literal, s string, base, open int) int {
	line, col := l.position(base + open)
	end := scanFieldExpr(s, open+1)
	text := s[open+1 : end]
	if strings.TrimSpace(text) == "" {
		fail(line, col, "f-string: empty expression not allowed")
	}
	eline, ecol := l.position(base + open + 1)
	fv := &syntax.FormattedValue{Pos: j.pos, Conversion: syntax.NoConversion}
	// {expr=} echoes its source text before the value and defaults to !r.
	debug := selfDocumenting(text)
	if debug {
		j.text(text)
		text = strings.TrimRight(text, " \t\f")
		text = text[:len(text)-1]
	}
	fv.Value = p.fieldExpr(text, eline, ecol)

	i := end
	if i < len(s) && s[i] == '!' {
		if i+1 >= len(s) || strings.IndexByte("sra", s[i+1]) < 0 {
			fail(line, col, "f-string: invalid conversion character: expected 's', 'r', or 'a'")
		}
		fv.Conversion = int(s[i+1])
		i += 2
	}
	if i < len(s) && s[i] == ':' {
		specEnd := scanFormatSpec(s, i+1)
		spec := &joined{pos: j.pos}
		p.fstring(spec, l, s[i+1:specEnd], base+i+1)
		spec.flush()
		fv.FormatSpec = &syntax.JoinedStr{Pos: j.pos, Values: spec.values}
		i = specEnd
	}
	if i >= len(s) || s[i] != '}' {
		fail(line, col, "f-string: expecting '}'")
	}
	if debug && fv.Conversion == syntax.NoConversion && fv.FormatSpec == nil {
		fv.Conversion = 'r'
	}
	j.field(fv)
	return i + 1
}

func (p *parser) fieldExpr(text string, line, col int) syntax.Expr {
	sub := &parser{toks: tokenizeExpr(text, line, col), mode: p.mode}
	e := sub.testlistStarExpr()
	if sub.tok().Kind != TokEOF {
		sub.errorf("f-string: invalid syntax")
	}
	return e
}

// selfDocumenting reports whether a replacement field's expression text
// ends with a lone '=', as in f"{x=}" or f"{x = }".
func selfDocumenting(text string) bool {
	t := strings.TrimRight(text, " \t\f")
	if !strings.HasSuffix(t, "=") {
		return false
	}
	t = t[:len(t)-1]
	return t != "" && strings.IndexByte("=!<>", t[len(t)-1]) < 0
}

// scanFieldExpr finds the end of a replacement field's expression: the
// first top-level '!', ':' or '}' outside brackets and nested strings.
func scanFieldExpr(s string, i int) int {
	depth := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			i = skipQuoted(s, i)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '}':
			if depth == 0 {
				return i
			}
			depth--
		case depth == 0 && c == '!' && (i+1 >= len(s) || s[i+1] != '='):
			return i
		case depth == 0 && c == ':':
			return i
		}
		i++
	}
	return i
}

// scanFormatSpec finds the '}' closing a format spec, stepping over nested
// replacement fields.
func scanFormatSpec(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
		i++
	}
	return i
}

func skipQuoted(s string, i int) int {
	q := s[i]
	i++
	for i < len(s) && s[i] != q {
		if s[i] == '\\' {
			i++
		}
		i++
	}
	return i + 1
}

// decodeEscapes resolves backslash escapes in a literal's text. Raw
// literals are returned unchanged; unknown escapes keep their backslash.
func decodeEscapes(l literal, s string) string {
	if l.raw || !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			writeCode(&b, rune(v), l.bytes)
			i = j - 1
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			if (l.bytes && e != 'x') || i+1+width > len(s) {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			v, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			writeCode(&b, rune(v), l.bytes)
			i += width
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

func writeCode(b *strings.Builder, r rune, asByte bool) {
	if asByte || r < utf8.RuneSelf {
		b.WriteByte(byte(r))
		return
	}
	b.WriteRune(r)
}
