package parser

import (
	"strings"
)

const tabSize = 8

// lexer turns source text into a flat token slice. Newlines inside
// brackets and after a backslash continuation are dropped; blank and
// comment-only lines never affect indentation.
type lexer struct {
	src       string
	pos       int
	line      int
	lineStart int
	// firstLine and colBase shift columns on the first line, used when
	// lexing an f-string field that starts mid-line.
	firstLine int
	colBase   int

	depth       int
	indents     []int
	atLineStart bool
	toks        []Token
}

func newLexer(src string, line, col int) *lexer {
	return &lexer{
		src:         src,
		line:        line,
		firstLine:   line,
		colBase:     col,
		indents:     []int{0},
		atLineStart: true,
	}
}

// tokenize scans the whole input. Syntax errors bail out through fail.
func tokenize(src string) []Token {
	lx := newLexer(src, 1, 0)
	lx.run(true)
	return lx.toks
}

// tokenizeExpr scans a bracket-free fragment such as an f-string field,
// treating newlines as insignificant and ignoring indentation.
func tokenizeExpr(src string, line, col int) []Token {
	lx := newLexer(src, line, col)
	lx.depth = 1
	lx.atLineStart = false
	lx.run(false)
	return lx.toks
}

func (lx *lexer) col(pos int) int {
	c := pos - lx.lineStart
	if lx.line == lx.firstLine {
		c += lx.colBase
	}
	return c
}

func (lx *lexer) emit(kind TokenKind, text string, line, col int) {
	lx.toks = append(lx.toks, Token{Kind: kind, Text: text, Line: line, Col: col})
}

func (lx *lexer) lastKind() TokenKind {
	if len(lx.toks) == 0 {
		return TokNewline
	}
	return lx.toks[len(lx.toks)-1].Kind
}

func (lx *lexer) newline() {
	lx.line++
	lx.lineStart = lx.pos
}

func (lx *lexer) run(blocks bool) {
	for {
		if blocks && lx.atLineStart && lx.depth == 0 {
			if !lx.indentation() {
				continue
			}
		}
		if lx.pos >= len(lx.src) {
			lx.finish(blocks)
			return
		}
		ch := lx.src[lx.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f':
			lx.pos++
		case ch == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case ch == '\\' && lx.peekAt(1) == '\n':
			lx.pos += 2
			lx.newline()
		case ch == '\\' && lx.peekAt(1) == '\r' && lx.peekAt(2) == '\n':
			lx.pos += 3
			lx.newline()
		case ch == '\r':
			lx.pos++
		case ch == '\n':
			if blocks && lx.depth == 0 && lx.lastKind() != TokNewline {
				lx.emit(TokNewline, "", lx.line, lx.col(lx.pos))
			}
			lx.pos++
			lx.newline()
			lx.atLineStart = lx.depth == 0
		case isIdentStart(ch):
			lx.scanNameOrString()
		case isDigit(ch) || (ch == '.' && isDigit(lx.peekAt(1))):
			lx.scanNumber()
		case ch == '"' || ch == '\'':
			lx.scanString(lx.pos)
		default:
			lx.scanOperator()
		}
	}
}

func (lx *lexer) finish(blocks bool) {
	if blocks {
		if lx.lastKind() != TokNewline {
			lx.emit(TokNewline, "", lx.line, lx.col(lx.pos))
		}
		for len(lx.indents) > 1 {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(TokDedent, "", lx.line, lx.col(lx.pos))
		}
	}
	lx.emit(TokEOF, "", lx.line, lx.col(lx.pos))
}

// indentation measures the leading whitespace of a logical line and emits
// INDENT/DEDENT tokens. It returns false when the line is blank or holds
// only a comment, after consuming it.
func (lx *lexer) indentation() bool {
	width := 0
	p := lx.pos
	for p < len(lx.src) {
		switch lx.src[p] {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			goto measured
		}
		p++
	}
measured:
	if p >= len(lx.src) {
		lx.pos = p
		lx.atLineStart = false
		return true
	}
	switch lx.src[p] {
	case '#', '\n', '\r':
		for p < len(lx.src) && lx.src[p] != '\n' {
			p++
		}
		lx.pos = p
		if p < len(lx.src) {
			lx.pos++
			lx.newline()
		}
		return false
	}
	lx.pos = p
	lx.atLineStart = false
	col := lx.col(p)
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emit(TokIndent, "", lx.line, col)
	case width < top:
		for width < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(TokDedent, "", lx.line, col)
		}
		if width != lx.indents[len(lx.indents)-1] {
			fail(lx.line, col, "unindent does not match any outer indentation level")
		}
	}
	return true
}

func (lx *lexer) peekAt(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

func (lx *lexer) scanNameOrString() {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentContinue(lx.src[lx.pos]) {
		lx.pos++
	}
	word := lx.src[start:lx.pos]
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == '"' || lx.src[lx.pos] == '\'') && isStringPrefix(word) {
		lx.scanString(start)
		return
	}
	lx.emit(TokName, word, lx.line, lx.col(start))
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

func (lx *lexer) scanNumber() {
	start := lx.pos
	src := lx.src
	p := lx.pos
	if src[p] == '0' && p+1 < len(src) && strings.IndexByte("xXoObB", src[p+1]) >= 0 {
		p += 2
		for p < len(src) && (isHexDigit(src[p]) || src[p] == '_') {
			p++
		}
	} else {
		for p < len(src) && (isDigit(src[p]) || src[p] == '_') {
			p++
		}
		if p < len(src) && src[p] == '.' {
			p++
			for p < len(src) && (isDigit(src[p]) || src[p] == '_') {
				p++
			}
		}
		if p < len(src) && (src[p] == 'e' || src[p] == 'E') {
			q := p + 1
			if q < len(src) && (src[q] == '+' || src[q] == '-') {
				q++
			}
			if q < len(src) && isDigit(src[q]) {
				p = q
				for p < len(src) && (isDigit(src[p]) || src[p] == '_') {
					p++
				}
			}
		}
		if p < len(src) && (src[p] == 'j' || src[p] == 'J') {
			p++
		}
	}
	// legacy long suffix
	if p < len(src) && (src[p] == 'l' || src[p] == 'L') {
		p++
	}
	lx.pos = p
	lx.emit(TokNumber, src[start:p], lx.line, lx.col(start))
}

// scanString scans a string literal whose prefix starts at start and whose
// opening quote is at lx.pos. The token text keeps prefix and quotes.
func (lx *lexer) scanString(start int) {
	line, col := lx.line, lx.col(start)
	q := lx.src[lx.pos]
	triple := lx.peekAt(1) == q && lx.peekAt(2) == q
	if triple {
		lx.pos += 3
	} else {
		lx.pos++
	}
	for {
		if lx.pos >= len(lx.src) {
			if triple {
				fail(line, col, "EOF while scanning triple-quoted string literal")
			}
			fail(line, col, "EOL while scanning string literal")
		}
		ch := lx.src[lx.pos]
		switch {
		case ch == '\\':
			lx.pos++
			if lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
				lx.pos++
				lx.newline()
			} else if lx.pos < len(lx.src) {
				lx.pos++
			}
			continue
		case ch == '\n':
			if !triple {
				fail(line, col, "EOL while scanning string literal")
			}
			lx.pos++
			lx.newline()
			continue
		case ch == q:
			if !triple {
				lx.pos++
				lx.emit(TokString, lx.src[start:lx.pos], line, col)
				return
			}
			if lx.peekAt(1) == q && lx.peekAt(2) == q {
				lx.pos += 3
				lx.emit(TokString, lx.src[start:lx.pos], line, col)
				return
			}
		}
		lx.pos++
	}
}

func (lx *lexer) scanOperator() {
	rest := lx.src[lx.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			switch op {
			case "(", "[", "{":
				lx.depth++
			case ")", "]", "}":
				if lx.depth > 0 {
					lx.depth--
				}
			}
			lx.emit(TokOp, op, lx.line, lx.col(lx.pos))
			lx.pos += len(op)
			return
		}
	}
	fail(lx.line, lx.col(lx.pos), "invalid character %q", rest[0])
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
