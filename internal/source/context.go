package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Context owns the text of one translation unit and resolves positions in it.
type Context struct {
	text         string
	file         string
	firstLine    int
	indent       int
	trueDivision bool
	funcScope    bool
	lineStarts   []uint32
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithTrueDivision marks the unit as using true (non-truncating) division.
func WithTrueDivision(enabled bool) Option {
	return func(c *Context) { c.trueDivision = enabled }
}

// WithFunctionScope marks the unit as a function body rather than a plain
// statement block.
func WithFunctionScope(enabled bool) Option {
	return func(c *Context) { c.funcScope = enabled }
}

// NewContext creates a context for text read from file. firstLine is the
// 1-based file line of the first line of text and indent is the number of
// leading whitespace bytes removed from every line before parsing.
func NewContext(text, file string, firstLine, indent int, opts ...Option) *Context {
	if firstLine < 1 {
		firstLine = 1
	}
	if indent < 0 {
		indent = 0
	}
	c := &Context{
		text:       text,
		file:       file,
		firstLine:  firstLine,
		indent:     indent,
		lineStarts: buildLineStarts(text),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Text returns the full unit text.
func (c *Context) Text() string { return c.text }

// File returns the originating file name.
func (c *Context) File() string { return c.file }

// FirstLine returns the file line number of the first unit line.
func (c *Context) FirstLine() int { return c.firstLine }

// Indent returns the leading whitespace offset added to every column.
func (c *Context) Indent() int { return c.indent }

// UsesTrueDivision reports whether `/` follows true division semantics.
func (c *Context) UsesTrueDivision() bool { return c.trueDivision }

// FunctionScope reports whether the unit is a function body.
func (c *Context) FunctionScope() bool { return c.funcScope }

// MakeRange converts a 1-based line and two byte columns of the dedented
// snippet into a range of the original text. Results are clamped to the text.
func (c *Context) MakeRange(line, startCol, endCol int) Range {
	base := c.lineOffset(line)
	return c.MakeRawRange(base+startCol+c.indent, base+endCol+c.indent)
}

// MakeRawRange builds a range directly from byte offsets, clamped so that
// 0 <= start <= end <= len(text).
func (c *Context) MakeRawRange(start, end int) Range {
	limit := len(c.text)
	start = clamp(start, 0, limit)
	end = clamp(end, start, limit)
	return Range{Start: toOffset(start), End: toOffset(end)}
}

// Slice returns the text covered by r.
func (c *Context) Slice(r Range) string {
	rr := c.MakeRawRange(int(r.Start), int(r.End))
	return c.text[rr.Start:rr.End]
}

// FindBefore locates the last occurrence of substr that ends at or before pos
// and returns its range widened by startAdj and endAdj bytes. This is a raw
// text scan, not a grammar lookup: it is used where the syntax tree carries no
// location for a token.
func (c *Context) FindBefore(pos uint32, substr string, startAdj, endAdj int) (Range, bool) {
	limit := clamp(int(pos), 0, len(c.text))
	idx := strings.LastIndex(c.text[:limit], substr)
	if idx < 0 {
		return Range{}, false
	}
	return c.MakeRawRange(idx+startAdj, idx+len(substr)+endAdj), true
}

// SkipSpaceForward returns the first offset at or after pos that does not
// hold an ASCII whitespace byte.
func (c *Context) SkipSpaceForward(pos int) int {
	pos = clamp(pos, 0, len(c.text))
	for pos < len(c.text) && isSpace(c.text[pos]) {
		pos++
	}
	return pos
}

// Position resolves a byte offset to a file line and 1-based byte column.
func (c *Context) Position(off uint32) LineCol {
	idx := c.lineIndex(off)
	return LineCol{
		Line: c.firstLine + idx,
		Col:  int(off-c.lineStarts[idx]) + 1,
	}
}

// LineText returns the text of the line containing off, without newline.
func (c *Context) LineText(off uint32) string {
	idx := c.lineIndex(off)
	start := int(c.lineStarts[idx])
	end := len(c.text)
	if idx+1 < len(c.lineStarts) {
		end = int(c.lineStarts[idx+1]) - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(c.text[start:end], "\r")
}

// Describe formats r as file:line:col for messages.
func (c *Context) Describe(r Range) string {
	pos := c.Position(r.Start)
	return fmt.Sprintf("%s:%d:%d", c.file, pos.Line, pos.Col)
}

// LineCol is a human readable position.
type LineCol struct {
	Line int // file line, 1-based
	Col  int // byte column, 1-based
}

func (c *Context) lineOffset(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(c.lineStarts) {
		return len(c.text)
	}
	return int(c.lineStarts[line-1])
}

// lineIndex finds the 0-based line holding off by binary search.
func (c *Context) lineIndex(off uint32) int {
	lo, hi := 0, len(c.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if c.lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func buildLineStarts(text string) []uint32 {
	starts := make([]uint32, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, toOffset(i+1))
		}
	}
	return starts
}

func toOffset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isSpace matches the host language's string.whitespace set.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
