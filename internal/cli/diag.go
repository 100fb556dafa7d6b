package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/parser"
)

// Frontend error codes.
const (
	ErrCodeUnsupported  = "E201" // No handler for the construct
	ErrCodeNotSupported = "E202" // Handler rejects this shape
	ErrCodeSemantic     = "E203" // Construct means something the subset does not accept
	ErrCodeSyntax       = "E204" // Unit source does not parse
	ErrCodeUnit         = "E205" // Unit cannot be resolved or is not the expected kind
	ErrCodeInvalidTree  = "E301" // Translated tree failed validation
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	codeColor   = color.New(color.FgYellow)
	gutterColor = color.New(color.FgBlue, color.Bold)
	caretColor  = color.New(color.FgRed, color.Bold)
)

// ErrorCode maps a unit translation error to its stable code.
func ErrorCode(err error) string {
	if diag, ok := compiler.AsFrontendError(err); ok {
		switch diag.Kind {
		case compiler.KindUnsupportedConstruct:
			return ErrCodeUnsupported
		case compiler.KindSemantic:
			return ErrCodeSemantic
		default:
			return ErrCodeNotSupported
		}
	}
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return ErrCodeSyntax
	case errors.Is(err, compiler.ErrInvalidTree):
		return ErrCodeInvalidTree
	}
	return ErrCodeUnit
}

// DiagnosticDetails is the structured form of a unit error.
type DiagnosticDetails struct {
	Kind  string `json:"kind,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	Col   int    `json:"col,omitempty"`
	Start uint32 `json:"start,omitempty"`
	End   uint32 `json:"end,omitempty"`
}

// diagnosticDetails locates a frontend diagnostic, or returns nil for
// errors without a source range.
func diagnosticDetails(err error) *DiagnosticDetails {
	diag, ok := compiler.AsFrontendError(err)
	if !ok {
		return nil
	}
	d := &DiagnosticDetails{Kind: string(diag.Kind)}
	if diag.HasRange && diag.Source != nil {
		pos := diag.Source.Position(diag.Range.Start)
		d.File = diag.Source.File()
		d.Line = pos.Line
		d.Col = pos.Col
		d.Start = diag.Range.Start
		d.End = diag.Range.End
	}
	return d
}

// diagnosticMessage is the message without a position prefix.
func diagnosticMessage(err error) string {
	if diag, ok := compiler.AsFrontendError(err); ok {
		return diag.Message
	}
	return err.Error()
}

// PrintDiagnostic renders a unit error for humans:
//
//	m.py:5:9: error[E202]: Compiled functions can't take ...
//	    5 | def bad(*a):
//	      |         ^~
//
// Caret columns account for wide runes so the underline stays aligned in
// a terminal.
func PrintDiagnostic(w io.Writer, unit string, err error) {
	code := ErrorCode(err)
	diag, ok := compiler.AsFrontendError(err)
	if !ok || !diag.HasRange || diag.Source == nil {
		fmt.Fprintf(w, "%s%s: %s: %s\n", errorColor.Sprint("error"), codeColor.Sprintf("[%s]", code), unit, err)
		return
	}

	src := diag.Source
	fmt.Fprintf(w, "%s: %s%s: %s\n",
		src.Describe(diag.Range), errorColor.Sprint("error"), codeColor.Sprintf("[%s]", code), diag.Message)

	pos := src.Position(diag.Range.Start)
	line := src.LineText(diag.Range.Start)
	lineNo := strconv.Itoa(pos.Line)
	pad := strings.Repeat(" ", len(lineNo))

	startCol := min(pos.Col-1, len(line))
	endCol := startCol + int(diag.Range.End-diag.Range.Start)
	endCol = min(max(endCol, startCol), len(line))

	fmt.Fprintf(w, " %s %s %s\n", gutterColor.Sprint(lineNo), gutterColor.Sprint("|"), line)
	fmt.Fprintf(w, " %s %s %s\n", pad, gutterColor.Sprint("|"), caretColor.Sprint(underline(line, startCol, endCol)))
}

// underline returns the marker line for line[start:end]: the prefix
// blanked to its display width (tabs kept), then ^ and ~ across the span.
func underline(line string, start, end int) string {
	var b strings.Builder
	for _, r := range line[:start] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[start:end])
	b.WriteByte('^')
	if width > 1 {
		b.WriteString(strings.Repeat("~", width-1))
	}
	return b.String()
}
