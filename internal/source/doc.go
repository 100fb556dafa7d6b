// Package source provides byte-offset ranges and the per-unit source context
// used to locate every produced IR node in user code.
//
// A translation unit is the full, non-dedented text of one function or class
// as the host environment reports it. The host parser sees a dedented copy of
// that text, so node positions arrive as (line, column) pairs relative to the
// dedented snippet. Context maps those pairs back into byte offsets of the
// original text by adding the removed indentation to every column.
//
// Context is immutable after construction and safe to share between
// goroutines. This package imports nothing internal.
package source
