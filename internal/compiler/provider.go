package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/jitfront/internal/ir"
)

// Handle names a function, method or class to the collaborators. The
// frontend never interprets it.
type Handle string

// SourceInfo is everything the frontend needs to know about where a unit
// was written.
type SourceInfo struct {
	// Text is the unit source as it appears in the file, indentation
	// included.
	Text string
	// File is the originating file name, used in diagnostics.
	File string
	// Line is the 1-based file line of the first line of Text.
	Line int
	// Indent is the number of leading whitespace bytes shared by every
	// line of Text.
	Indent int
	// TrueDivision is set when `/` on integers is true division.
	TrueDivision bool
	// Legacy selects the older grammar with the print statement.
	Legacy bool
}

// SourceProvider retrieves the source of a unit.
type SourceProvider interface {
	Source(h Handle) (SourceInfo, error)
}

// Member is one method defined directly on a class.
type Member struct {
	Name   string
	Handle Handle
	Static bool
}

// PropertyMember is one property of a class. Setter is empty for a
// read-only property.
type PropertyMember struct {
	Name   string
	Getter Handle
	Setter Handle
}

// ClassIntrospector enumerates a class's own members. Inherited members
// are not reported.
type ClassIntrospector interface {
	Methods(cls Handle) ([]Member, error)
	Properties(cls Handle) ([]PropertyMember, error)
}

// TypeCommentParser parses a signature type comment line into a
// standalone declaration.
type TypeCommentParser interface {
	ParseTypeComment(line string) (*ir.Decl, error)
}

// DeclMerger combines the declaration built from annotations with one
// parsed from a type comment.
type DeclMerger interface {
	MergeTypeComment(decl, comment *ir.Decl, isMethod bool) (*ir.Decl, error)
}

// DropPolicy decides which functions are inactive: translated as a stub
// that fails when called.
type DropPolicy interface {
	ShouldDrop(h Handle) bool
}

// DropPolicyFunc adapts a function to DropPolicy.
type DropPolicyFunc func(h Handle) bool

// ShouldDrop implements DropPolicy.
func (f DropPolicyFunc) ShouldDrop(h Handle) bool { return f(h) }

// neverDrop is the default policy.
var neverDrop = DropPolicyFunc(func(Handle) bool { return false })

// DroppedMembers returns the sorted handles of the methods and property
// accessors of cls that p replaces with stubs when ClassDef translates it.
// Static methods are never translated and are not reported.
func DroppedMembers(ci ClassIntrospector, p DropPolicy, cls Handle) ([]Handle, error) {
	methods, err := ci.Methods(cls)
	if err != nil {
		return nil, fmt.Errorf("methods of %s: %w", cls, err)
	}
	props, err := ci.Properties(cls)
	if err != nil {
		return nil, fmt.Errorf("properties of %s: %w", cls, err)
	}
	var dropped []Handle
	for _, m := range methods {
		if !m.Static && p.ShouldDrop(m.Handle) {
			dropped = append(dropped, m.Handle)
		}
	}
	for _, prop := range props {
		for _, h := range []Handle{prop.Getter, prop.Setter} {
			if h != "" && p.ShouldDrop(h) {
				dropped = append(dropped, h)
			}
		}
	}
	slices.Sort(dropped)
	return dropped, nil
}
