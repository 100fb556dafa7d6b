// Package workspace serves translation units out of Python source files.
// It implements the frontend's SourceProvider, ClassIntrospector and
// DropPolicy over parsed files, standing in for the live reflection a
// host interpreter would provide.
//
// Units are addressed by handle:
//
//	add             top-level function
//	Point           top-level class
//	Point.norm      method or property getter
//	Point.x.setter  property setter
package workspace

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/parser"
	"github.com/roach88/jitfront/internal/source"
	"github.com/roach88/jitfront/internal/syntax"
)

// ErrUnknownHandle is returned for handles no loaded file defines.
var ErrUnknownHandle = errors.New("unknown unit")

// Workspace indexes the units of a set of files. Load everything before
// handing it to a Frontend; lookups are read-only and safe for concurrent
// use.
type Workspace struct {
	units   map[compiler.Handle]*unitRef
	classes map[compiler.Handle]*classRef
	unused  map[compiler.Handle]bool
}

type file struct {
	path         string
	lines        []string
	legacy       bool
	trueDivision bool
}

type unitRef struct {
	file      *file
	firstLine int
	lastLine  int
	unused    bool
}

type classRef struct {
	methods    []compiler.Member
	properties []compiler.PropertyMember
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		units:   make(map[compiler.Handle]*unitRef),
		classes: make(map[compiler.Handle]*classRef),
		unused:  make(map[compiler.Handle]bool),
	}
}

// LoadFile reads and indexes path. legacy selects the older grammar with
// the print statement and truncating integer division.
func (w *Workspace) LoadFile(path string, legacy bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return w.AddFile(path, string(data), legacy)
}

// AddFile indexes text as the contents of path.
func (w *Workspace) AddFile(path, text string, legacy bool) error {
	var mode parser.Mode
	if legacy {
		mode |= parser.Legacy
	}
	mod, err := parser.ParseModule(text, mode)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	f := &file{
		path:         path,
		lines:        strings.Split(text, "\n"),
		legacy:       legacy,
		trueDivision: !legacy || importsDivision(mod),
	}
	for _, s := range mod.Body {
		switch s := s.(type) {
		case *syntax.FunctionDef:
			if err := w.addUnit(compiler.Handle(s.Name), f, s.Lineno, s.EndLineno, isUnused(s.DecoratorList)); err != nil {
				return err
			}
		case *syntax.ClassDef:
			if err := w.addClass(f, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Workspace) addUnit(h compiler.Handle, f *file, first, last int, unused bool) error {
	if prev, ok := w.units[h]; ok {
		return fmt.Errorf("%s: %q already defined in %s", f.path, h, prev.file.path)
	}
	w.units[h] = &unitRef{file: f, firstLine: first, lastLine: last, unused: unused}
	return nil
}

func (w *Workspace) addClass(f *file, cls *syntax.ClassDef) error {
	h := compiler.Handle(cls.Name)
	if err := w.addUnit(h, f, cls.Lineno, cls.EndLineno, false); err != nil {
		return err
	}
	ref := &classRef{}
	props := map[string]*compiler.PropertyMember{}
	for _, s := range cls.Body {
		fn, ok := s.(*syntax.FunctionDef)
		if !ok {
			continue
		}
		member := compiler.Handle(cls.Name + "." + fn.Name)
		switch {
		case hasDecorator(fn.DecoratorList, "property"):
			props[fn.Name] = &compiler.PropertyMember{Name: fn.Name, Getter: member}
		case setterOf(fn.DecoratorList) != "":
			prop, ok := props[setterOf(fn.DecoratorList)]
			if !ok {
				return fmt.Errorf("%s:%d: setter for undefined property %q", f.path, fn.Lineno, fn.Name)
			}
			member += ".setter"
			prop.Setter = member
		default:
			ref.methods = append(ref.methods, compiler.Member{
				Name:   fn.Name,
				Handle: member,
				Static: hasDecorator(fn.DecoratorList, "staticmethod"),
			})
		}
		if err := w.addUnit(member, f, fn.Lineno, fn.EndLineno, isUnused(fn.DecoratorList)); err != nil {
			return err
		}
	}

	slices.SortFunc(ref.methods, func(a, b compiler.Member) int { return strings.Compare(a.Name, b.Name) })
	for _, p := range props {
		ref.properties = append(ref.properties, *p)
	}
	slices.SortFunc(ref.properties, func(a, b compiler.PropertyMember) int { return strings.Compare(a.Name, b.Name) })
	w.classes[h] = ref
	return nil
}

// MarkUnused makes ShouldDrop report h regardless of its decorators.
func (w *Workspace) MarkUnused(h compiler.Handle) {
	w.unused[h] = true
}

// Handles returns every indexed handle in sorted order.
func (w *Workspace) Handles() []compiler.Handle {
	out := make([]compiler.Handle, 0, len(w.units))
	for h := range w.units {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// IsClass reports whether h names a class.
func (w *Workspace) IsClass(h compiler.Handle) bool {
	_, ok := w.classes[h]
	return ok
}

// Source implements compiler.SourceProvider. The text runs from the
// first decorator to the unit's last line, indentation included.
func (w *Workspace) Source(h compiler.Handle) (compiler.SourceInfo, error) {
	ref, ok := w.units[h]
	if !ok {
		return compiler.SourceInfo{}, fmt.Errorf("%w %q", ErrUnknownHandle, h)
	}
	f := ref.file
	text := strings.Join(f.lines[ref.firstLine-1:ref.lastLine], "\n") + "\n"
	_, indent := source.Dedent(text)
	return compiler.SourceInfo{
		Text:         text,
		File:         f.path,
		Line:         ref.firstLine,
		Indent:       indent,
		TrueDivision: f.trueDivision,
		Legacy:       f.legacy,
	}, nil
}

// Methods implements compiler.ClassIntrospector. Methods are sorted by
// name; property accessors are not included.
func (w *Workspace) Methods(cls compiler.Handle) ([]compiler.Member, error) {
	ref, ok := w.classes[cls]
	if !ok {
		return nil, fmt.Errorf("%w: class %q", ErrUnknownHandle, cls)
	}
	return slices.Clone(ref.methods), nil
}

// Properties implements compiler.ClassIntrospector.
func (w *Workspace) Properties(cls compiler.Handle) ([]compiler.PropertyMember, error) {
	ref, ok := w.classes[cls]
	if !ok {
		return nil, fmt.Errorf("%w: class %q", ErrUnknownHandle, cls)
	}
	return slices.Clone(ref.properties), nil
}

// ShouldDrop implements compiler.DropPolicy: functions decorated with
// `unused` (bare or as the last attribute, as in `@jit.unused`) and
// handles marked with MarkUnused are dropped.
func (w *Workspace) ShouldDrop(h compiler.Handle) bool {
	if w.unused[h] {
		return true
	}
	ref, ok := w.units[h]
	return ok && ref.unused
}

var (
	_ compiler.SourceProvider    = (*Workspace)(nil)
	_ compiler.ClassIntrospector = (*Workspace)(nil)
	_ compiler.DropPolicy        = (*Workspace)(nil)
)

func importsDivision(mod *syntax.Module) bool {
	for _, s := range mod.Body {
		imp, ok := s.(*syntax.ImportFrom)
		if !ok || imp.Module != "__future__" {
			continue
		}
		for _, a := range imp.Names {
			if a.Name == "division" {
				return true
			}
		}
	}
	return false
}

// decoratorName is the last name of a decorator: `unused` for both
// `@unused` and `@torch.jit.unused`. Call decorators are not matched.
func decoratorName(d syntax.Expr) string {
	switch d := d.(type) {
	case *syntax.Name:
		return d.ID
	case *syntax.Attribute:
		return d.Attr
	}
	return ""
}

func hasDecorator(decorators []syntax.Expr, name string) bool {
	for _, d := range decorators {
		if decoratorName(d) == name {
			return true
		}
	}
	return false
}

func isUnused(decorators []syntax.Expr) bool {
	return hasDecorator(decorators, "unused")
}

// setterOf returns the property named by a `@<prop>.setter` decorator.
func setterOf(decorators []syntax.Expr) string {
	for _, d := range decorators {
		attr, ok := d.(*syntax.Attribute)
		if !ok || attr.Attr != "setter" {
			continue
		}
		if base, ok := attr.Value.(*syntax.Name); ok {
			return base.ID
		}
	}
	return ""
}
