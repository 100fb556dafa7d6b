package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/parser"
	"github.com/roach88/jitfront/internal/source"
	"github.com/roach88/jitfront/internal/syntax"
)

var (
	// ErrExpectedFunction is returned when a function unit does not parse
	// to exactly one function definition.
	ErrExpectedFunction = errors.New("Expected a single top-level function")

	// ErrExpectedClass is returned when a class unit does not parse to
	// exactly one class definition.
	ErrExpectedClass = errors.New("Expected a single top-level class")

	// ErrNoIntrospector is returned by ClassDef when the frontend was built
	// without a ClassIntrospector.
	ErrNoIntrospector = errors.New("class translation requires a class introspector")

	// ErrInvalidTree is returned when a translated tree breaks a structural
	// invariant. It always indicates a bug in the builders.
	ErrInvalidTree = errors.New("internal error: translated tree is invalid")
)

// Frontend translates functions and classes into trees. It holds no
// per-unit state and is safe for concurrent use when its collaborators
// are.
type Frontend struct {
	sources  SourceProvider
	classes  ClassIntrospector
	comments TypeCommentParser
	merger   DeclMerger
	drop     DropPolicy
	validate bool
	logger   *slog.Logger
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(f *Frontend) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClassIntrospector enables ClassDef.
func WithClassIntrospector(ci ClassIntrospector) Option {
	return func(f *Frontend) {
		f.classes = ci
	}
}

// WithTypeComments enables signature type comments. Without it, type
// comments are ignored.
func WithTypeComments(p TypeCommentParser, m DeclMerger) Option {
	return func(f *Frontend) {
		f.comments = p
		f.merger = m
	}
}

// WithDropPolicy sets which functions are translated as failing stubs.
func WithDropPolicy(p DropPolicy) Option {
	return func(f *Frontend) {
		if p != nil {
			f.drop = p
		}
	}
}

// WithValidation toggles the structural check run on every translated
// tree. It is on by default.
func WithValidation(enabled bool) Option {
	return func(f *Frontend) {
		f.validate = enabled
	}
}

// New creates a Frontend reading unit sources from sources.
func New(sources SourceProvider, opts ...Option) *Frontend {
	f := &Frontend{
		sources:  sources,
		drop:     neverDrop,
		validate: true,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// unit is a parsed translation unit.
type unit struct {
	info SourceInfo
	ctx  *source.Context
	body []syntax.Stmt
}

// load fetches and parses the source of h. The text is dedented for the
// parser; positions are mapped back through the context's indent.
func (f *Frontend) load(h Handle, funcScope bool) (*unit, error) {
	info, err := f.sources.Source(h)
	if err != nil {
		return nil, fmt.Errorf("source of %s: %w", h, err)
	}
	dedented, _ := source.Dedent(info.Text)
	var mode parser.Mode
	if info.Legacy {
		mode |= parser.Legacy
	}
	mod, err := parser.ParseModule(dedented, mode)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", h, err)
	}
	ctx := source.NewContext(info.Text, info.File, info.Line, info.Indent,
		source.WithTrueDivision(info.TrueDivision),
		source.WithFunctionScope(funcScope))
	return &unit{info: info, ctx: ctx, body: mod.Body}, nil
}

// Def translates the function h under the name defName. selfName is the
// enclosing class name for methods and empty otherwise.
func (f *Frontend) Def(h Handle, defName, selfName string) (*ir.Def, error) {
	f.logger.Debug("translating function", "handle", string(h), "name", defName, "self", selfName)

	u, err := f.load(h, true)
	if err != nil {
		return nil, err
	}
	if len(u.body) != 1 {
		return nil, fmt.Errorf("%s: %w", h, ErrExpectedFunction)
	}
	fn, ok := u.body[0].(*syntax.FunctionDef)
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrExpectedFunction)
	}

	typeLine, hasTypeLine, err := TypeLine(u.info.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}

	if f.drop.ShouldDrop(h) {
		f.logger.Info("replacing inactive function with stub", "handle", string(h))
		if fn, err = unusedStub(fn); err != nil {
			return nil, err
		}
	}

	var merge func(*ir.Decl) (*ir.Decl, error)
	if hasTypeLine && f.comments != nil && f.merger != nil {
		merge = func(decl *ir.Decl) (*ir.Decl, error) {
			comment, err := f.comments.ParseTypeComment(typeLine)
			if err != nil {
				return nil, fmt.Errorf("type comment of %s: %w", h, err)
			}
			merged, err := f.merger.MergeTypeComment(decl, comment, selfName != "")
			if err != nil {
				return nil, fmt.Errorf("type comment of %s: %w", h, err)
			}
			return merged, nil
		}
	}

	b := &builder{ctx: u.ctx}
	def, err := b.def(fn, defName, selfName, merge)
	if err != nil {
		return nil, attachSource(err, u.ctx)
	}
	if err := f.check(def, len(u.info.Text)); err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}

	f.logger.Debug("translated function", "handle", string(h), "statements", len(def.Body))
	return def, nil
}

// ClassDef translates the class h. Each method and property accessor is
// its own unit; static methods are skipped.
func (f *Frontend) ClassDef(h Handle, selfName string) (*ir.ClassDef, error) {
	if f.classes == nil {
		return nil, ErrNoIntrospector
	}
	f.logger.Debug("translating class", "handle", string(h), "self", selfName)

	members, err := f.classes.Methods(h)
	if err != nil {
		return nil, fmt.Errorf("methods of %s: %w", h, err)
	}
	methods := make([]*ir.Def, 0, len(members))
	for _, m := range members {
		if m.Static {
			continue
		}
		def, err := f.Def(m.Handle, m.Name, selfName)
		if err != nil {
			return nil, err
		}
		methods = append(methods, def)
	}

	props, err := f.classes.Properties(h)
	if err != nil {
		return nil, fmt.Errorf("properties of %s: %w", h, err)
	}
	properties := make([]*ir.Property, 0, len(props))
	for _, p := range props {
		prop, err := f.property(p, selfName)
		if err != nil {
			return nil, err
		}
		properties = append(properties, prop)
	}

	u, err := f.load(h, false)
	if err != nil {
		return nil, err
	}
	if len(u.body) != 1 {
		return nil, fmt.Errorf("%s: %w", h, ErrExpectedClass)
	}
	cls, ok := u.body[0].(*syntax.ClassDef)
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrExpectedClass)
	}

	b := &builder{ctx: u.ctx}
	out := b.classDef(cls, methods, properties, selfName)
	// Members point into their own units, so only the shape is checked.
	if err := f.check(out, -1); err != nil {
		return nil, fmt.Errorf("%s: %w", h, err)
	}

	f.logger.Debug("translated class", "handle", string(h),
		"methods", len(methods), "properties", len(properties))
	return out, nil
}

func (f *Frontend) property(p PropertyMember, selfName string) (*ir.Property, error) {
	getter, err := f.Def(p.Getter, "__"+p.Name+"_getter", selfName)
	if err != nil {
		return nil, err
	}
	var setter *ir.Def
	if p.Setter != "" {
		if setter, err = f.Def(p.Setter, "__"+p.Name+"_setter", selfName); err != nil {
			return nil, err
		}
	}
	r := getter.Range()
	return &ir.Property{Rng: r, Name: &ir.Ident{Rng: r, Name: p.Name}, Getter: getter, Setter: setter}, nil
}

func (f *Frontend) check(root ir.Node, textLen int) error {
	if !f.validate {
		return nil
	}
	problems := ir.Validate(root, textLen)
	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidTree, strings.Join(msgs, "; "))
}

// attachSource records the unit a diagnostic points into, unless a nested
// translation already did.
func attachSource(err error, ctx *source.Context) error {
	if fe, ok := AsFrontendError(err); ok && fe.Source == nil {
		fe.Source = ctx
	}
	return err
}
