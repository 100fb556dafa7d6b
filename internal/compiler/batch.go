package compiler

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/jitfront/internal/ir"
)

// UnitKind says how a unit is translated.
type UnitKind string

const (
	UnitFunction UnitKind = "function"
	UnitClass    UnitKind = "class"
)

// Unit is one entry of a batch. Name is the definition name for functions
// and is only used for reporting on classes. SelfName is the enclosing
// class for methods, and the class name for classes.
type Unit struct {
	Name     string
	Kind     UnitKind
	Handle   Handle
	SelfName string
}

// UnitResult is the outcome of one unit. Exactly one of Def, Class and Err
// is set.
type UnitResult struct {
	Unit  Unit
	Def   *ir.Def
	Class *ir.ClassDef
	Err   error
}

// Node returns the translated tree, or nil on failure.
func (r UnitResult) Node() ir.Node {
	switch {
	case r.Def != nil:
		return r.Def
	case r.Class != nil:
		return r.Class
	}
	return nil
}

// BatchMode selects how failures affect the rest of a batch.
type BatchMode int

const (
	// ModeCollectAll translates every unit and reports each failure in
	// its result.
	ModeCollectAll BatchMode = iota
	// ModeFailFast stops at the first failure and returns it.
	ModeFailFast
)

// BatchOptions configures CompileUnits.
type BatchOptions struct {
	Mode BatchMode
	// Jobs bounds concurrent translations. Zero or less uses GOMAXPROCS.
	Jobs int
}

// CompileUnits translates units concurrently. Results are in input order.
// In ModeFailFast the first failure cancels the remaining units and is
// returned as the error; results of units that did not run are left
// empty.
func CompileUnits(ctx context.Context, fe *Frontend, units []Unit, opts BatchOptions) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res := fe.compileUnit(u)
			results[i] = res
			if res.Err == nil {
				return nil
			}
			fe.logger.Warn("unit failed", "unit", u.Name, "kind", string(u.Kind), "error", res.Err)
			if opts.Mode == ModeFailFast {
				return fmt.Errorf("unit %s: %w", u.Name, res.Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (f *Frontend) compileUnit(u Unit) UnitResult {
	res := UnitResult{Unit: u}
	switch u.Kind {
	case UnitFunction:
		res.Def, res.Err = f.Def(u.Handle, u.Name, u.SelfName)
	case UnitClass:
		res.Class, res.Err = f.ClassDef(u.Handle, u.SelfName)
	default:
		res.Err = fmt.Errorf("unknown unit kind %q", u.Kind)
	}
	return res
}
