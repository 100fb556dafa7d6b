package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/jitfront/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []UnitOutcome // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, out := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s\n", out.Seq, out.Unit, out.Case)
	}

	return buf.String()
}

// AssertionContext carries what store-backed assertions query.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// assertTree checks a unit's dump: exact when exact is set, otherwise as
// a substring.
func assertTree(trace []UnitOutcome, assertion Assertion, exact bool) error {
	var out *UnitOutcome
	for i := range trace {
		if trace[i].Unit == assertion.Unit {
			out = &trace[i]
			break
		}
	}

	fail := func(actual string) error {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: fmt.Sprintf("%s tree %q", assertion.Unit, assertion.Text),
			Actual:   actual,
			Trace:    trace,
		}
	}
	switch {
	case out == nil:
		return fail("unit not in trace")
	case out.Case != CaseOK:
		return fail(out.Diagnostic)
	case exact && out.Tree != assertion.Text:
		return fail(fmt.Sprintf("%q", out.Tree))
	case !exact && !strings.Contains(out.Tree, assertion.Text):
		return fail(fmt.Sprintf("%q", out.Tree))
	}
	return nil
}

// assertErrorCount checks how many units failed.
func assertErrorCount(trace []UnitOutcome, assertion Assertion) error {
	count := 0
	for _, out := range trace {
		if out.Case == CaseError {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d failed units", assertion.Count),
			Actual:   fmt.Sprintf("%d failed units", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertCached checks how many translations the cache holds.
func assertCached(actx *AssertionContext, trace []UnitOutcome, assertion Assertion) error {
	stats, err := actx.Store.Stats(actx.Ctx)
	if err != nil {
		return fmt.Errorf("cached: %w", err)
	}
	if stats.Translations != int64(assertion.Count) {
		return &AssertionError{
			Type:     AssertCached,
			Expected: fmt.Sprintf("%d cached translations", assertion.Count),
			Actual:   fmt.Sprintf("%d cached translations", stats.Translations),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTreeContains:
			err = assertTree(result.Trace, assertion, false)
		case AssertTreeEquals:
			err = assertTree(result.Trace, assertion, true)
		case AssertErrorCount:
			err = assertErrorCount(result.Trace, assertion)
		case AssertCached:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: cached requires a store", i)
			} else {
				err = assertCached(actx, result.Trace, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
