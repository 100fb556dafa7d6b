package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/store"
	"github.com/roach88/jitfront/internal/testutil"
	"github.com/roach88/jitfront/internal/typecomment"
	"github.com/roach88/jitfront/internal/workspace"
)

// Harness is the scenario execution engine.
// It translates through the same frontend and cache a compile run uses,
// with deterministic run IDs.
type Harness struct {
	store *store.Store
	ws    *workspace.Workspace
	fe    *compiler.Frontend
	ids   *testutil.SequentialIDs
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh workspace and in-memory cache for
// isolation.
//
// Execution flow:
// 1. Load the scenario's sources into a workspace
// 2. Translate every flow step, collecting failures
// 3. Record successful translations in the cache
// 4. Check expect clauses, then assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ws := workspace.New()
	// Sources register under their base names so diagnostics do not
	// depend on where the scenario was loaded from.
	for _, src := range scenario.Sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to load sources: %w", err)
		}
		if err := ws.AddFile(filepath.Base(src), string(data), scenario.Legacy); err != nil {
			return nil, fmt.Errorf("failed to load sources: %w", err)
		}
	}
	for _, h := range scenario.Unused {
		ws.MarkUnused(compiler.Handle(h))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []compiler.Option{
		compiler.WithLogger(logger),
		compiler.WithClassIntrospector(ws),
		compiler.WithDropPolicy(ws),
	}
	if scenario.TypeComments {
		opts = append(opts, compiler.WithTypeComments(typecomment.Parser{}, typecomment.Merger{}))
	}

	h := &Harness{
		store: st,
		ws:    ws,
		fe:    compiler.New(ws, opts...),
		ids:   testutil.NewSequentialIDs("scenario"),
	}

	ctx := context.Background()
	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeFlow translates the flow's units and records their outcomes.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	units := make([]compiler.Unit, len(flow))
	for i, step := range flow {
		units[i] = step.unit()
	}

	results, err := compiler.CompileUnits(ctx, h.fe, units, compiler.BatchOptions{Mode: compiler.ModeCollectAll, Jobs: 1})
	if err != nil {
		return err
	}

	run, err := h.store.BeginRun(ctx, h.ids)
	if err != nil {
		return err
	}

	for i, r := range results {
		out := UnitOutcome{
			Unit: r.Unit.Name,
			Kind: string(r.Unit.Kind),
			Seq:  int64(i + 1),
		}
		if node := r.Node(); node != nil {
			out.Case = CaseOK
			out.Tree = ir.Sprint(node)
			if err := h.cache(ctx, run, r.Unit, node); err != nil {
				return fmt.Errorf("flow[%d]: %w", i, err)
			}
		} else {
			out.Case = CaseError
			describeError(&out, r.Err)
		}
		result.Trace = append(result.Trace, out)
		checkExpect(i, flow[i].Expect, out, result)
	}
	return nil
}

func (h *Harness) cache(ctx context.Context, run store.Run, u compiler.Unit, node ir.Node) error {
	src, err := h.ws.Source(u.Handle)
	if err != nil {
		return err
	}
	var members []compiler.Handle
	if u.Kind == compiler.UnitClass {
		if members, err = compiler.DroppedMembers(h.ws, h.ws, u.Handle); err != nil {
			return err
		}
	}
	key, err := store.Key(u, src, h.ws.ShouldDrop(u.Handle), members)
	if err != nil {
		return err
	}
	entry, err := store.NewEntry(u, node)
	if err != nil {
		return err
	}
	return h.store.Put(ctx, run, key, entry)
}

func describeError(out *UnitOutcome, err error) {
	diag, ok := compiler.AsFrontendError(err)
	if !ok {
		out.Diagnostic = err.Error()
		return
	}
	out.Error = string(diag.Kind)
	out.Diagnostic = diag.Describe(nil)
	if diag.HasRange && diag.Source != nil {
		out.Snippet = diag.Source.Slice(diag.Range)
	}
}

// checkExpect compares an outcome with its expect clause. A step without
// one must translate.
func checkExpect(i int, expect *ExpectClause, out UnitOutcome, result *Result) {
	if expect == nil {
		expect = &ExpectClause{Case: CaseOK}
	}
	if out.Case != expect.Case {
		detail := out.Diagnostic
		if out.Case == CaseOK {
			detail = "translated"
		}
		result.AddError(fmt.Sprintf("flow[%d] %s: expected %s, got %s (%s)", i, out.Unit, expect.Case, out.Case, detail))
		return
	}
	if expect.Error != "" && expect.Error != out.Error {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got %s", i, out.Unit, expect.Error, out.Error))
	}
	if expect.Message != "" && !strings.Contains(out.Diagnostic, expect.Message) {
		result.AddError(fmt.Sprintf("flow[%d] %s: diagnostic %q does not contain %q", i, out.Unit, out.Diagnostic, expect.Message))
	}
	if expect.Snippet != nil && *expect.Snippet != out.Snippet {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected snippet %q, got %q", i, out.Unit, *expect.Snippet, out.Snippet))
	}
}
