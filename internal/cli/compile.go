package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/store"
	"github.com/roach88/jitfront/internal/typecomment"
	"github.com/roach88/jitfront/internal/workspace"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output       string // output file path
	Cache        string // translation cache database
	FailFast     bool
	Jobs         int
	TypeComments bool
}

// UnitReport is the outcome of one manifest unit.
type UnitReport struct {
	Unit   string `json:"unit"`
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Status string `json:"status"` // "ok", "error" or "skipped"
	Cached bool   `json:"cached,omitempty"`
	IRHash string `json:"ir_hash,omitempty"`
	Tree   string `json:"tree,omitempty"`
	// IR is the canonical JSON encoding of the tree.
	IR         json.RawMessage    `json:"ir,omitempty"`
	Error      *CLIError          `json:"error,omitempty"`
	Diagnostic *DiagnosticDetails `json:"-"`

	err error
}

// CompileReport is the result of a compile run.
type CompileReport struct {
	Units      []UnitReport `json:"units"`
	Translated int          `json:"translated"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped,omitempty"`
	CacheHits  int          `json:"cache_hits"`
	RunID      string       `json:"run_id,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <manifest-dir>",
		Short: "Translate the units listed in a CUE manifest",
		Long: `Translate every unit a CUE manifest declares into tree IR.

The manifest directory holds CUE files with entries of the form

  unit: add: {file: "math.py"}
  unit: Point: {file: "geometry.py", kind: "class"}
  unit: "Point.norm": {file: "geometry.py", self: "Point"}

Units are translated concurrently. Failures are reported as diagnostics
with source excerpts; any failure exits with status 1. With --cache,
translations are stored in a SQLite database keyed by their inputs and
reused on later runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the JSON report to this file")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "translation cache database path")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first failing unit")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "concurrent translations (0 uses all CPUs)")
	cmd.Flags().BoolVar(&opts.TypeComments, "type-comments", true, "apply '# type:' signature comments")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, manifestDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting structured output
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	loadResult, loadErrors := LoadManifest(manifestDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) and %d unit(s) in %s", loadResult.FileCount, len(loadResult.Units), manifestDir)

	ws, err := buildWorkspace(loadResult.Units)
	if err != nil {
		return outputCommandError(formatter, ErrCodeSources, err.Error())
	}

	var st *store.Store
	if opts.Cache != "" {
		st, err = store.Open(opts.Cache)
		if err != nil {
			return outputCommandError(formatter, ErrCodeCache, fmt.Sprintf("opening cache: %v", err))
		}
		defer st.Close()
	}

	feOpts := []compiler.Option{
		compiler.WithLogger(logger),
		compiler.WithClassIntrospector(ws),
		compiler.WithDropPolicy(ws),
	}
	if opts.TypeComments {
		feOpts = append(feOpts, compiler.WithTypeComments(typecomment.Parser{}, typecomment.Merger{}))
	}
	fe := compiler.New(ws, feOpts...)

	c := &compileRun{
		ws:     ws,
		st:     st,
		logger: logger,
	}
	report, err := c.run(ctx, fe, loadResult.Units, opts)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCache, err.Error())
	}

	if opts.Output != "" {
		if err := writeReportToFile(report, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if err := outputCompileReport(formatter, report, opts.Output); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d unit(s) failed to translate", report.Failed))
	}
	return nil
}

// buildWorkspace indexes each source file once. Units sharing a file must
// agree on its grammar.
func buildWorkspace(units []ManifestUnit) (*workspace.Workspace, error) {
	legacy := map[string]bool{}
	var files []string
	for _, u := range units {
		prev, seen := legacy[u.File]
		if !seen {
			legacy[u.File] = u.Legacy
			files = append(files, u.File)
			continue
		}
		if prev != u.Legacy {
			return nil, fmt.Errorf("unit %s: %s is loaded with conflicting legacy settings", u.Name, u.File)
		}
	}
	slices.Sort(files)

	ws := workspace.New()
	for _, f := range files {
		if err := ws.LoadFile(f, legacy[f]); err != nil {
			return nil, err
		}
	}
	for _, u := range units {
		if u.Unused {
			ws.MarkUnused(u.Handle)
		}
	}
	return ws, nil
}

// compileRun carries the state of one compile invocation.
type compileRun struct {
	ws     *workspace.Workspace
	st     *store.Store
	logger *slog.Logger
}

func (c *compileRun) run(ctx context.Context, fe *compiler.Frontend, units []ManifestUnit, opts *CompileOptions) (*CompileReport, error) {
	report := &CompileReport{Units: make([]UnitReport, len(units))}
	keys := make([]string, len(units))

	var pending []int
	for i, u := range units {
		report.Units[i] = UnitReport{Unit: u.Name, Kind: string(u.Kind), File: u.File}
		if c.st == nil {
			pending = append(pending, i)
			continue
		}
		key, hit, err := c.lookup(ctx, u, &report.Units[i])
		if err != nil {
			return nil, err
		}
		keys[i] = key
		if hit {
			report.CacheHits++
			continue
		}
		pending = append(pending, i)
	}

	batch := make([]compiler.Unit, len(pending))
	for j, i := range pending {
		batch[j] = units[i].Unit()
	}
	mode := compiler.ModeCollectAll
	if opts.FailFast {
		mode = compiler.ModeFailFast
	}
	results, batchErr := compiler.CompileUnits(ctx, fe, batch, compiler.BatchOptions{Mode: mode, Jobs: opts.Jobs})
	if batchErr != nil {
		c.logger.Debug("batch stopped", "error", batchErr)
	}

	var run store.Run
	for j, i := range pending {
		r := results[j]
		out := &report.Units[i]
		node := r.Node()
		switch {
		case node != nil:
			if err := fillTree(out, r.Unit, node); err != nil {
				return nil, err
			}
			if c.st == nil {
				continue
			}
			if run.ID == "" {
				var err error
				if run, err = c.st.BeginRun(ctx, nil); err != nil {
					return nil, fmt.Errorf("starting cache run: %w", err)
				}
				report.RunID = run.ID
			}
			entry, err := store.NewEntry(r.Unit, node)
			if err != nil {
				return nil, err
			}
			if err := c.st.Put(ctx, run, keys[i], entry); err != nil {
				return nil, err
			}
		case r.Err != nil:
			out.Status = "error"
			out.err = r.Err
			out.Diagnostic = diagnosticDetails(r.Err)
			out.Error = &CLIError{Code: ErrorCode(r.Err), Message: diagnosticMessage(r.Err)}
			if out.Diagnostic != nil {
				out.Error.Details = out.Diagnostic
			}
		default:
			out.Status = "skipped"
		}
	}

	for _, u := range report.Units {
		switch u.Status {
		case "ok":
			report.Translated++
		case "error":
			report.Failed++
		default:
			report.Skipped++
		}
	}
	if batchErr != nil && report.Failed == 0 {
		return nil, batchErr
	}
	return report, nil
}

// lookup computes the cache key of u and fills out on a hit.
func (c *compileRun) lookup(ctx context.Context, u ManifestUnit, out *UnitReport) (string, bool, error) {
	src, err := c.ws.Source(u.Handle)
	if err != nil {
		// Resolution failures surface when the unit is translated.
		if errors.Is(err, workspace.ErrUnknownHandle) {
			return "", false, nil
		}
		return "", false, err
	}
	var members []compiler.Handle
	if u.Kind == compiler.UnitClass {
		if members, err = compiler.DroppedMembers(c.ws, c.ws, u.Handle); err != nil {
			return "", false, err
		}
	}
	key, err := store.Key(u.Unit(), src, c.ws.ShouldDrop(u.Handle), members)
	if err != nil {
		return "", false, err
	}
	entry, ok, err := c.st.Get(ctx, key)
	if err != nil || !ok {
		return key, false, err
	}
	c.logger.Debug("cache hit", "unit", u.Name, "key", key)
	out.Status = "ok"
	out.Cached = true
	out.IRHash = entry.IRHash
	out.Tree = entry.Text
	out.IR = entry.Canonical
	return key, true, nil
}

func fillTree(out *UnitReport, u compiler.Unit, node ir.Node) error {
	entry, err := store.NewEntry(u, node)
	if err != nil {
		return err
	}
	out.Status = "ok"
	out.IRHash = entry.IRHash
	out.Tree = entry.Text
	out.IR = entry.Canonical
	return nil
}

// outputCompileReport prints the per-unit outcomes.
func outputCompileReport(formatter *OutputFormatter, report *CompileReport, outputFile string) error {
	if formatter.Structured() {
		if report.Failed > 0 {
			return formatter.Encode(CLIResponse{
				Status: "error",
				Data:   report,
				Error: &CLIError{
					Code:    firstErrorCode(report),
					Message: fmt.Sprintf("%d unit(s) failed to translate", report.Failed),
				},
			})
		}
		return formatter.Success(report)
	}

	w := formatter.Writer
	for _, u := range report.Units {
		switch u.Status {
		case "ok":
			suffix := ""
			if u.Cached {
				suffix = " (cached)"
			}
			fmt.Fprintf(w, "✓ %s [%s] %s%s\n", u.Unit, u.Kind, shortHash(u.IRHash), suffix)
			if formatter.Verbose {
				fmt.Fprint(w, indentBlock(u.Tree, "    "))
			}
		case "error":
			fmt.Fprintf(w, "✗ %s [%s]\n", u.Unit, u.Kind)
			PrintDiagnostic(w, u.Unit, u.err)
		default:
			fmt.Fprintf(w, "- %s [%s] skipped\n", u.Unit, u.Kind)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Translated %d unit(s), %d failed", report.Translated, report.Failed)
	if report.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", report.Skipped)
	}
	if report.CacheHits > 0 {
		fmt.Fprintf(w, ", %d from cache", report.CacheHits)
	}
	fmt.Fprintln(w)
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote report to %s\n", outputFile)
	}
	return nil
}

// indentBlock prefixes every line of text.
func indentBlock(text, prefix string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(strings.TrimSuffix(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
	}
	b.WriteString("\n")
	return b.String()
}

func firstErrorCode(report *CompileReport) string {
	for _, u := range report.Units {
		if u.Error != nil {
			return u.Error.Code
		}
	}
	return ErrCodeGeneric
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// outputLoadErrors reports manifest errors. They are command-level errors
// (exit code 2).
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	details := make([]CLIError, len(errs))
	for i, err := range errs {
		details[i] = CLIError{Code: ErrCodeGeneric, Message: err.Error()}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			details[i] = CLIError{Code: loadErr.Code, Message: loadErr.Message}
			if loadErr.Pos.IsValid() {
				details[i].Details = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
			}
		}
	}

	if formatter.Structured() {
		resp := CLIResponse{Status: "error", Error: &details[0], Data: details}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("manifest has %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Manifest failed to load")
	fmt.Fprintln(formatter.Writer)
	for _, d := range details {
		if d.Details != nil {
			fmt.Fprintln(formatter.Writer, d.Details)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", d.Code, d.Message)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("manifest has %d error(s)", len(errs)))
}

// outputCommandError reports a single command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// writeReportToFile writes the report as indented JSON. The ir fields
// keep their canonical form.
func writeReportToFile(report *CompileReport, filename string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
