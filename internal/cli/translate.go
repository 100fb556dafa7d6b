package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jitfront/internal/compiler"
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/typecomment"
	"github.com/roach88/jitfront/internal/workspace"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Unused       bool
	Legacy       bool
	SelfName     string
	Ranges       bool
	TypeComments bool
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <file.py> <unit>",
		Short: "Translate one function, method or class and print its tree",
		Long: `Translate a single unit of a Python file and print its tree IR.

The unit is a top-level function or class name, or Class.method for a
method. Classes are detected from the file. A method's self name
defaults to its class.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Unused, "unused", false, "translate the unit as an inactive stub")
	cmd.Flags().BoolVar(&opts.Legacy, "legacy", false, "parse with the legacy grammar")
	cmd.Flags().StringVar(&opts.SelfName, "self", "", "enclosing class name for methods")
	cmd.Flags().BoolVar(&opts.Ranges, "ranges", false, "annotate nodes with their source ranges")
	cmd.Flags().BoolVar(&opts.TypeComments, "type-comments", true, "apply '# type:' signature comments")

	return cmd
}

func runTranslate(ctx context.Context, opts *TranslateOptions, path, name string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ws := workspace.New()
	if err := ws.LoadFile(path, opts.Legacy); err != nil {
		return outputCommandError(formatter, ErrCodeSources, err.Error())
	}
	h := compiler.Handle(name)
	if opts.Unused {
		ws.MarkUnused(h)
	}

	u := translateUnit(ws, name, opts.SelfName)
	formatter.VerboseLog("Translating %s %s from %s", u.Kind, name, path)

	feOpts := []compiler.Option{
		compiler.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())),
		compiler.WithClassIntrospector(ws),
		compiler.WithDropPolicy(ws),
	}
	if opts.TypeComments {
		feOpts = append(feOpts, compiler.WithTypeComments(typecomment.Parser{}, typecomment.Merger{}))
	}
	fe := compiler.New(ws, feOpts...)

	results, err := compiler.CompileUnits(ctx, fe, []compiler.Unit{u}, compiler.BatchOptions{Mode: compiler.ModeCollectAll, Jobs: 1})
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	r := results[0]

	report := UnitReport{Unit: name, Kind: string(u.Kind), File: path}
	node := r.Node()
	if node == nil {
		report.Status = "error"
		report.err = r.Err
		report.Error = &CLIError{Code: ErrorCode(r.Err), Message: diagnosticMessage(r.Err)}
		if d := diagnosticDetails(r.Err); d != nil {
			report.Error.Details = d
		}
		if formatter.Structured() {
			if err := formatter.Encode(CLIResponse{Status: "error", Data: report, Error: report.Error}); err != nil {
				return err
			}
		} else {
			PrintDiagnostic(formatter.Writer, name, r.Err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s failed to translate", name))
	}

	if err := fillTree(&report, u, node); err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	if opts.Ranges {
		report.Tree = ir.Sprint(node, ir.WithRanges())
	}
	if formatter.Structured() {
		return formatter.Success(report)
	}
	fmt.Fprint(formatter.Writer, report.Tree)
	formatter.VerboseLog("ir_hash %s", report.IRHash)
	return nil
}

// translateUnit resolves how name is translated: classes as classes,
// Class.method with the class as self, everything else as a function.
func translateUnit(ws *workspace.Workspace, name, selfName string) compiler.Unit {
	h := compiler.Handle(name)
	if ws.IsClass(h) {
		if selfName == "" {
			selfName = name
		}
		return compiler.Unit{Name: name, Kind: compiler.UnitClass, Handle: h, SelfName: selfName}
	}
	defName := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		defName = name[i+1:]
		if selfName == "" {
			selfName = name[:i]
		}
	}
	return compiler.Unit{Name: defName, Kind: compiler.UnitFunction, Handle: h, SelfName: selfName}
}
