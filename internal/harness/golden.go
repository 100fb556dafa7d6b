package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result's trace as the text stored in golden files:
// one header per unit followed by its tree dump or its diagnostic.
//
//	== [1] add (function) ok
//	def add(a: ?, b: ?) -> ?
//	  return (+ a b)
//	== [2] bad (function) error NOT_SUPPORTED
//	m.py:1:9: Compiled functions can't take ...
//	   | *a
func Snapshot(result *Result) []byte {
	var buf strings.Builder
	for _, out := range result.Trace {
		fmt.Fprintf(&buf, "== [%d] %s (%s) %s", out.Seq, out.Unit, out.Kind, out.Case)
		if out.Error != "" {
			fmt.Fprintf(&buf, " %s", out.Error)
		}
		buf.WriteByte('\n')
		if out.Case == CaseOK {
			buf.WriteString(out.Tree)
			continue
		}
		buf.WriteString(out.Diagnostic)
		buf.WriteByte('\n')
		if out.Snippet != "" {
			for _, line := range strings.Split(out.Snippet, "\n") {
				fmt.Fprintf(&buf, "   | %s\n", line)
			}
		}
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
