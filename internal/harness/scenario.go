package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jitfront/internal/compiler"
)

// Scenario defines a translation test scenario.
// A scenario loads Python sources, translates a list of units and checks
// each outcome against its expect clause and the scenario's assertions.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sources lists Python files to load.
	// Paths are relative to the scenario file location.
	Sources []string `yaml:"sources"`

	// Legacy parses the sources with the print statement and truncating
	// integer division.
	Legacy bool `yaml:"legacy,omitempty"`

	// Unused lists handles to replace with unused stubs regardless of
	// their decorators.
	Unused []string `yaml:"unused,omitempty"`

	// TypeComments enables `# type:` signature comments.
	TypeComments bool `yaml:"type_comments,omitempty"`

	// Flow lists the units to translate, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the translated trees.
	// Supported types: tree_contains, tree_equals, error_count, cached
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep translates one unit.
type FlowStep struct {
	// Translate is the unit handle, e.g. "add" or "Point.norm".
	Translate string `yaml:"translate"`

	// Kind is "function" (default) or "class".
	Kind string `yaml:"kind,omitempty"`

	// SelfName is the receiver type name for methods and classes.
	SelfName string `yaml:"self_name,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the unit is expected to translate.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected translation outcome.
type ExpectClause struct {
	// Case is "ok" or "error".
	Case string `yaml:"case"`

	// Error is the expected diagnostic kind, e.g. NOT_SUPPORTED.
	Error string `yaml:"error,omitempty"`

	// Message is a substring of the expected diagnostic message.
	Message string `yaml:"message,omitempty"`

	// Snippet is the exact source text the diagnostic range covers.
	Snippet *string `yaml:"snippet,omitempty"`
}

// Assertion validates the translated trees.
type Assertion struct {
	// Type specifies the assertion type:
	// - "tree_contains": the unit's dump contains Text
	// - "tree_equals": the unit's dump is exactly Text
	// - "error_count": exactly Count units failed
	// - "cached": the cache holds exactly Count translations
	Type string `yaml:"type"`

	// Unit is the flow handle (used by tree_contains, tree_equals).
	Unit string `yaml:"unit,omitempty"`

	// Text is the expected dump or fragment.
	Text string `yaml:"text,omitempty"`

	// Count is the expected count (used by error_count, cached).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTreeContains = "tree_contains"
	AssertTreeEquals   = "tree_equals"
	AssertErrorCount   = "error_count"
	AssertCached       = "cached"
)

// Expect case constants.
const (
	CaseOK    = "ok"
	CaseError = "error"
)

// LoadScenario reads and parses a scenario YAML file, resolving source
// paths relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving source paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, src := range scenario.Sources {
		if !filepath.IsAbs(src) && basePath != "" {
			scenario.Sources[i] = filepath.Join(basePath, src)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Sources) == 0 {
		return fmt.Errorf("sources list is required and must be non-empty")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for _, src := range s.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("source file not found: %s", src)
		}
	}

	for i, step := range s.Flow {
		if step.Translate == "" {
			return fmt.Errorf("flow[%d]: translate is required", i)
		}
		switch compiler.UnitKind(step.Kind) {
		case "", compiler.UnitFunction, compiler.UnitClass:
		default:
			return fmt.Errorf("flow[%d]: unknown kind %q", i, step.Kind)
		}
		if step.Expect == nil {
			continue
		}
		switch step.Expect.Case {
		case CaseOK:
			if step.Expect.Error != "" || step.Expect.Message != "" || step.Expect.Snippet != nil {
				return fmt.Errorf("flow[%d].expect: error fields require case %q", i, CaseError)
			}
		case CaseError:
		case "":
			return fmt.Errorf("flow[%d].expect: case is required", i)
		default:
			return fmt.Errorf("flow[%d].expect: unknown case %q", i, step.Expect.Case)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTreeContains, AssertTreeEquals:
		if a.Unit == "" {
			return fmt.Errorf("assertions[%d]: unit is required for %s", index, a.Type)
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertErrorCount, AssertCached:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// unit converts a flow step to a batch unit.
func (f FlowStep) unit() compiler.Unit {
	kind := compiler.UnitKind(f.Kind)
	if kind == "" {
		kind = compiler.UnitFunction
	}
	return compiler.Unit{
		Name:     f.Translate,
		Kind:     kind,
		Handle:   compiler.Handle(f.Translate),
		SelfName: f.SelfName,
	}
}
