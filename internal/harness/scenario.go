package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the registry name of the program to run.
	Program string `yaml:"program"`

	// N is the iteration bound.
	N int64 `yaml:"n"`

	// RunID is an optional fixed run id. If empty, defaults to
	// "test-run-default" for deterministic golden comparison.
	RunID string `yaml:"run_id,omitempty"`

	// Expect holds exact expectations on the run result.
	Expect Expectations `yaml:"expect"`

	// Assertions validate the emitted trace and final values.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectations are exact-match checks on a run result. Nil fields are not
// checked.
type Expectations struct {
	Assignments       *int64            `yaml:"assignments,omitempty"`
	Evaluations       *int64            `yaml:"evaluations,omitempty"`
	ForwardIterations *int64            `yaml:"forward_iterations,omitempty"`
	InverseSteps      *int64            `yaml:"inverse_steps,omitempty"`
	Lines             *int64            `yaml:"lines,omitempty"`
	Finals            map[string]string `yaml:"finals,omitempty"`
}

func (e Expectations) empty() bool {
	return e.Assignments == nil && e.Evaluations == nil &&
		e.ForwardIterations == nil && e.InverseSteps == nil &&
		e.Lines == nil && len(e.Finals) == 0
}

// Assertion validates the trace or a final value.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_value.
	Type string `yaml:"type"`

	// Text is the exact line text (trace_contains, trace_count).
	Text string `yaml:"text,omitempty"`

	// Phase optionally restricts trace_contains and trace_count to one phase.
	Phase ir.Phase `yaml:"phase,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Lines is the expected line order (trace_order).
	Lines []string `yaml:"lines,omitempty"`

	// Name and Value identify a final value (final_value).
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalValue    = "final_value"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program == "" {
		return fmt.Errorf("program is required")
	}
	if !slices.Contains(engine.Programs(), s.Program) {
		return fmt.Errorf("unknown program %q (available: %v)", s.Program, engine.Programs())
	}
	if s.N < 0 {
		return fmt.Errorf("n must be >= 0, got %d", s.N)
	}
	if s.Expect.empty() && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
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
	if a.Phase != "" && a.Phase != ir.PhaseForward && a.Phase != ir.PhaseInverse {
		return fmt.Errorf("assertions[%d]: unknown phase %q", index, a.Phase)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Lines) == 0 {
			return fmt.Errorf("assertions[%d]: lines list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalValue:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for final_value", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
