package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/revbench/internal/ir"
)

// maxTraceContext bounds how many lines an AssertionError prints.
const maxTraceContext = 20

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Trace    []ir.TraceLine // Trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace (%d lines):\n", len(e.Trace))
		for i, line := range e.Trace {
			if i == maxTraceContext {
				fmt.Fprintf(&buf, "  ... %d more\n", len(e.Trace)-maxTraceContext)
				break
			}
			fmt.Fprintf(&buf, "  [%d] %s %s\n", line.Seq, line.Phase, line.Text)
		}
	}
	return buf.String()
}

func lineMatches(line ir.TraceLine, text string, phase ir.Phase) bool {
	return line.Text == text && (phase == "" || line.Phase == phase)
}

// assertTraceContains checks that a line with the given text was emitted.
func assertTraceContains(trace []ir.TraceLine, a Assertion) error {
	for _, line := range trace {
		if lineMatches(line, a.Text, a.Phase) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeLine(a.Text, a.Phase),
		Actual:   "not found",
		Trace:    trace,
	}
}

// assertTraceOrder checks that lines appear in the given order. Each
// expected line is matched at the first position after the previous match.
func assertTraceOrder(trace []ir.TraceLine, a Assertion) error {
	pos := 0
	for i, want := range a.Lines {
		found := false
		for pos < len(trace) {
			line := trace[pos]
			pos++
			if lineMatches(line, want, a.Phase) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("lines in order: %q", a.Lines),
				Actual:   fmt.Sprintf("line %d (%q) not found after the previous match", i+1, want),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that a line was emitted exactly Count times.
func assertTraceCount(trace []ir.TraceLine, a Assertion) error {
	count := 0
	for _, line := range trace {
		if lineMatches(line, a.Text, a.Phase) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s exactly %d times", describeLine(a.Text, a.Phase), a.Count),
			Actual:   fmt.Sprintf("%d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalValue checks one named final value.
func assertFinalValue(run *ir.RunResult, a Assertion) error {
	got, ok := run.Final(a.Name)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalValue,
			Expected: fmt.Sprintf("%s = %s", a.Name, a.Value),
			Actual:   fmt.Sprintf("%s not reported", a.Name),
		}
	}
	if got != a.Value {
		return &AssertionError{
			Type:     AssertFinalValue,
			Expected: fmt.Sprintf("%s = %s", a.Name, a.Value),
			Actual:   fmt.Sprintf("%s = %s", a.Name, got),
		}
	}
	return nil
}

func describeLine(text string, phase ir.Phase) string {
	if phase == "" {
		return fmt.Sprintf("line %q", text)
	}
	return fmt.Sprintf("%s line %q", phase, text)
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalValue:
			if result.Run == nil {
				err = fmt.Errorf("assertion[%d]: final_value requires a run result", i)
			} else {
				err = assertFinalValue(result.Run, assertion)
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

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
