package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/revbench/internal/ir"
)

// Snapshot returns the canonical JSON of the deterministic part of a result:
// program, bound, counts, final values and every trace line. Run id, timing
// and memory are left out.
func Snapshot(name string, result *Result) ([]byte, error) {
	if result.Run == nil {
		return nil, fmt.Errorf("snapshot %q: result has no run", name)
	}
	return ir.MarshalCanonical(ir.Snapshot(name, *result.Run, result.Trace))
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
