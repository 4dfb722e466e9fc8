package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/measure"
	"github.com/roach88/revbench/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a fresh engine with a fixed run id and frozen time
// and heap readings, so the result is identical on every host.
//
// Execution flow:
//  1. Build the program from the registry
//  2. Run it forward then inverse, collecting every emitted line
//  3. Check expectations, then evaluate assertions
//  4. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	eng := engine.New(
		engine.WithEmitter(result),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs
		engine.WithMeasureOptions(
			measure.WithTimeSource(testutil.NewStepClock(0)),
			measure.WithMemorySource(testutil.NewScriptedMemory()),
			measure.WithGC(false),
		),
	)

	run, err := eng.RunProgram(ctx, scenario.Program, scenario.N)
	if err != nil {
		return nil, fmt.Errorf("failed to run scenario %q: %w", scenario.Name, err)
	}
	result.Run = run

	for _, msg := range checkExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// checkExpectations compares every non-nil expectation with the run.
func checkExpectations(result *Result, expect Expectations) []string {
	var errs []string
	run := result.Run

	check := func(field string, want *int64, got int64) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("%s: expected %d, got %d", field, *want, got))
		}
	}
	check("assignments", expect.Assignments, run.Counts.Assignments)
	check("evaluations", expect.Evaluations, run.Counts.Evaluations)
	check("forward_iterations", expect.ForwardIterations, run.ForwardIterations)
	check("inverse_steps", expect.InverseSteps, run.InverseSteps)
	check("lines", expect.Lines, run.Lines)

	for _, name := range sortedKeys(expect.Finals) {
		want := expect.Finals[name]
		got, ok := run.Final(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("final %s: not reported by %s", name, run.Program))
		case got != want:
			errs = append(errs, fmt.Sprintf("final %s: expected %s, got %s", name, want, got))
		}
	}
	return errs
}
