package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/ir"
)

func int64Ptr(v int64) *int64 { return &v }

func TestRun_ScenarioFiles(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_DeterministicMeasurement(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "frozen",
		Description: "d",
		Program:     engine.AccumulateName,
		N:           5,
		Expect:      Expectations{Lines: int64Ptr(40)},
	})
	require.NoError(t, err)

	assert.Equal(t, "test-run-default", result.Run.RunID)
	assert.Equal(t, 0.0, result.Run.ElapsedSeconds)
	assert.Equal(t, 0.0, result.Run.MemoryDeltaMB)
	assert.Len(t, result.Trace, 40)
}

func TestRun_FixedRunID(t *testing.T) {
	result, err := Run(&Scenario{
		Name: "id", Description: "d", Program: "fib", N: 3,
		RunID:  "run-fixed-001",
		Expect: Expectations{Lines: int64Ptr(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, "run-fixed-001", result.Run.RunID)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "wrong",
		Description: "every expectation is off by one",
		Program:     engine.FibonacciName,
		N:           10,
		Expect: Expectations{
			Assignments:       int64Ptr(63),
			Evaluations:       int64Ptr(66),
			ForwardIterations: int64Ptr(9),
			InverseSteps:      int64Ptr(7),
			Lines:             int64Ptr(25),
			Finals:            map[string]string{"a": "1", "z": "0"},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"assignments: expected 63, got 62",
		"evaluations: expected 66, got 65",
		"forward_iterations: expected 9, got 8",
		"inverse_steps: expected 7, got 8",
		"lines: expected 25, got 24",
		"final a: expected 1, got 0",
		"final z: not reported by fib",
	}, result.Errors)
}

func TestRun_UnknownProgram(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Program: "collatz"})
	require.Error(t, err)
	assert.True(t, engine.IsUnknownProgram(err))
}

func TestRunContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunContext(ctx, &Scenario{Name: "x", Program: "fib", N: 3})
	require.ErrorIs(t, err, context.Canceled)
}

func TestResult_Emit(t *testing.T) {
	r := NewResult()
	r.Emit(ir.TraceLine{Seq: 1, Text: "a"})
	assert.Len(t, r.Trace, 1)
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
}
