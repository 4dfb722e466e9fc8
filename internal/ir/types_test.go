package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFieldNaming(t *testing.T) {
	r := RunResult{
		RunID:             "r",
		Program:           "fib",
		Counts:            Counts{Assignments: 1, Evaluations: 2},
		ForwardIterations: 3,
		InverseSteps:      3,
		Finals:            []FinalValue{{Name: "a", Value: "0"}},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	for _, key := range []string{
		`"run_id"`, `"forward_iterations"`, `"inverse_steps"`, `"trace_digest"`,
		`"elapsed_seconds"`, `"memory_delta_mb"`, `"engine_version"`, `"ir_version"`,
		`"assignments"`, `"evaluations"`,
	} {
		assert.Contains(t, string(data), key)
	}
}

func TestTraceLine_JSON(t *testing.T) {
	data, err := json.Marshal(TraceLine{Seq: 7, Phase: PhaseInverse, Text: "Reversed value of a: 0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"seq":7,"phase":"inverse","text":"Reversed value of a: 0"}`, string(data))
}
