package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revbench/internal/ir"
)

func sampleResult() *ir.RunResult {
	return &ir.RunResult{
		RunID:          "run-1",
		Program:        "accumulate",
		N:              1,
		Counts:         ir.Counts{Assignments: 15, Evaluations: 10},
		InverseSteps:   1,
		Finals:         []ir.FinalValue{{Name: "x", Value: "10"}, {Name: "y", Value: "20"}},
		ElapsedSeconds: 0.0012344,
		MemoryDeltaMB:  -0.25,
	}
}

func TestReporter_TextStreamsLinesAndSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(FormatText, buf)

	r.Emit(ir.TraceLine{Seq: 1, Phase: ir.PhaseForward, Text: "Iteration 1 - Step 1: x = 25"})
	r.Emit(ir.TraceLine{Seq: 2, Phase: ir.PhaseInverse, Text: "Reverse Iteration 1 - Step 1: x = 30"})
	require.NoError(t, r.Summary(sampleResult()))

	expected := "Iteration 1 - Step 1: x = 25\n" +
		"Reverse Iteration 1 - Step 1: x = 30\n" +
		"Final x: 10\n" +
		"Final y: 20\n" +
		"\n" +
		"Execution Time: 0.001234 seconds\n" +
		"Memory Used: -0.250000 MB\n" +
		"Total Assignments: 15\n" +
		"Total Evaluations: 10\n"
	assert.Equal(t, expected, buf.String())
}

func TestReporter_VerboseAddsReversals(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(FormatText, buf)
	r.Verbose = true

	require.NoError(t, r.Summary(sampleResult()))
	assert.True(t, strings.HasSuffix(buf.String(), "Total Evaluations: 10\nTotal Reversals: 1\n"))
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestReporter_TraceWriteErrorSurfaces(t *testing.T) {
	r := New(FormatText, failingWriter{})

	r.Emit(ir.TraceLine{Seq: 1, Text: "1"})
	r.Emit(ir.TraceLine{Seq: 2, Text: "2"})
	require.Error(t, r.Err())

	err := r.Summary(sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write trace line: disk full")
}

func TestReporter_QuietSuppressesLines(t *testing.T) {
	for _, format := range ValidFormats {
		t.Run(format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			r := New(format, buf)
			r.Quiet = true

			r.Emit(ir.TraceLine{Seq: 1, Text: "hidden"})
			require.NoError(t, r.Summary(sampleResult()))

			assert.NotContains(t, buf.String(), "hidden")
			assert.NotEmpty(t, buf.String(), "summary is still written")
		})
	}
}

func TestReporter_JSONEnvelope(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(FormatJSON, buf)

	r.Emit(ir.TraceLine{Seq: 1, Phase: ir.PhaseForward, Text: "1"})
	assert.Empty(t, buf.String(), "json mode buffers lines")
	require.NoError(t, r.Summary(sampleResult()))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Result ir.RunResult   `json:"result"`
			Trace  []ir.TraceLine `json:"trace"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "accumulate", resp.Data.Result.Program)
	assert.Equal(t, int64(15), resp.Data.Result.Counts.Assignments)
	require.Len(t, resp.Data.Trace, 1)
	assert.Equal(t, ir.PhaseForward, resp.Data.Trace[0].Phase)
	assert.Empty(t, r.Lines(), "summary clears the buffer")
}

func TestReporter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(FormatJSON, buf)

	require.NoError(t, r.Error("UNKNOWN_PROGRAM", "unknown program", map[string]string{"program": "x"}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_PROGRAM", resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestReporter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New("", buf)

	require.NoError(t, r.Error("E1", "boom", "ctx"))
	assert.Equal(t, "Error [E1]: boom\n", buf.String())

	buf.Reset()
	r.Verbose = true
	require.NoError(t, r.Error("E1", "boom", "ctx"))
	assert.Contains(t, buf.String(), "Details: ctx")
}

func TestReporter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(FormatText, buf)
	require.NoError(t, r.Success("all good"))
	assert.Equal(t, "all good\n", buf.String())
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("text"))
	assert.True(t, IsValidFormat("json"))
	assert.False(t, IsValidFormat("yaml"))
	assert.False(t, IsValidFormat(""))
}
