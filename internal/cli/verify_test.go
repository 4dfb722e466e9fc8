package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revbench/internal/report"
)

func executeVerify(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVerifyAllPrograms(t *testing.T) {
	out, err := executeVerify(t, "text", "--n", "50")
	require.NoError(t, err)

	assert.Contains(t, out, passMark+" accumulate (n=50): deterministic, digest ")
	assert.Contains(t, out, passMark+" fib (n=50): deterministic, digest ")
}

func TestVerifySingleProgramJSON(t *testing.T) {
	out, err := executeVerify(t, "json", "fib", "--n", "10")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   VerifyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Programs, 1)

	p := resp.Data.Programs[0]
	assert.Equal(t, "fib", p.Program)
	assert.True(t, p.Deterministic)
	assert.Len(t, p.Digest, 64)
	assert.Equal(t, int64(62), p.Assignments)
	assert.Equal(t, int64(65), p.Evaluations)
}

func TestVerifyUnknownProgram(t *testing.T) {
	out, err := executeVerify(t, report.FormatJSON, "collatz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"status":"error"`)
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortDigest("0123456789abcdef"))
	assert.Equal(t, "abc", shortDigest("abc"))
}
