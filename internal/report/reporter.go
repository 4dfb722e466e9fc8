package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/revbench/internal/ir"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

// IsValidFormat checks if the format is one of the allowed values.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Response is the standard JSON envelope.
type Response struct {
	Status string     `json:"status"`          // "ok" or "error"
	Data   any        `json:"data,omitempty"`  // success payload
	Error  *ErrorBody `json:"error,omitempty"` // error details
}

// ErrorBody is the error structure inside a Response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RunReport is the JSON payload for a single run.
type RunReport struct {
	Result *ir.RunResult  `json:"result"`
	Trace  []ir.TraceLine `json:"trace,omitempty"`
}

// Reporter writes trace lines and run summaries in the configured format.
//
// Not safe for concurrent use.
type Reporter struct {
	Format string
	Writer io.Writer

	// Quiet suppresses trace lines; the summary is still written.
	Quiet bool

	// Verbose adds error details and the reversal count to text output.
	Verbose bool

	lines []ir.TraceLine

	// err is the first failed write of a trace line.
	err error
}

// New creates a Reporter. An empty format means text.
func New(format string, w io.Writer) *Reporter {
	if format == "" {
		format = FormatText
	}
	return &Reporter{Format: format, Writer: w}
}

// Emit implements engine.Emitter.
func (r *Reporter) Emit(line ir.TraceLine) {
	if r.Quiet {
		return
	}
	if r.Format == FormatJSON {
		r.lines = append(r.lines, line)
		return
	}
	if _, err := fmt.Fprintln(r.Writer, line.Text); err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first error hit while streaming trace lines.
func (r *Reporter) Err() error {
	return r.err
}

// Lines returns the trace lines buffered for the JSON envelope.
func (r *Reporter) Lines() []ir.TraceLine {
	return r.lines
}

// Summary writes the final block for a run and clears buffered lines.
//
// Text layout:
//
//	Final <name>: <value>            (one per final value)
//
//	Execution Time: <s> seconds
//	Memory Used: <mb> MB
//	Total Assignments: <n>
//	Total Evaluations: <n>
//	Total Reversals: <n>             (verbose only)
//
// A failed trace line write is returned instead of writing the summary.
func (r *Reporter) Summary(res *ir.RunResult) error {
	defer func() { r.lines = nil }()

	if r.err != nil {
		return fmt.Errorf("write trace line: %w", r.err)
	}

	if r.Format == FormatJSON {
		return r.Success(RunReport{Result: res, Trace: r.lines})
	}

	for _, f := range res.Finals {
		if _, err := fmt.Fprintf(r.Writer, "Final %s: %s\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.Writer,
		"\nExecution Time: %.6f seconds\nMemory Used: %.6f MB\nTotal Assignments: %d\nTotal Evaluations: %d\n",
		res.ElapsedSeconds, res.MemoryDeltaMB, res.Counts.Assignments, res.Counts.Evaluations)
	if err != nil || !r.Verbose {
		return err
	}
	_, err = fmt.Fprintf(r.Writer, "Total Reversals: %d\n", res.InverseSteps)
	return err
}

// Success outputs a successful result in the configured format.
func (r *Reporter) Success(data any) error {
	if r.Format == FormatJSON {
		return json.NewEncoder(r.Writer).Encode(Response{
			Status: "ok",
			Data:   data,
		})
	}

	_, err := fmt.Fprintln(r.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (r *Reporter) Error(code, message string, details any) error {
	if r.Format == FormatJSON {
		return json.NewEncoder(r.Writer).Encode(Response{
			Status: "error",
			Error: &ErrorBody{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	if _, err := fmt.Fprintf(r.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if r.Verbose && details != nil {
		_, err := fmt.Fprintf(r.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}
