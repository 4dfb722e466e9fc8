package harness

import "github.com/roach88/revbench/internal/ir"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion matched.
	Pass bool `json:"pass"`

	// Run is the engine's result for the scenario's program.
	Run *ir.RunResult `json:"run"`

	// Trace contains every emitted line in order.
	Trace []ir.TraceLine `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []ir.TraceLine{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Emit implements engine.Emitter by appending to the trace.
func (r *Result) Emit(line ir.TraceLine) {
	r.Trace = append(r.Trace, line)
}
