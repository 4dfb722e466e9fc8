package engine

import "github.com/roach88/revbench/internal/ir"

// Counter tallies assignments and evaluations for one run.
//
// Counts only ever increase. They are reporting output and must never be
// read to make a control-flow decision inside a program.
type Counter struct {
	assignments int64
	evaluations int64
}

// NewCounter returns a zeroed counter.
func NewCounter() *Counter {
	return &Counter{}
}

// RecordAssignment counts one write to a tracked variable or container.
func (c *Counter) RecordAssignment() {
	c.assignments++
}

// RecordEvaluation counts one computed expression or comparison.
func (c *Counter) RecordEvaluation() {
	c.evaluations++
}

// Counts returns a snapshot of both tallies.
func (c *Counter) Counts() ir.Counts {
	return ir.Counts{
		Assignments: c.assignments,
		Evaluations: c.evaluations,
	}
}
