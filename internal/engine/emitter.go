package engine

import (
	"context"
	"fmt"

	"github.com/roach88/revbench/internal/ir"
)

// Emitter receives trace lines in program order.
// Implemented by report.Reporter (console/JSON) and by test collectors.
type Emitter interface {
	Emit(line ir.TraceLine)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(line ir.TraceLine)

// Emit calls f(line).
func (f EmitterFunc) Emit(line ir.TraceLine) {
	f(line)
}

// Discard is an Emitter that drops every line.
var Discard Emitter = EmitterFunc(func(ir.TraceLine) {})

// Recorder is the per-run handle a Program uses to count and emit.
//
// Emitting does NOT count anything by itself: printing a value is an
// evaluation only where a program's contract says so, and the program
// records it explicitly.
type Recorder struct {
	ctx     context.Context
	counter *Counter
	clock   *Clock
	out     Emitter
	hash    *ir.TraceHash
	phase   ir.Phase
	err     error

	// interrupted holds the context error that stopped the run, if any.
	interrupted error
}

func newRecorder(out Emitter) *Recorder {
	if out == nil {
		out = Discard
	}
	return &Recorder{
		ctx:     context.Background(),
		counter: NewCounter(),
		clock:   NewClock(),
		out:     out,
		hash:    ir.NewTraceHash(),
		phase:   ir.PhaseForward,
	}
}

// Assign records one assignment.
func (r *Recorder) Assign() {
	r.counter.RecordAssignment()
}

// Eval records one evaluation.
func (r *Recorder) Eval() {
	r.counter.RecordEvaluation()
}

// Emit sends one line of output.
func (r *Recorder) Emit(text string) {
	line := ir.TraceLine{
		Seq:   r.clock.Next(),
		Phase: r.phase,
		Text:  text,
	}
	if err := r.hash.Add(line); err != nil && r.err == nil {
		r.err = err
	}
	r.out.Emit(line)
}

// Emitf formats and sends one line of output.
func (r *Recorder) Emitf(format string, args ...any) {
	r.Emit(fmt.Sprintf(format, args...))
}

// Counts returns the tallies recorded so far.
func (r *Recorder) Counts() ir.Counts {
	return r.counter.Counts()
}

// Interrupted reports whether the run's context is done. Programs check it
// at the top of every loop iteration and stop early when it returns true;
// it records nothing in the counts.
func (r *Recorder) Interrupted() bool {
	if r.interrupted != nil {
		return true
	}
	if err := r.ctx.Err(); err != nil {
		r.interrupted = err
		return true
	}
	return false
}

func (r *Recorder) setPhase(p ir.Phase) {
	r.phase = p
}
