package engine

import (
	"math/big"

	"github.com/roach88/revbench/internal/ir"
)

// FibonacciName is the registry name of the Fibonacci program.
const FibonacciName = "fib"

// Fibonacci generates the sequence forward, recording each new term on a
// Trace, then pops the trace to walk the recurrence back to its base case.
//
// Terms are arbitrary precision: F(999) has 209 decimal digits.
type Fibonacci struct {
	a, b, fib *big.Int
	i, n      int64
	trace     Trace
}

// NewFibonacci creates a Fibonacci program with bound n.
func NewFibonacci(n int64) *Fibonacci {
	return &Fibonacci{n: n}
}

// Name implements Program.
func (f *Fibonacci) Name() string { return FibonacciName }

// Bound implements Program.
func (f *Fibonacci) Bound() int64 { return f.n }

// Forward runs the recurrence while i < n, starting from i = 2.
// With n <= 2 it performs zero iterations and leaves the trace empty.
// An interrupted run stops between iterations.
func (f *Fibonacci) Forward(rec *Recorder) int64 {
	f.a = big.NewInt(0)
	f.b = big.NewInt(1)
	rec.Assign()
	rec.Assign()

	f.fib = new(big.Int).Set(f.a)
	rec.Assign()

	f.trace = Trace{}
	rec.Assign()

	f.i = 2
	rec.Assign() // n
	rec.Assign() // i

	var iterations int64
	for f.i < f.n && !rec.Interrupted() {
		f.fib.Add(f.a, f.b)
		rec.Eval()
		rec.Assign()

		rec.Emit(f.fib.String())
		rec.Eval()

		f.a.Set(f.b)
		f.b.Set(f.fib)
		rec.Assign()
		rec.Assign()

		f.trace.Push(f.b)
		rec.Eval()
		rec.Assign()

		f.i++
		rec.Assign()

		iterations++
	}
	return iterations
}

// Inverse pops the trace most-recent-first, recovering a from b - a.
//
// The i == n guard runs the body at most once. The loop stops when the
// trace is empty or a reaches 0, whichever comes first; the a == 0
// evaluation is credited only on the iteration where it fires.
func (f *Fibonacci) Inverse(rec *Recorder) int64 {
	if f.i != f.n {
		return 0
	}

	var pops int64
	for !f.trace.IsEmpty() && !rec.Interrupted() {
		rec.Eval()

		f.b = f.trace.Pop()
		rec.Eval()
		rec.Assign()

		f.a.Sub(f.b, f.a)
		rec.Eval()
		rec.Assign()

		rec.Emitf("Reversed value of a: %v", f.a)
		rec.Eval()
		rec.Emitf("Reversed value of b: %v", f.b)
		rec.Eval()

		pops++

		if f.a.Sign() == 0 {
			rec.Eval()
			break
		}
	}
	return pops
}

// TraceLen returns the number of terms still recorded.
func (f *Fibonacci) TraceLen() int {
	return f.trace.Len()
}

// Recorded returns the term depth entries below the top of the trace
// without consuming it; depth 1 is the most recent term.
func (f *Fibonacci) Recorded(depth int) (*big.Int, bool) {
	return f.trace.Peek(depth)
}

// Finals implements Program: a then b.
func (f *Fibonacci) Finals() []ir.FinalValue {
	return []ir.FinalValue{
		{Name: "a", Value: bigString(f.a)},
		{Name: "b", Value: bigString(f.b)},
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
