package engine

import (
	"strconv"

	"github.com/roach88/revbench/internal/ir"
)

// AccumulateName is the registry name of the accumulate program.
const AccumulateName = "accumulate"

// Initial values of the accumulate program's state.
const (
	AccumulateX0 = 10
	AccumulateY0 = 20
)

// accumulateStep is one compound update applied every iteration.
type accumulateStep struct {
	variable string
	step     int
	delta    int64
}

// accumulateSteps run in this order forward and, subtracted, in the same
// order inverse. The per-iteration sums are +35 for x and +55 for y.
var accumulateSteps = [...]accumulateStep{
	{variable: "x", step: 1, delta: 15},
	{variable: "x", step: 2, delta: 20},
	{variable: "y", step: 1, delta: 25},
	{variable: "y", step: 2, delta: 30},
}

// Accumulate adds constants to x and y for n iterations and then subtracts
// them for n iterations. After Inverse, x and y equal their initial values
// exactly; there is no early exit in either direction.
type Accumulate struct {
	x, y, i, n int64
}

// NewAccumulate creates an accumulate program with bound n.
func NewAccumulate(n int64) *Accumulate {
	return &Accumulate{n: n}
}

// Name implements Program.
func (p *Accumulate) Name() string { return AccumulateName }

// Bound implements Program.
func (p *Accumulate) Bound() int64 { return p.n }

// X returns the current value of x.
func (p *Accumulate) X() int64 { return p.x }

// Y returns the current value of y.
func (p *Accumulate) Y() int64 { return p.y }

// Forward implements Program.
func (p *Accumulate) Forward(rec *Recorder) int64 {
	p.x = AccumulateX0
	p.y = AccumulateY0
	rec.Assign()
	rec.Assign()

	p.i = 0
	rec.Assign() // n
	rec.Assign() // i

	return p.loop(rec, 1, "Iteration")
}

// Inverse implements Program.
func (p *Accumulate) Inverse(rec *Recorder) int64 {
	p.i = 0
	rec.Assign()

	return p.loop(rec, -1, "Reverse Iteration")
}

// loop applies every step with the given sign for n iterations. Each
// compound update, and the i += 1, is one assignment plus one evaluation.
func (p *Accumulate) loop(rec *Recorder, sign int64, label string) int64 {
	var iterations int64
	for p.i < p.n && !rec.Interrupted() {
		for _, s := range accumulateSteps {
			v := p.slot(s.variable)
			*v += sign * s.delta
			rec.Assign()
			rec.Eval()
			rec.Emitf("%s %d - Step %d: %s = %d", label, p.i+1, s.step, s.variable, *v)
		}

		p.i++
		rec.Assign()
		rec.Eval()

		iterations++
	}
	return iterations
}

func (p *Accumulate) slot(variable string) *int64 {
	if variable == "x" {
		return &p.x
	}
	return &p.y
}

// Finals implements Program: x then y.
func (p *Accumulate) Finals() []ir.FinalValue {
	return []ir.FinalValue{
		{Name: "x", Value: strconv.FormatInt(p.x, 10)},
		{Name: "y", Value: strconv.FormatInt(p.y, 10)},
	}
}
