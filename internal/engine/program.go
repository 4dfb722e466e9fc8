package engine

import (
	"sort"

	"github.com/roach88/revbench/internal/ir"
)

// DefaultBound is the iteration bound both programs were specified with.
const DefaultBound = 1000

// Program is a counted computation with an exact inverse.
//
// A Program value holds the state of exactly one run: build a fresh one
// per run with NewProgram. Forward must be called before Inverse.
type Program interface {
	// Name is the registry name ("fib", "accumulate").
	Name() string

	// Bound is the iteration bound n.
	Bound() int64

	// Forward initializes state and runs the forward phase, returning the
	// number of loop iterations performed.
	Forward(rec *Recorder) int64

	// Inverse undoes the forward phase, returning the number of inverse
	// steps performed.
	Inverse(rec *Recorder) int64

	// Finals returns the program's named scalar state in declaration order.
	Finals() []ir.FinalValue
}

// Factory builds a fresh Program for bound n.
type Factory func(n int64) Program

var registry = map[string]Factory{
	FibonacciName:  func(n int64) Program { return NewFibonacci(n) },
	AccumulateName: func(n int64) Program { return NewAccumulate(n) },
}

// NewProgram builds a fresh program by registry name.
func NewProgram(name string, n int64) (Program, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, NewUnknownProgramError(name)
	}
	if n < 0 {
		return nil, NewInvalidBoundError(name, n)
	}
	return factory(n), nil
}

// Programs returns the registered program names in sorted order.
func Programs() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
