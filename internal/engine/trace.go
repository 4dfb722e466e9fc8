package engine

import "math/big"

// Trace is the LIFO history buffer filled by a forward phase and drained by
// its inverse. Values are copied on Push, so callers may keep mutating the
// big.Int they pushed.
type Trace struct {
	values []*big.Int
}

// Push appends a copy of v.
func (t *Trace) Push(v *big.Int) {
	t.values = append(t.values, new(big.Int).Set(v))
}

// Pop removes and returns the most recent value.
//
// Popping an empty trace is a programming error, not a recoverable
// condition: it panics with a TRACE_UNDERFLOW *RuntimeError.
func (t *Trace) Pop() *big.Int {
	n := len(t.values)
	if n == 0 {
		panic(NewUnderflowError())
	}
	v := t.values[n-1]
	t.values[n-1] = nil
	t.values = t.values[:n-1]
	return v
}

// Peek returns a copy of the value depth entries below the top without
// removing anything: depth 1 is the most recent value. It reports false
// when depth is out of range.
func (t *Trace) Peek(depth int) (*big.Int, bool) {
	n := len(t.values)
	if depth < 1 || depth > n {
		return nil, false
	}
	return new(big.Int).Set(t.values[n-depth]), true
}

// Len returns the number of recorded values.
func (t *Trace) Len() int {
	return len(t.values)
}

// IsEmpty reports whether every recorded value has been consumed.
func (t *Trace) IsEmpty() bool {
	return len(t.values) == 0
}
