// Package harness runs conformance scenarios against the engine's programs.
//
// A scenario names a program and a bound, then states what the run must
// produce: exact counts, loop totals, final values and trace assertions.
// Runs use a fixed run id and frozen time and heap readings, so everything
// in the result is reproducible and can be compared against golden files.
//
// # Scenario Format
//
//	name: fib_small
//	description: "Fibonacci with a single forward iteration"
//	program: fib
//	n: 3
//	expect:
//	  assignments: 13
//	  evaluations: 9
//	  forward_iterations: 1
//	  inverse_steps: 1
//	  lines: 3
//	  finals: { a: "0", b: "1" }
//	assertions:
//	  - type: trace_contains
//	    text: "Reversed value of a: 0"
//	    phase: inverse
//	  - type: trace_order
//	    lines: ["1", "Reversed value of b: 1"]
//
// # Assertion Types
//
//   - trace_contains: a line with the given text (and phase, if set) was emitted
//   - trace_order: the given lines appear in this order
//   - trace_count: a line with the given text was emitted exactly count times
//   - final_value: the named final value equals value
//
// # Golden Files
//
// AssertGolden writes the deterministic part of a run as canonical JSON and
// compares it with testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
