// Package engine implements the counted forward/inverse run loop.
//
// A Program is a small fixed set of scalar state variables driven forward
// for N steps and then undone by the exact inverse arithmetic. Every logical
// assignment and evaluation is tallied on a Counter; the tallies are part of
// the program's required output, so each program counts at exactly the call
// sites its contract names and nowhere else.
//
// Execution model:
//
// A run is strictly sequential. The Engine:
//  1. Creates a fresh Counter, Clock and TraceHash (runs never share state)
//  2. Starts the measurement sampler
//  3. Runs Program.Forward, then Program.Inverse
//  4. Stops the sampler and builds an ir.RunResult
//
// Emitted lines are stamped with a logical seq from Clock.Next() and fed to
// the configured Emitter in program order.
//
// Determinism:
//
// Everything in a RunResult except elapsed time and memory delta is a pure
// function of (program, n). VerifyDeterminism runs a program twice and
// compares run digests.
package engine
