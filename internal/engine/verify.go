package engine

// # Determinism
//
// A run's digest covers its counts, forward iterations, inverse steps, final
// values and every emitted line (via the trace digest). Run id, elapsed time
// and memory delta are excluded.
//
// Two runs of the same program with the same bound, each starting from fresh
// state, must therefore produce the same digest. VerifyDeterminism checks
// exactly that by running twice and comparing.

import (
	"context"
	"fmt"

	"github.com/roach88/revbench/internal/ir"
)

// Verification is the outcome of a determinism check.
type Verification struct {
	Program       string        `json:"program"`
	N             int64         `json:"n"`
	First         *ir.RunResult `json:"first"`
	Second        *ir.RunResult `json:"second"`
	Deterministic bool          `json:"deterministic"`
}

// VerifyDeterminism runs the named program twice with fresh state and
// compares digests.
//
// Trace lines are not forwarded to the engine's emitter. A mismatch returns
// the Verification together with a NON_DETERMINISTIC RuntimeError.
func (e *Engine) VerifyDeterminism(ctx context.Context, name string, n int64) (*Verification, error) {
	v := &Verification{Program: name, N: n}

	for i, slot := range []**ir.RunResult{&v.First, &v.Second} {
		p, err := NewProgram(name, n)
		if err != nil {
			return nil, err
		}
		res, err := e.run(ctx, p, Discard)
		if err != nil {
			return nil, fmt.Errorf("verify run %d: %w", i+1, err)
		}
		*slot = res
	}

	v.Deterministic = v.First.Digest == v.Second.Digest
	if !v.Deterministic {
		return v, NewNonDeterministicError(name, v.First.Digest, v.Second.Digest)
	}

	e.logger.DebugContext(ctx, "determinism verified", "program", name, "n", n, "digest", v.First.Digest)
	return v, nil
}
