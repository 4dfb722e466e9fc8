package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Domain prefixes for content-addressed digests.
// Version suffix enables future algorithm migration.
const (
	DomainRun   = "revbench/run/v1"
	DomainTrace = "revbench/trace/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := newDomainHash(domain)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func newDomainHash(domain string) hash.Hash {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	return h
}

// TraceHash accumulates a digest over trace lines as they are emitted, so
// a run never has to retain its full output to be compared.
//
// Each line is written as canonical JSON followed by a newline.
type TraceHash struct {
	h     hash.Hash
	lines int64
}

// NewTraceHash returns an empty trace digest.
func NewTraceHash() *TraceHash {
	return &TraceHash{h: newDomainHash(DomainTrace)}
}

// Add folds one line into the digest.
func (t *TraceHash) Add(line TraceLine) error {
	data, err := MarshalCanonical(lineValue(line))
	if err != nil {
		return fmt.Errorf("TraceHash: failed to marshal line %d: %w", line.Seq, err)
	}
	t.h.Write(data)
	t.h.Write([]byte{'\n'})
	t.lines++
	return nil
}

// Lines returns how many lines have been added.
func (t *TraceHash) Lines() int64 {
	return t.lines
}

// Sum returns the hex digest of all lines added so far.
func (t *TraceHash) Sum() string {
	return hex.EncodeToString(t.h.Sum(nil))
}

// RunDigest computes the content digest of the deterministic part of a run.
//
// RunID, ElapsedSeconds and MemoryDeltaMB are EXCLUDED: two runs of the same
// program with the same bound must produce the same digest regardless of
// when or how fast they ran.
func RunDigest(r RunResult) (string, error) {
	obj := IRObject{
		"program":            IRString(r.Program),
		"n":                  IRInt(r.N),
		"counts":             countsValue(r.Counts),
		"forward_iterations": IRInt(r.ForwardIterations),
		"inverse_steps":      IRInt(r.InverseSteps),
		"finals":             finalsValue(r.Finals),
		"lines":              IRInt(r.Lines),
		"trace_digest":       IRString(r.TraceDigest),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunDigest: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainRun, canonical), nil
}

// MustRunDigest is like RunDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunDigest(r RunResult) string {
	d, err := RunDigest(r)
	if err != nil {
		panic(err)
	}
	return d
}

// Snapshot returns the deterministic part of a run, plus its trace lines,
// as an IR object suitable for canonical golden files.
func Snapshot(name string, r RunResult, lines []TraceLine) IRObject {
	trace := make(IRArray, len(lines))
	for i, l := range lines {
		trace[i] = lineValue(l)
	}
	return IRObject{
		"scenario_name": IRString(name),
		"program":       IRString(r.Program),
		"n":             IRInt(r.N),
		"counts":        countsValue(r.Counts),
		"finals":        finalsValue(r.Finals),
		"trace":         trace,
	}
}
