package ir

// Phase names the half of a run a trace line was emitted from.
type Phase string

const (
	// PhaseForward is the computation building up state for N steps.
	PhaseForward Phase = "forward"

	// PhaseInverse is the replay undoing the forward phase.
	PhaseInverse Phase = "inverse"
)

// Counts holds the assignment and evaluation tallies of one run.
type Counts struct {
	Assignments int64 `json:"assignments"`
	Evaluations int64 `json:"evaluations"`
}

// TraceLine is one line of program output, stamped with a logical seq.
type TraceLine struct {
	Seq   int64  `json:"seq"`
	Phase Phase  `json:"phase"`
	Text  string `json:"text"`
}

// FinalValue is a named scalar left behind by a run.
// Value is the decimal rendering so big integers survive JSON unchanged.
type FinalValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RunResult is the outcome of one forward-then-inverse run.
//
// Everything except ElapsedSeconds and MemoryDeltaMB is deterministic for a
// given (Program, N) and is covered by Digest.
type RunResult struct {
	RunID             string       `json:"run_id"`
	Program           string       `json:"program"`
	N                 int64        `json:"n"`
	Counts            Counts       `json:"counts"`
	ForwardIterations int64        `json:"forward_iterations"`
	InverseSteps      int64        `json:"inverse_steps"`
	Finals            []FinalValue `json:"finals"`
	Lines             int64        `json:"lines"`
	TraceDigest       string       `json:"trace_digest"`
	Digest            string       `json:"digest"`
	ElapsedSeconds    float64      `json:"elapsed_seconds"`
	MemoryDeltaMB     float64      `json:"memory_delta_mb"`
	EngineVersion     string       `json:"engine_version"`
	IRVersion         string       `json:"ir_version"`
}

// Final returns the named final value and whether it exists.
func (r *RunResult) Final(name string) (string, bool) {
	for _, f := range r.Finals {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
