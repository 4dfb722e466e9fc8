package ir

// Version constants for run results and the engine.
const (
	// IRVersion is the result schema version.
	IRVersion = "1"

	// EngineVersion is the revbench engine version.
	EngineVersion = "0.1.0"
)
