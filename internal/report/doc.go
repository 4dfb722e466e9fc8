// Package report renders run output for humans (text) and tools (JSON).
//
// A Reporter is also an engine.Emitter: in text mode trace lines stream to
// the writer as the program emits them, in JSON mode they are buffered and
// written inside the final envelope.
package report
