package testutil

import "sync"

// ScriptedMemory is a deterministic measure.MemorySource.
//
// Each call to HeapBytes returns the next scripted value; once the script
// is exhausted the last value repeats. An empty script always returns 0.
type ScriptedMemory struct {
	mu     sync.Mutex
	values []uint64
	idx    int
}

// NewScriptedMemory creates a memory source returning values in order.
func NewScriptedMemory(values ...uint64) *ScriptedMemory {
	return &ScriptedMemory{values: values}
}

// HeapBytes returns the next scripted reading.
func (m *ScriptedMemory) HeapBytes() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.values) == 0 {
		return 0
	}
	if m.idx >= len(m.values) {
		return m.values[len(m.values)-1]
	}
	v := m.values[m.idx]
	m.idx++
	return v
}
