package measure

import (
	"runtime"
	"time"
)

// bytesPerMB is 2^20.
const bytesPerMB = 1 << 20

// TimeSource supplies timestamps.
type TimeSource interface {
	Now() time.Time
}

// MemorySource supplies the current heap usage in bytes.
type MemorySource interface {
	HeapBytes() uint64
}

// SystemTime reads the wall clock (with Go's monotonic reading attached).
type SystemTime struct{}

// Now returns time.Now().
func (SystemTime) Now() time.Time { return time.Now() }

// RuntimeMemory reads HeapAlloc from runtime.ReadMemStats.
type RuntimeMemory struct{}

// HeapBytes returns the bytes of allocated heap objects.
func (RuntimeMemory) HeapBytes() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// Sample is one (timestamp, heap bytes) reading.
type Sample struct {
	Time      time.Time
	HeapBytes uint64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithTimeSource overrides the wall clock (for deterministic tests).
func WithTimeSource(ts TimeSource) Option {
	return func(s *Sampler) {
		if ts != nil {
			s.time = ts
		}
	}
}

// WithMemorySource overrides the heap reader (for deterministic tests).
func WithMemorySource(ms MemorySource) Option {
	return func(s *Sampler) {
		if ms != nil {
			s.memory = ms
		}
	}
}

// WithGC controls whether Start requests a collection before sampling.
// Default: enabled.
func WithGC(enabled bool) Option {
	return func(s *Sampler) {
		s.collect = enabled
	}
}

// Sampler brackets a computation with a start and an end sample.
//
// A Sampler is single-use: build one per run.
type Sampler struct {
	time    TimeSource
	memory  MemorySource
	collect bool

	start, end Sample
	started    bool
	stopped    bool
}

// New creates a Sampler reading the system clock and runtime heap stats.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		time:    SystemTime{},
		memory:  RuntimeMemory{},
		collect: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start records the starting sample. When GC is enabled a collection is
// requested first so the baseline excludes garbage from earlier work; this
// is best effort.
func (s *Sampler) Start() {
	if s.collect {
		runtime.GC()
	}
	s.start = s.read()
	s.started = true
	s.stopped = false
}

// Stop records the ending sample. Stop without Start is a no-op.
func (s *Sampler) Stop() {
	if !s.started {
		return
	}
	s.end = s.read()
	s.stopped = true
}

func (s *Sampler) read() Sample {
	return Sample{
		Time:      s.time.Now(),
		HeapBytes: s.memory.HeapBytes(),
	}
}

// StartSample returns the starting sample.
func (s *Sampler) StartSample() Sample { return s.start }

// EndSample returns the ending sample.
func (s *Sampler) EndSample() Sample { return s.end }

// Elapsed returns end minus start in seconds. It is never negative, and is
// 0 until both samples exist.
func (s *Sampler) Elapsed() float64 {
	if !s.stopped {
		return 0
	}
	d := s.end.Time.Sub(s.start.Time)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// MemoryDeltaMB returns end minus start heap usage in megabytes (2^20
// bytes). The result may be negative when the collector reclaimed more
// than the run allocated.
func (s *Sampler) MemoryDeltaMB() float64 {
	if !s.stopped {
		return 0
	}
	delta := int64(s.end.HeapBytes) - int64(s.start.HeapBytes)
	return float64(delta) / bytesPerMB
}
