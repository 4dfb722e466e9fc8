package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/roach88/revbench/internal/ir"
	"github.com/roach88/revbench/internal/measure"
	"github.com/roach88/revbench/internal/testutil"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	base := []EngineOption{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-test")),
		WithMeasureOptions(
			measure.WithTimeSource(testutil.NewStepClock(0)),
			measure.WithMemorySource(testutil.NewScriptedMemory(0)),
			measure.WithGC(false),
		),
	}
	return New(append(base, opts...)...)
}

func TestEngine_RunFibonacci(t *testing.T) {
	c := &collector{}
	e := newTestEngine(t, WithEmitter(c))

	res, err := e.RunProgram(context.Background(), "fib", 1000)
	require.NoError(t, err)

	assert.Equal(t, "run-test", res.RunID)
	assert.Equal(t, "fib", res.Program)
	assert.Equal(t, int64(1000), res.N)
	assert.Equal(t, ir.Counts{Assignments: 6992, Evaluations: 7985}, res.Counts)
	assert.Equal(t, int64(998), res.ForwardIterations)
	assert.Equal(t, int64(998), res.InverseSteps)
	assert.Equal(t, int64(998*3), res.Lines)
	assert.Len(t, c.lines, 998*3)

	a, ok := res.Final("a")
	require.True(t, ok)
	assert.Equal(t, "0", a)
	b, _ := res.Final("b")
	assert.Equal(t, "1", b)

	assert.Equal(t, 0.0, res.ElapsedSeconds)
	assert.Equal(t, 0.0, res.MemoryDeltaMB)
	assert.Equal(t, ir.EngineVersion, res.EngineVersion)
	assert.Equal(t, ir.IRVersion, res.IRVersion)
	assert.Len(t, res.Digest, 64)
	assert.Len(t, res.TraceDigest, 64)
}

func TestEngine_RunAccumulate(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.RunProgram(context.Background(), "accumulate", 1000)
	require.NoError(t, err)

	assert.Equal(t, ir.Counts{Assignments: 10005, Evaluations: 10000}, res.Counts)
	assert.Equal(t, []ir.FinalValue{{Name: "x", Value: "10"}, {Name: "y", Value: "20"}}, res.Finals)
	assert.Equal(t, int64(8000), res.Lines)
}

func TestEngine_Measurement(t *testing.T) {
	e := newTestEngine(t, WithMeasureOptions(
		measure.WithTimeSource(testutil.NewStepClock(1500*time.Millisecond)),
		measure.WithMemorySource(testutil.NewScriptedMemory(1<<20, 3<<20)),
	))

	res, err := e.RunProgram(context.Background(), "accumulate", 10)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, res.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 2.0, res.MemoryDeltaMB, 1e-12)
}

func TestEngine_DigestIgnoresTiming(t *testing.T) {
	slow := newTestEngine(t, WithMeasureOptions(
		measure.WithTimeSource(testutil.NewStepClock(time.Hour)),
		measure.WithMemorySource(testutil.NewScriptedMemory(0, 1<<30)),
	))
	fast := newTestEngine(t, WithRunIDGenerator(testutil.NewFixedRunIDGenerator("other")))

	r1, err := slow.RunProgram(context.Background(), "fib", 50)
	require.NoError(t, err)
	r2, err := fast.RunProgram(context.Background(), "fib", 50)
	require.NoError(t, err)

	assert.NotEqual(t, r1.ElapsedSeconds, r2.ElapsedSeconds)
	assert.Equal(t, r1.Digest, r2.Digest)

	r3, err := fast.RunProgram(context.Background(), "fib", 51)
	require.NoError(t, err)
	assert.NotEqual(t, r1.Digest, r3.Digest)
}

func TestEngine_FreshStatePerRun(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.RunProgram(ctx, "fib", 10)
	require.NoError(t, err)
	second, err := e.RunProgram(ctx, "fib", 10)
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts, "counts must not accumulate across runs")
	assert.Equal(t, ir.Counts{Assignments: 62, Evaluations: 65}, second.Counts)
}

func TestEngine_LinePhases(t *testing.T) {
	c := &collector{}
	e := newTestEngine(t, WithEmitter(c))

	_, err := e.RunProgram(context.Background(), "fib", 10)
	require.NoError(t, err)

	assert.Len(t, c.texts(ir.PhaseForward), 8)
	assert.Len(t, c.texts(ir.PhaseInverse), 16)
	assert.Equal(t, ir.PhaseForward, c.lines[7].Phase)
	assert.Equal(t, ir.PhaseInverse, c.lines[8].Phase)
}

func TestEngine_RunProgramErrors(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RunProgram(context.Background(), "nope", 10)
	assert.True(t, IsUnknownProgram(err))

	_, err = e.RunProgram(context.Background(), "accumulate", -5)
	assert.True(t, IsInvalidBound(err))
}

func TestEngine_CancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, NewAccumulate(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngine_CancelDuringForward(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lines int
	out := EmitterFunc(func(ir.TraceLine) {
		lines++
		if lines == 3 {
			cancel()
		}
	})
	e := newTestEngine(t, WithEmitter(out))

	res, err := e.RunProgram(ctx, "fib", 1_000_000)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "forward phase interrupted")
	assert.Equal(t, 3, lines, "the loop stops at the next iteration boundary")
}

func TestEngine_CancelDuringInverse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &collector{}
	out := EmitterFunc(func(l ir.TraceLine) {
		c.Emit(l)
		if l.Phase == ir.PhaseInverse {
			cancel()
		}
	})
	e := newTestEngine(t, WithEmitter(out))

	_, err := e.RunProgram(ctx, "accumulate", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "inverse phase interrupted")
	assert.Len(t, c.texts(ir.PhaseForward), 400)
	assert.Len(t, c.texts(ir.PhaseInverse), 4, "one inverse iteration completes")
}

func TestEngine_MemoryLimitWarning(t *testing.T) {
	tests := []struct {
		name    string
		limit   float64
		end     uint64
		wantLog bool
	}{
		{name: "over default", limit: DefaultMemoryLimitMB, end: 51 << 20, wantLog: true},
		{name: "at limit", limit: DefaultMemoryLimitMB, end: 50 << 20, wantLog: false},
		{name: "disabled", limit: 0, end: 1 << 30, wantLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &bytes.Buffer{}
			e := newTestEngine(t,
				WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelWarn}))),
				WithMemoryLimitMB(tt.limit),
				WithMeasureOptions(measure.WithMemorySource(testutil.NewScriptedMemory(0, tt.end))),
			)

			_, err := e.RunProgram(context.Background(), "accumulate", 1)
			require.NoError(t, err)

			if tt.wantLog {
				assert.Contains(t, logs.String(), "level=WARN")
				assert.Contains(t, logs.String(), `msg="memory usage exceeded limit"`)
				assert.Contains(t, logs.String(), "limit_mb=50")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestEngine_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := newTestEngine(t, WithTracerProvider(tp))
	_, err := e.RunProgram(context.Background(), "fib", 10)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "revbench.run", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "fib", attrs["revbench.program"].AsString())
	assert.Equal(t, int64(10), attrs["revbench.n"].AsInt64())
	assert.Equal(t, int64(62), attrs["revbench.result.assignments"].AsInt64())
	assert.Equal(t, int64(65), attrs["revbench.result.evaluations"].AsInt64())
}

func TestVerifyDeterminism(t *testing.T) {
	c := &collector{}
	e := newTestEngine(t, WithEmitter(c))

	for _, name := range Programs() {
		t.Run(name, func(t *testing.T) {
			v, err := e.VerifyDeterminism(context.Background(), name, 100)
			require.NoError(t, err)
			assert.True(t, v.Deterministic)
			assert.Equal(t, v.First.Digest, v.Second.Digest)
			assert.Equal(t, v.First.Counts, v.Second.Counts)
		})
	}
	assert.Empty(t, c.lines, "verification must not stream lines")
}

func TestVerifyDeterminism_UnknownProgram(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.VerifyDeterminism(context.Background(), "nope", 1)
	assert.True(t, IsUnknownProgram(err))
}

func TestNonDeterministicError(t *testing.T) {
	err := NewNonDeterministicError("fib", "aaa", "bbb")
	wrapped := errors.Join(errors.New("context"), err)

	assert.True(t, IsNonDeterministic(wrapped))
	assert.Equal(t, "aaa", err.Details["first"])
	assert.Contains(t, err.Error(), "program=fib")
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("run-1", "run-2")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}
