package engine

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/revbench/internal/ir"
	"github.com/roach88/revbench/internal/measure"
)

const tracerName = "revbench.engine"

// DefaultMemoryLimitMB is the heap delta above which a run logs a warning.
const DefaultMemoryLimitMB = 50

// Engine runs programs forward then inverse inside a measurement window.
//
// Each Run gets a fresh Counter, Clock and trace digest; nothing carries
// over between runs. The computation itself is single-threaded.
//
// Thread-safety model:
//   - Run(): safe from any goroutine as long as the Emitter is
//   - a Program value must not be shared between concurrent runs
type Engine struct {
	emitter     Emitter
	runIDs      RunIDGenerator
	logger      *slog.Logger
	tracer      trace.Tracer
	measureOpts []measure.Option
	memLimitMB  float64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithEmitter sets where trace lines go. Default: Discard.
func WithEmitter(out Emitter) EngineOption {
	return func(e *Engine) {
		if out != nil {
			e.emitter = out
		}
	}
}

// WithRunIDGenerator overrides the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.runIDs = gen
		}
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracerProvider sets the OpenTelemetry provider runs are traced with.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMeasureOptions passes options to the Sampler created for each run.
// Tests use it to freeze time and heap readings.
func WithMeasureOptions(opts ...measure.Option) EngineOption {
	return func(e *Engine) {
		e.measureOpts = append(e.measureOpts, opts...)
	}
}

// WithMemoryLimitMB sets the heap delta, in MB, above which a completed run
// logs a warning. Zero or negative disables the check.
// Default: DefaultMemoryLimitMB.
func WithMemoryLimitMB(limit float64) EngineOption {
	return func(e *Engine) {
		e.memLimitMB = limit
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		emitter:    Discard,
		runIDs:     UUIDv7Generator{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		memLimitMB: DefaultMemoryLimitMB,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes p's forward phase then its inverse phase and returns the
// measured result.
//
// The measurement window covers exactly Forward plus Inverse. A trace
// underflow inside the program is a logic fault and panics through Run.
// Cancelling ctx stops the program between loop iterations; Run then
// returns an error wrapping ctx.Err() and no result.
func (e *Engine) Run(ctx context.Context, p Program) (*ir.RunResult, error) {
	return e.run(ctx, p, e.emitter)
}

func (e *Engine) run(ctx context.Context, p Program, out Emitter) (*ir.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", p.Name(), err)
	}

	runID := e.runIDs.Generate()
	ctx, span := e.tracer.Start(ctx, "revbench.run",
		trace.WithAttributes(
			attribute.String("revbench.program", p.Name()),
			attribute.Int64("revbench.n", p.Bound()),
			attribute.String("revbench.run_id", runID),
		),
	)
	defer span.End()

	log := e.logger.With("program", p.Name(), "n", p.Bound(), "run_id", runID)
	rec := newRecorder(out)
	rec.ctx = ctx
	sampler := measure.New(e.measureOpts...)

	log.DebugContext(ctx, "forward phase starting")
	sampler.Start()
	iterations := p.Forward(rec)
	if rec.interrupted != nil {
		sampler.Stop()
		return nil, e.interrupted(ctx, span, log, p, ir.PhaseForward, rec.interrupted)
	}

	rec.setPhase(ir.PhaseInverse)
	log.DebugContext(ctx, "inverse phase starting", "forward_iterations", iterations)
	steps := p.Inverse(rec)
	sampler.Stop()
	if rec.interrupted != nil {
		return nil, e.interrupted(ctx, span, log, p, ir.PhaseInverse, rec.interrupted)
	}
	log.DebugContext(ctx, "inverse phase finished", "inverse_steps", steps)

	if rec.err != nil {
		span.RecordError(rec.err)
		span.SetStatus(codes.Error, "trace digest failed")
		return nil, fmt.Errorf("run %s: %w", p.Name(), rec.err)
	}

	result := &ir.RunResult{
		RunID:             runID,
		Program:           p.Name(),
		N:                 p.Bound(),
		Counts:            rec.Counts(),
		ForwardIterations: iterations,
		InverseSteps:      steps,
		Finals:            p.Finals(),
		Lines:             rec.hash.Lines(),
		TraceDigest:       rec.hash.Sum(),
		ElapsedSeconds:    sampler.Elapsed(),
		MemoryDeltaMB:     sampler.MemoryDeltaMB(),
		EngineVersion:     ir.EngineVersion,
		IRVersion:         ir.IRVersion,
	}

	digest, err := ir.RunDigest(*result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run digest failed")
		return nil, fmt.Errorf("run %s: %w", p.Name(), err)
	}
	result.Digest = digest

	span.SetAttributes(
		attribute.Int64("revbench.result.assignments", result.Counts.Assignments),
		attribute.Int64("revbench.result.evaluations", result.Counts.Evaluations),
		attribute.Int64("revbench.result.forward_iterations", iterations),
		attribute.Int64("revbench.result.inverse_steps", steps),
		attribute.Float64("revbench.result.elapsed_seconds", result.ElapsedSeconds),
		attribute.Float64("revbench.result.memory_delta_mb", result.MemoryDeltaMB),
	)
	span.SetStatus(codes.Ok, "run completed")

	log.InfoContext(ctx, "run completed",
		"assignments", result.Counts.Assignments,
		"evaluations", result.Counts.Evaluations,
		"elapsed_seconds", result.ElapsedSeconds,
		"memory_delta_mb", result.MemoryDeltaMB,
	)
	if e.memLimitMB > 0 && result.MemoryDeltaMB > e.memLimitMB {
		log.WarnContext(ctx, "memory usage exceeded limit",
			"memory_delta_mb", result.MemoryDeltaMB,
			"limit_mb", e.memLimitMB,
		)
	}
	return result, nil
}

// interrupted closes out a run stopped by its context.
func (e *Engine) interrupted(ctx context.Context, span trace.Span, log *slog.Logger, p Program, phase ir.Phase, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "run interrupted")
	log.WarnContext(ctx, "run interrupted", "phase", string(phase), "error", cause)
	return fmt.Errorf("run %s: %s phase interrupted: %w", p.Name(), phase, cause)
}

// RunProgram builds the named program with bound n and runs it.
func (e *Engine) RunProgram(ctx context.Context, name string, n int64) (*ir.RunResult, error) {
	p, err := NewProgram(name, n)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, p)
}
