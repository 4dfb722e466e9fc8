package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/measure"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	N int64

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// MeasureOptions are passed to each run's sampler (for testing).
	MeasureOptions []measure.Option
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program forward then inverse and report counts",
		Long: `Run a program forward for n steps, undo it with its exact inverse,
and report the trace, final values, elapsed time, heap delta and the
assignment and evaluation counts.

Programs:
  fib         Fibonacci forward, trace-stack replay back to (0, 1) (default)
  accumulate  x += 35, y += 55 per step forward, then exactly undone

Example:
  revbench run
  revbench run accumulate --n 10
  revbench run fib --quiet --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := engine.FibonacciName
			if len(args) == 1 {
				name = args[0]
			}
			return runProgram(opts, name, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.N, "n", engine.DefaultBound, "iteration bound")

	return cmd
}

func runProgram(opts *RunOptions, name string, cmd *cobra.Command) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	r := opts.reporter(cmd)
	eng := engine.New(
		engine.WithEmitter(r),
		engine.WithRunIDGenerator(opts.RunIDs),
		engine.WithLogger(opts.Logger(cmd)),
		engine.WithMeasureOptions(opts.MeasureOptions...),
	)

	res, err := eng.RunProgram(ctx, name, opts.N)
	if err != nil {
		return engineFailure(r, "run failed", err)
	}

	if err := r.Summary(res); err != nil {
		return WrapExitError(ExitFailure, "failed to write report", err)
	}
	return nil
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM. Programs poll it between loop iterations, so an
// interrupt stops a long run instead of being swallowed.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
