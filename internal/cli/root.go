package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/report"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Quiet   bool
	Format  string // "json" | "text"

	logger *slog.Logger
}

// NewRootCommand creates the root command for the revbench CLI.
//
// Invoked with no subcommand it runs fib forward then inverse once, the
// same as "revbench run".
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	runOpts := &RunOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "revbench",
		Short: "revbench - counted forward/inverse micro-benchmarks",
		Long: `Run small iterative programs forward, undo them with an exact inverse,
and report assignment and evaluation counts alongside elapsed time and heap delta.

With no subcommand, runs fib with the default bound.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !report.IsValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, report.ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(runOpts, engine.FibonacciName, cmd)
		},
	}

	cmd.Flags().Int64Var(&runOpts.N, "n", engine.DefaultBound, "iteration bound")

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress trace lines and info logs")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", report.FormatText, "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger builds the text handler logger: Info by default, Debug with
// --verbose, Warn with --quiet.
func newLogger(w io.Writer, opts *RootOptions) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the logger configured by the root command, building one
// on cmd's error stream when the subcommand runs without its parent.
func (o *RootOptions) Logger(cmd *cobra.Command) *slog.Logger {
	if o.logger == nil {
		o.logger = newLogger(cmd.ErrOrStderr(), o)
	}
	return o.logger
}

// reporter creates a Reporter on cmd's output stream.
func (o *RootOptions) reporter(cmd *cobra.Command) *report.Reporter {
	r := report.New(o.Format, cmd.OutOrStdout())
	r.Quiet = o.Quiet
	r.Verbose = o.Verbose
	return r
}
