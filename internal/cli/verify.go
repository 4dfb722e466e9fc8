package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/revbench/internal/engine"
	"github.com/roach88/revbench/internal/report"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	N int64
}

// VerifyResult is the JSON payload of the verify command.
type VerifyResult struct {
	Programs []VerifiedProgram `json:"programs"`
}

// VerifiedProgram is one program's determinism check.
type VerifiedProgram struct {
	Program       string `json:"program"`
	N             int64  `json:"n"`
	Deterministic bool   `json:"deterministic"`
	Digest        string `json:"digest"`
	Assignments   int64  `json:"assignments"`
	Evaluations   int64  `json:"evaluations"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [program]",
		Short: "Check that repeated runs are identical",
		Long: `Run a program twice with fresh state and compare run digests.

The digest covers counts, loop totals, final values and every trace line;
timing and memory are excluded. With no program, every registered program
is verified.

Exit codes:
  0 - All runs deterministic
  1 - Digests differ
  2 - Command error (unknown program, negative bound)

Examples:
  revbench verify
  revbench verify fib --n 50`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := engine.Programs()
			if len(args) == 1 {
				names = args
			}
			return runVerify(opts, names, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.N, "n", engine.DefaultBound, "iteration bound")

	return cmd
}

func runVerify(opts *VerifyOptions, names []string, cmd *cobra.Command) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	r := opts.reporter(cmd)
	eng := engine.New(engine.WithLogger(opts.Logger(cmd)))
	w := cmd.OutOrStdout()

	result := VerifyResult{Programs: make([]VerifiedProgram, 0, len(names))}
	for _, name := range names {
		v, err := eng.VerifyDeterminism(ctx, name, opts.N)
		if err != nil && v == nil {
			return engineFailure(r, "verify failed", err)
		}

		vp := VerifiedProgram{
			Program:       name,
			N:             opts.N,
			Deterministic: v.Deterministic,
			Digest:        v.First.Digest,
			Assignments:   v.First.Counts.Assignments,
			Evaluations:   v.First.Counts.Evaluations,
		}
		result.Programs = append(result.Programs, vp)

		if err != nil {
			return engineFailure(r, fmt.Sprintf("%s is not deterministic", name), err)
		}
		if opts.Format != report.FormatJSON {
			fmt.Fprintf(w, "%s %s (n=%d): deterministic, digest %s\n", passMark, name, opts.N, shortDigest(vp.Digest))
		}
	}

	if opts.Format == report.FormatJSON {
		return r.Success(result)
	}
	return nil
}

// shortDigest abbreviates a hex digest for display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
