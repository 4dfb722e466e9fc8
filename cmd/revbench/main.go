// Command revbench runs counted forward/inverse micro-benchmarks.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/revbench/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
