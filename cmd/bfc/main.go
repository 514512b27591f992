// Command bfc translates Brainfuck programs into Rust or Go and builds them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/bfc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands render their own failures as ExitErrors. Anything else
		// is a usage error from flag or argument parsing.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
