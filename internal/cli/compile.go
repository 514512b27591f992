package cli

import (
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{TranslateOptions: TranslateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "compile <file.bf>",
		Short: "Translate a program without building it",
		Long: `Translate a Brainfuck program into the target language and stop.

The generated source is written to <name>.<ext>, where <name> is the
source path without ".bf" or the value of --output. No toolchain is run.

Exit codes:
  0 - Source generated
  1 - Syntax error (no output file is left behind)
  2 - Command error (unreadable source, bad config, etc.)

Examples:
  bfc compile hello.bf
  bfc compile hello.bf --target go -o gen/hello
  bfc compile hello.bf --initial-cells 30000 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd, false)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateOptions)

	return cmd
}
