package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/store"
	"github.com/roach88/bfc/internal/target"
	"github.com/roach88/bfc/internal/toolchain"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	TranslateOptions
	Flags []string // extra toolchain arguments, whitespace-split
	Cmd   string   // toolchain command
	Opt   string   // optimization level
}

// BuildResult is the payload of a successful build or compile.
type BuildResult struct {
	BuildID    string          `json:"build_id,omitempty"`
	Source     string          `json:"source"`
	Output     string          `json:"output"`
	Executable string          `json:"executable,omitempty"`
	Target     string          `json:"target"`
	Cached     bool            `json:"cached"`
	Stats      *compiler.Stats `json:"stats"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{TranslateOptions: TranslateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "build <file.bf>",
		Short: "Translate a program and build an executable",
		Long: `Translate a Brainfuck program into the target language and invoke the
target toolchain on the result.

The generated source is written to <name>.<ext> and the executable to
<name>, where <name> is the source path without ".bf" or the value of
--output. The generated source is always overwritten, and removed again
if the program has unbalanced brackets.

Exit codes:
  0 - Executable built
  1 - Syntax error or toolchain failure
  2 - Command error (unreadable source, bad config, etc.)

Examples:
  bfc build hello.bf
  bfc build hello.bf -o bin/hello --opt 3
  bfc build hello.bf --target go -b "-trimpath"
  bfc build hello.bf --cmd rustc-nightly -b "-C target-cpu=native"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd, true)
		},
	}

	addTranslateFlags(cmd, &opts.TranslateOptions)
	cmd.Flags().StringArrayVarP(&opts.Flags, "flag", "b", nil, "extra toolchain arguments (repeatable, split on whitespace)")
	cmd.Flags().StringVar(&opts.Cmd, "cmd", "", "toolchain command (default: rustc or go)")
	cmd.Flags().StringVar(&opts.Opt, "opt", "2", "optimization level (0-3, s, z)")

	return cmd
}

// runBuild translates source and, when link is set, runs the toolchain.
func runBuild(opts *BuildOptions, source string, cmd *cobra.Command, link bool) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := resolveConfig(cmd, &opts.TranslateOptions, source)
	if err != nil {
		return configFailure(formatter, err)
	}
	backend, err := target.Lookup(cfg.Target)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfigInvalid, err.Error(), nil)
	}

	base := outputBase(source, opts.Output)
	result := BuildResult{
		Source: source,
		Output: base + backend.Ext(),
		Target: backend.Name(),
	}
	if link {
		result.Executable = executableName(base)
	}

	st, err := openCache(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCacheFailed, err.Error(), nil)
	}
	if st != nil {
		defer st.Close()
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	formatter.VerboseLog("Translating %s to %s (%s)", source, result.Output, backend.Name())
	record := store.Build{
		SourcePath: source,
		OutputPath: result.Output,
		Target:     backend.Name(),
	}

	tr, err := translateFile(ctx, st, cfg, source, result.Output)
	if err != nil {
		return failTranslation(ctx, formatter, st, record, err)
	}
	result.Stats = tr.Stats
	result.Cached = tr.Cached
	record.TranslationKey = tr.Key

	if !link {
		record.Status = store.StatusTranslated
		if rec := recordBuild(ctx, st, record); rec != nil {
			result.BuildID = rec.ID
		}
		return outputBuildSuccess(formatter, result)
	}

	compilerCmd := &toolchain.Compiler{Backend: backend, Command: cfg.Compiler}
	record.OutputPath = result.Executable
	err = compilerCmd.Build(ctx, target.Build{
		Source: result.Output,
		Output: result.Executable,
		Opt:    cfg.Opt,
		Flags:  cfg.Flags,
	})
	if err != nil {
		return failToolchain(ctx, formatter, st, record, result.Output, err)
	}

	record.Status = store.StatusOK
	if rec := recordBuild(ctx, st, record); rec != nil {
		result.BuildID = rec.ID
	}
	return outputBuildSuccess(formatter, result)
}

// executableName is base plus the platform's executable suffix.
func executableName(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(base, ".exe") {
		return base + ".exe"
	}
	return base
}

// failToolchain reports a failed toolchain run with its captured output.
func failToolchain(ctx context.Context, f *OutputFormatter, st *store.Store, b store.Build, generated string, err error) error {
	var be *toolchain.BuildError
	if !errors.As(err, &be) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	b.Status = store.StatusBuildFailed
	b.ExitCode = be.ExitCode
	b.Message = be.Error()
	recordBuild(ctx, st, b)

	// The toolchain's diagnostics are the useful part in text mode.
	if f.Format != "json" && be.Output != "" {
		fmt.Fprint(f.GetErrWriter(), be.Output)
	}
	return f.Fail(ExitFailure, ErrCodeBuildFailed,
		fmt.Sprintf("failed to compile '%s': %v", generated, be), strings.TrimSpace(be.Output))
}

// outputBuildSuccess prints the build summary.
func outputBuildSuccess(f *OutputFormatter, r BuildResult) error {
	if f.Format == "json" {
		return f.Success(r)
	}

	w := f.Writer
	cached := ""
	if r.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(w, "✓ Translated %s → %s%s\n", r.Source, r.Output, cached)
	if r.Executable != "" {
		fmt.Fprintf(w, "✓ Built %s\n", r.Executable)
	}
	if r.Stats != nil {
		f.VerboseLog("  %d statement(s), helpers %v, capacity %d",
			r.Stats.Statements, r.Stats.Helpers, r.Stats.Capacity)
	}
	if r.BuildID != "" {
		f.VerboseLog("  build %s", r.BuildID)
	}
	return nil
}
