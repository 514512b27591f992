package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/config"
	"github.com/roach88/bfc/internal/ir"
	"github.com/roach88/bfc/internal/store"
	"github.com/roach88/bfc/internal/target"
)

// TranslateOptions holds the flags shared by build and compile.
type TranslateOptions struct {
	*RootOptions
	Output       string // output name; the target extension is appended
	InitialCells int    // tape capacity hint, only used when the flag is set
	Target       string // backend name
	Config       string // project file; empty discovers bfc.yaml next to the source
	Cache        string // translation cache database
}

// addTranslateFlags registers the shared flags on cmd.
func addTranslateFlags(cmd *cobra.Command, opts *TranslateOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output name (target extension is appended)")
	cmd.Flags().IntVar(&opts.InitialCells, "initial-cells", 0, "initial tape capacity (default: number of '>' in the source)")
	cmd.Flags().StringVar(&opts.Target, "target", target.Default, fmt.Sprintf("target language %v", target.Names()))
	cmd.Flags().StringVar(&opts.Config, "config", "", "project file (default: "+config.FileName+" next to the source)")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "translation cache database")
}

// resolveConfig loads the project file and applies flag overrides.
// Only flags the user actually set override the file.
func resolveConfig(cmd *cobra.Command, opts *TranslateOptions, source string) (*config.Config, error) {
	path := opts.Config
	if path == "" {
		path = config.Discover(filepath.Dir(source))
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		slog.Debug("loaded config", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target = opts.Target
	}
	if flags.Changed("initial-cells") {
		cells := opts.InitialCells
		cfg.InitialCells = &cells
	}
	if flags.Changed("cache") {
		cfg.Cache = opts.Cache
	}
	if flags.Changed("cmd") {
		cfg.Compiler, _ = flags.GetString("cmd")
	}
	if flags.Changed("opt") {
		cfg.Opt, _ = flags.GetString("opt")
	}
	if flags.Changed("flag") {
		values, _ := flags.GetStringArray("flag")
		for _, v := range values {
			cfg.Flags = append(cfg.Flags, strings.Fields(v)...)
		}
	}

	// Flag values go through the same schema as the file.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputBase strips ".bf" from the source path, or uses -o verbatim.
// The generated file is base+ext and the executable is base.
func outputBase(source, output string) string {
	if output != "" {
		return output
	}
	if base, ok := strings.CutSuffix(source, ".bf"); ok {
		return base
	}
	return source
}

// openCache opens the cache database named by cfg, or returns nil.
func openCache(cfg *config.Config) (*store.Store, error) {
	if cfg.Cache == "" {
		return nil, nil
	}
	st, err := store.Open(cfg.Cache)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened translation cache", "path", cfg.Cache)
	return st, nil
}

// translation is the outcome of translating one source file.
type translation struct {
	Key    string
	Stats  *compiler.Stats
	Cached bool
}

// translateFile translates source into outPath. A syntax error removes the
// output file; the partial or structurally invalid program is never left
// behind. With a cache, a hit is copied verbatim and a miss is stored.
func translateFile(ctx context.Context, st *store.Store, cfg *config.Config, source, outPath string) (*translation, error) {
	opts := compiler.Options{Target: cfg.Target, InitialCells: cfg.InitialCells}

	if st == nil {
		in, err := os.Open(source)
		if err != nil {
			return nil, &sourceError{err}
		}
		defer in.Close()
		stats, err := translateTo(in, outPath, opts, nil)
		if err != nil {
			return &translation{Stats: stats}, err
		}
		return &translation{Stats: stats}, nil
	}

	src, err := os.ReadFile(source)
	if err != nil {
		return nil, &sourceError{err}
	}
	key, err := ir.TranslationKey(src, cfg.Target, cfg.InitialCells)
	if err != nil {
		return nil, err
	}

	cached, found, err := st.GetTranslation(ctx, key)
	if err != nil {
		return nil, &cacheError{err}
	}
	if found {
		slog.Debug("translation cache hit", "key", key)
		if err := os.WriteFile(outPath, cached.Code, 0644); err != nil {
			return nil, &compiler.IOError{Op: "write", Err: err}
		}
		stats := cached.Stats
		return &translation{Key: key, Stats: &stats, Cached: true}, nil
	}

	var code bytes.Buffer
	stats, err := translateTo(bytes.NewReader(src), outPath, opts, &code)
	if err != nil {
		return &translation{Key: key, Stats: stats}, err
	}

	err = st.PutTranslation(ctx, store.Translation{
		Key:          key,
		SourceHash:   ir.SourceHash(src),
		Target:       stats.Target,
		InitialCells: cfg.InitialCells,
		Code:         code.Bytes(),
		Stats:        *stats,
	})
	if err != nil {
		return nil, &cacheError{err}
	}
	slog.Debug("translation cached", "key", key)
	return &translation{Key: key, Stats: stats}, nil
}

// translateTo streams the translation into outPath, teeing it into capture
// when set.
func translateTo(src io.Reader, outPath string, opts compiler.Options, capture *bytes.Buffer) (*compiler.Stats, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, &compiler.IOError{Op: "write", Err: err}
	}

	var w io.Writer = out
	if capture != nil {
		w = io.MultiWriter(out, capture)
	}

	stats, err := compiler.Translate(src, w, opts)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = &compiler.IOError{Op: "write", Err: cerr}
	}

	var se *compiler.SyntaxError
	if errors.As(err, &se) {
		if rerr := os.Remove(outPath); rerr != nil {
			slog.Error("failed to remove invalid output", "path", outPath, "error", rerr)
		}
	}
	return stats, err
}

// cacheError marks a failure of the translation cache itself.
type cacheError struct{ err error }

func (e *cacheError) Error() string { return "translation cache: " + e.err.Error() }
func (e *cacheError) Unwrap() error { return e.err }

// sourceError marks a source file that could not be read.
type sourceError struct{ err error }

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// recordBuild appends a build record when a cache is open. Failures are
// logged, not returned: the build itself already finished.
func recordBuild(ctx context.Context, st *store.Store, b store.Build) *store.Build {
	if st == nil {
		return nil
	}
	rec, err := st.RecordBuild(ctx, store.UUIDv7Generator{}, b)
	if err != nil {
		slog.Error("failed to record build", "error", err)
		return nil
	}
	return &rec
}

// failTranslation renders a translation error and records it.
func failTranslation(ctx context.Context, f *OutputFormatter, st *store.Store, b store.Build, err error) error {
	var ce *cacheError
	if errors.As(err, &ce) {
		return f.Fail(ExitCommandError, ErrCodeCacheFailed, ce.Error(), nil)
	}
	var srcErr *sourceError
	if errors.As(err, &srcErr) {
		return f.Fail(ExitCommandError, ErrCodeSourceNotFound, err.Error(), nil)
	}

	code, exit, details := translationFailure(err)
	if compiler.IsUnmatchedClose(err) || compiler.IsUnmatchedOpen(err) {
		b.TranslationKey = "" // failed translations are never cached
		b.Status = store.StatusSyntaxError
		b.ExitCode = exit
		b.Message = err.Error()
		recordBuild(ctx, st, b)
	}
	return f.Fail(exit, code, err.Error(), details)
}
