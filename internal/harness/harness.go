package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/target"
	"github.com/roach88/bfc/internal/toolchain"
)

// DefaultTimeout bounds a single program execution.
const DefaultTimeout = 30 * time.Second

// Options configures scenario execution.
type Options struct {
	// Targets, if set, restricts every scenario to these backends.
	Targets []string

	// Compilers overrides the toolchain command per target name.
	Compilers map[string]string

	// Opt is passed to every build. Empty means "0".
	Opt string

	// WorkDir receives build artifacts under <WorkDir>/<scenario>/<target>.
	// Empty uses a temporary directory removed after the run.
	WorkDir string

	// Timeout bounds each program execution. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
}

// Harness is the test execution engine.
type Harness struct {
	opts   Options
	logger *slog.Logger
}

// New creates a harness with the given options.
func New(opts Options) *Harness {
	if opts.Opt == "" {
		opts.Opt = "0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{opts: opts, logger: logger}
}

// Run executes a test scenario with a fresh harness.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	return New(opts).Run(ctx, scenario)
}

// Run executes a test scenario on each of its targets and returns the
// result. Expectation mismatches are reported in the result; the error is
// reserved for failures of the harness itself.
//
// Execution flow per target:
// 1. Translate the program
// 2. Check the translation expectations (error kind, helpers, capacity)
// 3. Build the generated source with the target toolchain
// 4. Execute it with the scenario stdin and compare behavior
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	root := h.opts.WorkDir
	if root == "" {
		tmp, err := os.MkdirTemp("", "bfc-harness-")
		if err != nil {
			return nil, fmt.Errorf("failed to create work dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		root = tmp
	}

	result := NewResult(scenario.Name)
	for _, name := range h.targets(scenario) {
		dir := filepath.Join(root, scenario.Name, name)
		tr, err := h.runTarget(ctx, scenario, name, dir)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", name, err)
		}
		h.logger.Info("scenario target finished",
			"scenario", scenario.Name,
			"target", name,
			"pass", tr.Pass,
			"skipped", tr.Skipped,
		)
		result.add(tr)
	}
	return result, nil
}

// targets intersects the scenario's targets with the harness filter.
func (h *Harness) targets(s *Scenario) []string {
	names := s.TargetNames()
	if len(h.opts.Targets) == 0 {
		return names
	}
	var out []string
	for _, n := range names {
		if slices.Contains(h.opts.Targets, n) {
			out = append(out, n)
		}
	}
	return out
}

func (h *Harness) runTarget(ctx context.Context, s *Scenario, name, dir string) (TargetResult, error) {
	tr := TargetResult{Target: name, Pass: true}

	backend, err := target.Lookup(name)
	if err != nil {
		return tr, err
	}

	code, stats, err := compiler.TranslateString(s.Program, compiler.Options{
		Target:       name,
		InitialCells: s.InitialCells,
	})
	tr.Stats = stats
	if compiler.IsIOError(err) {
		return tr, err
	}

	if s.ExpectsError() {
		checkTranslationError(&tr, compiler.SyntaxKind(s.Expect.Error), err)
		return tr, nil
	}
	if err != nil {
		tr.addError("translation failed: %v", err)
		return tr, nil
	}
	tr.Code = code
	checkStats(&tr, &s.Expect, stats)

	c := &toolchain.Compiler{Backend: backend, Command: h.opts.Compilers[name], Dir: dir}
	if !c.Available() {
		tr.Skipped = true
		tr.SkipReason = fmt.Sprintf("toolchain %q not found", compilerName(c))
		return tr, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return tr, fmt.Errorf("failed to create work dir: %w", err)
	}
	source := filepath.Join(dir, "prog"+backend.Ext())
	if err := os.WriteFile(source, []byte(code), 0644); err != nil {
		return tr, fmt.Errorf("failed to write source: %w", err)
	}
	exe := filepath.Join(dir, "prog")
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}

	build := target.Build{Source: source, Output: exe, Opt: h.opts.Opt}
	if err := c.Build(ctx, build); err != nil {
		var be *toolchain.BuildError
		if errors.As(err, &be) {
			tr.addError("build failed: %v\n%s", be, strings.TrimSpace(be.Output))
			return tr, nil
		}
		return tr, err
	}

	runCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()
	res, err := toolchain.Exec(runCtx, exe, strings.NewReader(s.Stdin))
	if err != nil {
		if ctx.Err() != nil {
			return tr, ctx.Err()
		}
		tr.addError("execution failed: %v", err)
		return tr, nil
	}
	tr.Stdout = res.Stdout
	tr.ExitCode = res.ExitCode

	checkExecution(&tr, &s.Expect, res)
	return tr, nil
}

func compilerName(c *toolchain.Compiler) string {
	if c.Command != "" {
		return c.Command
	}
	return c.Backend.DefaultCompiler()
}

func checkTranslationError(tr *TargetResult, want compiler.SyntaxKind, err error) {
	if err == nil {
		tr.addError("expected %s, translation succeeded", want)
		return
	}
	var se *compiler.SyntaxError
	if !errors.As(err, &se) {
		tr.addError("expected %s, got %v", want, err)
		return
	}
	if se.Kind != want {
		tr.addError("expected %s, got %s at %s", want, se.Kind, se.Pos)
	}
}

func checkStats(tr *TargetResult, e *Expect, stats *compiler.Stats) {
	if e.Helpers != nil {
		want := slices.Clone(e.Helpers)
		got := slices.Clone(stats.Helpers)
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			tr.addError("helpers: expected %v, got %v", e.Helpers, stats.Helpers)
		}
	}
	if e.Capacity != nil && *e.Capacity != stats.Capacity {
		tr.addError("capacity: expected %d, got %d", *e.Capacity, stats.Capacity)
	}
}

func checkExecution(tr *TargetResult, e *Expect, res *toolchain.Result) {
	switch e.Exit {
	case "", ExitZero:
		if res.ExitCode != 0 {
			tr.addError("exit: expected zero, got %d (stderr: %s)", res.ExitCode, strings.TrimSpace(string(res.Stderr)))
		}
	case ExitNonZero:
		if res.ExitCode == 0 {
			tr.addError("exit: expected nonzero, got 0")
		}
	}

	want, err := e.expectedStdout()
	if err != nil {
		tr.addError("stdout_hex: %v", err)
	} else if want != nil && !bytes.Equal(want, res.Stdout) {
		tr.addError("stdout: expected %q, got %q", want, res.Stdout)
	}

	if e.StderrContains != "" && !strings.Contains(string(res.Stderr), e.StderrContains) {
		tr.addError("stderr: expected to contain %q, got %q", e.StderrContains, res.Stderr)
	}
}
