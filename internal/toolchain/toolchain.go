// Package toolchain invokes the target compiler on generated sources and
// runs the resulting executables.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/roach88/bfc/internal/target"
)

// BuildError reports a toolchain that could not be started or exited non-zero.
type BuildError struct {
	Command  string // full command line
	ExitCode int    // -1 when the process never ran
	Output   string // combined stdout/stderr of the toolchain
	Err      error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to execute %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%q exited with status %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying exec error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsBuildError returns true if err came from a failed toolchain run.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// Compiler runs one backend's toolchain.
type Compiler struct {
	Backend target.Backend
	Command string // toolchain executable; empty uses the backend default
	Dir     string // working directory; empty uses the current one
}

// Build compiles b.Source. The toolchain's own output is captured and
// attached to the error on failure.
func (c *Compiler) Build(ctx context.Context, b target.Build) error {
	name := c.Command
	if name == "" {
		name = c.Backend.DefaultCompiler()
	}
	args := c.Backend.BuildArgs(b)
	line := strings.Join(append([]string{name}, args...), " ")

	slog.Info("invoking toolchain", "command", line)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		be := &BuildError{Command: line, ExitCode: -1, Output: out.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			be.ExitCode = exitErr.ExitCode()
		}
		slog.Error("toolchain failed", "command", line, "exit_code", be.ExitCode)
		return be
	}

	slog.Debug("toolchain finished", "command", line)
	return nil
}

// Available reports whether the toolchain command can be found on PATH.
func (c *Compiler) Available() bool {
	name := c.Command
	if name == "" {
		name = c.Backend.DefaultCompiler()
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// Result is the observable behavior of one program execution.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Exec runs the executable at path with stdin and waits for it to exit.
// A non-zero exit is reported in Result, not as an error; the error is
// reserved for programs that could not be started or were cancelled.
func Exec(ctx context.Context, path string, stdin io.Reader) (*Result, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, fmt.Errorf("run %s: %w", path, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
