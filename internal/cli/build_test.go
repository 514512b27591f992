package cli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bfc/internal/target"
	"github.com/roach88/bfc/internal/toolchain"
)

// fakeToolchain writes a shell script that records its arguments, one per
// line, and exits with status.
func fakeToolchain(t *testing.T, status int) (script, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	script = filepath.Join(dir, "fakecc")
	body := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\necho 'fakecc: diagnostics' >&2\nexit " + string(rune('0'+status)) + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))
	return script, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestBuildInvokesToolchainWithFlags(t *testing.T) {
	script, argsFile := fakeToolchain(t, 0)
	src := helloSource(t)
	base := strings.TrimSuffix(src, ".bf")

	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	stdout, _, err := executeCommand(cmd, src,
		"--cmd", script,
		"-b", "-C debuginfo=0",
		"--flag", "-g",
		"--opt", "3",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Translated")
	assert.Contains(t, stdout, "✓ Built "+base)
	assert.Equal(t, []string{
		"-C", "debuginfo=0", "-g",
		"-C", "opt-level=3",
		"-o", base,
		base + ".rs",
	}, readArgs(t, argsFile))
}

func TestBuildConfigSuppliesToolchainSettings(t *testing.T) {
	script, argsFile := fakeToolchain(t, 0)
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.bf", "+.")
	writeFile(t, dir, "bfc.yaml", "target: go\ncompiler: "+script+"\nopt: \"0\"\nflags: [-trimpath]\n")

	cmd := NewBuildCommand(&RootOptions{Format: "json"})
	stdout, _, err := executeCommand(cmd, src, "-b", "-a")
	require.NoError(t, err)

	resp := decodeBuildResponse(t, stdout)
	assert.Equal(t, "go", resp.Data.Target)
	assert.Equal(t, filepath.Join(dir, "hello"), resp.Data.Executable)
	assert.Equal(t, []string{
		"build", "-o", filepath.Join(dir, "hello"),
		"-gcflags=all=-N -l",
		"-trimpath", "-a",
		filepath.Join(dir, "hello.go"),
	}, readArgs(t, argsFile))
}

func TestBuildToolchainFailure(t *testing.T) {
	script, _ := fakeToolchain(t, 3)
	src := helloSource(t)

	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	_, stderr, err := executeCommand(cmd, src, "--cmd", script)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "fakecc: diagnostics")
	assert.Contains(t, stderr, "Error [E006]")
	assert.Contains(t, stderr, "failed to compile '"+strings.TrimSuffix(src, ".bf")+".rs'")

	// The generated source is valid and stays for inspection.
	_, err = os.Stat(strings.TrimSuffix(src, ".bf") + ".rs")
	assert.NoError(t, err)
}

func TestBuildMissingToolchain(t *testing.T) {
	src := helloSource(t)

	cmd := NewBuildCommand(&RootOptions{Format: "json"})
	stdout, _, err := executeCommand(cmd, src, "--cmd", "bfc-no-such-compiler")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	resp := decodeBuildResponse(t, stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBuildFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "bfc-no-such-compiler")
}

func TestBuildSyntaxErrorSkipsToolchain(t *testing.T) {
	script, argsFile := fakeToolchain(t, 0)
	src := writeFile(t, t.TempDir(), "bad.bf", "[")

	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	_, stderr, err := executeCommand(cmd, src, "--cmd", script)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E202]")
	_, statErr := os.Stat(argsFile)
	assert.True(t, os.IsNotExist(statErr), "toolchain must not run")
}

func TestBuildInvalidOpt(t *testing.T) {
	src := helloSource(t)

	cmd := NewBuildCommand(&RootOptions{Format: "text"})
	_, stderr, err := executeCommand(cmd, src, "--opt", "fast")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E003]")
}

func TestBuildEndToEnd(t *testing.T) {
	for _, name := range target.Names() {
		t.Run(name, func(t *testing.T) {
			backend, err := target.Lookup(name)
			require.NoError(t, err)
			if _, err := exec.LookPath(backend.DefaultCompiler()); err != nil {
				t.Skipf("%s not on PATH", backend.DefaultCompiler())
			}

			src := helloSource(t)
			cmd := NewBuildCommand(&RootOptions{Format: "json"})
			stdout, stderr, err := executeCommand(cmd, src, "--target", name)
			require.NoError(t, err, "stderr: %s", stderr)

			resp := decodeBuildResponse(t, stdout)
			res, err := toolchain.Exec(context.Background(), resp.Data.Executable, strings.NewReader(""))
			require.NoError(t, err)
			assert.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
			assert.Equal(t, "Hello World!\n", string(res.Stdout))
		})
	}
}
