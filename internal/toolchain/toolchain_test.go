package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/target"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

// buildProgram translates src for the named target and compiles it into a
// temp dir, skipping the test when the toolchain is missing.
func buildProgram(t *testing.T, name, src string, opts compiler.Options) string {
	t.Helper()

	backend, err := target.Lookup(name)
	require.NoError(t, err)
	c := &Compiler{Backend: backend}
	if !c.Available() {
		t.Skipf("%s toolchain not on PATH", backend.DefaultCompiler())
	}

	dir := t.TempDir()
	c.Dir = dir
	source := filepath.Join(dir, "prog"+backend.Ext())
	exe := filepath.Join(dir, "prog")

	opts.Target = name
	code, _, err := compiler.TranslateString(src, opts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, []byte(code), 0644))

	require.NoError(t, c.Build(context.Background(), target.Build{Source: source, Output: exe, Opt: "2"}))
	return exe
}

func runProgram(t *testing.T, exe, stdin string) *Result {
	t.Helper()
	res, err := Exec(context.Background(), exe, strings.NewReader(stdin))
	require.NoError(t, err)
	return res
}

func TestEndToEnd(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		stdin    string
		cells    *int
		stdout   []byte
		exitZero bool
	}{
		{name: "hello world", src: helloWorld, stdout: []byte("Hello World!\n"), exitZero: true},
		{name: "decrement wraps to 255", src: "-.", stdout: []byte{0xFF}, exitZero: true},
		{name: "increment wraps to 0", src: "-.+.", stdout: []byte{0xFF, 0x00}, exitZero: true},
		{name: "long run wraps", src: strings.Repeat("+", 257) + ".", stdout: []byte{0x01}, exitZero: true},
		{name: "cat until input runs dry", src: ",[.,]", stdin: "ab\ncd\n", stdout: []byte("ab\ncd\n"), exitZero: true},
		{name: "read on empty input ends program", src: ",+.", stdin: "", stdout: []byte{}, exitZero: true},
		{name: "tape grows past hint", src: ">>>>>>>>>>+.", cells: new(int), stdout: []byte{0x01}, exitZero: true},
		{name: "left bound aborts", src: "<.", stdout: []byte{}, exitZero: false},
	}

	for _, name := range target.Names() {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				exe := buildProgram(t, name, tt.src, compiler.Options{InitialCells: tt.cells})
				res := runProgram(t, exe, tt.stdin)

				assert.Equal(t, string(tt.stdout), string(res.Stdout))
				if tt.exitZero {
					assert.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
				} else {
					assert.NotEqual(t, 0, res.ExitCode)
					assert.Contains(t, string(res.Stderr), "Left bound reached.")
				}
			})
		}
	}
}

func TestBuildFailureReportsExitStatus(t *testing.T) {
	backend, err := target.Lookup(target.Go)
	require.NoError(t, err)
	c := &Compiler{Backend: backend}
	if !c.Available() {
		t.Skip("go toolchain not on PATH")
	}

	dir := t.TempDir()
	c.Dir = dir
	source := filepath.Join(dir, "broken.go")
	require.NoError(t, os.WriteFile(source, []byte("package main\n\nfunc main() { undefined() }\n"), 0644))

	err = c.Build(context.Background(), target.Build{Source: source, Output: filepath.Join(dir, "broken")})
	require.Error(t, err)
	assert.True(t, IsBuildError(err))

	be := err.(*BuildError)
	assert.NotEqual(t, 0, be.ExitCode)
	assert.Contains(t, be.Output, "undefined")
}

func TestBuildMissingCompiler(t *testing.T) {
	backend, err := target.Lookup(target.Rust)
	require.NoError(t, err)
	c := &Compiler{Backend: backend, Command: "bfc-no-such-compiler"}
	assert.False(t, c.Available())

	err = c.Build(context.Background(), target.Build{Source: "x.rs"})
	require.Error(t, err)

	be := err.(*BuildError)
	assert.Equal(t, -1, be.ExitCode)
	assert.Contains(t, err.Error(), "failed to execute")
}
