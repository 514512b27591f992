package harness

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bfc/internal/target"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

// requireToolchain skips unless the default compiler for name is on PATH.
func requireToolchain(t *testing.T, name string) {
	t.Helper()
	b, err := target.Lookup(name)
	require.NoError(t, err)
	if _, err := exec.LookPath(b.DefaultCompiler()); err != nil {
		t.Skipf("%s not on PATH", b.DefaultCompiler())
	}
}

func TestRunExpectedTranslationErrors(t *testing.T) {
	for _, name := range []string{"unmatched_close", "unmatched_open"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(context.Background(), loadTestScenario(t, name), Options{})
			require.NoError(t, err)

			assert.True(t, result.Pass, "errors: %v", result.Errors())
			require.Len(t, result.Targets, len(target.Names()))
			for _, tr := range result.Targets {
				assert.False(t, tr.Skipped)
				assert.Empty(t, tr.Code, "failed translations carry no code")
			}
		})
	}
}

func TestRunWrongTranslationError(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_kind",
		Description: "d",
		Program:     "[+",
		Targets:     []string{"rust"},
		Expect:      Expect{Error: "UnmatchedCloseBracket"},
	}
	result, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0], "rust: expected UnmatchedCloseBracket, got UnmatchedOpenBracket at 1:1")
}

func TestRunExpectedErrorButBalanced(t *testing.T) {
	s := &Scenario{
		Name:        "balanced",
		Description: "d",
		Program:     "[-]",
		Targets:     []string{"go"},
		Expect:      Expect{Error: "UnmatchedOpenBracket"},
	}
	result, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{"go: expected UnmatchedOpenBracket, translation succeeded"}, result.Errors())
}

func TestRunUnexpectedTranslationError(t *testing.T) {
	s := &Scenario{
		Name:        "stray",
		Description: "d",
		Program:     "]",
		Targets:     []string{"rust"},
	}
	result, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0], "translation failed")
	assert.Contains(t, result.Errors()[0], "E201")
}

func TestRunStatsMismatch(t *testing.T) {
	capacity := 7
	s := &Scenario{
		Name:        "stats",
		Description: "d",
		Program:     "+>.",
		Targets:     []string{"rust"},
		Expect:      Expect{Helpers: []string{"Inc"}, Capacity: &capacity},
	}
	// A missing compiler keeps the run at translation.
	result, err := Run(context.Background(), s, Options{Compilers: map[string]string{"rust": "bfc-no-such-compiler"}})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	errs := result.Errors()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "helpers: expected [Inc], got [Inc MoveRight Write]")
	assert.Contains(t, errs[1], "capacity: expected 7, got 1")
}

func TestRunSkipsMissingToolchain(t *testing.T) {
	s := loadTestScenario(t, "wraparound")
	result, err := Run(context.Background(), s, Options{
		Targets:   []string{"go"},
		Compilers: map[string]string{"go": "bfc-no-such-compiler"},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass)
	require.Len(t, result.Targets, 1)
	tr := result.Targets[0]
	assert.True(t, tr.Skipped)
	assert.Contains(t, tr.SkipReason, "bfc-no-such-compiler")
	assert.NotEmpty(t, tr.Code, "translation still runs for skipped targets")
	assert.Equal(t, []string{"go"}, result.Skipped())
}

func TestRunTargetFilter(t *testing.T) {
	s := loadTestScenario(t, "unmatched_close")
	result, err := Run(context.Background(), s, Options{Targets: []string{"rust"}})
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	assert.Equal(t, "rust", result.Targets[0].Target)
	assert.NotNil(t, result.Target("rust"))
	assert.Nil(t, result.Target("go"))
}

func TestRunScenariosEndToEnd(t *testing.T) {
	for _, scenario := range []string{"hello_world", "cat", "wraparound", "left_bound"} {
		for _, name := range target.Names() {
			t.Run(scenario+"/"+name, func(t *testing.T) {
				requireToolchain(t, name)

				result, err := Run(context.Background(), loadTestScenario(t, scenario), Options{Targets: []string{name}})
				require.NoError(t, err)
				require.Len(t, result.Targets, 1)
				assert.False(t, result.Targets[0].Skipped)
				assert.True(t, result.Pass, "errors: %v", result.Errors())
			})
		}
	}
}

func TestRunReportsWrongStdout(t *testing.T) {
	requireToolchain(t, "rust")

	want := "nope"
	s := &Scenario{
		Name:        "wrong_stdout",
		Description: "d",
		Program:     "-.",
		Targets:     []string{"rust"},
		Expect:      Expect{Stdout: &want},
	}
	result, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []byte{0xff}, result.Targets[0].Stdout)
	assert.Contains(t, result.Errors()[0], `stdout: expected "nope", got "\xff"`)
}

func TestRunKeepsWorkDir(t *testing.T) {
	requireToolchain(t, "go")

	dir := t.TempDir()
	result, err := Run(context.Background(), loadTestScenario(t, "wraparound"), Options{
		Targets: []string{"go"},
		WorkDir: dir,
	})
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors())

	_, err = os.Stat(filepath.Join(dir, "wraparound", "go", "prog.go"))
	assert.NoError(t, err)
}
