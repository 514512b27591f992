package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bfc/internal/testutil"
)

// executeCommand runs cmd with args and captures both streams.
func executeCommand(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// helloSource writes the hello world program into a fresh temp dir.
func helloSource(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "hello.bf", testutil.HelloWorld)
}

// readGolden returns a generated program pinned by the compiler package.
func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "compiler", "testdata", "golden", name+".golden"))
	require.NoError(t, err)
	return string(data)
}

// buildResponse is CLIResponse with a typed payload.
type buildResponse struct {
	Status string      `json:"status"`
	Data   BuildResult `json:"data"`
	Error  *CLIError   `json:"error"`
}

func decodeBuildResponse(t *testing.T, out string) buildResponse {
	t.Helper()
	var resp buildResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}
