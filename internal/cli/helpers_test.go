package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const bellSource = `# Bell pair
H 0
CNOT 0 1
DECLARE ro BIT[2]
DEFCAL RX(pi/2) 0:
    SHIFT-PHASE 0 "rf" -pi/2
DEFCAL MEASURE 0 addr:
    PULSE 0 "ro_tx" flat(duration: 2e-06, iq: 1)
MEASURE 0 ro[0]
`

const bellCanonical = `DECLARE ro BIT[2]
DEFCAL RX(pi / 2) 0:
    SHIFT-PHASE 0 "rf" (-pi) / 2
DEFCAL MEASURE 0 addr:
    PULSE 0 "ro_tx" flat(duration: 2e-06, iq: 1)
H 0
CNOT 0 1
MEASURE 0 ro[0]
`

// cmdResult captures one CLI invocation.
type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args and optional stdin.
func runCLI(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cmdResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// writeTestFile writes content under a fresh temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// decodeResponse decodes a JSON envelope with a typed payload.
func decodeResponse[T any](t *testing.T, stdout string) (string, T, *CLIError) {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   T         `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp.Status, resp.Data, resp.Error
}
