package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quilt/internal/store"
)

func TestParseCommand_Text(t *testing.T) {
	path := writeTestFile(t, "bell.quil", bellSource)

	res := runCLI(t, "", "parse", path)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "✓ "+path)
	assert.Contains(t, res.stdout, "shots:                1")
	assert.Contains(t, res.stdout, "declarations:         ro")
	assert.Contains(t, res.stdout, "calibrations:         1")
	assert.Contains(t, res.stdout, "measure calibrations: 1")
	assert.Contains(t, res.stdout, "body instructions:    3")
}

func TestParseCommand_JSON(t *testing.T) {
	res := runCLI(t, bellSource, "--format", "json", "--shots", "1000", "parse", "-")
	require.NoError(t, res.err)

	status, summary, _ := decodeResponse[ProgramSummary](t, res.stdout)
	assert.Equal(t, "ok", status)
	assert.Equal(t, "-", summary.File)
	assert.Equal(t, uint64(1000), summary.NumShots)
	assert.Equal(t, []string{"ro"}, summary.Declarations)
	assert.Equal(t, 1, summary.Calibrations)
	assert.Equal(t, 1, summary.MeasureCalibrations)
	assert.Equal(t, 3, summary.BodyInstructions)
	assert.Len(t, summary.Hash, 64)
}

func TestParseCommand_FramesAndWaveforms(t *testing.T) {
	source := `DECLARE ro BIT
DEFFRAME 0 "ro_rx":
    DIRECTION: "rx"
DEFFRAME 0 "ro_tx"
DEFWAVEFORM ramp:
    0, 0.5, 1
DEFCAL MEASURE 0 addr:
    PULSE 0 "ro_tx" ramp
    CAPTURE 0 "ro_rx" boxcar_kernel(duration: 1e-6) addr
MEASURE 0 ro
`
	res := runCLI(t, source, "--format", "json", "parse", "-")
	require.NoError(t, res.err)

	_, summary, _ := decodeResponse[ProgramSummary](t, res.stdout)
	assert.Equal(t, 2, summary.Frames)
	assert.Equal(t, 1, summary.Waveforms)
	assert.Equal(t, 1, summary.MeasureCalibrations)
	assert.Equal(t, 1, summary.BodyInstructions)

	text := runCLI(t, source, "parse", "-")
	require.NoError(t, text.err)
	assert.Contains(t, text.stdout, "frames:               2")
	assert.Contains(t, text.stdout, "waveforms:            1")
}

func TestParseCommand_EmptyProgram(t *testing.T) {
	res := runCLI(t, "# nothing here\n", "parse", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "declarations:         (none)")
	assert.Contains(t, res.stdout, "body instructions:    0")
}

func TestParseCommand_ParseError(t *testing.T) {
	res := runCLI(t, "X 0\nH\n", "--format", "json", "parse", "-")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))

	status, _, cliErr := decodeResponse[any](t, res.stdout)
	assert.Equal(t, "error", status)
	require.NotNil(t, cliErr)
	assert.Equal(t, ErrCodeParse, cliErr.Code)
	assert.Equal(t, "-:2:2: gate H requires at least one qubit", cliErr.Message)

	details, ok := cliErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), details["line"])
	assert.Equal(t, float64(2), details["column"])
}

func TestParseCommand_ParseErrorText(t *testing.T) {
	res := runCLI(t, "H\n", "parse", "-")
	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error [E101]: -:1:2: gate H requires at least one qubit")
}

func TestParseCommand_MissingFile(t *testing.T) {
	res := runCLI(t, "", "parse", filepath.Join(t.TempDir(), "missing.quil"))
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), ErrCodeReadFailed)
}

func TestParseCommand_RequiresOneArg(t *testing.T) {
	res := runCLI(t, "", "parse")
	require.Error(t, res.err)
}

func TestFmtCommand_Stdout(t *testing.T) {
	path := writeTestFile(t, "bell.quil", bellSource)

	res := runCLI(t, "", "fmt", path)
	require.NoError(t, res.err)
	assert.Equal(t, bellCanonical, res.stdout)

	// Source is untouched without --write.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bellSource, string(data))
}

func TestFmtCommand_Idempotent(t *testing.T) {
	res := runCLI(t, bellCanonical, "--format", "json", "fmt", "-")
	require.NoError(t, res.err)

	_, formatted, _ := decodeResponse[FormattedProgram](t, res.stdout)
	assert.Equal(t, bellCanonical, formatted.Quil)
	assert.False(t, formatted.Changed)
}

func TestFmtCommand_Write(t *testing.T) {
	path := writeTestFile(t, "bell.quil", bellSource)

	res := runCLI(t, "", "fmt", "-w", path)
	require.NoError(t, res.err)
	assert.Equal(t, "formatted "+path+"\n", res.stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bellCanonical, string(data))

	// A second pass has nothing to change.
	res = runCLI(t, "", "fmt", "-w", path)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestFmtCommand_WriteRejectsStdin(t *testing.T) {
	res := runCLI(t, "H 0\n", "fmt", "-w", "-")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestCalibrationsCommand(t *testing.T) {
	res := runCLI(t, bellSource, "calibrations", "-")
	require.NoError(t, res.err)
	assert.Equal(t,
		"DEFCAL RX(pi / 2) 0:\n    SHIFT-PHASE 0 \"rf\" (-pi) / 2\n"+
			"DEFCAL MEASURE 0 addr:\n    PULSE 0 \"ro_tx\" flat(duration: 2e-06, iq: 1)\n",
		res.stdout)
}

func TestCalibrationsCommand_JSON(t *testing.T) {
	res := runCLI(t, bellSource, "--format", "json", "calibrations", "-")
	require.NoError(t, res.err)

	_, cals, _ := decodeResponse[[]store.CalibrationRecord](t, res.stdout)
	require.Len(t, cals, 2)
	assert.Equal(t, store.KindGate, cals[0].Kind)
	assert.Equal(t, "RX", cals[0].Name)
	assert.Equal(t, []string{"0"}, cals[0].Qubits)
	assert.Equal(t, 1, cals[0].ParameterCount)
	assert.Equal(t, store.KindMeasure, cals[1].Kind)
	assert.Equal(t, 1, cals[1].Position)
}

func TestCalibrationsCommand_None(t *testing.T) {
	res := runCLI(t, "H 0\n", "calibrations", "-")
	require.NoError(t, res.err)
	assert.Equal(t, "No calibrations defined\n", res.stdout)
}
