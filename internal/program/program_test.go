package program

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/parser"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func mustParse(t *testing.T, text string, opts ...Option) *Program {
	t.Helper()
	p, err := Parse(text, opts...)
	require.NoError(t, err)
	return p
}

func TestNewProgramDefaults(t *testing.T) {
	p := New()

	assert.Equal(t, uint64(1), p.NumShots)
	assert.Empty(t, p.Declarations())
	assert.Empty(t, p.Instructions())
	assert.Empty(t, p.Calibrations())
	assert.Empty(t, p.MeasureCalibrations())
	assert.Equal(t, "", p.String())
}

func TestParseEmptyText(t *testing.T) {
	p := mustParse(t, "")

	assert.Empty(t, p.Declarations())
	assert.Empty(t, p.Instructions())
	assert.Equal(t, uint64(1), p.NumShots)
}

func TestWithNumShots(t *testing.T) {
	p := mustParse(t, "H 0", WithNumShots(1000))
	assert.Equal(t, uint64(1000), p.NumShots)

	p.NumShots = 5
	assert.Equal(t, uint64(5), p.Clone().NumShots)
}

func TestFromInstruction(t *testing.T) {
	gate := &ir.Gate{Name: "H", Qubits: []ir.Qubit{ir.FixedQubit(0)}}
	p := FromInstruction(gate)

	assert.Equal(t, []ir.Instruction{gate}, p.Instructions())

	// The program holds its own copy.
	gate.Name = "X"
	assert.Equal(t, "H 0\n", p.String())
}

func TestFromInstructionDeclaration(t *testing.T) {
	decl := ir.NewDeclaration("ro", ir.Vector{DataType: ir.ScalarBit, Length: 1}, nil)
	p := FromInstruction(decl)

	assert.Equal(t, []ir.Instruction{decl}, p.Instructions())
	assert.Equal(t, map[string]*ir.Declaration{"ro": decl}, p.Declarations())
	assert.Empty(t, p.BodyInstructions())
}

func TestDeclarationsHoisted(t *testing.T) {
	p := mustParse(t, "H 0\nDECLARE ro BIT[2]\nCNOT 0 1\nDECLARE theta REAL\nMEASURE 0 ro[0]")

	instrs := p.Instructions()
	require.Len(t, instrs, len(p.Declarations())+len(p.BodyInstructions()))
	require.Len(t, instrs, 5)

	assert.IsType(t, &ir.Declaration{}, instrs[0])
	assert.IsType(t, &ir.Declaration{}, instrs[1])
	assert.Equal(t, "DECLARE ro BIT[2]", instrs[0].String())
	assert.Equal(t, "DECLARE theta REAL[1]", instrs[1].String())
	for _, instr := range instrs[2:] {
		_, isDecl := instr.(*ir.Declaration)
		assert.False(t, isDecl, "declaration after body: %s", instr)
	}
	assert.Equal(t, []string{"ro", "theta"}, p.DeclarationNames())
}

func TestRedeclarationReplacesInPlace(t *testing.T) {
	p := mustParse(t, "DECLARE a BIT\nDECLARE b BIT\nDECLARE a REAL[3]")

	assert.Equal(t, []string{"a", "b"}, p.DeclarationNames())
	assert.Equal(t, "DECLARE a REAL[3]", p.Declarations()["a"].String())
	assert.Len(t, p.Instructions(), 2)
}

func TestCalibrationsRoutedToCatalog(t *testing.T) {
	p := mustParse(t, readFixture(t, "calibrated.quil"))

	cals := p.Calibrations()
	require.Len(t, cals, 1)
	assert.Equal(t, "RX", cals[0].Name())

	mcals := p.MeasureCalibrations()
	require.Len(t, mcals, 1)
	assert.Equal(t, ir.FixedQubit(0), mcals[0].Qubit())
	assert.Equal(t, "addr", mcals[0].Parameter())

	// Calibrations are neither declarations nor body.
	assert.Len(t, p.Instructions(), 6)
	assert.Equal(t, 2, p.CalibrationSet().Len())
}

func TestCalibrationSnapshotsStable(t *testing.T) {
	p := mustParse(t, readFixture(t, "calibrated.quil"))

	first := p.Calibrations()
	second := p.Calibrations()
	assert.Equal(t, first, second)

	first[0].SetQubits([]ir.Qubit{})
	first[0].SetInstructions(nil)
	assert.Equal(t, second, p.Calibrations())

	mfirst := p.MeasureCalibrations()
	mfirst[0].SetQubit(nil)
	assert.Equal(t, ir.FixedQubit(0), p.MeasureCalibrations()[0].Qubit())
}

func TestViewsAreCopies(t *testing.T) {
	p := mustParse(t, "DECLARE ro BIT\nRX(1) 0")

	decls := p.Declarations()
	decls["ro"].Size.Length = 99
	delete(decls, "ro")

	instrs := p.Instructions()
	instrs[1].(*ir.Gate).Qubits[0] = ir.FixedQubit(7)

	body := p.BodyInstructions()
	body[0].(*ir.Gate).Name = "RY"

	names := p.DeclarationNames()
	names[0] = "zz"

	assert.Equal(t, "DECLARE ro BIT[1]\nRX(1) 0\n", p.String())
}

func TestCloneIndependence(t *testing.T) {
	p := mustParse(t, readFixture(t, "calibrated.quil"), WithNumShots(10))
	c := p.Clone()

	assert.Equal(t, p.String(), c.String())
	assert.Equal(t, p.NumShots, c.NumShots)

	c.AddInstruction(&ir.Halt{})
	c.AddInstruction(ir.NewDeclaration("extra", ir.Vector{DataType: ir.ScalarInteger, Length: 1}, nil))
	c.AddInstruction(ir.MustCalibration("X", nil, []ir.Qubit{ir.FixedQubit(0)}, nil))
	c.NumShots = 1

	assert.Len(t, p.Instructions(), 6)
	assert.Len(t, p.Calibrations(), 1)
	assert.NotContains(t, p.DeclarationNames(), "extra")
	assert.Equal(t, uint64(10), p.NumShots)
}

func TestFrameAndWaveformDefinitionsHoisted(t *testing.T) {
	p := mustParse(t, readFixture(t, "readout.quil"))

	frames := p.FrameDefinitions()
	require.Len(t, frames, 3)
	assert.Equal(t, `0 "rf"`, frames[0].Frame.String())
	assert.Equal(t, `0 "ro_rx"`, frames[1].Frame.String())
	assert.Equal(t, `0 1 "cz"`, frames[2].Frame.String())
	assert.Empty(t, frames[2].Attributes)

	direction, ok := frames[0].Attribute("DIRECTION")
	require.True(t, ok)
	assert.Equal(t, ir.TextAttribute("tx"), direction)
	rate, ok := frames[0].Attribute("SAMPLE-RATE")
	require.True(t, ok)
	assert.Equal(t, ir.ExpressionAttribute(ir.NewNumber(1e9)), rate)

	waveforms := p.WaveformDefinitions()
	require.Len(t, waveforms, 1)
	assert.Equal(t, "ramp", waveforms[0].Name)
	assert.Equal(t, []string{"scale"}, waveforms[0].Parameters)
	assert.Len(t, waveforms[0].Samples, 3)

	// Definitions are neither declarations nor body.
	assert.Len(t, p.Instructions(), 3)
	assert.Len(t, p.BodyInstructions(), 2)
}

func TestFrameRedefinitionReplacesInPlace(t *testing.T) {
	p := mustParse(t, `DEFFRAME 0 "rf"
DEFFRAME 1 "rf"
DEFFRAME 0 "rf":
    SAMPLE-RATE: 2e9
DEFWAVEFORM w:
    1
DEFWAVEFORM w:
    2, 3
`)

	frames := p.FrameDefinitions()
	require.Len(t, frames, 2)
	assert.Equal(t, "DEFFRAME 0 \"rf\":\n    SAMPLE-RATE: 2e+09", frames[0].String())
	assert.Equal(t, `DEFFRAME 1 "rf"`, frames[1].String())

	waveforms := p.WaveformDefinitions()
	require.Len(t, waveforms, 1)
	assert.Equal(t, []ir.Expression{ir.NewNumber(2), ir.NewNumber(3)}, waveforms[0].Samples)
}

func TestDefinitionSnapshotsAreCopies(t *testing.T) {
	p := mustParse(t, readFixture(t, "readout.quil"))
	before := p.String()

	frames := p.FrameDefinitions()
	frames[0].Attributes[0].Name = "CHANGED"
	frames[0].Frame.Qubits[0] = ir.FixedQubit(9)

	waveforms := p.WaveformDefinitions()
	waveforms[0].Samples[0] = ir.NewNumber(42)
	waveforms[0].Parameters[0] = "other"

	c := p.Clone()
	c.AddInstruction(&ir.FrameDefinition{Frame: ir.FrameIdentifier{Qubits: []ir.Qubit{ir.FixedQubit(5)}, Name: "xy"}})

	assert.Equal(t, before, p.String())
	assert.Len(t, p.FrameDefinitions(), 3)
	assert.Len(t, c.FrameDefinitions(), 4)
}

// Programs built through the API render text that parses back to the same
// program, including constant subexpressions the parser folds.
func TestConstructedProgramReparses(t *testing.T) {
	p := FromInstructions([]ir.Instruction{
		&ir.Gate{
			Name:       "RX",
			Parameters: []ir.Expression{ir.NewInfix(ir.NewNumber(1), ir.InfixPlus, ir.NewNumber(2))},
			Qubits:     []ir.Qubit{ir.FixedQubit(0)},
		},
		&ir.Gate{
			Name: "RZ",
			Parameters: []ir.Expression{ir.NewInfix(
				ir.Prefix{Operator: ir.PrefixMinus, Operand: ir.NewNumber(2)},
				ir.InfixStar,
				ir.NewVariable("theta"),
			)},
			Qubits: []ir.Qubit{ir.FixedQubit(1)},
		},
		&ir.Delay{Qubits: []ir.Qubit{ir.FixedQubit(0), ir.FixedQubit(1)}, Duration: ir.NewNumber(-1)},
	})

	assert.Equal(t, "RX(3) 0\nRZ((-2) * %theta) 1\nDELAY 0 1 (-1)\n", p.String())

	reparsed := mustParse(t, p.String())
	assert.Equal(t, p.String(), reparsed.String())
	assert.Equal(t, p.Hash(), reparsed.Hash())
}

func TestParseErrorWrapsParserError(t *testing.T) {
	p, err := Parse("H 0\nRX(1 0")
	require.Error(t, err)
	assert.Nil(t, p)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))

	var inner *parser.ParseError
	require.True(t, errors.As(err, &inner))
	assert.Equal(t, 2, inner.Line)
	assert.Equal(t, "Failed to parse Quil program: line 2, col 6: expected ')' after parameters (got INT \"0\")", err.Error())
}

func TestParseRejectsPartialPrograms(t *testing.T) {
	_, err := Parse("DECLARE ro BIT\nH 0\nNOT-A-GATE")
	assert.Error(t, err)
}

func TestGoldenRender(t *testing.T) {
	for _, name := range []string{"calibrated", "parametric", "readout"} {
		t.Run(name, func(t *testing.T) {
			p := mustParse(t, readFixture(t, name+".quil"))

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, []byte(p.String()))
		})
	}
}

// Rendering then reparsing yields an equal program.
func TestRenderReparse(t *testing.T) {
	for _, name := range []string{"calibrated.quil", "parametric.quil", "readout.quil"} {
		t.Run(name, func(t *testing.T) {
			first := mustParse(t, readFixture(t, name))
			second := mustParse(t, first.String())

			assert.Equal(t, first.String(), second.String())
			assert.Equal(t, first.Instructions(), second.Instructions())
			assert.Equal(t, first.Calibrations(), second.Calibrations())
			assert.Equal(t, first.MeasureCalibrations(), second.MeasureCalibrations())
			assert.Equal(t, first.FrameDefinitions(), second.FrameDefinitions())
			assert.Equal(t, first.WaveformDefinitions(), second.WaveformDefinitions())
			assert.Equal(t, first.Hash(), second.Hash())
		})
	}
}

func TestHash(t *testing.T) {
	a := mustParse(t, "H 0\nCNOT 0 1", WithNumShots(1))
	b := mustParse(t, "# same program\nH 0;   CNOT 0 1\n", WithNumShots(100))
	c := mustParse(t, "H 1\nCNOT 0 1")

	assert.Len(t, a.Hash(), 64)
	assert.Equal(t, a.Hash(), b.Hash(), "formatting and shots do not change identity")
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Equal(t, hashWithDomain(DomainProgram, []byte("H 0\nCNOT 0 1\n")), a.Hash())
}

func TestHashNormalizesUnicode(t *testing.T) {
	// Precomposed "é" versus "e" followed by a combining acute accent.
	composed := FromInstruction(&ir.Pragma{Name: "NOTE", Data: "caf\u00e9"})
	decomposed := FromInstruction(&ir.Pragma{Name: "NOTE", Data: "cafe\u0301"})

	assert.NotEqual(t, composed.String(), decomposed.String())
	assert.Equal(t, composed.Hash(), decomposed.Hash())
}
