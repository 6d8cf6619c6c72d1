package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quilt/internal/program"
	"github.com/roach88/quilt/internal/store"
)

// ProgramSummary describes a parsed program.
type ProgramSummary struct {
	File                string   `json:"file"`
	NumShots            uint64   `json:"numShots"`
	Hash                string   `json:"hash"`
	Declarations        []string `json:"declarations"`
	Frames              int      `json:"frames"`
	Waveforms           int      `json:"waveforms"`
	Calibrations        int      `json:"calibrations"`
	MeasureCalibrations int      `json:"measureCalibrations"`
	BodyInstructions    int      `json:"bodyInstructions"`
}

func summarize(file string, p *program.Program) ProgramSummary {
	return ProgramSummary{
		File:                file,
		NumShots:            p.NumShots,
		Hash:                p.Hash(),
		Declarations:        p.DeclarationNames(),
		Frames:              len(p.FrameDefinitions()),
		Waveforms:           len(p.WaveformDefinitions()),
		Calibrations:        len(p.Calibrations()),
		MeasureCalibrations: len(p.MeasureCalibrations()),
		BodyInstructions:    len(p.BodyInstructions()),
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a program and summarize it",
		Long: `Parse a Quil-T program and print a summary of its contents.

Exits with code 1 and the error position when the program does not parse.

Examples:
  quilt parse bell.quil
  quilt parse --format json --shots 1000 bell.quil
  cat bell.quil | quilt parse -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			p, err := rootOpts.loadProgram(cmd, f, args[0])
			if err != nil {
				return err
			}
			summary := summarize(args[0], p)
			return f.Success(summary, func(w io.Writer) { writeSummary(w, summary) })
		},
	}
}

func writeSummary(w io.Writer, s ProgramSummary) {
	decls := "(none)"
	if len(s.Declarations) > 0 {
		decls = strings.Join(s.Declarations, ", ")
	}
	fmt.Fprintf(w, "✓ %s\n", s.File)
	fmt.Fprintf(w, "  shots:                %d\n", s.NumShots)
	fmt.Fprintf(w, "  hash:                 %s\n", s.Hash)
	fmt.Fprintf(w, "  declarations:         %s\n", decls)
	fmt.Fprintf(w, "  frames:               %d\n", s.Frames)
	fmt.Fprintf(w, "  waveforms:            %d\n", s.Waveforms)
	fmt.Fprintf(w, "  calibrations:         %d\n", s.Calibrations)
	fmt.Fprintf(w, "  measure calibrations: %d\n", s.MeasureCalibrations)
	fmt.Fprintf(w, "  body instructions:    %d\n", s.BodyInstructions)
}

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Write bool
}

// FormattedProgram is the JSON payload of fmt.
type FormattedProgram struct {
	File    string `json:"file"`
	Quil    string `json:"quil"`
	Changed bool   `json:"changed"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a program in canonical form",
		Long: `Print a Quil-T program in canonical form.

Declarations are hoisted to the top, followed by calibrations, measure
calibrations and the program body. Comments are dropped.

Examples:
  quilt fmt bell.quil
  quilt fmt -w bell.quil`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "write result to the source file instead of stdout")

	return cmd
}

func runFmt(opts *FmtOptions, cmd *cobra.Command, path string) error {
	f := opts.formatter(cmd)
	if opts.Write && path == stdinPath {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "cannot use --write with stdin", nil)
	}

	source, err := readSource(cmd, path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err), nil)
	}
	p, err := opts.parseSource(f, path, source)
	if err != nil {
		return err
	}

	quil := p.String()
	result := FormattedProgram{File: path, Quil: quil, Changed: quil != source}

	if opts.Write {
		if result.Changed {
			if err := os.WriteFile(path, []byte(quil), 0o644); err != nil {
				return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", path, err), nil)
			}
		}
		return f.Success(result, func(w io.Writer) {
			if result.Changed {
				fmt.Fprintf(w, "formatted %s\n", path)
			}
		})
	}

	return f.Success(result, func(w io.Writer) { io.WriteString(w, quil) })
}

// NewCalibrationsCommand creates the calibrations command.
func NewCalibrationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calibrations <file>",
		Short: "List the calibrations a program defines",
		Long: `List the gate and measure calibrations defined by a Quil-T program,
in definition order.

Examples:
  quilt calibrations bell.quil
  quilt calibrations --format json bell.quil`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			p, err := rootOpts.loadProgram(cmd, f, args[0])
			if err != nil {
				return err
			}
			cals := store.IndexCalibrations(p)
			return f.Success(cals, func(w io.Writer) { writeCalibrations(w, cals) })
		},
	}
}

func writeCalibrations(w io.Writer, cals []store.CalibrationRecord) {
	if len(cals) == 0 {
		fmt.Fprintln(w, "No calibrations defined")
		return
	}
	for _, c := range cals {
		if c.ProgramName != "" {
			fmt.Fprintf(w, "# %s (%s) position %d\n", c.ProgramName, c.ProgramID, c.Position)
		}
		fmt.Fprintln(w, c.Quil)
	}
}
