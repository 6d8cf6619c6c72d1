package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/quilt/internal/parser"
	"github.com/roach88/quilt/internal/program"
)

// stdinPath names standard input as a program source.
const stdinPath = "-"

// ParseErrorDetails locates a parse error in its source.
type ParseErrorDetails struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// readSource reads program text from path, or from stdin for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// loadProgram reads and parses the program at path with the configured
// shot count. Failures are reported through f and returned as ExitErrors.
func (o *RootOptions) loadProgram(cmd *cobra.Command, f *OutputFormatter, path string) (*program.Program, error) {
	text, err := readSource(cmd, path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err), nil)
	}

	return o.parseSource(f, path, text)
}

// parseSource parses already-read program text.
func (o *RootOptions) parseSource(f *OutputFormatter, path, text string) (*program.Program, error) {
	p, err := program.Parse(text, program.WithNumShots(o.config.NumShots))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			o.Logger().Debug("parse failed",
				zap.String("file", path),
				zap.Int("line", perr.Line),
				zap.Int("column", perr.Column),
				zap.String("message", perr.Message),
			)
			return nil, f.Fail(ExitFailure, ErrCodeParse,
				fmt.Sprintf("%s:%d:%d: %s", path, perr.Line, perr.Column, perr.Message),
				ParseErrorDetails{File: path, Line: perr.Line, Column: perr.Column})
		}
		return nil, f.Fail(ExitFailure, ErrCodeParse, err.Error(), nil)
	}

	f.VerboseLog("Parsed %s (%d instructions)", path, len(p.Instructions()))
	return p, nil
}
