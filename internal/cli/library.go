package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quilt/internal/store"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Name string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Store a program in the library",
		Long: `Parse a Quil-T program and store it in the program library.

The program is stored in canonical form under --name, which defaults to
the file name without its extension. Saving under an existing name adds a
new record; load returns the most recent one.

Examples:
  quilt save bell.quil
  quilt save --store ./programs.db --name bell-v2 bell.quil`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "library name (default: file name without extension)")

	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command, path string) error {
	f := opts.formatter(cmd)

	name := opts.Name
	if name == "" {
		if path == stdinPath {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "--name is required when reading stdin", nil)
		}
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	p, err := opts.loadProgram(cmd, f, path)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening library: %v", err), nil)
	}
	defer st.Close()

	rec, err := st.SaveProgram(cmdContext(cmd), name, p)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("saving program: %v", err), nil)
	}

	return f.Success(rec.ProgramInfo, func(w io.Writer) {
		fmt.Fprintf(w, "✓ saved %s as %s (seq %d)\n", rec.Name, rec.ID, rec.Seq)
	})
}

// LoadedProgram is the JSON payload of load.
type LoadedProgram struct {
	store.ProgramInfo
	Quil string `json:"quil"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name|id>",
		Short: "Print a program from the library",
		Long: `Print a stored program in canonical form.

The argument is matched against record ids first, then against names; a
name resolves to its most recently saved record.

Examples:
  quilt load bell
  quilt load --format json 0190f7c2-8d4e-7a31-b5a6-1c2d3e4f5a6b`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, cmd, args[0])
		},
	}
}

func runLoad(opts *RootOptions, cmd *cobra.Command, ref string) error {
	f := opts.formatter(cmd)
	ctx := cmdContext(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening library: %v", err), nil)
	}
	defer st.Close()

	rec, err := st.LoadProgram(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		rec, err = st.LoadProgramByName(ctx, ref)
	}
	if errors.Is(err, store.ErrNotFound) {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no program named or identified by %q", ref), nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("loading program: %v", err), nil)
	}

	quil := rec.Program.String()
	f.VerboseLog("Loaded %s (%s, seq %d)", rec.Name, rec.ID, rec.Seq)
	return f.Success(LoadedProgram{ProgramInfo: rec.ProgramInfo, Quil: quil}, func(w io.Writer) {
		io.WriteString(w, quil)
	})
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored programs",
		Long: `List every program in the library in the order it was saved.

Examples:
  quilt list
  quilt list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			st, err := rootOpts.openStore()
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening library: %v", err), nil)
			}
			defer st.Close()

			programs, err := st.ListPrograms(cmdContext(cmd))
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("listing programs: %v", err), nil)
			}
			return f.Success(programs, func(w io.Writer) { writeProgramList(w, programs) })
		},
	}
}

func writeProgramList(w io.Writer, programs []store.ProgramInfo) {
	if len(programs) == 0 {
		fmt.Fprintln(w, "No programs stored")
		return
	}
	fmt.Fprintf(w, "%-5s %-36s %-20s %-8s %s\n", "SEQ", "ID", "NAME", "SHOTS", "HASH")
	for _, p := range programs {
		fmt.Fprintf(w, "%-5d %-36s %-20s %-8d %.12s\n", p.Seq, p.ID, p.Name, p.NumShots, p.ContentHash)
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <gate>",
		Short: "Search stored calibrations by gate name",
		Long: `Search the calibration index of the library for a gate name.

Measure calibrations are indexed under MEASURE.

Examples:
  quilt find RX
  quilt find MEASURE --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			st, err := rootOpts.openStore()
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening library: %v", err), nil)
			}
			defer st.Close()

			cals, err := st.FindCalibrations(cmdContext(cmd), args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("searching calibrations: %v", err), nil)
			}
			return f.Success(cals, func(w io.Writer) { writeCalibrations(w, cals) })
		},
	}
}

// NewRmCommand creates the rm command.
func NewRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a stored program",
		Long: `Remove a program record and its calibration index entries.

Examples:
  quilt rm 0190f7c2-8d4e-7a31-b5a6-1c2d3e4f5a6b`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			st, err := rootOpts.openStore()
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening library: %v", err), nil)
			}
			defer st.Close()

			err = st.DeleteProgram(cmdContext(cmd), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no program with id %q", args[0]), nil)
			}
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("removing program: %v", err), nil)
			}
			return f.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "✓ removed %s\n", args[0])
			})
		},
	}
}

// cmdContext returns the command's context, or Background when run
// without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
