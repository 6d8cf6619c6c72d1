package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/quilt/internal/config"
	"github.com/roach88/quilt/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	StorePath  string
	Shots      uint64

	config    *config.Config
	logger    *zap.Logger
	logCloser io.Closer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quilt CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quilt",
		Short: "quilt - Quil-T program tooling",
		Long: `Parse, format and inspect Quil-T programs and keep a library of them.

Programs are read from files (or stdin with "-"), validated by the parser and
rendered back in canonical form. The library stores programs in SQLite and
indexes their calibrations by gate name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .yml or .cue)")
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "program library database (overrides config)")
	cmd.PersistentFlags().Uint64Var(&opts.Shots, "shots", 0, "shot count for parsed programs (overrides config)")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewCalibrationsCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewRmCommand(opts))

	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("failed to load config: %v", err), nil)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StorePath = o.StorePath
	}
	if flags.Changed("shots") {
		if o.Shots == 0 {
			return NewExitError(ExitCommandError, "--shots must be at least 1")
		}
		cfg.NumShots = o.Shots
	}
	if o.Verbose {
		cfg.Log.Debug = true
	}
	o.config = cfg

	// Stay quiet unless asked: no log file configured and not verbose.
	if cfg.Log.Path == "" && !o.Verbose {
		o.logger = zap.NewNop()
		o.logCloser = io.NopCloser(nil)
		return nil
	}

	logger, closer, err := config.NewLogger(cfg.Log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create logger", err)
	}
	o.logger = logger
	o.logCloser = closer
	o.logger.Debug("configuration loaded",
		zap.String("config", o.ConfigPath),
		zap.String("store", cfg.StorePath),
		zap.Uint64("shots", cfg.NumShots),
	)
	return nil
}

func (o *RootOptions) teardown() error {
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	if o.logCloser != nil {
		return o.logCloser.Close()
	}
	return nil
}

// Config returns the effective configuration after flag overrides.
func (o *RootOptions) Config() *config.Config {
	return o.config
}

// Logger returns the command logger; never nil after setup.
func (o *RootOptions) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openStore opens the configured program library.
func (o *RootOptions) openStore() (*store.Store, error) {
	return store.Open(o.config.StorePath, o.Logger(), o.config.CacheSize)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
