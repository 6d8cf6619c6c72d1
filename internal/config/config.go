// Package config loads quilt configuration from YAML or CUE files.
//
// Both formats are unified with the embedded CUE schema (schema.cue) before
// decoding, so a config file only needs to name the fields it overrides and
// every value is range checked the same way regardless of format.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the resolved quilt configuration.
type Config struct {
	NumShots  uint64    `json:"numShots" yaml:"numShots"`
	StorePath string    `json:"storePath" yaml:"storePath"`
	CacheSize int       `json:"cacheSize" yaml:"cacheSize"`
	Log       LogConfig `json:"log" yaml:"log"`
}

// LogConfig controls logger construction. An empty Path logs to stderr;
// otherwise logs rotate under Path.
type LogConfig struct {
	Debug      bool   `json:"debug" yaml:"debug"`
	Path       string `json:"path" yaml:"path"`
	Filename   string `json:"filename" yaml:"filename"`
	MaxSize    int    `json:"maxSize" yaml:"maxSize"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAge     int    `json:"maxAge" yaml:"maxAge"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

// Default returns the configuration used when no file is given.
// It matches the defaults declared in schema.cue.
func Default() *Config {
	return &Config{
		NumShots:  1,
		StorePath: "quilt.db",
		CacheSize: 128,
		Log: LogConfig{
			Filename:   "quilt.log",
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		},
	}
}

// ConfigError reports a configuration value rejected by the schema.
type ConfigError struct {
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Load reads and validates a config file. The format is chosen by
// extension: .cue, or .yaml / .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return ParseCUE(path, data)
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	default:
		return nil, errors.Errorf("unsupported config format %q (want .cue, .yaml or .yml)", ext)
	}
}

// ParseCUE validates CUE config source. filename is used in error positions.
func ParseCUE(filename string, data []byte) (*Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, errors.Wrap(formatCUEError(err), "compile config")
	}
	return decode(ctx, v)
}

// ParseYAML validates YAML config source. An empty document yields the
// defaults.
func ParseYAML(filename string, data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	v := ctx.Encode(raw)
	if err := v.Err(); err != nil {
		return nil, errors.Wrap(formatCUEError(err), "encode config")
	}
	return decode(ctx, v)
}

// decode unifies v with #Config and decodes the result.
func decode(ctx *cue.Context, v cue.Value) (*Config, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, "compile config schema")
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Wrap(formatCUEError(err), "validate config")
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, errors.Wrap(formatCUEError(err), "decode config")
	}
	return &cfg, nil
}

// formatCUEError converts CUE errors to ConfigError with position info.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &ConfigError{
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &ConfigError{Message: firstErr.Error()}
}
