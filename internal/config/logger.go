package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. With a log path it writes to a
// rotating file; otherwise it writes to stderr, in development format when
// Debug is set. The returned closer flushes the file writer.
func NewLogger(c LogConfig) (*zap.Logger, io.Closer, error) {
	if c.Path != "" {
		logger, closer, err := newRotatingFileLogger(c)
		return logger, closer, errors.Wrap(err, "create logger")
	}

	var logger *zap.Logger
	var err error
	if c.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	return logger, io.NopCloser(nil), errors.Wrap(err, "create logger")
}

func newRotatingFileLogger(c LogConfig) (*zap.Logger, io.Closer, error) {
	if err := os.MkdirAll(c.Path, 0o755); err != nil {
		return nil, nil, err
	}

	filename := c.Filename
	if filename == "" {
		filename = "quilt.log"
	}

	rot := &lumberjack.Logger{
		Filename:   filepath.Join(c.Path, filename),
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if c.Debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc := zapcore.NewConsoleEncoder(encCfg)

	core := zapcore.NewCore(enc, zapcore.AddSync(rot), level)
	logger := zap.New(core, zap.AddCaller())

	return logger, rot, nil
}
