package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerStderr(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, closer, err := NewLogger(LogConfig{Debug: debug})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.NoError(t, closer.Close())
	}
}

func TestNewLoggerRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := Default().Log
	cfg.Path = dir
	cfg.Debug = true

	logger, closer, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Debug("program parsed")
	_ = logger.Sync()
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "quilt.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "program parsed")
}
