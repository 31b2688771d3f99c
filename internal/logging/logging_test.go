package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/config"
)

func TestSetupFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmlens.log")
	logger, closer, err := Setup(config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("scan complete", "files", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan complete")
	assert.Contains(t, string(data), "files=3")
}

func TestSetupLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmlens.log")
	logger, closer, err := Setup(config.LoggingConfig{Level: "warn", File: path})
	require.NoError(t, err)
	defer closer.Close()

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, _, err := Setup(config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)
}
