package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "showroom.log")

	logger, err := New(path, "debug")
	require.NoError(t, err)
	logger.Debug("catalog loaded", zap.Int("products", 3))
	_ = logger.Sync()

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(bytes), `"msg":"catalog loaded"`)
	assert.Contains(t, string(bytes), `"products":3`)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showroom.log")

	logger, err := New(path, "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(bytes), "hidden")
	assert.Contains(t, string(bytes), "shown")
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New("  ", "info")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)
}
