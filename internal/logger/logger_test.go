package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/namedsem/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	err := logger.InitLogger("loud", "")
	assert.Error(t, err)
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, logger.InitLogger("info", dir))
	t.Cleanup(logger.MockLogger)

	logger.Info("hello", zap.String("name", "/jobs"))
	logger.Debug("filtered")
	logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "semctl.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"name":"/jobs"`)
	assert.NotContains(t, string(data), "filtered")
}

func TestInitCore(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger.Init(core)
	t.Cleanup(logger.MockLogger)

	logger.Info("skipped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}
