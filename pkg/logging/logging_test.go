package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ddieppa/mdagg/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetupWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "mdagg.log")

	logger, err := logging.Setup(logging.Options{
		LogFile:    logFile,
		Verbose:    true,
		AppName:    "mdagg",
		AppVersion: "1.2.3",
		RunID:      "run-1",
	})
	require.NoError(t, err)
	assert.Same(t, logger, logging.Logger)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "mdagg", entry["appName"])
	assert.Equal(t, "1.2.3", entry["appVersion"])
	assert.Equal(t, "run-1", entry["runID"])
}

func TestSetupDebugLevel(t *testing.T) {
	logger, err := logging.Setup(logging.Options{Debug: true, AppName: "mdagg"})
	require.NoError(t, err)
	assert.NotNil(t, logger.Check(zapcore.DebugLevel, "debug"))

	logger, err = logging.Setup(logging.Options{AppName: "mdagg", Verbose: true})
	require.NoError(t, err)
	assert.Nil(t, logger.Check(zapcore.DebugLevel, "debug"))
	assert.NotNil(t, logger.Check(zapcore.InfoLevel, "info"))

	logger, err = logging.Setup(logging.Options{AppName: "mdagg"})
	require.NoError(t, err)
	assert.Nil(t, logger.Check(zapcore.InfoLevel, "info"))
	assert.NotNil(t, logger.Check(zapcore.WarnLevel, "warn"))
}

func TestSetupBadLogFile(t *testing.T) {
	logger, err := logging.Setup(logging.Options{LogFile: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.Error(t, err)
	assert.NotNil(t, logger)
}
