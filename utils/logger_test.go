package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerCreatesDatedFiles(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() {
		InfoLogger, ErrorLogger, DebugLogger = nil, nil, nil
		_ = os.Chdir(wd)
	}()

	require.NoError(t, InitLogger())

	LogInfo("User logged in successfully: %d", 42)
	LogError("Checkout failed for user ID: %d: insufficient balance", 42)

	day := time.Now().Format("2006-01-02")

	info, err := os.ReadFile(filepath.Join("logs", "info-"+day+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "INFO: ")
	assert.Contains(t, string(info), "User logged in successfully: 42")

	errLog, err := os.ReadFile(filepath.Join("logs", "error-"+day+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "ERROR: ")
	assert.Contains(t, string(errLog), "Checkout failed for user ID: 42")
}

func TestLogHelpersTolerateUninitializedLoggers(t *testing.T) {
	InfoLogger, ErrorLogger, DebugLogger = nil, nil, nil

	assert.NotPanics(t, func() {
		LogInfo("boot")
		LogError("boot")
		LogDebug("boot")
	})
}
