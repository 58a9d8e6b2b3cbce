package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "debug", OutputPath: path})
	require.NoError(t, err)

	log.Debug("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", Encoding: "xml", OutputPath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
