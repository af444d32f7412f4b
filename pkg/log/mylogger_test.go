package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestConfigureMyLogger_WritesToFileAboveLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	require.NoError(t, ConfigureMyLogger(&MyLoggerOptions{Path: path, Level: "WARN"}))
	t.Cleanup(func() { _ = ConfigureMyLogger(&MyLoggerOptions{}) })

	Debug("hidden %d", 1)
	Warn("shown %d", 2)
	Error("always %d", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden 1")
	assert.Contains(t, content, "[WARN] shown 2")
	assert.Contains(t, content, "[ERROR] always 3")
	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelError))
}

func TestConfigureMyLogger_BadPath(t *testing.T) {
	err := ConfigureMyLogger(&MyLoggerOptions{Path: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.Error(t, err)
}
