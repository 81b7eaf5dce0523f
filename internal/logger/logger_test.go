package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.RLock()
	original := output
	mu.RUnlock()
	level := Level(currentLevel.Load())
	format, _ := currentFormat.Load().(string)

	InitWithWriter(buf, "", "")
	t.Cleanup(func() {
		currentLevel.Store(int32(level))
		currentFormat.Store(format)
		InitWithWriter(original, "", "")
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "debug message")
		assert.Contains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("WarnLevelHidesDebugAndInfo", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("warn")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.False(t, Enabled(LevelInfo))
		assert.True(t, Enabled(LevelError))
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		captureOutput(t)
		SetLevel("INFO")
		SetLevel("LOUD")
		assert.Equal(t, LevelInfo, Level(currentLevel.Load()))
	})
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("json")

	Info("decoded field", KeyField, "x", KeyPos, 20)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "decoded field", entry["msg"])
	assert.Equal(t, "x", entry[KeyField])
	assert.EqualValues(t, 20, entry[KeyPos])
}

func TestTextFormat(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("TEXT")

	Info("hello", KeyBits, 12)
	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=hello"), out)
	assert.Contains(t, out, "bits=12")
}

func TestInitWritesToFile(t *testing.T) {
	captureOutput(t)
	path := t.TempDir() + "/bitstream.log"

	require.NoError(t, Init(Config{Level: "ERROR", Format: "text", Output: path}))
	Error("to file")
	Info("dropped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.NotContains(t, string(data), "dropped")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
