package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "drilllogs",
			appName: "drillsim",
			want:    filepath.Join("drilllogs", "drillsim.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./drilllogs",
			appName: "drillsim",
			want:    filepath.Join(".", "drilllogs", "drillsim.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "drillsim"),
			appName: "drillsim",
			want:    filepath.Join("/var", "log", "drillsim", "drillsim.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestSetup_WritesToFile(t *testing.T) {
	var file bytes.Buffer
	m := Setup(Options{Level: "debug", File: &file})
	t.Cleanup(func() { _ = m.Close() })

	m.Logger.Debug().Str("disaster", "flood").Msg("Session created")
	out := file.String()
	assert.Contains(t, out, "Logging set up")
	assert.Contains(t, out, "Session created")
	assert.Contains(t, out, "disaster=flood")
	assert.Nil(t, m.GraylogWriter)
}

func TestSetup_LevelFilters(t *testing.T) {
	var file bytes.Buffer
	m := Setup(Options{Level: "error", File: &file})
	m.Logger.Info().Msg("hidden")
	assert.NotContains(t, file.String(), "hidden")
}

func TestSetup_NoSinks(t *testing.T) {
	assert.NotPanics(t, func() {
		m := Setup(Options{})
		m.Logger.Info().Msg("discarded")
	})
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	f, err := OpenFile(dir, "drillsim", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	_, err = os.Stat(filepath.Join(dir, "drillsim.20260102_030405.log"))
	assert.NoError(t, err)
}

func TestKVLogger(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKVLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	kv.Debug("test message", "key1", "value1", "key2", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, "value1", entry["key1"])
	assert.Equal(t, float64(42), entry["key2"])
}

func TestKVLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKVLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	kv.Debug("dropped")
	assert.Zero(t, buf.Len())

	kv.Error("handler failed", "command", "frame")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "frame", entry["command"])
}

func TestToFields(t *testing.T) {
	fields := toFields([]any{"a", 1, 2, "skipped", "odd"})
	assert.Equal(t, map[string]any{"a": 1}, fields)
}
