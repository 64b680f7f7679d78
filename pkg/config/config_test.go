package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10, cfg.Examples)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 800, cfg.PNGWidth)
	assert.Equal(t, 600, cfg.PNGHeight)
	assert.Equal(t, 2000, cfg.MaxEliminationStates)
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"FSM_LOG_LEVEL":  "debug",
		"FSM_LOG_FORMAT": "json",
		"FSM_EXAMPLES":   "3",
		"FSM_SEED":       "42",
		"FSM_PNG_WIDTH":  "1024",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Examples)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 1024, cfg.PNGWidth)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    error
	}{
		{"not a number", map[string]string{"FSM_EXAMPLES": "many"}, ErrParsingConfig},
		{"negative seed", map[string]string{"FSM_SEED": "-1"}, ErrParsingConfig},
		{"bad level", map[string]string{"FSM_LOG_LEVEL": "loud"}, ErrInvalidConfig},
		{"bad format", map[string]string{"FSM_LOG_FORMAT": "xml"}, ErrInvalidConfig},
		{"negative examples", map[string]string{"FSM_EXAMPLES": "-1"}, ErrInvalidConfig},
		{"zero width", map[string]string{"FSM_PNG_WIDTH": "0"}, ErrInvalidConfig},
		{"zero limit", map[string]string{"FSM_MAX_ELIMINATION_STATES": "0"}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FSM_EXAMPLES=7\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Unsetenv("FSM_EXAMPLES")
		_ = os.Chdir(wd)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Examples)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "states", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, float64(3), rec["states"])
}
