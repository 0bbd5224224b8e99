package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ParseLevel(%q)", name)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "warn", Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("ticker", "ACME").Msg("No quote")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "No quote")
	assert.Contains(t, out, "ticker=")
}

func TestNew_File(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "invsync.log")
	log, closer, err := New(Config{Level: "debug", Out: &buf, File: file})
	require.NoError(t, err)

	log.Debug().Str("run_id", "r1").Msg("Fetching budget...")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.Equal(t, "Fetching budget...", entry["message"])
	assert.Contains(t, buf.String(), "Fetching budget...")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
