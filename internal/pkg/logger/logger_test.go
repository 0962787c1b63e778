package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	t.Cleanup(func() { _ = Configure(Config{Level: "info", Format: FormatText}) })

	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "debug", Format: FormatJSON, Output: &buf}))
	l := Get().With().Str("requestId", "abc").Logger()
	l.Debug().Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "abc", line["requestId"])
	assert.Equal(t, "debug", line["level"])
}

func TestPackageEventsUseConfiguredLogger(t *testing.T) {
	t.Cleanup(func() { _ = Configure(Config{Level: "info", Format: FormatText}) })

	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "warn", Format: FormatJSON, Output: &buf}))
	Warn().Str("op", "ping").Msg("slow")
	l := Get()
	l.Info().Msg("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "ping", line["op"])
}

func TestConfigureRejectsUnknownValues(t *testing.T) {
	t.Cleanup(func() { _ = Configure(Config{Level: "info", Format: FormatText}) })

	assert.Error(t, Configure(Config{Level: "loud"}))
	assert.Error(t, Configure(Config{Format: "xml"}))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
