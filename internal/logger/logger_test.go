package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "debug", Format: "json"}, &buf)
	t.Cleanup(func() { InitWriter(Config{Level: "info"}, &bytes.Buffer{}) })

	Info().Str("component", "store").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "hello", line["message"])
	assert.Contains(t, line, "time")
}

func TestInitWriterUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "loud"}, &buf)
	t.Cleanup(func() { InitWriter(Config{Level: "info"}, &bytes.Buffer{}) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Debug().Msg("dropped")
	assert.Empty(t, buf.String())
}
