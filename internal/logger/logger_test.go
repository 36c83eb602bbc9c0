package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"acs-toolkit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogJSONLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Logger: config.Logger{Level: 1, Format: "json"}}
	log := newLog(cfg, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("handler", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["handler"])
}

func TestNewLogConsole(t *testing.T) {
	var buf bytes.Buffer
	log := newLog(&config.Config{}, &buf)
	log.Debug().Msg("calling initializer")
	assert.Contains(t, buf.String(), "calling initializer")
}
