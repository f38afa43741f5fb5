package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ics-einvoice/internal/logger"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LogConfig{Format: "json"})

	log.Info().Str("interface_code", "MY101").Msg("ics call")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "MY101", entry["interface_code"])
	assert.Equal(t, "ics call", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LogConfig{Format: "console"})

	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestSetup(t *testing.T) {
	cfg := logger.DefaultConfig()
	cfg.Output = "stderr"
	require.NoError(t, logger.Setup(cfg))

	cfg.Level = "loud"
	assert.Error(t, logger.Setup(cfg))
}
