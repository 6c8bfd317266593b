package observability

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Service: "orders-test", Level: "debug", Output: &buf})

	reqLogger := WithRequestID(logger, "req-1")
	reqLogger.Info().Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "orders-test", entry["service"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}

func TestNewLogger_EnvironmentAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Environment: "staging", Version: "1.2.3", Output: &buf})

	logger.Info().Msg("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order-service", entry["service"])
	assert.Equal(t, "staging", entry["environment"])
	assert.Equal(t, "1.2.3", entry["version"])
}

func TestGetTimeFormat(t *testing.T) {
	assert.Equal(t, time.RFC3339, getTimeFormat(""))
	assert.Equal(t, time.RFC3339Nano, getTimeFormat("RFC3339Nano"))
	assert.Equal(t, time.Kitchen, getTimeFormat("kitchen"))
}
