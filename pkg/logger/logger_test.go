package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With("registry")

	l.Info("trained",
		String("ticker", "AAPL"),
		Int("rows", 301),
		Float64("r2", 0.97),
		Duration("duration_ms", 1500*time.Millisecond),
		Bool("cached", false),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "trained", entry["message"])
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.EqualValues(t, 301, entry["rows"])
	assert.InDelta(t, 0.97, entry["r2"], 1e-9)
	assert.EqualValues(t, 1500, entry["duration_ms"])
	assert.Equal(t, false, entry["cached"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", String("k", "v")) })
}
