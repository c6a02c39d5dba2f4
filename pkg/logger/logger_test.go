package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesFormattedJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info")
	require.NoError(t, err)

	log.Info("booked appointment id=%d", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booked appointment id=42", entry["message"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("skipped")
	log.Debug("skipped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_UnknownLevel(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}
