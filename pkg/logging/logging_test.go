package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer

	require.NoError(t, configure(logger, &buf, "debug", FormatJSON, false))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("unit", "api").Info("Deleted: /tmp/x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Deleted: /tmp/x", entry["msg"])
	assert.Equal(t, "api", entry["unit"])
	assert.NotContains(t, entry, "time")
}

func TestConfigure_Text(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer

	require.NoError(t, configure(logger, &buf, "warn", FormatText, false))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_Errors(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer

	assert.Error(t, configure(logger, &buf, "loud", FormatText, false))
	assert.Error(t, configure(logger, &buf, DefaultLevel, "xml", false))
}
