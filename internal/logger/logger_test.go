package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdeck/internal/config"
)

func TestSetup(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	t.Run("json respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup(config.LogConfig{Level: "warn", Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "cards", 3)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "shown", entry["msg"])
		assert.EqualValues(t, 3, entry["cards"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup(config.LogConfig{Level: "debug", Format: "text"}, &buf)
		require.NoError(t, err)
		logger.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Setup(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
		assert.Error(t, err)
		_, err = Setup(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
