package logutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, min slog.Level, percents map[slog.Level]float64) *slog.Logger {
	return New(buf, Options{Level: min, Percents: percents})
}

func TestMinLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo, nil)

	logger.Debug("should not log")
	logger.Info("should log")

	assert.NotContains(t, buf.String(), "should not log")
	assert.Contains(t, buf.String(), "should log")
}

func TestSampling(t *testing.T) {
	t.Run("100 percent always logs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newTestLogger(&buf, slog.LevelDebug, map[slog.Level]float64{slog.LevelDebug: 100})

		logger.Debug("always log")
		assert.Contains(t, buf.String(), "always log")
	})

	t.Run("0 percent never logs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newTestLogger(&buf, slog.LevelDebug, map[slog.Level]float64{slog.LevelDebug: 0})

		for range 50 {
			logger.Debug("never log")
		}
		assert.Zero(t, buf.Len())
	})

	t.Run("rolls against the percentage", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewSamplingHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
			slog.LevelDebug, map[slog.Level]float64{slog.LevelInfo: 25})

		rolls := []float64{0.1, 0.3, 0.24, 0.99}
		h.roll = func() float64 {
			r := rolls[0]
			rolls = rolls[1:]
			return r
		}

		logger := slog.New(h)
		kept := 0
		for range 4 {
			buf.Reset()
			logger.Info("maybe log")
			if buf.Len() > 0 {
				kept++
			}
		}
		assert.Equal(t, 2, kept)
	})

	t.Run("level without rule always logs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newTestLogger(&buf, slog.LevelDebug, map[slog.Level]float64{slog.LevelDebug: 0})

		logger.Warn("no rule but still log")
		assert.Contains(t, buf.String(), "no rule but still log")
	})
}

func TestSampling_IgnoresCallerMapMutation(t *testing.T) {
	var buf bytes.Buffer
	percents := map[slog.Level]float64{slog.LevelInfo: 100}
	logger := newTestLogger(&buf, slog.LevelDebug, percents)
	percents[slog.LevelInfo] = 0

	logger.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelDebug, map[slog.Level]float64{slog.LevelInfo: 100})

	logger.With("scope", "test").Info("attribute log")
	logger.WithGroup("decoder").Info("grouped log", "op", "create", "offset", 16)

	logs := buf.String()
	assert.Contains(t, logs, "scope=test")
	assert.Contains(t, logs, "decoder.op=create")
	assert.Contains(t, logs, "decoder.offset=16")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: slog.LevelInfo, JSON: true})

	logger.Info("opened", "path", "log.1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opened", rec["msg"])
	assert.Equal(t, "log.1", rec["path"])
}
