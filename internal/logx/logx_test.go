package logx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"logihub/internal/logx"
)

func TestSlogAdapter_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := logx.NewSlogAdapter(base)

	logger.Info("quote calculated",
		logx.String("request_id", "calc_1"),
		logx.Float64("cargo_total", 275.5),
		logx.Int("tariffs", 2),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "quote calculated", entry["msg"])
	require.Equal(t, "calc_1", entry["request_id"])
	require.InDelta(t, 275.5, entry["cargo_total"], 1e-9)
	require.EqualValues(t, 2, entry["tariffs"])
}

func TestSlogAdapter_WithAttachesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	logger := logx.NewSlogAdapter(base).With(logx.String("component", "engine"))

	logger.Warn("tariff fallback", logx.Duration("elapsed", 10*time.Millisecond))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "engine", entry["component"])
}

func TestNop_DoesNothing(t *testing.T) {
	t.Parallel()

	logger := logx.Nop()
	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored")
	require.NoError(t, logger.With(logx.String("k", "v")).Sync())
}
