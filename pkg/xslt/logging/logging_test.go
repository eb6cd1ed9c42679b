package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLoggerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := New(slog.New(handler)).With("component", "runner")

	logger.Debug(context.Background(), "task submitted", "op", "apply")

	out := buf.String()
	require.Contains(t, out, "task submitted")
	require.Contains(t, out, "component=runner")
	require.Contains(t, out, "op=apply")
}

func TestZapLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZap(zap.New(core)).With("component", "runner")

	ctx := context.Background()
	logger.Debug(ctx, "task submitted", "op", "compile")
	logger.Warn(ctx, "completion dropped", "reason", "closed")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "task submitted", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "compile", entries[0].ContextMap()["op"])
	require.Equal(t, "runner", entries[0].ContextMap()["component"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestNilZapIsSafe(t *testing.T) {
	logger := NewZap(nil)
	logger.Error(context.Background(), "ignored", "k", "v")
}

func TestNopDiscards(t *testing.T) {
	logger := Nop().With("a", 1)
	logger.Info(context.Background(), "ignored")
	require.NotNil(t, logger)
}
