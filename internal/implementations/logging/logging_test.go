package logging

import (
	"context"
	"errors"
	"nudgebot/internal/core/domain/logging"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesEntriesAsFields(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	log := NewZapLoggerWithCore(core)
	ctx := context.Background()

	log.Debug(ctx, "debug message")
	log.Info(ctx, "Reminder has been scheduled.", logging.Entry("reminderID", int64(42)))
	log.Warning(ctx, "warning message")
	logging.Error(ctx, log, errors.New("boom"), logging.Entry("reminderID", int64(7)))

	entries := recorded.All()
	require.Len(t, entries, 4)
	require.Equal(t, zap.DebugLevel, entries[0].Level)
	require.Equal(t, zap.InfoLevel, entries[1].Level)
	require.Equal(t, "Reminder has been scheduled.", entries[1].Message)
	require.Equal(t, int64(42), entries[1].ContextMap()["reminderID"])
	require.Equal(t, zap.WarnLevel, entries[2].Level)
	require.Equal(t, zap.ErrorLevel, entries[3].Level)
	require.Equal(t, "boom", entries[3].Message)
	require.Equal(t, int64(7), entries[3].ContextMap()["reminderID"])
}
