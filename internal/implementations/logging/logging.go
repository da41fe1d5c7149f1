package logging

import (
	"context"
	"fmt"
	"nudgebot/internal/core/domain/logging"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	// Error records are captured by Sentry as well.
	reportErrors bool
}

func NewZapLogger(reportErrors bool) *ZapLogger {
	logger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return newZapLogger(logger, reportErrors)
}

// NewZapLoggerWithCore is used when records must go to a custom core.
func NewZapLoggerWithCore(core zapcore.Core) *ZapLogger {
	return newZapLogger(zap.New(core, zap.AddCallerSkip(1)), false)
}

func newZapLogger(logger *zap.Logger, reportErrors bool) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar(), reportErrors: reportErrors}
}

func (l *ZapLogger) Sync() {
	_ = l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(entries...)...)
	if l.reportErrors {
		capture(msg, entries...)
	}
}

func capture(msg string, entries ...logging.LogEntry) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		for _, e := range entries {
			scope.SetExtra(e.Key, fmt.Sprintf("%v", e.Value))
		}
		sentry.CaptureMessage(msg)
	})
}

func prepareArgs(entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
