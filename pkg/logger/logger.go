package logger

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxLogger int

const loggerKey ctxLogger = 0

var defaultLogger = zap.NewNop().Sugar()

// Run builds the process-wide sugared logger with the given level
// and makes it the fallback for contexts without their own logger.
func Run(level string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		log.Printf("logger: unknown log level `%s`, using info", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("logger: can't build zap logger: %v", err)
	}

	defaultLogger = l.Sugar()
	return defaultLogger
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Log returns the logger scoped to the given context,
// or the process-wide one if the context has none.
func Log(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return defaultLogger
}
