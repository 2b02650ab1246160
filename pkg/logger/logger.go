// Package logger provides a structured, levelled logger built on log/slog.
// Handlers attach a request-scoped logger (pre-tagged with the request id)
// to the context; FromCtx retrieves it so every log line from a request is
// correlated.
package logger

import (
	"context"
	"log/slog"
	"os"
)

var base *slog.Logger

func init() {
	var handler slog.Handler

	switch os.Getenv("APP_ENV") {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

type ctxKey struct{}

// Inject stores a request-scoped *slog.Logger into ctx. Called by the
// request-ID middleware; application code rarely needs it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromCtx returns the request-scoped logger, or the base logger when the
// context carries none.
func FromCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return base
}

func Debug(msg string, args ...any) { base.Debug(msg, args...) }
func Info(msg string, args ...any)  { base.Info(msg, args...) }
func Warn(msg string, args ...any)  { base.Warn(msg, args...) }
func Error(msg string, args ...any) { base.Error(msg, args...) }
