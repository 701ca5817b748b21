package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EchoKey is where middleware stores the request-scoped logger on the echo
// context. FromEcho reads it back inside handlers.
const EchoKey = "logger"

type contextKey string

const loggerKey contextKey = "logger"

// WithContext returns a context carrying log.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger carried by ctx, or the process logger when
// none is set.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return GetLogger()
}

// FromEcho returns the request-scoped logger, enriched with the request id,
// or the process logger when no middleware has run.
func FromEcho(c echo.Context) *zap.Logger {
	if log, ok := c.Get(EchoKey).(*zap.Logger); ok {
		return log
	}
	return GetLogger()
}
