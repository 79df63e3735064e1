package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// KeyLogger holds the request logger, already tagged with the request id.
const KeyLogger ContextKey = "logger"

// GetLogger returns nil when no request logger is attached.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(KeyLogger).(*slog.Logger)

	return logger
}

// GetLoggerOrDefault prefers the request logger over fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// RequestLogger is GetLoggerOrDefault for the request behind c.
func RequestLogger(c echo.Context, fallback *slog.Logger) *slog.Logger {
	return GetLoggerOrDefault(c.Request().Context(), fallback)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
