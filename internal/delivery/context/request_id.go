// Package context carries request-scoped values between the middlewares,
// the handlers and the use cases.
package context

import (
	"context"

	"github.com/labstack/echo/v4"
)

// ContextKey namespaces values stored on echo and std contexts.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"

	HeaderXRequestID = echo.HeaderXRequestID
)

// GetRequestID returns the id assigned by the request id middleware, or the
// one already written to the response. Empty when neither is set.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return c.Response().Header().Get(HeaderXRequestID)
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext is empty outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}
