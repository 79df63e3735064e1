package middleware

import (
	"net/http"
	"time"

	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/errors"

	"github.com/labstack/echo/v4"
)

// RequestObserver records request counts and latencies.
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
	TrackInFlight() func()
}

// MetricsMiddleware feeds every request into the Prometheus registry.
type MetricsMiddleware struct {
	observer RequestObserver
}

func NewMetricsMiddleware(observer RequestObserver) *MetricsMiddleware {
	return &MetricsMiddleware{observer: observer}
}

// Handle labels requests by route pattern so path parameters do not explode cardinality.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		done := m.observer.TrackInFlight()
		defer done()

		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			status = statusFromError(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		m.observer.ObserveRequest(c.Request().Method, path, status, time.Since(start))

		return err
	}
}

// statusFromError predicts the status the error handler will write.
func statusFromError(err error) int {
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		return appErr.HTTPCode()
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}
