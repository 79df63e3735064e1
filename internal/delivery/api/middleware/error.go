// Package middleware holds the echo middlewares specific to the JSON API.
package middleware

import (
	"log/slog"
	"net/http"

	"majicmall/internal/delivery/api/response"
	"majicmall/internal/delivery/api/validator"
	deliverycontext "majicmall/internal/delivery/context"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware converts handler errors into the error envelope.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// purgeDetails is rendered for PURGE_TOO_EARLY.
type purgeDetails struct {
	RemainingSeconds int64  `json:"remaining_seconds"`
	Remaining        string `json:"remaining"`
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.RequestLogger(c, m.logger)

	if validationErr, ok := errors.AsType[*validator.ValidationError](err); ok {
		_ = response.Error(c, validationErr.HTTPCode(), validationErr.ErrorCode(), validationErr.Message(), validationErr.Fields)

		return
	}

	if purgeErr, ok := errors.AsType[*domainerrors.PurgeTooEarlyError](err); ok {
		_ = response.Error(c, purgeErr.HTTPCode(), purgeErr.ErrorCode(), purgeErr.Message(), purgeDetails{
			RemainingSeconds: int64(purgeErr.Remaining.Seconds()),
			Remaining:        purgeErr.Message(),
		})

		return
	}

	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.Any("error", err),
			)
		}

		var details any
		if d := appErr.Details(); d != "" {
			details = d
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)

		return
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")
}
