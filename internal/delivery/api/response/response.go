// Package response renders the JSON envelopes of the API.
//
// Every body has a meta block; successful bodies carry data and an optional
// flash message, failed ones an error with a machine-readable code.
package response

import (
	"net/http"

	deliverycontext "majicmall/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// SuccessResponse is the body of a 2xx reply.
type SuccessResponse struct {
	Data    any       `json:"data"`
	Message string    `json:"message,omitempty"`
	Meta    *MetaInfo `json:"meta"`
}

// ErrorResponse is the body of a 4xx or 5xx reply.
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo describes a failure. Details are only sent for client errors
// other than 401 and 403.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MetaInfo identifies the request and, for merchant routes, the store it ran against.
type MetaInfo struct {
	RequestID string `json:"request_id"`
	StoreID   uint   `json:"store_id,omitempty"`
}

func meta(c echo.Context) *MetaInfo {
	m := &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
	if store := deliverycontext.GetStore(c); store != nil {
		m.StoreID = store.ID
	}

	return m
}

// Success renders data without a flash message.
func Success(c echo.Context, statusCode int, data any) error {
	return SuccessWithMessage(c, statusCode, data, "")
}

// SuccessWithMessage carries a user-facing flash message next to the data.
func SuccessWithMessage(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, SuccessResponse{
		Data:    data,
		Message: message,
		Meta:    meta(c),
	})
}

// Error renders an error envelope, dropping details the client should not see.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if !exposesDetails(statusCode) {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: meta(c),
	})
}

func exposesDetails(statusCode int) bool {
	return statusCode < http.StatusInternalServerError &&
		statusCode != http.StatusUnauthorized &&
		statusCode != http.StatusForbidden
}

// BindingError is returned when the request body or params cannot be decoded.
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, "INVALID_INPUT", message, nil)
}

func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, nil)
}

func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}
