// Package handler contains the HTTP handlers of the JSON API.
package handler

import (
	"io"
	"net/http"
	"strconv"

	deliverycontext "majicmall/internal/delivery/context"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// pathID parses a positive integer path parameter. Anything else is a 404, the
// same as a route that does not match.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrNotFound.WrapMessage("invalid " + name)
	}

	return uint(id), nil
}

// currentUserID is only called behind Authenticate.
func currentUserID(c echo.Context) (uint, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	return userID, nil
}

// activeSession returns nil instead of a typed nil pointer.
func activeSession(c echo.Context) usecase.ActiveStoreSession {
	sess := deliverycontext.GetSession(c)
	if sess == nil {
		return nil
	}

	return sess
}

// readUpload reads a multipart image field.
func readUpload(c echo.Context, field string) (*usecase.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(field + " file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	return &usecase.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
