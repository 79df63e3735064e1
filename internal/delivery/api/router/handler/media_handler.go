package handler

import (
	"net/http"
	"strings"

	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/storage"

	"github.com/labstack/echo/v4"
)

// MediaHandler streams uploaded logos and product images from the bucket.
type MediaHandler struct {
	media service.MediaStorage
}

func NewMediaHandler(media service.MediaStorage) *MediaHandler {
	return &MediaHandler{media: media}
}

// Serve answers GET /media/*.
func (h *MediaHandler) Serve(c echo.Context) error {
	key := strings.TrimPrefix(c.Param("*"), "/")
	if key == "" || strings.Contains(key, "..") {
		return domainerrors.ErrNotFound
	}

	data, contentType, err := h.media.Get(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domainerrors.ErrNotFound.WrapMessage(key)
		}

		return errors.WithStack(err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Blob(http.StatusOK, contentType, data)
}
