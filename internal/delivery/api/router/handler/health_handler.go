package handler

import (
	"context"
	"net/http"
	"time"

	"majicmall/internal/delivery/api/response"
	"majicmall/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheck answers 503 when the database does not respond.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		return response.Error(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is unreachable", nil)
	}

	return response.Success(c, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(sqlDB.PingContext(ctx))
}
