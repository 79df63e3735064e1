// Package worker serves the push endpoint that receives domain events and
// scheduled jobs.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"majicmall/config"
	"majicmall/internal/delivery"
	"majicmall/internal/delivery/middleware"
	"majicmall/internal/delivery/worker/handler"
	"majicmall/internal/domain/lifecycle"
	"majicmall/internal/errors"
	"majicmall/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

type workerServer struct {
	port   int
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Registry
	PushHandler *handler.PushHandler
}

// NewServer creates the worker HTTP server.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger).Process)
	e.Use(middleware.NewMetricsMiddleware(params.Metrics).Handle)

	// Probes stay out of the access log.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "role": "worker"})
	})
	e.GET("/metrics", echo.WrapHandler(params.Metrics.Handler()))

	push := e.Group("",
		middleware.NewLoggerMiddleware(params.Logger, params.Cfg).Handle,
		echomiddleware.BodyLimit(params.Cfg.HTTP.MaxRequestBodySize),
	)
	push.POST("/push", params.PushHandler.HandlePush)

	srv := &workerServer{
		port:   workerPort(params.Cfg),
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// workerPort lets the worker share a host with the API by setting worker.port.
func workerPort(cfg *config.Config) int {
	if cfg.Worker != nil && cfg.Worker.Port != 0 {
		return cfg.Worker.Port
	}

	return cfg.HTTP.Port
}

// Serve blocks until the server is shut down.
func (s *workerServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.port))
	s.logger.InfoContext(ctx, "[Worker] Listening", slog.String("host_port", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

// stop lets in-flight pushes finish; Pub/Sub redelivers anything cut off.
func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "[Worker] Shutting down")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
