package main

import (
	"context"
	"log/slog"
	"os"

	"majicmall/config"
	"majicmall/internal/delivery"
	"majicmall/internal/delivery/api"
	"majicmall/internal/delivery/api/middleware"
	"majicmall/internal/delivery/api/router/handler"
	"majicmall/internal/domain/service"
	"majicmall/internal/infra/auth"
	"majicmall/internal/infra/clock"
	logs "majicmall/internal/infra/log"
	"majicmall/internal/infra/metrics"
	"majicmall/internal/infra/payment"
	"majicmall/internal/infra/persistence/postgres"
	"majicmall/internal/infra/pubsub"
	"majicmall/internal/infra/qrcode"
	"majicmall/internal/infra/session"
	"majicmall/internal/infra/storage"
	"majicmall/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
		session.NewStore,
		storage.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewMerchantProfileRepository,
			postgres.NewStoreRepository,
			postgres.NewProductRepository,
			postgres.NewOrderRepository,
			postgres.NewPaymentMethodRepository,
			postgres.NewPlanUpgradeRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			metrics.NewRecorder,
			payment.NewAdapterFactory,
			clock.New,
			pubsub.NewEventPublisher,
			newQRCodeService,
		),
	)
}

// newQRCodeService falls back to medium error correction when unconfigured.
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService("M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewStoreService,
			impl.NewStorefrontService,
			impl.NewProductService,
			impl.NewOrderService,
			impl.NewPaymentMethodService,
			impl.NewCheckoutService,
			impl.NewReportService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewSessionMiddleware,
			middleware.NewStoreMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewStorefrontHandler,
			handler.NewStoreHandler,
			handler.NewProductHandler,
			handler.NewOrderHandler,
			handler.NewPaymentMethodHandler,
			handler.NewCheckoutHandler,
			handler.NewReportHandler,
			handler.NewStaffHandler,
			handler.NewWebhookHandler,
			handler.NewMediaHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
