package main

import (
	"context"

	"majicmall/config"
	"majicmall/internal/infra/clock"
	logs "majicmall/internal/infra/log"
	"majicmall/internal/infra/metrics"
	"majicmall/internal/infra/persistence/postgres"
	"majicmall/internal/infra/pubsub"
	"majicmall/internal/infra/storage"
	"majicmall/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// withApp starts a container that fills targets, runs fn, then stops it.
func withApp(ctx context.Context, fn func(ctx context.Context) error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			func() context.Context { return ctx },
			postgres.New,
			metrics.New,
			metrics.NewRecorder,
			storage.New,
			clock.New,
			pubsub.NewEventPublisher,
		),
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewMerchantProfileRepository,
			postgres.NewStoreRepository,
			postgres.NewProductRepository,
			postgres.NewOrderRepository,
			postgres.NewTransactionManager,
		),
		fx.Provide(
			impl.NewStoreService,
			impl.NewMaintenanceService,
		),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "failed to build application")
	}

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start application")
	}
	defer func() {
		_ = app.Stop(context.WithoutCancel(ctx))
	}()

	return fn(ctx)
}
