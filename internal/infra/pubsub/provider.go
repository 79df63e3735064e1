// Package pubsub publishes domain events and scheduled jobs to the worker.
package pubsub

import (
	"context"
	"log/slog"
	"time"

	"majicmall/config"
	"majicmall/internal/domain/constants"
	"majicmall/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultPublishTimeout = 10 * time.Second

// noopPublisher is used when no provider is configured.
type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher returns a publisher that only logs at debug level.
func NewNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	p.logger.DebugContext(ctx, "[NoopPubSub] Publishing disabled",
		slog.String("event_type", event.Type),
		slog.Uint64("store_id", uint64(event.StoreID)),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

type publisherBuilder struct {
	required func(cfg *config.PubSubConfig) map[string]string
	build    func(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error)
}

//nolint:gochecknoglobals
var builders = map[string]publisherBuilder{
	constants.PubSubProviderLocal: {
		required: func(cfg *config.PubSubConfig) map[string]string {
			return map[string]string{"localEndpoint": cfg.LocalEndpoint}
		},
		build: func(_ context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
			return NewLocalHTTPPublisher(cfg.LocalEndpoint, publishTimeout(cfg), logger), nil
		},
	},
	constants.PubSubProviderGoogle: {
		required: func(cfg *config.PubSubConfig) map[string]string {
			return map[string]string{"projectId": cfg.ProjectID, "topicId": cfg.TopicID}
		},
		build: func(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
			return NewGooglePubSubPublisher(ctx, GoogleOptions{
				ProjectID:    cfg.ProjectID,
				TopicID:      cfg.TopicID,
				OrderByStore: cfg.OrderByStore,
				Timeout:      publishTimeout(cfg),
			}, logger)
		},
	},
	constants.PubSubProviderAMQP: {
		required: func(cfg *config.PubSubConfig) map[string]string {
			return map[string]string{"amqpURL": cfg.AMQPURL, "amqpExchange": cfg.AMQPExchange}
		},
		build: func(_ context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
			return NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		},
	},
}

// NewEventPublisher selects the transport named by pubsub.provider. An empty
// provider yields a no-op publisher so local runs need no broker.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, events are dropped")

		return NewNoopPublisher(logger), nil
	}

	builder, ok := builders[cfg.Provider]
	if !ok {
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
	for field, value := range builder.required(cfg) {
		if value == "" {
			return nil, errors.Errorf("pubsub.%s is required for the %s provider", field, cfg.Provider)
		}
	}

	publisher, err := builder.build(params.Ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "start %s publisher", cfg.Provider)
	}
	logger.Info("EventPublisher ready", slog.String("provider", cfg.Provider))

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info("Closing EventPublisher", slog.String("provider", cfg.Provider))

			return publisher.Close()
		},
	})

	return publisher, nil
}

func publishTimeout(cfg *config.PubSubConfig) time.Duration {
	if cfg.PublishTimeout <= 0 {
		return defaultPublishTimeout
	}

	return cfg.PublishTimeout
}
