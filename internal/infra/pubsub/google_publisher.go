package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"majicmall/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// GoogleOptions configures the Cloud Pub/Sub publisher.
type GoogleOptions struct {
	ProjectID string
	TopicID   string
	// OrderByStore sets an ordering key per store. The push subscription must
	// have message ordering enabled for the key to matter.
	OrderByStore bool
	Timeout      time.Duration
}

type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	opts      GoogleOptions
	logger    *slog.Logger
}

// NewGooglePubSubPublisher fails fast when the topic does not exist.
func NewGooglePubSubPublisher(ctx context.Context, opts GoogleOptions, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, opts.ProjectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topic := "projects/" + opts.ProjectID + "/topics/" + opts.TopicID
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "topic %s", topic)
	}

	publisher := client.Publisher(opts.TopicID)
	publisher.EnableMessageOrdering = opts.OrderByStore

	return &googlePubSubPublisher{
		client:    client,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Publish blocks until the server acknowledges the message or the timeout passes.
func (p *googlePubSubPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: attributes(event),
	}
	if p.opts.OrderByStore {
		msg.OrderingKey = orderingKey(event)
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	serverID, err := p.publisher.Publish(ctx, msg).Get(ctx)
	if err != nil {
		if msg.OrderingKey != "" {
			// A failed publish pauses its key until resumed.
			p.publisher.ResumePublish(msg.OrderingKey)
		}

		return errors.Wrapf(err, "publish %s", event.Type)
	}

	p.logger.DebugContext(ctx, "[GooglePubSub] Published",
		slog.String("event_type", event.Type),
		slog.String("server_id", serverID),
		slog.String("ordering_key", msg.OrderingKey),
	)

	return nil
}

func (p *googlePubSubPublisher) Close() error {
	p.publisher.Stop()

	return errors.WithStack(p.client.Close())
}
