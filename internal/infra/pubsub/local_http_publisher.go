package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"majicmall/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// localHTTPPublisher POSTs push envelopes straight to the worker, standing in
// for a Pub/Sub push subscription during development.
type localHTTPPublisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewLocalHTTPPublisher posts to endpoint, giving up on a delivery after timeout.
func NewLocalHTTPPublisher(endpoint string, timeout time.Duration, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (p *localHTTPPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	envelope, err := NewPushEnvelope(event, LocalSubscription)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if event.RequestID != "" {
		req.Header.Set(echo.HeaderXRequestID, event.RequestID)
	}

	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "deliver %s to %s", event.Type, p.endpoint)
	}
	defer resp.Body.Close()

	// The worker answers 503 for retryable failures; there is no redelivery here.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("worker rejected %s with status %d", event.Type, resp.StatusCode)
	}

	p.logger.DebugContext(ctx, "[LocalPubSub] Delivered",
		slog.String("event_type", event.Type),
		slog.Uint64("store_id", uint64(event.StoreID)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(started)),
	)

	return nil
}

func (p *localHTTPPublisher) Close() error {
	p.client.CloseIdleConnections()

	return nil
}
