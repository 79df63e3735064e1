package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"majicmall/config"
	"majicmall/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_Publish(t *testing.T) {
	var received PushEnvelope
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, time.Second, newDiscardLogger())
	event := service.NewEvent(service.EventStoreArchived, 9, map[string]any{"slug": "shop"})
	event.RequestID = "req-1"

	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, LocalSubscription, received.Subscription)
	assert.Equal(t, event.ID, received.Message.MessageID)
	assert.Equal(t, "store-9", received.Message.OrderingKey)
	assert.Equal(t, "store.archived", received.Attribute("event_type"))
	assert.Equal(t, "9", received.Attribute("store_id"))

	decoded, err := received.Event()
	require.NoError(t, err)
	assert.Equal(t, "shop", decoded.Payload["slug"])
}

func TestPushEnvelope_Event(t *testing.T) {
	job, err := NewPushEnvelope(service.NewEvent(service.EventJobPurgeExpired, 0, nil), "sub")
	require.NoError(t, err)
	assert.Empty(t, job.Message.OrderingKey)
	assert.Empty(t, job.Attribute("store_id"))

	event, err := job.Event()
	require.NoError(t, err)
	assert.Equal(t, service.EventJobPurgeExpired, event.Type)

	tests := []struct {
		name string
		data string
	}{
		{name: "not base64", data: "%%%"},
		{name: "not an object", data: base64.StdEncoding.EncodeToString([]byte("[]"))},
		{name: "no type", data: base64.StdEncoding.EncodeToString([]byte(`{"id":"x"}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&PushEnvelope{Message: PushMessage{Data: tt.data}}).Event()
			assert.Error(t, err)
		})
	}
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, time.Second, newDiscardLogger())
	err := publisher.Publish(context.Background(), service.NewEvent(service.EventOrderPlaced, 1, nil))
	assert.Error(t, err)
}

func TestNewEventPublisher_ProviderSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
	}{
		{"not configured", nil, false},
		{"local", &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:9/events"}, false},
		{"local without endpoint", &config.PubSubConfig{Provider: "local"}, true},
		{"google without project", &config.PubSubConfig{Provider: "google", TopicID: "t"}, true},
		{"google without topic", &config.PubSubConfig{Provider: "google", ProjectID: "p"}, true},
		{"amqp without url", &config.PubSubConfig{Provider: "amqp", AMQPExchange: "x"}, true},
		{"unknown", &config.PubSubConfig{Provider: "kafka"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     fxtest.NewLifecycle(t),
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: newDiscardLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.NotNil(t, publisher)
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher(newDiscardLogger())
	assert.NoError(t, publisher.Publish(context.Background(), service.NewEvent(service.EventStorePurged, 3, nil)))
	assert.NoError(t, publisher.Close())
}

func TestPublishTimeout(t *testing.T) {
	assert.Equal(t, defaultPublishTimeout, publishTimeout(&config.PubSubConfig{}))
	assert.Equal(t, 3*time.Second, publishTimeout(&config.PubSubConfig{PublishTimeout: 3 * time.Second}))
}
