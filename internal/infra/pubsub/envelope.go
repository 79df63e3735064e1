package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"majicmall/internal/domain/service"

	"github.com/pkg/errors"
)

// LocalSubscription names the subscription the local publisher reports in its envelopes.
const LocalSubscription = "projects/local/subscriptions/majicmall-events"

// PushMessage is the message part of a push envelope.
type PushMessage struct {
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
	OrderingKey string            `json:"orderingKey,omitempty"`
}

// PushEnvelope is the JSON body a push subscription POSTs to the worker.
// The local publisher produces the same shape.
type PushEnvelope struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

// NewPushEnvelope wraps a domain event for delivery to a push endpoint.
func NewPushEnvelope(event *service.DomainEvent, subscription string) (*PushEnvelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &PushEnvelope{
		Subscription: subscription,
		Message: PushMessage{
			Data:        base64.StdEncoding.EncodeToString(data),
			Attributes:  attributes(event),
			MessageID:   event.ID,
			PublishTime: event.OccurredAt.UTC().Format(time.RFC3339),
			OrderingKey: orderingKey(event),
		},
	}, nil
}

// Event decodes the domain event carried by the envelope.
func (e *PushEnvelope) Event() (*service.DomainEvent, error) {
	data, err := base64.StdEncoding.DecodeString(e.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode message data")
	}

	var event service.DomainEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "decode domain event")
	}
	if event.Type == "" {
		return nil, errors.New("domain event has no type")
	}

	return &event, nil
}

// Attribute returns a message attribute, or "" when it is absent.
func (e *PushEnvelope) Attribute(key string) string {
	return e.Message.Attributes[key]
}

// attributes are the routing attributes every transport attaches to a message.
func attributes(event *service.DomainEvent) map[string]string {
	attrs := map[string]string{
		"event_id":   event.ID,
		"event_type": event.Type,
	}
	if event.StoreID != 0 {
		attrs["store_id"] = strconv.FormatUint(uint64(event.StoreID), 10)
	}
	if event.RequestID != "" {
		attrs["request_id"] = event.RequestID
	}
	for k, v := range event.Attributes {
		attrs[k] = v
	}

	return attrs
}

// orderingKey groups a store's events; jobs and store-less events are unordered.
func orderingKey(event *service.DomainEvent) string {
	if event.StoreID == 0 {
		return ""
	}

	return "store-" + strconv.FormatUint(uint64(event.StoreID), 10)
}
