package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Domain event types
const (
	EventStoreArchived   = "store.archived"
	EventStoreRestored   = "store.restored"
	EventStorePurged     = "store.purged"
	EventPlanUpgraded    = "plan.upgraded"
	EventPaymentWebhook  = "payment.webhook"
	EventTenantProvision = "tenant.provisioned"
	EventOrderPlaced     = "order.placed"
)

// Scheduled jobs arrive through the same push subscription as events.
const (
	EventJobPurgeExpired = "job.purge_expired"
	EventJobBackfill     = "job.backfill"
)

// DomainEvent is published after a state change has been committed.
type DomainEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	RequestID  string            `json:"request_id,omitempty"`
	StoreID    uint              `json:"store_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Payload    map[string]any    `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent builds an event with a fresh id and the current time.
func NewEvent(eventType string, storeID uint, payload map[string]any) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		StoreID:    storeID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish delivers an event. Callers treat failures as non-fatal.
	Publish(ctx context.Context, event *DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
