package service

// MetricsRecorder counts business events for monitoring.
type MetricsRecorder interface {
	CheckoutStarted(provider, outcome string)
	StoreLifecycle(action string)
	WebhookReceived(provider, outcome string)
	OrderPlaced(storeID uint)
}
