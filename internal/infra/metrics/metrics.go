// Package metrics exposes Prometheus collectors for HTTP traffic and business events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"majicmall/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "majicmall"

// Registry owns every collector. A registry per process keeps tests isolated.
type Registry struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge

	checkouts *prometheus.CounterVec
	lifecycle *prometheus.CounterVec
	webhooks  *prometheus.CounterVec
	orders    prometheus.Counter

	events *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stores",
			Name:      "lifecycle_transitions_total",
			Help:      "Store archive, restore and purge transitions.",
		}, []string{"action"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "webhooks_total",
			Help:      "Gateway webhooks by provider and outcome.",
		}, []string{"provider", "outcome"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed on storefronts.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "events_total",
			Help:      "Pushed events and jobs by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestDuration,
		r.requestTotal,
		r.inFlight,
		r.checkouts,
		r.lifecycle,
		r.webhooks,
		r.orders,
		r.events,
	)

	return r
}

// NewRecorder exposes the registry as the domain recorder.
func NewRecorder(r *Registry) service.MetricsRecorder {
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer is used by tests to inspect collected values.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	r.requestTotal.WithLabelValues(method, path, code).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (r *Registry) TrackInFlight() func() {
	r.inFlight.Inc()

	return r.inFlight.Dec
}

func (r *Registry) CheckoutStarted(provider, outcome string) {
	r.checkouts.WithLabelValues(provider, outcome).Inc()
}

func (r *Registry) StoreLifecycle(action string) {
	r.lifecycle.WithLabelValues(action).Inc()
}

func (r *Registry) WebhookReceived(provider, outcome string) {
	r.webhooks.WithLabelValues(provider, outcome).Inc()
}

func (r *Registry) OrderPlaced(_ uint) {
	r.orders.Inc()
}

// EventConsumed counts one pushed message handled by the worker.
func (r *Registry) EventConsumed(eventType, outcome string) {
	r.events.WithLabelValues(eventType, outcome).Inc()
}
