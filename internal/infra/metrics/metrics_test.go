package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BusinessCounters(t *testing.T) {
	r := New()

	r.CheckoutStarted("stripe", "ok")
	r.CheckoutStarted("stripe", "ok")
	r.CheckoutStarted("paypal", "gateway_unavailable")
	r.StoreLifecycle("archive")
	r.WebhookReceived("stripe", "accepted")
	r.OrderPlaced(1)
	r.EventConsumed("job.purge_expired", "ok")

	assert.InDelta(t, 2, testutil.ToFloat64(r.checkouts.WithLabelValues("stripe", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.checkouts.WithLabelValues("paypal", "gateway_unavailable")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.lifecycle.WithLabelValues("archive")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.webhooks.WithLabelValues("stripe", "accepted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.orders), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.events.WithLabelValues("job.purge_expired", "ok")), 0)
}

func TestRegistry_HandlerExposesHTTPMetrics(t *testing.T) {
	r := New()

	done := r.TrackInFlight()
	r.ObserveRequest(http.MethodGet, "/s/:slug", http.StatusOK, 15*time.Millisecond)
	done()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `majicmall_http_requests_total{method="GET",path="/s/:slug",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "majicmall_http_requests_in_flight 0")
}
