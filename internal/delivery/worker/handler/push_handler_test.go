package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"majicmall/config"
	"majicmall/internal/domain/constants"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/pubsub"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreUsecase struct {
	usecase.StoreUsecase
	purged []uint
	err    error
	calls  int
}

func (f *fakeStoreUsecase) PurgeExpired(context.Context) ([]uint, error) {
	f.calls++

	return f.purged, f.err
}

type fakeMaintenanceUsecase struct {
	usecase.MaintenanceUsecase
	dryRuns []bool
}

func (f *fakeMaintenanceUsecase) Backfill(_ context.Context, dryRun bool) (*usecase.BackfillResult, error) {
	f.dryRuns = append(f.dryRuns, dryRun)

	return &usecase.BackfillResult{Users: 3, StoresCreated: 1}, nil
}

type countingRecorder struct {
	outcomes map[string]string
}

func (r *countingRecorder) EventConsumed(eventType, outcome string) {
	r.outcomes[eventType] = outcome
}

type pushFixture struct {
	handler     *PushHandler
	stores      *fakeStoreUsecase
	maintenance *fakeMaintenanceUsecase
	counter     *countingRecorder
}

func newPushFixture(cfg *config.Config) *pushFixture {
	f := &pushFixture{
		stores:      &fakeStoreUsecase{},
		maintenance: &fakeMaintenanceUsecase{},
		counter:     &countingRecorder{outcomes: map[string]string{}},
	}
	f.handler = NewPushHandler(PushHandlerParams{
		Config:        cfg,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		StoreUC:       f.stores,
		MaintenanceUC: f.maintenance,
		Counter:       f.counter,
	})

	return f
}

func pushBody(t *testing.T, event *service.DomainEvent) string {
	t.Helper()

	envelope, err := pubsub.NewPushEnvelope(event, "projects/test/subscriptions/mall-events")
	require.NoError(t, err)

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	return string(raw)
}

func (f *pushFixture) push(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, f.handler.HandlePush(e.NewContext(req, rec)))

	return rec
}

func TestHandlePush_Jobs(t *testing.T) {
	f := newPushFixture(&config.Config{})
	f.stores.purged = []uint{4, 9}

	rec := f.push(t, pushBody(t, service.NewEvent(service.EventJobPurgeExpired, 0, nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.stores.calls)
	assert.Equal(t, "ok", f.counter.outcomes[service.EventJobPurgeExpired])

	rec = f.push(t, pushBody(t, service.NewEvent(service.EventJobBackfill, 0, nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false}, f.maintenance.dryRuns)
}

func TestHandlePush_FailedJobIsRetried(t *testing.T) {
	f := newPushFixture(&config.Config{})
	f.stores.err = errors.New("database unavailable")

	rec := f.push(t, pushBody(t, service.NewEvent(service.EventJobPurgeExpired, 0, nil)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "retry", f.counter.outcomes[service.EventJobPurgeExpired])
}

func TestHandlePush_UnknownJobIsDropped(t *testing.T) {
	f := newPushFixture(&config.Config{})

	rec := f.push(t, pushBody(t, service.NewEvent("job.reindex", 0, nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dropped", f.counter.outcomes["job.reindex"])
}

func TestHandlePush_DomainEventsAreAcknowledged(t *testing.T) {
	f := newPushFixture(&config.Config{})

	rec := f.push(t, pushBody(t, service.NewEvent(service.EventOrderPlaced, 7, map[string]any{"order_id": 1})))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", f.counter.outcomes[service.EventOrderPlaced])
	assert.Zero(t, f.stores.calls)
}

func TestHandlePush_MalformedMessages(t *testing.T) {
	f := newPushFixture(&config.Config{})

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "data not base64", body: `{"message":{"data":"%%%"}}`},
		{name: "data not an event", body: `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("[]")) + `"}}`},
		{name: "event without type", body: `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte(`{"id":"x"}`)) + `"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.push(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, f.counter.outcomes)
}

func TestNewPushHandler_TokenVerification(t *testing.T) {
	google := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	google.Env.Env = "production"
	assert.NotNil(t, newPushFixture(google).handler.verify)

	local := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	local.Env.Env = constants.EnvLocal
	assert.Nil(t, newPushFixture(local).handler.verify)

	assert.Nil(t, newPushFixture(&config.Config{}).handler.verify)
}

func TestHandlePush_RejectsUnverifiedToken(t *testing.T) {
	f := newPushFixture(&config.Config{})
	f.handler.verify = func(*http.Request) error { return errors.New("bad token") }

	rec := f.push(t, pushBody(t, service.NewEvent(service.EventJobPurgeExpired, 0, nil)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.stores.calls)
}

func TestExtractRequestID(t *testing.T) {
	f := newPushFixture(&config.Config{})

	msg := &pubsub.PushEnvelope{}
	msg.Message.Attributes = map[string]string{"request_id": "from-attributes"}
	assert.Equal(t, "from-attributes", f.handler.extractRequestID(context.Background(), msg, &service.DomainEvent{RequestID: "from-event"}))

	assert.Equal(t, "from-event", f.handler.extractRequestID(context.Background(), &pubsub.PushEnvelope{}, &service.DomainEvent{RequestID: "from-event"}))

	assert.NotEmpty(t, f.handler.extractRequestID(context.Background(), &pubsub.PushEnvelope{}, &service.DomainEvent{}))
}
