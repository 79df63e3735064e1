// Package handler contains the push endpoint of the event worker.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/constants"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/pubsub"
	"majicmall/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// EventCounter counts handled messages.
type EventCounter interface {
	EventConsumed(eventType, outcome string)
}

// TokenVerifier checks the OIDC token Google attaches to push requests.
type TokenVerifier func(req *http.Request) error

// PushHandler runs scheduled jobs and acknowledges domain events pushed by
// Pub/Sub or by the local HTTP publisher.
type PushHandler struct {
	verify        TokenVerifier
	logger        *slog.Logger
	storeUC       usecase.StoreUsecase
	maintenanceUC usecase.MaintenanceUsecase
	counter       EventCounter
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config        *config.Config
	Logger        *slog.Logger
	StoreUC       usecase.StoreUsecase
	MaintenanceUC usecase.MaintenanceUsecase
	Counter       EventCounter
}

// NewPushHandler verifies push tokens only for the Google provider outside local development.
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		logger:        params.Logger,
		storeUC:       params.StoreUC,
		maintenanceUC: params.MaintenanceUC,
		counter:       params.Counter,
	}

	if params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvLocal {
		h.verify = verifyPubSubToken
	}

	return h
}

// HandlePush answers 503 for retryable failures so Pub/Sub redelivers, and 200
// for everything else so poison messages are dropped.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verify != nil {
		if err := h.verify(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var envelope pubsub.PushEnvelope
	if err := c.Bind(&envelope); err != nil {
		h.logger.Error("[Worker] Failed to parse push envelope", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := envelope.Event()
	if err != nil {
		h.logger.Error("[Worker] Malformed message",
			slog.String("message_id", envelope.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &envelope, event)
	reqLogger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.String("subscription", envelope.Subscription),
	)
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	if err := h.dispatch(ctx, event); err != nil {
		retryable := isRetryableError(err)
		reqLogger.Error("[Worker] Failed to process message",
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		if retryable {
			h.counter.EventConsumed(event.Type, "retry")

			return c.NoContent(http.StatusServiceUnavailable)
		}
		h.counter.EventConsumed(event.Type, "dropped")

		return c.NoContent(http.StatusOK)
	}

	h.counter.EventConsumed(event.Type, "ok")

	return c.NoContent(http.StatusOK)
}

func (h *PushHandler) dispatch(ctx context.Context, event *service.DomainEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	switch event.Type {
	case service.EventJobPurgeExpired:
		purged, err := h.storeUC.PurgeExpired(ctx)
		if err != nil {
			return newRetryableError(err)
		}
		logger.Info("[Worker] Expired stores purged", slog.Int("count", len(purged)), slog.Any("store_ids", purged))

		return nil

	case service.EventJobBackfill:
		result, err := h.maintenanceUC.Backfill(ctx, false)
		if err != nil {
			return newRetryableError(err)
		}
		logger.Info("[Worker] Backfill finished",
			slog.Int("users", result.Users),
			slog.Int("profiles_created", result.ProfilesCreated),
			slog.Int("stores_created", result.StoresCreated),
		)

		return nil

	default:
		if strings.HasPrefix(event.Type, "job.") {
			return errors.Errorf("unknown job %q", event.Type)
		}
		logger.Info("[Worker] Event received", slog.Uint64("store_id", uint64(event.StoreID)))

		return nil
	}
}

// extractRequestID prefers message attributes, then the event, then the incoming request.
func (h *PushHandler) extractRequestID(ctx context.Context, envelope *pubsub.PushEnvelope, event *service.DomainEvent) string {
	if requestID := envelope.Attribute("request_id"); requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	// The audience is the URL of this endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
