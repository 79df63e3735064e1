package impl

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	defaultGatewayTimeout = 10 * time.Second

	stripeCompletedEvent = "checkout.session.completed"
	paypalApprovedEvent  = "CHECKOUT.ORDER.APPROVED"
)

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	txManager          repository.TransactionManager
	orderRepo          repository.OrderRepository
	paymentMethodRepo  repository.PaymentMethodRepository
	planUpgradeRepo    repository.PlanUpgradeRepository
	adapters           service.PaymentAdapterFactory
	publisher          service.EventPublisher
	metrics            service.MetricsRecorder
	clock              service.Clock
	baseURL            string
	currency           string
	demoAmountMinor    int64
	gatewayTimeout     time.Duration
	requireWebhookConf bool
	webhookSecrets     map[entity.PaymentProvider]string
	logger             *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	OrderRepo         repository.OrderRepository
	PaymentMethodRepo repository.PaymentMethodRepository
	PlanUpgradeRepo   repository.PlanUpgradeRepository
	Adapters          service.PaymentAdapterFactory
	Publisher         service.EventPublisher
	Metrics           service.MetricsRecorder
	Clock             service.Clock
	Config            *config.Config
	Logger            *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	srv := &checkoutService{
		txManager:          params.TxManager,
		orderRepo:          params.OrderRepo,
		paymentMethodRepo:  params.PaymentMethodRepo,
		planUpgradeRepo:    params.PlanUpgradeRepo,
		adapters:           params.Adapters,
		publisher:          params.Publisher,
		metrics:            params.Metrics,
		clock:              params.Clock,
		currency:           "usd",
		demoAmountMinor:    2599,
		gatewayTimeout:     defaultGatewayTimeout,
		requireWebhookConf: true,
		webhookSecrets:     map[entity.PaymentProvider]string{},
		logger:             params.Logger,
	}

	if cfg := params.Config; cfg != nil {
		srv.baseURL = strings.TrimRight(cfg.HTTP.PublicBaseURL, "/")
		if payments := cfg.Payments; payments != nil {
			if payments.Currency != "" {
				srv.currency = payments.Currency
			}
			if payments.DemoAmountMinor > 0 {
				srv.demoAmountMinor = payments.DemoAmountMinor
			}
			if payments.GatewayTimeout > 0 {
				srv.gatewayTimeout = payments.GatewayTimeout
			}
			srv.requireWebhookConf = payments.RequireWebhookConfirmation
			srv.webhookSecrets[entity.ProviderStripe] = payments.WebhookSecrets.Stripe
			srv.webhookSecrets[entity.ProviderPayPal] = payments.WebhookSecrets.PayPal
		}
	}

	return srv
}

func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// StartCheckout charges an order, or the demo amount when no order is given.
func (srv *checkoutService) StartCheckout(ctx context.Context, store *entity.Store, orderID *uint) (*usecase.CheckoutOutput, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	method, err := srv.selectMethod(ctx, store.ID, "")
	if err != nil {
		return nil, err
	}

	amount := srv.demoAmountMinor
	orderRef := "demo"
	if orderID != nil {
		order, err := findOrder(ctx, srv.orderRepo, store.ID, *orderID)
		if err != nil {
			return nil, err
		}
		amount = entity.MinorUnits(order.Total)
		orderRef = strconv.FormatUint(uint64(order.ID), 10)
	}

	urls := service.CheckoutURLs{
		SuccessURL: srv.baseURL + "/merchant/checkout/success",
		CancelURL:  srv.baseURL + "/merchant/checkout/cancel",
	}
	req := service.CheckoutRequest{
		AmountMinor: amount,
		Currency:    srv.currency,
		Metadata: map[string]string{
			"store_id": strconv.FormatUint(uint64(store.ID), 10),
			"order_id": orderRef,
		},
	}

	session, err := srv.startGateway(ctx, method, urls, req)
	if err != nil {
		return nil, err
	}

	return &usecase.CheckoutOutput{
		RedirectURL: session.RedirectURL,
		SessionID:   session.SessionID,
		Provider:    method.Provider,
		AmountMinor: amount,
		Currency:    srv.currency,
	}, nil
}

// selectMethod applies the selection policy. An explicit provider must have an
// active method of its own.
func (srv *checkoutService) selectMethod(ctx context.Context, storeID uint, provider entity.PaymentProvider) (*entity.PaymentMethod, error) {
	methods, err := srv.paymentMethodRepo.FindActivePaymentMethods(ctx, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active payment methods")
	}

	if provider != "" {
		for _, m := range methods {
			if m.Provider == provider {
				return m, nil
			}
		}

		return nil, domainerrors.ErrPaymentProviderInactive.WrapMessage(titleCase(string(provider)) + " is not active")
	}

	method := entity.SelectCheckoutMethod(methods)
	if method == nil {
		return nil, domainerrors.ErrNoActivePaymentMethod.WrapMessage("No active payment method. Add one in Payment Settings.")
	}

	return method, nil
}

type gatewayResult struct {
	session *service.CheckoutSession
	err     error
}

// startGateway calls the adapter under the gateway timeout. Any failure is
// reported as a retryable gateway error.
func (srv *checkoutService) startGateway(
	ctx context.Context,
	method *entity.PaymentMethod,
	urls service.CheckoutURLs,
	req service.CheckoutRequest,
) (*service.CheckoutSession, error) {
	adapter, err := srv.adapters.NewAdapter(method, urls)
	if err != nil {
		srv.metrics.CheckoutStarted(string(method.Provider), "rejected")

		return nil, err
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, srv.gatewayTimeout)
	defer cancel()

	done := make(chan gatewayResult, 1)
	go func() {
		session, err := adapter.StartCheckout(gatewayCtx, req)
		done <- gatewayResult{session: session, err: err}
	}()

	var result gatewayResult
	select {
	case result = <-done:
	case <-gatewayCtx.Done():
		result.err = gatewayCtx.Err()
	}

	provider := string(adapter.Provider())
	if result.err == nil && result.session == nil {
		result.err = errors.New("gateway returned no session")
	}
	if result.err != nil {
		outcome := "error"
		if errors.Is(result.err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		srv.metrics.CheckoutStarted(provider, outcome)
		srv.log(ctx).Error("Payment gateway failed",
			slog.String("provider", provider),
			slog.String("outcome", outcome),
			slog.Any("error", result.err))

		return nil, domainerrors.ErrGatewayUnavailable.WrapMessage(result.err.Error())
	}

	srv.metrics.CheckoutStarted(provider, "ok")
	srv.log(ctx).Info("Checkout started",
		slog.String("provider", provider),
		slog.String("sessionID", result.session.SessionID),
		slog.Int64("amountMinor", req.AmountMinor))

	return result.session, nil
}

// ListPlans returns every tier and the store's active methods, default first.
func (srv *checkoutService) ListPlans(ctx context.Context, store *entity.Store) (*usecase.PlansOutput, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	methods, err := srv.paymentMethodRepo.FindPaymentMethodsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load payment methods")
	}
	active := make([]*entity.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.IsActive {
			active = append(active, m)
		}
	}

	plans := make([]usecase.PlanOption, 0, len(entity.Plans()))
	for _, plan := range entity.Plans() {
		plans = append(plans, usecase.PlanOption{
			Plan:       plan,
			PriceMinor: plan.PriceMinor(),
			Current:    store.Plan == plan,
		})
	}

	return &usecase.PlansOutput{Plans: plans, Currency: srv.currency, ActiveMethods: active}, nil
}

// StartPlanCheckout records a pending upgrade keyed by the gateway session id.
func (srv *checkoutService) StartPlanCheckout(
	ctx context.Context,
	store *entity.Store,
	plan entity.Plan,
	provider entity.PaymentProvider,
) (*usecase.CheckoutOutput, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}
	plan = entity.Plan(strings.ToLower(string(plan)))
	if !plan.IsValid() {
		return nil, domainerrors.ErrInvalidPlan.WrapMessage("Unknown plan.")
	}
	provider = entity.PaymentProvider(strings.ToLower(string(provider)))

	method, err := srv.selectMethod(ctx, store.ID, provider)
	if err != nil {
		return nil, err
	}

	urls := service.CheckoutURLs{
		SuccessURL: srv.baseURL + "/merchant/plans/success?plan=" + url.QueryEscape(string(plan)),
		CancelURL:  srv.baseURL + "/merchant/plans/cancel",
	}
	req := service.CheckoutRequest{
		AmountMinor: plan.PriceMinor(),
		Currency:    srv.currency,
		Metadata: map[string]string{
			"store_id":                strconv.FormatUint(uint64(store.ID), 10),
			"plan":                    string(plan),
			"purchase_type":           "subscription",
			service.MetadataReference: "plan_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		},
	}

	session, err := srv.startGateway(ctx, method, urls, req)
	if err != nil {
		return nil, err
	}

	upgrade := &entity.PlanUpgrade{
		StoreID:   store.ID,
		Plan:      plan,
		Provider:  method.Provider,
		SessionID: session.SessionID,
		Status:    entity.PlanUpgradePending,
	}
	if err := srv.planUpgradeRepo.CreatePlanUpgrade(ctx, upgrade); err != nil {
		return nil, errors.Wrap(err, "failed to record plan checkout")
	}

	return &usecase.CheckoutOutput{
		RedirectURL: session.RedirectURL,
		SessionID:   session.SessionID,
		Provider:    method.Provider,
		AmountMinor: req.AmountMinor,
		Currency:    srv.currency,
	}, nil
}

// CompletePlanCheckout reports the upgrade state on the success redirect. With
// webhook confirmation disabled the plan is applied right away.
func (srv *checkoutService) CompletePlanCheckout(ctx context.Context, store *entity.Store, input *usecase.PlanReturnInput) (*usecase.PlanReturnOutput, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}
	if input == nil {
		input = &usecase.PlanReturnInput{}
	}

	if input.SessionID == "" {
		if srv.requireWebhookConf {
			return nil, domainerrors.ErrPlanUpgradeNotFound.WrapMessage("session_id is required")
		}

		return srv.applyLegacyPlan(ctx, store, input.Plan)
	}

	upgrade, err := srv.planUpgradeRepo.FindPlanUpgradeBySessionID(ctx, input.SessionID)
	if errors.Is(err, repository.ErrPlanUpgradeNotFound) || (err == nil && upgrade.StoreID != store.ID) {
		return nil, domainerrors.ErrPlanUpgradeNotFound.WrapMessage(input.SessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find plan checkout")
	}

	if !srv.requireWebhookConf && upgrade.Status != entity.PlanUpgradeConfirmed {
		if _, _, err := srv.confirmUpgrade(ctx, upgrade.SessionID); err != nil {
			return nil, err
		}
		upgrade.Status = entity.PlanUpgradeConfirmed
	}

	out := &usecase.PlanReturnOutput{Plan: upgrade.Plan, Status: upgrade.Status}
	if upgrade.Status == entity.PlanUpgradeConfirmed {
		out.Applied = true
		out.Message = fmt.Sprintf("Your plan has been updated to %s.", titleCase(string(upgrade.Plan)))
	} else {
		out.Message = "Payment approved. Your plan will change once the payment is confirmed."
	}

	return out, nil
}

// applyLegacyPlan trusts the plan named in the redirect query.
func (srv *checkoutService) applyLegacyPlan(ctx context.Context, store *entity.Store, rawPlan string) (*usecase.PlanReturnOutput, error) {
	plan := entity.Plan(strings.ToLower(rawPlan))
	if !plan.IsValid() {
		return &usecase.PlanReturnOutput{Message: "Payment approved (demo), but plan was unknown."}, nil
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		storeRepo := repos.NewStoreRepository()
		current, err := lockedStore(ctx, storeRepo, store.ID, nil)
		if err != nil {
			return err
		}
		current.Plan = plan

		return storeRepo.UpdateStore(ctx, current)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply plan")
	}

	srv.log(ctx).Info("Plan applied from redirect", slog.Uint64("storeID", uint64(store.ID)), slog.String("plan", string(plan)))

	return &usecase.PlanReturnOutput{
		Plan:    plan,
		Status:  entity.PlanUpgradeConfirmed,
		Applied: true,
		Message: fmt.Sprintf("Your plan has been updated to %s.", titleCase(string(plan))),
	}, nil
}

// confirmUpgrade marks the upgrade confirmed and applies its plan to the store in
// one transaction. Confirming twice is a no-op.
func (srv *checkoutService) confirmUpgrade(ctx context.Context, sessionID string) (*entity.PlanUpgrade, bool, error) {
	now := srv.clock.Now()

	var (
		upgrade *entity.PlanUpgrade
		applied bool
	)
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		upgradeRepo := repos.NewPlanUpgradeRepository()
		storeRepo := repos.NewStoreRepository()

		found, err := upgradeRepo.FindPlanUpgradeBySessionID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrPlanUpgradeNotFound) {
				return domainerrors.ErrPlanUpgradeNotFound.WrapMessage(sessionID)
			}

			return errors.Wrap(err, "failed to find plan checkout")
		}
		upgrade = found

		store, err := lockedStore(ctx, storeRepo, found.StoreID, nil)
		if err != nil {
			return err
		}
		// Re-read under the store lock so concurrent confirmations apply once.
		found, err = upgradeRepo.FindPlanUpgradeBySessionID(ctx, sessionID)
		if err != nil {
			return errors.Wrap(err, "failed to re-read plan checkout")
		}
		upgrade = found
		if !found.Confirm(now) {
			return nil
		}
		if err := upgradeRepo.UpdatePlanUpgrade(ctx, found); err != nil {
			return errors.Wrap(err, "failed to confirm plan checkout")
		}

		store.Plan = found.Plan
		if err := storeRepo.UpdateStore(ctx, store); err != nil {
			return mapStoreNotFound(err, "failed to apply plan")
		}
		applied = true

		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to confirm plan upgrade")
	}

	if applied {
		logger := srv.log(ctx)
		logger.Info("Plan upgrade confirmed",
			slog.Uint64("storeID", uint64(upgrade.StoreID)),
			slog.String("plan", string(upgrade.Plan)),
			slog.String("sessionID", sessionID))
		publish(ctx, logger, srv.publisher, service.NewEvent(service.EventPlanUpgraded, upgrade.StoreID, map[string]any{
			"plan":       upgrade.Plan,
			"provider":   upgrade.Provider,
			"session_id": sessionID,
		}))
	}

	return upgrade, applied, nil
}

// HandleWebhook accepts any JSON object. When a signing secret is configured the
// signature must match, and only then can a completion event confirm an upgrade.
func (srv *checkoutService) HandleWebhook(
	ctx context.Context,
	provider entity.PaymentProvider,
	body []byte,
	signature string,
) (*usecase.WebhookOutput, error) {
	if provider != entity.ProviderStripe && provider != entity.ProviderPayPal {
		return nil, domainerrors.ErrUnknownPaymentProvider.WrapMessage(string(provider))
	}

	event, err := decodeWebhook(body)
	if err != nil {
		srv.metrics.WebhookReceived(string(provider), "invalid")

		return nil, err
	}

	out := &usecase.WebhookOutput{}
	if secret := srv.webhookSecrets[provider]; secret != "" {
		if !validSignature(secret, body, signature) {
			srv.metrics.WebhookReceived(string(provider), "bad_signature")
			srv.log(ctx).Warn("Webhook signature mismatch", slog.String("provider", string(provider)))

			return nil, domainerrors.ErrWebhookSignatureInvalid.WrapMessage(string(provider))
		}
		out.Verified = true
	}

	eventType, sessionID, completed := webhookFields(provider, event)
	out.EventType = eventType

	if out.Verified && completed && sessionID != "" {
		_, applied, err := srv.confirmUpgrade(ctx, sessionID)
		switch {
		case errors.Is(err, domainerrors.ErrPlanUpgradeNotFound):
			srv.log(ctx).Info("Webhook session has no plan checkout", slog.String("sessionID", sessionID))
		case err != nil:
			srv.metrics.WebhookReceived(string(provider), "error")

			return nil, err
		default:
			out.UpgradeConfirmed = applied
		}
	}

	outcome := "accepted"
	if out.UpgradeConfirmed {
		outcome = "confirmed"
	}
	srv.metrics.WebhookReceived(string(provider), outcome)
	publish(ctx, srv.log(ctx), srv.publisher, service.NewEvent(service.EventPaymentWebhook, 0, map[string]any{
		"provider":   provider,
		"event_type": eventType,
		"session_id": sessionID,
		"verified":   out.Verified,
		"confirmed":  out.UpgradeConfirmed,
	}))

	return out, nil
}

func decodeWebhook(body []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, domainerrors.ErrInvalidWebhookPayload.WrapMessage(err.Error())
	}
	if event == nil {
		return nil, domainerrors.ErrInvalidWebhookPayload.WrapMessage("payload is null")
	}

	return event, nil
}

// validSignature compares the hex HMAC-SHA256 of body in constant time.
func validSignature(secret string, body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(got, mac.Sum(nil))
}

// webhookFields extracts the event type and gateway session id.
func webhookFields(provider entity.PaymentProvider, event map[string]any) (eventType, sessionID string, completed bool) {
	switch provider {
	case entity.ProviderStripe:
		eventType, _ = event["type"].(string)
		data, _ := event["data"].(map[string]any)
		object, _ := data["object"].(map[string]any)
		sessionID, _ = object["id"].(string)

		return eventType, sessionID, eventType == stripeCompletedEvent
	case entity.ProviderPayPal:
		eventType, _ = event["event_type"].(string)
		resource, _ := event["resource"].(map[string]any)
		sessionID, _ = resource["id"].(string)

		return eventType, sessionID, eventType == paypalApprovedEvent
	default:
		return "", "", false
	}
}

// titleCase upper-cases the first letter and lower-cases the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
