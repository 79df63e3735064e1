package usecase

import (
	"context"

	"majicmall/internal/domain/entity"
)

// CheckoutUsecase orchestrates hosted checkouts, plan upgrades and gateway webhooks.
type CheckoutUsecase interface {
	// StartCheckout charges an order of the store, or the demo amount when orderID is nil.
	StartCheckout(ctx context.Context, store *entity.Store, orderID *uint) (*CheckoutOutput, error)

	ListPlans(ctx context.Context, store *entity.Store) (*PlansOutput, error)

	// StartPlanCheckout records a pending plan upgrade and returns the gateway redirect.
	// An empty provider uses the checkout selection policy.
	StartPlanCheckout(ctx context.Context, store *entity.Store, plan entity.Plan, provider entity.PaymentProvider) (*CheckoutOutput, error)

	// CompletePlanCheckout handles the gateway success redirect of a plan checkout.
	CompletePlanCheckout(ctx context.Context, store *entity.Store, input *PlanReturnInput) (*PlanReturnOutput, error)

	// HandleWebhook verifies and records a gateway notification.
	HandleWebhook(ctx context.Context, provider entity.PaymentProvider, body []byte, signature string) (*WebhookOutput, error)
}

// CheckoutOutput is where the customer should be redirected.
type CheckoutOutput struct {
	RedirectURL string
	SessionID   string
	Provider    entity.PaymentProvider
	AmountMinor int64
	Currency    string
}

// PlanOption is one purchasable tier.
type PlanOption struct {
	Plan       entity.Plan
	PriceMinor int64
	Current    bool
}

// PlansOutput lists tiers and the store's active gateways.
type PlansOutput struct {
	Plans         []PlanOption
	Currency      string
	ActiveMethods []*entity.PaymentMethod
}

// PlanReturnInput is the query of the plan checkout success redirect.
type PlanReturnInput struct {
	SessionID string
	Plan      string
}

// PlanReturnOutput reports the upgrade state after the success redirect.
type PlanReturnOutput struct {
	Plan    entity.Plan
	Status  entity.PlanUpgradeStatus
	Applied bool
	Message string
}

// WebhookOutput describes an accepted webhook.
type WebhookOutput struct {
	EventType        string
	Verified         bool
	UpgradeConfirmed bool
}
