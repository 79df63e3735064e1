package service

import (
	"context"

	"majicmall/internal/domain/entity"
)

// MetadataReference names the checkout metadata key that gateways use as their
// session reference in place of order_id.
const MetadataReference = "reference"

// CheckoutRequest is the gateway-agnostic input of a checkout.
type CheckoutRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

// CheckoutSession is where the customer should be sent and the gateway's session id.
type CheckoutSession struct {
	RedirectURL string
	SessionID   string
}

// PaymentAdapter starts a hosted checkout with one gateway.
type PaymentAdapter interface {
	Provider() entity.PaymentProvider
	StartCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CheckoutURLs are the callbacks a gateway redirects back to.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

// PaymentAdapterFactory builds an adapter for a configured payment method.
type PaymentAdapterFactory interface {
	// NewAdapter rejects unknown providers with ErrUnknownPaymentProvider.
	NewAdapter(method *entity.PaymentMethod, urls CheckoutURLs) (PaymentAdapter, error)
}
