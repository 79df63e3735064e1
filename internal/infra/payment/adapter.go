// Package payment holds the checkout gateway adapters. The adapters are local
// stubs that synthesise deterministic session ids and redirect straight to the
// success callback.
package payment

import (
	"context"
	"fmt"
	"net/url"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
)

const (
	metadataOrderID = "order_id"
	defaultRef      = "demo"
	defaultSuccess  = "/merchant/checkout/success"
)

// stubAdapter is shared by every provider; only the session id prefix differs.
type stubAdapter struct {
	provider    entity.PaymentProvider
	credentials map[string]any
	urls        service.CheckoutURLs
	sessionID   func(ref string) string
}

func (a *stubAdapter) Provider() entity.PaymentProvider {
	return a.provider
}

// StartCheckout returns the success URL tagged with the session id and gateway.
func (a *stubAdapter) StartCheckout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s checkout aborted", a.provider)
	}
	if req.AmountMinor <= 0 {
		return nil, errors.Errorf("%s checkout needs a positive amount, got %d", a.provider, req.AmountMinor)
	}

	ref := req.Metadata[service.MetadataReference]
	if ref == "" {
		ref = req.Metadata[metadataOrderID]
	}
	if ref == "" {
		ref = defaultRef
	}
	sessionID := a.sessionID(ref)

	redirect, err := withQuery(a.successURL(), map[string]string{
		"session_id": sessionID,
		"gateway":    string(a.provider),
	})
	if err != nil {
		return nil, err
	}

	return &service.CheckoutSession{RedirectURL: redirect, SessionID: sessionID}, nil
}

func (a *stubAdapter) successURL() string {
	if a.urls.SuccessURL == "" {
		return defaultSuccess
	}

	return a.urls.SuccessURL
}

// NewStripeAdapter builds the Stripe stub. Session ids look like cs_{mode}_{ref}.
func NewStripeAdapter(mode entity.PaymentMode, credentials map[string]any, urls service.CheckoutURLs) service.PaymentAdapter {
	if mode == "" {
		mode = entity.ModeTest
	}

	return &stubAdapter{
		provider:    entity.ProviderStripe,
		credentials: credentials,
		urls:        urls,
		sessionID:   func(ref string) string { return fmt.Sprintf("cs_%s_%s", mode, ref) },
	}
}

// NewPayPalAdapter builds the PayPal stub. Session ids look like pp_sess_{ref}.
func NewPayPalAdapter(credentials map[string]any, urls service.CheckoutURLs) service.PaymentAdapter {
	return &stubAdapter{
		provider:    entity.ProviderPayPal,
		credentials: credentials,
		urls:        urls,
		sessionID:   func(ref string) string { return "pp_sess_" + ref },
	}
}

// NewCardAdapter builds the on-site card stub. Session ids look like card_sess_{ref}.
func NewCardAdapter(credentials map[string]any, urls service.CheckoutURLs) service.PaymentAdapter {
	return &stubAdapter{
		provider:    entity.ProviderCard,
		credentials: credentials,
		urls:        urls,
		sessionID:   func(ref string) string { return "card_sess_" + ref },
	}
}

// withQuery merges params into raw, keeping any query it already carries.
func withQuery(raw string, params map[string]string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid callback url %q", raw)
	}

	query := u.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
