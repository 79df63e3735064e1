package payment

import (
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/service"
)

type adapterFactory struct{}

// NewAdapterFactory returns the factory over the closed set of supported gateways.
func NewAdapterFactory() service.PaymentAdapterFactory {
	return &adapterFactory{}
}

// NewAdapter builds the adapter matching the method's provider.
func (f *adapterFactory) NewAdapter(method *entity.PaymentMethod, urls service.CheckoutURLs) (service.PaymentAdapter, error) {
	if method == nil {
		return nil, domainerrors.ErrNoActivePaymentMethod
	}

	switch method.Provider {
	case entity.ProviderStripe:
		return NewStripeAdapter(method.Mode, method.Credentials, urls), nil
	case entity.ProviderPayPal:
		return NewPayPalAdapter(method.Credentials, urls), nil
	case entity.ProviderCard:
		return NewCardAdapter(method.Credentials, urls), nil
	default:
		return nil, domainerrors.ErrUnknownPaymentProvider.WrapMessage(string(method.Provider))
	}
}
