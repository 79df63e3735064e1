package entity

import (
	"fmt"
	"time"
)

// PaymentProvider identifies a checkout gateway.
type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderPayPal PaymentProvider = "paypal"
	ProviderCard   PaymentProvider = "card"
)

// IsValid reports whether p is a supported provider.
func (p PaymentProvider) IsValid() bool {
	switch p {
	case ProviderStripe, ProviderPayPal, ProviderCard:
		return true
	default:
		return false
	}
}

// PaymentMode is the gateway environment.
type PaymentMode string

const (
	ModeTest PaymentMode = "test"
	ModeLive PaymentMode = "live"
)

// IsValid reports whether m is test or live.
func (m PaymentMode) IsValid() bool {
	return m == ModeTest || m == ModeLive
}

// PaymentMethod is a store's configured gateway. At most one method per store is default.
type PaymentMethod struct {
	ID          uint
	StoreID     uint
	Provider    PaymentProvider
	DisplayName string
	Mode        PaymentMode
	IsActive    bool
	IsDefault   bool
	Credentials map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label is the display name, falling back to provider and mode.
func (m *PaymentMethod) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}

	return fmt.Sprintf("%s (%s)", m.Provider, m.Mode)
}

// SelectCheckoutMethod picks the active default method, else the first active method
// in the given order. It returns nil when no method is active.
func SelectCheckoutMethod(methods []*PaymentMethod) *PaymentMethod {
	var firstActive *PaymentMethod
	for _, m := range methods {
		if !m.IsActive {
			continue
		}
		if m.IsDefault {
			return m
		}
		if firstActive == nil {
			firstActive = m
		}
	}

	return firstActive
}
