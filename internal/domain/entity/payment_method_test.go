package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCheckoutMethod(t *testing.T) {
	inactiveDefault := &PaymentMethod{ID: 1, IsDefault: true, IsActive: false}
	firstActive := &PaymentMethod{ID: 2, IsActive: true}
	activeDefault := &PaymentMethod{ID: 3, IsActive: true, IsDefault: true}

	tests := []struct {
		name    string
		methods []*PaymentMethod
		want    *PaymentMethod
	}{
		{"prefers active default", []*PaymentMethod{firstActive, activeDefault}, activeDefault},
		{"falls back to first active", []*PaymentMethod{inactiveDefault, firstActive}, firstActive},
		{"none active", []*PaymentMethod{inactiveDefault}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectCheckoutMethod(tt.methods))
		})
	}
}

func TestPaymentMethod_Label(t *testing.T) {
	assert.Equal(t, "Main", (&PaymentMethod{DisplayName: "Main"}).Label())
	assert.Equal(t, "stripe (test)", (&PaymentMethod{Provider: ProviderStripe, Mode: ModeTest}).Label())
}

func TestPlan_PriceMinor(t *testing.T) {
	assert.Equal(t, int64(900), PlanStarter.PriceMinor())
	assert.Equal(t, int64(2900), PlanPro.PriceMinor())
	assert.Equal(t, int64(7900), PlanElite.PriceMinor())
	assert.False(t, Plan("platinum").IsValid())
}
