package entity

import "time"

// Plan is a subscription tier of a store.
type Plan string

const (
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanElite   Plan = "elite"
)

var planPrices = map[Plan]int64{
	PlanStarter: 900,
	PlanPro:     2900,
	PlanElite:   7900,
}

// Plans lists the tiers in display order.
func Plans() []Plan {
	return []Plan{PlanStarter, PlanPro, PlanElite}
}

// IsValid reports whether p is a known tier.
func (p Plan) IsValid() bool {
	_, ok := planPrices[p]

	return ok
}

// PriceMinor returns the monthly price in minor currency units.
func (p Plan) PriceMinor() int64 {
	return planPrices[p]
}

// PlanUpgradeStatus tracks a plan checkout.
type PlanUpgradeStatus string

const (
	PlanUpgradePending   PlanUpgradeStatus = "pending"
	PlanUpgradeConfirmed PlanUpgradeStatus = "confirmed"
)

// PlanUpgrade records a plan checkout keyed by the gateway session id. The store's
// plan only changes when the upgrade is confirmed.
type PlanUpgrade struct {
	ID          uint
	StoreID     uint
	Plan        Plan
	Provider    PaymentProvider
	SessionID   string
	Status      PlanUpgradeStatus
	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// Confirm marks the upgrade as paid. Confirming twice is a no-op.
func (u *PlanUpgrade) Confirm(now time.Time) bool {
	if u.Status == PlanUpgradeConfirmed {
		return false
	}
	u.Status = PlanUpgradeConfirmed
	u.ConfirmedAt = &now

	return true
}
