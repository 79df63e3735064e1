package repository

import (
	"context"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
)

var (
	// ErrPaymentMethodNotFound is returned when a method is not found in the given store.
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	// ErrPlanUpgradeNotFound is returned when no plan checkout matches a session id.
	ErrPlanUpgradeNotFound = errors.New("plan upgrade not found")
)

// PaymentMethodWithStore is a staff listing row.
type PaymentMethodWithStore struct {
	Method    *entity.PaymentMethod
	StoreName string
}

// PaymentMethodRepository defines payment method persistence scoped to a store.
type PaymentMethodRepository interface {
	CreatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error
	FindPaymentMethod(ctx context.Context, storeID, id uint) (*entity.PaymentMethod, error)

	// FindPaymentMethodsByStore orders by is_default desc, provider asc, updated_at desc.
	FindPaymentMethodsByStore(ctx context.Context, storeID uint) ([]*entity.PaymentMethod, error)

	// FindActivePaymentMethods returns active methods ordered by id.
	FindActivePaymentMethods(ctx context.Context, storeID uint) ([]*entity.PaymentMethod, error)

	UpdatePaymentMethod(ctx context.Context, method *entity.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, storeID, id uint) error

	// ClearDefaultExcept unsets is_default on every method of the store except keepID.
	ClearDefaultExcept(ctx context.Context, storeID, keepID uint) error

	// ListAllPaymentMethods returns every method ordered by store name, defaults first.
	ListAllPaymentMethods(ctx context.Context) ([]*PaymentMethodWithStore, error)
}

// PlanUpgradeRepository defines plan checkout persistence.
type PlanUpgradeRepository interface {
	CreatePlanUpgrade(ctx context.Context, upgrade *entity.PlanUpgrade) error
	FindPlanUpgradeBySessionID(ctx context.Context, sessionID string) (*entity.PlanUpgrade, error)
	UpdatePlanUpgrade(ctx context.Context, upgrade *entity.PlanUpgrade) error
}
