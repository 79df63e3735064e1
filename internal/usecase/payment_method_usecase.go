package usecase

import (
	"context"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"
)

// PaymentMethodUsecase manages the gateways configured for the resolved store.
type PaymentMethodUsecase interface {
	ListPaymentMethods(ctx context.Context, store *entity.Store) ([]*entity.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, store *entity.Store, input *PaymentMethodInput) (*entity.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, store *entity.Store, methodID uint, input *PaymentMethodInput) (*entity.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, store *entity.Store, methodID uint) error

	// ListAllPaymentMethods is the staff-wide listing.
	ListAllPaymentMethods(ctx context.Context) ([]*repository.PaymentMethodWithStore, error)
}

// PaymentMethodInput defines payment method fields.
type PaymentMethodInput struct {
	Provider    entity.PaymentProvider `json:"provider" validate:"required,oneof=stripe paypal card"`
	DisplayName string                 `json:"display_name" validate:"max=100"`
	Mode        entity.PaymentMode     `json:"mode" validate:"required,oneof=test live"`
	IsActive    bool                   `json:"is_active"`
	IsDefault   bool                   `json:"is_default"`
	Credentials map[string]any         `json:"credentials"`
}
