package usecase

import (
	"context"

	"majicmall/internal/domain/entity"
)

// OrderUsecase covers storefront ordering and merchant order management.
type OrderUsecase interface {
	// PlaceOrder creates a pending order on a visible storefront.
	PlaceOrder(ctx context.Context, slug string, input *PlaceOrderInput) (*entity.Order, error)

	ListOrders(ctx context.Context, store *entity.Store) ([]*entity.Order, error)
	GetOrder(ctx context.Context, store *entity.Store, orderID uint) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, store *entity.Store, orderID uint, status entity.OrderStatus) (*entity.Order, error)
}

// PlaceOrderInput lists the requested products. Exactly one of UserID and
// SessionKey identifies the buyer.
type PlaceOrderInput struct {
	UserID     *uint            `json:"-"`
	SessionKey string           `json:"-"`
	Note       string           `json:"note" validate:"max=1000"`
	Items      []OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

// OrderLineInput is one requested product.
type OrderLineInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=1000"`
}
